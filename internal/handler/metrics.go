package handler

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	httpRequestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"path", "method", "status"},
	)
	httpRequestDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "Duration of HTTP requests",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"path", "method"},
	)
	authRejections = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "auth_rejections_total",
			Help: "Total number of unauthorized requests",
		},
		[]string{"reason"},
	)
)

// InitMetrics 注册全部指标，进程内只调用一次
func InitMetrics() {
	prometheus.MustRegister(httpRequestsTotal)
	prometheus.MustRegister(httpRequestDuration)
	prometheus.MustRegister(authRejections)
}

// MetricsMiddleware 统计请求量、耗时与认证拒绝次数。
// 标签使用路由模板而不是实际路径，避免 /api/habits/123 之类的高基数标签。
func MetricsMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		path := c.FullPath()
		if path == "" {
			path = "unmatched"
		}

		status := c.Writer.Status()
		httpRequestsTotal.WithLabelValues(path, c.Request.Method, strconv.Itoa(status)).Inc()
		httpRequestDuration.WithLabelValues(path, c.Request.Method).Observe(time.Since(start).Seconds())

		if status == http.StatusUnauthorized {
			authRejections.WithLabelValues("401_unauthorized").Inc()
		}
	}
}

// MetricsHandler 暴露 /metrics，使用 Basic Auth 保护
func MetricsHandler(user, pass string) gin.HandlerFunc {
	promHandler := promhttp.Handler()
	return func(c *gin.Context) {
		reqUser, reqPass, ok := c.Request.BasicAuth()
		if !ok || reqUser != user || reqPass != pass {
			c.Header("WWW-Authenticate", `Basic realm="Metrics"`)
			respondError(c, http.StatusUnauthorized, "unauthorized")
			return
		}
		promHandler.ServeHTTP(c.Writer, c.Request)
	}
}
