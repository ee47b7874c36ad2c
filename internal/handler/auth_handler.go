package handler

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/habitlog/internal/service"
)

const userIDContextKey = "__user_id"

type credentialsPayload struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// Register 处理用户注册，成功后直接返回可用的会话令牌
func (a *API) Register(c *gin.Context) {
	var payload credentialsPayload
	if !bindJSON(c, &payload, "invalid request body") {
		return
	}

	token, err := a.auth.Register(payload.Username, payload.Password)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrDuplicateUsername):
			respondError(c, http.StatusConflict, "username already taken")
		case errors.Is(err, service.ErrInvalidRegistration):
			respondError(c, http.StatusBadRequest, "username and password are required")
		default:
			respondError(c, http.StatusInternalServerError, "registration failed")
		}
		return
	}

	c.JSON(http.StatusCreated, gin.H{"token": token})
}

// Login 处理用户登录
func (a *API) Login(c *gin.Context) {
	var payload credentialsPayload
	if !bindJSON(c, &payload, "invalid request body") {
		return
	}

	token, err := a.auth.Login(payload.Username, payload.Password)
	if err != nil {
		if errors.Is(err, service.ErrInvalidCredentials) {
			// 统一口径，不暴露用户名是否存在
			respondError(c, http.StatusUnauthorized, "invalid username or password")
			return
		}
		respondError(c, http.StatusInternalServerError, "login failed")
		return
	}

	c.JSON(http.StatusOK, gin.H{"token": token})
}

// Logout 撤销当前请求携带的令牌
func (a *API) Logout(c *gin.Context) {
	token, ok := bearerToken(c)
	if !ok {
		respondError(c, http.StatusUnauthorized, "authentication required")
		return
	}

	if err := a.auth.Logout(token); err != nil {
		respondError(c, http.StatusInternalServerError, "logout failed")
		return
	}

	c.Status(http.StatusNoContent)
}

// AuthRequired 校验 Authorization: Bearer <token> 并将用户 ID 写入上下文
func (a *API) AuthRequired() gin.HandlerFunc {
	return func(c *gin.Context) {
		token, ok := bearerToken(c)
		if !ok {
			respondError(c, http.StatusUnauthorized, "authentication required")
			c.Abort()
			return
		}

		userID, err := a.auth.Resolve(token)
		if err != nil {
			if errors.Is(err, service.ErrUnauthenticated) {
				respondError(c, http.StatusUnauthorized, "invalid or expired token")
			} else {
				respondError(c, http.StatusInternalServerError, "authentication failed")
			}
			c.Abort()
			return
		}

		c.Set(userIDContextKey, userID)
		c.Next()
	}
}

func bearerToken(c *gin.Context) (string, bool) {
	header := c.GetHeader("Authorization")
	if header == "" {
		return "", false
	}

	token := strings.TrimPrefix(header, "Bearer ")
	if token == header || strings.TrimSpace(token) == "" {
		return "", false
	}
	return strings.TrimSpace(token), true
}

func currentUserID(c *gin.Context) uint {
	if value, exists := c.Get(userIDContextKey); exists {
		if id, ok := value.(uint); ok {
			return id
		}
	}
	return 0
}
