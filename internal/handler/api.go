package handler

import (
	"time"

	"github.com/habitlog/internal/service"
	"gorm.io/gorm"
)

// API bundles shared dependencies for HTTP handlers.
type API struct {
	db       *gorm.DB
	auth     *service.AuthService
	habits   *service.HabitService
	tracking *service.TrackingService
	now      func() time.Time
}

// NewAPI constructs a handler set with shared services.
func NewAPI(gdb *gorm.DB) *API {
	return &API{
		db:       gdb,
		auth:     service.NewAuthService(gdb),
		habits:   service.NewHabitService(gdb),
		tracking: service.NewTrackingService(gdb),
		now:      time.Now,
	}
}

// WithClock 替换"今天"的时间源，仅测试使用
func (a *API) WithClock(now func() time.Time) *API {
	a.now = now
	return a
}
