package handler

import (
	"bytes"
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/habitlog/internal/db"
	"github.com/habitlog/internal/service"
	"github.com/habitlog/internal/streak"
	"github.com/microcosm-cc/bluemonday"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/renderer/html"
)

const (
	recentWindowSize = 10
	dateFormat       = "2006-01-02"
)

var (
	markdownEngine = goldmark.New(
		goldmark.WithExtensions(extension.GFM, extension.Linkify),
		goldmark.WithRendererOptions(html.WithHardWraps(), html.WithXHTML()),
	)
	sanitizer = bluemonday.UGCPolicy()
)

type habitPayload struct {
	ID            uint   `json:"id"`
	Name          string `json:"name"`
	Description   string `json:"description"`
	TrackedToday  bool   `json:"trackedToday"`
	Last10Days    []bool `json:"last10Days"`
	CurrentStreak int    `json:"currentStreak"`
	LongestStreak int    `json:"longestStreak"`
	CreatedAt     string `json:"createdAt"`
}

type createHabitPayload struct {
	Name        string `json:"name"`
	Description string `json:"description"`
}

type updateHabitPayload struct {
	Name        *string `json:"name"`
	Description *string `json:"description"`
}

type trackHabitPayload struct {
	Day string `json:"day"`
}

// habitToPayload 组装带派生统计的习惯视图，统计口径完全由 streak 包给出
func (a *API) habitToPayload(habit db.Habit) (habitPayload, error) {
	days, err := a.tracking.TrackedDays(habit.ID)
	if err != nil {
		return habitPayload{}, err
	}

	today := a.now()
	return habitPayload{
		ID:            habit.ID,
		Name:          habit.Name,
		Description:   habit.Description,
		TrackedToday:  streak.IsTrackedToday(days, today),
		Last10Days:    streak.RecentWindow(days, today, recentWindowSize),
		CurrentStreak: streak.CurrentStreak(days, today),
		LongestStreak: streak.LongestStreak(days),
		CreatedAt:     habit.CreatedAt.Format(time.RFC3339),
	}, nil
}

// ListHabits 返回当前用户的全部习惯及派生统计
func (a *API) ListHabits(c *gin.Context) {
	habits, err := a.habits.List(currentUserID(c))
	if err != nil {
		respondError(c, http.StatusInternalServerError, "failed to list habits")
		return
	}

	items := make([]habitPayload, 0, len(habits))
	for _, habit := range habits {
		payload, err := a.habitToPayload(habit)
		if err != nil {
			respondError(c, http.StatusInternalServerError, "failed to list habits")
			return
		}
		items = append(items, payload)
	}

	c.JSON(http.StatusOK, items)
}

// CreateHabit 新建习惯
func (a *API) CreateHabit(c *gin.Context) {
	var payload createHabitPayload
	if !bindJSON(c, &payload, "invalid request body") {
		return
	}

	habit, err := a.habits.Create(currentUserID(c), payload.Name, payload.Description)
	if err != nil {
		if errors.Is(err, service.ErrHabitNameRequired) {
			respondError(c, http.StatusBadRequest, "habit name is required")
			return
		}
		respondError(c, http.StatusInternalServerError, "failed to create habit")
		return
	}

	view, err := a.habitToPayload(*habit)
	if err != nil {
		respondError(c, http.StatusInternalServerError, "failed to create habit")
		return
	}

	c.JSON(http.StatusCreated, view)
}

// GetHabit 返回单个习惯详情，附带渲染并消毒后的描述 HTML
func (a *API) GetHabit(c *gin.Context) {
	habitID, err := parseUintParam(c, "id")
	if err != nil {
		respondError(c, http.StatusNotFound, "habit not found")
		return
	}

	habit, err := a.habits.Get(currentUserID(c), habitID)
	if err != nil {
		if errors.Is(err, service.ErrHabitNotFound) {
			respondError(c, http.StatusNotFound, "habit not found")
			return
		}
		respondError(c, http.StatusInternalServerError, "failed to load habit")
		return
	}

	view, err := a.habitToPayload(*habit)
	if err != nil {
		respondError(c, http.StatusInternalServerError, "failed to load habit")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"id":              view.ID,
		"name":            view.Name,
		"description":     view.Description,
		"descriptionHtml": renderDescription(habit.Description),
		"trackedToday":    view.TrackedToday,
		"last10Days":      view.Last10Days,
		"currentStreak":   view.CurrentStreak,
		"longestStreak":   view.LongestStreak,
		"createdAt":       view.CreatedAt,
	})
}

// UpdateHabit 更新习惯名称或描述，未提供的字段保持不变
func (a *API) UpdateHabit(c *gin.Context) {
	habitID, err := parseUintParam(c, "id")
	if err != nil {
		respondError(c, http.StatusNotFound, "habit not found")
		return
	}

	var payload updateHabitPayload
	if !bindJSON(c, &payload, "invalid request body") {
		return
	}

	habit, err := a.habits.Update(currentUserID(c), habitID, service.HabitUpdate{
		Name:        payload.Name,
		Description: payload.Description,
	})
	if err != nil {
		switch {
		case errors.Is(err, service.ErrHabitNotFound):
			respondError(c, http.StatusNotFound, "habit not found")
		case errors.Is(err, service.ErrHabitNameRequired):
			respondError(c, http.StatusBadRequest, "habit name is required")
		default:
			respondError(c, http.StatusInternalServerError, "failed to update habit")
		}
		return
	}

	view, err := a.habitToPayload(*habit)
	if err != nil {
		respondError(c, http.StatusInternalServerError, "failed to update habit")
		return
	}

	c.JSON(http.StatusOK, view)
}

// DeleteHabit 删除习惯并级联清理打卡记录
func (a *API) DeleteHabit(c *gin.Context) {
	habitID, err := parseUintParam(c, "id")
	if err != nil {
		respondError(c, http.StatusNotFound, "habit not found")
		return
	}

	if err := a.habits.Delete(currentUserID(c), habitID); err != nil {
		if errors.Is(err, service.ErrHabitNotFound) {
			respondError(c, http.StatusNotFound, "habit not found")
			return
		}
		respondError(c, http.StatusInternalServerError, "failed to delete habit")
		return
	}

	c.Status(http.StatusNoContent)
}

// TrackHabit 登记打卡。默认打当天，请求体可携带 day 字段补打指定日期。
// 同一天重复打卡是幂等的成功。
func (a *API) TrackHabit(c *gin.Context) {
	habitID, err := parseUintParam(c, "id")
	if err != nil {
		respondError(c, http.StatusNotFound, "habit not found")
		return
	}

	day := a.now()
	if c.Request.ContentLength > 0 {
		var payload trackHabitPayload
		if !bindJSON(c, &payload, "invalid request body") {
			return
		}
		if payload.Day != "" {
			parsed, err := time.ParseInLocation(dateFormat, payload.Day, day.Location())
			if err != nil {
				respondError(c, http.StatusBadRequest, "invalid day, expected YYYY-MM-DD")
				return
			}
			day = parsed
		}
	}

	if err := a.tracking.Track(currentUserID(c), habitID, day); err != nil {
		if errors.Is(err, service.ErrHabitNotFound) {
			respondError(c, http.StatusNotFound, "habit not found")
			return
		}
		respondError(c, http.StatusInternalServerError, "failed to track habit")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"tracked": true,
		"day":     streak.Normalize(day).Format(dateFormat),
	})
}

func renderDescription(description string) string {
	if description == "" {
		return ""
	}

	var buf bytes.Buffer
	if err := markdownEngine.Convert([]byte(description), &buf); err != nil {
		return ""
	}
	return sanitizer.Sanitize(buf.String())
}
