package service

import (
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/habitlog/internal/db"
	"github.com/habitlog/internal/streak"
)

func TestTrackIsIdempotent(t *testing.T) {
	cleanup := setupTestDB(t)
	defer cleanup()

	ownerID := createTestUser(t, "alice")
	habits := NewHabitService(db.DB)
	tracking := NewTrackingService(db.DB)

	habit, err := habits.Create(ownerID, "晨跑", "")
	if err != nil {
		t.Fatalf("Create returned error: %v", err)
	}

	today := time.Now()
	if err := tracking.Track(ownerID, habit.ID, today); err != nil {
		t.Fatalf("Track returned error: %v", err)
	}
	// 同一天重复打卡不报错也不产生重复行
	if err := tracking.Track(ownerID, habit.ID, today); err != nil {
		t.Fatalf("repeated Track returned error: %v", err)
	}

	var count int64
	if err := db.DB.Model(&db.HabitLog{}).Where("habit_id = ?", habit.ID).Count(&count).Error; err != nil {
		t.Fatalf("count logs: %v", err)
	}
	if count != 1 {
		t.Fatalf("expected exactly 1 log, got %d", count)
	}

	days, err := tracking.TrackedDays(habit.ID)
	if err != nil {
		t.Fatalf("TrackedDays returned error: %v", err)
	}
	if got := streak.CurrentStreak(days, today); got != 1 {
		t.Fatalf("expected current streak 1 after repeat, got %d", got)
	}
}

func TestTrackDifferentTimesSameDay(t *testing.T) {
	cleanup := setupTestDB(t)
	defer cleanup()

	ownerID := createTestUser(t, "alice")
	habits := NewHabitService(db.DB)
	tracking := NewTrackingService(db.DB)

	habit, err := habits.Create(ownerID, "阅读", "")
	if err != nil {
		t.Fatalf("Create returned error: %v", err)
	}

	morning := time.Date(2025, 6, 15, 8, 0, 0, 0, time.Local)
	evening := time.Date(2025, 6, 15, 22, 30, 0, 0, time.Local)

	if err := tracking.Track(ownerID, habit.ID, morning); err != nil {
		t.Fatalf("Track returned error: %v", err)
	}
	if err := tracking.Track(ownerID, habit.ID, evening); err != nil {
		t.Fatalf("Track returned error: %v", err)
	}

	days, err := tracking.TrackedDays(habit.ID)
	if err != nil {
		t.Fatalf("TrackedDays returned error: %v", err)
	}
	if len(days) != 1 {
		t.Fatalf("expected one calendar day, got %d", len(days))
	}
}

func TestTrackUnknownOrForeignHabit(t *testing.T) {
	cleanup := setupTestDB(t)
	defer cleanup()

	aliceID := createTestUser(t, "alice")
	bobID := createTestUser(t, "bob")
	habits := NewHabitService(db.DB)
	tracking := NewTrackingService(db.DB)

	habit, err := habits.Create(aliceID, "晨跑", "")
	if err != nil {
		t.Fatalf("Create returned error: %v", err)
	}

	if err := tracking.Track(bobID, habit.ID, time.Now()); !errors.Is(err, ErrHabitNotFound) {
		t.Fatalf("expected ErrHabitNotFound for non-owner, got %v", err)
	}
	if err := tracking.Track(aliceID, habit.ID+100, time.Now()); !errors.Is(err, ErrHabitNotFound) {
		t.Fatalf("expected ErrHabitNotFound for missing habit, got %v", err)
	}
}

func TestTrackConcurrentSameDay(t *testing.T) {
	// 并发写需要真实的文件锁与 busy_timeout，内存库的共享缓存会直接报表锁
	cleanup := setupFileTestDB(t)
	defer cleanup()

	ownerID := createTestUser(t, "alice")
	habits := NewHabitService(db.DB)
	tracking := NewTrackingService(db.DB)

	habit, err := habits.Create(ownerID, "晨跑", "")
	if err != nil {
		t.Fatalf("Create returned error: %v", err)
	}

	today := time.Now()
	var wg sync.WaitGroup
	errs := make([]error, 4)
	for i := range errs {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			errs[i] = tracking.Track(ownerID, habit.ID, today)
		}(i)
	}
	wg.Wait()

	// 所有调用都观察到成功
	for i, err := range errs {
		if err != nil {
			t.Fatalf("concurrent Track %d returned error: %v", i, err)
		}
	}

	var count int64
	if err := db.DB.Model(&db.HabitLog{}).Where("habit_id = ?", habit.ID).Count(&count).Error; err != nil {
		t.Fatalf("count logs: %v", err)
	}
	if count != 1 {
		t.Fatalf("expected exactly 1 log after concurrent tracks, got %d", count)
	}
}
