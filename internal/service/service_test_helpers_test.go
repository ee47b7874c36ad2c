package service

import (
	"path/filepath"
	"testing"

	"github.com/habitlog/internal/db"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func setupTestDB(t *testing.T) func() {
	t.Helper()
	gdb, err := gorm.Open(sqlite.Open("file::memory:?cache=shared"), &gorm.Config{Logger: logger.Default.LogMode(logger.Silent)})
	if err != nil {
		t.Fatalf("failed to open test database: %v", err)
	}

	if err := gdb.AutoMigrate(&db.User{}, &db.Session{}, &db.Habit{}, &db.HabitLog{}); err != nil {
		t.Fatalf("failed to migrate test database: %v", err)
	}

	db.DB = gdb

	return func() {
		gdb.Exec("DELETE FROM habit_logs")
		gdb.Exec("DELETE FROM habits")
		gdb.Exec("DELETE FROM sessions")
		gdb.Exec("DELETE FROM users")
		sqlDB, err := db.DB.DB()
		if err == nil {
			sqlDB.Close()
		}
	}
}

func setupFileTestDB(t *testing.T) func() {
	t.Helper()
	path := filepath.Join(t.TempDir(), "habitlog_test.db") + "?_busy_timeout=5000"
	gdb, err := gorm.Open(sqlite.Open(path), &gorm.Config{Logger: logger.Default.LogMode(logger.Silent)})
	if err != nil {
		t.Fatalf("failed to open test database: %v", err)
	}

	if err := gdb.AutoMigrate(&db.User{}, &db.Session{}, &db.Habit{}, &db.HabitLog{}); err != nil {
		t.Fatalf("failed to migrate test database: %v", err)
	}

	db.DB = gdb

	return func() {
		sqlDB, err := db.DB.DB()
		if err == nil {
			sqlDB.Close()
		}
	}
}

func createTestUser(t *testing.T, username string) uint {
	t.Helper()
	auth := NewAuthService(db.DB)
	token, err := auth.Register(username, "pw123")
	if err != nil {
		t.Fatalf("failed to register %s: %v", username, err)
	}

	userID, err := auth.Resolve(token)
	if err != nil {
		t.Fatalf("failed to resolve token for %s: %v", username, err)
	}
	return userID
}
