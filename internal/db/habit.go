package db

import (
	"time"

	"gorm.io/gorm"
)

// Habit 定义了习惯模型
// 每个习惯归属且仅归属一个用户，所有查询都必须带 user_id 条件，
// 非属主视角下习惯与"不存在"不可区分
// Description 可选，允许为空字符串
type Habit struct {
	gorm.Model
	UserID      uint   `gorm:"index;not null"`
	User        User   `gorm:"constraint:OnDelete:CASCADE"`
	Name        string `gorm:"not null"`
	Description string
}

// HabitLog 记录习惯打卡日志
// Habit + LogDate 采用唯一索引，保证同一天重复打卡幂等，
// 台账是按 (habit_id, log_date) 去重的集合而不是点击流水
type HabitLog struct {
	gorm.Model
	HabitID uint      `gorm:"index;index:idx_habit_log_unique,unique"`
	Habit   Habit     `gorm:"constraint:OnDelete:CASCADE"`
	LogDate time.Time `gorm:"index:idx_habit_log_unique,unique"`
}

// TableName 重写确保唯一索引作用到 habit_id + log_date
func (HabitLog) TableName() string {
	return "habit_logs"
}
