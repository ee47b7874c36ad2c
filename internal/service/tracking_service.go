package service

import (
	"errors"
	"fmt"
	"time"

	"github.com/habitlog/internal/db"
	"github.com/habitlog/internal/streak"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// TrackingService 负责打卡台账，(habit_id, log_date) 维度上保证幂等
type TrackingService struct {
	db *gorm.DB
}

// NewTrackingService 构造 TrackingService
func NewTrackingService(gdb *gorm.DB) *TrackingService {
	return &TrackingService{db: gdb}
}

// Track 为指定习惯登记某个日历日的打卡。
// 依赖唯一索引做条件插入：当天已有记录时直接跳过，重复调用不报错、不产生重复行。
// 属主校验与插入在同一事务内完成，避免与删除习惯的请求交错后留下孤儿记录。
func (s *TrackingService) Track(ownerID, habitID uint, day time.Time) error {
	logDate := streak.Normalize(day)

	return s.db.Transaction(func(tx *gorm.DB) error {
		var habit db.Habit
		if err := tx.Where("id = ? AND user_id = ?", habitID, ownerID).First(&habit).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrHabitNotFound
			}
			return fmt.Errorf("find habit: %w", err)
		}

		record := db.HabitLog{HabitID: habit.ID, LogDate: logDate}
		if err := tx.Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "habit_id"}, {Name: "log_date"}},
			DoNothing: true,
		}).Create(&record).Error; err != nil {
			return fmt.Errorf("track habit: %w", err)
		}
		return nil
	})
}

// TrackedDays 返回某个习惯的全部打卡日集合，供统计引擎使用
func (s *TrackingService) TrackedDays(habitID uint) (streak.DaySet, error) {
	var dates []time.Time
	if err := s.db.Model(&db.HabitLog{}).
		Where("habit_id = ?", habitID).
		Order("log_date ASC").
		Pluck("log_date", &dates).Error; err != nil {
		return nil, fmt.Errorf("list habit logs: %w", err)
	}

	return streak.NewDaySet(dates...), nil
}

// deleteAllLogsFor 清空指定习惯的全部打卡记录，供级联删除在事务内调用
func deleteAllLogsFor(tx *gorm.DB, habitID uint) error {
	if err := tx.Unscoped().Where("habit_id = ?", habitID).Delete(&db.HabitLog{}).Error; err != nil {
		return fmt.Errorf("delete habit logs: %w", err)
	}
	return nil
}
