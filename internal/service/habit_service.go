package service

import (
	"errors"
	"fmt"
	"strings"

	"github.com/habitlog/internal/db"
	"gorm.io/gorm"
)

var (
	// ErrHabitNotFound 在习惯不存在或不属于当前用户时返回，
	// 两种情况对外不可区分，避免泄露他人习惯的存在性
	ErrHabitNotFound = errors.New("habit not found")
	// ErrHabitNameRequired 当名称为空或仅含空白字符时返回
	ErrHabitNameRequired = errors.New("habit name is required")
)

// HabitService 负责 Habit 数据的增删改查，所有操作都以属主为前提
type HabitService struct {
	db *gorm.DB
}

// HabitUpdate 定义更新习惯时的可选字段，nil 表示保持原值
type HabitUpdate struct {
	Name        *string
	Description *string
}

// NewHabitService 构造 HabitService
func NewHabitService(gdb *gorm.DB) *HabitService {
	return &HabitService{db: gdb}
}

// List 返回指定用户的全部习惯，按创建顺序排列
func (s *HabitService) List(ownerID uint) ([]db.Habit, error) {
	var habits []db.Habit
	if err := s.db.Where("user_id = ?", ownerID).
		Order("created_at ASC, id ASC").
		Find(&habits).Error; err != nil {
		return nil, fmt.Errorf("list habits: %w", err)
	}
	return habits, nil
}

// Get 根据 ID 获取习惯，属主不匹配视同不存在
func (s *HabitService) Get(ownerID, habitID uint) (*db.Habit, error) {
	var habit db.Habit
	if err := s.db.Where("id = ? AND user_id = ?", habitID, ownerID).First(&habit).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrHabitNotFound
		}
		return nil, fmt.Errorf("get habit: %w", err)
	}
	return &habit, nil
}

// Create 新建习惯
func (s *HabitService) Create(ownerID uint, name, description string) (*db.Habit, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, ErrHabitNameRequired
	}

	habit := db.Habit{
		UserID:      ownerID,
		Name:        name,
		Description: strings.TrimSpace(description),
	}

	if err := s.db.Create(&habit).Error; err != nil {
		return nil, fmt.Errorf("create habit: %w", err)
	}
	return &habit, nil
}

// Update 更新习惯，仅修改调用方提供的字段
func (s *HabitService) Update(ownerID, habitID uint, input HabitUpdate) (*db.Habit, error) {
	habit, err := s.Get(ownerID, habitID)
	if err != nil {
		return nil, err
	}

	if input.Name != nil {
		name := strings.TrimSpace(*input.Name)
		if name == "" {
			return nil, ErrHabitNameRequired
		}
		habit.Name = name
	}
	if input.Description != nil {
		habit.Description = strings.TrimSpace(*input.Description)
	}

	if err := s.db.Save(habit).Error; err != nil {
		return nil, fmt.Errorf("update habit: %w", err)
	}
	return habit, nil
}

// Delete 删除习惯并在同一事务内级联清理全部打卡记录，
// 与并发的打卡请求以事务顺序化，不会留下孤儿日志
func (s *HabitService) Delete(ownerID, habitID uint) error {
	return s.db.Transaction(func(tx *gorm.DB) error {
		var habit db.Habit
		if err := tx.Where("id = ? AND user_id = ?", habitID, ownerID).First(&habit).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrHabitNotFound
			}
			return fmt.Errorf("find habit: %w", err)
		}

		if err := deleteAllLogsFor(tx, habit.ID); err != nil {
			return err
		}

		if err := tx.Unscoped().Delete(&habit).Error; err != nil {
			return fmt.Errorf("delete habit: %w", err)
		}
		return nil
	})
}
