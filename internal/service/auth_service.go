package service

import (
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/habitlog/internal/db"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

var (
	// ErrDuplicateUsername 在注册时用户名已被占用返回
	ErrDuplicateUsername = errors.New("username already taken")
	// ErrInvalidCredentials 登录失败时统一返回，不区分用户名不存在与密码错误
	ErrInvalidCredentials = errors.New("invalid username or password")
	// ErrUnauthenticated 在令牌缺失或无效时返回
	ErrUnauthenticated = errors.New("unauthenticated")
	// ErrInvalidRegistration 在注册参数为空时返回
	ErrInvalidRegistration = errors.New("username and password are required")
)

// dummyHash 供用户名不存在时做一次等价的 bcrypt 比较，
// 避免通过响应耗时推断用户名是否存在
var dummyHash, _ = bcrypt.GenerateFromPassword([]byte("habitlog-timing-pad"), bcrypt.DefaultCost)

// AuthService 负责注册、登录与令牌解析
type AuthService struct {
	db *gorm.DB
}

// NewAuthService 构造 AuthService
func NewAuthService(gdb *gorm.DB) *AuthService {
	return &AuthService{db: gdb}
}

// Register 创建用户并立即颁发一个会话令牌。
// 用户名区分大小写、全局唯一；密码以 bcrypt 哈希存储。
func (s *AuthService) Register(username, password string) (string, error) {
	username = strings.TrimSpace(username)
	if username == "" || password == "" {
		return "", ErrInvalidRegistration
	}

	var count int64
	if err := s.db.Model(&db.User{}).Where("username = ?", username).Count(&count).Error; err != nil {
		return "", fmt.Errorf("check username: %w", err)
	}
	if count > 0 {
		return "", ErrDuplicateUsername
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", fmt.Errorf("hash password: %w", err)
	}

	user := db.User{Username: username, Password: string(hashed)}
	if err := s.db.Create(&user).Error; err != nil {
		// 并发注册同名用户时唯一约束兜底
		return "", ErrDuplicateUsername
	}

	return s.issueToken(user.ID)
}

// Login 校验用户名与密码，成功后颁发新的会话令牌
func (s *AuthService) Login(username, password string) (string, error) {
	var user db.User
	if err := s.db.Where("username = ?", strings.TrimSpace(username)).First(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			// 保持与密码错误一致的耗时曲线
			bcrypt.CompareHashAndPassword(dummyHash, []byte(password))
			return "", ErrInvalidCredentials
		}
		return "", fmt.Errorf("find user: %w", err)
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(password)); err != nil {
		return "", ErrInvalidCredentials
	}

	return s.issueToken(user.ID)
}

// Resolve 将会话令牌解析为用户 ID
func (s *AuthService) Resolve(token string) (uint, error) {
	token = strings.TrimSpace(token)
	if token == "" {
		return 0, ErrUnauthenticated
	}

	var session db.Session
	if err := s.db.Where("token = ?", token).First(&session).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return 0, ErrUnauthenticated
		}
		return 0, fmt.Errorf("find session: %w", err)
	}

	return session.UserID, nil
}

// Logout 撤销指定令牌，令牌不存在时同样视为成功
func (s *AuthService) Logout(token string) error {
	if err := s.db.Where("token = ?", strings.TrimSpace(token)).Delete(&db.Session{}).Error; err != nil {
		return fmt.Errorf("delete session: %w", err)
	}
	return nil
}

func (s *AuthService) issueToken(userID uint) (string, error) {
	session := db.Session{Token: uuid.NewString(), UserID: userID}
	if err := s.db.Create(&session).Error; err != nil {
		return "", fmt.Errorf("create session: %w", err)
	}
	return session.Token, nil
}
