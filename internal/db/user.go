package db

import "gorm.io/gorm"

// User 定义了用户模型
// Username 区分大小写且全局唯一，Password 存储 bcrypt 哈希
type User struct {
	gorm.Model
	Username string `gorm:"unique;not null"`
	Password string `gorm:"not null"`
}

// Session 表示一次登录会话，Token 为下发给客户端的不透明凭证
// 删除用户时级联清理其全部会话
type Session struct {
	gorm.Model
	Token  string `gorm:"uniqueIndex;not null"`
	UserID uint   `gorm:"index"`
	User   User   `gorm:"constraint:OnDelete:CASCADE"`
}
