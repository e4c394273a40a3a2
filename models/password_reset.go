package models

import (
	"crypto/rand"
	"encoding/hex"
	"time"
)

// PasswordReset token đặt lại mật khẩu
type PasswordReset struct {
	ID        uint      `json:"id" gorm:"primaryKey"`
	UserID    uint      `json:"user_id" gorm:"index;not null"`
	Token     string    `json:"token" gorm:"uniqueIndex;size:64;not null"`
	Email     string    `json:"email" gorm:"size:100;not null"`
	ExpiresAt time.Time `json:"expires_at" gorm:"not null"`
	Used      bool      `json:"used" gorm:"default:false"`
	CreatedAt time.Time `json:"created_at"`

	User User `json:"-" gorm:"foreignKey:UserID"`
}

// TableName đặt tên bảng
func (PasswordReset) TableName() string {
	return "password_resets"
}

// GenerateResetToken sinh token ngẫu nhiên 64 ký tự hex
func GenerateResetToken() (string, error) {
	bytes := make([]byte, 32)
	if _, err := rand.Read(bytes); err != nil {
		return "", err
	}
	return hex.EncodeToString(bytes), nil
}

// IsExpired token đã hết hạn chưa
func (p *PasswordReset) IsExpired() bool {
	return time.Now().After(p.ExpiresAt)
}

// IsValid token còn dùng được không
func (p *PasswordReset) IsValid() bool {
	return !p.Used && !p.IsExpired()
}
