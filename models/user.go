package models

import (
	"time"

	"gorm.io/gorm"
)

const (
	// AccountTypeAdmin quản trị viên, bỏ qua kiểm tra phê duyệt
	AccountTypeAdmin = "admin"
	// AccountTypeStaff nhân viên
	AccountTypeStaff = "staff"
	// AccountTypeViewer chỉ xem
	AccountTypeViewer = "viewer"
)

// User người dùng hệ thống
type User struct {
	ID          uint           `json:"id" gorm:"primaryKey"`
	Username    string         `json:"username" gorm:"uniqueIndex;size:50;not null"`
	Password    string         `json:"-" gorm:"size:255;not null"`
	Email       string         `json:"email" gorm:"size:100"`
	AccountType string         `json:"account_type" gorm:"size:20;default:staff;index"` // admin/staff/viewer
	IsApproved  bool           `json:"is_approved" gorm:"default:false;index"`          // chỉ sử dụng được hệ thống sau khi admin phê duyệt
	CreatedAt   time.Time      `json:"created_at"`
	UpdatedAt   time.Time      `json:"updated_at"`
	DeletedAt   gorm.DeletedAt `json:"-" gorm:"index"`
}

// TableName đặt tên bảng
func (User) TableName() string {
	return "users"
}
