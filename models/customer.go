package models

import "time"

// CustomerCodePrefix tiền tố mã khách hàng
const CustomerCodePrefix = "KH"

// Customer khách hàng
type Customer struct {
	ID          uint      `json:"id" gorm:"primaryKey"`
	Code        string    `json:"code" gorm:"size:20;uniqueIndex;not null"`
	Name        string    `json:"name" gorm:"size:255;not null"`
	PhoneNumber string    `json:"phone_number" gorm:"size:20"`
	SocialLink  string    `json:"social_link" gorm:"size:500"`
	Address     string    `json:"address" gorm:"size:500"`
	IsAffiliate bool      `json:"is_affiliate" gorm:"default:false"`
	Note        string    `json:"note" gorm:"type:text"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`

	Orders []Order `json:"-" gorm:"foreignKey:CustomerID;constraint:OnDelete:CASCADE"`
}

// TableName đặt tên bảng
func (Customer) TableName() string {
	return "customers"
}
