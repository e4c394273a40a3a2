package models

import "time"

// SupplierCodePrefix tiền tố mã nhà cung cấp
const SupplierCodePrefix = "NCC"

// Supplier nhà cung cấp
type Supplier struct {
	ID        uint      `json:"id" gorm:"primaryKey"`
	Code      string    `json:"code" gorm:"size:20;uniqueIndex;not null"`
	Name      string    `json:"name" gorm:"size:255;not null"`
	Note      string    `json:"note" gorm:"type:text"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// TableName đặt tên bảng
func (Supplier) TableName() string {
	return "suppliers"
}
