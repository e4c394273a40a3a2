package models

import "time"

// ProductCategoryCodePrefix tiền tố mã danh mục sản phẩm
const ProductCategoryCodePrefix = "DM"

// ProductCategory danh mục sản phẩm
type ProductCategory struct {
	ID        uint      `json:"id" gorm:"primaryKey"`
	Code      string    `json:"code" gorm:"size:20;uniqueIndex;not null"`
	Name      string    `json:"name" gorm:"size:255;not null"`
	Note      string    `json:"note" gorm:"type:text"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// TableName đặt tên bảng
func (ProductCategory) TableName() string {
	return "product_categories"
}
