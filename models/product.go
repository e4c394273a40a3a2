package models

import "time"

// ProductCodePrefix tiền tố mã sản phẩm
const ProductCodePrefix = "SP"

// Product sản phẩm
type Product struct {
	ID           uint      `json:"id" gorm:"primaryKey"`
	Code         string    `json:"code" gorm:"size:20;uniqueIndex;not null"`
	Name         string    `json:"name" gorm:"size:255;not null"`
	CategoryID   *uint     `json:"category_id" gorm:"index"`
	SupplierID   *uint     `json:"supplier_id" gorm:"index"`
	Description  string    `json:"description" gorm:"type:text"`
	ImageURL     string    `json:"image_url" gorm:"size:500"`
	Price        int64     `json:"price" gorm:"not null"` // giá gốc, đơn vị đồng
	PrivateOrder bool      `json:"private_order" gorm:"default:false"`
	Note         string    `json:"note" gorm:"type:text"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`

	Category *ProductCategory `json:"category,omitempty" gorm:"foreignKey:CategoryID;constraint:OnDelete:RESTRICT"`
	Supplier *Supplier        `json:"supplier,omitempty" gorm:"foreignKey:SupplierID;constraint:OnDelete:RESTRICT"`
	Colors   []Color          `json:"colors,omitempty" gorm:"foreignKey:ProductID;constraint:OnDelete:CASCADE"`
	Sizes    []Size           `json:"sizes,omitempty" gorm:"foreignKey:ProductID;constraint:OnDelete:CASCADE"`
	Orders   []Order          `json:"-" gorm:"foreignKey:ProductID;constraint:OnDelete:CASCADE"`
}

// TableName đặt tên bảng
func (Product) TableName() string {
	return "products"
}

// CategoryName tên danh mục (rỗng nếu chưa gán)
func (p *Product) CategoryName() string {
	if p.Category == nil {
		return ""
	}
	return p.Category.Name
}

// SupplierName tên nhà cung cấp (rỗng nếu chưa gán)
func (p *Product) SupplierName() string {
	if p.Supplier == nil {
		return ""
	}
	return p.Supplier.Name
}

// Color màu của sản phẩm, tên duy nhất trong từng sản phẩm
type Color struct {
	ID        uint   `json:"id" gorm:"primaryKey"`
	ProductID uint   `json:"product_id" gorm:"not null;uniqueIndex:idx_color_product_name"`
	Name      string `json:"name" gorm:"size:200;not null;uniqueIndex:idx_color_product_name"`
}

// TableName đặt tên bảng
func (Color) TableName() string {
	return "colors"
}

// Size kích cỡ của sản phẩm, tên duy nhất trong từng sản phẩm
type Size struct {
	ID        uint   `json:"id" gorm:"primaryKey"`
	ProductID uint   `json:"product_id" gorm:"not null;uniqueIndex:idx_size_product_name"`
	Name      string `json:"name" gorm:"size:200;not null;uniqueIndex:idx_size_product_name"`
}

// TableName đặt tên bảng
func (Size) TableName() string {
	return "sizes"
}
