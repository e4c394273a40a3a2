package models

import "time"

// OrderCodePrefix tiền tố mã đơn hàng
const OrderCodePrefix = "ĐH"

// Trạng thái đơn hàng
const (
	OrderStatusCreated    = "created"    // Đã tạo đơn hàng
	OrderStatusCart       = "cart"       // Đã thêm vào giỏ hàng
	OrderStatusPurchased  = "purchased"  // Đã mua hàng
	OrderStatusInStock    = "in_stock"   // Hàng đã về kho
	OrderStatusReported   = "reported"   // Đã báo đơn
	OrderStatusReconciled = "reconciled" // Đã đối soát
	OrderStatusCancelled  = "cancelled"  // Hủy đơn
)

// OrderStatusLabels nhãn hiển thị của từng trạng thái
var OrderStatusLabels = map[string]string{
	OrderStatusCreated:    "Đã tạo đơn hàng",
	OrderStatusCart:       "Đã thêm vào giỏ hàng",
	OrderStatusPurchased:  "Đã mua hàng",
	OrderStatusInStock:    "Hàng đã về kho",
	OrderStatusReported:   "Đã báo đơn",
	OrderStatusReconciled: "Đã đối soát",
	OrderStatusCancelled:  "Hủy đơn",
}

// IsValidOrderStatus kiểm tra trạng thái hợp lệ
func IsValidOrderStatus(status string) bool {
	_, ok := OrderStatusLabels[status]
	return ok
}

// Order đơn hàng
type Order struct {
	ID         uint   `json:"id" gorm:"primaryKey"`
	Code       string `json:"code" gorm:"size:20;uniqueIndex;not null"`
	CustomerID uint   `json:"customer_id" gorm:"index;not null"`
	ProductID  uint   `json:"product_id" gorm:"index;not null"`
	ColorID    *uint  `json:"color_id"`
	SizeID     *uint  `json:"size_id"`
	Amount     int    `json:"amount" gorm:"not null;default:1"`
	// Giá bán chốt tại thời điểm tạo đơn; mặc định lấy giá sản phẩm,
	// cho phép chỉnh riêng từng đơn và là giá dùng cho mọi tính toán tài chính
	SalePrice int64     `json:"sale_price" gorm:"not null;default:0"`
	Discount  int64     `json:"discount" gorm:"not null;default:0"`
	Status    string    `json:"status" gorm:"size:20;not null;default:created;index"`
	Note      string    `json:"note" gorm:"type:text"`
	CreatedAt time.Time `json:"created_at" gorm:"index"`
	UpdatedAt time.Time `json:"updated_at" gorm:"index"`

	Customer *Customer `json:"customer,omitempty" gorm:"foreignKey:CustomerID;constraint:OnDelete:CASCADE"`
	Product  *Product  `json:"product,omitempty" gorm:"foreignKey:ProductID;constraint:OnDelete:CASCADE"`
	// Màu/size đang được đơn hàng tham chiếu thì không xóa được
	Color *Color `json:"color,omitempty" gorm:"foreignKey:ColorID;constraint:OnDelete:RESTRICT"`
	Size  *Size  `json:"size,omitempty" gorm:"foreignKey:SizeID;constraint:OnDelete:RESTRICT"`
}

// TableName đặt tên bảng
func (Order) TableName() string {
	return "orders"
}
