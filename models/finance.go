package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Loại danh mục tài chính
const (
	FinanceTypeIncome  = "INCOME"  // Khoản thu
	FinanceTypeExpense = "EXPENSE" // Khoản chi
)

// Các danh mục tài chính gắn nghiệp vụ, so khớp theo tên
const (
	CategoryOrderPayment     = "KH thanh toán đơn hàng"
	CategoryCustomerDeposit  = "KH đặt cọc tiền hàng"
	CategoryDepositDeduction = "Khấu trừ khoản tiền đặt cọc"
)

// FinanceTypeLabels nhãn hiển thị loại thu/chi
var FinanceTypeLabels = map[string]string{
	FinanceTypeIncome:  "Khoản thu",
	FinanceTypeExpense: "Khoản chi",
}

// IsValidFinanceType kiểm tra loại thu/chi hợp lệ
func IsValidFinanceType(t string) bool {
	_, ok := FinanceTypeLabels[t]
	return ok
}

// FinanceCategory danh mục thu chi
type FinanceCategory struct {
	ID          uint      `json:"id" gorm:"primaryKey"`
	Name        string    `json:"name" gorm:"size:100;not null"`
	Type        string    `json:"type" gorm:"size:10;not null;index"` // INCOME/EXPENSE
	Description string    `json:"description" gorm:"type:text"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// TableName đặt tên bảng
func (FinanceCategory) TableName() string {
	return "finance_categories"
}

// FinanceTransaction giao dịch thu chi.
// Amount luôn lưu độ lớn không dấu; chiều tiền vào/ra do category.Type quyết định.
type FinanceTransaction struct {
	ID         uint            `json:"id" gorm:"primaryKey"`
	CategoryID *uint           `json:"category_id" gorm:"index"`
	Amount     decimal.Decimal `json:"amount" gorm:"type:decimal(15,2);not null"`
	CustomerID *uint           `json:"customer_id" gorm:"index"`
	Note       string          `json:"note" gorm:"type:text"`
	CreatedAt  time.Time       `json:"created_at" gorm:"index"`
	UpdatedAt  time.Time       `json:"updated_at"`

	// Xóa danh mục hoặc khách hàng chỉ gỡ liên kết, không xóa giao dịch
	Category *FinanceCategory `json:"category,omitempty" gorm:"foreignKey:CategoryID;constraint:OnDelete:SET NULL"`
	Customer *Customer        `json:"customer,omitempty" gorm:"foreignKey:CustomerID;constraint:OnDelete:SET NULL"`
}

// TableName đặt tên bảng
func (FinanceTransaction) TableName() string {
	return "finance_transactions"
}
