package models

import (
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// Loại tiền tệ của ví
const (
	CurrencyVND = "VND"
	CurrencyCNY = "CNY"
)

// Loại giao dịch ví
const (
	WalletTxDeposit    = "deposit"    // Nạp tiền
	WalletTxWithdrawal = "withdrawal" // Rút tiền / Chi tiêu
	WalletTxIncome     = "income"     // Khoản thu
	WalletTxExpense    = "expense"    // Khoản chi
)

// WalletTxTypeLabels nhãn hiển thị loại giao dịch ví
var WalletTxTypeLabels = map[string]string{
	WalletTxDeposit:    "Nạp tiền",
	WalletTxWithdrawal: "Rút tiền / Chi tiêu",
	WalletTxIncome:     "Khoản thu",
	WalletTxExpense:    "Khoản chi",
}

// WalletTxCategories danh mục tự do của giao dịch ví
var WalletTxCategories = map[string]string{
	"purchase": "Mua hàng",
	"shipping": "Phí vận chuyển",
	"deposit":  "Nạp tiền",
	"refund":   "Hoàn tiền",
	"other":    "Khác",
}

// Mã tham chiếu đặc biệt của giao dịch ví
const (
	// WalletRefManualAdjustment giao dịch điều chỉnh số dư thủ công
	WalletRefManualAdjustment = "MANUAL_ADJUSTMENT"
	// WalletRefFinancePrefix tiền tố mã tham chiếu giao dịch đồng bộ từ sổ thu chi
	WalletRefFinancePrefix = "TRANS-"
)

// BusinessWalletName tên ví vốn kinh doanh mặc định, dùng khi chưa cấu hình wallet.business_wallet_id
const BusinessWalletName = "Vốn kinh doanh (VNĐ)"

// Wallet ví tiền tệ. Balance là giá trị dẫn xuất, luôn được tính lại
// từ toàn bộ giao dịch của ví chứ không cộng trừ tăng dần.
type Wallet struct {
	ID          uint            `json:"id" gorm:"primaryKey"`
	Name        string          `json:"name" gorm:"size:200;not null"`
	Currency    string          `json:"currency" gorm:"size:10;not null;default:CNY"` // VND/CNY
	Balance     decimal.Decimal `json:"balance" gorm:"type:decimal(15,2);not null;default:0"`
	Description string          `json:"description" gorm:"type:text"`
	IsActive    bool            `json:"is_active" gorm:"default:true"`
	CreatedAt   time.Time       `json:"created_at"`
	UpdatedAt   time.Time       `json:"updated_at"`

	Transactions []WalletTransaction `json:"-" gorm:"foreignKey:WalletID;constraint:OnDelete:CASCADE"`
}

// TableName đặt tên bảng
func (Wallet) TableName() string {
	return "wallets"
}

// WalletTransaction giao dịch ví, Amount luôn dương
type WalletTransaction struct {
	ID              uint            `json:"id" gorm:"primaryKey"`
	WalletID        uint            `json:"wallet_id" gorm:"index;not null"`
	TransactionType string          `json:"transaction_type" gorm:"size:20;not null;index"` // deposit/withdrawal/income/expense
	Category        string          `json:"category" gorm:"size:50;not null;default:other"`
	Amount          decimal.Decimal `json:"amount" gorm:"type:decimal(15,2);not null"`
	Description     string          `json:"description" gorm:"type:text"`
	ReferenceCode   string          `json:"reference_code" gorm:"size:100;index"` // TRANS-{id} với giao dịch đồng bộ, MANUAL_ADJUSTMENT với điều chỉnh tay
	TransactionDate time.Time       `json:"transaction_date" gorm:"not null;index"`
	CreatedAt       time.Time       `json:"created_at"`
	UpdatedAt       time.Time       `json:"updated_at"`

	Wallet *Wallet `json:"-" gorm:"foreignKey:WalletID;constraint:OnDelete:CASCADE"`
}

// TableName đặt tên bảng
func (WalletTransaction) TableName() string {
	return "wallet_transactions"
}

// RecalcWalletBalance tính lại số dư ví từ toàn bộ giao dịch rồi ghi đè vào cột balance.
// Luôn tính từ đầu để số dư không bao giờ lệch khỏi sổ giao dịch,
// bất kể giao dịch được tạo/sửa/xóa theo thứ tự nào.
func RecalcWalletBalance(db *gorm.DB, walletID uint) (decimal.Decimal, error) {
	var inflow, outflow decimal.Decimal
	err := db.Model(&WalletTransaction{}).
		Where("wallet_id = ? AND transaction_type IN ?", walletID, []string{WalletTxDeposit, WalletTxIncome}).
		Select("COALESCE(SUM(amount), 0)").
		Scan(&inflow).Error
	if err != nil {
		return decimal.Zero, err
	}
	err = db.Model(&WalletTransaction{}).
		Where("wallet_id = ? AND transaction_type IN ?", walletID, []string{WalletTxWithdrawal, WalletTxExpense}).
		Select("COALESCE(SUM(amount), 0)").
		Scan(&outflow).Error
	if err != nil {
		return decimal.Zero, err
	}

	balance := inflow.Sub(outflow)
	err = db.Model(&Wallet{}).Where("id = ?", walletID).
		Update("balance", balance).Error
	if err != nil {
		return decimal.Zero, err
	}
	return balance, nil
}
