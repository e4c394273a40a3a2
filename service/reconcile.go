package service

import (
	"errors"

	"navybaby/models"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// Lỗi kiểm tra dữ liệu của quy trình xác nhận thanh toán
var (
	ErrCustomerNotFound = errors.New("khách hàng không tồn tại")
	ErrInvalidAmount    = errors.New("số tiền phải lớn hơn 0")
)

// OrderFilters bộ lọc đơn hàng của bill: trạng thái, nhà cung cấp,
// tìm theo mã đơn hoặc tên sản phẩm
type OrderFilters struct {
	Statuses    []string
	SupplierIDs []uint
	Query       string
}

// ApplyOrderFilters áp bộ lọc bill lên một truy vấn đơn hàng.
// Dùng chung cho trang chi tiết khách, bill và bước đối soát để
// cùng một bộ tham số luôn chọn ra cùng một tập đơn.
func ApplyOrderFilters(db *gorm.DB, q *gorm.DB, f OrderFilters) *gorm.DB {
	if len(f.Statuses) > 0 {
		q = q.Where("orders.status IN ?", f.Statuses)
	}
	if len(f.SupplierIDs) > 0 {
		q = q.Where("orders.product_id IN (?)",
			db.Model(&models.Product{}).Select("id").Where("supplier_id IN ?", f.SupplierIDs))
	}
	if f.Query != "" {
		pattern := "%" + f.Query + "%"
		q = q.Where("orders.code LIKE ? OR orders.product_id IN (?)",
			pattern,
			db.Model(&models.Product{}).Select("id").Where("name LIKE ?", pattern))
	}
	return q
}

// ConfirmPaymentInput dữ liệu xác nhận thanh toán bill của một khách hàng
type ConfirmPaymentInput struct {
	CustomerID      uint
	Amount          decimal.Decimal
	Note            string
	DepositDeducted decimal.Decimal
	Filters         OrderFilters
}

// ConfirmPaymentResult kết quả xác nhận thanh toán
type ConfirmPaymentResult struct {
	Payment          *models.FinanceTransaction `json:"payment"`
	DepositDeduction *models.FinanceTransaction `json:"deposit_deduction,omitempty"`
	ReconciledCount  int64                      `json:"reconciled_count"`
}

// findOrCreateCategory tìm danh mục thu chi theo loại + tên, chưa có thì tạo
func findOrCreateCategory(tx *gorm.DB, catType, name string) (*models.FinanceCategory, error) {
	var cat models.FinanceCategory
	err := tx.Where("type = ? AND name = ?", catType, name).First(&cat).Error
	if err == nil {
		return &cat, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}
	cat = models.FinanceCategory{Name: name, Type: catType, Description: "Tự động tạo"}
	if err := tx.Create(&cat).Error; err != nil {
		return nil, err
	}
	return &cat, nil
}

// ConfirmPayment xác nhận khách thanh toán bill:
//  1. kiểm tra khách hàng và số tiền, sai thì trả lỗi và không ghi gì;
//  2. ghi một khoản thu "KH thanh toán đơn hàng";
//  3. nếu có khấu trừ đặt cọc thì ghi thêm một khoản chi tương ứng;
//  4. chuyển toàn bộ đơn khớp bộ lọc bill sang trạng thái "reconciled".
//
// Các bước 2-4 (kèm đồng bộ ví) chạy trong một transaction duy nhất:
// hoặc ghi đủ cả khoản thu lẫn trạng thái đơn, hoặc không ghi gì.
func ConfirmPayment(db *gorm.DB, in ConfirmPaymentInput) (*ConfirmPaymentResult, error) {
	if !in.Amount.IsPositive() {
		return nil, ErrInvalidAmount
	}
	var customer models.Customer
	if err := db.First(&customer, in.CustomerID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrCustomerNotFound
		}
		return nil, err
	}

	note := in.Note
	if note == "" {
		note = customer.Code
	}

	result := &ConfirmPaymentResult{}
	err := db.Transaction(func(tx *gorm.DB) error {
		incomeCat, err := findOrCreateCategory(tx, models.FinanceTypeIncome, models.CategoryOrderPayment)
		if err != nil {
			return err
		}
		payment := &models.FinanceTransaction{
			CategoryID: &incomeCat.ID,
			Amount:     in.Amount,
			CustomerID: &customer.ID,
			Note:       note,
		}
		if err := tx.Create(payment).Error; err != nil {
			return err
		}
		// Gắn sau khi tạo để Create không đụng tới bản ghi danh mục
		payment.Category = incomeCat
		if err := SyncFinanceTransaction(tx, payment); err != nil {
			return err
		}
		result.Payment = payment

		if in.DepositDeducted.IsPositive() {
			expenseCat, err := findOrCreateCategory(tx, models.FinanceTypeExpense, models.CategoryDepositDeduction)
			if err != nil {
				return err
			}
			deduction := &models.FinanceTransaction{
				CategoryID: &expenseCat.ID,
				Amount:     in.DepositDeducted,
				CustomerID: &customer.ID,
				Note:       note,
			}
			if err := tx.Create(deduction).Error; err != nil {
				return err
			}
			deduction.Category = expenseCat
			if err := SyncFinanceTransaction(tx, deduction); err != nil {
				return err
			}
			result.DepositDeduction = deduction
		}

		q := tx.Model(&models.Order{}).Where("orders.customer_id = ?", customer.ID)
		q = ApplyOrderFilters(tx, q, in.Filters)
		res := q.Update("status", models.OrderStatusReconciled)
		if res.Error != nil {
			return res.Error
		}
		result.ReconciledCount = res.RowsAffected
		return nil
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}
