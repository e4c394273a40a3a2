package service

import (
	"errors"
	"fmt"
	"log"
	"time"

	"navybaby/config"
	"navybaby/models"

	"gorm.io/gorm"
)

// FinanceReference mã tham chiếu của giao dịch ví đồng bộ từ sổ thu chi
func FinanceReference(financeID uint) string {
	return fmt.Sprintf("%s%d", models.WalletRefFinancePrefix, financeID)
}

// findMirrorWallet tìm ví vốn kinh doanh nhận giao dịch đồng bộ.
// Ưu tiên id cấu hình wallet.business_wallet_id, chưa cấu hình thì
// tra theo tên + loại tiền tệ như bản cũ.
func findMirrorWallet(db *gorm.DB) (*models.Wallet, bool) {
	var wallet models.Wallet
	if cfg := config.GlobalConfig; cfg != nil && cfg.Wallet.BusinessWalletID > 0 {
		if err := db.First(&wallet, cfg.Wallet.BusinessWalletID).Error; err != nil {
			return nil, false
		}
		return &wallet, true
	}
	err := db.Where("name = ? AND currency = ?", models.BusinessWalletName, models.CurrencyVND).
		First(&wallet).Error
	if err != nil {
		return nil, false
	}
	return &wallet, true
}

// mirrorTransactionType suy ra loại giao dịch ví từ loại danh mục thu chi.
// Không có danh mục thì dựa vào dấu số tiền.
func mirrorTransactionType(ft *models.FinanceTransaction) string {
	if ft.Category != nil {
		if ft.Category.Type == models.FinanceTypeExpense {
			return models.WalletTxExpense
		}
		return models.WalletTxIncome
	}
	if ft.Amount.IsNegative() {
		return models.WalletTxExpense
	}
	return models.WalletTxIncome
}

// mirrorDescription mô tả giao dịch ví theo danh mục và ghi chú gốc
func mirrorDescription(ft *models.FinanceTransaction) string {
	categoryName := "Không có danh mục"
	if ft.Category != nil {
		categoryName = ft.Category.Name
	}
	desc := "Giao dịch tài chính: " + categoryName
	if ft.Note != "" {
		desc += " - " + ft.Note
	}
	return desc
}

// loadCategory nạp danh mục cho giao dịch nếu chưa preload
func loadCategory(db *gorm.DB, ft *models.FinanceTransaction) {
	if ft.Category != nil || ft.CategoryID == nil {
		return
	}
	var cat models.FinanceCategory
	if err := db.First(&cat, *ft.CategoryID).Error; err == nil {
		ft.Category = &cat
	}
}

// SyncFinanceTransaction tạo hoặc cập nhật giao dịch ví tương ứng với một
// giao dịch thu chi, khóa theo reference_code = TRANS-{id}, rồi tính lại số dư ví.
// Không tìm thấy ví vốn kinh doanh thì bỏ qua trong im lặng: không phải
// môi trường nào cũng cấu hình ví đồng bộ.
func SyncFinanceTransaction(db *gorm.DB, ft *models.FinanceTransaction) error {
	wallet, ok := findMirrorWallet(db)
	if !ok {
		log.Printf("Bỏ qua đồng bộ ví: chưa có ví vốn kinh doanh")
		return nil
	}

	loadCategory(db, ft)
	ref := FinanceReference(ft.ID)
	amount := ft.Amount.Abs()
	txType := mirrorTransactionType(ft)
	desc := mirrorDescription(ft)

	var existing models.WalletTransaction
	err := db.Where("reference_code = ? AND wallet_id = ?", ref, wallet.ID).
		First(&existing).Error
	switch {
	case errors.Is(err, gorm.ErrRecordNotFound):
		wt := models.WalletTransaction{
			WalletID:        wallet.ID,
			TransactionType: txType,
			Category:        "other",
			Amount:          amount,
			Description:     desc,
			ReferenceCode:   ref,
			TransactionDate: time.Now(),
		}
		if err := db.Create(&wt).Error; err != nil {
			return err
		}
	case err != nil:
		return err
	default:
		updates := map[string]interface{}{
			"transaction_type": txType,
			"amount":           amount,
			"description":      desc,
		}
		if err := db.Model(&existing).Updates(updates).Error; err != nil {
			return err
		}
	}

	_, err = models.RecalcWalletBalance(db, wallet.ID)
	return err
}

// RemoveFinanceMirror xóa giao dịch ví tương ứng khi giao dịch thu chi bị xóa
func RemoveFinanceMirror(db *gorm.DB, financeID uint) error {
	wallet, ok := findMirrorWallet(db)
	if !ok {
		return nil
	}
	err := db.Where("reference_code = ? AND wallet_id = ?", FinanceReference(financeID), wallet.ID).
		Delete(&models.WalletTransaction{}).Error
	if err != nil {
		return err
	}
	_, err = models.RecalcWalletBalance(db, wallet.ID)
	return err
}
