package api

import (
	"strconv"
	"time"

	"navybaby/database"
	"navybaby/models"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// WalletHandler xử lý ví tiền tệ
type WalletHandler struct{}

// NewWalletHandler tạo handler ví
func NewWalletHandler() *WalletHandler {
	return &WalletHandler{}
}

// CreateWalletRequest yêu cầu tạo ví
type CreateWalletRequest struct {
	Name        string          `json:"name" binding:"required,max=200" example:"Vốn kinh doanh (VNĐ)"`
	Currency    string          `json:"currency" binding:"required,oneof=VND CNY" example:"VND"`
	Description string          `json:"description"`
	Balance     decimal.Decimal `json:"balance"`
}

// UpdateWalletRequest yêu cầu cập nhật ví.
// Gửi Balance sẽ sinh một giao dịch điều chỉnh thủ công để đưa số dư về đúng giá trị đó.
type UpdateWalletRequest struct {
	Name        *string          `json:"name" binding:"omitempty,max=200"`
	Description *string          `json:"description"`
	IsActive    *bool            `json:"is_active"`
	Balance     *decimal.Decimal `json:"balance"`
}

// CreateWalletTransactionRequest yêu cầu tạo giao dịch ví
type CreateWalletTransactionRequest struct {
	TransactionType string          `json:"transaction_type" binding:"required,oneof=deposit withdrawal income expense"`
	Category        string          `json:"category"`
	Amount          decimal.Decimal `json:"amount" binding:"required"`
	Description     string          `json:"description"`
	TransactionDate string          `json:"transaction_date" example:"2026-01-15"`
}

// UpdateWalletTransactionRequest yêu cầu cập nhật giao dịch ví
type UpdateWalletTransactionRequest struct {
	TransactionType *string          `json:"transaction_type" binding:"omitempty,oneof=deposit withdrawal income expense"`
	Category        *string          `json:"category"`
	Amount          *decimal.Decimal `json:"amount"`
	Description     *string          `json:"description"`
	TransactionDate *string          `json:"transaction_date"`
}

// Create tạo ví mới, số dư ban đầu ghi thành một giao dịch nạp tiền
// @Summary Tạo ví
// @Tags Ví
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body CreateWalletRequest true "Thông tin ví"
// @Success 200 {object} Response{data=models.Wallet} "Tạo thành công"
// @Router /api/v1/vi [post]
func (h *WalletHandler) Create(c *gin.Context) {
	var req CreateWalletRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		BadRequest(c, SafeErrorMessage(err, "Tham số không hợp lệ"))
		return
	}
	if req.Balance.IsNegative() {
		BadRequest(c, "Số dư ban đầu không được âm")
		return
	}

	wallet := models.Wallet{
		Name:        req.Name,
		Currency:    req.Currency,
		Description: req.Description,
		IsActive:    true,
	}

	err := database.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&wallet).Error; err != nil {
			return err
		}
		if req.Balance.IsPositive() {
			initial := models.WalletTransaction{
				WalletID:        wallet.ID,
				TransactionType: models.WalletTxDeposit,
				Category:        "deposit",
				Amount:          req.Balance,
				Description:     "Số dư ban đầu",
				TransactionDate: time.Now(),
			}
			if err := tx.Create(&initial).Error; err != nil {
				return err
			}
		}
		_, err := models.RecalcWalletBalance(tx, wallet.ID)
		return err
	})
	if err != nil {
		InternalError(c, SafeErrorMessage(err, "Tạo ví thất bại"))
		return
	}

	SuccessWithMessage(c, "Tạo ví thành công", wallet)
}

// List danh sách ví kèm tổng số dư theo từng loại tiền tệ
// @Summary Danh sách ví
// @Tags Ví
// @Produce json
// @Security BearerAuth
// @Param currency query string false "Lọc theo loại tiền tệ: VND/CNY"
// @Success 200 {object} Response
// @Router /api/v1/vi [get]
func (h *WalletHandler) List(c *gin.Context) {
	query := database.DB.Model(&models.Wallet{})
	if v := c.Query("currency"); v != "" {
		query = query.Where("currency = ?", v)
	}

	var wallets []models.Wallet
	if err := query.Order("created_at ASC").Find(&wallets).Error; err != nil {
		InternalError(c, SafeErrorMessage(err, "Truy vấn thất bại"))
		return
	}

	totals := map[string]decimal.Decimal{}
	for _, w := range wallets {
		totals[w.Currency] = totals[w.Currency].Add(w.Balance)
	}

	Success(c, gin.H{
		"wallets": wallets,
		"totals":  totals,
	})
}

// Get chi tiết ví
// @Summary Chi tiết ví
// @Tags Ví
// @Produce json
// @Security BearerAuth
// @Param id path int true "ID ví"
// @Success 200 {object} Response{data=models.Wallet}
// @Failure 404 {object} Response "Ví không tồn tại"
// @Router /api/v1/vi/{id} [get]
func (h *WalletHandler) Get(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		BadRequest(c, "ID không hợp lệ")
		return
	}

	var wallet models.Wallet
	if err := database.DB.First(&wallet, id).Error; err != nil {
		NotFound(c, "Ví không tồn tại")
		return
	}
	Success(c, wallet)
}

// Update cập nhật ví, sửa Balance thì sinh giao dịch điều chỉnh thủ công
// @Summary Cập nhật ví
// @Description Đổi tên/mô tả/trạng thái; gửi balance sẽ tạo giao dịch MANUAL_ADJUSTMENT bù chênh lệch
// @Tags Ví
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "ID ví"
// @Param request body UpdateWalletRequest true "Thông tin cập nhật"
// @Success 200 {object} Response{data=models.Wallet} "Cập nhật thành công"
// @Failure 404 {object} Response "Ví không tồn tại"
// @Router /api/v1/vi/{id} [put]
func (h *WalletHandler) Update(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		BadRequest(c, "ID không hợp lệ")
		return
	}

	var wallet models.Wallet
	if err := database.DB.First(&wallet, id).Error; err != nil {
		NotFound(c, "Ví không tồn tại")
		return
	}

	var req UpdateWalletRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		BadRequest(c, SafeErrorMessage(err, "Tham số không hợp lệ"))
		return
	}

	err = database.DB.Transaction(func(tx *gorm.DB) error {
		updates := map[string]interface{}{}
		if req.Name != nil {
			updates["name"] = *req.Name
		}
		if req.Description != nil {
			updates["description"] = *req.Description
		}
		if req.IsActive != nil {
			updates["is_active"] = *req.IsActive
		}
		if len(updates) > 0 {
			if err := tx.Model(&wallet).Updates(updates).Error; err != nil {
				return err
			}
		}

		if req.Balance != nil {
			// Số dư luôn là giá trị dẫn xuất nên không ghi đè trực tiếp:
			// tính chênh lệch với số dư hiện tại rồi ghi một giao dịch điều chỉnh
			current, err := models.RecalcWalletBalance(tx, wallet.ID)
			if err != nil {
				return err
			}
			diff := req.Balance.Sub(current)
			if !diff.IsZero() {
				adjType := models.WalletTxDeposit
				if diff.IsNegative() {
					adjType = models.WalletTxWithdrawal
				}
				adjustment := models.WalletTransaction{
					WalletID:        wallet.ID,
					TransactionType: adjType,
					Category:        "other",
					Amount:          diff.Abs(),
					Description:     "Điều chỉnh số dư thủ công",
					ReferenceCode:   models.WalletRefManualAdjustment,
					TransactionDate: time.Now(),
				}
				if err := tx.Create(&adjustment).Error; err != nil {
					return err
				}
			}
		}

		balance, err := models.RecalcWalletBalance(tx, wallet.ID)
		if err != nil {
			return err
		}
		wallet.Balance = balance
		return nil
	})
	if err != nil {
		InternalError(c, SafeErrorMessage(err, "Cập nhật ví thất bại"))
		return
	}

	SuccessWithMessage(c, "Cập nhật thành công", wallet)
}

// Delete xóa ví cùng toàn bộ giao dịch của ví
// @Summary Xóa ví
// @Tags Ví
// @Produce json
// @Security BearerAuth
// @Param id path int true "ID ví"
// @Success 200 {object} Response "Xóa thành công"
// @Failure 404 {object} Response "Ví không tồn tại"
// @Router /api/v1/vi/{id} [delete]
func (h *WalletHandler) Delete(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		BadRequest(c, "ID không hợp lệ")
		return
	}

	var wallet models.Wallet
	if err := database.DB.First(&wallet, id).Error; err != nil {
		NotFound(c, "Ví không tồn tại")
		return
	}

	if err := database.DB.Delete(&wallet).Error; err != nil {
		InternalError(c, SafeErrorMessage(err, "Xóa thất bại"))
		return
	}

	SuccessWithMessage(c, "Xóa ví thành công", nil)
}

// ListTransactions danh sách giao dịch của một ví
// @Summary Danh sách giao dịch ví
// @Tags Ví
// @Produce json
// @Security BearerAuth
// @Param id path int true "ID ví"
// @Param page query int false "Trang" default(1)
// @Param page_size query int false "Số bản ghi mỗi trang" default(10)
// @Param type query string false "Lọc theo loại giao dịch"
// @Param category query string false "Lọc theo danh mục"
// @Param date_from query string false "Từ ngày (2006-01-02)"
// @Param date_to query string false "Đến ngày (2006-01-02)"
// @Param q query string false "Tìm theo mô tả hoặc mã tham chiếu"
// @Success 200 {object} Response{data=PageResponse{list=[]models.WalletTransaction}}
// @Failure 404 {object} Response "Ví không tồn tại"
// @Router /api/v1/vi/{id}/giao-dich [get]
func (h *WalletHandler) ListTransactions(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		BadRequest(c, "ID không hợp lệ")
		return
	}

	var wallet models.Wallet
	if err := database.DB.First(&wallet, id).Error; err != nil {
		NotFound(c, "Ví không tồn tại")
		return
	}

	page, pageSize := parsePagination(c)

	query := database.DB.Model(&models.WalletTransaction{}).Where("wallet_id = ?", wallet.ID)
	if v := c.Query("type"); v != "" {
		query = query.Where("transaction_type = ?", v)
	}
	if v := c.Query("category"); v != "" {
		query = query.Where("category = ?", v)
	}
	if q := c.Query("q"); q != "" {
		pattern := "%" + q + "%"
		query = query.Where("description LIKE ? OR reference_code LIKE ?", pattern, pattern)
	}
	if v := c.Query("date_from"); v != "" {
		if from, err := time.ParseInLocation("2006-01-02", v, time.Local); err == nil {
			query = query.Where("transaction_date >= ?", from)
		}
	}
	if v := c.Query("date_to"); v != "" {
		if to, err := time.ParseInLocation("2006-01-02", v, time.Local); err == nil {
			to = to.Add(24*time.Hour - time.Second)
			query = query.Where("transaction_date <= ?", to)
		}
	}

	var total int64
	query.Count(&total)

	var transactions []models.WalletTransaction
	offset := (page - 1) * pageSize
	err = query.Order("transaction_date DESC, id DESC").
		Offset(offset).Limit(pageSize).
		Find(&transactions).Error
	if err != nil {
		InternalError(c, SafeErrorMessage(err, "Truy vấn thất bại"))
		return
	}

	Success(c, PageResponse{
		Total:    total,
		Page:     page,
		PageSize: pageSize,
		List:     transactions,
	})
}

// parseTransactionDate đọc ngày giao dịch, rỗng thì lấy thời điểm hiện tại
func parseTransactionDate(value string) (time.Time, bool) {
	if value == "" {
		return time.Now(), true
	}
	if t, err := time.ParseInLocation("2006-01-02", value, time.Local); err == nil {
		return t, true
	}
	if t, err := time.ParseInLocation("2006-01-02 15:04:05", value, time.Local); err == nil {
		return t, true
	}
	return time.Time{}, false
}

// CreateTransaction tạo giao dịch ví rồi tính lại số dư
// @Summary Tạo giao dịch ví
// @Tags Ví
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "ID ví"
// @Param request body CreateWalletTransactionRequest true "Thông tin giao dịch"
// @Success 200 {object} Response{data=models.WalletTransaction} "Tạo thành công"
// @Failure 404 {object} Response "Ví không tồn tại"
// @Router /api/v1/vi/{id}/giao-dich [post]
func (h *WalletHandler) CreateTransaction(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		BadRequest(c, "ID không hợp lệ")
		return
	}

	var wallet models.Wallet
	if err := database.DB.First(&wallet, id).Error; err != nil {
		NotFound(c, "Ví không tồn tại")
		return
	}

	var req CreateWalletTransactionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		BadRequest(c, SafeErrorMessage(err, "Tham số không hợp lệ"))
		return
	}
	if !req.Amount.IsPositive() {
		BadRequest(c, "Số tiền phải lớn hơn 0")
		return
	}

	txDate, ok := parseTransactionDate(req.TransactionDate)
	if !ok {
		BadRequest(c, "Ngày giao dịch không hợp lệ, định dạng: 2006-01-02")
		return
	}

	category := req.Category
	if category == "" {
		category = "other"
	}
	if _, ok := models.WalletTxCategories[category]; !ok {
		BadRequest(c, "Danh mục giao dịch không hợp lệ")
		return
	}

	transaction := models.WalletTransaction{
		WalletID:        wallet.ID,
		TransactionType: req.TransactionType,
		Category:        category,
		Amount:          req.Amount,
		Description:     req.Description,
		TransactionDate: txDate,
	}

	err = database.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&transaction).Error; err != nil {
			return err
		}
		_, err := models.RecalcWalletBalance(tx, wallet.ID)
		return err
	})
	if err != nil {
		InternalError(c, SafeErrorMessage(err, "Tạo giao dịch thất bại"))
		return
	}

	SuccessWithMessage(c, "Tạo giao dịch thành công", transaction)
}

// UpdateTransaction cập nhật giao dịch ví rồi tính lại số dư
// @Summary Cập nhật giao dịch ví
// @Tags Ví
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "ID ví"
// @Param txId path int true "ID giao dịch"
// @Param request body UpdateWalletTransactionRequest true "Thông tin cập nhật"
// @Success 200 {object} Response{data=models.WalletTransaction} "Cập nhật thành công"
// @Failure 404 {object} Response "Giao dịch không tồn tại"
// @Router /api/v1/vi/{id}/giao-dich/{txId} [put]
func (h *WalletHandler) UpdateTransaction(c *gin.Context) {
	walletID, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		BadRequest(c, "ID không hợp lệ")
		return
	}
	txID, err := strconv.ParseUint(c.Param("txId"), 10, 32)
	if err != nil {
		BadRequest(c, "ID giao dịch không hợp lệ")
		return
	}

	var transaction models.WalletTransaction
	err = database.DB.Where("id = ? AND wallet_id = ?", txID, walletID).First(&transaction).Error
	if err != nil {
		NotFound(c, "Giao dịch không tồn tại")
		return
	}

	var req UpdateWalletTransactionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		BadRequest(c, SafeErrorMessage(err, "Tham số không hợp lệ"))
		return
	}
	if req.Amount != nil && !req.Amount.IsPositive() {
		BadRequest(c, "Số tiền phải lớn hơn 0")
		return
	}

	updates := map[string]interface{}{}
	if req.TransactionType != nil {
		updates["transaction_type"] = *req.TransactionType
	}
	if req.Category != nil {
		if _, ok := models.WalletTxCategories[*req.Category]; !ok {
			BadRequest(c, "Danh mục giao dịch không hợp lệ")
			return
		}
		updates["category"] = *req.Category
	}
	if req.Amount != nil {
		updates["amount"] = *req.Amount
	}
	if req.Description != nil {
		updates["description"] = *req.Description
	}
	if req.TransactionDate != nil {
		txDate, ok := parseTransactionDate(*req.TransactionDate)
		if !ok {
			BadRequest(c, "Ngày giao dịch không hợp lệ, định dạng: 2006-01-02")
			return
		}
		updates["transaction_date"] = txDate
	}

	err = database.DB.Transaction(func(tx *gorm.DB) error {
		if len(updates) > 0 {
			if err := tx.Model(&transaction).Updates(updates).Error; err != nil {
				return err
			}
		}
		_, err := models.RecalcWalletBalance(tx, transaction.WalletID)
		return err
	})
	if err != nil {
		InternalError(c, SafeErrorMessage(err, "Cập nhật giao dịch thất bại"))
		return
	}

	SuccessWithMessage(c, "Cập nhật thành công", transaction)
}

// DeleteTransaction xóa giao dịch ví rồi tính lại số dư
// @Summary Xóa giao dịch ví
// @Tags Ví
// @Produce json
// @Security BearerAuth
// @Param id path int true "ID ví"
// @Param txId path int true "ID giao dịch"
// @Success 200 {object} Response "Xóa thành công"
// @Failure 404 {object} Response "Giao dịch không tồn tại"
// @Router /api/v1/vi/{id}/giao-dich/{txId} [delete]
func (h *WalletHandler) DeleteTransaction(c *gin.Context) {
	walletID, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		BadRequest(c, "ID không hợp lệ")
		return
	}
	txID, err := strconv.ParseUint(c.Param("txId"), 10, 32)
	if err != nil {
		BadRequest(c, "ID giao dịch không hợp lệ")
		return
	}

	var transaction models.WalletTransaction
	err = database.DB.Where("id = ? AND wallet_id = ?", txID, walletID).First(&transaction).Error
	if err != nil {
		NotFound(c, "Giao dịch không tồn tại")
		return
	}

	err = database.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Delete(&transaction).Error; err != nil {
			return err
		}
		_, err := models.RecalcWalletBalance(tx, transaction.WalletID)
		return err
	})
	if err != nil {
		InternalError(c, SafeErrorMessage(err, "Xóa giao dịch thất bại"))
		return
	}

	SuccessWithMessage(c, "Xóa giao dịch thành công", nil)
}
