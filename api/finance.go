package api

import (
	"strconv"
	"time"

	"navybaby/database"
	"navybaby/models"
	"navybaby/service"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// FinanceHandler xử lý sổ thu chi
type FinanceHandler struct{}

// NewFinanceHandler tạo handler sổ thu chi
func NewFinanceHandler() *FinanceHandler {
	return &FinanceHandler{}
}

// FinanceCategoryRequest yêu cầu tạo/cập nhật danh mục thu chi
type FinanceCategoryRequest struct {
	Name        string `json:"name" binding:"required,max=100" example:"Phí vận chuyển"`
	Type        string `json:"type" binding:"required,oneof=INCOME EXPENSE" example:"EXPENSE"`
	Description string `json:"description"`
}

// CreateTransactionRequest yêu cầu tạo giao dịch thu chi.
// Amount là độ lớn không dấu; chiều tiền vào/ra do loại danh mục quyết định.
type CreateTransactionRequest struct {
	CategoryID *uint           `json:"category_id"`
	Amount     decimal.Decimal `json:"amount" binding:"required"`
	CustomerID *uint           `json:"customer_id"`
	Note       string          `json:"note"`
}

// UpdateTransactionRequest yêu cầu cập nhật giao dịch thu chi
type UpdateTransactionRequest struct {
	CategoryID *uint            `json:"category_id"`
	Amount     *decimal.Decimal `json:"amount"`
	CustomerID *uint            `json:"customer_id"`
	Note       *string          `json:"note"`
}

// FinanceStats thống kê tổng thu, tổng chi và chênh lệch của tập giao dịch đang lọc
type FinanceStats struct {
	TotalIncome  decimal.Decimal `json:"total_income"`
	TotalExpense decimal.Decimal `json:"total_expense"`
	Net          decimal.Decimal `json:"net"`
}

// CreateCategory tạo danh mục thu chi
// @Summary Tạo danh mục thu chi
// @Tags Tài chính
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body FinanceCategoryRequest true "Thông tin danh mục"
// @Success 200 {object} Response{data=models.FinanceCategory} "Tạo thành công"
// @Router /api/v1/tai-chinh/danh-muc [post]
func (h *FinanceHandler) CreateCategory(c *gin.Context) {
	var req FinanceCategoryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		BadRequest(c, SafeErrorMessage(err, "Tham số không hợp lệ"))
		return
	}

	var count int64
	database.DB.Model(&models.FinanceCategory{}).
		Where("type = ? AND name = ?", req.Type, req.Name).Count(&count)
	if count > 0 {
		Conflict(c, "Danh mục cùng loại và tên đã tồn tại")
		return
	}

	category := models.FinanceCategory{
		Name:        req.Name,
		Type:        req.Type,
		Description: req.Description,
	}
	if err := database.DB.Create(&category).Error; err != nil {
		InternalError(c, SafeErrorMessage(err, "Tạo danh mục thất bại"))
		return
	}

	SuccessWithMessage(c, "Tạo danh mục thành công", category)
}

// ListCategories danh sách danh mục thu chi
// @Summary Danh sách danh mục thu chi
// @Tags Tài chính
// @Produce json
// @Security BearerAuth
// @Param type query string false "Lọc theo loại: INCOME/EXPENSE"
// @Success 200 {object} Response{data=[]models.FinanceCategory}
// @Router /api/v1/tai-chinh/danh-muc [get]
func (h *FinanceHandler) ListCategories(c *gin.Context) {
	query := database.DB.Model(&models.FinanceCategory{})
	if t := c.Query("type"); t != "" {
		if !models.IsValidFinanceType(t) {
			BadRequest(c, "Loại danh mục không hợp lệ, chỉ nhận INCOME hoặc EXPENSE")
			return
		}
		query = query.Where("type = ?", t)
	}

	var categories []models.FinanceCategory
	if err := query.Order("type ASC, name ASC").Find(&categories).Error; err != nil {
		InternalError(c, SafeErrorMessage(err, "Truy vấn thất bại"))
		return
	}
	Success(c, categories)
}

// UpdateCategory cập nhật danh mục thu chi
// @Summary Cập nhật danh mục thu chi
// @Tags Tài chính
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "ID danh mục"
// @Param request body FinanceCategoryRequest true "Thông tin cập nhật"
// @Success 200 {object} Response{data=models.FinanceCategory} "Cập nhật thành công"
// @Router /api/v1/tai-chinh/danh-muc/{id} [put]
func (h *FinanceHandler) UpdateCategory(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		BadRequest(c, "ID không hợp lệ")
		return
	}

	var category models.FinanceCategory
	if err := database.DB.First(&category, id).Error; err != nil {
		NotFound(c, "Danh mục không tồn tại")
		return
	}

	var req FinanceCategoryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		BadRequest(c, SafeErrorMessage(err, "Tham số không hợp lệ"))
		return
	}

	updates := map[string]interface{}{
		"name":        req.Name,
		"type":        req.Type,
		"description": req.Description,
	}
	if err := database.DB.Model(&category).Updates(updates).Error; err != nil {
		InternalError(c, SafeErrorMessage(err, "Cập nhật thất bại"))
		return
	}

	SuccessWithMessage(c, "Cập nhật thành công", category)
}

// DeleteCategory xóa danh mục thu chi, giao dịch cũ chỉ mất liên kết danh mục
// @Summary Xóa danh mục thu chi
// @Tags Tài chính
// @Produce json
// @Security BearerAuth
// @Param id path int true "ID danh mục"
// @Success 200 {object} Response "Xóa thành công"
// @Router /api/v1/tai-chinh/danh-muc/{id} [delete]
func (h *FinanceHandler) DeleteCategory(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		BadRequest(c, "ID không hợp lệ")
		return
	}

	var category models.FinanceCategory
	if err := database.DB.First(&category, id).Error; err != nil {
		NotFound(c, "Danh mục không tồn tại")
		return
	}

	if err := database.DB.Delete(&category).Error; err != nil {
		InternalError(c, SafeErrorMessage(err, "Xóa thất bại"))
		return
	}

	SuccessWithMessage(c, "Xóa danh mục thành công", nil)
}

// applyTransactionFilters áp bộ lọc danh sách giao dịch thu chi
func applyTransactionFilters(c *gin.Context, query *gorm.DB) *gorm.DB {
	if t := c.Query("type"); t != "" && models.IsValidFinanceType(t) {
		query = query.Where("finance_transactions.category_id IN (?)",
			database.DB.Model(&models.FinanceCategory{}).Select("id").Where("type = ?", t))
	}
	if categories := c.QueryArray("category"); len(categories) > 0 {
		query = query.Where("finance_transactions.category_id IN ?", categories)
	}
	if v := c.Query("customer"); v != "" {
		query = query.Where("finance_transactions.customer_id = ?", v)
	}
	if q := c.Query("q"); q != "" {
		pattern := "%" + q + "%"
		query = query.Where(
			"finance_transactions.note LIKE ? OR finance_transactions.customer_id IN (?)",
			pattern,
			database.DB.Model(&models.Customer{}).Select("id").
				Where("name LIKE ? OR code LIKE ?", pattern, pattern),
		)
	}
	if v := c.Query("date_from"); v != "" {
		if from, err := time.ParseInLocation("2006-01-02", v, time.Local); err == nil {
			query = query.Where("finance_transactions.created_at >= ?", from)
		}
	}
	if v := c.Query("date_to"); v != "" {
		if to, err := time.ParseInLocation("2006-01-02", v, time.Local); err == nil {
			to = to.Add(24*time.Hour - time.Second)
			query = query.Where("finance_transactions.created_at <= ?", to)
		}
	}
	return query
}

// transactionStats tính tổng thu, tổng chi trên tập giao dịch đang lọc
func (h *FinanceHandler) transactionStats(c *gin.Context) (*FinanceStats, error) {
	var income, expense decimal.Decimal

	incomeQuery := applyTransactionFilters(c, database.DB.Model(&models.FinanceTransaction{})).
		Joins("JOIN finance_categories ON finance_categories.id = finance_transactions.category_id").
		Where("finance_categories.type = ?", models.FinanceTypeIncome)
	if err := incomeQuery.Select("COALESCE(SUM(finance_transactions.amount), 0)").Scan(&income).Error; err != nil {
		return nil, err
	}

	expenseQuery := applyTransactionFilters(c, database.DB.Model(&models.FinanceTransaction{})).
		Joins("JOIN finance_categories ON finance_categories.id = finance_transactions.category_id").
		Where("finance_categories.type = ?", models.FinanceTypeExpense)
	if err := expenseQuery.Select("COALESCE(SUM(finance_transactions.amount), 0)").Scan(&expense).Error; err != nil {
		return nil, err
	}

	return &FinanceStats{
		TotalIncome:  income,
		TotalExpense: expense,
		Net:          income.Sub(expense),
	}, nil
}

// ListTransactions danh sách giao dịch thu chi
// @Summary Danh sách giao dịch thu chi
// @Description Danh sách giao dịch có phân trang, bộ lọc và thống kê thu/chi của tập đang lọc
// @Tags Tài chính
// @Produce json
// @Security BearerAuth
// @Param page query int false "Trang" default(1)
// @Param page_size query int false "Số bản ghi mỗi trang" default(10)
// @Param type query string false "Lọc theo loại: INCOME/EXPENSE"
// @Param category query []int false "Lọc theo danh mục"
// @Param customer query int false "Lọc theo khách hàng"
// @Param q query string false "Tìm theo ghi chú hoặc khách hàng"
// @Param date_from query string false "Từ ngày (2006-01-02)"
// @Param date_to query string false "Đến ngày (2006-01-02)"
// @Success 200 {object} Response
// @Router /api/v1/tai-chinh/giao-dich [get]
func (h *FinanceHandler) ListTransactions(c *gin.Context) {
	page, pageSize := parsePagination(c)

	query := applyTransactionFilters(c, database.DB.Model(&models.FinanceTransaction{}))

	var total int64
	query.Count(&total)

	var transactions []models.FinanceTransaction
	offset := (page - 1) * pageSize
	err := query.Preload("Category").Preload("Customer").
		Order("finance_transactions.created_at DESC").
		Offset(offset).Limit(pageSize).
		Find(&transactions).Error
	if err != nil {
		InternalError(c, SafeErrorMessage(err, "Truy vấn thất bại"))
		return
	}

	stats, err := h.transactionStats(c)
	if err != nil {
		InternalError(c, SafeErrorMessage(err, "Thống kê thất bại"))
		return
	}

	Success(c, gin.H{
		"list":      transactions,
		"total":     total,
		"page":      page,
		"page_size": pageSize,
		"stats":     stats,
	})
}

// GetTransaction chi tiết giao dịch thu chi
// @Summary Chi tiết giao dịch thu chi
// @Tags Tài chính
// @Produce json
// @Security BearerAuth
// @Param id path int true "ID giao dịch"
// @Success 200 {object} Response{data=models.FinanceTransaction}
// @Failure 404 {object} Response "Giao dịch không tồn tại"
// @Router /api/v1/tai-chinh/giao-dich/{id} [get]
func (h *FinanceHandler) GetTransaction(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		BadRequest(c, "ID không hợp lệ")
		return
	}

	var transaction models.FinanceTransaction
	err = database.DB.Preload("Category").Preload("Customer").
		First(&transaction, id).Error
	if err != nil {
		NotFound(c, "Giao dịch không tồn tại")
		return
	}
	Success(c, transaction)
}

// CreateTransaction tạo giao dịch thu chi và đồng bộ sang ví vốn kinh doanh
// @Summary Tạo giao dịch thu chi
// @Description Tạo giao dịch mới, tự động tạo giao dịch ví TRANS-{id} ở ví vốn kinh doanh nếu có
// @Tags Tài chính
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body CreateTransactionRequest true "Thông tin giao dịch"
// @Success 200 {object} Response{data=models.FinanceTransaction} "Tạo thành công"
// @Failure 400 {object} Response "Tham số không hợp lệ"
// @Router /api/v1/tai-chinh/giao-dich [post]
func (h *FinanceHandler) CreateTransaction(c *gin.Context) {
	var req CreateTransactionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		BadRequest(c, SafeErrorMessage(err, "Tham số không hợp lệ"))
		return
	}
	if !req.Amount.IsPositive() {
		BadRequest(c, "Số tiền phải lớn hơn 0")
		return
	}

	if req.CategoryID != nil {
		var count int64
		database.DB.Model(&models.FinanceCategory{}).Where("id = ?", *req.CategoryID).Count(&count)
		if count == 0 {
			BadRequest(c, "Danh mục không tồn tại")
			return
		}
	}
	if req.CustomerID != nil {
		var count int64
		database.DB.Model(&models.Customer{}).Where("id = ?", *req.CustomerID).Count(&count)
		if count == 0 {
			BadRequest(c, "Khách hàng không tồn tại")
			return
		}
	}

	transaction := models.FinanceTransaction{
		CategoryID: req.CategoryID,
		Amount:     req.Amount,
		CustomerID: req.CustomerID,
		Note:       req.Note,
	}
	if err := database.DB.Create(&transaction).Error; err != nil {
		InternalError(c, SafeErrorMessage(err, "Tạo giao dịch thất bại"))
		return
	}

	if err := service.SyncFinanceTransaction(database.DB, &transaction); err != nil {
		InternalError(c, SafeErrorMessage(err, "Đồng bộ ví thất bại"))
		return
	}

	SuccessWithMessage(c, "Tạo giao dịch thành công", transaction)
}

// UpdateTransaction cập nhật giao dịch thu chi và đồng bộ lại giao dịch ví
// @Summary Cập nhật giao dịch thu chi
// @Tags Tài chính
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "ID giao dịch"
// @Param request body UpdateTransactionRequest true "Thông tin cập nhật"
// @Success 200 {object} Response{data=models.FinanceTransaction} "Cập nhật thành công"
// @Failure 404 {object} Response "Giao dịch không tồn tại"
// @Router /api/v1/tai-chinh/giao-dich/{id} [put]
func (h *FinanceHandler) UpdateTransaction(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		BadRequest(c, "ID không hợp lệ")
		return
	}

	var transaction models.FinanceTransaction
	if err := database.DB.First(&transaction, id).Error; err != nil {
		NotFound(c, "Giao dịch không tồn tại")
		return
	}

	var req UpdateTransactionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		BadRequest(c, SafeErrorMessage(err, "Tham số không hợp lệ"))
		return
	}
	if req.Amount != nil && !req.Amount.IsPositive() {
		BadRequest(c, "Số tiền phải lớn hơn 0")
		return
	}

	updates := map[string]interface{}{}
	if req.CategoryID != nil {
		var count int64
		database.DB.Model(&models.FinanceCategory{}).Where("id = ?", *req.CategoryID).Count(&count)
		if count == 0 {
			BadRequest(c, "Danh mục không tồn tại")
			return
		}
		updates["category_id"] = *req.CategoryID
	}
	if req.Amount != nil {
		updates["amount"] = *req.Amount
	}
	if req.CustomerID != nil {
		var count int64
		database.DB.Model(&models.Customer{}).Where("id = ?", *req.CustomerID).Count(&count)
		if count == 0 {
			BadRequest(c, "Khách hàng không tồn tại")
			return
		}
		updates["customer_id"] = *req.CustomerID
	}
	if req.Note != nil {
		updates["note"] = *req.Note
	}

	if len(updates) > 0 {
		if err := database.DB.Model(&transaction).Updates(updates).Error; err != nil {
			InternalError(c, SafeErrorMessage(err, "Cập nhật thất bại"))
			return
		}
		// Danh mục có thể đã đổi, nạp lại trước khi đồng bộ ví
		transaction.Category = nil
		if err := service.SyncFinanceTransaction(database.DB, &transaction); err != nil {
			InternalError(c, SafeErrorMessage(err, "Đồng bộ ví thất bại"))
			return
		}
	}

	SuccessWithMessage(c, "Cập nhật thành công", transaction)
}

// DeleteTransaction xóa giao dịch thu chi cùng giao dịch ví đồng bộ của nó
// @Summary Xóa giao dịch thu chi
// @Tags Tài chính
// @Produce json
// @Security BearerAuth
// @Param id path int true "ID giao dịch"
// @Success 200 {object} Response "Xóa thành công"
// @Failure 404 {object} Response "Giao dịch không tồn tại"
// @Router /api/v1/tai-chinh/giao-dich/{id} [delete]
func (h *FinanceHandler) DeleteTransaction(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		BadRequest(c, "ID không hợp lệ")
		return
	}

	var transaction models.FinanceTransaction
	if err := database.DB.First(&transaction, id).Error; err != nil {
		NotFound(c, "Giao dịch không tồn tại")
		return
	}

	if err := database.DB.Delete(&transaction).Error; err != nil {
		InternalError(c, SafeErrorMessage(err, "Xóa thất bại"))
		return
	}

	if err := service.RemoveFinanceMirror(database.DB, transaction.ID); err != nil {
		InternalError(c, SafeErrorMessage(err, "Đồng bộ ví thất bại"))
		return
	}

	SuccessWithMessage(c, "Xóa giao dịch thành công", nil)
}
