package api

import (
	"strconv"

	"navybaby/database"
	"navybaby/models"
	"navybaby/service"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
)

// CustomerHandler xử lý khách hàng
type CustomerHandler struct{}

// NewCustomerHandler tạo handler khách hàng
func NewCustomerHandler() *CustomerHandler {
	return &CustomerHandler{}
}

// CreateCustomerRequest yêu cầu tạo khách hàng
type CreateCustomerRequest struct {
	Name        string `json:"name" binding:"required,max=255" example:"Nguyễn Thị Hoa"`
	PhoneNumber string `json:"phone_number" binding:"omitempty,max=20" example:"0912345678"`
	SocialLink  string `json:"social_link" binding:"omitempty,max=500"`
	Address     string `json:"address" binding:"omitempty,max=500"`
	IsAffiliate bool   `json:"is_affiliate"`
	Note        string `json:"note"`
}

// UpdateCustomerRequest yêu cầu cập nhật khách hàng
type UpdateCustomerRequest struct {
	Name        *string `json:"name" binding:"omitempty,max=255"`
	PhoneNumber *string `json:"phone_number" binding:"omitempty,max=20"`
	SocialLink  *string `json:"social_link" binding:"omitempty,max=500"`
	Address     *string `json:"address" binding:"omitempty,max=500"`
	IsAffiliate *bool   `json:"is_affiliate"`
	Note        *string `json:"note"`
}

// PaymentSummary tổng hợp thanh toán của một khách hàng.
// Đã thanh toán = lợi nhuận ròng các đơn đã đối soát;
// đặt cọc = tổng đặt cọc trừ tổng khấu trừ đặt cọc bên sổ thu chi;
// còn lại = tổng lợi nhuận ròng - đã thanh toán - đặt cọc.
type PaymentSummary struct {
	TotalNetProfit int64           `json:"total_net_profit"`
	Paid           int64           `json:"paid"`
	Deposit        decimal.Decimal `json:"deposit"`
	Remaining      decimal.Decimal `json:"remaining"`
}

// ConfirmPaymentRequest yêu cầu xác nhận khách thanh toán bill
type ConfirmPaymentRequest struct {
	Amount          decimal.Decimal `json:"amount" binding:"required"`
	Note            string          `json:"note"`
	DepositDeducted decimal.Decimal `json:"deposit_deducted"`
}

// parseOrderFilters đọc bộ lọc bill từ query string
func parseOrderFilters(c *gin.Context) service.OrderFilters {
	f := service.OrderFilters{
		Query: c.Query("q"),
	}
	for _, s := range c.QueryArray("status") {
		if models.IsValidOrderStatus(s) {
			f.Statuses = append(f.Statuses, s)
		}
	}
	for _, s := range c.QueryArray("supplier") {
		if id, err := strconv.ParseUint(s, 10, 32); err == nil {
			f.SupplierIDs = append(f.SupplierIDs, uint(id))
		}
	}
	return f
}

// Create tạo khách hàng
// @Summary Tạo khách hàng
// @Description Tạo khách hàng mới, mã KH-{DDMMYY}-{NNN} sinh tự động
// @Tags Khách hàng
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body CreateCustomerRequest true "Thông tin khách hàng"
// @Success 200 {object} Response{data=models.Customer} "Tạo thành công"
// @Failure 400 {object} Response "Tham số không hợp lệ"
// @Router /api/v1/khach-hang [post]
func (h *CustomerHandler) Create(c *gin.Context) {
	var req CreateCustomerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		BadRequest(c, SafeErrorMessage(err, "Tham số không hợp lệ"))
		return
	}

	customer := models.Customer{
		Name:        req.Name,
		PhoneNumber: req.PhoneNumber,
		SocialLink:  req.SocialLink,
		Address:     req.Address,
		IsAffiliate: req.IsAffiliate,
		Note:        req.Note,
	}

	// Sinh mã rồi tạo, trùng mã (hai request cùng lúc) thì sinh lại
	var lastErr error
	for i := 0; i < models.CodeRetries; i++ {
		code, err := models.GenerateCode(database.DB, &models.Customer{}, models.CustomerCodePrefix)
		if err != nil {
			InternalError(c, SafeErrorMessage(err, "Sinh mã khách hàng thất bại"))
			return
		}
		customer.Code = code
		lastErr = database.DB.Create(&customer).Error
		if lastErr == nil {
			SuccessWithMessage(c, "Tạo khách hàng thành công", customer)
			return
		}
		if !models.IsDuplicateKeyError(lastErr) {
			break
		}
	}
	InternalError(c, SafeErrorMessage(lastErr, "Tạo khách hàng thất bại"))
}

// List danh sách khách hàng
// @Summary Danh sách khách hàng
// @Description Danh sách khách hàng có phân trang, tìm theo tên/mã/số điện thoại
// @Tags Khách hàng
// @Produce json
// @Security BearerAuth
// @Param page query int false "Trang" default(1)
// @Param page_size query int false "Số bản ghi mỗi trang" default(10)
// @Param q query string false "Tìm theo tên, mã hoặc số điện thoại"
// @Param is_affiliate query bool false "Chỉ lấy khách cộng tác viên"
// @Success 200 {object} Response{data=PageResponse{list=[]models.Customer}}
// @Router /api/v1/khach-hang [get]
func (h *CustomerHandler) List(c *gin.Context) {
	page, pageSize := parsePagination(c)

	query := database.DB.Model(&models.Customer{})
	if q := c.Query("q"); q != "" {
		pattern := "%" + q + "%"
		query = query.Where("name LIKE ? OR code LIKE ? OR phone_number LIKE ?", pattern, pattern, pattern)
	}
	if c.Query("is_affiliate") == "true" {
		query = query.Where("is_affiliate = ?", true)
	}

	var total int64
	query.Count(&total)

	var customers []models.Customer
	offset := (page - 1) * pageSize
	if err := query.Order("created_at DESC").Offset(offset).Limit(pageSize).Find(&customers).Error; err != nil {
		InternalError(c, SafeErrorMessage(err, "Truy vấn thất bại"))
		return
	}

	Success(c, PageResponse{
		Total:    total,
		Page:     page,
		PageSize: pageSize,
		List:     customers,
	})
}

// Get chi tiết khách hàng kèm tổng hợp đơn và thanh toán
// @Summary Chi tiết khách hàng
// @Description Thông tin khách hàng, tổng hợp đơn hàng và tổng hợp thanh toán
// @Tags Khách hàng
// @Produce json
// @Security BearerAuth
// @Param id path int true "ID khách hàng"
// @Success 200 {object} Response
// @Failure 404 {object} Response "Khách hàng không tồn tại"
// @Router /api/v1/khach-hang/{id} [get]
func (h *CustomerHandler) Get(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		BadRequest(c, "ID không hợp lệ")
		return
	}

	var customer models.Customer
	if err := database.DB.First(&customer, id).Error; err != nil {
		NotFound(c, "Khách hàng không tồn tại")
		return
	}

	var agg models.OrderAggregate
	err = database.DB.Model(&models.Order{}).
		Where("orders.customer_id = ?", customer.ID).
		Select(models.OrderAggregateSelect).
		Scan(&agg).Error
	if err != nil {
		InternalError(c, SafeErrorMessage(err, "Tổng hợp đơn hàng thất bại"))
		return
	}

	summary, err := h.paymentSummary(customer.ID)
	if err != nil {
		InternalError(c, SafeErrorMessage(err, "Tổng hợp thanh toán thất bại"))
		return
	}

	Success(c, gin.H{
		"customer":        customer,
		"order_summary":   agg,
		"payment_summary": summary,
	})
}

// paymentSummary tính tổng hợp thanh toán của một khách hàng
func (h *CustomerHandler) paymentSummary(customerID uint) (*PaymentSummary, error) {
	var totalNet, paid int64
	err := database.DB.Model(&models.Order{}).
		Where("orders.customer_id = ?", customerID).
		Select("COALESCE(SUM(" + models.OrderNetProfitSQL + "), 0)").
		Scan(&totalNet).Error
	if err != nil {
		return nil, err
	}
	err = database.DB.Model(&models.Order{}).
		Where("orders.customer_id = ? AND orders.status = ?", customerID, models.OrderStatusReconciled).
		Select("COALESCE(SUM(" + models.OrderNetProfitSQL + "), 0)").
		Scan(&paid).Error
	if err != nil {
		return nil, err
	}

	var deposits, deductions decimal.Decimal
	err = database.DB.Model(&models.FinanceTransaction{}).
		Joins("JOIN finance_categories ON finance_categories.id = finance_transactions.category_id").
		Where("finance_transactions.customer_id = ? AND finance_categories.name = ?", customerID, models.CategoryCustomerDeposit).
		Select("COALESCE(SUM(finance_transactions.amount), 0)").
		Scan(&deposits).Error
	if err != nil {
		return nil, err
	}
	err = database.DB.Model(&models.FinanceTransaction{}).
		Joins("JOIN finance_categories ON finance_categories.id = finance_transactions.category_id").
		Where("finance_transactions.customer_id = ? AND finance_categories.name = ?", customerID, models.CategoryDepositDeduction).
		Select("COALESCE(SUM(finance_transactions.amount), 0)").
		Scan(&deductions).Error
	if err != nil {
		return nil, err
	}

	deposit := deposits.Sub(deductions)
	remaining := decimal.NewFromInt(totalNet - paid).Sub(deposit)

	return &PaymentSummary{
		TotalNetProfit: totalNet,
		Paid:           paid,
		Deposit:        deposit,
		Remaining:      remaining,
	}, nil
}

// Report báo cáo công nợ của một khách hàng
// @Summary Báo cáo khách hàng
// @Description Tổng hợp đơn theo trạng thái, tổng thu chi gắn với khách và tổng hợp thanh toán
// @Tags Khách hàng
// @Produce json
// @Security BearerAuth
// @Param id path int true "ID khách hàng"
// @Success 200 {object} Response
// @Failure 404 {object} Response "Khách hàng không tồn tại"
// @Router /api/v1/khach-hang/{id}/bao-cao [get]
func (h *CustomerHandler) Report(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		BadRequest(c, "ID không hợp lệ")
		return
	}

	var customer models.Customer
	if err := database.DB.First(&customer, id).Error; err != nil {
		NotFound(c, "Khách hàng không tồn tại")
		return
	}

	// Tổng hợp đơn theo từng trạng thái
	type statusAgg struct {
		Status string `json:"status"`
		models.OrderAggregate
	}
	var statusRows []statusAgg
	err = database.DB.Model(&models.Order{}).
		Where("orders.customer_id = ?", customer.ID).
		Select("orders.status AS status, " + models.OrderAggregateSelect).
		Group("orders.status").
		Scan(&statusRows).Error
	if err != nil {
		InternalError(c, SafeErrorMessage(err, "Tổng hợp đơn hàng thất bại"))
		return
	}
	byStatus := make([]gin.H, 0, len(statusRows))
	for _, row := range statusRows {
		byStatus = append(byStatus, gin.H{
			"status":       row.Status,
			"status_label": models.OrderStatusLabels[row.Status],
			"summary":      row.OrderAggregate,
		})
	}

	// Tổng thu chi gắn với khách hàng bên sổ tài chính
	var income, expense decimal.Decimal
	err = database.DB.Model(&models.FinanceTransaction{}).
		Joins("JOIN finance_categories ON finance_categories.id = finance_transactions.category_id").
		Where("finance_transactions.customer_id = ? AND finance_categories.type = ?", customer.ID, models.FinanceTypeIncome).
		Select("COALESCE(SUM(finance_transactions.amount), 0)").
		Scan(&income).Error
	if err != nil {
		InternalError(c, SafeErrorMessage(err, "Tổng hợp thu chi thất bại"))
		return
	}
	err = database.DB.Model(&models.FinanceTransaction{}).
		Joins("JOIN finance_categories ON finance_categories.id = finance_transactions.category_id").
		Where("finance_transactions.customer_id = ? AND finance_categories.type = ?", customer.ID, models.FinanceTypeExpense).
		Select("COALESCE(SUM(finance_transactions.amount), 0)").
		Scan(&expense).Error
	if err != nil {
		InternalError(c, SafeErrorMessage(err, "Tổng hợp thu chi thất bại"))
		return
	}

	summary, err := h.paymentSummary(customer.ID)
	if err != nil {
		InternalError(c, SafeErrorMessage(err, "Tổng hợp thanh toán thất bại"))
		return
	}

	Success(c, gin.H{
		"customer":  customer,
		"by_status": byStatus,
		"finance": gin.H{
			"income_total":  income,
			"expense_total": expense,
			"net_cash":      income.Sub(expense),
		},
		"payment_summary": summary,
	})
}

// Bill bill đơn hàng của khách theo bộ lọc
// @Summary Bill đơn hàng của khách
// @Description Danh sách đơn hàng của khách theo bộ lọc kèm tổng hợp, dùng cho đối soát
// @Tags Khách hàng
// @Produce json
// @Security BearerAuth
// @Param id path int true "ID khách hàng"
// @Param status query []string false "Lọc theo trạng thái"
// @Param supplier query []int false "Lọc theo nhà cung cấp"
// @Param q query string false "Tìm theo mã đơn hoặc tên sản phẩm"
// @Success 200 {object} Response
// @Failure 404 {object} Response "Khách hàng không tồn tại"
// @Router /api/v1/khach-hang/{id}/bill [get]
func (h *CustomerHandler) Bill(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		BadRequest(c, "ID không hợp lệ")
		return
	}

	var customer models.Customer
	if err := database.DB.First(&customer, id).Error; err != nil {
		NotFound(c, "Khách hàng không tồn tại")
		return
	}

	filters := parseOrderFilters(c)

	query := database.DB.Model(&models.Order{}).Where("orders.customer_id = ?", customer.ID)
	query = service.ApplyOrderFilters(database.DB, query, filters)

	var orders []models.Order
	err = query.Preload("Product").Preload("Color").Preload("Size").
		Order("orders.created_at DESC").
		Find(&orders).Error
	if err != nil {
		InternalError(c, SafeErrorMessage(err, "Truy vấn thất bại"))
		return
	}

	aggQuery := database.DB.Model(&models.Order{}).Where("orders.customer_id = ?", customer.ID)
	aggQuery = service.ApplyOrderFilters(database.DB, aggQuery, filters)
	var agg models.OrderAggregate
	if err := aggQuery.Select(models.OrderAggregateSelect).Scan(&agg).Error; err != nil {
		InternalError(c, SafeErrorMessage(err, "Tổng hợp thất bại"))
		return
	}

	Success(c, gin.H{
		"customer": customer,
		"orders":   orders,
		"summary":  agg,
	})
}

// ConfirmPayment xác nhận khách thanh toán bill
// @Summary Xác nhận thanh toán
// @Description Ghi khoản thu, khấu trừ đặt cọc nếu có và chuyển các đơn khớp bộ lọc sang đã đối soát
// @Tags Khách hàng
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "ID khách hàng"
// @Param request body ConfirmPaymentRequest true "Số tiền và khấu trừ"
// @Param status query []string false "Bộ lọc trạng thái của bill"
// @Param supplier query []int false "Bộ lọc nhà cung cấp của bill"
// @Param q query string false "Bộ lọc tìm kiếm của bill"
// @Success 200 {object} Response{data=service.ConfirmPaymentResult} "Xác nhận thành công"
// @Failure 400 {object} Response "Số tiền không hợp lệ"
// @Failure 404 {object} Response "Khách hàng không tồn tại"
// @Router /api/v1/khach-hang/{id}/xac-nhan-thanh-toan [post]
func (h *CustomerHandler) ConfirmPayment(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		BadRequest(c, "ID không hợp lệ")
		return
	}

	var req ConfirmPaymentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		BadRequest(c, SafeErrorMessage(err, "Tham số không hợp lệ"))
		return
	}

	result, err := service.ConfirmPayment(database.DB, service.ConfirmPaymentInput{
		CustomerID:      uint(id),
		Amount:          req.Amount,
		Note:            req.Note,
		DepositDeducted: req.DepositDeducted,
		Filters:         parseOrderFilters(c),
	})
	if err != nil {
		switch err {
		case service.ErrCustomerNotFound:
			NotFound(c, "Khách hàng không tồn tại")
		case service.ErrInvalidAmount:
			BadRequest(c, "Số tiền phải lớn hơn 0")
		default:
			InternalError(c, SafeErrorMessage(err, "Xác nhận thanh toán thất bại"))
		}
		return
	}

	SuccessWithMessage(c, "Xác nhận thanh toán thành công", result)
}

// Update cập nhật khách hàng
// @Summary Cập nhật khách hàng
// @Tags Khách hàng
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "ID khách hàng"
// @Param request body UpdateCustomerRequest true "Thông tin cập nhật"
// @Success 200 {object} Response{data=models.Customer} "Cập nhật thành công"
// @Failure 404 {object} Response "Khách hàng không tồn tại"
// @Router /api/v1/khach-hang/{id} [put]
func (h *CustomerHandler) Update(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		BadRequest(c, "ID không hợp lệ")
		return
	}

	var customer models.Customer
	if err := database.DB.First(&customer, id).Error; err != nil {
		NotFound(c, "Khách hàng không tồn tại")
		return
	}

	var req UpdateCustomerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		BadRequest(c, SafeErrorMessage(err, "Tham số không hợp lệ"))
		return
	}

	updates := map[string]interface{}{}
	if req.Name != nil {
		updates["name"] = *req.Name
	}
	if req.PhoneNumber != nil {
		updates["phone_number"] = *req.PhoneNumber
	}
	if req.SocialLink != nil {
		updates["social_link"] = *req.SocialLink
	}
	if req.Address != nil {
		updates["address"] = *req.Address
	}
	if req.IsAffiliate != nil {
		updates["is_affiliate"] = *req.IsAffiliate
	}
	if req.Note != nil {
		updates["note"] = *req.Note
	}

	if len(updates) > 0 {
		if err := database.DB.Model(&customer).Updates(updates).Error; err != nil {
			InternalError(c, SafeErrorMessage(err, "Cập nhật thất bại"))
			return
		}
	}

	SuccessWithMessage(c, "Cập nhật thành công", customer)
}

// Delete xóa khách hàng cùng toàn bộ đơn hàng của khách
// @Summary Xóa khách hàng
// @Tags Khách hàng
// @Produce json
// @Security BearerAuth
// @Param id path int true "ID khách hàng"
// @Success 200 {object} Response "Xóa thành công"
// @Failure 404 {object} Response "Khách hàng không tồn tại"
// @Router /api/v1/khach-hang/{id} [delete]
func (h *CustomerHandler) Delete(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		BadRequest(c, "ID không hợp lệ")
		return
	}

	var customer models.Customer
	if err := database.DB.First(&customer, id).Error; err != nil {
		NotFound(c, "Khách hàng không tồn tại")
		return
	}

	if err := database.DB.Delete(&customer).Error; err != nil {
		InternalError(c, SafeErrorMessage(err, "Xóa thất bại"))
		return
	}

	SuccessWithMessage(c, "Xóa khách hàng thành công", nil)
}
