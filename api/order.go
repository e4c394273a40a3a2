package api

import (
	"strconv"
	"time"

	"navybaby/database"
	"navybaby/models"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// OrderHandler xử lý đơn hàng
type OrderHandler struct{}

// NewOrderHandler tạo handler đơn hàng
func NewOrderHandler() *OrderHandler {
	return &OrderHandler{}
}

// CreateOrderItem một dòng hàng trong yêu cầu tạo đơn
type CreateOrderItem struct {
	ProductID uint   `json:"product_id" binding:"required"`
	ColorID   *uint  `json:"color_id"`
	SizeID    *uint  `json:"size_id"`
	Amount    int    `json:"amount" binding:"omitempty,gt=0"`
	SalePrice *int64 `json:"sale_price" binding:"omitempty,gte=0"`
	Discount  int64  `json:"discount" binding:"omitempty,gte=0"`
	Note      string `json:"note"`
}

// CreateOrderRequest yêu cầu tạo đơn hàng, mỗi dòng hàng thành một đơn riêng
type CreateOrderRequest struct {
	CustomerID uint              `json:"customer_id" binding:"required"`
	Items      []CreateOrderItem `json:"items" binding:"required,min=1,dive"`
}

// UpdateOrderRequest yêu cầu cập nhật đơn hàng
type UpdateOrderRequest struct {
	ColorID   *uint  `json:"color_id"`
	SizeID    *uint  `json:"size_id"`
	Amount    *int   `json:"amount" binding:"omitempty,gt=0"`
	SalePrice *int64 `json:"sale_price" binding:"omitempty,gte=0"`
	Discount  *int64 `json:"discount" binding:"omitempty,gte=0"`
	Note      *string `json:"note"`
}

// UpdateStatusRequest yêu cầu đổi trạng thái một đơn
type UpdateStatusRequest struct {
	Status string `json:"status" binding:"required"`
}

// BulkStatusRequest yêu cầu đổi trạng thái nhiều đơn
type BulkStatusRequest struct {
	OrderIDs []uint `json:"order_ids" binding:"required,min=1"`
	Status   string `json:"status" binding:"required"`
}

// OrderView đơn hàng kèm số liệu tài chính tính sẵn
type OrderView struct {
	models.Order
	Financials  models.Financials `json:"financials"`
	StatusLabel string            `json:"status_label"`
}

// orderSortMap ánh xạ khóa sort sang mệnh đề ORDER BY.
// Doanh thu sắp theo biểu thức doanh thu nên đơn hủy luôn đứng về phía 0.
var orderSortMap = map[string]string{
	"created_asc":  "orders.created_at ASC",
	"created_desc": "orders.created_at DESC",
	"updated_asc":  "orders.updated_at ASC",
	"updated_desc": "orders.updated_at DESC",
	"revenue_asc":  "(" + models.OrderRevenueSQL + ") ASC",
	"revenue_desc": "(" + models.OrderRevenueSQL + ") DESC",
}

// applyOrderListFilters áp bộ lọc danh sách đơn: trạng thái, nhà cung cấp,
// khoảng ngày tạo và tìm kiếm trên mã đơn, khách hàng, sản phẩm, ghi chú
func applyOrderListFilters(c *gin.Context, query *gorm.DB) *gorm.DB {
	if statuses := c.QueryArray("status"); len(statuses) > 0 {
		valid := make([]string, 0, len(statuses))
		for _, s := range statuses {
			if models.IsValidOrderStatus(s) {
				valid = append(valid, s)
			}
		}
		if len(valid) > 0 {
			query = query.Where("orders.status IN ?", valid)
		}
	}

	if suppliers := c.QueryArray("supplier"); len(suppliers) > 0 {
		ids := make([]uint, 0, len(suppliers))
		for _, s := range suppliers {
			if id, err := strconv.ParseUint(s, 10, 32); err == nil {
				ids = append(ids, uint(id))
			}
		}
		if len(ids) > 0 {
			query = query.Where("orders.product_id IN (?)",
				database.DB.Model(&models.Product{}).Select("id").Where("supplier_id IN ?", ids))
		}
	}

	if customer := c.Query("customer"); customer != "" {
		query = query.Where("orders.customer_id = ?", customer)
	}

	if q := c.Query("q"); q != "" {
		pattern := "%" + q + "%"
		query = query.Where(
			"orders.code LIKE ? OR orders.note LIKE ? OR orders.customer_id IN (?) OR orders.product_id IN (?)",
			pattern,
			pattern,
			database.DB.Model(&models.Customer{}).Select("id").
				Where("name LIKE ? OR code LIKE ? OR phone_number LIKE ?", pattern, pattern, pattern),
			database.DB.Model(&models.Product{}).Select("id").
				Where("name LIKE ? OR code LIKE ?", pattern, pattern),
		)
	}

	if v := c.Query("date_from"); v != "" {
		if from, err := time.ParseInLocation("2006-01-02", v, time.Local); err == nil {
			query = query.Where("orders.created_at >= ?", from)
		}
	}
	if v := c.Query("date_to"); v != "" {
		if to, err := time.ParseInLocation("2006-01-02", v, time.Local); err == nil {
			// Lấy trọn ngày kết thúc
			to = to.Add(24*time.Hour - time.Second)
			query = query.Where("orders.created_at <= ?", to)
		}
	}

	return query
}

// orderGroupRow một nhóm trong kết quả gộp
type orderGroupRow struct {
	GroupKey   string `json:"group_key"`
	GroupLabel string `json:"group_label"`
	models.OrderAggregate
}

// groupedList trả danh sách gộp theo khách hàng, sản phẩm, trạng thái hoặc ngày
func (h *OrderHandler) groupedList(c *gin.Context, groupBy string) {
	baseQuery := func() *gorm.DB {
		return applyOrderListFilters(c, database.DB.Model(&models.Order{}))
	}

	var rows []orderGroupRow
	var err error
	switch groupBy {
	case "customer":
		err = baseQuery().
			Joins("JOIN customers ON customers.id = orders.customer_id").
			Select("customers.code AS group_key, customers.name AS group_label, " + models.OrderAggregateSelect).
			Group("orders.customer_id, customers.code, customers.name").
			Order("total_revenue DESC").
			Scan(&rows).Error
	case "product":
		err = baseQuery().
			Joins("JOIN products ON products.id = orders.product_id").
			Select("products.code AS group_key, products.name AS group_label, " + models.OrderAggregateSelect).
			Group("orders.product_id, products.code, products.name").
			Order("total_revenue DESC").
			Scan(&rows).Error
	case "status":
		err = baseQuery().
			Select("orders.status AS group_key, orders.status AS group_label, " + models.OrderAggregateSelect).
			Group("orders.status").
			Order("total_revenue DESC").
			Scan(&rows).Error
	case "day":
		err = baseQuery().
			Select("DATE(orders.created_at) AS group_key, DATE(orders.created_at) AS group_label, " + models.OrderAggregateSelect).
			Group("DATE(orders.created_at)").
			Order("group_key DESC").
			Scan(&rows).Error
	default:
		BadRequest(c, "group_by không hợp lệ, chỉ nhận: customer, product, status, day")
		return
	}
	if err != nil {
		InternalError(c, SafeErrorMessage(err, "Tổng hợp thất bại"))
		return
	}

	if groupBy == "status" {
		for i := range rows {
			if label, ok := models.OrderStatusLabels[rows[i].GroupKey]; ok {
				rows[i].GroupLabel = label
			}
		}
	}

	var totals models.OrderAggregate
	if err := baseQuery().Select(models.OrderAggregateSelect).Scan(&totals).Error; err != nil {
		InternalError(c, SafeErrorMessage(err, "Tổng hợp thất bại"))
		return
	}

	Success(c, gin.H{
		"group_by": groupBy,
		"groups":   rows,
		"totals":   totals,
	})
}

// List danh sách đơn hàng
// @Summary Danh sách đơn hàng
// @Description Danh sách đơn có phân trang, bộ lọc, sắp xếp, gộp nhóm và tổng hợp tài chính
// @Tags Đơn hàng
// @Produce json
// @Security BearerAuth
// @Param page query int false "Trang" default(1)
// @Param page_size query int false "Số bản ghi mỗi trang" default(10)
// @Param status query []string false "Lọc theo trạng thái"
// @Param supplier query []int false "Lọc theo nhà cung cấp"
// @Param customer query int false "Lọc theo khách hàng"
// @Param q query string false "Tìm theo mã đơn, khách hàng, sản phẩm, ghi chú"
// @Param date_from query string false "Từ ngày (2006-01-02)"
// @Param date_to query string false "Đến ngày (2006-01-02)"
// @Param sort query string false "created_asc/created_desc/updated_asc/updated_desc/revenue_asc/revenue_desc" default(created_desc)
// @Param group_by query string false "Gộp nhóm: customer/product/status/day"
// @Param display query string false "compact chỉ trả danh sách, không kèm tổng hợp"
// @Success 200 {object} Response
// @Router /api/v1/don-hang [get]
func (h *OrderHandler) List(c *gin.Context) {
	if groupBy := c.Query("group_by"); groupBy != "" && groupBy != "none" {
		h.groupedList(c, groupBy)
		return
	}

	page, pageSize := parsePagination(c)

	query := applyOrderListFilters(c, database.DB.Model(&models.Order{}))

	orderBy, ok := orderSortMap[c.Query("sort")]
	if !ok {
		orderBy = orderSortMap["created_desc"]
	}

	var total int64
	query.Count(&total)

	var orders []models.Order
	offset := (page - 1) * pageSize
	err := query.
		Preload("Customer").Preload("Product").Preload("Color").Preload("Size").
		Order(orderBy).Offset(offset).Limit(pageSize).
		Find(&orders).Error
	if err != nil {
		InternalError(c, SafeErrorMessage(err, "Truy vấn thất bại"))
		return
	}

	views := make([]OrderView, 0, len(orders))
	for _, order := range orders {
		views = append(views, OrderView{
			Order:       order,
			Financials:  models.OrderFinancials(order),
			StatusLabel: models.OrderStatusLabels[order.Status],
		})
	}

	resp := gin.H{
		"list":      views,
		"total":     total,
		"page":      page,
		"page_size": pageSize,
	}

	// display=compact bỏ phần tổng hợp để danh sách dài trả nhanh hơn
	if c.Query("display") != "compact" {
		var totals models.OrderAggregate
		aggQuery := applyOrderListFilters(c, database.DB.Model(&models.Order{}))
		if err := aggQuery.Select(models.OrderAggregateSelect).Scan(&totals).Error; err != nil {
			InternalError(c, SafeErrorMessage(err, "Tổng hợp thất bại"))
			return
		}
		resp["totals"] = totals
	}

	Success(c, resp)
}

// validateVariant kiểm tra màu/size thuộc đúng sản phẩm
func validateVariant(productID uint, colorID, sizeID *uint) string {
	if colorID != nil {
		var count int64
		database.DB.Model(&models.Color{}).Where("id = ? AND product_id = ?", *colorID, productID).Count(&count)
		if count == 0 {
			return "Màu không thuộc sản phẩm đã chọn"
		}
	}
	if sizeID != nil {
		var count int64
		database.DB.Model(&models.Size{}).Where("id = ? AND product_id = ?", *sizeID, productID).Count(&count)
		if count == 0 {
			return "Size không thuộc sản phẩm đã chọn"
		}
	}
	return ""
}

// Create tạo đơn hàng, mỗi dòng hàng thành một đơn với mã riêng
// @Summary Tạo đơn hàng
// @Description Tạo một hoặc nhiều đơn cho một khách; giá bán để trống thì lấy giá sản phẩm tại thời điểm tạo
// @Tags Đơn hàng
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body CreateOrderRequest true "Thông tin đơn hàng"
// @Success 200 {object} Response{data=[]models.Order} "Tạo thành công"
// @Failure 400 {object} Response "Tham số không hợp lệ"
// @Router /api/v1/don-hang [post]
func (h *OrderHandler) Create(c *gin.Context) {
	var req CreateOrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		BadRequest(c, SafeErrorMessage(err, "Tham số không hợp lệ"))
		return
	}

	var customer models.Customer
	if err := database.DB.First(&customer, req.CustomerID).Error; err != nil {
		BadRequest(c, "Khách hàng không tồn tại")
		return
	}

	// Kiểm tra hết sản phẩm và biến thể trước, chỉ mở transaction khi mọi dòng hợp lệ
	orders := make([]models.Order, 0, len(req.Items))
	for _, item := range req.Items {
		var product models.Product
		if err := database.DB.First(&product, item.ProductID).Error; err != nil {
			BadRequest(c, "Sản phẩm không tồn tại")
			return
		}
		if msg := validateVariant(product.ID, item.ColorID, item.SizeID); msg != "" {
			BadRequest(c, msg)
			return
		}

		amount := item.Amount
		if amount <= 0 {
			amount = 1
		}
		// Chốt giá bán theo giá sản phẩm hiện tại nếu không chỉ định
		salePrice := product.Price
		if item.SalePrice != nil {
			salePrice = *item.SalePrice
		}

		orders = append(orders, models.Order{
			CustomerID: customer.ID,
			ProductID:  product.ID,
			ColorID:    item.ColorID,
			SizeID:     item.SizeID,
			Amount:     amount,
			SalePrice:  salePrice,
			Discount:   item.Discount,
			Status:     models.OrderStatusCreated,
			Note:       item.Note,
		})
	}

	created := make([]models.Order, 0, len(orders))
	err := database.DB.Transaction(func(tx *gorm.DB) error {
		for _, order := range orders {
			var lastErr error
			for i := 0; i < models.CodeRetries; i++ {
				code, err := models.GenerateCode(tx, &models.Order{}, models.OrderCodePrefix)
				if err != nil {
					return err
				}
				order.Code = code
				order.ID = 0
				lastErr = tx.Create(&order).Error
				if lastErr == nil {
					break
				}
				if !models.IsDuplicateKeyError(lastErr) {
					return lastErr
				}
			}
			if lastErr != nil {
				return lastErr
			}
			created = append(created, order)
		}
		return nil
	})
	if err != nil {
		InternalError(c, SafeErrorMessage(err, "Tạo đơn hàng thất bại"))
		return
	}

	SuccessWithMessage(c, "Tạo đơn hàng thành công", created)
}

// Get chi tiết đơn hàng
// @Summary Chi tiết đơn hàng
// @Tags Đơn hàng
// @Produce json
// @Security BearerAuth
// @Param id path int true "ID đơn hàng"
// @Success 200 {object} Response{data=OrderView}
// @Failure 404 {object} Response "Đơn hàng không tồn tại"
// @Router /api/v1/don-hang/{id} [get]
func (h *OrderHandler) Get(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		BadRequest(c, "ID không hợp lệ")
		return
	}

	var order models.Order
	err = database.DB.
		Preload("Customer").Preload("Product").Preload("Color").Preload("Size").
		First(&order, id).Error
	if err != nil {
		NotFound(c, "Đơn hàng không tồn tại")
		return
	}

	Success(c, OrderView{
		Order:       order,
		Financials:  models.OrderFinancials(order),
		StatusLabel: models.OrderStatusLabels[order.Status],
	})
}

// Update cập nhật đơn hàng
// @Summary Cập nhật đơn hàng
// @Description Sửa số lượng, giá bán, chiết khấu, màu/size, ghi chú của đơn
// @Tags Đơn hàng
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "ID đơn hàng"
// @Param request body UpdateOrderRequest true "Thông tin cập nhật"
// @Success 200 {object} Response{data=OrderView} "Cập nhật thành công"
// @Failure 404 {object} Response "Đơn hàng không tồn tại"
// @Router /api/v1/don-hang/{id} [put]
func (h *OrderHandler) Update(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		BadRequest(c, "ID không hợp lệ")
		return
	}

	var order models.Order
	if err := database.DB.First(&order, id).Error; err != nil {
		NotFound(c, "Đơn hàng không tồn tại")
		return
	}

	var req UpdateOrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		BadRequest(c, SafeErrorMessage(err, "Tham số không hợp lệ"))
		return
	}

	if req.ColorID != nil || req.SizeID != nil {
		if msg := validateVariant(order.ProductID, req.ColorID, req.SizeID); msg != "" {
			BadRequest(c, msg)
			return
		}
	}

	updates := map[string]interface{}{}
	if req.ColorID != nil {
		updates["color_id"] = *req.ColorID
	}
	if req.SizeID != nil {
		updates["size_id"] = *req.SizeID
	}
	if req.Amount != nil {
		updates["amount"] = *req.Amount
	}
	if req.SalePrice != nil {
		updates["sale_price"] = *req.SalePrice
	}
	if req.Discount != nil {
		updates["discount"] = *req.Discount
	}
	if req.Note != nil {
		updates["note"] = *req.Note
	}

	if len(updates) > 0 {
		if err := database.DB.Model(&order).Updates(updates).Error; err != nil {
			InternalError(c, SafeErrorMessage(err, "Cập nhật thất bại"))
			return
		}
	}

	SuccessWithMessage(c, "Cập nhật thành công", OrderView{
		Order:       order,
		Financials:  models.OrderFinancials(order),
		StatusLabel: models.OrderStatusLabels[order.Status],
	})
}

// UpdateStatus đổi trạng thái một đơn hàng
// @Summary Đổi trạng thái đơn hàng
// @Description Đơn chuyển sang hủy thì doanh thu, chiết khấu, lợi nhuận đều tính 0
// @Tags Đơn hàng
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "ID đơn hàng"
// @Param request body UpdateStatusRequest true "Trạng thái mới"
// @Success 200 {object} Response{data=OrderView} "Cập nhật thành công"
// @Failure 400 {object} Response "Trạng thái không hợp lệ"
// @Router /api/v1/don-hang/{id}/trang-thai [post]
func (h *OrderHandler) UpdateStatus(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		BadRequest(c, "ID không hợp lệ")
		return
	}

	var req UpdateStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		BadRequest(c, SafeErrorMessage(err, "Tham số không hợp lệ"))
		return
	}
	if !models.IsValidOrderStatus(req.Status) {
		BadRequest(c, "Trạng thái không hợp lệ")
		return
	}

	var order models.Order
	if err := database.DB.First(&order, id).Error; err != nil {
		NotFound(c, "Đơn hàng không tồn tại")
		return
	}

	if err := database.DB.Model(&order).Update("status", req.Status).Error; err != nil {
		InternalError(c, SafeErrorMessage(err, "Cập nhật trạng thái thất bại"))
		return
	}

	SuccessWithMessage(c, "Cập nhật trạng thái thành công", OrderView{
		Order:       order,
		Financials:  models.OrderFinancials(order),
		StatusLabel: models.OrderStatusLabels[order.Status],
	})
}

// BulkUpdateStatus đổi trạng thái nhiều đơn cùng lúc
// @Summary Đổi trạng thái nhiều đơn hàng
// @Tags Đơn hàng
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body BulkStatusRequest true "Danh sách đơn và trạng thái mới"
// @Success 200 {object} Response "Cập nhật thành công"
// @Failure 400 {object} Response "Trạng thái không hợp lệ"
// @Router /api/v1/don-hang/cap-nhat-trang-thai-nhieu [post]
func (h *OrderHandler) BulkUpdateStatus(c *gin.Context) {
	var req BulkStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		BadRequest(c, SafeErrorMessage(err, "Tham số không hợp lệ"))
		return
	}
	if !models.IsValidOrderStatus(req.Status) {
		BadRequest(c, "Trạng thái không hợp lệ")
		return
	}

	res := database.DB.Model(&models.Order{}).
		Where("id IN ?", req.OrderIDs).
		Update("status", req.Status)
	if res.Error != nil {
		InternalError(c, SafeErrorMessage(res.Error, "Cập nhật trạng thái thất bại"))
		return
	}

	SuccessWithMessage(c, "Cập nhật trạng thái thành công", gin.H{
		"updated": res.RowsAffected,
	})
}

// Delete xóa đơn hàng
// @Summary Xóa đơn hàng
// @Tags Đơn hàng
// @Produce json
// @Security BearerAuth
// @Param id path int true "ID đơn hàng"
// @Success 200 {object} Response "Xóa thành công"
// @Failure 404 {object} Response "Đơn hàng không tồn tại"
// @Router /api/v1/don-hang/{id} [delete]
func (h *OrderHandler) Delete(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		BadRequest(c, "ID không hợp lệ")
		return
	}

	var order models.Order
	if err := database.DB.First(&order, id).Error; err != nil {
		NotFound(c, "Đơn hàng không tồn tại")
		return
	}

	if err := database.DB.Delete(&order).Error; err != nil {
		InternalError(c, SafeErrorMessage(err, "Xóa thất bại"))
		return
	}

	SuccessWithMessage(c, "Xóa đơn hàng thành công", nil)
}
