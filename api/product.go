package api

import (
	"strconv"

	"navybaby/database"
	"navybaby/models"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// ProductHandler xử lý sản phẩm
type ProductHandler struct{}

// NewProductHandler tạo handler sản phẩm
func NewProductHandler() *ProductHandler {
	return &ProductHandler{}
}

// CreateProductRequest yêu cầu tạo sản phẩm
type CreateProductRequest struct {
	Name         string   `json:"name" binding:"required,max=255" example:"Váy bé gái họa tiết hoa"`
	CategoryID   *uint    `json:"category_id"`
	SupplierID   *uint    `json:"supplier_id"`
	Description  string   `json:"description"`
	ImageURL     string   `json:"image_url" binding:"omitempty,max=500"`
	Price        int64    `json:"price" binding:"required,gt=0" example:"250000"`
	PrivateOrder bool     `json:"private_order"`
	Note         string   `json:"note"`
	Colors       []string `json:"colors"`
	Sizes        []string `json:"sizes"`
}

// UpdateProductRequest yêu cầu cập nhật sản phẩm.
// Colors/Sizes là danh sách thay thế: thiếu tên nào thì xóa,
// thêm tên mới thì tạo; để nil thì giữ nguyên.
type UpdateProductRequest struct {
	Name         *string   `json:"name" binding:"omitempty,max=255"`
	CategoryID   *uint     `json:"category_id"`
	SupplierID   *uint     `json:"supplier_id"`
	Description  *string   `json:"description"`
	ImageURL     *string   `json:"image_url" binding:"omitempty,max=500"`
	Price        *int64    `json:"price" binding:"omitempty,gt=0"`
	PrivateOrder *bool     `json:"private_order"`
	Note         *string   `json:"note"`
	Colors       *[]string `json:"colors"`
	Sizes        *[]string `json:"sizes"`
}

// validateRefs kiểm tra danh mục và nhà cung cấp có tồn tại
func (h *ProductHandler) validateRefs(categoryID, supplierID *uint) string {
	if categoryID != nil {
		var count int64
		database.DB.Model(&models.ProductCategory{}).Where("id = ?", *categoryID).Count(&count)
		if count == 0 {
			return "Danh mục không tồn tại"
		}
	}
	if supplierID != nil {
		var count int64
		database.DB.Model(&models.Supplier{}).Where("id = ?", *supplierID).Count(&count)
		if count == 0 {
			return "Nhà cung cấp không tồn tại"
		}
	}
	return ""
}

// Create tạo sản phẩm kèm danh sách màu và size
// @Summary Tạo sản phẩm
// @Description Tạo sản phẩm mới, mã SP-{DDMMYY}-{NNN} sinh tự động
// @Tags Sản phẩm
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body CreateProductRequest true "Thông tin sản phẩm"
// @Success 200 {object} Response{data=models.Product} "Tạo thành công"
// @Failure 400 {object} Response "Tham số không hợp lệ"
// @Router /api/v1/san-pham [post]
func (h *ProductHandler) Create(c *gin.Context) {
	var req CreateProductRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		BadRequest(c, SafeErrorMessage(err, "Tham số không hợp lệ"))
		return
	}

	if msg := h.validateRefs(req.CategoryID, req.SupplierID); msg != "" {
		BadRequest(c, msg)
		return
	}

	product := models.Product{
		Name:         req.Name,
		CategoryID:   req.CategoryID,
		SupplierID:   req.SupplierID,
		Description:  req.Description,
		ImageURL:     req.ImageURL,
		Price:        req.Price,
		PrivateOrder: req.PrivateOrder,
		Note:         req.Note,
	}
	for _, name := range req.Colors {
		product.Colors = append(product.Colors, models.Color{Name: name})
	}
	for _, name := range req.Sizes {
		product.Sizes = append(product.Sizes, models.Size{Name: name})
	}

	var lastErr error
	for i := 0; i < models.CodeRetries; i++ {
		code, err := models.GenerateCode(database.DB, &models.Product{}, models.ProductCodePrefix)
		if err != nil {
			InternalError(c, SafeErrorMessage(err, "Sinh mã sản phẩm thất bại"))
			return
		}
		product.Code = code
		lastErr = database.DB.Create(&product).Error
		if lastErr == nil {
			SuccessWithMessage(c, "Tạo sản phẩm thành công", product)
			return
		}
		if !models.IsDuplicateKeyError(lastErr) {
			break
		}
	}
	InternalError(c, SafeErrorMessage(lastErr, "Tạo sản phẩm thất bại"))
}

// List danh sách sản phẩm
// @Summary Danh sách sản phẩm
// @Description Danh sách sản phẩm có phân trang, lọc theo danh mục/nhà cung cấp, tìm theo tên/mã
// @Tags Sản phẩm
// @Produce json
// @Security BearerAuth
// @Param page query int false "Trang" default(1)
// @Param page_size query int false "Số bản ghi mỗi trang" default(10)
// @Param q query string false "Tìm theo tên hoặc mã"
// @Param category query int false "Lọc theo danh mục"
// @Param supplier query int false "Lọc theo nhà cung cấp"
// @Success 200 {object} Response{data=PageResponse{list=[]models.Product}}
// @Router /api/v1/san-pham [get]
func (h *ProductHandler) List(c *gin.Context) {
	page, pageSize := parsePagination(c)

	query := database.DB.Model(&models.Product{})
	if q := c.Query("q"); q != "" {
		pattern := "%" + q + "%"
		query = query.Where("name LIKE ? OR code LIKE ?", pattern, pattern)
	}
	if v := c.Query("category"); v != "" {
		query = query.Where("category_id = ?", v)
	}
	if v := c.Query("supplier"); v != "" {
		query = query.Where("supplier_id = ?", v)
	}

	var total int64
	query.Count(&total)

	var products []models.Product
	offset := (page - 1) * pageSize
	err := query.Preload("Category").Preload("Supplier").
		Order("created_at DESC").Offset(offset).Limit(pageSize).
		Find(&products).Error
	if err != nil {
		InternalError(c, SafeErrorMessage(err, "Truy vấn thất bại"))
		return
	}

	Success(c, PageResponse{
		Total:    total,
		Page:     page,
		PageSize: pageSize,
		List:     products,
	})
}

// Get chi tiết sản phẩm
// @Summary Chi tiết sản phẩm
// @Tags Sản phẩm
// @Produce json
// @Security BearerAuth
// @Param id path int true "ID sản phẩm"
// @Success 200 {object} Response{data=models.Product}
// @Failure 404 {object} Response "Sản phẩm không tồn tại"
// @Router /api/v1/san-pham/{id} [get]
func (h *ProductHandler) Get(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		BadRequest(c, "ID không hợp lệ")
		return
	}

	var product models.Product
	err = database.DB.Preload("Category").Preload("Supplier").
		Preload("Colors").Preload("Sizes").
		First(&product, id).Error
	if err != nil {
		NotFound(c, "Sản phẩm không tồn tại")
		return
	}
	Success(c, product)
}

// Detail thông tin rút gọn cho form tạo đơn hàng
// @Summary Thông tin sản phẩm cho form đặt đơn
// @Description Giá, danh sách màu và size của sản phẩm, dùng khi tạo đơn hàng
// @Tags Sản phẩm
// @Produce json
// @Security BearerAuth
// @Param id path int true "ID sản phẩm"
// @Success 200 {object} Response
// @Failure 404 {object} Response "Sản phẩm không tồn tại"
// @Router /api/v1/san-pham/{id}/chi-tiet [get]
func (h *ProductHandler) Detail(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		BadRequest(c, "ID không hợp lệ")
		return
	}

	var product models.Product
	err = database.DB.Preload("Supplier").Preload("Colors").Preload("Sizes").
		First(&product, id).Error
	if err != nil {
		NotFound(c, "Sản phẩm không tồn tại")
		return
	}

	Success(c, gin.H{
		"code":      product.Code,
		"price":     product.Price,
		"image_url": product.ImageURL,
		"supplier":  product.SupplierName(),
		"colors":    product.Colors,
		"sizes":     product.Sizes,
	})
}

// syncColors thay thế danh sách màu của sản phẩm theo danh sách tên mới
func (h *ProductHandler) syncColors(tx *gorm.DB, productID uint, names []string) error {
	keep := make(map[string]bool, len(names))
	for _, n := range names {
		keep[n] = true
	}

	var existing []models.Color
	if err := tx.Where("product_id = ?", productID).Find(&existing).Error; err != nil {
		return err
	}
	have := make(map[string]bool, len(existing))
	for _, color := range existing {
		have[color.Name] = true
		if !keep[color.Name] {
			// Màu đang được đơn hàng tham chiếu sẽ bị chặn bởi ràng buộc khóa ngoại
			if err := tx.Delete(&color).Error; err != nil {
				return err
			}
		}
	}
	for _, n := range names {
		if !have[n] {
			if err := tx.Create(&models.Color{ProductID: productID, Name: n}).Error; err != nil {
				return err
			}
		}
	}
	return nil
}

// syncSizes thay thế danh sách size của sản phẩm theo danh sách tên mới
func (h *ProductHandler) syncSizes(tx *gorm.DB, productID uint, names []string) error {
	keep := make(map[string]bool, len(names))
	for _, n := range names {
		keep[n] = true
	}

	var existing []models.Size
	if err := tx.Where("product_id = ?", productID).Find(&existing).Error; err != nil {
		return err
	}
	have := make(map[string]bool, len(existing))
	for _, size := range existing {
		have[size.Name] = true
		if !keep[size.Name] {
			if err := tx.Delete(&size).Error; err != nil {
				return err
			}
		}
	}
	for _, n := range names {
		if !have[n] {
			if err := tx.Create(&models.Size{ProductID: productID, Name: n}).Error; err != nil {
				return err
			}
		}
	}
	return nil
}

// Update cập nhật sản phẩm, kèm thay thế danh sách màu/size nếu gửi lên
// @Summary Cập nhật sản phẩm
// @Tags Sản phẩm
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "ID sản phẩm"
// @Param request body UpdateProductRequest true "Thông tin cập nhật"
// @Success 200 {object} Response{data=models.Product} "Cập nhật thành công"
// @Failure 409 {object} Response "Màu/size đang được đơn hàng sử dụng"
// @Router /api/v1/san-pham/{id} [put]
func (h *ProductHandler) Update(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		BadRequest(c, "ID không hợp lệ")
		return
	}

	var product models.Product
	if err := database.DB.First(&product, id).Error; err != nil {
		NotFound(c, "Sản phẩm không tồn tại")
		return
	}

	var req UpdateProductRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		BadRequest(c, SafeErrorMessage(err, "Tham số không hợp lệ"))
		return
	}

	if msg := h.validateRefs(req.CategoryID, req.SupplierID); msg != "" {
		BadRequest(c, msg)
		return
	}

	updates := map[string]interface{}{}
	if req.Name != nil {
		updates["name"] = *req.Name
	}
	if req.CategoryID != nil {
		updates["category_id"] = *req.CategoryID
	}
	if req.SupplierID != nil {
		updates["supplier_id"] = *req.SupplierID
	}
	if req.Description != nil {
		updates["description"] = *req.Description
	}
	if req.ImageURL != nil {
		updates["image_url"] = *req.ImageURL
	}
	if req.Price != nil {
		updates["price"] = *req.Price
	}
	if req.PrivateOrder != nil {
		updates["private_order"] = *req.PrivateOrder
	}
	if req.Note != nil {
		updates["note"] = *req.Note
	}

	err = database.DB.Transaction(func(tx *gorm.DB) error {
		if len(updates) > 0 {
			if err := tx.Model(&product).Updates(updates).Error; err != nil {
				return err
			}
		}
		if req.Colors != nil {
			if err := h.syncColors(tx, product.ID, *req.Colors); err != nil {
				return err
			}
		}
		if req.Sizes != nil {
			if err := h.syncSizes(tx, product.ID, *req.Sizes); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		InternalError(c, SafeErrorMessage(err, "Cập nhật sản phẩm thất bại"))
		return
	}

	database.DB.Preload("Colors").Preload("Sizes").First(&product, product.ID)
	SuccessWithMessage(c, "Cập nhật thành công", product)
}

// Delete xóa sản phẩm cùng toàn bộ đơn hàng, màu và size của nó
// @Summary Xóa sản phẩm
// @Tags Sản phẩm
// @Produce json
// @Security BearerAuth
// @Param id path int true "ID sản phẩm"
// @Success 200 {object} Response "Xóa thành công"
// @Failure 404 {object} Response "Sản phẩm không tồn tại"
// @Router /api/v1/san-pham/{id} [delete]
func (h *ProductHandler) Delete(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		BadRequest(c, "ID không hợp lệ")
		return
	}

	var product models.Product
	if err := database.DB.First(&product, id).Error; err != nil {
		NotFound(c, "Sản phẩm không tồn tại")
		return
	}

	if err := database.DB.Delete(&product).Error; err != nil {
		InternalError(c, SafeErrorMessage(err, "Xóa thất bại"))
		return
	}

	SuccessWithMessage(c, "Xóa sản phẩm thành công", nil)
}
