package api

import (
	"strconv"

	"navybaby/database"
	"navybaby/models"

	"github.com/gin-gonic/gin"
)

// SupplierHandler xử lý nhà cung cấp
type SupplierHandler struct{}

// NewSupplierHandler tạo handler nhà cung cấp
func NewSupplierHandler() *SupplierHandler {
	return &SupplierHandler{}
}

// SupplierRequest yêu cầu tạo/cập nhật nhà cung cấp
type SupplierRequest struct {
	Name string `json:"name" binding:"required,max=255" example:"Xưởng Quảng Châu"`
	Note string `json:"note"`
}

// Create tạo nhà cung cấp
// @Summary Tạo nhà cung cấp
// @Description Tạo nhà cung cấp mới, mã NCC-{DDMMYY}-{NNN} sinh tự động
// @Tags Nhà cung cấp
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body SupplierRequest true "Thông tin nhà cung cấp"
// @Success 200 {object} Response{data=models.Supplier} "Tạo thành công"
// @Router /api/v1/nha-cung-cap [post]
func (h *SupplierHandler) Create(c *gin.Context) {
	var req SupplierRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		BadRequest(c, SafeErrorMessage(err, "Tham số không hợp lệ"))
		return
	}

	supplier := models.Supplier{Name: req.Name, Note: req.Note}

	var lastErr error
	for i := 0; i < models.CodeRetries; i++ {
		code, err := models.GenerateCode(database.DB, &models.Supplier{}, models.SupplierCodePrefix)
		if err != nil {
			InternalError(c, SafeErrorMessage(err, "Sinh mã nhà cung cấp thất bại"))
			return
		}
		supplier.Code = code
		lastErr = database.DB.Create(&supplier).Error
		if lastErr == nil {
			SuccessWithMessage(c, "Tạo nhà cung cấp thành công", supplier)
			return
		}
		if !models.IsDuplicateKeyError(lastErr) {
			break
		}
	}
	InternalError(c, SafeErrorMessage(lastErr, "Tạo nhà cung cấp thất bại"))
}

// List danh sách nhà cung cấp
// @Summary Danh sách nhà cung cấp
// @Tags Nhà cung cấp
// @Produce json
// @Security BearerAuth
// @Param q query string false "Tìm theo tên hoặc mã"
// @Success 200 {object} Response{data=[]models.Supplier}
// @Router /api/v1/nha-cung-cap [get]
func (h *SupplierHandler) List(c *gin.Context) {
	query := database.DB.Model(&models.Supplier{})
	if q := c.Query("q"); q != "" {
		pattern := "%" + q + "%"
		query = query.Where("name LIKE ? OR code LIKE ?", pattern, pattern)
	}

	var suppliers []models.Supplier
	if err := query.Order("created_at DESC").Find(&suppliers).Error; err != nil {
		InternalError(c, SafeErrorMessage(err, "Truy vấn thất bại"))
		return
	}
	Success(c, suppliers)
}

// Get chi tiết nhà cung cấp
// @Summary Chi tiết nhà cung cấp
// @Tags Nhà cung cấp
// @Produce json
// @Security BearerAuth
// @Param id path int true "ID nhà cung cấp"
// @Success 200 {object} Response{data=models.Supplier}
// @Failure 404 {object} Response "Nhà cung cấp không tồn tại"
// @Router /api/v1/nha-cung-cap/{id} [get]
func (h *SupplierHandler) Get(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		BadRequest(c, "ID không hợp lệ")
		return
	}

	var supplier models.Supplier
	if err := database.DB.First(&supplier, id).Error; err != nil {
		NotFound(c, "Nhà cung cấp không tồn tại")
		return
	}
	Success(c, supplier)
}

// Update cập nhật nhà cung cấp
// @Summary Cập nhật nhà cung cấp
// @Tags Nhà cung cấp
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "ID nhà cung cấp"
// @Param request body SupplierRequest true "Thông tin cập nhật"
// @Success 200 {object} Response{data=models.Supplier} "Cập nhật thành công"
// @Router /api/v1/nha-cung-cap/{id} [put]
func (h *SupplierHandler) Update(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		BadRequest(c, "ID không hợp lệ")
		return
	}

	var supplier models.Supplier
	if err := database.DB.First(&supplier, id).Error; err != nil {
		NotFound(c, "Nhà cung cấp không tồn tại")
		return
	}

	var req SupplierRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		BadRequest(c, SafeErrorMessage(err, "Tham số không hợp lệ"))
		return
	}

	updates := map[string]interface{}{"name": req.Name, "note": req.Note}
	if err := database.DB.Model(&supplier).Updates(updates).Error; err != nil {
		InternalError(c, SafeErrorMessage(err, "Cập nhật thất bại"))
		return
	}

	SuccessWithMessage(c, "Cập nhật thành công", supplier)
}

// Delete xóa nhà cung cấp. Nhà cung cấp đang có sản phẩm tham chiếu thì không xóa được.
// @Summary Xóa nhà cung cấp
// @Tags Nhà cung cấp
// @Produce json
// @Security BearerAuth
// @Param id path int true "ID nhà cung cấp"
// @Success 200 {object} Response "Xóa thành công"
// @Failure 409 {object} Response "Nhà cung cấp đang được sử dụng"
// @Router /api/v1/nha-cung-cap/{id} [delete]
func (h *SupplierHandler) Delete(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		BadRequest(c, "ID không hợp lệ")
		return
	}

	var supplier models.Supplier
	if err := database.DB.First(&supplier, id).Error; err != nil {
		NotFound(c, "Nhà cung cấp không tồn tại")
		return
	}

	var count int64
	database.DB.Model(&models.Product{}).Where("supplier_id = ?", supplier.ID).Count(&count)
	if count > 0 {
		Conflict(c, "Nhà cung cấp đang có sản phẩm, không thể xóa")
		return
	}

	if err := database.DB.Delete(&supplier).Error; err != nil {
		InternalError(c, SafeErrorMessage(err, "Xóa thất bại"))
		return
	}

	SuccessWithMessage(c, "Xóa nhà cung cấp thành công", nil)
}
