package api

import (
	"strconv"

	"navybaby/database"
	"navybaby/models"

	"github.com/gin-gonic/gin"
)

// CategoryHandler xử lý danh mục sản phẩm
type CategoryHandler struct{}

// NewCategoryHandler tạo handler danh mục sản phẩm
func NewCategoryHandler() *CategoryHandler {
	return &CategoryHandler{}
}

// CategoryRequest yêu cầu tạo/cập nhật danh mục sản phẩm
type CategoryRequest struct {
	Name string `json:"name" binding:"required,max=255" example:"Quần áo trẻ em"`
	Note string `json:"note"`
}

// Create tạo danh mục sản phẩm
// @Summary Tạo danh mục sản phẩm
// @Description Tạo danh mục mới, mã DM-{DDMMYY}-{NNN} sinh tự động
// @Tags Danh mục sản phẩm
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body CategoryRequest true "Thông tin danh mục"
// @Success 200 {object} Response{data=models.ProductCategory} "Tạo thành công"
// @Router /api/v1/danh-muc [post]
func (h *CategoryHandler) Create(c *gin.Context) {
	var req CategoryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		BadRequest(c, SafeErrorMessage(err, "Tham số không hợp lệ"))
		return
	}

	category := models.ProductCategory{Name: req.Name, Note: req.Note}

	var lastErr error
	for i := 0; i < models.CodeRetries; i++ {
		code, err := models.GenerateCode(database.DB, &models.ProductCategory{}, models.ProductCategoryCodePrefix)
		if err != nil {
			InternalError(c, SafeErrorMessage(err, "Sinh mã danh mục thất bại"))
			return
		}
		category.Code = code
		lastErr = database.DB.Create(&category).Error
		if lastErr == nil {
			SuccessWithMessage(c, "Tạo danh mục thành công", category)
			return
		}
		if !models.IsDuplicateKeyError(lastErr) {
			break
		}
	}
	InternalError(c, SafeErrorMessage(lastErr, "Tạo danh mục thất bại"))
}

// List danh sách danh mục sản phẩm
// @Summary Danh sách danh mục sản phẩm
// @Tags Danh mục sản phẩm
// @Produce json
// @Security BearerAuth
// @Param q query string false "Tìm theo tên hoặc mã"
// @Success 200 {object} Response{data=[]models.ProductCategory}
// @Router /api/v1/danh-muc [get]
func (h *CategoryHandler) List(c *gin.Context) {
	query := database.DB.Model(&models.ProductCategory{})
	if q := c.Query("q"); q != "" {
		pattern := "%" + q + "%"
		query = query.Where("name LIKE ? OR code LIKE ?", pattern, pattern)
	}

	var categories []models.ProductCategory
	if err := query.Order("created_at DESC").Find(&categories).Error; err != nil {
		InternalError(c, SafeErrorMessage(err, "Truy vấn thất bại"))
		return
	}
	Success(c, categories)
}

// Get chi tiết danh mục sản phẩm
// @Summary Chi tiết danh mục sản phẩm
// @Tags Danh mục sản phẩm
// @Produce json
// @Security BearerAuth
// @Param id path int true "ID danh mục"
// @Success 200 {object} Response{data=models.ProductCategory}
// @Failure 404 {object} Response "Danh mục không tồn tại"
// @Router /api/v1/danh-muc/{id} [get]
func (h *CategoryHandler) Get(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		BadRequest(c, "ID không hợp lệ")
		return
	}

	var category models.ProductCategory
	if err := database.DB.First(&category, id).Error; err != nil {
		NotFound(c, "Danh mục không tồn tại")
		return
	}
	Success(c, category)
}

// Update cập nhật danh mục sản phẩm
// @Summary Cập nhật danh mục sản phẩm
// @Tags Danh mục sản phẩm
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "ID danh mục"
// @Param request body CategoryRequest true "Thông tin cập nhật"
// @Success 200 {object} Response{data=models.ProductCategory} "Cập nhật thành công"
// @Router /api/v1/danh-muc/{id} [put]
func (h *CategoryHandler) Update(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		BadRequest(c, "ID không hợp lệ")
		return
	}

	var category models.ProductCategory
	if err := database.DB.First(&category, id).Error; err != nil {
		NotFound(c, "Danh mục không tồn tại")
		return
	}

	var req CategoryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		BadRequest(c, SafeErrorMessage(err, "Tham số không hợp lệ"))
		return
	}

	updates := map[string]interface{}{"name": req.Name, "note": req.Note}
	if err := database.DB.Model(&category).Updates(updates).Error; err != nil {
		InternalError(c, SafeErrorMessage(err, "Cập nhật thất bại"))
		return
	}

	SuccessWithMessage(c, "Cập nhật thành công", category)
}

// Delete xóa danh mục sản phẩm. Danh mục đang có sản phẩm thì không xóa được.
// @Summary Xóa danh mục sản phẩm
// @Tags Danh mục sản phẩm
// @Produce json
// @Security BearerAuth
// @Param id path int true "ID danh mục"
// @Success 200 {object} Response "Xóa thành công"
// @Failure 409 {object} Response "Danh mục đang được sử dụng"
// @Router /api/v1/danh-muc/{id} [delete]
func (h *CategoryHandler) Delete(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		BadRequest(c, "ID không hợp lệ")
		return
	}

	var category models.ProductCategory
	if err := database.DB.First(&category, id).Error; err != nil {
		NotFound(c, "Danh mục không tồn tại")
		return
	}

	var count int64
	database.DB.Model(&models.Product{}).Where("category_id = ?", category.ID).Count(&count)
	if count > 0 {
		Conflict(c, "Danh mục đang có sản phẩm, không thể xóa")
		return
	}

	if err := database.DB.Delete(&category).Error; err != nil {
		InternalError(c, SafeErrorMessage(err, "Xóa thất bại"))
		return
	}

	SuccessWithMessage(c, "Xóa danh mục thành công", nil)
}
