package api

import (
	"fmt"
	"log"
	"strconv"
	"time"

	"navybaby/config"
	"navybaby/database"
	"navybaby/middleware"
	"navybaby/models"
	"navybaby/service"

	"github.com/gin-gonic/gin"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// AuthHandler xử lý xác thực và quản lý tài khoản
type AuthHandler struct {
	emailService *service.EmailService
}

// NewAuthHandler tạo handler xác thực
func NewAuthHandler() *AuthHandler {
	return &AuthHandler{
		emailService: service.NewEmailService(&config.GetConfig().Email),
	}
}

// RegisterRequest yêu cầu đăng ký
type RegisterRequest struct {
	Username string `json:"username" binding:"required,min=3,max=50" example:"nhanvien01"`
	Password string `json:"password" binding:"required,min=6,max=100" example:"matkhau123"`
	Email    string `json:"email" binding:"omitempty,email" example:"nv01@example.com"`
}

// LoginRequest yêu cầu đăng nhập
type LoginRequest struct {
	Username string `json:"username" binding:"required" example:"nhanvien01"`
	Password string `json:"password" binding:"required" example:"matkhau123"`
}

// ChangePasswordRequest yêu cầu đổi mật khẩu
type ChangePasswordRequest struct {
	OldPassword string `json:"old_password" binding:"required"`
	NewPassword string `json:"new_password" binding:"required,min=6,max=100"`
}

// ForgotPasswordRequest yêu cầu gửi email đặt lại mật khẩu
type ForgotPasswordRequest struct {
	Email string `json:"email" binding:"required,email"`
}

// ResetPasswordRequest yêu cầu đặt lại mật khẩu bằng token
type ResetPasswordRequest struct {
	Token       string `json:"token" binding:"required"`
	NewPassword string `json:"new_password" binding:"required,min=6,max=100"`
}

// Register đăng ký tài khoản
// @Summary Đăng ký tài khoản
// @Description Tạo tài khoản mới, chờ quản trị viên phê duyệt mới sử dụng được
// @Tags Xác thực
// @Accept json
// @Produce json
// @Param request body RegisterRequest true "Thông tin đăng ký"
// @Success 200 {object} Response{data=models.User} "Đăng ký thành công"
// @Failure 400 {object} Response "Tham số không hợp lệ"
// @Router /api/v1/dang-ky [post]
func (h *AuthHandler) Register(c *gin.Context) {
	var req RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		BadRequest(c, SafeErrorMessage(err, "Tham số không hợp lệ"))
		return
	}

	var count int64
	database.DB.Model(&models.User{}).Where("username = ?", req.Username).Count(&count)
	if count > 0 {
		Conflict(c, "Tên đăng nhập đã tồn tại")
		return
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		InternalError(c, SafeErrorMessage(err, "Mã hóa mật khẩu thất bại"))
		return
	}

	user := models.User{
		Username:    req.Username,
		Password:    string(hashed),
		Email:       req.Email,
		AccountType: models.AccountTypeStaff,
		IsApproved:  false,
	}
	if err := database.DB.Create(&user).Error; err != nil {
		InternalError(c, SafeErrorMessage(err, "Tạo tài khoản thất bại"))
		return
	}

	SuccessWithMessage(c, "Đăng ký thành công, vui lòng chờ quản trị viên phê duyệt", user)
}

// Login đăng nhập
// @Summary Đăng nhập
// @Description Đăng nhập bằng tên đăng nhập và mật khẩu, trả về token JWT
// @Tags Xác thực
// @Accept json
// @Produce json
// @Param request body LoginRequest true "Thông tin đăng nhập"
// @Success 200 {object} Response "Đăng nhập thành công"
// @Failure 401 {object} Response "Sai tên đăng nhập hoặc mật khẩu"
// @Router /api/v1/dang-nhap [post]
func (h *AuthHandler) Login(c *gin.Context) {
	var req LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		BadRequest(c, SafeErrorMessage(err, "Tham số không hợp lệ"))
		return
	}

	var user models.User
	if err := database.DB.Where("username = ?", req.Username).First(&user).Error; err != nil {
		Unauthorized(c, "Sai tên đăng nhập hoặc mật khẩu")
		return
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(req.Password)); err != nil {
		Unauthorized(c, "Sai tên đăng nhập hoặc mật khẩu")
		return
	}

	if user.AccountType != models.AccountTypeAdmin && !user.IsApproved {
		Forbidden(c, "Tài khoản đang chờ phê duyệt, vui lòng liên hệ quản trị viên")
		return
	}

	token, err := middleware.GenerateToken(user.ID, user.Username, config.GetConfig().JWT.ExpireTime)
	if err != nil {
		InternalError(c, SafeErrorMessage(err, "Tạo token thất bại"))
		return
	}

	Success(c, gin.H{
		"token": token,
		"user":  user,
	})
}

// Profile thông tin tài khoản hiện tại
// @Summary Thông tin tài khoản
// @Tags Xác thực
// @Produce json
// @Security BearerAuth
// @Success 200 {object} Response{data=models.User}
// @Router /api/v1/tai-khoan [get]
func (h *AuthHandler) Profile(c *gin.Context) {
	userID := middleware.GetCurrentUserID(c)
	var user models.User
	if err := database.DB.First(&user, userID).Error; err != nil {
		NotFound(c, "Tài khoản không tồn tại")
		return
	}
	Success(c, user)
}

// ChangePassword đổi mật khẩu tài khoản hiện tại
// @Summary Đổi mật khẩu
// @Tags Xác thực
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body ChangePasswordRequest true "Mật khẩu cũ và mới"
// @Success 200 {object} Response "Đổi mật khẩu thành công"
// @Failure 400 {object} Response "Mật khẩu cũ không đúng"
// @Router /api/v1/tai-khoan/doi-mat-khau [post]
func (h *AuthHandler) ChangePassword(c *gin.Context) {
	var req ChangePasswordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		BadRequest(c, SafeErrorMessage(err, "Tham số không hợp lệ"))
		return
	}

	userID := middleware.GetCurrentUserID(c)
	var user models.User
	if err := database.DB.First(&user, userID).Error; err != nil {
		NotFound(c, "Tài khoản không tồn tại")
		return
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(req.OldPassword)); err != nil {
		BadRequest(c, "Mật khẩu cũ không đúng")
		return
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(req.NewPassword), bcrypt.DefaultCost)
	if err != nil {
		InternalError(c, SafeErrorMessage(err, "Mã hóa mật khẩu thất bại"))
		return
	}
	if err := database.DB.Model(&user).Update("password", string(hashed)).Error; err != nil {
		InternalError(c, SafeErrorMessage(err, "Cập nhật mật khẩu thất bại"))
		return
	}

	SuccessWithMessage(c, "Đổi mật khẩu thành công", nil)
}

// ForgotPassword gửi email chứa liên kết đặt lại mật khẩu
// @Summary Quên mật khẩu
// @Description Gửi email đặt lại mật khẩu, luôn trả về thành công để không lộ email nào tồn tại
// @Tags Xác thực
// @Accept json
// @Produce json
// @Param request body ForgotPasswordRequest true "Email tài khoản"
// @Success 200 {object} Response "Đã gửi email nếu tài khoản tồn tại"
// @Router /api/v1/quen-mat-khau [post]
func (h *AuthHandler) ForgotPassword(c *gin.Context) {
	var req ForgotPasswordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		BadRequest(c, SafeErrorMessage(err, "Tham số không hợp lệ"))
		return
	}

	// Phản hồi giống nhau dù email có tồn tại hay không
	message := "Nếu email tồn tại trong hệ thống, liên kết đặt lại mật khẩu đã được gửi"

	var user models.User
	if err := database.DB.Where("email = ?", req.Email).First(&user).Error; err != nil {
		SuccessWithMessage(c, message, nil)
		return
	}

	token, err := models.GenerateResetToken()
	if err != nil {
		InternalError(c, SafeErrorMessage(err, "Tạo token thất bại"))
		return
	}

	reset := models.PasswordReset{
		UserID:    user.ID,
		Token:     token,
		Email:     user.Email,
		ExpiresAt: time.Now().Add(30 * time.Minute),
	}
	if err := database.DB.Create(&reset).Error; err != nil {
		InternalError(c, SafeErrorMessage(err, "Lưu token thất bại"))
		return
	}

	resetLink := fmt.Sprintf("%s/dat-lai-mat-khau?token=%s", config.GetConfig().Server.BaseURL, token)
	if err := h.emailService.SendPasswordResetEmail(user.Email, user.Username, resetLink); err != nil {
		log.Printf("Gửi email đặt lại mật khẩu thất bại: %v", err)
	}

	SuccessWithMessage(c, message, nil)
}

// ResetPassword đặt lại mật khẩu bằng token trong email
// @Summary Đặt lại mật khẩu
// @Tags Xác thực
// @Accept json
// @Produce json
// @Param request body ResetPasswordRequest true "Token và mật khẩu mới"
// @Success 200 {object} Response "Đặt lại mật khẩu thành công"
// @Failure 400 {object} Response "Token không hợp lệ hoặc đã hết hạn"
// @Router /api/v1/dat-lai-mat-khau [post]
func (h *AuthHandler) ResetPassword(c *gin.Context) {
	var req ResetPasswordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		BadRequest(c, SafeErrorMessage(err, "Tham số không hợp lệ"))
		return
	}

	var reset models.PasswordReset
	if err := database.DB.Where("token = ?", req.Token).First(&reset).Error; err != nil {
		BadRequest(c, "Token không hợp lệ hoặc đã hết hạn")
		return
	}
	if !reset.IsValid() {
		BadRequest(c, "Token không hợp lệ hoặc đã hết hạn")
		return
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(req.NewPassword), bcrypt.DefaultCost)
	if err != nil {
		InternalError(c, SafeErrorMessage(err, "Mã hóa mật khẩu thất bại"))
		return
	}

	err = database.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(&models.User{}).Where("id = ?", reset.UserID).
			Update("password", string(hashed)).Error; err != nil {
			return err
		}
		return tx.Model(&reset).Update("used", true).Error
	})
	if err != nil {
		InternalError(c, SafeErrorMessage(err, "Đặt lại mật khẩu thất bại"))
		return
	}

	SuccessWithMessage(c, "Đặt lại mật khẩu thành công", nil)
}

// ListUsers danh sách tài khoản (chỉ admin)
// @Summary Danh sách tài khoản
// @Tags Quản trị
// @Produce json
// @Security BearerAuth
// @Param pending query bool false "Chỉ lấy tài khoản chờ phê duyệt"
// @Success 200 {object} Response{data=[]models.User}
// @Router /api/v1/quan-tri/tai-khoan [get]
func (h *AuthHandler) ListUsers(c *gin.Context) {
	query := database.DB.Model(&models.User{})
	if c.Query("pending") == "true" {
		query = query.Where("is_approved = ? AND account_type <> ?", false, models.AccountTypeAdmin)
	}

	var users []models.User
	if err := query.Order("created_at DESC").Find(&users).Error; err != nil {
		InternalError(c, SafeErrorMessage(err, "Truy vấn thất bại"))
		return
	}
	Success(c, users)
}

// ApproveUser phê duyệt tài khoản (chỉ admin)
// @Summary Phê duyệt tài khoản
// @Tags Quản trị
// @Produce json
// @Security BearerAuth
// @Param id path int true "ID tài khoản"
// @Success 200 {object} Response "Phê duyệt thành công"
// @Failure 404 {object} Response "Tài khoản không tồn tại"
// @Router /api/v1/quan-tri/tai-khoan/{id}/phe-duyet [post]
func (h *AuthHandler) ApproveUser(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		BadRequest(c, "ID không hợp lệ")
		return
	}

	var user models.User
	if err := database.DB.First(&user, id).Error; err != nil {
		NotFound(c, "Tài khoản không tồn tại")
		return
	}

	if err := database.DB.Model(&user).Update("is_approved", true).Error; err != nil {
		InternalError(c, SafeErrorMessage(err, "Phê duyệt thất bại"))
		return
	}

	if user.Email != "" {
		if err := h.emailService.SendApprovalEmail(user.Email, user.Username); err != nil {
			log.Printf("Gửi email phê duyệt thất bại: %v", err)
		}
	}

	SuccessWithMessage(c, "Phê duyệt thành công", user)
}

// UpdateUserRole đổi loại tài khoản (chỉ admin)
// @Summary Đổi loại tài khoản
// @Tags Quản trị
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "ID tài khoản"
// @Success 200 {object} Response "Cập nhật thành công"
// @Router /api/v1/quan-tri/tai-khoan/{id}/loai [post]
func (h *AuthHandler) UpdateUserRole(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		BadRequest(c, "ID không hợp lệ")
		return
	}

	var req struct {
		AccountType string `json:"account_type" binding:"required,oneof=admin staff viewer"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		BadRequest(c, SafeErrorMessage(err, "Tham số không hợp lệ"))
		return
	}

	var user models.User
	if err := database.DB.First(&user, id).Error; err != nil {
		NotFound(c, "Tài khoản không tồn tại")
		return
	}

	if err := database.DB.Model(&user).Update("account_type", req.AccountType).Error; err != nil {
		InternalError(c, SafeErrorMessage(err, "Cập nhật thất bại"))
		return
	}

	SuccessWithMessage(c, "Cập nhật thành công", user)
}
