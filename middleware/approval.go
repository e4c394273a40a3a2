package middleware

import (
	"net/http"

	"navybaby/database"
	"navybaby/models"

	"github.com/gin-gonic/gin"
)

// ApprovalRequired chặn người dùng chưa được phê duyệt.
// Admin được đi thẳng; tài khoản chưa duyệt chỉ dùng được nhóm route xác thực.
func ApprovalRequired() gin.HandlerFunc {
	return func(c *gin.Context) {
		userID := GetCurrentUserID(c)
		if userID == 0 {
			c.JSON(http.StatusUnauthorized, gin.H{"code": 401, "message": "Chưa đăng nhập"})
			c.Abort()
			return
		}

		var user models.User
		if err := database.DB.First(&user, userID).Error; err != nil {
			c.JSON(http.StatusUnauthorized, gin.H{"code": 401, "message": "Tài khoản không tồn tại"})
			c.Abort()
			return
		}

		if user.AccountType != models.AccountTypeAdmin && !user.IsApproved {
			c.JSON(http.StatusForbidden, gin.H{"code": 403, "message": "Tài khoản đang chờ phê duyệt, vui lòng liên hệ quản trị viên"})
			c.Abort()
			return
		}

		c.Set("currentUser", &user)
		c.Next()
	}
}

// AdminRequired chỉ cho phép tài khoản admin
func AdminRequired() gin.HandlerFunc {
	return func(c *gin.Context) {
		user := GetCurrentUser(c)
		if user == nil {
			var u models.User
			if err := database.DB.First(&u, GetCurrentUserID(c)).Error; err != nil {
				c.JSON(http.StatusUnauthorized, gin.H{"code": 401, "message": "Chưa đăng nhập"})
				c.Abort()
				return
			}
			user = &u
		}
		if user.AccountType != models.AccountTypeAdmin {
			c.JSON(http.StatusForbidden, gin.H{"code": 403, "message": "Chỉ quản trị viên mới được phép thao tác"})
			c.Abort()
			return
		}
		c.Next()
	}
}

// GetCurrentUser lấy người dùng đã nạp sẵn bởi ApprovalRequired, có thể nil
func GetCurrentUser(c *gin.Context) *models.User {
	if v, exists := c.Get("currentUser"); exists {
		if u, ok := v.(*models.User); ok {
			return u
		}
	}
	return nil
}
