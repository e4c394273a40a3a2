package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"navybaby/database"
	"navybaby/models"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/mysql"
	"gorm.io/gorm"
)

func setupApprovalMockDB(t *testing.T) (sqlmock.Sqlmock, func()) {
	sqlDB, mock, err := sqlmock.New()
	require.NoError(t, err)

	gormDB, err := gorm.Open(mysql.New(mysql.Config{
		Conn:                      sqlDB,
		SkipInitializeWithVersion: true,
	}), &gorm.Config{})
	require.NoError(t, err)

	oldDB := database.DB
	database.DB = gormDB
	return mock, func() {
		database.DB = oldDB
		sqlDB.Close()
	}
}

func approvalUserRow(accountType string, isApproved bool) *sqlmock.Rows {
	return sqlmock.NewRows([]string{"id", "username", "password", "email", "account_type", "is_approved", "created_at", "updated_at", "deleted_at"}).
		AddRow(1, "nhanvien01", "x", "", accountType, isApproved, time.Now(), time.Now(), nil)
}

func TestApprovalRequired(t *testing.T) {
	gin.SetMode(gin.TestMode)

	newRouter := func() *gin.Engine {
		router := gin.New()
		router.Use(func(c *gin.Context) {
			c.Set("userID", uint(1))
		})
		router.Use(ApprovalRequired())
		router.GET("/protected", func(c *gin.Context) {
			c.String(200, "ok")
		})
		return router
	}

	t.Run("chưa duyệt bị chặn 403", func(t *testing.T) {
		mock, cleanup := setupApprovalMockDB(t)
		defer cleanup()

		mock.ExpectQuery("SELECT .* FROM `users`").
			WillReturnRows(approvalUserRow(models.AccountTypeStaff, false))

		w := httptest.NewRecorder()
		newRouter().ServeHTTP(w, httptest.NewRequest("GET", "/protected", nil))
		assert.Equal(t, http.StatusForbidden, w.Code)
		assert.Contains(t, w.Body.String(), "chờ phê duyệt")
	})

	t.Run("đã duyệt được đi tiếp", func(t *testing.T) {
		mock, cleanup := setupApprovalMockDB(t)
		defer cleanup()

		mock.ExpectQuery("SELECT .* FROM `users`").
			WillReturnRows(approvalUserRow(models.AccountTypeStaff, true))

		w := httptest.NewRecorder()
		newRouter().ServeHTTP(w, httptest.NewRequest("GET", "/protected", nil))
		assert.Equal(t, 200, w.Code)
	})

	t.Run("admin chưa duyệt vẫn đi tiếp", func(t *testing.T) {
		mock, cleanup := setupApprovalMockDB(t)
		defer cleanup()

		mock.ExpectQuery("SELECT .* FROM `users`").
			WillReturnRows(approvalUserRow(models.AccountTypeAdmin, false))

		w := httptest.NewRecorder()
		newRouter().ServeHTTP(w, httptest.NewRequest("GET", "/protected", nil))
		assert.Equal(t, 200, w.Code)
	})

	t.Run("chưa đăng nhập trả 401", func(t *testing.T) {
		_, cleanup := setupApprovalMockDB(t)
		defer cleanup()

		router := gin.New()
		router.Use(ApprovalRequired())
		router.GET("/protected", func(c *gin.Context) { c.String(200, "ok") })

		w := httptest.NewRecorder()
		router.ServeHTTP(w, httptest.NewRequest("GET", "/protected", nil))
		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})
}

func TestAdminRequired(t *testing.T) {
	gin.SetMode(gin.TestMode)

	run := func(user *models.User) *httptest.ResponseRecorder {
		router := gin.New()
		router.Use(func(c *gin.Context) {
			c.Set("userID", user.ID)
			c.Set("currentUser", user)
		})
		router.Use(AdminRequired())
		router.GET("/admin", func(c *gin.Context) { c.String(200, "ok") })

		w := httptest.NewRecorder()
		router.ServeHTTP(w, httptest.NewRequest("GET", "/admin", nil))
		return w
	}

	w := run(&models.User{ID: 1, AccountType: models.AccountTypeAdmin, IsApproved: true})
	assert.Equal(t, 200, w.Code)

	w = run(&models.User{ID: 2, AccountType: models.AccountTypeStaff, IsApproved: true})
	assert.Equal(t, http.StatusForbidden, w.Code)

	w = run(&models.User{ID: 3, AccountType: models.AccountTypeViewer, IsApproved: true})
	assert.Equal(t, http.StatusForbidden, w.Code)
}
