package api

import (
	"bytes"
	"encoding/json"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCustomerHandler_Create(t *testing.T) {
	mock, cleanup := setupMockDB(t)
	defer cleanup()
	setupTestConfig(t)

	// Chưa có khách nào trong ngày: mã bắt đầu từ 001
	mock.ExpectQuery("SELECT `code` FROM `customers`").
		WillReturnRows(sqlmock.NewRows([]string{"code"}))

	mock.ExpectBegin()
	mock.ExpectExec("INSERT INTO `customers`").
		WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectCommit()

	router := gin.New()
	router.POST("/khach-hang", NewCustomerHandler().Create)

	body := `{"name":"Nguyễn Thị Hoa","phone_number":"0912345678"}`
	req := httptest.NewRequest("POST", "/khach-hang", bytes.NewBufferString(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, 200, w.Code)
	var resp map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "Tạo khách hàng thành công", resp["message"])

	data := resp["data"].(map[string]interface{})
	code := data["code"].(string)
	assert.True(t, strings.HasPrefix(code, "KH-"), "mã phải có tiền tố KH-: %s", code)
	assert.True(t, strings.HasSuffix(code, "-001"), "mã đầu ngày phải kết thúc bằng -001: %s", code)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestCustomerHandler_Create_SequenceContinues(t *testing.T) {
	mock, cleanup := setupMockDB(t)
	defer cleanup()
	setupTestConfig(t)

	prefix := "KH-" + time.Now().Format("020106")
	mock.ExpectQuery("SELECT `code` FROM `customers`").
		WillReturnRows(sqlmock.NewRows([]string{"code"}).AddRow(prefix + "-005"))

	mock.ExpectBegin()
	mock.ExpectExec("INSERT INTO `customers`").
		WillReturnResult(sqlmock.NewResult(6, 1))
	mock.ExpectCommit()

	router := gin.New()
	router.POST("/khach-hang", NewCustomerHandler().Create)

	body := `{"name":"Trần Văn B"}`
	req := httptest.NewRequest("POST", "/khach-hang", bytes.NewBufferString(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, 200, w.Code)
	var resp map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	data := resp["data"].(map[string]interface{})
	assert.Equal(t, prefix+"-006", data["code"])
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestCustomerHandler_Create_MissingName(t *testing.T) {
	_, cleanup := setupMockDB(t)
	defer cleanup()
	setupTestConfig(t)

	router := gin.New()
	router.POST("/khach-hang", NewCustomerHandler().Create)

	req := httptest.NewRequest("POST", "/khach-hang", bytes.NewBufferString(`{"phone_number":"09"}`))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, 400, w.Code)
}

func TestCustomerHandler_Get_NotFound(t *testing.T) {
	mock, cleanup := setupMockDB(t)
	defer cleanup()
	setupTestConfig(t)

	mock.ExpectQuery("SELECT .* FROM `customers`").
		WillReturnRows(sqlmock.NewRows([]string{"id"}))

	router := gin.New()
	router.GET("/khach-hang/:id", NewCustomerHandler().Get)

	req := httptest.NewRequest("GET", "/khach-hang/99", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, 404, w.Code)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestCustomerHandler_ConfirmPayment_InvalidAmount(t *testing.T) {
	_, cleanup := setupMockDB(t)
	defer cleanup()
	setupTestConfig(t)

	router := gin.New()
	router.POST("/khach-hang/:id/xac-nhan-thanh-toan", NewCustomerHandler().ConfirmPayment)

	body := `{"amount":"0"}`
	req := httptest.NewRequest("POST", "/khach-hang/1/xac-nhan-thanh-toan", bytes.NewBufferString(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	// Số tiền 0 bị chặn trước khi chạm tới transaction
	assert.Equal(t, 400, w.Code)
}
