package api

import (
	"bytes"
	"encoding/json"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOrderHandler_UpdateStatus_Invalid(t *testing.T) {
	_, cleanup := setupMockDB(t)
	defer cleanup()
	setupTestConfig(t)

	router := gin.New()
	router.POST("/don-hang/:id/trang-thai", NewOrderHandler().UpdateStatus)

	body := `{"status":"shipped"}`
	req := httptest.NewRequest("POST", "/don-hang/1/trang-thai", bytes.NewBufferString(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, 400, w.Code)
}

func TestOrderHandler_UpdateStatus_Cancelled(t *testing.T) {
	mock, cleanup := setupMockDB(t)
	defer cleanup()
	setupTestConfig(t)

	orderRows := sqlmock.NewRows([]string{
		"id", "code", "customer_id", "product_id", "amount", "sale_price", "discount", "status", "note", "created_at", "updated_at",
	}).AddRow(1, "ĐH-070326-001", 1, 1, 2, 100, 10, "created", "", time.Now(), time.Now())

	mock.ExpectQuery("SELECT .* FROM `orders`").WillReturnRows(orderRows)

	mock.ExpectBegin()
	mock.ExpectExec("UPDATE `orders`").
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	router := gin.New()
	router.POST("/don-hang/:id/trang-thai", NewOrderHandler().UpdateStatus)

	body := `{"status":"cancelled"}`
	req := httptest.NewRequest("POST", "/don-hang/1/trang-thai", bytes.NewBufferString(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, 200, w.Code)
	var resp map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))

	// Đơn hủy: doanh thu, chiết khấu, lợi nhuận trong phản hồi đều bằng 0
	data := resp["data"].(map[string]interface{})
	fin := data["financials"].(map[string]interface{})
	assert.Equal(t, float64(0), fin["revenue"])
	assert.Equal(t, float64(0), fin["discount"])
	assert.Equal(t, float64(0), fin["net_profit"])
	assert.Equal(t, "Hủy đơn", data["status_label"])
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestOrderHandler_BulkUpdateStatus_Invalid(t *testing.T) {
	_, cleanup := setupMockDB(t)
	defer cleanup()
	setupTestConfig(t)

	router := gin.New()
	router.POST("/don-hang/cap-nhat-trang-thai-nhieu", NewOrderHandler().BulkUpdateStatus)

	body := `{"order_ids":[1,2],"status":"không-hợp-lệ"}`
	req := httptest.NewRequest("POST", "/don-hang/cap-nhat-trang-thai-nhieu", bytes.NewBufferString(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, 400, w.Code)
}

func TestOrderHandler_BulkUpdateStatus(t *testing.T) {
	mock, cleanup := setupMockDB(t)
	defer cleanup()
	setupTestConfig(t)

	mock.ExpectBegin()
	mock.ExpectExec("UPDATE `orders`").
		WillReturnResult(sqlmock.NewResult(0, 3))
	mock.ExpectCommit()

	router := gin.New()
	router.POST("/don-hang/cap-nhat-trang-thai-nhieu", NewOrderHandler().BulkUpdateStatus)

	body := `{"order_ids":[1,2,3],"status":"purchased"}`
	req := httptest.NewRequest("POST", "/don-hang/cap-nhat-trang-thai-nhieu", bytes.NewBufferString(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, 200, w.Code)
	var resp map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	data := resp["data"].(map[string]interface{})
	assert.Equal(t, float64(3), data["updated"])
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestOrderHandler_Create_CustomerNotFound(t *testing.T) {
	mock, cleanup := setupMockDB(t)
	defer cleanup()
	setupTestConfig(t)

	mock.ExpectQuery("SELECT .* FROM `customers`").
		WillReturnRows(sqlmock.NewRows([]string{"id"}))

	router := gin.New()
	router.POST("/don-hang", NewOrderHandler().Create)

	body := `{"customer_id":99,"items":[{"product_id":1}]}`
	req := httptest.NewRequest("POST", "/don-hang", bytes.NewBufferString(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, 400, w.Code)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestOrderHandler_Create_VariantMismatch(t *testing.T) {
	mock, cleanup := setupMockDB(t)
	defer cleanup()
	setupTestConfig(t)

	mock.ExpectQuery("SELECT .* FROM `customers`").
		WillReturnRows(sqlmock.NewRows([]string{"id", "code", "name"}).
			AddRow(1, "KH-070326-001", "Chị Hà"))
	mock.ExpectQuery("SELECT .* FROM `products`").
		WillReturnRows(sqlmock.NewRows([]string{"id", "code", "name", "price"}).
			AddRow(1, "SP-070326-001", "Áo thun", 150000))
	// Màu không thuộc sản phẩm: từ chối ngay, chưa mở transaction
	mock.ExpectQuery("SELECT count\\(\\*\\) FROM `colors`").
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(0))

	router := gin.New()
	router.POST("/don-hang", NewOrderHandler().Create)

	body := `{"customer_id":1,"items":[{"product_id":1,"color_id":9}]}`
	req := httptest.NewRequest("POST", "/don-hang", bytes.NewBufferString(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, 400, w.Code)
	assert.Contains(t, w.Body.String(), "Màu không thuộc sản phẩm đã chọn")
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestOrderHandler_Create(t *testing.T) {
	mock, cleanup := setupMockDB(t)
	defer cleanup()
	setupTestConfig(t)

	mock.ExpectQuery("SELECT .* FROM `customers`").
		WillReturnRows(sqlmock.NewRows([]string{"id", "code", "name"}).
			AddRow(1, "KH-070326-001", "Chị Hà"))
	mock.ExpectQuery("SELECT .* FROM `products`").
		WillReturnRows(sqlmock.NewRows([]string{"id", "code", "name", "price"}).
			AddRow(1, "SP-070326-001", "Áo thun", 150000))

	mock.ExpectBegin()
	mock.ExpectQuery("SELECT `code` FROM `orders`").
		WillReturnRows(sqlmock.NewRows([]string{"code"}))
	mock.ExpectExec("INSERT INTO `orders`").
		WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectCommit()

	router := gin.New()
	router.POST("/don-hang", NewOrderHandler().Create)

	body := `{"customer_id":1,"items":[{"product_id":1,"amount":2}]}`
	req := httptest.NewRequest("POST", "/don-hang", bytes.NewBufferString(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, 200, w.Code)
	var resp map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	data := resp["data"].([]interface{})
	require.Len(t, data, 1)
	order := data[0].(map[string]interface{})
	// Mã đầu ngày và giá bán chốt theo giá sản phẩm
	assert.Contains(t, order["code"].(string), "-001")
	assert.Equal(t, float64(150000), order["sale_price"])
	require.NoError(t, mock.ExpectationsWereMet())
}
