package api

import (
	"encoding/json"
	"net/http/httptest"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestReportHandler_Timeline_ZeroFill(t *testing.T) {
	mock, cleanup := setupMockDB(t)
	defer cleanup()
	setupTestConfig(t)

	// Chỉ một ngày có đơn, các ngày còn lại phải được lấp 0
	mock.ExpectQuery("SELECT DATE\\(orders.created_at\\)").
		WillReturnRows(sqlmock.NewRows(
			[]string{"day", "order_count", "total_amount", "total_discount", "total_revenue", "total_net_profit"}).
			AddRow("2026-01-05", 2, 3, 10, 300, 290))

	router := gin.New()
	router.GET("/bao-cao/dong-thoi-gian", NewReportHandler().Timeline)

	req := httptest.NewRequest("GET", "/bao-cao/dong-thoi-gian?start=2026-01-01&end=2026-01-10", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, 200, w.Code)
	var resp struct {
		Data []TimelineBucket `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))

	// 10 ngày từ 01 đến 10, kể cả hai đầu
	require.Len(t, resp.Data, 10)
	assert.Equal(t, "2026-01-01", resp.Data[0].Date)
	assert.Equal(t, "2026-01-10", resp.Data[9].Date)

	// Ngày có đơn giữ nguyên số liệu
	assert.Equal(t, int64(2), resp.Data[4].OrderCount)
	assert.Equal(t, int64(300), resp.Data[4].TotalRevenue)
	assert.Equal(t, int64(290), resp.Data[4].TotalNetProfit)

	// Ngày trống toàn 0
	assert.Equal(t, int64(0), resp.Data[0].OrderCount)
	assert.Equal(t, int64(0), resp.Data[0].TotalRevenue)

	require.NoError(t, mock.ExpectationsWereMet())
}

func TestReportHandler_Timeline_SingleDay(t *testing.T) {
	mock, cleanup := setupMockDB(t)
	defer cleanup()
	setupTestConfig(t)

	mock.ExpectQuery("SELECT DATE\\(orders.created_at\\)").
		WillReturnRows(sqlmock.NewRows(
			[]string{"day", "order_count", "total_amount", "total_discount", "total_revenue", "total_net_profit"}))

	router := gin.New()
	router.GET("/bao-cao/dong-thoi-gian", NewReportHandler().Timeline)

	req := httptest.NewRequest("GET", "/bao-cao/dong-thoi-gian?start=2026-01-05&end=2026-01-05", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, 200, w.Code)
	var resp struct {
		Data []TimelineBucket `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	require.Len(t, resp.Data, 1)
	assert.Equal(t, "2026-01-05", resp.Data[0].Date)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestReportHandler_Timeline_InvalidRange(t *testing.T) {
	_, cleanup := setupMockDB(t)
	defer cleanup()
	setupTestConfig(t)

	router := gin.New()
	router.GET("/bao-cao/dong-thoi-gian", NewReportHandler().Timeline)

	req := httptest.NewRequest("GET", "/bao-cao/dong-thoi-gian?start=2026-01-10&end=2026-01-01", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, 400, w.Code)
}

func TestReportHandler_Timeline_InvalidDate(t *testing.T) {
	_, cleanup := setupMockDB(t)
	defer cleanup()
	setupTestConfig(t)

	router := gin.New()
	router.GET("/bao-cao/dong-thoi-gian", NewReportHandler().Timeline)

	req := httptest.NewRequest("GET", "/bao-cao/dong-thoi-gian?start=10-01-2026", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, 400, w.Code)
}
