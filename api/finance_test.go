package api

import (
	"bytes"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFinanceHandler_UpdateTransaction_CustomerNotFound(t *testing.T) {
	mock, cleanup := setupMockDB(t)
	defer cleanup()
	setupTestConfig(t)

	mock.ExpectQuery("SELECT .* FROM `finance_transactions`").
		WillReturnRows(sqlmock.NewRows([]string{"id", "category_id", "amount", "note", "created_at"}).
			AddRow(3, 1, "190.00", "", time.Now()))
	// Gán sang khách không tồn tại: từ chối, không ghi gì thêm
	mock.ExpectQuery("SELECT count\\(\\*\\) FROM `customers`").
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(0))

	router := gin.New()
	router.PUT("/thu-chi/giao-dich/:id", NewFinanceHandler().UpdateTransaction)

	body := `{"customer_id":99}`
	req := httptest.NewRequest("PUT", "/thu-chi/giao-dich/3", bytes.NewBufferString(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, 400, w.Code)
	assert.Contains(t, w.Body.String(), "Khách hàng không tồn tại")
	require.NoError(t, mock.ExpectationsWereMet())
}
