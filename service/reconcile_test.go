package service

import (
	"testing"

	"navybaby/database"
	"navybaby/models"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/mysql"
	"gorm.io/gorm"
)

func setupServiceMockDB(t *testing.T) (*gorm.DB, sqlmock.Sqlmock) {
	sqlDB, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { sqlDB.Close() })

	gormDB, err := gorm.Open(mysql.New(mysql.Config{
		Conn:                      sqlDB,
		SkipInitializeWithVersion: true,
	}), &gorm.Config{})
	require.NoError(t, err)

	oldDB := database.DB
	database.DB = gormDB
	t.Cleanup(func() { database.DB = oldDB })
	return gormDB, mock
}

func TestConfirmPayment_InvalidAmount(t *testing.T) {
	db, mock := setupServiceMockDB(t)

	// Số tiền không dương bị chặn trước khi chạm tới DB
	_, err := ConfirmPayment(db, ConfirmPaymentInput{CustomerID: 1, Amount: decimal.Zero})
	assert.ErrorIs(t, err, ErrInvalidAmount)

	_, err = ConfirmPayment(db, ConfirmPaymentInput{CustomerID: 1, Amount: decimal.NewFromInt(-100)})
	assert.ErrorIs(t, err, ErrInvalidAmount)

	require.NoError(t, mock.ExpectationsWereMet())
}

func TestConfirmPayment(t *testing.T) {
	db, mock := setupServiceMockDB(t)
	setupWalletConfig(t, 7)

	mock.ExpectQuery("SELECT .* FROM `customers`").
		WillReturnRows(sqlmock.NewRows([]string{"id", "code", "name"}).
			AddRow(5, "KH-070326-002", "Chị Hà"))

	mock.ExpectBegin()

	// Khoản thu "KH thanh toán đơn hàng" ghi vào sổ thu chi
	mock.ExpectQuery("SELECT .* FROM `finance_categories`").
		WillReturnRows(sqlmock.NewRows([]string{"id", "name", "type"}).
			AddRow(1, models.CategoryOrderPayment, models.FinanceTypeIncome))
	mock.ExpectExec("INSERT INTO `finance_transactions`").
		WillReturnResult(sqlmock.NewResult(3, 1))

	// Đồng bộ sang ví cấu hình id 7: chưa có bản sao TRANS-3 nên tạo mới
	mock.ExpectQuery("SELECT .* FROM `wallets`").WillReturnRows(businessWalletRow())
	mock.ExpectQuery("SELECT .* FROM `wallet_transactions`").
		WillReturnRows(sqlmock.NewRows([]string{"id"}))
	mock.ExpectExec("INSERT INTO `wallet_transactions`").
		WillReturnResult(sqlmock.NewResult(1, 1))
	expectRecalcInTx(mock, "190.00", "0")

	// Toàn bộ đơn khớp bộ lọc chuyển sang reconciled
	mock.ExpectExec("UPDATE `orders`").
		WillReturnResult(sqlmock.NewResult(0, 2))

	mock.ExpectCommit()

	result, err := ConfirmPayment(db, ConfirmPaymentInput{
		CustomerID: 5,
		Amount:     decimal.NewFromInt(190),
		Filters:    OrderFilters{Statuses: []string{"delivered"}},
	})
	require.NoError(t, err)
	assert.Equal(t, int64(2), result.ReconciledCount)
	assert.Equal(t, uint(3), result.Payment.ID)
	// Ghi chú trống được điền bằng mã khách hàng
	assert.Equal(t, "KH-070326-002", result.Payment.Note)
	assert.Nil(t, result.DepositDeduction)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestConfirmPayment_CustomerNotFound(t *testing.T) {
	db, mock := setupServiceMockDB(t)

	mock.ExpectQuery("SELECT .* FROM `customers`").
		WillReturnRows(sqlmock.NewRows([]string{"id"}))

	_, err := ConfirmPayment(db, ConfirmPaymentInput{CustomerID: 99, Amount: decimal.NewFromInt(100)})
	assert.ErrorIs(t, err, ErrCustomerNotFound)
	require.NoError(t, mock.ExpectationsWereMet())
}
