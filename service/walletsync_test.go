package service

import (
	"testing"

	"navybaby/config"
	"navybaby/models"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupWalletConfig(t *testing.T, businessWalletID uint) {
	old := config.GlobalConfig
	config.GlobalConfig = &config.Config{
		Server: config.ServerConfig{Mode: "debug"},
		Wallet: config.WalletConfig{BusinessWalletID: businessWalletID},
	}
	t.Cleanup(func() { config.GlobalConfig = old })
}

func businessWalletRow() *sqlmock.Rows {
	return sqlmock.NewRows([]string{"id", "name", "currency", "balance"}).
		AddRow(7, models.BusinessWalletName, models.CurrencyVND, "0.00")
}

// expectRecalc sau mỗi lần đồng bộ, số dư được tính lại từ toàn bộ giao dịch ví
func expectRecalc(mock sqlmock.Sqlmock, inflow, outflow string) {
	mock.ExpectQuery("SELECT COALESCE\\(SUM\\(amount\\), 0\\) FROM `wallet_transactions`").
		WillReturnRows(sqlmock.NewRows([]string{"sum"}).AddRow(inflow))
	mock.ExpectQuery("SELECT COALESCE\\(SUM\\(amount\\), 0\\) FROM `wallet_transactions`").
		WillReturnRows(sqlmock.NewRows([]string{"sum"}).AddRow(outflow))
	mock.ExpectBegin()
	mock.ExpectExec("UPDATE `wallets`").WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()
}

// expectRecalcInTx như expectRecalc nhưng bên trong một transaction đang mở
func expectRecalcInTx(mock sqlmock.Sqlmock, inflow, outflow string) {
	mock.ExpectQuery("SELECT COALESCE\\(SUM\\(amount\\), 0\\) FROM `wallet_transactions`").
		WillReturnRows(sqlmock.NewRows([]string{"sum"}).AddRow(inflow))
	mock.ExpectQuery("SELECT COALESCE\\(SUM\\(amount\\), 0\\) FROM `wallet_transactions`").
		WillReturnRows(sqlmock.NewRows([]string{"sum"}).AddRow(outflow))
	mock.ExpectExec("UPDATE `wallets`").WillReturnResult(sqlmock.NewResult(0, 1))
}

func TestFinanceReference(t *testing.T) {
	assert.Equal(t, "TRANS-1", FinanceReference(1))
	assert.Equal(t, "TRANS-12345", FinanceReference(12345))
}

func TestMirrorTransactionType(t *testing.T) {
	income := &models.FinanceCategory{Name: "Bán hàng", Type: models.FinanceTypeIncome}
	expense := &models.FinanceCategory{Name: "Nhập hàng", Type: models.FinanceTypeExpense}

	tests := []struct {
		name string
		ft   models.FinanceTransaction
		want string
	}{
		{
			name: "danh mục thu thành income",
			ft:   models.FinanceTransaction{Category: income, Amount: decimal.NewFromInt(100)},
			want: models.WalletTxIncome,
		},
		{
			name: "danh mục chi thành expense",
			ft:   models.FinanceTransaction{Category: expense, Amount: decimal.NewFromInt(100)},
			want: models.WalletTxExpense,
		},
		{
			name: "không danh mục, số dương thành income",
			ft:   models.FinanceTransaction{Amount: decimal.NewFromInt(100)},
			want: models.WalletTxIncome,
		},
		{
			name: "không danh mục, số âm thành expense",
			ft:   models.FinanceTransaction{Amount: decimal.NewFromInt(-100)},
			want: models.WalletTxExpense,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ft := tt.ft
			assert.Equal(t, tt.want, mirrorTransactionType(&ft))
		})
	}
}

func TestMirrorDescription(t *testing.T) {
	cat := &models.FinanceCategory{Name: "KH thanh toán đơn hàng", Type: models.FinanceTypeIncome}

	ft := models.FinanceTransaction{Category: cat, Note: "KH-070326-001"}
	assert.Equal(t, "Giao dịch tài chính: KH thanh toán đơn hàng - KH-070326-001", mirrorDescription(&ft))

	noNote := models.FinanceTransaction{Category: cat}
	assert.Equal(t, "Giao dịch tài chính: KH thanh toán đơn hàng", mirrorDescription(&noNote))

	noCat := models.FinanceTransaction{Note: "ghi chú"}
	assert.Equal(t, "Giao dịch tài chính: Không có danh mục - ghi chú", mirrorDescription(&noCat))
}

func TestSyncFinanceTransaction_Create(t *testing.T) {
	db, mock := setupServiceMockDB(t)
	setupWalletConfig(t, 7)

	catID := uint(1)
	ft := models.FinanceTransaction{
		ID:         3,
		CategoryID: &catID,
		Category:   &models.FinanceCategory{ID: catID, Name: models.CategoryOrderPayment, Type: models.FinanceTypeIncome},
		Amount:     decimal.NewFromInt(190),
	}

	// Ví cấu hình id 7, chưa có bản sao TRANS-3 nên tạo mới
	mock.ExpectQuery("SELECT .* FROM `wallets`").WillReturnRows(businessWalletRow())
	mock.ExpectQuery("SELECT .* FROM `wallet_transactions`").
		WillReturnRows(sqlmock.NewRows([]string{"id"}))

	mock.ExpectBegin()
	mock.ExpectExec("INSERT INTO `wallet_transactions`").
		WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectCommit()

	expectRecalc(mock, "190.00", "0")

	require.NoError(t, SyncFinanceTransaction(db, &ft))
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestSyncFinanceTransaction_Update(t *testing.T) {
	db, mock := setupServiceMockDB(t)
	setupWalletConfig(t, 7)

	// Giao dịch đổi sang danh mục chi: bản sao trong ví phải đổi loại theo
	catID := uint(2)
	ft := models.FinanceTransaction{
		ID:         3,
		CategoryID: &catID,
		Category:   &models.FinanceCategory{ID: catID, Name: "Nhập hàng", Type: models.FinanceTypeExpense},
		Amount:     decimal.NewFromInt(150),
	}

	mock.ExpectQuery("SELECT .* FROM `wallets`").WillReturnRows(businessWalletRow())
	mock.ExpectQuery("SELECT .* FROM `wallet_transactions`").
		WillReturnRows(sqlmock.NewRows(
			[]string{"id", "wallet_id", "transaction_type", "category", "amount", "reference_code"}).
			AddRow(9, 7, models.WalletTxIncome, "other", "190.00", "TRANS-3"))

	mock.ExpectBegin()
	mock.ExpectExec("UPDATE `wallet_transactions`").
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	expectRecalc(mock, "0", "150.00")

	require.NoError(t, SyncFinanceTransaction(db, &ft))
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestSyncFinanceTransaction_NoWallet(t *testing.T) {
	db, mock := setupServiceMockDB(t)
	setupWalletConfig(t, 0)

	// Không có ví vốn kinh doanh: bỏ qua, không ghi gì
	mock.ExpectQuery("SELECT .* FROM `wallets`").
		WillReturnRows(sqlmock.NewRows([]string{"id"}))

	ft := models.FinanceTransaction{ID: 3, Amount: decimal.NewFromInt(100)}
	require.NoError(t, SyncFinanceTransaction(db, &ft))
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestRemoveFinanceMirror(t *testing.T) {
	db, mock := setupServiceMockDB(t)
	setupWalletConfig(t, 7)

	mock.ExpectQuery("SELECT .* FROM `wallets`").WillReturnRows(businessWalletRow())

	mock.ExpectBegin()
	mock.ExpectExec("DELETE FROM `wallet_transactions`").
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	expectRecalc(mock, "0", "0")

	require.NoError(t, RemoveFinanceMirror(db, 3))
	require.NoError(t, mock.ExpectationsWereMet())
}
