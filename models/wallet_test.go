package models

import (
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRecalcWalletBalance(t *testing.T) {
	db, mock := newCodeTestDB(t)

	// Tiền vào (deposit + income) rồi tiền ra (withdrawal + expense)
	mock.ExpectQuery("SELECT COALESCE\\(SUM\\(amount\\), 0\\) FROM `wallet_transactions`").
		WillReturnRows(sqlmock.NewRows([]string{"sum"}).AddRow("500.00"))
	mock.ExpectQuery("SELECT COALESCE\\(SUM\\(amount\\), 0\\) FROM `wallet_transactions`").
		WillReturnRows(sqlmock.NewRows([]string{"sum"}).AddRow("120.00"))

	mock.ExpectBegin()
	mock.ExpectExec("UPDATE `wallets`").
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	balance, err := RecalcWalletBalance(db, 7)
	require.NoError(t, err)
	assert.True(t, balance.Equal(decimal.NewFromInt(380)), "số dư phải bằng 500 - 120, nhận %s", balance)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestRecalcWalletBalance_Empty(t *testing.T) {
	db, mock := newCodeTestDB(t)

	// Ví chưa có giao dịch nào: số dư về 0
	mock.ExpectQuery("SELECT COALESCE\\(SUM\\(amount\\), 0\\) FROM `wallet_transactions`").
		WillReturnRows(sqlmock.NewRows([]string{"sum"}).AddRow("0"))
	mock.ExpectQuery("SELECT COALESCE\\(SUM\\(amount\\), 0\\) FROM `wallet_transactions`").
		WillReturnRows(sqlmock.NewRows([]string{"sum"}).AddRow("0"))

	mock.ExpectBegin()
	mock.ExpectExec("UPDATE `wallets`").
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	balance, err := RecalcWalletBalance(db, 7)
	require.NoError(t, err)
	assert.True(t, balance.IsZero())
	require.NoError(t, mock.ExpectationsWereMet())
}
