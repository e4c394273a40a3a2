package models

import (
	"fmt"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/mysql"
	"gorm.io/gorm"
)

func TestCodePrefixFor(t *testing.T) {
	day := time.Date(2026, 3, 7, 15, 30, 0, 0, time.Local)
	assert.Equal(t, "KH-070326", CodePrefixFor(CustomerCodePrefix, day))
	assert.Equal(t, "SP-070326", CodePrefixFor(ProductCodePrefix, day))
	assert.Equal(t, "ĐH-070326", CodePrefixFor(OrderCodePrefix, day))
	assert.Equal(t, "NCC-070326", CodePrefixFor(SupplierCodePrefix, day))
	assert.Equal(t, "DM-070326", CodePrefixFor(ProductCategoryCodePrefix, day))

	// Ngày khác cho tiền tố khác: bộ đếm reset theo ngày
	nextDay := day.AddDate(0, 0, 1)
	assert.Equal(t, "KH-080326", CodePrefixFor(CustomerCodePrefix, nextDay))
}

func TestNextSequence(t *testing.T) {
	tests := []struct {
		lastCode string
		want     int
	}{
		{"", 1},
		{"KH-070326-001", 2},
		{"KH-070326-005", 6},
		{"ĐH-070326-099", 100},
		{"ĐH-070326-999", 1000},
		{"ĐH-070326-1000", 1001},
		{"NCC-070326-010", 11},
		{"rác-không-phải-số", 1},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, NextSequence(tt.lastCode), "lastCode=%q", tt.lastCode)
	}
}

func TestNextSequence_Progression(t *testing.T) {
	// Mô phỏng 5 lần tạo liên tiếp trong cùng một ngày
	prefix := CodePrefixFor(CustomerCodePrefix, time.Now())
	last := ""
	for i := 1; i <= 5; i++ {
		code := fmt.Sprintf("%s-%03d", prefix, NextSequence(last))
		assert.Equal(t, fmt.Sprintf("%s-%03d", prefix, i), code)
		last = code
	}
}

func newCodeTestDB(t *testing.T) (*gorm.DB, sqlmock.Sqlmock) {
	sqlDB, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { sqlDB.Close() })

	gormDB, err := gorm.Open(mysql.New(mysql.Config{
		Conn:                      sqlDB,
		SkipInitializeWithVersion: true,
	}), &gorm.Config{})
	require.NoError(t, err)
	return gormDB, mock
}

func TestGenerateCode(t *testing.T) {
	db, mock := newCodeTestDB(t)
	prefix := CodePrefixFor(CustomerCodePrefix, time.Now())

	// Mã mới nhất phải được chọn theo giá trị số: "-1000" đứng trên "-999"
	mock.ExpectQuery("SELECT `code` FROM `customers` WHERE code LIKE .* ORDER BY LENGTH\\(code\\) DESC, code DESC").
		WillReturnRows(sqlmock.NewRows([]string{"code"}).AddRow(prefix + "-1000"))

	code, err := GenerateCode(db, &Customer{}, CustomerCodePrefix)
	require.NoError(t, err)
	assert.Equal(t, prefix+"-1001", code)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestGenerateCode_EmptyDay(t *testing.T) {
	db, mock := newCodeTestDB(t)
	prefix := CodePrefixFor(OrderCodePrefix, time.Now())

	mock.ExpectQuery("SELECT `code` FROM `orders`").
		WillReturnRows(sqlmock.NewRows([]string{"code"}))

	code, err := GenerateCode(db, &Order{}, OrderCodePrefix)
	require.NoError(t, err)
	assert.Equal(t, prefix+"-001", code)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestIsDuplicateKeyError(t *testing.T) {
	assert.False(t, IsDuplicateKeyError(nil))
	assert.True(t, IsDuplicateKeyError(fmt.Errorf("Error 1062: Duplicate entry 'KH-070326-001' for key 'code'")))
	assert.True(t, IsDuplicateKeyError(fmt.Errorf("UNIQUE constraint failed: customers.code")))
	assert.False(t, IsDuplicateKeyError(fmt.Errorf("connection refused")))
}
