package models

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"gorm.io/gorm"
)

// CodePrefixFor ghép tiền tố mã theo ngày: {PREFIX}-{DDMMYY}
func CodePrefixFor(prefix string, t time.Time) string {
	return fmt.Sprintf("%s-%s", prefix, t.Format("020106"))
}

// NextSequence đọc số thứ tự từ mã gần nhất trong ngày và trả về số kế tiếp.
// Mã rỗng hoặc không đọc được số thì bắt đầu từ 1.
func NextSequence(lastCode string) int {
	if lastCode == "" {
		return 1
	}
	parts := strings.Split(lastCode, "-")
	n, err := strconv.Atoi(parts[len(parts)-1])
	if err != nil || n < 0 {
		return 1
	}
	return n + 1
}

// GenerateCode sinh mã dạng {PREFIX}-{DDMMYY}-{NNN}, đếm riêng theo từng ngày.
// Tra cứu rồi cộng một không nguyên tử nên cột code phải có unique index,
// nơi gọi bắt lỗi trùng và thử lại (xem CodeRetries).
func GenerateCode(db *gorm.DB, model interface{}, prefix string) (string, error) {
	codePrefix := CodePrefixFor(prefix, time.Now())

	var codes []string
	// Xếp theo độ dài trước khi so chuỗi: từ đơn thứ 1000 trong ngày suffix
	// dài thêm một ký tự, so chuỗi thuần sẽ xếp "-1000" dưới "-999"
	err := db.Model(model).
		Where("code LIKE ?", codePrefix+"-%").
		Order("LENGTH(code) DESC, code DESC").
		Limit(1).
		Pluck("code", &codes).Error
	if err != nil {
		return "", err
	}

	last := ""
	if len(codes) > 0 {
		last = codes[0]
	}
	return fmt.Sprintf("%s-%03d", codePrefix, NextSequence(last)), nil
}

// CodeRetries số lần thử lại khi sinh mã bị trùng
const CodeRetries = 3

// IsDuplicateKeyError nhận diện lỗi vi phạm unique index khi tạo bản ghi
func IsDuplicateKeyError(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}
	msg := err.Error()
	return strings.Contains(msg, "Duplicate entry") || strings.Contains(msg, "UNIQUE constraint")
}
