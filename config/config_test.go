package config

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSafeErrorMessage(t *testing.T) {
	fallback := "Thao tác thất bại"
	testErr := errors.New("internal database error")

	// err nil trả về fallback
	assert.Equal(t, fallback, SafeErrorMessage(nil, fallback))

	// Chế độ release trả về fallback, không lộ chi tiết lỗi
	GlobalConfig = &Config{Server: ServerConfig{Mode: "release"}}
	defer func() { GlobalConfig = nil }()
	assert.Equal(t, fallback, SafeErrorMessage(testErr, fallback))

	// Chế độ debug trả về err.Error()
	GlobalConfig = &Config{Server: ServerConfig{Mode: "debug"}}
	assert.Equal(t, "internal database error", SafeErrorMessage(testErr, fallback))

	// GlobalConfig nil thì coi như môi trường phát triển
	GlobalConfig = nil
	assert.Equal(t, "internal database error", SafeErrorMessage(testErr, fallback))
}
