package api

import (
	"navybaby/config"
)

// SafeErrorMessage ở môi trường production không trả chi tiết lỗi nội bộ cho client
func SafeErrorMessage(err error, fallback string) string {
	return config.SafeErrorMessage(err, fallback)
}
