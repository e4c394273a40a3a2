package service

import (
	"testing"

	"navybaby/config"

	"github.com/stretchr/testify/assert"
)

func newTestEmailService() *EmailService {
	return NewEmailService(&config.EmailConfig{})
}

func TestGenerateResetEmailBody(t *testing.T) {
	s := newTestEmailService()
	body := s.generateResetEmailBody("Nguyễn Văn A", "https://example.com/reset?token=abc")
	assert.Contains(t, body, "Nguyễn Văn A")
	assert.Contains(t, body, "https://example.com/reset?token=abc")
	assert.Contains(t, body, "Đặt lại mật khẩu")
	assert.Contains(t, body, "30 phút")
}

func TestSendEmailDisabled(t *testing.T) {
	s := newTestEmailService()

	// email.enabled=false thì mọi hàm gửi đều báo lỗi
	err := s.SendPasswordResetEmail("a@example.com", "user", "https://example.com")
	assert.ErrorContains(t, err, "chưa được bật")

	err = s.SendApprovalEmail("a@example.com", "user")
	assert.ErrorContains(t, err, "chưa được bật")

	err = s.SendTestEmail("a@example.com")
	assert.ErrorContains(t, err, "chưa được bật")
}
