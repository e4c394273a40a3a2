package service

import (
	"fmt"

	"navybaby/config"

	"gopkg.in/gomail.v2"
)

// EmailService dịch vụ gửi email
type EmailService struct {
	cfg *config.EmailConfig
}

// NewEmailService tạo dịch vụ email
func NewEmailService(cfg *config.EmailConfig) *EmailService {
	return &EmailService{cfg: cfg}
}

// sendEmail gửi một email HTML
func (s *EmailService) sendEmail(to, subject, body string) error {
	m := gomail.NewMessage()
	m.SetHeader("From", m.FormatAddress(s.cfg.Username, s.cfg.From))
	m.SetHeader("To", to)
	m.SetHeader("Subject", subject)
	m.SetBody("text/html", body)

	d := gomail.NewDialer(s.cfg.Host, s.cfg.Port, s.cfg.Username, s.cfg.Password)

	if err := d.DialAndSend(m); err != nil {
		return fmt.Errorf("gửi email thất bại: %w", err)
	}

	return nil
}

// SendPasswordResetEmail gửi email đặt lại mật khẩu
func (s *EmailService) SendPasswordResetEmail(toEmail, username, resetLink string) error {
	if !s.cfg.Enabled {
		return fmt.Errorf("dịch vụ email chưa được bật, vui lòng cấu hình email.enabled=true")
	}

	subject := "【NavyBaby】Đặt lại mật khẩu"
	body := s.generateResetEmailBody(username, resetLink)

	return s.sendEmail(toEmail, subject, body)
}

// generateResetEmailBody nội dung email đặt lại mật khẩu
func (s *EmailService) generateResetEmailBody(username, resetLink string) string {
	return fmt.Sprintf(`
<!DOCTYPE html>
<html>
<head>
    <meta charset="UTF-8">
    <style>
        body { font-family: Arial, sans-serif; background: #f5f5f5; margin: 0; padding: 20px; }
        .container { max-width: 600px; margin: 0 auto; background: #fff; border-radius: 12px; overflow: hidden; box-shadow: 0 4px 20px rgba(0,0,0,0.1); }
        .header { background: linear-gradient(135deg, #1e3a8a, #1d4ed8); color: white; padding: 30px; text-align: center; }
        .header h1 { margin: 0; font-size: 24px; }
        .content { padding: 40px 30px; }
        .content p { color: #333; line-height: 1.8; margin: 0 0 20px; }
        .btn { display: inline-block; background: linear-gradient(135deg, #1e3a8a, #1d4ed8); color: white !important; text-decoration: none; padding: 14px 40px; border-radius: 8px; font-weight: 600; margin: 20px 0; }
        .warning { background: #fff3cd; border-left: 4px solid #ffc107; padding: 15px; margin: 20px 0; border-radius: 4px; }
        .warning p { margin: 0; color: #856404; font-size: 14px; }
        .footer { background: #f8f9fa; padding: 20px 30px; text-align: center; color: #6c757d; font-size: 12px; }
        .link { word-break: break-all; color: #1d4ed8; font-size: 12px; }
    </style>
</head>
<body>
    <div class="container">
        <div class="header">
            <h1>🧸 NavyBaby</h1>
        </div>
        <div class="content">
            <p>Xin chào <strong>%s</strong>!</p>
            <p>Chúng tôi nhận được yêu cầu đặt lại mật khẩu của bạn. Nhấn vào nút bên dưới để đặt lại mật khẩu:</p>
            <p style="text-align: center;">
                <a href="%s" class="btn">Đặt lại mật khẩu</a>
            </p>
            <div class="warning">
                <p>⚠️ Liên kết này có hiệu lực trong <strong>30 phút</strong>, vui lòng hoàn tất sớm.</p>
                <p>⚠️ Nếu bạn không yêu cầu đặt lại mật khẩu, hãy bỏ qua email này.</p>
            </div>
            <p>Nếu nút không hoạt động, hãy sao chép liên kết sau vào trình duyệt:</p>
            <p class="link">%s</p>
        </div>
        <div class="footer">
            <p>Email này được gửi tự động, vui lòng không trả lời</p>
            <p>© NavyBaby - Hệ thống quản lý bán hàng</p>
        </div>
    </div>
</body>
</html>
`, username, resetLink, resetLink)
}

// SendApprovalEmail báo cho người dùng biết tài khoản đã được phê duyệt
func (s *EmailService) SendApprovalEmail(toEmail, username string) error {
	if !s.cfg.Enabled {
		return fmt.Errorf("dịch vụ email chưa được bật, vui lòng cấu hình email.enabled=true")
	}

	subject := "【NavyBaby】Tài khoản đã được phê duyệt"
	body := fmt.Sprintf(`
<!DOCTYPE html>
<html>
<head><meta charset="UTF-8"></head>
<body style="font-family: Arial, sans-serif; padding: 20px;">
    <h2>✅ Tài khoản đã được phê duyệt</h2>
    <p>Xin chào <strong>%s</strong>, tài khoản của bạn đã được quản trị viên phê duyệt.</p>
    <p>Bạn có thể đăng nhập và bắt đầu sử dụng hệ thống.</p>
    <p style="color: #666;">—— NavyBaby</p>
</body>
</html>
`, username)
	return s.sendEmail(toEmail, subject, body)
}

// SendTestEmail gửi email kiểm tra cấu hình
func (s *EmailService) SendTestEmail(toEmail string) error {
	if !s.cfg.Enabled {
		return fmt.Errorf("dịch vụ email chưa được bật")
	}

	subject := "【NavyBaby】Kiểm tra cấu hình email"
	body := `
<!DOCTYPE html>
<html>
<head><meta charset="UTF-8"></head>
<body style="font-family: Arial, sans-serif; padding: 20px;">
    <h2>✅ Cấu hình email thành công</h2>
    <p>Nếu bạn nhận được email này, dịch vụ email đã được cấu hình đúng.</p>
    <p style="color: #666;">—— NavyBaby</p>
</body>
</html>
`
	return s.sendEmail(toEmail, subject, body)
}
