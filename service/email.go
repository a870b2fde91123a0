package service

import (
	"fmt"

	"fintrack/config"

	"gopkg.in/gomail.v2"
)

// EmailService 邮件服务
type EmailService struct {
	cfg *config.EmailConfig
}

// NewEmailService 创建邮件服务
func NewEmailService(cfg *config.EmailConfig) *EmailService {
	return &EmailService{cfg: cfg}
}

// Enabled 邮件服务是否启用
func (s *EmailService) Enabled() bool {
	return s.cfg != nil && s.cfg.Enabled
}

// SendRecoveryCode 发送密码找回验证码
func (s *EmailService) SendRecoveryCode(toEmail, username, code string) error {
	if !s.Enabled() {
		return fmt.Errorf("邮件服务未启用，请配置 FINANCE_EMAIL_ENABLED=true")
	}

	subject := "【记账】密码找回验证码"
	body := s.generateRecoveryEmailBody(username, code)

	return s.sendEmail(toEmail, subject, body)
}

// generateRecoveryEmailBody 生成验证码邮件内容
func (s *EmailService) generateRecoveryEmailBody(username, code string) string {
	return fmt.Sprintf(`
<!DOCTYPE html>
<html>
<head>
    <meta charset="UTF-8">
    <style>
        body { font-family: 'Microsoft YaHei', Arial, sans-serif; background: #f5f5f5; margin: 0; padding: 20px; }
        .container { max-width: 500px; margin: 0 auto; background: #fff; border-radius: 16px; overflow: hidden; }
        .header { background: #2d2d2d; color: white; padding: 30px; text-align: center; }
        .content { padding: 40px 30px; color: #333; line-height: 1.8; }
        .code { font-size: 36px; font-weight: bold; letter-spacing: 8px; text-align: center; font-family: 'Courier New', monospace; margin: 30px 0; }
        .footer { background: #f8f9fa; padding: 20px 30px; text-align: center; color: #6c757d; font-size: 12px; }
    </style>
</head>
<body>
    <div class="container">
        <div class="header"><h1>💰 记账</h1></div>
        <div class="content">
            <p>%s，您好！</p>
            <p>我们收到了您的密码找回请求，请使用以下验证码完成密码重置：</p>
            <div class="code">%s</div>
            <p>验证码 <strong>10 分钟</strong>内有效。如果不是您本人操作，请忽略此邮件。</p>
        </div>
        <div class="footer"><p>此邮件由系统自动发送，请勿回复</p></div>
    </div>
</body>
</html>
`, username, code)
}

// sendEmail 发送邮件
func (s *EmailService) sendEmail(to, subject, body string) error {
	m := gomail.NewMessage()
	m.SetHeader("From", m.FormatAddress(s.cfg.Username, s.cfg.From))
	m.SetHeader("To", to)
	m.SetHeader("Subject", subject)
	m.SetBody("text/html", body)

	d := gomail.NewDialer(s.cfg.Host, s.cfg.Port, s.cfg.Username, s.cfg.Password)

	if err := d.DialAndSend(m); err != nil {
		return fmt.Errorf("发送邮件失败: %w", err)
	}

	return nil
}
