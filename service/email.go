package service

import (
	"errors"
	"fmt"
	"html"
	"io"

	"expensetracker/config"

	"gopkg.in/gomail.v2"
)

// ErrEmailDisabled 邮件服务未启用
var ErrEmailDisabled = errors.New("邮件服务未启用")

type mailSender interface {
	DialAndSend(m ...*gomail.Message) error
}

// EmailService 邮件服务
type EmailService struct {
	cfg    *config.EmailConfig
	sender mailSender
}

// NewEmailService 创建邮件服务
func NewEmailService(cfg *config.EmailConfig) *EmailService {
	return &EmailService{
		cfg:    cfg,
		sender: gomail.NewDialer(cfg.Host, cfg.Port, cfg.Username, cfg.Password),
	}
}

// Enabled 是否启用
func (s *EmailService) Enabled() bool {
	return s.cfg.Enabled
}

// SendExpenseReport 以 xlsx 附件发送消费报表
func (s *EmailService) SendExpenseReport(toEmail, username string, report *ExpenseReport) error {
	if !s.cfg.Enabled {
		return ErrEmailDisabled
	}

	workbook, err := report.Workbook()
	if err != nil {
		return fmt.Errorf("生成 Excel 失败: %w", err)
	}

	m := gomail.NewMessage()
	m.SetHeader("From", m.FormatAddress(s.cfg.Username, s.cfg.From))
	m.SetHeader("To", toEmail)
	m.SetHeader("Subject", "【记账本】消费报表 "+report.Label)
	m.SetBody("text/html", s.generateReportEmailBody(username, report))
	data := workbook.Bytes()
	m.Attach(report.Filename("xlsx"), gomail.SetCopyFunc(func(w io.Writer) error {
		_, err := w.Write(data)
		return err
	}))

	if err := s.sender.DialAndSend(m); err != nil {
		return fmt.Errorf("发送邮件失败: %w", err)
	}
	return nil
}

// generateReportEmailBody 生成报表邮件内容
func (s *EmailService) generateReportEmailBody(username string, report *ExpenseReport) string {
	return fmt.Sprintf(`
<!DOCTYPE html>
<html>
<head>
    <meta charset="UTF-8">
    <style>
        body { font-family: 'Microsoft YaHei', Arial, sans-serif; background: #f5f5f5; margin: 0; padding: 20px; }
        .container { max-width: 600px; margin: 0 auto; background: #fff; border-radius: 12px; overflow: hidden; box-shadow: 0 4px 20px rgba(0,0,0,0.1); }
        .header { background: linear-gradient(135deg, #10b981, #059669); color: white; padding: 30px; text-align: center; }
        .header h1 { margin: 0; font-size: 24px; }
        .content { padding: 40px 30px; }
        .content p { color: #333; line-height: 1.8; margin: 0 0 20px; }
        .total { font-size: 28px; font-weight: bold; color: #059669; }
        .footer { background: #f8f9fa; padding: 20px 30px; text-align: center; color: #6c757d; font-size: 12px; }
    </style>
</head>
<body>
    <div class="container">
        <div class="header">
            <h1>💰 记账本</h1>
        </div>
        <div class="content">
            <p>尊敬的 <strong>%s</strong>，您好！</p>
            <p>附件是您导出的消费报表（%s），共 %d 条记录，合计：</p>
            <p class="total">%s</p>
        </div>
        <div class="footer">
            <p>此邮件由系统自动发送，请勿回复</p>
        </div>
    </div>
</body>
</html>
`, html.EscapeString(username), html.EscapeString(report.Label), len(report.Rows), report.Total.String())
}
