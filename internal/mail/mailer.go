package mail

import (
	"go.uber.org/zap"
	gomail "gopkg.in/gomail.v2"

	"github.com/lighten/internal/config"
)

// Mailer 屏蔽具体的邮件传输实现
type Mailer interface {
	Send(to, subject, body string) error
}

// SMTPMailer 通过 gomail 走 SMTP 发送纯文本邮件
type SMTPMailer struct {
	dialer *gomail.Dialer
	from   string
}

// NewSMTPMailer 根据配置构建 SMTP 发送器
func NewSMTPMailer(cfg config.MailConfig) *SMTPMailer {
	return &SMTPMailer{
		dialer: gomail.NewDialer(cfg.SMTPHost, cfg.SMTPPort, cfg.Username, cfg.Password),
		from:   cfg.From,
	}
}

// Send 组装并发送一封纯文本邮件
func (m *SMTPMailer) Send(to, subject, body string) error {
	msg := gomail.NewMessage()
	msg.SetHeader("From", m.from)
	msg.SetHeader("To", to)
	msg.SetHeader("Subject", subject)
	msg.SetBody("text/plain", body)

	return m.dialer.DialAndSend(msg)
}

// LogMailer 在未配置 SMTP 时使用：邮件内容只写日志，方便本地联调。
type LogMailer struct {
	logger *zap.Logger
}

// NewLogMailer 构建日志发送器
func NewLogMailer(logger *zap.Logger) *LogMailer {
	return &LogMailer{logger: logger}
}

// Send 把邮件打到日志里，永远成功
func (m *LogMailer) Send(to, subject, body string) error {
	m.logger.Info("mail (not sent, smtp disabled)",
		zap.String("to", to),
		zap.String("subject", subject),
		zap.String("body", body))
	return nil
}
