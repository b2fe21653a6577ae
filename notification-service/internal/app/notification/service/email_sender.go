package service

import (
	"context"
	"fmt"
	"net/smtp"
	"strings"

	"dentalcare/notification-service/internal/app/notification/entity"
	"dentalcare/pkg/logger"
	"dentalcare/pkg/metrics"
)

// EmailSender отправляет письма пользователям
type EmailSender interface {
	Send(ctx context.Context, msg *entity.EmailMessage) error
}

// SMTPSender отправляет письма через SMTP сервер.
// При пустом username работает без аутентификации (локальный relay, mailhog).
type SMTPSender struct {
	addr     string
	host     string
	from     string
	username string
	password string
}

// NewSMTPSender создает новый SMTP отправитель
func NewSMTPSender(addr, from, username, password string) *SMTPSender {
	host := addr
	if idx := strings.LastIndex(addr, ":"); idx != -1 {
		host = addr[:idx]
	}

	return &SMTPSender{
		addr:     addr,
		host:     host,
		from:     from,
		username: username,
		password: password,
	}
}

// Send отправляет одно письмо. Kind используется только для метрик.
func (s *SMTPSender) Send(ctx context.Context, msg *entity.EmailMessage) error {
	var auth smtp.Auth
	if s.username != "" {
		auth = smtp.PlainAuth("", s.username, s.password, s.host)
	}

	data := buildMessage(s.from, msg)

	if err := smtp.SendMail(s.addr, auth, s.from, []string{msg.To}, data); err != nil {
		metrics.EmailsSent.WithLabelValues(msg.Kind, "failed").Inc()
		return fmt.Errorf("failed to send email to %s: %w", msg.To, err)
	}

	metrics.EmailsSent.WithLabelValues(msg.Kind, "success").Inc()
	logger.Info().
		Str("to", msg.To).
		Str("kind", msg.Kind).
		Msg("Email sent")

	return nil
}

// buildMessage собирает RFC 5322 сообщение с заголовками
func buildMessage(from string, msg *entity.EmailMessage) []byte {
	var b strings.Builder

	b.WriteString("From: " + from + "\r\n")
	b.WriteString("To: " + msg.To + "\r\n")
	b.WriteString("Subject: " + msg.Subject + "\r\n")
	b.WriteString("MIME-Version: 1.0\r\n")
	b.WriteString("Content-Type: text/plain; charset=\"UTF-8\"\r\n")
	b.WriteString("\r\n")
	b.WriteString(msg.Body)

	return []byte(b.String())
}
