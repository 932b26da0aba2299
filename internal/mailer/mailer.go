package mailer

import (
	"context"
	"crypto/tls"
	"fmt"
	"log/slog"

	"github.com/frahmantamala/training-management/internal"
	"gopkg.in/gomail.v2"
)

type Message struct {
	To      []string
	Subject string
	HTML    string
}

// Sender delivers outbound mail.
type Sender interface {
	Send(ctx context.Context, msg Message) error
}

type GomailSender struct {
	from   string
	dialer *gomail.Dialer
	logger *slog.Logger
}

func NewGomailSender(cfg internal.MailConfig, logger *slog.Logger) *GomailSender {
	dialer := gomail.NewDialer(cfg.Host, cfg.Port, cfg.Username, cfg.Password)
	dialer.TLSConfig = &tls.Config{
		ServerName: cfg.Host,
		MinVersion: tls.VersionTLS12,
	}

	return &GomailSender{
		from:   cfg.From,
		dialer: dialer,
		logger: logger,
	}
}

func (s *GomailSender) Send(ctx context.Context, msg Message) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	m := gomail.NewMessage(
		gomail.SetCharset("UTF-8"),
		gomail.SetEncoding(gomail.Base64),
	)
	m.SetHeader("From", s.from)
	m.SetHeader("To", msg.To...)
	m.SetHeader("Subject", msg.Subject)
	m.SetBody("text/html", msg.HTML)

	if err := s.dialer.DialAndSend(m); err != nil {
		return fmt.Errorf("failed to send email: %w", err)
	}

	s.logger.Info("email sent", "subject", msg.Subject, "recipients", len(msg.To))
	return nil
}
