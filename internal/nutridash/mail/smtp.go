package mail

import (
	"context"
	"fmt"
	"time"

	"gopkg.in/gomail.v2"
)

type SMTPConfig struct {
	Host     string
	Port     int
	Username string
	Password string
	From     string
	Location *time.Location // time zone for the expiry shown in emails, default UTC
}

// sender is the part of *gomail.Dialer the mailer uses.
type sender interface {
	DialAndSend(m ...*gomail.Message) error
}

// SMTPMailer sends codes through an SMTP relay. Each send opens its own
// connection.
type SMTPMailer struct {
	from   string
	loc    *time.Location
	dialer sender
}

func NewSMTPMailer(cfg SMTPConfig) (*SMTPMailer, error) {
	if cfg.Host == "" {
		return nil, fmt.Errorf("smtp host is required")
	}
	if cfg.From == "" {
		return nil, fmt.Errorf("smtp from address is required")
	}
	if cfg.Port == 0 {
		cfg.Port = 587
	}
	return &SMTPMailer{
		from:   cfg.From,
		loc:    cfg.Location,
		dialer: gomail.NewDialer(cfg.Host, cfg.Port, cfg.Username, cfg.Password),
	}, nil
}

func (m *SMTPMailer) SendTwoFactorCode(ctx context.Context, email, code string, expiresAt time.Time) error {
	body, err := renderTwoFactor(code, expiresAt, m.loc)
	if err != nil {
		return err
	}

	msg := gomail.NewMessage()
	msg.SetHeader("From", m.from)
	msg.SetHeader("To", email)
	msg.SetHeader("Subject", twoFactorSubject)
	msg.SetBody("text/html", body)

	if err := runWithContext(ctx, func() error { return m.dialer.DialAndSend(msg) }); err != nil {
		return fmt.Errorf("send two-factor code: %w", err)
	}
	return nil
}
