package email

import (
	"context"
	"crypto/tls"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog/log"
	"gopkg.in/gomail.v2"
)

var ErrInvalidMessage = errors.New("invalid email message")

// Sender delivers a plain-text email.
type Sender interface {
	Send(ctx context.Context, to, subject, body string) error
}

type Config struct {
	Host     string
	Port     int
	Username string
	Password string
	From     string
	UseTLS   bool
	Timeout  time.Duration
}

// Enabled reports whether enough SMTP settings are present to send mail.
func (c Config) Enabled() bool {
	return c.Host != "" && c.From != ""
}

type SMTPSender struct {
	cfg Config
}

func NewSMTPSender(cfg Config) *SMTPSender {
	if cfg.Timeout <= 0 {
		cfg.Timeout = 30 * time.Second
	}
	return &SMTPSender{cfg: cfg}
}

// NewSender picks SMTP when configured and a log-only sender otherwise.
func NewSender(cfg Config) Sender {
	if !cfg.Enabled() {
		log.Warn().Msg("SMTP not configured, emails will only be logged")
		return LogSender{}
	}
	return NewSMTPSender(cfg)
}

func (s *SMTPSender) Send(ctx context.Context, to, subject, body string) error {
	msg, err := buildMessage(s.cfg.From, to, subject, body)
	if err != nil {
		return err
	}

	d := gomail.NewDialer(s.cfg.Host, s.cfg.Port, s.cfg.Username, s.cfg.Password)
	d.SSL = s.cfg.UseTLS
	if s.cfg.UseTLS {
		d.TLSConfig = &tls.Config{ServerName: s.cfg.Host}
	}

	done := make(chan error, 1)
	go func() {
		done <- d.DialAndSend(msg)
	}()

	wait := s.cfg.Timeout
	if dl, ok := ctx.Deadline(); ok {
		if remaining := time.Until(dl); remaining > 0 && remaining < wait {
			wait = remaining
		}
	}

	select {
	case err := <-done:
		if err != nil {
			return fmt.Errorf("failed to send email via smtp: %w", err)
		}
		return nil
	case <-ctx.Done():
		return ctx.Err()
	case <-time.After(wait):
		return context.DeadlineExceeded
	}
}

func buildMessage(from, to, subject, body string) (*gomail.Message, error) {
	from, to, subject = strings.TrimSpace(from), strings.TrimSpace(to), strings.TrimSpace(subject)
	switch {
	case from == "":
		return nil, fmt.Errorf("%w: from is required", ErrInvalidMessage)
	case to == "":
		return nil, fmt.Errorf("%w: recipient is required", ErrInvalidMessage)
	case subject == "":
		return nil, fmt.Errorf("%w: subject is required", ErrInvalidMessage)
	case strings.TrimSpace(body) == "":
		return nil, fmt.Errorf("%w: body is required", ErrInvalidMessage)
	}

	msg := gomail.NewMessage()
	msg.SetHeader("From", from)
	msg.SetHeader("To", to)
	msg.SetHeader("Subject", subject)
	msg.SetBody("text/plain", body)
	return msg, nil
}

// LogSender writes emails to the log instead of sending them.
type LogSender struct{}

func (LogSender) Send(_ context.Context, to, subject, body string) error {
	log.Info().
		Str("to", to).
		Str("subject", subject).
		Int("body_length", len(body)).
		Msg("Email (not sent, SMTP disabled)")
	return nil
}
