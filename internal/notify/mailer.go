// Package notify holds the outbound side channels: owner email, visit
// logging to a chat bot and IP geolocation.
package notify

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"
	"gopkg.in/gomail.v2"
)

// Message is an HTML email to the shop owner.
type Message struct {
	Subject string
	HTML    string
	ReplyTo string
}

type Mailer interface {
	Send(ctx context.Context, msg Message) error
}

type SMTPConfig struct {
	Host     string
	Port     int
	User     string
	Password string
	From     string
	To       string
}

func (c SMTPConfig) Enabled() bool {
	return c.Host != ""
}

// SMTPMailer delivers through an SMTP relay, one connection per message.
type SMTPMailer struct {
	cfg  SMTPConfig
	send func(msgs ...*gomail.Message) error
}

func NewSMTPMailer(cfg SMTPConfig) *SMTPMailer {
	d := gomail.NewDialer(cfg.Host, cfg.Port, cfg.User, cfg.Password)
	return &SMTPMailer{cfg: cfg, send: d.DialAndSend}
}

func (m *SMTPMailer) Send(ctx context.Context, msg Message) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if msg.Subject == "" {
		return errors.New("mail: empty subject")
	}

	gm := gomail.NewMessage()
	gm.SetHeader("From", m.cfg.From)
	gm.SetHeader("To", m.cfg.To)
	gm.SetHeader("Subject", msg.Subject)
	if msg.ReplyTo != "" {
		gm.SetHeader("Reply-To", msg.ReplyTo)
	}
	gm.SetBody("text/html", msg.HTML)

	if err := m.send(gm); err != nil {
		return fmt.Errorf("smtp send %q: %w", msg.Subject, err)
	}
	return nil
}

// LogMailer records messages in the log instead of sending them.
// It stands in when no SMTP relay is configured.
type LogMailer struct {
	log *zap.Logger
}

func NewLogMailer(log *zap.Logger) *LogMailer {
	return &LogMailer{log: log}
}

func (m *LogMailer) Send(_ context.Context, msg Message) error {
	m.log.Info("mail not sent, smtp disabled",
		zap.String("subject", msg.Subject),
		zap.String("reply_to", msg.ReplyTo),
		zap.Int("html_bytes", len(msg.HTML)),
	)
	return nil
}
