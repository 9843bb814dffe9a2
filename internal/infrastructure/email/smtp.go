// Package email sends the order mails over SMTP.
package email

import (
	"context"
	"fmt"

	"gopkg.in/gomail.v2"

	"github.com/orris-inc/ticketry/internal/shared/config"
	"github.com/orris-inc/ticketry/internal/shared/logger"
)

// Mail is one outgoing message. HTML is optional.
type Mail struct {
	To      string
	Subject string
	Text    string
	HTML    string
}

// Sender delivers mails. The order services depend on this interface only.
type Sender interface {
	Send(ctx context.Context, m Mail) error
}

type SMTPSender struct {
	fromAddress string
	fromName    string
	sender      gomail.Sender
	dialer      *gomail.Dialer
	logger      logger.Interface
}

func NewSMTPSender(cfg config.EmailConfig, log logger.Interface) *SMTPSender {
	return &SMTPSender{
		fromAddress: cfg.FromAddress,
		fromName:    cfg.FromName,
		dialer:      gomail.NewDialer(cfg.SMTPHost, cfg.SMTPPort, cfg.SMTPUser, cfg.SMTPPassword),
		logger:      log,
	}
}

// NewSenderWithFunc hands composed messages to fn instead of an SMTP server.
func NewSenderWithFunc(cfg config.EmailConfig, fn gomail.SendFunc, log logger.Interface) *SMTPSender {
	return &SMTPSender{
		fromAddress: cfg.FromAddress,
		fromName:    cfg.FromName,
		sender:      fn,
		logger:      log,
	}
}

func (s *SMTPSender) Send(ctx context.Context, m Mail) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if m.To == "" {
		return fmt.Errorf("email recipient is required")
	}

	msg := gomail.NewMessage()
	msg.SetAddressHeader("From", s.fromAddress, s.fromName)
	msg.SetHeader("To", m.To)
	msg.SetHeader("Subject", m.Subject)
	msg.SetBody("text/plain", m.Text)
	if m.HTML != "" {
		msg.AddAlternative("text/html", m.HTML)
	}

	var err error
	if s.sender != nil {
		err = gomail.Send(s.sender, msg)
	} else {
		err = s.dialer.DialAndSend(msg)
	}
	if err != nil {
		s.logger.Errorw("failed to send email", "to", m.To, "subject", m.Subject, "error", err)
		return fmt.Errorf("failed to send email: %w", err)
	}

	s.logger.Debugw("email sent", "to", m.To, "subject", m.Subject)
	return nil
}

// NopSender drops every mail. It is used when no SMTP host is configured.
type NopSender struct {
	logger logger.Interface
}

func NewNopSender(log logger.Interface) *NopSender {
	return &NopSender{logger: log}
}

func (s *NopSender) Send(_ context.Context, m Mail) error {
	s.logger.Infow("smtp not configured, mail dropped", "to", m.To, "subject", m.Subject)
	return nil
}
