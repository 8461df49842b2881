package services

import (
	"context"
	"fmt"
	"html"

	"github.com/wneessen/go-mail"
	"vadimgribanov.com/tg-reminder/internal/config"
)

const reminderSubject = "Hatırlatma"

const reminderHTML = `<div style="font-family: Arial, sans-serif; max-width: 600px; margin: 0 auto; padding: 20px; border: 1px solid #ddd; border-radius: 8px;">
  <h2 style="color: #333; text-align: center;">⏰ Hatırlatma</h2>
  <div style="background-color: #f9f9f9; padding: 15px; border-radius: 5px; margin: 20px 0;">
    <p style="font-size: 16px; color: #555; margin: 0;">%s</p>
  </div>
  <div style="text-align: center; color: #888; font-size: 12px;">
    <p>Bu email Telegram Hatırlatma Botu tarafından gönderilmiştir.</p>
  </div>
</div>`

type SMTPMailer struct {
	client *mail.Client
	from   string
}

func NewSMTPMailer(cfg config.EmailConfig) (*SMTPMailer, error) {
	client, err := mail.NewClient(cfg.Host,
		mail.WithPort(cfg.Port),
		mail.WithSMTPAuth(mail.SMTPAuthPlain),
		mail.WithUsername(cfg.Username),
		mail.WithPassword(cfg.Password),
		mail.WithTLSPortPolicy(mail.TLSMandatory),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create mail client: %w", err)
	}
	return &SMTPMailer{client: client, from: cfg.Sender()}, nil
}

func (m *SMTPMailer) SendReminder(ctx context.Context, to string, text string) error {
	msg, err := NewReminderMail(m.from, to, text)
	if err != nil {
		return err
	}
	if err := m.client.DialAndSendWithContext(ctx, msg); err != nil {
		return fmt.Errorf("failed to send email to %s: %w", to, err)
	}
	return nil
}

// NewReminderMail builds the plain text message with an HTML alternative.
func NewReminderMail(from string, to string, text string) (*mail.Msg, error) {
	msg := mail.NewMsg()
	if err := msg.From(from); err != nil {
		return nil, fmt.Errorf("invalid sender address: %w", err)
	}
	if err := msg.To(to); err != nil {
		return nil, fmt.Errorf("invalid recipient address: %w", err)
	}
	msg.Subject(reminderSubject)
	msg.SetBodyString(mail.TypeTextPlain, text)
	msg.AddAlternativeString(mail.TypeTextHTML, fmt.Sprintf(reminderHTML, html.EscapeString(text)))
	return msg, nil
}
