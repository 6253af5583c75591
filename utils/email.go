package utils

import (
	"fmt"

	"gopkg.in/gomail.v2"
)

// Mailer sends HTML email.
type Mailer interface {
	Send(to, subject, body string) error
}

// Mail is nil when SMTP is not configured.
var Mail Mailer

type SMTPMailer struct {
	From   string
	Dialer *gomail.Dialer
}

func NewSMTPMailer(host string, port int, user, pass string) *SMTPMailer {
	return &SMTPMailer{
		From:   user,
		Dialer: gomail.NewDialer(host, port, user, pass),
	}
}

func (m *SMTPMailer) Send(to, subject, body string) error {
	msg := gomail.NewMessage()
	msg.SetHeader("From", m.From)
	msg.SetHeader("To", to)
	msg.SetHeader("Subject", subject)
	msg.SetBody("text/html", body)

	if err := m.Dialer.DialAndSend(msg); err != nil {
		return fmt.Errorf("smtp: send to %s: %w", to, err)
	}
	return nil
}

// SendEmail uses Mail and does nothing when mail is disabled.
func SendEmail(to, subject, body string) error {
	if Mail == nil {
		return nil
	}
	return Mail.Send(to, subject, body)
}
