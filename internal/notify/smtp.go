package notify

import (
	"context"
	"fmt"

	gomail "gopkg.in/gomail.v2"
)

// SMTPConfig configures the mail sender.
type SMTPConfig struct {
	Host     string
	Port     int
	User     string
	Password string
	From     string
}

type smtpSender struct {
	dialer *gomail.Dialer
	from   string
}

// NewSMTPSender builds a Sender delivering over SMTP.
func NewSMTPSender(cfg SMTPConfig) Sender {
	return &smtpSender{
		dialer: gomail.NewDialer(cfg.Host, cfg.Port, cfg.User, cfg.Password),
		from:   cfg.From,
	}
}

func (s *smtpSender) Send(_ context.Context, template, recipient string, payload map[string]interface{}) error {
	subject, body := renderTemplate(template, payload)
	m := gomail.NewMessage()
	m.SetHeader("From", s.from)
	m.SetHeader("To", recipient)
	m.SetHeader("Subject", subject)
	m.SetBody("text/plain", body)
	if err := s.dialer.DialAndSend(m); err != nil {
		return fmt.Errorf("smtp send: %w", err)
	}
	return nil
}

func renderTemplate(template string, payload map[string]interface{}) (subject, body string) {
	code, _ := payload["orderCode"].(string)
	total, _ := payload["total"].(string)
	method, _ := payload["method"].(string)

	switch template {
	case TemplateOrderReceived:
		subject = fmt.Sprintf("Order %s received", code)
		body = fmt.Sprintf(
			"Thanks for your order!\n\nOrder code: %s\nTotal: %s\nPayment method: %s\n\nWe'll confirm once your payment arrives.\n",
			code, total, method)
	case TemplateOperatorAlert:
		subject = fmt.Sprintf("New %s order %s", method, code)
		body = fmt.Sprintf("Order %s for %s is awaiting payment via %s.\n", code, total, method)
	default:
		subject = fmt.Sprintf("Order update %s", code)
		body = fmt.Sprintf("Order %s status update.\n", code)
	}
	return subject, body
}
