package mail

import (
	"fmt"
	"net/smtp"
	"strings"

	"pawshome/internal/config"
	"pawshome/internal/models"
)

type Mailer struct {
	cfg config.ContactConfig
}

func NewMailer(cfg config.ContactConfig) *Mailer {
	return &Mailer{cfg: cfg}
}

func (m *Mailer) SendContactMessage(msg models.ContactMessage) error {
	if m.cfg.SMTPAddr == "" || m.cfg.ToAddress == "" {
		return fmt.Errorf("smtp not configured")
	}

	var body strings.Builder
	fmt.Fprintf(&body, "From: %s\r\n", m.cfg.FromAddress)
	fmt.Fprintf(&body, "To: %s\r\n", m.cfg.ToAddress)
	fmt.Fprintf(&body, "Reply-To: %s\r\n", msg.Email)
	fmt.Fprintf(&body, "Subject: Contact form: %s\r\n", msg.Name)
	body.WriteString("\r\n")
	body.WriteString(msg.Message)
	body.WriteString("\r\n")

	host := m.cfg.SMTPAddr
	if idx := strings.Index(host, ":"); idx >= 0 {
		host = host[:idx]
	}

	var auth smtp.Auth
	if m.cfg.SMTPUser != "" {
		auth = smtp.PlainAuth("", m.cfg.SMTPUser, m.cfg.SMTPPass, host)
	}

	if err := smtp.SendMail(m.cfg.SMTPAddr, auth, m.cfg.FromAddress, []string{m.cfg.ToAddress}, []byte(body.String())); err != nil {
		return fmt.Errorf("send mail: %w", err)
	}
	return nil
}
