package notify

import (
	"context"
	"fmt"
	"net/smtp"
	"strings"

	"github.com/Abraxas-365/careerpath/pkg/config"
	"github.com/Abraxas-365/careerpath/pkg/logx"
)

// Mailer define el contrato para enviar correos
type Mailer interface {
	Send(ctx context.Context, to []string, subject, body string) error
}

// ============================================================================
// SMTP Mailer
// ============================================================================

// SMTPMailer envía correos por SMTP plano con AUTH opcional
type SMTPMailer struct {
	host        string
	port        int
	username    string
	password    string
	fromAddress string
	fromName    string
}

// NewSMTPMailer crea un mailer SMTP desde la configuración de email
func NewSMTPMailer(cfg *config.EmailConfig) *SMTPMailer {
	return &SMTPMailer{
		host:        cfg.SMTPHost,
		port:        cfg.SMTPPort,
		username:    cfg.SMTPUsername,
		password:    cfg.SMTPPassword,
		fromAddress: cfg.FromAddress,
		fromName:    cfg.FromName,
	}
}

// Send envía el correo a todos los destinatarios en un solo mensaje
func (m *SMTPMailer) Send(ctx context.Context, to []string, subject, body string) error {
	if len(to) == 0 {
		return nil
	}

	var msg strings.Builder
	fmt.Fprintf(&msg, "From: %s <%s>\r\n", m.fromName, m.fromAddress)
	fmt.Fprintf(&msg, "To: %s\r\n", strings.Join(to, ", "))
	fmt.Fprintf(&msg, "Subject: %s\r\n", subject)
	msg.WriteString("MIME-Version: 1.0\r\n")
	msg.WriteString("Content-Type: text/plain; charset=utf-8\r\n")
	msg.WriteString("\r\n")
	msg.WriteString(body)

	addr := fmt.Sprintf("%s:%d", m.host, m.port)

	var auth smtp.Auth
	if m.username != "" {
		auth = smtp.PlainAuth("", m.username, m.password, m.host)
	}

	if err := smtp.SendMail(addr, auth, m.fromAddress, to, []byte(msg.String())); err != nil {
		return ErrDeliveryFailed().WithError(err)
	}

	return nil
}

// ============================================================================
// Console Mailer - para desarrollo, solo loguea
// ============================================================================

// ConsoleMailer escribe el correo al log en lugar de enviarlo
type ConsoleMailer struct{}

// NewConsoleMailer crea un mailer de consola
func NewConsoleMailer() *ConsoleMailer {
	return &ConsoleMailer{}
}

// Send loguea el correo sin enviarlo
func (m *ConsoleMailer) Send(ctx context.Context, to []string, subject, body string) error {
	logx.WithFields(logx.Fields{
		"to":      strings.Join(to, ", "),
		"subject": subject,
	}).Info("📧 Console mailer")
	logx.Info(body)
	return nil
}
