package services

import (
	"fmt"
	"net/smtp"
	"strings"

	"go.uber.org/zap"
)

// EmailConfig holds SMTP configuration.
type EmailConfig struct {
	Host       string
	Port       string
	User       string
	Pass       string
	SenderName string
}

// Mailer sends verification and welcome mail over SMTP. A nil Mailer is
// usable and drops messages, which keeps local development working without
// an SMTP account.
type Mailer struct {
	cfg EmailConfig
}

func NewMailer(cfg EmailConfig) *Mailer {
	if cfg.Host == "" || cfg.User == "" {
		return nil
	}
	return &Mailer{cfg: cfg}
}

func (m *Mailer) send(to, subject, body string) error {
	if m == nil {
		zap.L().Debug("SMTP not configured, dropping email", zap.String("to", to))
		return nil
	}

	headers := []string{
		fmt.Sprintf("From: %s <%s>", m.cfg.SenderName, m.cfg.User),
		"To: " + to,
		"Subject: " + subject,
		"MIME-Version: 1.0",
		`Content-Type: text/plain; charset="UTF-8"`,
	}
	msg := strings.Join(headers, "\r\n") + "\r\n\r\n" + body

	auth := smtp.PlainAuth("", m.cfg.User, m.cfg.Pass, m.cfg.Host)
	addr := m.cfg.Host + ":" + m.cfg.Port
	return smtp.SendMail(addr, auth, m.cfg.User, []string{to}, []byte(msg))
}

// SendOTP mails a verification code. Callers fire this from a goroutine;
// delivery failures are logged, never surfaced to the registering user.
func (m *Mailer) SendOTP(to, username, otp string) {
	body := fmt.Sprintf(
		"Hi %s,\n\nYour verification code is: %s\n\nIt expires in 10 minutes. If you did not request this, ignore this email.\n",
		username, otp,
	)
	if err := m.send(to, "Verify your email address", body); err != nil {
		zap.L().Warn("Failed to send OTP email", zap.String("to", to), zap.Error(err))
	}
}

// SendWelcome mails the post-verification greeting.
func (m *Mailer) SendWelcome(to, username string) {
	body := fmt.Sprintf("Hi %s,\n\nYour email is verified and your account is ready. Happy shopping!\n", username)
	if err := m.send(to, "Welcome aboard", body); err != nil {
		zap.L().Warn("Failed to send welcome email", zap.String("to", to), zap.Error(err))
	}
}
