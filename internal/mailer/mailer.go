package mailer

import (
	"bytes"
	"context"
	"fmt"
	"html/template"
	"net/smtp"
	"strings"

	"github.com/sbilibin2017/otp-auth/internal/logger"
)

// Mailer dispatches a verification code to a recipient. A failed dispatch
// is returned immediately to the caller; no retries are performed here.
type Mailer interface {
	SendOTP(ctx context.Context, email, otp, firstName string) error
}

const otpSubject = "Your OTP Code for Email Verification"

const otpTemplate = `
<div style="font-family: Arial, sans-serif; max-width: 600px; margin: 0 auto;">
  <div style="background-color: #f5f5f5; padding: 20px; border-radius: 8px;">
    <h2 style="color: #333;">Email Verification</h2>
    <p style="color: #666; font-size: 16px;">Hi {{.FirstName}},</p>
    <p style="color: #666; font-size: 16px;">Your one-time password (OTP) for email verification is:</p>
    <div style="background-color: #007bff; color: white; padding: 20px; border-radius: 8px; text-align: center;">
      <span style="font-size: 32px; font-weight: bold; letter-spacing: 5px;">{{.OTP}}</span>
    </div>
    <p style="color: #666; font-size: 14px;">Do not share this code with anyone.</p>
    <p style="color: #666; font-size: 14px;">If you did not request this verification code, please ignore this email or contact support.</p>
  </div>
</div>
`

type templateData struct {
	FirstName string
	OTP       string
}

// SMTPMailer sends verification mail over SMTP with PLAIN auth.
type SMTPMailer struct {
	addr     string
	host     string
	username string
	password string
	from     string
	fromName string
	tmpl     *template.Template
}

// NewSMTPMailer creates a mailer for the given SMTP endpoint and sender.
func NewSMTPMailer(host string, port int, username, password, from, fromName string) (*SMTPMailer, error) {
	tmpl, err := template.New("otp").Parse(otpTemplate)
	if err != nil {
		return nil, fmt.Errorf("failed to parse OTP mail template: %w", err)
	}

	return &SMTPMailer{
		addr:     fmt.Sprintf("%s:%d", host, port),
		host:     host,
		username: username,
		password: password,
		from:     from,
		fromName: fromName,
		tmpl:     tmpl,
	}, nil
}

// SendOTP renders the verification mail and sends it to email.
func (m *SMTPMailer) SendOTP(ctx context.Context, email, otp, firstName string) error {
	var body bytes.Buffer
	if err := m.tmpl.Execute(&body, templateData{FirstName: firstName, OTP: otp}); err != nil {
		return fmt.Errorf("failed to render OTP mail: %w", err)
	}

	from := m.from
	if m.fromName != "" {
		from = fmt.Sprintf("%s <%s>", m.fromName, m.from)
	}

	var msg strings.Builder
	msg.WriteString("From: " + from + "\r\n")
	msg.WriteString("To: " + email + "\r\n")
	msg.WriteString("Subject: " + otpSubject + "\r\n")
	msg.WriteString("MIME-Version: 1.0\r\n")
	msg.WriteString("Content-Type: text/html; charset=UTF-8\r\n")
	msg.WriteString("\r\n")
	msg.Write(body.Bytes())

	auth := smtp.PlainAuth("", m.username, m.password, m.host)
	if err := smtp.SendMail(m.addr, auth, m.from, []string{email}, []byte(msg.String())); err != nil {
		logger.Log.Errorw("failed to send OTP mail", "to", email, "error", err)
		return err
	}

	logger.Log.Infow("OTP mail sent", "to", email)
	return nil
}

// SuppressedMailer never sends mail and always succeeds. It logs the code,
// which is why it must only ever be enabled by the test-only suppression flag.
type SuppressedMailer struct{}

// NewSuppressedMailer creates a mailer that skips delivery.
func NewSuppressedMailer() *SuppressedMailer {
	return &SuppressedMailer{}
}

// SendOTP logs the recipient and code instead of dispatching.
func (m *SuppressedMailer) SendOTP(ctx context.Context, email, otp, firstName string) error {
	logger.Log.Warnw("mail suppression enabled (TEST ONLY), skipping OTP delivery",
		"to", email,
		"otp", otp,
	)
	return nil
}
