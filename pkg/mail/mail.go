package mail

import (
	"bytes"
	"context"
	"fmt"
	"html/template"

	gomail "gopkg.in/gomail.v2"

	"rentcar/pkg/config"
)

// Sender delivers OTP emails. The test-mode implementation logs the code
// instead of dialing SMTP, which is what CI and local development use.
type Sender interface {
	SendRegistrationOTP(ctx context.Context, email, otp string) error
	SendPasswordResetOTP(ctx context.Context, email, otp string) error
}

const registrationSubject = "RentCar - Email Verification OTP"
const passwordResetSubject = "RentCar - Password Reset OTP"

var otpTemplate = template.Must(template.New("otp").Parse(`
<div style="font-family: Arial, sans-serif; max-width: 600px; margin: 0 auto;">
  <h2 style="color: #2563eb;">{{.Heading}}</h2>
  <p>{{.Intro}}</p>
  <div style="background-color: #f3f4f6; padding: 20px; text-align: center; margin: 20px 0;">
    <h1 style="color: #1f2937; font-size: 32px; margin: 0; letter-spacing: 5px;">{{.OTP}}</h1>
  </div>
  <p>This OTP will expire in {{.ExpiryMinutes}} minutes.</p>
  <p>If you didn't request this, please ignore this email.</p>
  <hr style="border: none; border-top: 1px solid #e5e7eb; margin: 20px 0;">
  <p style="color: #6b7280; font-size: 14px;">Best regards,<br>RentCar Team</p>
</div>
`))

type templateData struct {
	Heading       string
	Intro         string
	OTP           string
	ExpiryMinutes int
}

type smtpSender struct {
	cfg    *config.Config
	dialer *gomail.Dialer
}

// NewSender returns the SMTP sender, or the logging sender when the
// test-email flag is set.
func NewSender(cfg *config.Config) Sender {
	if cfg.UseTestEmail {
		return &logSender{cfg: cfg}
	}
	return &smtpSender{
		cfg:    cfg,
		dialer: gomail.NewDialer(cfg.SMTPHost, cfg.SMTPPort, cfg.SMTPUsername, cfg.SMTPPassword),
	}
}

func (s *smtpSender) SendRegistrationOTP(ctx context.Context, email, otp string) error {
	return s.send(ctx, email, registrationSubject, templateData{
		Heading:       "Welcome to RentCar!",
		Intro:         "Thank you for registering with RentCar. To complete your registration, please use the following OTP:",
		OTP:           otp,
		ExpiryMinutes: int(s.cfg.OTPTTL.Minutes()),
	})
}

func (s *smtpSender) SendPasswordResetOTP(ctx context.Context, email, otp string) error {
	return s.send(ctx, email, passwordResetSubject, templateData{
		Heading:       "Password Reset Request",
		Intro:         "You requested a password reset for your RentCar account. Use the following OTP to reset your password:",
		OTP:           otp,
		ExpiryMinutes: int(s.cfg.OTPTTL.Minutes()),
	})
}

func (s *smtpSender) send(ctx context.Context, email, subject string, data templateData) error {
	var body bytes.Buffer
	if err := otpTemplate.Execute(&body, data); err != nil {
		return fmt.Errorf("failed to render email template: %w", err)
	}

	msg := gomail.NewMessage()
	msg.SetHeader("From", s.cfg.SMTPUsername)
	msg.SetHeader("To", email)
	msg.SetHeader("Subject", subject)
	msg.SetBody("text/html", body.String())

	// gomail has no context support; run the dial in a goroutine so a stalled
	// SMTP server cannot hold the registration response past the request deadline.
	errCh := make(chan error, 1)
	go func() {
		errCh <- s.dialer.DialAndSend(msg)
	}()

	select {
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("failed to send email to %s: %w", email, err)
		}
		return nil
	case <-ctx.Done():
		return fmt.Errorf("email dispatch to %s aborted: %w", email, ctx.Err())
	}
}

type logSender struct {
	cfg *config.Config
}

func (s *logSender) SendRegistrationOTP(_ context.Context, email, otp string) error {
	s.cfg.Log.Info("TEST MODE: registration OTP generated", "email", email, "otp", otp)
	return nil
}

func (s *logSender) SendPasswordResetOTP(_ context.Context, email, otp string) error {
	s.cfg.Log.Info("TEST MODE: password reset OTP generated", "email", email, "otp", otp)
	return nil
}
