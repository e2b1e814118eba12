package services

import (
	"context"
	"fmt"
	"html"

	"finance-server/confs"

	"gopkg.in/gomail.v2"
)

// SMTPMailer sends account emails through the configured SMTP relay.
type SMTPMailer struct {
	cfg confs.MailConfig
}

func NewSMTPMailer(cfg confs.MailConfig) *SMTPMailer {
	return &SMTPMailer{cfg: cfg}
}

func (s *SMTPMailer) Configured() bool {
	return s.cfg.Configured()
}

// SendPasswordReset mails the reset link to the account owner.
func (s *SMTPMailer) SendPasswordReset(ctx context.Context, to, username, resetLink string) error {
	if !s.Configured() {
		return fmt.Errorf("smtp relay is not configured")
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	d := gomail.NewDialer(s.cfg.Server, s.cfg.Port, s.cfg.Username, s.cfg.Password)
	if s.cfg.UseSSL {
		d.SSL = true
	}
	return d.DialAndSend(s.resetMessage(to, username, resetLink))
}

func (s *SMTPMailer) resetMessage(to, username, resetLink string) *gomail.Message {
	from := s.cfg.DefaultSender
	if from == "" {
		from = s.cfg.Username
	}

	text := fmt.Sprintf(`Hello %s,

We received a request to reset the password for your Personal Finance account.
Open the link below to choose a new password:

%s

This link is valid for 1 hour and can be used once.
If you did not request a reset, you can ignore this email.
`, username, resetLink)

	body := fmt.Sprintf(`<html>
<body>
	<h2>Password reset</h2>
	<p>Hello %s,</p>
	<p>We received a request to reset the password for your Personal Finance account.</p>
	<p><a href="%s">Reset my password</a></p>
	<p>This link is valid for 1 hour and can be used once.</p>
	<p>If you did not request a reset, you can ignore this email.</p>
</body>
</html>`, html.EscapeString(username), html.EscapeString(resetLink))

	m := gomail.NewMessage()
	m.SetHeader("From", from)
	m.SetHeader("To", to)
	m.SetHeader("Subject", "Reset your Personal Finance password")
	m.SetBody("text/plain", text)
	m.AddAlternative("text/html", body)
	return m
}
