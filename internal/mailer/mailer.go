// Package mailer sends transactional mail over SMTP.
package mailer

import (
	"fmt"

	"github.com/rs/zerolog/log"
	gomail "gopkg.in/gomail.v2"

	"github.com/GoRealm-Admin/GoRealm-Admin/internal/config"
)

// Mailer sends mail through the configured SMTP relay. A Mailer built from an
// empty SMTP configuration is disabled and drops every message silently.
type Mailer struct {
	dialer   *gomail.Dialer
	from     string
	cc       string
	loginURL string
}

// New creates a mailer from the configuration. When no SMTP host is
// configured the returned mailer is a no-op.
func New(smtp *config.SMTP, loginURL string) *Mailer {
	m := &Mailer{
		from:     smtp.From,
		cc:       smtp.CC,
		loginURL: loginURL,
	}

	if smtp.Host != "" {
		m.dialer = gomail.NewDialer(smtp.Host, smtp.Port, smtp.User, smtp.Password)
	}

	return m
}

// Enabled reports whether the mailer has an SMTP relay configured.
func (m *Mailer) Enabled() bool {
	return m.dialer != nil
}

// SendWelcome mails the initial credentials to a freshly created user.
// Delivery failures are logged, never surfaced to the caller; account
// creation must not fail because the relay is down.
func (m *Mailer) SendWelcome(email, username, password string) {
	if !m.Enabled() || email == "" {
		return
	}

	msg := gomail.NewMessage()
	msg.SetHeader("From", m.from)
	msg.SetHeader("To", email)

	if m.cc != "" {
		msg.SetHeader("Cc", m.cc)
	}

	msg.SetHeader("Subject", "Your account has been created")
	msg.SetBody("text/html", welcomeBody(username, password, m.loginURL))

	if err := m.dialer.DialAndSend(msg); err != nil {
		log.Error().Err(err).Str("to", email).Msg("failed to send welcome mail")

		return
	}

	log.Debug().Str("to", email).Msg("welcome mail sent")
}

func welcomeBody(username, password, loginURL string) string {
	return fmt.Sprintf(`<html><body>
<p>Hello %s,</p>
<p>an account has been created for you. Sign in with the credentials below and change your password afterwards.</p>
<p>Username: <b>%s</b><br>Password: <b>%s</b></p>
<p><a href="%s">Sign in</a></p>
</body></html>`, username, username, password, loginURL)
}
