// Package mail sends plain transactional email over SMTP.
//
//	err := mail.To("buyer@example.com").
//	    Subject("Your order").
//	    Text("Thanks for shopping with us.").
//	    Send()
package mail

import (
	"crypto/tls"
	"errors"
	"fmt"
	"net/smtp"
	"strings"

	"github.com/shashiranjanraj/storefront/config"
)

// ErrNotConfigured is returned by Send when no SMTP host is set.
var ErrNotConfigured = errors.New("mail: MAIL_HOST not configured")

// SMTP holds connection credentials.
type SMTP struct {
	Host     string
	Port     string
	Username string
	Password string
	From     string
	FromName string
}

// FromConfig reads the MAIL_* settings.
func FromConfig() SMTP {
	return SMTP{
		Host:     config.MailHost(),
		Port:     config.MailPort(),
		Username: config.MailUsername(),
		Password: config.MailPassword(),
		From:     config.MailFrom(),
		FromName: config.MailFromName(),
	}
}

// Enabled reports whether the settings are enough to attempt delivery.
func (s SMTP) Enabled() bool { return s.Host != "" && s.From != "" }

// Sender delivers a rendered message. The default goes through net/smtp;
// tests swap it.
type Sender func(cfg SMTP, to []string, raw []byte) error

// Message is a fluent builder for one email.
type Message struct {
	to      []string
	subject string
	body    string
	isHTML  bool
	cfg     SMTP
	send    Sender
}

// To starts a message for the given recipients.
func To(addresses ...string) *Message {
	return &Message{to: addresses, cfg: FromConfig(), send: deliver}
}

func (m *Message) Subject(s string) *Message {
	m.subject = s
	return m
}

// Body sets an HTML body.
func (m *Message) Body(html string) *Message {
	m.body = html
	m.isHTML = true
	return m
}

// Text sets a plain-text body.
func (m *Message) Text(text string) *Message {
	m.body = text
	m.isHTML = false
	return m
}

// UseConfig overrides the SMTP settings for this message.
func (m *Message) UseConfig(cfg SMTP) *Message {
	m.cfg = cfg
	return m
}

// Via overrides the transport for this message.
func (m *Message) Via(send Sender) *Message {
	if send != nil {
		m.send = send
	}
	return m
}

// Send renders and delivers the message.
func (m *Message) Send() error {
	if !m.cfg.Enabled() {
		return ErrNotConfigured
	}
	if len(m.to) == 0 {
		return errors.New("mail: no recipients")
	}
	return m.send(m.cfg, m.to, m.Raw())
}

// Raw renders the RFC 5322 message.
func (m *Message) Raw() []byte {
	contentType := "text/plain"
	if m.isHTML {
		contentType = "text/html"
	}
	from := m.cfg.From
	if m.cfg.FromName != "" {
		from = fmt.Sprintf("%s <%s>", m.cfg.FromName, m.cfg.From)
	}

	var b strings.Builder
	b.WriteString("From: " + from + "\r\n")
	b.WriteString("To: " + strings.Join(m.to, ", ") + "\r\n")
	b.WriteString("Subject: " + m.subject + "\r\n")
	b.WriteString("MIME-Version: 1.0\r\n")
	fmt.Fprintf(&b, "Content-Type: %s; charset=\"UTF-8\"\r\n\r\n", contentType)
	b.WriteString(m.body)
	return []byte(b.String())
}

func deliver(cfg SMTP, to []string, raw []byte) error {
	addr := cfg.Host + ":" + cfg.Port
	var auth smtp.Auth
	if cfg.Username != "" {
		auth = smtp.PlainAuth("", cfg.Username, cfg.Password, cfg.Host)
	}
	// 465 is implicit TLS; everything else negotiates STARTTLS in SendMail.
	if cfg.Port != "465" {
		return smtp.SendMail(addr, auth, cfg.From, to, raw)
	}

	conn, err := tls.Dial("tcp", addr, &tls.Config{ServerName: cfg.Host})
	if err != nil {
		return fmt.Errorf("mail: tls dial: %w", err)
	}
	client, err := smtp.NewClient(conn, cfg.Host)
	if err != nil {
		return err
	}
	defer client.Quit()

	if auth != nil {
		if err := client.Auth(auth); err != nil {
			return err
		}
	}
	if err := client.Mail(cfg.From); err != nil {
		return err
	}
	for _, rcpt := range to {
		if err := client.Rcpt(rcpt); err != nil {
			return err
		}
	}
	w, err := client.Data()
	if err != nil {
		return err
	}
	if _, err := w.Write(raw); err != nil {
		w.Close()
		return err
	}
	return w.Close()
}
