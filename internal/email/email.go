// Package email provides email sending functionality
package email

import (
	"bytes"
	"crypto/tls"
	"fmt"
	"html/template"
	"log"
	"net/smtp"
	"strings"
)

// Config holds email configuration
type Config struct {
	Host     string
	Port     int
	User     string
	Password string
	From     string
	FromName string
	UseTLS   bool
}

// Service handles email sending
type Service struct {
	config    *Config
	templates map[string]*template.Template
}

// NewService creates a new email service
func NewService(config *Config) *Service {
	s := &Service{
		config:    config,
		templates: make(map[string]*template.Template),
	}
	s.loadTemplates()
	return s
}

// Email represents an email message
type Email struct {
	To       []string
	Subject  string
	Body     string
	HTMLBody string
}

// GroupInvitationData holds data for group invitation emails
type GroupInvitationData struct {
	GroupName string
	InvitedBy string
	InviteURL string
}

func (s *Service) loadTemplates() {
	invitationTmpl := `
<!DOCTYPE html>
<html>
<body style="font-family: sans-serif; color: #333;">
  <h2>You've been invited to {{.GroupName}}</h2>
  <p>{{.InvitedBy}} invited you to join the group <strong>{{.GroupName}}</strong> on Joseph's List,
  a place where neighbors share tools with each other.</p>
  <p><a href="{{.InviteURL}}" style="display:inline-block;padding:10px 20px;background:#2563eb;color:#fff;text-decoration:none;border-radius:6px;">Sign up to join</a></p>
  <p style="color:#888;font-size:12px;">If you weren't expecting this invitation you can ignore this email.</p>
</body>
</html>`
	s.templates["group_invitation"] = template.Must(
		template.New("group_invitation").Parse(invitationTmpl))
}

// SendGroupInvitation sends an invite to an email address that has no
// account yet.
func (s *Service) SendGroupInvitation(to string, data GroupInvitationData) error {
	if data.InvitedBy == "" {
		data.InvitedBy = "Someone"
	}

	return s.SendWithTemplate(
		[]string{to},
		fmt.Sprintf("[Joseph's List] Invitation to join %s", data.GroupName),
		"group_invitation",
		data,
	)
}

// SendWithTemplate sends an email using a named template
func (s *Service) SendWithTemplate(to []string, subject, templateName string, data interface{}) error {
	tmpl, ok := s.templates[templateName]
	if !ok {
		return fmt.Errorf("template not found: %s", templateName)
	}

	var body bytes.Buffer
	if err := tmpl.Execute(&body, data); err != nil {
		return fmt.Errorf("failed to render template: %w", err)
	}

	return s.Send(&Email{
		To:       to,
		Subject:  subject,
		HTMLBody: body.String(),
	})
}

// Send sends an email
func (s *Service) Send(email *Email) error {
	if s.config.Host == "" {
		log.Println("Email not configured, skipping send")
		return nil
	}

	// Build message
	var msg bytes.Buffer
	msg.WriteString(fmt.Sprintf("From: %s <%s>\r\n", s.config.FromName, s.config.From))
	msg.WriteString(fmt.Sprintf("To: %s\r\n", strings.Join(email.To, ", ")))
	msg.WriteString(fmt.Sprintf("Subject: %s\r\n", email.Subject))
	msg.WriteString("MIME-Version: 1.0\r\n")

	if email.HTMLBody != "" {
		msg.WriteString("Content-Type: text/html; charset=UTF-8\r\n")
		msg.WriteString("\r\n")
		msg.WriteString(email.HTMLBody)
	} else {
		msg.WriteString("Content-Type: text/plain; charset=UTF-8\r\n")
		msg.WriteString("\r\n")
		msg.WriteString(email.Body)
	}

	auth := smtp.PlainAuth("", s.config.User, s.config.Password, s.config.Host)
	addr := fmt.Sprintf("%s:%d", s.config.Host, s.config.Port)

	if s.config.UseTLS {
		tlsConfig := &tls.Config{
			ServerName: s.config.Host,
		}

		conn, err := tls.Dial("tcp", addr, tlsConfig)
		if err != nil {
			return fmt.Errorf("TLS dial error: %w", err)
		}
		defer conn.Close()

		client, err := smtp.NewClient(conn, s.config.Host)
		if err != nil {
			return fmt.Errorf("SMTP client error: %w", err)
		}
		defer client.Close()

		if err = client.Auth(auth); err != nil {
			return fmt.Errorf("auth error: %w", err)
		}

		if err = client.Mail(s.config.From); err != nil {
			return fmt.Errorf("mail error: %w", err)
		}

		for _, rcpt := range email.To {
			if err = client.Rcpt(rcpt); err != nil {
				return fmt.Errorf("rcpt error: %w", err)
			}
		}

		w, err := client.Data()
		if err != nil {
			return fmt.Errorf("data error: %w", err)
		}

		if _, err = w.Write(msg.Bytes()); err != nil {
			return fmt.Errorf("write error: %w", err)
		}

		if err = w.Close(); err != nil {
			return fmt.Errorf("close error: %w", err)
		}

		return client.Quit()
	}

	return smtp.SendMail(addr, auth, s.config.From, email.To, msg.Bytes())
}
