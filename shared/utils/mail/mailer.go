package mail

import (
	"bytes"
	"crypto/tls"
	"fmt"
	"html/template"
	"log"
	"net/smtp"
	"strings"
	"sync"

	"gaurosa-backend/shared/config"
)

// Mailer sends transactional emails over SMTP.
type Mailer struct {
	config        *config.Config
	templateCache map[string]*template.Template
	templateMutex sync.RWMutex
}

// NewMailer creates a mailer bound to the SMTP settings in config.
func NewMailer(cfg *config.Config) *Mailer {
	return &Mailer{
		config:        cfg,
		templateCache: make(map[string]*template.Template),
	}
}

// SendVerificationEmail sends the email verification link.
func (m *Mailer) SendVerificationEmail(to, name, token string) error {
	link := fmt.Sprintf("%s/verifica-email?token=%s", m.config.FrontendURL, token)
	return m.sendTemplate(to, "Conferma il tuo indirizzo email", "verification", map[string]interface{}{
		"Name": name,
		"Link": link,
	})
}

// SendPasswordResetEmail sends the password reset link.
func (m *Mailer) SendPasswordResetEmail(to, name, token string) error {
	link := fmt.Sprintf("%s/reimposta-password?token=%s", m.config.FrontendURL, token)
	return m.sendTemplate(to, "Reimposta la tua password", "password_reset", map[string]interface{}{
		"Name": name,
		"Link": link,
	})
}

// SendWelcomeEmail sends the post verification welcome message.
func (m *Mailer) SendWelcomeEmail(to, name string) error {
	return m.sendTemplate(to, "Benvenuto su Gaurosa Gioielli", "welcome", map[string]interface{}{
		"Name": name,
		"Link": m.config.FrontendURL,
	})
}

func (m *Mailer) sendTemplate(to, subject, templateID string, data map[string]interface{}) error {
	body, err := m.renderTemplate(templateID, data)
	if err != nil {
		return err
	}

	err = m.sendSMTP(to, subject, body)
	if err != nil {
		log.Printf("❌ Failed to send %s email to %s: %v", templateID, to, err)
		return err
	}

	log.Printf("✅ Email %s sent to %s", templateID, to)
	return nil
}

func (m *Mailer) renderTemplate(templateID string, data map[string]interface{}) (string, error) {
	m.templateMutex.RLock()
	tmpl, exists := m.templateCache[templateID]
	m.templateMutex.RUnlock()

	if !exists {
		source, ok := emailTemplates[templateID]
		if !ok {
			return "", fmt.Errorf("unknown email template: %s", templateID)
		}

		var err error
		tmpl, err = template.New(templateID).Parse(source)
		if err != nil {
			return "", fmt.Errorf("failed to parse template %s: %v", templateID, err)
		}

		m.templateMutex.Lock()
		m.templateCache[templateID] = tmpl
		m.templateMutex.Unlock()
	}

	var rendered bytes.Buffer
	if err := tmpl.Execute(&rendered, data); err != nil {
		return "", fmt.Errorf("failed to render template %s: %v", templateID, err)
	}
	return rendered.String(), nil
}

func (m *Mailer) sendSMTP(to, subject, body string) error {
	host := m.config.SMTPHost
	port := m.config.SMTPPort
	username := m.config.SMTPUsername
	password := m.config.SMTPPassword
	from := m.config.EmailFrom

	if host == "" || username == "" || password == "" {
		return fmt.Errorf("SMTP configuration is incomplete")
	}

	message := m.buildMessage(to, subject, body)
	auth := smtp.PlainAuth("", username, password, host)
	addr := fmt.Sprintf("%s:%s", host, port)

	// Port 465 uses implicit TLS, other ports may use STARTTLS
	if port == "465" || m.config.SMTPUseTLS {
		return m.sendWithTLS(addr, auth, from, to, []byte(message))
	}

	return smtp.SendMail(addr, auth, from, []string{to}, []byte(message))
}

func (m *Mailer) sendWithTLS(addr string, auth smtp.Auth, from, to string, msg []byte) error {
	host := strings.Split(addr, ":")[0]

	conn, err := tls.Dial("tcp", addr, &tls.Config{
		ServerName: host,
	})
	if err != nil {
		return err
	}
	defer conn.Close()

	client, err := smtp.NewClient(conn, host)
	if err != nil {
		return err
	}
	defer client.Quit()

	if err = client.Auth(auth); err != nil {
		return err
	}
	if err = client.Mail(from); err != nil {
		return err
	}
	if err = client.Rcpt(to); err != nil {
		return err
	}

	w, err := client.Data()
	if err != nil {
		return err
	}
	defer w.Close()

	_, err = w.Write(msg)
	return err
}

func (m *Mailer) buildMessage(to, subject, body string) string {
	var msg strings.Builder

	msg.WriteString(fmt.Sprintf("From: %s <%s>\r\n", m.config.EmailFromName, m.config.EmailFrom))
	msg.WriteString(fmt.Sprintf("To: %s\r\n", to))
	msg.WriteString(fmt.Sprintf("Subject: %s\r\n", subject))
	msg.WriteString("MIME-Version: 1.0\r\n")
	msg.WriteString("Content-Type: text/html; charset=UTF-8\r\n")
	msg.WriteString("\r\n")
	msg.WriteString(body)

	return msg.String()
}
