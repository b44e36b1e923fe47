package notify

import (
	"fmt"
	"net/smtp"
	"strings"
)

// EmailSender delivers HTML mail over plain SMTP.
type EmailSender struct {
	Host     string
	Port     int
	Username string
	Password string
	From     string
}

// Send delivers one HTML email.
func (e *EmailSender) Send(to, subject, html string) error {
	if e.Host == "" {
		return fmt.Errorf("smtp: not configured")
	}
	addr := fmt.Sprintf("%s:%d", e.Host, e.Port)

	var msg strings.Builder
	msg.WriteString("From: " + e.From + "\r\n")
	msg.WriteString("To: " + to + "\r\n")
	msg.WriteString("Subject: " + subject + "\r\n")
	msg.WriteString("MIME-Version: 1.0\r\n")
	msg.WriteString("Content-Type: text/html; charset=\"UTF-8\"\r\n")
	msg.WriteString("\r\n")
	msg.WriteString(html)

	auth := smtp.PlainAuth("", e.Username, e.Password, e.Host)
	return smtp.SendMail(addr, auth, e.From, []string{to}, []byte(msg.String()))
}
