// Package notify delivers finished story pages by email.
package notify

import (
	"fmt"

	"gopkg.in/gomail.v2"

	"conversationalist/pkg/log"
)

// EmailConfig carries the SMTP settings and message template for story
// delivery.
type EmailConfig struct {
	Host     string
	Port     int
	Username string
	Password string
	From     string
	To       string
	Subject  string
	Body     string
}

// Email notifies by sending the story page as an attachment.
type Email struct {
	cfg EmailConfig
}

// NewEmail creates an email notifier.
func NewEmail(cfg EmailConfig) *Email {
	return &Email{cfg: cfg}
}

// Notify emails the story page at storyPath to the configured recipient.
func (e *Email) Notify(storyPath string) error {
	m := gomail.NewMessage()
	m.SetHeader("From", e.cfg.From)
	m.SetHeader("To", e.cfg.To)
	m.SetHeader("Subject", e.cfg.Subject)
	m.SetBody("text/plain", e.cfg.Body)
	m.Attach(storyPath)

	d := gomail.NewDialer(e.cfg.Host, e.cfg.Port, e.cfg.Username, e.cfg.Password)
	if err := d.DialAndSend(m); err != nil {
		return fmt.Errorf("sending story email: %w", err)
	}
	log.GlobalInfo("story emailed", "to", e.cfg.To, "attachment", storyPath)
	return nil
}
