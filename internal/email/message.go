package email

import (
	"github.com/serviceegy/contact-api/internal/config"
	"github.com/serviceegy/contact-api/internal/mailer"
)

const (
	HeaderMailer = "X-Mailer"
	XMailer      = "Service Egy Contact Form"
)

// Envelope for the rendered content. Relays reject mail whose sender differs from the
// authenticated account, so it is sent from and replies to smtp.User.
func (c *Content) Message(smtp *config.SMTPConfig) mailer.Message {
	return mailer.Message{
		From:     smtp.User,
		FromName: smtp.SenderName,
		To:       smtp.To,
		ReplyTo:  smtp.User,
		Subject:  c.Subject,
		Text:     c.Text,
		HTML:     c.HTML,
		Headers:  map[string]string{HeaderMailer: XMailer},
	}
}
