package delivery

import (
	"context"
	"fmt"
	"net/smtp"
)

// EmailSender delivers messages through an SMTP relay.
type EmailSender struct {
	host string
	port string
	user string
	pass string
	from string
}

// NewEmailSender creates an email sender for the given SMTP relay.
func NewEmailSender(host, port, user, pass, from string) *EmailSender {
	return &EmailSender{host: host, port: port, user: user, pass: pass, from: from}
}

// Send mails the message to the destination address.
func (s *EmailSender) Send(ctx context.Context, destination, message string) error {
	msg := []byte("From: " + s.from + "\r\n" +
		"To: " + destination + "\r\n" +
		"Subject: Your password reset code\r\n" +
		"\r\n" +
		message + "\r\n")

	addr := s.host + ":" + s.port
	auth := smtp.PlainAuth("", s.user, s.pass, s.host)
	if err := smtp.SendMail(addr, auth, s.from, []string{destination}, msg); err != nil {
		return fmt.Errorf("send mail: %w", err)
	}
	return nil
}
