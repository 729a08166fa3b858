package mail

import (
	"fmt"
	"log"
	"net/smtp"

	"github.com/TobiasFuchs/AdBoard/internal/pkg/env"
)

// SendMail sends an HTML email via SMTP
func SendMail(to string, subject string, body string) error {
	host := env.GetEnv("SMTP_HOST", "")
	port := env.GetEnv("SMTP_PORT", "")
	username := env.GetEnv("SMTP_USERNAME", "")
	password := env.GetEnv("SMTP_PASSWORD", "")
	sender := env.GetEnv("SMTP_SENDER", "")

	if sender == "" {
		sender = fmt.Sprintf("no-reply@%s", "localhost")
		log.Printf("SMTP_SENDER not set, using default sender: %s", sender)
	}

	var auth smtp.Auth
	if username != "" && password != "" {
		auth = smtp.PlainAuth("", username, password, host)
	}

	addr := fmt.Sprintf("%s:%s", host, port)

	msg := []byte(
		fmt.Sprintf("From: %s\r\nTo: %s\r\nSubject: %s\r\n", sender, to, subject) +
			"MIME-Version: 1.0\r\n" +
			"Content-Type: text/html; charset=UTF-8\r\n\r\n" +
			body,
	)

	err := smtp.SendMail(addr, auth, sender, []string{to}, msg)
	if err != nil {
		log.Printf("SMTP send error: %v", err)
	} else {
		log.Printf("Email sent to %s via %s", to, addr)
	}
	return err
}

// SendInvitationMail sends a team invitation with the accept link
func SendInvitationMail(to, companyName, inviterName, acceptURL string) error {
	subject := fmt.Sprintf("You have been invited to %s", companyName)
	body := fmt.Sprintf(
		"<p>%s invited you to join the team of <strong>%s</strong>.</p>"+
			"<p><a href=\"%s\">Accept the invitation</a></p>"+
			"<p>The link expires in 7 days.</p>",
		inviterName, companyName, acceptURL,
	)
	return SendMail(to, subject, body)
}

// SendActivationMail sends the account activation link after registration
func SendActivationMail(to, name, activationURL string) error {
	subject := "Activate your account"
	body := fmt.Sprintf(
		"<p>Hi %s,</p>"+
			"<p>please confirm your email address to activate your account:</p>"+
			"<p><a href=\"%s\">Activate account</a></p>",
		name, activationURL,
	)
	return SendMail(to, subject, body)
}
