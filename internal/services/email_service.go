package services

import (
	"fmt"
	"html"

	"gopkg.in/gomail.v2"
)

type EmailService interface {
	SendWelcomeEmail(email, firstName, tenantName string) error
}

type emailService struct {
	dialer *gomail.Dialer
	from   string
}

func NewEmailService(smtpHost string, smtpPort int, smtpUser, smtpPassword, fromEmail string) EmailService {
	dialer := gomail.NewDialer(smtpHost, smtpPort, smtpUser, smtpPassword)
	return &emailService{
		dialer: dialer,
		from:   fromEmail,
	}
}

func (s *emailService) SendWelcomeEmail(email, firstName, tenantName string) error {
	if err := s.dialer.DialAndSend(s.welcomeMessage(email, firstName, tenantName)); err != nil {
		return fmt.Errorf("failed to send welcome email: %w", err)
	}
	return nil
}

func (s *emailService) welcomeMessage(email, firstName, tenantName string) *gomail.Message {
	m := gomail.NewMessage()
	m.SetHeader("From", s.from)
	m.SetHeader("To", email)
	m.SetHeader("Subject", "Your CRM workspace is ready")

	body := fmt.Sprintf(`
		<h2>Welcome, %s!</h2>
		<p>The workspace <strong>%s</strong> has been created and you are its administrator.</p>
		<p>Sign in with this email address to start adding companies, contacts and deals.</p>
	`, html.EscapeString(firstName), html.EscapeString(tenantName))

	m.SetBody("text/html", body)
	return m
}
