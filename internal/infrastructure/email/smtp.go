package email

import (
	"fmt"

	"gopkg.in/gomail.v2"
)

// Service delivers account-facing notifications. Implementations must be
// safe to call from request handlers.
type Service interface {
	SendRoleAssignedEmail(to, roleName, tenantName string) error
	SendRoleRemovedEmail(to, roleName, tenantName string) error
}

type SMTPConfig struct {
	Host        string
	Port        int
	Username    string
	Password    string
	FromAddress string
	FromName    string
}

type SMTPEmailService struct {
	config SMTPConfig
	dialer *gomail.Dialer
}

func NewSMTPEmailService(config SMTPConfig) *SMTPEmailService {
	dialer := gomail.NewDialer(config.Host, config.Port, config.Username, config.Password)

	return &SMTPEmailService{
		config: config,
		dialer: dialer,
	}
}

func (s *SMTPEmailService) SendRoleAssignedEmail(to, roleName, tenantName string) error {
	subject := fmt.Sprintf("You have been given the %s role", roleName)
	htmlBody := fmt.Sprintf(`
		<html>
		<body>
			<h2>Role Assigned</h2>
			<p>You have been given the <strong>%s</strong> role in %s.</p>
			<p>Your new permissions take effect the next time you load the site.</p>
		</body>
		</html>
	`, roleName, tenantName)

	plainBody := fmt.Sprintf(`
Role Assigned

You have been given the %s role in %s.

Your new permissions take effect the next time you load the site.
	`, roleName, tenantName)

	return s.sendEmail(to, subject, htmlBody, plainBody)
}

func (s *SMTPEmailService) SendRoleRemovedEmail(to, roleName, tenantName string) error {
	subject := fmt.Sprintf("Your %s role has been removed", roleName)
	htmlBody := fmt.Sprintf(`
		<html>
		<body>
			<h2>Role Removed</h2>
			<p>Your <strong>%s</strong> role in %s has been removed.</p>
			<p>If you believe this is a mistake, contact your organization administrator.</p>
		</body>
		</html>
	`, roleName, tenantName)

	plainBody := fmt.Sprintf(`
Role Removed

Your %s role in %s has been removed.

If you believe this is a mistake, contact your organization administrator.
	`, roleName, tenantName)

	return s.sendEmail(to, subject, htmlBody, plainBody)
}

func (s *SMTPEmailService) sendEmail(to, subject, htmlBody, plainBody string) error {
	m := gomail.NewMessage()
	m.SetHeader("From", s.config.FromAddress)
	m.SetHeader("To", to)
	m.SetHeader("Subject", subject)
	m.SetBody("text/plain", plainBody)
	m.AddAlternative("text/html", htmlBody)

	if err := s.dialer.DialAndSend(m); err != nil {
		return fmt.Errorf("failed to send email: %w", err)
	}

	return nil
}

// NoopEmailService is used when SMTP is not configured; notifications are
// silently skipped.
type NoopEmailService struct{}

func NewNoopEmailService() *NoopEmailService {
	return &NoopEmailService{}
}

func (n *NoopEmailService) SendRoleAssignedEmail(to, roleName, tenantName string) error {
	return nil
}

func (n *NoopEmailService) SendRoleRemovedEmail(to, roleName, tenantName string) error {
	return nil
}
