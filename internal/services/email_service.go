package services

import (
	"fmt"
	"html"

	"gopkg.in/gomail.v2"

	"elfportal/internal/models"
)

type EmailService interface {
	SendContactEnquiry(lead models.ContactLead) error
}

type emailService struct {
	dialer *gomail.Dialer
	from   string
	to     string
}

func NewEmailService(smtpHost string, smtpPort int, smtpUser, smtpPassword, fromEmail, leadsTo string) EmailService {
	dialer := gomail.NewDialer(smtpHost, smtpPort, smtpUser, smtpPassword)
	return &emailService{
		dialer: dialer,
		from:   fromEmail,
		to:     leadsTo,
	}
}

// SendContactEnquiry relays a public contact-form submission to the leads
// inbox. Callers treat a failure as a soft error: the visitor still gets a
// response, the team just has to chase the lead another way.
func (s *emailService) SendContactEnquiry(lead models.ContactLead) error {
	m := gomail.NewMessage()
	m.SetHeader("From", s.from)
	m.SetHeader("To", s.to)
	m.SetHeader("Reply-To", lead.Email)
	m.SetHeader("Subject", fmt.Sprintf("Website enquiry from %s", lead.Name))

	body := fmt.Sprintf(`
		<h3>New website enquiry</h3>
		<p><strong>Name:</strong> %s</p>
		<p><strong>Email:</strong> %s</p>
		<p><strong>Phone:</strong> %s</p>
		<p><strong>Message:</strong></p>
		<p>%s</p>
	`,
		html.EscapeString(lead.Name),
		html.EscapeString(lead.Email),
		html.EscapeString(lead.Phone),
		html.EscapeString(lead.Message),
	)

	m.SetBody("text/html", body)

	if err := s.dialer.DialAndSend(m); err != nil {
		return fmt.Errorf("failed to send enquiry email: %w", err)
	}

	return nil
}
