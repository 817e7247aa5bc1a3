package service

import (
	"context"
	"fmt"

	"github.com/sendgrid/sendgrid-go"
	"github.com/sendgrid/sendgrid-go/helpers/mail"
)

type emailService struct {
	apiKey     string
	fromEmail  string
	fromName   string
	staffEmail string
}

func NewEmailService(apiKey, fromEmail, fromName, staffEmail string) EmailService {
	return &emailService{
		apiKey:     apiKey,
		fromEmail:  fromEmail,
		fromName:   fromName,
		staffEmail: staffEmail,
	}
}

func (s *emailService) SendOverdueVersionNotice(ctx context.Context, displayNumber string, daysOverdue int32, itemCount int) error {
	from := mail.NewEmail(s.fromName, s.fromEmail)
	recipient := mail.NewEmail("Rental Desk", s.staffEmail)

	subject := fmt.Sprintf("Overdue partial return: %s", displayNumber)
	plainText := fmt.Sprintf(
		"Order version %s still has %d outstanding item line(s), %d day(s) past its rental end date.\n\nPlease follow up with the customer.",
		displayNumber, itemCount, daysOverdue)
	message := mail.NewSingleEmail(from, subject, recipient, plainText, "")

	client := sendgrid.NewSendClient(s.apiKey)
	response, err := client.SendWithContext(ctx, message)
	if err != nil {
		return fmt.Errorf("failed to send overdue version notice: %w", err)
	}
	if response.StatusCode >= 400 {
		return fmt.Errorf("sendgrid error: status %d, body: %s", response.StatusCode, response.Body)
	}
	return nil
}
