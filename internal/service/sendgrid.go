package service

import (
	"context"
	"fmt"
	"time"

	"github.com/sendgrid/sendgrid-go"
	"github.com/sendgrid/sendgrid-go/helpers/mail"

	"rentloop-backend/internal/config"
)

type sendgridEmailService struct {
	apiKey   string
	from     string
	fromName string
}

// NewSendGridEmailService sends mail through the SendGrid API. Selected by
// config when no SMTP relay is available.
func NewSendGridEmailService(cfg config.EmailConfig) EmailService {
	return &sendgridEmailService{
		apiKey:   cfg.SendGridAPIKey,
		from:     cfg.From,
		fromName: cfg.FromName,
	}
}

func (s *sendgridEmailService) send(to, subject, body string) error {
	from := mail.NewEmail(s.fromName, s.from)
	recipient := mail.NewEmail("", to)
	message := mail.NewSingleEmail(from, subject, recipient, body, "")

	client := sendgrid.NewSendClient(s.apiKey)
	response, err := client.Send(message)
	if err != nil {
		return fmt.Errorf("failed to send email: %w", err)
	}
	if response.StatusCode >= 400 {
		return fmt.Errorf("sendgrid error: status %d, body: %s", response.StatusCode, response.Body)
	}
	return nil
}

func (s *sendgridEmailService) SendBookingRequested(ctx context.Context, to, renterName, unitName string, start, end time.Time) error {
	body := fmt.Sprintf("%s requested to rent %s from %s to %s.",
		renterName, unitName, start.Format("2006-01-02"), end.Format("2006-01-02"))
	return s.send(to, fmt.Sprintf("New booking request for %s", unitName), body)
}

func (s *sendgridEmailService) SendBookingConfirmed(ctx context.Context, to, unitName string) error {
	return s.send(to, fmt.Sprintf("Booking confirmed - %s", unitName),
		fmt.Sprintf("Your booking for %s has been confirmed.", unitName))
}

func (s *sendgridEmailService) SendBookingCancelled(ctx context.Context, to, unitName, reason string) error {
	body := fmt.Sprintf("Your booking for %s has been cancelled.", unitName)
	if reason != "" {
		body += " Reason: " + reason
	}
	return s.send(to, fmt.Sprintf("Booking cancelled - %s", unitName), body)
}

func (s *sendgridEmailService) SendLateFineNotice(ctx context.Context, to, unitName string, amountCents int64) error {
	return s.send(to, fmt.Sprintf("Late return fee - %s", unitName),
		fmt.Sprintf("Your rental of %s was returned late. A late fee of %.2f has been added to your account.", unitName, float64(amountCents)/100))
}

func (s *sendgridEmailService) SendDamageFineNotice(ctx context.Context, to, unitName string, amountCents int64) error {
	return s.send(to, fmt.Sprintf("Damage deduction - %s", unitName),
		fmt.Sprintf("A damage report for your rental of %s was approved. %.2f has been deducted from your deposit.", unitName, float64(amountCents)/100))
}

func (s *sendgridEmailService) SendDisputeOutcome(ctx context.Context, to string, outcome, notes string) error {
	body := fmt.Sprintf("Your dispute has been reviewed. Outcome: %s.", outcome)
	if notes != "" {
		body += " Notes: " + notes
	}
	return s.send(to, "Dispute outcome", body)
}

// NewEmailService picks the provider configured in the email section.
func NewEmailService(cfg config.EmailConfig) EmailService {
	if cfg.Provider == "sendgrid" {
		return NewSendGridEmailService(cfg)
	}
	return NewSMTPEmailService(cfg)
}
