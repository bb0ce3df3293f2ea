package service

import (
	"context"
	"fmt"
	"time"

	"gopkg.in/gomail.v2"

	"rentloop-backend/internal/config"
)

type smtpEmailService struct {
	host     string
	port     int
	username string
	password string
	from     string
}

// NewSMTPEmailService sends plain-text mail through an SMTP relay.
func NewSMTPEmailService(cfg config.EmailConfig) EmailService {
	return &smtpEmailService{
		host:     cfg.SMTPHost,
		port:     cfg.SMTPPort,
		username: cfg.SMTPUser,
		password: cfg.SMTPPassword,
		from:     cfg.From,
	}
}

func (s *smtpEmailService) send(to, subject, body string) error {
	m := gomail.NewMessage()
	m.SetHeader("From", s.from)
	m.SetHeader("To", to)
	m.SetHeader("Subject", subject)
	m.SetBody("text/plain", body)

	d := gomail.NewDialer(s.host, s.port, s.username, s.password)
	if err := d.DialAndSend(m); err != nil {
		return fmt.Errorf("failed to send email: %w", err)
	}
	return nil
}

func (s *smtpEmailService) SendBookingRequested(ctx context.Context, to, renterName, unitName string, start, end time.Time) error {
	body := fmt.Sprintf("Hello,\n\n%s requested to rent %s from %s to %s.\n\nLog in to confirm or reject the request.\n\nBest regards,\nThe Rentloop Team",
		renterName, unitName, start.Format("2006-01-02"), end.Format("2006-01-02"))
	return s.send(to, fmt.Sprintf("New booking request for %s", unitName), body)
}

func (s *smtpEmailService) SendBookingConfirmed(ctx context.Context, to, unitName string) error {
	body := fmt.Sprintf("Hello,\n\nYour booking for %s has been confirmed.\n\nBest regards,\nThe Rentloop Team", unitName)
	return s.send(to, fmt.Sprintf("Booking confirmed - %s", unitName), body)
}

func (s *smtpEmailService) SendBookingCancelled(ctx context.Context, to, unitName, reason string) error {
	body := fmt.Sprintf("Hello,\n\nYour booking for %s has been cancelled.", unitName)
	if reason != "" {
		body += fmt.Sprintf("\n\nReason: %s", reason)
	}
	body += "\n\nBest regards,\nThe Rentloop Team"
	return s.send(to, fmt.Sprintf("Booking cancelled - %s", unitName), body)
}

func (s *smtpEmailService) SendLateFineNotice(ctx context.Context, to, unitName string, amountCents int64) error {
	body := fmt.Sprintf("Hello,\n\nYour rental of %s was returned late. A late fee of %.2f has been added to your account.\n\nBest regards,\nThe Rentloop Team",
		unitName, float64(amountCents)/100)
	return s.send(to, fmt.Sprintf("Late return fee - %s", unitName), body)
}

func (s *smtpEmailService) SendDamageFineNotice(ctx context.Context, to, unitName string, amountCents int64) error {
	body := fmt.Sprintf("Hello,\n\nA damage report for your rental of %s was approved. %.2f has been deducted from your deposit.\n\nBest regards,\nThe Rentloop Team",
		unitName, float64(amountCents)/100)
	return s.send(to, fmt.Sprintf("Damage deduction - %s", unitName), body)
}

func (s *smtpEmailService) SendDisputeOutcome(ctx context.Context, to string, outcome, notes string) error {
	body := fmt.Sprintf("Hello,\n\nYour dispute has been reviewed. Outcome: %s.", outcome)
	if notes != "" {
		body += fmt.Sprintf("\n\nNotes from our team: %s", notes)
	}
	body += "\n\nBest regards,\nThe Rentloop Team"
	return s.send(to, "Dispute outcome", body)
}
