package service

import (
	"context"
	"fmt"
	"time"

	"gopkg.in/gomail.v2"
)

type emailService struct {
	host     string
	port     int
	username string
	password string
	from     string
}

func NewEmailService(host string, port int, username, password, from string) EmailService {
	return &emailService{
		host:     host,
		port:     port,
		username: username,
		password: password,
		from:     from,
	}
}

func (s *emailService) send(to, subject, body string) error {
	m := gomail.NewMessage()
	m.SetHeader("From", s.from)
	m.SetHeader("To", to)
	m.SetHeader("Subject", subject)
	m.SetBody("text/plain", body)

	d := gomail.NewDialer(s.host, s.port, s.username, s.password)
	if err := d.DialAndSend(m); err != nil {
		return fmt.Errorf("failed to send email via gomail: %w", err)
	}
	return nil
}

func (s *emailService) SendOrderConfirmedNotification(ctx context.Context, email, reference string, totalDueCents int64) error {
	subject := "Your rental order is confirmed"
	body := fmt.Sprintf("Hello,\n\nYour order %s is confirmed. Amount charged: $%.2f.\n\nThanks for renting with PeerRent.",
		reference, float64(totalDueCents)/100)
	return s.send(email, subject, body)
}

func (s *emailService) SendOrderCancelledNotification(ctx context.Context, email, reference string) error {
	subject := "Your rental order was cancelled"
	body := fmt.Sprintf("Hello,\n\nYour order %s has been cancelled and the reserved items have been released.\n\nThe PeerRent Team",
		reference)
	return s.send(email, subject, body)
}

func (s *emailService) SendReturnReminderNotification(ctx context.Context, email, reference string, returnBy time.Time) error {
	subject := "Rental return reminder"
	body := fmt.Sprintf("Hello,\n\nThis is a reminder that the items on order %s are due back by %s.\n\nThe PeerRent Team",
		reference, returnBy.Format("Mon, 02 Jan 2006 15:04 MST"))
	return s.send(email, subject, body)
}
