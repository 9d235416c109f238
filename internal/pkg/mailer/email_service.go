package mailer

import (
	"fmt"

	"gopkg.in/gomail.v2"
)

type IEmailService interface {
	SendWelcome(toEmail, fullName string) error
	SendReportReady(toEmail, documentName, crNumber string) error
}

type emailService struct {
	dialer      *gomail.Dialer
	senderEmail string
	senderName  string
}

func NewEmailService(host string, port int, username, password, senderEmail, senderName string) IEmailService {
	d := gomail.NewDialer(host, port, username, password)

	return &emailService{
		dialer:      d,
		senderEmail: senderEmail,
		senderName:  senderName,
	}
}

func (s *emailService) SendWelcome(toEmail, fullName string) error {
	m := gomail.NewMessage()
	m.SetAddressHeader("From", s.senderEmail, s.senderName)
	m.SetHeader("To", toEmail)
	m.SetHeader("Subject", "Welcome to Drive Assistant")

	body := fmt.Sprintf(`
		<div style="font-family: Arial, sans-serif; padding: 20px; color: #333;">
			<h2>Hi %s,</h2>
			<p>Your Drive Assistant account is ready.</p>
			<p>Connect your Microsoft account from the profile page to start browsing and asking questions about your documents.</p>
		</div>
	`, fullName)

	m.SetBody("text/html", body)

	if err := s.dialer.DialAndSend(m); err != nil {
		fmt.Printf("[MAILER ERROR] Failed to send welcome mail to %s: %v\n", toEmail, err)
		return err
	}

	fmt.Printf("[MAILER] Welcome mail sent to %s\n", toEmail)
	return nil
}

func (s *emailService) SendReportReady(toEmail, documentName, crNumber string) error {
	m := gomail.NewMessage()
	m.SetAddressHeader("From", s.senderEmail, s.senderName)
	m.SetHeader("To", toEmail)
	m.SetHeader("Subject", fmt.Sprintf("Impact analysis report ready: %s", crNumber))

	body := fmt.Sprintf(`
		<div style="font-family: Arial, sans-serif; padding: 20px; color: #333;">
			<h2>Report generated</h2>
			<p>The impact analysis report for <strong>%s</strong> (change request %s) has been prefilled and is ready for review in your workspace.</p>
		</div>
	`, documentName, crNumber)

	m.SetBody("text/html", body)

	if err := s.dialer.DialAndSend(m); err != nil {
		fmt.Printf("[MAILER ERROR] Failed to send report mail to %s: %v\n", toEmail, err)
		return err
	}

	fmt.Printf("[MAILER] Report mail sent to %s\n", toEmail)
	return nil
}
