package services

import "log"

// Mailer is the outbound email port. The app only sends attribution-free
// notification mail (welcome on register), so the contract stays minimal.
type Mailer interface {
	Send(to, subject, body string) error
}

// LogMailer writes mail to the application log instead of delivering it.
// It stands in for a real provider outside production.
type LogMailer struct{}

func (LogMailer) Send(to, subject, body string) error {
	log.Printf("mail to %s, subject: %s, body: %s", to, subject, body)
	return nil
}
