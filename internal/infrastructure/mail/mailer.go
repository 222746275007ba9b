package mail

import (
	"fmt"

	"gopkg.in/gomail.v2"

	"github.com/inverland/estate-crm/internal/core/ports"
)

// SMTPMailer sends campaign messages over SMTP.
type SMTPMailer struct {
	host string
	port int
	user string
	pass string
	from string
}

func NewSMTPMailer(host string, port int, user, pass, from string) *SMTPMailer {
	return &SMTPMailer{host: host, port: port, user: user, pass: pass, from: from}
}

// Send delivers a single campaign message. The body is sent as HTML, which is
// how campaigns are authored in the back office.
func (m *SMTPMailer) Send(d ports.CampaignDelivery) error {
	msg := gomail.NewMessage()
	msg.SetHeader("From", m.from)
	msg.SetAddressHeader("To", d.Email, d.Name)
	msg.SetHeader("Subject", d.Subject)
	msg.SetBody("text/html", d.Body)

	dialer := gomail.NewDialer(m.host, m.port, m.user, m.pass)
	if err := dialer.DialAndSend(msg); err != nil {
		return fmt.Errorf("smtp send to %s: %w", d.Email, err)
	}
	return nil
}
