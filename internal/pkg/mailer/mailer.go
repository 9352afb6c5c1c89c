// Package mailer sends transactional email over SMTP. Delivery is
// fire-and-forget: callers log failures, nothing is retried.
package mailer

import (
	"gopkg.in/gomail.v2"

	"github.com/prologin/gcc-api/internal/config"
)

type Mailer struct {
	conf   *config.SMTPConfig
	dialer *gomail.Dialer
}

func New(conf *config.SMTPConfig) *Mailer {
	return &Mailer{
		conf:   conf,
		dialer: gomail.NewDialer(conf.Host, conf.Port, conf.Username, conf.Password),
	}
}

func (m *Mailer) Send(to, subject, body string) error {
	msg := gomail.NewMessage()
	msg.SetHeader("From", m.conf.From)
	msg.SetHeader("To", to)
	msg.SetHeader("Subject", subject)
	msg.SetBody("text/plain", body)

	return m.dialer.DialAndSend(msg)
}
