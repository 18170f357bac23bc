package service

import (
	"errors"
	"strings"

	"github.com/spf13/viper"
	"go.uber.org/zap"
	"gopkg.in/gomail.v2"
)

// Mailer delivers plain text emails. Sending is synchronous and never
// retried, callers decide what a failure means for them.
type Mailer interface {
	Send(to, subject, body string) error
}

type SMTPMailer struct {
	Host     string
	Port     int
	Username string
	Password string
	From     string
}

// NewMailer returns an SMTP mailer when mail.host is configured and a mailer
// that only logs otherwise, which is handy in development
func NewMailer() Mailer {
	if viper.GetString("mail.host") == "" {
		zap.L().Warn("No mail.host configured, emails will only be logged")
		return LogMailer{}
	}

	username := viper.GetString("mail.username")
	if username == "" {
		username = viper.GetString("mail.sender_address")
	}

	return &SMTPMailer{
		Host:     viper.GetString("mail.host"),
		Port:     viper.GetInt("mail.port"),
		Username: username,
		Password: viper.GetString("mail.password"),
		From:     viper.GetString("mail.sender_address"),
	}
}

func (s *SMTPMailer) Send(to, subject, body string) error {
	if strings.EqualFold(to, s.From) {
		return errors.New("invalid email address")
	}

	m := gomail.NewMessage()
	m.SetHeader("From", s.From)
	m.SetHeader("To", to)
	m.SetHeader("Subject", subject)
	m.SetBody("text/plain", body)

	return gomail.NewDialer(s.Host, s.Port, s.Username, s.Password).DialAndSend(m)
}

type LogMailer struct{}

func (LogMailer) Send(to, subject, body string) error {
	zap.L().Info("Email not sent, no mail server configured",
		zap.String("to", to),
		zap.String("subject", subject),
		zap.String("body", body),
	)

	return nil
}
