package mail

import (
	"fmt"
	"net/smtp"
)

// Service sends account-activation mail over plain SMTP. A zero-configured
// service (empty host) is valid and sends nothing, so local setups work
// without an SMTP account.
type Service struct {
	host string
	port int
	user string
	pass string
}

func New(host string, port int, user, pass string) *Service {
	return &Service{host: host, port: port, user: user, pass: pass}
}

func (s *Service) Enabled() bool {
	return s.host != ""
}

func (s *Service) SendActivationMail(to, link string) error {
	if !s.Enabled() {
		return nil
	}

	msg := fmt.Sprintf(
		"From: Support <%s>\r\nTo: %s\r\nSubject: Account Activation\r\nMIME-Version: 1.0\r\nContent-Type: text/html; charset=\"UTF-8\"\r\n\r\n"+
			"<h2>Account Activation</h2>"+
			"<p>To activate your account, click the link below:</p>"+
			"<a href=%q target=\"_blank\">%s</a>"+
			"<p>If you did not request this email, please ignore it.</p>\r\n",
		s.user, to, link, link,
	)

	addr := fmt.Sprintf("%s:%d", s.host, s.port)
	authentication := smtp.PlainAuth("", s.user, s.pass, s.host)
	return smtp.SendMail(addr, authentication, s.user, []string{to}, []byte(msg))
}
