package email

import (
	"fmt"
	"net/smtp"

	"react-app-backend/config"
	"react-app-backend/model"

	"github.com/rs/zerolog/log"
)

// EmailService sends transactional mail over SMTP. It is a best-effort
// notification sink: callers dispatch sends in a goroutine and never wait on
// the result; failures end up in the log, not in HTTP responses.
type EmailService struct {
	cfg config.EmailConfig
}

// NewEmailService creates a new email service from process-start configuration
func NewEmailService(cfg config.EmailConfig) *EmailService {
	return &EmailService{cfg: cfg}
}

// SendPasswordReset sends the password reset link to the user. When the
// service is disabled (development), the URL is logged instead of sent.
func (es *EmailService) SendPasswordReset(user *model.User, url string) error {
	if !es.cfg.Enabled {
		log.Warn().Msg("Email service disabled - password reset email not sent")
		log.Info().Str("email", user.Email).Str("url", url).Msg("Reset URL (email disabled)")
		return nil
	}

	name := user.FirstName
	if name == "" {
		name = user.Email
	}

	subject := "Password reset"
	body := fmt.Sprintf(`
  <p>Hey %s,</p>
  <p>We heard that you lost your password. Sorry about that!</p>
  <p>But don't worry! You can use the following link to reset your password:</p>
  <a href="%s">%s</a>
  <p>If you don't use this link within 1 hour, it will expire.</p>
  <p>Do something outside today!</p>
  <p>&ndash;Best!</p>
`, name, url, url)

	return es.sendEmail(user.Email, subject, body)
}

// sendEmail sends an HTML email using SMTP
func (es *EmailService) sendEmail(to, subject, body string) error {
	from := fmt.Sprintf("%s <%s>", es.cfg.FromName, es.cfg.FromEmail)

	msg := []byte(fmt.Sprintf(
		"From: %s\r\n"+
			"To: %s\r\n"+
			"Subject: %s\r\n"+
			"MIME-Version: 1.0\r\n"+
			"Content-Type: text/html; charset=UTF-8\r\n"+
			"\r\n"+
			"%s\r\n",
		from, to, subject, body,
	))

	var auth smtp.Auth
	if es.cfg.Username != "" {
		auth = smtp.PlainAuth("", es.cfg.Username, es.cfg.Password, es.cfg.Host)
	}
	addr := fmt.Sprintf("%s:%s", es.cfg.Host, es.cfg.Port)

	if err := smtp.SendMail(addr, auth, es.cfg.FromEmail, []string{to}, msg); err != nil {
		log.Error().Err(err).Str("to", to).Msg("Failed to send email")
		return err
	}

	log.Info().Str("to", to).Str("subject", subject).Msg("Email sent")
	return nil
}
