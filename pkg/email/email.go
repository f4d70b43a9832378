package email

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"html/template"
	"net/smtp"
	"strings"

	"jobspace-backend/config"
	"jobspace-backend/internal/domain"
)

// EmailService sends candidacy decisions over SMTP.
type EmailService struct {
	host      string
	port      string
	username  string
	password  string
	fromEmail string
	send      func(addr string, a smtp.Auth, from string, to []string, msg []byte) error
}

var _ domain.StatusNotifier = (*EmailService)(nil)

// StatusEmailData holds the data rendered into the decision email
type StatusEmailData struct {
	FirstName string
	LastName  string
	Specialty string
	Accepted  bool
}

func NewEmailService(cfg *config.Config) *EmailService {
	from := cfg.SMTPFromEmail
	if from == "" {
		from = cfg.SMTPUsername
	}
	return &EmailService{
		host:      cfg.SMTPHost,
		port:      cfg.SMTPPort,
		username:  cfg.SMTPUsername,
		password:  cfg.SMTPPassword,
		fromEmail: from,
		send:      smtp.SendMail,
	}
}

const statusEmailTemplate = `<!DOCTYPE html>
<html>
<head>
    <meta charset="UTF-8">
    <title>Votre candidature JobSpace</title>
    <style>
        body { font-family: Arial, sans-serif; line-height: 1.6; color: #333; }
        .container { max-width: 600px; margin: 0 auto; padding: 20px; }
        .header { background: #1e3a8a; color: white; padding: 20px; text-align: center; }
        .content { padding: 20px; background: #f9f9f9; }
        .footer { text-align: center; padding: 20px; color: #888; font-size: 12px; }
    </style>
</head>
<body>
    <div class="container">
        <div class="header">
            <h1>JobSpace</h1>
        </div>
        <div class="content">
            <p>Bonjour {{.FirstName}} {{.LastName}},</p>
            {{if .Accepted}}
            <p>Nous avons le plaisir de vous informer que votre candidature{{if .Specialty}} en {{.Specialty}}{{end}} a été <strong>acceptée</strong>.</p>
            <p>Un recruteur prendra contact avec vous prochainement.</p>
            {{else}}
            <p>Après étude de votre dossier{{if .Specialty}} en {{.Specialty}}{{end}}, nous ne pouvons malheureusement pas donner une suite favorable à votre candidature.</p>
            <p>Nous vous encourageons à postuler à d'autres offres sur JobSpace.</p>
            {{end}}
        </div>
        <div class="footer">
            <p>Cet email a été envoyé automatiquement, merci de ne pas y répondre.</p>
        </div>
    </div>
</body>
</html>`

var statusTmpl = template.Must(template.New("status").Parse(statusEmailTemplate))

// NotifyStatusChange emails the candidate once a decision was recorded.
// Pending candidacies and candidates without email are skipped.
func (s *EmailService) NotifyStatusChange(ctx context.Context, candidate domain.Candidate) error {
	if !s.IsConfigured() {
		return nil
	}
	status := candidate.EffectiveStatus()
	if status == domain.StatusPending || candidate.Email == "" {
		return nil
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	msg, err := s.buildStatusMessage(candidate)
	if err != nil {
		return err
	}

	auth := smtp.PlainAuth("", s.username, s.password, s.host)
	addr := fmt.Sprintf("%s:%s", s.host, s.port)
	if err := s.send(addr, auth, s.fromEmail, []string{candidate.Email}, msg); err != nil {
		return fmt.Errorf("failed to send email: %w", err)
	}
	return nil
}

func (s *EmailService) buildStatusMessage(candidate domain.Candidate) ([]byte, error) {
	if strings.ContainsAny(candidate.Email, "\r\n") {
		return nil, errors.New("invalid recipient address")
	}

	data := StatusEmailData{
		FirstName: candidate.FirstName,
		LastName:  candidate.LastName,
		Specialty: candidate.Specialty,
		Accepted:  candidate.EffectiveStatus() == domain.StatusAccepted,
	}

	var body bytes.Buffer
	if err := statusTmpl.Execute(&body, data); err != nil {
		return nil, fmt.Errorf("failed to execute email template: %w", err)
	}

	subject := "Votre candidature a été refusée"
	if data.Accepted {
		subject = "Votre candidature a été acceptée"
	}

	return []byte(fmt.Sprintf(
		"From: %s\r\n"+
			"To: %s\r\n"+
			"Subject: %s\r\n"+
			"MIME-Version: 1.0\r\n"+
			"Content-Type: text/html; charset=UTF-8\r\n"+
			"\r\n"+
			"%s",
		s.fromEmail,
		candidate.Email,
		subject,
		body.String(),
	)), nil
}

// IsConfigured checks if the email service has valid SMTP configuration
func (s *EmailService) IsConfigured() bool {
	return s.host != "" && s.username != "" && s.password != ""
}
