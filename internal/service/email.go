package service

import (
	"context"
	"fmt"
	"html"
	"strings"

	"wardrobe-rental-backend/internal/logger"

	"github.com/sendgrid/sendgrid-go"
	"github.com/sendgrid/sendgrid-go/helpers/mail"
)

const defaultSendGridHost = "https://api.sendgrid.com"

type sendGridEmailService struct {
	apiKey    string
	host      string
	fromEmail string
	fromName  string
}

// NewSendGridEmailService sends through the SendGrid v3 mail API. host may be empty.
func NewSendGridEmailService(apiKey, host, fromEmail, fromName string) EmailService {
	if host == "" {
		host = defaultSendGridHost
	}
	return &sendGridEmailService{
		apiKey:    apiKey,
		host:      strings.TrimRight(host, "/"),
		fromEmail: fromEmail,
		fromName:  fromName,
	}
}

func (s *sendGridEmailService) SendNotification(ctx context.Context, email, name, subject, body string) error {
	from := mail.NewEmail(s.fromName, s.fromEmail)
	to := mail.NewEmail(name, email)
	htmlContent := fmt.Sprintf("<html><body><p>Hello %s,</p><p>%s</p></body></html>", html.EscapeString(name), html.EscapeString(body))
	message := mail.NewSingleEmail(from, subject, to, fmt.Sprintf("Hello %s,\n\n%s", name, body), htmlContent)

	request := sendgrid.GetRequest(s.apiKey, "/v3/mail/send", s.host)
	request.Method = "POST"
	request.Body = mail.GetRequestBody(message)

	logger.ExternalServiceCall("SendGrid", "Send", "subject", subject)
	response, err := sendgrid.MakeRequestWithContext(ctx, request)
	if err == nil && response.StatusCode >= 400 {
		err = fmt.Errorf("sendgrid error: status %d, body: %s", response.StatusCode, response.Body)
	}
	logger.ExternalServiceResult("SendGrid", "Send", err, "subject", subject)
	if err != nil {
		return fmt.Errorf("failed to send email: %w", err)
	}
	return nil
}

type logEmailService struct{}

// NewLogEmailService only logs outgoing mail. Used when no SendGrid key is configured.
func NewLogEmailService() EmailService {
	return logEmailService{}
}

func (logEmailService) SendNotification(ctx context.Context, email, name, subject, body string) error {
	logger.Info("Email notification (not sent)", "to", email, "subject", subject)
	return nil
}
