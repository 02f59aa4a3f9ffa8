// internal/notify/notifier.go
// Package notify alerts the advisor when a client finishes or submits a
// questionnaire. Delivery is best effort: a failed notification is logged and
// the request that triggered it still succeeds.
package notify

import (
	"context"
	"fmt"
	"strings"

	commonaws "francis-backend/internal/common/aws"
	"francis-backend/internal/common/logger"
	"francis-backend/internal/models"
)

// Define interfaces for mocking
type EmailSender interface {
	SendSimple(ctx context.Context, to, subject, body string) error
}

type SMSSender interface {
	SendSMS(ctx context.Context, phoneNumber, message string) error
}

type Config struct {
	Enabled      bool
	AWSRegion    string
	SenderEmail  string
	AdvisorEmail string
	AdvisorPhone string
	SMSEnabled   bool
}

type Notifier struct {
	config *Config
	logger logger.Logger
	email  EmailSender
	sms    SMSSender
}

func New(ctx context.Context, config *Config, log logger.Logger) (*Notifier, error) {
	n := &Notifier{
		config: config,
		logger: log.WithFields(map[string]interface{}{"component": "notifier"}),
	}
	if !config.Enabled {
		return n, nil
	}

	sesClient, err := commonaws.NewSESClient(ctx, config.AWSRegion, config.SenderEmail)
	if err != nil {
		return nil, fmt.Errorf("init SES client: %w", err)
	}
	snsClient, err := commonaws.NewSNSClient(ctx, config.AWSRegion)
	if err != nil {
		return nil, fmt.Errorf("init SNS client: %w", err)
	}
	n.email = sesClient
	n.sms = snsClient
	return n, nil
}

// NewWithClients wires explicit senders, used by tests.
func NewWithClients(config *Config, email EmailSender, sms SMSSender, log logger.Logger) *Notifier {
	return &Notifier{
		config: config,
		logger: log.WithFields(map[string]interface{}{"component": "notifier"}),
		email:  email,
		sms:    sms,
	}
}

const (
	profileSubmittedSubject = "Nouveau dossier client : {{name}}"
	profileSubmittedBody    = "Le questionnaire de {{name}} est complet ({{completion}}% renseigné). " +
		"Le dossier est prêt pour une première analyse."
	profileSubmittedSMS = "Francis : dossier de {{name}} complet, prêt pour analyse."
)

// ProfileSubmitted notifies the advisor that a client questionnaire reached
// completion. SMS goes out only when a phone number is configured.
func (n *Notifier) ProfileSubmitted(ctx context.Context, profile *models.ClientProfile, completionRate int) {
	if !n.config.Enabled {
		return
	}

	data := map[string]interface{}{
		"name":       profile.DisplayName(),
		"completion": completionRate,
	}

	if n.config.AdvisorEmail != "" {
		subject := render(profileSubmittedSubject, data)
		body := render(profileSubmittedBody, data)
		if err := n.email.SendSimple(ctx, n.config.AdvisorEmail, subject, body); err != nil {
			n.logger.Error("email send failed", map[string]interface{}{
				"error": err.Error(),
				"email": n.config.AdvisorEmail,
			})
		}
	}

	if n.config.SMSEnabled && n.config.AdvisorPhone != "" {
		if err := n.sms.SendSMS(ctx, n.config.AdvisorPhone, render(profileSubmittedSMS, data)); err != nil {
			n.logger.Error("SMS send failed", map[string]interface{}{
				"error": err.Error(),
			})
		}
	}
}

func render(tmpl string, data map[string]interface{}) string {
	result := tmpl
	for k, v := range data {
		result = strings.ReplaceAll(result, "{{"+k+"}}", fmt.Sprintf("%v", v))
	}
	return result
}
