package mail

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"autoquiz/internal/domain"

	"go.uber.org/zap"
)

const defaultBaseURL = "https://api.brevo.com"

// BrevoMailProvider implements domain.MailProvider using the Brevo
// transactional email REST API.
type BrevoMailProvider struct {
	apiKey      string
	senderEmail string
	senderName  string
	baseURL     string
	httpClient  *http.Client
	logger      *zap.Logger
}

// NewBrevoMailProvider creates a new Brevo mail provider instance.
func NewBrevoMailProvider(apiKey, senderEmail, senderName string, logger *zap.Logger) (domain.MailProvider, error) {
	if apiKey == "" || senderEmail == "" {
		return nil, fmt.Errorf("brevo api key and sender email are required")
	}
	return &BrevoMailProvider{
		apiKey:      apiKey,
		senderEmail: senderEmail,
		senderName:  senderName,
		baseURL:     defaultBaseURL,
		httpClient:  &http.Client{Timeout: 10 * time.Second},
		logger:      logger,
	}, nil
}

type brevoPayload struct {
	Sender      map[string]string   `json:"sender"`
	To          []map[string]string `json:"to"`
	Subject     string              `json:"subject"`
	HTMLContent string              `json:"htmlContent"`
}

// Send dispatches the quiz invitation to all recipients in one API call.
func (p *BrevoMailProvider) Send(ctx context.Context, recipients []string, quizTitle, formURL string) error {
	to := make([]map[string]string, 0, len(recipients))
	for _, addr := range recipients {
		to = append(to, map[string]string{"email": addr})
	}

	payload := brevoPayload{
		Sender:      map[string]string{"name": p.senderName, "email": p.senderEmail},
		To:          to,
		Subject:     fmt.Sprintf("Quiz Invitation: %s", quizTitle),
		HTMLContent: invitationBody(quizTitle, formURL),
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return domain.NewProviderError("mail", fmt.Errorf("failed to marshal payload: %w", err))
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, p.baseURL+"/v3/smtp/email", bytes.NewBuffer(body))
	if err != nil {
		return domain.NewProviderError("mail", err)
	}
	req.Header.Set("accept", "application/json")
	req.Header.Set("api-key", p.apiKey)
	req.Header.Set("content-type", "application/json")

	resp, err := p.httpClient.Do(req)
	if err != nil {
		return domain.NewProviderError("mail", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusCreated {
		respBody, _ := io.ReadAll(resp.Body)
		p.logger.Error("Brevo API returned an error",
			zap.Int("status", resp.StatusCode),
			zap.ByteString("body", respBody),
		)
		return domain.NewProviderError("mail", fmt.Errorf("brevo responded with status %d", resp.StatusCode))
	}

	p.logger.Info("Quiz invitation sent",
		zap.Int("recipient_count", len(recipients)),
		zap.String("quiz_title", quizTitle),
	)
	return nil
}

func invitationBody(quizTitle, formURL string) string {
	return fmt.Sprintf(
		`<p>Hello,</p><p>You have been invited to take the quiz "%s".</p><p>Access the quiz here: <a href="%s">%s</a></p><p>Thank you!</p>`,
		quizTitle, formURL, formURL,
	)
}
