// Package mailer sends transactional email via the Resend API.
package mailer

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"
)

const defaultTimeout = 15 * time.Second

// Mailer sends transactional email.
type Mailer interface {
	SendVerificationEmail(ctx context.Context, to, name, verifyLink string) error
}

// ResendClient sends email via the Resend API.
// See https://resend.com/docs/api-reference/emails/send-email.
type ResendClient struct {
	APIKey     string
	BaseURL    string
	From       string
	HTTPClient *http.Client
}

// NewResendClient returns a client that uses the given API key and optional base URL/from address.
func NewResendClient(apiKey, baseURL, from string) *ResendClient {
	if baseURL == "" {
		baseURL = "https://api.resend.com"
	}
	if from == "" {
		from = "onboarding@resend.dev"
	}
	return &ResendClient{
		APIKey:     apiKey,
		BaseURL:    baseURL,
		From:       from,
		HTTPClient: &http.Client{Timeout: defaultTimeout},
	}
}

// SendVerificationEmail sends the email-verification message with the given link.
func (c *ResendClient) SendVerificationEmail(ctx context.Context, to, name, verifyLink string) error {
	if c.APIKey == "" {
		return fmt.Errorf("mailer: API key not configured")
	}
	body := map[string]interface{}{
		"from":    c.From,
		"to":      []string{to},
		"subject": "Verify your email address",
		"html":    verifyEmailTemplate(name, verifyLink),
	}
	raw, err := json.Marshal(body)
	if err != nil {
		return err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.BaseURL+"/emails", bytes.NewReader(raw))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.APIKey)
	resp, err := c.HTTPClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		b, _ := io.ReadAll(resp.Body)
		return fmt.Errorf("mailer: request failed status=%d body=%s", resp.StatusCode, string(b))
	}
	return nil
}
