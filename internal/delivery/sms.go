package delivery

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"
)

// SMSSender posts messages to an HTTP SMS gateway authenticated with an
// account id and auth token.
type SMSSender struct {
	apiURL    string
	accountID string
	authToken string
	from      string
	client    *http.Client
}

// NewSMSSender creates an SMS sender for the given gateway credentials.
func NewSMSSender(apiURL, accountID, authToken, from string) *SMSSender {
	return &SMSSender{
		apiURL:    apiURL,
		accountID: accountID,
		authToken: authToken,
		from:      from,
		client:    &http.Client{Timeout: 10 * time.Second},
	}
}

type smsPayload struct {
	From string `json:"from"`
	To   string `json:"to"`
	Body string `json:"body"`
}

// Send posts a single message to the gateway.
func (s *SMSSender) Send(ctx context.Context, destination, message string) error {
	body, err := json.Marshal(smsPayload{From: s.from, To: destination, Body: message})
	if err != nil {
		return fmt.Errorf("marshal sms payload: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.apiURL, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("build sms request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.SetBasicAuth(s.accountID, s.authToken)

	resp, err := s.client.Do(req)
	if err != nil {
		return fmt.Errorf("send sms: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return fmt.Errorf("sms gateway returned status: %d", resp.StatusCode)
	}
	return nil
}
