package notify

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

// MailerClient sends reset codes through an HTTP transactional-mail API.
type MailerClient struct {
	APIKey     string
	BaseURL    string
	Sender     string
	HTTPClient *http.Client
}

// NewMailerClient returns a client that uses the given API key, base URL, and
// sender address.
func NewMailerClient(apiKey, baseURL, sender string) *MailerClient {
	return &MailerClient{
		APIKey:     apiKey,
		BaseURL:    baseURL,
		Sender:     sender,
		HTTPClient: &http.Client{Timeout: defaultTimeout},
	}
}

// SendResetCode sends the verification code to email. Does not log the code.
func (c *MailerClient) SendResetCode(ctx context.Context, email, code string) error {
	if c.APIKey == "" || c.BaseURL == "" {
		return fmt.Errorf("mail: client not configured")
	}
	body := map[string]interface{}{
		"from":    c.Sender,
		"to":      email,
		"subject": "Your password reset code",
		"text":    fmt.Sprintf("Your verification code is %s. It expires shortly; if you did not request a reset, ignore this message.", code),
	}
	raw, err := json.Marshal(body)
	if err != nil {
		return err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.BaseURL, bytes.NewReader(raw))
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
		return fmt.Errorf("mail: request failed status=%d body=%s", resp.StatusCode, string(b))
	}
	return nil
}
