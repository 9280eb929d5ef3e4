package alerts

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/sudo-init-do/gearhub/internal/config"
)

// Plunk sends mail through Plunk's HTTP API.
type Plunk struct {
	cfg        config.PlunkConfig
	httpClient *http.Client
}

// NewPlunk creates a Plunk mailer.
func NewPlunk(cfg config.PlunkConfig) *Plunk {
	if cfg.APIURL == "" {
		cfg.APIURL = "https://api.useplunk.com/v1/send"
	}
	return &Plunk{cfg: cfg, httpClient: &http.Client{Timeout: 10 * time.Second}}
}

type plunkSendBody struct {
	To      string `json:"to"`
	Subject string `json:"subject"`
	Body    string `json:"body"`
	From    string `json:"from,omitempty"`
	Reply   string `json:"reply,omitempty"`
}

// Send performs the HTTP request to Plunk API
func (p *Plunk) Send(ctx context.Context, env EmailEnvelope) error {
	payload := plunkSendBody{
		To:      env.To,
		Subject: env.Subject,
		Body:    env.Body,
		From:    p.cfg.From,
		Reply:   p.cfg.ReplyTo,
	}
	b, err := json.Marshal(payload)
	if err != nil {
		return err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, p.cfg.APIURL, bytes.NewReader(b))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+p.cfg.APIKey)

	resp, err := p.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		// Try to read response body for more context
		if msg, readErr := io.ReadAll(io.LimitReader(resp.Body, 1024)); readErr == nil && len(msg) > 0 {
			return fmt.Errorf("plunk send failed: status=%d body=%s", resp.StatusCode, msg)
		}
		return fmt.Errorf("plunk send failed: status=%d", resp.StatusCode)
	}
	return nil
}
