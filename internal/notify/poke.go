package notify

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"go.uber.org/zap"
)

const DefaultPokeURL = "https://poke.com/api/v1/inbound-sms/webhook"

// PokeClient posts messages to the Poke inbound webhook.
type PokeClient struct {
	http   *http.Client
	url    string
	apiKey string
	log    *zap.Logger
}

type PokeConfig struct {
	APIKey     string
	WebhookURL string
	Timeout    time.Duration
	Logger     *zap.Logger
}

func NewPoke(cfg PokeConfig) *PokeClient {
	u := cfg.WebhookURL
	if u == "" {
		u = DefaultPokeURL
	}
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 15 * time.Second
	}
	log := cfg.Logger
	if log == nil {
		log = zap.NewNop()
	}
	return &PokeClient{
		http:   &http.Client{Timeout: timeout},
		url:    u,
		apiKey: cfg.APIKey,
		log:    log,
	}
}

// Enabled reports whether an API key is configured.
func (p *PokeClient) Enabled() bool { return p.apiKey != "" }

// Send delivers message once. Without an API key it does nothing.
func (p *PokeClient) Send(ctx context.Context, message string) error {
	if !p.Enabled() {
		p.log.Debug("poke api key not set, skipping notification")
		return nil
	}

	body, err := json.Marshal(map[string]string{"message": message})
	if err != nil {
		return err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, p.url, bytes.NewReader(body))
	if err != nil {
		return err
	}
	req.Header.Set("Authorization", "Bearer "+p.apiKey)
	req.Header.Set("Content-Type", "application/json")

	res, err := p.http.Do(req)
	if err != nil {
		return fmt.Errorf("poke webhook: %w", err)
	}
	defer res.Body.Close()
	if res.StatusCode < 200 || res.StatusCode >= 300 {
		b, _ := io.ReadAll(io.LimitReader(res.Body, 4096))
		return fmt.Errorf("poke webhook failed (status=%d): %s", res.StatusCode, string(b))
	}
	return nil
}
