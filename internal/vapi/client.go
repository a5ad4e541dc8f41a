package vapi

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/example/callsched/internal/internaltypes"
)

const DefaultBaseURL = "https://api.vapi.ai"

// Client talks to the Vapi REST API with a bearer key.
type Client struct {
	hc      *http.Client
	baseURL string
	apiKey  string
}

type Config struct {
	APIKey  string
	BaseURL string
	Timeout time.Duration
}

// APIError is returned for any non-2xx response.
type APIError struct {
	StatusCode int
	Body       string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("vapi call failed: %d - %s", e.StatusCode, e.Body)
}

func New(cfg Config) *Client {
	base := strings.TrimRight(cfg.BaseURL, "/")
	if base == "" {
		base = DefaultBaseURL
	}
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 15 * time.Second
	}
	return &Client{
		hc:      &http.Client{Timeout: timeout},
		baseURL: base,
		apiKey:  cfg.APIKey,
	}
}

// CreateCall starts an outbound call and returns its id.
func (c *Client) CreateCall(ctx context.Context, req CreateCallRequest) (string, error) {
	body, err := json.Marshal(req)
	if err != nil {
		return "", err
	}
	status, b, err := c.do(ctx, http.MethodPost, c.baseURL+"/call", body)
	if err != nil {
		return "", err
	}
	if status < 200 || status >= 300 {
		return "", &APIError{StatusCode: status, Body: string(b)}
	}
	var r struct {
		ID string `json:"id"`
	}
	if err := json.Unmarshal(b, &r); err != nil {
		return "", fmt.Errorf("decode create call response: %w", err)
	}
	if r.ID == "" {
		return "", errors.New("vapi create call response has no id")
	}
	return r.ID, nil
}

// GetCall fetches the current record for id. A 404 maps to
// internaltypes.ErrNotFound.
func (c *Client) GetCall(ctx context.Context, id string) (CallRecord, error) {
	status, b, err := c.do(ctx, http.MethodGet, c.baseURL+"/call/"+url.PathEscape(id), nil)
	if err != nil {
		return CallRecord{}, err
	}
	if status == http.StatusNotFound {
		return CallRecord{}, fmt.Errorf("call %s: %w", id, internaltypes.ErrNotFound)
	}
	if status < 200 || status >= 300 {
		return CallRecord{}, &APIError{StatusCode: status, Body: string(b)}
	}
	var r callResponse
	if err := json.Unmarshal(b, &r); err != nil {
		return CallRecord{}, fmt.Errorf("decode call %s: %w", id, err)
	}
	if r.ID == "" {
		r.ID = id
	}
	return r.record(), nil
}

func (c *Client) do(ctx context.Context, method, rawURL string, body []byte) (int, []byte, error) {
	var rd io.Reader
	if body != nil {
		rd = bytes.NewReader(body)
	}
	req, err := http.NewRequestWithContext(ctx, method, rawURL, rd)
	if err != nil {
		return 0, nil, err
	}
	req.Header.Set("Authorization", "Bearer "+c.apiKey)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	res, err := c.hc.Do(req)
	if err != nil {
		return 0, nil, err
	}
	defer res.Body.Close()
	b, err := io.ReadAll(res.Body)
	if err != nil {
		return res.StatusCode, nil, err
	}
	return res.StatusCode, b, nil
}
