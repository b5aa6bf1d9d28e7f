// Package submission forwards completed results to the external records
// service.
package submission

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"golang.org/x/oauth2/clientcredentials"
)

const requestTimeout = 10 * time.Second

// maxResponseBytes caps how much of a response body is read.
const maxResponseBytes = 1 << 20

// ErrMalformedResponse is matched by every MalformedResponseError.
var ErrMalformedResponse = errors.New("malformed response")

// MalformedResponseError means the endpoint answered with a body that does
// not match the expected shape.
type MalformedResponseError struct {
	Body []byte
	Err  error
}

func (e *MalformedResponseError) Error() string {
	return fmt.Sprintf("malformed submission response: %v", e.Err)
}

func (e *MalformedResponseError) Unwrap() error { return e.Err }

// Is lets errors.Is(err, ErrMalformedResponse) match.
func (e *MalformedResponseError) Is(target error) bool { return target == ErrMalformedResponse }

// Config configures the submission client. An empty Endpoint disables it.
type Config struct {
	Endpoint     string
	TokenURL     string
	ClientID     string
	ClientSecret string
}

// Receipt is the endpoint's acknowledgement.
type Receipt struct {
	UserID string
	Status string
}

// Client posts JSON payloads to the submission endpoint.
type Client struct {
	endpoint   string
	httpClient *http.Client
}

// NewClient builds a client. When a token URL is configured, requests are
// authenticated with an OAuth2 client-credentials token.
func NewClient(cfg Config) *Client {
	httpClient := &http.Client{Timeout: requestTimeout}
	if cfg.TokenURL != "" {
		cc := &clientcredentials.Config{
			ClientID:     cfg.ClientID,
			ClientSecret: cfg.ClientSecret,
			TokenURL:     cfg.TokenURL,
		}
		httpClient = cc.Client(context.Background())
		httpClient.Timeout = requestTimeout
	}
	return &Client{endpoint: cfg.Endpoint, httpClient: httpClient}
}

// Enabled reports whether an endpoint is configured.
func (c *Client) Enabled() bool {
	return c.endpoint != ""
}

// Submit sends payload as JSON. A disabled client returns a zero Receipt.
func (c *Client) Submit(ctx context.Context, payload any) (Receipt, error) {
	if !c.Enabled() {
		return Receipt{}, nil
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return Receipt{}, fmt.Errorf("failed to encode payload: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, bytes.NewReader(body))
	if err != nil {
		return Receipt{}, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return Receipt{}, fmt.Errorf("failed to submit: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if err != nil {
		return Receipt{}, fmt.Errorf("failed to read response: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return Receipt{}, fmt.Errorf("unexpected status code: %d", resp.StatusCode)
	}

	return decodeResponse(respBody)
}
