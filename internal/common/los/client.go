package los

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"
)

// Client delivers payloads to the LOS webhook endpoint. It is constructed
// explicitly by the composition root and injected where needed, so tests can
// substitute a fake.
type Client struct {
	webhookURL string
	httpClient *http.Client
}

// DeliveryError is returned for non-success HTTP responses. The response body
// is kept for logging at the call site; Error deliberately omits it.
type DeliveryError struct {
	StatusCode int
	Body       string
}

func (e *DeliveryError) Error() string {
	return fmt.Sprintf("los webhook returned status %d", e.StatusCode)
}

func NewClient(webhookURL string, timeout time.Duration) *Client {
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	return &Client{
		webhookURL: webhookURL,
		httpClient: &http.Client{
			Timeout: timeout,
		},
	}
}

// Push POSTs the payload as a single JSON object to the configured endpoint.
// Any non-2xx status is reported as a *DeliveryError.
func (c *Client) Push(ctx context.Context, payload interface{}) error {
	jsonData, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("failed to marshal payload: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.webhookURL, bytes.NewBuffer(jsonData))
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}

	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("failed to execute request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices {
		body, _ := io.ReadAll(resp.Body)
		return &DeliveryError{
			StatusCode: resp.StatusCode,
			Body:       string(body),
		}
	}

	// Response body on success is ignored: catch hooks reply with an opaque ack.
	return nil
}

// URL returns the configured webhook URL.
func (c *Client) URL() string {
	return c.webhookURL
}
