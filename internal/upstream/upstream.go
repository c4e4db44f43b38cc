package upstream

import (
	"context"  // Request-scoped cancellation
	"fmt"      // Error formatting
	"io"       // Response body reading
	"net/http" // HTTP client
	"net/url"  // Webhook URL building
	"strings"  // Missing-env message assembly
)

// FallbackAnswer replaces an empty successful upstream body
const FallbackAnswer = "The stars are hazy; no reading came through."

// Error carries the upstream status and body for diagnostics
type Error struct {
	Status int    // Non-success HTTP status from the webhook
	Body   string // Response body captured for the error detail
}

// Error implements the error interface
func (e *Error) Error() string {
	return fmt.Sprintf("upstream error: %d", e.Status)
}

// Client calls the configured AI-answering webhook
type Client struct {
	WebhookURL string       // Webhook endpoint, from MAKE_WEBHOOK_URL
	APIKey     string       // API key, from MAKE_API_KEY
	HTTPClient *http.Client // Underlying client; no timeout by design
}

// New builds a webhook client from configuration values
func New(webhookURL, apiKey string) *Client {
	return &Client{
		WebhookURL: webhookURL,   // Webhook endpoint
		APIKey:     apiKey,       // API key header value
		HTTPClient: &http.Client{}, // Plain client, no retries
	}
}

// Ask sends the composed question to the webhook and returns the answer text.
// The question travels as a query parameter and the API key as a header; a
// non-success status becomes an *Error with the status and body captured.
func (c *Client) Ask(ctx context.Context, question string) (string, error) {
	// Both settings must be present before any call is attempted
	if c.WebhookURL == "" || c.APIKey == "" {
		var missing []string
		if c.WebhookURL == "" {
			missing = append(missing, "MAKE_WEBHOOK_URL") // Webhook endpoint unset
		}
		if c.APIKey == "" {
			missing = append(missing, "MAKE_API_KEY") // API key unset
		}
		return "", fmt.Errorf("missing env: %s", strings.Join(missing, ", "))
	}
	u, err := url.Parse(c.WebhookURL) // Parse the configured endpoint
	if err != nil {
		return "", fmt.Errorf("invalid webhook url: %w", err)
	}
	q := u.Query()
	q.Set("question", question) // Embed the composed question
	u.RawQuery = q.Encode()
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u.String(), nil) // Build the request
	if err != nil {
		return "", err
	}
	req.Header.Set("x-make-apikey", c.APIKey) // Authenticate to the webhook
	resp, err := c.HTTPClient.Do(req)         // The only blocking network call in the system
	if err != nil {
		return "", err // Transport-level failure
	}
	defer resp.Body.Close()
	body, _ := io.ReadAll(resp.Body) // Body is diagnostic on failure, answer on success
	// Any non-2xx status is an upstream failure
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return "", &Error{Status: resp.StatusCode, Body: string(body)}
	}
	// An empty successful body gets the fixed fallback answer
	if len(body) == 0 {
		return FallbackAnswer, nil
	}
	return string(body), nil
}
