package notify

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/rs/zerolog"
)

// ErrNotConfigured is returned by Send when no webhook URL is set.
var ErrNotConfigured = errors.New("webhook URL is not set")

// StatusError reports a non-2xx response from the webhook.
type StatusError struct {
	StatusCode int
	Body       string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("webhook returned status %d: %s", e.StatusCode, e.Body)
}

// Config holds the webhook endpoint settings.
type Config struct {
	URL     string
	Timeout time.Duration
}

// Webhook posts messages to an incoming-webhook endpoint as {"text": ...}.
// Delivery is a single attempt; failures are returned, never retried.
type Webhook struct {
	cfg        Config
	httpClient *http.Client
}

type payload struct {
	Text string `json:"text"`
}

// maxErrorBody bounds how much of an error response is kept for reporting.
const maxErrorBody = 4 << 10

// NewWebhook creates a Webhook notifier. A zero Timeout defaults to 30 seconds.
func NewWebhook(cfg Config) *Webhook {
	if cfg.Timeout == 0 {
		cfg.Timeout = 30 * time.Second
	}
	return &Webhook{
		cfg: cfg,
		httpClient: &http.Client{
			Timeout: cfg.Timeout,
		},
	}
}

// Configured reports whether a webhook URL is set.
func (w *Webhook) Configured() bool {
	return strings.TrimSpace(w.cfg.URL) != ""
}

// Send delivers message. It returns ErrNotConfigured without any network call
// when the URL is unset, and a *StatusError on a non-2xx response.
func (w *Webhook) Send(ctx context.Context, message string) error {
	if !w.Configured() {
		return ErrNotConfigured
	}
	logger := zerolog.Ctx(ctx)

	var body bytes.Buffer
	enc := json.NewEncoder(&body)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(payload{Text: message}); err != nil {
		return fmt.Errorf("encode payload: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, w.cfg.URL, &body)
	if err != nil {
		return fmt.Errorf("build webhook request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	logger.Debug().Int("bytes", body.Len()).Dur("timeout", w.cfg.Timeout).Msg("Posting report to webhook")
	resp, err := w.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("connect to webhook: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		raw, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
		return &StatusError{StatusCode: resp.StatusCode, Body: string(raw)}
	}

	_, _ = io.Copy(io.Discard, resp.Body)
	return nil
}
