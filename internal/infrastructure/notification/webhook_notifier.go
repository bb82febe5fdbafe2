package notification

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/rs/zerolog"
	"github.com/sony/gobreaker"

	"github.com/iho/memledger/internal/domain"
)

// WebhookConfig for WebhookNotifier.
type WebhookConfig struct {
	URL             string
	Client          *http.Client
	Logger          zerolog.Logger
	BreakerFailures uint32        // Consecutive failures that open the breaker
	BreakerTimeout  time.Duration // How long the breaker stays open
}

// WebhookPayload is the JSON body posted for every notification.
type WebhookPayload struct {
	TransferID string `json:"transferId"`
	AccountID  string `json:"accountId"`
	Message    string `json:"message"`
}

// WebhookNotifier posts notifications to an HTTP endpoint behind a circuit breaker.
type WebhookNotifier struct {
	url     string
	client  *http.Client
	breaker *gobreaker.CircuitBreaker
}

// NewWebhookNotifier creates a new WebhookNotifier.
func NewWebhookNotifier(cfg WebhookConfig) *WebhookNotifier {
	if cfg.Client == nil {
		cfg.Client = &http.Client{Timeout: 10 * time.Second}
	}
	if cfg.BreakerFailures == 0 {
		cfg.BreakerFailures = 5
	}
	if cfg.BreakerTimeout <= 0 {
		cfg.BreakerTimeout = 30 * time.Second
	}

	logger := cfg.Logger
	failures := cfg.BreakerFailures

	breaker := gobreaker.NewCircuitBreaker(gobreaker.Settings{
		Name:        "notification-webhook",
		MaxRequests: 1,
		Timeout:     cfg.BreakerTimeout,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= failures
		},
		OnStateChange: func(name string, from gobreaker.State, to gobreaker.State) {
			logger.Warn().
				Str("breaker", name).
				Str("from", from.String()).
				Str("to", to.String()).
				Msg("circuit breaker state changed")
		},
	})

	return &WebhookNotifier{
		url:     cfg.URL,
		client:  cfg.Client,
		breaker: breaker,
	}
}

// Notify posts the notification. Any non-2xx response is an error.
func (n *WebhookNotifier) Notify(ctx context.Context, notification domain.Notification) error {
	_, err := n.breaker.Execute(func() (interface{}, error) {
		return nil, n.post(ctx, notification)
	})
	if err != nil {
		return fmt.Errorf("webhook notify: %w", err)
	}

	return nil
}

// State reports the circuit breaker state.
func (n *WebhookNotifier) State() gobreaker.State {
	return n.breaker.State()
}

func (n *WebhookNotifier) post(ctx context.Context, notification domain.Notification) error {
	body, err := json.Marshal(WebhookPayload{
		TransferID: notification.TransferID,
		AccountID:  notification.Account.ID,
		Message:    notification.Message,
	})
	if err != nil {
		return err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, n.url, bytes.NewReader(body))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := n.client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	_, _ = io.Copy(io.Discard, resp.Body)

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return fmt.Errorf("unexpected status %d", resp.StatusCode)
	}

	return nil
}
