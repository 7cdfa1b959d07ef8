// Package webhook delivers outbound notifications (new reservations, new
// feedback, materialized events) to configured HTTP endpoints.
package webhook

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log"
	"net/http"
	"time"

	"github.com/doyensec/safeurl"
	"github.com/google/uuid"

	"github.com/stadiumhouse/blueline/internal/metrics"
)

// RetryPolicy is the explicit delivery retry configuration: a fixed attempt
// cap with exponential backoff between attempts.
type RetryPolicy struct {
	// MaxAttempts is the total number of tries, including the first.
	MaxAttempts int
	// InitialDelay is the wait before the second attempt.
	InitialDelay time.Duration
	// Multiplier scales the delay after each failed attempt.
	Multiplier float64
}

// DefaultRetryPolicy is 3 attempts with 500ms initial delay, doubling.
func DefaultRetryPolicy() RetryPolicy {
	return RetryPolicy{
		MaxAttempts:  3,
		InitialDelay: 500 * time.Millisecond,
		Multiplier:   2.0,
	}
}

// Sender posts JSON payloads to webhook endpoints with retry.
type Sender struct {
	client *http.Client
	policy RetryPolicy
}

// NewSender creates a sender whose HTTP client refuses private, loopback and
// link-local destinations, so an operator-supplied webhook URL can't be
// pointed at internal services.
func NewSender(policy RetryPolicy) *Sender {
	config := safeurl.GetConfigBuilder().
		SetTimeout(10 * time.Second).
		SetAllowedSchemes("http", "https").
		SetAllowedPorts(80, 443).
		Build()

	return NewSenderWithClient(safeurl.Client(config).Client, policy)
}

// NewSenderWithClient creates a sender over an explicit HTTP client. Used by
// tests to reach local endpoints the SSRF-safe client would block.
func NewSenderWithClient(client *http.Client, policy RetryPolicy) *Sender {
	if policy.MaxAttempts < 1 {
		policy.MaxAttempts = 1
	}
	if policy.Multiplier < 1 {
		policy.Multiplier = 1
	}
	return &Sender{client: client, policy: policy}
}

// Send posts the payload as JSON to url, retrying per the policy on transport
// errors and 5xx responses. A 4xx response is treated as permanent and not
// retried. Each delivery carries a unique X-Delivery-ID across its attempts.
func (s *Sender) Send(ctx context.Context, url, eventType string, payload interface{}) error {
	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("encoding webhook payload: %w", err)
	}

	deliveryID := uuid.NewString()
	delay := s.policy.InitialDelay

	var lastErr error
	for attempt := 1; attempt <= s.policy.MaxAttempts; attempt++ {
		if attempt > 1 {
			select {
			case <-time.After(delay):
			case <-ctx.Done():
				metrics.WebhookDeliveries.WithLabelValues("failed").Inc()
				return ctx.Err()
			}
			delay = time.Duration(float64(delay) * s.policy.Multiplier)
		}

		lastErr = s.post(ctx, url, eventType, deliveryID, body)
		if lastErr == nil {
			metrics.WebhookDeliveries.WithLabelValues("delivered").Inc()
			return nil
		}

		var permanent *permanentError
		if errors.As(lastErr, &permanent) {
			break
		}

		log.Printf("[webhook] delivery %s attempt %d/%d failed: %v", deliveryID, attempt, s.policy.MaxAttempts, lastErr)
	}

	metrics.WebhookDeliveries.WithLabelValues("failed").Inc()
	return fmt.Errorf("webhook delivery %s failed: %w", deliveryID, lastErr)
}

func (s *Sender) post(ctx context.Context, url, eventType, deliveryID string, body []byte) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-Event-Type", eventType)
	req.Header.Set("X-Delivery-ID", deliveryID)

	resp, err := s.client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	io.Copy(io.Discard, resp.Body)

	switch {
	case resp.StatusCode >= 200 && resp.StatusCode < 300:
		return nil
	case resp.StatusCode >= 400 && resp.StatusCode < 500:
		return &permanentError{status: resp.StatusCode}
	default:
		return fmt.Errorf("endpoint returned status %d", resp.StatusCode)
	}
}

type permanentError struct {
	status int
}

func (e *permanentError) Error() string {
	return fmt.Sprintf("endpoint rejected delivery with status %d", e.status)
}
