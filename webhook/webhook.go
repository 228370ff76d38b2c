package webhook

import (
	"bytes"
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/use-agent/jobpilot/models"
)

// EventRunCompleted is sent once a run has finished, successfully or not.
const EventRunCompleted = "run.completed"

// SignatureHeader carries the HMAC-SHA256 of the body when a secret is set.
const SignatureHeader = "X-Jobpilot-Signature"

// Event is the payload sent to webhook endpoints.
type Event struct {
	Type      string        `json:"type"`
	RunID     string        `json:"run_id"`
	Timestamp int64         `json:"timestamp"`
	Applied   int           `json:"applied"`
	Cancelled int           `json:"cancelled"`
	Error     string        `json:"error,omitempty"`
	Batch     *models.Batch `json:"batch"`
}

// NewRunCompleted builds the event for a finished batch. runErr is the error
// that ended the run, if any.
func NewRunCompleted(b *models.Batch, runErr error) *Event {
	e := &Event{
		Type:      EventRunCompleted,
		RunID:     b.RunID,
		Timestamp: time.Now().Unix(),
		Applied:   b.Applied(),
		Cancelled: b.Cancelled(),
		Batch:     b,
	}
	if runErr != nil {
		e.Error = runErr.Error()
	}
	return e
}

// Sign returns the signature header value for body.
func Sign(secret string, body []byte) string {
	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write(body)
	return "sha256=" + hex.EncodeToString(mac.Sum(nil))
}

// Deliver sends a webhook event synchronously.
// The request body is signed with HMAC-SHA256 if secret is non-empty.
func Deliver(ctx context.Context, url, secret string, event *Event) error {
	body, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("webhook: marshal event: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("webhook: create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("User-Agent", "Jobpilot-Webhook/1.0")
	if secret != "" {
		req.Header.Set(SignatureHeader, Sign(secret, body))
	}

	client := &http.Client{Timeout: 10 * time.Second}
	resp, err := client.Do(req)
	if err != nil {
		return fmt.Errorf("webhook: deliver: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		return fmt.Errorf("webhook: endpoint returned status %d", resp.StatusCode)
	}
	return nil
}
