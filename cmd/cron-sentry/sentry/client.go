package sentry

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	gonanoid "github.com/matoous/go-nanoid/v2"
	"github.com/sirupsen/logrus"
)

const (
	protocolVersion = "7"
	clientName      = "cron-sentry-go/1.0.0"

	eventIdAlphabet = "0123456789abcdef"
	eventIdLength   = 32
)

// Client delivers events to the store endpoint of a single Sentry project.
// Each event is a single synchronous POST; there are no retries and nothing
// is spooled.
type Client struct {
	dsn        *DSN
	httpClient *http.Client
}

func NewClient(dsn string) (*Client, error) {
	parsed, err := ParseDSN(dsn)
	if err != nil {
		return nil, err
	}

	return &Client{
		dsn:        parsed,
		httpClient: &http.Client{Timeout: 10 * time.Second},
	}, nil
}

type event struct {
	EventId   string         `json:"event_id"`
	Timestamp string         `json:"timestamp"`
	Message   string         `json:"message"`
	Logger    string         `json:"logger"`
	Level     string         `json:"level"`
	Platform  string         `json:"platform"`
	Extra     map[string]any `json:"extra,omitempty"`
	TimeSpent int64          `json:"time_spent"`
}

// CaptureMessage sends a single "cron" logger event and returns its id.
func (c *Client) CaptureMessage(ctx context.Context, message string, extra map[string]any, timeSpentMs int64) (string, error) {
	eventId, err := gonanoid.Generate(eventIdAlphabet, eventIdLength)
	if err != nil {
		return "", fmt.Errorf("Error generating the event id: %w", err)
	}

	now := time.Now().UTC()
	payload, err := json.Marshal(event{
		EventId:   eventId,
		Timestamp: now.Format("2006-01-02T15:04:05"),
		Message:   message,
		Logger:    "cron",
		Level:     "error",
		Platform:  "go",
		Extra:     extra,
		TimeSpent: timeSpentMs,
	})
	if err != nil {
		return "", fmt.Errorf("Error marshalling the event: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.dsn.StoreEndpoint(), bytes.NewReader(payload))
	if err != nil {
		return "", fmt.Errorf("Error creating the store request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("User-Agent", clientName)
	req.Header.Set("X-Sentry-Auth", c.authHeader(now))

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("Error delivering the event: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return "", fmt.Errorf("Event rejected by %s: %s: %s", c.dsn.Host, resp.Status, strings.TrimSpace(string(body)))
	}

	logrus.WithFields(logrus.Fields{
		"event_id": eventId,
		"host":     c.dsn.Host,
	}).Debug("Delivered the event")

	return eventId, nil
}

func (c *Client) authHeader(now time.Time) string {
	header := fmt.Sprintf(
		"Sentry sentry_version=%s, sentry_client=%s, sentry_timestamp=%d, sentry_key=%s",
		protocolVersion, clientName, now.Unix(), c.dsn.PublicKey,
	)
	if c.dsn.SecretKey != "" {
		header += fmt.Sprintf(", sentry_secret=%s", c.dsn.SecretKey)
	}
	return header
}
