package sentry

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCaptureMessage(t *testing.T) {
	var (
		gotPath string
		gotAuth string
		gotBody map[string]any
		calls   int
	)
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
		gotPath = r.URL.Path
		gotAuth = r.Header.Get("X-Sentry-Auth")
		require.NoError(t, json.NewDecoder(r.Body).Decode(&gotBody))
		w.WriteHeader(http.StatusOK)
	}))
	defer server.Close()

	host := strings.TrimPrefix(server.URL, "http://")
	client, err := NewClient(fmt.Sprintf("http://public:secret@%s/42", host))
	require.NoError(t, err)

	eventId, err := client.CaptureMessage(context.Background(), `Command "false" failed`, map[string]any{
		"exit_status": 1,
	}, 250)
	require.NoError(t, err)

	assert.Equal(t, 1, calls)
	assert.Equal(t, "/api/42/store/", gotPath)
	assert.Contains(t, gotAuth, "Sentry sentry_version=7")
	assert.Contains(t, gotAuth, "sentry_key=public")
	assert.Contains(t, gotAuth, "sentry_secret=secret")

	assert.Len(t, eventId, 32)
	assert.Equal(t, eventId, gotBody["event_id"])
	assert.Equal(t, `Command "false" failed`, gotBody["message"])
	assert.Equal(t, "cron", gotBody["logger"])
	assert.Equal(t, "error", gotBody["level"])
	assert.Equal(t, "go", gotBody["platform"])
	assert.Equal(t, float64(250), gotBody["time_spent"])
	extra, ok := gotBody["extra"].(map[string]any)
	require.True(t, ok)
	assert.Equal(t, float64(1), extra["exit_status"])
}

func TestCaptureMessageWithoutSecret(t *testing.T) {
	var gotAuth string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("X-Sentry-Auth")
	}))
	defer server.Close()

	host := strings.TrimPrefix(server.URL, "http://")
	client, err := NewClient(fmt.Sprintf("http://public@%s/1", host))
	require.NoError(t, err)

	_, err = client.CaptureMessage(context.Background(), "msg", nil, 0)
	require.NoError(t, err)
	assert.NotContains(t, gotAuth, "sentry_secret")
}

func TestCaptureMessageRejected(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "invalid key", http.StatusForbidden)
	}))
	defer server.Close()

	host := strings.TrimPrefix(server.URL, "http://")
	client, err := NewClient(fmt.Sprintf("http://public@%s/1", host))
	require.NoError(t, err)

	_, err = client.CaptureMessage(context.Background(), "msg", nil, 0)
	require.ErrorContains(t, err, "403")
	require.ErrorContains(t, err, "invalid key")
}

func TestNewClientInvalidDsn(t *testing.T) {
	_, err := NewClient("https://example.com/1")
	require.Error(t, err)
}
