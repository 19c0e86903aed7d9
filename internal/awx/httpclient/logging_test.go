package httpclient

import (
	"bytes"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"testing"

	"github.com/awxops/igsync/internal/log"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type roundTripFunc func(req *http.Request) (*http.Response, error)

func (fn roundTripFunc) RoundTrip(req *http.Request) (*http.Response, error) {
	return fn(req)
}

func newStubClient(status int, body string) *http.Client {
	return &http.Client{
		Transport: roundTripFunc(func(req *http.Request) (*http.Response, error) {
			return &http.Response{
				StatusCode: status,
				Status:     http.StatusText(status),
				Header:     http.Header{"Content-Type": []string{"application/json"}},
				Body:       io.NopCloser(strings.NewReader(body)),
				Request:    req,
			}, nil
		}),
	}
}

func parseJSONLogs(t *testing.T, raw string) []map[string]any {
	t.Helper()
	var logs []map[string]any
	for _, line := range strings.Split(strings.TrimSpace(raw), "\n") {
		if line == "" {
			continue
		}
		var entry map[string]any
		require.NoError(t, json.Unmarshal([]byte(line), &entry))
		logs = append(logs, entry)
	}
	return logs
}

func TestLoggingHTTPClientRedactsAuthorizationHeader(t *testing.T) {
	var logOutput bytes.Buffer
	logger := slog.New(slog.NewJSONHandler(&logOutput, &slog.HandlerOptions{
		Level: log.LevelTrace,
	}))

	client := NewLoggingHTTPClientWithClient(newStubClient(http.StatusOK, `{"ok":true}`), logger)

	req, err := http.NewRequest(http.MethodGet, "https://awx.example.com/api/v2/organizations/", nil)
	require.NoError(t, err)
	req.Header.Set("Authorization", "Bearer super-secret")

	resp, err := client.Do(req)
	require.NoError(t, err)
	require.NotNil(t, resp)

	logs := parseJSONLogs(t, logOutput.String())
	require.Len(t, logs, 2)

	headers, ok := logs[0]["headers"].(map[string]any)
	require.True(t, ok)
	assert.Equal(t, "[REDACTED]", headers["Authorization"])
	assert.NotContains(t, logOutput.String(), "super-secret")
}

func TestLoggingHTTPClientSkipsLoggingBelowTrace(t *testing.T) {
	var logOutput bytes.Buffer
	logger := slog.New(slog.NewJSONHandler(&logOutput, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	}))

	client := NewLoggingHTTPClientWithClient(newStubClient(http.StatusOK, `{}`), logger)

	req, err := http.NewRequest(http.MethodGet, "https://awx.example.com/api/v2/ping/", nil)
	require.NoError(t, err)

	_, err = client.Do(req)
	require.NoError(t, err)
	assert.Empty(t, logOutput.String())
}

func TestLoggingHTTPClientPreservesErrorBody(t *testing.T) {
	var logOutput bytes.Buffer
	logger := slog.New(slog.NewJSONHandler(&logOutput, &slog.HandlerOptions{
		Level: log.LevelTrace,
	}))

	client := NewLoggingHTTPClientWithClient(
		newStubClient(http.StatusNotFound, `{"detail":"Not found."}`), logger)

	req, err := http.NewRequest(http.MethodGet, "https://awx.example.com/api/v2/teams/999/", nil)
	require.NoError(t, err)

	resp, err := client.Do(req)
	require.NoError(t, err)

	// the body must still be readable by the caller after peeking
	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	assert.JSONEq(t, `{"detail":"Not found."}`, string(body))

	logs := parseJSONLogs(t, logOutput.String())
	require.Len(t, logs, 2)
	assert.Contains(t, logs[1]["error_body"], "Not found")
}
