package gemini

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ericfisherdev/scanmaster/internal/domain/port/driven"
)

func newTestClient(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	c, err := NewClient(Config{APIKey: "test-key", Endpoint: srv.URL + "/", HTTPClient: srv.Client()})
	require.NoError(t, err)
	return c
}

func TestNewClient_RequiresAPIKey(t *testing.T) {
	_, err := NewClient(Config{APIKey: "   "})
	assert.Error(t, err)
}

func TestNewClient_Defaults(t *testing.T) {
	c, err := NewClient(Config{APIKey: "k"})
	require.NoError(t, err)
	assert.Equal(t, DefaultModel, c.model)
	assert.Equal(t, DefaultEndpoint, c.endpoint)
}

func TestSummarize_SendsPromptAndParsesText(t *testing.T) {
	var gotPath, gotKey string
	var gotBody generateRequest

	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotKey = r.Header.Get("x-goog-api-key")
		raw, _ := io.ReadAll(r.Body)
		_ = json.Unmarshal(raw, &gotBody)

		w.Header().Set("Content-Type", "application/json")
		_, _ = io.WriteString(w, `{"candidates":[{"content":{"parts":[{"text":"A link to "},{"text":"example.com. "}]}}]}`)
	})

	text, err := c.Summarize(context.Background(), driven.SummaryRequest{
		Content:   "https://example.com",
		KindHint:  "QR_CODE",
		PageTitle: "Example Domain",
	})

	require.NoError(t, err)
	assert.Equal(t, "A link to example.com.", text)
	assert.Equal(t, "/models/gemini-3-flash-preview:generateContent", gotPath)
	assert.Equal(t, "test-key", gotKey)
	assert.InDelta(t, 0.7, gotBody.GenerationConfig.Temperature, 1e-9)
	assert.Equal(t, 250, gotBody.GenerationConfig.MaxOutputTokens)
	require.Len(t, gotBody.Contents, 1)
	prompt := gotBody.Contents[0].Parts[0].Text
	assert.Contains(t, prompt, `scanned QR_CODE content: "https://example.com"`)
	assert.Contains(t, prompt, `titled "Example Domain"`)
}

func TestSummarize_EmptyCandidates(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, _ *http.Request) {
		_, _ = io.WriteString(w, `{"candidates":[]}`)
	})

	text, err := c.Summarize(context.Background(), driven.SummaryRequest{Content: "x"})

	require.NoError(t, err)
	assert.Empty(t, text)
}

func TestSummarize_Failures(t *testing.T) {
	tests := []struct {
		name    string
		status  int
		body    string
		wantMsg string
	}{
		{"api error message", http.StatusForbidden, `{"error":{"code":403,"message":"API key not valid"}}`, "API key not valid"},
		{"bare status", http.StatusBadGateway, `upstream down`, "HTTP 502"},
		{"blocked prompt", http.StatusOK, `{"promptFeedback":{"blockReason":"SAFETY"}}`, "SAFETY"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := newTestClient(t, func(w http.ResponseWriter, _ *http.Request) {
				w.WriteHeader(tt.status)
				_, _ = io.WriteString(w, tt.body)
			})

			_, err := c.Summarize(context.Background(), driven.SummaryRequest{Content: "x"})

			require.Error(t, err)
			assert.ErrorIs(t, err, driven.ErrSummarizerUnavailable)
			assert.Contains(t, err.Error(), tt.wantMsg)
		})
	}
}

func TestSummarize_DeadlineIsReported(t *testing.T) {
	release := make(chan struct{})
	c := newTestClient(t, func(_ http.ResponseWriter, r *http.Request) {
		select {
		case <-release:
		case <-r.Context().Done():
		}
	})
	t.Cleanup(func() { close(release) })

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()

	_, err := c.Summarize(ctx, driven.SummaryRequest{Content: "x"})

	assert.ErrorIs(t, err, context.DeadlineExceeded)
	assert.ErrorIs(t, err, driven.ErrSummarizerUnavailable)
}

func TestBuildPrompt_DefaultsKind(t *testing.T) {
	prompt := buildPrompt(driven.SummaryRequest{Content: "12345"})
	assert.Contains(t, prompt, "scanned code content")
	assert.NotContains(t, prompt, "titled")
}
