// Package gemini implements the Summarizer port over the Gemini
// generateContent REST API.
package gemini

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/tidwall/gjson"

	"github.com/ericfisherdev/scanmaster/internal/domain/port/driven"
)

// Compile-time interface satisfaction check.
var _ driven.Summarizer = (*Client)(nil)

const (
	DefaultModel    = "gemini-3-flash-preview"
	DefaultEndpoint = "https://generativelanguage.googleapis.com/v1beta"

	temperature     = 0.7
	maxOutputTokens = 250
	maxResponseSize = 1 << 20
)

// Config controls how the Client reaches the API.
type Config struct {
	APIKey     string
	Model      string
	Endpoint   string
	HTTPClient *http.Client
}

type httpClient interface {
	Do(req *http.Request) (*http.Response, error)
}

// Client sends one generateContent request per summary. It never retries.
type Client struct {
	apiKey   string
	model    string
	endpoint string
	client   httpClient
}

// NewClient builds a Client from cfg. An API key is required.
func NewClient(cfg Config) (*Client, error) {
	apiKey := strings.TrimSpace(cfg.APIKey)
	if apiKey == "" {
		return nil, fmt.Errorf("gemini summarizer requires an API key")
	}

	model := strings.TrimSpace(cfg.Model)
	if model == "" {
		model = DefaultModel
	}

	endpoint := strings.TrimRight(strings.TrimSpace(cfg.Endpoint), "/")
	if endpoint == "" {
		endpoint = DefaultEndpoint
	}

	var hc httpClient = cfg.HTTPClient
	if cfg.HTTPClient == nil {
		hc = &http.Client{Timeout: 45 * time.Second}
	}

	return &Client{apiKey: apiKey, model: model, endpoint: endpoint, client: hc}, nil
}

// Summarize asks the model for a short description of req.Content and the
// actions worth taking on it.
func (c *Client) Summarize(ctx context.Context, req driven.SummaryRequest) (string, error) {
	body, err := json.Marshal(generateRequest{
		Contents: []content{{Parts: []part{{Text: buildPrompt(req)}}}},
		GenerationConfig: generationConfig{
			Temperature:     temperature,
			MaxOutputTokens: maxOutputTokens,
		},
	})
	if err != nil {
		return "", fmt.Errorf("marshal generate request: %w", err)
	}

	url := fmt.Sprintf("%s/models/%s:generateContent", c.endpoint, c.model)
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("build generate request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("x-goog-api-key", c.apiKey)

	resp, err := c.client.Do(httpReq)
	if err != nil {
		return "", fmt.Errorf("%w: %w", driven.ErrSummarizerUnavailable, err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseSize))
	if err != nil {
		return "", fmt.Errorf("%w: read response: %w", driven.ErrSummarizerUnavailable, err)
	}

	if resp.StatusCode >= 300 {
		if msg := gjson.GetBytes(raw, "error.message").String(); msg != "" {
			return "", fmt.Errorf("%w: HTTP %d: %s", driven.ErrSummarizerUnavailable, resp.StatusCode, msg)
		}
		return "", fmt.Errorf("%w: HTTP %d", driven.ErrSummarizerUnavailable, resp.StatusCode)
	}

	if reason := gjson.GetBytes(raw, "promptFeedback.blockReason").String(); reason != "" {
		return "", fmt.Errorf("%w: prompt blocked: %s", driven.ErrSummarizerUnavailable, reason)
	}

	return responseText(raw), nil
}

// responseText concatenates the text parts of the first candidate.
func responseText(raw []byte) string {
	var b strings.Builder
	for _, p := range gjson.GetBytes(raw, "candidates.0.content.parts.#.text").Array() {
		b.WriteString(p.String())
	}
	return strings.TrimSpace(b.String())
}

func buildPrompt(req driven.SummaryRequest) string {
	kind := req.KindHint
	if kind == "" {
		kind = "code"
	}

	var b strings.Builder
	fmt.Fprintf(&b, "Analyze the following scanned %s content: %q.\n", kind, req.Content)
	b.WriteString("Provide a concise summary of what it represents (URL, Product, WiFi, VCard, etc.) ")
	b.WriteString("and suggest the best actions to take. Keep it short and helpful.\n")
	b.WriteString("If it looks like a URL, explain what the site is about if you know it.\n")
	if req.PageTitle != "" {
		fmt.Fprintf(&b, "The linked page is titled %q.\n", req.PageTitle)
	}
	b.WriteString("If it's a series of numbers, try to identify if it's a specific product barcode.")
	return b.String()
}

type generateRequest struct {
	Contents         []content        `json:"contents"`
	GenerationConfig generationConfig `json:"generationConfig"`
}

type content struct {
	Parts []part `json:"parts"`
}

type part struct {
	Text string `json:"text"`
}

type generationConfig struct {
	Temperature     float64 `json:"temperature"`
	MaxOutputTokens int     `json:"maxOutputTokens"`
}
