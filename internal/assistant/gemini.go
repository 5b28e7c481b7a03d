package assistant

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/hammamikhairi/calcsite/internal/domain"
	"github.com/hammamikhairi/calcsite/internal/logger"
)

// Gemini defaults.
const (
	DefaultGeminiEndpoint = "https://generativelanguage.googleapis.com/v1beta/models"
	DefaultGeminiModel    = "gemini-2.0-flash"
)

// ── Wire types ───────────────────────────────────────────────────

type geminiPart struct {
	Text string `json:"text"`
}

type geminiContent struct {
	Role  string       `json:"role,omitempty"`
	Parts []geminiPart `json:"parts"`
}

type geminiConfig struct {
	Temperature float64 `json:"temperature"`
}

type geminiRequest struct {
	SystemInstruction *geminiContent  `json:"systemInstruction,omitempty"`
	Contents          []geminiContent `json:"contents"`
	GenerationConfig  geminiConfig    `json:"generationConfig"`
}

type geminiResponse struct {
	Candidates []struct {
		Content geminiContent `json:"content"`
	} `json:"candidates"`
	Error *struct {
		Code    int    `json:"code"`
		Message string `json:"message"`
		Status  string `json:"status"`
	} `json:"error"`
}

// ── Client ───────────────────────────────────────────────────────

// Option configures a backend.
type Option func(*config)

type config struct {
	endpoint    string
	model       string
	temperature float64
	timeout     time.Duration
	system      string
}

// WithEndpoint overrides the service URL.
func WithEndpoint(url string) Option {
	return func(c *config) { c.endpoint = url }
}

// WithModel overrides the model name.
func WithModel(model string) Option {
	return func(c *config) { c.model = model }
}

// WithTemperature overrides the sampling temperature.
func WithTemperature(t float64) Option {
	return func(c *config) { c.temperature = t }
}

// WithTimeout sets the HTTP client timeout.
func WithTimeout(d time.Duration) Option {
	return func(c *config) { c.timeout = d }
}

// WithSystemInstruction replaces SystemInstruction.
func WithSystemInstruction(s string) Option {
	return func(c *config) { c.system = s }
}

func newConfig(endpoint, model string, opts []Option) config {
	c := config{
		endpoint:    endpoint,
		model:       model,
		temperature: DefaultTemperature,
		timeout:     30 * time.Second,
		system:      SystemInstruction,
	}
	for _, o := range opts {
		o(&c)
	}
	return c
}

// Gemini calls the Google generateContent API.
type Gemini struct {
	apiKey string
	cfg    config
	http   *http.Client
	log    *logger.Logger
}

var _ domain.Assistant = (*Gemini)(nil)

// NewGemini creates a Gemini backend. An empty apiKey is allowed; every
// request then fails with KindMissingCredential.
func NewGemini(apiKey string, log *logger.Logger, opts ...Option) *Gemini {
	cfg := newConfig(DefaultGeminiEndpoint, DefaultGeminiModel, opts)
	return &Gemini{
		apiKey: apiKey,
		cfg:    cfg,
		http:   &http.Client{Timeout: cfg.timeout},
		log:    log,
	}
}

// Complete sends the transcript and returns the model's reply.
func (g *Gemini) Complete(ctx context.Context, tr domain.Transcript) (string, error) {
	if g.apiKey == "" {
		return "", missingCredential("gemini")
	}

	body := geminiRequest{
		Contents:         geminiContents(tr),
		GenerationConfig: geminiConfig{Temperature: g.cfg.temperature},
	}
	if g.cfg.system != "" {
		body.SystemInstruction = &geminiContent{Parts: []geminiPart{{Text: g.cfg.system}}}
	}
	jsonData, err := json.Marshal(body)
	if err != nil {
		return "", fmt.Errorf("assistant: marshal gemini request: %w", err)
	}

	url := fmt.Sprintf("%s/%s:generateContent", strings.TrimRight(g.cfg.endpoint, "/"), g.cfg.model)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(jsonData))
	if err != nil {
		return "", fmt.Errorf("assistant: create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("x-goog-api-key", g.apiKey)

	g.log.Debug("POST %s (%d turns, %d bytes)", url, len(body.Contents), len(jsonData))

	resp, err := g.http.Do(req)
	if err != nil {
		return "", transportError(err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", transportError(err)
	}

	var result geminiResponse
	decodeErr := json.Unmarshal(respBody, &result)

	if resp.StatusCode != http.StatusOK {
		detail := ""
		if decodeErr == nil && result.Error != nil {
			detail = result.Error.Message
		}
		return "", statusError(resp.StatusCode, detail)
	}
	if decodeErr != nil {
		return "", &Error{Kind: KindUnknown, Status: resp.StatusCode, Err: fmt.Errorf("decode response: %w", decodeErr)}
	}
	if result.Error != nil {
		return "", statusError(result.Error.Code, result.Error.Message)
	}

	var b strings.Builder
	if len(result.Candidates) > 0 {
		for _, p := range result.Candidates[0].Content.Parts {
			b.WriteString(p.Text)
		}
	}
	reply := b.String()
	g.log.Debug("reply (%d chars): %s", len(reply), truncate(reply, 120))
	return reply, nil
}

// geminiContents maps the transcript to Gemini's user/model roles. Failed
// turns are local notices and never sent; leading assistant turns are
// dropped because a conversation must open with the user.
func geminiContents(tr domain.Transcript) []geminiContent {
	out := make([]geminiContent, 0, len(tr))
	for _, t := range tr {
		if t.Failed {
			continue
		}
		role := "user"
		if t.Role == domain.RoleAssistant {
			if len(out) == 0 {
				continue
			}
			role = "model"
		}
		out = append(out, geminiContent{Role: role, Parts: []geminiPart{{Text: t.Content}}})
	}
	return out
}
