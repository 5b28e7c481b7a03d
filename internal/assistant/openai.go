package assistant

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"

	"github.com/hammamikhairi/calcsite/internal/domain"
	"github.com/hammamikhairi/calcsite/internal/logger"
)

// ── Wire types ───────────────────────────────────────────────────

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatPayload struct {
	Messages    []chatMessage `json:"messages"`
	Temperature float64       `json:"temperature"`
	TopP        float64       `json:"top_p"`
	MaxTokens   int           `json:"max_tokens"`
	Model       string        `json:"model,omitempty"`
}

type chatResponse struct {
	Choices []struct {
		Message chatMessage `json:"message"`
	} `json:"choices"`
	Error *struct {
		Message string `json:"message"`
		Code    any    `json:"code"`
	} `json:"error"`
}

// OpenAI talks to an OpenAI-compatible chat-completions endpoint, including
// Azure deployments (the key goes in both the api-key and Authorization
// headers).
type OpenAI struct {
	apiKey string
	cfg    config
	http   *http.Client
	log    *logger.Logger
}

var _ domain.Assistant = (*OpenAI)(nil)

// NewOpenAI creates the backend. endpoint is the full chat/completions URL.
// The model may be empty for Azure deployments.
func NewOpenAI(endpoint, apiKey string, log *logger.Logger, opts ...Option) *OpenAI {
	cfg := newConfig(endpoint, "", opts)
	return &OpenAI{
		apiKey: apiKey,
		cfg:    cfg,
		http:   &http.Client{Timeout: cfg.timeout},
		log:    log,
	}
}

// Complete sends the transcript and returns the model's reply.
func (c *OpenAI) Complete(ctx context.Context, tr domain.Transcript) (string, error) {
	if c.apiKey == "" || c.cfg.endpoint == "" {
		return "", missingCredential("openai")
	}

	body := chatPayload{
		Messages:    chatMessages(c.cfg.system, tr),
		Temperature: c.cfg.temperature,
		TopP:        0.95,
		MaxTokens:   800,
		Model:       c.cfg.model,
	}
	jsonData, err := json.Marshal(body)
	if err != nil {
		return "", fmt.Errorf("assistant: marshal payload: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.cfg.endpoint, bytes.NewReader(jsonData))
	if err != nil {
		return "", fmt.Errorf("assistant: create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("api-key", c.apiKey)
	req.Header.Set("Authorization", "Bearer "+c.apiKey)

	c.log.Debug("POST %s (%d bytes)", c.cfg.endpoint, len(jsonData))

	resp, err := c.http.Do(req)
	if err != nil {
		return "", transportError(err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", transportError(err)
	}

	var result chatResponse
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
	if len(result.Choices) == 0 {
		return "", nil
	}

	reply := result.Choices[0].Message.Content
	c.log.Debug("reply (%d chars): %s", len(reply), truncate(reply, 120))
	return reply, nil
}

func chatMessages(system string, tr domain.Transcript) []chatMessage {
	msgs := make([]chatMessage, 0, len(tr)+1)
	if system != "" {
		msgs = append(msgs, chatMessage{Role: "system", Content: system})
	}
	for _, t := range tr {
		if t.Failed {
			continue
		}
		msgs = append(msgs, chatMessage{Role: t.Role, Content: t.Content})
	}
	return msgs
}
