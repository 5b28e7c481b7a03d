// Package assistant is the conversational AI collaborator: two HTTP
// backends (Gemini and OpenAI-compatible) behind domain.Assistant, and a
// Chat that owns the one-request-at-a-time rule and turns failures into
// readable assistant turns.
package assistant

import (
	"context"
	"fmt"
	"strings"
	"sync/atomic"
	"time"

	"github.com/hammamikhairi/calcsite/internal/domain"
	"github.com/hammamikhairi/calcsite/internal/logger"
	"github.com/hammamikhairi/calcsite/internal/metrics"
)

// Chat runs a conversation against a backend.
type Chat struct {
	backend domain.Assistant
	rec     metrics.Recorder
	log     *logger.Logger
	busy    atomic.Bool
}

// ChatOption configures a Chat.
type ChatOption func(*Chat)

// WithMetrics records every request under metrics.OpAssistant.
func WithMetrics(rec metrics.Recorder) ChatOption {
	return func(c *Chat) { c.rec = rec }
}

// NewChat wraps backend.
func NewChat(backend domain.Assistant, log *logger.Logger, opts ...ChatOption) *Chat {
	c := &Chat{backend: backend, rec: metrics.Nop{}, log: log}
	for _, o := range opts {
		o(c)
	}
	return c
}

// NewTranscript starts a conversation with the greeting.
func NewTranscript() domain.Transcript {
	return domain.Transcript{{Role: domain.RoleAssistant, Content: Greeting}}
}

// Busy reports whether a request is in flight.
func (c *Chat) Busy() bool { return c.busy.Load() }

// Send appends the user's text and the reply to tr and returns the new
// transcript. Blank text is ignored. A second Send while one is pending
// fails with domain.ErrAssistantBusy and leaves tr untouched. A backend
// failure is recorded as a Failed assistant turn carrying the categorized
// message, and the error is returned alongside the extended transcript.
func (c *Chat) Send(ctx context.Context, tr domain.Transcript, text string) (out domain.Transcript, err error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return tr, nil
	}
	if !c.busy.CompareAndSwap(false, true) {
		return tr, fmt.Errorf("assistant: send: %w", domain.ErrAssistantBusy)
	}
	defer c.busy.Store(false)
	defer metrics.Since(ctx, c.rec, metrics.OpAssistant, time.Now(), &err)

	out = tr.Append(domain.Turn{Role: domain.RoleUser, Content: text})

	reply, err := c.backend.Complete(ctx, out)
	if err != nil {
		c.log.Warn("request failed (%s): %v", KindOf(err), err)
		return out.Append(domain.Turn{Role: domain.RoleAssistant, Content: UserMessage(err), Failed: true}), err
	}
	if strings.TrimSpace(reply) == "" {
		reply = EmptyReply
	}
	return out.Append(domain.Turn{Role: domain.RoleAssistant, Content: reply}), nil
}
