package assistant

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/hammamikhairi/calcsite/internal/domain"
	"github.com/hammamikhairi/calcsite/internal/logger"
)

func quietLog() *logger.Logger { return logger.New(logger.LevelOff, nil) }

func TestGeminiComplete(t *testing.T) {
	var got geminiRequest
	var gotKey, gotPath string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotKey = r.Header.Get("x-goog-api-key")
		gotPath = r.URL.Path
		if err := json.NewDecoder(r.Body).Decode(&got); err != nil {
			t.Errorf("decode: %v", err)
		}
		w.Write([]byte(`{"candidates":[{"content":{"role":"model","parts":[{"text":"Use 12 mm "},{"text":"bars."}]}}]}`))
	}))
	defer srv.Close()

	g := NewGemini("k-123", quietLog(), WithEndpoint(srv.URL))
	tr := NewTranscript().
		Append(domain.Turn{Role: domain.RoleUser, Content: "first"}).
		Append(domain.Turn{Role: domain.RoleAssistant, Content: "oops", Failed: true}).
		Append(domain.Turn{Role: domain.RoleUser, Content: "rebar for a slab?"})

	reply, err := g.Complete(context.Background(), tr)
	if err != nil {
		t.Fatal(err)
	}
	if reply != "Use 12 mm bars." {
		t.Fatalf("reply = %q", reply)
	}
	if gotKey != "k-123" || gotPath != "/"+DefaultGeminiModel+":generateContent" {
		t.Fatalf("key=%q path=%q", gotKey, gotPath)
	}
	// Greeting and failed turn are not sent.
	if len(got.Contents) != 2 || got.Contents[0].Role != "user" || got.Contents[1].Parts[0].Text != "rebar for a slab?" {
		t.Fatalf("contents = %+v", got.Contents)
	}
	if got.SystemInstruction == nil || got.SystemInstruction.Parts[0].Text != SystemInstruction {
		t.Fatal("system instruction missing")
	}
	if got.GenerationConfig.Temperature != 0.7 {
		t.Fatalf("temperature = %v", got.GenerationConfig.Temperature)
	}
}

func TestGeminiContentsRoles(t *testing.T) {
	tr := domain.Transcript{
		{Role: domain.RoleUser, Content: "a"},
		{Role: domain.RoleAssistant, Content: "b"},
	}
	c := geminiContents(tr)
	if len(c) != 2 || c[1].Role != "model" {
		t.Fatalf("contents = %+v", c)
	}
}

func TestErrorKinds(t *testing.T) {
	tests := []struct {
		name   string
		status int
		body   string
		want   Kind
	}{
		{"unauthorized", 401, `{"error":{"code":401,"message":"denied"}}`, KindInvalidCredential},
		{"bad key as 400", 400, `{"error":{"code":400,"message":"API key not valid. Please pass a valid API key."}}`, KindInvalidCredential},
		{"quota", 429, `{"error":{"code":429,"message":"Resource has been exhausted"}}`, KindQuotaExceeded},
		{"server", 503, `unavailable`, KindNetwork},
		{"gateway timeout", 504, ``, KindTimeout},
		{"other 400", 400, `{"error":{"code":400,"message":"bad contents"}}`, KindUnknown},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.status)
				w.Write([]byte(tt.body))
			}))
			defer srv.Close()

			g := NewGemini("k", quietLog(), WithEndpoint(srv.URL))
			_, err := g.Complete(context.Background(), domain.Transcript{{Role: domain.RoleUser, Content: "q"}})
			var ae *Error
			if !errors.As(err, &ae) {
				t.Fatalf("err = %v, want *Error", err)
			}
			if ae.Kind != tt.want || ae.Status != tt.status {
				t.Fatalf("kind=%s status=%d, want %s %d", ae.Kind, ae.Status, tt.want, tt.status)
			}
		})
	}
}

func TestMissingCredential(t *testing.T) {
	for _, b := range []domain.Assistant{
		NewGemini("", quietLog()),
		NewOpenAI("http://localhost", "", quietLog()),
	} {
		_, err := b.Complete(context.Background(), nil)
		if KindOf(err) != KindMissingCredential {
			t.Fatalf("%T: kind = %s", b, KindOf(err))
		}
	}
}

func TestTimeout(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		time.Sleep(200 * time.Millisecond)
	}))
	defer srv.Close()

	g := NewGemini("k", quietLog(), WithEndpoint(srv.URL), WithTimeout(20*time.Millisecond))
	_, err := g.Complete(context.Background(), domain.Transcript{{Role: domain.RoleUser, Content: "q"}})
	if KindOf(err) != KindTimeout {
		t.Fatalf("kind = %s (%v)", KindOf(err), err)
	}
}

func TestNetworkError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	url := srv.URL
	srv.Close()

	g := NewGemini("k", quietLog(), WithEndpoint(url))
	_, err := g.Complete(context.Background(), domain.Transcript{{Role: domain.RoleUser, Content: "q"}})
	if KindOf(err) != KindNetwork {
		t.Fatalf("kind = %s (%v)", KindOf(err), err)
	}
	if UserMessage(err) != GenericFailure {
		t.Fatalf("message = %q", UserMessage(err))
	}
}

func TestOpenAIComplete(t *testing.T) {
	var got chatPayload
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("api-key") != "sk" {
			w.WriteHeader(http.StatusUnauthorized)
			return
		}
		json.NewDecoder(r.Body).Decode(&got)
		w.Write([]byte(`{"choices":[{"message":{"role":"assistant","content":"M20 is 1:1.5:3"}}]}`))
	}))
	defer srv.Close()

	c := NewOpenAI(srv.URL, "sk", quietLog(), WithModel("gpt-4o-mini"))
	reply, err := c.Complete(context.Background(), NewTranscript().Append(domain.Turn{Role: domain.RoleUser, Content: "M20?"}))
	if err != nil {
		t.Fatal(err)
	}
	if reply != "M20 is 1:1.5:3" {
		t.Fatalf("reply = %q", reply)
	}
	if got.Model != "gpt-4o-mini" || len(got.Messages) != 3 || got.Messages[0].Role != "system" {
		t.Fatalf("payload = %+v", got)
	}
}

func TestDistinctMessages(t *testing.T) {
	seen := map[string]Kind{}
	for k, m := range kindMessages {
		if k == KindNetwork {
			continue
		}
		if prev, dup := seen[m]; dup {
			t.Fatalf("%s and %s share a message", k, prev)
		}
		seen[m] = k
	}
	if UserMessage(errors.New("boom")) != GenericFailure {
		t.Fatal("foreign errors should map to the generic message")
	}
}

// ── Chat ─────────────────────────────────────────────────────────

type stubBackend struct {
	reply string
	err   error
	gate  chan struct{}
}

func (s *stubBackend) Complete(ctx context.Context, _ domain.Transcript) (string, error) {
	if s.gate != nil {
		<-s.gate
	}
	return s.reply, s.err
}

func TestChatSend(t *testing.T) {
	c := NewChat(&stubBackend{reply: "Cover is 20 mm."}, quietLog())
	tr := NewTranscript()

	out, err := c.Send(context.Background(), tr, "  slab cover?  ")
	if err != nil {
		t.Fatal(err)
	}
	if len(tr) != 1 {
		t.Fatal("input transcript was modified")
	}
	if len(out) != 3 || out[1].Content != "slab cover?" || out[2].Content != "Cover is 20 mm." {
		t.Fatalf("transcript = %+v", out)
	}

	same, err := c.Send(context.Background(), out, "   ")
	if err != nil || len(same) != 3 {
		t.Fatalf("blank send changed transcript: %d %v", len(same), err)
	}
}

func TestChatEmptyReply(t *testing.T) {
	c := NewChat(&stubBackend{reply: "  "}, quietLog())
	out, err := c.Send(context.Background(), nil, "q")
	if err != nil {
		t.Fatal(err)
	}
	if out[len(out)-1].Content != EmptyReply {
		t.Fatalf("last = %q", out[len(out)-1].Content)
	}
}

func TestChatFailureTurn(t *testing.T) {
	c := NewChat(&stubBackend{err: &Error{Kind: KindQuotaExceeded, Status: 429, Err: errors.New("x")}}, quietLog())
	out, err := c.Send(context.Background(), nil, "q")
	if KindOf(err) != KindQuotaExceeded {
		t.Fatalf("err = %v", err)
	}
	last := out[len(out)-1]
	if !last.Failed || last.Content != kindMessages[KindQuotaExceeded] {
		t.Fatalf("last turn = %+v", last)
	}
	if c.Busy() {
		t.Fatal("still busy after failure")
	}
}

func TestChatBusy(t *testing.T) {
	stub := &stubBackend{reply: "ok", gate: make(chan struct{})}
	c := NewChat(stub, quietLog())

	done := make(chan struct{})
	go func() {
		defer close(done)
		c.Send(context.Background(), nil, "first")
	}()
	for !c.Busy() {
		time.Sleep(time.Millisecond)
	}

	tr := domain.Transcript{{Role: domain.RoleUser, Content: "x"}}
	out, err := c.Send(context.Background(), tr, "second")
	if !errors.Is(err, domain.ErrAssistantBusy) {
		t.Fatalf("err = %v", err)
	}
	if len(out) != 1 {
		t.Fatal("busy send modified transcript")
	}
	close(stub.gate)
	<-done
}
