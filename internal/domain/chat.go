package domain

// Chat roles.
const (
	RoleUser      = "user"
	RoleAssistant = "assistant"
)

// Turn is one message of an assistant conversation.
type Turn struct {
	Role    string `json:"role"`
	Content string `json:"content"`
	Failed  bool   `json:"failed,omitempty"` // assistant turn standing in for an error
}

// Transcript is the ordered conversation, oldest first.
type Transcript []Turn

// Append returns a new transcript with t added; the receiver is not modified.
func (tr Transcript) Append(t Turn) Transcript {
	out := make(Transcript, len(tr), len(tr)+1)
	copy(out, tr)
	return append(out, t)
}
