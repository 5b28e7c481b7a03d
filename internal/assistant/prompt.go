package assistant

// SystemInstruction frames every conversation.
const SystemInstruction = "You are CalcSite Pro AI, an expert structural engineer. " +
	"Provide precise technical advice, rebar estimations, and concrete standards " +
	"(e.g., IS 456, ACI 318). Be professional, highly technical where needed, and helpful."

// Greeting opens a new conversation.
const Greeting = "CalcSite Pro AI here. I can help with rebar sizes, concrete mix ratios, " +
	"structural codes, or complex material estimations. What's on your mind?"

// EmptyReply stands in for a response with no text.
const EmptyReply = "I apologize, I could not process that specific engineering query."

// DefaultTemperature is the sampling temperature for both backends.
const DefaultTemperature = 0.7

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n-3] + "..."
}
