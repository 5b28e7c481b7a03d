// Package conversation turns REPL lines into intents and delivers short
// toast-style notices back to the user.
package conversation

import (
	"context"
	"regexp"
	"strings"

	"github.com/hammamikhairi/calcsite/internal/domain"
	"github.com/hammamikhairi/calcsite/internal/logger"
)

// Compile-time interface check.
var _ domain.IntentParser = (*KeywordParser)(nil)

// KeywordParser matches prompt input against command words. The first
// word decides the intent and the rest of the line becomes the payload.
type KeywordParser struct {
	log      *logger.Logger
	patterns []patternRule
	tools    map[string]bool
}

type patternRule struct {
	regex  *regexp.Regexp
	intent domain.IntentType
}

// assignment matches "key=value" or "key = value" pairs.
var assignment = regexp.MustCompile(`^[A-Za-z_][\w-]*\s*=`)

// NewKeywordParser creates the parser. Any of toolIDs typed on its own
// opens that tool.
func NewKeywordParser(log *logger.Logger, toolIDs ...string) *KeywordParser {
	p := &KeywordParser{log: log, tools: make(map[string]bool, len(toolIDs))}
	for _, id := range toolIDs {
		p.tools[strings.ToLower(id)] = true
	}
	p.patterns = []patternRule{
		{regexp.MustCompile(`(?i)^(help|h|\?)$`), domain.IntentHelp},
		{regexp.MustCompile(`(?i)^(quit|exit|q)$`), domain.IntentQuit},
		{regexp.MustCompile(`(?i)^(home|menu|categories|tools)$`), domain.IntentHome},
		{regexp.MustCompile(`(?i)^(category|cat)\b`), domain.IntentCategory},
		{regexp.MustCompile(`(?i)^(search|find)\b`), domain.IntentSearch},
		{regexp.MustCompile(`(?i)^(open|calc|tool)\b`), domain.IntentOpenTool},
		{regexp.MustCompile(`(?i)^set\b`), domain.IntentSetInput},
		{regexp.MustCompile(`(?i)^(result|show|r)$`), domain.IntentShowResult},
		{regexp.MustCompile(`(?i)^(back|b|close)$`), domain.IntentBack},
		{regexp.MustCompile(`(?i)^(add|commit|\+)$`), domain.IntentCommit},
		{regexp.MustCompile(`(?i)^(boq|ledger|list|bill)$`), domain.IntentShowLedger},
		{regexp.MustCompile(`(?i)^(remove|rm|del|delete)\b`), domain.IntentRemoveItem},
		{regexp.MustCompile(`(?i)^clear( (boq|ledger|all))?$`), domain.IntentClearLedger},
		{regexp.MustCompile(`(?i)^(export|share)\b`), domain.IntentExport},
		{regexp.MustCompile(`(?i)^(currency|cur)\b`), domain.IntentCurrency},
		{regexp.MustCompile(`(?i)^(rates?)\b`), domain.IntentRates},
		{regexp.MustCompile(`(?i)^(projects?|site)\b`), domain.IntentProjects},
		{regexp.MustCompile(`(?i)^(convert|conv)\b`), domain.IntentConvert},
		{regexp.MustCompile(`(?i)^(ref|reference|tables)\b`), domain.IntentReference},
		{regexp.MustCompile(`(?i)^theme\b`), domain.IntentTheme},
		{regexp.MustCompile(`(?i)^(onboard|trades)\b`), domain.IntentOnboard},
		{regexp.MustCompile(`(?i)^(yes|y|confirm)$`), domain.IntentConfirm},
		{regexp.MustCompile(`(?i)^(no|n|cancel)$`), domain.IntentCancel},
		{regexp.MustCompile(`(?i)^(ask|ai)\b`), domain.IntentAskQuestion},
	}
	return p
}

// Parse converts user input into an intent.
func (p *KeywordParser) Parse(ctx context.Context, input string) (*domain.Intent, error) {
	trimmed := strings.TrimSpace(input)
	if trimmed == "" {
		return &domain.Intent{Type: domain.IntentUnknown}, nil
	}

	p.log.Debug("parsing input: %q", trimmed)

	if assignment.MatchString(trimmed) {
		return &domain.Intent{Type: domain.IntentSetInput, Payload: trimmed}, nil
	}
	if p.tools[strings.ToLower(trimmed)] {
		return &domain.Intent{Type: domain.IntentOpenTool, Payload: strings.ToLower(trimmed)}, nil
	}

	for _, rule := range p.patterns {
		if loc := rule.regex.FindStringIndex(trimmed); loc != nil {
			p.log.Debug("matched intent: %s", rule.intent)
			return &domain.Intent{Type: rule.intent, Payload: strings.TrimSpace(trimmed[loc[1]:])}, nil
		}
	}

	if isQuestion(trimmed) {
		return &domain.Intent{Type: domain.IntentAskQuestion, Payload: trimmed}, nil
	}

	p.log.Debug("no match, returning unknown intent")
	return &domain.Intent{Type: domain.IntentUnknown, Payload: trimmed}, nil
}

// questionPrefixes are common English question starters.
var questionPrefixes = []string{
	"how", "what", "why", "when", "where", "which", "who",
	"can", "could", "should", "would", "will", "do", "does", "is", "are",
	"tell me", "explain",
}

// isQuestion returns true if the input looks like a question.
func isQuestion(s string) bool {
	if strings.HasSuffix(s, "?") {
		return true
	}
	lower := strings.ToLower(s)
	for _, prefix := range questionPrefixes {
		if strings.HasPrefix(lower, prefix+" ") || lower == prefix {
			return true
		}
	}
	return false
}

// Assignments splits "a=1 b = 2, c=x" into ordered key/value pairs.
// Values run until the next key or comma.
func Assignments(payload string) [][2]string {
	var out [][2]string
	fields := strings.FieldsFunc(payload, func(r rune) bool { return r == ',' })
	for _, f := range fields {
		rest := strings.TrimSpace(f)
		for rest != "" {
			eq := strings.IndexByte(rest, '=')
			if eq < 0 {
				// "set key value" form.
				parts := strings.Fields(rest)
				if len(parts) >= 2 {
					out = append(out, [2]string{parts[0], strings.Join(parts[1:], " ")})
				}
				break
			}
			key := strings.TrimSpace(rest[:eq])
			rest = strings.TrimSpace(rest[eq+1:])
			next := nextAssignment(rest)
			val := strings.TrimSpace(rest[:next])
			rest = strings.TrimSpace(rest[next:])
			if key != "" {
				out = append(out, [2]string{key, val})
			}
		}
	}
	return out
}

// nextAssignment finds where the following "key=" starts in s, or len(s).
func nextAssignment(s string) int {
	for i := 1; i < len(s); i++ {
		if s[i-1] == ' ' && assignment.MatchString(s[i:]) {
			return i
		}
	}
	return len(s)
}
