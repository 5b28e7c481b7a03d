package conversation

import (
	"context"
	"fmt"
	"reflect"
	"testing"

	"github.com/hammamikhairi/calcsite/internal/domain"
	"github.com/hammamikhairi/calcsite/internal/logger"
)

func TestKeywordParser(t *testing.T) {
	log := logger.New(logger.LevelOff, nil)
	parser := NewKeywordParser(log, "slab", "steel")
	ctx := context.Background()

	tests := []struct {
		input       string
		wantType    domain.IntentType
		wantPayload string
	}{
		{"help", domain.IntentHelp, ""},
		{"?", domain.IntentHelp, ""},
		{"q", domain.IntentQuit, ""},
		{"home", domain.IntentHome, ""},
		{"cat concrete", domain.IntentCategory, "concrete"},
		{"search brick", domain.IntentSearch, "brick"},

		// Tools
		{"open slab", domain.IntentOpenTool, "slab"},
		{"SLAB", domain.IntentOpenTool, "slab"},
		{"calc wire-size", domain.IntentOpenTool, "wire-size"},

		// Inputs
		{"length=6", domain.IntentSetInput, "length=6"},
		{"length = 6 width=3", domain.IntentSetInput, "length = 6 width=3"},
		{"set grade M25", domain.IntentSetInput, "grade M25"},
		{"show", domain.IntentShowResult, ""},
		{"back", domain.IntentBack, ""},
		{"add", domain.IntentCommit, ""},
		{"+", domain.IntentCommit, ""},

		// Ledger
		{"boq", domain.IntentShowLedger, ""},
		{"rm 2", domain.IntentRemoveItem, "2"},
		{"clear", domain.IntentClearLedger, ""},
		{"clear boq", domain.IntentClearLedger, ""},
		{"export pdf out.pdf", domain.IntentExport, "pdf out.pdf"},

		// Settings
		{"currency usd", domain.IntentCurrency, "usd"},
		{"rates", domain.IntentRates, ""},
		{"rate cement_bag 460", domain.IntentRates, "cement_bag 460"},
		{"project new Tower B", domain.IntentProjects, "new Tower B"},
		{"theme light", domain.IntentTheme, "light"},
		{"onboard tile, painter imperial", domain.IntentOnboard, "tile, painter imperial"},
		{"convert 10 m ft", domain.IntentConvert, "10 m ft"},
		{"ref cover", domain.IntentReference, "cover"},

		// Confirmation
		{"yes", domain.IntentConfirm, ""},
		{"n", domain.IntentCancel, ""},

		// Questions
		{"ask lap length for 12mm", domain.IntentAskQuestion, "lap length for 12mm"},
		{"what is the cover for a beam?", domain.IntentAskQuestion, "what is the cover for a beam?"},
		{"how thick should a slab be", domain.IntentAskQuestion, "how thick should a slab be"},

		// Unknown
		{"", domain.IntentUnknown, ""},
		{"blorp", domain.IntentUnknown, "blorp"},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			intent, err := parser.Parse(ctx, tt.input)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if intent.Type != tt.wantType {
				t.Fatalf("Parse(%q) type = %s, want %s", tt.input, intent.Type, tt.wantType)
			}
			if intent.Payload != tt.wantPayload {
				t.Fatalf("Parse(%q) payload = %q, want %q", tt.input, intent.Payload, tt.wantPayload)
			}
		})
	}
}

func TestAssignments(t *testing.T) {
	tests := []struct {
		in   string
		want [][2]string
	}{
		{"length=6", [][2]string{{"length", "6"}}},
		{"length = 6 width=3", [][2]string{{"length", "6"}, {"width", "3"}}},
		{"a=1, b=2", [][2]string{{"a", "1"}, {"b", "2"}}},
		{"type=Office Space", [][2]string{{"type", "Office Space"}}},
		{"grade M25", [][2]string{{"grade", "M25"}}},
		{"lonely", nil},
	}
	for _, tt := range tests {
		if got := Assignments(tt.in); !reflect.DeepEqual(got, tt.want) {
			t.Errorf("Assignments(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}
}

func TestNotifier(t *testing.T) {
	var lines []string
	n := NewCLINotifier(logger.New(logger.LevelOff, nil), func(format string, a ...interface{}) {
		lines = append(lines, sprintf(format, a...))
	}).Plain()

	n.Notify(context.Background(), "Added to BOQ")
	n.NotifyUrgent(context.Background(), "Ledger cleared")

	want := []string{"✓ Added to BOQ", "! Ledger cleared"}
	if !reflect.DeepEqual(lines, want) {
		t.Fatalf("lines = %q", lines)
	}
}

func sprintf(format string, a ...interface{}) string { return fmt.Sprintf(format, a...) }
