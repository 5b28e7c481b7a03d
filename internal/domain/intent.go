package domain

// IntentType classifies what the user wants to do at the prompt.
type IntentType int

const (
	IntentUnknown IntentType = iota
	IntentHelp
	IntentQuit
	IntentHome        // list categories
	IntentCategory    // list tools of a category
	IntentSearch      // search tools and reference tables
	IntentOpenTool    // open a calculator screen
	IntentSetInput    // key=value on the open screen
	IntentShowResult  // redraw the open screen
	IntentBack        // close the open screen
	IntentCommit      // add the current result to the ledger
	IntentShowLedger  // list ledger items and total
	IntentRemoveItem  // remove one ledger item
	IntentClearLedger // clear the ledger (destructive)
	IntentExport      // export the ledger
	IntentCurrency    // show or change the display currency
	IntentRates       // list rates or change one
	IntentProjects    // list, create, switch or delete projects
	IntentConvert     // unit conversion
	IntentReference   // reference tables and thumb rules
	IntentTheme       // dark or light palette
	IntentConfirm     // "yes" to a pending destructive action
	IntentCancel      // "no" to a pending destructive action
	IntentAskQuestion // free-form question sent to the AI assistant
	IntentOnboard     // pick trades and unit system
)

// String returns a human-readable intent type.
func (i IntentType) String() string {
	for name, t := range intentNames {
		if t == i {
			return name
		}
	}
	return "unknown"
}

// Intent represents a parsed user action.
type Intent struct {
	Type    IntentType
	Payload string // remainder of the input, e.g. a tool id or "key=value"
}

// intentNames maps snake_case names to IntentType values.
var intentNames = map[string]IntentType{
	"help":         IntentHelp,
	"quit":         IntentQuit,
	"home":         IntentHome,
	"category":     IntentCategory,
	"search":       IntentSearch,
	"open_tool":    IntentOpenTool,
	"set_input":    IntentSetInput,
	"show_result":  IntentShowResult,
	"back":         IntentBack,
	"commit":       IntentCommit,
	"show_ledger":  IntentShowLedger,
	"remove_item":  IntentRemoveItem,
	"clear_ledger": IntentClearLedger,
	"export":       IntentExport,
	"currency":     IntentCurrency,
	"rates":        IntentRates,
	"projects":     IntentProjects,
	"convert":      IntentConvert,
	"reference":    IntentReference,
	"theme":        IntentTheme,
	"confirm":      IntentConfirm,
	"cancel":       IntentCancel,
	"ask_question": IntentAskQuestion,
	"onboard":      IntentOnboard,
	"unknown":      IntentUnknown,
}

// IntentFromString converts a snake_case intent name to an IntentType.
// Returns IntentUnknown for unrecognized names.
func IntentFromString(name string) IntentType {
	if t, ok := intentNames[name]; ok {
		return t
	}
	return IntentUnknown
}
