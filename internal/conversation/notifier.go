package conversation

import (
	"context"
	"fmt"

	"github.com/hammamikhairi/calcsite/internal/domain"
	"github.com/hammamikhairi/calcsite/internal/logger"
)

// Compile-time interface check.
var _ domain.Notifier = (*CLINotifier)(nil)

// ANSI escape codes for terminal formatting.
const (
	reset = "\033[0m"
	bold  = "\033[1m"
	red   = "\033[31m"
	green = "\033[32m"
)

// PrintFunc is a function used to print formatted output.
// Matches the signature of both fmt.Printf and display.UI.Printf.
type PrintFunc func(format string, a ...interface{})

// CLINotifier prints one-line toasts: "Added to BOQ", "Project switched".
type CLINotifier struct {
	log     *logger.Logger
	printFn PrintFunc
	plain   bool
}

// NewCLINotifier creates a terminal notifier.
// If printFn is nil, fmt.Printf is used.
func NewCLINotifier(log *logger.Logger, printFn PrintFunc) *CLINotifier {
	if printFn == nil {
		printFn = func(format string, a ...interface{}) {
			fmt.Printf(format+"\n", a...)
		}
	}
	return &CLINotifier{log: log, printFn: printFn}
}

// Plain disables ANSI styling, for pipes and tests.
func (n *CLINotifier) Plain() *CLINotifier {
	n.plain = true
	return n
}

// Notify prints a success toast.
func (n *CLINotifier) Notify(ctx context.Context, message string) error {
	n.log.Debug("notify: %s", message)
	n.toast(green, "✓", message)
	return nil
}

// NotifyUrgent prints a warning toast in bold red.
func (n *CLINotifier) NotifyUrgent(ctx context.Context, message string) error {
	n.log.Debug("notify-urgent: %s", message)
	n.toast(red, "!", message)
	return nil
}

func (n *CLINotifier) toast(color, mark, message string) {
	if n.plain {
		n.printFn("%s %s", mark, message)
		return
	}
	n.printFn("%s%s%s %s%s", color, bold, mark, message, reset)
}
