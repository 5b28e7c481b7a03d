// Package display provides the terminal UI using Bubble Tea.
//
// The [UI] type keeps a status bar (active project, currency, bill total)
// and an input prompt at the bottom of the terminal. All application
// output is printed above the rendered area via Program.Println / Printf,
// so concurrent writes never garble the display.
package display

import (
	"fmt"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
)

// Status is what the bar shows.
type Status struct {
	Project  string
	Currency string
	Items    int
	Total    string
	Tool     string // open calculator, if any
	Busy     bool   // assistant request in flight
}

// StatusFunc is polled by the bar.
type StatusFunc func() Status

const prompt = "calc> "

// ── UI ───────────────────────────────────────────────────────────

// UI manages the terminal through Bubble Tea.
//
// Call [NewUI] then [UI.Run] (blocking). Other goroutines may
// safely call [UI.Println], [UI.Printf], and read from
// [UI.InputChan] at any time after [UI.WaitReady] returns.
type UI struct {
	program *tea.Program
	inputCh chan string
	readyCh chan struct{}
	quitCh  chan struct{}
	status  StatusFunc
	done    atomic.Bool

	mu     sync.RWMutex
	styles Styles
}

// NewUI creates the display. Call Run() to start.
func NewUI(status StatusFunc, theme string) *UI {
	return &UI{
		status:  status,
		styles:  NewStyles(theme),
		inputCh: make(chan string, 16),
		readyCh: make(chan struct{}),
		quitCh:  make(chan struct{}),
	}
}

// Styles returns the active styles.
func (u *UI) Styles() Styles {
	u.mu.RLock()
	defer u.mu.RUnlock()
	return u.styles
}

// SetTheme swaps the palette for subsequent output.
func (u *UI) SetTheme(theme string) {
	u.mu.Lock()
	defer u.mu.Unlock()
	u.styles = NewStyles(theme)
}

// Println prints a line above the prompt. Thread-safe.
// If the program hasn't started yet, falls back to fmt.Println.
func (u *UI) Println(a ...interface{}) {
	if u.program != nil && !u.done.Load() {
		u.program.Println(a...)
	} else {
		fmt.Println(a...)
	}
}

// Printf prints formatted text above the prompt. Thread-safe.
func (u *UI) Printf(format string, a ...interface{}) {
	if u.program != nil && !u.done.Load() {
		u.program.Printf(format, a...)
	} else {
		fmt.Printf(format+"\n", a...)
	}
}

// Print writes a rendered view block, dropping its trailing newline.
func (u *UI) Print(block string) {
	u.Println(strings.TrimRight(block, "\n"))
}

// InputChan returns completed user-input lines.
func (u *UI) InputChan() <-chan string { return u.inputCh }

// ── Styled print helpers ─────────────────────────────────────────

// PrintHint prints a secondary/dimmed line.
func (u *UI) PrintHint(text string) {
	u.Println(u.Styles().Secondary.Render("  " + text))
}

// PrintUrgent prints an error line.
func (u *UI) PrintUrgent(text string) {
	u.Println(u.Styles().Urgent.Render("  " + text))
}

// PrintUserInput echoes the user's typed command into the scrollback.
func (u *UI) PrintUserInput(text string) {
	st := u.Styles()
	u.Println(st.Prompt.Render(prompt) + st.Primary.Render(text))
}

// WaitReady blocks until the Bubble Tea event loop is running.
func (u *UI) WaitReady() { <-u.readyCh }

// Quit tells Bubble Tea to exit.
func (u *UI) Quit() {
	if u.program != nil {
		u.program.Quit()
	}
}

// QuitChan is closed when Run returns.
func (u *UI) QuitChan() <-chan struct{} { return u.quitCh }

// Run starts the Bubble Tea event loop. Blocks until quit.
func (u *UI) Run() error {
	st := u.Styles()
	ti := textinput.New()
	// Plain-text prompt: lipgloss escapes in the prompt break the
	// textinput width math for long lines.
	ti.Prompt = prompt
	ti.PromptStyle = st.Prompt
	ti.TextStyle = st.Primary
	ti.Cursor.Style = st.BarValue
	ti.Focus()
	ti.CharLimit = 500
	ti.Width = 60 // updated on first WindowSizeMsg

	m := model{
		ui:      u,
		input:   ti,
		inputCh: u.inputCh,
		readyCh: u.readyCh,
		echoFn:  u.PrintUserInput,
	}
	m.refresh()

	u.program = tea.NewProgram(m)
	_, err := u.program.Run()
	u.done.Store(true)
	close(u.quitCh)
	return err
}

// ── Bubble Tea model ─────────────────────────────────────────────

type model struct {
	ui      *UI
	input   textinput.Model
	inputCh chan<- string
	readyCh chan struct{}
	echoFn  func(string)
	status  Status
	width   int
}

type tickMsg time.Time

func (m model) Init() tea.Cmd {
	return tea.Batch(
		textinput.Blink,
		tickCmd(),
		signalReady(m.readyCh),
	)
}

func signalReady(ch chan struct{}) tea.Cmd {
	return func() tea.Msg {
		close(ch)
		return nil
	}
}

func tickCmd() tea.Cmd {
	return tea.Tick(300*time.Millisecond, func(t time.Time) tea.Msg {
		return tickMsg(t)
	})
}

func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.Type {
		case tea.KeyCtrlC:
			return m, tea.Quit
		case tea.KeyEnter:
			v := m.input.Value()
			m.input.Reset()
			if strings.TrimSpace(v) != "" {
				m.inputCh <- v
				echoFn := m.echoFn
				return m, func() tea.Msg {
					echoFn(v)
					return nil
				}
			}
			return m, nil
		}

	case tea.WindowSizeMsg:
		m.width = msg.Width
		if msg.Width > len(prompt) {
			m.input.Width = msg.Width - len(prompt)
		}
		return m, nil

	case tickMsg:
		m.refresh()
		return m, tea.Batch(tickCmd(), tea.SetWindowTitle(windowTitle(m.status)))
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

func (m *model) refresh() {
	if m.ui.status != nil {
		m.status = m.ui.status()
	}
}

func (m model) View() string {
	var b strings.Builder
	b.WriteString(renderBar(m.ui.Styles(), m.status, m.width))
	b.WriteString("\n\n")
	b.WriteString(m.input.View())
	return b.String()
}

// ── Status bar ───────────────────────────────────────────────────

func windowTitle(s Status) string {
	if s.Project == "" {
		return "CalcSite Pro"
	}
	return "CalcSite Pro · " + s.Project + " · " + s.Total
}

func renderBar(st Styles, s Status, width int) string {
	part := func(label, value string) string {
		return st.BarLabel.Render(label+" ") + st.BarValue.Render(value)
	}
	parts := []string{
		part("project", s.Project),
		part("currency", s.Currency),
		part("boq", fmt.Sprintf("%d · %s", s.Items, s.Total)),
	}
	if s.Tool != "" {
		parts = append(parts, part("tool", s.Tool))
	}
	if s.Busy {
		parts = append(parts, st.BarLabel.Render("AI thinking…"))
	}

	content := " " + strings.Join(parts, st.Sep.Render("  │  ")) + " "
	if width <= 0 {
		width = 80
	}
	return st.Bar.Width(width).Render(content)
}

// RenderStatus renders the bar at width for non-interactive output.
func RenderStatus(st Styles, s Status, width int) string {
	return renderBar(st, s, width)
}
