package repl

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/lipgloss"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/ardnew/fxl/formula"
	"github.com/ardnew/fxl/log"
)

const prompt = "➜ "

// Styles.
//
//nolint:gochecknoglobals
var (
	promptStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("6")).
			Bold(true)
	inputStyle      = lipgloss.NewStyle().Foreground(lipgloss.Color("15"))
	resultStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("2"))
	errorStyle      = lipgloss.NewStyle().Foreground(lipgloss.Color("1"))
	hintStyle       = lipgloss.NewStyle().Foreground(lipgloss.Color("8"))
	suggestionStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("4"))
)

func helpMessage() string {
	return `
Usage:
  Type an expression to evaluate it, e.g. SUM(1,2,3) * 2
  Parameters from the --params file are referenced as @name
  Press Tab to cycle completion candidates, Space to accept
  Use Up/Down arrows for history navigation
  Type 'help' for this text, 'clear' to clear, 'quit' to exit
  Press Ctrl+C on an empty line or Ctrl+D to exit
`
}

// model is the Bubble Tea model for the REPL.
type model struct {
	ctx       context.Context
	input     textinput.Model
	engine    *formula.Engine
	params    map[string]any
	logger    log.Logger
	history   *History
	histIdx   int
	completer *completer
	matches   []string // current completion candidates
	matchIdx  int      // selected candidate index
	wordStart int      // byte offset of current word start
	wordEnd   int      // byte offset of current word end
	tabActive bool     // whether user is tab-cycling
	lines     []string // scrollback
	quitting  bool
}

// Run starts the REPL against the given parameter environment.
func Run(
	ctx context.Context,
	params map[string]any,
	logger log.Logger,
) error {
	logger.TraceContext(ctx, "repl start",
		slog.Int("params", len(params)))

	input := textinput.New()
	input.Prompt = promptStyle.Render(prompt)
	input.TextStyle = inputStyle
	input.Focus()

	m := &model{
		ctx:       ctx,
		input:     input,
		engine:    formula.New(formula.WithLogger(logger)),
		params:    params,
		logger:    logger,
		history:   NewHistory(),
		histIdx:   0,
		completer: newCompleter(params),
		lines:     []string{hintStyle.Render(helpMessage())},
	}

	_, err := tea.NewProgram(m, tea.WithContext(ctx)).Run()

	return err
}

// Init implements tea.Model.
func (m *model) Init() tea.Cmd {
	return textinput.Blink
}

// Update implements tea.Model.
func (m *model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	key, ok := msg.(tea.KeyMsg)
	if !ok {
		var cmd tea.Cmd

		m.input, cmd = m.input.Update(msg)

		return m, cmd
	}

	switch key.Type {
	case tea.KeyCtrlD:
		m.quitting = true

		return m, tea.Quit

	case tea.KeyCtrlC:
		if m.input.Value() == "" {
			m.quitting = true

			return m, tea.Quit
		}

		m.resetCompletion()
		m.input.SetValue("")

		return m, nil

	case tea.KeyEnter:
		return m.submit()

	case tea.KeyTab, tea.KeyShiftTab:
		m.cycleCompletion(key.Type == tea.KeyShiftTab)

		return m, nil

	case tea.KeyUp, tea.KeyDown:
		m.navigateHistory(key.Type == tea.KeyUp)

		return m, nil

	case tea.KeySpace:
		// Space accepts the selected completion candidate.
		if m.tabActive {
			m.resetCompletion()
		}
	}

	m.resetCompletion()

	var cmd tea.Cmd

	m.input, cmd = m.input.Update(msg)
	m.refreshCandidates()

	return m, cmd
}

// submit evaluates the current line or runs a control word.
func (m *model) submit() (tea.Model, tea.Cmd) {
	line := strings.TrimSpace(m.input.Value())

	m.resetCompletion()
	m.input.SetValue("")

	if line == "" {
		return m, nil
	}

	m.history.Append(line)
	m.histIdx = m.history.Len()

	switch strings.ToLower(line) {
	case "quit", "exit":
		m.quitting = true

		return m, tea.Quit

	case "clear":
		m.lines = nil

		return m, nil

	case "help":
		m.lines = append(m.lines, hintStyle.Render(helpMessage()))

		return m, nil
	}

	echo := promptStyle.Render(prompt) + inputStyle.Render(line)
	m.lines = append(m.lines, echo)

	result, err := m.engine.Evaluate(m.ctx, line, m.params)
	if err != nil {
		m.lines = append(m.lines, errorStyle.Render(err.Error()))

		return m, nil
	}

	m.lines = append(m.lines, resultStyle.Render(formula.Format(result)))

	return m, nil
}

// navigateHistory moves through prior inputs, oldest to newest.
func (m *model) navigateHistory(up bool) {
	if m.history.Len() == 0 {
		return
	}

	if up {
		if m.histIdx > 0 {
			m.histIdx--
		}
	} else {
		if m.histIdx < m.history.Len() {
			m.histIdx++
		}

		if m.histIdx == m.history.Len() {
			m.input.SetValue("")
			m.input.CursorEnd()

			return
		}
	}

	line, err := m.history.At(m.histIdx)
	if err != nil {
		return
	}

	m.resetCompletion()
	m.input.SetValue(line)
	m.input.CursorEnd()
}

// refreshCandidates recomputes completion candidates for the word under
// the cursor.
func (m *model) refreshCandidates() {
	word, start, end := wordBounds(m.input.Value(), m.input.Position())

	m.matches = m.completer.complete(word)
	m.matchIdx = 0
	m.wordStart = start
	m.wordEnd = end
}

// cycleCompletion replaces the current word with the next (or previous)
// candidate.
func (m *model) cycleCompletion(reverse bool) {
	if len(m.matches) == 0 {
		m.refreshCandidates()

		if len(m.matches) == 0 {
			return
		}
	}

	if m.tabActive {
		if reverse {
			m.matchIdx = (m.matchIdx + len(m.matches) - 1) % len(m.matches)
		} else {
			m.matchIdx = (m.matchIdx + 1) % len(m.matches)
		}
	}

	m.tabActive = true

	candidate := m.matches[m.matchIdx]
	value := m.input.Value()

	m.input.SetValue(value[:m.wordStart] + candidate + value[m.wordEnd:])
	m.input.SetCursor(m.wordStart + len(candidate))
	m.wordEnd = m.wordStart + len(candidate)
}

func (m *model) resetCompletion() {
	m.matches = nil
	m.matchIdx = 0
	m.tabActive = false
}

// View implements tea.Model.
func (m *model) View() string {
	if m.quitting {
		return strings.Join(m.lines, "\n") + "\n"
	}

	var buf strings.Builder

	for _, line := range m.lines {
		buf.WriteString(line)
		buf.WriteByte('\n')
	}

	buf.WriteString(m.input.View())

	if len(m.matches) > 0 {
		shown := m.matches
		if len(shown) > 8 {
			shown = shown[:8]
		}

		parts := make([]string, len(shown))

		for i, c := range shown {
			if i == m.matchIdx && m.tabActive {
				parts[i] = suggestionStyle.Bold(true).Render(c)
			} else {
				parts[i] = suggestionStyle.Render(c)
			}
		}

		buf.WriteByte('\n')
		buf.WriteString(hintStyle.Render("  " + fmt.Sprintf("(%d) ", len(m.matches))))
		buf.WriteString(strings.Join(parts, "  "))
	}

	return buf.String()
}
