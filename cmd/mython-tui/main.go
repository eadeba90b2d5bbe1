package main

import (
	"bytes"
	"fmt"
	"os"
	"strings"

	"github.com/charmbracelet/bubbles/textarea"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/mythonlang/mython"
)

var (
	accentColor = lipgloss.Color("#3B82F6")
	okColor     = lipgloss.Color("#10B981")
	errColor    = lipgloss.Color("#EF4444")
	mutedColor  = lipgloss.Color("#6B7280")

	headerStyle = lipgloss.NewStyle().Foreground(accentColor).Bold(true).Padding(0, 1)
	echoStyle   = lipgloss.NewStyle().Foreground(mutedColor)
	outStyle    = lipgloss.NewStyle().Foreground(okColor)
	errStyle    = lipgloss.NewStyle().Foreground(errColor)
	footerStyle = lipgloss.NewStyle().Foreground(mutedColor)
	boxStyle    = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).BorderForeground(accentColor)
)

// entry is one submission to the scrollback pane: the source the user
// typed, and either the text it printed or the error it raised.
type entry struct {
	source string
	output string
	isErr  bool
}

type model struct {
	input   textarea.Model
	interp  *mython.Interpreter
	out     *bytes.Buffer
	history []entry
	width   int
	height  int
	quit    bool
}

func newModel() model {
	ta := textarea.New()
	ta.Placeholder = "class C:\n  def f(self):\n    return 1"
	ta.ShowLineNumbers = false
	ta.Focus()

	out := &bytes.Buffer{}
	return model{
		input:  ta,
		interp: mython.NewInterpreter(out),
		out:    out,
	}
}

func (m model) Init() tea.Cmd {
	return textarea.Blink
}

func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height
		m.input.SetWidth(msg.Width - 4)
		return m, nil

	case tea.KeyMsg:
		switch msg.Type {
		case tea.KeyCtrlC, tea.KeyCtrlD:
			m.quit = true
			return m, tea.Quit
		case tea.KeyCtrlL:
			m.history = nil
			return m, nil
		case tea.KeyCtrlJ:
			m.submit()
			return m, nil
		}
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

// submit runs the textarea's current contents against the persistent
// Interpreter shared across the whole session, recording what it printed
// (or the error it raised) as a new scrollback entry, then clears the
// input for the next statement or suite.
func (m *model) submit() {
	src := m.input.Value()
	if strings.TrimSpace(src) == "" {
		return
	}
	m.out.Reset()
	err := m.interp.RunString(src + "\n")
	e := entry{source: src}
	if err != nil {
		e.output, e.isErr = err.Error(), true
	} else {
		e.output = m.out.String()
	}
	m.history = append(m.history, e)
	m.input.Reset()
}

func (m model) View() string {
	if m.quit {
		return footerStyle.Render("goodbye\n")
	}

	var b strings.Builder
	b.WriteString(headerStyle.Render("mython") + "\n\n")

	for _, e := range m.history {
		for _, line := range strings.Split(strings.TrimRight(e.source, "\n"), "\n") {
			b.WriteString(echoStyle.Render(">>> "+line) + "\n")
		}
		if e.isErr {
			b.WriteString(errStyle.Render(e.output) + "\n")
		} else if e.output != "" {
			b.WriteString(outStyle.Render(strings.TrimRight(e.output, "\n")) + "\n")
		}
	}

	b.WriteString("\n")
	b.WriteString(boxStyle.Render(m.input.View()))
	b.WriteString("\n")
	b.WriteString(footerStyle.Render("ctrl+j run  ctrl+l clear  ctrl+c quit"))
	return b.String()
}

func main() {
	p := tea.NewProgram(newModel(), tea.WithAltScreen())
	if _, err := p.Run(); err != nil {
		fmt.Fprintf(os.Stderr, "mython-tui: %v\n", err)
		os.Exit(1)
	}
}
