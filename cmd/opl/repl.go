package main

import (
	"bytes"
	"context"
	"fmt"
	"maps"
	"slices"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/opl-lang/opl/opl"
)

// replTheme groups the lipgloss styles of the full-screen REPL.
type replTheme struct {
	prompt   lipgloss.Style
	result   lipgloss.Style
	failure  lipgloss.Style
	muted    lipgloss.Style
	header   lipgloss.Style
	keyName  lipgloss.Style
	panel    lipgloss.Style
	panelHdr lipgloss.Style
}

func newReplTheme() replTheme {
	accent := lipgloss.Color("#3B82F6")
	muted := lipgloss.Color("#6B7280")
	highlight := lipgloss.Color("#F59E0B")
	return replTheme{
		prompt:   lipgloss.NewStyle().Foreground(accent).Bold(true),
		result:   lipgloss.NewStyle().Foreground(lipgloss.Color("#10B981")),
		failure:  lipgloss.NewStyle().Foreground(lipgloss.Color("#EF4444")),
		muted:    lipgloss.NewStyle().Foreground(muted),
		header:   lipgloss.NewStyle().Foreground(accent).Bold(true).Padding(0, 1),
		keyName:  lipgloss.NewStyle().Foreground(highlight),
		panel:    lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).BorderForeground(accent).Padding(0, 1),
		panelHdr: lipgloss.NewStyle().Bold(true).Foreground(accent),
	}
}

var theme = newReplTheme()

type historyEntry struct {
	input  string
	output string
	isErr  bool
}

type replModel struct {
	textInput   textinput.Model
	engine      *opl.Engine
	session     *opl.Session
	stdout      *bytes.Buffer
	pending     []string
	history     []historyEntry
	cmdHistory  []string
	historyIdx  int
	width       int
	height      int
	showHelp    bool
	showVars    bool
	quitting    bool
	initialized bool
}

type replKeys struct {
	quit     key.Binding
	clear    key.Binding
	prev     key.Binding
	next     key.Binding
	complete key.Binding
	vars     key.Binding
	help     key.Binding
	submit   key.Binding
}

var keys = replKeys{
	quit:     key.NewBinding(key.WithKeys("ctrl+c", "ctrl+d"), key.WithHelp("ctrl+c", "quit")),
	clear:    key.NewBinding(key.WithKeys("ctrl+l"), key.WithHelp("ctrl+l", "clear")),
	prev:     key.NewBinding(key.WithKeys("up"), key.WithHelp("↑", "previous entry")),
	next:     key.NewBinding(key.WithKeys("down"), key.WithHelp("↓", "next entry")),
	complete: key.NewBinding(key.WithKeys("tab"), key.WithHelp("tab", "complete")),
	vars:     key.NewBinding(key.WithKeys("ctrl+v"), key.WithHelp("ctrl+v", "vars")),
	help:     key.NewBinding(key.WithKeys("ctrl+k"), key.WithHelp("ctrl+k", "help")),
	submit:   key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "run")),
}

func newREPLModel() replModel {
	ti := textinput.New()
	ti.Placeholder = "type a statement..."
	ti.Focus()
	ti.CharLimit = 500
	ti.Width = 60
	ti.PromptStyle = theme.prompt
	ti.Prompt = promptMain

	// The terminal belongs to the UI, so scripts see an empty stdin and
	// their output is captured per entry.
	stdout := new(bytes.Buffer)
	engine := opl.MustNewEngine(opl.Config{
		Stdout:    stdout,
		Stdin:     strings.NewReader(""),
		StepQuota: 1_000_000,
	})

	return replModel{
		textInput:  ti,
		engine:     engine,
		session:    engine.NewSession(),
		stdout:     stdout,
		historyIdx: -1,
	}
}

func (m replModel) Init() tea.Cmd {
	return tea.Batch(textinput.Blink, tea.EnterAltScreen)
}

func (m replModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height
		m.textInput.Width = msg.Width - 10
		m.initialized = true
		return m, nil

	case tea.KeyMsg:
		switch {
		case key.Matches(msg, keys.quit):
			m.quitting = true
			return m, tea.Quit
		case key.Matches(msg, keys.clear):
			m.history = nil
			return m, nil
		case key.Matches(msg, keys.vars):
			m.showVars = !m.showVars
			return m, nil
		case key.Matches(msg, keys.help):
			m.showHelp = !m.showHelp
			return m, nil
		case key.Matches(msg, keys.prev):
			return m.recall(-1), nil
		case key.Matches(msg, keys.next):
			return m.recall(1), nil
		case key.Matches(msg, keys.complete):
			return m.handleAutocomplete(), nil
		case key.Matches(msg, keys.submit):
			return m.submit()
		}
	}

	var cmd tea.Cmd
	m.textInput, cmd = m.textInput.Update(msg)
	return m, cmd
}

// recall walks the entry history; delta is -1 for older and 1 for newer.
func (m replModel) recall(delta int) replModel {
	if len(m.cmdHistory) == 0 {
		return m
	}
	switch {
	case delta < 0 && m.historyIdx == -1:
		m.historyIdx = len(m.cmdHistory) - 1
	case delta < 0:
		m.historyIdx = max(m.historyIdx-1, 0)
	case m.historyIdx == -1:
		return m
	case m.historyIdx < len(m.cmdHistory)-1:
		m.historyIdx++
	default:
		m.historyIdx = -1
		m.textInput.SetValue("")
		return m
	}
	m.textInput.SetValue(m.cmdHistory[m.historyIdx])
	m.textInput.CursorEnd()
	return m
}

// submit handles Enter. A line that leaves the source incomplete, such as
// an open block, is buffered and the prompt switches to the continuation
// prompt until the entry parses or fails for another reason.
func (m replModel) submit() (tea.Model, tea.Cmd) {
	line := m.textInput.Value()
	m.textInput.SetValue("")
	m.historyIdx = -1

	if len(m.pending) == 0 {
		line = strings.TrimSpace(line)
		if line == "" {
			return m, nil
		}
		if strings.HasPrefix(line, ":") {
			return m.handleCommand(line)
		}
	}

	m.pending = append(m.pending, line)
	source := strings.Join(m.pending, "\n")
	if _, err := opl.Parse(source); err != nil && opl.IsIncomplete(err) {
		m.textInput.Prompt = promptCont
		return m, nil
	}

	m.pending = nil
	m.textInput.Prompt = promptMain
	output, isErr := m.evaluate(source)
	m.history = append(m.history, historyEntry{input: source, output: output, isErr: isErr})
	m.cmdHistory = append(m.cmdHistory, strings.ReplaceAll(source, "\n", " "))
	return m, nil
}

func (m replModel) handleCommand(input string) (replModel, tea.Cmd) {
	name, arg, _ := strings.Cut(input, " ")
	arg = strings.TrimSpace(arg)

	note := func(output string, isErr bool) {
		m.history = append(m.history, historyEntry{input: input, output: output, isErr: isErr})
	}

	switch name {
	case ":help", ":h":
		m.showHelp = !m.showHelp
	case ":clear", ":c":
		m.history = nil
	case ":vars", ":v":
		m.showVars = !m.showVars
	case ":reset", ":r":
		m.session.Reset()
		note("Environment reset", false)
	case ":ast":
		note(dumpSource(arg))
	case ":quit", ":q":
		m.quitting = true
		return m, tea.Quit
	default:
		note(fmt.Sprintf("Unknown command: %s", name), true)
	}
	return m, nil
}

func dumpSource(source string) (string, bool) {
	if source == "" {
		return "usage: :ast <statement>", true
	}
	program, err := opl.Parse(source)
	if err != nil {
		return err.Error(), true
	}
	var out strings.Builder
	if err := opl.Dump(&out, program); err != nil {
		return err.Error(), true
	}
	return strings.TrimRight(out.String(), "\n"), false
}

func (m replModel) handleAutocomplete() replModel {
	input := m.textInput.Value()
	start := strings.LastIndexFunc(input, func(r rune) bool { return !isWordRune(r) }) + 1
	prefix := input[start:]
	if prefix == "" {
		return m
	}

	completions := completionCandidates(m.engine, m.session, prefix)
	switch len(completions) {
	case 0:
	case 1:
		m.textInput.SetValue(input[:start] + completions[0])
		m.textInput.CursorEnd()
	default:
		m.history = append(m.history, historyEntry{
			output: "Completions: " + strings.Join(completions, ", "),
		})
	}
	return m
}

// completionCandidates lists keywords, builtins and session variables that
// start with prefix, sorted and without duplicates.
func completionCandidates(engine *opl.Engine, session *opl.Session, prefix string) []string {
	names := slices.Concat(opl.Keywords(), engine.Builtins(), slices.Collect(maps.Keys(session.Variables())))

	var out []string
	for _, name := range names {
		if strings.HasPrefix(name, prefix) {
			out = append(out, name)
		}
	}
	slices.Sort(out)
	return slices.Compact(out)
}

// evaluate runs one entry against the session. Printed output comes first,
// followed by the entry's value when it is not Null.
func (m replModel) evaluate(input string) (string, bool) {
	m.stdout.Reset()
	result, err := m.session.Eval(context.Background(), input)
	printed := strings.TrimRight(m.stdout.String(), "\n")
	m.stdout.Reset()

	var parts []string
	if printed != "" {
		parts = append(parts, printed)
	}
	if err != nil {
		return strings.Join(append(parts, err.Error()), "\n"), true
	}
	if !result.IsNull() {
		parts = append(parts, result.String())
	}
	if len(parts) == 0 {
		return "Null", false
	}
	return strings.Join(parts, "\n"), false
}

func (m replModel) View() string {
	if !m.initialized {
		return "Loading..."
	}
	if m.quitting {
		return theme.muted.Render("Goodbye!\n")
	}

	var b strings.Builder
	b.WriteString(theme.header.Render("OPL REPL") + " " + theme.muted.Render("v"+version) + "\n")
	b.WriteString(theme.muted.Render(strings.Repeat("─", max(min(m.width-2, 60), 0))) + "\n\n")

	vars := m.session.Variables()
	reserved := 8
	if m.showHelp {
		reserved += 11
	}
	if m.showVars {
		reserved += len(vars) + 3
	}

	visible := m.history
	if room := m.height - reserved; room >= 0 && len(visible) > room {
		visible = visible[len(visible)-room:]
	}
	for _, entry := range visible {
		if entry.input != "" {
			for i, line := range strings.Split(entry.input, "\n") {
				marker := "  › "
				if i > 0 {
					marker = "  · "
				}
				b.WriteString(theme.muted.Render(marker) + line + "\n")
			}
		}
		if entry.isErr {
			b.WriteString("  " + theme.failure.Render("✗ "+entry.output) + "\n\n")
		} else {
			b.WriteString("  " + theme.result.Render("→ "+entry.output) + "\n\n")
		}
	}

	if m.showVars {
		b.WriteString(renderVarsPanel(vars) + "\n")
	}
	if m.showHelp {
		b.WriteString(renderHelpPanel() + "\n")
	}
	for _, line := range m.pending {
		b.WriteString(theme.muted.Render("  · ") + line + "\n")
	}
	b.WriteString(m.textInput.View() + "\n\n")

	var footer []string
	for _, binding := range []key.Binding{keys.help, keys.vars, keys.clear, keys.quit} {
		h := binding.Help()
		footer = append(footer, theme.keyName.Render(h.Key)+theme.muted.Render(" "+h.Desc))
	}
	b.WriteString(strings.Join(footer, "  "))
	return b.String()
}

func renderVarsPanel(vars map[string]opl.Value) string {
	if len(vars) == 0 {
		return theme.panel.Render(theme.muted.Render("No variables defined"))
	}

	lines := []string{theme.panelHdr.Render("Variables")}
	for _, name := range slices.Sorted(maps.Keys(vars)) {
		val := vars[name]
		lines = append(lines, fmt.Sprintf("  %s = %s %s",
			theme.keyName.Render(name), val.String(), theme.muted.Render("("+val.Kind().String()+")")))
	}
	return theme.panel.Render(strings.Join(lines, "\n"))
}

var replHelp = [][2]string{
	{"↑/↓", "Navigate entry history"},
	{"Tab", "Complete keywords, builtins and variables"},
	{"Enter", "Run entry; open blocks continue on the next line"},
	{":help", "Toggle this help"},
	{":vars", "Toggle variables panel"},
	{":ast", "Print the syntax tree of a statement"},
	{":clear", "Clear history"},
	{":reset", "Drop all user bindings"},
	{":quit", "Exit REPL"},
}

func renderHelpPanel() string {
	lines := []string{theme.panelHdr.Render("Help")}
	for _, h := range replHelp {
		lines = append(lines, fmt.Sprintf("  %s  %s", theme.keyName.Render(fmt.Sprintf("%-8s", h[0])), theme.muted.Render(h[1])))
	}
	return theme.panel.Render(strings.Join(lines, "\n"))
}

func runREPL() error {
	p := tea.NewProgram(newREPLModel(), tea.WithAltScreen())
	_, err := p.Run()
	return err
}
