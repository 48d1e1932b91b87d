// Package tui is a terminal front end for the scenario forms.
package tui

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/glamour"
	"github.com/charmbracelet/lipgloss"
	"github.com/rs/zerolog/log"

	"github.com/RMahshie/wirelesscalc/internal/controller"
	"github.com/RMahshie/wirelesscalc/internal/render"
	"github.com/RMahshie/wirelesscalc/internal/scenario"
	"github.com/RMahshie/wirelesscalc/pkg/models"
)

// calculationDoneMsg is sent when a submission settles
type calculationDoneMsg struct {
	err error
}

// Model is the root bubbletea model
type Model struct {
	ctx      context.Context
	ctrl     *controller.Controller
	defs     []scenario.Definition
	inputs   map[models.Scenario][]textinput.Model
	focus    int
	spinner  spinner.Model
	renderer *glamour.TermRenderer
	width    int
	// submissions whose command has not reported back yet
	outstanding int
}

// New creates the terminal UI bound to ctrl. Requests inherit ctx.
func New(ctx context.Context, ctrl *controller.Controller) *Model {
	s := spinner.New()
	s.Spinner = spinner.Dot
	s.Style = lipgloss.NewStyle().Foreground(primary)

	renderer, err := glamour.NewTermRenderer(
		glamour.WithAutoStyle(),
		glamour.WithWordWrap(80),
	)
	if err != nil {
		log.Warn().Err(err).Msg("Markdown renderer unavailable, showing plain explanation")
	}

	m := &Model{
		ctx:      ctx,
		ctrl:     ctrl,
		defs:     scenario.All(),
		inputs:   make(map[models.Scenario][]textinput.Model),
		spinner:  s,
		renderer: renderer,
		width:    80,
	}
	for _, def := range m.defs {
		fields := make([]textinput.Model, 0, len(def.Fields))
		for _, f := range def.Fields {
			ti := textinput.New()
			ti.Prompt = ""
			ti.Placeholder = f.Unit
			ti.CharLimit = 32
			ti.Width = 20
			fields = append(fields, ti)
		}
		m.inputs[def.Scenario] = fields
	}
	m.focusField(0)
	return m
}

// Init implements tea.Model
func (m *Model) Init() tea.Cmd {
	return textinput.Blink
}

// Update implements tea.Model
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		return m, nil

	case spinner.TickMsg:
		if m.outstanding > 0 || m.ctrl.State().Loading {
			var cmd tea.Cmd
			m.spinner, cmd = m.spinner.Update(msg)
			return m, cmd
		}
		return m, nil

	case calculationDoneMsg:
		if m.outstanding > 0 {
			m.outstanding--
		}
		if msg.err != nil {
			log.Debug().Err(msg.err).Msg("Calculation settled with error")
		}
		return m, nil

	case tea.KeyMsg:
		return m.handleKey(msg)
	}
	return m, nil
}

func (m *Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "ctrl+c", "esc":
		return m, tea.Quit
	case "left", "shift+left":
		return m, m.selectIndex(m.activeIndex() - 1)
	case "right", "shift+right":
		return m, m.selectIndex(m.activeIndex() + 1)
	case "f1", "f2", "f3", "f4":
		return m, m.selectIndex(int(msg.String()[1] - '1'))
	case "tab", "down":
		return m, m.focusField(m.focus + 1)
	case "shift+tab", "up":
		return m, m.focusField(m.focus - 1)
	case "enter":
		return m, m.submit()
	}

	fields, ok := m.activeInputs()
	if !ok {
		return m, nil
	}
	var cmd tea.Cmd
	fields[m.focus], cmd = fields[m.focus].Update(msg)
	return m, cmd
}

// activeIndex returns the position of the active scenario, or -1
func (m *Model) activeIndex() int {
	active := m.ctrl.State().Active
	for i, def := range m.defs {
		if def.Scenario == active {
			return i
		}
	}
	return -1
}

func (m *Model) activeInputs() ([]textinput.Model, bool) {
	active := m.ctrl.State().Active
	if active == "" {
		return nil, false
	}
	fields, ok := m.inputs[active]
	return fields, ok && len(fields) > 0
}

func (m *Model) selectIndex(i int) tea.Cmd {
	n := len(m.defs)
	i = ((i % n) + n) % n
	if err := m.ctrl.Select(m.defs[i].Scenario); err != nil {
		log.Error().Err(err).Msg("Failed to select scenario")
		return nil
	}
	return m.focusField(0)
}

func (m *Model) focusField(i int) tea.Cmd {
	fields, ok := m.activeInputs()
	if !ok {
		m.focus = 0
		return nil
	}
	n := len(fields)
	m.focus = ((i % n) + n) % n
	var cmd tea.Cmd
	for j := range fields {
		if j == m.focus {
			cmd = fields[j].Focus()
			continue
		}
		fields[j].Blur()
	}
	return cmd
}

// submit runs the active scenario's calculation off the UI goroutine
func (m *Model) submit() tea.Cmd {
	st := m.ctrl.State()
	if st.Active == "" {
		return nil
	}
	def, err := scenario.Lookup(st.Active)
	if err != nil {
		return nil
	}

	src := scenario.MapSource{}
	for i, f := range def.Fields {
		src[f.Name] = m.inputs[def.Scenario][i].Value()
	}

	ctx := m.ctx
	ctrl := m.ctrl
	s := def.Scenario
	run := func() tea.Msg {
		_, err := ctrl.Submit(ctx, s, src)
		return calculationDoneMsg{err: err}
	}
	m.outstanding++
	return tea.Batch(m.spinner.Tick, run)
}

// View implements tea.Model
func (m *Model) View() string {
	st := m.ctrl.State()
	var b strings.Builder

	b.WriteString(titleStyle.Render("Wireless Network Calculator"))
	b.WriteString("\n")

	tabs := make([]string, 0, len(m.defs))
	for i, def := range m.defs {
		label := fmt.Sprintf("F%d %s", i+1, def.Title)
		if st.FormVisible(def.Scenario) {
			tabs = append(tabs, activeTabStyle.Render(label))
		} else {
			tabs = append(tabs, tabStyle.Render(label))
		}
	}
	b.WriteString(lipgloss.JoinHorizontal(lipgloss.Top, tabs...))
	b.WriteString("\n\n")

	if st.Active == "" {
		b.WriteString("Choose a scenario with F1-F4 or ←/→.\n")
	} else {
		b.WriteString(m.formView(st.Active))
	}

	if st.Error != "" {
		b.WriteString(errorStyle.Render(st.Error))
		b.WriteString("\n")
	}
	if st.Loading {
		b.WriteString("\n" + m.spinner.View() + " Calculating...\n")
	}
	if st.ResultsVisible {
		b.WriteString(m.resultsView(st.View))
		b.WriteString("\n")
	}

	b.WriteString(helpStyle.Render("←/→ scenario • tab/↑/↓ field • enter calculate • esc quit"))
	return b.String()
}

func (m *Model) formView(s models.Scenario) string {
	def, err := scenario.Lookup(s)
	if err != nil {
		return ""
	}
	width := 0
	for _, f := range def.Fields {
		if n := lipgloss.Width(f.Label); n > width {
			width = n
		}
	}

	var b strings.Builder
	for i, f := range def.Fields {
		cursor := "  "
		if i == m.focus {
			cursor = "> "
		}
		label := labelStyle.Width(width).Render(f.Label)
		b.WriteString(cursor + label + "  " + m.inputs[s][i].View() + "\n")
	}
	return b.String()
}

func (m *Model) resultsView(v render.View) string {
	var b strings.Builder
	width := v.Width()
	for _, row := range v.Rows {
		b.WriteString(labelStyle.Width(width).Render(row.Label))
		b.WriteString("  ")
		b.WriteString(row.Value)
		b.WriteString("\n")
	}
	if v.Explanation != "" {
		b.WriteString("\n")
		b.WriteString(m.explanation(v.Explanation))
	}
	return resultsStyle.Render(strings.TrimRight(b.String(), "\n"))
}

func (m *Model) explanation(text string) string {
	if m.renderer == nil {
		return text
	}
	out, err := m.renderer.Render(text)
	if err != nil {
		return text
	}
	return strings.TrimSpace(out)
}
