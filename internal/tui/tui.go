// Package tui is the interactive shell around a terminal session: an input
// line, the output log in a viewport, and a trending-token ticker header.
package tui

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/atotto/clipboard"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/cheshdao/grinterm/internal/market"
	"github.com/cheshdao/grinterm/internal/terminal"
)

const trendingRefresh = time.Minute

// message types

type commandDoneMsg struct {
	signal terminal.Signal
}

type logUpdatedMsg struct{}

type trendingMsg struct {
	tokens []market.TrendingToken
}

type trendingTickMsg struct{}

// model

type model struct {
	session  *terminal.Session
	market   *market.Client
	input    textinput.Model
	output   viewport.Model
	trending []market.TrendingToken
	note     string // transient status-bar note (clipboard etc.)
	width    int
	height   int
	ready    bool
	quitting bool
}

func initialModel(session *terminal.Session, mkt *market.Client) model {
	ti := textinput.New()
	ti.Placeholder = "Type a command..."
	ti.Focus()
	ti.Prompt = "$ "
	ti.PromptStyle = styleInputPrompt
	ti.TextStyle = styleInput
	ti.CharLimit = 512

	return model{
		session: session,
		market:  mkt,
		input:   ti,
		output:  viewport.New(0, 0),
	}
}

// Run starts the terminal shell and blocks until it exits. The session is
// torn down on the way out, closing any live price subscription.
func Run(session *terminal.Session, mkt *market.Client) error {
	session.Greet()
	m := initialModel(session, mkt)
	p := tea.NewProgram(m, tea.WithAltScreen())
	_, err := p.Run()
	session.Close()
	if err != nil {
		return fmt.Errorf("tui: %w", err)
	}
	return nil
}

// Init arms the update-wait loop and the first trending fetch.
func (m model) Init() tea.Cmd {
	return tea.Batch(textinput.Blink, m.waitForUpdate(), m.fetchTrending())
}

// Update handles messages.
func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmds []tea.Cmd

	switch msg := msg.(type) {

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.ready = true
		m.output = viewport.New(m.outputWidth(), m.outputHeight())
		m.refreshOutput()
		m.output.GotoBottom()
		return m, nil

	case tea.KeyMsg:
		switch {
		case key.Matches(msg, keys.Quit):
			m.quitting = true
			return m, tea.Quit

		case key.Matches(msg, keys.Enter):
			line := strings.TrimSpace(m.input.Value())
			if line == "" || m.session.Processing() {
				return m, nil
			}
			m.input.Reset()
			m.note = ""
			return m, m.runCommand(line)

		case key.Matches(msg, keys.Copy):
			m.note = m.copyLastOutput()
			return m, nil

		case key.Matches(msg, keys.LogUp):
			m.output.LineUp(m.outputHeight() / 2)
			return m, nil

		case key.Matches(msg, keys.LogDn):
			m.output.LineDown(m.outputHeight() / 2)
			return m, nil

		case key.Matches(msg, keys.PageUp):
			m.output.LineUp(m.outputHeight())
			return m, nil

		case key.Matches(msg, keys.PageDown):
			m.output.LineDown(m.outputHeight())
			return m, nil
		}

		var tiCmd tea.Cmd
		m.input, tiCmd = m.input.Update(msg)
		cmds = append(cmds, tiCmd)
		return m, tea.Batch(cmds...)

	case commandDoneMsg:
		if msg.signal == terminal.SignalClear {
			m.session.ClearOutput()
		}
		m.refreshOutput()
		m.output.GotoBottom()
		return m, nil

	case logUpdatedMsg:
		m.refreshOutput()
		m.output.GotoBottom()
		return m, m.waitForUpdate()

	case trendingMsg:
		m.trending = msg.tokens
		return m, tea.Tick(trendingRefresh, func(time.Time) tea.Msg {
			return trendingTickMsg{}
		})

	case trendingTickMsg:
		return m, m.fetchTrending()
	}

	return m, tea.Batch(cmds...)
}

// View renders the full shell.
func (m model) View() string {
	if m.quitting || !m.ready {
		return ""
	}

	ticker := m.renderTicker(m.width)

	outputPanel := stylePanelBorder.
		Width(m.outputWidth()).
		Height(m.outputHeight()).
		Render(m.output.View())

	inputRow := m.input.View()
	if m.session.Processing() {
		inputRow = styleStatusBusy.Render("Processing...")
	}

	status := m.statusBar()

	return lipgloss.JoinVertical(lipgloss.Left, ticker, outputPanel, inputRow, status)
}

// helper methods

func (m model) outputWidth() int {
	if m.width <= 0 {
		return 80
	}
	w := m.width - 4
	if w < 20 {
		w = 20
	}
	return w
}

func (m model) outputHeight() int {
	if m.height <= 0 {
		return 20
	}
	// Subtract ticker (1) + input row (1) + status bar (1) + borders (2)
	h := m.height - 5
	if h < 5 {
		h = 5
	}
	return h
}

func (m *model) refreshOutput() {
	var b strings.Builder
	for _, line := range m.session.Output().Lines() {
		content := terminal.Render(line)
		switch line.Kind {
		case terminal.KindSuccess:
			content = styleSuccess.Render(content)
		case terminal.KindError:
			content = styleError.Render(content)
		case terminal.KindJSON:
			content = styleJSON.Render(content)
		default:
			content = styleInfo.Render(content)
		}
		b.WriteString(content)
		b.WriteString("\n")
	}
	m.output.Width = m.outputWidth()
	m.output.Height = m.outputHeight()
	m.output.SetContent(b.String())
}

func (m model) copyLastOutput() string {
	lines := m.session.Output().Lines()
	if len(lines) == 0 {
		return ""
	}
	content := terminal.Render(lines[len(lines)-1])
	if err := clipboard.WriteAll(content); err != nil {
		return "clipboard unavailable"
	}
	return "copied last output"
}

func (m model) statusBar() string {
	var parts []string
	if addr, ok := m.session.Tracking(); ok {
		parts = append(parts, "tracking "+addr)
	}
	if m.note != "" {
		parts = append(parts, m.note)
	}
	parts = append(parts, "enter run", "C-y copy", "C-u/C-d scroll", "esc quit")
	return styleStatusBar.Render(strings.Join(parts, " | "))
}

func (m model) runCommand(line string) tea.Cmd {
	session := m.session
	return func() tea.Msg {
		sig := session.Handle(context.Background(), line)
		return commandDoneMsg{signal: sig}
	}
}

// waitForUpdate blocks on the session's notification channel so streaming
// price output appended outside a command cycle still redraws the view.
func (m model) waitForUpdate() tea.Cmd {
	updates := m.session.Updates()
	return func() tea.Msg {
		<-updates
		return logUpdatedMsg{}
	}
}

func (m model) fetchTrending() tea.Cmd {
	mkt := m.market
	return func() tea.Msg {
		if mkt == nil {
			return trendingMsg{}
		}
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()
		return trendingMsg{tokens: mkt.TrendingTokens(ctx)}
	}
}
