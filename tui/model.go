package tui

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/polyrabbit/coin-dashboard/fetch"
	"github.com/polyrabbit/coin-dashboard/query"
	"github.com/polyrabbit/coin-dashboard/writer"
	"github.com/sirupsen/logrus"
)

// Limits offered by the limit selector.
var Limits = []int{5, 10, 20, 50, 100}

const defaultWidth = 120

var (
	labelStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("3"))
	valueStyle = lipgloss.NewStyle().Bold(true)
	helpStyle  = lipgloss.NewStyle().Faint(true)
)

// fetchedMsg carries a finished request through the bubbletea loop. The view
// always reads the session, so the state inside is informational only.
type fetchedMsg struct {
	state fetch.State
}

type refreshMsg time.Time

type Model struct {
	ctx     context.Context
	session *query.Session
	keys    keyMap
	filter  textinput.Model
	refresh time.Duration
	width   int
}

func New(ctx context.Context, session *query.Session, refresh time.Duration) Model {
	filter := textinput.New()
	filter.Placeholder = "Filter by name or symbol..."
	filter.Prompt = ""
	filter.CharLimit = 64
	filter.Width = 28
	filter.SetValue(session.Params().Filter)
	return Model{
		ctx:     ctx,
		session: session,
		keys:    defaultKeyMap(),
		filter:  filter,
		refresh: refresh,
		width:   defaultWidth,
	}
}

func (m Model) Init() tea.Cmd {
	return tea.Batch(waitFor(m.session.Start(m.ctx)), m.scheduleRefresh())
}

func waitFor(doneCh <-chan fetch.State) tea.Cmd {
	if doneCh == nil {
		return nil
	}
	return func() tea.Msg {
		return fetchedMsg{state: <-doneCh}
	}
}

func (m Model) scheduleRefresh() tea.Cmd {
	if m.refresh <= 0 {
		return nil
	}
	return tea.Tick(m.refresh, func(t time.Time) tea.Msg { return refreshMsg(t) })
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		return m, nil
	case fetchedMsg:
		logrus.Debugf("Request for %s finished as %s", msg.state.URL, msg.state.Status)
		return m, nil
	case refreshMsg:
		return m, tea.Batch(waitFor(m.session.Reload(m.ctx)), m.scheduleRefresh())
	case tea.KeyMsg:
		if m.filter.Focused() {
			return m.updateFilter(msg)
		}
		return m.updateControls(msg)
	}
	return m, nil
}

func (m Model) updateFilter(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Done):
		m.filter.Blur()
		return m, nil
	case key.Matches(msg, m.keys.ClearText):
		m.filter.SetValue("")
	case msg.Type == tea.KeyCtrlC:
		return m, tea.Quit
	default:
		var cmd tea.Cmd
		m.filter, cmd = m.filter.Update(msg)
		m.session.SetFilter(m.filter.Value())
		return m, cmd
	}
	m.session.SetFilter(m.filter.Value())
	return m, nil
}

func (m Model) updateControls(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Quit):
		return m, tea.Quit
	case key.Matches(msg, m.keys.Filter):
		return m, m.filter.Focus()
	case key.Matches(msg, m.keys.Limit):
		return m, waitFor(m.session.SetLimit(m.ctx, nextLimit(m.session.Params().Limit)))
	case key.Matches(msg, m.keys.Sort):
		return m, waitFor(m.session.SetSortKey(m.ctx, m.session.Params().Sort.Next(1)))
	case key.Matches(msg, m.keys.SortBack):
		return m, waitFor(m.session.SetSortKey(m.ctx, m.session.Params().Sort.Next(-1)))
	case key.Matches(msg, m.keys.Reload):
		return m, waitFor(m.session.Reload(m.ctx))
	}
	return m, nil
}

// nextLimit cycles through Limits. A limit that isn't offered (eg. from the
// config file) moves to the smallest offered one above it.
func nextLimit(current int) int {
	for _, limit := range Limits {
		if limit > current {
			return limit
		}
	}
	return Limits[0]
}

func (m Model) View() string {
	snap := m.session.Snapshot()
	switch {
	case snap.State.Status == fetch.Error:
		return writer.RenderError(snap.State.ErrorMessage()) + "\n"
	case snap.State.Status != fetch.Success && len(snap.State.Coins) == 0:
		return "Loading...\n"
	}

	var b strings.Builder
	b.WriteString(m.controls(snap))
	b.WriteString("\n\n")
	if len(snap.Coins) == 0 {
		b.WriteString(helpStyle.Render(fmt.Sprintf("No coin matches %q", snap.Params.Filter)))
	} else {
		b.WriteString(writer.RenderGrid(snap.Coins, m.width))
	}
	b.WriteString("\n\n")
	b.WriteString(helpStyle.Render(m.keys.help(m.filter.Focused())))
	b.WriteString("\n")
	return b.String()
}

func (m Model) controls(snap query.Snapshot) string {
	parts := []string{
		labelStyle.Render("Filter: ") + m.filter.View(),
		labelStyle.Render("Limit: ") + valueStyle.Render(fmt.Sprint(snap.Params.Limit)),
		labelStyle.Render("Sort by: ") + valueStyle.Render(snap.Params.Sort.Label()),
	}
	if snap.State.Status == fetch.Loading {
		parts = append(parts, helpStyle.Render("Loading..."))
	}
	return strings.Join(parts, "   ")
}
