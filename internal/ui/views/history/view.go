package history

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	statedto "focuscraft/internal/modules/state/dto"
	"focuscraft/internal/ui/theme"
)

// ─── port ────────────────────────────────────────────────────────────────────

type HistoryPort interface {
	History(ctx context.Context, limit int) ([]statedto.TransactionOutput, error)
}

// ─── messages ────────────────────────────────────────────────────────────────

type loadedMsg struct {
	entries []statedto.TransactionOutput
	err     error
}

// ─── model ───────────────────────────────────────────────────────────────────

type Model struct {
	port     HistoryPort
	viewport viewport.Model
	entries  []statedto.TransactionOutput
	limit    int
	loadErr  error
	width    int
	height   int
}

func New(port HistoryPort) Model {
	vp := viewport.New(0, 0)
	vp.Style = lipgloss.NewStyle().
		Background(theme.Mantle).
		Foreground(theme.Text).
		Padding(1)

	return Model{port: port, viewport: vp, limit: 50}
}

func (m Model) Init() tea.Cmd {
	return m.Reload()
}

func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.viewport.Width = m.width - 4
		m.viewport.Height = m.height - 3
		m.viewport.SetContent(m.renderEntries())

	case loadedMsg:
		m.entries = msg.entries
		m.loadErr = msg.err
		m.viewport.SetContent(m.renderEntries())
	}

	var cmd tea.Cmd
	m.viewport, cmd = m.viewport.Update(msg)
	return m, cmd
}

func (m Model) View() string {
	title := theme.Title.Render("Ledger") + theme.Muted.Render(fmt.Sprintf("  last %d", m.limit))
	return lipgloss.JoinVertical(lipgloss.Left, " "+title, m.viewport.View())
}

// SetLimit changes how many entries are fetched and triggers a reload.
func (m *Model) SetLimit(limit int) tea.Cmd {
	if limit > 0 {
		m.limit = limit
	}
	return m.Reload()
}

// Reload refetches the ledger from the projection.
func (m Model) Reload() tea.Cmd {
	return func() tea.Msg {
		entries, err := m.port.History(context.Background(), m.limit)
		return loadedMsg{entries: entries, err: err}
	}
}

// ─── private ─────────────────────────────────────────────────────────────────

func (m Model) renderEntries() string {
	if m.loadErr != nil {
		return theme.Danger.Render("ledger unavailable: " + m.loadErr.Error())
	}
	if len(m.entries) == 0 {
		return theme.Muted.Render("No transactions yet. Complete a session to earn coins.")
	}

	var sb strings.Builder
	for _, e := range m.entries {
		amount := fmt.Sprintf("%+d", e.Amount)
		styled := theme.Good.Render(amount)
		if e.Amount < 0 {
			styled = theme.Danger.Render(amount)
		}
		sb.WriteString(fmt.Sprintf("%s  %s %s  %s\n",
			theme.Muted.Render(e.Date.Local().Format("Jan 02 15:04")),
			styled,
			theme.Muted.Render("["+e.Type+"]"),
			e.Note,
		))
	}
	return sb.String()
}
