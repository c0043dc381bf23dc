package settings

import (
	"context"
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	statedto "focuscraft/internal/modules/state/dto"
	"focuscraft/internal/ui/theme"
)

// ─── port ────────────────────────────────────────────────────────────────────

type SettingsPort interface {
	Settings(ctx context.Context) statedto.SettingsOutput
}

// ─── messages ────────────────────────────────────────────────────────────────

type loadedMsg struct{ settings statedto.SettingsOutput }

// ─── model ───────────────────────────────────────────────────────────────────

// Model is read-only: all edits go through the command palette, which
// keeps validation in one place.
type Model struct {
	port     SettingsPort
	settings statedto.SettingsOutput
	width    int
	height   int
}

func New(port SettingsPort) Model {
	return Model{port: port}
}

func (m Model) Init() tea.Cmd {
	return m.Reload()
}

func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
	case loadedMsg:
		m.settings = msg.settings
	}
	return m, nil
}

func (m Model) View() string {
	s := m.settings
	durations := make([]string, len(s.SessionDurations))
	for i, d := range s.SessionDurations {
		durations[i] = fmt.Sprintf("%d", d)
	}

	onOff := func(v bool) string {
		if v {
			return theme.Good.Render("on")
		}
		return theme.Muted.Render("off")
	}

	var sb strings.Builder
	sb.WriteString(theme.Title.Render("Settings") + "\n\n")
	sb.WriteString(theme.Muted.Render("durations:  ") + strings.Join(durations, ", ") + " min\n")
	sb.WriteString(theme.Muted.Render("default:    ") + fmt.Sprintf("%d min", s.DefaultDuration) + "\n")
	sb.WriteString(theme.Muted.Render("threshold:  ") + fmt.Sprintf("%.0f%%", s.CompletionThreshold*100) + "\n")
	sb.WriteString(theme.Muted.Render("reward:     ") + fmt.Sprintf("+%d coins per session", s.RewardAmount) + "\n")
	sb.WriteString(theme.Muted.Render("penalty:    ") + fmt.Sprintf("-%d coins on abandon", s.PenaltyAmount) + "\n")
	sb.WriteString(theme.Muted.Render("cooldown:   ") + fmt.Sprintf("%d s", s.CooldownSec) + "\n")
	sb.WriteString(theme.Muted.Render("strict:     ") + onOff(s.StrictMode) + "\n")
	sb.WriteString(theme.Muted.Render("pin:        ") + onOff(s.HasPIN) + "\n")
	sb.WriteString(theme.Muted.Render("language:   ") + s.Language + "\n")
	sb.WriteString("\n" + theme.Muted.Render("edit via the palette, e.g.  settings:strict off") + "\n")

	return lipgloss.NewStyle().Width(m.width).Height(m.height).Padding(1, 2).Render(sb.String())
}

// Reload refetches the settings snapshot.
func (m Model) Reload() tea.Cmd {
	return func() tea.Msg {
		return loadedMsg{settings: m.port.Settings(context.Background())}
	}
}
