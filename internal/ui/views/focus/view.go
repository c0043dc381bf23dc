package focus

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/progress"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	statedto "focuscraft/internal/modules/state/dto"
	"focuscraft/internal/ui/theme"
)

// ─── port ────────────────────────────────────────────────────────────────────

type StatePort interface {
	Wallet(ctx context.Context) statedto.WalletOutput
	Settings(ctx context.Context) statedto.SettingsOutput
}

// ─── messages ────────────────────────────────────────────────────────────────

// snapshotMsg carries the wallet and settings loaded at startup and after
// every session outcome.
type snapshotMsg struct {
	wallet   statedto.WalletOutput
	settings statedto.SettingsOutput
}

// StartedMsg tells the view a countdown began. Reward marks a reward
// session instead of a focus session.
type StartedMsg struct {
	DurationSec int
	Reward      bool
}

// TickMsg advances the countdown display.
type TickMsg struct {
	Remaining int
	Progress  float64
}

// MessageMsg replaces the motivational text.
type MessageMsg struct{ Text string }

// PausedMsg and ResumedMsg track the strict-mode grace window.
type PausedMsg struct{}
type ResumedMsg struct{}

// FinishedMsg ends the countdown display. Abandoned distinguishes a
// penalty exit from a completion.
type FinishedMsg struct{ Abandoned bool }

// ─── model ───────────────────────────────────────────────────────────────────

type Model struct {
	port StatePort

	durations []int
	cursor    int
	coins     int
	strict    bool

	running     bool
	reward      bool
	paused      bool
	durationSec int
	remaining   int
	percent     float64
	message     string
	outcome     string

	bar     progress.Model
	spinner spinner.Model
	width   int
	height  int
}

func New(port StatePort) Model {
	bar := progress.New(progress.WithGradient("#74c7ec", "#a6e3a1"))
	bar.ShowPercentage = false

	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = lipgloss.NewStyle().Foreground(theme.Lavender)

	return Model{
		port:      port,
		durations: []int{25},
		bar:       bar,
		spinner:   sp,
	}
}

func (m Model) Init() tea.Cmd {
	return tea.Batch(m.loadSnapshotCmd(), m.spinner.Tick)
}

func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		w := m.width - 16
		if w < 10 {
			w = 10
		}
		m.bar.Width = w

	case snapshotMsg:
		m.coins = msg.wallet.Coins
		m.strict = msg.settings.StrictMode
		if len(msg.settings.SessionDurations) > 0 {
			m.durations = msg.settings.SessionDurations
		}
		if m.cursor >= len(m.durations) {
			m.cursor = 0
		}
		for i, d := range m.durations {
			if d == msg.settings.DefaultDuration && !m.running {
				m.cursor = i
			}
		}

	case StartedMsg:
		m.running = true
		m.reward = msg.Reward
		m.paused = false
		m.durationSec = msg.DurationSec
		m.remaining = msg.DurationSec
		m.percent = 0
		m.message = ""
		m.outcome = ""

	case TickMsg:
		m.remaining = msg.Remaining
		m.percent = msg.Progress / 100

	case MessageMsg:
		m.message = msg.Text

	case PausedMsg:
		m.paused = true

	case ResumedMsg:
		m.paused = false

	case FinishedMsg:
		m.running = false
		m.paused = false
		if msg.Abandoned {
			m.outcome = "Session abandoned. The penalty has been deducted."
		} else if m.reward {
			m.outcome = "Reward time is up. Back to it!"
		} else {
			m.outcome = "Session complete! Coins earned."
		}
		m.reward = false
		return m, m.loadSnapshotCmd()

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd

	case tea.KeyMsg:
		if m.running {
			break
		}
		switch msg.String() {
		case "up", "k":
			if m.cursor > 0 {
				m.cursor--
			}
		case "down", "j":
			if m.cursor < len(m.durations)-1 {
				m.cursor++
			}
		}
	}
	return m, nil
}

func (m Model) View() string {
	var sb strings.Builder
	sb.WriteString(theme.Title.Render("Focus") + "   " +
		theme.Coin.Render(fmt.Sprintf("● %d coins", m.coins)) + "\n\n")

	if m.running {
		sb.WriteString(m.renderCountdown())
	} else {
		sb.WriteString(m.renderPicker())
	}

	if m.outcome != "" {
		sb.WriteString("\n" + theme.Good.Render(m.outcome) + "\n")
	}

	return lipgloss.NewStyle().Width(m.width).Height(m.height).Padding(1, 2).Render(sb.String())
}

// SelectedMinutes returns the duration the picker currently highlights.
func (m Model) SelectedMinutes() int {
	if len(m.durations) == 0 {
		return 25
	}
	return m.durations[m.cursor]
}

// Running reports whether a countdown is on screen.
func (m Model) Running() bool { return m.running }

// ─── private ─────────────────────────────────────────────────────────────────

func (m Model) renderCountdown() string {
	var sb strings.Builder
	label := "Focus session"
	if m.reward {
		label = "Reward time"
	}
	sb.WriteString(theme.Muted.Render(label) + "\n\n")

	clock := fmt.Sprintf("%02d:%02d", m.remaining/60, m.remaining%60)
	big := lipgloss.NewStyle().Foreground(theme.Lavender).Bold(true).Render(clock)
	sb.WriteString("    " + big + "\n\n")
	sb.WriteString("    " + m.bar.ViewAs(m.percent) + "\n\n")

	if m.paused {
		sb.WriteString("    " + theme.Danger.Render("⏸ Paused. Come back or the session is forfeit!") + "\n")
	} else if m.message != "" {
		sb.WriteString("    " + m.spinner.View() + " " + theme.Muted.Render(m.message) + "\n")
	}
	if !m.reward {
		sb.WriteString("\n" + theme.Muted.Render("    a: abandon") + "\n")
	}
	return sb.String()
}

func (m Model) renderPicker() string {
	var sb strings.Builder
	sb.WriteString(theme.Muted.Render("Pick a duration and press enter to start") + "\n\n")
	for i, d := range m.durations {
		line := fmt.Sprintf("  %d min", d)
		if i == m.cursor {
			sb.WriteString(theme.Hot.Render("▸"+line) + "\n")
		} else {
			sb.WriteString(theme.Muted.Render(" "+line) + "\n")
		}
	}
	if m.strict {
		sb.WriteString("\n" + theme.Muted.Render("strict mode is on: leaving the terminal forfeits the session") + "\n")
	}
	return sb.String()
}

func (m Model) loadSnapshotCmd() tea.Cmd {
	return func() tea.Msg {
		ctx := context.Background()
		return snapshotMsg{wallet: m.port.Wallet(ctx), settings: m.port.Settings(ctx)}
	}
}
