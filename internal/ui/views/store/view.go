package store

import (
	"context"
	"fmt"

	"github.com/charmbracelet/bubbles/list"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	statedto "focuscraft/internal/modules/state/dto"
	"focuscraft/internal/ui/theme"
)

// ─── port ────────────────────────────────────────────────────────────────────

type StorePort interface {
	Wallet(ctx context.Context) statedto.WalletOutput
	Rewards(ctx context.Context, activeOnly bool) []statedto.RewardOutput
	Redeem(ctx context.Context, rewardID string) (statedto.RedeemOutput, error)
}

// ─── messages ────────────────────────────────────────────────────────────────

type rewardsLoadedMsg struct {
	wallet  statedto.WalletOutput
	rewards []statedto.RewardOutput
}

// RedeemedMsg bubbles up to the app model so it can start the reward
// countdown and refresh the other tabs.
type RedeemedMsg struct {
	Out statedto.RedeemOutput
	Err error
}

// ─── list item ───────────────────────────────────────────────────────────────

type rewardItem struct {
	reward statedto.RewardOutput
}

func (i rewardItem) Title() string { return i.reward.Title }

func (i rewardItem) Description() string {
	desc := fmt.Sprintf("%d coins", i.reward.Cost)
	if i.reward.DurationMin > 0 {
		desc += fmt.Sprintf("  %d min", i.reward.DurationMin)
	}
	if i.reward.Description != "" {
		desc += "  " + i.reward.Description
	}
	return desc
}

func (i rewardItem) FilterValue() string { return i.reward.Title }

// ─── model ───────────────────────────────────────────────────────────────────

type Model struct {
	port   StorePort
	list   list.Model
	coins  int
	status string
	width  int
	height int
}

func New(port StorePort) Model {
	delegate := list.NewDefaultDelegate()
	delegate.Styles.SelectedTitle = delegate.Styles.SelectedTitle.Foreground(theme.Lavender).BorderForeground(theme.Lavender)
	delegate.Styles.SelectedDesc = delegate.Styles.SelectedDesc.Foreground(theme.Sapphire).BorderForeground(theme.Lavender)

	l := list.New(nil, delegate, 0, 0)
	l.Title = "Reward Store"
	l.Styles.Title = theme.Title
	l.SetShowStatusBar(true)
	l.SetFilteringEnabled(true)
	l.SetShowHelp(false)

	return Model{port: port, list: l}
}

func (m Model) Init() tea.Cmd {
	return m.Reload()
}

func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	var cmds []tea.Cmd

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.list.SetSize(m.width, m.height-2)

	case rewardsLoadedMsg:
		m.coins = msg.wallet.Coins
		items := make([]list.Item, len(msg.rewards))
		for i, r := range msg.rewards {
			items[i] = rewardItem{reward: r}
		}
		cmds = append(cmds, m.list.SetItems(items))

	case RedeemedMsg:
		if msg.Err != nil {
			m.status = "redeem failed: " + msg.Err.Error()
		} else {
			m.status = fmt.Sprintf("redeemed %s for %d coins", msg.Out.RewardTitle, msg.Out.Cost)
		}
		cmds = append(cmds, m.Reload())
	}

	var lCmd tea.Cmd
	m.list, lCmd = m.list.Update(msg)
	cmds = append(cmds, lCmd)

	return m, tea.Batch(cmds...)
}

func (m Model) View() string {
	header := theme.Coin.Render(fmt.Sprintf("● %d coins", m.coins))
	if m.status != "" {
		header += "  " + theme.Muted.Render(m.status)
	}
	return lipgloss.JoinVertical(lipgloss.Left, " "+header, m.list.View())
}

// SelectedRewardID returns the current selection's reward ID, if any.
func (m Model) SelectedRewardID() (string, bool) {
	if item, ok := m.list.SelectedItem().(rewardItem); ok {
		return item.reward.ID, true
	}
	return "", false
}

// Filtering reports whether the list's search filter is currently active.
// The app model checks this to avoid consuming global keys during a search.
func (m Model) Filtering() bool {
	return m.list.FilterState() == list.Filtering
}

// Reload refreshes the wallet and reward list from the state module.
func (m Model) Reload() tea.Cmd {
	return func() tea.Msg {
		ctx := context.Background()
		return rewardsLoadedMsg{wallet: m.port.Wallet(ctx), rewards: m.port.Rewards(ctx, true)}
	}
}

// RedeemCmd attempts redemption of the given reward.
func (m Model) RedeemCmd(rewardID string) tea.Cmd {
	return func() tea.Msg {
		out, err := m.port.Redeem(context.Background(), rewardID)
		return RedeemedMsg{Out: out, Err: err}
	}
}
