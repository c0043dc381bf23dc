package app

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	statedto "focuscraft/internal/modules/state/dto"
	timersvc "focuscraft/internal/modules/timer/service"
	"focuscraft/internal/ui/components"
	"focuscraft/internal/ui/theme"
	focusview "focuscraft/internal/ui/views/focus"
	historyview "focuscraft/internal/ui/views/history"
	settingsview "focuscraft/internal/ui/views/settings"
	storeview "focuscraft/internal/ui/views/store"
)

// ─── ports ───────────────────────────────────────────────────────────────────
// Each port is the minimal interface that this orchestration layer requires.
// Sub-view ports are defined in their own packages and narrowed further.

type statePort interface {
	Wallet(ctx context.Context) statedto.WalletOutput
	Rewards(ctx context.Context, activeOnly bool) []statedto.RewardOutput
	Settings(ctx context.Context) statedto.SettingsOutput
	StartSession(ctx context.Context, durationMin int) (statedto.SessionOutput, error)
	CompleteSession(ctx context.Context) error
	AbandonSession(ctx context.Context) error
	AddReward(ctx context.Context, input statedto.AddRewardInput) (statedto.RewardOutput, error)
	UpdateReward(ctx context.Context, input statedto.UpdateRewardInput) (statedto.RewardOutput, error)
	DeleteReward(ctx context.Context, rewardID string) error
	Redeem(ctx context.Context, rewardID string) (statedto.RedeemOutput, error)
	FinishReward(ctx context.Context) error
	UpdateSettings(ctx context.Context, input statedto.UpdateSettingsInput) (statedto.SettingsOutput, error)
	VerifyPIN(ctx context.Context, pin string) error
	SetPIN(ctx context.Context, current, next string) error
	History(ctx context.Context, limit int) ([]statedto.TransactionOutput, error)
	Reset(ctx context.Context) error
}

type timerPort interface {
	Start(ctx context.Context, kind timersvc.Kind) (<-chan timersvc.Event, error)
	Visibility(visible bool)
	Stop()
}

// ─── tab index ───────────────────────────────────────────────────────────────

type tabID int

const (
	tabFocus tabID = iota
	tabStore
	tabHistory
	tabSettings
	tabCount
)

var tabLabels = [tabCount]string{
	"Focus", "Store", "History", "Settings",
}

// ─── async messages ───────────────────────────────────────────────────────────

type timerEventMsg struct {
	ev timersvc.Event
	ok bool
}

type timerStartedMsg struct {
	durationSec int
	reward      bool
	events      <-chan timersvc.Event
	err         error
}

type actionDoneMsg struct {
	status string
	err    error
}

// ─── key bindings ─────────────────────────────────────────────────────────────

type keyMap struct {
	Tab     key.Binding
	Help    key.Binding
	Palette key.Binding
	Quit    key.Binding
	Enter   key.Binding
	Abandon key.Binding
}

func defaultKeys() keyMap {
	return keyMap{
		Tab:     key.NewBinding(key.WithKeys("tab"), key.WithHelp("tab", "next tab")),
		Help:    key.NewBinding(key.WithKeys("?"), key.WithHelp("?", "help")),
		Palette: key.NewBinding(key.WithKeys(":"), key.WithHelp(":", "palette")),
		Quit:    key.NewBinding(key.WithKeys("ctrl+c", "q"), key.WithHelp("q", "quit")),
		Enter:   key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "start / redeem")),
		Abandon: key.NewBinding(key.WithKeys("a"), key.WithHelp("a", "abandon session")),
	}
}

func (k keyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Tab, k.Help, k.Palette, k.Quit}
}

func (k keyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Tab, k.Enter, k.Abandon},
		{k.Help, k.Palette, k.Quit},
	}
}

// ─── model ───────────────────────────────────────────────────────────────────

// Model is the root Bubble Tea model. It owns tab routing, the timer run,
// the PIN gate, the global help overlay, and the command palette. All
// business logic is delegated to port interfaces; all rendering is
// delegated to sub-views.
type Model struct {
	state statePort
	timer timerPort

	// sub-views (one per tab)
	focusView    focusview.Model
	storeView    storeview.Model
	historyView  historyview.Model
	settingsView settingsview.Model

	// timer run state
	events     <-chan timersvc.Event
	running    bool
	rewardRun  bool
	resetArmed bool

	// PIN gate
	locked   bool
	pinInput textinput.Model

	// global UI state
	activeTab tabID
	keys      keyMap
	help      help.Model
	showHelp  bool
	palette   components.Palette
	status    string
	width     int
	height    int
}

// ─── constructor ─────────────────────────────────────────────────────────────

func NewModel(state statePort, timer timerPort) Model {
	pin := textinput.New()
	pin.Placeholder = "PIN"
	pin.EchoMode = textinput.EchoPassword
	pin.CharLimit = 12

	return Model{
		state:        state,
		timer:        timer,
		focusView:    focusview.New(state),
		storeView:    storeview.New(state),
		historyView:  historyview.New(state),
		settingsView: settingsview.New(state),
		locked:       state.Settings(context.Background()).HasPIN,
		pinInput:     pin,
		activeTab:    tabFocus,
		keys:         defaultKeys(),
		help:         help.New(),
		palette:      components.NewPalette(),
		status:       "ready",
	}
}

func (m Model) Init() tea.Cmd {
	cmds := []tea.Cmd{
		m.focusView.Init(),
		m.storeView.Init(),
		m.historyView.Init(),
		m.settingsView.Init(),
	}
	if m.locked {
		cmds = append(cmds, m.pinInput.Focus())
	}
	return tea.Batch(cmds...)
}

// ─── update ───────────────────────────────────────────────────────────────────

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmds []tea.Cmd

	// Terminal focus reporting is the visibility signal regardless of
	// which overlay is open.
	switch msg.(type) {
	case tea.FocusMsg:
		m.timer.Visibility(true)
	case tea.BlurMsg:
		m.timer.Visibility(false)
	}

	if m.locked {
		return m.updateLocked(msg)
	}

	// Controller events are not keyboard input: they must keep draining
	// no matter which overlay is open, or the listen chain is severed
	// and the run goroutine backs up behind a full event buffer.
	switch msg := msg.(type) {
	case timerEventMsg:
		return m.handleTimerEvent(msg)
	case timerStartedMsg:
		return m.handleTimerStarted(msg)
	}

	// The palette intercepts keyboard input while open.
	if m.palette.Visible() {
		var cmd tea.Cmd
		m.palette, cmd = m.palette.Update(msg)
		return m, cmd
	}

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.palette.SetWidth(min(m.width-4, 80))
		m.help.Width = m.width
		m.propagateSize()

	case actionDoneMsg:
		if msg.err != nil {
			m.status = msg.err.Error()
		} else {
			m.status = msg.status
		}
		cmds = append(cmds, m.refreshAllCmd())

	case components.PaletteSubmitMsg:
		return m.executePalette(msg.Input)

	case components.PaletteCancelMsg:
		m.status = "ready"

	// RedeemedMsg is produced by the store view but bubbles up through the
	// top level so redeeming a timed reward can start the countdown.
	case storeview.RedeemedMsg:
		if msg.Err == nil && msg.Out.RewardSessionSec > 0 {
			cmds = append(cmds, m.startTimerCmd(timersvc.KindReward, msg.Out.RewardSessionSec))
		}
		if msg.Err == nil {
			m.status = fmt.Sprintf("redeemed %s, %d coins left", msg.Out.RewardTitle, msg.Out.CoinsLeft)
		}
		var cmd tea.Cmd
		m.storeView, cmd = m.storeView.Update(msg)
		cmds = append(cmds, cmd, m.historyView.Reload())
		return m, tea.Batch(cmds...)

	case tea.KeyMsg:
		if m.showHelp {
			if msg.String() == "?" || msg.String() == "esc" {
				m.showHelp = false
			}
			return m, nil
		}
		if m.storeFiltering() {
			break
		}

		switch msg.String() {
		case "ctrl+c", "q":
			return m, tea.Quit
		case "tab":
			m.activeTab = (m.activeTab + 1) % tabCount
		case "shift+tab":
			m.activeTab = (m.activeTab + tabCount - 1) % tabCount
		case "?":
			m.showHelp = !m.showHelp
		case ":":
			cmds = append(cmds, m.palette.Open())
			return m, tea.Batch(cmds...)
		case "enter":
			switch m.activeTab {
			case tabFocus:
				if !m.running {
					cmds = append(cmds, m.startSessionCmd(m.focusView.SelectedMinutes()))
				}
			case tabStore:
				if id, ok := m.storeView.SelectedRewardID(); ok {
					cmds = append(cmds, m.storeView.RedeemCmd(id))
				}
			}
		case "a":
			if m.running && !m.rewardRun {
				cmds = append(cmds, m.abandonCmd())
			}
		}
	}

	// Propagate the message to the active tab's sub-view.
	var tabCmd tea.Cmd
	switch m.activeTab {
	case tabFocus:
		m.focusView, tabCmd = m.focusView.Update(msg)
	case tabStore:
		m.storeView, tabCmd = m.storeView.Update(msg)
	case tabHistory:
		m.historyView, tabCmd = m.historyView.Update(msg)
	case tabSettings:
		m.settingsView, tabCmd = m.settingsView.Update(msg)
	}
	cmds = append(cmds, tabCmd)

	return m, tea.Batch(cmds...)
}

// handleTimerStarted begins the listen chain for a fresh run.
func (m Model) handleTimerStarted(msg timerStartedMsg) (tea.Model, tea.Cmd) {
	if msg.err != nil {
		m.status = "timer: " + msg.err.Error()
		return m, nil
	}
	m.running = true
	m.rewardRun = msg.reward
	m.events = msg.events
	m.activeTab = tabFocus
	var cmd tea.Cmd
	m.focusView, cmd = m.focusView.Update(focusview.StartedMsg{DurationSec: msg.durationSec, Reward: msg.reward})
	return m, tea.Batch(cmd, listenCmd(msg.events))
}

// handleTimerEvent translates controller events into focus-view messages
// and keeps listening until the run's channel closes.
func (m Model) handleTimerEvent(msg timerEventMsg) (tea.Model, tea.Cmd) {
	if !msg.ok {
		m.running = false
		m.rewardRun = false
		m.events = nil
		return m, nil
	}

	var cmds []tea.Cmd
	var cmd tea.Cmd
	switch msg.ev.Kind {
	case timersvc.EventTick:
		m.focusView, cmd = m.focusView.Update(focusview.TickMsg{Remaining: msg.ev.Remaining, Progress: msg.ev.Progress})
	case timersvc.EventMessage:
		m.focusView, cmd = m.focusView.Update(focusview.MessageMsg{Text: msg.ev.Message})
	case timersvc.EventPaused:
		m.status = "strict mode: come back before the grace period runs out"
		m.focusView, cmd = m.focusView.Update(focusview.PausedMsg{})
	case timersvc.EventResumed:
		m.status = "welcome back"
		m.focusView, cmd = m.focusView.Update(focusview.ResumedMsg{})
	case timersvc.EventCompleted:
		m.status = "session complete"
		m.focusView, cmd = m.focusView.Update(focusview.FinishedMsg{})
		cmds = append(cmds, m.storeView.Reload(), m.historyView.Reload())
	case timersvc.EventAbandoned:
		m.status = "session abandoned"
		m.focusView, cmd = m.focusView.Update(focusview.FinishedMsg{Abandoned: true})
		cmds = append(cmds, m.storeView.Reload(), m.historyView.Reload())
	}
	cmds = append(cmds, cmd, listenCmd(m.events))
	return m, tea.Batch(cmds...)
}

// updateLocked runs the PIN gate: nothing else is reachable until the
// stored PIN verifies.
func (m Model) updateLocked(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.propagateSize()
	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c":
			return m, tea.Quit
		case "enter":
			if err := m.state.VerifyPIN(context.Background(), m.pinInput.Value()); err != nil {
				m.pinInput.SetValue("")
				m.status = "wrong PIN"
				return m, nil
			}
			m.locked = false
			m.pinInput.Blur()
			m.status = "ready"
			return m, nil
		}
	}
	var cmd tea.Cmd
	m.pinInput, cmd = m.pinInput.Update(msg)
	return m, cmd
}

// ─── view ────────────────────────────────────────────────────────────────────

func (m Model) View() string {
	if m.locked {
		box := theme.Pane.Render(theme.Title.Render("FocusCraft is locked") + "\n\n" +
			"PIN: " + m.pinInput.View() + "\n\n" +
			theme.Muted.Render(m.status))
		return lipgloss.Place(m.width, m.height, lipgloss.Center, lipgloss.Center, box)
	}

	tabBar := m.renderTabBar()
	statusBar := m.renderStatusBar()
	tabBarH := lipgloss.Height(tabBar)
	statusBarH := lipgloss.Height(statusBar)

	contentH := m.height - tabBarH - statusBarH
	if contentH < 1 {
		contentH = 1
	}

	var content string
	switch {
	case m.showHelp:
		content = lipgloss.NewStyle().Width(m.width).Height(contentH).
			Render(m.help.View(m.keys))
	case m.palette.Visible():
		content = lipgloss.Place(m.width, contentH,
			lipgloss.Center, lipgloss.Center, m.palette.View())
	default:
		content = m.activeView()
	}

	return lipgloss.JoinVertical(lipgloss.Left, tabBar, content, statusBar)
}

func (m Model) activeView() string {
	switch m.activeTab {
	case tabFocus:
		return m.focusView.View()
	case tabStore:
		return m.storeView.View()
	case tabHistory:
		return m.historyView.View()
	case tabSettings:
		return m.settingsView.View()
	}
	return ""
}

func (m Model) renderTabBar() string {
	parts := make([]string, tabCount)
	for i := tabID(0); i < tabCount; i++ {
		label := tabLabels[i]
		if i == m.activeTab {
			parts[i] = theme.Hot.Render(" " + label + " ")
		} else {
			parts[i] = theme.Muted.Render(" " + label + " ")
		}
	}
	sep := theme.Muted.Render(" │ ")
	bar := "focuscraft  " + strings.Join(parts, sep)
	return lipgloss.NewStyle().Background(theme.Mantle).Width(m.width).Render(bar) + "\n"
}

func (m Model) renderStatusBar() string {
	left := m.status
	if m.running {
		marker := "● focusing"
		if m.rewardRun {
			marker = "● reward time"
		}
		left = theme.Hot.Render(marker) + "  " + left
	}
	right := theme.Muted.Render("?:help  tab:switch  :::palette  q:quit")
	gap := m.width - lipgloss.Width(left) - lipgloss.Width(right)
	if gap < 1 {
		gap = 1
	}
	bar := left + strings.Repeat(" ", gap) + right
	return "\n" + lipgloss.NewStyle().Background(theme.Mantle).Width(m.width).Render(bar)
}

// ─── palette execution ────────────────────────────────────────────────────────

func (m Model) executePalette(input string) (tea.Model, tea.Cmd) {
	if strings.TrimSpace(input) == "" {
		return m, nil
	}
	parts := strings.Fields(input)

	if parts[0] != "reset:confirm" {
		m.resetArmed = false
	}

	switch parts[0] {
	case "session:start":
		minutes := m.focusView.SelectedMinutes()
		if len(parts) >= 2 {
			v, err := strconv.Atoi(parts[1])
			if err != nil {
				m.status = "usage: session:start [minutes]"
				return m, nil
			}
			minutes = v
		}
		return m, m.startSessionCmd(minutes)

	case "session:complete":
		return m, m.completeCmd()

	case "session:abandon":
		return m, m.abandonCmd()

	case "reward:add":
		input, err := parseRewardArgs(parts[1:])
		if err != nil {
			m.status = "usage: reward:add <cost> [minutes] <title>"
			return m, nil
		}
		return m, m.addRewardCmd(input)

	case "reward:update":
		if len(parts) < 3 {
			m.status = "usage: reward:update <id> <cost> [minutes] <title>"
			return m, nil
		}
		add, err := parseRewardArgs(parts[2:])
		if err != nil {
			m.status = "usage: reward:update <id> <cost> [minutes] <title>"
			return m, nil
		}
		return m, m.updateRewardCmd(parts[1], add)

	case "reward:delete":
		if len(parts) < 2 {
			m.status = "usage: reward:delete <id>"
			return m, nil
		}
		return m, m.deleteRewardCmd(parts[1])

	case "reward:finish":
		return m, m.finishRewardCmd()

	case "store:redeem":
		if len(parts) < 2 {
			m.status = "usage: store:redeem <id>"
			return m, nil
		}
		return m, m.storeView.RedeemCmd(parts[1])

	case "settings:durations":
		if len(parts) < 2 {
			m.status = "usage: settings:durations <min,min,...>"
			return m, nil
		}
		durations, err := parseDurations(parts[1])
		if err != nil {
			m.status = "invalid durations"
			return m, nil
		}
		return m, m.updateSettingsCmd(statedto.UpdateSettingsInput{SessionDurations: durations})

	case "settings:default":
		if len(parts) < 2 {
			m.status = "usage: settings:default <minutes>"
			return m, nil
		}
		v, err := strconv.Atoi(parts[1])
		if err != nil {
			m.status = "invalid minutes"
			return m, nil
		}
		return m, m.updateSettingsCmd(statedto.UpdateSettingsInput{DefaultDuration: &v})

	case "settings:amounts":
		if len(parts) < 3 {
			m.status = "usage: settings:amounts <reward> <penalty>"
			return m, nil
		}
		reward, err1 := strconv.Atoi(parts[1])
		penalty, err2 := strconv.Atoi(parts[2])
		if err1 != nil || err2 != nil {
			m.status = "invalid amounts"
			return m, nil
		}
		return m, m.updateSettingsCmd(statedto.UpdateSettingsInput{RewardAmount: &reward, PenaltyAmount: &penalty})

	case "settings:strict":
		if len(parts) < 2 || (parts[1] != "on" && parts[1] != "off") {
			m.status = "usage: settings:strict <on|off>"
			return m, nil
		}
		strict := parts[1] == "on"
		return m, m.updateSettingsCmd(statedto.UpdateSettingsInput{StrictMode: &strict})

	case "settings:language":
		if len(parts) < 2 {
			m.status = "usage: settings:language <en|es>"
			return m, nil
		}
		return m, m.updateSettingsCmd(statedto.UpdateSettingsInput{Language: &parts[1]})

	case "pin:set":
		if len(parts) < 2 {
			m.status = "usage: pin:set [current] <new>"
			return m, nil
		}
		current, next := "", parts[1]
		if len(parts) >= 3 {
			current, next = parts[1], parts[2]
		}
		return m, m.setPinCmd(current, next)

	case "pin:clear":
		current := ""
		if len(parts) >= 2 {
			current = parts[1]
		}
		return m, m.setPinCmd(current, "")

	case "history:limit":
		if len(parts) < 2 {
			m.status = "usage: history:limit <n>"
			return m, nil
		}
		n, err := strconv.Atoi(parts[1])
		if err != nil {
			m.status = "invalid limit"
			return m, nil
		}
		m.activeTab = tabHistory
		return m, m.historyView.SetLimit(n)

	case "reset:confirm":
		if !m.resetArmed {
			m.resetArmed = true
			m.status = "this wipes everything: run reset:confirm again to proceed"
			return m, nil
		}
		m.resetArmed = false
		return m, m.resetCmd()

	default:
		m.status = "unknown command: " + parts[0]
	}
	return m, nil
}

// ─── helpers ─────────────────────────────────────────────────────────────────

func (m Model) storeFiltering() bool {
	return m.activeTab == tabStore && m.storeView.Filtering()
}

func (m *Model) propagateSize() {
	sz := tea.WindowSizeMsg{Width: m.width, Height: m.height - 3}
	m.focusView, _ = m.focusView.Update(sz)
	m.storeView, _ = m.storeView.Update(sz)
	m.historyView, _ = m.historyView.Update(sz)
	m.settingsView, _ = m.settingsView.Update(sz)
}

func parseRewardArgs(args []string) (statedto.AddRewardInput, error) {
	if len(args) < 2 {
		return statedto.AddRewardInput{}, fmt.Errorf("not enough arguments")
	}
	cost, err := strconv.Atoi(args[0])
	if err != nil {
		return statedto.AddRewardInput{}, err
	}
	rest := args[1:]
	minutes := 0
	if v, err := strconv.Atoi(rest[0]); err == nil {
		if len(rest) < 2 {
			return statedto.AddRewardInput{}, fmt.Errorf("missing title")
		}
		minutes = v
		rest = rest[1:]
	}
	return statedto.AddRewardInput{
		Title:       strings.Join(rest, " "),
		Cost:        cost,
		DurationMin: minutes,
	}, nil
}

func parseDurations(raw string) ([]int, error) {
	fields := strings.Split(raw, ",")
	out := make([]int, 0, len(fields))
	for _, f := range fields {
		v, err := strconv.Atoi(strings.TrimSpace(f))
		if err != nil {
			return nil, err
		}
		out = append(out, v)
	}
	return out, nil
}

// ─── async commands ───────────────────────────────────────────────────────────

// listenCmd waits for the next controller event. Re-issued after every
// event so the channel drains into the Bubble Tea loop one message at a
// time.
func listenCmd(events <-chan timersvc.Event) tea.Cmd {
	return func() tea.Msg {
		ev, ok := <-events
		return timerEventMsg{ev: ev, ok: ok}
	}
}

func (m Model) startSessionCmd(minutes int) tea.Cmd {
	return func() tea.Msg {
		session, err := m.state.StartSession(context.Background(), minutes)
		if err != nil {
			return timerStartedMsg{err: err}
		}
		return m.launchTimer(timersvc.KindFocus, session.DurationSec)
	}
}

func (m Model) startTimerCmd(kind timersvc.Kind, durationSec int) tea.Cmd {
	return func() tea.Msg {
		return m.launchTimer(kind, durationSec)
	}
}

func (m Model) launchTimer(kind timersvc.Kind, durationSec int) tea.Msg {
	events, err := m.timer.Start(context.Background(), kind)
	if err != nil {
		return timerStartedMsg{err: err}
	}
	return timerStartedMsg{
		durationSec: durationSec,
		reward:      kind == timersvc.KindReward,
		events:      events,
	}
}

func (m Model) completeCmd() tea.Cmd {
	return func() tea.Msg {
		m.timer.Stop()
		if err := m.state.CompleteSession(context.Background()); err != nil {
			return actionDoneMsg{err: err}
		}
		return actionDoneMsg{status: "session completed early"}
	}
}

func (m Model) abandonCmd() tea.Cmd {
	return func() tea.Msg {
		m.timer.Stop()
		if err := m.state.AbandonSession(context.Background()); err != nil {
			return actionDoneMsg{err: err}
		}
		return actionDoneMsg{status: "session abandoned"}
	}
}

func (m Model) finishRewardCmd() tea.Cmd {
	return func() tea.Msg {
		m.timer.Stop()
		if err := m.state.FinishReward(context.Background()); err != nil {
			return actionDoneMsg{err: err}
		}
		return actionDoneMsg{status: "reward time finished"}
	}
}

func (m Model) addRewardCmd(input statedto.AddRewardInput) tea.Cmd {
	return func() tea.Msg {
		reward, err := m.state.AddReward(context.Background(), input)
		if err != nil {
			return actionDoneMsg{err: err}
		}
		return actionDoneMsg{status: "added reward: " + reward.Title}
	}
}

func (m Model) updateRewardCmd(id string, input statedto.AddRewardInput) tea.Cmd {
	return func() tea.Msg {
		reward, err := m.state.UpdateReward(context.Background(), statedto.UpdateRewardInput{
			ID:          id,
			Title:       input.Title,
			Description: input.Description,
			Cost:        input.Cost,
			DurationMin: input.DurationMin,
			Active:      true,
		})
		if err != nil {
			return actionDoneMsg{err: err}
		}
		return actionDoneMsg{status: "updated reward: " + reward.Title}
	}
}

func (m Model) deleteRewardCmd(id string) tea.Cmd {
	return func() tea.Msg {
		if err := m.state.DeleteReward(context.Background(), id); err != nil {
			return actionDoneMsg{err: err}
		}
		return actionDoneMsg{status: "reward deleted"}
	}
}

func (m Model) updateSettingsCmd(input statedto.UpdateSettingsInput) tea.Cmd {
	return func() tea.Msg {
		if _, err := m.state.UpdateSettings(context.Background(), input); err != nil {
			return actionDoneMsg{err: err}
		}
		return actionDoneMsg{status: "settings updated"}
	}
}

func (m Model) setPinCmd(current, next string) tea.Cmd {
	return func() tea.Msg {
		if err := m.state.SetPIN(context.Background(), current, next); err != nil {
			return actionDoneMsg{err: err}
		}
		if next == "" {
			return actionDoneMsg{status: "PIN cleared"}
		}
		return actionDoneMsg{status: "PIN set"}
	}
}

func (m Model) resetCmd() tea.Cmd {
	return func() tea.Msg {
		m.timer.Stop()
		if err := m.state.Reset(context.Background()); err != nil {
			return actionDoneMsg{err: err}
		}
		return actionDoneMsg{status: "all data reset"}
	}
}

func (m Model) refreshAllCmd() tea.Cmd {
	return tea.Batch(
		m.focusView.Init(),
		m.storeView.Reload(),
		m.historyView.Reload(),
		m.settingsView.Reload(),
	)
}

func min(a, b int) int {
	if a < b {
		return a
	}
	return b
}
