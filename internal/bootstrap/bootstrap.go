package bootstrap

import (
	"context"
	"fmt"
	"io"

	tea "github.com/charmbracelet/bubbletea"

	motivationoutadapter "focuscraft/internal/modules/motivation/adapter/out"
	motivationservice "focuscraft/internal/modules/motivation/service"
	stateinadapter "focuscraft/internal/modules/state/adapter/in"
	stateoutadapter "focuscraft/internal/modules/state/adapter/out"
	stateservice "focuscraft/internal/modules/state/service"
	stateusecase "focuscraft/internal/modules/state/usecase"
	timeroutadapter "focuscraft/internal/modules/timer/adapter/out"
	timerservice "focuscraft/internal/modules/timer/service"
	"focuscraft/internal/platform/clock"
	"focuscraft/internal/platform/config"
	"focuscraft/internal/platform/id"
	"focuscraft/internal/platform/tx"
	uiapp "focuscraft/internal/ui/app"
)

type App struct {
	StateCLI  stateinadapter.CLIHandler
	Timer     *timerservice.Controller
	Motivator *motivationservice.Service
}

// New wires the whole application. notifyWriter is where the completion
// cue goes, normally the terminal's stdout.
func New(cfg config.Config, notifyWriter io.Writer) (*App, error) {
	clk := clock.SystemClock{}
	ids := id.RandomHex{}

	store := stateoutadapter.NewFileStateStore(cfg.StatePath)
	projector, err := stateoutadapter.NewSQLiteLedgerProjector(cfg.DBPath)
	if err != nil {
		return nil, fmt.Errorf("new ledger projector: %w", err)
	}

	container := stateservice.NewContainer(clk, store, projector, tx.NoopManager{})
	if err := container.Hydrate(context.Background()); err != nil {
		return nil, fmt.Errorf("hydrate state: %w", err)
	}
	stateUC := stateusecase.NewInteractor(container, projector, clk, ids)

	motivator := motivationservice.NewService(
		motivationoutadapter.NewGRPCHost(cfg.MotivatorBinary),
	)

	timerCfg := timerservice.Config{
		Tick:            cfg.TickInterval,
		MessageInterval: cfg.MessageInterval,
		GracePeriod:     cfg.GracePeriod,
	}
	timer := timerservice.NewController(
		timerCfg,
		container,
		motivator,
		timeroutadapter.NewTerminalNotifier(notifyWriter),
		clk,
		ids,
	)

	return &App{
		StateCLI:  stateinadapter.NewCLIHandler(stateUC),
		Timer:     timer,
		Motivator: motivator,
	}, nil
}

func RunTUI(app *App) error {
	model := uiapp.NewModel(app.StateCLI, app.Timer)
	program := tea.NewProgram(model, tea.WithAltScreen(), tea.WithReportFocus())
	_, err := program.Run()
	return err
}
