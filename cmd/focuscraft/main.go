package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"focuscraft/internal/bootstrap"
	motivationdomain "focuscraft/internal/modules/motivation/domain"
	statedto "focuscraft/internal/modules/state/dto"
	timerservice "focuscraft/internal/modules/timer/service"
	"focuscraft/internal/platform/config"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		_, _ = fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	var dataDir string

	root := &cobra.Command{
		Use:           "focuscraft",
		Short:         "Gamified focus timer with a coin economy",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.PersistentFlags().StringVar(&dataDir, "data-dir", "", "data directory (default ~/.focuscraft)")

	root.AddCommand(newTUICmd(&dataDir))
	root.AddCommand(newSessionCmd(&dataDir))
	root.AddCommand(newWalletCmd(&dataDir))
	root.AddCommand(newRewardCmd(&dataDir))
	root.AddCommand(newStoreCmd(&dataDir))
	root.AddCommand(newHistoryCmd(&dataDir))
	root.AddCommand(newSettingsCmd(&dataDir))
	root.AddCommand(newMotivateCmd(&dataDir))
	root.AddCommand(newResetCmd(&dataDir))
	return root
}

func loadApp(dataDir string) (*bootstrap.App, error) {
	cfg, err := config.New(dataDir)
	if err != nil {
		return nil, err
	}
	return bootstrap.New(cfg, os.Stdout)
}

func newTUICmd(dataDir *string) *cobra.Command {
	return &cobra.Command{
		Use:   "tui",
		Short: "Run the focuscraft terminal UI",
		RunE: func(_ *cobra.Command, _ []string) error {
			app, err := loadApp(*dataDir)
			if err != nil {
				return err
			}
			return bootstrap.RunTUI(app)
		},
	}
}

func newSessionCmd(dataDir *string) *cobra.Command {
	session := &cobra.Command{Use: "session", Short: "Focus session lifecycle"}

	var minutes int
	start := &cobra.Command{
		Use:   "start",
		Short: "Start a focus session and run the countdown in the foreground",
		RunE: func(cmd *cobra.Command, _ []string) error {
			app, err := loadApp(*dataDir)
			if err != nil {
				return err
			}
			ctx := context.Background()
			if minutes == 0 {
				minutes = app.StateCLI.Settings(ctx).DefaultDuration
			}
			out, err := app.StateCLI.StartSession(ctx, minutes)
			if err != nil {
				return err
			}
			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "focus session started: %d min\n", minutes)
			return runCountdown(ctx, cmd.OutOrStdout(), app, timerservice.KindFocus, out.DurationSec)
		},
	}
	start.Flags().IntVar(&minutes, "minutes", 0, "session length in minutes (default from settings)")

	session.AddCommand(start)
	return session
}

func newWalletCmd(dataDir *string) *cobra.Command {
	return &cobra.Command{
		Use:   "wallet",
		Short: "Show the coin balance",
		RunE: func(cmd *cobra.Command, _ []string) error {
			app, err := loadApp(*dataDir)
			if err != nil {
				return err
			}
			wallet := app.StateCLI.Wallet(context.Background())
			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "%d coins\n", wallet.Coins)
			return nil
		},
	}
}

func newRewardCmd(dataDir *string) *cobra.Command {
	reward := &cobra.Command{Use: "reward", Short: "Manage store rewards"}

	var title, description string
	var cost, minutes int
	add := &cobra.Command{
		Use:   "add --title <title> --cost <coins>",
		Short: "Add a reward to the store",
		RunE: func(cmd *cobra.Command, _ []string) error {
			if strings.TrimSpace(title) == "" {
				return fmt.Errorf("--title is required")
			}
			app, err := loadApp(*dataDir)
			if err != nil {
				return err
			}
			out, err := app.StateCLI.AddReward(context.Background(), statedto.AddRewardInput{
				Title:       title,
				Description: description,
				Cost:        cost,
				DurationMin: minutes,
			})
			if err != nil {
				return err
			}
			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "added %s (%s) cost=%d\n", out.Title, out.ID, out.Cost)
			return nil
		},
	}
	add.Flags().StringVar(&title, "title", "", "reward title")
	add.Flags().StringVar(&description, "description", "", "reward description")
	add.Flags().IntVar(&cost, "cost", 0, "cost in coins")
	add.Flags().IntVar(&minutes, "minutes", 0, "timed reward length (0 for instant)")

	var listAll bool
	list := &cobra.Command{
		Use:   "list",
		Short: "List rewards",
		RunE: func(cmd *cobra.Command, _ []string) error {
			app, err := loadApp(*dataDir)
			if err != nil {
				return err
			}
			rewards := app.StateCLI.Rewards(context.Background(), !listAll)
			if len(rewards) == 0 {
				_, _ = fmt.Fprintln(cmd.OutOrStdout(), "no rewards")
				return nil
			}
			for _, r := range rewards {
				line := fmt.Sprintf("%s\t%s\t%d coins", r.ID, r.Title, r.Cost)
				if r.DurationMin > 0 {
					line += fmt.Sprintf("\t%d min", r.DurationMin)
				}
				if !r.Active {
					line += "\t(inactive)"
				}
				_, _ = fmt.Fprintln(cmd.OutOrStdout(), line)
			}
			return nil
		},
	}
	list.Flags().BoolVar(&listAll, "all", false, "include inactive rewards")

	var updateID string
	var updateActive bool
	update := &cobra.Command{
		Use:   "update --id <id>",
		Short: "Update a reward",
		RunE: func(cmd *cobra.Command, _ []string) error {
			if strings.TrimSpace(updateID) == "" {
				return fmt.Errorf("--id is required")
			}
			app, err := loadApp(*dataDir)
			if err != nil {
				return err
			}
			out, err := app.StateCLI.UpdateReward(context.Background(), statedto.UpdateRewardInput{
				ID:          updateID,
				Title:       title,
				Description: description,
				Cost:        cost,
				DurationMin: minutes,
				Active:      updateActive,
			})
			if err != nil {
				return err
			}
			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "updated %s (%s)\n", out.Title, out.ID)
			return nil
		},
	}
	update.Flags().StringVar(&updateID, "id", "", "reward id")
	update.Flags().StringVar(&title, "title", "", "reward title")
	update.Flags().StringVar(&description, "description", "", "reward description")
	update.Flags().IntVar(&cost, "cost", 0, "cost in coins")
	update.Flags().IntVar(&minutes, "minutes", 0, "timed reward length (0 for instant)")
	update.Flags().BoolVar(&updateActive, "active", true, "whether the reward can be redeemed")

	var deleteID string
	deleteCmd := &cobra.Command{
		Use:   "delete --id <id>",
		Short: "Delete a reward (its ledger entries are kept)",
		RunE: func(cmd *cobra.Command, _ []string) error {
			if strings.TrimSpace(deleteID) == "" {
				return fmt.Errorf("--id is required")
			}
			app, err := loadApp(*dataDir)
			if err != nil {
				return err
			}
			if err := app.StateCLI.DeleteReward(context.Background(), deleteID); err != nil {
				return err
			}
			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "deleted %s\n", deleteID)
			return nil
		},
	}
	deleteCmd.Flags().StringVar(&deleteID, "id", "", "reward id")

	reward.AddCommand(add, list, update, deleteCmd)
	return reward
}

func newStoreCmd(dataDir *string) *cobra.Command {
	store := &cobra.Command{Use: "store", Short: "Spend coins in the reward store"}

	var rewardID string
	redeem := &cobra.Command{
		Use:   "redeem --id <id>",
		Short: "Redeem a reward; timed rewards run their countdown in the foreground",
		RunE: func(cmd *cobra.Command, _ []string) error {
			if strings.TrimSpace(rewardID) == "" {
				return fmt.Errorf("--id is required")
			}
			app, err := loadApp(*dataDir)
			if err != nil {
				return err
			}
			ctx := context.Background()
			out, err := app.StateCLI.Redeem(ctx, rewardID)
			if err != nil {
				return err
			}
			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "redeemed %s for %d coins, %d left\n", out.RewardTitle, out.Cost, out.CoinsLeft)
			if out.RewardSessionSec > 0 {
				return runCountdown(ctx, cmd.OutOrStdout(), app, timerservice.KindReward, out.RewardSessionSec)
			}
			return nil
		},
	}
	redeem.Flags().StringVar(&rewardID, "id", "", "reward id")

	list := &cobra.Command{
		Use:   "list",
		Short: "List redeemable rewards and the wallet balance",
		RunE: func(cmd *cobra.Command, _ []string) error {
			app, err := loadApp(*dataDir)
			if err != nil {
				return err
			}
			ctx := context.Background()
			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "wallet: %d coins\n", app.StateCLI.Wallet(ctx).Coins)
			rewards := app.StateCLI.Rewards(ctx, true)
			if len(rewards) == 0 {
				_, _ = fmt.Fprintln(cmd.OutOrStdout(), "no rewards in the store")
				return nil
			}
			for _, r := range rewards {
				line := fmt.Sprintf("%s\t%s\t%d coins", r.ID, r.Title, r.Cost)
				if r.DurationMin > 0 {
					line += fmt.Sprintf("\t%d min", r.DurationMin)
				}
				_, _ = fmt.Fprintln(cmd.OutOrStdout(), line)
			}
			return nil
		},
	}

	store.AddCommand(list, redeem)
	return store
}

func newHistoryCmd(dataDir *string) *cobra.Command {
	var limit int
	history := &cobra.Command{
		Use:   "history",
		Short: "Show the transaction ledger",
		RunE: func(cmd *cobra.Command, _ []string) error {
			app, err := loadApp(*dataDir)
			if err != nil {
				return err
			}
			entries, err := app.StateCLI.History(context.Background(), limit)
			if err != nil {
				return err
			}
			if len(entries) == 0 {
				_, _ = fmt.Fprintln(cmd.OutOrStdout(), "no transactions")
				return nil
			}
			for _, e := range entries {
				_, _ = fmt.Fprintf(cmd.OutOrStdout(), "%s\t%+d\t%s\t%s\n",
					e.Date.Local().Format("2006-01-02 15:04"), e.Amount, e.Type, e.Note)
			}
			return nil
		},
	}
	history.Flags().IntVar(&limit, "limit", 50, "number of entries to show")
	return history
}

func newSettingsCmd(dataDir *string) *cobra.Command {
	settings := &cobra.Command{Use: "settings", Short: "Show and change settings"}

	settings.AddCommand(&cobra.Command{
		Use:   "show",
		Short: "Show current settings",
		RunE: func(cmd *cobra.Command, _ []string) error {
			app, err := loadApp(*dataDir)
			if err != nil {
				return err
			}
			s := app.StateCLI.Settings(context.Background())
			durations := make([]string, len(s.SessionDurations))
			for i, d := range s.SessionDurations {
				durations[i] = fmt.Sprintf("%d", d)
			}
			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "durations: %s min\ndefault: %d min\nthreshold: %.0f%%\nreward: %d\npenalty: %d\ncooldown: %ds\nstrict: %t\npin: %t\nlanguage: %s\n",
				strings.Join(durations, ","), s.DefaultDuration, s.CompletionThreshold*100,
				s.RewardAmount, s.PenaltyAmount, s.CooldownSec, s.StrictMode, s.HasPIN, s.Language)
			return nil
		},
	})

	var defaultDuration, rewardAmount, penaltyAmount, cooldown int
	var threshold float64
	var strict, noStrict bool
	var language string
	var durations []int
	set := &cobra.Command{
		Use:   "set",
		Short: "Change settings; only the given flags are applied",
		RunE: func(cmd *cobra.Command, _ []string) error {
			app, err := loadApp(*dataDir)
			if err != nil {
				return err
			}
			var input statedto.UpdateSettingsInput
			if cmd.Flags().Changed("durations") {
				input.SessionDurations = durations
			}
			if cmd.Flags().Changed("default") {
				input.DefaultDuration = &defaultDuration
			}
			if cmd.Flags().Changed("threshold") {
				input.CompletionThreshold = &threshold
			}
			if cmd.Flags().Changed("reward-amount") {
				input.RewardAmount = &rewardAmount
			}
			if cmd.Flags().Changed("penalty-amount") {
				input.PenaltyAmount = &penaltyAmount
			}
			if cmd.Flags().Changed("cooldown") {
				input.CooldownSec = &cooldown
			}
			if strict || noStrict {
				v := strict
				input.StrictMode = &v
			}
			if cmd.Flags().Changed("language") {
				input.Language = &language
			}
			if _, err := app.StateCLI.UpdateSettings(context.Background(), input); err != nil {
				return err
			}
			_, _ = fmt.Fprintln(cmd.OutOrStdout(), "settings updated")
			return nil
		},
	}
	set.Flags().IntSliceVar(&durations, "durations", nil, "session duration options in minutes")
	set.Flags().IntVar(&defaultDuration, "default", 0, "default session length in minutes")
	set.Flags().Float64Var(&threshold, "threshold", 0, "completion threshold (0.5..0.95)")
	set.Flags().IntVar(&rewardAmount, "reward-amount", 0, "coins earned per completed session")
	set.Flags().IntVar(&penaltyAmount, "penalty-amount", 0, "coins lost on abandon")
	set.Flags().IntVar(&cooldown, "cooldown", 0, "cooldown between sessions in seconds")
	set.Flags().BoolVar(&strict, "strict", false, "enable strict mode")
	set.Flags().BoolVar(&noStrict, "no-strict", false, "disable strict mode")
	set.Flags().StringVar(&language, "language", "", "motivational message language: en|es")

	var current, next string
	var clear bool
	pin := &cobra.Command{
		Use:   "pin",
		Short: "Set or clear the settings PIN",
		RunE: func(cmd *cobra.Command, _ []string) error {
			app, err := loadApp(*dataDir)
			if err != nil {
				return err
			}
			if clear {
				next = ""
			} else if strings.TrimSpace(next) == "" {
				return fmt.Errorf("--new is required unless --clear is given")
			}
			if err := app.StateCLI.SetPIN(context.Background(), current, next); err != nil {
				return err
			}
			if next == "" {
				_, _ = fmt.Fprintln(cmd.OutOrStdout(), "PIN cleared")
			} else {
				_, _ = fmt.Fprintln(cmd.OutOrStdout(), "PIN set")
			}
			return nil
		},
	}
	pin.Flags().StringVar(&current, "current", "", "current PIN (if one is set)")
	pin.Flags().StringVar(&next, "new", "", "new PIN, at least 4 digits")
	pin.Flags().BoolVar(&clear, "clear", false, "remove the PIN")

	settings.AddCommand(set, pin)
	return settings
}

func newMotivateCmd(dataDir *string) *cobra.Command {
	var progress float64
	var remaining int
	motivate := &cobra.Command{
		Use:   "motivate",
		Short: "Fetch one motivational message (exercises the provider plugin)",
		RunE: func(cmd *cobra.Command, _ []string) error {
			app, err := loadApp(*dataDir)
			if err != nil {
				return err
			}
			text := app.Motivator.Message(context.Background(), motivationdomain.Request{
				SessionProgress: progress,
				TimeRemaining:   remaining,
			})
			_, _ = fmt.Fprintln(cmd.OutOrStdout(), text)
			return nil
		},
	}
	motivate.Flags().Float64Var(&progress, "progress", 50, "session progress percentage")
	motivate.Flags().IntVar(&remaining, "remaining", 600, "seconds remaining")
	return motivate
}

func newResetCmd(dataDir *string) *cobra.Command {
	var yes bool
	reset := &cobra.Command{
		Use:   "reset",
		Short: "Wipe all data back to first-run state",
		RunE: func(cmd *cobra.Command, _ []string) error {
			if !yes {
				return fmt.Errorf("refusing to wipe data without --yes")
			}
			app, err := loadApp(*dataDir)
			if err != nil {
				return err
			}
			if err := app.StateCLI.Reset(context.Background()); err != nil {
				return err
			}
			_, _ = fmt.Fprintln(cmd.OutOrStdout(), "all data reset")
			return nil
		},
	}
	reset.Flags().BoolVar(&yes, "yes", false, "confirm the wipe")
	return reset
}

// runCountdown drives an inline countdown for CLI usage: it consumes the
// controller's events and prints progress until the run reaches a
// terminal state.
func runCountdown(ctx context.Context, w io.Writer, app *bootstrap.App, kind timerservice.Kind, durationSec int) error {
	events, err := app.Timer.Start(ctx, kind)
	if err != nil {
		return err
	}
	_, _ = fmt.Fprintf(w, "counting down %02d:%02d, ctrl+c quits without completing\n", durationSec/60, durationSec%60)

	for ev := range events {
		switch ev.Kind {
		case timerservice.EventTick:
			// One line per minute keeps the output readable.
			if ev.Remaining%60 == 0 && ev.Remaining > 0 {
				_, _ = fmt.Fprintf(w, "%02d:00 remaining (%.0f%%)\n", ev.Remaining/60, ev.Progress)
			}
		case timerservice.EventMessage:
			_, _ = fmt.Fprintf(w, "» %s\n", ev.Message)
		case timerservice.EventPaused:
			_, _ = fmt.Fprintln(w, "paused: come back before the grace period runs out")
		case timerservice.EventResumed:
			_, _ = fmt.Fprintln(w, "resumed")
		case timerservice.EventCompleted:
			if kind == timerservice.KindFocus {
				_, _ = fmt.Fprintln(w, "session complete! coins earned")
			} else {
				_, _ = fmt.Fprintln(w, "reward time is up")
			}
		case timerservice.EventAbandoned:
			_, _ = fmt.Fprintln(w, "session abandoned, penalty applied")
		}
	}
	return nil
}
