package usecase

import (
	"context"
	"fmt"
	"strings"
	"unicode"

	"focuscraft/internal/modules/state/domain"
	"focuscraft/internal/modules/state/dto"
	statein "focuscraft/internal/modules/state/port/in"
	stateout "focuscraft/internal/modules/state/port/out"
	"focuscraft/internal/modules/state/service"
	"focuscraft/internal/platform/clock"
	apperrors "focuscraft/internal/platform/errors"
	"focuscraft/internal/platform/id"
)

// Interactor carries the caller-side guards the pure reducer deliberately
// omits: affordability before redeeming, active-session mutual exclusion,
// input validation, and PIN verification. The reducer's Outcome lets it
// map silent no-ops onto real errors for the UI and CLI.
type Interactor struct {
	container *service.Container
	projector stateout.LedgerProjector
	clock     clock.Clock
	idGen     id.Generator
}

func NewInteractor(container *service.Container, projector stateout.LedgerProjector, clk clock.Clock, idGen id.Generator) statein.Usecase {
	return &Interactor{container: container, projector: projector, clock: clk, idGen: idGen}
}

func (i *Interactor) Wallet(context.Context) dto.WalletOutput {
	return dto.WalletOutput{Coins: i.container.Snapshot().Wallet.Coins}
}

func (i *Interactor) Rewards(_ context.Context, activeOnly bool) []dto.RewardOutput {
	state := i.container.Snapshot()
	out := make([]dto.RewardOutput, 0, len(state.Rewards))
	for _, r := range state.Rewards {
		if activeOnly && !r.Active {
			continue
		}
		out = append(out, rewardOutput(r))
	}
	return out
}

func (i *Interactor) Settings(context.Context) dto.SettingsOutput {
	return settingsOutput(i.container.Snapshot().Settings)
}

func (i *Interactor) ActiveSession(context.Context) (dto.SessionOutput, error) {
	state := i.container.Snapshot()
	if state.Session == nil {
		return dto.SessionOutput{}, apperrors.ErrNoActiveSession
	}
	return sessionOutput(*state.Session), nil
}

func (i *Interactor) ActiveRewardSession(context.Context) (dto.RewardSessionOutput, error) {
	state := i.container.Snapshot()
	if state.RewardSession == nil {
		return dto.RewardSessionOutput{}, apperrors.ErrNoRewardSession
	}
	rs := *state.RewardSession
	return dto.RewardSessionOutput{ID: rs.ID, RewardTitle: rs.Reward.Title, DurationSec: rs.DurationSec, TimeElapsed: rs.TimeElapsed}, nil
}

func (i *Interactor) StartSession(ctx context.Context, durationMin int) (dto.SessionOutput, error) {
	if durationMin <= 0 {
		return dto.SessionOutput{}, fmt.Errorf("%w: duration must be positive", apperrors.ErrInvalidInput)
	}
	next, outcome, err := i.container.Dispatch(ctx, domain.StartSession{
		SessionID:   i.idGen.New(),
		StartedAt:   i.clock.Now(),
		DurationMin: durationMin,
	})
	if err != nil {
		return dto.SessionOutput{}, err
	}
	if !outcome.Applied {
		if outcome.Reason == domain.ReasonRewardSessionBusy {
			return dto.SessionOutput{}, apperrors.ErrRewardSessionExists
		}
		return dto.SessionOutput{}, apperrors.ErrActiveSessionExists
	}
	return sessionOutput(*next.Session), nil
}

func (i *Interactor) CompleteSession(ctx context.Context) error {
	_, outcome, err := i.container.Dispatch(ctx, domain.CompleteSession{TransactionID: i.idGen.New(), Now: i.clock.Now()})
	if err != nil {
		return err
	}
	if !outcome.Applied {
		return apperrors.ErrNoActiveSession
	}
	return nil
}

func (i *Interactor) AbandonSession(ctx context.Context) error {
	_, outcome, err := i.container.Dispatch(ctx, domain.AbandonSession{TransactionID: i.idGen.New(), Now: i.clock.Now()})
	if err != nil {
		return err
	}
	if !outcome.Applied {
		return apperrors.ErrNoActiveSession
	}
	return nil
}

func (i *Interactor) AddReward(ctx context.Context, input dto.AddRewardInput) (dto.RewardOutput, error) {
	if err := validateReward(input.Title, input.Cost, input.DurationMin); err != nil {
		return dto.RewardOutput{}, err
	}
	reward := domain.Reward{
		ID:          i.idGen.New(),
		Title:       strings.TrimSpace(input.Title),
		Description: strings.TrimSpace(input.Description),
		Cost:        input.Cost,
		DurationMin: input.DurationMin,
		Active:      true,
		CreatedAt:   i.clock.Now(),
	}
	if _, _, err := i.container.Dispatch(ctx, domain.AddReward{Reward: reward}); err != nil {
		return dto.RewardOutput{}, err
	}
	return rewardOutput(reward), nil
}

func (i *Interactor) UpdateReward(ctx context.Context, input dto.UpdateRewardInput) (dto.RewardOutput, error) {
	if err := validateReward(input.Title, input.Cost, input.DurationMin); err != nil {
		return dto.RewardOutput{}, err
	}
	existing, ok := i.container.Snapshot().FindReward(input.ID)
	if !ok {
		return dto.RewardOutput{}, apperrors.ErrRewardNotFound
	}
	reward := domain.Reward{
		ID:          input.ID,
		Title:       strings.TrimSpace(input.Title),
		Description: strings.TrimSpace(input.Description),
		Cost:        input.Cost,
		DurationMin: input.DurationMin,
		Active:      input.Active,
		CreatedAt:   existing.CreatedAt,
	}
	_, outcome, err := i.container.Dispatch(ctx, domain.UpdateReward{Reward: reward})
	if err != nil {
		return dto.RewardOutput{}, err
	}
	if !outcome.Applied {
		return dto.RewardOutput{}, apperrors.ErrRewardNotFound
	}
	return rewardOutput(reward), nil
}

func (i *Interactor) DeleteReward(ctx context.Context, rewardID string) error {
	_, outcome, err := i.container.Dispatch(ctx, domain.DeleteReward{ID: rewardID})
	if err != nil {
		return err
	}
	if !outcome.Applied {
		return apperrors.ErrRewardNotFound
	}
	return nil
}

// Redeem checks affordability before dispatching (the reducer's silent
// insufficient-funds no-op needs a caller-side guard to become a
// user-visible error) and starts the reward session when the reward
// carries a duration. Redemption is refused while any timed session is
// running.
func (i *Interactor) Redeem(ctx context.Context, rewardID string) (dto.RedeemOutput, error) {
	state := i.container.Snapshot()
	reward, ok := state.FindReward(rewardID)
	if !ok {
		return dto.RedeemOutput{}, apperrors.ErrRewardNotFound
	}
	if !reward.Active {
		return dto.RedeemOutput{}, apperrors.ErrRewardInactive
	}
	if state.Session != nil {
		return dto.RedeemOutput{}, apperrors.ErrActiveSessionExists
	}
	if state.RewardSession != nil {
		return dto.RedeemOutput{}, apperrors.ErrRewardSessionExists
	}
	if state.Wallet.Coins < reward.Cost {
		return dto.RedeemOutput{}, apperrors.ErrInsufficientCoins
	}

	next, outcome, err := i.container.Dispatch(ctx, domain.RedeemReward{
		Reward:        reward,
		TransactionID: i.idGen.New(),
		Now:           i.clock.Now(),
	})
	if err != nil {
		return dto.RedeemOutput{}, err
	}
	if !outcome.Applied {
		return dto.RedeemOutput{}, apperrors.ErrInsufficientCoins
	}

	out := dto.RedeemOutput{RewardTitle: reward.Title, Cost: reward.Cost, CoinsLeft: next.Wallet.Coins}
	if reward.DurationMin > 0 {
		started, _, err := i.container.Dispatch(ctx, domain.StartRewardSession{
			SessionID: i.idGen.New(),
			Reward:    reward,
			StartedAt: i.clock.Now(),
		})
		if err != nil {
			return dto.RedeemOutput{}, err
		}
		if started.RewardSession != nil {
			out.RewardSessionSec = started.RewardSession.DurationSec
		}
	}
	return out, nil
}

func (i *Interactor) FinishReward(ctx context.Context) error {
	_, outcome, err := i.container.Dispatch(ctx, domain.EndRewardSession{})
	if err != nil {
		return err
	}
	if !outcome.Applied {
		return apperrors.ErrNoRewardSession
	}
	return nil
}

func (i *Interactor) UpdateSettings(ctx context.Context, input dto.UpdateSettingsInput) (dto.SettingsOutput, error) {
	patch := domain.SettingsPatch{
		DefaultDuration: input.DefaultDuration,
		RewardAmount:    input.RewardAmount,
		PenaltyAmount:   input.PenaltyAmount,
		CooldownSec:     input.CooldownSec,
		StrictMode:      input.StrictMode,
	}
	if input.SessionDurations != nil {
		for _, d := range input.SessionDurations {
			if d <= 0 {
				return dto.SettingsOutput{}, fmt.Errorf("%w: session durations must be positive", apperrors.ErrInvalidInput)
			}
		}
		patch.SessionDurations = input.SessionDurations
	}
	if input.DefaultDuration != nil && *input.DefaultDuration <= 0 {
		return dto.SettingsOutput{}, fmt.Errorf("%w: default duration must be positive", apperrors.ErrInvalidInput)
	}
	if input.CompletionThreshold != nil {
		if *input.CompletionThreshold < 0.5 || *input.CompletionThreshold > 0.95 {
			return dto.SettingsOutput{}, fmt.Errorf("%w: completion threshold must be between 0.5 and 0.95", apperrors.ErrInvalidInput)
		}
		patch.CompletionThreshold = input.CompletionThreshold
	}
	if input.RewardAmount != nil && *input.RewardAmount <= 0 {
		return dto.SettingsOutput{}, fmt.Errorf("%w: reward amount must be positive", apperrors.ErrInvalidInput)
	}
	if input.PenaltyAmount != nil && *input.PenaltyAmount <= 0 {
		return dto.SettingsOutput{}, fmt.Errorf("%w: penalty amount must be positive", apperrors.ErrInvalidInput)
	}
	if input.CooldownSec != nil && *input.CooldownSec < 0 {
		return dto.SettingsOutput{}, fmt.Errorf("%w: cooldown must not be negative", apperrors.ErrInvalidInput)
	}
	if input.Language != nil {
		lang := domain.Language(*input.Language)
		if lang != domain.LanguageEnglish && lang != domain.LanguageSpanish {
			return dto.SettingsOutput{}, fmt.Errorf("%w: language must be en or es", apperrors.ErrInvalidInput)
		}
		patch.Language = &lang
	}

	next, _, err := i.container.Dispatch(ctx, domain.UpdateSettings{Patch: patch})
	if err != nil {
		return dto.SettingsOutput{}, err
	}
	return settingsOutput(next.Settings), nil
}

// VerifyPIN reports a mismatch as a retryable validation error; it never
// mutates state.
func (i *Interactor) VerifyPIN(_ context.Context, pin string) error {
	settings := i.container.Snapshot().Settings
	if settings.PIN == "" {
		return nil
	}
	if settings.PIN != pin {
		return apperrors.ErrPinMismatch
	}
	return nil
}

// SetPIN requires the current PIN (when one is set) and a new PIN of at
// least four digits. An empty next clears the PIN.
func (i *Interactor) SetPIN(ctx context.Context, current, next string) error {
	if err := i.VerifyPIN(ctx, current); err != nil {
		return err
	}
	if next != "" {
		if len(next) < 4 {
			return fmt.Errorf("%w: PIN must be at least 4 digits", apperrors.ErrInvalidInput)
		}
		for _, r := range next {
			if !unicode.IsDigit(r) {
				return fmt.Errorf("%w: PIN must contain only digits", apperrors.ErrInvalidInput)
			}
		}
	}
	_, _, err := i.container.Dispatch(ctx, domain.UpdateSettings{Patch: domain.SettingsPatch{PIN: &next}})
	return err
}

func (i *Interactor) History(ctx context.Context, limit int) ([]dto.TransactionOutput, error) {
	txs, err := i.projector.Recent(ctx, limit)
	if err != nil {
		return nil, err
	}
	out := make([]dto.TransactionOutput, 0, len(txs))
	for _, tx := range txs {
		out = append(out, dto.TransactionOutput{ID: tx.ID, Type: string(tx.Type), Amount: tx.Amount, Date: tx.Date, Note: tx.Note})
	}
	return out, nil
}

func (i *Interactor) Reset(ctx context.Context) error {
	_, _, err := i.container.Dispatch(ctx, domain.ResetAppData{Now: i.clock.Now()})
	return err
}

func validateReward(title string, cost, durationMin int) error {
	if strings.TrimSpace(title) == "" {
		return fmt.Errorf("%w: reward title is required", apperrors.ErrInvalidInput)
	}
	if cost <= 0 {
		return fmt.Errorf("%w: reward cost must be positive", apperrors.ErrInvalidInput)
	}
	if durationMin < 0 {
		return fmt.Errorf("%w: reward duration must not be negative", apperrors.ErrInvalidInput)
	}
	return nil
}

func rewardOutput(r domain.Reward) dto.RewardOutput {
	return dto.RewardOutput{
		ID:          r.ID,
		Title:       r.Title,
		Description: r.Description,
		Cost:        r.Cost,
		DurationMin: r.DurationMin,
		Active:      r.Active,
		CreatedAt:   r.CreatedAt,
	}
}

func sessionOutput(s domain.Session) dto.SessionOutput {
	return dto.SessionOutput{ID: s.ID, StartTime: s.StartTime, DurationSec: s.DurationSec, Status: string(s.Status), TimeElapsed: s.TimeElapsed}
}

func settingsOutput(s domain.Settings) dto.SettingsOutput {
	return dto.SettingsOutput{
		SessionDurations:    append([]int(nil), s.SessionDurations...),
		DefaultDuration:     s.DefaultDuration,
		CompletionThreshold: s.CompletionThreshold,
		RewardAmount:        s.RewardAmount,
		PenaltyAmount:       s.PenaltyAmount,
		CooldownSec:         s.CooldownSec,
		StrictMode:          s.StrictMode,
		HasPIN:              s.PIN != "",
		Language:            string(s.Language),
	}
}
