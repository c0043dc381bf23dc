package in

import (
	"context"

	statedto "focuscraft/internal/modules/state/dto"
	statein "focuscraft/internal/modules/state/port/in"
)

type CLIHandler struct {
	usecase statein.Usecase
}

func NewCLIHandler(usecase statein.Usecase) CLIHandler {
	return CLIHandler{usecase: usecase}
}

func (h CLIHandler) Wallet(ctx context.Context) statedto.WalletOutput {
	return h.usecase.Wallet(ctx)
}

func (h CLIHandler) Rewards(ctx context.Context, activeOnly bool) []statedto.RewardOutput {
	return h.usecase.Rewards(ctx, activeOnly)
}

func (h CLIHandler) Settings(ctx context.Context) statedto.SettingsOutput {
	return h.usecase.Settings(ctx)
}

func (h CLIHandler) ActiveSession(ctx context.Context) (statedto.SessionOutput, error) {
	return h.usecase.ActiveSession(ctx)
}

func (h CLIHandler) ActiveRewardSession(ctx context.Context) (statedto.RewardSessionOutput, error) {
	return h.usecase.ActiveRewardSession(ctx)
}

func (h CLIHandler) StartSession(ctx context.Context, durationMin int) (statedto.SessionOutput, error) {
	return h.usecase.StartSession(ctx, durationMin)
}

func (h CLIHandler) CompleteSession(ctx context.Context) error {
	return h.usecase.CompleteSession(ctx)
}

func (h CLIHandler) AbandonSession(ctx context.Context) error {
	return h.usecase.AbandonSession(ctx)
}

func (h CLIHandler) AddReward(ctx context.Context, input statedto.AddRewardInput) (statedto.RewardOutput, error) {
	return h.usecase.AddReward(ctx, input)
}

func (h CLIHandler) UpdateReward(ctx context.Context, input statedto.UpdateRewardInput) (statedto.RewardOutput, error) {
	return h.usecase.UpdateReward(ctx, input)
}

func (h CLIHandler) DeleteReward(ctx context.Context, id string) error {
	return h.usecase.DeleteReward(ctx, id)
}

func (h CLIHandler) Redeem(ctx context.Context, rewardID string) (statedto.RedeemOutput, error) {
	return h.usecase.Redeem(ctx, rewardID)
}

func (h CLIHandler) FinishReward(ctx context.Context) error {
	return h.usecase.FinishReward(ctx)
}

func (h CLIHandler) UpdateSettings(ctx context.Context, input statedto.UpdateSettingsInput) (statedto.SettingsOutput, error) {
	return h.usecase.UpdateSettings(ctx, input)
}

func (h CLIHandler) VerifyPIN(ctx context.Context, pin string) error {
	return h.usecase.VerifyPIN(ctx, pin)
}

func (h CLIHandler) SetPIN(ctx context.Context, current, next string) error {
	return h.usecase.SetPIN(ctx, current, next)
}

func (h CLIHandler) History(ctx context.Context, limit int) ([]statedto.TransactionOutput, error) {
	return h.usecase.History(ctx, limit)
}

func (h CLIHandler) Reset(ctx context.Context) error {
	return h.usecase.Reset(ctx)
}
