package in

import (
	"context"

	"focuscraft/internal/modules/state/dto"
)

type Usecase interface {
	Wallet(ctx context.Context) dto.WalletOutput
	Rewards(ctx context.Context, activeOnly bool) []dto.RewardOutput
	Settings(ctx context.Context) dto.SettingsOutput
	ActiveSession(ctx context.Context) (dto.SessionOutput, error)
	ActiveRewardSession(ctx context.Context) (dto.RewardSessionOutput, error)

	StartSession(ctx context.Context, durationMin int) (dto.SessionOutput, error)
	CompleteSession(ctx context.Context) error
	AbandonSession(ctx context.Context) error

	AddReward(ctx context.Context, input dto.AddRewardInput) (dto.RewardOutput, error)
	UpdateReward(ctx context.Context, input dto.UpdateRewardInput) (dto.RewardOutput, error)
	DeleteReward(ctx context.Context, id string) error
	Redeem(ctx context.Context, rewardID string) (dto.RedeemOutput, error)
	FinishReward(ctx context.Context) error

	UpdateSettings(ctx context.Context, input dto.UpdateSettingsInput) (dto.SettingsOutput, error)
	VerifyPIN(ctx context.Context, pin string) error
	SetPIN(ctx context.Context, current, next string) error

	History(ctx context.Context, limit int) ([]dto.TransactionOutput, error)
	Reset(ctx context.Context) error
}
