package dto

import "time"

type WalletOutput struct {
	Coins int
}

type RewardOutput struct {
	ID          string
	Title       string
	Description string
	Cost        int
	DurationMin int
	Active      bool
	CreatedAt   time.Time
}

type TransactionOutput struct {
	ID     string
	Type   string
	Amount int
	Date   time.Time
	Note   string
}

type SettingsOutput struct {
	SessionDurations    []int
	DefaultDuration     int
	CompletionThreshold float64
	RewardAmount        int
	PenaltyAmount       int
	CooldownSec         int
	StrictMode          bool
	HasPIN              bool
	Language            string
}

type SessionOutput struct {
	ID          string
	StartTime   time.Time
	DurationSec int
	Status      string
	TimeElapsed int
}

type RewardSessionOutput struct {
	ID          string
	RewardTitle string
	DurationSec int
	TimeElapsed int
}

type AddRewardInput struct {
	Title       string
	Description string
	Cost        int
	DurationMin int
}

type UpdateRewardInput struct {
	ID          string
	Title       string
	Description string
	Cost        int
	DurationMin int
	Active      bool
}

type UpdateSettingsInput struct {
	SessionDurations    []int
	DefaultDuration     *int
	CompletionThreshold *float64
	RewardAmount        *int
	PenaltyAmount       *int
	CooldownSec         *int
	StrictMode          *bool
	Language            *string
}

type RedeemOutput struct {
	RewardTitle      string
	Cost             int
	CoinsLeft        int
	RewardSessionSec int
}
