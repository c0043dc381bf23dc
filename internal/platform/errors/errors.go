package apperrors

import "errors"

var (
	ErrInvalidInput          = errors.New("invalid input")
	ErrNotFound              = errors.New("not found")
	ErrNoActiveSession       = errors.New("no active focus session")
	ErrActiveSessionExists   = errors.New("a focus session is already running")
	ErrNoRewardSession       = errors.New("no reward session in progress")
	ErrRewardSessionExists   = errors.New("a reward session is already in progress")
	ErrRewardNotFound        = errors.New("reward not found")
	ErrRewardInactive        = errors.New("reward is not active")
	ErrInsufficientCoins     = errors.New("not enough coins")
	ErrPinMismatch           = errors.New("incorrect PIN")
	ErrProviderNotConfigured = errors.New("motivation provider is not configured")
	ErrTimerBusy             = errors.New("timer is already running")
)
