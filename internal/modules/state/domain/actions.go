package domain

import "time"

// Action is the sealed set of inputs to Reduce. Actions carry every
// timestamp and identifier they need; the reducer itself never reads the
// clock and never generates ids.
type Action interface {
	isAction()
}

// Hydrate replaces the whole state with a loaded snapshot. The reducer
// marks it hydrated and drops any volatile session state that may have
// leaked into the payload.
type Hydrate struct {
	State AppState
}

// StartSession begins a focus session of DurationMin minutes.
type StartSession struct {
	SessionID   string
	StartedAt   time.Time
	DurationMin int
}

// UpdateSession merges a partial update into the active session. Nil
// fields are left untouched.
type UpdateSession struct {
	TimeElapsed *int
	Status      *SessionStatus
}

// CompleteSession credits the reward amount, records a ledger entry, and
// clears the session.
type CompleteSession struct {
	TransactionID string
	Now           time.Time
}

// AbandonSession debits the penalty (wallet clamped at zero), records a
// ledger entry, and clears the session.
type AbandonSession struct {
	TransactionID string
	Now           time.Time
}

type AddReward struct {
	Reward Reward
}

type UpdateReward struct {
	Reward Reward
}

// DeleteReward removes a reward from the catalog. Ledger entries that
// reference it are left untouched.
type DeleteReward struct {
	ID string
}

// RedeemReward debits the reward cost and records a redeem entry. The
// reward session, if any, is started by a separate StartRewardSession
// dispatched by the layer above.
type RedeemReward struct {
	Reward        Reward
	TransactionID string
	Now           time.Time
}

type StartRewardSession struct {
	SessionID string
	Reward    Reward
	StartedAt time.Time
}

type UpdateRewardSession struct {
	TimeElapsed *int
}

type EndRewardSession struct{}

// UpdateSettings shallow-merges the non-nil fields into Settings.
type UpdateSettings struct {
	Patch SettingsPatch
}

type SettingsPatch struct {
	SessionDurations    []int
	DefaultDuration     *int
	CompletionThreshold *float64
	RewardAmount        *int
	PenaltyAmount       *int
	CooldownSec         *int
	StrictMode          *bool
	PIN                 *string
	Language            *Language
}

// ResetAppData replaces everything with the initial state.
type ResetAppData struct {
	Now time.Time
}

func (Hydrate) isAction()             {}
func (StartSession) isAction()        {}
func (UpdateSession) isAction()       {}
func (CompleteSession) isAction()     {}
func (AbandonSession) isAction()      {}
func (AddReward) isAction()           {}
func (UpdateReward) isAction()        {}
func (DeleteReward) isAction()        {}
func (RedeemReward) isAction()        {}
func (StartRewardSession) isAction()  {}
func (UpdateRewardSession) isAction() {}
func (EndRewardSession) isAction()    {}
func (UpdateSettings) isAction()      {}
func (ResetAppData) isAction()        {}
