package domain

import "fmt"

// NoopReason explains why a dispatch left the state untouched.
type NoopReason string

const (
	ReasonNone              NoopReason = ""
	ReasonNoSession         NoopReason = "no_session"
	ReasonSessionActive     NoopReason = "session_active"
	ReasonNoRewardSession   NoopReason = "no_reward_session"
	ReasonRewardSessionBusy NoopReason = "reward_session_busy"
	ReasonRewardNotFound    NoopReason = "reward_not_found"
	ReasonInsufficientCoins NoopReason = "insufficient_coins"
	ReasonUnknownAction     NoopReason = "unknown_action"
)

// Outcome tags the result of a dispatch so callers can tell a real
// transition from a precondition no-op without re-deriving the check.
type Outcome struct {
	Applied bool
	Reason  NoopReason
}

func applied() Outcome          { return Outcome{Applied: true} }
func noop(r NoopReason) Outcome { return Outcome{Reason: r} }

// Reduce is the sole mutator of AppState: a pure, total function from
// (state, action) to the next state. It performs no I/O and reads no
// clocks; anything time- or identity-shaped arrives inside the action.
// The input state is never modified.
func Reduce(state AppState, action Action) (AppState, Outcome) {
	switch a := action.(type) {
	case Hydrate:
		next := a.State.Clone()
		next.Hydrated = true
		next.Session = nil
		next.RewardSession = nil
		return next, applied()

	case StartSession:
		if state.Session != nil {
			return state, noop(ReasonSessionActive)
		}
		if state.RewardSession != nil {
			return state, noop(ReasonRewardSessionBusy)
		}
		next := state.Clone()
		next.Session = &Session{
			ID:          a.SessionID,
			StartTime:   a.StartedAt,
			DurationSec: a.DurationMin * 60,
			Status:      SessionActive,
			TimeElapsed: 0,
		}
		return next, applied()

	case UpdateSession:
		if state.Session == nil {
			return state, noop(ReasonNoSession)
		}
		next := state.Clone()
		if a.TimeElapsed != nil {
			next.Session.TimeElapsed = *a.TimeElapsed
		}
		if a.Status != nil {
			next.Session.Status = *a.Status
		}
		return next, applied()

	case CompleteSession:
		if state.Session == nil {
			return state, noop(ReasonNoSession)
		}
		next := state.Clone()
		amount := next.Settings.RewardAmount
		next.Wallet.Coins += amount
		next.Transactions = prepend(next.Transactions, Transaction{
			ID:     a.TransactionID,
			Type:   TransactionSession,
			Amount: amount,
			Date:   a.Now,
			Note:   fmt.Sprintf("Completed %d min session", next.Session.DurationSec/60),
		})
		next.Session = nil
		return next, applied()

	case AbandonSession:
		if state.Session == nil {
			return state, noop(ReasonNoSession)
		}
		next := state.Clone()
		amount := next.Settings.PenaltyAmount
		next.Wallet.Coins -= amount
		if next.Wallet.Coins < 0 {
			next.Wallet.Coins = 0
		}
		next.Transactions = prepend(next.Transactions, Transaction{
			ID:     a.TransactionID,
			Type:   TransactionPenalty,
			Amount: -amount,
			Date:   a.Now,
			Note:   fmt.Sprintf("Abandoned %d min session", next.Session.DurationSec/60),
		})
		next.Session = nil
		return next, applied()

	case AddReward:
		next := state.Clone()
		next.Rewards = append(next.Rewards, a.Reward)
		return next, applied()

	case UpdateReward:
		if _, ok := state.FindReward(a.Reward.ID); !ok {
			return state, noop(ReasonRewardNotFound)
		}
		next := state.Clone()
		for i, r := range next.Rewards {
			if r.ID == a.Reward.ID {
				next.Rewards[i] = a.Reward
			}
		}
		return next, applied()

	case DeleteReward:
		if _, ok := state.FindReward(a.ID); !ok {
			return state, noop(ReasonRewardNotFound)
		}
		next := state.Clone()
		kept := next.Rewards[:0]
		for _, r := range next.Rewards {
			if r.ID != a.ID {
				kept = append(kept, r)
			}
		}
		next.Rewards = kept
		return next, applied()

	case RedeemReward:
		if state.Wallet.Coins < a.Reward.Cost {
			return state, noop(ReasonInsufficientCoins)
		}
		next := state.Clone()
		next.Wallet.Coins -= a.Reward.Cost
		next.Transactions = prepend(next.Transactions, Transaction{
			ID:     a.TransactionID,
			Type:   TransactionRedeem,
			Amount: -a.Reward.Cost,
			Date:   a.Now,
			Note:   "Redeemed: " + a.Reward.Title,
		})
		return next, applied()

	case StartRewardSession:
		if state.RewardSession != nil {
			return state, noop(ReasonRewardSessionBusy)
		}
		next := state.Clone()
		next.RewardSession = &RewardSession{
			ID:          a.SessionID,
			Reward:      a.Reward,
			StartTime:   a.StartedAt,
			DurationSec: a.Reward.DurationMin * 60,
			TimeElapsed: 0,
		}
		return next, applied()

	case UpdateRewardSession:
		if state.RewardSession == nil {
			return state, noop(ReasonNoRewardSession)
		}
		next := state.Clone()
		if a.TimeElapsed != nil {
			next.RewardSession.TimeElapsed = *a.TimeElapsed
		}
		return next, applied()

	case EndRewardSession:
		if state.RewardSession == nil {
			return state, noop(ReasonNoRewardSession)
		}
		next := state.Clone()
		next.RewardSession = nil
		return next, applied()

	case UpdateSettings:
		next := state.Clone()
		next.Settings = mergeSettings(next.Settings, a.Patch)
		return next, applied()

	case ResetAppData:
		next := Initial(a.Now)
		next.Hydrated = true
		return next, applied()
	}
	return state, noop(ReasonUnknownAction)
}

func prepend(txs []Transaction, tx Transaction) []Transaction {
	out := make([]Transaction, 0, len(txs)+1)
	out = append(out, tx)
	return append(out, txs...)
}

func mergeSettings(s Settings, p SettingsPatch) Settings {
	if p.SessionDurations != nil {
		s.SessionDurations = append([]int(nil), p.SessionDurations...)
	}
	if p.DefaultDuration != nil {
		s.DefaultDuration = *p.DefaultDuration
	}
	if p.CompletionThreshold != nil {
		s.CompletionThreshold = *p.CompletionThreshold
	}
	if p.RewardAmount != nil {
		s.RewardAmount = *p.RewardAmount
	}
	if p.PenaltyAmount != nil {
		s.PenaltyAmount = *p.PenaltyAmount
	}
	if p.CooldownSec != nil {
		s.CooldownSec = *p.CooldownSec
	}
	if p.StrictMode != nil {
		s.StrictMode = *p.StrictMode
	}
	if p.PIN != nil {
		s.PIN = *p.PIN
	}
	if p.Language != nil {
		s.Language = *p.Language
	}
	return s
}
