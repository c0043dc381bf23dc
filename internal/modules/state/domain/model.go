package domain

import "time"

// SchemaVersion tags the persisted blob. Version 1 blobs predate the
// reward-session and language fields and are migrated forward on load.
const SchemaVersion = 2

type Wallet struct {
	Coins int `json:"coins"`
}

type Reward struct {
	ID          string    `json:"id"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	Cost        int       `json:"cost"`
	DurationMin int       `json:"duration"`
	Active      bool      `json:"active"`
	CreatedAt   time.Time `json:"created_at"`
}

type TransactionType string

const (
	TransactionSession TransactionType = "session"
	TransactionPenalty TransactionType = "penalty"
	TransactionRedeem  TransactionType = "redeem"
)

// Transaction is a ledger entry. The ledger is append-only: entries are
// prepended (newest first) and never mutated or removed.
type Transaction struct {
	ID     string          `json:"id"`
	Type   TransactionType `json:"type"`
	Amount int             `json:"amount"`
	Date   time.Time       `json:"date"`
	Note   string          `json:"note"`
}

type Language string

const (
	LanguageEnglish Language = "en"
	LanguageSpanish Language = "es"
)

type Settings struct {
	SessionDurations    []int    `json:"session_durations"`
	DefaultDuration     int      `json:"default_duration"`
	CompletionThreshold float64  `json:"completion_threshold"`
	RewardAmount        int      `json:"reward_amount"`
	PenaltyAmount       int      `json:"penalty_amount"`
	CooldownSec         int      `json:"cooldown"`
	StrictMode          bool     `json:"strict_mode"`
	PIN                 string   `json:"pin,omitempty"`
	Language            Language `json:"language"`
}

type SessionStatus string

const (
	SessionActive    SessionStatus = "active"
	SessionPaused    SessionStatus = "paused"
	SessionCompleted SessionStatus = "completed"
	SessionAbandoned SessionStatus = "abandoned"
)

// Session is the active focus session. At most one exists at a time; nil
// means no session is running. Duration and TimeElapsed are seconds.
type Session struct {
	ID          string        `json:"id"`
	StartTime   time.Time     `json:"start_time"`
	DurationSec int           `json:"duration"`
	Status      SessionStatus `json:"status"`
	TimeElapsed int           `json:"time_elapsed"`
}

// RewardSession is the active reward-consumption timer. It carries a
// snapshot of the redeemed reward so later edits to the catalog cannot
// change a session already in progress. Reward sessions are volatile:
// they never survive a process restart.
type RewardSession struct {
	ID          string    `json:"id"`
	Reward      Reward    `json:"reward"`
	StartTime   time.Time `json:"start_time"`
	DurationSec int       `json:"duration"`
	TimeElapsed int       `json:"time_elapsed"`
}

// AppState is the aggregate root. All mutation goes through Reduce.
type AppState struct {
	Wallet        Wallet         `json:"wallet"`
	Rewards       []Reward       `json:"rewards"`
	Transactions  []Transaction  `json:"transactions"`
	Settings      Settings       `json:"settings"`
	Session       *Session       `json:"session"`
	RewardSession *RewardSession `json:"reward_session"`
	Hydrated      bool           `json:"hydrated"`
}

func DefaultSettings() Settings {
	return Settings{
		SessionDurations:    []int{15, 25, 45, 60},
		DefaultDuration:     25,
		CompletionThreshold: 0.8,
		RewardAmount:        10,
		PenaltyAmount:       5,
		CooldownSec:         120,
		StrictMode:          true,
		Language:            LanguageEnglish,
	}
}

// Initial builds the hard-coded first-run state: 50 coins, two sample
// rewards, an empty ledger.
func Initial(now time.Time) AppState {
	return AppState{
		Wallet: Wallet{Coins: 50},
		Rewards: []Reward{
			{ID: "1", Title: "30 min movie time", Description: "Watch any movie for 30 minutes", Cost: 25, DurationMin: 30, Active: true, CreatedAt: now},
			{ID: "2", Title: "20 min gaming", Description: "Play your favorite game", Cost: 20, DurationMin: 20, Active: true, CreatedAt: now},
		},
		Transactions: []Transaction{},
		Settings:     DefaultSettings(),
	}
}

// Clone returns a deep copy. Readers of the state container only ever see
// clones, so no caller can reach into the container's owned data.
func (s AppState) Clone() AppState {
	out := s
	out.Rewards = append([]Reward(nil), s.Rewards...)
	out.Transactions = append([]Transaction(nil), s.Transactions...)
	out.Settings.SessionDurations = append([]int(nil), s.Settings.SessionDurations...)
	if s.Session != nil {
		session := *s.Session
		out.Session = &session
	}
	if s.RewardSession != nil {
		rs := *s.RewardSession
		out.RewardSession = &rs
	}
	return out
}

// FindReward returns the reward with the given id, if present.
func (s AppState) FindReward(id string) (Reward, bool) {
	for _, r := range s.Rewards {
		if r.ID == id {
			return r, true
		}
	}
	return Reward{}, false
}
