package domain

import (
	"encoding/json"
	"fmt"
)

// Envelope is the persisted form of AppState. The explicit version tag
// replaces the old practice of sniffing for absent fields; migrations are
// keyed by version and chained forward.
type Envelope struct {
	SchemaVersion int      `json:"schema_version"`
	State         AppState `json:"state"`
}

// Decode parses a stored blob and migrates it to the current schema.
// Blobs written before the envelope existed (a bare AppState object) are
// treated as version 1. Migration is idempotent: decoding an
// already-current blob changes nothing.
func Decode(raw []byte) (AppState, error) {
	env := Envelope{}
	if err := json.Unmarshal(raw, &env); err != nil {
		return AppState{}, fmt.Errorf("decode state blob: %w", err)
	}
	if env.SchemaVersion == 0 {
		// Legacy blob: the whole document is the state object itself.
		legacy := AppState{}
		if err := json.Unmarshal(raw, &legacy); err != nil {
			return AppState{}, fmt.Errorf("decode legacy state blob: %w", err)
		}
		env = Envelope{SchemaVersion: 1, State: legacy}
	}
	return Migrate(env)
}

// Migrate walks the version chain up to SchemaVersion and then applies
// the volatile-tier reset: the active session and reward session are
// in-memory-only and never survive a restart, no matter what was stored.
func Migrate(env Envelope) (AppState, error) {
	state := env.State
	for v := env.SchemaVersion; v < SchemaVersion; v++ {
		switch v {
		case 1:
			state = migrateV1(state)
		default:
			return AppState{}, fmt.Errorf("no migration from schema version %d", v)
		}
	}
	if env.SchemaVersion > SchemaVersion {
		return AppState{}, fmt.Errorf("state blob schema version %d is newer than supported %d", env.SchemaVersion, SchemaVersion)
	}
	state.Session = nil
	state.RewardSession = nil
	state.Hydrated = false
	if state.Settings.Language == "" {
		state.Settings.Language = LanguageEnglish
	}
	return state, nil
}

// migrateV1 fills the fields added in version 2: per-reward durations
// (default 0, meaning redeeming has no timed session) and the language
// setting. Reward sessions did not exist in v1 so there is nothing to
// carry over.
func migrateV1(state AppState) AppState {
	if state.Settings.Language == "" {
		state.Settings.Language = LanguageEnglish
	}
	return state
}

// Encode serializes the state for storage. Hydrated is forced false so a
// stored blob can never claim to be live.
func Encode(state AppState) ([]byte, error) {
	snapshot := state.Clone()
	snapshot.Hydrated = false
	payload, err := json.MarshalIndent(Envelope{SchemaVersion: SchemaVersion, State: snapshot}, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("encode state blob: %w", err)
	}
	return payload, nil
}
