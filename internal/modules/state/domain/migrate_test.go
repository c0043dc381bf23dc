package domain

import (
	"encoding/json"
	"reflect"
	"testing"
)

// legacyBlob is the shape written before the schema envelope existed:
// a bare state object with no language, no per-reward duration, and no
// reward session field.
const legacyBlob = `{
  "wallet": {"coins": 35},
  "rewards": [
    {"id": "1", "title": "30 min movie time", "description": "", "cost": 25, "active": true, "created_at": "2026-01-10T08:00:00Z"}
  ],
  "transactions": [
    {"id": "tx-1", "type": "session", "amount": 10, "date": "2026-01-11T08:00:00Z", "note": "Completed 25 min session"}
  ],
  "settings": {
    "session_durations": [15, 25, 45, 60],
    "default_duration": 25,
    "completion_threshold": 0.8,
    "reward_amount": 10,
    "penalty_amount": 5,
    "cooldown": 120,
    "strict_mode": true
  },
  "session": {"id": "stale", "start_time": "2026-01-11T08:00:00Z", "duration": 1500, "status": "active", "time_elapsed": 40},
  "hydrated": true
}`

func TestDecodeLegacyBlobAppliesDefaults(t *testing.T) {
	t.Parallel()
	state, err := Decode([]byte(legacyBlob))
	if err != nil {
		t.Fatalf("decode legacy blob: %v", err)
	}
	if state.Settings.Language != LanguageEnglish {
		t.Fatalf("expected language default en, got %q", state.Settings.Language)
	}
	if state.Rewards[0].DurationMin != 0 {
		t.Fatalf("expected reward duration default 0, got %d", state.Rewards[0].DurationMin)
	}
	if state.Session != nil || state.RewardSession != nil {
		t.Fatalf("volatile sessions must be reset on load")
	}
	if state.Hydrated {
		t.Fatalf("decoded state must not claim to be hydrated")
	}
	if state.Wallet.Coins != 35 || len(state.Transactions) != 1 {
		t.Fatalf("durable fields lost in migration: %+v", state.Wallet)
	}
}

func TestMigrationIsIdempotent(t *testing.T) {
	t.Parallel()
	once, err := Decode([]byte(legacyBlob))
	if err != nil {
		t.Fatalf("first decode: %v", err)
	}
	encoded, err := Encode(once)
	if err != nil {
		t.Fatalf("encode: %v", err)
	}
	twice, err := Decode(encoded)
	if err != nil {
		t.Fatalf("second decode: %v", err)
	}
	if !reflect.DeepEqual(once, twice) {
		t.Fatalf("migration not idempotent:\nonce:  %+v\ntwice: %+v", once, twice)
	}
}

func TestEncodeForcesHydratedFalse(t *testing.T) {
	t.Parallel()
	state := Initial(testNow)
	state.Hydrated = true

	payload, err := Encode(state)
	if err != nil {
		t.Fatalf("encode: %v", err)
	}
	env := Envelope{}
	if err := json.Unmarshal(payload, &env); err != nil {
		t.Fatalf("decode envelope: %v", err)
	}
	if env.SchemaVersion != SchemaVersion {
		t.Fatalf("expected schema version %d, got %d", SchemaVersion, env.SchemaVersion)
	}
	if env.State.Hydrated {
		t.Fatalf("stored blob must never be hydrated")
	}
}

func TestDecodeRejectsNewerSchema(t *testing.T) {
	t.Parallel()
	payload, _ := json.Marshal(Envelope{SchemaVersion: SchemaVersion + 1, State: Initial(testNow)})
	if _, err := Decode(payload); err == nil {
		t.Fatalf("expected error for newer schema version")
	}
}
