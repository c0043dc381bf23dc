package out

import (
	"context"

	motivationdomain "focuscraft/internal/modules/motivation/domain"
	statedomain "focuscraft/internal/modules/state/domain"
)

// Dispatcher is the timer controller's only path into application state.
// Implementations must serialize dispatches so a tick and a
// grace-period abandonment can never interleave.
type Dispatcher interface {
	Dispatch(ctx context.Context, action statedomain.Action) (statedomain.AppState, statedomain.Outcome, error)
	Snapshot() statedomain.AppState
}

// Motivator produces the text shown during focus sessions. It never
// fails; a broken provider falls back to a canned line.
type Motivator interface {
	Message(ctx context.Context, req motivationdomain.Request) string
}

// Notifier plays the completion cue. Failures are the notifier's problem;
// Play has no error to return because completion must never be blocked on
// audio.
type Notifier interface {
	Play()
}
