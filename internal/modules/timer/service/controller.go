package service

import (
	"context"
	"sync"
	"time"

	motivationdomain "focuscraft/internal/modules/motivation/domain"
	statedomain "focuscraft/internal/modules/state/domain"
	timerout "focuscraft/internal/modules/timer/port/out"
	"focuscraft/internal/platform/clock"
	apperrors "focuscraft/internal/platform/errors"
	"focuscraft/internal/platform/id"
)

// Kind selects which timed session a controller run drives.
type Kind int

const (
	KindFocus Kind = iota + 1
	KindReward
)

type EventKind int

const (
	EventTick EventKind = iota + 1
	EventMessage
	EventPaused
	EventResumed
	EventCompleted
	EventAbandoned
)

// Event is what the presentation layer sees. Remaining and Progress are
// recomputed on every tick; Message carries motivational text on
// EventMessage only.
type Event struct {
	Kind      EventKind
	Remaining int
	Progress  float64
	Message   string
}

// Config tunes the controller cadence. Production values are one-second
// ticks, 30-second message refreshes, and a 5-second strict-mode grace
// period; tests shrink all three.
type Config struct {
	Tick            time.Duration
	MessageInterval time.Duration
	GracePeriod     time.Duration
}

func DefaultConfig() Config {
	return Config{Tick: time.Second, MessageInterval: 30 * time.Second, GracePeriod: 5 * time.Second}
}

// Controller drives one Session or RewardSession in real time. It owns
// every timer handle involved (tick, motivational refresh, grace period)
// and is the only component that reads the wall clock on the
// session's behalf. All state changes go out through the dispatcher's
// serialized dispatch path.
type Controller struct {
	cfg        Config
	dispatcher timerout.Dispatcher
	motivator  timerout.Motivator
	notifier   timerout.Notifier
	clock      clock.Clock
	idGen      id.Generator

	mu   sync.Mutex
	ctrl chan ctrlMsg
}

type ctrlKind int

const (
	ctrlVisibility ctrlKind = iota + 1
	ctrlStop
)

type ctrlMsg struct {
	kind    ctrlKind
	visible bool
}

func NewController(cfg Config, dispatcher timerout.Dispatcher, motivator timerout.Motivator, notifier timerout.Notifier, clk clock.Clock, idGen id.Generator) *Controller {
	if cfg.Tick <= 0 {
		cfg = DefaultConfig()
	}
	return &Controller{
		cfg:        cfg,
		dispatcher: dispatcher,
		motivator:  motivator,
		notifier:   notifier,
		clock:      clk,
		idGen:      idGen,
	}
}

// Start begins driving the active session of the given kind. The
// countdown resumes from the checkpointed elapsed time, so restarting a
// controller over a half-done session picks up where it left off. The
// returned channel closes when the run reaches a terminal state or is
// stopped.
func (c *Controller) Start(ctx context.Context, kind Kind) (<-chan Event, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.ctrl != nil {
		return nil, apperrors.ErrTimerBusy
	}
	state := c.dispatcher.Snapshot()

	var duration, elapsed int
	switch kind {
	case KindFocus:
		if state.Session == nil {
			return nil, apperrors.ErrNoActiveSession
		}
		duration, elapsed = state.Session.DurationSec, state.Session.TimeElapsed
	case KindReward:
		if state.RewardSession == nil {
			return nil, apperrors.ErrNoRewardSession
		}
		duration, elapsed = state.RewardSession.DurationSec, state.RewardSession.TimeElapsed
	default:
		return nil, apperrors.ErrInvalidInput
	}

	remaining := duration - elapsed
	if remaining < 0 {
		remaining = 0
	}
	ctrl := make(chan ctrlMsg, 4)
	c.ctrl = ctrl
	events := make(chan Event, 16)
	go c.run(ctx, kind, duration, remaining, ctrl, events)
	return events, nil
}

// Visibility feeds the external foreground/background signal into the
// run loop. Safe to call when no run is active.
func (c *Controller) Visibility(visible bool) {
	c.send(ctrlMsg{kind: ctrlVisibility, visible: visible})
}

// Stop cancels the run without dispatching any lifecycle action. Used
// when the user completes or abandons through an explicit intent that
// already went through the usecase layer.
func (c *Controller) Stop() {
	c.send(ctrlMsg{kind: ctrlStop})
}

func (c *Controller) send(msg ctrlMsg) {
	c.mu.Lock()
	ch := c.ctrl
	c.mu.Unlock()
	if ch == nil {
		return
	}
	select {
	case ch <- msg:
	default:
	}
}

// emit never blocks the run loop: when the consumer has fallen behind
// and the buffer is full, the oldest buffered event is dropped to make
// room. A stalled presentation layer must not stop ticks, checkpoints,
// or the terminal dispatch.
func emit(events chan Event, ev Event) {
	for {
		select {
		case events <- ev:
			return
		default:
		}
		select {
		case <-events:
		default:
		}
	}
}

func (c *Controller) run(ctx context.Context, kind Kind, duration, remaining int, ctrl chan ctrlMsg, events chan Event) {
	defer func() {
		c.mu.Lock()
		if c.ctrl == ctrl {
			c.ctrl = nil
		}
		c.mu.Unlock()
		close(events)
	}()

	tick := time.NewTicker(c.cfg.Tick)
	defer tick.Stop()
	tickC := tick.C

	var msgTick *time.Ticker
	var msgTickC <-chan time.Time
	msgResult := make(chan string, 1)
	msgInFlight := false
	if kind == KindFocus && c.motivator != nil {
		msgTick = time.NewTicker(c.cfg.MessageInterval)
		defer msgTick.Stop()
		msgTickC = msgTick.C
		// One message right away, then every interval.
		msgInFlight = c.requestMessage(ctx, duration, remaining, msgResult)
	}

	var grace *time.Timer
	var graceC <-chan time.Time
	disarmGrace := func() {
		if grace == nil {
			return
		}
		if !grace.Stop() {
			select {
			case <-grace.C:
			default:
			}
		}
		grace = nil
		graceC = nil
	}
	defer disarmGrace()

	paused := false
	finished := false

	for {
		select {
		case <-ctx.Done():
			return

		case <-tickC:
			remaining--
			if remaining < 0 {
				remaining = 0
			}
			elapsed := duration - remaining
			c.checkpoint(ctx, kind, elapsed)
			emit(events, Event{Kind: EventTick, Remaining: remaining, Progress: progress(duration, remaining)})
			if remaining == 0 && !finished {
				finished = true
				c.finish(ctx, kind)
				emit(events, Event{Kind: EventCompleted, Remaining: 0, Progress: 100})
				return
			}

		case <-msgTickC:
			if !msgInFlight {
				msgInFlight = c.requestMessage(ctx, duration, remaining, msgResult)
			}

		case text := <-msgResult:
			msgInFlight = false
			emit(events, Event{Kind: EventMessage, Remaining: remaining, Progress: progress(duration, remaining), Message: text})

		case <-graceC:
			graceC = nil
			grace = nil
			if finished {
				return
			}
			finished = true
			c.abandon(ctx)
			emit(events, Event{Kind: EventAbandoned, Remaining: remaining, Progress: progress(duration, remaining)})
			return

		case msg := <-ctrl:
			switch msg.kind {
			case ctrlStop:
				return
			case ctrlVisibility:
				if kind != KindFocus {
					continue
				}
				if !msg.visible {
					if !c.dispatcher.Snapshot().Settings.StrictMode {
						continue
					}
					if !paused {
						paused = true
						tickC = nil
						msgTickC = nil
						status := statedomain.SessionPaused
						_, _, _ = c.dispatcher.Dispatch(ctx, statedomain.UpdateSession{Status: &status})
						emit(events, Event{Kind: EventPaused, Remaining: remaining, Progress: progress(duration, remaining)})
					}
					// Single-shot grace: always re-arm from scratch so
					// repeated blur events can never stack timers.
					disarmGrace()
					grace = time.NewTimer(c.cfg.GracePeriod)
					graceC = grace.C
				} else {
					disarmGrace()
					if paused {
						paused = false
						tickC = tick.C
						if msgTick != nil {
							msgTickC = msgTick.C
							if !msgInFlight {
								msgInFlight = c.requestMessage(ctx, duration, remaining, msgResult)
							}
						}
						status := statedomain.SessionActive
						_, _, _ = c.dispatcher.Dispatch(ctx, statedomain.UpdateSession{Status: &status})
						emit(events, Event{Kind: EventResumed, Remaining: remaining, Progress: progress(duration, remaining)})
					}
				}
			}
		}
	}
}

// checkpoint persists recomputed elapsed time. Recomputing from the
// countdown (never accumulating) keeps re-entry after a pause or resume
// drift-free.
func (c *Controller) checkpoint(ctx context.Context, kind Kind, elapsed int) {
	if kind == KindFocus {
		_, _, _ = c.dispatcher.Dispatch(ctx, statedomain.UpdateSession{TimeElapsed: &elapsed})
		return
	}
	_, _, _ = c.dispatcher.Dispatch(ctx, statedomain.UpdateRewardSession{TimeElapsed: &elapsed})
}

func (c *Controller) finish(ctx context.Context, kind Kind) {
	if c.notifier != nil {
		c.notifier.Play()
	}
	if kind == KindFocus {
		_, _, _ = c.dispatcher.Dispatch(ctx, statedomain.CompleteSession{TransactionID: c.idGen.New(), Now: c.clock.Now()})
		return
	}
	_, _, _ = c.dispatcher.Dispatch(ctx, statedomain.EndRewardSession{})
}

func (c *Controller) abandon(ctx context.Context) {
	_, _, _ = c.dispatcher.Dispatch(ctx, statedomain.AbandonSession{TransactionID: c.idGen.New(), Now: c.clock.Now()})
}

// requestMessage fetches motivational text off the tick loop; a slow
// provider can therefore never delay a tick. At most one fetch is in
// flight, and a failed fetch simply waits for the next cycle.
func (c *Controller) requestMessage(ctx context.Context, duration, remaining int, result chan<- string) bool {
	req := motivationdomain.Request{
		SessionProgress: progress(duration, remaining),
		TimeRemaining:   remaining,
	}
	go func() {
		text := c.motivator.Message(ctx, req)
		select {
		case result <- text:
		case <-ctx.Done():
		}
	}()
	return true
}

func progress(duration, remaining int) float64 {
	if duration <= 0 {
		return 0
	}
	return float64(duration-remaining) / float64(duration) * 100
}
