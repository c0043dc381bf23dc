package service_test

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	motivationdomain "focuscraft/internal/modules/motivation/domain"
	motivationout "focuscraft/internal/modules/motivation/port/out"
	motivationservice "focuscraft/internal/modules/motivation/service"
	statedomain "focuscraft/internal/modules/state/domain"
	timerout "focuscraft/internal/modules/timer/port/out"
	"focuscraft/internal/modules/timer/service"
	apperrors "focuscraft/internal/platform/errors"
)

var testNow = time.Date(2025, 3, 14, 9, 0, 0, 0, time.UTC)

type fixedClock struct{ now time.Time }

func (c fixedClock) Now() time.Time { return c.now }

type seqID struct {
	mu sync.Mutex
	n  int
}

func (g *seqID) New() string {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.n++
	return fmt.Sprintf("id-%d", g.n)
}

type fakeDispatcher struct {
	mu      sync.Mutex
	state   statedomain.AppState
	actions []statedomain.Action
}

func (d *fakeDispatcher) Dispatch(_ context.Context, action statedomain.Action) (statedomain.AppState, statedomain.Outcome, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.actions = append(d.actions, action)
	return d.state.Clone(), statedomain.Outcome{Applied: true}, nil
}

func (d *fakeDispatcher) Snapshot() statedomain.AppState {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.state.Clone()
}

func (d *fakeDispatcher) recorded() []statedomain.Action {
	d.mu.Lock()
	defer d.mu.Unlock()
	out := make([]statedomain.Action, len(d.actions))
	copy(out, d.actions)
	return out
}

type countingNotifier struct {
	mu    sync.Mutex
	plays int
}

func (n *countingNotifier) Play() {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.plays++
}

func (n *countingNotifier) count() int {
	n.mu.Lock()
	defer n.mu.Unlock()
	return n.plays
}

type stubProvider struct {
	text string
	err  error
}

func (p stubProvider) Generate(context.Context, motivationdomain.Request) (motivationdomain.Message, error) {
	if p.err != nil {
		return motivationdomain.Message{}, p.err
	}
	return motivationdomain.Message{Text: p.text}, nil
}

var _ motivationout.Provider = stubProvider{}

func sessionState(durationSec, elapsed int, strict bool) statedomain.AppState {
	state := statedomain.Initial(testNow)
	state.Settings.StrictMode = strict
	state.Session = &statedomain.Session{
		ID:          "s1",
		StartTime:   testNow,
		DurationSec: durationSec,
		Status:      statedomain.SessionActive,
		TimeElapsed: elapsed,
	}
	return state
}

func fastConfig() service.Config {
	return service.Config{
		Tick:            5 * time.Millisecond,
		MessageInterval: time.Hour,
		GracePeriod:     40 * time.Millisecond,
	}
}

func newTestController(d *fakeDispatcher, n *countingNotifier, motivator timerout.Motivator, cfg service.Config) *service.Controller {
	return service.NewController(cfg, d, motivator, n, fixedClock{now: testNow}, &seqID{})
}

func collect(t *testing.T, events <-chan service.Event, timeout time.Duration) []service.Event {
	t.Helper()
	var got []service.Event
	deadline := time.After(timeout)
	for {
		select {
		case ev, ok := <-events:
			if !ok {
				return got
			}
			got = append(got, ev)
		case <-deadline:
			t.Fatalf("timed out waiting for events, got %d so far", len(got))
		}
	}
}

func TestControllerCountsDownAndCompletesOnce(t *testing.T) {
	t.Parallel()

	dispatcher := &fakeDispatcher{state: sessionState(3, 0, false)}
	notifier := &countingNotifier{}
	ctrl := newTestController(dispatcher, notifier, nil, fastConfig())

	events, err := ctrl.Start(context.Background(), service.KindFocus)
	if err != nil {
		t.Fatalf("Start: %v", err)
	}
	got := collect(t, events, time.Second)

	last := got[len(got)-1]
	if last.Kind != service.EventCompleted {
		t.Fatalf("last event kind = %d, want completed", last.Kind)
	}
	if notifier.count() != 1 {
		t.Fatalf("notifier played %d times, want 1", notifier.count())
	}

	var checkpoints []int
	completions := 0
	for _, action := range dispatcher.recorded() {
		switch a := action.(type) {
		case statedomain.UpdateSession:
			checkpoints = append(checkpoints, *a.TimeElapsed)
		case statedomain.CompleteSession:
			completions++
			if a.TransactionID == "" {
				t.Fatal("completion dispatched without a transaction id")
			}
			if !a.Now.Equal(testNow) {
				t.Fatalf("completion timestamp = %v, want %v", a.Now, testNow)
			}
		}
	}
	if completions != 1 {
		t.Fatalf("dispatched %d completions, want 1", completions)
	}
	want := []int{1, 2, 3}
	if len(checkpoints) != len(want) {
		t.Fatalf("checkpoints = %v, want %v", checkpoints, want)
	}
	for i := range want {
		if checkpoints[i] != want[i] {
			t.Fatalf("checkpoints = %v, want %v", checkpoints, want)
		}
	}
}

func TestControllerCompletesWithStalledConsumer(t *testing.T) {
	t.Parallel()

	dispatcher := &fakeDispatcher{state: sessionState(30, 0, false)}
	notifier := &countingNotifier{}
	ctrl := newTestController(dispatcher, notifier, nil, fastConfig())

	events, err := ctrl.Start(context.Background(), service.KindFocus)
	if err != nil {
		t.Fatalf("Start: %v", err)
	}

	// Consume nothing: the run must still tick all the way to its
	// terminal dispatch instead of parking on a full event buffer.
	deadline := time.After(2 * time.Second)
	for {
		completions := 0
		for _, action := range dispatcher.recorded() {
			if _, ok := action.(statedomain.CompleteSession); ok {
				completions++
			}
		}
		if completions == 1 {
			break
		}
		select {
		case <-deadline:
			t.Fatalf("run never completed behind a stalled consumer, %d actions dispatched", len(dispatcher.recorded()))
		case <-time.After(5 * time.Millisecond):
		}
	}

	got := collect(t, events, time.Second)
	if len(got) == 0 || got[len(got)-1].Kind != service.EventCompleted {
		t.Fatal("completion event missing from the drained buffer")
	}
	if notifier.count() != 1 {
		t.Fatalf("notifier played %d times, want 1", notifier.count())
	}
}

func TestControllerResumesFromCheckpoint(t *testing.T) {
	t.Parallel()

	dispatcher := &fakeDispatcher{state: sessionState(10, 8, false)}
	ctrl := newTestController(dispatcher, &countingNotifier{}, nil, fastConfig())

	events, err := ctrl.Start(context.Background(), service.KindFocus)
	if err != nil {
		t.Fatalf("Start: %v", err)
	}
	got := collect(t, events, time.Second)

	ticks := 0
	for _, ev := range got {
		if ev.Kind == service.EventTick {
			ticks++
		}
	}
	if ticks != 2 {
		t.Fatalf("ticked %d times resuming an 8/10 session, want 2", ticks)
	}
}

func TestControllerRejectsConcurrentRuns(t *testing.T) {
	t.Parallel()

	dispatcher := &fakeDispatcher{state: sessionState(600, 0, false)}
	ctrl := newTestController(dispatcher, &countingNotifier{}, nil, fastConfig())

	events, err := ctrl.Start(context.Background(), service.KindFocus)
	if err != nil {
		t.Fatalf("Start: %v", err)
	}
	defer func() {
		ctrl.Stop()
		collect(t, events, time.Second)
	}()

	if _, err := ctrl.Start(context.Background(), service.KindFocus); !errors.Is(err, apperrors.ErrTimerBusy) {
		t.Fatalf("second Start err = %v, want ErrTimerBusy", err)
	}
}

func TestControllerRequiresActiveSession(t *testing.T) {
	t.Parallel()

	dispatcher := &fakeDispatcher{state: statedomain.Initial(testNow)}
	ctrl := newTestController(dispatcher, &countingNotifier{}, nil, fastConfig())

	if _, err := ctrl.Start(context.Background(), service.KindFocus); !errors.Is(err, apperrors.ErrNoActiveSession) {
		t.Fatalf("focus err = %v, want ErrNoActiveSession", err)
	}
	if _, err := ctrl.Start(context.Background(), service.KindReward); !errors.Is(err, apperrors.ErrNoRewardSession) {
		t.Fatalf("reward err = %v, want ErrNoRewardSession", err)
	}
}

func TestControllerStrictModeAbandonsAfterGrace(t *testing.T) {
	t.Parallel()

	dispatcher := &fakeDispatcher{state: sessionState(600, 0, true)}
	notifier := &countingNotifier{}
	ctrl := newTestController(dispatcher, notifier, nil, fastConfig())

	events, err := ctrl.Start(context.Background(), service.KindFocus)
	if err != nil {
		t.Fatalf("Start: %v", err)
	}
	time.Sleep(15 * time.Millisecond)
	ctrl.Visibility(false)
	got := collect(t, events, time.Second)

	sawPaused := false
	last := got[len(got)-1]
	for _, ev := range got {
		if ev.Kind == service.EventPaused {
			sawPaused = true
		}
	}
	if !sawPaused {
		t.Fatal("expected a paused event before abandonment")
	}
	if last.Kind != service.EventAbandoned {
		t.Fatalf("last event kind = %d, want abandoned", last.Kind)
	}

	abandons := 0
	for _, action := range dispatcher.recorded() {
		if _, ok := action.(statedomain.AbandonSession); ok {
			abandons++
		}
	}
	if abandons != 1 {
		t.Fatalf("dispatched %d abandons, want 1", abandons)
	}
	if notifier.count() != 0 {
		t.Fatal("completion cue must not play on abandonment")
	}
}

func TestControllerReturnWithinGraceResumes(t *testing.T) {
	t.Parallel()

	dispatcher := &fakeDispatcher{state: sessionState(600, 0, true)}
	ctrl := newTestController(dispatcher, &countingNotifier{}, nil, fastConfig())

	events, err := ctrl.Start(context.Background(), service.KindFocus)
	if err != nil {
		t.Fatalf("Start: %v", err)
	}
	time.Sleep(15 * time.Millisecond)
	ctrl.Visibility(false)
	time.Sleep(10 * time.Millisecond)
	ctrl.Visibility(true)
	time.Sleep(60 * time.Millisecond)
	ctrl.Stop()
	got := collect(t, events, time.Second)

	sawResumed := false
	for _, ev := range got {
		if ev.Kind == service.EventAbandoned {
			t.Fatal("session abandoned despite returning within the grace period")
		}
		if ev.Kind == service.EventResumed {
			sawResumed = true
		}
	}
	if !sawResumed {
		t.Fatal("expected a resumed event")
	}
	for _, action := range dispatcher.recorded() {
		if _, ok := action.(statedomain.AbandonSession); ok {
			t.Fatal("abandon dispatched despite returning within the grace period")
		}
	}
}

func TestControllerIgnoresBlurWhenStrictModeOff(t *testing.T) {
	t.Parallel()

	dispatcher := &fakeDispatcher{state: sessionState(600, 0, false)}
	ctrl := newTestController(dispatcher, &countingNotifier{}, nil, fastConfig())

	events, err := ctrl.Start(context.Background(), service.KindFocus)
	if err != nil {
		t.Fatalf("Start: %v", err)
	}
	ctrl.Visibility(false)
	time.Sleep(80 * time.Millisecond)
	ctrl.Stop()
	got := collect(t, events, time.Second)

	for _, ev := range got {
		if ev.Kind == service.EventPaused || ev.Kind == service.EventAbandoned {
			t.Fatalf("unexpected event kind %d with strict mode off", ev.Kind)
		}
	}
}

func TestControllerEmitsMotivationalMessages(t *testing.T) {
	t.Parallel()

	dispatcher := &fakeDispatcher{state: sessionState(600, 0, false)}
	motivator := motivationservice.NewService(stubProvider{text: "Halfway there, stay sharp."})
	cfg := fastConfig()
	cfg.MessageInterval = 10 * time.Millisecond
	ctrl := newTestController(dispatcher, &countingNotifier{}, motivator, cfg)

	events, err := ctrl.Start(context.Background(), service.KindFocus)
	if err != nil {
		t.Fatalf("Start: %v", err)
	}
	time.Sleep(50 * time.Millisecond)
	ctrl.Stop()
	got := collect(t, events, time.Second)

	messages := 0
	for _, ev := range got {
		if ev.Kind == service.EventMessage {
			messages++
			if ev.Message != "Halfway there, stay sharp." {
				t.Fatalf("message = %q", ev.Message)
			}
		}
	}
	if messages < 2 {
		t.Fatalf("got %d messages, want at least the initial one plus a refresh", messages)
	}
}

func TestControllerDrivesRewardSession(t *testing.T) {
	t.Parallel()

	state := statedomain.Initial(testNow)
	state.RewardSession = &statedomain.RewardSession{
		ID:          "r1",
		Reward:      state.Rewards[0],
		StartTime:   testNow,
		DurationSec: 2,
	}
	dispatcher := &fakeDispatcher{state: state}
	notifier := &countingNotifier{}
	ctrl := newTestController(dispatcher, notifier, nil, fastConfig())

	events, err := ctrl.Start(context.Background(), service.KindReward)
	if err != nil {
		t.Fatalf("Start: %v", err)
	}
	got := collect(t, events, time.Second)

	if got[len(got)-1].Kind != service.EventCompleted {
		t.Fatal("reward run did not complete")
	}
	if notifier.count() != 1 {
		t.Fatalf("notifier played %d times, want 1", notifier.count())
	}

	ends := 0
	for _, action := range dispatcher.recorded() {
		switch action.(type) {
		case statedomain.EndRewardSession:
			ends++
		case statedomain.UpdateRewardSession:
		case statedomain.UpdateSession, statedomain.CompleteSession, statedomain.AbandonSession:
			t.Fatalf("focus action %T dispatched during a reward run", action)
		}
	}
	if ends != 1 {
		t.Fatalf("dispatched %d reward endings, want 1", ends)
	}
}
