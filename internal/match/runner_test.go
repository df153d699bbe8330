package match

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/pixil98/go-arena/internal/arena"
	"github.com/pixil98/go-testutil"
)

// recordingPublisher captures everything the runner publishes.
type recordingPublisher struct {
	mu     sync.Mutex
	states int
	events []arena.Event
}

func (p *recordingPublisher) PublishState(matchID string, snap *arena.Snapshot) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.states++
	return nil
}

func (p *recordingPublisher) PublishEvent(matchID string, ev arena.Event) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, ev)
	return nil
}

func (p *recordingPublisher) NotifyPlayer(sessionID string, a arena.Assignment) error {
	return nil
}

func (p *recordingPublisher) stateCount() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.states
}

func (p *recordingPublisher) eventOfType(et arena.EventType) (arena.Event, bool) {
	p.mu.Lock()
	defer p.mu.Unlock()
	for _, ev := range p.events {
		if ev.Type == et {
			return ev, true
		}
	}
	return arena.Event{}, false
}

func testEngine() *arena.Engine {
	return arena.NewEngine(arena.Tuning{
		ArenaInitialRadius: 100,
		ArenaMinRadius:     10,
		PlayerStartingSize: 5,
		LaunchPower:        10,
		FrictionFactor:     0.5,
		SuddenDeathAfter:   time.Minute,
	})
}

func waitFor(t *testing.T, what string, cond func() bool) {
	t.Helper()
	deadline := time.After(2 * time.Second)
	for {
		if cond() {
			return
		}
		select {
		case <-deadline:
			t.Fatalf("timed out waiting for %s", what)
		case <-time.After(5 * time.Millisecond):
		}
	}
}

func newTestMatch(dir *Directory, sessions ...string) *arena.Match {
	m := arena.NewMatch()
	for _, s := range sessions {
		m.AddPlayer(arena.NewPlayer("nick-"+s, s))
	}
	if err := dir.Save(m); err != nil {
		panic(err)
	}
	return m
}

func TestStartRoundUnknownMatch(t *testing.T) {
	r := NewRunner(NewDirectory(), testEngine(), &recordingPublisher{})

	err := r.StartRound("nope")
	if !errors.Is(err, arena.ErrMatchNotFound) {
		t.Errorf("expected ErrMatchNotFound, got %v", err)
	}
	testutil.AssertEqual(t, "loops", r.ActiveLoops(), 0)
}

func TestStartRoundTwiceRejected(t *testing.T) {
	dir := NewDirectory()
	pub := &recordingPublisher{}
	r := NewRunner(dir, testEngine(), pub, WithTickInterval(5*time.Millisecond))
	m := newTestMatch(dir, "s1", "s2")

	if err := r.StartRound(m.ID()); err != nil {
		t.Fatalf("start round: %v", err)
	}
	defer r.stopLoop(m.ID())

	err := r.StartRound(m.ID())
	if !errors.Is(err, arena.ErrRoundInProgress) {
		t.Errorf("expected ErrRoundInProgress, got %v", err)
	}
	// The first loop's handle is untouched.
	testutil.AssertEqual(t, "loops", r.ActiveLoops(), 1)
}

func TestRunnerPublishesSnapshots(t *testing.T) {
	dir := NewDirectory()
	pub := &recordingPublisher{}
	r := NewRunner(dir, testEngine(), pub, WithTickInterval(5*time.Millisecond))
	m := newTestMatch(dir, "s1", "s2")

	if err := r.StartRound(m.ID()); err != nil {
		t.Fatalf("start round: %v", err)
	}
	defer r.stopLoop(m.ID())

	testutil.AssertEqual(t, "state", m.State(), arena.StateRunning)
	testutil.AssertEqual(t, "loops", r.ActiveLoops(), 1)

	waitFor(t, "state broadcasts", func() bool { return pub.stateCount() >= 3 })
}

func TestRunnerLoopSelfCancelsWhenMatchDeleted(t *testing.T) {
	dir := NewDirectory()
	pub := &recordingPublisher{}
	r := NewRunner(dir, testEngine(), pub, WithTickInterval(5*time.Millisecond))
	m := newTestMatch(dir, "s1", "s2")

	if err := r.StartRound(m.ID()); err != nil {
		t.Fatalf("start round: %v", err)
	}
	waitFor(t, "first broadcast", func() bool { return pub.stateCount() >= 1 })

	dir.Delete(m.ID())

	waitFor(t, "loop cleanup", func() bool { return r.ActiveLoops() == 0 })
}

func TestRunnerFinishesRoundWithWinner(t *testing.T) {
	dir := NewDirectory()
	pub := &recordingPublisher{}
	r := NewRunner(dir, testEngine(), pub, WithTickInterval(5*time.Millisecond))
	m := newTestMatch(dir, "s1", "s2")

	if err := r.StartRound(m.ID()); err != nil {
		t.Fatalf("start round: %v", err)
	}
	waitFor(t, "first broadcast", func() bool { return pub.stateCount() >= 1 })

	// Losing a player drops the alive set to one; the next tick ends the
	// round.
	m.RemovePlayer("s2")

	waitFor(t, "loop cleanup", func() bool { return r.ActiveLoops() == 0 })

	ev, ok := pub.eventOfType(arena.EventRoundWinner)
	testutil.AssertEqual(t, "winner event", ok, true)
	testutil.AssertEqual(t, "winner nickname", ev.Nickname, "nick-s1")

	winner := m.AlivePlayers()[0]
	testutil.AssertEqual(t, "wins", winner.Wins(), 1)

	// Finished matches are dropped from the directory.
	_, found := dir.Find(m.ID())
	testutil.AssertEqual(t, "match still registered", found, false)
}

func TestRunnerFinishesDrawWithoutWinner(t *testing.T) {
	dir := NewDirectory()
	pub := &recordingPublisher{}
	r := NewRunner(dir, testEngine(), pub, WithTickInterval(5*time.Millisecond))
	m := newTestMatch(dir, "s1", "s2")

	if err := r.StartRound(m.ID()); err != nil {
		t.Fatalf("start round: %v", err)
	}
	waitFor(t, "first broadcast", func() bool { return pub.stateCount() >= 1 })

	m.RemovePlayer("s1")
	m.RemovePlayer("s2")

	waitFor(t, "loop cleanup", func() bool { return r.ActiveLoops() == 0 })

	ev, ok := pub.eventOfType(arena.EventRoundWinner)
	testutil.AssertEqual(t, "winner event", ok, true)
	testutil.AssertEqual(t, "draw nickname", ev.Nickname, "")
}

func TestRunnerEnforcesRoundCap(t *testing.T) {
	dir := NewDirectory()
	pub := &recordingPublisher{}
	r := NewRunner(dir, testEngine(), pub,
		WithTickInterval(5*time.Millisecond),
		WithRoundCap(time.Millisecond),
	)
	m := newTestMatch(dir, "s1", "s2")

	if err := r.StartRound(m.ID()); err != nil {
		t.Fatalf("start round: %v", err)
	}

	waitFor(t, "forced round over", func() bool { return r.ActiveLoops() == 0 })

	_, ok := pub.eventOfType(arena.EventRoundWinner)
	testutil.AssertEqual(t, "winner event", ok, true)
}

func TestRunnerShutdownStopsLoops(t *testing.T) {
	dir := NewDirectory()
	pub := &recordingPublisher{}
	r := NewRunner(dir, testEngine(), pub, WithTickInterval(5*time.Millisecond))
	m := newTestMatch(dir, "s1", "s2")

	if err := r.StartRound(m.ID()); err != nil {
		t.Fatalf("start round: %v", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- r.Start(ctx) }()

	cancel()
	if err := <-done; err != nil {
		t.Fatalf("unexpected shutdown error: %v", err)
	}
	testutil.AssertEqual(t, "loops", r.ActiveLoops(), 0)
}
