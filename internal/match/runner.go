package match

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/pixil98/go-arena/internal/arena"
)

// Runner drives one tick loop per running match. Each loop is a single
// goroutine with its own ticker, so ticks for one match never overlap while
// separate matches proceed independently.
type Runner struct {
	dir    *Directory
	engine *arena.Engine
	pub    arena.Publisher

	tickInterval time.Duration
	roundMax     time.Duration

	mu    sync.Mutex
	loops map[string]*loop
}

// loop is the cancellation handle for one match's tick goroutine. Cancel is
// idempotent: the runner itself, a missing-match tick, and shutdown may all
// try to stop the same loop.
type loop struct {
	stop chan struct{}
	once sync.Once
}

func (l *loop) cancel() {
	l.once.Do(func() { close(l.stop) })
}

func NewRunner(dir *Directory, engine *arena.Engine, pub arena.Publisher, opts ...RunnerOpt) *Runner {
	r := &Runner{
		dir:          dir,
		engine:       engine,
		pub:          pub,
		tickInterval: DefaultTickInterval,
		loops:        map[string]*loop{},
	}

	for _, opt := range opts {
		opt(r)
	}

	return r
}

// Start blocks until the context is cancelled, then stops every live loop.
func (r *Runner) Start(ctx context.Context) error {
	<-ctx.Done()

	r.mu.Lock()
	defer r.mu.Unlock()
	for id, l := range r.loops {
		l.cancel()
		delete(r.loops, id)
	}
	return nil
}

// StartRound sets up the match for play and launches its tick loop. Calling
// it for an unknown match id, or for one whose loop is already running, is an
// ordering bug in the caller and comes back as an error. The loop entry is
// reserved before the match is touched so a duplicate call can never orphan a
// live loop's cancel handle.
func (r *Runner) StartRound(matchID string) error {
	m, ok := r.dir.Find(matchID)
	if !ok {
		return fmt.Errorf("starting round for match %s: %w", matchID, arena.ErrMatchNotFound)
	}

	l := &loop{stop: make(chan struct{})}
	r.mu.Lock()
	if _, exists := r.loops[matchID]; exists {
		r.mu.Unlock()
		return fmt.Errorf("starting round for match %s: %w", matchID, arena.ErrRoundInProgress)
	}
	r.loops[matchID] = l
	r.mu.Unlock()

	r.engine.BeginRound(m, time.Now())

	go r.run(matchID, l)

	slog.Info("round started", "match", matchID, "players", m.PlayerCount())
	return nil
}

func (r *Runner) run(matchID string, l *loop) {
	ticker := time.NewTicker(r.tickInterval)
	defer ticker.Stop()

	for {
		select {
		case <-l.stop:
			return
		case <-ticker.C:
			if !r.tick(matchID) {
				return
			}
		}
	}
}

// tick advances the match once and reports whether the loop should keep
// going. The match is re-resolved from the directory every invocation so a
// loop whose match was deleted out from under it cleans itself up instead of
// leaking.
func (r *Runner) tick(matchID string) bool {
	m, ok := r.dir.Find(matchID)
	if !ok {
		slog.Warn("tick for missing match, stopping loop", "match", matchID)
		r.stopLoop(matchID)
		return false
	}

	now := time.Now()

	if r.roundMax > 0 && now.Sub(m.RoundStart()) > r.roundMax {
		slog.Warn("round exceeded maximum duration, forcing round over", "match", matchID)
		m.EndRound()
	}

	events := r.engine.Advance(m, now)

	if err := r.pub.PublishState(matchID, m.Snapshot()); err != nil {
		slog.Warn("publishing state", "match", matchID, "error", err)
	}
	for _, ev := range events {
		if err := r.pub.PublishEvent(matchID, ev); err != nil {
			slog.Warn("publishing event", "match", matchID, "event", ev.Type, "error", err)
		}
	}

	if m.State() == arena.StateRoundOver {
		r.finishRound(matchID, m)
		return false
	}
	return true
}

func (r *Runner) finishRound(matchID string, m *arena.Match) {
	r.stopLoop(matchID)

	winner := resolveWinner(matchID, m)

	ev := arena.Event{Type: arena.EventRoundWinner}
	if winner != nil {
		winner.AddWin()
		ev.Nickname = winner.Nickname
		slog.Info("round won", "match", matchID, "winner", winner.Nickname, "wins", winner.Wins())
	} else {
		slog.Info("round ended in a draw", "match", matchID)
	}

	if err := r.pub.PublishEvent(matchID, ev); err != nil {
		slog.Warn("publishing round result", "match", matchID, "error", err)
	}

	// The match is finished; dropping it from the directory makes any
	// straggler tick self-cancel and lets the lobby treat later
	// disconnects from it as ghosts.
	r.dir.Delete(matchID)
}

// resolveWinner picks the round winner from the alive set. More than one
// survivor at round end is an invariant violation: it is reported and the
// largest player is taken so the system stays live. Zero survivors is a
// draw.
func resolveWinner(matchID string, m *arena.Match) *arena.Player {
	alive := m.AlivePlayers()
	switch len(alive) {
	case 0:
		return nil
	case 1:
		return alive[0]
	default:
		slog.Error("round ended with multiple players alive", "match", matchID, "alive", len(alive))
		winner := alive[0]
		for _, p := range alive[1:] {
			if p.Size() > winner.Size() {
				winner = p
			}
		}
		return winner
	}
}

func (r *Runner) stopLoop(matchID string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if l, ok := r.loops[matchID]; ok {
		l.cancel()
		delete(r.loops, matchID)
	}
}

// ActiveLoops reports how many tick loops are currently registered.
func (r *Runner) ActiveLoops() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.loops)
}
