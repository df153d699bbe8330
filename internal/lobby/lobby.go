package lobby

import (
	"log/slog"
	"sync"
	"time"

	"github.com/pixil98/go-arena/internal/arena"
	"github.com/pixil98/go-arena/internal/match"
)

// RoundStarter is the hand-off point to the match runner.
type RoundStarter interface {
	StartRound(matchID string) error
}

// Lobby is the matchmaker. One mutex owns the waiting pool, the countdown
// timer, the session index, and the session-to-match reverse lookup; every
// decision that reads the pool in order to schedule or cancel the countdown
// happens inside it, which is what keeps join and disconnect race-free.
type Lobby struct {
	dir     *match.Directory
	starter RoundStarter
	pub     arena.Publisher

	minPlayers int
	maxPlayers int
	countdown  time.Duration

	mu             sync.Mutex
	pool           []*arena.Player
	countdownTimer *time.Timer
	sessions       map[string]*arena.Player
	matchBySession map[string]string
}

func New(dir *match.Directory, starter RoundStarter, pub arena.Publisher, minPlayers, maxPlayers int, countdown time.Duration) *Lobby {
	return &Lobby{
		dir:            dir,
		starter:        starter,
		pub:            pub,
		minPlayers:     minPlayers,
		maxPlayers:     maxPlayers,
		countdown:      countdown,
		sessions:       map[string]*arena.Player{},
		matchBySession: map[string]string{},
	}
}

// Join admits a new player into the waiting pool. A full pool seals a match
// immediately; reaching the minimum schedules the countdown if none is
// pending.
func (l *Lobby) Join(nickname, sessionID string) {
	var sealed []*arena.Player

	l.mu.Lock()
	p := arena.NewPlayer(nickname, sessionID)
	l.pool = append(l.pool, p)
	l.sessions[sessionID] = p

	switch {
	case len(l.pool) >= l.maxPlayers:
		slog.Info("lobby full, sealing match", "players", len(l.pool))
		l.cancelCountdownLocked()
		sealed = l.takePoolLocked()
	case len(l.pool) >= l.minPlayers && l.countdownTimer == nil:
		slog.Info("enough players waiting, starting countdown", "players", len(l.pool), "countdown", l.countdown)
		l.countdownTimer = time.AfterFunc(l.countdown, l.sealAfterCountdown)
	default:
		slog.Info("player waiting in lobby", "nickname", nickname, "players", len(l.pool))
	}
	l.mu.Unlock()

	if sealed != nil {
		l.createMatch(sealed)
	}
}

// Disconnect routes a leaving session to wherever it currently lives: the
// waiting pool, an active match, or nowhere (a ghost, which is logged and
// ignored).
func (l *Lobby) Disconnect(sessionID string) {
	l.mu.Lock()
	delete(l.sessions, sessionID)

	if l.removeFromPoolLocked(sessionID) {
		if len(l.pool) < l.minPlayers && l.countdownTimer != nil {
			slog.Info("pool dropped below minimum, cancelling countdown", "players", len(l.pool))
			l.cancelCountdownLocked()
		}
		l.mu.Unlock()
		return
	}

	matchID, ok := l.matchBySession[sessionID]
	if ok {
		delete(l.matchBySession, sessionID)
	}
	l.mu.Unlock()

	if !ok {
		slog.Warn("disconnect for unknown session, ignoring", "session", sessionID)
		return
	}

	m, found := l.dir.Find(matchID)
	if !found {
		// The match already finished; the reverse entry was just stale.
		slog.Debug("disconnect from finished match", "session", sessionID, "match", matchID)
		return
	}
	m.RemovePlayer(sessionID)
	slog.Info("player removed from match", "session", sessionID, "match", matchID)
}

// RequestExpel flags the session's player to launch on the next tick.
// Unknown sessions are a no-op.
func (l *Lobby) RequestExpel(sessionID string) {
	l.mu.Lock()
	p, ok := l.sessions[sessionID]
	l.mu.Unlock()

	if !ok {
		slog.Debug("expel request for unknown session", "session", sessionID)
		return
	}
	p.RequestExpel()
}

// sealAfterCountdown fires when the countdown elapses. The pool minimum is
// re-checked under the lock: a player may have left between scheduling and
// firing without the cancel path winning the race.
func (l *Lobby) sealAfterCountdown() {
	l.mu.Lock()
	if len(l.pool) < l.minPlayers {
		l.countdownTimer = nil
		l.mu.Unlock()
		slog.Info("countdown fired below minimum, nothing to seal")
		return
	}
	sealed := l.takePoolLocked()
	l.mu.Unlock()

	l.createMatch(sealed)
}

// createMatch builds the match from a sealed player list, registers it, and
// hands it to the runner. Runs outside the lobby lock: notification and
// round start must not hold up joins.
func (l *Lobby) createMatch(players []*arena.Player) {
	m := arena.NewMatch()

	l.mu.Lock()
	for _, p := range players {
		m.AddPlayer(p)
		l.matchBySession[p.SessionID] = m.ID()
	}
	l.mu.Unlock()

	if err := l.dir.Save(m); err != nil {
		slog.Error("saving new match", "match", m.ID(), "error", err)
		return
	}
	slog.Info("match created", "match", m.ID(), "players", len(players))

	assignment := arena.Assignment{MatchID: m.ID()}
	for _, p := range players {
		if err := l.pub.NotifyPlayer(p.SessionID, assignment); err != nil {
			slog.Warn("notifying player of assignment", "session", p.SessionID, "error", err)
		}
	}

	if err := l.starter.StartRound(m.ID()); err != nil {
		slog.Error("starting round", "match", m.ID(), "error", err)
	}
}

// takePoolLocked snapshots and clears the pool and countdown reference.
// Callers must hold l.mu.
func (l *Lobby) takePoolLocked() []*arena.Player {
	sealed := l.pool
	l.pool = nil
	l.countdownTimer = nil
	return sealed
}

// cancelCountdownLocked stops a pending countdown, if any. Callers must hold
// l.mu. Stopping a timer that already fired is fine: the seal callback
// re-checks the pool under the lock.
func (l *Lobby) cancelCountdownLocked() {
	if l.countdownTimer == nil {
		return
	}
	l.countdownTimer.Stop()
	l.countdownTimer = nil
}

// Waiting reports the current waiting-pool size.
func (l *Lobby) Waiting() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.pool)
}

// CountdownPending reports whether a countdown is currently scheduled.
func (l *Lobby) CountdownPending() bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.countdownTimer != nil
}

func (l *Lobby) removeFromPoolLocked(sessionID string) bool {
	for i, p := range l.pool {
		if p.SessionID == sessionID {
			l.pool = append(l.pool[:i], l.pool[i+1:]...)
			return true
		}
	}
	return false
}
