package arena

import (
	"sync"
	"time"

	"github.com/google/uuid"
)

// State is the lifecycle phase of a match. Transitions only move forward:
// sudden death is optional. The lobby countdown happens before a match
// exists, so a new match waits only until its round starts.
type State int

const (
	StateWaitingForPlayers State = iota
	StateRunning
	StateSuddenDeath
	StateRoundOver
)

func (s State) String() string {
	switch s {
	case StateWaitingForPlayers:
		return "WAITING_FOR_PLAYERS"
	case StateRunning:
		return "RUNNING"
	case StateSuddenDeath:
		return "SUDDEN_DEATH"
	case StateRoundOver:
		return "ROUND_OVER"
	default:
		return "UNKNOWN"
	}
}

// Match is one round of the game: a player set, an alive subset, a circular
// arena, and a clock. A single lock guards everything; the engine holds it
// for a full tick, so any mutation arriving from the lobby (a disconnect
// removing a player) serializes cleanly against the simulation.
type Match struct {
	id string

	mu          sync.RWMutex
	state       State
	players     map[string]*Player
	alive       []*Player
	arenaRadius float64
	roundStart  time.Time
	lastTick    time.Time
}

func NewMatch() *Match {
	return &Match{
		id:      uuid.NewString(),
		state:   StateWaitingForPlayers,
		players: map[string]*Player{},
	}
}

func (m *Match) ID() string {
	return m.id
}

func (m *Match) State() State {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.state
}

// AddPlayer registers a player into the match. Players stay in the set after
// elimination; only a disconnect removes them.
func (m *Match) AddPlayer(p *Player) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.players[p.SessionID] = p
}

// RemovePlayer drops a player from the match entirely, alive set included.
// Safe to call while the match is ticking.
func (m *Match) RemovePlayer(sessionID string) {
	m.mu.Lock()
	defer m.mu.Unlock()

	p, ok := m.players[sessionID]
	if !ok {
		return
	}
	delete(m.players, sessionID)
	m.removeAlive(p)
}

// AlivePlayers returns a copy of the current alive set.
func (m *Match) AlivePlayers() []*Player {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return append([]*Player(nil), m.alive...)
}

// PlayerCount returns the number of players still registered in the match.
func (m *Match) PlayerCount() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.players)
}

// RoundStart returns the wall-clock time the current round began.
func (m *Match) RoundStart() time.Time {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.roundStart
}

// EndRound forces the match into its terminal state. Used by the runner when
// a round outlives its configured cap.
func (m *Match) EndRound() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.state = StateRoundOver
}

// Snapshot builds the broadcastable view of the match: every registered
// player, eliminated ones included, plus the current arena radius.
func (m *Match) Snapshot() *Snapshot {
	m.mu.RLock()
	defer m.mu.RUnlock()

	snap := &Snapshot{
		Players:     make([]PlayerSnapshot, 0, len(m.players)),
		ArenaRadius: m.arenaRadius,
	}
	for _, p := range m.players {
		snap.Players = append(snap.Players, PlayerSnapshot{
			Eliminated: p.eliminated.Load(),
			Nickname:   p.Nickname,
			X:          p.x,
			Y:          p.y,
			Size:       p.size,
			Angle:      p.angle,
		})
	}
	return snap
}

// removeAlive swap-removes p from the alive set. Callers must hold m.mu.
// The engine iterates over copies of the slice, so reordering here never
// disturbs an in-flight tick.
func (m *Match) removeAlive(p *Player) {
	for i, q := range m.alive {
		if q == p {
			last := len(m.alive) - 1
			m.alive[i] = m.alive[last]
			m.alive[last] = nil
			m.alive = m.alive[:last]
			return
		}
	}
}
