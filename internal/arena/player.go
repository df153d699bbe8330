package arena

import "sync/atomic"

// Player is one connected participant. Identity fields are immutable after
// creation; the physics fields are owned by the match the player is in and
// are only touched while that match's lock is held. The two flags cross
// goroutine boundaries (lobby and gateway on one side, the tick loop on the
// other) and are therefore atomic.
type Player struct {
	Nickname  string
	SessionID string

	x, y                 float64
	velocityX, velocityY float64
	size                 float64
	angle                float64

	eliminated   atomic.Bool
	wantsToExpel atomic.Bool

	wins atomic.Int64
}

func NewPlayer(nickname, sessionID string) *Player {
	return &Player{
		Nickname:  nickname,
		SessionID: sessionID,
	}
}

// resetForNewRound clears the per-round state. Identity and wins survive.
// Position and size are assigned afterwards by spawning.
func (p *Player) resetForNewRound() {
	p.velocityX = 0
	p.velocityY = 0
	p.angle = 0
	p.eliminated.Store(false)
	p.wantsToExpel.Store(false)
}

// RequestExpel flags the player to launch on the next tick. The engine
// consumes and clears the flag. Requests from eliminated players are dropped.
func (p *Player) RequestExpel() {
	if p.eliminated.Load() {
		return
	}
	p.wantsToExpel.Store(true)
}

// Eliminated reports whether the player has been knocked out this round.
func (p *Player) Eliminated() bool {
	return p.eliminated.Load()
}

// WantsToExpel reports whether a launch is pending for the next tick.
func (p *Player) WantsToExpel() bool {
	return p.wantsToExpel.Load()
}

// Wins returns the number of rounds the player has won.
func (p *Player) Wins() int {
	return int(p.wins.Load())
}

// AddWin credits the player with a round victory.
func (p *Player) AddWin() {
	p.wins.Add(1)
}

// Size returns the player's current size. Only meaningful between ticks or
// after a round has ended; during a tick the engine owns the field.
func (p *Player) Size() float64 {
	return p.size
}
