package arena

import (
	"math"
	"math/rand/v2"
	"time"
)

// velocityEpsilon is the magnitude below which a velocity component is
// zeroed, so friction converges instead of leaving floating-point drift.
const velocityEpsilon = 0.01

// spawnAreaFactor keeps spawns inside the inner portion of the arena.
const spawnAreaFactor = 0.8

// Tuning is the full set of gameplay constants the engine runs on.
type Tuning struct {
	ArenaInitialRadius float64
	// ArenaMinRadius is the sudden-death shrink floor. The arena never
	// collapses past it, so a final duel stays playable.
	ArenaMinRadius     float64
	PlayerStartingSize float64
	GrowthRate         float64 // size units per second
	SpinRate           float64 // radians per second
	LaunchPower        float64 // launch speed per unit of size
	FrictionFactor     float64 // velocity multiplier per second, (0, 1]
	ShrinkRate         float64 // radius units per second in sudden death
	SuddenDeathAfter   time.Duration
}

// Engine advances matches tick by tick. It performs no I/O: each Advance
// mutates the match in place and hands the tick's domain events back to the
// caller for forwarding.
type Engine struct {
	tuning Tuning
}

func NewEngine(t Tuning) *Engine {
	return &Engine{tuning: t}
}

// BeginRound puts the match into its starting configuration: full-size
// arena, fresh clocks, and every registered player reset and spawned at a
// uniformly random point inside the inner spawn circle.
func (e *Engine) BeginRound(m *Match, now time.Time) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.state = StateRunning
	m.arenaRadius = e.tuning.ArenaInitialRadius
	m.roundStart = now
	m.lastTick = now

	m.alive = make([]*Player, 0, len(m.players))
	spawnRadius := m.arenaRadius * spawnAreaFactor
	for _, p := range m.players {
		p.resetForNewRound()
		p.size = e.tuning.PlayerStartingSize
		p.x, p.y = spawnPoint(spawnRadius)
		m.alive = append(m.alive, p)
	}
}

// spawnPoint rejection-samples a uniform point in the circle of the given
// radius: pick from the bounding square, retry until inside. Expected
// constant number of iterations (acceptance ratio pi/4).
func spawnPoint(radius float64) (float64, float64) {
	for {
		x := (rand.Float64()*2 - 1) * radius
		y := (rand.Float64()*2 - 1) * radius
		if x*x+y*y <= radius*radius {
			return x, y
		}
	}
}

// Advance runs one simulation tick against the match. It is a no-op unless
// the match is in a playing state, which makes a stray tick after round end
// harmless.
func (e *Engine) Advance(m *Match, now time.Time) []Event {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.state != StateRunning && m.state != StateSuddenDeath {
		return nil
	}

	dt := now.Sub(m.lastTick).Seconds()
	m.lastTick = now
	elapsed := now.Sub(m.roundStart)

	var events []Event

	// Per-player updates run over a copy of the alive set so removals
	// never disturb iteration.
	alive := append([]*Player(nil), m.alive...)
	e.updatePlayers(alive, dt)

	for _, p := range alive {
		if e.outsideArena(m, p) {
			p.eliminated.Store(true)
			m.removeAlive(p)
			events = append(events, Event{Type: EventPlayerEliminated, Nickname: p.Nickname})
		}
	}

	survivors := append([]*Player(nil), m.alive...)
	for i := 0; i < len(survivors); i++ {
		for j := i + 1; j < len(survivors); j++ {
			resolveCollision(survivors[i], survivors[j])
		}
	}

	if m.state == StateSuddenDeath {
		m.arenaRadius -= e.tuning.ShrinkRate * dt
		if m.arenaRadius < e.tuning.ArenaMinRadius {
			m.arenaRadius = e.tuning.ArenaMinRadius
		}
	} else if elapsed > e.tuning.SuddenDeathAfter {
		m.state = StateSuddenDeath
		events = append(events, Event{Type: EventSuddenDeath})
	}

	if len(m.alive) <= 1 {
		m.state = StateRoundOver
	}

	return events
}

func (e *Engine) updatePlayers(players []*Player, dt float64) {
	friction := math.Pow(e.tuning.FrictionFactor, dt)

	for _, p := range players {
		p.size += e.tuning.GrowthRate * dt
		p.angle += e.tuning.SpinRate * dt

		// Expelling replaces the velocity outright. An additive impulse
		// lets repeated launches stack into runaway speeds.
		if p.wantsToExpel.CompareAndSwap(true, false) {
			speed := p.size * e.tuning.LaunchPower
			p.velocityX = math.Cos(p.angle) * speed
			p.velocityY = math.Sin(p.angle) * speed
		}

		p.x += p.velocityX * dt
		p.y += p.velocityY * dt

		p.velocityX *= friction
		p.velocityY *= friction
		if math.Abs(p.velocityX) < velocityEpsilon {
			p.velocityX = 0
		}
		if math.Abs(p.velocityY) < velocityEpsilon {
			p.velocityY = 0
		}
	}
}

// outsideArena checks the wall condition by squared distance. A player whose
// size exceeds the arena radius cannot fit at all and is out immediately.
func (e *Engine) outsideArena(m *Match, p *Player) bool {
	margin := m.arenaRadius - p.size
	if margin <= 0 {
		return true
	}
	return p.x*p.x+p.y*p.y > margin*margin
}

// resolveCollision applies an equal-mass elastic collision between two
// overlapping players: swap the velocity components along the contact
// normal, then push both out of overlap. Resolving an already-resolved pair
// is a no-op (the pair is separating and exactly in contact), so visiting a
// pair twice is safe.
func resolveCollision(p1, p2 *Player) {
	dx := p2.x - p1.x
	dy := p2.y - p1.y
	distSq := dx*dx + dy*dy

	minDist := p1.size + p2.size
	if distSq >= minDist*minDist || distSq == 0 {
		return
	}

	dist := math.Sqrt(distSq)
	nx := dx / dist
	ny := dy / dist

	// Relative velocity along the normal; positive means separating.
	dvn := (p2.velocityX-p1.velocityX)*nx + (p2.velocityY-p1.velocityY)*ny
	if dvn > 0 {
		return
	}

	p1.velocityX += dvn * nx
	p1.velocityY += dvn * ny
	p2.velocityX -= dvn * nx
	p2.velocityY -= dvn * ny

	half := (minDist - dist) / 2
	p1.x -= half * nx
	p1.y -= half * ny
	p2.x += half * nx
	p2.y += half * ny
}
