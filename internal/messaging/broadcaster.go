package messaging

import (
	"encoding/json"
	"fmt"

	"github.com/pixil98/go-arena/internal/arena"
)

// Subject layout for everything the core emits.
const (
	matchStateSubject  = "match.%s.state"
	matchEventsSubject = "match.%s.events"
	playerSubject      = "player.%s"
)

// Bus is the slice of the messaging server the broadcaster needs.
type Bus interface {
	Publish(subject string, data []byte) error
}

// Broadcaster implements arena.Publisher on top of the bus: per-match state
// and event subjects, plus a private subject per session.
type Broadcaster struct {
	bus Bus
}

func NewBroadcaster(bus Bus) *Broadcaster {
	return &Broadcaster{bus: bus}
}

func (b *Broadcaster) PublishState(matchID string, snap *arena.Snapshot) error {
	return b.send(fmt.Sprintf(matchStateSubject, matchID), snap)
}

func (b *Broadcaster) PublishEvent(matchID string, ev arena.Event) error {
	return b.send(fmt.Sprintf(matchEventsSubject, matchID), ev)
}

func (b *Broadcaster) NotifyPlayer(sessionID string, a arena.Assignment) error {
	return b.send(fmt.Sprintf(playerSubject, sessionID), a)
}

func (b *Broadcaster) send(subject string, payload any) error {
	data, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("marshalling payload for %s: %w", subject, err)
	}
	return b.bus.Publish(subject, data)
}
