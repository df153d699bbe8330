package arena

// EventType identifies a discrete match event published on the match's event
// channel, as opposed to the continuous state snapshots.
type EventType string

const (
	EventPlayerEliminated EventType = "PLAYER_ELIMINATED"
	EventSuddenDeath      EventType = "SUDDEN_DEATH"
	EventRoundWinner      EventType = "ROUND_WINNER"
)

// Event is a single domain event. Nickname is set for player-scoped events
// and empty otherwise; a ROUND_WINNER with no nickname means the round ended
// in a draw.
type Event struct {
	Type     EventType `json:"type"`
	Nickname string    `json:"nickname,omitempty"`
}
