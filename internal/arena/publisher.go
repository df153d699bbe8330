package arena

// Assignment tells a player which match they were placed into. It is the
// only private per-player message the core sends.
type Assignment struct {
	MatchID string `json:"matchId"`
}

// Publisher is everything the core needs from the messaging layer: state
// broadcasts and event broadcasts addressed by match id, and private
// delivery addressed by session id. Publishing is fire-and-forget; the
// callers log errors and move on.
type Publisher interface {
	PublishState(matchID string, snap *Snapshot) error
	PublishEvent(matchID string, ev Event) error
	NotifyPlayer(sessionID string, a Assignment) error
}
