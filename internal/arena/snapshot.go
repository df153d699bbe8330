package arena

// PlayerSnapshot is the per-player slice of a state broadcast.
type PlayerSnapshot struct {
	Eliminated bool    `json:"eliminated"`
	Nickname   string  `json:"nickname"`
	X          float64 `json:"x"`
	Y          float64 `json:"y"`
	Size       float64 `json:"size"`
	Angle      float64 `json:"angle"`
}

// Snapshot is the authoritative state published once per tick.
type Snapshot struct {
	Players     []PlayerSnapshot `json:"players"`
	ArenaRadius float64          `json:"arenaRadius"`
}
