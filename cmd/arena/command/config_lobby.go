package command

import (
	"fmt"
	"time"

	"github.com/pixil98/go-errors"
)

type LobbyConfig struct {
	MinPlayersToStart int `json:"min_players_to_start"`
	MaxPlayersInLobby int `json:"max_players_in_lobby"`
	CountdownSeconds  int `json:"countdown_seconds"`
}

func (c *LobbyConfig) validate() error {
	el := errors.NewErrorList()

	if c.MinPlayersToStart < 2 {
		el.Add(fmt.Errorf("min_players_to_start must be at least 2"))
	}
	if c.MaxPlayersInLobby < c.MinPlayersToStart {
		el.Add(fmt.Errorf("max_players_in_lobby must be at least min_players_to_start"))
	}
	if c.CountdownSeconds <= 0 {
		el.Add(fmt.Errorf("countdown_seconds must be a positive integer"))
	}

	return el.Err()
}

func (c *LobbyConfig) countdown() time.Duration {
	return time.Duration(c.CountdownSeconds) * time.Second
}
