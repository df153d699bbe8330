package command

import (
	"github.com/pixil98/go-errors"
)

type Config struct {
	Nats  NatsConfig  `json:"nats"`
	Game  GameConfig  `json:"game"`
	Lobby LobbyConfig `json:"lobby"`
}

func (c *Config) Validate() error {
	el := errors.NewErrorList()

	el.Add(c.Nats.validate())
	el.Add(c.Game.validate())
	el.Add(c.Lobby.validate())

	return el.Err()
}
