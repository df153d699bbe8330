package command

import (
	"fmt"

	"github.com/pixil98/go-arena/internal/gateway"
	"github.com/pixil98/go-arena/internal/lobby"
	"github.com/pixil98/go-arena/internal/match"
	"github.com/pixil98/go-arena/internal/messaging"
	"github.com/pixil98/go-service"
)

func BuildWorkers(config interface{}) (service.WorkerList, error) {
	cfg, ok := config.(*Config)
	if !ok {
		return nil, fmt.Errorf("unable to cast config")
	}

	// Messaging layer
	bus, err := cfg.Nats.buildServer()
	if err != nil {
		return nil, fmt.Errorf("creating nats server: %w", err)
	}
	broadcaster := messaging.NewBroadcaster(bus)

	// Match infrastructure
	dir := match.NewDirectory()
	runner := match.NewRunner(dir, cfg.Game.buildEngine(), broadcaster,
		match.WithTickInterval(cfg.Game.tickInterval()),
		match.WithRoundCap(cfg.Game.roundCap()),
	)

	// Matchmaking and the inbound edge
	lob := lobby.New(dir, runner, broadcaster,
		cfg.Lobby.MinPlayersToStart,
		cfg.Lobby.MaxPlayersInLobby,
		cfg.Lobby.countdown(),
	)
	gw := gateway.New(bus, lob)

	return service.WorkerList{
		"nats":    bus,
		"runner":  runner,
		"gateway": gw,
	}, nil
}
