package gateway

import (
	"context"
	"encoding/json"
	"log/slog"
	"time"
)

// Client command subjects. The transport layer, whatever it is, bridges each
// connected session onto these.
const (
	joinSubject       = "client.join"
	expelSubject      = "client.expel"
	disconnectSubject = "client.disconnect"
)

// Bus is the subscribing side of the messaging server.
type Bus interface {
	Subscribe(subject string, handler func(data []byte)) (func(), error)
}

// GameService is the set of operations a client command can trigger.
type GameService interface {
	Join(nickname, sessionID string)
	Disconnect(sessionID string)
	RequestExpel(sessionID string)
}

type joinPayload struct {
	Nickname  string `json:"nickname"`
	SessionID string `json:"sessionId"`
}

type sessionPayload struct {
	SessionID string `json:"sessionId"`
}

// Gateway subscribes to the client command subjects and routes them into the
// game service. It is the only inbound edge of the core.
type Gateway struct {
	bus Bus
	svc GameService
}

func New(bus Bus, svc GameService) *Gateway {
	return &Gateway{bus: bus, svc: svc}
}

// Start subscribes to the command subjects and blocks until the context is
// cancelled. The bus worker starts concurrently, so subscription is retried
// until it comes up.
func (g *Gateway) Start(ctx context.Context) error {
	unsubs, err := g.subscribe(ctx)
	if err != nil {
		return err
	}
	defer func() {
		for _, u := range unsubs {
			u()
		}
	}()

	slog.InfoContext(ctx, "gateway listening for client commands")
	<-ctx.Done()
	return nil
}

func (g *Gateway) subscribe(ctx context.Context) ([]func(), error) {
	handlers := map[string]func(data []byte){
		joinSubject:       g.handleJoin,
		expelSubject:      g.handleExpel,
		disconnectSubject: g.handleDisconnect,
	}

	var unsubs []func()
	for subject, handler := range handlers {
		unsub, err := g.subscribeRetry(ctx, subject, handler)
		if err != nil {
			for _, u := range unsubs {
				u()
			}
			return nil, err
		}
		unsubs = append(unsubs, unsub)
	}
	return unsubs, nil
}

// subscribeRetry keeps trying until the bus is up or the context ends.
func (g *Gateway) subscribeRetry(ctx context.Context, subject string, handler func(data []byte)) (func(), error) {
	for {
		unsub, err := g.bus.Subscribe(subject, handler)
		if err == nil {
			return unsub, nil
		}

		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-time.After(100 * time.Millisecond):
		}
	}
}

func (g *Gateway) handleJoin(data []byte) {
	var p joinPayload
	if err := json.Unmarshal(data, &p); err != nil {
		slog.Warn("bad join payload", "error", err)
		return
	}
	if p.Nickname == "" || p.SessionID == "" {
		slog.Warn("join payload missing nickname or session")
		return
	}
	g.svc.Join(p.Nickname, p.SessionID)
}

func (g *Gateway) handleExpel(data []byte) {
	var p sessionPayload
	if err := json.Unmarshal(data, &p); err != nil {
		slog.Warn("bad expel payload", "error", err)
		return
	}
	g.svc.RequestExpel(p.SessionID)
}

func (g *Gateway) handleDisconnect(data []byte) {
	var p sessionPayload
	if err := json.Unmarshal(data, &p); err != nil {
		slog.Warn("bad disconnect payload", "error", err)
		return
	}
	g.svc.Disconnect(p.SessionID)
}
