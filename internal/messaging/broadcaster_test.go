package messaging

import (
	"encoding/json"
	"testing"

	"github.com/pixil98/go-arena/internal/arena"
	"github.com/pixil98/go-testutil"
)

type fakeBus struct {
	subjects []string
	payloads [][]byte
}

func (f *fakeBus) Publish(subject string, data []byte) error {
	f.subjects = append(f.subjects, subject)
	f.payloads = append(f.payloads, data)
	return nil
}

func TestBroadcasterPublishState(t *testing.T) {
	bus := &fakeBus{}
	b := NewBroadcaster(bus)

	snap := &arena.Snapshot{
		ArenaRadius: 75,
		Players: []arena.PlayerSnapshot{
			{Nickname: "ada", X: 1, Y: 2, Size: 3, Angle: 4},
		},
	}
	if err := b.PublishState("m1", snap); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	testutil.AssertEqual(t, "subject", bus.subjects[0], "match.m1.state")

	var got arena.Snapshot
	if err := json.Unmarshal(bus.payloads[0], &got); err != nil {
		t.Fatalf("unmarshalling payload: %v", err)
	}
	if got.ArenaRadius != 75 {
		t.Errorf("expected arena radius 75, got %v", got.ArenaRadius)
	}
	testutil.AssertEqual(t, "players", len(got.Players), 1)
	testutil.AssertEqual(t, "nickname", got.Players[0].Nickname, "ada")
}

func TestBroadcasterPublishEvent(t *testing.T) {
	bus := &fakeBus{}
	b := NewBroadcaster(bus)

	tests := map[string]struct {
		event   arena.Event
		expJSON string
	}{
		"eliminated": {
			event:   arena.Event{Type: arena.EventPlayerEliminated, Nickname: "ada"},
			expJSON: `{"type":"PLAYER_ELIMINATED","nickname":"ada"}`,
		},
		"sudden death": {
			event:   arena.Event{Type: arena.EventSuddenDeath},
			expJSON: `{"type":"SUDDEN_DEATH"}`,
		},
		"draw omits nickname": {
			event:   arena.Event{Type: arena.EventRoundWinner},
			expJSON: `{"type":"ROUND_WINNER"}`,
		},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			bus.subjects, bus.payloads = nil, nil

			if err := b.PublishEvent("m2", tt.event); err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			testutil.AssertEqual(t, "subject", bus.subjects[0], "match.m2.events")
			testutil.AssertEqual(t, "payload", string(bus.payloads[0]), tt.expJSON)
		})
	}
}

func TestBroadcasterNotifyPlayer(t *testing.T) {
	bus := &fakeBus{}
	b := NewBroadcaster(bus)

	if err := b.NotifyPlayer("sess-9", arena.Assignment{MatchID: "m3"}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	testutil.AssertEqual(t, "subject", bus.subjects[0], "player.sess-9")
	testutil.AssertEqual(t, "payload", string(bus.payloads[0]), `{"matchId":"m3"}`)
}
