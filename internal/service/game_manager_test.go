package service

import (
	"encoding/json"
	"testing"
	"time"

	"go.uber.org/zap"

	"gridchess/internal/engine"
)

func newTestManager(t *testing.T) *GameManager {
	t.Helper()
	return NewGameManager(engine.New(engine.Config{Depth: 1}), time.Minute, zap.NewNop().Sugar())
}

func readMatchEvent(t *testing.T, ch chan string) MatchFoundEvent {
	t.Helper()
	var ev MatchFoundEvent
	select {
	case payload, ok := <-ch:
		if !ok {
			t.Fatal("channel closed before delivering the match event")
		}
		if err := json.Unmarshal([]byte(payload), &ev); err != nil {
			t.Fatal(err)
		}
	case <-time.After(time.Second):
		t.Fatal("no match event delivered")
	}
	return ev
}

func TestMatchmakingNotifiesBothPlayers(t *testing.T) {
	gm := newTestManager(t)

	ch1 := make(chan string, 1)
	ch2 := make(chan string, 1)
	gm.RegisterMatchmakingChannel("p1", ch1)
	gm.RegisterMatchmakingChannel("p2", ch2)

	if err := gm.JoinMatchmaking("p1"); err != nil {
		t.Fatal(err)
	}
	if err := gm.JoinMatchmaking("p2"); err != nil {
		t.Fatal(err)
	}

	gm.matchWaitingPlayers()

	ev1 := readMatchEvent(t, ch1)
	ev2 := readMatchEvent(t, ch2)

	if ev1.GameID == "" || ev1.GameID != ev2.GameID {
		t.Fatalf("game IDs = %q / %q, want one shared ID", ev1.GameID, ev2.GameID)
	}
	if ev1.Color == ev2.Color {
		t.Errorf("both players were assigned color %q", ev1.Color)
	}

	game, err := gm.GetGame(ev1.GameID)
	if err != nil {
		t.Fatalf("announced game not found: %v", err)
	}
	if !game.IsPlayerInGame("p1") || !game.IsPlayerInGame("p2") {
		t.Error("players are not seated in the announced game")
	}
}

func TestLeaveMatchmakingRemovesPlayer(t *testing.T) {
	gm := newTestManager(t)

	ch1 := make(chan string, 1)
	gm.RegisterMatchmakingChannel("p1", ch1)
	if err := gm.JoinMatchmaking("p1"); err != nil {
		t.Fatal(err)
	}
	gm.LeaveMatchmaking("p1")

	ch2 := make(chan string, 1)
	ch3 := make(chan string, 1)
	gm.RegisterMatchmakingChannel("p2", ch2)
	gm.RegisterMatchmakingChannel("p3", ch3)
	if err := gm.JoinMatchmaking("p2"); err != nil {
		t.Fatal(err)
	}
	if err := gm.JoinMatchmaking("p3"); err != nil {
		t.Fatal(err)
	}

	gm.matchWaitingPlayers()

	ev2 := readMatchEvent(t, ch2)
	readMatchEvent(t, ch3)

	select {
	case payload := <-ch1:
		t.Errorf("departed player received %q", payload)
	default:
	}

	game, err := gm.GetGame(ev2.GameID)
	if err != nil {
		t.Fatal(err)
	}
	if game.IsPlayerInGame("p1") {
		t.Error("departed player was seated in a game")
	}
}
