package model

import (
	"errors"
	"testing"
	"time"

	"go.uber.org/zap"

	"gridchess/internal/apperr"
)

func newTestGame(t *testing.T) *Game {
	t.Helper()
	g := NewGame("test-game", zap.NewNop().Sugar(), time.Minute)
	if _, err := g.AddPlayer("alice"); err != nil {
		t.Fatal(err)
	}
	if _, err := g.AddPlayer("bob"); err != nil {
		t.Fatal(err)
	}
	return g
}

func TestAddPlayerAssignsColors(t *testing.T) {
	g := NewGame("g", zap.NewNop().Sugar(), time.Minute)

	color, err := g.AddPlayer("alice")
	if err != nil || color != White {
		t.Fatalf("first player got (%v, %v), want white", color, err)
	}
	color, err = g.AddPlayer("bob")
	if err != nil || color != Black {
		t.Fatalf("second player got (%v, %v), want black", color, err)
	}
	if _, err := g.AddPlayer("carol"); !errors.Is(err, apperr.ErrGameFull) {
		t.Errorf("third player got %v, want ErrGameFull", err)
	}
}

func TestMakeMoveRecordsHistory(t *testing.T) {
	g := newTestGame(t)

	err := g.MakeMove("alice", MoveRequest{
		From: Position{Row: 6, Col: 4},
		To:   Position{Row: 4, Col: 4},
	})
	if err != nil {
		t.Fatal(err)
	}

	history := g.MoveHistory()
	if len(history) != 1 || history[0] != "e2-e4" {
		t.Errorf("history = %v, want [e2-e4]", history)
	}
	if g.Turn() != Black {
		t.Errorf("turn = %v after white's move, want black", g.Turn())
	}
}

func TestMakeMoveRejectsWrongTurn(t *testing.T) {
	g := newTestGame(t)

	err := g.MakeMove("bob", MoveRequest{
		From: Position{Row: 1, Col: 4},
		To:   Position{Row: 3, Col: 4},
	})
	if !errors.Is(err, apperr.ErrNotYourTurn) {
		t.Errorf("got %v, want ErrNotYourTurn", err)
	}
}

func TestMakeMoveRejectsIllegalMove(t *testing.T) {
	g := newTestGame(t)

	err := g.MakeMove("alice", MoveRequest{
		From: Position{Row: 6, Col: 4},
		To:   Position{Row: 3, Col: 4}, // three squares forward
	})
	if !errors.Is(err, apperr.ErrIllegalMove) {
		t.Errorf("got %v, want ErrIllegalMove", err)
	}
}

func TestMakeMoveRejectsEmptySquare(t *testing.T) {
	g := newTestGame(t)

	err := g.MakeMove("alice", MoveRequest{
		From: Position{Row: 4, Col: 4},
		To:   Position{Row: 3, Col: 4},
	})
	if !errors.Is(err, apperr.ErrNoPieceAtSquare) {
		t.Errorf("got %v, want ErrNoPieceAtSquare", err)
	}
}

func TestScholarsMateResolvesGame(t *testing.T) {
	g := newTestGame(t)

	plies := []struct {
		player string
		req    MoveRequest
	}{
		{"alice", MoveRequest{From: Position{Row: 6, Col: 4}, To: Position{Row: 4, Col: 4}}}, // e2-e4
		{"bob", MoveRequest{From: Position{Row: 1, Col: 4}, To: Position{Row: 3, Col: 4}}},   // e7-e5
		{"alice", MoveRequest{From: Position{Row: 7, Col: 5}, To: Position{Row: 4, Col: 2}}}, // f1-c4
		{"bob", MoveRequest{From: Position{Row: 0, Col: 1}, To: Position{Row: 2, Col: 2}}},   // b8-c6
		{"alice", MoveRequest{From: Position{Row: 7, Col: 3}, To: Position{Row: 3, Col: 7}}}, // d1-h5
		{"bob", MoveRequest{From: Position{Row: 0, Col: 6}, To: Position{Row: 2, Col: 5}}},   // g8-f6
		{"alice", MoveRequest{From: Position{Row: 3, Col: 7}, To: Position{Row: 1, Col: 5}}}, // h5xf7 mate
	}
	for i, ply := range plies {
		if err := g.MakeMove(ply.player, ply.req); err != nil {
			t.Fatalf("ply %d (%s): %v", i+1, ply.req.From.Notation()+"-"+ply.req.To.Notation(), err)
		}
	}

	state := g.GetState()
	if state.Resolve == nil || *state.Resolve != "checkmate" {
		t.Fatalf("resolve = %v, want checkmate", state.Resolve)
	}
	if !state.IsCheck {
		t.Error("checkmated side should be flagged in check")
	}
	if err := g.MakeMove("bob", MoveRequest{
		From: Position{Row: 1, Col: 0},
		To:   Position{Row: 2, Col: 0},
	}); !errors.Is(err, apperr.ErrGameOver) {
		t.Errorf("move after mate got %v, want ErrGameOver", err)
	}
}

func TestResignResolvesGame(t *testing.T) {
	g := newTestGame(t)

	if err := g.Resign("carol"); !errors.Is(err, apperr.ErrNotAuthorized) {
		t.Errorf("outsider resign got %v, want ErrNotAuthorized", err)
	}
	if err := g.Resign("bob"); err != nil {
		t.Fatal(err)
	}

	state := g.GetState()
	if state.Resolve == nil || *state.Resolve != "resignation" {
		t.Fatalf("resolve = %v, want resignation", state.Resolve)
	}
	if err := g.Resign("alice"); !errors.Is(err, apperr.ErrGameOver) {
		t.Errorf("resign after game over got %v, want ErrGameOver", err)
	}
}

func TestClockExpiryResolvesTimeout(t *testing.T) {
	g := NewGame("g", zap.NewNop().Sugar(), time.Nanosecond)
	if _, err := g.AddPlayer("alice"); err != nil {
		t.Fatal(err)
	}
	if _, err := g.AddPlayer("bob"); err != nil {
		t.Fatal(err)
	}

	// White's clock has not started yet, so the first move is allowed.
	if err := g.MakeMove("alice", MoveRequest{
		From: Position{Row: 6, Col: 4},
		To:   Position{Row: 4, Col: 4},
	}); err != nil {
		t.Fatal(err)
	}

	// Black's clock is now running and drains immediately.
	time.Sleep(time.Millisecond)
	err := g.MakeMove("bob", MoveRequest{
		From: Position{Row: 1, Col: 4},
		To:   Position{Row: 3, Col: 4},
	})
	if !errors.Is(err, apperr.ErrGameOver) {
		t.Fatalf("move on expired clock got %v, want ErrGameOver", err)
	}

	state := g.GetState()
	if state.Resolve == nil || *state.Resolve != "timeout" {
		t.Errorf("resolve = %v, want timeout", state.Resolve)
	}
}

func TestCaptureListsTrackLostPieces(t *testing.T) {
	g := newTestGame(t)

	plies := []struct {
		player string
		req    MoveRequest
	}{
		{"alice", MoveRequest{From: Position{Row: 6, Col: 4}, To: Position{Row: 4, Col: 4}}}, // e2-e4
		{"bob", MoveRequest{From: Position{Row: 1, Col: 3}, To: Position{Row: 3, Col: 3}}},   // d7-d5
		{"alice", MoveRequest{From: Position{Row: 4, Col: 4}, To: Position{Row: 3, Col: 3}}}, // e4xd5
	}
	for _, ply := range plies {
		if err := g.MakeMove(ply.player, ply.req); err != nil {
			t.Fatal(err)
		}
	}

	state := g.GetState()
	if len(state.CapturedPieces.Black) != 1 || state.CapturedPieces.Black[0].Kind != Pawn {
		t.Errorf("black captured list = %v, want one pawn", state.CapturedPieces.Black)
	}
	if len(state.CapturedPieces.White) != 0 {
		t.Errorf("white captured list = %v, want empty", state.CapturedPieces.White)
	}
}
