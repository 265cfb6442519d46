package engine

import (
	"context"
	"testing"

	"github.com/google/go-cmp/cmp"

	"gridchess/internal/model"
)

func TestBestMoveTakesHangingQueen(t *testing.T) {
	b := model.NewEmptyBoard()
	b.Place(model.Piece{Color: model.White, Kind: model.King}, model.Position{Row: 7, Col: 4})
	b.Place(model.Piece{Color: model.Black, Kind: model.King}, model.Position{Row: 0, Col: 4})
	b.Place(model.Piece{Color: model.White, Kind: model.Rook}, model.Position{Row: 4, Col: 0})
	b.Place(model.Piece{Color: model.Black, Kind: model.Queen}, model.Position{Row: 4, Col: 7})

	eng := New(Config{Depth: 2})
	mv, err := eng.BestMove(context.Background(), b, model.White)
	if err != nil {
		t.Fatal(err)
	}

	if mv.From() != (model.Position{Row: 4, Col: 0}) || mv.To() != (model.Position{Row: 4, Col: 7}) {
		t.Fatalf("best move = %s, want a4-h4 capturing the queen", mv)
	}
	if mv.Captured == nil || mv.Captured.Kind != model.Queen {
		t.Errorf("Captured = %v, want queen snapshot", mv.Captured)
	}
	if mv.Score <= 0 {
		t.Errorf("Score = %d, want positive after winning a queen", mv.Score)
	}
}

func TestBestMoveFindsMateInOne(t *testing.T) {
	b := model.NewEmptyBoard()
	b.Place(model.Piece{Color: model.White, Kind: model.King}, model.Position{Row: 7, Col: 4})
	b.Place(model.Piece{Color: model.Black, Kind: model.King}, model.Position{Row: 0, Col: 7})
	b.Place(model.Piece{Color: model.Black, Kind: model.Pawn}, model.Position{Row: 1, Col: 6})
	b.Place(model.Piece{Color: model.Black, Kind: model.Pawn}, model.Position{Row: 1, Col: 7})
	b.Place(model.Piece{Color: model.White, Kind: model.Rook}, model.Position{Row: 7, Col: 0})

	eng := New(Config{Depth: 3})
	mv, err := eng.BestMove(context.Background(), b, model.White)
	if err != nil {
		t.Fatal(err)
	}

	if mv.To() != (model.Position{Row: 0, Col: 0}) {
		t.Fatalf("best move = %s, want a1-a8 back-rank mate", mv)
	}
	if mv.Score < scoreCheckmate-16 {
		t.Errorf("Score = %d, want a mate score", mv.Score)
	}
}

func TestBestMoveLeavesBoardUntouched(t *testing.T) {
	b := model.NewBoard()
	before := b.Snapshot()

	eng := New(Config{Depth: 2})
	if _, err := eng.BestMove(context.Background(), b, model.White); err != nil {
		t.Fatal(err)
	}

	if diff := cmp.Diff(before, b.Snapshot()); diff != "" {
		t.Errorf("search mutated the board (-before +after):\n%s", diff)
	}
}

func TestBestMoveHonorsCancellation(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	eng := New(Config{Depth: 3})
	if _, err := eng.BestMove(ctx, model.NewBoard(), model.White); err == nil {
		t.Error("expected error from canceled context")
	}
}

func TestBestMoveNoLegalMoves(t *testing.T) {
	// Stalemate position: black king cornered, no moves.
	b := model.NewEmptyBoard()
	b.Place(model.Piece{Color: model.Black, Kind: model.King}, model.Position{Row: 0, Col: 0})
	b.Place(model.Piece{Color: model.White, Kind: model.Queen}, model.Position{Row: 2, Col: 1})
	b.Place(model.Piece{Color: model.White, Kind: model.King}, model.Position{Row: 7, Col: 7})

	eng := New(Config{Depth: 2})
	if _, err := eng.BestMove(context.Background(), b, model.Black); err != ErrNoLegalMoves {
		t.Errorf("got %v, want ErrNoLegalMoves", err)
	}
}
