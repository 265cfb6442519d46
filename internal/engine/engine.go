// Package engine implements the game's AI opponent: an alpha-beta negamax
// search over board clones. Search annotates Move.Score as it explores and
// never touches the live game position.
package engine

import (
	"context"
	"errors"
	"sort"
	"time"

	"go.uber.org/zap"

	"gridchess/internal/model"
)

const (
	scoreInfinite  = 1 << 20
	scoreCheckmate = scoreInfinite - 1

	defaultDepth = 3
)

var ErrNoLegalMoves = errors.New("no legal moves")

type Config struct {
	// Depth is the full-width search depth in plies.
	Depth  int
	Logger *zap.SugaredLogger
}

type Engine struct {
	depth int
	log   *zap.SugaredLogger
	nodes uint64
}

func New(cfg Config) *Engine {
	depth := cfg.Depth
	if depth <= 0 {
		depth = defaultDepth
	}
	log := cfg.Logger
	if log == nil {
		log = zap.NewNop().Sugar()
	}
	return &Engine{depth: depth, log: log}
}

// BestMove searches the position and returns the best move found for the
// given side. The board must be a clone dedicated to this search: the engine
// applies and unapplies moves on it while exploring. The returned move is a
// fresh clone carrying the search score, safe to hand to another owner.
func (e *Engine) BestMove(ctx context.Context, b *model.Board, side model.Color) (*model.Move, error) {
	start := time.Now()
	e.nodes = 0

	moves := b.LegalMoves(side)
	if len(moves) == 0 {
		return nil, ErrNoLegalMoves
	}
	orderMoves(b, moves)

	best := moves[0]
	alpha := -scoreInfinite
	for _, mv := range moves {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		undo := b.Apply(mv)
		score := -e.negamax(ctx, b, side.Opponent(), e.depth-1, 1, -scoreInfinite, -alpha)
		undo()

		mv.Score = score
		if score > alpha {
			alpha = score
			best = mv
		}
	}

	e.log.Debugw("search complete",
		"side", side,
		"depth", e.depth,
		"nodes", e.nodes,
		"score", alpha,
		"move", best.AlgebraicNotation(),
		"elapsed", time.Since(start),
	)
	return best.Clone(), nil
}

// negamax maximizes alpha for the side to move. dist is the distance from
// the root, used to prefer quicker checkmates.
func (e *Engine) negamax(ctx context.Context, b *model.Board, side model.Color, depth, dist, alpha, beta int) int {
	e.nodes++

	if ctx.Err() != nil {
		return 0
	}
	if depth == 0 {
		return evaluate(b, side)
	}

	moves := b.LegalMoves(side)
	if len(moves) == 0 {
		if b.KingInCheck(side) {
			return -(scoreCheckmate - dist)
		}
		return 0 // stalemate
	}
	orderMoves(b, moves)

	best := -scoreInfinite
	for _, mv := range moves {
		undo := b.Apply(mv)
		score := -e.negamax(ctx, b, side.Opponent(), depth-1, dist+1, -beta, -alpha)
		undo()

		mv.Score = score
		if score > best {
			best = score
		}
		if score > alpha {
			alpha = score
		}
		if alpha >= beta {
			break // fail-hard cutoff
		}
	}
	return best
}

// orderMoves sorts captures first, most valuable victim first, so alpha-beta
// cuts earlier.
func orderMoves(b *model.Board, moves []*model.Move) {
	sort.SliceStable(moves, func(i, j int) bool {
		return captureValue(b, moves[i]) > captureValue(b, moves[j])
	})
}

func captureValue(b *model.Board, mv *model.Move) int {
	if mv.Flag == model.FlagEnPassant {
		return pieceValue[model.Pawn]
	}
	if victim, ok := b.PieceAt(mv.To()); ok {
		return pieceValue[victim.Kind]
	}
	return 0
}
