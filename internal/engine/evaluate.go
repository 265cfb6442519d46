package engine

import "gridchess/internal/model"

// Material values in centipawns. The king's value never enters the sum;
// king loss is handled by checkmate scores.
var pieceValue = map[model.PieceKind]int{
	model.Pawn:   100,
	model.Knight: 320,
	model.Bishop: 330,
	model.Rook:   500,
	model.Queen:  900,
	model.King:   0,
}

const mobilityWeight = 2

// evaluate scores the position from the given side's point of view:
// material difference plus a small mobility term.
func evaluate(b *model.Board, side model.Color) int {
	var score int
	for row := 0; row < model.BoardSize; row++ {
		for col := 0; col < model.BoardSize; col++ {
			piece, ok := b.PieceAt(model.Position{Row: row, Col: col})
			if !ok {
				continue
			}
			if piece.Color == side {
				score += pieceValue[piece.Kind]
			} else {
				score -= pieceValue[piece.Kind]
			}
		}
	}

	score += mobilityWeight * (len(b.LegalMoves(side)) - len(b.LegalMoves(side.Opponent())))
	return score
}
