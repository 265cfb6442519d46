package model

var (
	rookDirs   = []Position{{Row: 0, Col: 1}, {Row: 0, Col: -1}, {Row: 1, Col: 0}, {Row: -1, Col: 0}}
	bishopDirs = []Position{{Row: 1, Col: 1}, {Row: 1, Col: -1}, {Row: -1, Col: 1}, {Row: -1, Col: -1}}
	knightDirs = []Position{
		{Row: 1, Col: 2}, {Row: 1, Col: -2}, {Row: -1, Col: 2}, {Row: -1, Col: -2},
		{Row: 2, Col: 1}, {Row: 2, Col: -1}, {Row: -2, Col: 1}, {Row: -2, Col: -1},
	}
	kingDirs = append(append([]Position{}, rookDirs...), bishopDirs...)

	// promotionKinds are the choices offered when a pawn reaches the last
	// rank, in the order move generation emits them.
	promotionKinds = []PieceKind{Queen, Rook, Bishop, Knight}
)

// LegalMoves returns every legal move for the given side. Moves carry the
// correct special-move flag; scores are left at zero for the search to fill
// in.
func (b *Board) LegalMoves(c Color) []*Move {
	return b.filterLegal(c, b.pseudoMoves(c))
}

// LegalMovesFrom returns the legal moves for the piece on the given square,
// or nil when the square is empty.
func (b *Board) LegalMovesFrom(pos Position) []*Move {
	sq := b.grid[pos.Row][pos.Col]
	if sq == nil {
		return nil
	}
	return b.filterLegal(sq.piece.Color, b.pseudoMovesFrom(pos))
}

// KingInCheck reports whether the given side's king is attacked.
func (b *Board) KingInCheck(c Color) bool {
	return b.squareAttacked(b.KingPosition(c), c.Opponent())
}

// HasLegalMoves reports whether the side has at least one legal move. Used
// for checkmate and stalemate detection.
func (b *Board) HasLegalMoves(c Color) bool {
	for row := 0; row < BoardSize; row++ {
		for col := 0; col < BoardSize; col++ {
			sq := b.grid[row][col]
			if sq == nil || sq.piece.Color != c {
				continue
			}
			if len(b.LegalMovesFrom(Position{Row: row, Col: col})) > 0 {
				return true
			}
		}
	}
	return false
}

// filterLegal keeps only moves that do not leave the mover's own king in
// check, by applying each candidate and unapplying it again.
func (b *Board) filterLegal(c Color, candidates []*Move) []*Move {
	legal := make([]*Move, 0, len(candidates))
	for _, mv := range candidates {
		undo := b.Apply(mv)
		if !b.KingInCheck(c) {
			legal = append(legal, mv)
		}
		undo()
	}
	return legal
}

func (b *Board) pseudoMoves(c Color) []*Move {
	var moves []*Move
	for row := 0; row < BoardSize; row++ {
		for col := 0; col < BoardSize; col++ {
			sq := b.grid[row][col]
			if sq == nil || sq.piece.Color != c {
				continue
			}
			moves = append(moves, b.pseudoMovesFrom(Position{Row: row, Col: col})...)
		}
	}
	return moves
}

func (b *Board) pseudoMovesFrom(from Position) []*Move {
	sq := b.grid[from.Row][from.Col]
	if sq == nil {
		return nil
	}
	switch sq.piece.Kind {
	case Pawn:
		return b.pawnMoves(from, sq)
	case Knight:
		return b.stepMoves(from, sq, knightDirs)
	case Bishop:
		return b.slideMoves(from, sq, bishopDirs)
	case Rook:
		return b.slideMoves(from, sq, rookDirs)
	case Queen:
		return b.slideMoves(from, sq, kingDirs)
	case King:
		return append(b.stepMoves(from, sq, kingDirs), b.castleMoves(from, sq)...)
	}
	return nil
}

// pawnMoves generates advances, captures, promotions and en passant
// captures. White pawns move toward row 0, black toward row 7.
func (b *Board) pawnMoves(from Position, sq *cell) []*Move {
	var moves []*Move
	dir := -1
	if sq.piece.Color == Black {
		dir = 1
	}

	appendPawnMove := func(to Position) {
		if to.Row == 0 || to.Row == BoardSize-1 {
			for _, kind := range promotionKinds {
				mv := NewMove(from.Row, from.Col, to.Row, to.Col)
				mv.Flag = FlagPromotion
				mv.Promotion = kind
				moves = append(moves, mv)
			}
			return
		}
		moves = append(moves, NewMove(from.Row, from.Col, to.Row, to.Col))
	}

	one := Position{Row: from.Row + dir, Col: from.Col}
	if one.InBounds() && b.grid[one.Row][one.Col] == nil {
		appendPawnMove(one)
		two := Position{Row: from.Row + 2*dir, Col: from.Col}
		if !sq.hasMoved && two.InBounds() && b.grid[two.Row][two.Col] == nil {
			moves = append(moves, NewMove(from.Row, from.Col, two.Row, two.Col))
		}
	}

	for _, dc := range []int{-1, 1} {
		to := Position{Row: from.Row + dir, Col: from.Col + dc}
		if !to.InBounds() {
			continue
		}
		if victim := b.grid[to.Row][to.Col]; victim != nil && victim.piece.Color != sq.piece.Color {
			appendPawnMove(to)
		}
		if b.enPassant != nil && *b.enPassant == to {
			mv := NewMove(from.Row, from.Col, to.Row, to.Col)
			mv.Flag = FlagEnPassant
			moves = append(moves, mv)
		}
	}
	return moves
}

func (b *Board) stepMoves(from Position, sq *cell, dirs []Position) []*Move {
	var moves []*Move
	for _, d := range dirs {
		to := Position{Row: from.Row + d.Row, Col: from.Col + d.Col}
		if !to.InBounds() {
			continue
		}
		if target := b.grid[to.Row][to.Col]; target == nil || target.piece.Color != sq.piece.Color {
			moves = append(moves, NewMove(from.Row, from.Col, to.Row, to.Col))
		}
	}
	return moves
}

func (b *Board) slideMoves(from Position, sq *cell, dirs []Position) []*Move {
	var moves []*Move
	for _, d := range dirs {
		to := Position{Row: from.Row + d.Row, Col: from.Col + d.Col}
		for to.InBounds() {
			target := b.grid[to.Row][to.Col]
			if target == nil {
				moves = append(moves, NewMove(from.Row, from.Col, to.Row, to.Col))
			} else {
				if target.piece.Color != sq.piece.Color {
					moves = append(moves, NewMove(from.Row, from.Col, to.Row, to.Col))
				}
				break
			}
			to = Position{Row: to.Row + d.Row, Col: to.Col + d.Col}
		}
	}
	return moves
}

// castleMoves generates king-side and queen-side castling when king and rook
// are unmoved, the squares between are empty, and the king does not castle
// out of or through check. The legality filter still verifies the landing
// square.
func (b *Board) castleMoves(from Position, sq *cell) []*Move {
	if sq.hasMoved || b.squareAttacked(from, sq.piece.Color.Opponent()) {
		return nil
	}
	var moves []*Move
	row := from.Row

	queenside := b.grid[row][0]
	if queenside != nil && queenside.piece.Kind == Rook && !queenside.hasMoved &&
		b.grid[row][1] == nil && b.grid[row][2] == nil && b.grid[row][3] == nil &&
		!b.squareAttacked(Position{Row: row, Col: 3}, sq.piece.Color.Opponent()) {
		mv := NewMove(row, from.Col, row, 2)
		mv.Flag = FlagCastle
		moves = append(moves, mv)
	}

	kingside := b.grid[row][7]
	if kingside != nil && kingside.piece.Kind == Rook && !kingside.hasMoved &&
		b.grid[row][5] == nil && b.grid[row][6] == nil &&
		!b.squareAttacked(Position{Row: row, Col: 5}, sq.piece.Color.Opponent()) {
		mv := NewMove(row, from.Col, row, 6)
		mv.Flag = FlagCastle
		moves = append(moves, mv)
	}
	return moves
}

// squareAttacked reports whether any piece of the attacking color attacks
// the square.
func (b *Board) squareAttacked(pos Position, attacker Color) bool {
	for _, d := range rookDirs {
		if b.slideAttacked(pos, d, attacker, Rook) {
			return true
		}
	}
	for _, d := range bishopDirs {
		if b.slideAttacked(pos, d, attacker, Bishop) {
			return true
		}
	}
	for _, d := range knightDirs {
		to := Position{Row: pos.Row + d.Row, Col: pos.Col + d.Col}
		if to.InBounds() {
			if sq := b.grid[to.Row][to.Col]; sq != nil && sq.piece.Color == attacker && sq.piece.Kind == Knight {
				return true
			}
		}
	}
	for _, d := range kingDirs {
		to := Position{Row: pos.Row + d.Row, Col: pos.Col + d.Col}
		if to.InBounds() {
			if sq := b.grid[to.Row][to.Col]; sq != nil && sq.piece.Color == attacker && sq.piece.Kind == King {
				return true
			}
		}
	}
	// Pawns attack diagonally toward their movement direction: a white pawn
	// one row below the square attacks it.
	pawnRow := pos.Row + 1
	if attacker == Black {
		pawnRow = pos.Row - 1
	}
	for _, dc := range []int{-1, 1} {
		to := Position{Row: pawnRow, Col: pos.Col + dc}
		if to.InBounds() {
			if sq := b.grid[to.Row][to.Col]; sq != nil && sq.piece.Color == attacker && sq.piece.Kind == Pawn {
				return true
			}
		}
	}
	return false
}

func (b *Board) slideAttacked(pos, dir Position, attacker Color, slider PieceKind) bool {
	to := Position{Row: pos.Row + dir.Row, Col: pos.Col + dir.Col}
	for to.InBounds() {
		if sq := b.grid[to.Row][to.Col]; sq != nil {
			return sq.piece.Color == attacker && (sq.piece.Kind == Queen || sq.piece.Kind == slider)
		}
		to = Position{Row: to.Row + dir.Row, Col: to.Col + dir.Col}
	}
	return false
}
