package model

import "fmt"

// BoardSize is the side length of the board.
const BoardSize = 8

// Position is a square on the board. Row 0 is the top row (rank 8), column 0
// is the leftmost file (file a).
type Position struct {
	Row int `json:"row"`
	Col int `json:"col"`
}

// Notation returns the square in file-rank form, e.g. "e4".
func (p Position) Notation() string {
	return fmt.Sprintf("%c%d", 'a'+p.Col, BoardSize-p.Row)
}

// InBounds reports whether the square lies on the board.
func (p Position) InBounds() bool {
	return p.Row >= 0 && p.Row < BoardSize && p.Col >= 0 && p.Col < BoardSize
}

// cell is one occupied square. The has-moved bit lives here, not on Piece:
// piece identity is immutable, board state is not.
type cell struct {
	piece    Piece
	hasMoved bool
}

// Board holds the position: an 8x8 grid of optional pieces, king locations
// for fast check testing, and the current en passant target square.
type Board struct {
	grid      [BoardSize][BoardSize]*cell
	whiteKing Position
	blackKing Position

	// enPassant is the square a capturing pawn would land on, set for one ply
	// after a double pawn advance.
	enPassant *Position
}

// NewBoard returns a board in the standard starting position.
func NewBoard() *Board {
	b := &Board{}
	backRank := []PieceKind{Rook, Knight, Bishop, Queen, King, Bishop, Knight, Rook}
	for col, kind := range backRank {
		b.grid[0][col] = &cell{piece: Piece{Color: Black, Kind: kind}}
		b.grid[7][col] = &cell{piece: Piece{Color: White, Kind: kind}}
	}
	for col := 0; col < BoardSize; col++ {
		b.grid[1][col] = &cell{piece: Piece{Color: Black, Kind: Pawn}}
		b.grid[6][col] = &cell{piece: Piece{Color: White, Kind: Pawn}}
	}
	b.blackKing = Position{Row: 0, Col: 4}
	b.whiteKing = Position{Row: 7, Col: 4}
	return b
}

// NewEmptyBoard returns a board with no pieces. Used to build test and
// analysis positions; callers must place both kings before asking for legal
// moves.
func NewEmptyBoard() *Board {
	return &Board{}
}

// Place puts a piece on the board. King placements update the tracked king
// position.
func (b *Board) Place(p Piece, at Position) {
	b.grid[at.Row][at.Col] = &cell{piece: p}
	if p.Kind == King {
		switch p.Color {
		case White:
			b.whiteKing = at
		case Black:
			b.blackKing = at
		}
	}
}

// PieceAt returns a copy of the piece on the square, if any.
func (b *Board) PieceAt(pos Position) (Piece, bool) {
	c := b.grid[pos.Row][pos.Col]
	if c == nil {
		return Piece{}, false
	}
	return c.piece, true
}

// EnPassantTarget returns the current en passant capture square, or nil.
func (b *Board) EnPassantTarget() *Position {
	if b.enPassant == nil {
		return nil
	}
	t := *b.enPassant
	return &t
}

// KingPosition returns the tracked location of the given side's king.
func (b *Board) KingPosition(c Color) Position {
	if c == White {
		return b.whiteKing
	}
	return b.blackKing
}

// Snapshot returns the grid as piece copies for serialization. Cells without
// a piece are nil.
func (b *Board) Snapshot() [][]*Piece {
	out := make([][]*Piece, BoardSize)
	for row := 0; row < BoardSize; row++ {
		out[row] = make([]*Piece, BoardSize)
		for col := 0; col < BoardSize; col++ {
			if c := b.grid[row][col]; c != nil {
				piece := c.piece.Clone()
				out[row][col] = &piece
			}
		}
	}
	return out
}

// Clone returns a deep copy of the board. Search explores variations on a
// clone so the live game position is never touched.
func (b *Board) Clone() *Board {
	nb := &Board{
		whiteKing: b.whiteKing,
		blackKing: b.blackKing,
	}
	for row := 0; row < BoardSize; row++ {
		for col := 0; col < BoardSize; col++ {
			if c := b.grid[row][col]; c != nil {
				nb.grid[row][col] = &cell{piece: c.piece.Clone(), hasMoved: c.hasMoved}
			}
		}
	}
	if b.enPassant != nil {
		t := *b.enPassant
		nb.enPassant = &t
	}
	return nb
}

// Apply mutates the board according to the move and returns a closure that
// restores the previous position exactly. The captured piece, if any, is
// recorded into mv.Captured as a clone; it survives the undo so the move can
// be re-examined later.
//
// The switch over mv.Flag is exhaustive: a new special-move kind must be
// handled here.
func (b *Board) Apply(mv *Move) func() {
	from, to := mv.From(), mv.To()
	moving := b.grid[from.Row][from.Col]
	target := b.grid[to.Row][to.Col]

	prevHasMoved := moving.hasMoved
	prevWhiteKing, prevBlackKing := b.whiteKing, b.blackKing
	prevEnPassant := b.enPassant

	if target != nil {
		captured := target.piece.Clone()
		mv.Captured = &captured
	}

	var epVictimPos Position
	var epVictim *cell
	var rookFromPos, rookToPos Position
	var rookCell *cell
	var prevRookMoved bool

	switch mv.Flag {
	case FlagNormal:
		b.grid[to.Row][to.Col] = moving
		b.grid[from.Row][from.Col] = nil

	case FlagPromotion:
		kind := mv.Promotion
		if kind == "" {
			kind = Queen
		}
		b.grid[to.Row][to.Col] = &cell{
			piece:    Piece{Color: moving.piece.Color, Kind: kind},
			hasMoved: true,
		}
		b.grid[from.Row][from.Col] = nil

	case FlagEnPassant:
		// The victim sits beside the pawn, not on the destination square.
		epVictimPos = Position{Row: from.Row, Col: to.Col}
		epVictim = b.grid[epVictimPos.Row][epVictimPos.Col]
		if epVictim != nil {
			captured := epVictim.piece.Clone()
			mv.Captured = &captured
		}
		b.grid[epVictimPos.Row][epVictimPos.Col] = nil
		b.grid[to.Row][to.Col] = moving
		b.grid[from.Row][from.Col] = nil

	case FlagCastle:
		switch to.Col {
		case 2:
			rookFromPos = Position{Row: from.Row, Col: 0}
			rookToPos = Position{Row: from.Row, Col: 3}
		case 6:
			rookFromPos = Position{Row: from.Row, Col: 7}
			rookToPos = Position{Row: from.Row, Col: 5}
		}
		rookCell = b.grid[rookFromPos.Row][rookFromPos.Col]
		if rookCell != nil {
			prevRookMoved = rookCell.hasMoved
			b.grid[rookToPos.Row][rookToPos.Col] = rookCell
			b.grid[rookFromPos.Row][rookFromPos.Col] = nil
			rookCell.hasMoved = true
		}
		b.grid[to.Row][to.Col] = moving
		b.grid[from.Row][from.Col] = nil
	}

	moving.hasMoved = true

	if moving.piece.Kind == King {
		switch moving.piece.Color {
		case White:
			b.whiteKing = to
		case Black:
			b.blackKing = to
		}
	}

	// A double pawn advance opens an en passant window for one ply.
	b.enPassant = nil
	if moving.piece.Kind == Pawn {
		switch to.Row - from.Row {
		case 2:
			b.enPassant = &Position{Row: to.Row - 1, Col: to.Col}
		case -2:
			b.enPassant = &Position{Row: to.Row + 1, Col: to.Col}
		}
	}

	return func() {
		b.grid[from.Row][from.Col] = moving
		b.grid[to.Row][to.Col] = target
		moving.hasMoved = prevHasMoved
		if epVictim != nil {
			b.grid[epVictimPos.Row][epVictimPos.Col] = epVictim
		}
		if rookCell != nil {
			b.grid[rookFromPos.Row][rookFromPos.Col] = rookCell
			b.grid[rookToPos.Row][rookToPos.Col] = nil
			rookCell.hasMoved = prevRookMoved
		}
		b.whiteKing = prevWhiteKing
		b.blackKing = prevBlackKing
		b.enPassant = prevEnPassant
	}
}
