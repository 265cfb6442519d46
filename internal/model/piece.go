package model

import "fmt"

// Color identifies the side a piece belongs to.
type Color string

const (
	White Color = "white"
	Black Color = "black"
)

func (c Color) Opponent() Color {
	if c == White {
		return Black
	}
	return White
}

// PieceKind is the closed set of piece types on the board.
type PieceKind string

const (
	Pawn   PieceKind = "pawn"
	Knight PieceKind = "knight"
	Bishop PieceKind = "bishop"
	Rook   PieceKind = "rook"
	Queen  PieceKind = "queen"
	King   PieceKind = "king"
)

// Piece is the immutable identity of a game piece: its color and kind.
// Board location and has-moved state are tracked by the board, not here.
type Piece struct {
	Color Color     `json:"color"`
	Kind  PieceKind `json:"kind"`
}

// NewPiece builds a Piece from its string tokens. Both tokens are matched
// case-sensitively against the recognized enumerations; anything else is
// rejected.
func NewPiece(colorToken, kindToken string) (Piece, error) {
	var color Color
	switch Color(colorToken) {
	case White, Black:
		color = Color(colorToken)
	default:
		return Piece{}, fmt.Errorf("invalid piece color %q", colorToken)
	}

	var kind PieceKind
	switch PieceKind(kindToken) {
	case Pawn, Knight, Bishop, Rook, Queen, King:
		kind = PieceKind(kindToken)
	default:
		return Piece{}, fmt.Errorf("invalid piece kind %q", kindToken)
	}

	return Piece{Color: color, Kind: kind}, nil
}

// Clone returns a fully independent copy. Color and kind are immutable
// scalars, so this is a value copy, but callers embedding a piece inside a
// move snapshot must go through here rather than share a board cell.
func (p Piece) Clone() Piece {
	return Piece{Color: p.Color, Kind: p.Kind}
}

// Symbol returns the unicode figurine for the piece.
func (p Piece) Symbol() string {
	white := map[PieceKind]string{
		Pawn: "♙", Knight: "♘", Bishop: "♗", Rook: "♖", Queen: "♕", King: "♔",
	}
	black := map[PieceKind]string{
		Pawn: "♟", Knight: "♞", Bishop: "♝", Rook: "♜", Queen: "♛", King: "♚",
	}
	if p.Color == White {
		return white[p.Kind]
	}
	return black[p.Kind]
}

func (p Piece) String() string {
	return fmt.Sprintf("%s %s", p.Color, p.Kind)
}
