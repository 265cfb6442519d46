package model

// MoveFlag marks a move whose application needs more than relocating a
// single piece. The set is closed; board application switches over it
// exhaustively.
type MoveFlag string

const (
	FlagNormal    MoveFlag = "normal"
	FlagPromotion MoveFlag = "promotion"
	FlagEnPassant MoveFlag = "enPassant"
	FlagCastle    MoveFlag = "castle"
)

// Move describes a single ply. The four coordinates are fixed at
// construction and never change; Score, Flag, Captured and Promotion are
// annotations written later by move generation and search. Move performs no
// validation of its own: coordinates are trusted to be in bounds and
// flag/capture combinations are the caller's responsibility.
type Move struct {
	startRow, startCol int
	endRow, endCol     int

	// Score is the evaluation a search assigned to the position reached by
	// this move. Zero until a search visits it.
	Score int

	// Flag tells board application which special-move path to take.
	Flag MoveFlag

	// Captured is a snapshot of the piece this move removes, or nil when the
	// move captures nothing. It must always be a clone, never a live board
	// cell, because the move can be unapplied and re-examined after the board
	// has changed again.
	Captured *Piece

	// Promotion is the kind a promoting pawn turns into. Only meaningful when
	// Flag is FlagPromotion; empty defaults to Queen on application.
	Promotion PieceKind
}

// NewMove builds a move with the given geometry and default annotations.
// Coordinates are not range-checked here; the board layer is responsible for
// only constructing in-bounds moves.
func NewMove(startRow, startCol, endRow, endCol int) *Move {
	return &Move{
		startRow: startRow,
		startCol: startCol,
		endRow:   endRow,
		endCol:   endCol,
		Flag:     FlagNormal,
	}
}

func (m *Move) StartRow() int { return m.startRow }
func (m *Move) StartCol() int { return m.startCol }
func (m *Move) EndRow() int   { return m.endRow }
func (m *Move) EndCol() int   { return m.endCol }

// From returns the origin square.
func (m *Move) From() Position {
	return Position{Row: m.startRow, Col: m.startCol}
}

// To returns the destination square.
func (m *Move) To() Position {
	return Position{Row: m.endRow, Col: m.endCol}
}

// SameSquares reports whether two moves describe the same ply. Only the four
// coordinates count; score, flag and captured piece are annotations, not
// identity.
func (m *Move) SameSquares(other *Move) bool {
	return m.startRow == other.startRow && m.startCol == other.startCol &&
		m.endRow == other.endRow && m.endCol == other.endCol
}

// AlgebraicNotation renders the move as "<file><rank>-<file><rank>",
// e.g. "e2-e4". Row 0 is rank 8. The format is consumed by move-history
// displays and must not change shape.
func (m *Move) AlgebraicNotation() string {
	return m.From().Notation() + "-" + m.To().Notation()
}

func (m *Move) String() string {
	return m.AlgebraicNotation()
}

// Clone returns an independent copy of the move. The captured-piece
// snapshot, when present, is deep-copied so that no two owners can observe
// each other's mutations. This is what makes a Move safe to hand to a search
// branch.
func (m *Move) Clone() *Move {
	c := &Move{
		startRow:  m.startRow,
		startCol:  m.startCol,
		endRow:    m.endRow,
		endCol:    m.endCol,
		Score:     m.Score,
		Flag:      m.Flag,
		Promotion: m.Promotion,
	}
	if m.Captured != nil {
		captured := m.Captured.Clone()
		c.Captured = &captured
	}
	return c
}
