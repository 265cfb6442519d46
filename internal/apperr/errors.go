// Package apperr holds the sentinel errors shared across layers, so
// controllers can map failures to HTTP statuses without string matching.
package apperr

import "errors"

var (
	ErrGameNotFound    = errors.New("game not found")
	ErrGameExists      = errors.New("game already exists")
	ErrGameFull        = errors.New("game is full")
	ErrGameOver        = errors.New("game is over")
	ErrNotYourTurn     = errors.New("not your turn")
	ErrNoPieceAtSquare = errors.New("no piece at from square")
	ErrIllegalMove     = errors.New("illegal move")
	ErrAlreadyQueued   = errors.New("player already in queue")
	ErrNotAuthorized   = errors.New("not authorized to join this game")
)
