package engine

import "errors"

var (
	// ErrUnknownPiece indicates a piece or neighbor id that does not resolve to a live piece.
	ErrUnknownPiece = errors.New("engine: unknown piece id")
	// ErrInvalidDirection indicates a neighbor slot outside {Left, Right, Top, Bottom}.
	ErrInvalidDirection = errors.New("engine: invalid neighbor direction")
	// ErrInvalidGrid indicates non-positive grid dimensions.
	ErrInvalidGrid = errors.New("engine: grid must have at least one row and one column")
)
