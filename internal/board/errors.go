package board

import "errors"

// Sentinel tags for every recoverable failure the rules engine can report.
// Callers classify with helpers.Error.Is, e.g. err.Is(ErrIllegalMove).
var (
	ErrInvalidSquare    = errors.New("invalid square")
	ErrIllegalMove      = errors.New("illegal move")
	ErrIndexOutOfRange  = errors.New("move index out of range")
	ErrIllegalState     = errors.New("illegal state")
	ErrInvalidPieceKind = errors.New("invalid piece kind")
)
