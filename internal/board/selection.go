package board

import (
	. "github.com/castlegate/chessai/internal/helpers"
)

type SelectionState int

const (
	NoSelection SelectionState = iota
	PieceSelected
	AwaitingPromotion
)

func (s SelectionState) String() string {
	switch s {
	case NoSelection:
		return "NoSelection"
	case PieceSelected:
		return "PieceSelected"
	case AwaitingPromotion:
		return "AwaitingPromotion"
	}
	return "Invalid"
}

// Selector is a thin adapter layering the select → target → (move |
// promotion choice) interaction sequence over the board primitives. A UI
// feeds it squares; it never bypasses the legal-move table.
type Selector struct {
	Board    *Board
	selected Optional[int]
}

func NewSelector(b *Board) *Selector {
	return &Selector{Board: b}
}

func (s *Selector) State() SelectionState {
	if s.Board.PendingPromotion.HasValue() {
		return AwaitingPromotion
	}
	if s.selected.HasValue() {
		return PieceSelected
	}
	return NoSelection
}

func (s *Selector) Selected() Optional[FileRank] {
	if !s.selected.HasValue() {
		return Empty[FileRank]()
	}
	return Some(FileRankFromIndex(s.selected.Value()))
}

// HandleSquareSelection advances the state machine for one square
// selection. Selecting a piece of the side to move selects it; selecting
// a legal destination executes the move (or leaves the board awaiting a
// promotion choice); anything else clears or retargets the selection.
func (s *Selector) HandleSquareSelection(square FileRank) Error {
	if s.State() == AwaitingPromotion {
		return TagErrorf(ErrIllegalState, "a promotion choice is pending")
	}

	index := IndexFromFileRank(square)
	piece := s.Board.Grid[index]

	if !s.selected.HasValue() {
		if !piece.IsEmpty() && piece.Owner == s.Board.SideToMove {
			s.selected = Some(index)
		}
		return NilError
	}

	selected := s.selected.Value()
	if selected == index {
		s.selected = Empty[int]()
		return NilError
	}

	if s.Board.IsLegalMove(FileRankFromIndex(selected), square) {
		s.selected = Empty[int]()
		return s.Board.ExecuteMove(FileRankFromIndex(selected), square)
	}

	if !piece.IsEmpty() && piece.Owner == s.Board.SideToMove {
		s.selected = Some(index)
	} else {
		s.selected = Empty[int]()
	}
	return NilError
}

// ChoosePromotion resolves the pending promotion with the chosen kind.
func (s *Selector) ChoosePromotion(kind PieceKind) Error {
	if !s.Board.PendingPromotion.HasValue() {
		return TagErrorf(ErrIllegalState, "no promotion is pending")
	}
	pending := s.Board.PendingPromotion.Value()
	return s.Board.Promote(FileRankFromIndex(pending.From), FileRankFromIndex(pending.To), kind)
}
