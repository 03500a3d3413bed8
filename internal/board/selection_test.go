package board

import (
	"testing"

	. "github.com/castlegate/chessai/internal/helpers"
	"github.com/stretchr/testify/assert"
)

func mustSelect(t *testing.T, s *Selector, square string) {
	err := s.HandleSquareSelection(mustLocation(t, square))
	assert.True(t, IsNil(err), err)
}

func TestSelectionStateMachine(t *testing.T) {
	s := NewSelector(NewBoard())
	assert.Equal(t, NoSelection, s.State())

	// Empty squares and enemy pieces select nothing.
	mustSelect(t, s, "e4")
	assert.Equal(t, NoSelection, s.State())
	mustSelect(t, s, "e7")
	assert.Equal(t, NoSelection, s.State())

	mustSelect(t, s, "e2")
	assert.Equal(t, PieceSelected, s.State())
	assert.Equal(t, "e2", s.Selected().Value().String())

	// Selecting the same square again deselects.
	mustSelect(t, s, "e2")
	assert.Equal(t, NoSelection, s.State())

	// Retargeting to another own piece moves the selection.
	mustSelect(t, s, "e2")
	mustSelect(t, s, "d2")
	assert.Equal(t, PieceSelected, s.State())
	assert.Equal(t, "d2", s.Selected().Value().String())

	// An unreachable square clears the selection.
	mustSelect(t, s, "d7")
	assert.Equal(t, NoSelection, s.State())
}

func TestSelectionExecutesMove(t *testing.T) {
	b := NewBoard()
	s := NewSelector(b)

	mustSelect(t, s, "e2")
	mustSelect(t, s, "e4")

	assert.Equal(t, NoSelection, s.State())
	assert.Equal(t, Black, b.SideToMove)
	assert.Equal(t, byte('P'), b.Grid[BoardIndexFromString("e4")].Letter())
	assert.True(t, b.Grid[BoardIndexFromString("e2")].IsEmpty())
}

func TestSelectionPromotion(t *testing.T) {
	b := stage(t, map[string]Piece{
		"a7": PieceOf(Pawn, White),
		"h1": PieceOf(King, White),
		"h7": PieceOf(King, Black),
	}, White)
	s := NewSelector(b)

	mustSelect(t, s, "a7")
	mustSelect(t, s, "a8")
	assert.Equal(t, AwaitingPromotion, s.State())

	err := s.HandleSquareSelection(mustLocation(t, "h1"))
	assert.True(t, err.Is(ErrIllegalState), err)

	err = s.ChoosePromotion(Knight)
	assert.True(t, IsNil(err), err)
	assert.Equal(t, NoSelection, s.State())
	assert.Equal(t, byte('N'), b.Grid[BoardIndexFromString("a8")].Letter())
	assert.Equal(t, Black, b.SideToMove)
}

func TestChoosePromotionWithoutPending(t *testing.T) {
	s := NewSelector(NewBoard())
	err := s.ChoosePromotion(Queen)
	assert.True(t, err.Is(ErrIllegalState), err)
}
