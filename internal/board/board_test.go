package board

import (
	"os"
	"testing"

	. "github.com/castlegate/chessai/internal/helpers"
	"github.com/davecgh/go-spew/spew"
	"github.com/pkg/profile"
	"github.com/stretchr/testify/assert"
)

func pp(v any) string {
	return spew.Sdump(v)
}

func mustLocation(t *testing.T, s string) FileRank {
	location, err := FileRankFromString(s)
	assert.True(t, IsNil(err), err)
	return location
}

func mustExecute(t *testing.T, b *Board, from string, to string) {
	err := b.ExecuteMove(mustLocation(t, from), mustLocation(t, to))
	assert.True(t, IsNil(err), err)
}

// stage builds a position from scratch: squares to pieces, side to move,
// king cache rebuilt, legal moves computed.
func stage(t *testing.T, pieces map[string]Piece, sideToMove Player) *Board {
	b := EmptyBoard()
	for square, piece := range pieces {
		b.SetPiece(mustLocation(t, square), piece)
	}
	b.SetSideToMove(sideToMove)
	err := b.ResetKingPositions()
	assert.True(t, IsNil(err), err)
	b.RecalculateLegalMoves()
	return b
}

func TestStartingPosition(t *testing.T) {
	b := NewBoard()
	assert.Equal(t, 20, b.LegalMoveCount())
	assert.Equal(t, White, b.SideToMove)
	assert.False(t, b.InCheck(White))
	assert.Equal(t, "rnbqkbnr/pppppppp/8/8/8/8/PPPPPPPP/RNBQKBNR", b.Fingerprint())

	rendered := b.Render()
	assert.Equal(t, byte('r'), rendered[0][0])
	assert.Equal(t, byte('K'), rendered[7][4])
	assert.Equal(t, byte(' '), rendered[4][4])
}

func TestLegalMoveCountIsIdempotent(t *testing.T) {
	b := NewBoard()
	assert.Equal(t, b.LegalMoveCount(), b.LegalMoveCount())
	b.RecalculateLegalMoves()
	assert.Equal(t, 20, b.LegalMoveCount())
}

func countPositionsAtDepth(t *testing.T, b *Board, depth int, progress *ProgressBar) int {
	if depth == 0 {
		return 1
	}
	total := 0
	for index := 0; index < b.LegalMoveCount(); index++ {
		child := b.Copy()
		err := child.ExecuteMoveAtIndex(index)
		assert.True(t, IsNil(err), err)
		total += countPositionsAtDepth(t, child, depth-1, nil)
		if progress != nil {
			progress.Add(1)
		}
	}
	return total
}

func TestPerft(t *testing.T) {
	if os.Getenv("PERFT_PROFILE") != "" {
		defer profile.Start(profile.ProfilePath("../../data/TestPerft")).Stop()
	}

	b := NewBoard()
	assert.Equal(t, 20, countPositionsAtDepth(t, b, 1, nil))
	assert.Equal(t, 400, countPositionsAtDepth(t, b, 2, nil))

	bar := CreateProgressBar(b.LegalMoveCount(), "perft depth 3")
	assert.Equal(t, 8902, countPositionsAtDepth(t, b, 3, &bar))
	bar.Close()
}

func TestCopyIsIndependent(t *testing.T) {
	original := NewBoard()
	duplicate := original.Copy()

	mustExecute(t, original, "e2", "e4")
	mustExecute(t, duplicate, "e2", "e4")
	assert.Equal(t, original.Fingerprint(), duplicate.Fingerprint())

	mustExecute(t, duplicate, "e7", "e5")
	assert.NotEqual(t, original.Fingerprint(), duplicate.Fingerprint())
	assert.Equal(t, Black, original.SideToMove)
	assert.Equal(t, 20, original.LegalMoveCount())
}

func TestIndexedExecutionMatchesSquares(t *testing.T) {
	b := NewBoard()
	for index := 0; index < b.LegalMoveCount(); index++ {
		from, destination, err := b.MoveAtIndex(index)
		assert.True(t, IsNil(err), err)

		byIndex := b.Copy()
		err = byIndex.ExecuteMoveAtIndex(index)
		assert.True(t, IsNil(err), err)

		bySquares := b.Copy()
		err = bySquares.ExecuteMove(from, FileRankFromIndex(destination.To))
		assert.True(t, IsNil(err), err)

		assert.Equal(t, bySquares.Fingerprint(), byIndex.Fingerprint())
	}
}

func TestIllegalMoveRejected(t *testing.T) {
	b := NewBoard()
	before := b.Fingerprint()

	err := b.ExecuteMove(mustLocation(t, "e2"), mustLocation(t, "e5"))
	assert.True(t, err.Is(ErrIllegalMove), err)
	assert.Equal(t, before, b.Fingerprint())

	err = b.ExecuteMove(mustLocation(t, "e7"), mustLocation(t, "e5"))
	assert.True(t, err.Is(ErrIllegalMove), "enemy pieces have no legal moves this ply")
}

func TestIndexOutOfRange(t *testing.T) {
	b := NewBoard()
	assert.True(t, b.ExecuteMoveAtIndex(-1).Is(ErrIndexOutOfRange))
	assert.True(t, b.ExecuteMoveAtIndex(20).Is(ErrIndexOutOfRange))
	_, _, err := b.MoveAtIndex(20)
	assert.True(t, err.Is(ErrIndexOutOfRange))
}

func TestPinnedPieceCannotMove(t *testing.T) {
	b := stage(t, map[string]Piece{
		"e1": PieceOf(King, White),
		"c1": PieceOf(Bishop, White),
		"a1": PieceOf(Rook, Black),
		"h8": PieceOf(King, Black),
	}, White)

	assert.Nil(t, b.LegalDestinations(mustLocation(t, "c1")), pp(b.LegalDestinations(mustLocation(t, "c1"))))
	assert.False(t, b.IsLegalMove(mustLocation(t, "c1"), mustLocation(t, "b2")))
}

func TestCastling(t *testing.T) {
	b := stage(t, map[string]Piece{
		"e1": PieceOf(King, White),
		"a1": PieceOf(Rook, White),
		"h1": PieceOf(Rook, White),
		"e8": PieceOf(King, Black),
	}, White)

	assert.True(t, b.IsLegalMove(mustLocation(t, "e1"), mustLocation(t, "g1")))
	assert.True(t, b.IsLegalMove(mustLocation(t, "e1"), mustLocation(t, "c1")))

	mustExecute(t, b, "e1", "g1")
	assert.Equal(t, "4k3/8/8/8/8/8/8/R4RK1", b.Fingerprint())
}

func TestCastlingThroughAttackedSquare(t *testing.T) {
	b := stage(t, map[string]Piece{
		"e1": PieceOf(King, White),
		"a1": PieceOf(Rook, White),
		"h1": PieceOf(Rook, White),
		"e8": PieceOf(King, Black),
		"f8": PieceOf(Rook, Black),
	}, White)

	// f1 is attacked so the kingside path is barred; the queenside path
	// (c1, d1) is clear.
	assert.False(t, b.IsLegalMove(mustLocation(t, "e1"), mustLocation(t, "g1")))
	assert.True(t, b.IsLegalMove(mustLocation(t, "e1"), mustLocation(t, "c1")))
}

func TestCastlingGoneAfterKingMoves(t *testing.T) {
	b := stage(t, map[string]Piece{
		"e1": PieceOf(King, White),
		"a1": PieceOf(Rook, White),
		"h1": PieceOf(Rook, White),
		"e8": PieceOf(King, Black),
	}, White)

	mustExecute(t, b, "e1", "e2")
	mustExecute(t, b, "e8", "d8")
	mustExecute(t, b, "e2", "e1")
	mustExecute(t, b, "d8", "e8")

	assert.False(t, b.IsLegalMove(mustLocation(t, "e1"), mustLocation(t, "g1")))
	assert.False(t, b.IsLegalMove(mustLocation(t, "e1"), mustLocation(t, "c1")))
}

func TestEnPassant(t *testing.T) {
	b := NewBoard()
	mustExecute(t, b, "e2", "e4")
	mustExecute(t, b, "a7", "a6")
	mustExecute(t, b, "e4", "e5")
	mustExecute(t, b, "d7", "d5")

	// The capture is available exactly one ply after the double step.
	assert.True(t, b.EnPassantTarget.HasValue())
	assert.True(t, b.IsLegalMove(mustLocation(t, "e5"), mustLocation(t, "d6")))

	capture := b.Copy()
	mustExecute(t, capture, "e5", "d6")
	assert.Equal(t, byte('P'), capture.Grid[BoardIndexFromString("d6")].Letter())
	assert.True(t, capture.Grid[BoardIndexFromString("d5")].IsEmpty(), "the victim disappears beside the destination")

	mustExecute(t, b, "b1", "c3")
	mustExecute(t, b, "a6", "a5")
	assert.False(t, b.EnPassantTarget.HasValue())
	assert.False(t, b.IsLegalMove(mustLocation(t, "e5"), mustLocation(t, "d6")))
}

func TestPromotionFlow(t *testing.T) {
	b := stage(t, map[string]Piece{
		"a7": PieceOf(Pawn, White),
		"h1": PieceOf(King, White),
		"h7": PieceOf(King, Black),
	}, White)

	destinations := b.LegalDestinations(mustLocation(t, "a7"))
	assert.Equal(t, 4, len(destinations), pp(destinations))
	for i, kind := range PromotionKinds {
		assert.Equal(t, kind, destinations[i].Promotion.Value())
		assert.Equal(t, BoardIndexFromString("a8"), destinations[i].To)
	}

	// Executing by squares pauses for the promotion choice; nothing moves
	// yet and no other move may be made.
	err := b.ExecuteMove(mustLocation(t, "a7"), mustLocation(t, "a8"))
	assert.True(t, IsNil(err), err)
	assert.True(t, b.PendingPromotion.HasValue())
	assert.Equal(t, byte('P'), b.Grid[BoardIndexFromString("a7")].Letter())

	err = b.ExecuteMove(mustLocation(t, "h1"), mustLocation(t, "h2"))
	assert.True(t, err.Is(ErrIllegalState), err)
	err = b.ExecuteMoveAtIndex(0)
	assert.True(t, err.Is(ErrIllegalState), err)

	err = b.Promote(mustLocation(t, "a7"), mustLocation(t, "a8"), King)
	assert.True(t, err.Is(ErrInvalidPieceKind), err)

	err = b.Promote(mustLocation(t, "a7"), mustLocation(t, "a8"), Queen)
	assert.True(t, IsNil(err), err)
	assert.Equal(t, byte('Q'), b.Grid[BoardIndexFromString("a8")].Letter())
	assert.Equal(t, Black, b.SideToMove)

	err = b.Promote(mustLocation(t, "a7"), mustLocation(t, "a8"), Queen)
	assert.True(t, err.Is(ErrIllegalState), err)
}

func TestPromotionIndexContract(t *testing.T) {
	b := stage(t, map[string]Piece{
		"a7": PieceOf(Pawn, White),
		"h1": PieceOf(King, White),
		"h7": PieceOf(King, Black),
	}, White)

	blockStart := -1
	for index := 0; index < b.LegalMoveCount(); index++ {
		from, destination, err := b.MoveAtIndex(index)
		assert.True(t, IsNil(err), err)
		if from.String() == "a7" && destination.Promotion.Value() == Queen {
			blockStart = index
			break
		}
	}
	assert.NotEqual(t, -1, blockStart)

	// The four promotion outcomes are addressed as a contiguous block:
	// remainder 0 queen, 1 rook, 2 bishop, 3 knight.
	for offset, kind := range PromotionKinds {
		_, destination, err := b.MoveAtIndex(blockStart + offset)
		assert.True(t, IsNil(err), err)
		assert.Equal(t, kind, destination.Promotion.Value())
	}

	promoted := b.Copy()
	err := promoted.ExecuteMoveAtIndex(blockStart + 1)
	assert.True(t, IsNil(err), err)
	assert.Equal(t, "R7/7k/8/8/8/8/8/7K", promoted.Fingerprint())
}

func TestFoolsMate(t *testing.T) {
	b := NewBoard()
	mustExecute(t, b, "f2", "f3")
	mustExecute(t, b, "e7", "e5")
	mustExecute(t, b, "g2", "g4")
	mustExecute(t, b, "d8", "h4")

	assert.Equal(t, 0, b.LegalMoveCount())
	assert.True(t, b.InCheck(White))
	assert.True(t, b.Checkmated(White))
	assert.False(t, b.Stalemated(White))
	assert.False(t, b.IsDraw(White))
}

func TestStalemate(t *testing.T) {
	b := stage(t, map[string]Piece{
		"a8": PieceOf(King, Black),
		"b6": PieceOf(Queen, White),
		"h1": PieceOf(King, White),
	}, Black)

	assert.Equal(t, 0, b.LegalMoveCount())
	assert.False(t, b.InCheck(Black))
	assert.True(t, b.Stalemated(Black))
	assert.False(t, b.Checkmated(Black))
	assert.True(t, b.IsDraw(Black))
}

func TestInsufficientMaterial(t *testing.T) {
	bareKings := stage(t, map[string]Piece{
		"e1": PieceOf(King, White),
		"e8": PieceOf(King, Black),
	}, White)
	assert.True(t, bareKings.InsufficientMaterial())

	// c1 is dark, c8 is light: opposite square-color bishops can still
	// force mate between them.
	oppositeBishops := stage(t, map[string]Piece{
		"e1": PieceOf(King, White),
		"c1": PieceOf(Bishop, White),
		"e8": PieceOf(King, Black),
		"c8": PieceOf(Bishop, Black),
	}, White)
	assert.False(t, oppositeBishops.InsufficientMaterial())

	// c1 and f8 share the dark square-color class.
	sameColorBishops := stage(t, map[string]Piece{
		"e1": PieceOf(King, White),
		"c1": PieceOf(Bishop, White),
		"e8": PieceOf(King, Black),
		"f8": PieceOf(Bishop, Black),
	}, White)
	assert.True(t, sameColorBishops.InsufficientMaterial())

	singleKnight := stage(t, map[string]Piece{
		"e1": PieceOf(King, White),
		"b1": PieceOf(Knight, White),
		"e8": PieceOf(King, Black),
	}, White)
	assert.True(t, singleKnight.InsufficientMaterial())

	queenLeft := stage(t, map[string]Piece{
		"e1": PieceOf(King, White),
		"d1": PieceOf(Queen, White),
		"e8": PieceOf(King, Black),
	}, White)
	assert.False(t, queenLeft.InsufficientMaterial())
}

func TestThreefoldRepetition(t *testing.T) {
	b := NewBoard()

	shuffle := [][2]string{
		{"g1", "f3"}, {"g8", "f6"}, {"f3", "g1"}, {"f6", "g8"},
	}
	for _, move := range shuffle {
		mustExecute(t, b, move[0], move[1])
	}
	assert.False(t, b.ThreefoldRepetition())

	for _, move := range shuffle[:3] {
		mustExecute(t, b, move[0], move[1])
	}
	assert.False(t, b.ThreefoldRepetition(), "two occurrences are not yet a repetition draw")

	mustExecute(t, b, "f6", "g8")
	assert.True(t, b.ThreefoldRepetition(), "the starting placement has now occurred three times")
}

func TestResetKingPositionsDetectsCorruption(t *testing.T) {
	b := EmptyBoard()
	b.SetPiece(mustLocation(t, "e1"), PieceOf(King, White))
	b.SetPiece(mustLocation(t, "e2"), PieceOf(King, White))
	b.SetPiece(mustLocation(t, "e8"), PieceOf(King, Black))
	assert.True(t, b.ResetKingPositions().Is(ErrIllegalState))

	b = EmptyBoard()
	b.SetPiece(mustLocation(t, "e1"), PieceOf(King, White))
	assert.True(t, b.ResetKingPositions().Is(ErrIllegalState))
}

func TestFindAll(t *testing.T) {
	b := NewBoard()
	knights := b.FindAll(Knight, White)
	assert.Equal(t, 2, len(knights))
	assert.Equal(t, "b1", knights[0].String())
	assert.Equal(t, "g1", knights[1].String())
}
