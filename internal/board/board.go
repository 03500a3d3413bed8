package board

import (
	"strconv"
	"strings"

	. "github.com/castlegate/chessai/internal/helpers"
)

type Grid [64]Piece

// Destination is one enumerable move target. A pawn reaching the final
// rank contributes four consecutive Destinations for the same square, one
// per promotion kind in PromotionKinds order; that quadruple view is the
// index-addressing contract the search driver depends on.
type Destination struct {
	To        int
	Promotion Optional[PieceKind]
}

// MoveSet is the ordered legal destinations from one origin square.
type MoveSet struct {
	From         int
	Destinations []Destination
}

// PendingPromotion records a pawn move that has been validated but is
// waiting for the promotion piece choice. While it is set, no other
// mutation is allowed.
type PendingPromotion struct {
	From int
	To   int
}

// Board is the full game state: the piece grid plus every cache the rules
// need (king squares, en-passant target, the legal-move table, position
// counts for repetition, and the move ledger).
//
// A Board is not safe for concurrent use. Speculative search isolates
// itself with Copy, never by sharing.
type Board struct {
	Grid             Grid
	SideToMove       Player
	KingSquare       [2]int
	EnPassantTarget  Optional[int]
	PendingPromotion Optional[PendingPromotion]

	moveSets       []MoveSet
	numLegalMoves  int
	positionCounts map[string]int
	ledger         *Ledger
	inCheck        bool
}

var _backRankKinds = [8]PieceKind{Rook, Knight, Bishop, Queen, King, Bishop, Knight, Rook}

// NewBoard returns the standard starting position, white to move, with
// legal moves computed and the starting placement counted once for
// repetition detection.
func NewBoard() *Board {
	b := EmptyBoard()

	for file := 0; file < 8; file++ {
		b.Grid[8+file] = PieceOf(Pawn, White)
		b.Grid[48+file] = PieceOf(Pawn, Black)
		b.Grid[file] = PieceOf(_backRankKinds[file], White)
		b.Grid[56+file] = PieceOf(_backRankKinds[file], Black)
	}
	b.KingSquare[White] = BoardIndexFromString("e1")
	b.KingSquare[Black] = BoardIndexFromString("e8")

	b.RecalculateLegalMoves()
	b.positionCounts[b.Fingerprint()] = 1
	return b
}

// EmptyBoard returns a board with no pieces and no legal moves, for
// staging positions with SetPiece / ResetKingPositions /
// RecalculateLegalMoves.
func EmptyBoard() *Board {
	return &Board{
		SideToMove:     White,
		positionCounts: map[string]int{},
		ledger:         NewLedger(),
	}
}

// Copy returns a fully independent deep copy: no grid, cache, table or
// ledger state is shared with the source.
func (b *Board) Copy() *Board {
	result := &Board{
		Grid:             b.Grid,
		SideToMove:       b.SideToMove,
		KingSquare:       b.KingSquare,
		EnPassantTarget:  b.EnPassantTarget,
		PendingPromotion: b.PendingPromotion,
		numLegalMoves:    b.numLegalMoves,
		inCheck:          b.inCheck,
		positionCounts:   make(map[string]int, len(b.positionCounts)),
		ledger:           b.ledger.Clone(),
	}
	result.moveSets = make([]MoveSet, len(b.moveSets))
	for i, set := range b.moveSets {
		destinations := make([]Destination, len(set.Destinations))
		copy(destinations, set.Destinations)
		result.moveSets[i] = MoveSet{From: set.From, Destinations: destinations}
	}
	for fingerprint, count := range b.positionCounts {
		result.positionCounts[fingerprint] = count
	}
	return result
}

// RecalculateLegalMoves rebuilds the legal-move table for the side to
// move: pseudo-legal destinations per piece, filtered by simulating each
// move and rejecting any that leave the mover's own king in check. Origin
// squares are visited in ascending board order, which fixes the
// move-index addressing.
func (b *Board) RecalculateLegalMoves() {
	b.moveSets = b.moveSets[:0]
	b.numLegalMoves = 0

	buffer := GetSquaresBuffer()
	defer ReleaseSquaresBuffer(buffer)

	for from := 0; from < 64; from++ {
		piece := b.Grid[from]
		if piece.IsEmpty() || piece.Owner != b.SideToMove {
			continue
		}

		*buffer = (*buffer)[:0]
		b.pseudoDestinations(from, false, buffer)

		var destinations []Destination
		for _, to := range *buffer {
			if b.moveLeavesKingInCheck(from, to) {
				continue
			}
			if piece.Kind == Pawn && FileRankFromIndex(to).Rank == promotionRank(piece.Owner) {
				for _, kind := range PromotionKinds {
					destinations = append(destinations, Destination{To: to, Promotion: Some(kind)})
				}
			} else {
				destinations = append(destinations, Destination{To: to})
			}
		}

		if len(destinations) > 0 {
			b.moveSets = append(b.moveSets, MoveSet{From: from, Destinations: destinations})
			b.numLegalMoves += len(destinations)
		}
	}
}

// LegalMoveCount includes the quadruple promotion entries; it is exactly
// the index space ExecuteMoveAtIndex accepts.
func (b *Board) LegalMoveCount() int {
	return b.numLegalMoves
}

// LegalDestinations returns the enumerable destinations from one square,
// in index order.
func (b *Board) LegalDestinations(from FileRank) []Destination {
	fromIndex := IndexFromFileRank(from)
	for _, set := range b.moveSets {
		if set.From == fromIndex {
			result := make([]Destination, len(set.Destinations))
			copy(result, set.Destinations)
			return result
		}
	}
	return nil
}

// MoveAtIndex resolves a move index to its origin and destination without
// executing it.
func (b *Board) MoveAtIndex(index int) (FileRank, Destination, Error) {
	if index < 0 || index >= b.numLegalMoves {
		return FileRank{}, Destination{}, TagErrorf(ErrIndexOutOfRange,
			"move index %d outside [0, %d)", index, b.numLegalMoves)
	}
	remaining := index
	for _, set := range b.moveSets {
		if remaining >= len(set.Destinations) {
			remaining -= len(set.Destinations)
			continue
		}
		return FileRankFromIndex(set.From), set.Destinations[remaining], NilError
	}
	panic("legal move table out of sync with its count")
}

// ExecuteMove commits a move named by squares. A move that needs a
// promotion choice does not mutate the position; it records the pending
// promotion and waits for Promote.
func (b *Board) ExecuteMove(from FileRank, to FileRank) Error {
	if b.PendingPromotion.HasValue() {
		return TagErrorf(ErrIllegalState, "promotion from %v is pending", FileRankFromIndex(b.PendingPromotion.Value().From))
	}

	fromIndex := IndexFromFileRank(from)
	toIndex := IndexFromFileRank(to)

	var found *Destination
	for _, set := range b.moveSets {
		if set.From != fromIndex {
			continue
		}
		for i := range set.Destinations {
			if set.Destinations[i].To == toIndex {
				found = &set.Destinations[i]
				break
			}
		}
		break
	}
	if found == nil {
		return TagErrorf(ErrIllegalMove, "%v%v is not a legal move", from, to)
	}

	if found.Promotion.HasValue() {
		b.PendingPromotion = Some(PendingPromotion{From: fromIndex, To: toIndex})
		return NilError
	}

	b.commitMove(fromIndex, toIndex)
	return NilError
}

// ExecuteMoveAtIndex commits a move by its position in the legal-move
// enumeration. Promoting destinations occupy blocks of four indices
// mapped to PromotionKinds in order.
func (b *Board) ExecuteMoveAtIndex(index int) Error {
	if b.PendingPromotion.HasValue() {
		return TagErrorf(ErrIllegalState, "promotion from %v is pending", FileRankFromIndex(b.PendingPromotion.Value().From))
	}

	from, destination, err := b.MoveAtIndex(index)
	if !IsNil(err) {
		return err
	}

	if destination.Promotion.HasValue() {
		b.PendingPromotion = Some(PendingPromotion{
			From: IndexFromFileRank(from),
			To:   destination.To,
		})
		return b.Promote(from, FileRankFromIndex(destination.To), destination.Promotion.Value())
	}

	b.commitMove(IndexFromFileRank(from), destination.To)
	return NilError
}

// commitMove performs an already-validated non-promotion move: relocate,
// refresh the en-passant target, flip the side to move, recompute legal
// moves, count the new placement, append to the ledger, and refresh the
// check flag.
func (b *Board) commitMove(from int, to int) {
	before := b.Grid
	piece := b.Grid[from]

	b.applyRelocation(from, to)

	b.EnPassantTarget = Empty[int]()
	if piece.Kind == Pawn && AbsDiff(from, to) == 16 {
		b.EnPassantTarget = Some((from + to) / 2)
	}

	b.SideToMove = b.SideToMove.Other()
	b.RecalculateLegalMoves()
	b.positionCounts[b.Fingerprint()]++
	b.ledger.Record(before, b.Grid, from, to)
	b.inCheck = b.isAttacked(b.KingSquare[b.SideToMove], b.SideToMove.Other())
}

// Promote resolves a pending promotion: the pawn leaves its square and
// the chosen piece appears on the destination (capturing whatever stood
// there).
func (b *Board) Promote(from FileRank, to FileRank, kind PieceKind) Error {
	if !b.PendingPromotion.HasValue() {
		return TagErrorf(ErrIllegalState, "no promotion is pending")
	}
	pending := b.PendingPromotion.Value()
	fromIndex := IndexFromFileRank(from)
	toIndex := IndexFromFileRank(to)
	if pending.From != fromIndex || pending.To != toIndex {
		return TagErrorf(ErrIllegalState, "pending promotion is %v%v, not %v%v",
			FileRankFromIndex(pending.From), FileRankFromIndex(pending.To), from, to)
	}
	if !Contains(PromotionKinds[:], kind) {
		return TagErrorf(ErrInvalidPieceKind, "cannot promote to %v", kind)
	}

	pawn := b.Grid[fromIndex]
	if pawn.Kind != Pawn {
		return TagErrorf(ErrIllegalState, "promoting square %v holds %v, not a pawn", from, pawn)
	}

	before := b.Grid
	b.Grid[fromIndex] = Piece{}
	b.Grid[toIndex] = Piece{Kind: kind, Owner: pawn.Owner, Moved: true}
	b.PendingPromotion = Empty[PendingPromotion]()
	b.EnPassantTarget = Empty[int]()

	b.SideToMove = b.SideToMove.Other()
	b.RecalculateLegalMoves()
	b.positionCounts[b.Fingerprint()]++
	b.ledger.Record(before, b.Grid, fromIndex, toIndex)
	b.inCheck = b.isAttacked(b.KingSquare[b.SideToMove], b.SideToMove.Other())
	return NilError
}

// InCheck reports whether the player's king square is in the opponent's
// attack set.
func (b *Board) InCheck(player Player) bool {
	return b.isAttacked(b.KingSquare[player], player.Other())
}

// Checkmated: in check with no legal moves. Meaningful for the side to
// move, whose legal moves the table holds.
func (b *Board) Checkmated(player Player) bool {
	return b.numLegalMoves == 0 && b.InCheck(player)
}

// Stalemated: not in check with no legal moves.
func (b *Board) Stalemated(player Player) bool {
	return b.numLegalMoves == 0 && !b.InCheck(player)
}

// InsufficientMaterial reports material configurations from which neither
// side can force mate: any pawn, rook or queen on the board rules it out;
// otherwise it depends on knight counts and bishop square-color classes.
func (b *Board) InsufficientMaterial() bool {
	var lightBishops, darkBishops, knights [2]int

	for index := 0; index < 64; index++ {
		piece := b.Grid[index]
		switch piece.Kind {
		case NoPiece, King:
			continue
		case Pawn, Rook, Queen:
			return false
		case Knight:
			knights[piece.Owner]++
			if knights[piece.Owner] >= 2 {
				return false
			}
		case Bishop:
			if IsLightSquare(FileRankFromIndex(index)) {
				lightBishops[piece.Owner]++
			} else {
				darkBishops[piece.Owner]++
			}
		}
	}

	whiteBare := lightBishops[White] == 0 && darkBishops[White] == 0 && knights[White] == 0
	blackBare := lightBishops[Black] == 0 && darkBishops[Black] == 0 && knights[Black] == 0
	noKnights := knights[White] == 0 && knights[Black] == 0

	return (whiteBare && blackBare) ||
		(noKnights &&
			((darkBishops[White] == 0 && darkBishops[Black] == 0) ||
				(lightBishops[White] == 0 && lightBishops[Black] == 0))) ||
		(blackBare && knights[White] == 0 && (lightBishops[White] == 0 || darkBishops[White] == 0)) ||
		(blackBare && lightBishops[White] == 0 && darkBishops[White] == 0 && knights[White] == 1) ||
		(whiteBare && knights[Black] == 0 && (lightBishops[Black] == 0 || darkBishops[Black] == 0)) ||
		(whiteBare && lightBishops[Black] == 0 && darkBishops[Black] == 0 && knights[Black] == 1)
}

// IsDraw: insufficient material, stalemate, or the fifty-move rule.
func (b *Board) IsDraw(player Player) bool {
	return b.InsufficientMaterial() || b.Stalemated(player) || b.ledger.FiftyMoveDraw()
}

// ThreefoldRepetition reports whether any placement has now occurred
// three or more times.
func (b *Board) ThreefoldRepetition() bool {
	for _, count := range b.positionCounts {
		if count >= 3 {
			return true
		}
	}
	return false
}

// Ledger exposes the move history.
func (b *Board) Ledger() *Ledger {
	return b.ledger
}

// Fingerprint serializes the piece placement only: rank 8 down to rank 1,
// files a to h, digit run-lengths for empty cells, '/' between ranks,
// uppercase white. It is the repetition key, not a standard notation.
func (b *Board) Fingerprint() string {
	var builder strings.Builder
	for rank := 7; rank >= 0; rank-- {
		if rank < 7 {
			builder.WriteByte('/')
		}
		run := 0
		for file := 0; file < 8; file++ {
			piece := b.Grid[rank*8+file]
			if piece.IsEmpty() {
				run++
				continue
			}
			if run > 0 {
				builder.WriteString(strconv.Itoa(run))
				run = 0
			}
			builder.WriteByte(piece.Letter())
		}
		if run > 0 {
			builder.WriteString(strconv.Itoa(run))
		}
	}
	return builder.String()
}

// Render returns the display characters rank 8 first, the diagnostic
// orientation a human reads.
func (b *Board) Render() [8][8]byte {
	var result [8][8]byte
	for rank := 0; rank < 8; rank++ {
		for file := 0; file < 8; file++ {
			result[7-rank][file] = b.Grid[rank*8+file].Letter()
		}
	}
	return result
}

func (b *Board) String() string {
	rendered := b.Render()
	lines := make([]string, 8)
	for i, row := range rendered {
		lines[i] = string(row[:])
	}
	return strings.Join(lines, "\n")
}

const _hintForeground = "\033[38;5;244m"
const _whiteForeground = "\033[38;5;255m"
const _blackForeground = "\033[38;5;232m"
const _whiteBackground = "\033[48;5;244m"
const _blackBackground = "\033[48;5;243m"
const _resetColors = "\x1b[0m"

// Unicode renders an ANSI-colored board for terminal play.
func (b *Board) Unicode() string {
	result := "  "
	for file := 0; file < 8; file++ {
		result += _hintForeground + " " + File(file).String() + " " + _resetColors
	}
	result += "\n"

	for rank := 7; rank >= 0; rank-- {
		result += _hintForeground + Rank(rank).String() + " " + _resetColors
		for file := 0; file < 8; file++ {
			piece := b.Grid[rank*8+file]

			if (file+rank)%2 == 1 {
				result += _whiteBackground
			} else {
				result += _blackBackground
			}
			if piece.Owner == White {
				result += _whiteForeground
			} else {
				result += _blackForeground
			}

			result += " " + piece.Unicode() + " " + _resetColors
		}
		result += "\n"
	}

	return result
}

// SetPiece stages a piece for a constructed position. The caller is
// responsible for calling ResetKingPositions and RecalculateLegalMoves
// once the position is complete.
func (b *Board) SetPiece(at FileRank, piece Piece) {
	b.Grid[IndexFromFileRank(at)] = piece
}

func (b *Board) ClearSquare(at FileRank) {
	b.Grid[IndexFromFileRank(at)] = Piece{}
}

func (b *Board) SetSideToMove(player Player) {
	b.SideToMove = player
}

// ResetKingPositions re-derives the king cache by a full scan. A missing
// or duplicated king is a corrupted-invariant condition and comes back as
// an ErrIllegalState.
func (b *Board) ResetKingPositions() Error {
	var found [2]Optional[int]
	for index := 0; index < 64; index++ {
		piece := b.Grid[index]
		if piece.Kind != King {
			continue
		}
		if found[piece.Owner].HasValue() {
			return TagErrorf(ErrIllegalState, "two %v kings", piece.Owner)
		}
		found[piece.Owner] = Some(index)
	}
	for _, player := range [2]Player{White, Black} {
		if !found[player].HasValue() {
			return TagErrorf(ErrIllegalState, "cannot find the %v king", player)
		}
		b.KingSquare[player] = found[player].Value()
	}
	return NilError
}

// FindAll lists the squares holding a given kind and owner.
func (b *Board) FindAll(kind PieceKind, player Player) []FileRank {
	var result []FileRank
	for index := 0; index < 64; index++ {
		piece := b.Grid[index]
		if piece.Kind == kind && piece.Owner == player {
			result = append(result, FileRankFromIndex(index))
		}
	}
	return result
}
