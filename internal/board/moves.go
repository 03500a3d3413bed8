package board

import (
	. "github.com/castlegate/chessai/internal/helpers"
)

var knightOffsets = [8][2]int{
	{1, 2}, {2, 1}, {2, -1}, {1, -2}, {-1, -2}, {-2, -1}, {-2, 1}, {-1, 2},
}

var kingOffsets = [8][2]int{
	{0, 1}, {1, 1}, {1, 0}, {1, -1}, {0, -1}, {-1, -1}, {-1, 0}, {-1, 1},
}

var bishopDirections = [4][2]int{
	{1, 1}, {1, -1}, {-1, -1}, {-1, 1},
}

var rookDirections = [4][2]int{
	{0, 1}, {1, 0}, {0, -1}, {-1, 0},
}

func pawnForward(owner Player) int {
	if owner == White {
		return 1
	}
	return -1
}

func pawnStartRank(owner Player) Rank {
	if owner == White {
		return 1
	}
	return 6
}

func promotionRank(owner Player) Rank {
	if owner == White {
		return 7
	}
	return 0
}

// pseudoDestinations appends every square the piece at from can reach by
// its own geometry, without checking whether the mover's king ends up in
// check. In attack mode pawns contribute their diagonal squares regardless
// of occupancy (the squares they threaten, not the squares they can move
// to) and kings contribute only their adjacent squares, never castling.
//
// Destination order is part of the move-index contract: pawns push one,
// push two, capture toward the a-file, capture toward the h-file; knights
// and kings follow their fixed offset tables; sliders walk each direction
// near to far; castling comes last, kingside before queenside.
func (b *Board) pseudoDestinations(from int, attack bool, out *[]int) {
	piece := b.Grid[from]

	switch piece.Kind {
	case Pawn:
		b.pawnDestinations(from, piece.Owner, attack, out)
	case Knight:
		for _, offset := range knightOffsets {
			if to := validShift(from, offset[0], offset[1]); to.HasValue() {
				b.appendIfNotOwn(to.Value(), piece.Owner, out)
			}
		}
	case Bishop:
		b.slideDestinations(from, piece.Owner, bishopDirections[:], out)
	case Rook:
		b.slideDestinations(from, piece.Owner, rookDirections[:], out)
	case Queen:
		b.slideDestinations(from, piece.Owner, bishopDirections[:], out)
		b.slideDestinations(from, piece.Owner, rookDirections[:], out)
	case King:
		for _, offset := range kingOffsets {
			if to := validShift(from, offset[0], offset[1]); to.HasValue() {
				b.appendIfNotOwn(to.Value(), piece.Owner, out)
			}
		}
		if !attack {
			b.castleDestinations(from, piece, out)
		}
	}
}

func (b *Board) appendIfNotOwn(to int, owner Player, out *[]int) {
	target := b.Grid[to]
	if !target.IsEmpty() && target.Owner == owner {
		return
	}
	*out = append(*out, to)
}

func (b *Board) slideDestinations(from int, owner Player, directions [][2]int, out *[]int) {
	for _, direction := range directions {
		for step := 1; ; step++ {
			to := validShift(from, direction[0]*step, direction[1]*step)
			if !to.HasValue() {
				break
			}
			target := b.Grid[to.Value()]
			if target.IsEmpty() {
				*out = append(*out, to.Value())
				continue
			}
			if target.Owner != owner {
				*out = append(*out, to.Value())
			}
			break
		}
	}
}

func (b *Board) pawnDestinations(from int, owner Player, attack bool, out *[]int) {
	forward := pawnForward(owner)

	if !attack {
		if push := validShift(from, 0, forward); push.HasValue() && b.Grid[push.Value()].IsEmpty() {
			*out = append(*out, push.Value())

			if FileRankFromIndex(from).Rank == pawnStartRank(owner) {
				if skip := validShift(from, 0, forward*2); skip.HasValue() && b.Grid[skip.Value()].IsEmpty() {
					*out = append(*out, skip.Value())
				}
			}
		}
	}

	for _, fileShift := range [2]int{-1, 1} {
		to := validShift(from, fileShift, forward)
		if !to.HasValue() {
			continue
		}
		if attack {
			*out = append(*out, to.Value())
			continue
		}
		target := b.Grid[to.Value()]
		if !target.IsEmpty() && target.Owner != owner {
			*out = append(*out, to.Value())
		} else if target.IsEmpty() && b.EnPassantTarget.HasValue() && b.EnPassantTarget.Value() == to.Value() {
			*out = append(*out, to.Value())
		}
	}
}

// castleDestinations adds the two-square king moves. The king and rook
// must be unmoved, every square between them empty, and the king may not
// castle out of, through, or into an attacked square.
func (b *Board) castleDestinations(from int, king Piece, out *[]int) {
	if king.Moved {
		return
	}
	location := FileRankFromIndex(from)
	if location.File != 4 {
		return
	}
	enemy := king.Owner.Other()
	if b.isAttacked(from, enemy) {
		return
	}

	rankBase := int(location.Rank) * 8

	// Kingside: f and g empty and safe, unmoved rook on h.
	rook := b.Grid[rankBase+7]
	if rook.Kind == Rook && rook.Owner == king.Owner && !rook.Moved &&
		b.Grid[from+1].IsEmpty() && b.Grid[from+2].IsEmpty() &&
		!b.isAttacked(from+1, enemy) && !b.isAttacked(from+2, enemy) {
		*out = append(*out, from+2)
	}

	// Queenside: b, c and d empty, c and d safe, unmoved rook on a.
	rook = b.Grid[rankBase]
	if rook.Kind == Rook && rook.Owner == king.Owner && !rook.Moved &&
		b.Grid[from-1].IsEmpty() && b.Grid[from-2].IsEmpty() && b.Grid[from-3].IsEmpty() &&
		!b.isAttacked(from-1, enemy) && !b.isAttacked(from-2, enemy) {
		*out = append(*out, from-2)
	}
}

// isAttacked reports whether any piece owned by the given player has the
// square in its attack set.
func (b *Board) isAttacked(square int, by Player) bool {
	buffer := GetSquaresBuffer()
	defer ReleaseSquaresBuffer(buffer)

	for from := 0; from < 64; from++ {
		piece := b.Grid[from]
		if piece.IsEmpty() || piece.Owner != by {
			continue
		}
		*buffer = (*buffer)[:0]
		b.pseudoDestinations(from, true, buffer)
		for _, to := range *buffer {
			if to == square {
				return true
			}
		}
	}
	return false
}

// applyRelocation performs the physical part of a move: the piece changes
// cells, a castling rook hops, an en-passant victim disappears, and the
// king cache follows a king. Everything else (clocks, side to move, legal
// moves) is the caller's job.
func (b *Board) applyRelocation(from int, to int) {
	piece := b.Grid[from]
	if piece.IsEmpty() {
		panic("relocating an empty square: " + StringFromBoardIndex(from))
	}

	fromLocation := FileRankFromIndex(from)
	toLocation := FileRankFromIndex(to)

	if piece.Kind == King && AbsDiff(int(fromLocation.File), int(toLocation.File)) == 2 {
		rankBase := int(fromLocation.Rank) * 8
		if to > from {
			b.relocateRook(rankBase+7, from+1)
		} else {
			b.relocateRook(rankBase, from-1)
		}
	}

	if piece.Kind == Pawn &&
		b.EnPassantTarget.HasValue() && b.EnPassantTarget.Value() == to &&
		fromLocation.File != toLocation.File && b.Grid[to].IsEmpty() {
		victim := IndexFromFileRank(FileRank{toLocation.File, fromLocation.Rank})
		b.Grid[victim] = Piece{}
	}

	piece.Moved = true
	b.Grid[to] = piece
	b.Grid[from] = Piece{}

	if piece.Kind == King {
		b.KingSquare[piece.Owner] = to
	}
}

func (b *Board) relocateRook(from int, to int) {
	rook := b.Grid[from]
	rook.Moved = true
	b.Grid[to] = rook
	b.Grid[from] = Piece{}
}

// moveLeavesKingInCheck simulates the move on the live grid and restores
// it. This is the pin/self-check filter between pseudo-legal and fully
// legal moves.
func (b *Board) moveLeavesKingInCheck(from int, to int) bool {
	savedGrid := b.Grid
	savedKings := b.KingSquare

	owner := b.Grid[from].Owner
	b.applyRelocation(from, to)
	inCheck := b.isAttacked(b.KingSquare[owner], owner.Other())

	b.Grid = savedGrid
	b.KingSquare = savedKings
	return inCheck
}

// IsLegalMove reports whether from→to is in the fully legal set of the
// side to move.
func (b *Board) IsLegalMove(from FileRank, to FileRank) bool {
	fromIndex := IndexFromFileRank(from)
	toIndex := IndexFromFileRank(to)
	for _, set := range b.moveSets {
		if set.From != fromIndex {
			continue
		}
		for _, destination := range set.Destinations {
			if destination.To == toIndex {
				return true
			}
		}
	}
	return false
}
