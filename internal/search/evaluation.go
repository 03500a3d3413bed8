package search

import (
	. "github.com/castlegate/chessai/internal/board"
	. "github.com/castlegate/chessai/internal/helpers"
)

var _developmentScale = 10

// Development tables are written white-oriented with rank 8 at the top,
// then mirrored for black. Scores are per-square lookups on the grid.

var rookDevelopment = [8][8]int{
	{0, 0, 0, 1, 1, 0, 0, 0},
	{0, 2, 2, 2, 2, 2, 2, 0},
	{1, 0, 0, 0, 0, 0, 0, 1},
	{-1, 0, 0, 0, 0, 0, 0, -1},
	{-1, 0, 0, 0, 0, 0, 0, -1},
	{-1, 0, 0, 0, 0, 0, 0, -1},
	{-1, 0, 0, 0, 0, 0, 0, -1},
	{0, 0, 0, 2, 2, 0, 0, 0},
}

var pawnDevelopment = [8][8]int{
	{4, 4, 4, 4, 4, 4, 4, 4},
	{3, 3, 3, 4, 4, 3, 3, 3},
	{3, 3, 3, 3, 3, 3, 3, 3},
	{2, 2, 2, 1, 1, 2, 2, 2},
	{1, 1, 1, 3, 3, 1, 1, 1},
	{0, 1, 1, 2, 2, 1, 1, 0},
	{0, 0, 0, 0, 0, 0, 0, 0},
	{0, 0, 0, 0, 0, 0, 0, 0},
}

var bishopDevelopment = [8][8]int{
	{-1, -1, -1, -1, -1, -1, -1, -1},
	{-1, 0, 0, 0, 0, 0, 0, -1},
	{-1, 0, 1, 1, 1, 1, 0, -1},
	{-1, 1, 1, 2, 2, 1, 1, -1},
	{-1, 0, 1, 2, 2, 1, 0, -1},
	{-1, 2, 2, 2, 2, 2, 2, -1},
	{-1, 1, 0, 0, 0, 0, 1, -1},
	{-1, -1, -1, -1, -1, -1, -1, -1},
}

var knightDevelopment = [8][8]int{
	{-2, -2, -2, -2, -2, -2, -2, -2},
	{-2, -1, 0, 0, 0, 0, -1, -2},
	{-2, 0, 1, 2, 2, 1, 0, -2},
	{-2, 1, 2, 2, 2, 2, 1, -2},
	{-2, 0, 2, 2, 2, 2, 0, -2},
	{-2, 1, 1, 2, 2, 1, 1, -2},
	{-2, -1, 0, 0, 0, 0, -1, -2},
	{-2, -2, -2, -2, -2, -2, -2, -2},
}

var queenDevelopment = [8][8]int{
	{-1, -1, -1, -1, -1, -1, -1, -1},
	{-1, 1, 1, 1, 1, 1, 1, -1},
	{-1, 0, 0, 0, 0, 0, 0, -1},
	{-1, 0, 0, 0, 0, 0, 0, -1},
	{0, 0, 0, 0, 0, 0, 0, 0},
	{-1, 0, 0, 0, 0, 0, 0, -1},
	{-1, 0, 0, 1, 1, 0, 0, -1},
	{-1, -1, -1, 0, 0, -1, -1, -1},
}

var enemyKingEndgame = [8][8]int{
	{4, 4, 3, 3, 3, 3, 4, 4},
	{4, 3, 2, 2, 2, 2, 3, 4},
	{3, 2, 0, 0, 0, 0, 2, 3},
	{3, 2, 0, 0, 0, 0, 2, 3},
	{3, 2, 0, 0, 0, 0, 2, 3},
	{3, 2, 0, 0, 0, 0, 2, 3},
	{4, 3, 2, 2, 2, 2, 3, 4},
	{4, 4, 3, 3, 3, 3, 4, 4},
}

// tableForPlayers turns a white-oriented 8x8 table into per-player
// by-board-index lookups.
func tableForPlayers(whiteOriented [8][8]int, scale int) [2][64]int {
	var result [2][64]int
	blackOriented := FlipRanks(whiteOriented)
	for rank := 0; rank < 8; rank++ {
		for file := 0; file < 8; file++ {
			result[White][rank*8+file] = whiteOriented[7-rank][file] * scale
			result[Black][rank*8+file] = blackOriented[7-rank][file] * scale
		}
	}
	return result
}

var developmentTables = func() [7][2][64]int {
	var result [7][2][64]int
	result[Rook] = tableForPlayers(rookDevelopment, _developmentScale)
	result[Knight] = tableForPlayers(knightDevelopment, _developmentScale)
	result[Bishop] = tableForPlayers(bishopDevelopment, _developmentScale)
	result[Queen] = tableForPlayers(queenDevelopment, _developmentScale/2)
	result[Pawn] = tableForPlayers(pawnDevelopment, _developmentScale*2)
	return result
}()

var enemyKingEndgameTables = tableForPlayers(enemyKingEndgame, _developmentScale*3)

var _pieceScores = [7]int{
	0,   // NoPiece
	100, // Pawn
	300, // Knight
	350, // Bishop
	500, // Rook
	900, // Queen
	0,   // King
}

func PieceScore(kind PieceKind) int {
	return _pieceScores[kind]
}

type EvaluationOption int

const (
	EndgamePushEnemyKing EvaluationOption = iota
)

func evaluateMaterialAndDevelopment(b *Board, player Player) (int, int) {
	material := 0
	development := 0
	for index := 0; index < 64; index++ {
		piece := b.Grid[index]
		if piece.IsEmpty() || piece.Owner != player {
			continue
		}
		material += _pieceScores[piece.Kind]
		development += developmentTables[piece.Kind][player][index]
	}
	return material, development
}

// Evaluate scores the position from the given player's perspective:
// material and development for the player minus the same for the enemy.
func Evaluate(b *Board, player Player, options ...EvaluationOption) int {
	enemy := player.Other()

	material, development := evaluateMaterialAndDevelopment(b, player)
	enemyMaterial, enemyDevelopment := evaluateMaterialAndDevelopment(b, enemy)

	result := material - enemyMaterial + development - enemyDevelopment

	for _, option := range options {
		if option == EndgamePushEnemyKing && enemyMaterial <= 500 {
			result += enemyKingEndgameTables[enemy][b.KingSquare[enemy]]
			if b.InCheck(enemy) {
				result += 10
			}
		}
	}

	return result
}
