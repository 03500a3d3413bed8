package board

import (
	. "github.com/castlegate/chessai/internal/helpers"
)

type File uint
type Rank uint

// FileRank is a board square. Index 0 is a1, 63 is h8; rank 0 is white's
// back rank.
type FileRank struct {
	File File
	Rank Rank
}

func (f File) String() string {
	return [8]string{
		"a", "b", "c", "d", "e", "f", "g", "h",
	}[f]
}

func (r Rank) String() string {
	return [8]string{
		"1", "2", "3", "4", "5", "6", "7", "8",
	}[r]
}

func (v FileRank) String() string {
	return v.File.String() + v.Rank.String()
}

func FileFromChar(c byte) (File, Error) {
	file := int(c - 'a')
	if file < 0 || file >= 8 {
		return 0, TagErrorf(ErrInvalidSquare, "file invalid %q", c)
	}
	return File(file), NilError
}

func RankFromChar(c byte) (Rank, Error) {
	rank := int(c - '1')
	if rank < 0 || rank >= 8 {
		return 0, TagErrorf(ErrInvalidSquare, "rank invalid %q", c)
	}
	return Rank(rank), NilError
}

func FileRankFromString(s string) (FileRank, Error) {
	if len(s) != 2 {
		return FileRank{}, TagErrorf(ErrInvalidSquare, "invalid square %q", s)
	}

	file, fileErr := FileFromChar(s[0])
	rank, rankErr := RankFromChar(s[1])

	if !IsNil(fileErr) || !IsNil(rankErr) {
		return FileRank{}, Join(fileErr, rankErr)
	}

	return FileRank{file, rank}, NilError
}

func IndexFromFileRank(location FileRank) int {
	return int(location.Rank)*8 + int(location.File)
}

func FileRankFromIndex(index int) FileRank {
	f := File(index & 0b111)
	r := Rank(index >> 3)
	return FileRank{f, r}
}

func StringFromBoardIndex(index int) string {
	return FileRankFromIndex(index).String()
}

// BoardIndexFromString is for trusted literals; it panics on malformed
// input. Use FileRankFromString for anything user-supplied.
func BoardIndexFromString(s string) int {
	location, err := FileRankFromString(s)
	if !IsNil(err) {
		panic(err)
	}
	return IndexFromFileRank(location)
}

func validShift(index int, fileShift int, rankShift int) Optional[int] {
	location := FileRankFromIndex(index)
	file := int(location.File) + fileShift
	rank := int(location.Rank) + rankShift
	if file < 0 || file >= 8 || rank < 0 || rank >= 8 {
		return Empty[int]()
	}
	return Some(rank*8 + file)
}

// IsLightSquare reports the square-color class, which decides whether two
// bishops are mating material.
func IsLightSquare(location FileRank) bool {
	return (int(location.File)+int(location.Rank))%2 == 1
}
