package board

type Player uint

const (
	White Player = iota
	Black
)

var _playerStrings = [2]string{
	"white", "black",
}

func (p Player) String() string {
	return _playerStrings[p]
}

func (p Player) Other() Player {
	return 1 - p
}

type PieceKind uint

const (
	NoPiece PieceKind = iota
	Pawn
	Knight
	Bishop
	Rook
	Queen
	King
)

func (k PieceKind) String() string {
	return [7]string{
		"?", "p", "n", "b", "r", "q", "k",
	}[k]
}

func (k PieceKind) IsValid() bool {
	return k >= Pawn && k <= King
}

// Piece occupies a grid cell. The zero value is an empty cell. Moved gates
// castling for kings and rooks and is meaningless for other kinds.
type Piece struct {
	Kind  PieceKind
	Owner Player
	Moved bool
}

func PieceOf(kind PieceKind, owner Player) Piece {
	return Piece{Kind: kind, Owner: owner}
}

func (p Piece) IsEmpty() bool {
	return p.Kind == NoPiece
}

var _whiteLetters = [7]byte{' ', 'P', 'N', 'B', 'R', 'Q', 'K'}
var _blackLetters = [7]byte{' ', 'p', 'n', 'b', 'r', 'q', 'k'}

// Letter is the display character: uppercase white, lowercase black,
// space for an empty cell.
func (p Piece) Letter() byte {
	if p.Owner == Black {
		return _blackLetters[p.Kind]
	}
	return _whiteLetters[p.Kind]
}

var _whiteGlyphs = [7]string{" ", "♙", "♘", "♗", "♖", "♕", "♔"}
var _blackGlyphs = [7]string{" ", "♟", "♞", "♝", "♜", "♛", "♚"}

func (p Piece) Unicode() string {
	if p.Owner == Black {
		return _blackGlyphs[p.Kind]
	}
	return _whiteGlyphs[p.Kind]
}

func (p Piece) String() string {
	return string(p.Letter())
}
