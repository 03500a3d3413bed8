package board

// PromotionKinds is the order promotion choices are enumerated in, and
// the remainder mapping for index-addressed promotion moves: index%4 of
// a promotion block selects Queen, Rook, Bishop, Knight respectively.
var PromotionKinds = [4]PieceKind{Queen, Rook, Bishop, Knight}

// MoveRecord captures one committed move: the placement before and after
// plus the squares involved.
type MoveRecord struct {
	Before Grid
	After  Grid
	From   int
	To     int
}

func (r MoveRecord) String() string {
	return StringFromBoardIndex(r.From) + StringFromBoardIndex(r.To)
}

// movedPawn reports whether the moved piece was a pawn; together with a
// capture this is what resets the fifty-move counting.
func (r MoveRecord) movedPawn() bool {
	return r.Before[r.From].Kind == Pawn
}

func (r MoveRecord) captured() bool {
	return countPieces(r.Before) != countPieces(r.After)
}

func countPieces(grid Grid) int {
	count := 0
	for _, piece := range grid {
		if !piece.IsEmpty() {
			count++
		}
	}
	return count
}

// Ledger is the append-only move history.
type Ledger struct {
	records []MoveRecord
}

func NewLedger() *Ledger {
	return &Ledger{}
}

func (l *Ledger) Clone() *Ledger {
	records := make([]MoveRecord, len(l.records))
	copy(records, l.records)
	return &Ledger{records: records}
}

func (l *Ledger) Record(before Grid, after Grid, from int, to int) {
	l.records = append(l.records, MoveRecord{Before: before, After: after, From: from, To: to})
}

func (l *Ledger) Len() int {
	return len(l.records)
}

func (l *Ledger) Records() []MoveRecord {
	records := make([]MoveRecord, len(l.records))
	copy(records, l.records)
	return records
}

// PlySinceProgress counts consecutive trailing records with no pawn move
// and no capture.
func (l *Ledger) PlySinceProgress() int {
	count := 0
	for i := len(l.records) - 1; i >= 0; i-- {
		if l.records[i].movedPawn() || l.records[i].captured() {
			break
		}
		count++
	}
	return count
}

// FiftyMoveDraw reports whether fifty full moves (100 ply) have elapsed
// without a pawn move or a capture.
func (l *Ledger) FiftyMoveDraw() bool {
	return l.PlySinceProgress() >= 100
}
