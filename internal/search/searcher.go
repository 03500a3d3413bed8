package search

import (
	"strconv"
	"strings"

	. "github.com/castlegate/chessai/internal/board"
	. "github.com/castlegate/chessai/internal/helpers"
)

var Inf int = 999999

type SearcherOptions struct {
	MaxDepth          int
	evaluationOptions []EvaluationOption
}

var DefaultSearcherOptions = SearcherOptions{
	MaxDepth: 3,
}

var AllSearcherOptions = []string{
	"depth",
	"endgamePushEnemyKing",
}

func SearcherOptionsFromArgs(args ...string) (SearcherOptions, Error) {
	options := DefaultSearcherOptions

	for _, arg := range args {
		if strings.HasPrefix(arg, "depth") {
			if strings.Contains(arg, "=") {
				n, err := strconv.ParseInt(strings.Split(arg, "=")[1], 10, 64)
				if err != nil {
					return options, Wrap(err)
				}
				options.MaxDepth = int(n)
			}
		} else if strings.HasPrefix(arg, "endgamePushEnemyKing") {
			options.evaluationOptions = append(options.evaluationOptions, EndgamePushEnemyKing)
		} else {
			return options, Errorf("unknown option: %s", arg)
		}
	}

	return options, NilError
}

// ChosenMove describes the move SelectAction committed.
type ChosenMove struct {
	Index int
	From  FileRank
	To    FileRank
	Score int
}

func (m ChosenMove) String() string {
	return m.From.String() + m.To.String()
}

// Searcher wraps one live board and picks moves for its side to move. It
// never mutates the live board while exploring: every candidate line runs
// on an independent deep copy, and only the chosen move is committed back
// through the same indexed execution path any caller would use.
type Searcher struct {
	Logger Logger

	Board *Board

	options SearcherOptions

	DebugTotalEvaluations int
}

func NewSearcher(logger Logger, b *Board, options SearcherOptions) Searcher {
	if options.MaxDepth <= 0 {
		options.MaxDepth = DefaultSearcherOptions.MaxDepth
	}
	return Searcher{
		Logger:  logger,
		Board:   b,
		options: options,
	}
}

// SelectAction explores every legal move index on the live board, scores
// each subtree with alpha-beta minimax from the side to move's
// perspective, commits the first-maximal move in enumeration order, and
// returns it. An empty result means the side to move has no legal moves
// (mate or stalemate); nothing is committed.
func (s *Searcher) SelectAction() (Optional[ChosenMove], Error) {
	count := s.Board.LegalMoveCount()
	if count == 0 {
		return Empty[ChosenMove](), NilError
	}

	player := s.Board.SideToMove

	best := Empty[ChosenMove]()
	alpha := -Inf - 1
	beta := Inf + 1

	for index := 0; index < count; index++ {
		child := s.Board.Copy()
		err := child.ExecuteMoveAtIndex(index)
		if !IsNil(err) {
			return Empty[ChosenMove](), err
		}

		score, err := s.evaluateSubtree(child, player, s.options.MaxDepth-1, alpha, beta)
		if !IsNil(err) {
			return Empty[ChosenMove](), err
		}

		if !best.HasValue() || score > best.Value().Score {
			from, destination, moveErr := s.Board.MoveAtIndex(index)
			if !IsNil(moveErr) {
				return Empty[ChosenMove](), moveErr
			}
			best = Some(ChosenMove{
				Index: index,
				From:  from,
				To:    FileRankFromIndex(destination.To),
				Score: score,
			})
			alpha = MaxInt(alpha, score)
		}
	}

	chosen := best.Value()
	s.Logger.Println("chose", chosen.String(),
		"index", chosen.Index,
		"score", chosen.Score,
		"- total evals", s.DebugTotalEvaluations)

	err := s.Board.ExecuteMoveAtIndex(chosen.Index)
	if !IsNil(err) {
		return Empty[ChosenMove](), err
	}
	return Some(chosen), NilError
}

// evaluateSubtree scores a position for the maximizing player. Terminal
// positions score as mate (shaded so nearer mates win) or draw; horizon
// positions fall to the static evaluator; everything else recurses over
// deep copies.
func (s *Searcher) evaluateSubtree(b *Board, maximizer Player, depth int, alpha int, beta int) (int, Error) {
	side := b.SideToMove

	if b.LegalMoveCount() == 0 {
		if b.InCheck(side) {
			mate := Inf - (s.options.MaxDepth - depth)
			if side == maximizer {
				return -mate, NilError
			}
			return mate, NilError
		}
		return 0, NilError
	}

	if b.ThreefoldRepetition() || b.InsufficientMaterial() || b.Ledger().FiftyMoveDraw() {
		return 0, NilError
	}

	if depth <= 0 {
		s.DebugTotalEvaluations++
		return Evaluate(b, maximizer, s.options.evaluationOptions...), NilError
	}

	maximizing := side == maximizer

	for index := 0; index < b.LegalMoveCount(); index++ {
		child := b.Copy()
		err := child.ExecuteMoveAtIndex(index)
		if !IsNil(err) {
			return 0, err
		}

		score, err := s.evaluateSubtree(child, maximizer, depth-1, alpha, beta)
		if !IsNil(err) {
			return 0, err
		}

		if maximizing {
			if score >= beta {
				// The enemy will avoid this line
				return beta, NilError
			}
			if score > alpha {
				alpha = score
			}
		} else {
			if score <= alpha {
				return alpha, NilError
			}
			if score < beta {
				beta = score
			}
		}
	}

	if maximizing {
		return alpha, NilError
	}
	return beta, NilError
}
