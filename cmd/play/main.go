package main

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/castlegate/chessai/internal/board"
	. "github.com/castlegate/chessai/internal/helpers"
	"github.com/castlegate/chessai/internal/search"
	"github.com/dustin/go-humanize"
	"github.com/pkg/profile"
)

// Self-play harness: both sides are driven by the searcher until the
// game ends or the move budget runs out.
//
//	go run ./cmd/play [profile] [quiet] [moves=N] [depth=N] [endgamePushEnemyKing]

func main() {
	args := os.Args[1:]

	if Contains(args, "profile") {
		p := profile.Start(profile.ProfilePath("data/CmdPlayMain"))
		defer p.Stop()
	}
	quiet := Contains(args, "quiet")

	maxMoves := 200
	searcherArgs := []string{}
	for _, arg := range FilterSlice(args, func(arg string) bool {
		return arg != "profile" && arg != "quiet"
	}) {
		if strings.HasPrefix(arg, "moves=") {
			n, err := strconv.Atoi(strings.TrimPrefix(arg, "moves="))
			if err != nil {
				panic(Wrap(err))
			}
			maxMoves = n
			continue
		}
		searcherArgs = append(searcherArgs, arg)
	}

	options, err := search.SearcherOptionsFromArgs(searcherArgs...)
	if !IsNil(err) {
		panic(err)
	}

	var logger Logger = &DefaultLogger
	if quiet {
		logger = &SilentLogger
	}

	b := board.NewBoard()
	searcher := search.NewSearcher(logger, b, options)

	var bar ProgressBar
	if quiet {
		bar = CreateProgressBar(maxMoves, "selfplay")
	}

	start := time.Now()
	outcome := "move budget reached"

	for i := 0; i < maxMoves; i++ {
		result, err := searcher.SelectAction()
		if !IsNil(err) {
			fmt.Fprintln(os.Stderr, "error:", err)
			os.Exit(1)
		}

		if !result.HasValue() {
			if b.Checkmated(b.SideToMove) {
				outcome = fmt.Sprint("checkmate, ", b.SideToMove.Other(), " wins")
			} else {
				outcome = "stalemate"
			}
			break
		}

		if quiet {
			bar.Set(i + 1)
		} else {
			fmt.Println(b.Unicode())
		}

		if b.ThreefoldRepetition() {
			outcome = "draw by threefold repetition"
			break
		}
		if b.IsDraw(b.SideToMove) {
			outcome = "draw"
			break
		}
	}

	if quiet {
		bar.Close()
	}

	elapsed := time.Since(start)
	evals := searcher.DebugTotalEvaluations
	perSecond := int64(float64(evals) / elapsed.Seconds())

	fmt.Println(outcome, "after", b.Ledger().Len(), "ply")
	fmt.Println("evaluated", humanize.Comma(int64(evals)), "positions",
		"in", elapsed.Round(time.Millisecond),
		"@", humanize.Comma(perSecond), "/s")
}
