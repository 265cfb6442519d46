// Command selfplay plays the engine against itself and draws the board
// after every ply. Useful for eyeballing engine behavior and search speed.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/fatih/color"

	"gridchess/internal/engine"
	"gridchess/internal/model"
)

var (
	depth    = flag.Int("depth", 3, "search depth in plies")
	maxPlies = flag.Int("max-plies", 200, "stop after this many plies")
	delay    = flag.Duration("delay", 0, "pause between plies")
)

func main() {
	flag.Parse()

	if err := run(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func run() error {
	eng := engine.New(engine.Config{Depth: *depth})
	b := model.NewBoard()
	turn := model.White

	for ply := 1; ply <= *maxPlies; ply++ {
		mv, err := eng.BestMove(context.Background(), b, turn)
		if errors.Is(err, engine.ErrNoLegalMoves) {
			if b.KingInCheck(turn) {
				fmt.Printf("checkmate, %s wins\n", turn.Opponent())
			} else {
				fmt.Println("stalemate")
			}
			return nil
		}
		if err != nil {
			return err
		}

		b.Apply(mv)
		fmt.Printf("\n[#%d] %s: %s (score %d)\n", ply, turn, mv, mv.Score)
		draw(b)

		turn = turn.Opponent()
		if *delay > 0 {
			time.Sleep(*delay)
		}
	}

	fmt.Println("ply limit reached")
	return nil
}

func draw(b *model.Board) {
	light := color.New(color.BgWhite, color.FgBlack)
	dark := color.New(color.BgCyan, color.FgBlack)

	for row := 0; row < model.BoardSize; row++ {
		fmt.Printf("%d ", model.BoardSize-row)
		for col := 0; col < model.BoardSize; col++ {
			sq := light
			if (row+col)%2 == 1 {
				sq = dark
			}
			if piece, ok := b.PieceAt(model.Position{Row: row, Col: col}); ok {
				sq.Printf(" %s ", piece.Symbol())
			} else {
				sq.Print("   ")
			}
		}
		fmt.Println()
	}
	fmt.Println("   a  b  c  d  e  f  g  h")
}
