package plinko

import (
	"fmt"
	"math"
	"strings"
)

// Entry holds a single peg bias in [0,1].
type Entry struct {
	Bias float64 `json:"bias"`
}

// Row r holds exactly r+1 entries.
type Row struct {
	Index   int     `json:"index"`
	Entries []Entry `json:"entries"`
}

type Board struct {
	Rows []Row `json:"rows"`
}

// Decision is one binary step of the resolved path.
type Decision string

const (
	DecisionHold    Decision = "hold"
	DecisionAdvance Decision = "advance"
)

// Result is the complete output of one simulation run. It is either returned
// whole or not at all; no partial results.
type Result struct {
	Board         Board      `json:"board"`
	BoardHash     string     `json:"board_hash"`
	OutcomeBin    int        `json:"outcome_bin"`
	DecisionTrace []Decision `json:"decision_trace"`
}

// Simulate consumes the generator stream in two strict phases: board
// generation, then path resolution. The board hash is computed after all
// board draws and before any path draw, so it reflects only the board.
func Simulate(g *Generator, dropColumn int) (*Result, error) {
	if dropColumn < 0 || dropColumn > Rows {
		return nil, fmt.Errorf("%w: drop column %d not in [0,%d]", ErrOutOfRangeParameter, dropColumn, Rows)
	}

	board := generateBoard(g)
	boardHash := digest(board.canonical())

	adj := float64(dropColumn-Rows/2) * 0.01

	pos := 0
	trace := make([]Decision, 0, Rows)
	for r := 0; r < Rows; r++ {
		// The path can only have drifted as many steps right as rows
		// already traversed.
		idx := pos
		if idx > r {
			idx = r
		}

		effective := board.Rows[r].Entries[idx].Bias + adj
		if effective < 0 {
			effective = 0
		}
		if effective > 1 {
			effective = 1
		}

		if g.Next() < effective {
			trace = append(trace, DecisionHold)
		} else {
			trace = append(trace, DecisionAdvance)
			pos++
		}
	}

	return &Result{
		Board:         board,
		BoardHash:     boardHash,
		OutcomeBin:    pos,
		DecisionTrace: trace,
	}, nil
}

func generateBoard(g *Generator) Board {
	rows := make([]Row, Rows)
	for r := 0; r < Rows; r++ {
		entries := make([]Entry, r+1)
		for i := range entries {
			d := g.Next()
			// Rounding before serialization is what makes the board
			// hash reproducible across platforms.
			entries[i] = Entry{Bias: round6(0.5 + (d-0.5)*0.2)}
		}
		rows[r] = Row{Index: r, Entries: entries}
	}
	return Board{Rows: rows}
}

func round6(x float64) float64 {
	return math.Round(x*1e6) / 1e6
}

// canonical is the exact byte sequence fed to the board hash: entries as
// %.6f joined by commas, rows joined by pipes, all in generation order.
func (b Board) canonical() string {
	var sb strings.Builder
	for r, row := range b.Rows {
		if r > 0 {
			sb.WriteByte('|')
		}
		for i, e := range row.Entries {
			if i > 0 {
				sb.WriteByte(',')
			}
			fmt.Fprintf(&sb, "%.6f", e.Bias)
		}
	}
	return sb.String()
}
