// Package tests paints hardware test patterns used to check wiring and
// column order of a panel.
package tests

import (
	"fmt"

	"github.com/coreman2200/ledmatrix/internal/matrix"
)

type Kind string

const (
	None        Kind = ""
	IndexSweep  Kind = "sweep"
	ColumnSweep Kind = "columns"
	Full        Kind = "full"
)

// ParseKind accepts the names of the patterns above.
func ParseKind(s string) (Kind, error) {
	switch k := Kind(s); k {
	case None, IndexSweep, ColumnSweep, Full:
		return k, nil
	}
	return None, fmt.Errorf("unknown test pattern %q (want sweep, columns or full)", s)
}

type Plan struct {
	Kind  Kind
	Level uint8
}

type Runner struct {
	plan Plan
	step int
}

func NewRunner(plan Plan) *Runner {
	if plan.Level == 0 {
		plan.Level = 255
	}
	return &Runner{plan: plan}
}

func (r *Runner) Kind() Kind { return r.plan.Kind }

// Step paints the next frame into g and reports false once the pattern has
// run through; a finished runner starts over.
func (r *Runner) Step(g *matrix.Grid) bool {
	*g = matrix.Grid{}
	n := matrix.Width * matrix.Height

	switch r.plan.Kind {
	case IndexSweep:
		if r.step >= n {
			r.step = 0
			return false
		}
		g[r.step/matrix.Width][r.step%matrix.Width] = r.plan.Level
	case ColumnSweep:
		if r.step >= matrix.Width {
			r.step = 0
			return false
		}
		for row := 0; row < matrix.Height; row++ {
			// Brightness ramps down the column so a flipped column order is visible.
			g[row][r.step] = uint8(int(r.plan.Level) * (matrix.Height - row) / matrix.Height)
		}
	case Full:
		g.Fill(r.plan.Level)
	default:
		return false
	}
	r.step++
	return true
}
