package render

import (
	"errors"
	"fmt"
	"time"

	"github.com/coreman2200/ledmatrix/internal/layout"
	"github.com/coreman2200/ledmatrix/internal/matrix"
)

// Driver abstracts one panel's output (serial module, console, ...).
type Driver interface {
	Write(matrix.Grid) error
}

// Preview receives every composed frame. Implementations must copy what
// they keep.
type Preview interface {
	Publish(frameID uint64, canvases []matrix.Grid)
}

// Compose builds one fresh canvas per panel by overlaying the placements in
// declaration order, so later placements win where they overlap. The
// placements must have passed layout.Validate.
func Compose(placements []layout.Placement, panels int) []matrix.Grid {
	out := make([]matrix.Grid, panels)
	for i := range out {
		for _, p := range layout.ForPanel(placements, i) {
			w := p.Widget
			out[i] = matrix.Emplace(out[i], w.Matrix(), w.Shape(), p.X, p.Y)
		}
	}
	return out
}

// Engine updates widgets, composes the panel canvases and writes them to
// the drivers, one panel after the other.
type Engine struct {
	Placements []layout.Placement
	Drivers    []Driver
	Preview    Preview

	// Source, when set, replaces widget composition (test patterns).
	Source func(panel int, g *matrix.Grid)

	frameID uint64

	// metrics (last durations in ms)
	Last struct {
		ComposeMS float64
		WriteMS   float64
		TotalMS   float64
	}
}

// NewEngine validates the placements against the drivers it will draw on.
func NewEngine(placements []layout.Placement, drivers []Driver) (*Engine, error) {
	if err := layout.Validate(placements, len(drivers), layout.PanelBounds); err != nil {
		return nil, err
	}
	return &Engine{Placements: placements, Drivers: drivers}, nil
}

// FrameID is the number of frames rendered so far.
func (e *Engine) FrameID() uint64 { return e.frameID }

// Frame updates every widget and composes the canvases without writing them.
func (e *Engine) Frame() []matrix.Grid {
	if e.Source != nil {
		out := make([]matrix.Grid, len(e.Drivers))
		for i := range out {
			e.Source(i, &out[i])
		}
		return out
	}
	for _, p := range e.Placements {
		p.Widget.Update()
	}
	return Compose(e.Placements, len(e.Drivers))
}

// RenderOnce renders and writes a single frame. A failing panel does not
// stop the remaining panels from being written; all failures are returned
// joined, each wrapped in a *PanelError.
func (e *Engine) RenderOnce() error {
	start := time.Now()
	canvases := e.Frame()
	e.frameID++
	e.Last.ComposeMS = float64(time.Since(start).Microseconds()) / 1000.0

	if e.Preview != nil {
		e.Preview.Publish(e.frameID, canvases)
	}

	writeStart := time.Now()
	var errs []error
	for i, drv := range e.Drivers {
		if drv == nil {
			continue
		}
		if err := drv.Write(canvases[i]); err != nil {
			errs = append(errs, &PanelError{Panel: i, Err: err})
		}
	}
	e.Last.WriteMS = float64(time.Since(writeStart).Microseconds()) / 1000.0
	e.Last.TotalMS = float64(time.Since(start).Microseconds()) / 1000.0

	return errors.Join(errs...)
}

// PanelError is a write failure on one panel.
type PanelError struct {
	Panel int
	Err   error
}

func (e *PanelError) Error() string { return fmt.Sprintf("panel %d: %v", e.Panel, e.Err) }
func (e *PanelError) Unwrap() error { return e.Err }
