// Package layout assigns widgets to panels and checks that every widget
// fits inside the panel it is drawn on.
package layout

import (
	"errors"
	"fmt"
	"math"

	"github.com/coreman2200/ledmatrix/internal/matrix"
	"github.com/coreman2200/ledmatrix/internal/widget"
)

// Placement puts a widget's top-left corner at (X, Y) on panel Panel.
type Placement struct {
	Panel  int
	X, Y   int
	Widget widget.Widget
}

// PanelBounds is the field of one panel.
var PanelBounds = matrix.Shape{X: matrix.Width, Y: matrix.Height}

// PlacementError describes a placement that would draw outside its panel.
type PlacementError struct {
	Index  int
	Panel  int
	X, Y   int
	Shape  matrix.Shape
	Bounds matrix.Shape
	Panels int
	Reason string
}

func (e *PlacementError) Error() string {
	return fmt.Sprintf("placement %d: %s (panel %d of %d, origin %d,%d, shape %dx%d, panel bounds %dx%d)",
		e.Index, e.Reason, e.Panel, e.Panels, e.X, e.Y, e.Shape.X, e.Shape.Y, e.Bounds.X, e.Bounds.Y)
}

func addChecked(a, b int) (int, bool) {
	if b > 0 && a > math.MaxInt-b {
		return 0, false
	}
	return a + b, true
}

// Validate checks every placement against panelCount panels of the given
// bounds. A widget may touch the panel edge but not cross it. All failures
// are returned together; nil means every placement is drawable.
func Validate(placements []Placement, panelCount int, bounds matrix.Shape) error {
	var errs []error
	for i, p := range placements {
		shape := p.Widget.Shape()
		pe := &PlacementError{
			Index: i, Panel: p.Panel, X: p.X, Y: p.Y,
			Shape: shape, Bounds: bounds, Panels: panelCount,
		}
		xEnd, okX := addChecked(p.X, shape.X)
		yEnd, okY := addChecked(p.Y, shape.Y)
		switch {
		case p.Panel < 0 || p.Panel >= panelCount:
			pe.Reason = "unknown panel"
		case p.X < 0 || p.Y < 0:
			pe.Reason = "negative origin"
		case shape.X < 0 || shape.Y < 0:
			pe.Reason = "negative shape"
		case !okX || !okY:
			pe.Reason = "origin overflows"
		case xEnd > bounds.X:
			pe.Reason = "widget exceeds panel width"
		case yEnd > bounds.Y:
			pe.Reason = "widget exceeds panel height"
		default:
			continue
		}
		errs = append(errs, pe)
	}
	return errors.Join(errs...)
}

// ForPanel returns the placements drawn on panel, in declaration order.
func ForPanel(placements []Placement, panel int) []Placement {
	var out []Placement
	for _, p := range placements {
		if p.Panel == panel {
			out = append(out, p)
		}
	}
	return out
}
