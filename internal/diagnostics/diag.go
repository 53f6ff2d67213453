package diagnostics

import (
	"errors"
	"time"

	"github.com/coreman2200/ledmatrix/internal/layout"
	"github.com/coreman2200/ledmatrix/internal/render"
)

type Severity string

const (
	Info Severity = "info"
	Warn Severity = "warning"
	Err  Severity = "error"
)

type Diagnostic struct {
	Time           time.Time      `json:"time"`
	Severity       Severity       `json:"severity"`
	Code           string         `json:"code"`
	Summary        string         `json:"summary"`
	Detail         string         `json:"detail,omitempty"`
	LikelyCauses   []string       `json:"likely_causes,omitempty"`
	SuggestedFixes []string       `json:"suggested_fixes,omitempty"`
	Evidence       map[string]any `json:"evidence,omitempty"`
}

// FromError classifies a startup failure or a render loop error. Joined
// errors produce one diagnostic each.
func FromError(err error) []Diagnostic {
	if err == nil {
		return nil
	}
	if j, ok := err.(interface{ Unwrap() []error }); ok {
		var out []Diagnostic
		for _, e := range j.Unwrap() {
			out = append(out, FromError(e)...)
		}
		return out
	}

	d := Diagnostic{Time: time.Now(), Severity: Err, Detail: err.Error()}

	var pe *render.PanelError
	if errors.As(err, &pe) {
		d.Evidence = map[string]any{"panel": pe.Panel}
	}
	var le *layout.PlacementError
	switch {
	case errors.As(err, &le):
		d.Code = "PLACEMENT.BOUNDS"
		d.Summary = "Widget does not fit its panel"
		d.Evidence = map[string]any{
			"index": le.Index, "panel": le.Panel, "x": le.X, "y": le.Y,
			"width": le.Shape.X, "height": le.Shape.Y,
		}
		d.SuggestedFixes = []string{"move the widget or pick a panel that exists"}
	case pe != nil:
		d.Severity = Warn
		d.Code = "TRANSPORT.WRITE"
		d.Summary = "Frame could not be written"
		d.LikelyCauses = []string{"module unplugged", "USB hub reset"}
	default:
		d.Code = "GENERIC"
		d.Summary = "Unexpected error"
	}
	return []Diagnostic{d}
}
