// Package widget defines the data sources painted onto a panel and the
// widgets that ship with ledmatrix.
package widget

import (
	"math"

	"github.com/coreman2200/ledmatrix/internal/matrix"
)

// Brightness levels used by the built-in widgets.
const (
	OnFull uint8 = 60
	OnDim  uint8 = 30
	Off    uint8 = 0
)

// Widget produces a rectangular brightness bitmap.
//
// Update refreshes the bitmap from the widget's data source. It must not
// block for long, and a failing source yields an all-off bitmap instead of
// an error. Matrix returns the bitmap from the last Update (all off before
// the first one), row-major with Shape().Cells() entries. Shape never
// changes over the lifetime of a widget.
type Widget interface {
	Update()
	Matrix() []uint8
	Shape() matrix.Shape
}

// Description is what -list-widgets prints.
type Description struct {
	Kind    string
	Shape   string
	Summary string
}

// Catalog lists the widget kinds accepted in the configuration.
var Catalog = []Description{
	{"battery", "9x2", "A battery gauge; the bar blinks at its tip while charging."},
	{"cpu", "9xN / 9x8", "One bar per core, or with merge_threads one vertical bar per pair of threads."},
	{"memory", "9x3", "Header row, then RAM usage and swap usage bars."},
	{"network", "9x3", "Header row, then download and upload throughput bars."},
	{"clock", "9x11", "Local time as HH over MM in 24 hour format."},
}

func blank(s matrix.Shape) []uint8 { return make([]uint8, s.Cells()) }

// drawBar lights the first round(value/max*width) cells of one row.
func drawBar(m []uint8, offset, width int, value, max float64) {
	if max <= 0 || math.IsNaN(value) {
		return
	}
	lit := int(math.Round(value / max * float64(width)))
	if lit > width {
		lit = width
	}
	for i := 0; i < lit; i++ {
		m[offset+i] = OnFull
	}
}

// writeChar draws a 9 cell header: a full marker followed by the 8 bits of
// c, most significant first, bright for 1 and faint for 0.
func writeChar(m []uint8, offset int, c byte) {
	m[offset] = OnFull
	for i := 0; i < 8; i++ {
		if c&(0x80>>i) != 0 {
			m[offset+1+i] = 100
		} else {
			m[offset+1+i] = 20
		}
	}
}
