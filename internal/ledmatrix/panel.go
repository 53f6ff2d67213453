package ledmatrix

import (
	"fmt"
	"image"
	"image/color"

	"periph.io/x/conn/v3/display"
	"periph.io/x/devices/v3/ssd1306/image1bit"

	"github.com/coreman2200/ledmatrix/internal/matrix"
)

// DrawMode selects the encoding a Panel draws with.
type DrawMode int

const (
	// ModeBrightness stages columns with per-LED brightness.
	ModeBrightness DrawMode = iota
	// ModePattern sends a single on/off bitmap; every lit cell is on.
	ModePattern
)

// ParseDrawMode accepts "brightness" (or "") and "pattern".
func ParseDrawMode(s string) (DrawMode, error) {
	switch s {
	case "", "brightness":
		return ModeBrightness, nil
	case "pattern":
		return ModePattern, nil
	}
	return 0, fmt.Errorf("unknown draw mode %q", s)
}

func (m DrawMode) String() string {
	if m == ModePattern {
		return "pattern"
	}
	return "brightness"
}

// Panel draws canvases on one module. It is a render driver and a periph
// display.Drawer.
type Panel struct {
	s    *Session
	mode DrawMode
	last matrix.Grid
}

var _ display.Drawer = (*Panel)(nil)

func NewPanel(s *Session, mode DrawMode) *Panel {
	return &Panel{s: s, mode: mode}
}

// Session returns the session the panel draws on.
func (p *Panel) Session() *Session { return p.s }

// Write draws a full canvas.
func (p *Panel) Write(g matrix.Grid) error {
	var err error
	if p.mode == ModePattern {
		err = p.s.DrawPattern(matrix.Threshold(g))
	} else {
		err = p.s.DrawMatrix(g)
	}
	if err != nil {
		return err
	}
	p.last = g
	return nil
}

func (p *Panel) String() string {
	return fmt.Sprintf("ledmatrix.Panel{%s, %s}", p.s.Info.Name, p.mode)
}

// Halt puts the module to sleep.
func (p *Panel) Halt() error { return p.s.Sleep() }

func (p *Panel) ColorModel() color.Model {
	if p.mode == ModePattern {
		return image1bit.BitModel
	}
	return color.GrayModel
}

func (p *Panel) Bounds() image.Rectangle { return matrix.Bounds }

// Draw copies src, starting at sp, into the dstRect area of the last drawn
// canvas and sends the result. Pattern panels convert with the 1-bit model,
// so a pixel is on only when it is at least half bright.
func (p *Panel) Draw(dstRect image.Rectangle, src image.Image, sp image.Point) error {
	origin := sp.Sub(dstRect.Min)
	var img matrix.Grid
	if p.mode == ModePattern {
		pt := matrix.PatternFromImage(src, origin)
		for y := range pt {
			for x, on := range pt[y] {
				if on {
					img[y][x] = 255
				}
			}
		}
	} else {
		img = matrix.GridFromImage(src, origin)
	}

	g := p.last
	r := dstRect.Intersect(matrix.Bounds)
	for y := r.Min.Y; y < r.Max.Y; y++ {
		for x := r.Min.X; x < r.Max.X; x++ {
			g[y][x] = img[y][x]
		}
	}
	return p.Write(g)
}
