package widget

import (
	"time"

	"github.com/coreman2200/ledmatrix/internal/matrix"
)

const (
	o = Off
	f = OnFull
	d = OnDim
)

// 3x5 digit glyphs, row-major.
var digits = [10][15]uint8{
	{o, f, o, f, o, f, f, o, f, f, o, f, o, f, o},
	{o, o, f, o, d, f, o, o, f, o, o, f, o, o, f},
	{f, f, f, o, o, f, f, f, f, f, o, o, f, f, f},
	{f, f, f, o, o, f, f, f, o, o, o, f, f, f, f},
	{f, o, f, f, o, f, f, f, f, o, o, f, o, o, f},
	{f, f, f, f, o, o, f, f, f, o, o, f, f, f, f},
	{o, f, d, f, o, o, f, f, f, f, o, f, f, f, f},
	{f, f, f, d, o, f, o, o, f, o, f, o, o, f, o},
	{f, f, f, f, o, f, f, f, f, f, o, f, f, f, f},
	{f, f, f, f, o, f, f, f, f, o, o, f, d, f, o},
}

// Clock shows the local time, hours above minutes.
type Clock struct {
	now    func() time.Time
	shape  matrix.Shape
	matrix []uint8
}

func NewClock(now func() time.Time) *Clock {
	if now == nil {
		now = time.Now
	}
	s := matrix.Shape{X: 9, Y: 11}
	return &Clock{now: now, shape: s, matrix: blank(s)}
}

func (c *Clock) Update() {
	t := c.now()
	m := make([]uint8, 0, c.shape.Cells())
	m = append(m, renderNumber(t.Hour())...)
	m = append(m, make([]uint8, c.shape.X)...)
	m = append(m, renderNumber(t.Minute())...)
	c.matrix = m
}

// renderNumber draws a two digit number on a 9x5 block, tens in columns
// 1-3 and units in columns 5-7.
func renderNumber(n int) []uint8 {
	tens, units := digits[(n/10)%10], digits[n%10]
	out := make([]uint8, 9*5)
	for row := 0; row < 5; row++ {
		for col := 0; col < 3; col++ {
			out[row*9+1+col] = tens[row*3+col]
			out[row*9+5+col] = units[row*3+col]
		}
	}
	return out
}

func (c *Clock) Matrix() []uint8     { return c.matrix }
func (c *Clock) Shape() matrix.Shape { return c.shape }
