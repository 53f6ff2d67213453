package widget

import (
	"math"

	"github.com/rs/zerolog/log"

	"github.com/coreman2200/ledmatrix/internal/matrix"
)

// Battery draws remaining capacity as a two row bar.
type Battery struct {
	src    BatterySource
	shape  matrix.Shape
	matrix []uint8
	blink  bool
}

func NewBattery(src BatterySource) *Battery {
	s := matrix.Shape{X: 9, Y: 2}
	return &Battery{src: src, shape: s, matrix: blank(s)}
}

func (b *Battery) Update() {
	width := b.shape.X
	b.matrix = blank(b.shape)

	stat, err := b.src.Battery()
	if err != nil {
		log.Debug().Err(err).Str("widget", "battery").Msg("source unavailable")
		return
	}

	// The two rows interleave, giving 2*width-1 steps of resolution.
	lit := math.Round(stat.Percent * float64(width*2-1) / 100)
	row1 := int(lit/2 + 0.5)
	row2 := int(lit / 2)
	for i := 0; i < width; i++ {
		if i <= row1 {
			b.matrix[i] = OnDim
		}
		if i <= row2 {
			b.matrix[width+i] = OnDim
		}
	}

	if stat.Charging && stat.Percent < 99 {
		v := Off
		if b.blink {
			v = OnDim
		}
		if row1 > row2 {
			b.matrix[min(row1, width-1)] = v
		} else {
			b.matrix[width+min(row2, width-1)] = v
		}
		b.blink = !b.blink
	}
}

func (b *Battery) Matrix() []uint8     { return b.matrix }
func (b *Battery) Shape() matrix.Shape { return b.shape }
