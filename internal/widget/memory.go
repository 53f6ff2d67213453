package widget

import (
	"github.com/rs/zerolog/log"

	"github.com/coreman2200/ledmatrix/internal/matrix"
)

// Memory draws an 'R' header, then RAM and swap usage bars.
type Memory struct {
	src    MemorySource
	swap   bool // accepted from config; the swap row is always drawn
	shape  matrix.Shape
	matrix []uint8
}

func NewMemory(src MemorySource, swap bool) *Memory {
	s := matrix.Shape{X: 9, Y: 3}
	return &Memory{src: src, swap: swap, shape: s, matrix: blank(s)}
}

func (m *Memory) Update() {
	width := m.shape.X
	m.matrix = blank(m.shape)

	stat, err := m.src.Memory()
	if err != nil {
		log.Debug().Err(err).Str("widget", "memory").Msg("source unavailable")
		return
	}

	writeChar(m.matrix, 0, 'R')
	usageRow(m.matrix, width, width, stat.Used, stat.Total)
	usageRow(m.matrix, 2*width, width, stat.SwapUsed, stat.SwapTotal)
}

// usageRow lights cells 0..used/total*width inclusive. A zero total leaves
// the row dark.
func usageRow(m []uint8, offset, width int, used, total uint64) {
	if total == 0 {
		return
	}
	n := int(float64(used) / float64(total) * float64(width))
	for x := 0; x < width && x <= n; x++ {
		m[offset+x] = OnFull
	}
}

func (m *Memory) Matrix() []uint8     { return m.matrix }
func (m *Memory) Shape() matrix.Shape { return m.shape }
