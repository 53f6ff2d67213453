package widget

import (
	"github.com/rs/zerolog/log"

	"github.com/coreman2200/ledmatrix/internal/matrix"
)

// CPU shows per-core load. By default every core gets a horizontal bar on
// its own row. With merged threads, pairs of threads share one vertical
// 8 row bar where each row stands for 10%.
type CPU struct {
	src    CPUSource
	merge  bool
	cores  int
	shape  matrix.Shape
	matrix []uint8
}

func NewCPU(src CPUSource, mergeThreads bool) *CPU {
	cores, err := src.Count()
	if err != nil || cores < 1 {
		log.Warn().Err(err).Int("cores", cores).Msg("cpu count unavailable, assuming one core")
		cores = 1
	}
	s := matrix.Shape{X: 9, Y: cores}
	if mergeThreads {
		s.Y = 8
	}
	return &CPU{src: src, merge: mergeThreads, cores: cores, shape: s, matrix: blank(s)}
}

func (c *CPU) Update() {
	width, height := c.shape.X, c.shape.Y
	c.matrix = blank(c.shape)

	usage, err := c.src.Usage()
	if err != nil {
		log.Debug().Err(err).Str("widget", "cpu").Msg("source unavailable")
		return
	}
	// The shape was fixed at construction; ignore cores that appeared since.
	if len(usage) > c.cores {
		usage = usage[:c.cores]
	}

	if !c.merge {
		for y, u := range usage {
			drawBar(c.matrix, y*width, width, u, 100)
		}
		return
	}

	for pair := 0; pair*2 < len(usage) && pair < width; pair++ {
		load := usage[pair*2]
		if pair*2+1 < len(usage) {
			load = (load + usage[pair*2+1]) / 2
		}
		for y := 0; y < height; y++ {
			threshold := float64((height - 1 - y) * 10)
			if load >= threshold {
				c.matrix[y*width+pair] = OnFull
			}
		}
	}
}

func (c *CPU) Matrix() []uint8     { return c.matrix }
func (c *CPU) Shape() matrix.Shape { return c.shape }
