package matrix

import (
	"image"
	"image/color"
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func randomGrid(r *rand.Rand) Grid {
	var g Grid
	for row := range g {
		for col := range g[row] {
			g[row][col] = uint8(r.Intn(256))
		}
	}
	return g
}

func randomPattern(r *rand.Rand) Pattern {
	var p Pattern
	for row := range p {
		for col := range p[row] {
			p[row][col] = r.Intn(2) == 1
		}
	}
	return p
}

func TestPatternBytes(t *testing.T) {
	assert.Equal(t, 39, PatternBytes)
}

func TestEncodePatternBitOrder(t *testing.T) {
	tests := []struct {
		name     string
		row, col int
		byteIdx  int
		bit      byte
	}{
		{"first cell", 0, 0, 0, 0x01},
		{"eighth cell", 0, 7, 0, 0x80},
		{"ninth cell wraps", 0, 8, 1, 0x01},
		{"second row start", 1, 0, 1, 0x02},
		{"last cell", Height - 1, Width - 1, 38, 0x02},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var p Pattern
			p[tt.row][tt.col] = true
			out := EncodePattern(p)
			for i, b := range out {
				if i == tt.byteIdx {
					assert.Equal(t, tt.bit, b, "byte %d", i)
				} else {
					assert.Zero(t, b, "byte %d", i)
				}
			}
		})
	}
}

func TestEncodePatternAllOn(t *testing.T) {
	var p Pattern
	for row := range p {
		for col := range p[row] {
			p[row][col] = true
		}
	}
	out := EncodePattern(p)
	for i := 0; i < 38; i++ {
		assert.Equal(t, byte(0xFF), out[i])
	}
	// 306 cells: only the low two bits of the last byte are used.
	assert.Equal(t, byte(0x03), out[38])
}

func TestPatternRoundTrip(t *testing.T) {
	r := rand.New(rand.NewSource(7))
	for i := 0; i < 50; i++ {
		p := randomPattern(r)
		assert.Equal(t, p, DecodePattern(EncodePattern(p)))
	}
}

func TestEncodePatternReproducible(t *testing.T) {
	p := randomPattern(rand.New(rand.NewSource(3)))
	assert.Equal(t, EncodePattern(p), EncodePattern(p))
}

func TestTransposeSelfInverse(t *testing.T) {
	r := rand.New(rand.NewSource(11))
	for i := 0; i < 20; i++ {
		g := randomGrid(r)
		assert.Equal(t, g, Transpose(g).Transpose())
	}
}

func TestTransposeLayout(t *testing.T) {
	var g Grid
	g[5][2] = 200
	g[33][8] = 7
	c := Transpose(g)
	assert.Equal(t, uint8(200), c[2][5])
	assert.Equal(t, uint8(7), c[8][33])
}

func TestNewCanvasIsOff(t *testing.T) {
	c := NewCanvas()
	for row := range c {
		for col := range c[row] {
			require.Zero(t, c[row][col])
		}
	}
}

func TestEmplace(t *testing.T) {
	bitmap := []uint8{1, 2, 3, 4, 5, 6}
	c := Emplace(NewCanvas(), bitmap, Shape{X: 3, Y: 2}, 4, 10)

	assert.Equal(t, [Width]uint8{0, 0, 0, 0, 1, 2, 3, 0, 0}, c[10])
	assert.Equal(t, [Width]uint8{0, 0, 0, 0, 4, 5, 6, 0, 0}, c[11])
	assert.Equal(t, [Width]uint8{}, c[9])
	assert.Equal(t, [Width]uint8{}, c[12])
}

func TestEmplaceOverwrites(t *testing.T) {
	c := Emplace(NewCanvas(), []uint8{9, 9, 9, 9}, Shape{X: 2, Y: 2}, 0, 0)
	c = Emplace(c, []uint8{0, 1}, Shape{X: 2, Y: 1}, 1, 1)

	assert.Equal(t, uint8(9), c[0][0])
	assert.Equal(t, uint8(9), c[0][1])
	assert.Equal(t, uint8(9), c[1][0])
	assert.Equal(t, uint8(0), c[1][1], "later bitmap wins even when it is off")
	assert.Equal(t, uint8(1), c[1][2])
}

func TestThreshold(t *testing.T) {
	var g Grid
	g[0][0] = 1
	g[3][4] = 255
	p := Threshold(g)
	assert.True(t, p[0][0])
	assert.True(t, p[3][4])
	assert.False(t, p[0][1])
}

func TestImageConversions(t *testing.T) {
	img := image.NewGray(image.Rect(0, 0, 20, 40))
	img.SetGray(1, 2, color.Gray{Y: 200})
	img.SetGray(3, 4, color.Gray{Y: 40})

	g := GridFromImage(img, image.Point{})
	assert.Equal(t, uint8(200), g[2][1])
	assert.Equal(t, uint8(40), g[4][3])

	p := PatternFromImage(img, image.Point{})
	assert.True(t, p[2][1])
	assert.False(t, p[4][3], "dark pixels are off in the 1-bit model")

	shifted := GridFromImage(img, image.Pt(1, 2))
	assert.Equal(t, uint8(200), shifted[0][0])
}

func TestGridImageRoundTrip(t *testing.T) {
	g := randomGrid(rand.New(rand.NewSource(5)))
	assert.Equal(t, g, GridFromImage(g.Image(), image.Point{}))
}
