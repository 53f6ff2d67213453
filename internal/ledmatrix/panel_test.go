package ledmatrix

import (
	"image"
	"image/color"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"periph.io/x/devices/v3/ssd1306/image1bit"

	"github.com/coreman2200/ledmatrix/internal/matrix"
)

func TestParseDrawMode(t *testing.T) {
	m, err := ParseDrawMode("")
	require.NoError(t, err)
	assert.Equal(t, ModeBrightness, m)

	m, err = ParseDrawMode("pattern")
	require.NoError(t, err)
	assert.Equal(t, ModePattern, m)

	_, err = ParseDrawMode("rgb")
	assert.Error(t, err)
}

func TestPanelWriteModes(t *testing.T) {
	var g matrix.Grid
	g[0][1] = 30

	s, p := newTestSession()
	require.NoError(t, NewPanel(s, ModeBrightness).Write(g))
	assert.Len(t, p.packets(), matrix.Width+1)

	s, p = newTestSession()
	require.NoError(t, NewPanel(s, ModePattern).Write(g))
	pkts := p.packets()
	require.Len(t, pkts, 1)
	assert.Equal(t, byte(CmdDraw), pkts[0][0])
	assert.Equal(t, byte(0x02), pkts[0][1], "cell (0,1) is bit 1 of byte 0")
}

func TestPanelDrawer(t *testing.T) {
	s, p := newTestSession()
	panel := NewPanel(s, ModeBrightness)
	assert.Equal(t, image.Rect(0, 0, 9, 34), panel.Bounds())
	assert.Equal(t, color.GrayModel, panel.ColorModel())
	assert.Equal(t, "ledmatrix.Panel{/dev/ttyACM0, brightness}", panel.String())

	src := image.NewGray(image.Rect(0, 0, 2, 2))
	src.SetGray(1, 1, color.Gray{Y: 77})
	require.NoError(t, panel.Draw(image.Rect(3, 4, 5, 6), src, image.Point{}))

	assert.Equal(t, uint8(77), panel.last[5][4])
	assert.Equal(t, uint8(0), panel.last[4][3])
	assert.Len(t, p.packets(), matrix.Width+1)

	require.NoError(t, panel.Halt())
	pkts := p.packets()
	assert.Equal(t, []byte{byte(CmdSleep), 1}, pkts[len(pkts)-1])
}

func TestPanelDrawerPatternMode(t *testing.T) {
	s, _ := newTestSession()
	panel := NewPanel(s, ModePattern)
	assert.Equal(t, image1bit.BitModel, panel.ColorModel())

	src := image.NewGray(image.Rect(0, 0, 2, 1))
	src.SetGray(0, 0, color.Gray{Y: 250})
	src.SetGray(1, 0, color.Gray{Y: 10})
	require.NoError(t, panel.Draw(matrix.Bounds, src, image.Point{}))
	assert.Equal(t, uint8(255), panel.last[0][0])
	assert.Equal(t, uint8(0), panel.last[0][1])
}
