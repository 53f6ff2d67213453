package tests

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/coreman2200/ledmatrix/internal/matrix"
)

func lit(g matrix.Grid) int {
	n := 0
	for row := range g {
		for _, v := range g[row] {
			if v > 0 {
				n++
			}
		}
	}
	return n
}

func TestParseKind(t *testing.T) {
	k, err := ParseKind("columns")
	require.NoError(t, err)
	assert.Equal(t, ColumnSweep, k)
	_, err = ParseKind("rainbow")
	assert.Error(t, err)
}

func TestIndexSweep(t *testing.T) {
	r := NewRunner(Plan{Kind: IndexSweep})
	var g matrix.Grid
	for i := 0; i < matrix.Width*matrix.Height; i++ {
		require.True(t, r.Step(&g))
		require.Equal(t, 1, lit(g))
		require.Equal(t, uint8(255), g[i/matrix.Width][i%matrix.Width])
	}
	assert.False(t, r.Step(&g))
	assert.Equal(t, 0, lit(g))
	assert.True(t, r.Step(&g), "restarts")
	assert.Equal(t, uint8(255), g[0][0])
}

func TestColumnSweep(t *testing.T) {
	r := NewRunner(Plan{Kind: ColumnSweep, Level: 68})
	var g matrix.Grid
	require.True(t, r.Step(&g))
	require.True(t, r.Step(&g))
	assert.Equal(t, uint8(68), g[0][1])
	assert.Equal(t, uint8(2), g[33][1])
	assert.Equal(t, uint8(0), g[0][0])
}

func TestFull(t *testing.T) {
	r := NewRunner(Plan{Kind: Full, Level: 9})
	var g matrix.Grid
	require.True(t, r.Step(&g))
	assert.Equal(t, matrix.Width*matrix.Height, lit(g))
}
