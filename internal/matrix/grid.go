package matrix

// Panel field dimensions of one LED matrix module.
const (
	Width  = 9
	Height = 34
)

// Grid is one panel's brightness field, row-major: Grid[row][col].
// 0 is off, 255 is full scale.
type Grid [Height][Width]uint8

// Columns is a Grid transposed into the column-major order the firmware latches.
type Columns [Width][Height]uint8

// Shape is the extent of a bitmap in cells.
type Shape struct {
	X int // width
	Y int // height
}

// Cells returns the number of cells covered by s.
func (s Shape) Cells() int { return s.X * s.Y }

// NewCanvas returns an all-off grid.
func NewCanvas() Grid { return Grid{} }

// Emplace copies a row-major bitmap of the given shape onto canvas with its
// top-left corner at (x, y). Values already on the canvas are overwritten.
//
// Emplace does not check bounds; placements must be validated beforehand.
func Emplace(canvas Grid, bitmap []uint8, shape Shape, x, y int) Grid {
	for i := 0; i < shape.Y; i++ {
		for j := 0; j < shape.X; j++ {
			canvas[y+i][x+j] = bitmap[i*shape.X+j]
		}
	}
	return canvas
}

// Transpose switches rows and columns: out[col][row] = g[row][col].
func Transpose(g Grid) Columns {
	var out Columns
	for row := 0; row < Height; row++ {
		for col := 0; col < Width; col++ {
			out[col][row] = g[row][col]
		}
	}
	return out
}

// Transpose is the inverse of the package level Transpose.
func (c Columns) Transpose() Grid {
	var out Grid
	for col := 0; col < Width; col++ {
		for row := 0; row < Height; row++ {
			out[row][col] = c[col][row]
		}
	}
	return out
}

// Fill sets every cell to v.
func (g *Grid) Fill(v uint8) {
	for row := range g {
		for col := range g[row] {
			g[row][col] = v
		}
	}
}
