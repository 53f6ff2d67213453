package matrix

import (
	"image"
	"image/color"

	"periph.io/x/devices/v3/ssd1306/image1bit"
)

// Bounds is the panel field as an image rectangle.
var Bounds = image.Rect(0, 0, Width, Height)

// GridFromImage samples src starting at sp into a Grid, converting each pixel
// with color.GrayModel. Pixels outside src stay off.
func GridFromImage(src image.Image, sp image.Point) Grid {
	var g Grid
	sb := src.Bounds()
	for row := 0; row < Height; row++ {
		for col := 0; col < Width; col++ {
			p := image.Pt(sp.X+col, sp.Y+row)
			if !p.In(sb) {
				continue
			}
			g[row][col] = color.GrayModel.Convert(src.At(p.X, p.Y)).(color.Gray).Y
		}
	}
	return g
}

// PatternFromImage samples src starting at sp into a Pattern, using the
// 1-bit model of periph's image1bit package.
func PatternFromImage(src image.Image, sp image.Point) Pattern {
	var pt Pattern
	sb := src.Bounds()
	for row := 0; row < Height; row++ {
		for col := 0; col < Width; col++ {
			p := image.Pt(sp.X+col, sp.Y+row)
			if !p.In(sb) {
				continue
			}
			pt[row][col] = bool(image1bit.BitModel.Convert(src.At(p.X, p.Y)).(image1bit.Bit))
		}
	}
	return pt
}

// Image renders g as a grayscale image, mostly for previews and tests.
func (g Grid) Image() *image.Gray {
	img := image.NewGray(Bounds)
	for row := range g {
		for col, v := range g[row] {
			img.SetGray(col, row, color.Gray{Y: v})
		}
	}
	return img
}
