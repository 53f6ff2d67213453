package matrix

// PatternBytes is the size of a bit-packed pattern: ceil(Width*Height/8).
const PatternBytes = (Width*Height + 7) / 8

// Pattern is an on/off panel field without brightness.
type Pattern [Height][Width]bool

// EncodePattern packs p one bit per LED. Cells are scanned row-major, and
// cell k lands in byte k/8 at bit k%8 (least significant bit first).
func EncodePattern(p Pattern) [PatternBytes]byte {
	var out [PatternBytes]byte
	k := 0
	for row := 0; row < Height; row++ {
		for col := 0; col < Width; col++ {
			if p[row][col] {
				out[k/8] |= 1 << (k % 8)
			}
			k++
		}
	}
	return out
}

// DecodePattern unpacks the output of EncodePattern.
func DecodePattern(b [PatternBytes]byte) Pattern {
	var p Pattern
	k := 0
	for row := 0; row < Height; row++ {
		for col := 0; col < Width; col++ {
			p[row][col] = b[k/8]&(1<<(k%8)) != 0
			k++
		}
	}
	return p
}

// Threshold turns every non-zero cell of g on.
func Threshold(g Grid) Pattern {
	var p Pattern
	for row := range g {
		for col, v := range g[row] {
			p[row][col] = v > 0
		}
	}
	return p
}
