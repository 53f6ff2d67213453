package sim

import (
	"fmt"
	"io"
	"strings"

	"github.com/coreman2200/ledmatrix/internal/matrix"
)

// Driver prints each canvas as text, useful without hardware attached.
type Driver struct {
	Name  string
	Out   io.Writer
	Count int
}

var shades = []byte(" .:-=+*#%@")

func (d *Driver) Write(g matrix.Grid) error {
	d.Count++
	var b strings.Builder
	fmt.Fprintf(&b, "[%s frame %04d]\n", d.Name, d.Count)
	for row := range g {
		b.WriteByte('|')
		for _, v := range g[row] {
			b.WriteByte(shade(v))
		}
		b.WriteString("|\n")
	}
	_, err := io.WriteString(d.Out, b.String())
	return err
}

// shade maps a brightness to a character, any lit cell being at least '.'.
func shade(v uint8) byte {
	if v == 0 {
		return shades[0]
	}
	i := 1 + int(v)*(len(shades)-1)/256
	return shades[i]
}
