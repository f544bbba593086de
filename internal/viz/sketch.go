package viz

import (
	"strings"

	"github.com/coilworks/springlab/internal/spring"
)

// Canvas is a braille-cell drawing surface. Each terminal cell packs a
// 2x4 dot grid, so a cols x rows canvas addresses (2*cols) x (4*rows)
// dot coordinates.
type Canvas struct {
	cols, rows int
	cells      []rune
}

const brailleBase = 0x2800

// dotBits maps (dy, dx) within a cell to its braille bit.
var dotBits = [4][2]rune{
	{0x01, 0x08},
	{0x02, 0x10},
	{0x04, 0x20},
	{0x40, 0x80},
}

func NewCanvas(cols, rows int) *Canvas {
	c := &Canvas{cols: cols, rows: rows, cells: make([]rune, cols*rows)}
	for i := range c.cells {
		c.cells[i] = brailleBase
	}
	return c
}

// DotWidth and DotHeight are the drawable area in dot coordinates.
func (c *Canvas) DotWidth() int  { return c.cols * 2 }
func (c *Canvas) DotHeight() int { return c.rows * 4 }

// Dot sets one dot; out-of-range coordinates are ignored.
func (c *Canvas) Dot(x, y int) {
	if x < 0 || y < 0 || x >= c.DotWidth() || y >= c.DotHeight() {
		return
	}
	c.cells[(y/4)*c.cols+x/2] |= dotBits[y%4][x%2]
}

// Line draws with Bresenham stepping in dot coordinates.
func (c *Canvas) Line(x0, y0, x1, y1 int) {
	dx, dy := absInt(x1-x0), absInt(y1-y0)
	sx, sy := 1, 1
	if x0 > x1 {
		sx = -1
	}
	if y0 > y1 {
		sy = -1
	}
	err := dx - dy
	for {
		c.Dot(x0, y0)
		if x0 == x1 && y0 == y1 {
			return
		}
		e2 := 2 * err
		if e2 > -dy {
			err -= dy
			x0 += sx
		}
		if e2 < dx {
			err += dx
			y0 += sy
		}
	}
}

// EachDot visits every set dot, for renderers that need the raw pattern.
func (c *Canvas) EachDot(fn func(x, y int)) {
	for row := 0; row < c.rows; row++ {
		for col := 0; col < c.cols; col++ {
			pattern := c.cells[row*c.cols+col] - brailleBase
			if pattern == 0 {
				continue
			}
			for dy := 0; dy < 4; dy++ {
				for dx := 0; dx < 2; dx++ {
					if pattern&dotBits[dy][dx] != 0 {
						fn(col*2+dx, row*4+dy)
					}
				}
			}
		}
	}
}

func (c *Canvas) String() string {
	var b strings.Builder
	for row := 0; row < c.rows; row++ {
		b.WriteString(string(c.cells[row*c.cols : (row+1)*c.cols]))
		b.WriteByte('\n')
	}
	return b.String()
}

func absInt(v int) int {
	if v < 0 {
		return -v
	}
	return v
}

// SketchHelical draws the side silhouette of a helical spring: the coil
// zigzag between the two envelope lines, free length vertical.
func SketchHelical(wireDia, meanDia, coils, freeLen float64, cols, rows int) string {
	if wireDia <= 0 || meanDia <= 0 || coils < 1 || freeLen <= 0 {
		return ""
	}
	c := NewCanvas(cols, rows)
	w, h := c.DotWidth()-1, c.DotHeight()-1

	outer := meanDia + wireDia
	scaleX := float64(w) / outer
	left := int((outer - meanDia) / 2 * scaleX)
	right := int((outer + meanDia) / 2 * scaleX)

	// Envelope.
	c.Line(left, 0, left, h)
	c.Line(right, 0, right, h)

	// One zigzag leg per half coil.
	halves := int(coils * 2)
	if halves < 2 {
		halves = 2
	}
	for i := 0; i < halves; i++ {
		y0 := i * h / halves
		y1 := (i + 1) * h / halves
		if i%2 == 0 {
			c.Line(left, y0, right, y1)
		} else {
			c.Line(right, y0, left, y1)
		}
	}
	return c.String()
}

// SketchCurve draws a characteristic curve onto a canvas, for SVG export
// or inline display where asciigraph's axis decoration is unwanted.
func SketchCurve(curves *spring.Curves, cols, rows int) *Canvas {
	if curves == nil || len(curves.Load) < 2 {
		return nil
	}
	c := NewCanvas(cols, rows)
	w, h := c.DotWidth()-1, c.DotHeight()-1

	maxLoad := curves.Load[len(curves.Load)-1]
	for _, v := range curves.Load {
		if v > maxLoad {
			maxLoad = v
		}
	}
	if maxLoad <= 0 {
		return c
	}
	maxTravel := curves.Travel[len(curves.Travel)-1]
	if maxTravel <= 0 {
		return c
	}

	px := func(i int) (int, int) {
		x := int(curves.Travel[i] / maxTravel * float64(w))
		y := h - int(curves.Load[i]/maxLoad*float64(h))
		return x, y
	}
	x0, y0 := px(0)
	for i := 1; i < len(curves.Load); i++ {
		x1, y1 := px(i)
		c.Line(x0, y0, x1, y1)
		x0, y0 = x1, y1
	}
	return c
}
