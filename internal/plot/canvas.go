package plot

import (
	"strings"
)

// Braille Patterns: 2x4 dots per character cell, Unicode offset 0x2800.
var pixelMap = [4][2]int{
	{0x1, 0x8},
	{0x2, 0x10},
	{0x4, 0x20},
	{0x40, 0x80},
}

// Canvas is a Braille pixel canvas. A canvas of W x H character cells
// addresses (W*2) x (H*4) sub-pixels, with the origin top-left.
type Canvas struct {
	Width, Height int
	Grid          [][]rune
}

func NewCanvas(w, h int) *Canvas {
	c := &Canvas{
		Width:  w,
		Height: h,
		Grid:   make([][]rune, h),
	}
	for i := range c.Grid {
		c.Grid[i] = make([]rune, w)
		for j := range c.Grid[i] {
			c.Grid[i][j] = 0x2800
		}
	}
	return c
}

// Set lights the sub-pixel at (x, y). Out-of-range coordinates are
// ignored so callers can draw segments that leave the viewport.
func (c *Canvas) Set(x, y int) {
	if x < 0 || y < 0 {
		return
	}

	col := x / 2
	row := y / 4
	if col >= c.Width || row >= c.Height {
		return
	}

	c.Grid[row][col] |= rune(pixelMap[y%4][x%2])
}

// DrawLine draws a line between sub-pixels using Bresenham's algorithm.
func (c *Canvas) DrawLine(x0, y0, x1, y1 int) {
	dx := absInt(x1 - x0)
	dy := absInt(y1 - y0)
	sx := -1
	if x0 < x1 {
		sx = 1
	}
	sy := -1
	if y0 < y1 {
		sy = 1
	}
	err := dx - dy

	for {
		c.Set(x0, y0)
		if x0 == x1 && y0 == y1 {
			break
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

func (c *Canvas) String() string {
	var b strings.Builder
	for _, row := range c.Grid {
		b.WriteString(string(row) + "\n")
	}
	return b.String()
}

// Viewport maps data coordinates onto canvas sub-pixels. Y grows
// upwards in data space and downwards on the canvas.
type Viewport struct {
	XMin, XMax float64
	YMin, YMax float64
	canvas     *Canvas
}

func NewViewport(c *Canvas, xmin, xmax, ymin, ymax float64) *Viewport {
	if xmax == xmin {
		xmax = xmin + 1
	}
	if ymax == ymin {
		ymax = ymin + 1
	}
	return &Viewport{XMin: xmin, XMax: xmax, YMin: ymin, YMax: ymax, canvas: c}
}

func (v *Viewport) pixel(x, y float64) (int, int) {
	w := v.canvas.Width * 2
	h := v.canvas.Height * 4
	px := int((x - v.XMin) / (v.XMax - v.XMin) * float64(w-1))
	py := h - 1 - int((y-v.YMin)/(v.YMax-v.YMin)*float64(h-1))
	return px, py
}

// Segment draws a line between two points in data coordinates.
func (v *Viewport) Segment(x0, y0, x1, y1 float64) {
	px0, py0 := v.pixel(x0, y0)
	px1, py1 := v.pixel(x1, y1)
	v.canvas.DrawLine(px0, py0, px1, py1)
}

func absInt(x int) int {
	if x < 0 {
		return -x
	}
	return x
}
