package draw

import (
	"image"
	"math"
	"math/bits"

	"github.com/BeatGlow/gameboard/pixel"
)

// Pixel sets the pixel at (x, y). Unlike the shape operations, a pixel outside of dst
// is an error matching [pixel.ErrOutOfBounds].
func Pixel(dst Target, x, y int, c pixel.Color) error {
	return dst.SetPixel(x, y, c)
}

// Line draws a line between (x0, y0) and (x1, y1), both included.
func Line(dst Target, x0, y0, x1, y1 int, c pixel.Color) error {
	p := newPlotter(dst)
	bresenham(p, x0, y0, x1, y1, c)
	return p.err
}

// LineP draws a line between two points.
func LineP(dst Target, a, b image.Point, c pixel.Color) error {
	return Line(dst, a.X, a.Y, b.X, b.Y, c)
}

// CircleOutline draws a one pixel wide ring around (cx, cy).
func CircleOutline(dst Target, cx, cy, radius int, c pixel.Color) error {
	if radius < 0 {
		return invalid("circle", radius)
	}
	p := newPlotter(dst)
	midpointCircle(p, cx, cy, radius, c)
	return p.err
}

// CircleFilled draws a disc centered at (cx, cy).
//
// Note that the size is a diameter, where [CircleOutline] takes a radius: a filled circle
// and an outline drawn with the same number do not line up. The disc covers the box
// starting at (cx-diameter/2, cy-diameter/2) that is diameter pixels wide and high, and
// includes every point within diameter/2 of the center.
func CircleFilled(dst Target, cx, cy, diameter int, c pixel.Color) error {
	if diameter < 0 {
		return invalid("disc", diameter)
	}

	var (
		p    = newPlotter(dst)
		half = diameter / 2
		box  = image.Rect(
			sub(cx, half), sub(cy, half),
			add(cx, diameter-half), add(cy, diameter-half),
		).Intersect(p.bounds)
	)
	for y := box.Min.Y; y < box.Max.Y; y++ {
		dy := cy - y
		for x := box.Min.X; x < box.Max.X; x++ {
			if inDisc(cx-x, dy, diameter) {
				p.plot(x, y, c)
			}
		}
	}
	return p.err
}

// Rectangle draws a filled rectangle centered at (cx, cy). The low edges are included,
// the high edges are not: the box spans [cx-width/2, cx-width/2+width) horizontally.
func Rectangle(dst Target, cx, cy, width, height int, c pixel.Color) error {
	if width < 0 || height < 0 {
		return invalid("rectangle", width, height)
	}

	var (
		p   = newPlotter(dst)
		box = image.Rect(
			sub(cx, width/2), sub(cy, height/2),
			add(cx, width-width/2), add(cy, height-height/2),
		).Intersect(p.bounds)
	)
	for y := box.Min.Y; y < box.Max.Y; y++ {
		for x := box.Min.X; x < box.Max.X; x++ {
			p.plot(x, y, c)
		}
	}
	return p.err
}

// bresenham visits every lattice point between both ends exactly once, in any octant.
func bresenham(p *plotter, x0, y0, x1, y1 int, c pixel.Color) {
	var (
		dx  = abs(x1 - x0)
		dy  = abs(y1 - y0)
		sx  = 1
		sy  = 1
		err = dx - dy
	)
	if x0 > x1 {
		sx = -1
	}
	if y0 > y1 {
		sy = -1
	}

	for {
		p.plot(x0, y0, c)
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

// midpointCircle plots the eight symmetric octants of a circle, keeping the decision
// criterion divided by two.
func midpointCircle(p *plotter, x0, y0, radius int, c pixel.Color) {
	var (
		x        = radius
		y        = 0
		decision = 1 - radius
	)
	for x >= y {
		p.plot(x0+x, y0+y, c)
		p.plot(x0+y, y0+x, c)
		p.plot(x0-x, y0+y, c)
		p.plot(x0-y, y0+x, c)
		p.plot(x0-x, y0-y, c)
		p.plot(x0-y, y0-x, c)
		p.plot(x0+x, y0-y, c)
		p.plot(x0+y, y0-x, c)

		y++
		if decision <= 0 {
			decision += 2*y + 1
		} else {
			x--
			decision += 2*(y-x) + 1
		}
	}
}

// inDisc reports whether dx²+dy² <= diameter²/4, compared as 4(dx²+dy²) <= diameter² in
// 128-bit arithmetic.
func inDisc(dx, dy, diameter int) bool {
	var (
		xh, xl = bits.Mul64(uint64(abs(dx)), uint64(abs(dx)))
		yh, yl = bits.Mul64(uint64(abs(dy)), uint64(abs(dy)))
		dh, dl = bits.Mul64(uint64(diameter), uint64(diameter))
	)
	sl, carry := bits.Add64(xl, yl, 0)
	sh, _ := bits.Add64(xh, yh, carry)
	sh, sl = sh<<2|sl>>62, sl<<2
	return sh < dh || (sh == dh && sl <= dl)
}

// add returns a+b for b >= 0, saturating at math.MaxInt.
func add(a, b int) int {
	if a > math.MaxInt-b {
		return math.MaxInt
	}
	return a + b
}

// sub returns a-b for b >= 0, saturating at math.MinInt.
func sub(a, b int) int {
	if a < math.MinInt+b {
		return math.MinInt
	}
	return a - b
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}
