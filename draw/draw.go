// Package draw rasterizes pixels, lines, circles and rectangles into a pixel buffer.
//
// All operations are stateless and overwrite the destination pixels outright. Pixels
// that fall outside of the destination are clipped; only [Pixel] reports them.
package draw

import (
	"errors"
	"fmt"
	"image"

	"github.com/BeatGlow/gameboard/pixel"
)

// ErrInvalidGeometry is returned for shapes with a negative size. Nothing is drawn.
var ErrInvalidGeometry = errors.New("draw: invalid geometry")

// Target is the destination of a draw operation, typically a [*pixel.Buffer].
type Target interface {
	// Bounds of the drawable area.
	Bounds() image.Rectangle

	// SetPixel writes a single pixel, and fails with [pixel.ErrOutOfBounds] outside of Bounds.
	SetPixel(x, y int, c pixel.Color) error
}

var _ Target = (*pixel.Buffer)(nil)

// plotter clips against the target bounds before writing.
type plotter struct {
	dst    Target
	bounds image.Rectangle
	err    error
}

func newPlotter(dst Target) *plotter {
	return &plotter{dst: dst, bounds: dst.Bounds()}
}

func (p *plotter) plot(x, y int, c pixel.Color) {
	if p.err != nil || !(image.Point{X: x, Y: y}).In(p.bounds) {
		return
	}
	if err := p.dst.SetPixel(x, y, c); err != nil && !errors.Is(err, pixel.ErrOutOfBounds) {
		p.err = err
	}
}

func invalid(shape string, size ...int) error {
	return fmt.Errorf("%w: %s with size %v", ErrInvalidGeometry, shape, size)
}
