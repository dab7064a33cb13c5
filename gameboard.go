// Package gameboard draws shapes into an owned pixel buffer and paints it onto a display
// surface.
//
// The rasterizer itself lives in the draw package and the color model and buffer in the
// pixel package; a [Board] ties a buffer to a [Surface]. Sub-packages provide surfaces
// for the Linux framebuffer, SPI panels, desktop windows and image files.
package gameboard

import (
	"errors"
	"fmt"
	"image"

	"github.com/BeatGlow/gameboard/draw"
	"github.com/BeatGlow/gameboard/pixel"
)

// Errors
var (
	ErrNoSurface    = errors.New("gameboard: no surface")
	ErrSizeMismatch = errors.New("gameboard: frame size does not match surface")
)

// Surface is a display that shows painted frames.
type Surface interface {
	// Size of the surface in pixels.
	Size() image.Point

	// Paint shows a frame of Size().X*Size().Y pixels, four bytes each in red, green,
	// blue, alpha order. The surface must not retain pix after returning.
	Paint(pix []byte) error

	// Close the surface.
	Close() error
}

// Board owns a pixel buffer and the surface it is painted on.
//
// A Board is not safe for concurrent use: every draw call and Paint of a frame must
// complete before the next frame starts.
type Board struct {
	buf     *pixel.Buffer
	surface Surface
	frames  uint64
}

// New returns a board with a buffer the size of the surface.
func New(s Surface) (*Board, error) {
	if s == nil {
		return nil, ErrNoSurface
	}
	size := s.Size()
	return NewWithSize(size.X, size.Y, s)
}

// NewWithSize returns a board with a buffer of width*height pixels. The surface may be
// nil for offscreen drawing, in which case Paint fails with [ErrNoSurface].
func NewWithSize(width, height int, s Surface) (*Board, error) {
	buf, err := pixel.NewBuffer(width, height)
	if err != nil {
		return nil, err
	}
	if s != nil {
		if size := s.Size(); size != buf.Bounds().Size() {
			return nil, fmt.Errorf("%w: buffer %dx%d, surface %s", ErrSizeMismatch, width, height, size)
		}
	}
	Logger().Debug("board created", "width", width, "height", height)
	return &Board{
		buf:     buf,
		surface: s,
	}, nil
}

// Buffer is the pixel buffer drawn into.
func (b *Board) Buffer() *pixel.Buffer {
	return b.buf
}

// Surface the board paints on, nil for offscreen boards.
func (b *Board) Surface() Surface {
	return b.surface
}

func (b *Board) Bounds() image.Rectangle {
	return b.buf.Bounds()
}

// DrawPixel sets a single pixel; a pixel outside of the board is an error.
func (b *Board) DrawPixel(x, y int, c pixel.Color) error {
	return draw.Pixel(b.buf, x, y, c)
}

// DrawLine draws a line between (x0, y0) and (x1, y1).
func (b *Board) DrawLine(x0, y0, x1, y1 int, c pixel.Color) error {
	return draw.Line(b.buf, x0, y0, x1, y1, c)
}

// DrawCircleOutline draws a ring of the given radius.
func (b *Board) DrawCircleOutline(x, y, radius int, c pixel.Color) error {
	return draw.CircleOutline(b.buf, x, y, radius, c)
}

// DrawCircleFilled draws a disc of the given diameter, see [draw.CircleFilled].
func (b *Board) DrawCircleFilled(x, y, diameter int, c pixel.Color) error {
	return draw.CircleFilled(b.buf, x, y, diameter, c)
}

// DrawRectangle draws a filled rectangle centered at (x, y).
func (b *Board) DrawRectangle(x, y, w, h int, c pixel.Color) error {
	return draw.Rectangle(b.buf, x, y, w, h, c)
}

// Clear the board to transparent black.
func (b *Board) Clear() {
	b.buf.Clear()
}

// Fill the board with a single color.
func (b *Board) Fill(c pixel.Color) {
	b.buf.Fill(c)
}

// Paint hands the current buffer to the surface.
func (b *Board) Paint() error {
	if b.surface == nil {
		return ErrNoSurface
	}
	if err := b.surface.Paint(b.buf.Present()); err != nil {
		return fmt.Errorf("gameboard: paint frame %d: %w", b.frames, err)
	}
	b.frames++
	return nil
}

// Frames is the number of frames painted so far.
func (b *Board) Frames() uint64 {
	return b.frames
}

// Close the surface.
func (b *Board) Close() error {
	if b.surface == nil {
		return nil
	}
	return b.surface.Close()
}
