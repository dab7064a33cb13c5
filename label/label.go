// Package label renders text onto images with a TrueType font.
//
// Text is anti-aliased and composited over the destination; use it for overlays such as
// frame counters, not for the pixel exact shapes of the draw package.
package label

import (
	"image"
	"image/color"
	"image/draw"

	"github.com/golang/freetype"
	"github.com/golang/freetype/truetype"
	"golang.org/x/image/font"
	"golang.org/x/image/font/gofont/gomono"
)

// DefaultSize is the default font size in points.
const DefaultSize = 12

// Writer draws single lines of text.
type Writer struct {
	font *truetype.Font
	face font.Face
	size float64
	ctx  *freetype.Context
}

// New returns a writer using Go Mono at size points (72 DPI, so points equal pixels).
func New(size float64) (*Writer, error) {
	f, err := freetype.ParseFont(gomono.TTF)
	if err != nil {
		return nil, err
	}
	return NewWithFont(f, size), nil
}

// NewWithFont returns a writer using f.
func NewWithFont(f *truetype.Font, size float64) *Writer {
	if size <= 0 {
		size = DefaultSize
	}
	ctx := freetype.NewContext()
	ctx.SetDPI(72)
	ctx.SetFont(f)
	ctx.SetFontSize(size)
	ctx.SetHinting(font.HintingFull)
	return &Writer{
		font: f,
		face: truetype.NewFace(f, &truetype.Options{Size: size, DPI: 72, Hinting: font.HintingFull}),
		size: size,
		ctx:  ctx,
	}
}

// Bounds returns the box text occupies when drawn with its top left corner at pt.
func (w *Writer) Bounds(pt image.Point, text string) image.Rectangle {
	var (
		metrics = w.face.Metrics()
		width   = font.MeasureString(w.face, text).Ceil()
		height  = (metrics.Ascent + metrics.Descent).Ceil()
	)
	return image.Rectangle{Min: pt, Max: pt.Add(image.Pt(width, height))}
}

// Draw text onto dst with its top left corner at pt. Glyphs are clipped to dst.
func (w *Writer) Draw(dst draw.Image, pt image.Point, text string, c color.Color) error {
	w.ctx.SetDst(dst)
	w.ctx.SetClip(dst.Bounds())
	w.ctx.SetSrc(image.NewUniform(c))

	baseline := freetype.Pt(pt.X, pt.Y)
	baseline.Y += w.face.Metrics().Ascent
	_, err := w.ctx.DrawString(text, baseline)
	return err
}
