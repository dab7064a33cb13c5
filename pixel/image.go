package pixel

import (
	"encoding/binary"
	"errors"
	"fmt"
	"image"
	"image/color"
	"image/draw"
	"math"
)

// Errors
var (
	ErrOutOfBounds = errors.New("pixel: out of buffer bounds")
	ErrInvalidSize = errors.New("pixel: invalid buffer size")
)

// BoundsError is returned when a coordinate falls outside of a buffer.
type BoundsError struct {
	X, Y int
	Rect image.Rectangle
}

func (err *BoundsError) Error() string {
	return fmt.Sprintf("pixel: (%d,%d) is outside of %s", err.X, err.Y, err.Rect)
}

// Is reports whether target is [ErrOutOfBounds].
func (err *BoundsError) Is(target error) bool {
	return target == ErrOutOfBounds
}

// Image is an image that can be cleared and filled with a single color.
type Image interface {
	draw.Image

	// Clear the image.
	Clear()

	// Fill the image with a single color.
	Fill(color.Color)
}

// Buffer is a fixed size image of packed 32-bit RGBA pixels.
//
// Every pixel is a word (alpha<<24)|(blue<<16)|(green<<8)|red stored in little endian
// byte order, so the raw bytes read red, green, blue, alpha for each pixel. A Buffer is
// not safe for concurrent use.
type Buffer struct {
	rect   image.Rectangle
	pix    []byte
	stride int
}

// NewBuffer allocates a zeroed buffer of width*height pixels.
func NewBuffer(width, height int) (*Buffer, error) {
	if width < 0 || height < 0 || (width > 0 && height > math.MaxInt/4/width) {
		return nil, fmt.Errorf("%w: %dx%d", ErrInvalidSize, width, height)
	}
	return &Buffer{
		rect:   image.Rect(0, 0, width, height),
		pix:    make([]byte, width*height*4),
		stride: width * 4,
	}, nil
}

// Pack returns the packed word for c.
func Pack(c Color) uint32 {
	return uint32(c.a)<<24 | uint32(c.b)<<16 | uint32(c.g)<<8 | uint32(c.r)
}

// Unpack returns the color for a packed word.
func Unpack(v uint32) Color {
	return FromRGBA(uint8(v), uint8(v>>8), uint8(v>>16), uint8(v>>24))
}

func (p *Buffer) Width() int  { return p.rect.Dx() }
func (p *Buffer) Height() int { return p.rect.Dy() }

func (p *Buffer) Bounds() image.Rectangle {
	return p.rect
}

func (p *Buffer) ColorModel() color.Model {
	return ColorModel
}

// PixOffset is the index of the first byte of the pixel at (x, y).
func (p *Buffer) PixOffset(x, y int) int {
	return y*p.stride + x*4
}

// SetPixel packs c into the pixel at (x, y). A coordinate outside of the buffer returns
// a [*BoundsError] and leaves the buffer untouched.
func (p *Buffer) SetPixel(x, y int, c Color) error {
	if !(image.Point{X: x, Y: y}).In(p.rect) {
		return &BoundsError{X: x, Y: y, Rect: p.rect}
	}
	binary.LittleEndian.PutUint32(p.pix[p.PixOffset(x, y):], Pack(c))
	return nil
}

// Packed returns the packed word at (x, y).
func (p *Buffer) Packed(x, y int) (uint32, error) {
	if !(image.Point{X: x, Y: y}).In(p.rect) {
		return 0, &BoundsError{X: x, Y: y, Rect: p.rect}
	}
	return binary.LittleEndian.Uint32(p.pix[p.PixOffset(x, y):]), nil
}

func (p *Buffer) At(x, y int) color.Color {
	v, err := p.Packed(x, y)
	if err != nil {
		return color.Transparent
	}
	return Unpack(v)
}

// Set implements [draw.Image]; pixels outside of the buffer are ignored.
func (p *Buffer) Set(x, y int, c color.Color) {
	_ = p.SetPixel(x, y, FromColor(c))
}

func (p *Buffer) Clear() {
	for i := range p.pix {
		p.pix[i] = 0x00
	}
}

func (p *Buffer) Fill(c color.Color) {
	var (
		value = Pack(FromColor(c))
		bytes = make([]byte, 4)
	)
	binary.LittleEndian.PutUint32(bytes, value)
	for i, l := 0, len(p.pix); i < l; i += 4 {
		copy(p.pix[i:], bytes)
	}
}

// Present returns the raw pixel bytes, four per pixel in red, green, blue, alpha order.
//
// The slice aliases the buffer: it is only valid until the next draw call.
func (p *Buffer) Present() []byte {
	return p.pix
}

// RGBA returns an [image.RGBA] sharing the pixel memory of p.
func (p *Buffer) RGBA() *image.RGBA {
	return &image.RGBA{
		Pix:    p.pix,
		Stride: p.stride,
		Rect:   p.rect,
	}
}

// CRGB16Image is a 16-bits per pixel 5-6-5-bit RGB image.
type CRGB16Image struct {
	// Rect is the image bounding box.
	Rect image.Rectangle

	// Pix are the image pixels.
	Pix []byte

	// Stride is the Pix stride (in bytes) between vertically adjacent pixels.
	Stride int

	// Order of the two bytes of a pixel.
	Order binary.ByteOrder
}

func NewCRGB16Image(w, h int) *CRGB16Image {
	return &CRGB16Image{
		Rect:   image.Rect(0, 0, w, h),
		Pix:    make([]byte, w*2*h),
		Stride: w * 2,
		Order:  binary.BigEndian,
	}
}

func (p *CRGB16Image) Bounds() image.Rectangle {
	return p.Rect
}

func (p *CRGB16Image) ColorModel() color.Model {
	return CRGB16Model
}

func (p *CRGB16Image) At(x, y int) color.Color {
	if !(image.Point{X: x, Y: y}).In(p.Rect) {
		return color.Transparent
	}

	v := p.Order.Uint16(p.Pix[x*2+y*p.Stride:])
	return CRGB16{v}
}

func (p *CRGB16Image) Set(x, y int, c color.Color) {
	if !(image.Point{X: x, Y: y}).In(p.Rect) {
		return
	}

	v := crgb16Model(c).(CRGB16).V
	p.Order.PutUint16(p.Pix[x*2+y*p.Stride:], v)
}

func (p *CRGB16Image) Clear() {
	for i := range p.Pix {
		p.Pix[i] = 0x00
	}
}

func (p *CRGB16Image) Fill(c color.Color) {
	value := crgb16Model(c).(CRGB16).V
	bytes := make([]byte, 2)
	p.Order.PutUint16(bytes, value)
	for i, l := 0, len(p.Pix); i < l; i += 2 {
		copy(p.Pix[i:], bytes)
	}
}

// CopyRGBA converts a frame of red, green, blue, alpha bytes with the same dimensions
// as p. Alpha is dropped; excess source or destination pixels are left alone.
func (p *CRGB16Image) CopyRGBA(src []byte) {
	var (
		w = p.Rect.Dx()
		h = p.Rect.Dy()
	)
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			i := (y*w + x) * 4
			if i+3 >= len(src) {
				return
			}
			v := PackCRGB16(src[i], src[i+1], src[i+2]).V
			p.Order.PutUint16(p.Pix[x*2+y*p.Stride:], v)
		}
	}
}

// Interface checks.
var (
	_ Image = (*Buffer)(nil)
	_ Image = (*CRGB16Image)(nil)
)
