package pixel

import (
	"errors"
	"image"
	"image/color"
	"math"
	"math/rand"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestBuffer(t *testing.T) {
	testImage(t, func(size image.Point) Image {
		b, err := NewBuffer(size.X, size.Y)
		if err != nil {
			t.Fatal(err)
		}
		return b
	}, ColorModel)
}

func TestCRGB16Image(t *testing.T) {
	testImage(t, func(size image.Point) Image {
		return NewCRGB16Image(size.X, size.Y)
	}, CRGB16Model)
}

func TestNewBuffer(t *testing.T) {
	for _, size := range []image.Point{
		image.Pt(-1, 1),
		image.Pt(1, -1),
		image.Pt(math.MaxInt, 2),
		image.Pt(math.MaxInt/2, 3),
	} {
		if _, err := NewBuffer(size.X, size.Y); !errors.Is(err, ErrInvalidSize) {
			t.Errorf("%s: expected ErrInvalidSize, got %v", size, err)
		}
	}

	b, err := NewBuffer(3, 2)
	if err != nil {
		t.Fatal(err)
	}
	if b.Width() != 3 || b.Height() != 2 {
		t.Errorf("expected 3x2 buffer, got %dx%d", b.Width(), b.Height())
	}
	if v := len(b.Present()); v != 3*2*4 {
		t.Errorf("expected %d bytes, got %d", 3*2*4, v)
	}
	for i, v := range b.Present() {
		if v != 0 {
			t.Fatalf("expected zeroed buffer, byte %d is %#02x", i, v)
		}
	}
}

func TestBufferSetPixel(t *testing.T) {
	b, err := NewBuffer(4, 3)
	if err != nil {
		t.Fatal(err)
	}

	c := FromRGB(0x11, 0x22, 0x33)
	if err = b.SetPixel(3, 2, c); err != nil {
		t.Fatalf("expected corner to be writable, got %v", err)
	}
	v, err := b.Packed(3, 2)
	if err != nil {
		t.Fatal(err)
	}
	if want := uint32(0xff<<24 | 0x33<<16 | 0x22<<8 | 0x11); v != want {
		t.Errorf("expected packed value %#08x, got %#08x", want, v)
	}

	before := append([]byte(nil), b.Present()...)
	for _, p := range []image.Point{{4, 0}, {-1, 0}, {0, 3}, {0, -1}, {4, 3}} {
		err := b.SetPixel(p.X, p.Y, c)
		if !errors.Is(err, ErrOutOfBounds) {
			t.Errorf("%s: expected ErrOutOfBounds, got %v", p, err)
		}
		var boundsErr *BoundsError
		if !errors.As(err, &boundsErr) || boundsErr.X != p.X || boundsErr.Y != p.Y {
			t.Errorf("%s: expected BoundsError for the coordinate, got %v", p, err)
		}
		if _, err = b.Packed(p.X, p.Y); !errors.Is(err, ErrOutOfBounds) {
			t.Errorf("%s: expected ErrOutOfBounds reading, got %v", p, err)
		}
	}
	if diff := cmp.Diff(before, b.Present()); diff != "" {
		t.Errorf("expected buffer to be unmodified (-want +got):\n%s", diff)
	}
}

func TestBufferPresent(t *testing.T) {
	b, err := NewBuffer(2, 1)
	if err != nil {
		t.Fatal(err)
	}
	_ = b.SetPixel(0, 0, FromRGBA(0x01, 0x02, 0x03, 0x04))
	_ = b.SetPixel(1, 0, FromRGB(0xaa, 0xbb, 0xcc))

	want := []byte{
		0x01, 0x02, 0x03, 0x04,
		0xaa, 0xbb, 0xcc, 0xff,
	}
	if diff := cmp.Diff(want, b.Present()); diff != "" {
		t.Errorf("unexpected bytes (-want +got):\n%s", diff)
	}

	if v := b.RGBA().RGBAAt(1, 0); v != (color.RGBA{R: 0xaa, G: 0xbb, B: 0xcc, A: 0xff}) {
		t.Errorf("expected RGBA view to share pixels, got %v", v)
	}
}

func TestPack(t *testing.T) {
	c := FromRGBA(0x12, 0x34, 0x56, 0x78)
	v := Pack(c)
	if want := uint32(0x78563412); v != want {
		t.Errorf("expected %#08x, got %#08x", want, v)
	}
	if u := Unpack(v); u != c {
		t.Errorf("expected %s, got %s", c, u)
	}
}

func TestCRGB16ImageCopyRGBA(t *testing.T) {
	b, err := NewBuffer(2, 2)
	if err != nil {
		t.Fatal(err)
	}
	_ = b.SetPixel(0, 0, FromRGB(0xff, 0x00, 0x00))
	_ = b.SetPixel(1, 0, FromRGB(0x00, 0xff, 0x00))
	_ = b.SetPixel(0, 1, FromRGB(0x00, 0x00, 0xff))
	_ = b.SetPixel(1, 1, White)

	i := NewCRGB16Image(2, 2)
	i.CopyRGBA(b.Present())
	want := []byte{
		0xf8, 0x00, 0x07, 0xe0,
		0x00, 0x1f, 0xff, 0xff,
	}
	if diff := cmp.Diff(want, i.Pix); diff != "" {
		t.Errorf("unexpected RGB565 bytes (-want +got):\n%s", diff)
	}
}

func testImage(t *testing.T, f func(image.Point) Image, model color.Model) {
	t.Helper()
	testCases := []image.Point{
		{},
		image.Pt(1, 1),
		image.Pt(2, 2),
		image.Pt(256, 32),
		image.Pt(320, 240),
	}
	for _, test := range testCases {
		t.Run(test.String(), func(it *testing.T) {
			i := f(test)

			if v := i.Bounds().Size(); !v.Eq(test) {
				it.Errorf("expected image size %s, got %s", test, v)
			}

			if v := i.ColorModel(); v != model {
				it.Errorf("expected color model %T, got %T", model, v)
			}

			it.Run("in-bounds", func(itt *testing.T) {
				for y := 0; y < test.Y; y++ {
					for x := 0; x < test.X; x++ {
						c := testRandomColor()
						i.Set(x, y, c)
						if v := i.ColorModel().Convert(c); i.At(x, y) != v {
							itt.Fatalf("pixel (%d,%d) is %#+v, expected %#+v (%v)", x, y, i.At(x, y), v, c)
							return
						}
					}
				}
			})

			it.Run("out-bounds", func(itt *testing.T) {
				for y := -test.Y; y < test.Y*2; y++ {
					for x := -test.X; x < test.X*2; x++ {
						i.Set(x, y, testRandomColor())
						if x < 0 || y < 0 || x >= test.X || y >= test.Y {
							if v := i.At(x, y); v != color.Transparent {
								itt.Fatalf("pixel (%d,%d) is %#+v, expected transparent", x, y, v)
								return
							}
						}
					}
				}
			})

			it.Run("fill", func(itt *testing.T) {
				c := testRandomColor()
				i.Fill(c)
				if test.X > 0 && test.Y > 0 {
					x := rand.Intn(test.X)
					y := rand.Intn(test.Y)
					if v := i.ColorModel().Convert(c); i.At(x, y) != v {
						itt.Fatalf("pixel (%d,%d) is %#+v, expected %#+v (%v)", x, y, i.At(x, y), v, c)
						return
					}
				}
			})

			it.Run("clear", func(itt *testing.T) {
				i.Clear()
				if test.X > 0 && test.Y > 0 {
					x := rand.Intn(test.X)
					y := rand.Intn(test.Y)
					if r, g, b, _ := i.At(x, y).RGBA(); r|g|b != 0 {
						itt.Fatalf("pixel (%d,%d) is not black", x, y)
					}
				}
			})
		})
	}
}

func testRandomColor() color.Color {
	return color.RGBA{
		R: uint8(rand.Intn(255)),
		G: uint8(rand.Intn(255)),
		B: uint8(rand.Intn(255)),
		A: 0xFF,
	}
}
