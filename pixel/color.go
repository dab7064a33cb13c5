package pixel

import (
	"fmt"
	"image/color"
	"math"
)

// Models for the standard color types.
var (
	ColorModel  color.Model = color.ModelFunc(colorModel)
	CRGB16Model color.Model = color.ModelFunc(crgb16Model)
)

// Common colors.
var (
	Black = FromRGB(0x00, 0x00, 0x00)
	White = FromRGB(0xff, 0xff, 0xff)
)

// Color is a color in both HSL and RGBA form.
//
// The two forms are derived from each other when the color is constructed and are
// never out of sync. The zero value is transparent black.
type Color struct {
	h, s, l    float64
	r, g, b, a uint8
}

// FromHSL returns the opaque color for hue in degrees and saturation and lightness
// in percent.
//
// Hue is wrapped into [0,360), saturation and lightness are clamped to [0,100].
func FromHSL(hue, saturation, lightness float64) Color {
	c := Color{
		h: wrapHue(hue),
		s: clampPercent(saturation),
		l: clampPercent(lightness),
		a: 0xff,
	}
	c.r, c.g, c.b = hslToRGB(c.h, c.s, c.l)
	return c
}

// FromRGB returns the opaque color with the given channels.
func FromRGB(red, green, blue uint8) Color {
	return FromRGBA(red, green, blue, 0xff)
}

// FromRGBA returns the color with the given channels. The alpha channel does not take
// part in the HSL conversion.
func FromRGBA(red, green, blue, alpha uint8) Color {
	c := Color{r: red, g: green, b: blue, a: alpha}
	c.h, c.s, c.l = rgbToHSL(red, green, blue)
	return c
}

// FromColor converts any color to a Color, by way of its non-premultiplied 8-bit form.
func FromColor(c color.Color) Color {
	if c, ok := c.(Color); ok {
		return c
	}
	n := color.NRGBAModel.Convert(c).(color.NRGBA)
	return FromRGBA(n.R, n.G, n.B, n.A)
}

func colorModel(c color.Color) color.Color {
	return FromColor(c)
}

// Invert returns the color diametrically opposed on the color wheel: the hue is rotated
// by 180° and the RGB form derived again. Saturation, lightness and alpha are unchanged.
func (c Color) Invert() Color {
	c.h = wrapHue(c.h + 180)
	c.r, c.g, c.b = hslToRGB(c.h, c.s, c.l)
	return c
}

// Hue in degrees, in [0,360).
func (c Color) Hue() float64 { return c.h }

// Saturation in percent.
func (c Color) Saturation() float64 { return c.s }

// Lightness in percent.
func (c Color) Lightness() float64 { return c.l }

// HSL returns hue, saturation and lightness.
func (c Color) HSL() (hue, saturation, lightness float64) {
	return c.h, c.s, c.l
}

func (c Color) Red() uint8   { return c.r }
func (c Color) Green() uint8 { return c.g }
func (c Color) Blue() uint8  { return c.b }
func (c Color) Alpha() uint8 { return c.a }

// RGBA implements [color.Color].
func (c Color) RGBA() (r, g, b, a uint32) {
	return color.NRGBA{R: c.r, G: c.g, B: c.b, A: c.a}.RGBA()
}

func (c Color) String() string {
	return fmt.Sprintf("hsl(%.1f,%.1f%%,%.1f%%) #%02x%02x%02x%02x", c.h, c.s, c.l, c.r, c.g, c.b, c.a)
}

func hslToRGB(hue, saturation, lightness float64) (r, g, b uint8) {
	var (
		h = hue / 360
		s = saturation / 100
		l = lightness / 100
	)
	if s == 0 {
		// achromatic
		v := channel(l)
		return v, v, v
	}

	var q float64
	if l < 0.5 {
		q = l * (1 + s)
	} else {
		q = l + s - l*s
	}
	p := 2*l - q

	return channel(hueToRGB(p, q, h+1.0/3)),
		channel(hueToRGB(p, q, h)),
		channel(hueToRGB(p, q, h-1.0/3))
}

func hueToRGB(p, q, t float64) float64 {
	if t < 0 {
		t += 1
	}
	if t > 1 {
		t -= 1
	}
	switch {
	case t < 1.0/6:
		return p + (q-p)*6*t
	case t < 1.0/2:
		return q
	case t < 2.0/3:
		return p + (q-p)*(2.0/3-t)*6
	default:
		return p
	}
}

func rgbToHSL(red, green, blue uint8) (h, s, l float64) {
	var (
		r  = float64(red) / 255
		g  = float64(green) / 255
		b  = float64(blue) / 255
		hi = math.Max(r, math.Max(g, b))
		lo = math.Min(r, math.Min(g, b))
	)
	l = (hi + lo) / 2
	if hi == lo {
		// achromatic
		return 0, 0, l * 100
	}

	d := hi - lo
	if l > 0.5 {
		s = d / (2 - hi - lo)
	} else {
		s = d / (hi + lo)
	}

	// Ties resolve in red, green, blue order.
	switch hi {
	case r:
		h = (g - b) / d
		if g < b {
			h += 6
		}
	case g:
		h = (b-r)/d + 2
	default:
		h = (r-g)/d + 4
	}

	return wrapHue(h / 6 * 360), s * 100, l * 100
}

// channel scales v in [0,1] to an 8-bit channel, rounding to nearest.
func channel(v float64) uint8 {
	v = math.Round(v * 255)
	switch {
	case v <= 0 || math.IsNaN(v):
		return 0
	case v >= 255:
		return 255
	}
	return uint8(v)
}

func wrapHue(h float64) float64 {
	if math.IsNaN(h) || math.IsInf(h, 0) {
		return 0
	}
	h = math.Mod(h, 360)
	if h < 0 {
		h += 360
	}
	if h >= 360 {
		h = 0
	}
	return h
}

func clampPercent(v float64) float64 {
	switch {
	case math.IsNaN(v) || v < 0:
		return 0
	case v > 100:
		return 100
	}
	return v
}

// CRGB16 represents a 16-bit 5-6-5 RGB color.
type CRGB16 struct {
	// CRed, 5, CGreen, 6, CBlue, 5
	V uint16
}

// PackCRGB16 reduces 8-bit channels to a 5-6-5 word.
func PackCRGB16(r, g, b uint8) CRGB16 {
	return CRGB16{uint16(r&0xf8)<<8 | uint16(g&0xfc)<<3 | uint16(b)>>3}
}

func (c CRGB16) RGBA() (r, g, b, a uint32) {
	// Build a 5- or 6-bit value at the top of the low byte of each component.
	red := (c.V & 0xF800) >> 8
	grn := (c.V & 0x07E0) >> 3
	blu := (c.V & 0x001F) << 3
	// Duplicate the high bits in the low bits.
	red |= red >> 5
	grn |= grn >> 6
	blu |= blu >> 5
	// Duplicate the whole value in the high byte.
	red |= red << 8
	grn |= grn << 8
	blu |= blu << 8
	return uint32(red), uint32(grn), uint32(blu), 0xffff
}

func crgb16Model(c color.Color) color.Color {
	switch c := c.(type) {
	case CRGB16:
		return c
	case Color:
		return PackCRGB16(c.r, c.g, c.b)
	default:
		r, g, b, _ := c.RGBA()
		r = (r & 0xF800)
		g = (g & 0xFC00) >> 5
		b = (b & 0xF800) >> 11
		return CRGB16{uint16(r | g | b)}
	}
}
