// Package framebuffer provides a surface on the operating system's native framebuffer.
//
// This requires framebuffer device support in the operating system. The framebuffer
// can be opened with the [Open] call, and will otherwise function like a regular
// surface. Frames are converted to the pixel layout of the device when painted.
package framebuffer

import (
	"encoding/binary"
	"errors"
	"fmt"
	"image"

	"github.com/BeatGlow/gameboard/pixel"
)

// Errors
var (
	ErrNotSupported      = errors.New("framebuffer: not supported")
	ErrUnsupportedFormat = errors.New("framebuffer: unsupported pixel format")
)

// Format is the pixel layout of a framebuffer device.
type Format uint8

// Supported formats.
const (
	UnknownFormat Format = iota
	RGBA32               // bytes red, green, blue, alpha
	BGRA32               // bytes blue, green, red, alpha
	RGB565               // 16-bit little endian words, red in the high bits
)

func (f Format) String() string {
	switch f {
	case RGBA32:
		return "RGBA32"
	case BGRA32:
		return "BGRA32"
	case RGB565:
		return "RGB565"
	default:
		return "unknown"
	}
}

// BytesPerPixel of the format.
func (f Format) BytesPerPixel() int {
	switch f {
	case RGBA32, BGRA32:
		return 4
	case RGB565:
		return 2
	default:
		return 0
	}
}

// bitField describes one color channel (fb_bitfield).
type bitField struct {
	Offset   uint32 // Beginning of bitfield
	Length   uint32 // Length of bitfield
	MsbRight uint32 // != 0 : Most significant bit is right
}

// fixScreenInfo is fb_fix_screeninfo from <linux/fb.h>.
type fixScreenInfo struct {
	ID         [16]byte  // Identification string eg "TT Builtin"
	SmemStart  uintptr   // Start of frame buffer mem
	SmemLen    uint32    // Length of frame buffer mem
	Type       uint32    // FB_TYPE_
	TypeAux    uint32    // Interleave for interleaved Planes
	Visual     uint32    // FB_VISUAL_
	Xpanstep   uint16    // Zero if no hardware panning
	Ypanstep   uint16    // Zero if no hardware panning
	Ywrapstep  uint16    // Zero if no hardware ywrap
	LineLength uint32    // Length of a line in bytes
	MmioStart  uintptr   // Start of Memory Mapped I/O (physical address)
	MmioLen    uint32    // Length of Memory Mapped I/O
	Accel      uint32    // Type of acceleration available
	Reserved   [3]uint16 // Reserved for future compatibility
}

// varScreenInfo is fb_var_screeninfo from <linux/fb.h>.
type varScreenInfo struct {
	Xres                    uint32
	Yres                    uint32
	XresVirtual             uint32
	YresVirtual             uint32
	Xoffset                 uint32
	Yoffset                 uint32
	BitsPerPixel            uint32
	Grayscale               uint32
	Red, Green, Blue, Alpha bitField
	Nonstd                  uint32
	Activate                uint32
	Height                  uint32
	Width                   uint32
	AccelFlags              uint32
	Pixclock                uint32
	LeftMargin              uint32
	RightMargin             uint32
	UpperMargin             uint32
	LowerMargin             uint32
	HsyncLen                uint32
	VsyncLen                uint32
	Sync                    uint32
	Vmode                   uint32
	Rotate                  uint32
	Colorspace              uint32
	Reserved                [4]uint32
}

func parseFormat(info *varScreenInfo) (Format, error) {
	if info == nil {
		return UnknownFormat, errors.New("framebuffer: invalid screen info")
	}

	switch info.BitsPerPixel {
	case 16:
		if info.Red.Offset == 11 && info.Red.Length == 5 &&
			info.Green.Offset == 5 && info.Green.Length == 6 &&
			info.Blue.Offset == 0 && info.Blue.Length == 5 {
			return RGB565, nil
		}

	case 32:
		if info.Green.Offset != 8 || info.Green.Length != 8 || info.Red.Length != 8 || info.Blue.Length != 8 {
			break
		}
		switch {
		case info.Red.Offset == 0 && info.Blue.Offset == 16:
			return RGBA32, nil
		case info.Red.Offset == 16 && info.Blue.Offset == 0:
			return BGRA32, nil
		}
	}

	return UnknownFormat, fmt.Errorf("%w: %d bpp red %d:%d green %d:%d blue %d:%d", ErrUnsupportedFormat,
		info.BitsPerPixel,
		info.Red.Offset, info.Red.Length,
		info.Green.Offset, info.Green.Length,
		info.Blue.Offset, info.Blue.Length)
}

// convert writes a frame of red, green, blue, alpha bytes of size into dst, which holds
// rows of stride bytes in the given format.
func convert(dst []byte, stride int, format Format, src []byte, size image.Point) {
	switch format {
	case RGB565:
		(&pixel.CRGB16Image{
			Rect:   image.Rectangle{Max: size},
			Pix:    dst,
			Stride: stride,
			Order:  binary.LittleEndian,
		}).CopyRGBA(src)

	case RGBA32:
		for y := 0; y < size.Y; y++ {
			copy(dst[y*stride:y*stride+size.X*4], src[y*size.X*4:])
		}

	case BGRA32:
		for y := 0; y < size.Y; y++ {
			var (
				row = dst[y*stride : y*stride+size.X*4]
				in  = src[y*size.X*4:]
			)
			for i := 0; i < len(row); i += 4 {
				row[i+0] = in[i+2]
				row[i+1] = in[i+1]
				row[i+2] = in[i+0]
				row[i+3] = in[i+3]
			}
		}
	}
}
