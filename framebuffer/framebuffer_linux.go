package framebuffer

import (
	"fmt"
	"image"
	"os"
	"unsafe"

	"golang.org/x/sys/unix"

	"github.com/BeatGlow/gameboard"
	"github.com/BeatGlow/gameboard/internal/ioctl"
)

const (
	// From <linux/fb.h>
	fbioGetVScreenInfo ioctl.Command = 0x4600
	fbioGetFScreenInfo ioctl.Command = 0x4602
)

// Surface is a Linux framebuffer device (fbdev).
type Surface struct {
	f          *os.File
	mem        []byte
	pix        []byte
	stride     int
	size       image.Point
	format     Format
	info       fixScreenInfo
	screenInfo varScreenInfo
}

// Open a Linux FrameBuffer device (fbdev) by name, typically /dev/fb[0..x].
func Open(name string) (*Surface, error) {
	f, err := os.OpenFile(name, os.O_RDWR, os.ModeDevice)
	if err != nil {
		return nil, err
	}

	fb := &Surface{f: f}
	if err = ioctl.Call(f.Fd(), fbioGetFScreenInfo, unsafe.Pointer(&fb.info)); err != nil {
		_ = f.Close()
		return nil, err
	}

	// Request virtual screen info.
	if err = ioctl.Call(f.Fd(), fbioGetVScreenInfo, unsafe.Pointer(&fb.screenInfo)); err != nil {
		_ = f.Close()
		return nil, err
	}
	if fb.format, err = parseFormat(&fb.screenInfo); err != nil {
		_ = f.Close()
		return nil, err
	}

	// Map pixel buffer.
	if fb.mem, err = unix.Mmap(int(f.Fd()), 0, int(fb.info.SmemLen), unix.PROT_READ|unix.PROT_WRITE, unix.MAP_SHARED); err != nil {
		_ = f.Close()
		return nil, err
	}

	fb.stride = int(fb.info.LineLength)
	fb.size = image.Pt(int(fb.screenInfo.Xres), int(fb.screenInfo.Yres))

	// Visible area of the virtual screen.
	offset := int(fb.screenInfo.Yoffset)*fb.stride + int(fb.screenInfo.Xoffset)*fb.format.BytesPerPixel()
	if need := offset + (fb.size.Y-1)*fb.stride + fb.size.X*fb.format.BytesPerPixel(); fb.size.X <= 0 || fb.size.Y <= 0 || need > len(fb.mem) {
		_ = unix.Munmap(fb.mem)
		_ = f.Close()
		return nil, fmt.Errorf("framebuffer: %s: mapped %d bytes, %dx%d screen needs %d", name, len(fb.mem), fb.size.X, fb.size.Y, need)
	}
	fb.pix = fb.mem[offset:]

	gameboard.Logger().Info("framebuffer opened",
		"name", name,
		"id", string(trimID(fb.info.ID[:])),
		"width", fb.size.X,
		"height", fb.size.Y,
		"format", fb.format.String(),
		"stride", fb.stride)
	return fb, nil
}

func trimID(id []byte) []byte {
	for i, c := range id {
		if c == 0 {
			return id[:i]
		}
	}
	return id
}

func (fb *Surface) String() string {
	return fmt.Sprintf("framebuffer %s %dx%d %s", fb.f.Name(), fb.size.X, fb.size.Y, fb.format)
}

// Size of the visible screen in pixels.
func (fb *Surface) Size() image.Point {
	return fb.size
}

// Format of the device pixels.
func (fb *Surface) Format() Format {
	return fb.format
}

// Paint converts the frame into device memory.
func (fb *Surface) Paint(pix []byte) error {
	if len(pix) != fb.size.X*fb.size.Y*4 {
		return fmt.Errorf("%w: got %d bytes for %dx%d", gameboard.ErrSizeMismatch, len(pix), fb.size.X, fb.size.Y)
	}
	convert(fb.pix, fb.stride, fb.format, pix, fb.size)
	return nil
}

// Close the framebuffer device
func (fb *Surface) Close() error {
	if err := unix.Munmap(fb.mem); err != nil {
		return err
	}
	return fb.f.Close()
}

var _ gameboard.Surface = (*Surface)(nil)
