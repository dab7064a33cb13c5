//go:build !linux

package framebuffer

import "image"

// Surface is a framebuffer device.
type Surface struct{}

// Open is not supported on this platform.
func Open(_ string) (*Surface, error) {
	return nil, ErrNotSupported
}

func (fb *Surface) Size() image.Point    { return image.Point{} }
func (fb *Surface) Format() Format       { return UnknownFormat }
func (fb *Surface) Paint(_ []byte) error { return ErrNotSupported }
func (fb *Surface) Close() error         { return nil }
