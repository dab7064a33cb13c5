// Package snapshot implements a surface that writes every painted frame to an image file.
package snapshot

import (
	"errors"
	"fmt"
	"image"
	"image/png"
	"io"
	"os"
	"path/filepath"
	"strings"

	"golang.org/x/image/bmp"
	"golang.org/x/image/draw"

	"github.com/BeatGlow/gameboard"
)

// Errors
var (
	ErrFormat = errors.New("snapshot: unsupported image format")
	ErrSize   = errors.New("snapshot: invalid size")
)

// Config is the snapshot surface configuration.
type Config struct {
	// Dir receives the files, it is created when missing.
	Dir string

	// Width of the frames in pixels.
	Width int

	// Height of the frames in pixels.
	Height int

	// Format is "png" or "bmp".
	Format string

	// Pattern is the fmt pattern of the file name without extension, fed the frame number.
	Pattern string

	// Scale enlarges the written images by an integer factor using nearest neighbour
	// sampling, zero and one keep the original size.
	Scale int
}

// DefaultConfig are the default configuration values.
var DefaultConfig = Config{
	Dir:     ".",
	Width:   500,
	Height:  500,
	Format:  "png",
	Pattern: "frame-%05d",
	Scale:   1,
}

type encodeFunc func(io.Writer, image.Image) error

// Surface writes frames to files.
type Surface struct {
	config Config
	encode encodeFunc
	frame  uint64
	scaled *image.RGBA
}

// New returns a snapshot surface. Empty configuration fields take their value from
// DefaultConfig.
func New(config *Config) (*Surface, error) {
	if config == nil {
		config = new(Config)
		*config = DefaultConfig
	}
	c := *config
	if c.Dir == "" {
		c.Dir = DefaultConfig.Dir
	}
	if c.Width == 0 {
		c.Width = DefaultConfig.Width
	}
	if c.Height == 0 {
		c.Height = DefaultConfig.Height
	}
	if c.Format == "" {
		c.Format = DefaultConfig.Format
	}
	if c.Pattern == "" {
		c.Pattern = DefaultConfig.Pattern
	}
	if c.Scale <= 0 {
		c.Scale = 1
	}
	if c.Width < 0 || c.Height < 0 {
		return nil, fmt.Errorf("%w %dx%d", ErrSize, c.Width, c.Height)
	}

	s := &Surface{config: c}
	switch c.Format = strings.ToLower(c.Format); c.Format {
	case "png":
		s.encode = png.Encode
	case "bmp":
		s.encode = bmp.Encode
	default:
		return nil, fmt.Errorf("%w %q", ErrFormat, c.Format)
	}
	if c.Scale > 1 {
		s.scaled = image.NewRGBA(image.Rect(0, 0, c.Width*c.Scale, c.Height*c.Scale))
	}

	if err := os.MkdirAll(c.Dir, 0o755); err != nil {
		return nil, err
	}
	gameboard.Logger().Info("snapshot surface opened", "dir", c.Dir, "format", c.Format, "scale", c.Scale)
	return s, nil
}

func (s *Surface) String() string {
	return fmt.Sprintf("snapshot %dx%d %s to %s", s.config.Width, s.config.Height, s.config.Format, s.config.Dir)
}

func (s *Surface) Size() image.Point {
	return image.Pt(s.config.Width, s.config.Height)
}

// Name returns the path frame n is written to.
func (s *Surface) Name(n uint64) string {
	return filepath.Join(s.config.Dir, fmt.Sprintf(s.config.Pattern, n)+"."+s.config.Format)
}

// Paint writes the frame to the next file.
func (s *Surface) Paint(pix []byte) error {
	var (
		w = s.config.Width
		h = s.config.Height
	)
	if len(pix) != w*h*4 {
		return fmt.Errorf("%w: got %d bytes for %dx%d", gameboard.ErrSizeMismatch, len(pix), w, h)
	}

	var img image.Image = &image.RGBA{
		Pix:    pix,
		Stride: w * 4,
		Rect:   image.Rect(0, 0, w, h),
	}
	if s.scaled != nil {
		draw.NearestNeighbor.Scale(s.scaled, s.scaled.Bounds(), img, img.Bounds(), draw.Src, nil)
		img = s.scaled
	}

	name := s.Name(s.frame)
	f, err := os.Create(name)
	if err != nil {
		return err
	}
	if err = s.encode(f, img); err != nil {
		_ = f.Close()
		return fmt.Errorf("snapshot: encode %s: %w", name, err)
	}
	if err = f.Close(); err != nil {
		return err
	}

	gameboard.Logger().Debug("snapshot written", "name", name)
	s.frame++
	return nil
}

// Close does nothing, every frame is written when painted.
func (s *Surface) Close() error {
	return nil
}

var _ gameboard.Surface = (*Surface)(nil)
