// Package window shows a board in a desktop window using Ebitengine.
//
// Create a [Surface], build the board on it and hand both to [Run], which owns the
// calling goroutine until the window is closed:
//
//	s := window.New(320, 240)
//	b, _ := gameboard.New(s)
//	err := window.Run(nil, b, frame)
package window

import (
	"errors"
	"fmt"
	"image"
	"sync"

	"github.com/hajimehoshi/ebiten/v2"

	"github.com/BeatGlow/gameboard"
)

// ErrNoWindow is returned by Run for boards that do not paint on a window Surface.
var ErrNoWindow = errors.New("window: board does not paint on a window surface")

// Config is the window configuration.
type Config struct {
	// Title of the window.
	Title string

	// Scale enlarges the window by an integer factor.
	Scale int

	// TPS is the number of frames per second.
	TPS int
}

// DefaultConfig are the default configuration values.
var DefaultConfig = Config{
	Title: "gameboard",
	Scale: 1,
	TPS:   60,
}

// Surface keeps the last painted frame until the window draws it.
type Surface struct {
	mu     sync.Mutex
	size   image.Point
	pix    []byte
	dirty  bool
	closed bool
}

// New returns a window surface of width*height pixels.
func New(width, height int) *Surface {
	if width < 0 {
		width = 0
	}
	if height < 0 {
		height = 0
	}
	return &Surface{
		size: image.Pt(width, height),
		pix:  make([]byte, width*height*4),
	}
}

func (s *Surface) String() string {
	return fmt.Sprintf("window %dx%d", s.size.X, s.size.Y)
}

func (s *Surface) Size() image.Point {
	return s.size
}

// Paint copies the frame, it is shown on the next window refresh.
func (s *Surface) Paint(pix []byte) error {
	if len(pix) != len(s.pix) {
		return fmt.Errorf("%w: got %d bytes for %dx%d", gameboard.ErrSizeMismatch, len(pix), s.size.X, s.size.Y)
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	copy(s.pix, pix)
	s.dirty = true
	return nil
}

// Close makes the window quit after the current frame.
func (s *Surface) Close() error {
	s.mu.Lock()
	s.closed = true
	s.mu.Unlock()
	return nil
}

func (s *Surface) isClosed() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.closed
}

// frame calls fn with the last painted frame if it has not been seen yet.
func (s *Surface) frame(fn func(pix []byte)) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.dirty {
		fn(s.pix)
		s.dirty = false
	}
}

// Run opens the window and calls frame followed by a paint on every tick until the
// window is closed, Escape is pressed or frame fails.
func Run(config *Config, b *gameboard.Board, frame gameboard.FrameFunc) error {
	if b == nil || frame == nil {
		return errors.New("window: run needs a board and a frame function")
	}
	s, ok := b.Surface().(*Surface)
	if !ok {
		return ErrNoWindow
	}

	c := DefaultConfig
	if config != nil {
		c = *config
	}
	if c.Title == "" {
		c.Title = DefaultConfig.Title
	}
	if c.Scale <= 0 {
		c.Scale = 1
	}
	if c.TPS <= 0 {
		c.TPS = DefaultConfig.TPS
	}

	ebiten.SetWindowTitle(c.Title)
	ebiten.SetWindowSize(s.size.X*c.Scale, s.size.Y*c.Scale)
	ebiten.SetTPS(c.TPS)

	gameboard.Logger().Info("window opened", "title", c.Title, "width", s.size.X, "height", s.size.Y, "scale", c.Scale, "tps", c.TPS)
	g := &game{board: b, surface: s, frame: frame}
	if err := ebiten.RunGame(g); err != nil {
		return err
	}
	gameboard.Logger().Info("window closed", "frames", g.n)
	return nil
}

type game struct {
	board   *gameboard.Board
	surface *Surface
	frame   gameboard.FrameFunc
	image   *ebiten.Image
	n       uint64
}

func (g *game) Update() error {
	return g.step(ebiten.IsKeyPressed(ebiten.KeyEscape))
}

// step draws and paints the next frame, quit ends the game.
func (g *game) step(quit bool) error {
	if quit || g.surface.isClosed() {
		return ebiten.Termination
	}
	if err := g.frame(g.board, g.n); err != nil {
		return fmt.Errorf("window: frame %d: %w", g.n, err)
	}
	if err := g.board.Paint(); err != nil {
		return err
	}
	g.n++
	return nil
}

func (g *game) Draw(screen *ebiten.Image) {
	if g.image == nil {
		g.image = ebiten.NewImage(g.surface.size.X, g.surface.size.Y)
	}
	g.surface.frame(g.image.WritePixels)
	screen.DrawImage(g.image, nil)
}

func (g *game) Layout(_, _ int) (int, int) {
	return g.surface.size.X, g.surface.size.Y
}

var _ gameboard.Surface = (*Surface)(nil)
