package window

import (
	"errors"
	"image"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/hajimehoshi/ebiten/v2"

	"github.com/BeatGlow/gameboard"
	"github.com/BeatGlow/gameboard/pixel"
)

func TestSurface(t *testing.T) {
	s := New(2, 1)
	if v := s.Size(); v != image.Pt(2, 1) {
		t.Errorf("expected size 2x1, got %s", v)
	}

	var calls int
	s.frame(func([]byte) { calls++ })
	if calls != 0 {
		t.Error("expected no frame before the first paint")
	}

	pix := []byte{1, 2, 3, 4, 5, 6, 7, 8}
	if err := s.Paint(pix); err != nil {
		t.Fatal(err)
	}
	pix[0] = 0xff

	var got []byte
	s.frame(func(p []byte) { got = append([]byte(nil), p...) })
	if diff := cmp.Diff([]byte{1, 2, 3, 4, 5, 6, 7, 8}, got); diff != "" {
		t.Errorf("unexpected frame (-want +got):\n%s", diff)
	}
	s.frame(func([]byte) { calls++ })
	if calls != 0 {
		t.Error("expected a frame to be shown once")
	}

	if err := s.Paint(pix[:4]); !errors.Is(err, gameboard.ErrSizeMismatch) {
		t.Errorf("expected ErrSizeMismatch, got %v", err)
	}
}

func TestGameStep(t *testing.T) {
	s := New(3, 3)
	b, err := gameboard.New(s)
	if err != nil {
		t.Fatal(err)
	}

	var seen []uint64
	g := &game{board: b, surface: s, frame: func(b *gameboard.Board, n uint64) error {
		seen = append(seen, n)
		return b.DrawPixel(1, 1, pixel.White)
	}}
	for i := 0; i < 2; i++ {
		if err = g.step(false); err != nil {
			t.Fatal(err)
		}
	}
	if diff := cmp.Diff([]uint64{0, 1}, seen); diff != "" {
		t.Errorf("unexpected frame numbers (-want +got):\n%s", diff)
	}
	if b.Frames() != 2 {
		t.Errorf("expected 2 painted frames, got %d", b.Frames())
	}
	s.frame(func(p []byte) {
		if p[(1*3+1)*4] != 0xff {
			t.Error("expected the painted pixel in the window frame")
		}
	})

	if err = g.step(true); !errors.Is(err, ebiten.Termination) {
		t.Errorf("expected Termination on quit, got %v", err)
	}
	if err = b.Close(); err != nil {
		t.Fatal(err)
	}
	if err = g.step(false); !errors.Is(err, ebiten.Termination) {
		t.Errorf("expected Termination after close, got %v", err)
	}

	failure := errors.New("bad frame")
	g = &game{board: b, surface: New(3, 3), frame: func(*gameboard.Board, uint64) error { return failure }}
	if err = g.step(false); !errors.Is(err, failure) {
		t.Errorf("expected frame error, got %v", err)
	}
}

func TestRunNeedsWindow(t *testing.T) {
	b, err := gameboard.NewWithSize(2, 2, nil)
	if err != nil {
		t.Fatal(err)
	}
	if err = Run(nil, b, func(*gameboard.Board, uint64) error { return nil }); !errors.Is(err, ErrNoWindow) {
		t.Errorf("expected ErrNoWindow, got %v", err)
	}
}
