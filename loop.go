package gameboard

import (
	"context"
	"fmt"
	"time"
)

// FrameFunc draws frame n onto the board. It must not keep references to the buffer.
type FrameFunc func(b *Board, n uint64) error

// LoopConfig controls the frame loop.
type LoopConfig struct {
	// Interval between frames, zero uses DefaultLoopConfig.Interval.
	Interval time.Duration

	// Frames to draw before returning, zero runs until the context is done.
	Frames uint64
}

// DefaultLoopConfig paints a frame every 10ms.
var DefaultLoopConfig = LoopConfig{
	Interval: 10 * time.Millisecond,
}

// Run draws and paints a frame on every tick. Frames never overlap: the next tick is only
// handled once the previous frame has been painted, ticks missed in the meantime are
// dropped.
//
// Run returns nil after cfg.Frames frames, the context error when ctx is done, or the
// first error from frame or Paint.
func Run(ctx context.Context, b *Board, cfg LoopConfig, frame FrameFunc) error {
	if b == nil || frame == nil {
		return fmt.Errorf("gameboard: run needs a board and a frame function")
	}
	if cfg.Interval <= 0 {
		cfg.Interval = DefaultLoopConfig.Interval
	}

	t := time.NewTicker(cfg.Interval)
	defer t.Stop()

	Logger().Info("frame loop started", "interval", cfg.Interval, "frames", cfg.Frames)
	var n uint64
	for {
		select {
		case <-ctx.Done():
			Logger().Info("frame loop stopped", "frames", n, "reason", ctx.Err())
			return ctx.Err()
		case <-t.C:
			if err := frame(b, n); err != nil {
				return fmt.Errorf("gameboard: frame %d: %w", n, err)
			}
			if err := b.Paint(); err != nil {
				return err
			}
			Logger().Debug("frame painted", "frame", n)
			n++
			if cfg.Frames > 0 && n >= cfg.Frames {
				return nil
			}
		}
	}
}
