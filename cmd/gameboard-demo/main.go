package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"image"
	"log/slog"
	"math/rand"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"periph.io/x/conn/v3/gpio"
	"periph.io/x/conn/v3/gpio/gpioreg"
	"periph.io/x/conn/v3/physic"
	"periph.io/x/host/v3"

	"github.com/BeatGlow/gameboard"
	"github.com/BeatGlow/gameboard/framebuffer"
	"github.com/BeatGlow/gameboard/label"
	"github.com/BeatGlow/gameboard/panel"
	"github.com/BeatGlow/gameboard/pixel"
	"github.com/BeatGlow/gameboard/snapshot"
	"github.com/BeatGlow/gameboard/window"
)

func main() {
	surfaceFlag := flag.String("surface", "window", "Surface to paint on (window, fb, panel, snapshot)")
	widthFlag := flag.Int("width", 500, "Board width (window and snapshot)")
	heightFlag := flag.Int("height", 500, "Board height (window and snapshot)")
	scaleFlag := flag.Int("scale", 1, "Window or snapshot scale")
	fbFlag := flag.String("fb", "/dev/fb0", "Framebuffer device")
	spiFlag := flag.String("spi", "", "SPI port (default: first available)")
	speedFlag := flag.Int("spi-speed", 40, "SPI speed in MHz")
	resetPinFlag := flag.String("reset", panel.DefaultResetPin, "Reset GPIO pin")
	dcPinFlag := flag.String("dc", panel.DefaultDCPin, "Data/Command GPIO pin (DC)")
	blPinFlag := flag.String("bl", "GPIO19", "Backlight GPIO pin")
	rotateFlag := flag.String("rotate", "", "Panel rotation")
	controllerFlag := flag.String("controller", "st7789", "Panel controller (st7789, st7735)")
	outFlag := flag.String("out", ".", "Snapshot directory")
	formatFlag := flag.String("format", snapshot.DefaultConfig.Format, "Snapshot image format (png, bmp)")
	framesFlag := flag.Uint64("frames", 0, "Frames to draw (default: until interrupted)")
	intervalFlag := flag.Duration("interval", gameboard.DefaultLoopConfig.Interval, "Interval between frames")
	seedFlag := flag.Int64("seed", 0, "Random seed (default: time based)")
	labelFlag := flag.Bool("label", false, "Draw the frame number")
	verboseFlag := flag.Bool("v", false, "Verbose logging")
	flag.Parse()

	level := slog.LevelInfo
	if *verboseFlag || os.Getenv("GAMEBOARD_DEBUG") != "" {
		level = slog.LevelDebug
	}
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
	gameboard.SetLogger(logger)

	if *framesFlag == 0 && *surfaceFlag == "snapshot" {
		*framesFlag = 100
	}

	var (
		surface gameboard.Surface
		err     error
	)
	switch kind := strings.ToLower(*surfaceFlag); kind {
	case "window":
		surface = window.New(*widthFlag, *heightFlag)
	case "fb", "framebuffer":
		surface, err = framebuffer.Open(*fbFlag)
	case "panel":
		var rotation panel.Rotation
		if rotation, err = parseRotation(*rotateFlag); err != nil {
			fatal(err)
		}
		var controller panel.Controller
		switch strings.ToLower(*controllerFlag) {
		case "st7789":
			controller = panel.ST7789
		case "st7735":
			controller = panel.ST7735
		default:
			fatal(fmt.Errorf("unsupported controller %q", *controllerFlag))
		}
		if _, err = host.Init(); err != nil {
			fatal(err)
		}
		surface, err = panel.Open(&panel.Config{
			Controller: controller,
			Port:       *spiFlag,
			Speed:      physic.Frequency(*speedFlag) * physic.MegaHertz,
			Rotation:   rotation,
			Reset:      pinByName(*resetPinFlag),
			DC:         pinByName(*dcPinFlag),
			Backlight:  pinByName(*blPinFlag),
		})
	case "snapshot":
		surface, err = snapshot.New(&snapshot.Config{
			Dir:    *outFlag,
			Width:  *widthFlag,
			Height: *heightFlag,
			Format: *formatFlag,
			Scale:  *scaleFlag,
		})
	default:
		err = fmt.Errorf("unsupported surface %q", kind)
	}
	if err != nil {
		fatal(err)
	}

	board, err := gameboard.New(surface)
	if err != nil {
		_ = surface.Close()
		fatal(err)
	}
	defer board.Close()
	logger.Info("using surface", "surface", fmt.Sprint(surface), "size", board.Bounds().Size())

	seed := *seedFlag
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	d := &demo{rng: rand.New(rand.NewSource(seed))}
	if *labelFlag {
		if d.label, err = label.New(label.DefaultSize); err != nil {
			fatal(err)
		}
	}

	if w, ok := surface.(*window.Surface); ok {
		err = window.Run(&window.Config{Title: "gameboard", Scale: *scaleFlag}, board, limitFrames(d.frame, *framesFlag, w))
	} else {
		ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
		defer cancel()
		fmt.Println("hit control-c to stop...")
		err = gameboard.Run(ctx, board, gameboard.LoopConfig{
			Interval: *intervalFlag,
			Frames:   *framesFlag,
		}, d.frame)
	}
	if err != nil && !errors.Is(err, context.Canceled) {
		fatal(err)
	}
}

// demo scatters random circles over the board.
type demo struct {
	rng   *rand.Rand
	label *label.Writer
}

func (d *demo) frame(b *gameboard.Board, n uint64) error {
	var (
		size = b.Bounds().Size()
		x    = d.rng.Intn(max(size.X-1, 1)) + 1
		y    = d.rng.Intn(max(size.Y-1, 1)) + 1
		r    = d.rng.Intn(99) + 1
	)
	if err := b.DrawCircleFilled(x, y, r, pixel.RandomColor(d.rng, pixel.WithSaturation(100), pixel.WithLightness(50))); err != nil {
		return err
	}
	if err := b.DrawCircleOutline(x, y, r, pixel.RandomColor(d.rng, pixel.WithSaturation(100), pixel.WithLightness(50))); err != nil {
		return err
	}

	if d.label != nil {
		text := fmt.Sprintf("%06d", n)
		box := d.label.Bounds(image.Pt(2, 2), text)
		center := box.Min.Add(box.Max).Div(2)
		if err := b.DrawRectangle(center.X, center.Y, box.Dx()+2, box.Dy()+2, pixel.Black); err != nil {
			return err
		}
		return d.label.Draw(b.Buffer(), box.Min, text, pixel.White)
	}
	return nil
}

// limitFrames closes the window surface once frames frames have been drawn.
func limitFrames(frame gameboard.FrameFunc, frames uint64, s *window.Surface) gameboard.FrameFunc {
	if frames == 0 {
		return frame
	}
	return func(b *gameboard.Board, n uint64) error {
		if n+1 >= frames {
			_ = s.Close()
		}
		return frame(b, n)
	}
}

func parseRotation(value string) (panel.Rotation, error) {
	switch value {
	case "", "no", "0":
		return panel.NoRotation, nil
	case "90", "right", "cw":
		return panel.Rotate90, nil
	case "180", "flip":
		return panel.Rotate180, nil
	case "270", "left", "ccw":
		return panel.Rotate270, nil
	default:
		return panel.NoRotation, fmt.Errorf("invalid rotation %q specified", value)
	}
}

// pinByName resolves a GPIO pin, nil leaves the choice to the panel defaults.
func pinByName(name string) gpio.PinOut {
	if name == "" {
		return nil
	}
	if p := gpioreg.ByName(name); p != nil {
		return p
	}
	return nil
}

func fatal(err error) {
	fmt.Fprintln(os.Stderr, "fatal: "+err.Error())
	os.Exit(1)
}
