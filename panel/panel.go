// Package panel drives SPI attached ST7789 and ST7735 LCD panels as a board surface.
//
// The panel is reached through periph: the SPI port comes from spireg and the reset,
// data/command and backlight lines are GPIO pins. Call host.Init from
// periph.io/x/host/v3 before opening a panel.
package panel

import (
	"encoding/binary"
	"errors"
	"fmt"
	"image"
	"time"

	"periph.io/x/conn/v3"
	"periph.io/x/conn/v3/gpio"
	"periph.io/x/conn/v3/gpio/gpioreg"
	"periph.io/x/conn/v3/physic"
	"periph.io/x/conn/v3/spi"
	"periph.io/x/conn/v3/spi/spireg"

	"github.com/BeatGlow/gameboard"
	"github.com/BeatGlow/gameboard/pixel"
)

// Errors
var (
	ErrResetPin    = errors.New("panel: reset GPIO pin is invalid")
	ErrDCPin       = errors.New("panel: data/command (DC) GPIO pin is invalid")
	ErrInvalidSize = errors.New("panel: invalid size")
	ErrController  = errors.New("panel: unsupported controller")
)

// Default pin names, as wired on common Raspberry Pi hats.
const (
	DefaultResetPin = "GPIO25"
	DefaultDCPin    = "GPIO24"
)

// Rotation defines pixel rotation.
type Rotation uint8

// Rotations.
const (
	NoRotation Rotation = iota
	Rotate90            // Rotate 90° clock wise
	Rotate180           // Rotate 180°
	Rotate270           // Rotate 270° clock wise
)

func (r Rotation) String() string {
	switch r {
	case Rotate90:
		return "90°"
	case Rotate180:
		return "180°"
	case Rotate270:
		return "270°"
	default:
		return "0°"
	}
}

// Config is the panel configuration.
type Config struct {
	// Controller chip of the panel.
	Controller Controller

	// Port is the SPI port name, empty selects the first port.
	Port string

	// Speed of the SPI bus.
	Speed physic.Frequency

	// Width of the panel in pixels after rotation, zero uses the controller default.
	Width int

	// Height of the panel in pixels after rotation, zero uses the controller default.
	Height int

	// Rotation of the panel.
	Rotation Rotation

	// ColOffset and RowOffset move the visible window in controller memory, for
	// panels smaller than 240x320.
	ColOffset, RowOffset int

	// Reset pin, resolved from DefaultResetPin when nil.
	Reset gpio.PinOut

	// DC is the data/command pin, resolved from DefaultDCPin when nil.
	DC gpio.PinOut

	// Backlight pin, optional.
	Backlight gpio.PinOut
}

// DefaultConfig are the default configuration values.
var DefaultConfig = Config{
	Controller: ST7789,
	Speed:      40 * physic.MegaHertz,
}

const defaultChunkSize = 4096

// Panel is an LCD panel surface.
type Panel struct {
	conn   spi.Conn
	port   spi.PortCloser
	config Config
	spec   controllerSpec
	frame  *pixel.CRGB16Image
	chunk  int
}

// Open the SPI port and pins named in config and initialize the panel.
func Open(config *Config) (*Panel, error) {
	c := withDefaults(config)
	if c.Reset == nil {
		if c.Reset = gpioreg.ByName(DefaultResetPin); c.Reset == nil {
			return nil, ErrResetPin
		}
	}
	if c.DC == nil {
		if c.DC = gpioreg.ByName(DefaultDCPin); c.DC == nil {
			return nil, ErrDCPin
		}
	}

	port, err := spireg.Open(c.Port)
	if err != nil {
		return nil, err
	}
	bus, err := port.Connect(c.Speed, spi.Mode3, 8)
	if err != nil {
		_ = port.Close()
		return nil, err
	}

	p, err := New(bus, &c)
	if err != nil {
		_ = port.Close()
		return nil, err
	}
	p.port = port
	return p, nil
}

// New initializes a panel on an established SPI connection.
func New(bus spi.Conn, config *Config) (*Panel, error) {
	c := withDefaults(config)
	spec, ok := controllers[c.Controller]
	if !ok {
		return nil, fmt.Errorf("%w %s", ErrController, c.Controller)
	}
	if c.Reset == nil || c.Reset == gpio.INVALID {
		return nil, ErrResetPin
	}
	if c.DC == nil || c.DC == gpio.INVALID {
		return nil, ErrDCPin
	}
	if err := spec.checkSize(c.Width, c.Height, c.Rotation); err != nil {
		return nil, err
	}

	p := &Panel{
		conn:   bus,
		config: c,
		spec:   spec,
		frame: &pixel.CRGB16Image{
			Rect:   image.Rect(0, 0, c.Width, c.Height),
			Pix:    make([]byte, c.Width*c.Height*2),
			Stride: c.Width * 2,
			Order:  binary.BigEndian,
		},
		chunk: defaultChunkSize,
	}
	if l, ok := bus.(conn.Limits); ok {
		if size := l.MaxTxSize(); size > 0 && size < p.chunk {
			p.chunk = size
		}
	}

	if err := p.init(); err != nil {
		return nil, err
	}
	if c.Backlight != nil {
		if err := c.Backlight.Out(gpio.High); err != nil {
			return nil, err
		}
	}

	gameboard.Logger().Info("panel opened",
		"controller", spec.name,
		"conn", bus.String(),
		"width", c.Width,
		"height", c.Height,
		"rotation", c.Rotation.String(),
		"chunk", p.chunk)
	return p, nil
}

func withDefaults(config *Config) Config {
	c := DefaultConfig
	if config != nil {
		c = *config
	}
	if c.Speed == 0 {
		c.Speed = DefaultConfig.Speed
	}
	c.Rotation &= 3
	if spec, ok := controllers[c.Controller]; ok {
		width, height := spec.defaultSize(c.Rotation)
		if c.Width == 0 {
			c.Width = width
		}
		if c.Height == 0 {
			c.Height = height
		}
	}
	return c
}

func (p *Panel) String() string {
	return fmt.Sprintf("%s %dx%d", p.spec.name, p.config.Width, p.config.Height)
}

// Size of the panel in pixels.
func (p *Panel) Size() image.Point {
	return image.Pt(p.config.Width, p.config.Height)
}

// Paint converts the frame to RGB565 and sends it to the panel memory.
func (p *Panel) Paint(pix []byte) error {
	if len(pix) != p.config.Width*p.config.Height*4 {
		return fmt.Errorf("%w: got %d bytes for %dx%d", gameboard.ErrSizeMismatch, len(pix), p.config.Width, p.config.Height)
	}
	p.frame.CopyRGBA(pix)

	if err := p.setWindow(0, 0, p.config.Width-1, p.config.Height-1); err != nil {
		return err
	}
	return p.data(p.frame.Pix)
}

// SetBrightness dims the backlight, 0 is off and 255 fully on. Levels in between need a
// backlight pin capable of PWM.
func (p *Panel) SetBrightness(level uint8) error {
	backlight := p.config.Backlight
	if backlight == nil {
		return nil
	}
	switch level {
	case 0:
		return backlight.Out(gpio.Low)
	case 0xff:
		return backlight.Out(gpio.High)
	default:
		const (
			step = gpio.DutyMax / 0xff
			rate = 2 * physic.KiloHertz
		)
		gameboard.Logger().Debug("panel backlight", "duty", step*gpio.Duty(level), "rate", rate)
		return backlight.PWM(step*gpio.Duty(level), rate)
	}
}

// Close switches the panel and backlight off and releases the SPI port.
func (p *Panel) Close() error {
	err := p.command(cmdDISPOFF)
	if p.config.Backlight != nil {
		if berr := p.config.Backlight.Out(gpio.Low); err == nil {
			err = berr
		}
	}
	if p.port != nil {
		if cerr := p.port.Close(); err == nil {
			err = cerr
		}
	}
	return err
}

func (p *Panel) command(command byte, data ...byte) error {
	if err := p.config.DC.Out(gpio.Low); err != nil {
		return err
	}
	if err := p.conn.Tx([]byte{command}, nil); err != nil {
		return fmt.Errorf("panel: command %#02x: %w", command, err)
	}
	if len(data) == 0 {
		return nil
	}
	return p.data(data)
}

func (p *Panel) commands(commands [][]byte) (err error) {
	for _, command := range commands {
		if err = p.command(command[0], command[1:]...); err != nil {
			return
		}
	}
	return
}

func (p *Panel) data(data []byte) error {
	if err := p.config.DC.Out(gpio.High); err != nil {
		return err
	}
	for i, l := 0, len(data); i < l; i += p.chunk {
		j := i + p.chunk
		if j > l {
			j = l
		}
		if err := p.conn.Tx(data[i:j], nil); err != nil {
			return err
		}
	}
	return nil
}

// sleep is replaced in tests.
var sleep = time.Sleep

var _ gameboard.Surface = (*Panel)(nil)
