package panel

import (
	"errors"
	"image"
	"os"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"periph.io/x/conn/v3"
	"periph.io/x/conn/v3/gpio"
	"periph.io/x/conn/v3/gpio/gpiotest"
	"periph.io/x/conn/v3/spi"

	"github.com/BeatGlow/gameboard"
)

func TestMain(m *testing.M) {
	sleep = func(time.Duration) {}
	os.Exit(m.Run())
}

type transfer struct {
	Data  bool
	Bytes []byte
}

// recordConn records every transfer with the level of the DC pin at the time.
type recordConn struct {
	dc        *gpiotest.Pin
	maxTxSize int
	transfers []transfer
}

func (c *recordConn) String() string               { return "record" }
func (c *recordConn) Duplex() conn.Duplex          { return conn.Half }
func (c *recordConn) MaxTxSize() int               { return c.maxTxSize }
func (c *recordConn) TxPackets([]spi.Packet) error { return errors.New("not implemented") }

func (c *recordConn) Tx(w, r []byte) error {
	c.transfers = append(c.transfers, transfer{
		Data:  c.dc.Read() == gpio.High,
		Bytes: append([]byte(nil), w...),
	})
	return nil
}

func (c *recordConn) reset() {
	c.transfers = c.transfers[:0]
}

// data joins the payload of consecutive data transfers starting at index i.
func (c *recordConn) data(i int) []byte {
	var out []byte
	for ; i < len(c.transfers) && c.transfers[i].Data; i++ {
		out = append(out, c.transfers[i].Bytes...)
	}
	return out
}

func testPanel(t *testing.T, config Config) (*Panel, *recordConn, *Config) {
	t.Helper()
	dc := &gpiotest.Pin{N: "DC"}
	c := &recordConn{dc: dc, maxTxSize: 5}
	config.Reset = &gpiotest.Pin{N: "RESET"}
	config.DC = dc
	config.Backlight = &gpiotest.Pin{N: "BL"}
	p, err := New(c, &config)
	if err != nil {
		t.Fatal(err)
	}
	return p, c, &config
}

func TestNew(t *testing.T) {
	p, c, config := testPanel(t, Config{Width: 4, Height: 2, Rotation: Rotate90})

	if v := p.Size(); v != image.Pt(4, 2) {
		t.Errorf("expected size 4x2, got %s", v)
	}
	if p.chunk != 5 {
		t.Errorf("expected chunk size limited to 5, got %d", p.chunk)
	}
	if v := config.Reset.(*gpiotest.Pin).Read(); v != gpio.High {
		t.Errorf("expected reset to be released, got %s", v)
	}
	if v := config.Backlight.(*gpiotest.Pin).Read(); v != gpio.High {
		t.Errorf("expected backlight on, got %s", v)
	}

	if len(c.transfers) < 3 {
		t.Fatalf("expected init commands, got %d transfers", len(c.transfers))
	}
	if v := c.transfers[0]; v.Data || !cmp.Equal(v.Bytes, []byte{cmdSLPOUT}) {
		t.Errorf("expected sleep out command first, got %+v", v)
	}
	want := []transfer{
		{false, []byte{cmdMADCTL}},
		{true, []byte{madctlColumnAddressOrder | madctlPageColumnOrder}},
	}
	if diff := cmp.Diff(want, c.transfers[1:3]); diff != "" {
		t.Errorf("unexpected MADCTL (-want +got):\n%s", diff)
	}
	if v := c.transfers[len(c.transfers)-1]; v.Data || !cmp.Equal(v.Bytes, []byte{cmdDISPON}) {
		t.Errorf("expected display on command last, got %+v", v)
	}
}

func TestNewErrors(t *testing.T) {
	dc := &gpiotest.Pin{N: "DC"}
	c := &recordConn{dc: dc}

	if _, err := New(c, &Config{DC: dc}); !errors.Is(err, ErrResetPin) {
		t.Errorf("expected ErrResetPin, got %v", err)
	}
	if _, err := New(c, &Config{Reset: &gpiotest.Pin{}, DC: gpio.INVALID}); !errors.Is(err, ErrDCPin) {
		t.Errorf("expected ErrDCPin, got %v", err)
	}

	if _, err := New(c, &Config{Controller: Controller(42), Reset: &gpiotest.Pin{}, DC: dc}); !errors.Is(err, ErrController) {
		t.Errorf("expected ErrController, got %v", err)
	}

	tests := []struct {
		Controller    Controller
		Width, Height int
		Rotation      Rotation
		Valid         bool
	}{
		{ST7789, 240, 320, NoRotation, true},
		{ST7789, 320, 240, NoRotation, false},
		{ST7789, 320, 240, Rotate90, true},
		{ST7789, 240, 320, Rotate270, false},
		{ST7789, 240, 321, Rotate180, false},
		{ST7789, 0, 240, NoRotation, false},
		{ST7735, 128, 160, NoRotation, true},
		{ST7735, 160, 128, Rotate90, true},
		{ST7735, 240, 240, NoRotation, false},
	}
	for _, test := range tests {
		err := controllers[test.Controller].checkSize(test.Width, test.Height, test.Rotation)
		if test.Valid && err != nil {
			t.Errorf("%s %dx%d at %s: expected valid, got %v", test.Controller, test.Width, test.Height, test.Rotation, err)
		} else if !test.Valid && !errors.Is(err, ErrInvalidSize) {
			t.Errorf("%s %dx%d at %s: expected ErrInvalidSize, got %v", test.Controller, test.Width, test.Height, test.Rotation, err)
		}
	}
}

func TestDefaults(t *testing.T) {
	tests := []struct {
		Controller Controller
		Rotation   Rotation
		Want       image.Point
	}{
		{ST7789, NoRotation, image.Pt(240, 240)},
		{ST7735, NoRotation, image.Pt(128, 160)},
		{ST7735, Rotate270, image.Pt(160, 128)},
	}
	for _, test := range tests {
		t.Run(test.Controller.String(), func(it *testing.T) {
			p, c, _ := testPanel(it, Config{Controller: test.Controller, Rotation: test.Rotation})
			if v := p.Size(); v != test.Want {
				it.Errorf("expected size %s, got %s", test.Want, v)
			}
			if v := p.config.Speed; v != DefaultConfig.Speed {
				it.Errorf("expected speed %s, got %s", DefaultConfig.Speed, v)
			}

			first := []byte{cmdSLPOUT}
			if test.Controller == ST7735 {
				first = []byte{cmdSWRESET}
			}
			if diff := cmp.Diff(first, c.transfers[0].Bytes); diff != "" {
				it.Errorf("unexpected first command (-want +got):\n%s", diff)
			}
		})
	}
}

func TestSetBrightness(t *testing.T) {
	p, _, config := testPanel(t, Config{Width: 2, Height: 2})
	backlight := config.Backlight.(*gpiotest.Pin)

	if err := p.SetBrightness(0); err != nil {
		t.Fatal(err)
	}
	if v := backlight.Read(); v != gpio.Low {
		t.Errorf("expected backlight off, got %s", v)
	}
	if err := p.SetBrightness(0xff); err != nil {
		t.Fatal(err)
	}
	if v := backlight.Read(); v != gpio.High {
		t.Errorf("expected backlight on, got %s", v)
	}
}

func TestPaint(t *testing.T) {
	p, c, _ := testPanel(t, Config{Width: 4, Height: 2, ColOffset: 1, RowOffset: 2})
	c.reset()

	pix := make([]byte, 4*2*4)
	copy(pix[0:], []byte{0xff, 0x00, 0x00, 0xff})  // red at (0,0)
	copy(pix[28:], []byte{0x00, 0x00, 0xff, 0xff}) // blue at (3,1)
	if err := p.Paint(pix); err != nil {
		t.Fatal(err)
	}

	want := []transfer{
		{false, []byte{cmdCASET}},
		{true, []byte{0, 1, 0, 4}},
		{false, []byte{cmdRASET}},
		{true, []byte{0, 2, 0, 3}},
		{false, []byte{cmdRAMWR}},
	}
	if diff := cmp.Diff(want, c.transfers[:5]); diff != "" {
		t.Errorf("unexpected window (-want +got):\n%s", diff)
	}

	for _, v := range c.transfers[5:] {
		if len(v.Bytes) > 5 {
			t.Errorf("expected transfers of at most 5 bytes, got %d", len(v.Bytes))
		}
	}
	wantPix := make([]byte, 4*2*2)
	wantPix[0], wantPix[1] = 0xf8, 0x00
	wantPix[14], wantPix[15] = 0x00, 0x1f
	if diff := cmp.Diff(wantPix, c.data(5)); diff != "" {
		t.Errorf("unexpected pixel data (-want +got):\n%s", diff)
	}

	if err := p.Paint(pix[:4]); !errors.Is(err, gameboard.ErrSizeMismatch) {
		t.Errorf("expected ErrSizeMismatch, got %v", err)
	}
}

func TestClose(t *testing.T) {
	p, c, config := testPanel(t, Config{Width: 2, Height: 2})
	c.reset()

	if err := p.Close(); err != nil {
		t.Fatal(err)
	}
	want := []transfer{{false, []byte{cmdDISPOFF}}}
	if diff := cmp.Diff(want, c.transfers); diff != "" {
		t.Errorf("unexpected close commands (-want +got):\n%s", diff)
	}
	if v := config.Backlight.(*gpiotest.Pin).Read(); v != gpio.Low {
		t.Errorf("expected backlight off, got %s", v)
	}
}

func TestString(t *testing.T) {
	p, _, _ := testPanel(t, Config{Controller: ST7735})
	if v, want := p.String(), "ST7735 128x160"; v != want {
		t.Errorf("expected %q, got %q", want, v)
	}
	if v, want := Controller(7).String(), "Controller(7)"; v != want {
		t.Errorf("expected %q, got %q", want, v)
	}
}

func TestRotationString(t *testing.T) {
	for rotation, want := range map[Rotation]string{
		NoRotation: "0°",
		Rotate90:   "90°",
		Rotate180:  "180°",
		Rotate270:  "270°",
	} {
		if v := rotation.String(); v != want {
			t.Errorf("expected %q, got %q", want, v)
		}
	}
}
