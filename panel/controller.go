package panel

import (
	"fmt"
	"time"

	"periph.io/x/conn/v3/gpio"
)

// Controller is the LCD controller chip of a panel.
type Controller uint8

// Supported controllers.
const (
	ST7789 Controller = iota
	ST7735
)

func (c Controller) String() string {
	if spec, ok := controllers[c]; ok {
		return spec.name
	}
	return fmt.Sprintf("Controller(%d)", uint8(c))
}

// Commands shared by the Sitronix controllers.
const (
	cmdSWRESET = 0x01 // Software Reset
	cmdSLPOUT  = 0x11 // Sleep Out
	cmdNORON   = 0x13 // Normal Display Mode On
	cmdINVON   = 0x21 // Display Inversion On
	cmdDISPOFF = 0x28 // Display Off
	cmdDISPON  = 0x29 // Display On
	cmdCASET   = 0x2A // Column Address Set
	cmdRASET   = 0x2B // Row Address Set
	cmdRAMWR   = 0x2C // Memory Write
	cmdMADCTL  = 0x36 // Memory Data Access Control
	cmdCOLMOD  = 0x3A // Interface Pixel Format
)

// ST7789 registers (from st7789.pdf).
const (
	st7789PORCTRL   = 0xB2 // Porch Setting
	st7789GCTRL     = 0xB7 // Gate Control
	st7789VCOMS     = 0xBB // VCOM Setting
	st7789LCMCTRL   = 0xC0 // LCM Control
	st7789VDVVRHEN  = 0xC2 // VDV and VRH Command Enable
	st7789VRHS      = 0xC3 // VRH Set
	st7789VDVSET    = 0xC4 // VDV Set
	st7789VCMOFSET  = 0xC5 // VCOM Offset Set
	st7789FRCTR2    = 0xC6 // Frame Rate Control in Normal Mode
	st7789PWCTRL1   = 0xD0 // Power Control 1
	st7789PVGAMCTRL = 0xE0 // Positive Voltage Gamma Control
	st7789NVGAMCTRL = 0xE1 // Negative Voltage Gamma Control
)

// ST7735 registers (from st7735.pdf).
const (
	st7735FRMCTR1 = 0xB1 // Frame Rate Control (normal mode)
	st7735FRMCTR2 = 0xB2 // Frame Rate Control (idle mode)
	st7735FRMCTR3 = 0xB3 // Frame Rate Control (partial mode)
	st7735INVCTR  = 0xB4 // Display Inversion Control
	st7735PWCTR1  = 0xC0 // Power Control 1
	st7735PWCTR2  = 0xC1 // Power Control 2
	st7735PWCTR3  = 0xC2 // Power Control 3 (normal mode)
	st7735PWCTR4  = 0xC3 // Power Control 4 (idle mode)
	st7735PWCTR5  = 0xC4 // Power Control 5 (partial mode)
	st7735VMCTR1  = 0xC5 // VCOM Control 1
	st7735GMCTRP1 = 0xE0 // Gamma (positive polarity)
	st7735GMCTRN1 = 0xE1 // Gamma (negative polarity)
)

// Memory Data Access Control (MADCTL) bit fields.
const (
	_                        byte = 1 << iota // D0: reserved
	_                                         // D1: reserved
	madctlDataLatchOrder                      // D2: MH
	madctlBGROrder                            // D3: RGB
	madctlLineAddressOrder                    // D4: ML
	madctlPageColumnOrder                     // D5: MV
	madctlColumnAddressOrder                  // D6: MX
	madctlPageAddressOrder                    // D7: MY
)

type controllerSpec struct {
	name string

	// Default size in pixels, unrotated.
	width, height int

	// Size of the controller memory, unrotated.
	maxWidth, maxHeight int

	// softReset issues SWRESET after the hardware reset.
	softReset bool

	// setup is sent after sleep out, before the display is switched on.
	setup [][]byte
}

var controllers = map[Controller]controllerSpec{
	ST7789: {
		name:      "ST7789",
		width:     240,
		height:    240,
		maxWidth:  240,
		maxHeight: 320,
		setup: [][]byte{
			{cmdCOLMOD, 0x05},           // Interface Pixel Format: 8-bit data bus for 16-bit/pixel (RGB 5-6-5-bit input)
			{st7789PORCTRL, 0x0C, 0x0C}, // Porch Setting: default
			{st7789GCTRL, 0x35},         // Gate Control: 13.26V / -10.43V (default)
			{st7789VCOMS, 0x1A},         // VCOM Setting: 0.75V (default is 0x20 / 0.9V)
			{st7789LCMCTRL, 0x2C},       // LCM Control: default
			{st7789VDVVRHEN, 0x01},      // VDV and VRH Command Enable: default
			{st7789VRHS, 0x0B},          // VRH Set: default (4.1V+( vcom+vcom offset+vdv))
			{st7789VDVSET, 0x20},        // VDV Set: default (0V)
			{st7789VCMOFSET, 0x20},      // VCOM Offset Set: default (0V)
			{st7789FRCTR2, 0x0F},        // Frame Rate Control in Normal Mode: 60Hz (default)
			{st7789PWCTRL1, 0xA4, 0xA1}, // Power Control 1: default
			{cmdINVON},                  // Display Inversion On
			{st7789PVGAMCTRL, 0x00, 0x19, 0x1E, 0x0A, 0x09, 0x15, 0x3D, 0x44, 0x51, 0x12, 0x03, 0x00, 0x3F, 0x3F}, // Positive Voltage Gamma Control: default
			{st7789NVGAMCTRL, 0x00, 0x18, 0x1E, 0x0A, 0x09, 0x25, 0x3F, 0x43, 0x52, 0x33, 0x03, 0x00, 0x3F, 0x3F}, // Negative Voltage Gamma Control: default
		},
	},
	ST7735: {
		name:      "ST7735",
		width:     128,
		height:    160,
		maxWidth:  132,
		maxHeight: 162,
		softReset: true,
		setup: [][]byte{
			{st7735FRMCTR1, 0x01, 0x2C, 0x2D},
			{st7735FRMCTR2, 0x01, 0x2C, 0x2D},
			{st7735FRMCTR3, 0x01, 0x2C, 0x2D, 0x01, 0x2C, 0x2D},
			{st7735INVCTR, 0x07},
			{st7735PWCTR1, 0xA2, 0x02, 0x84},
			{st7735PWCTR2, 0xC5},
			{st7735PWCTR3, 0x0A, 0x00},
			{st7735PWCTR4, 0x8A, 0x2A},
			{st7735PWCTR5, 0x8A, 0xEE},
			{st7735VMCTR1, 0x0E},
			{cmdCOLMOD, 0x05}, // 16-bits per pixel
			{st7735GMCTRP1, 0x02, 0x1C, 0x07, 0x12, 0x37, 0x32, 0x29, 0x2D, 0x29, 0x25, 0x2B, 0x39, 0x00, 0x01, 0x03, 0x10},
			{st7735GMCTRN1, 0x03, 0x1D, 0x07, 0x06, 0x2E, 0x2C, 0x29, 0x2D, 0x2E, 0x2E, 0x37, 0x3F, 0x00, 0x00, 0x02, 0x10},
			{cmdNORON},
		},
	},
}

func isPortrait(rotation Rotation) bool {
	return rotation == NoRotation || rotation == Rotate180
}

// defaultSize is the controller default size at rotation.
func (spec controllerSpec) defaultSize(rotation Rotation) (width, height int) {
	if isPortrait(rotation) {
		return spec.width, spec.height
	}
	return spec.height, spec.width
}

func (spec controllerSpec) checkSize(width, height int, rotation Rotation) error {
	maxWidth, maxHeight := spec.maxWidth, spec.maxHeight
	if !isPortrait(rotation) {
		maxWidth, maxHeight = maxHeight, maxWidth
	}
	if width <= 0 || height <= 0 || width > maxWidth || height > maxHeight {
		return fmt.Errorf("%w %dx%d, %s maximum size is %dx%d at %s rotation", ErrInvalidSize, width, height, spec.name, maxWidth, maxHeight, rotation)
	}
	return nil
}

func madctl(rotation Rotation) byte {
	switch rotation {
	case Rotate90:
		return madctlColumnAddressOrder | madctlPageColumnOrder
	case Rotate180:
		return madctlColumnAddressOrder | madctlPageAddressOrder
	case Rotate270:
		return madctlPageAddressOrder | madctlPageColumnOrder
	default:
		return 0
	}
}

func (p *Panel) init() (err error) {
	// reset the device.
	reset := p.config.Reset
	if err = reset.Out(gpio.High); err != nil {
		return
	}
	sleep(100 * time.Millisecond)
	if err = reset.Out(gpio.Low); err != nil {
		return
	}
	sleep(100 * time.Millisecond)
	if err = reset.Out(gpio.High); err != nil {
		return
	}

	// init display
	sleep(10 * time.Millisecond)
	if p.spec.softReset {
		if err = p.command(cmdSWRESET); err != nil {
			return
		}
		sleep(150 * time.Millisecond)
	}
	if err = p.command(cmdSLPOUT); err != nil { // Sleep Out
		return
	}
	sleep(150 * time.Millisecond)

	if err = p.command(cmdMADCTL, madctl(p.config.Rotation)); err != nil {
		return
	}
	if err = p.commands(p.spec.setup); err != nil {
		return
	}
	if err = p.command(cmdDISPON); err != nil {
		return
	}
	sleep(100 * time.Millisecond)
	return nil
}

// setWindow selects the inclusive controller memory window the next RAM write fills.
func (p *Panel) setWindow(x0, y0, x1, y1 int) error {
	colOffset, rowOffset := p.config.ColOffset, p.config.RowOffset
	if !isPortrait(p.config.Rotation) {
		colOffset, rowOffset = rowOffset, colOffset
	}
	x0 += colOffset
	x1 += colOffset
	y0 += rowOffset
	y1 += rowOffset
	return p.commands([][]byte{
		{cmdCASET, byte(x0 >> 8), byte(x0), byte(x1 >> 8), byte(x1)}, // Column address
		{cmdRASET, byte(y0 >> 8), byte(y0), byte(y1 >> 8), byte(y1)}, // Row address
		{cmdRAMWR}, // Write to RAM
	})
}
