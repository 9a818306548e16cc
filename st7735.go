package tft

import (
	"fmt"
	"image"
	"image/color"
	"time"

	"github.com/sirupsen/logrus"
	"periph.io/x/conn/v3/gpio"
	"periph.io/x/conn/v3/physic"

	"github.com/BeatGlow/tft/pixel"
	"github.com/BeatGlow/tft/st7735"
)

// Reset and power-up timing.
const (
	resetLow   = 50 * time.Millisecond
	resetHigh  = 50 * time.Millisecond
	resetDelay = 150 * time.Millisecond
	wakeDelay  = 150 * time.Millisecond
)

// Config is the display configuration.
type Config struct {
	// Offset of the visible panel inside the controller RAM.
	Offset image.Point

	// ChannelOrder the panel expects colours in.
	ChannelOrder pixel.ChannelOrder

	// Backlight pin, optional.
	Backlight gpio.PinOut

	// Timeout bounds each bus transaction, zero waits forever.
	Timeout time.Duration

	// Logger for driver messages.
	Logger logrus.FieldLogger
}

// DefaultConfig matches the common 1.8" red tab modules.
var DefaultConfig = Config{
	Offset:       image.Pt(2, 1),
	ChannelOrder: pixel.BGR,
}

// Device is an ST7735 panel.
type Device struct {
	c          Conn
	p          *Protocol
	log        logrus.FieldLogger
	order      pixel.ChannelOrder
	offset     image.Point
	width      int
	height     int
	on         bool
	backlight  gpio.PinOut
	brightness uint8
	err        error
}

// New returns an initialized display. A nil config uses DefaultConfig.
func New(c Conn, config *Config) (*Device, error) {
	if config == nil {
		config = new(Config)
		*config = DefaultConfig
	}

	if config.Offset.X < 0 || config.Offset.Y < 0 {
		return nil, ErrOffset
	}
	if st7735.Width+config.Offset.X > st7735.RAMWidth || st7735.Height+config.Offset.Y > st7735.RAMHeight {
		return nil, fmt.Errorf("tft: offset %s exceeds the %dx%d controller RAM: %w",
			config.Offset, st7735.RAMWidth, st7735.RAMHeight, ErrOffset)
	}

	d := &Device{
		c:          c,
		log:        config.Logger,
		order:      config.ChannelOrder,
		offset:     config.Offset,
		width:      st7735.Width + config.Offset.X,
		height:     st7735.Height + config.Offset.Y,
		brightness: 0xFF,
	}
	if d.log == nil {
		d.log = log
	}
	if lc, ok := c.(interface{ SetLogger(logrus.FieldLogger) }); ok {
		lc.SetLogger(d.log)
	}
	if config.Backlight != nil && config.Backlight != gpio.INVALID {
		d.backlight = config.Backlight
	} else {
		d.log.Info("no backlight control")
	}

	d.p = NewProtocol(c, image.Pt(d.width, d.height))
	d.p.Timeout = config.Timeout
	d.p.log = d.log

	if err := d.Begin(); err != nil {
		return nil, err
	}
	return d, nil
}

func (d *Device) String() string {
	bounds := d.Bounds()
	return fmt.Sprintf("ST7735 %dx%d", bounds.Dx(), bounds.Dy())
}

// Protocol gives access to the command protocol, to stream custom data.
func (d *Device) Protocol() *Protocol {
	return d.p
}

// commands sends a table of {command, data...} entries.
func (d *Device) commands(commands [][]byte) (err error) {
	for _, command := range commands {
		if err = d.p.Send(command[0], command[1:]...); err != nil {
			return
		}
	}
	return
}

// Reset pulses the hardware reset line.
func (d *Device) Reset() error {
	return d.p.HardReset(resetLow, resetHigh)
}

// Begin resets the panel and runs the initialization sequence. The sequence
// configures panel specific analog trimming; the values are reproduced as is.
func (d *Device) Begin() (err error) {
	d.log.WithField("conn", d.c.String()).Debug("init display")

	if err = d.Reset(); err != nil {
		return
	}
	if err = d.p.Send(st7735.SWRESET, 0x01); err != nil {
		return
	}
	sleep(resetDelay)
	if err = d.p.Send(st7735.SLPOUT, 0x01); err != nil {
		return
	}
	sleep(wakeDelay)

	if err = d.commands([][]byte{
		{st7735.FRMCTR1, 0x01, 0x2C, 0x2D},                   // Frame rate control, normal mode
		{st7735.FRMCTR2, 0x01, 0x2C, 0x2D, 0x01, 0x2C, 0x2D}, // Frame rate control, idle mode
		{st7735.INVCTR, 0x07},
		{st7735.PWCTR1, 0xA2, 0x02, 0x84},
		{st7735.PWCTR2, 0x8A, 0x2A},
		{st7735.PWCTR3, 0x0A, 0x00},
		{st7735.PWCTR4, 0x8A, 0x2A},
		{st7735.PWCTR5, 0x8A, 0xEE},
		{st7735.VMCTR1, 0x0E},
		{st7735.INVOFF},
		{st7735.MADCTL, st7735.PageAddressOrder | st7735.ColumnAddressOrder | st7735.BGROrder}, // 0xC8
		{st7735.COLMOD, st7735.Pixel16Bit},
	}); err != nil {
		return
	}
	if err = d.p.SetWindow(Window{X0: 0, Y0: 0, X1: st7735.Width - 1, Y1: st7735.Height - 1}); err != nil {
		return
	}
	if err = d.commands([][]byte{
		{st7735.GMCTRP1, 0x02, 0x1C, 0x07, 0x12, 0x37, 0x32, 0x29, 0x2D, 0x29, 0x25, 0x2B, 0x39, 0x00, 0x01, 0x03, 0x10},
		{st7735.GMCTRN1, 0x03, 0x1D, 0x07, 0x06, 0x2E, 0x2C, 0x29, 0x2D, 0x2E, 0x2E, 0x37, 0x3F, 0x00, 0x00, 0x02, 0x10},
		{st7735.NORON},
	}); err != nil {
		return
	}
	return d.On()
}

// On enables the display output and the backlight.
func (d *Device) On() error {
	if err := d.p.Send(st7735.DISPON); err != nil {
		return err
	}
	d.on = true
	return d.applyBacklight()
}

// Off disables the display output and the backlight. Drawing still updates
// the panel memory.
func (d *Device) Off() error {
	if err := d.p.Send(st7735.DISPOFF); err != nil {
		return err
	}
	d.on = false
	return d.applyBacklight()
}

// IsOn reports whether the display output is enabled.
func (d *Device) IsOn() bool {
	return d.on
}

// Sleep puts the controller in or out of sleep mode.
func (d *Device) Sleep(asleep bool) error {
	if asleep {
		return d.p.Send(st7735.SLPIN)
	}
	if err := d.p.Send(st7735.SLPOUT); err != nil {
		return err
	}
	sleep(wakeDelay)
	return nil
}

// Invert toggles display inversion.
func (d *Device) Invert(invert bool) error {
	var command = byte(st7735.INVOFF)
	if invert {
		command = st7735.INVON
	}
	return d.p.Send(command)
}

// SetBacklight adjusts the backlight level. Without a backlight pin this is a no-op.
func (d *Device) SetBacklight(level uint8) error {
	d.brightness = level
	return d.applyBacklight()
}

// Backlight is the configured backlight level.
func (d *Device) Backlight() uint8 {
	return d.brightness
}

func (d *Device) applyBacklight() error {
	if d.backlight == nil {
		return nil
	}
	switch {
	case !d.on || d.brightness == 0:
		return d.backlight.Out(gpio.Low)
	case d.brightness == 0xFF:
		return d.backlight.Out(gpio.High)
	}
	const (
		step = gpio.DutyMax / 0xFF
		rate = 2 * physic.KiloHertz
	)
	d.log.Debugf("backlight duty cycle to %s at %s", step*gpio.Duty(d.brightness), rate)
	return d.backlight.PWM(step*gpio.Duty(d.brightness), rate)
}

// Halt turns the display off.
func (d *Device) Halt() error {
	return d.Off()
}

// Close turns the display off and closes the connection.
func (d *Device) Close() error {
	if err := d.Off(); err != nil {
		_ = d.c.Close()
		return err
	}
	return d.c.Close()
}

// Bounds is the drawable area in panel coordinates.
func (d *Device) Bounds() image.Rectangle {
	return image.Rect(0, 0, d.width-d.offset.X, d.height-d.offset.Y)
}

// Width is the number of addressable columns, the panel width plus the offset.
func (d *Device) Width() int {
	return d.width
}

// Height is the number of addressable rows, the panel height plus the offset.
func (d *Device) Height() int {
	return d.height
}

// Offset of the panel inside the controller RAM.
func (d *Device) Offset() image.Point {
	return d.offset
}

// ChannelOrder the colours are packed in.
func (d *Device) ChannelOrder() pixel.ChannelOrder {
	return d.order
}

// ColorModel of the packed pixels.
func (d *Device) ColorModel() color.Model {
	return pixel.Model(d.order)
}
