package tft

import (
	"errors"
	"fmt"
	"io"

	"github.com/sirupsen/logrus"
	"periph.io/x/conn/v3/gpio"
	"periph.io/x/conn/v3/gpio/gpioreg"
	"periph.io/x/conn/v3/physic"
	"periph.io/x/conn/v3/spi"
	"tinygo.org/x/drivers"

	"github.com/BeatGlow/tft/conn"
)

// Conn errors.
var (
	ErrResetPin = errors.New("tft: reset GPIO pin is invalid")
	ErrDCPin    = errors.New("tft: data/command (DC) GPIO pin is invalid")
)

// Conn is the transport to the panel: a serial bus and three output lines.
//
// The data/command line is low for command bytes and high for data bytes,
// chip select and reset are active low.
type Conn interface {
	String() string

	// Close the connection.
	Close() error

	// Write blocks until data has been clocked out on the bus.
	Write(data []byte) error

	// SetDC sets the data/command select line.
	SetDC(gpio.Level) error

	// SetCS sets the chip select line.
	SetCS(gpio.Level) error

	// Reset sets the reset line.
	Reset(gpio.Level) error
}

// SPIConfig describes the SPI bus configuration.
type SPIConfig struct {
	// Port name as known by spireg, empty for the first port.
	Port string

	// Speed of the SPI clock.
	Speed physic.Frequency

	// Mode is the SPI mode.
	Mode spi.Mode

	// BatchSize limits the size of one bus transfer, 0 asks the port.
	BatchSize int

	// Reset, DC and CS are GPIO pin names. Leave CS empty when the SPI
	// port drives chip enable itself.
	Reset string
	DC    string
	CS    string
}

// DefaultSPIConfig are the default configuration values.
var DefaultSPIConfig = SPIConfig{
	Speed:     8 * physic.MegaHertz,
	Mode:      spi.Mode0,
	BatchSize: 4096,
	Reset:     "GPIO25",
	DC:        "GPIO24",
}

// ValidSPISpeeds are common valid SPI bus speeds.
var ValidSPISpeeds = []physic.Frequency{
	500 * physic.KiloHertz,
	1 * physic.MegaHertz,
	2 * physic.MegaHertz,
	4 * physic.MegaHertz,
	8 * physic.MegaHertz,
	16 * physic.MegaHertz,
	20 * physic.MegaHertz,
	24 * physic.MegaHertz,
	28 * physic.MegaHertz,
	32 * physic.MegaHertz,
}

const defaultBatchSize = 4096

type busConn struct {
	bus       drivers.SPI
	closer    io.Closer
	reset     gpio.PinOut
	dc        gpio.PinOut
	cs        gpio.PinOut
	batchSize int
	log       logrus.FieldLogger
}

// NewConn returns a Conn that writes to bus and drives the dc, cs and reset
// lines. The cs pin may be nil if the bus handles chip select.
func NewConn(bus drivers.SPI, dc, cs, reset gpio.PinOut) (Conn, error) {
	if !validPin(reset) {
		return nil, ErrResetPin
	}
	if !validPin(dc) {
		return nil, ErrDCPin
	}
	if cs == gpio.INVALID {
		cs = nil
	}

	c := &busConn{
		bus:       bus,
		reset:     reset,
		dc:        dc,
		cs:        cs,
		batchSize: defaultBatchSize,
		log:       log,
	}
	if closer, ok := bus.(io.Closer); ok {
		c.closer = closer
	}
	return c, nil
}

// OpenSPI opens the SPI port and GPIO pins described by config.
// The periph.io host drivers must have been initialized.
func OpenSPI(config *SPIConfig) (Conn, error) {
	if config == nil {
		config = new(SPIConfig)
		*config = DefaultSPIConfig
	}

	speed := config.Speed
	if speed == 0 {
		speed = DefaultSPIConfig.Speed
	}
	var valid bool
	for _, v := range ValidSPISpeeds {
		if valid = v == speed; valid {
			break
		}
	}
	if !valid {
		return nil, fmt.Errorf("tft: invalid SPI speed %s", speed)
	}

	var (
		reset = gpioreg.ByName(config.Reset)
		dc    = gpioreg.ByName(config.DC)
		cs    gpio.PinOut
	)
	if config.CS != "" {
		if pin := gpioreg.ByName(config.CS); pin != nil {
			cs = pin
		} else {
			return nil, fmt.Errorf("tft: chip select GPIO pin %q not found", config.CS)
		}
	}
	if reset == nil {
		return nil, ErrResetPin
	}
	if dc == nil {
		return nil, ErrDCPin
	}

	bus, err := conn.OpenSPI(config.Port, speed, config.Mode)
	if err != nil {
		return nil, err
	}

	c, err := NewConn(bus, dc, cs, reset)
	if err != nil {
		_ = bus.Close()
		return nil, err
	}

	batchSize := config.BatchSize
	if batchSize <= 0 {
		batchSize = bus.MaxTxSize()
	}
	if batchSize > 0 {
		c.(*busConn).batchSize = batchSize
	}
	return c, nil
}

func validPin(pin gpio.PinOut) bool {
	return pin != nil && pin != gpio.INVALID
}

func (c *busConn) String() string {
	if s, ok := c.bus.(fmt.Stringer); ok {
		return s.String()
	}
	return fmt.Sprintf("SPI bus %T", c.bus)
}

func (c *busConn) Close() error {
	if c.closer == nil {
		return nil
	}
	return c.closer.Close()
}

func (c *busConn) Reset(level gpio.Level) error {
	return c.reset.Out(level)
}

func (c *busConn) SetDC(level gpio.Level) error {
	return c.dc.Out(level)
}

func (c *busConn) SetCS(level gpio.Level) error {
	if c.cs == nil {
		return nil
	}
	return c.cs.Out(level)
}

// SetLogger replaces the logger, New hands it the device logger.
func (c *busConn) SetLogger(logger logrus.FieldLogger) {
	c.log = logger
}

func (c *busConn) Write(data []byte) error {
	if len(data) <= c.batchSize {
		return c.bus.Tx(data, nil)
	}

	c.log.Debugf("write %d bytes of data in %d chunks", len(data), (len(data)+c.batchSize-1)/c.batchSize)
	for len(data) > 0 {
		n := min(len(data), c.batchSize)
		if err := c.bus.Tx(data[:n], nil); err != nil {
			return err
		}
		data = data[n:]
	}
	return nil
}
