// Package conn opens the serial buses used by the display drivers.
package conn

import (
	"fmt"

	"periph.io/x/conn/v3"
	"periph.io/x/conn/v3/physic"
	"periph.io/x/conn/v3/spi"
	"periph.io/x/conn/v3/spi/spireg"
)

// SPI is an opened SPI port. It satisfies the tinygo drivers.SPI interface, so
// it can be used wherever a bus from tinygo.org/x/drivers is expected.
type SPI struct {
	port  spi.PortCloser
	conn  spi.Conn
	speed physic.Frequency
	mode  spi.Mode
}

// OpenSPI opens the named SPI port ("" for the first one available) and
// connects to it with 8 bits per word.
func OpenSPI(name string, speed physic.Frequency, mode spi.Mode) (*SPI, error) {
	port, err := spireg.Open(name)
	if err != nil {
		return nil, err
	}

	c, err := port.Connect(speed, mode, 8)
	if err != nil {
		_ = port.Close()
		return nil, fmt.Errorf("conn: SPI connect at %s: %w", speed, err)
	}

	return &SPI{
		port:  port,
		conn:  c,
		speed: speed,
		mode:  mode,
	}, nil
}

func (c *SPI) Close() error {
	return c.port.Close()
}

func (c *SPI) String() string {
	return fmt.Sprintf("SPI %s mode=%d speed=%s", c.port, c.mode, c.speed)
}

// Tx does a full duplex transfer, r may be nil for writes.
func (c *SPI) Tx(w, r []byte) error {
	return c.conn.Tx(w, r)
}

// Transfer writes one byte and returns the byte read back.
func (c *SPI) Transfer(b byte) (byte, error) {
	var r [1]byte
	if err := c.conn.Tx([]byte{b}, r[:]); err != nil {
		return 0, err
	}
	return r[0], nil
}

// MaxTxSize is the largest transfer the port accepts, 0 if unknown.
func (c *SPI) MaxTxSize() int {
	if l, ok := c.conn.(conn.Limits); ok {
		return l.MaxTxSize()
	}
	return 0
}
