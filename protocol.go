package tft

import (
	"fmt"
	"image"
	"time"

	"github.com/sirupsen/logrus"
	"periph.io/x/conn/v3/gpio"

	"github.com/BeatGlow/tft/st7735"
)

// sleep is replaced in tests.
var sleep = time.Sleep

// Window is an inclusive rectangle in device address coordinates.
type Window struct {
	X0, Y0, X1, Y1 int
}

// WindowOf returns the window covering r, which must not be empty.
func WindowOf(r image.Rectangle) Window {
	return Window{X0: r.Min.X, Y0: r.Min.Y, X1: r.Max.X - 1, Y1: r.Max.Y - 1}
}

// In reports whether w is well formed and fits a device of the given size.
func (w Window) In(size image.Point) bool {
	return 0 <= w.X0 && w.X0 <= w.X1 && w.X1 < size.X &&
		0 <= w.Y0 && w.Y0 <= w.Y1 && w.Y1 < size.Y
}

// Area is the number of pixels covered by w.
func (w Window) Area() int {
	return (w.X1 - w.X0 + 1) * (w.Y1 - w.Y0 + 1)
}

func (w Window) String() string {
	return fmt.Sprintf("(%d,%d)-(%d,%d)", w.X0, w.Y0, w.X1, w.Y1)
}

// Protocol frames commands and pixel data for the panel.
//
// The panel keeps the last address window in its registers; the protocol
// tracks which window that is. Pixel data can only be written once a window
// has been latched with SetWindow. Commands that move or forget the window on
// the panel side, and failed transfers, drop the tracked window.
type Protocol struct {
	// Timeout bounds every transport call, zero waits forever. A call that
	// times out keeps running; later calls wait up to Timeout for it to finish
	// before touching the bus, and fail with ErrTimeout while it doesn't.
	Timeout time.Duration

	log      logrus.FieldLogger
	c        Conn
	size     image.Point
	window   Window
	latched  bool
	dataMode bool

	// pending receives the result of a transport call abandoned on timeout.
	// The Conn is not touched again until it has drained.
	pending chan error
}

// NewProtocol returns a protocol for a device with the given address space.
func NewProtocol(c Conn, size image.Point) *Protocol {
	return &Protocol{c: c, size: size, log: log}
}

// Forget drops the tracked window, for when the panel was reset behind the
// protocol's back.
func (p *Protocol) Forget() {
	p.latched = false
}

// HardReset pulses the reset line: low for low, then high for high. The
// panel loses its address window.
func (p *Protocol) HardReset(low, high time.Duration) error {
	if p.dataMode {
		return fmt.Errorf("tft: reset: %w", ErrDataMode)
	}
	p.latched = false
	if err := p.do("reset", func() error { return p.c.Reset(gpio.Low) }); err != nil {
		return err
	}
	sleep(low)
	if err := p.do("reset", func() error { return p.c.Reset(gpio.High) }); err != nil {
		return err
	}
	sleep(high)
	return nil
}

// Size is the device address space.
func (p *Protocol) Size() image.Point {
	return p.size
}

// Window returns the latched window.
func (p *Protocol) Window() (Window, bool) {
	return p.window, p.latched
}

// InDataMode reports whether a burst is open.
func (p *Protocol) InDataMode() bool {
	return p.dataMode
}

// Send sends a command byte followed by its data bytes in one transaction.
func (p *Protocol) Send(command byte, data ...byte) error {
	if p.dataMode {
		return fmt.Errorf("tft: send %s: %w", st7735.Name(command), ErrDataMode)
	}

	switch command {
	case st7735.RAMWR:
		if !p.latched {
			return ErrNoWindow
		}
	case st7735.CASET, st7735.RASET, st7735.SWRESET:
		p.latched = false
	}

	return p.transaction(func() error {
		if err := p.do("command", func() error { return p.c.Write([]byte{command}) }); err != nil {
			return err
		}
		if err := p.do("dc", func() error { return p.c.SetDC(gpio.High) }); err != nil {
			return err
		}
		if len(data) == 0 {
			return nil
		}
		return p.do("data", func() error { return p.c.Write(data) })
	})
}

// SetWindow latches the address window for the next pixel write. Windows
// outside the device address space are rejected without touching the bus.
func (p *Protocol) SetWindow(w Window) error {
	if !w.In(p.size) {
		return fmt.Errorf("tft: window %s on %dx%d device: %w", w, p.size.X, p.size.Y, ErrInvalidWindow)
	}
	if p.latched && p.window == w {
		return nil
	}
	p.log.WithField("window", w).Debug("set window")
	if err := p.Send(st7735.CASET, byte(w.X0>>8), byte(w.X0), byte(w.X1>>8), byte(w.X1)); err != nil {
		return err
	}
	if err := p.Send(st7735.RASET, byte(w.Y0>>8), byte(w.Y0), byte(w.Y1>>8), byte(w.Y1)); err != nil {
		return err
	}
	p.window, p.latched = w, true
	return nil
}

// EnterDataMode opens a burst: it sends the memory write command and keeps
// chip select asserted, so that any number of pixel bytes can follow.
func (p *Protocol) EnterDataMode() error {
	if p.dataMode {
		return fmt.Errorf("tft: enter data mode: %w", ErrDataMode)
	}
	if !p.latched {
		return ErrNoWindow
	}
	if err := p.do("dc", func() error { return p.c.SetDC(gpio.Low) }); err != nil {
		return err
	}
	if err := p.do("cs", func() error { return p.c.SetCS(gpio.Low) }); err != nil {
		return err
	}
	p.dataMode = true
	if err := p.do("command", func() error { return p.c.Write([]byte{st7735.RAMWR}) }); err != nil {
		return err
	}
	return p.do("dc", func() error { return p.c.SetDC(gpio.High) })
}

// Write streams pixel bytes inside a burst.
func (p *Protocol) Write(data []byte) error {
	if !p.dataMode {
		return fmt.Errorf("tft: write: %w", ErrDataMode)
	}
	return p.do("data", func() error { return p.c.Write(data) })
}

// ExitDataMode closes a burst by releasing chip select.
func (p *Protocol) ExitDataMode() error {
	if !p.dataMode {
		return fmt.Errorf("tft: exit data mode: %w", ErrDataMode)
	}
	p.dataMode = false
	if err := p.do("cs", func() error { return p.c.SetCS(gpio.High) }); err != nil {
		return err
	}
	return p.do("dc", func() error { return p.c.SetDC(gpio.Low) })
}

// Burst latches w and streams the bytes produced by fill in a single burst.
// The burst is closed even if fill fails.
func (p *Protocol) Burst(w Window, fill func(write func([]byte) error) error) error {
	if err := p.SetWindow(w); err != nil {
		return err
	}
	if err := p.EnterDataMode(); err != nil {
		return err
	}
	if err := fill(p.Write); err != nil {
		if p.dataMode {
			_ = p.ExitDataMode()
		}
		return err
	}
	return p.ExitDataMode()
}

// transaction runs fn with DC low and chip select asserted.
func (p *Protocol) transaction(fn func() error) error {
	if err := p.do("dc", func() error { return p.c.SetDC(gpio.Low) }); err != nil {
		return err
	}
	if err := p.do("cs", func() error { return p.c.SetCS(gpio.Low) }); err != nil {
		return err
	}
	if err := fn(); err != nil {
		return err
	}
	return p.do("cs", func() error { return p.c.SetCS(gpio.High) })
}

// do runs one transport call under the bus timeout. A failure forgets the
// window and any open burst; chip select is released best effort.
func (p *Protocol) do(op string, fn func() error) error {
	err := p.call(fn)
	if err == nil {
		return nil
	}

	p.latched = false
	p.dataMode = false
	if op != "cs" && p.pending == nil {
		_ = p.c.SetCS(gpio.High)
	}
	p.log.WithError(err).WithField("op", op).Error("bus transaction failed")
	return &BusError{Op: op, Err: err}
}

func (p *Protocol) call(fn func() error) error {
	if err := p.drain(); err != nil {
		return err
	}
	if p.Timeout <= 0 {
		return fn()
	}

	done := make(chan error, 1)
	go func() {
		done <- fn()
	}()

	timer := time.NewTimer(p.Timeout)
	defer timer.Stop()
	select {
	case err := <-done:
		return err
	case <-timer.C:
		p.pending = done
		return ErrTimeout
	}
}

// drain waits up to Timeout for a transfer abandoned by an earlier timeout.
func (p *Protocol) drain() error {
	if p.pending == nil {
		return nil
	}

	var expired <-chan time.Time
	if p.Timeout > 0 {
		timer := time.NewTimer(p.Timeout)
		defer timer.Stop()
		expired = timer.C
	}
	select {
	case err := <-p.pending:
		p.pending = nil
		if err != nil {
			p.log.WithError(err).Debug("abandoned transfer failed")
		}
		return nil
	case <-expired:
		return ErrTimeout
	}
}

// Busy reports whether a transfer abandoned on timeout is still running.
func (p *Protocol) Busy() bool {
	if p.pending == nil {
		return false
	}
	select {
	case err := <-p.pending:
		p.pending = nil
		if err != nil {
			p.log.WithError(err).Debug("abandoned transfer failed")
		}
		return false
	default:
		return true
	}
}
