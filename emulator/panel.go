// Package emulator is a software model of an ST7735 panel.
//
// A Panel implements the transport expected by the tft driver: it decodes the
// command stream written to it, keeps the controller registers and renders
// memory writes into a 132x162 RAM image. Pixels are stored in address order;
// the scan direction bits of MADCTL are recorded but not applied.
//
// Every transaction (the bytes sent while chip select was asserted) is logged,
// which makes the panel useful to assert the exact byte stream of a driver.
package emulator

import (
	"fmt"
	"image"
	"image/color"
	"image/draw"
	"strings"

	"periph.io/x/conn/v3/gpio"

	"github.com/BeatGlow/tft/pixel"
	"github.com/BeatGlow/tft/st7735"
)

// Command is a command byte and the data bytes that followed it.
type Command struct {
	Code byte
	Data []byte
}

func (c Command) String() string {
	if len(c.Data) == 0 {
		return st7735.Name(c.Code)
	}
	if len(c.Data) > 16 {
		return fmt.Sprintf("%s [% X ...] (%d bytes)", st7735.Name(c.Code), c.Data[:16], len(c.Data))
	}
	return fmt.Sprintf("%s [% X]", st7735.Name(c.Code), c.Data)
}

// Transaction holds the commands sent while chip select was asserted.
type Transaction struct {
	Commands []Command
}

func (t Transaction) String() string {
	parts := make([]string, len(t.Commands))
	for i, c := range t.Commands {
		parts[i] = c.String()
	}
	return strings.Join(parts, "; ")
}

// Panel emulates the controller side of the bus.
type Panel struct {
	ram *pixel.CRGB16Image

	dc    gpio.Level
	cs    gpio.Level
	reset gpio.Level

	current *Transaction
	log     []Transaction
	stray   int
	resets  int
	closed  bool
	err     error

	xs, xe, ys, ye int
	cursor         image.Point
	pending        []byte

	madctl   byte
	colmod   byte
	on       bool
	asleep   bool
	inverted bool
}

// New returns a panel in its power-on reset state.
func New() *Panel {
	p := &Panel{
		ram:   pixel.NewCRGB16Image(st7735.RAMWidth, st7735.RAMHeight),
		dc:    gpio.Low,
		cs:    gpio.High,
		reset: gpio.High,
	}
	p.softReset()
	return p
}

func (p *Panel) String() string {
	return "ST7735 emulator"
}

// Close marks the panel closed. Closing twice is not an error.
func (p *Panel) Close() error {
	p.closed = true
	return nil
}

// Closed reports whether Close was called.
func (p *Panel) Closed() bool {
	return p.closed
}

// FailWith makes every following Write return err. Pass nil to recover.
func (p *Panel) FailWith(err error) {
	p.err = err
}

// SetDC sets the data/command line.
func (p *Panel) SetDC(level gpio.Level) error {
	p.dc = level
	return nil
}

// SetCS sets the chip select line. The rising edge ends a transaction.
func (p *Panel) SetCS(level gpio.Level) error {
	switch {
	case p.cs == gpio.High && level == gpio.Low:
		p.current = &Transaction{}
	case p.cs == gpio.Low && level == gpio.High:
		if p.current != nil && len(p.current.Commands) > 0 {
			p.log = append(p.log, *p.current)
		}
		p.current = nil
		p.pending = p.pending[:0]
	}
	p.cs = level
	return nil
}

// Reset sets the reset line. A low pulse resets the controller.
func (p *Panel) Reset(level gpio.Level) error {
	if p.reset == gpio.Low && level == gpio.High {
		p.resets++
		p.softReset()
	}
	p.reset = level
	return nil
}

// Write clocks bytes into the controller.
func (p *Panel) Write(data []byte) error {
	if p.err != nil {
		return p.err
	}
	if p.cs == gpio.High || p.reset == gpio.Low || p.current == nil {
		p.stray += len(data)
		return nil
	}

	if p.dc == gpio.Low {
		for _, b := range data {
			p.command(b)
		}
		return nil
	}

	n := len(p.current.Commands)
	if n == 0 {
		p.stray += len(data)
		return nil
	}
	cmd := &p.current.Commands[n-1]
	cmd.Data = append(cmd.Data, data...)
	if cmd.Code == st7735.RAMWR {
		p.pixels(data)
	} else {
		p.parameters(cmd)
	}
	return nil
}

func (p *Panel) command(code byte) {
	p.current.Commands = append(p.current.Commands, Command{Code: code})
	p.pending = p.pending[:0]

	switch code {
	case st7735.SWRESET:
		p.softReset()
	case st7735.SLPIN:
		p.asleep = true
	case st7735.SLPOUT:
		p.asleep = false
	case st7735.INVOFF:
		p.inverted = false
	case st7735.INVON:
		p.inverted = true
	case st7735.DISPOFF:
		p.on = false
	case st7735.DISPON:
		p.on = true
	case st7735.RAMWR:
		p.cursor = image.Pt(p.xs, p.ys)
	}
}

func (p *Panel) parameters(cmd *Command) {
	d := cmd.Data
	switch cmd.Code {
	case st7735.CASET:
		if len(d) == 4 {
			p.xs, p.xe = int(d[0])<<8|int(d[1]), int(d[2])<<8|int(d[3])
		}
	case st7735.RASET:
		if len(d) == 4 {
			p.ys, p.ye = int(d[0])<<8|int(d[1]), int(d[2])<<8|int(d[3])
		}
	case st7735.MADCTL:
		if len(d) == 1 {
			p.madctl = d[0]
		}
	case st7735.COLMOD:
		if len(d) == 1 {
			p.colmod = d[0]
		}
	}
}

func (p *Panel) pixels(data []byte) {
	if len(p.pending) > 0 {
		data = append([]byte{p.pending[0]}, data...)
		p.pending = p.pending[:0]
	}
	for ; len(data) >= 2; data = data[2:] {
		p.ram.SetWord(p.cursor.X, p.cursor.Y, uint16(data[0])<<8|uint16(data[1]))
		p.advance()
	}
	if len(data) == 1 {
		p.pending = append(p.pending, data[0])
	}
}

// advance moves the write cursor through the window, wrapping at its end.
func (p *Panel) advance() {
	p.cursor.X++
	if p.cursor.X <= p.xe {
		return
	}
	p.cursor.X = p.xs
	if p.cursor.Y++; p.cursor.Y > p.ye {
		p.cursor.Y = p.ys
	}
}

func (p *Panel) softReset() {
	p.xs, p.xe = 0, st7735.RAMWidth-1
	p.ys, p.ye = 0, st7735.RAMHeight-1
	p.madctl = 0
	p.colmod = st7735.Pixel18Bit
	p.on = false
	p.asleep = true
	p.inverted = false
}

// Transactions returns the completed transactions.
func (p *Panel) Transactions() []Transaction {
	return p.log
}

// Commands returns the commands of all completed transactions, in order.
func (p *Panel) Commands() []Command {
	var commands []Command
	for _, t := range p.log {
		commands = append(commands, t.Commands...)
	}
	return commands
}

// ClearLog forgets the recorded transactions.
func (p *Panel) ClearLog() {
	p.log = nil
	p.stray = 0
}

// Stray is the number of bytes written outside a transaction or command.
func (p *Panel) Stray() int {
	return p.stray
}

// Resets is the number of hardware reset pulses seen.
func (p *Panel) Resets() int {
	return p.resets
}

// Selected reports whether chip select is asserted.
func (p *Panel) Selected() bool {
	return p.cs == gpio.Low
}

// On reports whether the display output is enabled.
func (p *Panel) On() bool {
	return p.on
}

// Asleep reports whether the controller is in sleep mode.
func (p *Panel) Asleep() bool {
	return p.asleep
}

// Inverted reports whether display inversion is on.
func (p *Panel) Inverted() bool {
	return p.inverted
}

// MADCTL is the memory access control register.
func (p *Panel) MADCTL() byte {
	return p.madctl
}

// COLMOD is the interface pixel format register.
func (p *Panel) COLMOD() byte {
	return p.colmod
}

// Window is the current column and row address range, Max exclusive.
func (p *Panel) Window() image.Rectangle {
	return image.Rect(p.xs, p.ys, p.xe+1, p.ye+1)
}

// Word returns the raw RAM word at (x, y).
func (p *Panel) Word(x, y int) uint16 {
	v, _ := p.ram.Word(x, y)
	return v
}

// Image returns the RAM contents, interpreting the words in the channel
// order selected by MADCTL. The image shares memory with the panel.
func (p *Panel) Image() pixel.Image {
	if p.madctl&st7735.BGROrder != 0 {
		return p.ram.View(pixel.BGR)
	}
	return p.ram.View(pixel.RGB)
}

// RGBA renders r of the RAM into a new RGBA image. Pixels are black while the
// display is off.
func (p *Panel) RGBA(r image.Rectangle) *image.RGBA {
	dst := image.NewRGBA(image.Rect(0, 0, r.Dx(), r.Dy()))
	if !p.on {
		draw.Draw(dst, dst.Bounds(), image.NewUniform(color.Black), image.Point{}, draw.Src)
		return dst
	}
	draw.Draw(dst, dst.Bounds(), p.Image(), r.Min, draw.Src)
	return dst
}
