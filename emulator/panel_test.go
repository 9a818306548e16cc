package emulator

import (
	"errors"
	"image"
	"testing"

	"periph.io/x/conn/v3/gpio"

	"github.com/BeatGlow/tft/st7735"
)

// send writes one command transaction the way the driver frames it.
func send(t *testing.T, p *Panel, code byte, data ...byte) {
	t.Helper()
	must(t, p.SetDC(gpio.Low))
	must(t, p.SetCS(gpio.Low))
	must(t, p.Write([]byte{code}))
	must(t, p.SetDC(gpio.High))
	if len(data) > 0 {
		must(t, p.Write(data))
	}
	must(t, p.SetCS(gpio.High))
}

func must(t *testing.T, err error) {
	t.Helper()
	if err != nil {
		t.Fatal(err)
	}
}

func TestPanelPowerOn(t *testing.T) {
	p := New()
	if p.On() || !p.Asleep() {
		t.Errorf("expected panel off and asleep, got on=%t asleep=%t", p.On(), p.Asleep())
	}
	if p.COLMOD() != st7735.Pixel18Bit {
		t.Errorf("expected 18-bit pixels after reset, got %#02x", p.COLMOD())
	}
	if w := p.Window(); w != image.Rect(0, 0, st7735.RAMWidth, st7735.RAMHeight) {
		t.Errorf("expected full RAM window, got %s", w)
	}
}

func TestPanelRegisters(t *testing.T) {
	p := New()
	send(t, p, st7735.SLPOUT)
	send(t, p, st7735.MADCTL, 0xC8)
	send(t, p, st7735.COLMOD, 0x05)
	send(t, p, st7735.INVON)
	send(t, p, st7735.DISPON)

	if p.Asleep() || !p.On() || !p.Inverted() {
		t.Errorf("expected awake, on and inverted")
	}
	if p.MADCTL() != 0xC8 || p.COLMOD() != 0x05 {
		t.Errorf("expected MADCTL 0xC8 and COLMOD 0x05, got %#02x %#02x", p.MADCTL(), p.COLMOD())
	}

	send(t, p, st7735.SWRESET)
	if p.On() || p.MADCTL() != 0 {
		t.Error("expected software reset to restore defaults")
	}
}

func TestPanelTransactions(t *testing.T) {
	p := New()
	send(t, p, st7735.CASET, 0x00, 0x02, 0x00, 0x81)
	send(t, p, st7735.NORON)

	txs := p.Transactions()
	if len(txs) != 2 {
		t.Fatalf("expected 2 transactions, got %d", len(txs))
	}
	if got := txs[0].String(); got != "CASET [00 02 00 81]" {
		t.Errorf("unexpected transaction %q", got)
	}
	if got := txs[1].String(); got != "NORON" {
		t.Errorf("unexpected transaction %q", got)
	}
	if p.Selected() {
		t.Error("expected chip select released")
	}

	p.ClearLog()
	if len(p.Commands()) != 0 {
		t.Error("expected empty log")
	}
}

func TestPanelMemoryWrite(t *testing.T) {
	p := New()
	send(t, p, st7735.CASET, 0x00, 0x0A, 0x00, 0x0B)
	send(t, p, st7735.RASET, 0x00, 0x14, 0x00, 0x15)

	must(t, p.SetDC(gpio.Low))
	must(t, p.SetCS(gpio.Low))
	must(t, p.Write([]byte{st7735.RAMWR}))
	must(t, p.SetDC(gpio.High))
	// Split a word across two writes.
	must(t, p.Write([]byte{0x11, 0x22, 0x33}))
	must(t, p.Write([]byte{0x44, 0x55, 0x66, 0x77, 0x88}))
	// The fifth word wraps around to the window origin.
	must(t, p.Write([]byte{0x99, 0xAA}))
	must(t, p.SetCS(gpio.High))

	tests := []struct {
		x, y int
		want uint16
	}{
		{10, 20, 0x99AA},
		{11, 20, 0x3344},
		{10, 21, 0x5566},
		{11, 21, 0x7788},
	}
	for _, tt := range tests {
		if got := p.Word(tt.x, tt.y); got != tt.want {
			t.Errorf("(%d,%d): expected %#04x, got %#04x", tt.x, tt.y, tt.want, got)
		}
	}
	if p.Word(12, 20) != 0 || p.Word(10, 22) != 0 {
		t.Error("expected writes to stay inside the window")
	}
}

func TestPanelStray(t *testing.T) {
	p := New()
	must(t, p.Write([]byte{0x01, 0x02}))
	if p.Stray() != 2 {
		t.Errorf("expected 2 stray bytes, got %d", p.Stray())
	}
	if len(p.Transactions()) != 0 {
		t.Error("expected no transactions")
	}
}

func TestPanelReset(t *testing.T) {
	p := New()
	send(t, p, st7735.DISPON)
	must(t, p.Reset(gpio.Low))
	must(t, p.Reset(gpio.High))
	if p.Resets() != 1 {
		t.Errorf("expected 1 reset, got %d", p.Resets())
	}
	if p.On() {
		t.Error("expected reset to turn the display off")
	}
}

func TestPanelImage(t *testing.T) {
	p := New()
	send(t, p, st7735.MADCTL, st7735.BGROrder)
	send(t, p, st7735.DISPON)
	send(t, p, st7735.CASET, 0, 0, 0, 0)
	send(t, p, st7735.RASET, 0, 0, 0, 0)
	send(t, p, st7735.RAMWR, 0x00, 0x1F)

	img := p.RGBA(image.Rect(0, 0, 2, 2))
	if c := img.RGBAAt(0, 0); c.R != 0xFF || c.G != 0 || c.B != 0 {
		t.Errorf("expected red in BGR order, got %v", c)
	}

	send(t, p, st7735.DISPOFF)
	img = p.RGBA(image.Rect(0, 0, 2, 2))
	if c := img.RGBAAt(0, 0); c.R != 0 || c.G != 0 || c.B != 0 {
		t.Errorf("expected black while off, got %v", c)
	}
}

func TestPanelFailWith(t *testing.T) {
	p := New()
	boom := errors.New("boom")
	p.FailWith(boom)
	if err := p.Write([]byte{0}); !errors.Is(err, boom) {
		t.Errorf("expected injected error, got %v", err)
	}
	p.FailWith(nil)
	if err := p.Write([]byte{0}); err != nil {
		t.Errorf("expected recovery, got %v", err)
	}
	if err := p.Close(); err != nil || !p.Closed() {
		t.Error("expected panel closed")
	}
}
