package tft

import (
	"bytes"
	"errors"
	"image"
	"testing"

	"periph.io/x/conn/v3/gpio"
	"periph.io/x/conn/v3/gpio/gpiotest"
	"periph.io/x/conn/v3/physic"

	"github.com/BeatGlow/tft/emulator"
	"github.com/BeatGlow/tft/pixel"
	"github.com/BeatGlow/tft/st7735"
)

func TestNewInitSequence(t *testing.T) {
	panel := emulator.New()
	d, err := New(panel, nil)
	if err != nil {
		t.Fatal(err)
	}

	want := []emulator.Command{
		{Code: st7735.SWRESET, Data: []byte{0x01}},
		{Code: st7735.SLPOUT, Data: []byte{0x01}},
		{Code: st7735.FRMCTR1, Data: []byte{0x01, 0x2C, 0x2D}},
		{Code: st7735.FRMCTR2, Data: []byte{0x01, 0x2C, 0x2D, 0x01, 0x2C, 0x2D}},
		{Code: st7735.INVCTR, Data: []byte{0x07}},
		{Code: st7735.PWCTR1, Data: []byte{0xA2, 0x02, 0x84}},
		{Code: st7735.PWCTR2, Data: []byte{0x8A, 0x2A}},
		{Code: st7735.PWCTR3, Data: []byte{0x0A, 0x00}},
		{Code: st7735.PWCTR4, Data: []byte{0x8A, 0x2A}},
		{Code: st7735.PWCTR5, Data: []byte{0x8A, 0xEE}},
		{Code: st7735.VMCTR1, Data: []byte{0x0E}},
		{Code: st7735.INVOFF},
		{Code: st7735.MADCTL, Data: []byte{0xC8}},
		{Code: st7735.COLMOD, Data: []byte{0x05}},
		{Code: st7735.CASET, Data: []byte{0x00, 0x00, 0x00, 0x7F}},
		{Code: st7735.RASET, Data: []byte{0x00, 0x00, 0x00, 0x9F}},
		{Code: st7735.GMCTRP1, Data: []byte{0x02, 0x1C, 0x07, 0x12, 0x37, 0x32, 0x29, 0x2D, 0x29, 0x25, 0x2B, 0x39, 0x00, 0x01, 0x03, 0x10}},
		{Code: st7735.GMCTRN1, Data: []byte{0x03, 0x1D, 0x07, 0x06, 0x2E, 0x2C, 0x29, 0x2D, 0x2E, 0x2E, 0x37, 0x3F, 0x00, 0x00, 0x02, 0x10}},
		{Code: st7735.NORON},
		{Code: st7735.DISPON},
	}
	got := panel.Commands()
	if len(got) != len(want) {
		t.Fatalf("expected %d commands, got %d: %v", len(want), len(got), got)
	}
	for i := range want {
		if got[i].Code != want[i].Code || !bytes.Equal(got[i].Data, want[i].Data) {
			t.Errorf("command %d: expected %s, got %s", i, want[i], got[i])
		}
	}
	if n := len(panel.Transactions()); n != len(want) {
		t.Errorf("expected one transaction per command, got %d", n)
	}

	if panel.Resets() != 1 {
		t.Errorf("expected one hardware reset, got %d", panel.Resets())
	}
	if panel.Stray() != 0 {
		t.Errorf("expected no stray bytes, got %d", panel.Stray())
	}
	if panel.Selected() {
		t.Error("expected chip select to be released")
	}
	if !panel.On() || panel.Asleep() {
		t.Errorf("expected panel on and awake, got on=%t asleep=%t", panel.On(), panel.Asleep())
	}
	if !d.IsOn() {
		t.Error("expected device to report on")
	}
	if w, ok := d.Protocol().Window(); !ok || w != (Window{X1: 127, Y1: 159}) {
		t.Errorf("expected full panel window latched, got %s (%t)", w, ok)
	}
}

func TestNewOffset(t *testing.T) {
	tests := []struct {
		name    string
		offset  image.Point
		wantErr bool
	}{
		{"default", image.Pt(2, 1), false},
		{"none", image.Pt(0, 0), false},
		{"largest", image.Pt(4, 2), false},
		{"negative x", image.Pt(-1, 0), true},
		{"negative y", image.Pt(0, -1), true},
		{"too wide", image.Pt(5, 0), true},
		{"too tall", image.Pt(0, 3), true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			panel := emulator.New()
			d, err := New(panel, &Config{Offset: tt.offset})
			if tt.wantErr {
				if !errors.Is(err, ErrOffset) {
					t.Errorf("expected ErrOffset, got %v", err)
				}
				if n := len(panel.Transactions()); n != 0 {
					t.Errorf("expected no traffic, got %d transactions", n)
				}
				return
			}
			if err != nil {
				t.Fatal(err)
			}
			if got := d.Bounds(); got != image.Rect(0, 0, 128, 160) {
				t.Errorf("expected bounds 128x160, got %s", got)
			}
			if d.Width() != 128+tt.offset.X || d.Height() != 160+tt.offset.Y {
				t.Errorf("expected address space %dx%d, got %dx%d",
					128+tt.offset.X, 160+tt.offset.Y, d.Width(), d.Height())
			}
		})
	}
}

func TestOnOff(t *testing.T) {
	d, panel := newTestDevice(t, nil)

	if err := d.Off(); err != nil {
		t.Fatal(err)
	}
	if d.IsOn() || panel.On() {
		t.Error("expected display off")
	}
	for i := 0; i < 2; i++ {
		if err := d.On(); err != nil {
			t.Fatal(err)
		}
		if !d.IsOn() || !panel.On() {
			t.Errorf("call %d: expected display on", i)
		}
	}
}

func TestSleepInvert(t *testing.T) {
	d, panel := newTestDevice(t, nil)

	if err := d.Sleep(true); err != nil {
		t.Fatal(err)
	}
	if !panel.Asleep() {
		t.Error("expected panel asleep")
	}
	if err := d.Sleep(false); err != nil {
		t.Fatal(err)
	}
	if panel.Asleep() {
		t.Error("expected panel awake")
	}

	if err := d.Invert(true); err != nil {
		t.Fatal(err)
	}
	if !panel.Inverted() {
		t.Error("expected inversion on")
	}
	if err := d.Invert(false); err != nil {
		t.Fatal(err)
	}
	if panel.Inverted() {
		t.Error("expected inversion off")
	}
}

func TestBacklight(t *testing.T) {
	pin := &gpiotest.Pin{N: "GPIO18", Num: 18}
	d, _ := newTestDevice(t, &Config{
		Offset:    DefaultConfig.Offset,
		Backlight: pin,
	})

	if pin.L != gpio.High {
		t.Errorf("expected backlight on after init, got %s", pin.L)
	}

	if err := d.SetBacklight(0x80); err != nil {
		t.Fatal(err)
	}
	if want := gpio.DutyMax / 0xFF * 0x80; pin.D != want {
		t.Errorf("expected duty %s, got %s", want, pin.D)
	}
	if pin.F != 2*physic.KiloHertz {
		t.Errorf("expected PWM at 2kHz, got %s", pin.F)
	}
	if d.Backlight() != 0x80 {
		t.Errorf("expected level 0x80, got %#02x", d.Backlight())
	}

	if err := d.Off(); err != nil {
		t.Fatal(err)
	}
	if pin.L != gpio.Low {
		t.Errorf("expected backlight off with the display, got %s", pin.L)
	}

	if err := d.On(); err != nil {
		t.Fatal(err)
	}
	if err := d.SetBacklight(0); err != nil {
		t.Fatal(err)
	}
	if pin.L != gpio.Low {
		t.Errorf("expected backlight off at level 0, got %s", pin.L)
	}
}

func TestBacklightWithoutPin(t *testing.T) {
	d, panel := newTestDevice(t, nil)
	if err := d.SetBacklight(0x40); err != nil {
		t.Fatal(err)
	}
	if n := len(panel.Transactions()); n != 0 {
		t.Errorf("expected no traffic, got %d transactions", n)
	}
}

func TestClose(t *testing.T) {
	d, panel := newTestDevice(t, nil)
	if err := d.Close(); err != nil {
		t.Fatal(err)
	}
	if panel.On() {
		t.Error("expected display off after close")
	}
	if !panel.Closed() {
		t.Error("expected connection closed")
	}
}

func TestChannelOrder(t *testing.T) {
	d, _ := newTestDevice(t, &Config{Offset: DefaultConfig.Offset, ChannelOrder: pixel.RGB})
	if d.ChannelOrder() != pixel.RGB {
		t.Errorf("expected rgb, got %s", d.ChannelOrder())
	}
	if d.ColorModel() != pixel.CRGB16Model {
		t.Error("expected CRGB16 model")
	}
}
