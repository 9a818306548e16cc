package tft

import (
	"errors"
	"fmt"
	"image"
	"testing"
	"time"

	"periph.io/x/conn/v3/gpio"

	"github.com/BeatGlow/tft/emulator"
	"github.com/BeatGlow/tft/st7735"
)

func init() {
	sleep = func(time.Duration) {}
}

// recorder is a Conn that logs every line change and write.
type recorder struct {
	events []string
	fail   error
	delay  time.Duration
	closed bool
}

func (r *recorder) String() string { return "recorder" }

func (r *recorder) Close() error {
	r.closed = true
	return nil
}

func (r *recorder) Write(data []byte) error {
	if r.delay > 0 {
		time.Sleep(r.delay)
		return nil
	}
	if r.fail != nil {
		return r.fail
	}
	r.events = append(r.events, fmt.Sprintf("write % X", data))
	return nil
}

func (r *recorder) SetDC(level gpio.Level) error {
	r.events = append(r.events, "dc "+level.String())
	return nil
}

func (r *recorder) SetCS(level gpio.Level) error {
	r.events = append(r.events, "cs "+level.String())
	return nil
}

func (r *recorder) Reset(level gpio.Level) error {
	r.events = append(r.events, "reset "+level.String())
	return nil
}

var errBoom = errors.New("boom")

// newTestDevice returns an initialized device on an emulated panel, with the
// init traffic cleared from the panel log.
func newTestDevice(t *testing.T, config *Config) (*Device, *emulator.Panel) {
	t.Helper()
	panel := emulator.New()
	d, err := New(panel, config)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	panel.ClearLog()
	return d, panel
}

// ramWrites returns the data of every RAMWR command sent.
func ramWrites(panel *emulator.Panel) [][]byte {
	var out [][]byte
	for _, c := range panel.Commands() {
		if c.Code == st7735.RAMWR {
			out = append(out, c.Data)
		}
	}
	return out
}

// litPixels returns the panel coordinates of all RAM words that are not zero.
func litPixels(d *Device, panel *emulator.Panel) map[image.Point]bool {
	var (
		lit    = make(map[image.Point]bool)
		bounds = d.Bounds()
		o      = d.Offset()
	)
	for y := bounds.Min.Y; y < bounds.Max.Y; y++ {
		for x := bounds.Min.X; x < bounds.Max.X; x++ {
			if panel.Word(x+o.X, y+o.Y) != 0 {
				lit[image.Pt(x, y)] = true
			}
		}
	}
	return lit
}
