// Package tft drives ST7735 based TFT panels over SPI.
//
// A [Device] talks to the panel through a [Protocol], which frames commands,
// latches the addressed window and streams pixel bursts over a [Conn]. Drawing
// calls are written straight to the panel; the driver keeps no frame buffer.
//
// A Device is not safe for concurrent use. Chip select is shared by every
// operation, so all calls must come from a single goroutine or be serialized
// by the caller.
package tft

import (
	"errors"
	"fmt"
	"os"

	"github.com/sirupsen/logrus"
)

var debug bool

// log is used when the Config carries no logger.
var log logrus.FieldLogger

func init() {
	debug = os.Getenv("DISPLAY_DEBUG") != ""

	if debug {
		logrus.SetLevel(logrus.DebugLevel)
	}
	log = logrus.WithField("driver", "st7735")
}

// Errors
var (
	ErrBus           = errors.New("tft: bus transaction failed")
	ErrTimeout       = errors.New("tft: bus transaction timed out")
	ErrInvalidWindow = errors.New("tft: window out of display bounds")
	ErrNoWindow      = errors.New("tft: no address window latched")
	ErrDataMode      = errors.New("tft: invalid in current data mode")
	ErrGlyphRange    = errors.New("tft: character code has no glyph")
	ErrTextSize      = errors.New("tft: text size must be at least 1")
	ErrOffset        = errors.New("tft: pixel offset must not be negative")
)

// BusError is returned when the transport fails. The protocol never retries:
// the panel can't acknowledge writes, so the state after a failed transfer is
// unknown.
type BusError struct {
	// Op is the transport operation that failed.
	Op string

	// Err is the transport error, or ErrTimeout.
	Err error
}

func (err *BusError) Error() string {
	return fmt.Sprintf("tft: bus %s: %v", err.Op, err.Err)
}

func (err *BusError) Unwrap() error {
	return err.Err
}

// Is makes every BusError match ErrBus.
func (err *BusError) Is(target error) bool {
	return target == ErrBus
}
