// Command tft-sim shows an emulated ST7735 panel in a desktop window while a
// drawing script runs on it.
package main

import (
	"bufio"
	"flag"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/sirupsen/logrus"

	"github.com/BeatGlow/tft"
	"github.com/BeatGlow/tft/emulator"
	"github.com/BeatGlow/tft/internal/script"
	"github.com/BeatGlow/tft/pixel"
)

func main() {
	scaleFlag := flag.Int("scale", 3, "Window scale factor")
	orderFlag := flag.String("order", tft.DefaultConfig.ChannelOrder.String(), "Colour channel order (rgb or bgr)")
	loopFlag := flag.Bool("loop", false, "Restart the script when it ends")
	debugFlag := flag.Bool("debug", false, "Enable debug logging")
	flag.Parse()

	if *debugFlag {
		logrus.SetLevel(logrus.DebugLevel)
	}

	order, err := pixel.ParseChannelOrder(*orderFlag)
	if err != nil {
		fatal(err)
	}

	source := script.Demo
	if name := flag.Arg(0); name != "" {
		b, err := os.ReadFile(name)
		if err != nil {
			fatal(err)
		}
		source = string(b)
	}

	panel := emulator.New()
	config := tft.DefaultConfig
	config.ChannelOrder = order
	display, err := tft.New(panel, &config)
	if err != nil {
		fatal(err)
	}

	s := &sim{
		panel:   panel,
		display: display,
		lines:   splitLines(source),
		loop:    *loopFlag,
	}
	s.runner = script.New(display)
	s.runner.Wait = func(d time.Duration) { s.until = time.Now().Add(d) }

	size := display.Bounds().Size()
	ebiten.SetWindowTitle(display.String())
	ebiten.SetWindowSize(size.X*max(1, *scaleFlag), size.Y*max(1, *scaleFlag))
	if err = ebiten.RunGame(s); err != nil {
		fatal(err)
	}
}

// sim runs one script line per tick. Waits don't block the window.
type sim struct {
	panel   *emulator.Panel
	display *tft.Device
	runner  *script.Runner
	lines   []string
	next    int
	loop    bool
	until   time.Time
	screen  *ebiten.Image
}

func (s *sim) Update() error {
	if time.Now().Before(s.until) {
		return nil
	}
	if s.next >= len(s.lines) {
		if !s.loop {
			return nil
		}
		s.next = 0
	}
	line := s.lines[s.next]
	s.next++
	if err := s.runner.Exec(line); err != nil {
		return &script.Error{Line: s.next, Err: err}
	}
	return nil
}

func (s *sim) Draw(screen *ebiten.Image) {
	visible := s.display.Bounds().Add(s.display.Offset())
	if s.screen == nil {
		s.screen = ebiten.NewImage(visible.Dx(), visible.Dy())
	}
	s.screen.WritePixels(s.panel.RGBA(visible).Pix)
	screen.DrawImage(s.screen, nil)
}

func (s *sim) Layout(outsideWidth, outsideHeight int) (int, int) {
	size := s.display.Bounds().Size()
	return size.X, size.Y
}

func splitLines(source string) []string {
	var (
		lines []string
		scan  = bufio.NewScanner(strings.NewReader(source))
	)
	for scan.Scan() {
		lines = append(lines, scan.Text())
	}
	return lines
}

func fatal(err error) {
	fmt.Fprintln(os.Stderr, "fatal: "+err.Error())
	os.Exit(1)
}
