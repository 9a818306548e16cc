package main

import (
	"flag"
	"fmt"
	"image"
	"image/png"
	"io"
	"os"
	"strings"
	"time"

	"github.com/sirupsen/logrus"
	xdraw "golang.org/x/image/draw"
	"periph.io/x/conn/v3/gpio/gpioreg"
	"periph.io/x/conn/v3/spi"
	"periph.io/x/host/v3"

	"github.com/BeatGlow/tft"
	"github.com/BeatGlow/tft/emulator"
	"github.com/BeatGlow/tft/internal/script"
	"github.com/BeatGlow/tft/pixel"
)

func main() {
	speed := tft.DefaultSPIConfig.Speed
	flag.Var(&speed, "speed", "SPI clock speed")
	portFlag := flag.String("port", "", "SPI port (default: use first available)")
	modeFlag := flag.Int("mode", int(spi.Mode0), "SPI mode")
	resetPinFlag := flag.String("reset", tft.DefaultSPIConfig.Reset, "Reset GPIO pin")
	dcPinFlag := flag.String("dc", tft.DefaultSPIConfig.DC, "Data/Command GPIO pin (DC)")
	csPinFlag := flag.String("cs", "", "Chip select GPIO pin (default: driven by the SPI port)")
	blPinFlag := flag.String("bl", "GPIO18", "Backlight GPIO pin")
	offsetXFlag := flag.Int("offset-x", tft.DefaultConfig.Offset.X, "Column offset of the panel in controller RAM")
	offsetYFlag := flag.Int("offset-y", tft.DefaultConfig.Offset.Y, "Row offset of the panel in controller RAM")
	orderFlag := flag.String("order", tft.DefaultConfig.ChannelOrder.String(), "Colour channel order (rgb or bgr)")
	timeoutFlag := flag.Duration("timeout", time.Second, "Bus transaction timeout")
	emulateFlag := flag.String("emulate", "", "Draw on an emulated panel and save it as PNG to this file")
	scaleFlag := flag.Int("scale", 4, "Scale factor of the emulated PNG")
	debugFlag := flag.Bool("debug", false, "Enable debug logging")
	listFlag := flag.Bool("list", false, "List script commands and exit")
	flag.Usage = func() {
		fmt.Fprintf(flag.CommandLine.Output(), "Usage: %s [flags] [script]\n\nDraws the script, or a demo screen, on an ST7735 display.\n\n", os.Args[0])
		flag.PrintDefaults()
	}
	flag.Parse()

	if *listFlag {
		for _, usage := range script.Commands() {
			fmt.Println(usage)
		}
		return
	}
	if *debugFlag {
		logrus.SetLevel(logrus.DebugLevel)
	}

	order, err := pixel.ParseChannelOrder(*orderFlag)
	if err != nil {
		fatal(err)
	}

	source, err := readScript(flag.Arg(0))
	if err != nil {
		fatal(err)
	}

	var (
		config = &tft.Config{
			Offset:       image.Pt(*offsetXFlag, *offsetYFlag),
			ChannelOrder: order,
			Timeout:      *timeoutFlag,
		}
		conn  tft.Conn
		panel *emulator.Panel
	)
	if *emulateFlag != "" {
		panel = emulator.New()
		conn = panel
	} else {
		if _, err = host.Init(); err != nil {
			fatal(err)
		}
		if conn, err = tft.OpenSPI(&tft.SPIConfig{
			Port:  *portFlag,
			Speed: speed,
			Mode:  spi.Mode(*modeFlag),
			Reset: *resetPinFlag,
			DC:    *dcPinFlag,
			CS:    *csPinFlag,
		}); err != nil {
			fatal(err)
		}
		config.Backlight = gpioreg.ByName(*blPinFlag)
	}
	defer conn.Close()
	logrus.Infof("using connection: %s", conn)

	display, err := tft.New(conn, config)
	if err != nil {
		fatal(err)
	}
	logrus.Infof("using driver: %s", display)

	runner := script.New(display)
	if panel != nil {
		runner.Wait = func(time.Duration) {}
	}
	if err = runner.Run(strings.NewReader(source)); err != nil {
		fatal(err)
	}

	if panel != nil {
		if err = savePNG(*emulateFlag, panel, display, *scaleFlag); err != nil {
			fatal(err)
		}
		logrus.Infof("saved %s", *emulateFlag)
	}
}

func readScript(name string) (string, error) {
	switch name {
	case "":
		return script.Demo, nil
	case "-":
		b, err := io.ReadAll(os.Stdin)
		return string(b), err
	default:
		b, err := os.ReadFile(name)
		return string(b), err
	}
}

// savePNG writes the visible part of the panel RAM, scaled up.
func savePNG(name string, panel *emulator.Panel, display *tft.Device, scale int) error {
	visible := display.Bounds().Add(display.Offset())
	src := panel.RGBA(visible)
	scale = max(1, scale)
	dst := image.NewRGBA(image.Rect(0, 0, visible.Dx()*scale, visible.Dy()*scale))
	xdraw.NearestNeighbor.Scale(dst, dst.Bounds(), src, src.Bounds(), xdraw.Src, nil)

	f, err := os.Create(name)
	if err != nil {
		return err
	}
	if err = png.Encode(f, dst); err != nil {
		_ = f.Close()
		return err
	}
	return f.Close()
}

func fatal(err error) {
	fmt.Fprintln(os.Stderr, "fatal: "+err.Error())
	os.Exit(1)
}
