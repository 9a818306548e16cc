package main

import (
	"flag"
	"fmt"
	"image"

	"github.com/sirupsen/logrus"
	"periph.io/x/host/v3"

	"github.com/BeatGlow/tft"
	"github.com/BeatGlow/tft/st7735"
)

func main() {
	speed := tft.DefaultSPIConfig.Speed
	flag.Var(&speed, "speed", "SPI clock speed")
	portFlag := flag.String("port", "", "SPI port (default: use first available)")
	resetPinFlag := flag.String("reset", tft.DefaultSPIConfig.Reset, "Reset GPIO pin")
	dcPinFlag := flag.String("dc", tft.DefaultSPIConfig.DC, "Data/Command GPIO pin (DC)")
	flag.Parse()

	if _, err := host.Init(); err != nil {
		logrus.Fatalln("host init failed:", err)
	}

	c, err := tft.OpenSPI(&tft.SPIConfig{
		Port:  *portFlag,
		Speed: speed,
		Reset: *resetPinFlag,
		DC:    *dcPinFlag,
	})
	if err != nil {
		logrus.Fatalln("open failed:", err)
	}
	fmt.Println("connected using", c)

	p := tft.NewProtocol(c, image.Pt(st7735.RAMWidth, st7735.RAMHeight))
	if err = p.Send(st7735.NOP); err != nil {
		logrus.Fatalln("NOP failed:", err)
	}
	if err = c.Close(); err != nil {
		logrus.Fatalln("close failed:", err)
	}
}
