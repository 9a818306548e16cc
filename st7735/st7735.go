// Package st7735 is the command set of the Sitronix ST7735 TFT controller.
package st7735

// Controller geometry.
const (
	// Width and Height of the panel in its native orientation.
	Width  = 128
	Height = 160

	// RAMWidth and RAMHeight of the controller frame memory.
	RAMWidth  = 132
	RAMHeight = 162
)

// Commands (from st7735.pdf).
const (
	NOP     = 0x00
	SWRESET = 0x01
	RDDID   = 0x04
	RDDST   = 0x09
	SLPIN   = 0x10
	SLPOUT  = 0x11
	PTLON   = 0x12
	NORON   = 0x13
	INVOFF  = 0x20
	INVON   = 0x21
	DISPOFF = 0x28
	DISPON  = 0x29
	CASET   = 0x2A
	RASET   = 0x2B
	RAMWR   = 0x2C
	RAMRD   = 0x2E
	PTLAR   = 0x30
	MADCTL  = 0x36
	COLMOD  = 0x3A
	FRMCTR1 = 0xB1
	FRMCTR2 = 0xB2
	FRMCTR3 = 0xB3
	INVCTR  = 0xB4
	DISSET5 = 0xB6
	PWCTR1  = 0xC0
	PWCTR2  = 0xC1
	PWCTR3  = 0xC2
	PWCTR4  = 0xC3
	PWCTR5  = 0xC4
	VMCTR1  = 0xC5
	RDID1   = 0xDA
	RDID2   = 0xDB
	RDID3   = 0xDC
	RDID4   = 0xDD
	GMCTRP1 = 0xE0
	GMCTRN1 = 0xE1
	PWCTR6  = 0xFC
)

// Memory Data Access Control (MADCTL) bit fields.
const (
	_                     byte = 1 << iota // D0: reserved
	_                                      // D1: reserved
	DisplayDataLatchOrder                  // D2: MH
	BGROrder                               // D3: RGB
	LineAddressOrder                       // D4: ML
	PageColumnOrder                        // D5: MV
	ColumnAddressOrder                     // D6: MX
	PageAddressOrder                       // D7: MY
)

// Interface pixel formats (COLMOD).
const (
	Pixel12Bit = 0x03
	Pixel16Bit = 0x05
	Pixel18Bit = 0x06
)

// Name returns the mnemonic of a command byte.
func Name(cmd byte) string {
	if name, ok := names[cmd]; ok {
		return name
	}
	return "UNKNOWN"
}

var names = map[byte]string{
	NOP:     "NOP",
	SWRESET: "SWRESET",
	RDDID:   "RDDID",
	RDDST:   "RDDST",
	SLPIN:   "SLPIN",
	SLPOUT:  "SLPOUT",
	PTLON:   "PTLON",
	NORON:   "NORON",
	INVOFF:  "INVOFF",
	INVON:   "INVON",
	DISPOFF: "DISPOFF",
	DISPON:  "DISPON",
	CASET:   "CASET",
	RASET:   "RASET",
	RAMWR:   "RAMWR",
	RAMRD:   "RAMRD",
	PTLAR:   "PTLAR",
	MADCTL:  "MADCTL",
	COLMOD:  "COLMOD",
	FRMCTR1: "FRMCTR1",
	FRMCTR2: "FRMCTR2",
	FRMCTR3: "FRMCTR3",
	INVCTR:  "INVCTR",
	DISSET5: "DISSET5",
	PWCTR1:  "PWCTR1",
	PWCTR2:  "PWCTR2",
	PWCTR3:  "PWCTR3",
	PWCTR4:  "PWCTR4",
	PWCTR5:  "PWCTR5",
	VMCTR1:  "VMCTR1",
	RDID1:   "RDID1",
	RDID2:   "RDID2",
	RDID3:   "RDID3",
	RDID4:   "RDID4",
	GMCTRP1: "GMCTRP1",
	GMCTRN1: "GMCTRN1",
	PWCTR6:  "PWCTR6",
}
