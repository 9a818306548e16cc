package pixel

import (
	"fmt"
	"image/color"
)

// Models for the 16-bit color types.
var (
	CRGB16Model color.Model = color.ModelFunc(crgb16Model)
	CBGR16Model color.Model = color.ModelFunc(cbgr16Model)
)

// Black is the packed fallback value for colours that can not be converted.
const Black uint16 = 0x0000

// ChannelOrder is the order in which a panel expects the colour channels.
type ChannelOrder uint8

// Supported channel orders. The zero value is BGR, which is what the common
// red-tab ST7735 modules are wired for.
const (
	BGR ChannelOrder = iota
	RGB
)

func (o ChannelOrder) String() string {
	switch o {
	case BGR:
		return "bgr"
	case RGB:
		return "rgb"
	default:
		return fmt.Sprintf("ChannelOrder(%d)", uint8(o))
	}
}

// ParseChannelOrder parses "rgb" or "bgr".
func ParseChannelOrder(s string) (ChannelOrder, error) {
	switch s {
	case "bgr", "BGR":
		return BGR, nil
	case "rgb", "RGB":
		return RGB, nil
	default:
		return 0, fmt.Errorf("pixel: invalid channel order %q", s)
	}
}

// Colour is a 3-channel 8-bit colour tuple. How the channels are interpreted
// depends on the ChannelOrder passed to Pack.
type Colour [3]uint8

// FromColor returns the 8-bit red, green and blue channels of c.
func FromColor(c color.Color) Colour {
	if c == nil {
		return Colour{}
	}
	r, g, b, _ := c.RGBA()
	return Colour{uint8(r >> 8), uint8(g >> 8), uint8(b >> 8)}
}

// Pack returns the R5·G6·B5 word for c. With BGR order the tuple is read as
// (blue, green, red).
func (c Colour) Pack(order ChannelOrder) uint16 {
	var r, g, b uint8
	if order == BGR {
		b, g, r = c[0], c[1], c[2]
	} else {
		r, g, b = c[0], c[1], c[2]
	}
	return uint16(r&0xF8)<<8 | uint16(g&0xFC)<<3 | uint16(b>>3)
}

// Conversion is the result of converting an untyped colour tuple.
type Conversion struct {
	// Value is the packed colour, Black when OK is false.
	Value uint16

	// OK reports whether the tuple was well formed.
	OK bool
}

// Convert packs an untyped colour tuple. Tuples that don't have exactly three
// channels in the range [0,255] convert to Black with OK set to false.
func Convert(tuple []int, order ChannelOrder) Conversion {
	if len(tuple) != 3 {
		return Conversion{Value: Black}
	}
	var c Colour
	for i, v := range tuple {
		if v < 0 || v > 0xFF {
			return Conversion{Value: Black}
		}
		c[i] = uint8(v)
	}
	return Conversion{Value: c.Pack(order), OK: true}
}

// Bytes returns the packed colour v high byte first, the order the panel expects.
func Bytes(v uint16) (hi, lo byte) {
	return byte(v >> 8), byte(v)
}

// CRGB16 represents a 16-bit 5-6-5 RGB color.
type CRGB16 struct {
	// CRed, 5, CGreen, 6, CBlue, 5
	V uint16
}

func (c CRGB16) RGBA() (r, g, b, a uint32) {
	red, grn, blu := expand565(c.V)
	return red, grn, blu, 0xffff
}

func crgb16Model(c color.Color) color.Color {
	switch c := c.(type) {
	case CRGB16:
		return c
	case CBGR16:
		return CRGB16{swap565(c.V)}
	default:
		return CRGB16{FromColor(c).Pack(RGB)}
	}
}

// CBGR16 represents a 16-bit 5-6-5 BGR color.
type CBGR16 struct {
	// CBlue, 5, CGreen, 6, CRed, 5
	V uint16
}

func (c CBGR16) RGBA() (r, g, b, a uint32) {
	blu, grn, red := expand565(c.V)
	return red, grn, blu, 0xffff
}

func cbgr16Model(c color.Color) color.Color {
	switch c := c.(type) {
	case CBGR16:
		return c
	case CRGB16:
		return CBGR16{swap565(c.V)}
	default:
		return CBGR16{FromColor(c).Pack(BGR)}
	}
}

// Model returns the color model matching the channel order.
func Model(order ChannelOrder) color.Model {
	if order == BGR {
		return CBGR16Model
	}
	return CRGB16Model
}

// expand565 widens the three fields of a 565 word to 16 bits each.
func expand565(v uint16) (hi, mid, lo uint32) {
	// Build a 5- or 6-bit value at the top of the low byte of each component.
	h := (v & 0xF800) >> 8
	m := (v & 0x07E0) >> 3
	l := (v & 0x001F) << 3
	// Duplicate the high bits in the low bits.
	h |= h >> 5
	m |= m >> 6
	l |= l >> 5
	// Duplicate the whole value in the high byte.
	h |= h << 8
	m |= m << 8
	l |= l << 8
	return uint32(h), uint32(m), uint32(l)
}

// swap565 exchanges the two 5-bit fields of a 565 word.
func swap565(v uint16) uint16 {
	return (v&0x001F)<<11 | v&0x07E0 | (v&0xF800)>>11
}
