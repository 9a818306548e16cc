package tft

import "fmt"

// Glyphs are 5x5 bitmaps packed in the low 25 bits of a word, bit row+col*5.
// The tables cover character codes 0 to 139 in blocks of 20. Codes without a
// glyph of their own map to the replacement glyph '?'.
const (
	glyphSize   = 5
	glyphsBlock = 20
	replacement = 0x0022D422
)

var glyphs = [7][glyphsBlock]uint32{
	// 0-19: control codes
	{
		replacement, replacement, replacement, replacement, replacement,
		replacement, replacement, replacement, replacement, replacement,
		replacement, replacement, replacement, replacement, replacement,
		replacement, replacement, replacement, replacement, replacement,
	},
	// 20-39: control codes, ' ' ! " # $ % & '
	{
		replacement, replacement, replacement, replacement, replacement,
		replacement, replacement, replacement, replacement, replacement,
		replacement, replacement, 0x00000000, 0x000002E0, 0x00018060,
		0x00AFABEA, 0x00AED6EA, 0x01991133, 0x010556AA, 0x00000060,
	},
	// 40-59: ( ) * + , - . / 0-9 : ;
	{
		0x000045C0, 0x00003A20, 0x00051140, 0x00023880, 0x00002200,
		0x00021080, 0x00000100, 0x00111110, 0x0007462E, 0x00087E40,
		0x000956B9, 0x0005D629, 0x008FA54C, 0x009AD6B7, 0x008ADA88,
		0x00119531, 0x00AAD6AA, 0x0022B6A2, 0x00000140, 0x00002A00,
	},
	// 60-79: < = > ? @ A-O
	{
		0x0008A880, 0x00052940, 0x00022A20, 0x0022D422, 0x00E4D62E,
		0x000F14BE, 0x000556BF, 0x0008C62E, 0x0007463F, 0x0008D6BF,
		0x000094BF, 0x00CAC62E, 0x000F909F, 0x000047F1, 0x0017C629,
		0x0008A89F, 0x0008421F, 0x01F1105F, 0x01F4105F, 0x0007462E,
	},
	// 80-99: P-Z [ \ ] ^ _ ` a b c
	{
		0x000114BF, 0x000B6526, 0x010514BF, 0x0004D6B2, 0x0010FC21,
		0x0007C20F, 0x00744107, 0x01F4111F, 0x000D909B, 0x00117041,
		0x0008CEB9, 0x0008C7E0, 0x01041041, 0x000FC620, 0x00010440,
		0x01084210, 0x00000820, 0x010F4A4C, 0x0004529F, 0x00094A4C,
	},
	// 100-119: d-w
	{
		0x000FD288, 0x000956AE, 0x000097C4, 0x0007D6A2, 0x000C109F,
		0x000003A0, 0x0006C200, 0x0008289F, 0x000841E0, 0x01E1105E,
		0x000E085E, 0x00064A4C, 0x0002295E, 0x000F2944, 0x0001085C,
		0x00012A90, 0x010A51E0, 0x010F420E, 0x00644106, 0x01E8221E,
	},
	// 120-139: x y z { | } ~, DEL and the rest have no glyph
	{
		0x00093192, 0x00222292, 0x00095B52, 0x0008FC80, 0x000003E0,
		0x000013F1, 0x00841080, replacement, replacement, replacement,
		replacement, replacement, replacement, replacement, replacement,
		replacement, replacement, replacement, replacement, replacement,
	},
}

// glyphCodes is the number of character codes with a glyph.
const glyphCodes = len(glyphs) * glyphsBlock

// Glyph returns the packed bitmap of a character code.
func Glyph(code rune) (uint32, error) {
	if code < 0 || int(code) >= glyphCodes {
		return 0, &GlyphError{Code: code}
	}
	return glyphs[code/glyphsBlock][code%glyphsBlock], nil
}

// GlyphError is returned for character codes outside the font.
type GlyphError struct {
	Code rune
}

func (err *GlyphError) Error() string {
	return fmt.Sprintf("tft: no glyph for character %q (%d)", err.Code, err.Code)
}

// Is makes a GlyphError match ErrGlyphRange.
func (err *GlyphError) Is(target error) bool {
	return target == ErrGlyphRange
}
