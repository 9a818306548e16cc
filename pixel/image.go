package pixel

import (
	"encoding/binary"
	"image"
	"image/color"
	"image/draw"
)

type Image interface {
	draw.Image

	// Clear the image.
	Clear()

	// Fill the image with a single color.
	Fill(color.Color)
}

// Buffer holds the pixel values and is a container that is used by the image formats in this package.
type Buffer struct {
	// Rect is the image bounding box.
	Rect image.Rectangle

	// Pix are the image pixels.
	Pix []byte

	// Stride is the Pix stride (in bytes) between vertically adjacent pixels.
	Stride int
}

func (p *Buffer) Bounds() image.Rectangle {
	return p.Rect
}

func (p *Buffer) Clear() {
	for i := range p.Pix {
		p.Pix[i] = 0x00
	}
}

// PixOffset returns the index of the first byte of the 16-bit pixel at (x, y).
func (p *Buffer) PixOffset(x, y int) int {
	return (y-p.Rect.Min.Y)*p.Stride + (x-p.Rect.Min.X)*2
}

func makeBuffer(w, h int) Buffer {
	return Buffer{
		Rect:   image.Rect(0, 0, w, h),
		Pix:    make([]byte, w*2*h),
		Stride: w * 2,
	}
}

// word16 is a buffer of packed 16-bit words.
type word16 struct {
	Buffer
	Order binary.ByteOrder
}

// Word returns the raw packed value at (x, y), ok is false outside the bounds.
func (p *word16) Word(x, y int) (v uint16, ok bool) {
	if !(image.Point{X: x, Y: y}).In(p.Rect) {
		return 0, false
	}
	return p.Order.Uint16(p.Pix[p.PixOffset(x, y):]), true
}

// SetWord stores a raw packed value at (x, y).
func (p *word16) SetWord(x, y int, v uint16) {
	if !(image.Point{X: x, Y: y}).In(p.Rect) {
		return
	}
	p.Order.PutUint16(p.Pix[p.PixOffset(x, y):], v)
}

func (p *word16) fill(v uint16) {
	bytes := make([]byte, 2)
	p.Order.PutUint16(bytes, v)
	for i, l := 0, len(p.Pix); i < l; i += 2 {
		copy(p.Pix[i:], bytes)
	}
}

// CRGB16Image is a 16-bits per pixel 5-6-5-bit RGB image.
type CRGB16Image struct {
	word16
}

func NewCRGB16Image(w, h int) *CRGB16Image {
	return &CRGB16Image{
		word16: word16{Buffer: makeBuffer(w, h), Order: binary.BigEndian},
	}
}

func (p *CRGB16Image) ColorModel() color.Model {
	return CRGB16Model
}

func (p *CRGB16Image) At(x, y int) color.Color {
	v, ok := p.Word(x, y)
	if !ok {
		return color.Transparent
	}
	return CRGB16{v}
}

func (p *CRGB16Image) Set(x, y int, c color.Color) {
	p.SetWord(x, y, crgb16Model(c).(CRGB16).V)
}

func (p *CRGB16Image) Fill(c color.Color) {
	p.fill(crgb16Model(c).(CRGB16).V)
}

// CBGR16Image is a 16-bits per pixel 5-6-5-bit BGR image.
type CBGR16Image struct {
	word16
}

func NewCBGR16Image(w, h int) *CBGR16Image {
	return &CBGR16Image{
		word16: word16{Buffer: makeBuffer(w, h), Order: binary.BigEndian},
	}
}

func (p *CBGR16Image) ColorModel() color.Model {
	return CBGR16Model
}

func (p *CBGR16Image) At(x, y int) color.Color {
	v, ok := p.Word(x, y)
	if !ok {
		return color.Transparent
	}
	return CBGR16{v}
}

func (p *CBGR16Image) Set(x, y int, c color.Color) {
	p.SetWord(x, y, cbgr16Model(c).(CBGR16).V)
}

func (p *CBGR16Image) Fill(c color.Color) {
	p.fill(cbgr16Model(c).(CBGR16).V)
}

// View returns an image sharing the pixel memory of p, interpreting the
// stored words with the given channel order.
func (p *CRGB16Image) View(order ChannelOrder) Image {
	if order == RGB {
		return p
	}
	return &CBGR16Image{word16: p.word16}
}

// Interface checks.
var (
	_ Image = (*CRGB16Image)(nil)
	_ Image = (*CBGR16Image)(nil)
)
