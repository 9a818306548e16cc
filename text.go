package tft

import (
	"fmt"
	"image"
	"image/color"

	"github.com/BeatGlow/tft/pixel"
)

// Print renders text in the built-in 5x5 font, starting with the top left
// corner at (x, y). Every glyph cell is size times 5 pixels square and is
// written as a single burst, background pixels included. Glyph cells are
// clipped against the panel bounds.
//
// The text is validated before anything is sent, so a character without a
// glyph leaves the display untouched.
func (d *Device) Print(text string, x, y int, fg, bg color.Color, size int) error {
	if size < 1 {
		return fmt.Errorf("%w: got %d", ErrTextSize, size)
	}

	codes := []rune(text)
	bitmaps := make([]uint32, len(codes))
	for i, code := range codes {
		g, err := Glyph(code)
		if err != nil {
			return err
		}
		bitmaps[i] = g
	}

	var (
		cell     = glyphSize * size
		fhi, flo = pixel.Bytes(d.pack(fg))
		bhi, blo = pixel.Bytes(d.pack(bg))
		bounds   = d.Bounds()
	)
	for i, g := range bitmaps {
		glyph := image.Rect(x+i*cell, y, x+(i+1)*cell, y+cell)
		r := glyph.Intersect(bounds)
		if r.Empty() {
			continue
		}

		buf := make([]byte, 0, 2*r.Dx())
		err := d.p.Burst(d.window(r), func(write func([]byte) error) error {
			for py := r.Min.Y; py < r.Max.Y; py++ {
				row := (py - glyph.Min.Y) / size
				buf = buf[:0]
				for px := r.Min.X; px < r.Max.X; px++ {
					col := (px - glyph.Min.X) / size
					if g&(1<<(row+col*glyphSize)) != 0 {
						buf = append(buf, fhi, flo)
					} else {
						buf = append(buf, bhi, blo)
					}
				}
				if err := write(buf); err != nil {
					return err
				}
			}
			return nil
		})
		if err != nil {
			return err
		}
	}
	return nil
}
