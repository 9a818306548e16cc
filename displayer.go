package tft

import (
	"image"
	"image/color"

	"periph.io/x/conn/v3/display"
	"tinygo.org/x/drivers"

	"github.com/BeatGlow/tft/pixel"
)

// Interface checks.
var (
	_ display.Drawer    = (*Device)(nil)
	_ drivers.Displayer = (*Device)(nil)
)

// Draw streams the src pixels aligned at sp into r, in a single burst.
func (d *Device) Draw(r image.Rectangle, src image.Image, sp image.Point) error {
	clipped := r.Intersect(d.Bounds())
	if clipped.Empty() {
		return nil
	}
	sp = sp.Add(clipped.Min.Sub(r.Min))

	var (
		w   = clipped.Dx()
		h   = clipped.Dy()
		buf = make([]byte, 0, 2*w)
	)
	return d.p.Burst(d.window(clipped), func(write func([]byte) error) error {
		for y := 0; y < h; y++ {
			buf = buf[:0]
			for x := 0; x < w; x++ {
				hi, lo := pixel.Bytes(d.pack(src.At(sp.X+x, sp.Y+y)))
				buf = append(buf, hi, lo)
			}
			if err := write(buf); err != nil {
				return err
			}
		}
		return nil
	})
}

// Size returns the panel size.
func (d *Device) Size() (x, y int16) {
	bounds := d.Bounds()
	return int16(bounds.Dx()), int16(bounds.Dy())
}

// SetPixel draws a pixel. The first error is kept and returned by Display.
func (d *Device) SetPixel(x, y int16, c color.RGBA) {
	if err := d.DrawPixel(int(x), int(y), c); err != nil && d.err == nil {
		d.err = err
	}
}

// Display returns the first error of SetPixel since the last call. Pixels
// are written immediately, there is nothing to flush.
func (d *Device) Display() error {
	err := d.err
	d.err = nil
	return err
}
