package tft

import (
	"image"
	"image/color"

	"github.com/BeatGlow/tft/draw"
	"github.com/BeatGlow/tft/pixel"
	"github.com/BeatGlow/tft/st7735"
)

// maxBurstChunk is the largest slice handed to the transport in one write.
const maxBurstChunk = 4096

// All drawing coordinates are panel coordinates; the device offset is added
// by window. Shapes are clipped against Bounds.

func (d *Device) pack(c color.Color) uint16 {
	return pixel.FromColor(c).Pack(d.order)
}

// window maps a non-empty panel rectangle to the device address window.
func (d *Device) window(r image.Rectangle) Window {
	return WindowOf(r.Add(d.offset))
}

// plot returns a PlotFunc that writes single pixels of the packed colour v.
func (d *Device) plot(v uint16) draw.PlotFunc {
	var (
		hi, lo = pixel.Bytes(v)
		bounds = d.Bounds()
	)
	return func(x, y int) error {
		if !(image.Point{X: x, Y: y}).In(bounds) {
			return nil
		}
		if err := d.p.SetWindow(d.window(image.Rect(x, y, x+1, y+1))); err != nil {
			return err
		}
		return d.p.Send(st7735.RAMWR, hi, lo)
	}
}

// fill streams w.Area() copies of v in one burst.
func (d *Device) fill(w Window, v uint16) error {
	var (
		hi, lo = pixel.Bytes(v)
		row    = 2 * (w.X1 - w.X0 + 1)
		rows   = w.Y1 - w.Y0 + 1
		n      = max(1, maxBurstChunk/row) // rows per chunk
	)
	buf := make([]byte, row*min(n, rows))
	for i := 0; i < len(buf); i += 2 {
		buf[i], buf[i+1] = hi, lo
	}
	return d.p.Burst(w, func(write func([]byte) error) error {
		for rows > 0 {
			k := min(n, rows)
			if err := write(buf[:k*row]); err != nil {
				return err
			}
			rows -= k
		}
		return nil
	})
}

// DrawPixel sets the pixel at (x, y).
func (d *Device) DrawPixel(x, y int, c color.Color) error {
	return d.plot(d.pack(c))(x, y)
}

// FillRect fills the w by h rectangle with its top left corner at (x, y).
func (d *Device) FillRect(x, y, w, h int, c color.Color) error {
	if w <= 0 || h <= 0 {
		return nil
	}
	r := image.Rect(x, y, x+w, y+h).Intersect(d.Bounds())
	if r.Empty() {
		return nil
	}
	return d.fill(d.window(r), d.pack(c))
}

// FillDisplay fills the whole controller address range, including the
// columns and rows hidden by the offset.
func (d *Device) FillDisplay(c color.Color) error {
	return d.fill(Window{X0: 0, Y0: 0, X1: d.width - 1, Y1: d.height - 1}, d.pack(c))
}

// Clear fills the display with black.
func (d *Device) Clear() error {
	return d.FillDisplay(color.Black)
}

// DrawLine draws a line from (x1, y1) to (x2, y2), both end points included.
func (d *Device) DrawLine(x1, y1, x2, y2 int, c color.Color) error {
	return draw.LineIn(x1, y1, x2, y2, d.Bounds(), d.plot(d.pack(c)))
}

// DrawRect draws the outline of the w by h rectangle at (x, y).
func (d *Device) DrawRect(x, y, w, h int, c color.Color) error {
	if w <= 0 || h <= 0 {
		return nil
	}
	return draw.RectangleIn(image.Rect(x, y, x+w, y+h), d.Bounds(), d.plot(d.pack(c)))
}

// DrawCircle draws the outline of a circle.
func (d *Device) DrawCircle(cx, cy, r int, c color.Color) error {
	return draw.CircleIn(cx, cy, r, d.Bounds(), d.plot(d.pack(c)))
}

// FillCircle draws a filled circle.
func (d *Device) FillCircle(cx, cy, r int, c color.Color) error {
	return draw.FilledCircleIn(cx, cy, r, d.Bounds(), d.plot(d.pack(c)))
}
