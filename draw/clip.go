package draw

import (
	"image"
	"sort"
)

// The In variants plot the points of a shape that fall inside clip, in the
// same order as the unclipped rasterizer, while only visiting the part of the
// shape that overlaps clip. Coordinates must stay within ±2²⁹.

// LineIn plots the points of Line(x1, y1, x2, y2) inside clip.
func LineIn(x1, y1, x2, y2 int, clip image.Rectangle, plot PlotFunc) error {
	var (
		dx = abs(x2 - x1)
		dy = abs(y2 - y1)

		// Major axis a, minor axis b.
		a0, b0 = x1, y1
		sa, sb = sign(x2 - x1), sign(y2 - y1)
		amin   = clip.Min.X
		amax   = clip.Max.X - 1
		bmin   = clip.Min.Y
		bmax   = clip.Max.Y - 1
	)
	interchange := dy > dx
	if interchange {
		dx, dy = dy, dx
		a0, b0 = y1, x1
		sa, sb = sb, sa
		amin, amax, bmin, bmax = bmin, bmax, amin, amax
	}
	if amin > amax || bmin > bmax {
		return nil
	}

	// Step i of the line is at a0+sa*i on the major axis and b0+sb*m(i) on
	// the minor axis.
	m := func(i int) int {
		if dx == 0 {
			return 0
		}
		return (2*dy*i + dx) / (2 * dx)
	}

	first, last := max(0, amin-a0), min(dx, amax-a0)
	if sa < 0 {
		first, last = max(0, a0-amax), min(dx, a0-amin)
	}
	if first > last {
		return nil
	}

	mmin, mmax := bmin-b0, bmax-b0
	if sb < 0 {
		mmin, mmax = b0-bmax, b0-bmin
	}
	// m is monotone, so the steps inside the minor bounds are contiguous.
	var (
		lo = first
		n  = last - first + 1
	)
	first = lo + sort.Search(n, func(k int) bool { return m(lo+k) >= mmin })
	last = lo + sort.Search(n, func(k int) bool { return m(lo+k) > mmax }) - 1

	for i := first; i <= last; i++ {
		a, b := a0+sa*i, b0+sb*m(i)
		if interchange {
			a, b = b, a
		}
		if err := plot(a, b); err != nil {
			return err
		}
	}
	return nil
}

// RectangleIn plots the points of Rectangle(rect) inside clip.
func RectangleIn(rect, clip image.Rectangle, plot PlotFunc) error {
	return rectangle(rect, func(x1, y1, x2, y2 int, plot PlotFunc) error {
		return LineIn(x1, y1, x2, y2, clip, plot)
	}, plot)
}

// CircleIn plots the points of Circle(cx, cy, r) inside clip. Circles that
// miss clip, or enclose it entirely, are not rasterized.
func CircleIn(cx, cy, r int, clip image.Rectangle, plot PlotFunc) error {
	if r < 0 || !image.Rect(cx-r, cy-r, cx+r+1, cy+r+1).Overlaps(clip) {
		return nil
	}

	// Every outline point lies further than r-1 from the center.
	if inner := int64(r - 1); inner > 0 {
		var (
			fx = int64(max(abs(clip.Min.X-cx), abs(clip.Max.X-1-cx)))
			fy = int64(max(abs(clip.Min.Y-cy), abs(clip.Max.Y-1-cy)))
		)
		if fx*fx+fy*fy < inner*inner {
			return nil
		}
	}

	return Circle(cx, cy, r, func(x, y int) error {
		if !(image.Point{X: x, Y: y}).In(clip) {
			return nil
		}
		return plot(x, y)
	})
}

// FilledCircleIn plots the points of FilledCircle(cx, cy, r) inside clip.
func FilledCircleIn(cx, cy, r int, clip image.Rectangle, plot PlotFunc) error {
	if r < 0 {
		return nil
	}
	var (
		rr   = int64(r) * int64(r)
		ymin = max(cy-r, clip.Min.Y)
		ymax = min(cy+r, clip.Max.Y-1)
		xmin = max(cx-r, clip.Min.X)
		xmax = min(cx+r, clip.Max.X-1)
	)
	for y := ymin; y <= ymax; y++ {
		dy := int64(y - cy)
		for x := xmin; x <= xmax; x++ {
			dx := int64(x - cx)
			if dx*dx+dy*dy <= rr {
				if err := plot(x, y); err != nil {
					return err
				}
			}
		}
	}
	return nil
}
