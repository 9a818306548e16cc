package draw

import "image"

// Line rasterizes the line from (x1,y1) to (x2,y2).
//
// The error term advances along the longer axis, so exactly
// max(|x2-x1|, |y2-y1|)+1 points are plotted and both end points are plotted
// once. When the decision variable is zero the minor axis steps.
func Line(x1, y1, x2, y2 int, plot PlotFunc) error {
	var (
		dx = abs(x2 - x1)
		dy = abs(y2 - y1)
		sx = sign(x2 - x1)
		sy = sign(y2 - y1)
	)

	// Steep lines walk along y.
	interchange := dy > dx
	if interchange {
		dx, dy = dy, dx
	}

	var (
		p    = 2*dy - dx
		x, y = x1, y1
	)
	for i := 0; i <= dx; i++ {
		if err := plot(x, y); err != nil {
			return err
		}
		if p >= 0 {
			if interchange {
				x += sx
			} else {
				y += sy
			}
			p -= 2 * dx
		}
		if interchange {
			y += sy
		} else {
			x += sx
		}
		p += 2 * dy
	}
	return nil
}

// HorizontalLine rasterizes a line between (x,y) and (x+w-1,y).
func HorizontalLine(x, y, w int, plot PlotFunc) error {
	if w <= 0 {
		return nil
	}
	return Line(x, y, x+w-1, y, plot)
}

// VerticalLine rasterizes a line between (x,y) and (x,y+h-1).
func VerticalLine(x, y, h int, plot PlotFunc) error {
	if h <= 0 {
		return nil
	}
	return Line(x, y, x, y+h-1, plot)
}

// Rectangle rasterizes the outline of rect. Every border point is plotted once.
func Rectangle(rect image.Rectangle, plot PlotFunc) error {
	return rectangle(rect, Line, plot)
}

// lineFunc rasterizes the line between two points.
type lineFunc func(x1, y1, x2, y2 int, plot PlotFunc) error

func rectangle(rect image.Rectangle, line lineFunc, plot PlotFunc) error {
	rect = rect.Canon()
	if rect.Empty() {
		return nil
	}
	var (
		x0, y0 = rect.Min.X, rect.Min.Y
		x1, y1 = rect.Max.X - 1, rect.Max.Y - 1
	)
	switch {
	case y0 == y1:
		return line(x0, y0, x1, y0, plot)
	case x0 == x1:
		return line(x0, y0, x0, y1, plot)
	}
	if err := line(x0, y0, x1, y0, plot); err != nil {
		return err
	}
	if err := line(x0, y1, x1, y1, plot); err != nil {
		return err
	}
	if y1-y0 < 2 {
		return nil
	}
	if err := line(x0, y0+1, x0, y1-1, plot); err != nil {
		return err
	}
	return line(x1, y0+1, x1, y1-1, plot)
}

// Circle rasterizes the outline of the circle with center (cx,cy) and radius r
// using the midpoint algorithm. Each octant point is mirrored into all eight
// octants; points that coincide (on the axes and diagonals) are plotted once.
// A zero radius plots the center, a negative radius plots nothing.
func Circle(cx, cy, r int, plot PlotFunc) error {
	switch {
	case r < 0:
		return nil
	case r == 0:
		return plot(cx, cy)
	}

	var (
		x = r
		y = 0
		p = 1 - r
	)
	if err := plotOctants(cx, cy, x, y, plot); err != nil {
		return err
	}
	for x > y {
		y++
		if p <= 0 {
			p += 2*y + 1
		} else {
			x--
			p += 2*y - 2*x + 1
		}
		if x < y {
			break
		}
		if err := plotOctants(cx, cy, x, y, plot); err != nil {
			return err
		}
	}
	return nil
}

func plotOctants(cx, cy, x, y int, plot PlotFunc) error {
	points := [8]image.Point{
		{cx + x, cy + y},
		{cx - x, cy + y},
		{cx + x, cy - y},
		{cx - x, cy - y},
		{cx + y, cy + x},
		{cx - y, cy + x},
		{cx + y, cy - x},
		{cx - y, cy - x},
	}
next:
	for i, pt := range points {
		for _, seen := range points[:i] {
			if pt == seen {
				continue next
			}
		}
		if err := plot(pt.X, pt.Y); err != nil {
			return err
		}
	}
	return nil
}

// FilledCircle plots every point (x,y) with (x-cx)²+(y-cy)² <= r², scanning
// the bounding box row by row.
func FilledCircle(cx, cy, r int, plot PlotFunc) error {
	rr := r * r
	for y := -r; y <= r; y++ {
		yy := y * y
		for x := -r; x <= r; x++ {
			if x*x+yy <= rr {
				if err := plot(cx+x, cy+y); err != nil {
					return err
				}
			}
		}
	}
	return nil
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}

func sign(v int) int {
	if v < 0 {
		return -1
	}
	return 1
}
