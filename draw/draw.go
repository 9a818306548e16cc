// Package draw contains integer rasterizers for lines and circles.
//
// The rasterizers don't draw into an image; they call a [PlotFunc] for every
// point of the shape, in the order the points are produced. A display driver
// plugs its pixel primitive in, tests plug a point collector in.
package draw

import "image"

// PlotFunc is called for each rasterized point. Returning an error stops the
// rasterizer, which then returns that error.
type PlotFunc func(x, y int) error

// Points collects rasterized points into a slice.
type Points []image.Point

// Plot implements PlotFunc.
func (p *Points) Plot(x, y int) error {
	*p = append(*p, image.Pt(x, y))
	return nil
}

// Set returns the distinct points with the number of times each was plotted.
func (p Points) Set() map[image.Point]int {
	set := make(map[image.Point]int, len(p))
	for _, pt := range p {
		set[pt]++
	}
	return set
}
