package draw

import (
	"image"
	"slices"
	"testing"
	"time"
)

// within returns the points plotted by fn that lie inside clip.
func within(clip image.Rectangle, fn func(PlotFunc) error) (Points, error) {
	var points Points
	err := fn(func(x, y int) error {
		if (image.Point{X: x, Y: y}).In(clip) {
			points = append(points, image.Pt(x, y))
		}
		return nil
	})
	return points, err
}

var clips = []image.Rectangle{
	image.Rect(0, 0, 4, 3),
	image.Rect(-2, -3, 1, 2),
	image.Rect(1, -1, 2, 5),
	image.Rect(-5, 2, 5, 3),
	image.Rect(3, 3, 3, 3),
	image.Rect(-6, -6, 6, 6),
}

func TestLineIn(t *testing.T) {
	for _, clip := range clips {
		for x1 := -6; x1 <= 6; x1++ {
			for y1 := -6; y1 <= 6; y1++ {
				for x2 := -6; x2 <= 6; x2++ {
					for y2 := -6; y2 <= 6; y2++ {
						want, _ := within(clip, func(plot PlotFunc) error { return Line(x1, y1, x2, y2, plot) })
						var got Points
						if err := LineIn(x1, y1, x2, y2, clip, got.Plot); err != nil {
							t.Fatal(err)
						}
						if !slices.Equal(got, want) {
							t.Fatalf("line (%d,%d)-(%d,%d) in %s: expected %v, got %v", x1, y1, x2, y2, clip, want, got)
						}
					}
				}
			}
		}
	}
}

func TestRectangleIn(t *testing.T) {
	for _, clip := range clips {
		for _, rect := range []image.Rectangle{
			image.Rect(-3, -3, 4, 4),
			image.Rect(0, 0, 1, 1),
			image.Rect(2, -4, 3, 6),
			image.Rect(-8, 1, 8, 3),
		} {
			want, _ := within(clip, func(plot PlotFunc) error { return Rectangle(rect, plot) })
			var got Points
			if err := RectangleIn(rect, clip, got.Plot); err != nil {
				t.Fatal(err)
			}
			if !slices.Equal(got, want) {
				t.Fatalf("rectangle %s in %s: expected %v, got %v", rect, clip, want, got)
			}
		}
	}
}

func TestCircleIn(t *testing.T) {
	for _, clip := range clips {
		for cx := -4; cx <= 4; cx++ {
			for cy := -4; cy <= 4; cy++ {
				for r := -1; r <= 9; r++ {
					want, _ := within(clip, func(plot PlotFunc) error { return Circle(cx, cy, r, plot) })
					var got Points
					if err := CircleIn(cx, cy, r, clip, got.Plot); err != nil {
						t.Fatal(err)
					}
					if !slices.Equal(got, want) {
						t.Fatalf("circle (%d,%d) r=%d in %s: expected %v, got %v", cx, cy, r, clip, want, got)
					}
				}
			}
		}
	}
}

func TestFilledCircleIn(t *testing.T) {
	for _, clip := range clips {
		for cx := -4; cx <= 4; cx++ {
			for cy := -4; cy <= 4; cy++ {
				for r := -1; r <= 7; r++ {
					want, _ := within(clip, func(plot PlotFunc) error { return FilledCircle(cx, cy, r, plot) })
					var got Points
					if err := FilledCircleIn(cx, cy, r, clip, got.Plot); err != nil {
						t.Fatal(err)
					}
					if !slices.Equal(got, want) {
						t.Fatalf("filled circle (%d,%d) r=%d in %s: expected %v, got %v", cx, cy, r, clip, want, got)
					}
				}
			}
		}
	}
}

func TestHugeShapesIn(t *testing.T) {
	clip := image.Rect(0, 0, 160, 128)
	start := time.Now()

	var points Points
	if err := FilledCircleIn(0, 0, 1<<20, clip, points.Plot); err != nil {
		t.Fatal(err)
	}
	if len(points) != clip.Dx()*clip.Dy() {
		t.Fatalf("expected the filled circle to cover %d points, got %d", clip.Dx()*clip.Dy(), len(points))
	}

	points = points[:0]
	if err := CircleIn(0, 0, 1<<20, clip, points.Plot); err != nil {
		t.Fatal(err)
	}
	if len(points) != 0 {
		t.Fatalf("expected the circle outline to miss the clip, got %d points", len(points))
	}

	points = points[:0]
	if err := LineIn(-1<<29, -1<<29, 1<<29, 1<<29, clip, points.Plot); err != nil {
		t.Fatal(err)
	}
	if want := clip.Dy(); len(points) != want {
		t.Fatalf("expected %d points on the diagonal, got %d", want, len(points))
	}
	for i, pt := range points {
		if pt != image.Pt(i, i) {
			t.Fatalf("expected point %d at (%d,%d), got %s", i, i, i, pt)
		}
	}

	if took := time.Since(start); took > 5*time.Second {
		t.Fatalf("clipped shapes took %s", took)
	}
}
