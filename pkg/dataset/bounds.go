package dataset

import (
	"math"
)

// Bounds is the axis-aligned bounding box of a dataset's points.
type Bounds struct {
	Min, Max [3]float64
	valid    bool
}

// Empty reports whether the box encloses no points.
func (b Bounds) Empty() bool { return !b.valid }

// Diagonal returns the length of the box diagonal.
func (b Bounds) Diagonal() float64 {
	if !b.valid {
		return 0
	}
	var sum float64
	for axis := 0; axis < 3; axis++ {
		d := b.Max[axis] - b.Min[axis]
		sum += d * d
	}
	return math.Sqrt(sum)
}

// Center returns the midpoint of the box.
func (b Bounds) Center() [3]float64 {
	var c [3]float64
	for axis := 0; axis < 3; axis++ {
		c[axis] = (b.Min[axis] + b.Max[axis]) / 2
	}
	return c
}

func boundsOf(points [][3]float64) Bounds {
	if len(points) == 0 {
		return Bounds{}
	}
	b := Bounds{Min: points[0], Max: points[0], valid: true}
	for _, p := range points[1:] {
		for axis := 0; axis < 3; axis++ {
			b.Min[axis] = math.Min(b.Min[axis], p[axis])
			b.Max[axis] = math.Max(b.Max[axis], p[axis])
		}
	}
	return b
}

// TypicalDistance estimates the spacing between points, used to size glyphs
// such as particle spheres. It is 1 for fewer than two points or a
// degenerate box, else half the bounding diagonal divided by the number of
// points.
func TypicalDistance(ds Dataset) float64 {
	n := ds.NumberOfPoints()
	if n < 2 {
		return 1.0
	}
	diagonal := ds.Bounds().Diagonal()
	if diagonal == 0 {
		return 1.0
	}
	return 0.5 * diagonal / float64(n)
}
