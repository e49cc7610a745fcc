package dataset

import (
	"github.com/ajitpratap0/cudsviz/pkg/columnar"
)

// StructuredPoints is a regular axis-aligned grid. Points are implicit: the
// point at grid position (x, y, z) has linear index x + nx·(y + ny·z).
type StructuredPoints struct {
	origin     [3]float64
	spacing    [3]float64
	dimensions [3]int
	pointData  *columnar.Table
}

// NewStructuredPoints creates a grid of dimensions points per axis.
func NewStructuredPoints(origin, spacing [3]float64, dimensions [3]int, pointData *columnar.Table) *StructuredPoints {
	if pointData == nil {
		pointData = columnar.EmptyTable()
	}
	return &StructuredPoints{origin: origin, spacing: spacing, dimensions: dimensions, pointData: pointData}
}

func (*StructuredPoints) Shape() Shape { return ShapeStructuredPoints }

func (s *StructuredPoints) Origin() [3]float64  { return s.origin }
func (s *StructuredPoints) Spacing() [3]float64 { return s.spacing }
func (s *StructuredPoints) Dimensions() [3]int  { return s.dimensions }

// Extent returns the inclusive index range per axis as
// [xmin, xmax, ymin, ymax, zmin, zmax].
func (s *StructuredPoints) Extent() [6]int {
	return [6]int{0, s.dimensions[0] - 1, 0, s.dimensions[1] - 1, 0, s.dimensions[2] - 1}
}

func (s *StructuredPoints) NumberOfPoints() int {
	return s.dimensions[0] * s.dimensions[1] * s.dimensions[2]
}

// PointIndex returns the linear index of grid position (x, y, z).
func (s *StructuredPoints) PointIndex(x, y, z int) int {
	return x + s.dimensions[0]*(y+s.dimensions[1]*z)
}

// GridPosition is the inverse of PointIndex.
func (s *StructuredPoints) GridPosition(i int) (x, y, z int) {
	nx, ny := s.dimensions[0], s.dimensions[1]
	return i % nx, (i / nx) % ny, i / (nx * ny)
}

func (s *StructuredPoints) Point(i int) [3]float64 {
	x, y, z := s.GridPosition(i)
	return [3]float64{
		s.origin[0] + float64(x)*s.spacing[0],
		s.origin[1] + float64(y)*s.spacing[1],
		s.origin[2] + float64(z)*s.spacing[2],
	}
}

// NumberOfCells is always zero; the grid carries no explicit cells.
func (s *StructuredPoints) NumberOfCells() int { return 0 }

func (s *StructuredPoints) Cell(i int) Cell {
	panic("dataset: structured points have no cells")
}

func (s *StructuredPoints) PointData() *columnar.Table { return s.pointData }
func (s *StructuredPoints) CellData() *columnar.Table  { return columnar.EmptyTable() }

func (s *StructuredPoints) Bounds() Bounds {
	if s.NumberOfPoints() == 0 {
		return Bounds{}
	}
	var b Bounds
	for axis := 0; axis < 3; axis++ {
		b.Min[axis] = s.origin[axis]
		b.Max[axis] = s.origin[axis] + float64(s.dimensions[axis]-1)*s.spacing[axis]
	}
	b.valid = true
	return b
}
