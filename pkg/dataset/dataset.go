// Package dataset defines the canonical visualization dataset produced by the
// converter: points, cells and two attribute tables, in one of three shapes.
//
// Datasets are immutable once built. Accessors return copies.
package dataset

import (
	"github.com/ajitpratap0/cudsviz/pkg/columnar"
	"github.com/ajitpratap0/cudsviz/pkg/topology"
)

// Shape is the topological shape of a dataset.
type Shape int

const (
	ShapeUnstructuredGrid Shape = iota
	ShapePolyData
	ShapeStructuredPoints
)

func (s Shape) String() string {
	switch s {
	case ShapeUnstructuredGrid:
		return "unstructured_grid"
	case ShapePolyData:
		return "poly_data"
	case ShapeStructuredPoints:
		return "structured_points"
	default:
		return "unknown"
	}
}

// Cell is a primitive referencing points by index.
type Cell struct {
	Type   topology.CellType
	Points []int
}

// Dataset is implemented by every dataset shape.
type Dataset interface {
	Shape() Shape
	NumberOfPoints() int
	Point(i int) [3]float64
	NumberOfCells() int
	Cell(i int) Cell
	PointData() *columnar.Table
	CellData() *columnar.Table
	Bounds() Bounds
}

// cellList is shared by the explicit-connectivity shapes.
type cellList struct {
	points    [][3]float64
	cells     []Cell
	pointData *columnar.Table
	cellData  *columnar.Table
}

func newCellList(points [][3]float64, cells []Cell, pointData, cellData *columnar.Table) cellList {
	if pointData == nil {
		pointData = columnar.EmptyTable()
	}
	if cellData == nil {
		cellData = columnar.EmptyTable()
	}
	return cellList{points: points, cells: cells, pointData: pointData, cellData: cellData}
}

func (c *cellList) NumberOfPoints() int        { return len(c.points) }
func (c *cellList) Point(i int) [3]float64     { return c.points[i] }
func (c *cellList) NumberOfCells() int         { return len(c.cells) }
func (c *cellList) PointData() *columnar.Table { return c.pointData }
func (c *cellList) CellData() *columnar.Table  { return c.cellData }
func (c *cellList) Bounds() Bounds             { return boundsOf(c.points) }

func (c *cellList) Cell(i int) Cell {
	cell := c.cells[i]
	return Cell{Type: cell.Type, Points: append([]int(nil), cell.Points...)}
}

// UnstructuredGrid is a point set with heterogeneous cells.
type UnstructuredGrid struct {
	cellList
}

// NewUnstructuredGrid takes ownership of its arguments.
func NewUnstructuredGrid(points [][3]float64, cells []Cell, pointData, cellData *columnar.Table) *UnstructuredGrid {
	return &UnstructuredGrid{cellList: newCellList(points, cells, pointData, cellData)}
}

func (*UnstructuredGrid) Shape() Shape { return ShapeUnstructuredGrid }

// PolyData is a point cloud with optional line connectivity.
type PolyData struct {
	cellList
}

// NewPolyData takes ownership of its arguments. Every cell must be line-like.
func NewPolyData(points [][3]float64, lines []Cell, pointData, cellData *columnar.Table) *PolyData {
	return &PolyData{cellList: newCellList(points, lines, pointData, cellData)}
}

func (*PolyData) Shape() Shape { return ShapePolyData }

// Association selects which attribute table of a dataset an array lives in.
type Association int

const (
	PointAssociation Association = iota
	CellAssociation
)

func (a Association) String() string {
	if a == CellAssociation {
		return "cell"
	}
	return "point"
}

// ParseAssociation parses "point" or "cell".
func ParseAssociation(s string) (Association, bool) {
	switch s {
	case "point", "points":
		return PointAssociation, true
	case "cell", "cells":
		return CellAssociation, true
	default:
		return 0, false
	}
}

// Attributes returns the table of ds selected by assoc.
func Attributes(ds Dataset, assoc Association) *columnar.Table {
	if assoc == CellAssociation {
		return ds.CellData()
	}
	return ds.PointData()
}
