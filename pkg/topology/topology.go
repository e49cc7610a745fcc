// Package topology classifies mesh elements by arity into canonical cell
// types.
//
// EdgeType and FaceType are total, falling back to polyline and polygon.
// VolumeType has no generic polyhedron fallback: an arity outside its table
// is a conversion error.
package topology

import (
	"github.com/ajitpratap0/cudsviz/pkg/vizerrors"
)

// CellType is a canonical primitive cell type.
type CellType int

const (
	CellUnknown CellType = iota
	CellLine
	CellPolyline
	CellTriangle
	CellQuad
	CellPolygon
	CellTetrahedron
	CellPyramid
	CellWedge
	CellHexahedron
	CellPentagonalPrism
	CellHexagonalPrism
)

var cellTags = map[CellType]string{
	CellUnknown:         "unknown",
	CellLine:            "line",
	CellPolyline:        "polyline",
	CellTriangle:        "triangle",
	CellQuad:            "quad",
	CellPolygon:         "polygon",
	CellTetrahedron:     "tetrahedron",
	CellPyramid:         "pyramid",
	CellWedge:           "wedge",
	CellHexahedron:      "hexahedron",
	CellPentagonalPrism: "pentagonal-prism",
	CellHexagonalPrism:  "hexagonal-prism",
}

// Legacy VTK cell type identifiers.
var vtkIDs = map[CellType]int{
	CellLine:            3,
	CellPolyline:        4,
	CellTriangle:        5,
	CellPolygon:         7,
	CellQuad:            9,
	CellTetrahedron:     10,
	CellHexahedron:      12,
	CellWedge:           13,
	CellPyramid:         14,
	CellPentagonalPrism: 15,
	CellHexagonalPrism:  16,
}

// String returns the canonical tag, e.g. "tetrahedron".
func (c CellType) String() string {
	if tag, ok := cellTags[c]; ok {
		return tag
	}
	return "unknown"
}

// VTKID returns the legacy VTK cell type number, or 0 for CellUnknown.
func (c CellType) VTKID() int {
	return vtkIDs[c]
}

// Dimension returns 1 for line-like, 2 for face-like and 3 for volume-like
// cells.
func (c CellType) Dimension() int {
	switch c {
	case CellLine, CellPolyline:
		return 1
	case CellTriangle, CellQuad, CellPolygon:
		return 2
	case CellUnknown:
		return 0
	default:
		return 3
	}
}

// ParseCellType returns the cell type with the given tag.
func ParseCellType(tag string) (CellType, error) {
	for c, t := range cellTags {
		if t == tag && c != CellUnknown {
			return c, nil
		}
	}
	return CellUnknown, vizerrors.New(vizerrors.ErrorTypeValidation, "unknown cell type").
		WithDetail("tag", tag)
}

var edgeTypes = map[int]CellType{2: CellLine}

var faceTypes = map[int]CellType{3: CellTriangle, 4: CellQuad}

var volumeTypes = map[int]CellType{
	4:  CellTetrahedron,
	5:  CellPyramid,
	6:  CellWedge,
	8:  CellHexahedron,
	10: CellPentagonalPrism,
	12: CellHexagonalPrism,
}

// EdgeType classifies a line-like element of n points.
func EdgeType(n int) CellType {
	if c, ok := edgeTypes[n]; ok {
		return c
	}
	return CellPolyline
}

// FaceType classifies a face-like element of n points.
func FaceType(n int) CellType {
	if c, ok := faceTypes[n]; ok {
		return c
	}
	return CellPolygon
}

// VolumeType classifies a volume-like element of n points.
func VolumeType(n int) (CellType, error) {
	if c, ok := volumeTypes[n]; ok {
		return c, nil
	}
	return CellUnknown, vizerrors.Newf(vizerrors.ErrorTypeConversion,
		"no volume cell type for %d points", n).
		WithDetail("arity", n)
}
