package cuds

import (
	"math"
)

// BravaisLattice is the geometry class of a primitive cell.
type BravaisLattice int

const (
	Cubic BravaisLattice = iota
	BodyCenteredCubic
	FaceCenteredCubic
	Rhombohedral
	Tetragonal
	BodyCenteredTetragonal
	Hexagonal
	Orthorhombic
	BodyCenteredOrthorhombic
	FaceCenteredOrthorhombic
	BaseCenteredOrthorhombic
	Monoclinic
	BaseCenteredMonoclinic
	Triclinic
	Square
	Rectangular
	CenteredRectangular
	Oblique
)

var bravaisNames = []string{
	Cubic:                    "cubic",
	BodyCenteredCubic:        "body_centered_cubic",
	FaceCenteredCubic:        "face_centered_cubic",
	Rhombohedral:             "rhombohedral",
	Tetragonal:               "tetragonal",
	BodyCenteredTetragonal:   "body_centered_tetragonal",
	Hexagonal:                "hexagonal",
	Orthorhombic:             "orthorhombic",
	BodyCenteredOrthorhombic: "body_centered_orthorhombic",
	FaceCenteredOrthorhombic: "face_centered_orthorhombic",
	BaseCenteredOrthorhombic: "base_centered_orthorhombic",
	Monoclinic:               "monoclinic",
	BaseCenteredMonoclinic:   "base_centered_monoclinic",
	Triclinic:                "triclinic",
	Square:                   "square",
	Rectangular:              "rectangular",
	CenteredRectangular:      "centered_rectangular",
	Oblique:                  "oblique",
}

func (b BravaisLattice) String() string {
	if b >= 0 && int(b) < len(bravaisNames) {
		return bravaisNames[b]
	}
	return "unknown"
}

// ParseBravaisLattice parses a lower-snake geometry class name.
func ParseBravaisLattice(s string) (BravaisLattice, bool) {
	for i, name := range bravaisNames {
		if name == s {
			return BravaisLattice(i), true
		}
	}
	return 0, false
}

// AxisAligned reports whether the class is a regular grid whose basis
// vectors lie along the coordinate axes.
func (b BravaisLattice) AxisAligned() bool {
	switch b {
	case Cubic, Tetragonal, Orthorhombic, Square, Rectangular:
		return true
	default:
		return false
	}
}

// PrimitiveCell holds the three basis vectors of a lattice.
type PrimitiveCell struct {
	P1, P2, P3 [3]float64
	Bravais    BravaisLattice
}

// Norms returns the Euclidean length of each basis vector.
func (pc PrimitiveCell) Norms() [3]float64 {
	return [3]float64{norm(pc.P1), norm(pc.P2), norm(pc.P3)}
}

func norm(v [3]float64) float64 {
	return math.Sqrt(v[0]*v[0] + v[1]*v[1] + v[2]*v[2])
}

// Primitive cell constructors. Two-dimensional cells use a unit third
// vector along z so a single layer of nodes maps onto a flat grid.

func CubicCell(a float64) PrimitiveCell {
	return PrimitiveCell{P1: [3]float64{a, 0, 0}, P2: [3]float64{0, a, 0}, P3: [3]float64{0, 0, a}, Bravais: Cubic}
}

func TetragonalCell(a, c float64) PrimitiveCell {
	return PrimitiveCell{P1: [3]float64{a, 0, 0}, P2: [3]float64{0, a, 0}, P3: [3]float64{0, 0, c}, Bravais: Tetragonal}
}

func OrthorhombicCell(a, b, c float64) PrimitiveCell {
	return PrimitiveCell{P1: [3]float64{a, 0, 0}, P2: [3]float64{0, b, 0}, P3: [3]float64{0, 0, c}, Bravais: Orthorhombic}
}

func SquareCell(a float64) PrimitiveCell {
	return PrimitiveCell{P1: [3]float64{a, 0, 0}, P2: [3]float64{0, a, 0}, P3: [3]float64{0, 0, 1}, Bravais: Square}
}

func RectangularCell(a, b float64) PrimitiveCell {
	return PrimitiveCell{P1: [3]float64{a, 0, 0}, P2: [3]float64{0, b, 0}, P3: [3]float64{0, 0, 1}, Bravais: Rectangular}
}

func HexagonalCell(a, c float64) PrimitiveCell {
	return PrimitiveCell{
		P1:      [3]float64{a, 0, 0},
		P2:      [3]float64{a / 2, a * math.Sqrt(3) / 2, 0},
		P3:      [3]float64{0, 0, c},
		Bravais: Hexagonal,
	}
}
