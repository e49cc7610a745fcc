package cuds

import (
	"iter"
	"sync"

	"github.com/ajitpratap0/cudsviz/pkg/cuba"
	"github.com/ajitpratap0/cudsviz/pkg/vizerrors"
)

// MemoryLattice is an in-memory Lattice holding per-node data densely.
type MemoryLattice struct {
	mu     sync.RWMutex
	name   string
	cell   PrimitiveCell
	size   [3]int
	origin [3]float64
	data   []cuba.DataContainer
}

var _ Lattice = (*MemoryLattice)(nil)

// NewLattice creates a lattice of size nodes along each axis. Non-positive
// sizes are clamped to one.
func NewLattice(name string, cell PrimitiveCell, size [3]int, origin [3]float64) *MemoryLattice {
	for i := range size {
		if size[i] < 1 {
			size[i] = 1
		}
	}
	return &MemoryLattice{
		name:   name,
		cell:   cell,
		size:   size,
		origin: origin,
		data:   make([]cuba.DataContainer, size[0]*size[1]*size[2]),
	}
}

// MakeCubicLattice creates a cubic lattice with spacing h.
func MakeCubicLattice(name string, h float64, size [3]int, origin [3]float64) *MemoryLattice {
	return NewLattice(name, CubicCell(h), size, origin)
}

// MakeTetragonalLattice creates a tetragonal lattice with spacings a and c.
func MakeTetragonalLattice(name string, a, c float64, size [3]int, origin [3]float64) *MemoryLattice {
	return NewLattice(name, TetragonalCell(a, c), size, origin)
}

// MakeOrthorhombicLattice creates an orthorhombic lattice.
func MakeOrthorhombicLattice(name string, spacing [3]float64, size [3]int, origin [3]float64) *MemoryLattice {
	return NewLattice(name, OrthorhombicCell(spacing[0], spacing[1], spacing[2]), size, origin)
}

// MakeSquareLattice creates a single-layer square lattice.
func MakeSquareLattice(name string, h float64, size [2]int, origin [3]float64) *MemoryLattice {
	return NewLattice(name, SquareCell(h), [3]int{size[0], size[1], 1}, origin)
}

// MakeRectangularLattice creates a single-layer rectangular lattice.
func MakeRectangularLattice(name string, spacing [2]float64, size [2]int, origin [3]float64) *MemoryLattice {
	return NewLattice(name, RectangularCell(spacing[0], spacing[1]), [3]int{size[0], size[1], 1}, origin)
}

// MakeHexagonalLattice creates a hexagonal lattice with in-plane spacing a
// and layer spacing c.
func MakeHexagonalLattice(name string, a, c float64, size [3]int, origin [3]float64) *MemoryLattice {
	return NewLattice(name, HexagonalCell(a, c), size, origin)
}

func (l *MemoryLattice) Name() string                 { return l.name }
func (l *MemoryLattice) Kind() Kind                   { return KindLattice }
func (l *MemoryLattice) Origin() [3]float64           { return l.origin }
func (l *MemoryLattice) Size() [3]int                 { return l.size }
func (l *MemoryLattice) PrimitiveCell() PrimitiveCell { return l.cell }

func (l *MemoryLattice) offset(idx Index) (int, bool) {
	for i := range idx {
		if idx[i] < 0 || idx[i] >= l.size[i] {
			return 0, false
		}
	}
	return idx[0] + l.size[0]*(idx[1]+l.size[1]*idx[2]), true
}

// Node returns the node at idx. Indices outside the lattice are an
// ErrorTypeNotFound error.
func (l *MemoryLattice) Node(idx Index) (Node, error) {
	off, ok := l.offset(idx)
	if !ok {
		return Node{}, vizerrors.New(vizerrors.ErrorTypeNotFound, "lattice index out of range").
			WithDetail("index", idx).
			WithDetail("size", l.size)
	}
	l.mu.RLock()
	data := l.data[off].Clone()
	l.mu.RUnlock()
	return Node{Index: idx, Data: data}, nil
}

// Nodes yields every node with x varying fastest, then y, then z.
func (l *MemoryLattice) Nodes() iter.Seq[Node] {
	return func(yield func(Node) bool) {
		for z := 0; z < l.size[2]; z++ {
			for y := 0; y < l.size[1]; y++ {
				for x := 0; x < l.size[0]; x++ {
					node, _ := l.Node(Index{x, y, z})
					if !yield(node) {
						return
					}
				}
			}
		}
	}
}

// Coordinate returns origin + i·p1 + j·p2 + k·p3.
func (l *MemoryLattice) Coordinate(idx Index) [3]float64 {
	var out [3]float64
	for axis := 0; axis < 3; axis++ {
		out[axis] = l.origin[axis] +
			float64(idx[0])*l.cell.P1[axis] +
			float64(idx[1])*l.cell.P2[axis] +
			float64(idx[2])*l.cell.P3[axis]
	}
	return out
}

// UpdateNodes replaces the data of each node.
func (l *MemoryLattice) UpdateNodes(nodes ...Node) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	for _, n := range nodes {
		off, ok := l.offset(n.Index)
		if !ok {
			return vizerrors.New(vizerrors.ErrorTypeNotFound, "lattice index out of range").
				WithDetail("index", n.Index)
		}
		l.data[off] = n.Data.Clone()
	}
	return nil
}
