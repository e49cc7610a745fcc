package cuds

import (
	"iter"
	"sync"

	"github.com/google/uuid"
)

// MemoryMesh is an in-memory Mesh. Entities iterate in insertion order.
type MemoryMesh struct {
	mu     sync.RWMutex
	name   string
	points []Point
	edges  []Element
	faces  []Element
	cells  []Element
}

var _ Mesh = (*MemoryMesh)(nil)

// NewMesh creates an empty mesh.
func NewMesh(name string) *MemoryMesh {
	return &MemoryMesh{name: name}
}

func (m *MemoryMesh) Name() string { return m.name }
func (m *MemoryMesh) Kind() Kind   { return KindMesh }

// AddPoints stores points and returns their UIDs. Points with a nil UID get
// a fresh one.
func (m *MemoryMesh) AddPoints(points ...Point) []UID {
	m.mu.Lock()
	defer m.mu.Unlock()

	uids := make([]UID, len(points))
	for i, p := range points {
		if p.UID == uuid.Nil {
			p.UID = uuid.New()
		}
		p.Data = p.Data.Clone()
		m.points = append(m.points, p)
		uids[i] = p.UID
	}
	return uids
}

// AddEdges stores edges and returns their UIDs.
func (m *MemoryMesh) AddEdges(edges ...Element) []UID {
	return m.addElements(&m.edges, edges)
}

// AddFaces stores faces and returns their UIDs.
func (m *MemoryMesh) AddFaces(faces ...Element) []UID {
	return m.addElements(&m.faces, faces)
}

// AddCells stores cells and returns their UIDs.
func (m *MemoryMesh) AddCells(cells ...Element) []UID {
	return m.addElements(&m.cells, cells)
}

func (m *MemoryMesh) addElements(dst *[]Element, elements []Element) []UID {
	m.mu.Lock()
	defer m.mu.Unlock()

	uids := make([]UID, len(elements))
	for i, e := range elements {
		e = copyElement(e)
		if e.UID == uuid.Nil {
			e.UID = uuid.New()
		}
		*dst = append(*dst, e)
		uids[i] = e.UID
	}
	return uids
}

func (m *MemoryMesh) Points() iter.Seq[Point] {
	return func(yield func(Point) bool) {
		m.mu.RLock()
		points := m.points
		m.mu.RUnlock()
		for _, p := range points {
			p.Data = p.Data.Clone()
			if !yield(p) {
				return
			}
		}
	}
}

func (m *MemoryMesh) Edges() iter.Seq[Element] { return m.elements(func() []Element { return m.edges }) }
func (m *MemoryMesh) Faces() iter.Seq[Element] { return m.elements(func() []Element { return m.faces }) }
func (m *MemoryMesh) Cells() iter.Seq[Element] { return m.elements(func() []Element { return m.cells }) }

func (m *MemoryMesh) elements(get func() []Element) iter.Seq[Element] {
	return func(yield func(Element) bool) {
		m.mu.RLock()
		elements := get()
		m.mu.RUnlock()
		for _, e := range elements {
			if !yield(copyElement(e)) {
				return
			}
		}
	}
}

// Counts returns the number of points, edges, faces and cells.
func (m *MemoryMesh) Counts() (points, edges, faces, cells int) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.points), len(m.edges), len(m.faces), len(m.cells)
}
