// Package cuds defines the read-only contract that simulation data
// containers (mesh, particle system, lattice) expose to the converter, and
// provides in-memory implementations of all three.
//
// Every container reports its Kind and yields its entities through
// restartable iter.Seq sequences in a stable order. Sequences yield copies;
// mutating a yielded entity never reaches the container.
package cuds

import (
	"iter"

	"github.com/google/uuid"

	"github.com/ajitpratap0/cudsviz/pkg/cuba"
)

// UID identifies an entity within a container.
type UID = uuid.UUID

// Kind is the container variant.
type Kind int

const (
	KindUnknown Kind = iota
	KindMesh
	KindParticles
	KindLattice
)

func (k Kind) String() string {
	switch k {
	case KindMesh:
		return "mesh"
	case KindParticles:
		return "particles"
	case KindLattice:
		return "lattice"
	default:
		return "unknown"
	}
}

// ParseKind parses "mesh", "particles" or "lattice".
func ParseKind(s string) Kind {
	switch s {
	case "mesh":
		return KindMesh
	case "particles":
		return KindParticles
	case "lattice":
		return KindLattice
	default:
		return KindUnknown
	}
}

// Container is implemented by every simulation container.
type Container interface {
	Name() string
	Kind() Kind
}

// Point is a mesh vertex.
type Point struct {
	UID         UID
	Coordinates [3]float64
	Data        cuba.DataContainer
}

// Element is a mesh edge, face or cell referencing its points in order.
type Element struct {
	UID    UID
	Points []UID
	Data   cuba.DataContainer
}

// Particle is a point-like body of a particle system.
type Particle struct {
	UID         UID
	Coordinates [3]float64
	Data        cuba.DataContainer
}

// Bond links one or more particles. A single-member bond is degenerate
// but valid.
type Bond struct {
	UID       UID
	Particles []UID
	Data      cuba.DataContainer
}

// Index addresses a lattice node.
type Index [3]int

// Node is a lattice site.
type Node struct {
	Index Index
	Data  cuba.DataContainer
}

// Mesh is a container of points and the edges, faces and cells built on
// them.
type Mesh interface {
	Container
	Points() iter.Seq[Point]
	Edges() iter.Seq[Element]
	Faces() iter.Seq[Element]
	Cells() iter.Seq[Element]
}

// Particles is a container of particles and the bonds between them.
type Particles interface {
	Container
	Particles() iter.Seq[Particle]
	Bonds() iter.Seq[Bond]
}

// Lattice is a container of nodes on a Bravais lattice.
type Lattice interface {
	Container
	Origin() [3]float64
	Size() [3]int
	PrimitiveCell() PrimitiveCell
	// Nodes yields every node in natural order, x fastest.
	Nodes() iter.Seq[Node]
	Node(idx Index) (Node, error)
	Coordinate(idx Index) [3]float64
}

func copyElement(e Element) Element {
	return Element{UID: e.UID, Points: append([]UID(nil), e.Points...), Data: e.Data.Clone()}
}
