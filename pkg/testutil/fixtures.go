package testutil

import (
	"github.com/ajitpratap0/cudsviz/pkg/cuba"
	"github.com/ajitpratap0/cudsviz/pkg/cuds"
)

// MeshFixture is a small mixed mesh: 12 points, two edges, one triangle,
// one tetrahedron and one hexahedron. Every entity carries its position in
// its own list as Temperature.
type MeshFixture struct {
	Mesh   *cuds.MemoryMesh
	Points []cuds.UID
	Edges  [][]int
	Faces  [][]int
	Cells  [][]int
}

// ExampleMesh builds the mesh fixture.
func ExampleMesh() *MeshFixture {
	f := &MeshFixture{
		Mesh:  cuds.NewMesh("example_mesh"),
		Edges: [][]int{{1, 4}, {3, 8}},
		Faces: [][]int{{2, 7, 11}},
		Cells: [][]int{{0, 1, 2, 3}, {4, 5, 6, 7, 8, 9, 10, 11}},
	}

	points := make([]cuds.Point, 12)
	for i := range points {
		points[i] = cuds.Point{
			Coordinates: [3]float64{float64(i % 2), float64((i / 2) % 2), float64(i / 4)},
			Data:        cuba.DataContainer{cuba.Temperature: float64(i)},
		}
	}
	f.Points = f.Mesh.AddPoints(points...)

	f.Mesh.AddEdges(f.elements(f.Edges)...)
	f.Mesh.AddFaces(f.elements(f.Faces)...)
	f.Mesh.AddCells(f.elements(f.Cells)...)
	return f
}

func (f *MeshFixture) elements(refs [][]int) []cuds.Element {
	out := make([]cuds.Element, len(refs))
	for i, ids := range refs {
		uids := make([]cuds.UID, len(ids))
		for j, id := range ids {
			uids[j] = f.Points[id]
		}
		out[i] = cuds.Element{
			Points: uids,
			Data:   cuba.DataContainer{cuba.Temperature: float64(i)},
		}
	}
	return out
}

// ParticlesFixture is four particles joined by two pair bonds and one
// triple bond. Particle and bond temperatures are 10, 20, 30 and 40 by
// position.
type ParticlesFixture struct {
	Particles *cuds.MemoryParticles
	UIDs      []cuds.UID
	Bonds     [][]int
}

// ExampleParticles builds the particles fixture.
func ExampleParticles() *ParticlesFixture {
	temperatures := []float64{10, 20, 30, 40}
	f := &ParticlesFixture{
		Particles: cuds.NewParticles("example_particles"),
		Bonds:     [][]int{{0, 1}, {0, 3}, {1, 3, 2}},
	}

	particles := make([]cuds.Particle, len(temperatures))
	for i, temp := range temperatures {
		particles[i] = cuds.Particle{
			Coordinates: [3]float64{float64(i), float64(i) * 0.5, 0},
			Data:        cuba.DataContainer{cuba.Temperature: temp},
		}
	}
	f.UIDs = f.Particles.AddParticles(particles...)

	bonds := make([]cuds.Bond, len(f.Bonds))
	for i, ids := range f.Bonds {
		uids := make([]cuds.UID, len(ids))
		for j, id := range ids {
			uids[j] = f.UIDs[id]
		}
		bonds[i] = cuds.Bond{
			Particles: uids,
			Data:      cuba.DataContainer{cuba.Temperature: temperatures[i]},
		}
	}
	f.Particles.AddBonds(bonds...)
	return f
}

// LatticeTemperature is the Temperature every fixture lattice node carries:
// the product of its index components plus one.
func LatticeTemperature(idx cuds.Index) float64 {
	return float64((idx[0] + 1) * (idx[1] + 1) * (idx[2] + 1))
}

// FillLattice sets Temperature on every node of l to LatticeTemperature.
func FillLattice(l *cuds.MemoryLattice) *cuds.MemoryLattice {
	var nodes []cuds.Node
	for node := range l.Nodes() {
		node.Data = cuba.DataContainer{cuba.Temperature: LatticeTemperature(node.Index)}
		nodes = append(nodes, node)
	}
	if err := l.UpdateNodes(nodes...); err != nil {
		panic(err)
	}
	return l
}

// ExampleLattice is a cubic lattice of spacing 0.1 and size 5x10x12.
func ExampleLattice() *cuds.MemoryLattice {
	return FillLattice(cuds.MakeCubicLattice("example_lattice", 0.1, [3]int{5, 10, 12}, [3]float64{}))
}
