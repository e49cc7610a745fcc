package cuds

import (
	"os"
	"path/filepath"
	"slices"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ajitpratap0/cudsviz/pkg/compression"
	"github.com/ajitpratap0/cudsviz/pkg/cuba"
	"github.com/ajitpratap0/cudsviz/pkg/vizerrors"
)

func TestMeshIterationOrderAndCopies(t *testing.T) {
	mesh := NewMesh("test")
	uids := mesh.AddPoints(
		Point{Coordinates: [3]float64{0, 0, 0}, Data: cuba.DataContainer{cuba.Temperature: 1.0}},
		Point{Coordinates: [3]float64{1, 0, 0}},
	)
	require.Len(t, uids, 2)
	assert.NotEqual(t, uuid.Nil, uids[0])

	explicit := uuid.New()
	mesh.AddEdges(Element{UID: explicit, Points: []UID{uids[0], uids[1]}})

	points := slices.Collect(mesh.Points())
	require.Len(t, points, 2)
	assert.Equal(t, uids[0], points[0].UID)
	assert.Equal(t, [3]float64{1, 0, 0}, points[1].Coordinates)

	// Mutating yielded data never reaches the container.
	points[0].Data[cuba.Temperature] = 99.0
	again := slices.Collect(mesh.Points())
	assert.Equal(t, 1.0, again[0].Data[cuba.Temperature])

	edges := slices.Collect(mesh.Edges())
	require.Len(t, edges, 1)
	assert.Equal(t, explicit, edges[0].UID)
	edges[0].Points[0] = uuid.New()
	assert.Equal(t, uids[0], slices.Collect(mesh.Edges())[0].Points[0])

	// Sequences are restartable.
	assert.Len(t, slices.Collect(mesh.Points()), 2)
	assert.Empty(t, slices.Collect(mesh.Faces()))
	assert.Empty(t, slices.Collect(mesh.Cells()))
	assert.Equal(t, KindMesh, mesh.Kind())
}

func TestParticles(t *testing.T) {
	particles := NewParticles("p")
	uids := particles.AddParticles(Particle{}, Particle{}, Particle{})
	particles.AddBonds(Bond{Particles: []UID{uids[0], uids[2]}})

	n, b := particles.Counts()
	assert.Equal(t, 3, n)
	assert.Equal(t, 1, b)

	bonds := slices.Collect(particles.Bonds())
	assert.Equal(t, []UID{uids[0], uids[2]}, bonds[0].Particles)
	assert.Equal(t, KindParticles, particles.Kind())
}

func TestLatticeNodesNaturalOrder(t *testing.T) {
	lattice := MakeCubicLattice("l", 0.5, [3]int{2, 3, 2}, [3]float64{})

	var order []Index
	for node := range lattice.Nodes() {
		order = append(order, node.Index)
	}
	require.Len(t, order, 12)
	assert.Equal(t, Index{0, 0, 0}, order[0])
	assert.Equal(t, Index{1, 0, 0}, order[1])
	assert.Equal(t, Index{0, 1, 0}, order[2])
	assert.Equal(t, Index{0, 0, 1}, order[6])
	assert.Equal(t, Index{1, 2, 1}, order[11])
}

func TestLatticeNodeData(t *testing.T) {
	lattice := MakeCubicLattice("l", 1, [3]int{3, 3, 3}, [3]float64{})
	require.NoError(t, lattice.UpdateNodes(Node{Index: Index{1, 2, 0}, Data: cuba.DataContainer{cuba.Temperature: 7.0}}))

	node, err := lattice.Node(Index{1, 2, 0})
	require.NoError(t, err)
	assert.Equal(t, 7.0, node.Data[cuba.Temperature])

	_, err = lattice.Node(Index{3, 0, 0})
	assert.True(t, vizerrors.IsType(err, vizerrors.ErrorTypeNotFound))
	err = lattice.UpdateNodes(Node{Index: Index{-1, 0, 0}})
	assert.Error(t, err)
}

func TestLatticeCoordinate(t *testing.T) {
	lattice := MakeOrthorhombicLattice("o", [3]float64{0.1, 0.2, 0.3}, [3]int{4, 4, 4}, [3]float64{1, 1, 1})
	coord := lattice.Coordinate(Index{1, 2, 3})
	assert.InDeltaSlice(t, []float64{1.1, 1.4, 1.9}, coord[:], 1e-12)

	hex := MakeHexagonalLattice("h", 1, 2, [3]int{3, 3, 2}, [3]float64{})
	c := hex.Coordinate(Index{1, 1, 1})
	assert.InDelta(t, 1.5, c[0], 1e-12)
	assert.InDelta(t, 0.8660254037844386, c[1], 1e-12)
	assert.InDelta(t, 2.0, c[2], 1e-12)
	assert.False(t, hex.PrimitiveCell().Bravais.AxisAligned())
}

func TestAxisAligned(t *testing.T) {
	for _, b := range []BravaisLattice{Cubic, Tetragonal, Orthorhombic, Square, Rectangular} {
		assert.True(t, b.AxisAligned(), b.String())
	}
	for _, b := range []BravaisLattice{Hexagonal, BodyCenteredCubic, FaceCenteredCubic, Rhombohedral, Monoclinic, Triclinic, Oblique} {
		assert.False(t, b.AxisAligned(), b.String())
	}
}

func TestTwoDimensionalLattices(t *testing.T) {
	square := MakeSquareLattice("s", 0.5, [2]int{4, 3}, [3]float64{})
	assert.Equal(t, [3]int{4, 3, 1}, square.Size())
	assert.Equal(t, [3]float64{0.5, 0.5, 1}, square.PrimitiveCell().Norms())

	rect := MakeRectangularLattice("r", [2]float64{1, 2}, [2]int{2, 2}, [3]float64{})
	assert.Equal(t, Rectangular, rect.PrimitiveCell().Bravais)
}

const meshYAML = `
kind: mesh
name: example
points:
  - coordinates: [0, 0, 0]
    data: {TEMPERATURE: 1.5}
  - coordinates: [1, 0, 0]
  - coordinates: [0, 1, 0]
  - coordinates: [0, 0, 1]
edges:
  - points: [0, 1]
    data: {LABEL: 3}
cells:
  - points: [0, 1, 2, 3]
    data: {VELOCITY: [1, 2, 3]}
`

func TestDecodeYAMLMesh(t *testing.T) {
	c, err := Decode(strings.NewReader(meshYAML), FormatYAML)
	require.NoError(t, err)
	require.Equal(t, KindMesh, c.Kind())

	mesh := c.(*MemoryMesh)
	points, edges, faces, cells := mesh.Counts()
	assert.Equal(t, []int{4, 1, 0, 1}, []int{points, edges, faces, cells})

	pts := slices.Collect(mesh.Points())
	assert.Equal(t, 1.5, pts[0].Data[cuba.Temperature])

	cell := slices.Collect(mesh.Cells())[0]
	assert.Equal(t, []UID{pts[0].UID, pts[1].UID, pts[2].UID, pts[3].UID}, cell.Points)
	assert.Equal(t, []any{1, 2, 3}, cell.Data[cuba.Velocity])
}

const particlesJSON = `{
  "kind": "particles",
  "name": "gas",
  "particles": [
    {"coordinates": [0, 0, 0], "data": {"TEMPERATURE": 10}},
    {"coordinates": [1, 0, 0], "data": {"TEMPERATURE": 20.5}}
  ],
  "bonds": [{"particles": [0, 1], "data": {"BOND_LABEL": 2}}]
}`

func TestDecodeJSONParticles(t *testing.T) {
	c, err := Decode(strings.NewReader(particlesJSON), FormatJSON)
	require.NoError(t, err)

	particles := c.(*MemoryParticles)
	items := slices.Collect(particles.Particles())
	require.Len(t, items, 2)
	assert.Equal(t, int64(10), items[0].Data[cuba.Temperature])
	assert.Equal(t, 20.5, items[1].Data[cuba.Temperature])

	bond := slices.Collect(particles.Bonds())[0]
	assert.Equal(t, []UID{items[0].UID, items[1].UID}, bond.Particles)
	assert.Equal(t, int64(2), bond.Data[cuba.BondLabel])
}

func TestDecodeLattice(t *testing.T) {
	doc := `
kind: lattice
name: grid
lattice:
  bravais: cubic
  p1: [0.1, 0, 0]
  p2: [0, 0.1, 0]
  p3: [0, 0, 0.1]
  size: [2, 2, 2]
  origin: [0, 0, 0]
nodes:
  - index: [1, 1, 1]
    data: {TEMPERATURE: 8}
`
	c, err := Decode(strings.NewReader(doc), FormatYAML)
	require.NoError(t, err)

	lattice := c.(*MemoryLattice)
	node, err := lattice.Node(Index{1, 1, 1})
	require.NoError(t, err)
	assert.Equal(t, 8, node.Data[cuba.Temperature])
	assert.Equal(t, Cubic, lattice.PrimitiveCell().Bravais)
}

func TestDecodeErrors(t *testing.T) {
	tests := []struct {
		name    string
		doc     string
		errType vizerrors.ErrorType
	}{
		{"unknown kind", "kind: sphere\n", vizerrors.ErrorTypeValidation},
		{"unknown key", "kind: mesh\npoints:\n  - coordinates: [0,0,0]\n    data: {HEAT: 1}\n", vizerrors.ErrorTypeValidation},
		{"bad reference", "kind: mesh\npoints:\n  - coordinates: [0,0,0]\nedges:\n  - points: [0, 5]\n", vizerrors.ErrorTypeReference},
		{"bad bond", "kind: particles\nparticles:\n  - coordinates: [0,0,0]\nbonds:\n  - particles: [1]\n", vizerrors.ErrorTypeReference},
		{"missing geometry", "kind: lattice\n", vizerrors.ErrorTypeValidation},
		{"malformed", "kind: [\n", vizerrors.ErrorTypeValidation},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Decode(strings.NewReader(tt.doc), FormatYAML)
			require.Error(t, err)
			assert.True(t, vizerrors.IsType(err, tt.errType), err.Error())
		})
	}
}

func TestFormatFromPath(t *testing.T) {
	f, err := FormatFromPath("a/b.YML")
	require.NoError(t, err)
	assert.Equal(t, FormatYAML, f)

	f, err = FormatFromPath("x.json")
	require.NoError(t, err)
	assert.Equal(t, FormatJSON, f)

	_, err = FormatFromPath("x.txt")
	assert.Error(t, err)
}

func TestDecodeCompressedFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "mesh.yaml.zst")
	f, err := os.Create(path)
	require.NoError(t, err)
	w, err := compression.NewWriter(f, &compression.Config{Algorithm: compression.Zstd})
	require.NoError(t, err)
	_, err = w.Write([]byte(meshYAML))
	require.NoError(t, err)
	require.NoError(t, w.Close())
	require.NoError(t, f.Close())

	c, err := DecodeFile(path)
	require.NoError(t, err)
	assert.Equal(t, KindMesh, c.Kind())

	corrupt := filepath.Join(t.TempDir(), "mesh.json.gz")
	require.NoError(t, os.WriteFile(corrupt, []byte("not gzip"), 0o644))
	_, err = DecodeFile(corrupt)
	require.Error(t, err)
	assert.True(t, vizerrors.IsType(err, vizerrors.ErrorTypeData))

	_, err = DecodeFile(filepath.Join(t.TempDir(), "mesh.txt.gz"))
	assert.True(t, vizerrors.IsType(err, vizerrors.ErrorTypeValidation))
}
