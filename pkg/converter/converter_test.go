package converter

import (
	"iter"
	"math"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zapcore"

	"github.com/ajitpratap0/cudsviz/pkg/cuba"
	"github.com/ajitpratap0/cudsviz/pkg/cuds"
	"github.com/ajitpratap0/cudsviz/pkg/dataset"
	"github.com/ajitpratap0/cudsviz/pkg/metrics"
	"github.com/ajitpratap0/cudsviz/pkg/topology"
	tu "github.com/ajitpratap0/cudsviz/pkg/testutil"
	"github.com/ajitpratap0/cudsviz/pkg/vizerrors"
)

func column(t *testing.T, ds dataset.Dataset, cells bool, key cuba.Key) []float64 {
	t.Helper()
	table := ds.PointData()
	if cells {
		table = ds.CellData()
	}
	col, err := table.Column(key)
	require.NoError(t, err)
	return col.Float64s()
}

func TestConvertMesh(t *testing.T) {
	f := tu.ExampleMesh()

	ds, err := New(WithLogger(tu.TestLogger(t))).Convert(f.Mesh)
	require.NoError(t, err)
	require.Equal(t, dataset.ShapeUnstructuredGrid, ds.Shape())

	require.Equal(t, 12, ds.NumberOfPoints())
	for i := 0; i < 12; i++ {
		assert.Equal(t, [3]float64{float64(i % 2), float64((i / 2) % 2), float64(i / 4)}, ds.Point(i))
	}

	// Edges, then faces, then cells.
	refs := append(append(append([][]int{}, f.Edges...), f.Faces...), f.Cells...)
	types := []topology.CellType{
		topology.CellLine,
		topology.CellLine,
		topology.CellTriangle,
		topology.CellTetrahedron,
		topology.CellHexahedron,
	}
	require.Equal(t, len(refs), ds.NumberOfCells())
	for i, want := range refs {
		cell := ds.Cell(i)
		assert.Equal(t, types[i], cell.Type, "cell %d", i)
		assert.Equal(t, want, cell.Points, "cell %d", i)
	}

	assert.Equal(t, []float64{0, 1, 2, 3, 4, 5, 6, 7, 8, 9, 10, 11}, column(t, ds, false, cuba.Temperature))
	assert.Equal(t, []float64{0, 1, 0, 0, 1}, column(t, ds, true, cuba.Temperature))
}

func TestConvertMeshPolygonalElements(t *testing.T) {
	mesh := cuds.NewMesh("polygons")
	pts := make([]cuds.Point, 5)
	for i := range pts {
		pts[i] = cuds.Point{Coordinates: [3]float64{float64(i), 0, 0}}
	}
	uids := mesh.AddPoints(pts...)
	mesh.AddEdges(cuds.Element{Points: uids[:3]})
	mesh.AddFaces(cuds.Element{Points: uids[:4]}, cuds.Element{Points: uids})

	ds, err := Convert(mesh)
	require.NoError(t, err)
	require.Equal(t, 3, ds.NumberOfCells())
	assert.Equal(t, topology.CellPolyline, ds.Cell(0).Type)
	assert.Equal(t, topology.CellQuad, ds.Cell(1).Type)
	assert.Equal(t, topology.CellPolygon, ds.Cell(2).Type)
	assert.Empty(t, ds.PointData().Keys())
	assert.Equal(t, 5, ds.PointData().Len())
}

func TestConvertMeshErrors(t *testing.T) {
	t.Run("unknown point", func(t *testing.T) {
		f := tu.ExampleMesh()
		f.Mesh.AddEdges(cuds.Element{Points: []cuds.UID{f.Points[0], cuds.UID{1}}})

		ds, err := Convert(f.Mesh)
		assert.Nil(t, ds)
		assert.True(t, vizerrors.IsType(err, vizerrors.ErrorTypeReference))
	})

	t.Run("unclassifiable cell", func(t *testing.T) {
		f := tu.ExampleMesh()
		f.Mesh.AddCells(cuds.Element{Points: f.Points[:7]})

		ds, err := Convert(f.Mesh)
		assert.Nil(t, ds)
		assert.True(t, vizerrors.IsType(err, vizerrors.ErrorTypeConversion))
		assert.True(t, vizerrors.HasType(err, vizerrors.ErrorTypeConversion))
	})

	t.Run("invalid data", func(t *testing.T) {
		mesh := cuds.NewMesh("bad")
		mesh.AddPoints(cuds.Point{Data: cuba.DataContainer{cuba.Temperature: "hot"}})

		_, err := Convert(mesh)
		assert.True(t, vizerrors.IsType(err, vizerrors.ErrorTypeData))
	})
}

func TestConvertParticles(t *testing.T) {
	f := tu.ExampleParticles()

	ds, err := Convert(f.Particles)
	require.NoError(t, err)
	require.Equal(t, dataset.ShapePolyData, ds.Shape())
	require.Equal(t, 4, ds.NumberOfPoints())
	assert.Equal(t, [3]float64{2, 1, 0}, ds.Point(2))

	require.Equal(t, 3, ds.NumberOfCells())
	for i, want := range f.Bonds {
		cell := ds.Cell(i)
		assert.Equal(t, topology.CellPolyline, cell.Type)
		assert.Equal(t, want, cell.Points)
	}

	assert.Equal(t, []float64{10, 20, 30, 40}, column(t, ds, false, cuba.Temperature))
	assert.Equal(t, []float64{10, 20, 30}, column(t, ds, true, cuba.Temperature))
}

func TestConvertParticlesSingleMemberBond(t *testing.T) {
	f := tu.ExampleParticles()
	f.Particles.AddBonds(cuds.Bond{
		Particles: []cuds.UID{f.UIDs[1]},
		Data:      cuba.DataContainer{cuba.Temperature: 99.0},
	})

	ds, err := Convert(f.Particles)
	require.NoError(t, err)
	require.Equal(t, 4, ds.NumberOfCells())

	cell := ds.Cell(3)
	assert.Equal(t, topology.CellPolyline, cell.Type)
	assert.Equal(t, []int{1}, cell.Points)
	assert.Equal(t, []float64{10, 20, 30, 99}, column(t, ds, true, cuba.Temperature))
}

func TestConvertParticlesUnknownBondMember(t *testing.T) {
	f := tu.ExampleParticles()
	f.Particles.AddBonds(cuds.Bond{Particles: []cuds.UID{f.UIDs[0], cuds.UID{9}}})

	_, err := Convert(f.Particles)
	require.Error(t, err)
	assert.True(t, vizerrors.IsType(err, vizerrors.ErrorTypeReference))
}

func TestConvertAxisAlignedLattice(t *testing.T) {
	origin := [3]float64{1, -2, 0.5}
	lattice := tu.FillLattice(cuds.MakeCubicLattice("cubic", 0.1, [3]int{3, 6, 5}, origin))

	ds, err := Convert(lattice)
	require.NoError(t, err)
	require.Equal(t, dataset.ShapeStructuredPoints, ds.Shape())

	sp := ds.(*dataset.StructuredPoints)
	assert.Equal(t, [3]int{3, 6, 5}, sp.Dimensions())
	assert.Equal(t, origin, sp.Origin())
	spacing := sp.Spacing()
	assert.InDeltaSlice(t, []float64{0.1, 0.1, 0.1}, spacing[:], 1e-12)
	require.Equal(t, 90, ds.NumberOfPoints())
	assert.Equal(t, 0, ds.NumberOfCells())

	temps := column(t, ds, false, cuba.Temperature)
	require.Len(t, temps, 90)
	for node := range lattice.Nodes() {
		i := sp.PointIndex(node.Index[0], node.Index[1], node.Index[2])
		assert.Equal(t, tu.LatticeTemperature(node.Index), temps[i], "node %v", node.Index)

		want := lattice.Coordinate(node.Index)
		got := ds.Point(i)
		assert.InDeltaSlice(t, want[:], got[:], 1e-9, "node %v", node.Index)
	}
}

func TestConvertExampleLattice(t *testing.T) {
	ds, err := Convert(tu.ExampleLattice())
	require.NoError(t, err)
	assert.Equal(t, 5*10*12, ds.NumberOfPoints())
	assert.Equal(t, 600, ds.PointData().Len())
}

func TestConvertPlanarLattices(t *testing.T) {
	lattices := []*cuds.MemoryLattice{
		cuds.MakeSquareLattice("square", 0.5, [2]int{4, 3}, [3]float64{}),
		cuds.MakeRectangularLattice("rect", [2]float64{0.5, 0.25}, [2]int{4, 3}, [3]float64{}),
	}
	for _, l := range lattices {
		t.Run(l.Name(), func(t *testing.T) {
			ds, err := Convert(tu.FillLattice(l))
			require.NoError(t, err)
			sp, ok := ds.(*dataset.StructuredPoints)
			require.True(t, ok)
			assert.Equal(t, [3]int{4, 3, 1}, sp.Dimensions())
			assert.Equal(t, 12, sp.PointData().Len())
		})
	}
}

func TestConvertSkewedLattice(t *testing.T) {
	lattice := tu.FillLattice(cuds.MakeHexagonalLattice("hex", 0.1, 0.2, [3]int{3, 4, 2}, [3]float64{}))

	ds, err := Convert(lattice)
	require.NoError(t, err)
	require.Equal(t, dataset.ShapePolyData, ds.Shape())
	require.Equal(t, 24, ds.NumberOfPoints())
	assert.Equal(t, 0, ds.NumberOfCells())
	assert.Equal(t, 0, ds.CellData().Len())

	temps := column(t, ds, false, cuba.Temperature)
	i := 0
	for node := range lattice.Nodes() {
		want := lattice.Coordinate(node.Index)
		got := ds.Point(i)
		assert.InDeltaSlice(t, want[:], got[:], 1e-12)
		assert.Equal(t, tu.LatticeTemperature(node.Index), temps[i])
		i++
	}
}

// holeyLattice reports a cubic lattice but cannot produce one of its nodes.
type holeyLattice struct {
	*cuds.MemoryLattice
	hole cuds.Index
}

func (h holeyLattice) Node(idx cuds.Index) (cuds.Node, error) {
	if idx == h.hole {
		return cuds.Node{}, vizerrors.New(vizerrors.ErrorTypeNotFound, "missing")
	}
	return h.MemoryLattice.Node(idx)
}

func TestConvertLatticeMissingNode(t *testing.T) {
	l := holeyLattice{
		MemoryLattice: cuds.MakeCubicLattice("holey", 1, [3]int{2, 2, 2}, [3]float64{}),
		hole:          cuds.Index{1, 1, 0},
	}

	ds, err := Convert(l)
	assert.Nil(t, ds)
	assert.True(t, vizerrors.IsType(err, vizerrors.ErrorTypeReference))
	assert.True(t, vizerrors.HasType(err, vizerrors.ErrorTypeNotFound))
}

type bareContainer struct{ kind cuds.Kind }

func (bareContainer) Name() string      { return "bare" }
func (b bareContainer) Kind() cuds.Kind { return b.kind }

// pointsOnly claims to be a mesh without exposing cells.
type pointsOnly struct{ bareContainer }

func (pointsOnly) Points() iter.Seq[cuds.Point] { return func(func(cuds.Point) bool) {} }

func TestConvertRejectsUnknownContainers(t *testing.T) {
	tests := []struct {
		name      string
		container cuds.Container
	}{
		{"nil", nil},
		{"unknown kind", bareContainer{kind: cuds.KindUnknown}},
		{"mesh without capabilities", pointsOnly{bareContainer{kind: cuds.KindMesh}}},
		{"particles without capabilities", bareContainer{kind: cuds.KindParticles}},
		{"lattice without capabilities", bareContainer{kind: cuds.KindLattice}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ds, err := Convert(tt.container)
			assert.Nil(t, ds)
			require.Error(t, err)
			assert.True(t, vizerrors.IsType(err, vizerrors.ErrorTypeType))
		})
	}
}

func TestConvertFixedKeys(t *testing.T) {
	mesh := cuds.NewMesh("fixed")
	mesh.AddPoints(
		cuds.Point{Data: cuba.DataContainer{cuba.Temperature: 1.0, cuba.Velocity: [3]float64{1, 2, 3}}},
		cuds.Point{Data: cuba.DataContainer{cuba.Velocity: [3]float64{4, 5, 6}}},
	)

	ds, err := New(WithPointKeys(cuba.Temperature, cuba.Mass, cuba.UUID)).Convert(mesh)
	require.NoError(t, err)

	assert.Equal(t, []cuba.Key{cuba.Mass, cuba.Temperature}, ds.PointData().Keys())
	assert.False(t, ds.PointData().Has(cuba.Velocity))
	temps := column(t, ds, false, cuba.Temperature)
	assert.Equal(t, 1.0, temps[0])
	assert.True(t, math.IsNaN(temps[1]))
}

func TestConvertWarnsOncePerAccumulatorForUnsupportedKeys(t *testing.T) {
	logger, logs := tu.ObservedLogger(zapcore.WarnLevel)
	f := tu.ExampleParticles()

	_, err := New(WithLogger(logger)).Convert(f.Particles)
	require.NoError(t, err)

	warned := map[string]int{}
	for _, entry := range logs.FilterMessage("property is currently ignored").All() {
		warned[entry.ContextMap()["key"].(string)]++
	}
	require.NotEmpty(t, warned)
	// One accumulator for points and one for bonds.
	for key, n := range warned {
		assert.Equal(t, 2, n, key)
	}
	assert.Contains(t, warned, cuba.UUID.String())
}

func TestConvertRecordsMetrics(t *testing.T) {
	reg := prometheus.NewRegistry()
	collector := metrics.NewCollector("test", reg)
	conv := New(WithMetrics(collector))

	_, err := conv.Convert(tu.ExampleParticles().Particles)
	require.NoError(t, err)
	_, err = conv.Convert(nil)
	require.Error(t, err)
	_, err = conv.Convert(bareContainer{kind: cuds.KindUnknown})
	require.Error(t, err)

	count, err := testutil.GatherAndCount(reg, "test_conversions_total")
	require.NoError(t, err)
	assert.Equal(t, 2, count, "particles succeeded, two unknown inputs failed")

	count, err = testutil.GatherAndCount(reg, "test_items_converted_total")
	require.NoError(t, err)
	assert.Equal(t, 2, count)
}

func TestTypicalDistanceOfConversions(t *testing.T) {
	ds, err := Convert(tu.ExampleParticles().Particles)
	require.NoError(t, err)
	assert.Greater(t, dataset.TypicalDistance(ds), 0.0)

	empty, err := Convert(cuds.NewMesh("empty"))
	require.NoError(t, err)
	assert.Equal(t, 1.0, dataset.TypicalDistance(empty))
}
