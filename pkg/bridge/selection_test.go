package bridge

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ajitpratap0/cudsviz/pkg/cuba"
	"github.com/ajitpratap0/cudsviz/pkg/converter"
	"github.com/ajitpratap0/cudsviz/pkg/cuds"
	"github.com/ajitpratap0/cudsviz/pkg/dataset"
	tu "github.com/ajitpratap0/cudsviz/pkg/testutil"
	"github.com/ajitpratap0/cudsviz/pkg/vizerrors"
)

func TestResolveSelection(t *testing.T) {
	mesh := tu.ExampleMesh().Mesh
	particles := tu.ExampleParticles().Particles
	lattice := tu.ExampleLattice()

	tests := []struct {
		name      string
		container cuds.Container
		items     Item
		want      dataset.Association
		wantErr   bool
	}{
		{name: "lattice default", container: lattice, items: ItemNone, want: dataset.PointAssociation},
		{name: "lattice nodes", container: lattice, items: ItemNodes, want: dataset.PointAssociation},
		{name: "lattice points", container: lattice, items: ItemPoints, wantErr: true},
		{name: "particles", container: particles, items: ItemParticles, want: dataset.PointAssociation},
		{name: "bonds", container: particles, items: ItemBonds, want: dataset.CellAssociation},
		{name: "particles default", container: particles, items: ItemNone, wantErr: true},
		{name: "mesh points", container: mesh, items: ItemPoints, want: dataset.PointAssociation},
		{name: "mesh elements", container: mesh, items: ItemElements, want: dataset.CellAssociation},
		{name: "mesh bonds", container: mesh, items: ItemBonds, wantErr: true},
		{name: "nil container", container: nil, items: ItemPoints, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ResolveSelection(tt.container, Selection{Key: cuba.Temperature, Items: tt.items})
			if tt.wantErr {
				require.Error(t, err)
				assert.True(t, vizerrors.IsType(err, vizerrors.ErrorTypeValidation))
				assert.Contains(t, err.Error(), "container does not have")
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestColorBy(t *testing.T) {
	f := tu.ExampleMesh()
	ds, err := converter.Convert(f.Mesh)
	require.NoError(t, err)

	cm, err := ColorBy(f.Mesh, ds, Selection{Key: cuba.Temperature, Items: ItemPoints})
	require.NoError(t, err)
	assert.Equal(t, dataset.PointAssociation, cm.Association)
	assert.Equal(t, [2]float64{0, 11}, cm.Range)

	cm, err = ColorBy(f.Mesh, ds, Selection{Key: cuba.Temperature, Items: ItemElements})
	require.NoError(t, err)
	assert.Equal(t, dataset.CellAssociation, cm.Association)
	assert.Equal(t, [2]float64{0, 1}, cm.Range)

	_, err = ColorBy(f.Mesh, ds, Selection{Key: cuba.Velocity, Items: ItemPoints})
	require.Error(t, err)
	assert.True(t, vizerrors.IsType(err, vizerrors.ErrorTypeKeyNotFound))
}

func TestColorByLattice(t *testing.T) {
	lattice := tu.ExampleLattice()
	ds, err := converter.Convert(lattice)
	require.NoError(t, err)

	cm, err := ColorBy(lattice, ds, Selection{Key: cuba.Temperature})
	require.NoError(t, err)
	assert.Equal(t, [2]float64{1, 600}, cm.Range)
}

func TestStyleFor(t *testing.T) {
	particles := tu.ExampleParticles().Particles
	ds, err := converter.Convert(particles)
	require.NoError(t, err)

	style, err := StyleFor(particles, ds)
	require.NoError(t, err)
	assert.Equal(t, RepresentationGlyphs, style.Representation)
	assert.Equal(t, dataset.TypicalDistance(ds), style.GlyphRadius)

	style, err = StyleFor(tu.ExampleLattice(), ds)
	require.NoError(t, err)
	assert.Equal(t, RepresentationPoints, style.Representation)

	style, err = StyleFor(tu.ExampleMesh().Mesh, ds)
	require.NoError(t, err)
	assert.Equal(t, RepresentationSurface, style.Representation)

	_, err = StyleFor(nil, ds)
	assert.True(t, vizerrors.IsType(err, vizerrors.ErrorTypeType))
}
