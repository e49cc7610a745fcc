package converter

import (
	"iter"

	"github.com/ajitpratap0/cudsviz/pkg/cuds"
	"github.com/ajitpratap0/cudsviz/pkg/dataset"
	"github.com/ajitpratap0/cudsviz/pkg/topology"
	"github.com/ajitpratap0/cudsviz/pkg/vizerrors"
)

// classifier maps an element's arity to its cell type.
type classifier func(n int) (topology.CellType, error)

func total(f func(int) topology.CellType) classifier {
	return func(n int) (topology.CellType, error) { return f(n), nil }
}

func (c *Converter) convertMesh(mesh cuds.Mesh) (dataset.Dataset, error) {
	pointIndex := make(map[cuds.UID]int)
	var points [][3]float64
	pointData := c.pointAccumulator()

	for p := range mesh.Points() {
		pointIndex[p.UID] = len(points)
		points = append(points, p.Coordinates)
		if err := pointData.Append(p.Data); err != nil {
			return nil, vizerrors.Wrap(err, vizerrors.ErrorTypeData, "invalid point data").
				WithDetail("point", p.UID.String())
		}
	}

	// Cells are numbered edges first, then faces, then cells, sharing one
	// cell accumulator.
	var cells []dataset.Cell
	cellData := c.cellAccumulator()

	passes := []struct {
		entity   string
		elements iter.Seq[cuds.Element]
		classify classifier
	}{
		{"edge", mesh.Edges(), total(topology.EdgeType)},
		{"face", mesh.Faces(), total(topology.FaceType)},
		{"cell", mesh.Cells(), topology.VolumeType},
	}
	for _, pass := range passes {
		for e := range pass.elements {
			ids, err := resolve(e.Points, pointIndex)
			if err != nil {
				return nil, err.WithDetail(pass.entity, e.UID.String())
			}
			cellType, cerr := pass.classify(len(ids))
			if cerr != nil {
				return nil, vizerrors.Wrap(cerr, vizerrors.ErrorTypeConversion, "cannot classify mesh element").
					WithDetail(pass.entity, e.UID.String())
			}
			cells = append(cells, dataset.Cell{Type: cellType, Points: ids})
			if err := cellData.Append(e.Data); err != nil {
				return nil, vizerrors.Wrap(err, vizerrors.ErrorTypeData, "invalid element data").
					WithDetail(pass.entity, e.UID.String())
			}
		}
	}

	return dataset.NewUnstructuredGrid(points, cells, pointData.Table(), cellData.Table()), nil
}

// resolve maps uids to point indices. An unknown uid is an
// ErrorTypeReference error.
func resolve(uids []cuds.UID, index map[cuds.UID]int) ([]int, *vizerrors.Error) {
	ids := make([]int, len(uids))
	for i, uid := range uids {
		idx, ok := index[uid]
		if !ok {
			return nil, vizerrors.New(vizerrors.ErrorTypeReference, "reference to an unknown point").
				WithDetail("uid", uid.String())
		}
		ids[i] = idx
	}
	return ids, nil
}
