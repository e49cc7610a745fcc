package converter

import (
	"github.com/ajitpratap0/cudsviz/pkg/cuds"
	"github.com/ajitpratap0/cudsviz/pkg/dataset"
	"github.com/ajitpratap0/cudsviz/pkg/vizerrors"
)

func (c *Converter) convertLattice(lattice cuds.Lattice) (dataset.Dataset, error) {
	if lattice.PrimitiveCell().Bravais.AxisAligned() {
		return c.structuredLattice(lattice)
	}
	return c.freeLattice(lattice)
}

// structuredLattice reads nodes in grid point order, z outermost and x
// innermost, so row i of the point table is grid point i.
func (c *Converter) structuredLattice(lattice cuds.Lattice) (dataset.Dataset, error) {
	size := lattice.Size()
	pointData := c.pointAccumulator()

	for z := 0; z < size[2]; z++ {
		for y := 0; y < size[1]; y++ {
			for x := 0; x < size[0]; x++ {
				idx := cuds.Index{x, y, z}
				node, err := lattice.Node(idx)
				if err != nil {
					return nil, vizerrors.Wrap(err, vizerrors.ErrorTypeReference, "lattice node unavailable").
						WithDetail("index", idx)
				}
				if err := pointData.Append(node.Data); err != nil {
					return nil, vizerrors.Wrap(err, vizerrors.ErrorTypeData, "invalid node data").
						WithDetail("index", idx)
				}
			}
		}
	}

	return dataset.NewStructuredPoints(
		lattice.Origin(),
		lattice.PrimitiveCell().Norms(),
		size,
		pointData.Table(),
	), nil
}

// freeLattice places every node at its lattice coordinate, in the
// lattice's natural order, with no connectivity.
func (c *Converter) freeLattice(lattice cuds.Lattice) (dataset.Dataset, error) {
	var points [][3]float64
	pointData := c.pointAccumulator()

	for node := range lattice.Nodes() {
		points = append(points, lattice.Coordinate(node.Index))
		if err := pointData.Append(node.Data); err != nil {
			return nil, vizerrors.Wrap(err, vizerrors.ErrorTypeData, "invalid node data").
				WithDetail("index", node.Index)
		}
	}

	return dataset.NewPolyData(points, nil, pointData.Table(), c.cellAccumulator().Table()), nil
}
