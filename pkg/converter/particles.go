package converter

import (
	"github.com/ajitpratap0/cudsviz/pkg/cuds"
	"github.com/ajitpratap0/cudsviz/pkg/dataset"
	"github.com/ajitpratap0/cudsviz/pkg/topology"
	"github.com/ajitpratap0/cudsviz/pkg/vizerrors"
)

// convertParticles emits the particles as points and every bond as a
// polyline through its particles in order.
func (c *Converter) convertParticles(particles cuds.Particles) (dataset.Dataset, error) {
	particleIndex := make(map[cuds.UID]int)
	var points [][3]float64
	pointData := c.pointAccumulator()

	for p := range particles.Particles() {
		particleIndex[p.UID] = len(points)
		points = append(points, p.Coordinates)
		if err := pointData.Append(p.Data); err != nil {
			return nil, vizerrors.Wrap(err, vizerrors.ErrorTypeData, "invalid particle data").
				WithDetail("particle", p.UID.String())
		}
	}

	var lines []dataset.Cell
	cellData := c.cellAccumulator()
	for b := range particles.Bonds() {
		ids, err := resolve(b.Particles, particleIndex)
		if err != nil {
			return nil, err.WithDetail("bond", b.UID.String())
		}
		lines = append(lines, dataset.Cell{Type: topology.CellPolyline, Points: ids})
		if err := cellData.Append(b.Data); err != nil {
			return nil, vizerrors.Wrap(err, vizerrors.ErrorTypeData, "invalid bond data").
				WithDetail("bond", b.UID.String())
		}
	}

	return dataset.NewPolyData(points, lines, pointData.Table(), cellData.Table()), nil
}
