// Package converter projects simulation containers onto canonical datasets.
//
// A mesh becomes an unstructured grid, a particle system becomes poly data
// with one line per bond, and a lattice becomes structured points when its
// primitive cell is axis aligned, or a free point cloud otherwise.
//
// Conversion is a single synchronous pass over the container. It never
// mutates the container and never returns a partial dataset alongside an
// error. Independent conversions may run concurrently.
package converter

import (
	"fmt"

	"go.uber.org/zap"

	"github.com/ajitpratap0/cudsviz/pkg/columnar"
	"github.com/ajitpratap0/cudsviz/pkg/cuba"
	"github.com/ajitpratap0/cudsviz/pkg/cuds"
	"github.com/ajitpratap0/cudsviz/pkg/dataset"
	"github.com/ajitpratap0/cudsviz/pkg/metrics"
	"github.com/ajitpratap0/cudsviz/pkg/vizerrors"
)

// Converter converts containers to datasets. The zero value is not usable;
// create one with New.
type Converter struct {
	logger    *zap.Logger
	registry  *cuba.Registry
	pointKeys []cuba.Key
	cellKeys  []cuba.Key
	collector *metrics.Collector
}

// Option configures a Converter.
type Option func(*Converter)

// WithLogger sets the logger used for conversion diagnostics and for the
// registry's unsupported-key warnings.
func WithLogger(logger *zap.Logger) Option {
	return func(c *Converter) { c.logger = logger }
}

// WithRegistry sets the key registry.
func WithRegistry(registry *cuba.Registry) Option {
	return func(c *Converter) { c.registry = registry }
}

// WithPointKeys fixes the point attribute schema. Without it the point
// accumulator runs in expanding mode.
func WithPointKeys(keys ...cuba.Key) Option {
	return func(c *Converter) { c.pointKeys = append([]cuba.Key(nil), keys...) }
}

// WithCellKeys fixes the cell attribute schema.
func WithCellKeys(keys ...cuba.Key) Option {
	return func(c *Converter) { c.cellKeys = append([]cuba.Key(nil), keys...) }
}

// WithMetrics records every conversion on collector.
func WithMetrics(collector *metrics.Collector) Option {
	return func(c *Converter) { c.collector = collector }
}

// New creates a converter.
func New(opts ...Option) *Converter {
	c := &Converter{}
	for _, opt := range opts {
		opt(c)
	}
	if c.logger == nil {
		c.logger = zap.NewNop()
	}
	if c.registry == nil {
		c.registry = cuba.Default().WithLogger(c.logger)
	}
	return c
}

var defaultConverter = New()

// Convert converts c with a default converter.
func Convert(c cuds.Container) (dataset.Dataset, error) {
	return defaultConverter.Convert(c)
}

// Convert dispatches on the container's kind. Inputs that are nil, of an
// unknown kind, or lacking the capabilities their kind promises are an
// ErrorTypeType error. Every call, rejected or not, is recorded on the
// collector.
func (c *Converter) Convert(container cuds.Container) (dataset.Dataset, error) {
	kind := "unknown"
	if container != nil {
		kind = container.Kind().String()
	}

	timer := metrics.NewTimer("convert")
	ds, err := c.dispatch(container)
	elapsed := timer.Stop()
	if c.collector != nil {
		c.collector.ObserveConversion(kind, elapsed, err)
	}
	if err != nil {
		c.logger.Debug("conversion failed",
			zap.String("kind", kind),
			zap.String("type", fmt.Sprintf("%T", container)),
			zap.Error(err))
		return nil, err
	}

	if c.collector != nil {
		c.collector.AddItems(kind, ds.NumberOfPoints(), ds.NumberOfCells())
	}
	c.logger.Debug("container converted",
		zap.String("kind", kind),
		zap.String("container", container.Name()),
		zap.String("shape", ds.Shape().String()),
		zap.Int("points", ds.NumberOfPoints()),
		zap.Int("cells", ds.NumberOfCells()),
		zap.Duration("duration", elapsed))
	return ds, nil
}

func (c *Converter) dispatch(container cuds.Container) (dataset.Dataset, error) {
	if container == nil {
		return nil, typeError(container)
	}
	switch container.Kind() {
	case cuds.KindMesh:
		if mesh, ok := container.(cuds.Mesh); ok {
			return c.convertMesh(mesh)
		}
	case cuds.KindParticles:
		if particles, ok := container.(cuds.Particles); ok {
			return c.convertParticles(particles)
		}
	case cuds.KindLattice:
		if lattice, ok := container.(cuds.Lattice); ok {
			return c.convertLattice(lattice)
		}
	}
	return nil, typeError(container)
}

func (c *Converter) pointAccumulator() *columnar.Accumulator {
	return columnar.NewAccumulator(c.registry, c.pointKeys...)
}

func (c *Converter) cellAccumulator() *columnar.Accumulator {
	return columnar.NewAccumulator(c.registry, c.cellKeys...)
}

func typeError(container cuds.Container) *vizerrors.Error {
	return vizerrors.New(vizerrors.ErrorTypeType, "provided object is not of any known cuds container type").
		WithDetail("type", fmt.Sprintf("%T", container))
}
