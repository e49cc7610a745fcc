package bridge

import (
	"math"

	"github.com/ajitpratap0/cudsviz/pkg/cuba"
	"github.com/ajitpratap0/cudsviz/pkg/cuds"
	"github.com/ajitpratap0/cudsviz/pkg/dataset"
	"github.com/ajitpratap0/cudsviz/pkg/vizerrors"
)

// Item names the container entities a selection colors by.
type Item string

const (
	ItemNone      Item = ""
	ItemPoints    Item = "points"
	ItemParticles Item = "particles"
	ItemNodes     Item = "nodes"
	ItemElements  Item = "elements"
	ItemBonds     Item = "bonds"
)

// Association returns where the item's attributes live in a dataset.
// Points, particles and nodes are point data; everything else is cell data.
func (i Item) Association() dataset.Association {
	switch i {
	case ItemPoints, ItemParticles, ItemNodes:
		return dataset.PointAssociation
	default:
		return dataset.CellAssociation
	}
}

// allowedItems lists the items each container kind carries. A lattice
// only has nodes, so it also accepts an empty item.
var allowedItems = map[cuds.Kind][]Item{
	cuds.KindLattice:   {ItemNone, ItemNodes},
	cuds.KindParticles: {ItemParticles, ItemBonds},
	cuds.KindMesh:      {ItemPoints, ItemElements},
}

// Selection picks the attribute used to color a source.
type Selection struct {
	Key   cuba.Key
	Items Item
}

// ResolveSelection validates sel against container and returns the
// association of the selected attribute.
func ResolveSelection(container cuds.Container, sel Selection) (dataset.Association, error) {
	kind := cuds.KindUnknown
	if container != nil {
		kind = container.Kind()
	}
	items := sel.Items
	for _, allowed := range allowedItems[kind] {
		if items == allowed {
			if items == ItemNone {
				items = ItemNodes
			}
			return items.Association(), nil
		}
	}
	return 0, vizerrors.Newf(vizerrors.ErrorTypeValidation, "container does not have: %s", string(sel.Items)).
		WithDetail("kind", kind.String())
}

// ColorMap describes how a source is colored.
type ColorMap struct {
	Key         cuba.Key
	Association dataset.Association
	// Range is the min and max of the column's first component over its
	// finite values; [0, 0] when there are none.
	Range [2]float64
}

// ColorBy resolves sel for container and reads the color range from the
// matching column of ds, the dataset converted from container.
func ColorBy(container cuds.Container, ds dataset.Dataset, sel Selection) (ColorMap, error) {
	assoc, err := ResolveSelection(container, sel)
	if err != nil {
		return ColorMap{}, err
	}
	col, err := dataset.Attributes(ds, assoc).Column(sel.Key)
	if err != nil {
		return ColorMap{}, err
	}

	lo, hi := math.Inf(1), math.Inf(-1)
	for i := 0; i < col.Len(); i++ {
		v := col.Tuple(i)[0]
		if math.IsNaN(v) || math.IsInf(v, 0) {
			continue
		}
		lo = math.Min(lo, v)
		hi = math.Max(hi, v)
	}
	if lo > hi {
		lo, hi = 0, 0
	}
	return ColorMap{Key: sel.Key, Association: assoc, Range: [2]float64{lo, hi}}, nil
}

// Representation is how the engine draws a source.
type Representation string

const (
	RepresentationPoints  Representation = "Points"
	RepresentationSurface Representation = "Surface"
	RepresentationGlyphs  Representation = "Glyphs"
)

// Style is the default look of a converted container.
type Style struct {
	Representation Representation
	// GlyphRadius is the sphere radius for glyph representations.
	GlyphRadius float64
}

// StyleFor returns the default style for container: lattices as points,
// meshes as surfaces and particles as spheres sized by the dataset's
// typical point spacing.
func StyleFor(container cuds.Container, ds dataset.Dataset) (Style, error) {
	if container == nil {
		return Style{}, vizerrors.New(vizerrors.ErrorTypeType, "provided object is not of any known cuds container type")
	}
	switch container.Kind() {
	case cuds.KindLattice:
		return Style{Representation: RepresentationPoints}, nil
	case cuds.KindMesh:
		return Style{Representation: RepresentationSurface}, nil
	case cuds.KindParticles:
		return Style{Representation: RepresentationGlyphs, GlyphRadius: dataset.TypicalDistance(ds)}, nil
	default:
		return Style{}, vizerrors.New(vizerrors.ErrorTypeType, "provided object is not of any known cuds container type").
			WithDetail("kind", container.Kind().String())
	}
}
