package cuds

import (
	"bytes"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/goccy/go-json"
	"github.com/google/uuid"
	"gopkg.in/yaml.v3"

	"github.com/ajitpratap0/cudsviz/pkg/compression"
	"github.com/ajitpratap0/cudsviz/pkg/cuba"
	"github.com/ajitpratap0/cudsviz/pkg/vizerrors"
)

// DocumentFormat is the serialization of a container document.
type DocumentFormat string

const (
	FormatYAML DocumentFormat = "yaml"
	FormatJSON DocumentFormat = "json"
)

// FormatFromPath picks the document format from a file extension.
func FormatFromPath(path string) (DocumentFormat, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return FormatYAML, nil
	case ".json":
		return FormatJSON, nil
	default:
		return "", vizerrors.New(vizerrors.ErrorTypeValidation, "unsupported document extension").
			WithDetail("path", path)
	}
}

// Document is the serialized description of one container. Entities refer
// to each other by their zero-based position in the document.
type Document struct {
	Kind      string       `yaml:"kind" json:"kind"`
	Name      string       `yaml:"name" json:"name"`
	Points    []PointDoc   `yaml:"points,omitempty" json:"points,omitempty"`
	Edges     []ElementDoc `yaml:"edges,omitempty" json:"edges,omitempty"`
	Faces     []ElementDoc `yaml:"faces,omitempty" json:"faces,omitempty"`
	Cells     []ElementDoc `yaml:"cells,omitempty" json:"cells,omitempty"`
	Particles []PointDoc   `yaml:"particles,omitempty" json:"particles,omitempty"`
	Bonds     []BondDoc    `yaml:"bonds,omitempty" json:"bonds,omitempty"`
	Lattice   *LatticeDoc  `yaml:"lattice,omitempty" json:"lattice,omitempty"`
	Nodes     []NodeDoc    `yaml:"nodes,omitempty" json:"nodes,omitempty"`
}

// PointDoc describes a point or particle.
type PointDoc struct {
	Coordinates [3]float64     `yaml:"coordinates" json:"coordinates"`
	Data        map[string]any `yaml:"data,omitempty" json:"data,omitempty"`
}

// ElementDoc describes an edge, face or cell.
type ElementDoc struct {
	Points []int          `yaml:"points" json:"points"`
	Data   map[string]any `yaml:"data,omitempty" json:"data,omitempty"`
}

// BondDoc describes a bond between particles.
type BondDoc struct {
	Particles []int          `yaml:"particles" json:"particles"`
	Data      map[string]any `yaml:"data,omitempty" json:"data,omitempty"`
}

// LatticeDoc describes lattice geometry.
type LatticeDoc struct {
	Bravais string     `yaml:"bravais" json:"bravais"`
	P1      [3]float64 `yaml:"p1" json:"p1"`
	P2      [3]float64 `yaml:"p2" json:"p2"`
	P3      [3]float64 `yaml:"p3" json:"p3"`
	Size    [3]int     `yaml:"size" json:"size"`
	Origin  [3]float64 `yaml:"origin" json:"origin"`
}

// NodeDoc assigns data to one lattice node.
type NodeDoc struct {
	Index Index          `yaml:"index" json:"index"`
	Data  map[string]any `yaml:"data,omitempty" json:"data,omitempty"`
}

// DecodeFile reads the container document at path. A codec suffix such as
// mesh.yaml.zst is decompressed first.
func DecodeFile(path string) (Container, error) {
	alg := compression.FromExtension(path)
	format, err := FormatFromPath(compression.TrimExtension(path))
	if err != nil {
		return nil, err
	}
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, vizerrors.Wrap(err, vizerrors.ErrorTypeFile, "failed to open container document").
			WithDetail("path", path)
	}
	if alg != compression.None {
		if raw, err = compression.Decompress(raw, alg); err != nil {
			return nil, vizerrors.Wrap(err, vizerrors.ErrorTypeData, "failed to decompress container document").
				WithDetail("path", path)
		}
	}

	c, err := Decode(bytes.NewReader(raw), format)
	if err != nil {
		return nil, vizerrors.Wrap(err, vizerrors.TypeOf(err), "failed to decode container document").
			WithDetail("path", path)
	}
	return c, nil
}

// Decode reads one container document from r.
func Decode(r io.Reader, format DocumentFormat) (Container, error) {
	raw, err := io.ReadAll(r)
	if err != nil {
		return nil, vizerrors.Wrap(err, vizerrors.ErrorTypeFile, "failed to read container document")
	}

	var doc Document
	switch format {
	case FormatYAML:
		err = yaml.Unmarshal(raw, &doc)
	case FormatJSON:
		dec := json.NewDecoder(bytes.NewReader(raw))
		dec.UseNumber()
		err = dec.Decode(&doc)
	default:
		return nil, vizerrors.New(vizerrors.ErrorTypeValidation, "unsupported document format").
			WithDetail("format", string(format))
	}
	if err != nil {
		return nil, vizerrors.Wrap(err, vizerrors.ErrorTypeValidation, "malformed container document").
			WithDetail("format", string(format))
	}
	return doc.Build()
}

// Build constructs the in-memory container the document describes.
func (doc *Document) Build() (Container, error) {
	switch ParseKind(doc.Kind) {
	case KindMesh:
		return doc.buildMesh()
	case KindParticles:
		return doc.buildParticles()
	case KindLattice:
		return doc.buildLattice()
	default:
		return nil, vizerrors.New(vizerrors.ErrorTypeValidation, "unknown container kind").
			WithDetail("kind", doc.Kind)
	}
}

func (doc *Document) buildMesh() (Container, error) {
	mesh := NewMesh(doc.Name)

	points := make([]Point, len(doc.Points))
	for i, p := range doc.Points {
		data, err := decodeData(p.Data)
		if err != nil {
			return nil, err.WithDetail("point", i)
		}
		points[i] = Point{UID: uuid.New(), Coordinates: p.Coordinates, Data: data}
	}
	uids := mesh.AddPoints(points...)

	for _, group := range []struct {
		name string
		docs []ElementDoc
		add  func(...Element) []UID
	}{
		{"edge", doc.Edges, mesh.AddEdges},
		{"face", doc.Faces, mesh.AddFaces},
		{"cell", doc.Cells, mesh.AddCells},
	} {
		elements := make([]Element, len(group.docs))
		for i, e := range group.docs {
			refs, err := resolve(e.Points, uids)
			if err != nil {
				return nil, err.WithDetail(group.name, i)
			}
			data, derr := decodeData(e.Data)
			if derr != nil {
				return nil, derr.WithDetail(group.name, i)
			}
			elements[i] = Element{Points: refs, Data: data}
		}
		group.add(elements...)
	}
	return mesh, nil
}

func (doc *Document) buildParticles() (Container, error) {
	particles := NewParticles(doc.Name)

	items := make([]Particle, len(doc.Particles))
	for i, p := range doc.Particles {
		data, err := decodeData(p.Data)
		if err != nil {
			return nil, err.WithDetail("particle", i)
		}
		items[i] = Particle{Coordinates: p.Coordinates, Data: data}
	}
	uids := particles.AddParticles(items...)

	bonds := make([]Bond, len(doc.Bonds))
	for i, b := range doc.Bonds {
		refs, err := resolve(b.Particles, uids)
		if err != nil {
			return nil, err.WithDetail("bond", i)
		}
		data, derr := decodeData(b.Data)
		if derr != nil {
			return nil, derr.WithDetail("bond", i)
		}
		bonds[i] = Bond{Particles: refs, Data: data}
	}
	particles.AddBonds(bonds...)
	return particles, nil
}

func (doc *Document) buildLattice() (Container, error) {
	if doc.Lattice == nil {
		return nil, vizerrors.New(vizerrors.ErrorTypeValidation, "lattice document has no geometry")
	}
	geom := doc.Lattice
	bravais, ok := ParseBravaisLattice(geom.Bravais)
	if !ok {
		return nil, vizerrors.New(vizerrors.ErrorTypeValidation, "unknown Bravais lattice").
			WithDetail("bravais", geom.Bravais)
	}
	cell := PrimitiveCell{P1: geom.P1, P2: geom.P2, P3: geom.P3, Bravais: bravais}
	lattice := NewLattice(doc.Name, cell, geom.Size, geom.Origin)

	nodes := make([]Node, len(doc.Nodes))
	for i, n := range doc.Nodes {
		data, err := decodeData(n.Data)
		if err != nil {
			return nil, err.WithDetail("node", i)
		}
		nodes[i] = Node{Index: n.Index, Data: data}
	}
	if err := lattice.UpdateNodes(nodes...); err != nil {
		return nil, vizerrors.Wrap(err, vizerrors.ErrorTypeReference, "node index outside the lattice")
	}
	return lattice, nil
}

func resolve(refs []int, uids []UID) ([]UID, *vizerrors.Error) {
	out := make([]UID, len(refs))
	for i, ref := range refs {
		if ref < 0 || ref >= len(uids) {
			return nil, vizerrors.New(vizerrors.ErrorTypeReference, "reference to an undefined entity").
				WithDetail("reference", ref)
		}
		out[i] = uids[ref]
	}
	return out, nil
}

// decodeData converts a document data map keyed by CUBA names.
func decodeData(raw map[string]any) (cuba.DataContainer, *vizerrors.Error) {
	data := make(cuba.DataContainer, len(raw))
	for name, v := range raw {
		key, err := cuba.ParseKey(name)
		if err != nil {
			return nil, vizerrors.New(vizerrors.ErrorTypeValidation, "unknown CUBA key in document").
				WithDetail("key", name)
		}
		data[key] = normalize(v)
	}
	return data, nil
}

// normalize turns decoder-specific number types into the forms accepted by
// cuba.DataContainer.
func normalize(v any) any {
	switch x := v.(type) {
	case json.Number:
		if i, err := x.Int64(); err == nil {
			return i
		}
		f, _ := x.Float64()
		return f
	case []any:
		out := make([]any, len(x))
		for i, e := range x {
			out[i] = normalize(e)
		}
		return out
	default:
		return v
	}
}
