package columnar

import (
	attrs "github.com/ajitpratap0/cudsviz/pkg/columnar"
	"github.com/ajitpratap0/cudsviz/pkg/dataset"
	"github.com/ajitpratap0/cudsviz/pkg/vizerrors"
)

// Field is one named column of a frame, stored row-major.
type Field struct {
	Name       string
	Type       attrs.ColumnType
	Components int
	Floats     []float64
	Ints       []int64
}

// Rows returns the number of tuples held.
func (f Field) Rows() int {
	if f.Components < 1 {
		return 0
	}
	if f.Type == attrs.ColumnTypeInt {
		return len(f.Ints) / f.Components
	}
	return len(f.Floats) / f.Components
}

// Frame is an ordered set of fields with equal row counts.
type Frame struct {
	Fields []Field
}

// Rows validates the frame and returns its row count.
func (fr *Frame) Rows() (int, error) {
	if fr == nil || len(fr.Fields) == 0 {
		return 0, vizerrors.New(vizerrors.ErrorTypeValidation, "frame has no fields")
	}
	rows := fr.Fields[0].Rows()
	seen := make(map[string]struct{}, len(fr.Fields))
	for _, f := range fr.Fields {
		if f.Components < 1 {
			return 0, vizerrors.New(vizerrors.ErrorTypeValidation, "field has no components").
				WithDetail("field", f.Name)
		}
		if _, dup := seen[f.Name]; dup {
			return 0, vizerrors.New(vizerrors.ErrorTypeValidation, "duplicate field name").
				WithDetail("field", f.Name)
		}
		seen[f.Name] = struct{}{}
		if n := len(f.Floats) + len(f.Ints); n%f.Components != 0 {
			return 0, vizerrors.New(vizerrors.ErrorTypeValidation, "field length is not a multiple of its components").
				WithDetail("field", f.Name)
		}
		if f.Rows() != rows {
			return 0, vizerrors.New(vizerrors.ErrorTypeValidation, "fields have different row counts").
				WithDetail("field", f.Name).
				WithDetail("rows", f.Rows()).
				WithDetail("expected", rows)
		}
	}
	return rows, nil
}

// Tuple returns row i of f as float64 components.
func (f Field) Tuple(i int) []float64 {
	out := make([]float64, f.Components)
	for c := range out {
		if f.Type == attrs.ColumnTypeInt {
			out[c] = float64(f.Ints[i*f.Components+c])
		} else {
			out[c] = f.Floats[i*f.Components+c]
		}
	}
	return out
}

// TableFrame exposes every column of table as a field named after its key.
func TableFrame(table *attrs.Table) *Frame {
	fr := &Frame{}
	for _, col := range table.Columns() {
		f := Field{Name: col.Key().String(), Type: col.Type(), Components: col.NumComponents()}
		if ic, ok := col.(*attrs.IntColumn); ok {
			f.Ints = ic.Int64s()
		} else {
			f.Floats = col.Float64s()
		}
		fr.Fields = append(fr.Fields, f)
	}
	return fr
}

// Names of the geometry fields DatasetFrame prepends.
const (
	FieldCoordinates = "COORDINATES"
	FieldCellType    = "VTK_CELL_TYPE"
)

// DatasetFrame exports one attribute table of ds. Point frames lead with
// the point coordinates, cell frames with the legacy VTK cell type.
func DatasetFrame(ds dataset.Dataset, assoc dataset.Association) *Frame {
	var lead Field
	if assoc == dataset.CellAssociation {
		n := ds.NumberOfCells()
		lead = Field{Name: FieldCellType, Type: attrs.ColumnTypeInt, Components: 1, Ints: make([]int64, n)}
		for i := 0; i < n; i++ {
			lead.Ints[i] = int64(ds.Cell(i).Type.VTKID())
		}
	} else {
		n := ds.NumberOfPoints()
		lead = Field{Name: FieldCoordinates, Type: attrs.ColumnTypeFloat, Components: 3, Floats: make([]float64, 0, 3*n)}
		for i := 0; i < n; i++ {
			p := ds.Point(i)
			lead.Floats = append(lead.Floats, p[:]...)
		}
	}

	fr := TableFrame(dataset.Attributes(ds, assoc))
	fr.Fields = append([]Field{lead}, fr.Fields...)
	return fr
}

type fieldSpec struct {
	name  string
	typ   attrs.ColumnType
	comps int
}

func (fr *Frame) spec() []fieldSpec {
	out := make([]fieldSpec, len(fr.Fields))
	for i, f := range fr.Fields {
		out[i] = fieldSpec{name: f.Name, typ: f.Type, comps: f.Components}
	}
	return out
}

func sameSpec(a, b []fieldSpec) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}
