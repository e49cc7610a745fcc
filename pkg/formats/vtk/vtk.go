// Package vtk writes datasets in the legacy ASCII VTK format read by
// ParaView, VisIt and Mayavi.
//
// Each dataset shape has exactly one writer. Write looks the writer up by
// shape, and a writer refuses any dataset whose shape differs from its own.
//
// Attribute columns are emitted as SCALARS (one component), VECTORS (three),
// TENSORS (nine) or, for any other component count, as arrays of a FIELD
// block. Float columns are written as double, integer columns as long.
package vtk

import (
	"bufio"
	"io"
	"math"
	"os"
	"strconv"

	"github.com/ajitpratap0/cudsviz/pkg/columnar"
	"github.com/ajitpratap0/cudsviz/pkg/compression"
	"github.com/ajitpratap0/cudsviz/pkg/dataset"
	"github.com/ajitpratap0/cudsviz/pkg/vizerrors"
)

const header = "# vtk DataFile Version 3.0"

// Writer persists datasets of one shape.
type Writer interface {
	Write(w io.Writer, ds dataset.Dataset) error
	Shape() dataset.Shape
}

var writers = map[dataset.Shape]Writer{
	dataset.ShapeUnstructuredGrid: unstructuredGridWriter{},
	dataset.ShapePolyData:         polyDataWriter{},
	dataset.ShapeStructuredPoints: structuredPointsWriter{},
}

// WriterFor returns the writer for shape.
func WriterFor(shape dataset.Shape) (Writer, error) {
	w, ok := writers[shape]
	if !ok {
		return nil, vizerrors.New(vizerrors.ErrorTypeCapability, "no writer for dataset shape").
			WithDetail("shape", shape.String())
	}
	return w, nil
}

// Write writes ds to w with the writer for its shape.
func Write(w io.Writer, ds dataset.Dataset) error {
	if ds == nil {
		return vizerrors.New(vizerrors.ErrorTypeValidation, "nil dataset")
	}
	writer, err := WriterFor(ds.Shape())
	if err != nil {
		return err
	}
	return writer.Write(w, ds)
}

// WriteFile writes ds to path through the codec named by config. A nil
// config writes plain text.
func WriteFile(path string, ds dataset.Dataset, config *compression.Config) (err error) {
	f, err := os.Create(path)
	if err != nil {
		return vizerrors.Wrap(err, vizerrors.ErrorTypeFile, "cannot create output file").
			WithDetail("path", path)
	}
	defer func() {
		if cerr := f.Close(); cerr != nil && err == nil {
			err = vizerrors.Wrap(cerr, vizerrors.ErrorTypeFile, "cannot close output file").
				WithDetail("path", path)
		}
	}()

	cw, err := compression.NewWriter(f, config)
	if err != nil {
		return err
	}
	if err := Write(cw, ds); err != nil {
		cw.Close()
		return err
	}
	if err := cw.Close(); err != nil {
		return vizerrors.Wrap(err, vizerrors.ErrorTypeFile, "cannot flush compressed output").
			WithDetail("path", path)
	}
	return nil
}

func checkShape(w Writer, ds dataset.Dataset) error {
	if ds.Shape() != w.Shape() {
		return vizerrors.New(vizerrors.ErrorTypeCapability, "dataset shape does not match writer").
			WithDetail("writer", w.Shape().String()).
			WithDetail("dataset", ds.Shape().String())
	}
	return nil
}

// encoder accumulates the first write error so sections can be emitted
// without checking every call.
type encoder struct {
	w   *bufio.Writer
	err error
}

func newEncoder(w io.Writer, shape string) *encoder {
	e := &encoder{w: bufio.NewWriter(w)}
	e.line(header)
	e.line("cudsviz " + shape)
	e.line("ASCII")
	e.line("DATASET " + shape)
	return e
}

func (e *encoder) str(s string) {
	if e.err == nil {
		_, e.err = e.w.WriteString(s)
	}
}

func (e *encoder) line(parts ...string) {
	for i, p := range parts {
		if i > 0 {
			e.str(" ")
		}
		e.str(p)
	}
	e.str("\n")
}

func (e *encoder) floats(v []float64) {
	for i, f := range v {
		if i > 0 {
			e.str(" ")
		}
		e.str(formatFloat(f))
	}
	e.str("\n")
}

func (e *encoder) ints(v []int64) {
	for i, n := range v {
		if i > 0 {
			e.str(" ")
		}
		e.str(strconv.FormatInt(n, 10))
	}
	e.str("\n")
}

func (e *encoder) flush() error {
	if e.err != nil {
		return vizerrors.Wrap(e.err, vizerrors.ErrorTypeFile, "cannot write vtk output")
	}
	if err := e.w.Flush(); err != nil {
		return vizerrors.Wrap(err, vizerrors.ErrorTypeFile, "cannot write vtk output")
	}
	return nil
}

func formatFloat(f float64) string {
	switch {
	case math.IsNaN(f):
		return "nan"
	case math.IsInf(f, 1):
		return "inf"
	case math.IsInf(f, -1):
		return "-inf"
	default:
		return strconv.FormatFloat(f, 'g', -1, 64)
	}
}

func itoa(n int) string { return strconv.Itoa(n) }

func (e *encoder) points(ds dataset.Dataset) {
	n := ds.NumberOfPoints()
	e.line("POINTS", itoa(n), "double")
	for i := 0; i < n; i++ {
		p := ds.Point(i)
		e.floats(p[:])
	}
}

// connectivity writes a CELLS or LINES section and returns the cells read.
func (e *encoder) connectivity(section string, ds dataset.Dataset) []dataset.Cell {
	cells := make([]dataset.Cell, ds.NumberOfCells())
	size := 0
	for i := range cells {
		cells[i] = ds.Cell(i)
		size += len(cells[i].Points) + 1
	}
	e.line(section, itoa(len(cells)), itoa(size))
	for _, c := range cells {
		ids := make([]int64, 0, len(c.Points)+1)
		ids = append(ids, int64(len(c.Points)))
		for _, id := range c.Points {
			ids = append(ids, int64(id))
		}
		e.ints(ids)
	}
	return cells
}

// attributes writes one POINT_DATA or CELL_DATA section. Tables without
// columns write nothing.
func (e *encoder) attributes(section string, table *columnar.Table) {
	columns := table.Columns()
	if len(columns) == 0 {
		return
	}
	e.line(section, itoa(table.Len()))

	var fields []columnar.Column
	for _, col := range columns {
		name := col.Key().String()
		typ := dataType(col)
		switch col.NumComponents() {
		case 1:
			e.line("SCALARS", name, typ, "1")
			e.line("LOOKUP_TABLE default")
		case 3:
			e.line("VECTORS", name, typ)
		case 9:
			e.line("TENSORS", name, typ)
		default:
			fields = append(fields, col)
			continue
		}
		e.tuples(col)
	}

	if len(fields) > 0 {
		e.line("FIELD FieldData", itoa(len(fields)))
		for _, col := range fields {
			e.line(col.Key().String(), itoa(col.NumComponents()), itoa(col.Len()), dataType(col))
			e.tuples(col)
		}
	}
}

func (e *encoder) tuples(col columnar.Column) {
	comps := col.NumComponents()
	if ic, ok := col.(*columnar.IntColumn); ok {
		values := ic.Int64s()
		for i := 0; i+comps <= len(values); i += comps {
			e.ints(values[i : i+comps])
		}
		return
	}
	values := col.Float64s()
	for i := 0; i+comps <= len(values); i += comps {
		e.floats(values[i : i+comps])
	}
}

func dataType(col columnar.Column) string {
	if col.Type() == columnar.ColumnTypeInt {
		return "long"
	}
	return "double"
}
