package vtk

import (
	"io"

	"github.com/ajitpratap0/cudsviz/pkg/dataset"
	"github.com/ajitpratap0/cudsviz/pkg/vizerrors"
)

type unstructuredGridWriter struct{}

func (unstructuredGridWriter) Shape() dataset.Shape { return dataset.ShapeUnstructuredGrid }

func (w unstructuredGridWriter) Write(out io.Writer, ds dataset.Dataset) error {
	if err := checkShape(w, ds); err != nil {
		return err
	}
	e := newEncoder(out, "UNSTRUCTURED_GRID")
	e.points(ds)

	cells := e.connectivity("CELLS", ds)
	e.line("CELL_TYPES", itoa(len(cells)))
	for _, c := range cells {
		e.line(itoa(c.Type.VTKID()))
	}

	e.attributes("POINT_DATA", ds.PointData())
	e.attributes("CELL_DATA", ds.CellData())
	return e.flush()
}

type polyDataWriter struct{}

func (polyDataWriter) Shape() dataset.Shape { return dataset.ShapePolyData }

func (w polyDataWriter) Write(out io.Writer, ds dataset.Dataset) error {
	if err := checkShape(w, ds); err != nil {
		return err
	}
	e := newEncoder(out, "POLYDATA")
	e.points(ds)
	if ds.NumberOfCells() > 0 {
		e.connectivity("LINES", ds)
	}
	e.attributes("POINT_DATA", ds.PointData())
	e.attributes("CELL_DATA", ds.CellData())
	return e.flush()
}

type structuredPointsWriter struct{}

func (structuredPointsWriter) Shape() dataset.Shape { return dataset.ShapeStructuredPoints }

func (w structuredPointsWriter) Write(out io.Writer, ds dataset.Dataset) error {
	if err := checkShape(w, ds); err != nil {
		return err
	}
	sp, ok := ds.(*dataset.StructuredPoints)
	if !ok {
		return vizerrors.New(vizerrors.ErrorTypeCapability, "structured points dataset exposes no grid geometry")
	}

	e := newEncoder(out, "STRUCTURED_POINTS")
	dims := sp.Dimensions()
	origin, spacing := sp.Origin(), sp.Spacing()
	e.line("DIMENSIONS", itoa(dims[0]), itoa(dims[1]), itoa(dims[2]))
	e.str("ORIGIN ")
	e.floats(origin[:])
	e.str("SPACING ")
	e.floats(spacing[:])
	e.attributes("POINT_DATA", sp.PointData())
	return e.flush()
}
