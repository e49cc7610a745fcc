package columnar

import (
	"github.com/apache/arrow-go/v18/arrow"
	"github.com/apache/arrow-go/v18/arrow/array"
	"github.com/apache/arrow-go/v18/arrow/ipc"
	"github.com/apache/arrow-go/v18/arrow/memory"

	attrs "github.com/ajitpratap0/cudsviz/pkg/columnar"
	"github.com/ajitpratap0/cudsviz/pkg/vizerrors"
)

// arrowWriter implements Writer for the Arrow IPC file format
type arrowWriter struct {
	baseWriter
	mem         memory.Allocator
	arrowSchema *arrow.Schema
	fileWriter  *ipc.FileWriter
}

func (aw *arrowWriter) Format() Format { return Arrow }

func (aw *arrowWriter) WriteFrame(frame *Frame) error {
	rows, first, err := aw.bind(frame)
	if err != nil {
		return err
	}
	if first {
		aw.mem = memory.NewGoAllocator()
		aw.arrowSchema = toArrowSchema(aw.schema, aw.config.Name)

		opts := []ipc.Option{ipc.WithSchema(aw.arrowSchema), ipc.WithAllocator(aw.mem)}
		switch aw.config.Compression {
		case "zstd":
			opts = append(opts, ipc.WithZstd())
		case "lz4":
			opts = append(opts, ipc.WithLZ4())
		}
		fw, err := ipc.NewFileWriter(aw.out, opts...)
		if err != nil {
			return vizerrors.Wrap(err, vizerrors.ErrorTypeFile, "failed to create Arrow writer")
		}
		aw.fileWriter = fw
	}

	record := buildRecord(aw.mem, aw.arrowSchema, frame)
	defer record.Release()

	if err := aw.fileWriter.Write(record); err != nil {
		return vizerrors.Wrap(err, vizerrors.ErrorTypeFile, "failed to write record batch")
	}
	aw.rows += int64(rows)
	return nil
}

func (aw *arrowWriter) Close() error {
	if aw.closed {
		return nil
	}
	aw.closed = true
	if aw.fileWriter == nil {
		return vizerrors.New(vizerrors.ErrorTypeValidation, "no frames written")
	}
	if err := aw.fileWriter.Close(); err != nil {
		return vizerrors.Wrap(err, vizerrors.ErrorTypeFile, "failed to close Arrow writer")
	}
	return nil
}

// toArrowSchema maps scalar fields to primitive columns and tuples to
// fixed size lists.
func toArrowSchema(spec []fieldSpec, name string) *arrow.Schema {
	fields := make([]arrow.Field, len(spec))
	for i, s := range spec {
		var elem arrow.DataType = arrow.PrimitiveTypes.Float64
		if s.typ == attrs.ColumnTypeInt {
			elem = arrow.PrimitiveTypes.Int64
		}
		typ := elem
		if s.comps > 1 {
			typ = arrow.FixedSizeListOf(int32(s.comps), elem)
		}
		fields[i] = arrow.Field{Name: s.name, Type: typ}
	}
	md := arrow.NewMetadata([]string{"cudsviz.name"}, []string{name})
	return arrow.NewSchema(fields, &md)
}

func buildRecord(mem memory.Allocator, schema *arrow.Schema, frame *Frame) arrow.Record {
	builder := array.NewRecordBuilder(mem, schema)
	defer builder.Release()

	for i, f := range frame.Fields {
		switch b := builder.Field(i).(type) {
		case *array.Float64Builder:
			b.AppendValues(f.Floats, nil)
		case *array.Int64Builder:
			b.AppendValues(f.Ints, nil)
		case *array.FixedSizeListBuilder:
			for r := 0; r < f.Rows(); r++ {
				b.Append(true)
			}
			switch vb := b.ValueBuilder().(type) {
			case *array.Float64Builder:
				vb.AppendValues(f.Floats, nil)
			case *array.Int64Builder:
				vb.AppendValues(f.Ints, nil)
			}
		}
	}
	return builder.NewRecord()
}
