package columnar

import (
	"github.com/apache/arrow-go/v18/arrow"
	"github.com/apache/arrow-go/v18/arrow/memory"
	"github.com/apache/arrow-go/v18/parquet"
	"github.com/apache/arrow-go/v18/parquet/compress"
	"github.com/apache/arrow-go/v18/parquet/pqarrow"

	"github.com/ajitpratap0/cudsviz/pkg/vizerrors"
)

// parquetWriter implements Writer for Parquet format. Every frame becomes
// one row group.
type parquetWriter struct {
	baseWriter
	mem         memory.Allocator
	arrowSchema *arrow.Schema
	fileWriter  *pqarrow.FileWriter
}

func (pw *parquetWriter) Format() Format { return Parquet }

func (pw *parquetWriter) WriteFrame(frame *Frame) error {
	rows, first, err := pw.bind(frame)
	if err != nil {
		return err
	}
	if first {
		pw.mem = memory.NewGoAllocator()
		pw.arrowSchema = toArrowSchema(pw.schema, pw.config.Name)

		props := parquet.NewWriterProperties(
			parquet.WithCompression(getParquetCompression(pw.config.Compression)),
			parquet.WithCreatedBy("cudsviz"),
		)
		arrowProps := pqarrow.NewArrowWriterProperties(
			pqarrow.WithAllocator(pw.mem),
			pqarrow.WithStoreSchema(),
		)
		fw, err := pqarrow.NewFileWriter(pw.arrowSchema, pw.out, props, arrowProps)
		if err != nil {
			return vizerrors.Wrap(err, vizerrors.ErrorTypeFile, "failed to create Parquet writer")
		}
		pw.fileWriter = fw
	}

	record := buildRecord(pw.mem, pw.arrowSchema, frame)
	defer record.Release()

	if err := pw.fileWriter.Write(record); err != nil {
		return vizerrors.Wrap(err, vizerrors.ErrorTypeFile, "failed to write row group")
	}
	pw.rows += int64(rows)
	return nil
}

func (pw *parquetWriter) Close() error {
	if pw.closed {
		return nil
	}
	pw.closed = true
	if pw.fileWriter == nil {
		return vizerrors.New(vizerrors.ErrorTypeValidation, "no frames written")
	}
	if err := pw.fileWriter.Close(); err != nil {
		return vizerrors.Wrap(err, vizerrors.ErrorTypeFile, "failed to close Parquet writer")
	}
	return nil
}

func getParquetCompression(name string) compress.Compression {
	switch name {
	case "none":
		return compress.Codecs.Uncompressed
	case "zstd":
		return compress.Codecs.Zstd
	case "gzip":
		return compress.Codecs.Gzip
	default:
		return compress.Codecs.Snappy
	}
}
