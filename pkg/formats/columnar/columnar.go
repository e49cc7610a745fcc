// Package columnar exports dataset attribute tables to analytics formats,
// so arrays produced by a conversion can be inspected outside a rendering
// engine.
//
// A Frame is an ordered set of named numeric fields of equal row count.
// Scalar fields become float64 or int64 columns; multi-component fields
// become fixed_size_list columns in Arrow and Parquet, and arrays in Avro.
// The first frame written fixes the schema; later frames must match it.
package columnar

import (
	"io"
	"sync/atomic"

	"github.com/ajitpratap0/cudsviz/pkg/vizerrors"
)

// Format represents a columnar storage format
type Format string

const (
	// Arrow is the Apache Arrow IPC file format
	Arrow Format = "arrow"
	// Parquet is Apache Parquet format
	Parquet Format = "parquet"
	// Avro is an Apache Avro object container file
	Avro Format = "avro"
)

// Formats lists every supported format.
func Formats() []Format {
	return []Format{Arrow, Parquet, Avro}
}

// ParseFormat parses a format name.
func ParseFormat(s string) (Format, error) {
	for _, f := range Formats() {
		if string(f) == s {
			return f, nil
		}
	}
	return "", vizerrors.Newf(vizerrors.ErrorTypeValidation, "unsupported columnar format: %s", s)
}

// Writer writes frames in one columnar format
type Writer interface {
	// WriteFrame writes one batch of rows
	WriteFrame(frame *Frame) error
	// Close finalizes the file; it never closes the underlying writer
	Close() error
	// Format returns the columnar format
	Format() Format
	// BytesWritten returns bytes written to the underlying writer
	BytesWritten() int64
	// RowsWritten returns rows written
	RowsWritten() int64
}

// WriterConfig configures columnar writers
type WriterConfig struct {
	Format Format
	// Compression is the format's internal codec: "none", "snappy",
	// "zstd", "gzip", "lz4" or "deflate", as the format supports.
	Compression string
	// Name names the Avro record and is stored as Arrow/Parquet metadata.
	Name string
}

// DefaultWriterConfig returns default writer configuration
func DefaultWriterConfig() *WriterConfig {
	return &WriterConfig{
		Format:      Parquet,
		Compression: "snappy",
		Name:        "attributes",
	}
}

// NewWriter creates a new columnar writer
func NewWriter(w io.Writer, config *WriterConfig) (Writer, error) {
	if config == nil {
		config = DefaultWriterConfig()
	}
	if config.Name == "" {
		config.Name = "attributes"
	}
	base := baseWriter{out: &countingWriter{w: w}, config: config}

	switch config.Format {
	case Arrow:
		return &arrowWriter{baseWriter: base}, nil
	case Parquet:
		return &parquetWriter{baseWriter: base}, nil
	case Avro:
		return &avroWriter{baseWriter: base}, nil
	default:
		return nil, vizerrors.Newf(vizerrors.ErrorTypeValidation, "unsupported columnar format: %s", config.Format)
	}
}

// WriteFrame writes a single frame as a complete file.
func WriteFrame(w io.Writer, frame *Frame, config *WriterConfig) (int64, error) {
	writer, err := NewWriter(w, config)
	if err != nil {
		return 0, err
	}
	if err := writer.WriteFrame(frame); err != nil {
		return writer.BytesWritten(), err
	}
	if err := writer.Close(); err != nil {
		return writer.BytesWritten(), err
	}
	return writer.BytesWritten(), nil
}

// FormatInfo provides information about columnar formats
type FormatInfo struct {
	Format        Format
	Name          string
	FileExtension string
	MIMEType      string
}

// GetFormatInfo returns information about a columnar format
func GetFormatInfo(format Format) *FormatInfo {
	switch format {
	case Parquet:
		return &FormatInfo{Format: Parquet, Name: "Apache Parquet", FileExtension: ".parquet", MIMEType: "application/x-parquet"}
	case Arrow:
		return &FormatInfo{Format: Arrow, Name: "Apache Arrow", FileExtension: ".arrow", MIMEType: "application/x-arrow"}
	case Avro:
		return &FormatInfo{Format: Avro, Name: "Apache Avro", FileExtension: ".avro", MIMEType: "application/x-avro"}
	default:
		return nil
	}
}

// baseWriter holds the state shared by every format: the counted output,
// the schema fixed by the first frame and the row count.
type baseWriter struct {
	out    *countingWriter
	config *WriterConfig
	schema []fieldSpec
	rows   int64
	closed bool
}

func (b *baseWriter) BytesWritten() int64 { return b.out.n.Load() }
func (b *baseWriter) RowsWritten() int64  { return b.rows }

// bind validates frame against the schema, fixing it on first use. first
// reports whether this call fixed the schema.
func (b *baseWriter) bind(frame *Frame) (rows int, first bool, err error) {
	if b.closed {
		return 0, false, vizerrors.New(vizerrors.ErrorTypeValidation, "writer is closed")
	}
	rows, err = frame.Rows()
	if err != nil {
		return 0, false, err
	}
	spec := frame.spec()
	if b.schema == nil {
		b.schema = spec
		return rows, true, nil
	}
	if !sameSpec(b.schema, spec) {
		return 0, false, vizerrors.New(vizerrors.ErrorTypeValidation, "frame schema differs from the first frame")
	}
	return rows, false, nil
}

type countingWriter struct {
	w io.Writer
	n atomic.Int64
}

func (c *countingWriter) Write(p []byte) (int, error) {
	n, err := c.w.Write(p)
	c.n.Add(int64(n))
	return n, err
}
