package columnar

import (
	"github.com/goccy/go-json"
	"github.com/linkedin/goavro/v2"

	attrs "github.com/ajitpratap0/cudsviz/pkg/columnar"
	"github.com/ajitpratap0/cudsviz/pkg/vizerrors"
)

// avroWriter implements Writer for Avro object container files
type avroWriter struct {
	baseWriter
	ocfWriter *goavro.OCFWriter
}

func (aw *avroWriter) Format() Format { return Avro }

func (aw *avroWriter) WriteFrame(frame *Frame) error {
	rows, first, err := aw.bind(frame)
	if err != nil {
		return err
	}
	if first {
		schema, err := toAvroSchema(aw.schema, aw.config.Name)
		if err != nil {
			return err
		}
		codec, err := goavro.NewCodec(schema)
		if err != nil {
			return vizerrors.Wrap(err, vizerrors.ErrorTypeConfig, "failed to create Avro codec")
		}
		ocf, err := goavro.NewOCFWriter(goavro.OCFConfig{
			W:               aw.out,
			Codec:           codec,
			CompressionName: getAvroCompression(aw.config.Compression),
		})
		if err != nil {
			return vizerrors.Wrap(err, vizerrors.ErrorTypeFile, "failed to create Avro writer")
		}
		aw.ocfWriter = ocf
	}

	natives := make([]interface{}, rows)
	for r := range natives {
		natives[r] = rowToAvroNative(frame, r)
	}
	if err := aw.ocfWriter.Append(natives); err != nil {
		return vizerrors.Wrap(err, vizerrors.ErrorTypeFile, "failed to write Avro block")
	}
	aw.rows += int64(rows)
	return nil
}

// Close reports frames never written; OCF blocks are flushed on Append.
func (aw *avroWriter) Close() error {
	if aw.closed {
		return nil
	}
	aw.closed = true
	if aw.ocfWriter == nil {
		return vizerrors.New(vizerrors.ErrorTypeValidation, "no frames written")
	}
	return nil
}

type avroField struct {
	Name string      `json:"name"`
	Type interface{} `json:"type"`
}

type avroArray struct {
	Type  string `json:"type"`
	Items string `json:"items"`
}

type avroRecord struct {
	Type   string      `json:"type"`
	Name   string      `json:"name"`
	Fields []avroField `json:"fields"`
}

func toAvroSchema(spec []fieldSpec, name string) (string, error) {
	record := avroRecord{Type: "record", Name: name, Fields: make([]avroField, len(spec))}
	for i, s := range spec {
		elem := "double"
		if s.typ == attrs.ColumnTypeInt {
			elem = "long"
		}
		var typ interface{} = elem
		if s.comps > 1 {
			typ = avroArray{Type: "array", Items: elem}
		}
		record.Fields[i] = avroField{Name: s.name, Type: typ}
	}
	b, err := json.Marshal(record)
	if err != nil {
		return "", vizerrors.Wrap(err, vizerrors.ErrorTypeInternal, "failed to encode Avro schema")
	}
	return string(b), nil
}

func getAvroCompression(compression string) string {
	switch compression {
	case "deflate":
		return goavro.CompressionDeflateLabel
	case "none":
		return goavro.CompressionNullLabel
	default:
		return goavro.CompressionSnappyLabel
	}
}

func rowToAvroNative(frame *Frame, row int) map[string]interface{} {
	native := make(map[string]interface{}, len(frame.Fields))
	for _, f := range frame.Fields {
		lo, hi := row*f.Components, (row+1)*f.Components
		if f.Components == 1 {
			if f.Type == attrs.ColumnTypeInt {
				native[f.Name] = f.Ints[lo]
			} else {
				native[f.Name] = f.Floats[lo]
			}
			continue
		}
		items := make([]interface{}, 0, f.Components)
		if f.Type == attrs.ColumnTypeInt {
			for _, v := range f.Ints[lo:hi] {
				items = append(items, v)
			}
		} else {
			for _, v := range f.Floats[lo:hi] {
				items = append(items, v)
			}
		}
		native[f.Name] = items
	}
	return native
}
