package observability

import (
	"context"
	"fmt"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/ajitpratap0/cudsviz/pkg/cuds"
	"github.com/ajitpratap0/cudsviz/pkg/dataset"
	"github.com/ajitpratap0/cudsviz/pkg/vizerrors"
)

// Tracer returns the cudsviz tracer from the current global provider.
func Tracer() trace.Tracer {
	return otel.GetTracerProvider().Tracer(InstrumentationName)
}

// Span is a trace span that collects attributes until End.
type Span struct {
	span  trace.Span
	start time.Time
	attrs []attribute.KeyValue
}

// StartSpan starts a span named operationName.
func StartSpan(ctx context.Context, operationName string) (context.Context, *Span) {
	ctx, span := Tracer().Start(ctx, operationName)
	return ctx, &Span{span: span, start: time.Now()}
}

// SetAttribute records one attribute. Values without a native attribute
// type are stored as their string form.
func (s *Span) SetAttribute(key string, value any) {
	s.attrs = append(s.attrs, toAttribute(key, value))
}

// RecordContainer records the container a span works on.
func (s *Span) RecordContainer(c cuds.Container) {
	if c == nil {
		return
	}
	s.attrs = append(s.attrs,
		attribute.String("container", c.Name()),
		attribute.String("kind", c.Kind().String()))
}

// RecordDataset records the shape and size of a converted dataset.
func (s *Span) RecordDataset(ds dataset.Dataset) {
	s.attrs = append(s.attrs,
		attribute.String("shape", ds.Shape().String()),
		attribute.Int("points", ds.NumberOfPoints()),
		attribute.Int("cells", ds.NumberOfCells()))
}

// Finish sets the span status from err. A failure is also recorded as an
// exception event carrying the error's vizerrors type.
func (s *Span) Finish(err error) {
	if err == nil {
		s.span.SetStatus(codes.Ok, "")
		return
	}
	var opts []trace.EventOption
	if t := vizerrors.TypeOf(err); t != "" {
		opts = append(opts, trace.WithAttributes(attribute.String("error.type", string(t))))
	}
	s.span.RecordError(err, opts...)
	s.span.SetStatus(codes.Error, err.Error())
}

// End flushes the collected attributes with the elapsed time and ends the
// span.
func (s *Span) End() {
	s.attrs = append(s.attrs, attribute.Int64("duration_ms", time.Since(s.start).Milliseconds()))
	s.span.SetAttributes(s.attrs...)
	s.span.End()
}

func toAttribute(key string, value any) attribute.KeyValue {
	switch v := value.(type) {
	case string:
		return attribute.String(key, v)
	case int:
		return attribute.Int(key, v)
	case int64:
		return attribute.Int64(key, v)
	case float64:
		return attribute.Float64(key, v)
	case bool:
		return attribute.Bool(key, v)
	case []string:
		return attribute.StringSlice(key, v)
	case fmt.Stringer:
		return attribute.String(key, v.String())
	default:
		return attribute.String(key, fmt.Sprint(v))
	}
}
