package cuba

import (
	"math"
	"strings"

	"go.uber.org/zap"

	"github.com/ajitpratap0/cudsviz/pkg/vizerrors"
)

const ignoredMessage = "property is currently ignored"

// Registry derives value types, supported keys and default values from a
// keyword table. The table of value types is computed once at construction;
// a Registry is immutable afterwards and safe for concurrent use.
type Registry struct {
	keywords   Keywords
	valueTypes map[Key]ValueType
	logger     *zap.Logger
}

// NewRegistry builds a registry over keywords. A nil logger discards the
// unsupported-key diagnostics.
func NewRegistry(keywords Keywords, logger *zap.Logger) *Registry {
	if logger == nil {
		logger = zap.NewNop()
	}
	r := &Registry{
		keywords:   keywords.Clone(),
		valueTypes: make(map[Key]ValueType, len(keywords)),
		logger:     logger,
	}
	for _, key := range AllKeys() {
		d, ok := r.keywords[key]
		r.valueTypes[key] = inferValueType(d, ok)
	}
	return r
}

var defaultRegistry = NewRegistry(DefaultKeywords(), nil)

// Default returns the process-wide registry over DefaultKeywords. It logs
// nothing.
func Default() *Registry {
	return defaultRegistry
}

// WithLogger returns a registry sharing r's tables that reports diagnostics
// to logger.
func (r *Registry) WithLogger(logger *zap.Logger) *Registry {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Registry{keywords: r.keywords, valueTypes: r.valueTypes, logger: logger}
}

// inferValueType switches on the descriptor only, never on a value.
func inferValueType(d Descriptor, ok bool) ValueType {
	if !ok || d.DType == DTypeNone {
		return ValueType{Kind: Unsupported}
	}
	shape := append([]int(nil), d.Shape...)

	if d.DType == DTypeString {
		if len(shape) != 1 || shape[0] < 1 {
			return ValueType{Kind: Unsupported, Shape: shape}
		}
		return ValueType{Kind: String, Shape: shape}
	}

	numeric := Floating
	if d.DType == DTypeInt {
		numeric = Integer
	}

	switch {
	case len(shape) == 0 || (len(shape) == 1 && shape[0] == 1):
		return ValueType{Kind: Scalar, Numeric: numeric, Shape: []int{1}}
	case len(shape) == 1 && shape[0] >= 2 && shape[0] <= 3:
		return ValueType{Kind: Vector, Numeric: numeric, Shape: shape}
	case len(shape) == 2 && inRange(shape[0]) && inRange(shape[1]):
		return ValueType{Kind: Tensor, Numeric: numeric, Shape: shape}
	default:
		return ValueType{Kind: Unsupported, Numeric: numeric, Shape: shape}
	}
}

func inRange(n int) bool { return n >= 1 && n <= 3 }

// Keywords returns a copy of the registry's keyword table.
func (r *Registry) Keywords() Keywords {
	return r.keywords.Clone()
}

// Descriptor returns the keyword descriptor of key.
func (r *Registry) Descriptor(key Key) (Descriptor, bool) {
	d, ok := r.keywords[key]
	return d, ok
}

// ValueTypes returns the static key to value type table. The returned map is
// a copy.
func (r *Registry) ValueTypes() map[Key]ValueType {
	out := make(map[Key]ValueType, len(r.valueTypes))
	for k, vt := range r.valueTypes {
		out[k] = vt
	}
	return out
}

// ValueType returns the value type of key.
func (r *Registry) ValueType(key Key) ValueType {
	return r.valueTypes[key]
}

// ElementKind returns the element kind of key.
func (r *Registry) ElementKind(key Key) ElementKind {
	return r.valueTypes[key].Kind
}

// Supported reports whether key can be stored in a numeric column. It logs
// nothing.
func (r *Registry) Supported(key Key) bool {
	return r.valueTypes[key].IsNumeric()
}

// SupportedKeys returns the keys whose values can be stored in numeric
// columns. Every rejected key is reported with one warning per call.
func (r *Registry) SupportedKeys() KeySet {
	supported := NewKeySet()
	for _, key := range AllKeys() {
		if r.Supported(key) {
			supported.Add(key)
			continue
		}
		r.logger.Warn(ignoredMessage, zap.String("key", key.String()))
	}
	return supported
}

// DefaultValue returns the value that fills a missing slot for key: NaN for
// floating kinds, -1 for integer kinds and spaces for strings. ok is false,
// after a warning, when the key has no usable default.
func (r *Registry) DefaultValue(key Key) (Value, bool) {
	vt := r.valueTypes[key]
	switch {
	case vt.Kind == String:
		return Value{Type: vt, Text: strings.Repeat(" ", vt.Shape[0])}, true
	case vt.IsNumeric() && vt.Numeric == Floating:
		v := make([]float64, vt.Components())
		for i := range v {
			v[i] = math.NaN()
		}
		return Value{Type: vt, Floats: v}, true
	case vt.IsNumeric() && vt.Numeric == Integer:
		v := make([]int64, vt.Components())
		for i := range v {
			v[i] = -1
		}
		return Value{Type: vt, Ints: v}, true
	default:
		r.logger.Warn(ignoredMessage, zap.String("key", key.String()))
		return Value{}, false
	}
}

// Flatten converts an accepted value form into the flat component slice
// required by key's value type.
func (r *Registry) Flatten(key Key, v any) (Value, error) {
	vt := r.valueTypes[key]

	if vt.Kind == String {
		s, ok := v.(string)
		if !ok {
			return Value{}, valueError(key, "expected a string value", v)
		}
		return Value{Type: vt, Text: s}, nil
	}
	if !vt.IsNumeric() {
		return Value{}, vizerrors.New(vizerrors.ErrorTypeData, "key has no storable value type").
			WithDetail("key", key.String())
	}

	comps, ok := components(v)
	if !ok {
		return Value{}, valueError(key, "value is not numeric", v)
	}
	if len(comps) != vt.Components() {
		return Value{}, valueError(key, "value has the wrong number of components", v).
			WithDetail("expected", vt.Components()).
			WithDetail("actual", len(comps))
	}

	if vt.Numeric == Floating {
		floats := make([]float64, len(comps))
		for i, c := range comps {
			floats[i] = c.f
		}
		return Value{Type: vt, Floats: floats}, nil
	}

	ints := make([]int64, len(comps))
	for i, c := range comps {
		n, ok := c.asInt64()
		if !ok {
			return Value{}, valueError(key, "integer key given a non-integer value", v).
				WithDetail("component", i)
		}
		ints[i] = n
	}
	return Value{Type: vt, Ints: ints}, nil
}

func valueError(key Key, msg string, v any) *vizerrors.Error {
	return vizerrors.New(vizerrors.ErrorTypeData, msg).
		WithDetail("key", key.String()).
		WithDetail("value", v)
}
