package cuba

import (
	"math"
	"sort"
)

// ElementKind classifies how many components a key's value carries.
type ElementKind int

const (
	Unsupported ElementKind = iota
	Scalar
	Vector
	Tensor
	String
)

func (k ElementKind) String() string {
	switch k {
	case Scalar:
		return "scalar"
	case Vector:
		return "vector"
	case Tensor:
		return "tensor"
	case String:
		return "string"
	default:
		return "unsupported"
	}
}

// NumericKind is the numeric storage class of a key.
type NumericKind int

const (
	NumericNone NumericKind = iota
	Integer
	Floating
)

func (n NumericKind) String() string {
	switch n {
	case Integer:
		return "integer"
	case Floating:
		return "floating"
	default:
		return "none"
	}
}

// ValueType is the static storage type of a key.
type ValueType struct {
	Kind    ElementKind
	Numeric NumericKind
	Shape   []int
}

// Components returns the number of scalar components of one value.
func (vt ValueType) Components() int {
	if len(vt.Shape) == 0 {
		return 1
	}
	n := 1
	for _, d := range vt.Shape {
		n *= d
	}
	return n
}

// IsNumeric reports whether the type can be stored in a numeric column.
func (vt ValueType) IsNumeric() bool {
	switch vt.Kind {
	case Scalar, Vector, Tensor:
		return vt.Numeric != NumericNone
	default:
		return false
	}
}

// Value is a value flattened into its component slice. Exactly one of
// Floats, Ints or Text is populated, according to Type.
type Value struct {
	Type   ValueType
	Floats []float64
	Ints   []int64
	Text   string
}

// Float64s returns the components as float64, converting integers.
func (v Value) Float64s() []float64 {
	if v.Type.Numeric == Integer {
		out := make([]float64, len(v.Ints))
		for i, x := range v.Ints {
			out[i] = float64(x)
		}
		return out
	}
	return append([]float64(nil), v.Floats...)
}

// DataContainer is the sparse per-item key/value store. Absent keys are not
// stored.
//
// Accepted value forms are float64, float32, int, int32 and int64 scalars,
// [3]float64, [2]float64, []float64, [3]int, []int and []int64 vectors,
// [3][3]float64 and [][]float64 tensors, []any of numbers (as produced by
// document decoders) and strings.
type DataContainer map[Key]any

// Keys returns the keys present in the container, in declaration order.
func (dc DataContainer) Keys() []Key {
	keys := make([]Key, 0, len(dc))
	for k := range dc {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool { return keys[i] < keys[j] })
	return keys
}

// Clone returns a shallow copy of the container. Slice values are copied.
func (dc DataContainer) Clone() DataContainer {
	if dc == nil {
		return DataContainer{}
	}
	out := make(DataContainer, len(dc))
	for k, v := range dc {
		switch x := v.(type) {
		case []float64:
			out[k] = append([]float64(nil), x...)
		case []int:
			out[k] = append([]int(nil), x...)
		case []int64:
			out[k] = append([]int64(nil), x...)
		case []any:
			out[k] = append([]any(nil), x...)
		case [][]float64:
			rows := make([][]float64, len(x))
			for i, r := range x {
				rows[i] = append([]float64(nil), r...)
			}
			out[k] = rows
		default:
			out[k] = v
		}
	}
	return out
}

// component is one scalar of a flattened value. Integer sources keep their
// exact value in i so wide integers survive without a float round trip.
type component struct {
	f     float64
	i     int64
	exact bool
}

func floatComponent(f float64) component { return component{f: f} }

func intComponent(n int64) component { return component{f: float64(n), i: n, exact: true} }

// components flattens an accepted value form into scalar components. ok is
// false for forms that are not numeric.
func components(v any) (out []component, ok bool) {
	switch x := v.(type) {
	case float64:
		return []component{floatComponent(x)}, true
	case float32:
		return []component{floatComponent(float64(x))}, true
	case int:
		return []component{intComponent(int64(x))}, true
	case int32:
		return []component{intComponent(int64(x))}, true
	case int64:
		return []component{intComponent(x)}, true
	case uint64:
		if x > math.MaxInt64 {
			return []component{floatComponent(float64(x))}, true
		}
		return []component{intComponent(int64(x))}, true
	case [2]float64:
		return floatComponents(x[:]), true
	case [3]float64:
		return floatComponents(x[:]), true
	case []float64:
		return floatComponents(x), true
	case [3]int:
		return []component{intComponent(int64(x[0])), intComponent(int64(x[1])), intComponent(int64(x[2]))}, true
	case []int:
		out = make([]component, len(x))
		for i, n := range x {
			out[i] = intComponent(int64(n))
		}
		return out, true
	case []int64:
		out = make([]component, len(x))
		for i, n := range x {
			out[i] = intComponent(n)
		}
		return out, true
	case [3][3]float64:
		out = make([]component, 0, 9)
		for _, row := range x {
			out = append(out, floatComponents(row[:])...)
		}
		return out, true
	case [][]float64:
		for _, row := range x {
			out = append(out, floatComponents(row)...)
		}
		return out, true
	case []any:
		for _, e := range x {
			c, ok := components(e)
			if !ok {
				return nil, false
			}
			out = append(out, c...)
		}
		return out, true
	default:
		return nil, false
	}
}

func floatComponents(fs []float64) []component {
	out := make([]component, len(fs))
	for i, f := range fs {
		out[i] = floatComponent(f)
	}
	return out
}

// asInt64 returns the exact integer a component holds. Floats must be whole
// and inside the int64 range.
func (c component) asInt64() (int64, bool) {
	if c.exact {
		return c.i, true
	}
	if !isWhole(c.f) || c.f < math.MinInt64 || c.f >= 1<<63 {
		return 0, false
	}
	return int64(c.f), true
}

func isWhole(f float64) bool {
	return !math.IsNaN(f) && !math.IsInf(f, 0) && f == math.Trunc(f)
}
