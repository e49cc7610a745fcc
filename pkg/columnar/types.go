package columnar

import (
	"github.com/ajitpratap0/cudsviz/pkg/cuba"
)

// ColumnType represents the storage type of a column
type ColumnType int

const (
	ColumnTypeFloat ColumnType = iota
	ColumnTypeInt
)

func (t ColumnType) String() string {
	if t == ColumnTypeInt {
		return "int"
	}
	return "float"
}

// Column is a dense array of fixed-width tuples holding the values of one
// key. Accessors return copies.
type Column interface {
	Key() cuba.Key
	Type() ColumnType
	Len() int
	NumComponents() int
	Tuple(i int) []float64
	Float64s() []float64
}

// column is the mutable view used by the accumulator.
type column interface {
	Column
	appendValue(v cuba.Value)
	clone() column
}

// createColumn creates an empty column for the key's value type
func createColumn(key cuba.Key, vt cuba.ValueType) column {
	switch vt.Numeric {
	case cuba.Integer:
		return NewIntColumn(key, vt.Components())
	default:
		return NewFloatColumn(key, vt.Components())
	}
}

// FloatColumn stores float64 tuples
type FloatColumn struct {
	key    cuba.Key
	comps  int
	values []float64
}

// NewFloatColumn creates an empty float column with comps components per tuple
func NewFloatColumn(key cuba.Key, comps int) *FloatColumn {
	return &FloatColumn{key: key, comps: comps, values: make([]float64, 0, 64*comps)}
}

func (c *FloatColumn) Key() cuba.Key      { return c.key }
func (c *FloatColumn) Type() ColumnType   { return ColumnTypeFloat }
func (c *FloatColumn) Len() int           { return len(c.values) / c.comps }
func (c *FloatColumn) NumComponents() int { return c.comps }

func (c *FloatColumn) Tuple(i int) []float64 {
	return append([]float64(nil), c.values[i*c.comps:(i+1)*c.comps]...)
}

// Float64s returns every tuple flattened row-major.
func (c *FloatColumn) Float64s() []float64 {
	return append([]float64(nil), c.values...)
}

func (c *FloatColumn) appendValue(v cuba.Value) {
	c.values = append(c.values, v.Float64s()...)
}

func (c *FloatColumn) clone() column {
	return &FloatColumn{key: c.key, comps: c.comps, values: append([]float64(nil), c.values...)}
}

// IntColumn stores int64 tuples
type IntColumn struct {
	key    cuba.Key
	comps  int
	values []int64
}

// NewIntColumn creates an empty integer column with comps components per tuple
func NewIntColumn(key cuba.Key, comps int) *IntColumn {
	return &IntColumn{key: key, comps: comps, values: make([]int64, 0, 64*comps)}
}

func (c *IntColumn) Key() cuba.Key      { return c.key }
func (c *IntColumn) Type() ColumnType   { return ColumnTypeInt }
func (c *IntColumn) Len() int           { return len(c.values) / c.comps }
func (c *IntColumn) NumComponents() int { return c.comps }

func (c *IntColumn) Tuple(i int) []float64 {
	out := make([]float64, c.comps)
	for j, v := range c.values[i*c.comps : (i+1)*c.comps] {
		out[j] = float64(v)
	}
	return out
}

func (c *IntColumn) Float64s() []float64 {
	out := make([]float64, len(c.values))
	for i, v := range c.values {
		out[i] = float64(v)
	}
	return out
}

// Int64s returns every tuple flattened row-major.
func (c *IntColumn) Int64s() []int64 {
	return append([]int64(nil), c.values...)
}

func (c *IntColumn) appendValue(v cuba.Value) {
	c.values = append(c.values, v.Ints...)
}

func (c *IntColumn) clone() column {
	return &IntColumn{key: c.key, comps: c.comps, values: append([]int64(nil), c.values...)}
}
