package columnar

import (
	"github.com/ajitpratap0/cudsviz/pkg/cuba"
)

// Table is an immutable snapshot of an accumulator. Every column holds
// Len() tuples.
type Table struct {
	count   int
	columns map[cuba.Key]Column
	keys    []cuba.Key
}

// EmptyTable returns a table with no records and no columns.
func EmptyTable() *Table {
	return &Table{columns: map[cuba.Key]Column{}}
}

// Len returns the number of records.
func (t *Table) Len() int { return t.count }

// Keys returns the table's keys in declaration order.
func (t *Table) Keys() []cuba.Key {
	return append([]cuba.Key(nil), t.keys...)
}

// Has reports whether the table holds a column for key.
func (t *Table) Has(key cuba.Key) bool {
	_, ok := t.columns[key]
	return ok
}

// Column returns the column for key or an ErrorTypeKeyNotFound error.
func (t *Table) Column(key cuba.Key) (Column, error) {
	col, ok := t.columns[key]
	if !ok {
		return nil, keyNotFound(key)
	}
	return col, nil
}

// Columns returns the columns in key order.
func (t *Table) Columns() []Column {
	out := make([]Column, 0, len(t.keys))
	for _, key := range t.keys {
		out = append(out, t.columns[key])
	}
	return out
}
