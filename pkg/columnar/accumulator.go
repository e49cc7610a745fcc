package columnar

import (
	"sync"

	"github.com/ajitpratap0/cudsviz/pkg/cuba"
	"github.com/ajitpratap0/cudsviz/pkg/vizerrors"
)

// Mode is the lifecycle policy of an accumulator's tracked key set.
type Mode int

const (
	// ModeExpanding grows the tracked set as new keys are appended.
	ModeExpanding Mode = iota
	// ModeFixed tracks the key set given at construction only.
	ModeFixed
)

func (m Mode) String() string {
	if m == ModeFixed {
		return "fixed"
	}
	return "expanding"
}

// Accumulator collects sparse per-item data into dense typed columns, one
// per tracked key. Every column holds exactly Len() tuples after every
// Append.
type Accumulator struct {
	mu        sync.RWMutex
	registry  *cuba.Registry
	supported cuba.KeySet
	columns   map[cuba.Key]column
	defaults  map[cuba.Key]cuba.Value
	mode      Mode
	count     int
}

// NewAccumulator creates an accumulator. With keys it operates in fixed
// mode over keys ∩ supported; without, in expanding mode. A nil registry
// means cuba.Default().
func NewAccumulator(registry *cuba.Registry, keys ...cuba.Key) *Accumulator {
	if registry == nil {
		registry = cuba.Default()
	}
	a := &Accumulator{
		registry:  registry,
		supported: registry.SupportedKeys(),
		columns:   make(map[cuba.Key]column),
		defaults:  make(map[cuba.Key]cuba.Value),
	}
	if len(keys) > 0 {
		a.mode = ModeFixed
		for _, key := range cuba.NewKeySet(keys...).Intersect(a.supported).Sorted() {
			a.addColumn(key)
		}
	}
	return a
}

// addColumn creates a column for key holding count default tuples
func (a *Accumulator) addColumn(key cuba.Key) {
	def, _ := a.registry.DefaultValue(key)
	col := createColumn(key, a.registry.ValueType(key))
	for i := 0; i < a.count; i++ {
		col.appendValue(def)
	}
	a.columns[key] = col
	a.defaults[key] = def
}

// Append appends one record. In expanding mode, supported keys seen for the
// first time get a column backfilled with defaults for every earlier
// record. Tracked keys missing from data receive their default.
//
// Values are validated before any column is touched, so a failed Append
// leaves the accumulator unchanged.
func (a *Accumulator) Append(data cuba.DataContainer) error {
	a.mu.Lock()
	defer a.mu.Unlock()

	var newKeys []cuba.Key
	if a.mode == ModeExpanding {
		for _, key := range data.Keys() {
			if _, tracked := a.columns[key]; !tracked && a.supported.Has(key) {
				newKeys = append(newKeys, key)
			}
		}
	}

	values := make(map[cuba.Key]cuba.Value, len(data))
	for key, raw := range data {
		_, tracked := a.columns[key]
		if !tracked && !containsKey(newKeys, key) {
			continue
		}
		v, err := a.registry.Flatten(key, raw)
		if err != nil {
			return vizerrors.Wrap(err, vizerrors.ErrorTypeData, "cannot append record").
				WithDetail("record", a.count)
		}
		values[key] = v
	}

	for _, key := range newKeys {
		a.addColumn(key)
	}

	for key, col := range a.columns {
		if v, ok := values[key]; ok {
			col.appendValue(v)
		} else {
			col.appendValue(a.defaults[key])
		}
	}

	a.count++
	return nil
}

func containsKey(keys []cuba.Key, key cuba.Key) bool {
	for _, k := range keys {
		if k == key {
			return true
		}
	}
	return false
}

// Len returns the number of records appended so far
func (a *Accumulator) Len() int {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return a.count
}

// Mode returns the accumulator's lifecycle mode
func (a *Accumulator) Mode() Mode {
	return a.mode
}

// Keys returns the tracked keys in declaration order
func (a *Accumulator) Keys() []cuba.Key {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return a.keySet().Sorted()
}

func (a *Accumulator) keySet() cuba.KeySet {
	s := cuba.NewKeySet()
	for key := range a.columns {
		s.Add(key)
	}
	return s
}

// Has reports whether key is tracked
func (a *Accumulator) Has(key cuba.Key) bool {
	a.mu.RLock()
	defer a.mu.RUnlock()
	_, ok := a.columns[key]
	return ok
}

// Column returns a copy of the column for key. Requesting a key that was
// never tracked is an ErrorTypeKeyNotFound error.
func (a *Accumulator) Column(key cuba.Key) (Column, error) {
	a.mu.RLock()
	defer a.mu.RUnlock()

	col, ok := a.columns[key]
	if !ok {
		return nil, keyNotFound(key)
	}
	return col.clone(), nil
}

// Table returns an immutable snapshot of the accumulated columns.
func (a *Accumulator) Table() *Table {
	a.mu.RLock()
	defer a.mu.RUnlock()

	columns := make(map[cuba.Key]Column, len(a.columns))
	for key, col := range a.columns {
		columns[key] = col.clone()
	}
	return &Table{count: a.count, columns: columns, keys: a.keySet().Sorted()}
}

func keyNotFound(key cuba.Key) *vizerrors.Error {
	return vizerrors.New(vizerrors.ErrorTypeKeyNotFound, "could not find values stored for key").
		WithDetail("key", key.String())
}
