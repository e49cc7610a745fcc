// Package columnar implements the attribute accumulator: a column-oriented,
// append-only store that gathers the sparse key/value data of simulation
// entities into dense typed arrays, one per CUBA key.
//
// # Modes
//
// An Accumulator is created in one of two modes and keeps it for life:
//
//   - Fixed: the tracked key set is given at construction, intersected
//     with the registry's supported keys, and never changes.
//   - Expanding: the tracked key set starts empty and grows whenever a
//     record carries a supported key not seen before. The new column is
//     backfilled with that key's default value for every earlier record.
//
// In both modes a record missing a tracked key stores the key's default
// (NaN for floats, -1 for integers), so every column always holds exactly
// Len() tuples.
//
// # Usage
//
//	acc := columnar.NewAccumulator(registry)
//	_ = acc.Append(cuba.DataContainer{cuba.Temperature: 34.0})
//	_ = acc.Append(cuba.DataContainer{cuba.Velocity: [3]float64{0.1, 0.1, 0.1}})
//	col, _ := acc.Column(cuba.Temperature) // [34, NaN]
//
// Columns are copied out of the accumulator; Table returns an immutable
// snapshot suitable for handing to a dataset.
package columnar
