package refdata

import "iter"

// Row is one record of a table: an insertion-ordered mapping from field name
// to Value. Rows within a table need not share an identical field set.
//
// Rows are immutable once their table is published; they may be copied and
// shared freely across goroutines.
type Row struct {
	names  []string
	values map[string]Value
}

func newRow() Row {
	return Row{values: make(map[string]Value)}
}

// set records a field, preserving first-seen order. A duplicate field name
// overwrites the value in place, matching encoding/json object semantics.
func (r *Row) set(name string, v Value) {
	if _, ok := r.values[name]; !ok {
		r.names = append(r.names, name)
	}
	r.values[name] = v
}

// Len returns the number of fields.
func (r Row) Len() int { return len(r.names) }

// Get returns the value of the named field.
func (r Row) Get(name string) (Value, bool) {
	v, ok := r.values[name]
	return v, ok
}

// Fields iterates field name/value pairs in source order.
func (r Row) Fields() iter.Seq2[string, Value] {
	return func(yield func(string, Value) bool) {
		for _, name := range r.names {
			if !yield(name, r.values[name]) {
				return
			}
		}
	}
}

// Table is a named, immutable, ordered sequence of rows decoded from one
// backing file. The name is the cache key and the file stem, case-sensitive.
type Table struct {
	name string
	rows []Row
}

// Name returns the table name.
func (t *Table) Name() string { return t.name }

// Len returns the number of rows.
func (t *Table) Len() int { return len(t.rows) }

// Row returns the i-th row in source order.
func (t *Table) Row(i int) Row { return t.rows[i] }

// All iterates rows in source order.
func (t *Table) All() iter.Seq[Row] {
	return func(yield func(Row) bool) {
		for _, row := range t.rows {
			if !yield(row) {
				return
			}
		}
	}
}
