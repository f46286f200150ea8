// Copyright 2025, Tamás Gulácsi.
//
// SPDX-License-Identifier: Apache-2.0

package styles

import (
	"fmt"
	"strconv"

	"github.com/UNO-SOFT/cellfmt"
)

// Store is the style table of a document.
type Store interface {
	// StyleCount returns the number of rows.
	StyleCount() int
	// StyleRecord returns the i-th row.
	StyleRecord(i int) (Record, error)
	// AppendStyleRecord appends r as a new row and returns its index.
	// Attributes the Record does not model are copied from the base row.
	AppendStyleRecord(base int, r Record) (int, error)
}

// Table is an append-only view of a Store with a structural index over its rows.
//
// Rows are never changed nor removed, so indexes held by cells stay valid.
// The index is built on first use and catches up with rows appended to the
// Store behind the Table's back. When several rows are identical, the first wins.
//
// A Table is not safe for concurrent use.
type Table struct {
	store   Store
	index   map[key]int
	indexed int
}

// NewTable returns a Table over the store.
func NewTable(store Store) *Table { return &Table{store: store} }

func (t *Table) check(op string) error {
	if t == nil || t.store == nil {
		return cellfmt.NewError(op, cellfmt.ErrObjectNull, "style table", nil)
	}
	return nil
}

// Len returns the number of rows.
func (t *Table) Len() int {
	if t.check("Len") != nil {
		return 0
	}
	return t.store.StyleCount()
}

// Record returns the i-th row.
func (t *Table) Record(i int) (Record, error) {
	if err := t.check("Record"); err != nil {
		return Record{}, err
	}
	if i < 0 || i >= t.store.StyleCount() {
		return Record{}, cellfmt.NewError("Record", cellfmt.ErrObjectNull, "style "+strconv.Itoa(i), nil)
	}
	return t.store.StyleRecord(i)
}

func (t *Table) sync() error {
	if t.index == nil {
		t.index = make(map[key]int)
	}
	for n := t.store.StyleCount(); t.indexed < n; t.indexed++ {
		r, err := t.store.StyleRecord(t.indexed)
		if err != nil {
			return fmt.Errorf("style %d: %w", t.indexed, err)
		}
		if _, ok := t.index[r.key()]; !ok {
			t.index[r.key()] = t.indexed
		}
	}
	return nil
}

// Find returns the index of the first row structurally equal to r.
func (t *Table) Find(r Record) (int, bool, error) {
	if err := t.check("Find"); err != nil {
		return 0, false, err
	}
	if err := t.sync(); err != nil {
		return 0, false, err
	}
	i, ok := t.index[r.key()]
	return i, ok, nil
}

// Append adds r as a new row, based on the base row, and returns its index.
func (t *Table) Append(base int, r Record) (int, error) {
	if err := t.check("Append"); err != nil {
		return 0, err
	}
	if err := t.sync(); err != nil {
		return 0, err
	}
	i, err := t.store.AppendStyleRecord(base, r)
	if err != nil {
		return 0, fmt.Errorf("append %s: %w", r, err)
	}
	if _, ok := t.index[r.key()]; !ok {
		t.index[r.key()] = i
	}
	t.indexed = t.store.StyleCount()
	return i, nil
}

// MemStore is an in-memory Store.
type MemStore struct {
	Records []Record
}

func (m *MemStore) StyleCount() int { return len(m.Records) }

func (m *MemStore) StyleRecord(i int) (Record, error) {
	if i < 0 || i >= len(m.Records) {
		return Record{}, fmt.Errorf("style %d: out of range [0,%d)", i, len(m.Records))
	}
	return m.Records[i], nil
}

func (m *MemStore) AppendStyleRecord(_ int, r Record) (int, error) {
	m.Records = append(m.Records, r)
	return len(m.Records) - 1, nil
}
