// Copyright 2025, Tamás Gulácsi.
//
// SPDX-License-Identifier: Apache-2.0

package numfmt

import (
	"fmt"
	"strings"

	"github.com/UNO-SOFT/cellfmt"
)

// Store is the number format list of a document's style table.
type Store interface {
	// NumberFormats returns the stored formats in document order.
	NumberFormats() ([]Format, error)
	// AppendNumberFormat persists a new format.
	AppendNumberFormat(Format) error
}

// Registry manages the custom (id >= 164) number formats of one open document.
//
// The next free id is computed once, on the first registration, and only
// grows afterwards; ids are never reused. Call Reset when the store's
// formats are reloaded.
//
// A Registry is not safe for concurrent use.
type Registry struct {
	store Store
	next  cellfmt.FormatID
}

// NewRegistry returns a registry over the given store.
func NewRegistry(store Store) *Registry { return &Registry{store: store} }

// Reset forgets the memoized next id.
func (r *Registry) Reset() { r.next = 0 }

func (r *Registry) formats() ([]Format, error) {
	if r == nil || r.store == nil {
		return nil, cellfmt.NewError("numfmt", cellfmt.ErrObjectNull, "number format list", nil)
	}
	return r.store.NumberFormats()
}

// Custom returns the custom formats, in document order.
func (r *Registry) Custom() ([]Format, error) {
	all, err := r.formats()
	if err != nil {
		return nil, err
	}
	custom := all[:0:0]
	for _, f := range all {
		if f.ID.IsCustom() {
			custom = append(custom, f)
		}
	}
	return custom, nil
}

// Code returns the code of a custom format.
// It never answers for built-in ids, even if the document lists them.
func (r *Registry) Code(id cellfmt.FormatID) (string, bool) {
	if !id.IsCustom() {
		return "", false
	}
	all, err := r.formats()
	if err != nil {
		return "", false
	}
	for _, f := range all {
		if f.ID == id {
			return f.Code, true
		}
	}
	return "", false
}

// ID returns the id of the custom format with exactly this code.
func (r *Registry) ID(code string) (cellfmt.FormatID, bool) {
	all, err := r.formats()
	if err != nil {
		return 0, false
	}
	for _, f := range all {
		if f.ID.IsCustom() && f.Code == code {
			return f.ID, true
		}
	}
	return 0, false
}

// GetOrCreate returns the id of the custom format code, registering it when new.
func (r *Registry) GetOrCreate(code string) (cellfmt.FormatID, error) {
	if code == "" {
		return 0, cellfmt.NewError("GetOrCreate", cellfmt.ErrEmptyFormat, "", nil)
	}
	if id, ok := r.ID(code); ok {
		return id, nil
	}
	if r.next == 0 {
		all, err := r.formats()
		if err != nil {
			return 0, err
		}
		r.next = nextID(all)
	}
	id := r.next
	if err := r.store.AppendNumberFormat(Format{ID: id, Code: code}); err != nil {
		return 0, fmt.Errorf("append number format %d %q: %w", id, code, err)
	}
	r.next++
	return id, nil
}

// Register stores a custom format under the given id directly.
// The id must be custom and unused; the memoized next id is moved past it.
func (r *Registry) Register(id cellfmt.FormatID, code string) error {
	if !id.IsCustom() {
		return fmt.Errorf("register %d: not a custom format id", id)
	}
	if code == "" {
		return cellfmt.NewError("Register", cellfmt.ErrEmptyFormat, id.String(), nil)
	}
	all, err := r.formats()
	if err != nil {
		return err
	}
	for _, f := range all {
		if f.ID == id {
			return fmt.Errorf("register %d: already used by %q", id, f.Code)
		}
	}
	if err := r.store.AppendNumberFormat(Format{ID: id, Code: code}); err != nil {
		return fmt.Errorf("append number format %d %q: %w", id, code, err)
	}
	if r.next == 0 {
		r.next = nextID(append(all, Format{ID: id, Code: code}))
	} else if id >= r.next {
		r.next = id + 1
	}
	return nil
}

// IDFor returns the id to use for the code: General for GeneralCode,
// the built-in id if there is one, otherwise the custom id,
// registering the code if needed.
func (r *Registry) IDFor(code string) (cellfmt.FormatID, error) {
	if strings.EqualFold(code, GeneralCode) {
		return cellfmt.General, nil
	}
	if id, ok := BuiltInID(code); ok {
		return id, nil
	}
	return r.GetOrCreate(code)
}

// Resolve returns the code and the inferred type of a format id.
// Built-in ids take their type from the catalog, custom ids from Infer.
func (r *Registry) Resolve(id cellfmt.FormatID) (string, cellfmt.CellType, bool) {
	if code, typ, ok := BuiltIn(id); ok {
		return code, typ, true
	}
	if code, ok := r.Code(id); ok {
		return code, Infer(code), true
	}
	return "", cellfmt.Undefined, false
}

func nextID(all []Format) cellfmt.FormatID {
	last := cellfmt.LastBuiltInID
	for _, f := range all {
		if f.ID > last {
			last = f.ID
		}
	}
	return last + 1
}

// MemStore is an in-memory Store.
type MemStore struct {
	Formats []Format
}

func (m *MemStore) NumberFormats() ([]Format, error) { return m.Formats, nil }

func (m *MemStore) AppendNumberFormat(f Format) error {
	m.Formats = append(m.Formats, f)
	return nil
}
