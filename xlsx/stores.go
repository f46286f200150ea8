// Copyright 2025, Tamás Gulácsi.
//
// SPDX-License-Identifier: Apache-2.0

package xlsx

import (
	"fmt"
	"log/slog"
	"reflect"

	"github.com/xuri/excelize/v2"

	"github.com/UNO-SOFT/cellfmt"
	"github.com/UNO-SOFT/cellfmt/numfmt"
	"github.com/UNO-SOFT/cellfmt/styles"
)

// styleStore is the cellXfs list of the workbook's stylesheet.
//
// Font, fill and border ids of 0 are the workbook defaults and count as unset.
// Alignment and protection have no ids, so each distinct element gets a Ref
// of its own, and rows sharing an element compare equal.
type styleStore struct {
	xl   *excelize.File
	refs map[any]styles.Ref
}

func newStyleStore(xl *excelize.File) *styleStore {
	return &styleStore{xl: xl, refs: make(map[any]styles.Ref)}
}

var _ styles.Store = (*styleStore)(nil)

func (s *styleStore) StyleCount() int {
	if s.xl.Styles == nil || s.xl.Styles.CellXfs == nil {
		return 0
	}
	return len(s.xl.Styles.CellXfs.Xf)
}

func (s *styleStore) StyleRecord(i int) (styles.Record, error) {
	if i < 0 || i >= s.StyleCount() {
		return styles.Record{}, fmt.Errorf("style %d: out of range [0,%d)", i, s.StyleCount())
	}
	xf := s.xl.Styles.CellXfs.Xf[i]
	r := styles.Plain()
	if xf.NumFmtID != nil {
		r.NumFmt = cellfmt.FormatID(*xf.NumFmtID).Ptr()
	}
	r.Font, r.Fill, r.Border = idRef(xf.FontID), idRef(xf.FillID), idRef(xf.BorderID)
	if xf.Alignment != nil {
		r.Alignment = s.intern(xf.Alignment)
	}
	if xf.Protection != nil {
		r.Protection = s.intern(xf.Protection)
	}
	return r, nil
}

// AppendStyleRecord copies the base row, replacing its number format.
func (s *styleStore) AppendStyleRecord(base int, r styles.Record) (int, error) {
	if s.StyleCount() == 0 {
		return 0, cellfmt.NewError("AppendStyleRecord", cellfmt.ErrObjectNull, "cellXfs", nil)
	}
	if base < 0 || base >= s.StyleCount() {
		return 0, fmt.Errorf("base style %d: out of range [0,%d)", base, s.StyleCount())
	}
	xfs := s.xl.Styles.CellXfs
	xf := xfs.Xf[base]
	id := int(r.NumFmtID())
	xf.NumFmtID = &id
	if r.HasNumFmt() {
		apply := true
		xf.ApplyNumberFormat = &apply
	} else {
		xf.ApplyNumberFormat = nil
	}
	xfs.Xf = append(xfs.Xf, xf)
	xfs.Count = len(xfs.Xf)
	return len(xfs.Xf) - 1, nil
}

func (s *styleStore) intern(p any) styles.Ref {
	if ref, ok := s.refs[p]; ok {
		return ref
	}
	ref := styles.Ref(len(s.refs))
	s.refs[p] = ref
	return ref
}

func idRef(id *int) styles.Ref {
	if id == nil || *id == 0 {
		return styles.None
	}
	return styles.Ref(*id)
}

// formatStore is the numFmts list of the workbook's stylesheet.
type formatStore struct {
	xl     *excelize.File
	logger *slog.Logger
}

var _ numfmt.Store = formatStore{}

func (s formatStore) NumberFormats() ([]numfmt.Format, error) {
	if s.xl.Styles == nil {
		return nil, cellfmt.NewError("NumberFormats", cellfmt.ErrObjectNull, "styles", nil)
	}
	if s.xl.Styles.NumFmts == nil {
		return nil, nil
	}
	fs := make([]numfmt.Format, 0, len(s.xl.Styles.NumFmts.NumFmt))
	for _, nf := range s.xl.Styles.NumFmts.NumFmt {
		if nf != nil && nf.NumFmtID >= 0 {
			fs = append(fs, numfmt.Format{ID: cellfmt.FormatID(nf.NumFmtID), Code: nf.FormatCode})
		}
	}
	return fs, nil
}

// AppendNumberFormat adds a numFmt element.
// The stylesheet element types are not exported by excelize, hence reflect.
func (s formatStore) AppendNumberFormat(f numfmt.Format) error {
	if s.xl.Styles == nil {
		return cellfmt.NewError("AppendNumberFormat", cellfmt.ErrObjectNull, "styles", nil)
	}
	fmts := reflect.ValueOf(s.xl.Styles).Elem().FieldByName("NumFmts")
	if fmts.IsNil() {
		fmts.Set(reflect.New(fmts.Type().Elem()))
	}
	list := fmts.Elem().FieldByName("NumFmt")
	item := reflect.New(list.Type().Elem().Elem())
	item.Elem().FieldByName("NumFmtID").SetInt(int64(f.ID))
	item.Elem().FieldByName("FormatCode").SetString(f.Code)
	list.Set(reflect.Append(list, item))
	fmts.Elem().FieldByName("Count").SetInt(int64(list.Len()))
	if s.logger != nil {
		s.logger.Debug("register number format", "id", f.ID, "code", f.Code)
	}
	return nil
}
