// Copyright 2020, 2025 Tamás Gulácsi.
//
// SPDX-License-Identifier: Apache-2.0

package xlsx

import (
	"database/sql/driver"
	"fmt"
	"io"
	"sync"
	"time"

	"cloud.google.com/go/civil"
	"github.com/xuri/excelize/v2"

	"github.com/UNO-SOFT/cellfmt"
	"github.com/UNO-SOFT/cellfmt/codec"
)

var _ = (cellfmt.Writer)((*XLSXWriter)(nil))

// Formats of temporal values written without a column format.
const (
	dateFormat     cellfmt.FormatID = 14
	timeFormat     cellfmt.FormatID = 21
	dateTimeFormat cellfmt.FormatID = 22
)

type XLSXWriter struct {
	w      io.Writer
	wb     *Workbook
	styles map[cellfmt.Style]int
	sheets []string
	bold   int
	mu     sync.Mutex
}

type XLSXSheet struct {
	wb      *Workbook
	Name    string
	formats []*cellfmt.FormatID
	row     int64
	mu      sync.Mutex
}

// NewWriter returns a new cellfmt.Writer.
//
// This writer allows concurrent writes to separate sheets.
//
// This writer collects everything in memory, so big sheets may impose problems.
func NewWriter(w io.Writer, opts ...Option) *XLSXWriter {
	return &XLSXWriter{w: w, wb: New(opts...)}
}

// Workbook returns the underlying workbook.
func (xlw *XLSXWriter) Workbook() *Workbook { return xlw.wb }

func (xlw *XLSXWriter) Close() error {
	if xlw == nil {
		return nil
	}
	xlw.mu.Lock()
	defer xlw.mu.Unlock()
	wb, w := xlw.wb, xlw.w
	xlw.wb, xlw.w = nil, nil
	if wb == nil || w == nil {
		return nil
	}
	_, err := wb.WriteTo(w)
	if closeErr := wb.Close(); closeErr != nil && err == nil {
		err = closeErr
	}
	return err
}

func (xlw *XLSXWriter) NewSheet(name string, columns []cellfmt.Column) (cellfmt.Sheet, error) {
	xlw.mu.Lock()
	defer xlw.mu.Unlock()
	wb := xlw.wb
	wb.mu.Lock()
	defer wb.mu.Unlock()
	xl := wb.xl
	xlw.sheets = append(xlw.sheets, name)
	if len(xlw.sheets) == 1 { // first
		if err := xl.SetSheetName("Sheet1", name); err != nil {
			return nil, err
		}
	} else if _, err := xl.NewSheet(name); err != nil {
		return nil, err
	}
	var hasHeader bool
	xls := &XLSXSheet{wb: wb, Name: name, formats: make([]*cellfmt.FormatID, len(columns))}
	for i, c := range columns {
		col, err := excelize.ColumnNumberToName(i + 1)
		if err != nil {
			return nil, err
		}
		if s, err := xlw.getStyle(c.Column); err != nil {
			return nil, fmt.Errorf("%s[%s]: %w", name, col, err)
		} else if s != 0 {
			if err = xl.SetColStyle(name, col, s); err != nil {
				return nil, err
			}
			if c.Column.Format != "" {
				id, err := wb.formats.IDFor(c.Column.Format)
				if err != nil {
					return nil, err
				}
				xls.formats[i] = &id
			}
		}
		if s, err := xlw.getStyle(c.Header); err != nil {
			return nil, fmt.Errorf("%s[%s1]: %w", name, col, err)
		} else if s != 0 {
			if err = xl.SetCellStyle(name, col+"1", col+"1", s); err != nil {
				return nil, err
			}
		}
		if c.Name != "" {
			hasHeader = true
			if err = xl.SetCellStr(name, col+"1", c.Name); err != nil {
				return nil, err
			}
		}
	}
	if hasHeader {
		xls.row++
	}
	return xls, nil
}

// getStyle returns the style index of the style, 0 for the default.
//
// Bold font needs a font record, which only excelize can create;
// the number format is then put on it by the style engine.
func (xlw *XLSXWriter) getStyle(style cellfmt.Style) (int, error) {
	if !style.FontBold && style.Format == "" {
		return 0, nil
	}
	if s, ok := xlw.styles[style]; ok {
		return s, nil
	}
	var base int
	if style.FontBold {
		if xlw.bold == 0 {
			s, err := xlw.wb.xl.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
			if err != nil {
				return 0, err
			}
			xlw.bold = s
		}
		base = xlw.bold
	}
	s := base
	if style.Format != "" {
		id, err := xlw.wb.formats.IDFor(style.Format)
		if err != nil {
			return 0, err
		}
		if s, err = xlw.wb.engine.Apply(base, &id); err != nil {
			return 0, err
		}
	}
	if xlw.styles == nil {
		xlw.styles = make(map[cellfmt.Style]int)
	}
	xlw.styles[style] = s
	return s, nil
}

func (xls *XLSXSheet) Close() error { return nil }

// AppendRow appends a row of values.
//
// Numbers, booleans, times and cellfmt.Value are written typed,
// cellfmt.Number is sniffed as a number, anything else is written as text.
// Times get the number format of their column, or a default date format.
func (xls *XLSXSheet) AppendRow(values ...any) error {
	xls.mu.Lock()
	defer xls.mu.Unlock()
	if xls.row >= MaxRowCount {
		return cellfmt.ErrTooManyRows
	}
	xls.row++
	wb := xls.wb
	wb.mu.Lock()
	defer wb.mu.Unlock()
	for i, v := range values {
		axis, err := excelize.CoordinatesToCellName(i+1, int(xls.row))
		if err != nil {
			return fmt.Errorf("%d/%d: %w", i, int(xls.row), err)
		}
		val, ok := toValue(v)
		if !ok {
			if err = wb.xl.SetCellValue(xls.Name, axis, v); err != nil {
				return fmt.Errorf("%s[%s]: %w", xls.Name, axis, err)
			}
			continue
		}
		if val.IsEmpty {
			continue
		}
		if !val.Type.IsTemporal() {
			p, err := codec.Encode(val, nil)
			if err != nil {
				return fmt.Errorf("%s[%s]: %w", xls.Name, axis, err)
			}
			if err = wb.writePayload(xls.Name, axis, p); err != nil {
				return fmt.Errorf("%s[%s]: %w", xls.Name, axis, err)
			}
			continue
		}
		var id *cellfmt.FormatID
		if i < len(xls.formats) {
			id = xls.formats[i]
		}
		if id == nil {
			switch val.Type {
			case cellfmt.DateTime:
				id = dateTimeFormat.Ptr()
			case cellfmt.TimeOnly:
				id = timeFormat.Ptr()
			default:
				id = dateFormat.Ptr()
			}
		}
		if err = wb.setCellValue(xls.Name, axis, val, id); err != nil {
			return err
		}
	}
	return nil
}

// toValue converts v to a typed value; false means v has no typed representation.
func toValue(v any) (cellfmt.Value, bool) {
	if v == nil {
		return cellfmt.EmptyValue(cellfmt.Undefined), true
	}
	if vr, ok := v.(driver.Valuer); ok {
		if vv, err := vr.Value(); err == nil {
			if vv == nil {
				return cellfmt.EmptyValue(cellfmt.Undefined), true
			}
			v = vv
		}
	}
	switch x := v.(type) {
	case cellfmt.Value:
		return x, true
	case cellfmt.Number:
		val := codec.DecodeGeneral(string(x))
		if val.Type == cellfmt.Undefined && !val.IsEmpty {
			val = cellfmt.StringValue(val.Text)
		}
		return val, true
	case time.Time:
		if x.IsZero() {
			return cellfmt.EmptyValue(cellfmt.DateOnly), true
		}
		if dt := civil.DateTimeOf(x); dt.Time != (civil.Time{}) {
			return cellfmt.DateTimeValue(dt), true
		}
		return cellfmt.DateValue(civil.DateOf(x)), true
	case civil.Date:
		return cellfmt.DateValue(x), true
	case civil.DateTime:
		return cellfmt.DateTimeValue(x), true
	case civil.Time:
		return cellfmt.TimeValue(x), true
	case float64:
		return cellfmt.FloatValue(x), true
	case float32:
		return cellfmt.FloatValue(float64(x)), true
	case int64:
		return cellfmt.IntValue(x), true
	case int:
		return cellfmt.IntValue(int64(x)), true
	case int32:
		return cellfmt.IntValue(int64(x)), true
	case bool:
		return cellfmt.BoolValue(x), true
	case string:
		return cellfmt.StringValue(x), true
	case []byte:
		return cellfmt.StringValue(string(x)), true
	case fmt.Stringer:
		return cellfmt.StringValue(x.String()), true
	}
	return cellfmt.Value{}, false
}
