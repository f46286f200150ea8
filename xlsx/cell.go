// Copyright 2025, Tamás Gulácsi.
//
// SPDX-License-Identifier: Apache-2.0

package xlsx

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"cloud.google.com/go/civil"
	"github.com/xuri/excelize/v2"
	"go.uber.org/multierr"

	"github.com/UNO-SOFT/cellfmt"
	"github.com/UNO-SOFT/cellfmt/codec"
)

// CellName returns the A1 style name of the 1-based column and row.
func CellName(col, row int) (string, error) {
	if col < 1 || col > MaxColCount || row < 1 || row > MaxRowCount {
		return "", fmt.Errorf("cell (%d,%d): out of range", col, row)
	}
	return excelize.CoordinatesToCellName(col, row)
}

// CellCoordinates returns the 1-based column and row of an A1 style cell name.
func CellCoordinates(cell string) (col, row int, err error) {
	return excelize.CellNameToCoordinates(cell)
}

// CellValue returns the typed value of the cell.
//
// Text cells (shared, inline and formula strings) are String values,
// boolean and error cells are Boolean and Error values,
// numbers are decoded by the number format of the cell's style.
func (w *Workbook) CellValue(sheet, cell string) (cellfmt.Value, error) {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.cellValue(sheet, cell)
}

func (w *Workbook) cellValue(sheet, cell string) (cellfmt.Value, error) {
	v, err := w.decodeCell(sheet, cell)
	if err != nil {
		var ce *cellfmt.CellError
		if errors.As(err, &ce) {
			return v, ce.WithRef(sheet + "!" + cell)
		}
		return v, fmt.Errorf("%s[%s]: %w", sheet, cell, err)
	}
	if v.Formula, err = w.xl.GetCellFormula(sheet, cell); err != nil {
		return v, fmt.Errorf("%s[%s]: %w", sheet, cell, err)
	}
	return v, nil
}

func (w *Workbook) decodeCell(sheet, cell string) (cellfmt.Value, error) {
	typ, err := w.xl.GetCellType(sheet, cell)
	if err != nil {
		return cellfmt.Value{}, err
	}
	raw, err := w.xl.GetCellValue(sheet, cell, excelize.Options{RawCellValue: true})
	if err != nil {
		return cellfmt.Value{}, err
	}
	switch typ {
	case excelize.CellTypeSharedString, excelize.CellTypeInlineString, excelize.CellTypeFormula:
		if raw == "" {
			return cellfmt.EmptyValue(cellfmt.String), nil
		}
		return cellfmt.StringValue(raw), nil
	case excelize.CellTypeBool:
		return codec.Decode(raw, cellfmt.Boolean, cellfmt.NoFormat, "")
	case excelize.CellTypeError:
		return codec.Decode(raw, cellfmt.Error, cellfmt.NoFormat, "")
	case excelize.CellTypeDate:
		return decodeISODate(raw)
	}
	style, err := w.xl.GetCellStyle(sheet, cell)
	if err != nil {
		return cellfmt.Value{}, err
	}
	rec, err := w.engine.Table().Record(style)
	if err != nil {
		return cellfmt.Value{}, err
	}
	return w.decoder.DecodeCell(raw, rec.NumFmtID())
}

// decodeISODate decodes the text of a t="d" cell.
func decodeISODate(raw string) (cellfmt.Value, error) {
	if strings.TrimSpace(raw) == "" {
		return cellfmt.EmptyValue(cellfmt.DateTime), nil
	}
	for _, layout := range []string{time.RFC3339Nano, "2006-01-02T15:04:05.999999999", "2006-01-02"} {
		if t, err := time.Parse(layout, raw); err == nil {
			if len(layout) == len("2006-01-02") {
				return cellfmt.DateValue(civil.DateOf(t)), nil
			}
			return cellfmt.DateTimeValue(civil.DateTimeOf(t)), nil
		}
	}
	return cellfmt.Value{}, cellfmt.NewError("decode DateTime", cellfmt.ErrTypeWrong, raw, nil)
}

// SetCellValue writes v into the cell with the given number format code.
//
// An empty format clears the number format of the cell.
// Built-in codes map to their ids, other codes are registered as custom formats.
func (w *Workbook) SetCellValue(sheet, cell string, v cellfmt.Value, format string) error {
	w.mu.Lock()
	defer w.mu.Unlock()
	var id *cellfmt.FormatID
	if format != "" {
		fid, err := w.formats.IDFor(format)
		if err != nil {
			return fmt.Errorf("%s[%s]: %w", sheet, cell, err)
		}
		id = &fid
	}
	return w.setCellValue(sheet, cell, v, id)
}

// SetCellValueFormatID writes v into the cell and sets its number format to id.
// A nil id clears the number format.
//
// The style of the cell is changed only in its number format:
// the style table gets a new row only if no row has the wanted attributes yet.
// Any formula of the cell is removed.
func (w *Workbook) SetCellValueFormatID(sheet, cell string, v cellfmt.Value, id *cellfmt.FormatID) error {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.setCellValue(sheet, cell, v, id)
}

func (w *Workbook) setCellValue(sheet, cell string, v cellfmt.Value, id *cellfmt.FormatID) error {
	p, err := codec.Encode(v, id)
	if err != nil {
		var ce *cellfmt.CellError
		if errors.As(err, &ce) {
			return ce.WithRef(sheet + "!" + cell)
		}
		return fmt.Errorf("%s[%s]: %w", sheet, cell, err)
	}
	if err := w.applyFormat(sheet, cell, id); err != nil {
		return err
	}
	if err := w.writePayload(sheet, cell, p); err != nil {
		return fmt.Errorf("%s[%s]: %w", sheet, cell, err)
	}
	return nil
}

func (w *Workbook) applyFormat(sheet, cell string, id *cellfmt.FormatID) error {
	cur, err := w.xl.GetCellStyle(sheet, cell)
	if err != nil {
		return fmt.Errorf("%s[%s]: %w", sheet, cell, err)
	}
	next, err := w.engine.Apply(cur, id)
	if err != nil {
		return fmt.Errorf("%s[%s]: %w", sheet, cell, err)
	}
	if next == cur {
		return nil
	}
	if err = w.xl.SetCellStyle(sheet, cell, cell, next); err != nil {
		return fmt.Errorf("%s[%s]: %w", sheet, cell, err)
	}
	return nil
}

// writePayload stores the raw text, keeping the style and removing the formula.
// Error literals have no setter, they are stored as text.
func (w *Workbook) writePayload(sheet, cell string, p codec.Payload) error {
	switch p.Kind {
	case codec.KindNumber, codec.KindEmpty:
		return w.xl.SetCellDefault(sheet, cell, p.Raw)
	case codec.KindBoolean:
		return w.xl.SetCellBool(sheet, cell, p.Raw == "1")
	default:
		return w.xl.SetCellStr(sheet, cell, p.Raw)
	}
}

// Scan calls fn for each non-blank cell of the sheet, row by row.
//
// Cells which cannot be decoded (cellfmt.ErrTypeWrong) are skipped and
// their errors returned together, after the scan.
// Any other error, or an error returned by fn, stops the scan.
//
// fn must not call the methods of w.
func (w *Workbook) Scan(sheet string, fn func(cell string, v cellfmt.Value) error) error {
	w.mu.Lock()
	defer w.mu.Unlock()
	rows, err := w.xl.GetRows(sheet, excelize.Options{RawCellValue: true})
	if err != nil {
		return fmt.Errorf("%s: %w", sheet, err)
	}
	var errs error
	for r, row := range rows {
		for c, raw := range row {
			if raw == "" {
				continue
			}
			cell, err := excelize.CoordinatesToCellName(c+1, r+1)
			if err != nil {
				return multierr.Append(errs, err)
			}
			v, err := w.cellValue(sheet, cell)
			if err != nil {
				if errors.Is(err, cellfmt.ErrTypeWrong) {
					w.logger.Debug("skip", "sheet", sheet, "cell", cell, "error", err)
					errs = multierr.Append(errs, err)
					continue
				}
				return multierr.Append(errs, err)
			}
			if err = fn(cell, v); err != nil {
				return multierr.Append(errs, err)
			}
		}
	}
	return errs
}
