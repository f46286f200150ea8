// Copyright 2025, Tamás Gulácsi.
//
// SPDX-License-Identifier: Apache-2.0

// Package xlsx reads and writes typed cell values of xlsx workbooks,
// keeping their number formats and style table consistent.
package xlsx

import (
	"fmt"
	"io"
	"log/slog"
	"sync"

	"github.com/klauspost/compress/flate"
	"github.com/xuri/excelize/v2"

	"github.com/UNO-SOFT/cellfmt"
	"github.com/UNO-SOFT/cellfmt/codec"
	"github.com/UNO-SOFT/cellfmt/numfmt"
	"github.com/UNO-SOFT/cellfmt/styles"
)

const (
	// MaxRowCount is the number of maximum rows.
	MaxRowCount = excelize.TotalRows
	// MaxColCount is the number of maximum columns (XFD).
	MaxColCount = excelize.MaxColumns
)

// Workbook is an open xlsx document.
//
// All methods are serialized, so a Workbook can be shared,
// but callbacks (see Scan) must not call back into it.
type Workbook struct {
	xl      *excelize.File
	formats *numfmt.Registry
	engine  *styles.Engine
	decoder codec.Decoder
	logger  *slog.Logger
	level   int
	mu      sync.Mutex
}

// Option configures a Workbook.
type Option func(*Workbook)

// WithLogger sets the logger for debug messages about style table growth and skipped cells.
func WithLogger(logger *slog.Logger) Option {
	return func(w *Workbook) {
		if logger != nil {
			w.logger = logger
		}
	}
}

// WithCompressionLevel sets the deflate level (flate.BestSpeed ... flate.BestCompression)
// used when saving.
func WithCompressionLevel(level int) Option {
	return func(w *Workbook) {
		if validLevel(level) {
			w.level = level
		}
	}
}

// New returns a new, empty workbook with one sheet, "Sheet1".
func New(opts ...Option) *Workbook {
	return newWorkbook(excelize.NewFile(), opts)
}

// Open opens the named workbook.
func Open(path string, opts ...Option) (*Workbook, error) {
	xl, err := excelize.OpenFile(path)
	if err != nil {
		return nil, fmt.Errorf("open %q: %w", path, err)
	}
	return newWorkbook(xl, opts), nil
}

// OpenReader reads a workbook from r.
func OpenReader(r io.Reader, opts ...Option) (*Workbook, error) {
	xl, err := excelize.OpenReader(r)
	if err != nil {
		return nil, fmt.Errorf("read workbook: %w", err)
	}
	return newWorkbook(xl, opts), nil
}

func newWorkbook(xl *excelize.File, opts []Option) *Workbook {
	w := &Workbook{xl: xl, logger: slog.Default(), level: flate.DefaultCompression}
	for _, o := range opts {
		o(w)
	}
	w.formats = numfmt.NewRegistry(formatStore{xl: xl, logger: w.logger})
	w.engine = styles.NewEngine(styles.NewTable(newStyleStore(xl)), w.logger)
	w.decoder = codec.Decoder{Formats: w.formats}
	level := w.level
	xl.SetZipWriter(func(out io.Writer) excelize.ZipWriter { return newZipWriter(out, level) })
	return w
}

// Sheets returns the names of the sheets, in order.
func (w *Workbook) Sheets() []string {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.xl.GetSheetList()
}

// AddSheet creates the named sheet if it does not exist yet.
func (w *Workbook) AddSheet(name string) error {
	w.mu.Lock()
	defer w.mu.Unlock()
	if i, err := w.xl.GetSheetIndex(name); err != nil {
		return err
	} else if i >= 0 {
		return nil
	}
	_, err := w.xl.NewSheet(name)
	return err
}

// RenameSheet renames a sheet.
func (w *Workbook) RenameSheet(from, to string) error {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.xl.SetSheetName(from, to)
}

// CustomFormats returns the document-local number formats.
func (w *Workbook) CustomFormats() ([]numfmt.Format, error) {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.formats.Custom()
}

// FormatID returns the number format id of the code, registering it as
// a custom format if it is not built in. "General" is cellfmt.General.
func (w *Workbook) FormatID(code string) (cellfmt.FormatID, error) {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.formats.IDFor(code)
}

// StyleRow is a row of the style table with its resolved number format.
type StyleRow struct {
	Code   string
	Record styles.Record
	Index  int
	NumFmt cellfmt.FormatID
	Type   cellfmt.CellType
}

// StyleRows lists the style table.
func (w *Workbook) StyleRows() ([]StyleRow, error) {
	w.mu.Lock()
	defer w.mu.Unlock()
	table := w.engine.Table()
	rows := make([]StyleRow, 0, table.Len())
	for i := range table.Len() {
		r, err := table.Record(i)
		if err != nil {
			return rows, err
		}
		row := StyleRow{Index: i, Record: r, NumFmt: r.NumFmtID()}
		row.Code, row.Type, _ = w.formats.Resolve(row.NumFmt)
		rows = append(rows, row)
	}
	return rows, nil
}

// SaveAs writes the workbook to the named file.
func (w *Workbook) SaveAs(path string) error {
	w.mu.Lock()
	defer w.mu.Unlock()
	if err := w.xl.SaveAs(path); err != nil {
		return fmt.Errorf("save %q: %w", path, err)
	}
	return nil
}

// WriteTo writes the workbook to out.
func (w *Workbook) WriteTo(out io.Writer) (int64, error) {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.xl.WriteTo(out)
}

// Close releases the temporary files of the workbook.
func (w *Workbook) Close() error {
	if w == nil {
		return nil
	}
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.xl == nil {
		return nil
	}
	err := w.xl.Close()
	w.xl = nil
	return err
}
