// Copyright 2025, Tamás Gulácsi.
//
// SPDX-License-Identifier: Apache-2.0

package styles

import (
	"log/slog"

	"github.com/UNO-SOFT/cellfmt"
)

// Engine changes the number format of cell styles.
type Engine struct {
	table  *Table
	logger *slog.Logger
}

// NewEngine returns an Engine over the table.
// A nil logger discards the messages.
func NewEngine(table *Table, logger *slog.Logger) *Engine {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Engine{table: table, logger: logger}
}

// Table returns the underlying style table.
func (e *Engine) Table() *Table { return e.table }

// Apply returns the style index a cell with the current style index must get
// to show the desired number format (nil clears the format).
//
//   - Clearing a style without a format keeps it.
//   - Asking for the format the style already has keeps it.
//   - Clearing the format of a style with no other attributes gives the default style 0.
//   - Otherwise the current style with only the number format replaced is looked up,
//     and appended as a new row if it is not there yet.
func (e *Engine) Apply(current int, desired *cellfmt.FormatID) (int, error) {
	cur, err := e.table.Record(current)
	if err != nil {
		return current, err
	}
	if desired == nil && !cur.HasNumFmt() {
		return current, nil
	}
	if desired != nil && cur.NumFmtID() == *desired {
		return current, nil
	}
	if desired == nil && cur.OnlyNumFmt() {
		return 0, nil
	}
	want := cur.WithNumFmt(desired)
	if i, ok, err := e.table.Find(want); err != nil {
		return current, err
	} else if ok {
		return i, nil
	}
	i, err := e.table.Append(current, want)
	if err != nil {
		return current, err
	}
	e.logger.Debug("append style", "base", current, "index", i, "record", want.String())
	return i, nil
}
