// Copyright 2020, 2025 Tamás Gulácsi.
//
// SPDX-License-Identifier: Apache-2.0

// Command csv2xlsx converts csv files into the sheets of an xlsx file.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"
	"time"

	"github.com/UNO-SOFT/zlog/v2"
	"github.com/klauspost/compress/flate"
	"github.com/peterbourgon/ff/v3"
	"github.com/peterbourgon/ff/v3/ffcli"

	"github.com/UNO-SOFT/cellfmt"
	"github.com/UNO-SOFT/cellfmt/xlsx"
)

var verbose zlog.VerboseVar
var logger = zlog.NewLogger(zlog.MaybeConsoleHandler(&verbose, os.Stderr)).SLog()

func main() {
	if err := Main(); err != nil {
		slog.Error("MAIN", "error", err)
		os.Exit(1)
	}
}

func Main() error {
	slog.SetDefault(logger)
	fs := flag.NewFlagSet("csv2xlsx", flag.ContinueOnError)
	fs.Var(&verbose, "v", "logging verbosity")
	flagEnc := fs.String("charset", cellfmt.EncName, "csv charset name")
	flagTyped := fs.Bool("typed", false, "write numbers and dates as typed cells")
	flagDateLayout := fs.String("date-layout", "2006-01-02", "layout of dates in the csv (with -typed)")
	flagDateFormat := fs.String("date-format", "yyyy-mm-dd", "number format of date columns (with -typed)")
	flagLevel := fs.Int("level", flate.DefaultCompression, "deflate compression level")

	app := ffcli.Command{Name: "csv2xlsx", FlagSet: fs,
		ShortUsage: "csv2xlsx [flags] out.xlsx [sheet:]in.csv...",
		Options:    []ff.Option{ff.WithEnvVarPrefix("CSV2XLSX")},
		Exec: func(ctx context.Context, args []string) error {
			if len(args) == 0 {
				return flag.ErrHelp
			}
			fn := args[0]
			fh := os.Stdout
			if !(fn == "" || fn == "-") {
				var err error
				if fh, err = os.Create(fn); err != nil {
					return err
				}
			}
			defer fh.Close()
			w := xlsx.NewWriter(fh, xlsx.WithLogger(logger), xlsx.WithCompressionLevel(*flagLevel))

			conv := converter{Typed: *flagTyped, DateLayout: *flagDateLayout, DateFormat: *flagDateFormat}
			inputs := args[1:]
			if len(inputs) == 0 {
				inputs = []string{"-"}
			}
			for i, fn := range inputs {
				sheetName := fmt.Sprintf("Sheet%d", i+1)
				if i := strings.IndexByte(fn, ':'); i >= 0 {
					sheetName, fn = fn[:i], fn[i+1:]
				} else if fn != "" && fn != "-" {
					sheetName = strings.TrimSuffix(filepath.Base(fn), ".csv")
				}
				if err := ctx.Err(); err != nil {
					return err
				}
				if err := conv.copyFile(w, sheetName, *flagEnc, fn); err != nil {
					return fmt.Errorf("%q: %w", fn, err)
				}
			}

			if err := w.Close(); err != nil {
				return err
			}
			return fh.Close()
		},
	}

	if err := app.Parse(os.Args[1:]); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return nil
		}
		return err
	}
	ctx, cancel := signal.NotifyContext(context.Background(),
		os.Interrupt, syscall.SIGTERM)
	defer cancel()
	if err := app.Run(ctx); err != nil && !errors.Is(err, flag.ErrHelp) {
		return err
	}
	return nil
}

type converter struct {
	DateLayout, DateFormat string
	Typed                  bool
}

func (conv converter) copyFile(w cellfmt.Writer, sheetName, encName, fn string) error {
	cr, err := cellfmt.OpenCsv(fn, encName)
	if err != nil {
		return err
	}
	defer cr.Close()

	row, err := cr.Read()
	if err != nil {
		return err
	}
	header := append([]string(nil), row...)

	// The first data row decides which columns hold dates.
	first, err := cr.Read()
	if err != nil && !errors.Is(err, io.EOF) {
		return err
	}
	first = append([]string(nil), first...)
	cols := make([]cellfmt.Column, len(header))
	for i, r := range header {
		cols[i].Name = r
		cols[i].Header.FontBold = true
		if conv.Typed && i < len(first) {
			if _, ok := conv.date(first[i]); ok {
				cols[i].Column.Format = conv.DateFormat
			}
		}
	}
	logger.Debug("sheet", "name", sheetName, "columns", header)
	sheet, err := w.NewSheet(sheetName, cols)
	if err != nil {
		return err
	}

	var rowI []any
	for n := 0; len(first) != 0; n++ {
		rowI = rowI[:0]
		for _, s := range first {
			rowI = append(rowI, conv.value(s))
		}
		if err = sheet.AppendRow(rowI...); err != nil {
			return fmt.Errorf("row %d: %w", n+2, err)
		}
		if first, err = cr.Read(); err != nil {
			if errors.Is(err, io.EOF) {
				break
			}
			return err
		}
	}
	return sheet.Close()
}

func (conv converter) date(s string) (time.Time, bool) {
	if s == "" || conv.DateLayout == "" {
		return time.Time{}, false
	}
	t, err := time.Parse(conv.DateLayout, s)
	return t, err == nil
}

func (conv converter) value(s string) any {
	if !conv.Typed {
		return s
	}
	if t, ok := conv.date(s); ok {
		return t
	}
	return cellfmt.Number(s)
}
