// Copyright 2025, Tamás Gulácsi.
//
// SPDX-License-Identifier: Apache-2.0

// Command xlsxcell reads and writes typed cell values of xlsx files.
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
	"strconv"
	"strings"
	"syscall"
	"text/tabwriter"

	"cloud.google.com/go/civil"
	"github.com/UNO-SOFT/zlog/v2"
	"github.com/peterbourgon/ff/v3"
	"github.com/peterbourgon/ff/v3/ffcli"
	"github.com/peterbourgon/ff/v3/ffyaml"
	"go.uber.org/multierr"

	"github.com/UNO-SOFT/cellfmt"
	"github.com/UNO-SOFT/cellfmt/codec"
	"github.com/UNO-SOFT/cellfmt/numfmt"
	"github.com/UNO-SOFT/cellfmt/styles"
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
	options := []ff.Option{
		ff.WithEnvVarPrefix("XLSXCELL"),
		ff.WithConfigFileFlag("config"),
		ff.WithConfigFileParser(ffyaml.Parser),
		ff.WithAllowMissingConfigFile(true),
	}
	newFlagSet := func(name string) *flag.FlagSet {
		fs := flag.NewFlagSet(name, flag.ContinueOnError)
		fs.Var(&verbose, "v", "logging verbosity")
		fs.String("config", "", "YAML config file")
		return fs
	}
	out := os.Stdout

	getCmd := ffcli.Command{Name: "get", ShortUsage: "get file.xlsx Sheet!A1...",
		ShortHelp: "print the typed values of cells",
		FlagSet:   newFlagSet("get"), Options: options,
		Exec: func(ctx context.Context, args []string) error {
			if len(args) < 2 {
				return flag.ErrHelp
			}
			wb, err := xlsx.Open(args[0], xlsx.WithLogger(logger))
			if err != nil {
				return err
			}
			defer wb.Close()
			tw := tabwriter.NewWriter(out, 0, 8, 1, ' ', 0)
			for _, ref := range args[1:] {
				sheet, cell, err := splitRef(wb, ref)
				if err != nil {
					return err
				}
				v, err := wb.CellValue(sheet, cell)
				if err != nil {
					return err
				}
				printValue(tw, sheet+"!"+cell, v)
			}
			return tw.Flush()
		},
	}

	setFS := newFlagSet("set")
	flagFormat := setFS.String("format", "", "number format code (empty clears the format)")
	flagType := setFS.String("type", "auto", "value type: auto, string, integer, double, bool, date, datetime, time, empty")
	flagOut := setFS.String("o", "", "output file (default: overwrite the input)")
	flagLevel := setFS.Int("level", -1, "deflate compression level")
	flagCreate := setFS.Bool("create", false, "create the file if it does not exist")
	setCmd := ffcli.Command{Name: "set", ShortUsage: "set [flags] file.xlsx Sheet!A1 value",
		ShortHelp: "write a typed value with a number format into a cell",
		FlagSet:   setFS, Options: options,
		Exec: func(ctx context.Context, args []string) error {
			if len(args) < 2 || len(args) > 3 {
				return flag.ErrHelp
			}
			fn := args[0]
			opts := []xlsx.Option{xlsx.WithLogger(logger), xlsx.WithCompressionLevel(*flagLevel)}
			wb, err := xlsx.Open(fn, opts...)
			if err != nil {
				if !*flagCreate || !errors.Is(err, os.ErrNotExist) {
					return err
				}
				wb = xlsx.New(opts...)
			}
			defer wb.Close()
			sheet, cell, err := splitRef(wb, args[1])
			if err != nil {
				return err
			}
			if *flagCreate {
				if err = wb.AddSheet(sheet); err != nil {
					return err
				}
			}
			var raw string
			if len(args) > 2 {
				raw = args[2]
			}
			v, err := parseValue(*flagType, raw)
			if err != nil {
				return err
			}
			if err = wb.SetCellValue(sheet, cell, v, *flagFormat); err != nil {
				return err
			}
			logger.Debug("set", "sheet", sheet, "cell", cell, "type", v.Type, "format", *flagFormat)
			if *flagOut != "" {
				fn = *flagOut
			}
			return wb.SaveAs(fn)
		},
	}

	scanFS := newFlagSet("scan")
	flagSheet := scanFS.String("sheet", "", "sheet to scan (default: all)")
	flagStrict := scanFS.Bool("strict", false, "fail on malformed cells")
	scanCmd := ffcli.Command{Name: "scan", ShortUsage: "scan [flags] file.xlsx",
		ShortHelp: "print the typed values of all cells",
		FlagSet:   scanFS, Options: options,
		Exec: func(ctx context.Context, args []string) error {
			if len(args) != 1 {
				return flag.ErrHelp
			}
			wb, err := xlsx.Open(args[0], xlsx.WithLogger(logger))
			if err != nil {
				return err
			}
			defer wb.Close()
			sheets := wb.Sheets()
			if *flagSheet != "" {
				sheets = []string{*flagSheet}
			}
			tw := tabwriter.NewWriter(out, 0, 8, 1, ' ', 0)
			var errs error
			for _, sheet := range sheets {
				err := wb.Scan(sheet, func(cell string, v cellfmt.Value) error {
					if err := ctx.Err(); err != nil {
						return err
					}
					printValue(tw, sheet+"!"+cell, v)
					return nil
				})
				for _, err := range multierr.Errors(err) {
					if !errors.Is(err, cellfmt.ErrTypeWrong) {
						return multierr.Append(errs, err)
					}
					logger.Warn("malformed", "error", err)
					errs = multierr.Append(errs, err)
				}
			}
			if err := tw.Flush(); err != nil {
				return err
			}
			if *flagStrict {
				return errs
			}
			return nil
		},
	}

	formatsFS := newFlagSet("formats")
	flagBuiltIn := formatsFS.Bool("builtin", false, "list the built-in formats, too")
	formatsCmd := ffcli.Command{Name: "formats", ShortUsage: "formats [-builtin] file.xlsx",
		ShortHelp: "list the number formats",
		FlagSet:   formatsFS, Options: options,
		Exec: func(ctx context.Context, args []string) error {
			var list []numfmt.Format
			if *flagBuiltIn {
				list = numfmt.BuiltIns()
			}
			if len(args) > 0 {
				wb, err := xlsx.Open(args[0], xlsx.WithLogger(logger))
				if err != nil {
					return err
				}
				defer wb.Close()
				custom, err := wb.CustomFormats()
				if err != nil {
					return err
				}
				list = append(list, custom...)
			}
			tw := tabwriter.NewWriter(out, 0, 8, 1, ' ', 0)
			fmt.Fprintln(tw, "ID\tTYPE\tCODE")
			for _, f := range list {
				typ := numfmt.Infer(f.Code)
				if _, t, ok := numfmt.BuiltIn(f.ID); ok {
					typ = t
				}
				fmt.Fprintf(tw, "%d\t%s\t%s\n", f.ID, typ, f.Code)
			}
			return tw.Flush()
		},
	}

	stylesCmd := ffcli.Command{Name: "styles", ShortUsage: "styles file.xlsx",
		ShortHelp: "list the style table",
		FlagSet:   newFlagSet("styles"), Options: options,
		Exec: func(ctx context.Context, args []string) error {
			if len(args) != 1 {
				return flag.ErrHelp
			}
			wb, err := xlsx.Open(args[0], xlsx.WithLogger(logger))
			if err != nil {
				return err
			}
			defer wb.Close()
			rows, err := wb.StyleRows()
			if err != nil {
				return err
			}
			tw := tabwriter.NewWriter(out, 0, 8, 1, ' ', 0)
			fmt.Fprintln(tw, "INDEX\tNUMFMT\tTYPE\tFILL\tCODE")
			for _, r := range rows {
				fmt.Fprintf(tw, "%d\t%d\t%s\t%s\t%s\n", r.Index, r.NumFmt, r.Type, refString(r.Record.Fill), r.Code)
			}
			return tw.Flush()
		},
	}

	rootFS := newFlagSet("xlsxcell")
	app := ffcli.Command{Name: "xlsxcell", ShortUsage: "xlsxcell <subcommand> [flags] file.xlsx ...",
		FlagSet: rootFS, Options: options,
		Subcommands: []*ffcli.Command{&getCmd, &setCmd, &scanCmd, &formatsCmd, &stylesCmd},
		Exec: func(ctx context.Context, args []string) error {
			return flag.ErrHelp
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
	if err := app.Run(ctx); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return nil
		}
		return err
	}
	return nil
}

// splitRef splits "Sheet!A1" into sheet and cell; a bare "A1" means the first sheet.
func splitRef(wb *xlsx.Workbook, ref string) (sheet, cell string, err error) {
	if i := strings.LastIndexByte(ref, '!'); i >= 0 {
		sheet, cell = strings.Trim(ref[:i], "'"), ref[i+1:]
	} else {
		cell = ref
		if sheets := wb.Sheets(); len(sheets) != 0 {
			sheet = sheets[0]
		}
	}
	if _, _, err = xlsx.CellCoordinates(cell); err != nil {
		return "", "", fmt.Errorf("%q: %w", ref, err)
	}
	return sheet, cell, nil
}

func parseValue(typ, raw string) (cellfmt.Value, error) {
	switch strings.ToLower(typ) {
	case "", "auto":
		v := codec.DecodeGeneral(raw)
		if v.Type == cellfmt.Undefined && !v.IsEmpty {
			v = cellfmt.StringValue(raw)
		}
		return v, nil
	case "empty":
		return cellfmt.EmptyValue(cellfmt.Undefined), nil
	case "string", "str":
		return cellfmt.StringValue(raw), nil
	case "integer", "int":
		return codec.Decode(raw, cellfmt.Integer, cellfmt.NoFormat, "")
	case "double", "float", "number":
		return codec.Decode(raw, cellfmt.Double, cellfmt.NoFormat, "")
	case "bool", "boolean":
		return codec.Decode(raw, cellfmt.Boolean, cellfmt.NoFormat, "")
	case "date":
		d, err := civil.ParseDate(raw)
		if err != nil {
			return cellfmt.Value{}, fmt.Errorf("%q: %w", raw, err)
		}
		return cellfmt.DateValue(d), nil
	case "datetime":
		dt, err := civil.ParseDateTime(raw)
		if err != nil {
			return cellfmt.Value{}, fmt.Errorf("%q: %w", raw, err)
		}
		return cellfmt.DateTimeValue(dt), nil
	case "time":
		t, err := civil.ParseTime(raw)
		if err != nil {
			return cellfmt.Value{}, fmt.Errorf("%q: %w", raw, err)
		}
		return cellfmt.TimeValue(t), nil
	}
	return cellfmt.Value{}, fmt.Errorf("unknown type %q", typ)
}

func printValue(w io.Writer, ref string, v cellfmt.Value) {
	typ := v.Type.String()
	if v.IsEmpty {
		typ += "(empty)"
	}
	format := ""
	if v.FormatID != cellfmt.NoFormat {
		format = strconv.Itoa(v.FormatID)
		if v.FormatCode != "" {
			format += " " + strconv.Quote(v.FormatCode)
		}
	}
	fmt.Fprintf(w, "%s\t%s\t%s\t%s", ref, typ, v.AsString(), format)
	if v.Formula != "" {
		fmt.Fprintf(w, "\t=%s", v.Formula)
	}
	fmt.Fprintln(w)
}

func refString(r styles.Ref) string {
	if !r.IsSet() {
		return "-"
	}
	return strconv.Itoa(int(r))
}
