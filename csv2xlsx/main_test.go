// Copyright 2025, Tamás Gulácsi.
//
// SPDX-License-Identifier: Apache-2.0

package main

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"
	"time"

	"cloud.google.com/go/civil"
	"github.com/google/go-cmp/cmp"

	"github.com/UNO-SOFT/cellfmt"
	"github.com/UNO-SOFT/cellfmt/xlsx"
)

func TestCopyFile(t *testing.T) {
	dir := t.TempDir()
	fn := filepath.Join(dir, "in.csv")
	if err := os.WriteFile(fn, []byte("day;amount;name\n2025-10-12;12,5;abc\n2025-10-13;3;\n"), 0644); err != nil {
		t.Fatal(err)
	}
	var buf bytes.Buffer
	w := xlsx.NewWriter(&buf)
	conv := converter{Typed: true, DateLayout: "2006-01-02", DateFormat: "yyyy-mm-dd"}
	if err := conv.copyFile(w, "in", "utf-8", fn); err != nil {
		t.Fatal(err)
	}
	if err := w.Close(); err != nil {
		t.Fatal(err)
	}

	wb, err := xlsx.OpenReader(bytes.NewReader(buf.Bytes()))
	if err != nil {
		t.Fatal(err)
	}
	defer wb.Close()
	for cell, want := range map[string]cellfmt.Value{
		"A1": cellfmt.StringValue("day"),
		"A2": cellfmt.DateValue(civil.Date{Year: 2025, Month: time.October, Day: 12}).WithFormat(164, "yyyy-mm-dd"),
		"A3": cellfmt.DateValue(civil.Date{Year: 2025, Month: time.October, Day: 13}).WithFormat(164, "yyyy-mm-dd"),
		"B2": cellfmt.FloatValue(12.5).WithFormat(0, ""),
		"B3": cellfmt.IntValue(3).WithFormat(0, ""),
		"C2": cellfmt.StringValue("abc"),
	} {
		got, err := wb.CellValue("in", cell)
		if err != nil {
			t.Errorf("%s: %+v", cell, err)
			continue
		}
		if d := cmp.Diff(want, got); d != "" {
			t.Errorf("%s: %s", cell, d)
		}
	}
}

func TestValue(t *testing.T) {
	plain := converter{}
	if got := plain.value("12"); got != "12" {
		t.Errorf("untyped: got %#v", got)
	}
	typed := converter{Typed: true, DateLayout: "2006-01-02"}
	if got := typed.value("12"); got != cellfmt.Number("12") {
		t.Errorf("typed: got %#v", got)
	}
	if got, ok := typed.value("2025-10-12").(time.Time); !ok || got.Day() != 12 {
		t.Errorf("typed date: got %#v", got)
	}
}
