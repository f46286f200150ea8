// Copyright 2025, Tamás Gulácsi.
//
// SPDX-License-Identifier: Apache-2.0

package xlsx

import (
	"io"

	"github.com/klauspost/compress/flate"
	"github.com/klauspost/compress/zip"
	"github.com/xuri/excelize/v2"
)

// newZipWriter returns an excelize.ZipWriter which deflates with the given level.
func newZipWriter(w io.Writer, level int) excelize.ZipWriter {
	zw := zip.NewWriter(w)
	zw.RegisterCompressor(zip.Deflate, func(out io.Writer) (io.WriteCloser, error) {
		return flate.NewWriter(out, level)
	})
	return zw
}

func validLevel(level int) bool {
	return level == flate.DefaultCompression || level == flate.HuffmanOnly ||
		(flate.NoCompression <= level && level <= flate.BestCompression)
}
