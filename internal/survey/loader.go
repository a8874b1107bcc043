package survey

import (
	"bytes"
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/go-gota/gota/dataframe"
	"github.com/go-gota/gota/series"
	"github.com/xuri/excelize/v2"
)

var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

// Load reads the survey export at path. The format is chosen by extension:
// .xlsx is read from the first sheet, anything else is parsed as CSV.
//
// A missing file yields ErrDataUnavailable. A file that exists but cannot be
// parsed yields ErrMalformed wrapping the parse failure.
func Load(ctx context.Context, path string) (*Table, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	info, err := os.Stat(path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("%w: %s", ErrDataUnavailable, path)
	}
	if err != nil {
		return nil, fmt.Errorf("stat survey file %s: %w", path, err)
	}
	if info.IsDir() {
		return nil, fmt.Errorf("%w: %s is a directory", ErrMalformed, path)
	}

	if strings.EqualFold(filepath.Ext(path), ".xlsx") {
		return loadXLSX(path)
	}
	return loadCSV(path)
}

func loadCSV(path string) (*Table, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read survey file %s: %w", path, err)
	}
	data = bytes.TrimPrefix(data, utf8BOM)
	return ParseCSV(data)
}

// ParseCSV parses a CSV document with a header row. Every column is kept as
// text; numeric interpretation happens per cell. Header names are kept as
// written, so duplicate or blank headers are not renamed, and a header-only
// document is an empty table.
func ParseCSV(data []byte) (*Table, error) {
	header, headerOnly, err := readHeader(data)
	if err != nil {
		return nil, err
	}
	if headerOnly {
		return NewTable(header, nil), nil
	}

	df := dataframe.ReadCSV(bytes.NewReader(data),
		dataframe.HasHeader(true),
		dataframe.DetectTypes(false),
		dataframe.DefaultType(series.String),
		dataframe.NaNValues(naMarkers),
	)
	if df.Err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformed, df.Err)
	}

	// gota rewrites duplicate and blank header names; only its rows are used
	records := df.Records()
	if len(records) == 0 {
		return nil, fmt.Errorf("%w: no header row", ErrMalformed)
	}
	return NewTable(header, records[1:]), nil
}

// readHeader returns the first record verbatim and whether nothing follows it.
func readHeader(data []byte) ([]string, bool, error) {
	r := csv.NewReader(bytes.NewReader(data))
	header, err := r.Read()
	if errors.Is(err, io.EOF) {
		return nil, false, fmt.Errorf("%w: no header row", ErrMalformed)
	}
	if err != nil {
		return nil, false, fmt.Errorf("%w: header: %v", ErrMalformed, err)
	}

	_, err = r.Read()
	return header, errors.Is(err, io.EOF), nil
}

func loadXLSX(path string) (*Table, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformed, err)
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, fmt.Errorf("%w: workbook has no sheets", ErrMalformed)
	}

	rows, err := f.GetRows(sheets[0])
	if err != nil {
		return nil, fmt.Errorf("%w: sheet %q: %v", ErrMalformed, sheets[0], err)
	}
	if len(rows) == 0 || len(rows[0]) == 0 {
		return nil, fmt.Errorf("%w: sheet %q has no header row", ErrMalformed, sheets[0])
	}
	return NewTable(rows[0], rows[1:]), nil
}
