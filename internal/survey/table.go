package survey

import (
	"math"
	"strconv"
	"strings"
)

// naMarkers are the cell contents treated as "no answer".
var naMarkers = []string{"", "NA", "NaN", "<nil>"}

// Value is a single survey cell.
type Value struct {
	Raw     string  `json:"raw"`
	Num     float64 `json:"num,omitempty"`
	Numeric bool    `json:"numeric"`
	Missing bool    `json:"missing"`
}

// ParseValue classifies a raw cell. A present cell is numeric when its trimmed
// text parses as a finite float.
func ParseValue(raw string) Value {
	for _, m := range naMarkers {
		if raw == m {
			return Value{Raw: raw, Missing: true}
		}
	}
	v := Value{Raw: raw}
	if f, err := strconv.ParseFloat(strings.TrimSpace(raw), 64); err == nil && !math.IsInf(f, 0) && !math.IsNaN(f) {
		v.Num = f
		v.Numeric = true
	}
	return v
}

// String returns the display text of the cell.
func (v Value) String() string {
	if v.Missing {
		return ""
	}
	return v.Raw
}

// Record is one survey response aligned with Table.Columns.
type Record []Value

// Table is an immutable in-memory survey table.
type Table struct {
	Columns []string
	Records []Record
}

// NewTable builds a Table from a header and raw string rows. Rows shorter than
// the header are padded with missing cells; longer rows are truncated.
func NewTable(columns []string, rows [][]string) *Table {
	t := &Table{
		Columns: append([]string(nil), columns...),
		Records: make([]Record, 0, len(rows)),
	}
	for _, row := range rows {
		rec := make(Record, len(columns))
		for i := range columns {
			raw := ""
			if i < len(row) {
				raw = row[i]
			}
			rec[i] = ParseValue(raw)
		}
		t.Records = append(t.Records, rec)
	}
	return t
}

// Len returns the number of records.
func (t *Table) Len() int {
	if t == nil {
		return 0
	}
	return len(t.Records)
}

// Index returns the position of a column.
func (t *Table) Index(column string) (int, bool) {
	for i, c := range t.Columns {
		if c == column {
			return i, true
		}
	}
	return -1, false
}

// Column returns every value of the named column in record order.
func (t *Table) Column(column string) ([]Value, bool) {
	idx, ok := t.Index(column)
	if !ok {
		return nil, false
	}
	out := make([]Value, len(t.Records))
	for i, rec := range t.Records {
		out[i] = rec[idx]
	}
	return out, true
}

// Rows returns the table as display strings, header excluded.
func (t *Table) Rows() [][]string {
	out := make([][]string, len(t.Records))
	for i, rec := range t.Records {
		row := make([]string, len(rec))
		for j, v := range rec {
			row[j] = v.String()
		}
		out[i] = row
	}
	return out
}
