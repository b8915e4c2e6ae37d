package dataset

import (
	"encoding/csv"
	"fmt"
	"os"
	"sort"
	"strconv"
	"strings"
)

// Column holds a single dataset column. Numeric columns keep parsed floats,
// text columns keep the raw strings. Missing marks empty cells either way.
type Column struct {
	Numeric bool
	Floats  []float64
	Strings []string
	Missing []bool
}

// Table is an in-memory, column-oriented view of a CSV file. Column order is
// preserved from the source file; engineered columns append at the end.
type Table struct {
	names []string
	cols  map[string]*Column
	rows  int
}

func NewTable() *Table {
	return &Table{cols: make(map[string]*Column)}
}

// ReadCSV loads a CSV file into a Table. Header names are lowercased. A column
// is treated as numeric when every non-empty cell parses as a float; empty
// cells are recorded as missing.
func ReadCSV(path string) (*Table, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open dataset: %w", err)
	}
	defer f.Close()

	r := csv.NewReader(f)
	records, err := r.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("read dataset: %w", err)
	}
	if len(records) == 0 {
		return nil, fmt.Errorf("dataset %s is empty", path)
	}

	header := records[0]
	body := records[1:]

	t := NewTable()
	t.rows = len(body)

	for i, name := range header {
		name = strings.ToLower(strings.TrimSpace(name))
		raw := make([]string, len(body))
		missing := make([]bool, len(body))
		numeric := true

		for j, rec := range body {
			cell := strings.TrimSpace(rec[i])
			raw[j] = cell
			if cell == "" {
				missing[j] = true
				continue
			}
			if _, err := strconv.ParseFloat(cell, 64); err != nil {
				numeric = false
			}
		}

		col := &Column{Numeric: numeric, Missing: missing}
		if numeric {
			col.Floats = make([]float64, len(body))
			for j, cell := range raw {
				if !missing[j] {
					col.Floats[j], _ = strconv.ParseFloat(cell, 64)
				}
			}
		} else {
			col.Strings = raw
		}

		t.names = append(t.names, name)
		t.cols[name] = col
	}

	return t, nil
}

func (t *Table) Len() int          { return t.rows }
func (t *Table) Columns() []string { return append([]string(nil), t.names...) }

func (t *Table) HasColumn(name string) bool {
	_, ok := t.cols[name]
	return ok
}

func (t *Table) column(name string) *Column {
	col, ok := t.cols[name]
	if !ok {
		panic(fmt.Sprintf("dataset: no column %q", name))
	}
	return col
}

// Float returns the numeric value at (name, row) and whether it is present.
func (t *Table) Float(name string, row int) (float64, bool) {
	col := t.column(name)
	if col.Missing[row] {
		return 0, false
	}
	return col.Floats[row], true
}

// String returns the text value at (name, row) and whether it is present.
func (t *Table) String(name string, row int) (string, bool) {
	col := t.column(name)
	if col.Missing[row] {
		return "", false
	}
	return col.Strings[row], true
}

// SetFloat fills a numeric cell, clearing its missing flag.
func (t *Table) SetFloat(name string, row int, v float64) {
	col := t.column(name)
	col.Floats[row] = v
	col.Missing[row] = false
}

// SetString fills a text cell, clearing its missing flag.
func (t *Table) SetString(name string, row int, v string) {
	col := t.column(name)
	col.Strings[row] = v
	col.Missing[row] = false
}

// AddFloatColumn appends a fully-populated numeric column.
func (t *Table) AddFloatColumn(name string, values []float64) {
	if len(values) != t.rows {
		panic(fmt.Sprintf("dataset: column %q has %d values, table has %d rows", name, len(values), t.rows))
	}
	t.names = append(t.names, name)
	t.cols[name] = &Column{
		Numeric: true,
		Floats:  values,
		Missing: make([]bool, t.rows),
	}
}

// DropColumns removes the named columns. Unknown names are ignored, matching
// the tolerant behavior the cleaning steps rely on.
func (t *Table) DropColumns(names ...string) {
	drop := make(map[string]bool, len(names))
	for _, n := range names {
		drop[n] = true
	}

	kept := t.names[:0]
	for _, n := range t.names {
		if drop[n] {
			delete(t.cols, n)
			continue
		}
		kept = append(kept, n)
	}
	t.names = kept
}

// FilterRows returns a new table containing only rows for which keep is true.
func (t *Table) FilterRows(keep func(row int) bool) *Table {
	var idx []int
	for i := 0; i < t.rows; i++ {
		if keep(i) {
			idx = append(idx, i)
		}
	}

	out := NewTable()
	out.rows = len(idx)
	out.names = append([]string(nil), t.names...)

	for _, name := range t.names {
		src := t.cols[name]
		dst := &Column{Numeric: src.Numeric, Missing: make([]bool, len(idx))}
		if src.Numeric {
			dst.Floats = make([]float64, len(idx))
			for j, i := range idx {
				dst.Floats[j] = src.Floats[i]
				dst.Missing[j] = src.Missing[i]
			}
		} else {
			dst.Strings = make([]string, len(idx))
			for j, i := range idx {
				dst.Strings[j] = src.Strings[i]
				dst.Missing[j] = src.Missing[i]
			}
		}
		out.cols[name] = dst
	}

	return out
}

// MissingCount reports how many cells of a column are empty.
func (t *Table) MissingCount(name string) int {
	col := t.column(name)
	n := 0
	for _, m := range col.Missing {
		if m {
			n++
		}
	}
	return n
}

// Mode returns the most frequent present value of a text column. Ties break
// alphabetically so the result is deterministic. ok is false when the column
// has no present values at all.
func (t *Table) Mode(name string) (string, bool) {
	col := t.column(name)
	counts := make(map[string]int)
	for i, s := range col.Strings {
		if !col.Missing[i] {
			counts[s]++
		}
	}
	if len(counts) == 0 {
		return "", false
	}

	values := make([]string, 0, len(counts))
	for v := range counts {
		values = append(values, v)
	}
	sort.Strings(values)

	best := values[0]
	for _, v := range values[1:] {
		if counts[v] > counts[best] {
			best = v
		}
	}
	return best, true
}

// NonNumericColumns lists columns still holding text values.
func (t *Table) NonNumericColumns() []string {
	var out []string
	for _, n := range t.names {
		if !t.cols[n].Numeric {
			out = append(out, n)
		}
	}
	return out
}

// Records flattens the table into JSON-friendly row maps.
func (t *Table) Records() []map[string]interface{} {
	out := make([]map[string]interface{}, t.rows)
	for i := 0; i < t.rows; i++ {
		rec := make(map[string]interface{}, len(t.names))
		for _, name := range t.names {
			col := t.cols[name]
			switch {
			case col.Missing[i]:
				rec[name] = nil
			case col.Numeric:
				rec[name] = col.Floats[i]
			default:
				rec[name] = col.Strings[i]
			}
		}
		out[i] = rec
	}
	return out
}

// WriteCSV saves the table. Floats are written in their shortest exact form so
// integral indicator columns stay readable.
func (t *Table) WriteCSV(path string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	defer f.Close()

	w := csv.NewWriter(f)
	if err := w.Write(t.names); err != nil {
		return err
	}

	row := make([]string, len(t.names))
	for i := 0; i < t.rows; i++ {
		for j, name := range t.names {
			col := t.cols[name]
			switch {
			case col.Missing[i]:
				row[j] = ""
			case col.Numeric:
				row[j] = strconv.FormatFloat(col.Floats[i], 'g', -1, 64)
			default:
				row[j] = col.Strings[i]
			}
		}
		if err := w.Write(row); err != nil {
			return err
		}
	}

	w.Flush()
	return w.Error()
}
