// Package dataset provides the in-memory columnar table consumed by the
// cleaning and modeling pipeline.
//
// A Dataset is an ordered set of equally long, immutable columns. Stages
// never modify a Dataset; they build a new one, sharing the columns they
// did not touch.
package dataset

import (
	"fmt"
	"math"
	"time"

	"github.com/YuminosukeSato/buildingml/pkg/errors"
)

// Dataset is an ordered collection of equally long columns.
type Dataset struct {
	columns []*Column
	index   map[string]int
	rows    int
}

// New assembles a Dataset. Column names must be unique and every column
// must have the same length.
func New(columns ...*Column) (*Dataset, error) {
	d := &Dataset{
		columns: make([]*Column, 0, len(columns)),
		index:   make(map[string]int, len(columns)),
	}
	for i, c := range columns {
		if c == nil {
			return nil, errors.NewValidationError("columns", "nil column", i)
		}
		if _, dup := d.index[c.Name()]; dup {
			return nil, errors.NewValidationError("columns", "duplicate column name", c.Name())
		}
		if i == 0 {
			d.rows = c.Len()
		} else if c.Len() != d.rows {
			return nil, errors.NewDimensionMismatchError("dataset.New("+c.Name()+")", d.rows, c.Len(), 0)
		}
		d.index[c.Name()] = len(d.columns)
		d.columns = append(d.columns, c)
	}
	return d, nil
}

// MustNew is like New but panics on error. Intended for tests and fixtures.
func MustNew(columns ...*Column) *Dataset {
	d, err := New(columns...)
	if err != nil {
		panic(err)
	}
	return d
}

// NumRows returns the number of rows.
func (d *Dataset) NumRows() int { return d.rows }

// NumColumns returns the number of columns.
func (d *Dataset) NumColumns() int { return len(d.columns) }

// Columns returns the column names in order.
func (d *Dataset) Columns() []string {
	names := make([]string, len(d.columns))
	for i, c := range d.columns {
		names[i] = c.Name()
	}
	return names
}

// Column returns the named column.
func (d *Dataset) Column(name string) (*Column, bool) {
	i, ok := d.index[name]
	if !ok {
		return nil, false
	}
	return d.columns[i], true
}

// Has reports whether the named column exists.
func (d *Dataset) Has(name string) bool {
	_, ok := d.index[name]
	return ok
}

// Schema returns the (name, kind) pairs of the dataset in column order.
func (d *Dataset) Schema() Schema {
	s := make(Schema, len(d.columns))
	for i, c := range d.columns {
		s[i] = Field{Name: c.Name(), Kind: c.Kind()}
	}
	return s
}

// WithColumn returns a new Dataset where col replaces the column of the
// same name, or is appended when no such column exists.
func (d *Dataset) WithColumn(col *Column) (*Dataset, error) {
	if d.NumColumns() > 0 && col.Len() != d.rows {
		return nil, errors.NewDimensionMismatchError("Dataset.WithColumn("+col.Name()+")", d.rows, col.Len(), 0)
	}
	cols := append([]*Column(nil), d.columns...)
	if i, ok := d.index[col.Name()]; ok {
		cols[i] = col
	} else {
		cols = append(cols, col)
	}
	return New(cols...)
}

// Take returns a new Dataset holding the given rows in the given order.
func (d *Dataset) Take(rows []int) *Dataset {
	cols := make([]*Column, len(d.columns))
	for i, c := range d.columns {
		cols[i] = c.take(rows)
	}
	out := &Dataset{columns: cols, index: make(map[string]int, len(cols)), rows: len(rows)}
	for i, c := range cols {
		out.index[c.Name()] = i
	}
	return out
}

// Filter returns a new Dataset holding the rows for which keep is true.
func (d *Dataset) Filter(keep func(row int) bool) *Dataset {
	rows := make([]int, 0, d.rows)
	for i := 0; i < d.rows; i++ {
		if keep(i) {
			rows = append(rows, i)
		}
	}
	return d.Take(rows)
}

// RowHasMissing reports whether any cell of row i is missing.
func (d *Dataset) RowHasMissing(i int) bool {
	for _, c := range d.columns {
		if c.IsMissing(i) {
			return true
		}
	}
	return false
}

// MissingCounts returns the number of missing cells per column.
func (d *Dataset) MissingCounts() map[string]int {
	counts := make(map[string]int, len(d.columns))
	for _, c := range d.columns {
		counts[c.Name()] = c.MissingCount()
	}
	return counts
}

// Row returns row i as a name → value map. Missing cells are nil.
func (d *Dataset) Row(i int) Row {
	r := make(Row, len(d.columns))
	for _, c := range d.columns {
		r[c.Name()] = c.Value(i)
	}
	return r
}

// Row is a single record keyed by column name.
type Row map[string]any

// FromRows builds a Dataset from records. Every row must contain exactly
// the schema's columns. Numeric cells accept any Go integer or float type,
// string cells accept string, datetime cells accept time.Time; nil marks a
// missing cell in any column.
func FromRows(schema Schema, rows []Row) (*Dataset, error) {
	if err := schema.validate(); err != nil {
		return nil, err
	}
	for r, row := range rows {
		if len(row) != len(schema) {
			return nil, errors.NewValidationError(fmt.Sprintf("rows[%d]", r), "row does not match the schema column set", sortedKeys(row))
		}
		for _, f := range schema {
			if _, ok := row[f.Name]; !ok {
				return nil, errors.NewValidationError(fmt.Sprintf("rows[%d]", r), "row is missing column "+f.Name, sortedKeys(row))
			}
		}
	}

	cols := make([]*Column, len(schema))
	for j, f := range schema {
		col, err := buildColumn(f, rows)
		if err != nil {
			return nil, err
		}
		cols[j] = col
	}
	return New(cols...)
}

func buildColumn(f Field, rows []Row) (*Column, error) {
	switch f.Kind {
	case Numeric:
		values := make([]float64, len(rows))
		for i, row := range rows {
			v, ok := toFloat(row[f.Name])
			if !ok {
				return nil, cellTypeError(f, i, row[f.Name])
			}
			values[i] = v
		}
		return NewNumericColumn(f.Name, values), nil
	case Datetime:
		values := make([]time.Time, len(rows))
		for i, row := range rows {
			switch v := row[f.Name].(type) {
			case nil:
			case time.Time:
				values[i] = v
			default:
				return nil, cellTypeError(f, i, v)
			}
		}
		return NewDatetimeColumn(f.Name, values), nil
	default:
		values := make([]string, len(rows))
		valid := make([]bool, len(rows))
		for i, row := range rows {
			switch v := row[f.Name].(type) {
			case nil:
			case string:
				values[i], valid[i] = v, true
			default:
				return nil, cellTypeError(f, i, v)
			}
		}
		return NewStringColumn(f.Name, f.Kind, values, valid), nil
	}
}

func cellTypeError(f Field, row int, v any) error {
	return errors.NewColumnTypeError(fmt.Sprintf("FromRows(row %d)", row), f.Name, f.Kind.String(), fmt.Sprintf("%T", v))
}

func toFloat(v any) (float64, bool) {
	switch x := v.(type) {
	case nil:
		return math.NaN(), true
	case float64:
		return x, true
	case float32:
		return float64(x), true
	case int:
		return float64(x), true
	case int8:
		return float64(x), true
	case int16:
		return float64(x), true
	case int32:
		return float64(x), true
	case int64:
		return float64(x), true
	case uint:
		return float64(x), true
	case uint8:
		return float64(x), true
	case uint16:
		return float64(x), true
	case uint32:
		return float64(x), true
	case uint64:
		return float64(x), true
	default:
		return 0, false
	}
}
