package dataset

import (
	"fmt"
	"math"
	"time"
)

// Kind is the semantic type of a column.
type Kind int

const (
	// Numeric columns hold float64 values.
	Numeric Kind = iota
	// Categorical columns hold a small set of repeated labels.
	Categorical
	// Datetime columns hold parsed timestamps.
	Datetime
	// Text columns hold free-form strings.
	Text
)

// String returns the lower-case name of the kind.
func (k Kind) String() string {
	switch k {
	case Numeric:
		return "numeric"
	case Categorical:
		return "categorical"
	case Datetime:
		return "datetime"
	case Text:
		return "text"
	default:
		return fmt.Sprintf("kind(%d)", int(k))
	}
}

// IsString reports whether values of the kind are stored as strings.
func (k Kind) IsString() bool {
	return k == Categorical || k == Text
}

// Column is an immutable, typed column with a validity mask.
// Only the slice matching the column's Kind is populated.
type Column struct {
	name  string
	kind  Kind
	nums  []float64
	strs  []string
	times []time.Time
	valid []bool
}

// NewNumericColumn creates a numeric column. NaN marks a missing cell.
func NewNumericColumn(name string, values []float64) *Column {
	c := &Column{
		name:  name,
		kind:  Numeric,
		nums:  make([]float64, len(values)),
		valid: make([]bool, len(values)),
	}
	for i, v := range values {
		c.nums[i] = v
		c.valid[i] = !math.IsNaN(v)
	}
	return c
}

// NewStringColumn creates a Categorical or Text column. valid marks present
// cells; a nil mask means every cell is present. It panics when kind is not
// a string kind or the mask length differs from the values.
func NewStringColumn(name string, kind Kind, values []string, valid []bool) *Column {
	if !kind.IsString() {
		panic(fmt.Sprintf("dataset: NewStringColumn called with %s kind", kind))
	}
	if valid != nil && len(valid) != len(values) {
		panic(fmt.Sprintf("dataset: column %q has %d values but %d mask entries", name, len(values), len(valid)))
	}
	c := &Column{
		name:  name,
		kind:  kind,
		strs:  append([]string(nil), values...),
		valid: make([]bool, len(values)),
	}
	for i := range values {
		c.valid[i] = valid == nil || valid[i]
		if !c.valid[i] {
			c.strs[i] = ""
		}
	}
	return c
}

// NewCategoricalColumn creates a Categorical column. See NewStringColumn.
func NewCategoricalColumn(name string, values []string, valid []bool) *Column {
	return NewStringColumn(name, Categorical, values, valid)
}

// NewTextColumn creates a Text column. See NewStringColumn.
func NewTextColumn(name string, values []string, valid []bool) *Column {
	return NewStringColumn(name, Text, values, valid)
}

// NewDatetimeColumn creates a Datetime column. The zero time marks a missing cell.
func NewDatetimeColumn(name string, values []time.Time) *Column {
	c := &Column{
		name:  name,
		kind:  Datetime,
		times: append([]time.Time(nil), values...),
		valid: make([]bool, len(values)),
	}
	for i, v := range values {
		c.valid[i] = !v.IsZero()
	}
	return c
}

// Name returns the column name.
func (c *Column) Name() string { return c.name }

// Kind returns the semantic type of the column.
func (c *Column) Kind() Kind { return c.kind }

// Len returns the number of cells.
func (c *Column) Len() int { return len(c.valid) }

// IsMissing reports whether cell i is missing.
func (c *Column) IsMissing(i int) bool { return !c.valid[i] }

// Float returns cell i of a numeric column, NaN when missing.
func (c *Column) Float(i int) float64 {
	if c.kind != Numeric || !c.valid[i] {
		return math.NaN()
	}
	return c.nums[i]
}

// Str returns cell i of a string column, "" when missing.
func (c *Column) Str(i int) string {
	if !c.kind.IsString() || !c.valid[i] {
		return ""
	}
	return c.strs[i]
}

// Time returns cell i of a datetime column, the zero time when missing.
func (c *Column) Time(i int) time.Time {
	if c.kind != Datetime || !c.valid[i] {
		return time.Time{}
	}
	return c.times[i]
}

// Value returns cell i as float64, string, time.Time, or nil when missing.
func (c *Column) Value(i int) any {
	if !c.valid[i] {
		return nil
	}
	switch c.kind {
	case Numeric:
		return c.nums[i]
	case Datetime:
		return c.times[i]
	default:
		return c.strs[i]
	}
}

// Floats returns a copy of a numeric column with NaN for missing cells.
func (c *Column) Floats() []float64 {
	out := make([]float64, c.Len())
	for i := range out {
		out[i] = c.Float(i)
	}
	return out
}

// Strings returns a copy of a string column with "" for missing cells.
func (c *Column) Strings() []string {
	out := make([]string, c.Len())
	for i := range out {
		out[i] = c.Str(i)
	}
	return out
}

// Times returns a copy of a datetime column with the zero time for missing cells.
func (c *Column) Times() []time.Time {
	out := make([]time.Time, c.Len())
	for i := range out {
		out[i] = c.Time(i)
	}
	return out
}

// Valid returns a copy of the validity mask.
func (c *Column) Valid() []bool {
	return append([]bool(nil), c.valid...)
}

// MissingCount returns the number of missing cells.
func (c *Column) MissingCount() int {
	n := 0
	for _, ok := range c.valid {
		if !ok {
			n++
		}
	}
	return n
}

// PresentFloats returns the non-missing values of a numeric column in row order.
func (c *Column) PresentFloats() []float64 {
	out := make([]float64, 0, c.Len())
	for i, ok := range c.valid {
		if ok && c.kind == Numeric {
			out = append(out, c.nums[i])
		}
	}
	return out
}

// take returns the column restricted to the given row indices.
func (c *Column) take(rows []int) *Column {
	out := &Column{name: c.name, kind: c.kind, valid: make([]bool, len(rows))}
	switch c.kind {
	case Numeric:
		out.nums = make([]float64, len(rows))
	case Datetime:
		out.times = make([]time.Time, len(rows))
	default:
		out.strs = make([]string, len(rows))
	}
	for j, i := range rows {
		out.valid[j] = c.valid[i]
		switch c.kind {
		case Numeric:
			out.nums[j] = c.nums[i]
		case Datetime:
			out.times[j] = c.times[i]
		default:
			out.strs[j] = c.strs[i]
		}
	}
	return out
}
