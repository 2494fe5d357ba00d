package dataset

import (
	"slices"

	"github.com/YuminosukeSato/buildingml/pkg/errors"
)

// Field names a column and its semantic type.
type Field struct {
	Name string
	Kind Kind
}

// Schema is the ordered list of fields of a Dataset.
type Schema []Field

// Names returns the field names in order.
func (s Schema) Names() []string {
	names := make([]string, len(s))
	for i, f := range s {
		names[i] = f.Name
	}
	return names
}

// Lookup returns the field with the given name.
func (s Schema) Lookup(name string) (Field, bool) {
	for _, f := range s {
		if f.Name == name {
			return f, true
		}
	}
	return Field{}, false
}

// Require checks that every wanted field is present with the wanted
// kind. Absent fields are reported together in one MissingColumnsError;
// otherwise the first kind mismatch is a ColumnTypeError.
func (s Schema) Require(op string, want ...Field) error {
	var missing []string
	for _, w := range want {
		if _, ok := s.Lookup(w.Name); !ok && !slices.Contains(missing, w.Name) {
			missing = append(missing, w.Name)
		}
	}
	if len(missing) > 0 {
		return errors.NewMissingColumnsError(op, missing)
	}
	for _, w := range want {
		if f, _ := s.Lookup(w.Name); f.Kind != w.Kind {
			return errors.NewColumnTypeError(op, w.Name, w.Kind.String(), f.Kind.String())
		}
	}
	return nil
}

func (s Schema) validate() error {
	seen := make(map[string]struct{}, len(s))
	for _, f := range s {
		if f.Name == "" {
			return errors.NewValidationError("schema", "empty column name", f)
		}
		if _, dup := seen[f.Name]; dup {
			return errors.NewValidationError("schema", "duplicate column name", f.Name)
		}
		if f.Kind < Numeric || f.Kind > Text {
			return errors.NewValidationError("schema", "unknown column kind", f.Kind)
		}
		seen[f.Name] = struct{}{}
	}
	return nil
}

func sortedKeys(row Row) []string {
	keys := make([]string, 0, len(row))
	for k := range row {
		keys = append(keys, k)
	}
	slices.Sort(keys)
	return keys
}
