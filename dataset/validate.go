package dataset

import (
	"slices"
	"strings"

	"github.com/YuminosukeSato/buildingml/pkg/errors"
)

// RequireColumns checks that every named column exists. The returned
// *errors.MissingColumnsError lists all absent columns, in request order
// and without duplicates.
func RequireColumns(d *Dataset, op string, names ...string) error {
	var missing []string
	for _, name := range names {
		if !d.Has(name) && !slices.Contains(missing, name) {
			missing = append(missing, name)
		}
	}
	if len(missing) > 0 {
		return errors.NewMissingColumnsError(op, missing)
	}
	return nil
}

// RequireKind returns the named column when it exists and has one of the
// accepted kinds, an UnknownColumnError or ColumnTypeError otherwise.
func RequireKind(d *Dataset, op, name string, kinds ...Kind) (*Column, error) {
	col, ok := d.Column(name)
	if !ok {
		return nil, errors.NewUnknownColumnError(op, name)
	}
	if slices.Contains(kinds, col.Kind()) {
		return col, nil
	}
	want := make([]string, len(kinds))
	for i, k := range kinds {
		want[i] = k.String()
	}
	return nil, errors.NewColumnTypeError(op, name, strings.Join(want, " or "), col.Kind().String())
}
