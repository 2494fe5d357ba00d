package preprocessing

import (
	"github.com/YuminosukeSato/buildingml/dataset"
)

// OneHotEncoder expands a categorical column into a block of 0/1 indicator
// columns. Unknown categories and missing cells produce an all-zero block.
type OneHotEncoder struct {
	// Column is the source column name.
	Column string

	// Categories lists the training categories in order of first appearance.
	Categories []string
}

// fitOneHot records categories in first-seen order. Missing cells are not
// categories.
func fitOneHot(col *dataset.Column) OneHotEncoder {
	seen := make(map[string]struct{})
	var categories []string
	for i := 0; i < col.Len(); i++ {
		if col.IsMissing(i) {
			continue
		}
		v := col.Str(i)
		if _, ok := seen[v]; ok {
			continue
		}
		seen[v] = struct{}{}
		categories = append(categories, v)
	}
	return OneHotEncoder{Column: col.Name(), Categories: categories}
}

// Width returns the number of output columns.
func (e OneHotEncoder) Width() int {
	return len(e.Categories)
}

// index maps each category to its position in the block.
func (e OneHotEncoder) index() map[string]int {
	m := make(map[string]int, len(e.Categories))
	for i, c := range e.Categories {
		m[c] = i
	}
	return m
}

// FeatureNames returns the output names as "column=category".
func (e OneHotEncoder) FeatureNames() []string {
	names := make([]string, len(e.Categories))
	for i, c := range e.Categories {
		names[i] = e.Column + "=" + c
	}
	return names
}
