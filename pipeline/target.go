package pipeline

import (
	"gonum.org/v1/gonum/mat"

	"github.com/YuminosukeSato/buildingml/dataset"
)

// targetVector copies the numeric target column. Rows reaching this point
// have passed the completeness gate, so no cell is missing.
func targetVector(ds *dataset.Dataset, target string) *mat.VecDense {
	col, _ := ds.Column(target)
	return mat.NewVecDense(col.Len(), col.Floats())
}
