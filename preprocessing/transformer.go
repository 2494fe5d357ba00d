// Package preprocessing turns dataset columns into the numeric design
// matrix consumed by the linear model: standard scaling for numerical
// columns and one-hot encoding for categorical ones.
package preprocessing

import (
	"fmt"

	"golang.org/x/sync/errgroup"
	"gonum.org/v1/gonum/mat"

	"github.com/YuminosukeSato/buildingml/core/parallel"
	"github.com/YuminosukeSato/buildingml/dataset"
	"github.com/YuminosukeSato/buildingml/pkg/errors"
	"github.com/YuminosukeSato/buildingml/pkg/log"
)

// ColumnSpec names the columns fed to the model.
type ColumnSpec struct {
	Numerical   []string
	Categorical []string
}

// Names returns numerical then categorical column names.
func (s ColumnSpec) Names() []string {
	names := make([]string, 0, len(s.Numerical)+len(s.Categorical))
	names = append(names, s.Numerical...)
	return append(names, s.Categorical...)
}

// Validate rejects empty specs, blank names and names listed twice.
func (s ColumnSpec) Validate() error {
	if len(s.Numerical)+len(s.Categorical) == 0 {
		return errors.NewValidationError("features", "at least one numerical or categorical column is required", s)
	}
	seen := make(map[string]struct{})
	for _, name := range s.Names() {
		if name == "" {
			return errors.NewValidationError("features", "column names must not be empty", s)
		}
		if _, dup := seen[name]; dup {
			return errors.NewValidationError("features", fmt.Sprintf("column '%s' is listed more than once", name), s)
		}
		seen[name] = struct{}{}
	}
	return nil
}

// FittedTransform holds the statistics learned by Fit. It is immutable
// and safe for concurrent use.
type FittedTransform struct {
	Spec     ColumnSpec
	Scalers  []StandardScaler
	Encoders []OneHotEncoder
}

// Fit learns scaling statistics for the numerical columns and category
// lists for the categorical columns of ds.
//
// Numerical columns must be Numeric without missing cells; categorical
// columns must be Categorical or Text. Absent columns are reported
// together in one *errors.MissingColumnsError before anything is
// computed. Every column is fitted on its own goroutine.
func Fit(ds *dataset.Dataset, spec ColumnSpec) (*FittedTransform, error) {
	const op = "preprocessing.Fit"

	if err := spec.Validate(); err != nil {
		return nil, err
	}
	if err := checkColumns(ds, op, spec); err != nil {
		return nil, err
	}
	if ds.NumRows() == 0 {
		return nil, errors.NewModelError(op, "empty data", errors.ErrEmptyData)
	}

	ft := &FittedTransform{
		Spec:     spec,
		Scalers:  make([]StandardScaler, len(spec.Numerical)),
		Encoders: make([]OneHotEncoder, len(spec.Categorical)),
	}

	var g errgroup.Group
	for i, name := range spec.Numerical {
		col, _ := ds.Column(name)
		g.Go(func() (err error) {
			defer errors.Recover(&err, "preprocessing.Fit("+name+")")
			s, err := fitScaler(col)
			if err != nil {
				return err
			}
			ft.Scalers[i] = s
			return nil
		})
	}
	for i, name := range spec.Categorical {
		col, _ := ds.Column(name)
		g.Go(func() (err error) {
			defer errors.Recover(&err, "preprocessing.Fit("+name+")")
			ft.Encoders[i] = fitOneHot(col)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	if ft.NFeatures() == 0 {
		return nil, errors.NewValidationError("features", "categorical columns have no present values", spec.Categorical)
	}

	log.GetLoggerWithName("preprocessing").Debug("Feature transform fitted",
		log.OperationKey, "fit",
		log.SamplesKey, ds.NumRows(),
		log.FeaturesKey, ft.NFeatures(),
	)
	return ft, nil
}

func checkColumns(ds *dataset.Dataset, op string, spec ColumnSpec) error {
	if err := dataset.RequireColumns(ds, op, spec.Names()...); err != nil {
		return err
	}
	for _, name := range spec.Numerical {
		if _, err := dataset.RequireKind(ds, op, name, dataset.Numeric); err != nil {
			return err
		}
	}
	for _, name := range spec.Categorical {
		if _, err := dataset.RequireKind(ds, op, name, dataset.Categorical, dataset.Text); err != nil {
			return err
		}
	}
	return nil
}

// NFeatures returns the number of output columns.
func (ft *FittedTransform) NFeatures() int {
	n := len(ft.Scalers)
	for _, e := range ft.Encoders {
		n += e.Width()
	}
	return n
}

// FeatureNames returns the output column names: numerical columns by
// name, then one "column=category" entry per fitted category.
func (ft *FittedTransform) FeatureNames() []string {
	names := make([]string, 0, ft.NFeatures())
	for _, s := range ft.Scalers {
		names = append(names, s.Column)
	}
	for _, e := range ft.Encoders {
		names = append(names, e.FeatureNames()...)
	}
	return names
}

// Transform builds the design matrix of ds with the fitted statistics.
// Categories not seen during Fit, and missing categorical cells, produce
// an all-zero block. A missing numerical cell is a *errors.ValueError.
func (ft *FittedTransform) Transform(ds *dataset.Dataset) (*mat.Dense, error) {
	const op = "preprocessing.Transform"

	if err := checkColumns(ds, op, ft.Spec); err != nil {
		return nil, err
	}
	n := ds.NumRows()
	if n == 0 {
		return nil, errors.NewModelError(op, "empty data", errors.ErrEmptyData)
	}

	numeric := make([]*dataset.Column, len(ft.Scalers))
	for j, s := range ft.Scalers {
		numeric[j], _ = ds.Column(s.Column)
		if numeric[j].MissingCount() > 0 {
			return nil, errors.NewValueError(op, "numerical column '"+s.Column+"' contains missing values")
		}
	}
	categorical := make([]*dataset.Column, len(ft.Encoders))
	indexes := make([]map[string]int, len(ft.Encoders))
	for j, e := range ft.Encoders {
		categorical[j], _ = ds.Column(e.Column)
		indexes[j] = e.index()
	}

	out := mat.NewDense(n, ft.NFeatures(), nil)
	parallel.ChunksAbove(n, parallel.DefaultThreshold, func(start, end int) {
		for i := start; i < end; i++ {
			for j, s := range ft.Scalers {
				out.Set(i, j, s.Apply(numeric[j].Float(i)))
			}
			offset := len(ft.Scalers)
			for j, e := range ft.Encoders {
				col := categorical[j]
				if !col.IsMissing(i) {
					if k, ok := indexes[j][col.Str(i)]; ok {
						out.Set(i, offset+k, 1)
					}
				}
				offset += e.Width()
			}
		}
	})
	return out, nil
}
