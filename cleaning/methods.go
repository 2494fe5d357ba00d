package cleaning

import (
	"slices"

	"github.com/YuminosukeSato/buildingml/pkg/errors"
)

// FillMethod selects the statistic used to impute missing cells.
type FillMethod string

const (
	FillMean   FillMethod = "mean"
	FillMedian FillMethod = "median"
	FillMode   FillMethod = "mode"
)

var fillMethods = []string{string(FillMean), string(FillMedian), string(FillMode)}

// ParseFillMethod converts a configuration string to a FillMethod.
func ParseFillMethod(s string) (FillMethod, error) {
	m := FillMethod(s)
	return m, m.Validate()
}

// Validate returns an InvalidMethodError for unknown methods.
func (m FillMethod) Validate() error {
	if !slices.Contains(fillMethods, string(m)) {
		return errors.NewInvalidMethodError("fill method", string(m), fillMethods)
	}
	return nil
}

// OutlierMethod selects the rule used to flag extreme values.
type OutlierMethod string

const (
	// OutlierIQR keeps values within 1.5 inter-quartile ranges of the quartiles.
	OutlierIQR OutlierMethod = "IQR"
	// OutlierZScore keeps values whose absolute z-score is below 3.
	OutlierZScore OutlierMethod = "Z-score"
)

var outlierMethods = []string{string(OutlierIQR), string(OutlierZScore)}

// ParseOutlierMethod converts a configuration string to an OutlierMethod.
func ParseOutlierMethod(s string) (OutlierMethod, error) {
	m := OutlierMethod(s)
	return m, m.Validate()
}

// Validate returns an InvalidMethodError for unknown methods.
func (m OutlierMethod) Validate() error {
	if !slices.Contains(outlierMethods, string(m)) {
		return errors.NewInvalidMethodError("outlier method", string(m), outlierMethods)
	}
	return nil
}
