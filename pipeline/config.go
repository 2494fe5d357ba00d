package pipeline

import (
	"slices"

	"github.com/YuminosukeSato/buildingml/cleaning"
	"github.com/YuminosukeSato/buildingml/preprocessing"
	"github.com/YuminosukeSato/buildingml/pkg/errors"
)

// FillStep imputes the missing cells of one column.
type FillStep struct {
	Column string
	Method cleaning.FillMethod
}

// OutlierStep filters rows on one numeric column.
type OutlierStep struct {
	Column string
	Method cleaning.OutlierMethod
}

// Config describes one end-to-end training run. Every field is explicit;
// only DateFormat falls back to cleaning.DefaultDateFormat when empty.
type Config struct {
	Target        string
	Fill          []FillStep
	Outliers      []OutlierStep
	TextColumns   []string
	DateColumn    string
	DateFormat    string
	ReferenceYear int
	AgeColumn     string
	Features      preprocessing.ColumnSpec
	TestSize      float64
	Seed          uint64
}

// Validate checks the configuration without looking at any data.
func (c Config) Validate() error {
	if c.Target == "" {
		return errors.NewValidationError("target", "must not be empty", c.Target)
	}
	if c.DateColumn == "" {
		return errors.NewValidationError("dateColumn", "must not be empty", c.DateColumn)
	}
	if c.AgeColumn == "" {
		return errors.NewValidationError("ageColumn", "must not be empty", c.AgeColumn)
	}
	if c.ReferenceYear <= 0 {
		return errors.NewValidationError("referenceYear", "must be positive", c.ReferenceYear)
	}
	if !(c.TestSize > 0 && c.TestSize < 1) {
		return errors.NewValidationError("testSize", "must be in (0, 1)", c.TestSize)
	}
	for _, s := range c.Fill {
		if err := s.Method.Validate(); err != nil {
			return err
		}
	}
	for _, s := range c.Outliers {
		if err := s.Method.Validate(); err != nil {
			return err
		}
	}
	if err := c.Features.Validate(); err != nil {
		return err
	}
	if slices.Contains(c.Features.Names(), c.Target) {
		return errors.NewValidationError("features", "target column must not be a feature", c.Target)
	}
	return nil
}

// requiredColumns lists every input column the run reads, in the order
// they are configured. The age column is derived and therefore excluded.
func (c Config) requiredColumns() []string {
	names := []string{c.Target, c.DateColumn}
	for _, s := range c.Fill {
		names = append(names, s.Column)
	}
	names = append(names, c.TextColumns...)
	for _, s := range c.Outliers {
		names = append(names, s.Column)
	}
	for _, n := range c.Features.Names() {
		if n != c.AgeColumn {
			names = append(names, n)
		}
	}
	return names
}

func (c Config) dateFormat() string {
	if c.DateFormat == "" {
		return cleaning.DefaultDateFormat
	}
	return c.DateFormat
}
