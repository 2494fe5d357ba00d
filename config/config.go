// Package config loads a training run description from YAML.
//
// Values are layered: built-in defaults first, then the file. The result
// is validated with struct tags before it is converted to a
// pipeline.Config.
package config

import (
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/confmap"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"

	"github.com/YuminosukeSato/buildingml/cleaning"
	"github.com/YuminosukeSato/buildingml/features"
	"github.com/YuminosukeSato/buildingml/pipeline"
	"github.com/YuminosukeSato/buildingml/pkg/errors"
	"github.com/YuminosukeSato/buildingml/pkg/log"
	"github.com/YuminosukeSato/buildingml/preprocessing"
)

// Defaults applied before the file is read.
const (
	DefaultLogLevel      = "info"
	DefaultReferenceYear = 2023
	DefaultTestSize      = 0.2
	DefaultSeed          = 42
)

// Config is the file representation of a training run.
type Config struct {
	LogLevel    string        `koanf:"log_level" validate:"oneof=debug info warn error"`
	Target      string        `koanf:"target" validate:"required"`
	Fill        []FillStep    `koanf:"fill" validate:"dive"`
	Outliers    []OutlierStep `koanf:"outliers" validate:"dive"`
	TextColumns []string      `koanf:"text_columns" validate:"dive,required"`
	Date        DateConfig    `koanf:"date"`
	Features    FeatureConfig `koanf:"features"`
	Split       SplitConfig   `koanf:"split"`
}

// FillStep is one imputation step.
type FillStep struct {
	Column string `koanf:"column" validate:"required"`
	Method string `koanf:"method" validate:"oneof=mean median mode"`
}

// OutlierStep is one outlier filtering step.
type OutlierStep struct {
	Column string `koanf:"column" validate:"required"`
	Method string `koanf:"method" validate:"oneof=IQR Z-score"`
}

// DateConfig describes the construction date column and the derived age.
type DateConfig struct {
	Column        string `koanf:"column" validate:"required"`
	Format        string `koanf:"format"`
	ReferenceYear int    `koanf:"reference_year" validate:"min=1"`
	AgeColumn     string `koanf:"age_column" validate:"required"`
}

// FeatureConfig lists the model inputs. At least one column is required
// across both lists.
type FeatureConfig struct {
	Numerical   []string `koanf:"numerical" validate:"dive,required"`
	Categorical []string `koanf:"categorical" validate:"dive,required"`
}

// SplitConfig controls the train/test split.
type SplitConfig struct {
	TestSize float64 `koanf:"test_size" validate:"gt=0,lt=1"`
	Seed     uint64  `koanf:"seed"`
}

func defaults() map[string]any {
	return map[string]any{
		"log_level":           DefaultLogLevel,
		"date.column":         features.DefaultDateColumn,
		"date.format":         cleaning.DefaultDateFormat,
		"date.reference_year": DefaultReferenceYear,
		"date.age_column":     features.DefaultAgeColumn,
		"split.test_size":     DefaultTestSize,
		"split.seed":          DefaultSeed,
	}
}

// Load reads the YAML file at path over the defaults and validates it.
func Load(path string) (*Config, error) {
	k := koanf.New(".")
	if err := k.Load(confmap.Provider(defaults(), "."), nil); err != nil {
		return nil, errors.Wrap(err, "failed to load defaults")
	}
	if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
		return nil, errors.Wrapf(err, "error reading config file %s", path)
	}

	var cfg Config
	if err := k.Unmarshal("", &cfg); err != nil {
		return nil, errors.Wrap(err, "unable to decode config")
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate checks the struct tags and the cross-field rules.
func (c *Config) Validate() error {
	err := newValidator().Struct(c)
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return errors.Wrap(err, "config validation")
	}
	fe := verrs[0]
	return errors.NewValidationError(fe.Namespace(), describe(fe), fe.Value())
}

func newValidator() *validator.Validate {
	v := validator.New()
	// Report koanf key names instead of Go field names.
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("koanf"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	v.RegisterStructValidation(func(sl validator.StructLevel) {
		f := sl.Current().Interface().(FeatureConfig)
		if len(f.Numerical)+len(f.Categorical) == 0 {
			sl.ReportError(f.Numerical, "numerical", "Numerical", "min_features", "")
		}
	}, FeatureConfig{})
	return v
}

func describe(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "is required"
	case "oneof":
		return "must be one of: " + fe.Param()
	case "min":
		return "must be at least " + fe.Param()
	case "gt":
		return "must be greater than " + fe.Param()
	case "lt":
		return "must be less than " + fe.Param()
	case "min_features":
		return "at least one numerical or categorical feature is required"
	default:
		return "failed '" + fe.Tag() + "' rule"
	}
}

// Level returns the configured log level.
func (c *Config) Level() log.Level {
	level, err := log.ParseLevel(c.LogLevel)
	if err != nil {
		return log.LevelInfo
	}
	return level
}

// SetupLogging installs a zerolog provider at the configured level as the
// global logger provider.
func (c *Config) SetupLogging() {
	log.SetProvider(log.NewZerologProvider(c.Level()))
}

// PipelineConfig converts the file representation to pipeline.Config.
func (c *Config) PipelineConfig() (pipeline.Config, error) {
	pc := pipeline.Config{
		Target:        c.Target,
		TextColumns:   c.TextColumns,
		DateColumn:    c.Date.Column,
		DateFormat:    c.Date.Format,
		ReferenceYear: c.Date.ReferenceYear,
		AgeColumn:     c.Date.AgeColumn,
		Features: preprocessing.ColumnSpec{
			Numerical:   c.Features.Numerical,
			Categorical: c.Features.Categorical,
		},
		TestSize: c.Split.TestSize,
		Seed:     c.Split.Seed,
	}
	for _, s := range c.Fill {
		m, err := cleaning.ParseFillMethod(s.Method)
		if err != nil {
			return pipeline.Config{}, err
		}
		pc.Fill = append(pc.Fill, pipeline.FillStep{Column: s.Column, Method: m})
	}
	for _, s := range c.Outliers {
		m, err := cleaning.ParseOutlierMethod(s.Method)
		if err != nil {
			return pipeline.Config{}, err
		}
		pc.Outliers = append(pc.Outliers, pipeline.OutlierStep{Column: s.Column, Method: m})
	}
	return pc, pc.Validate()
}
