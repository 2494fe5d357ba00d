// Package pipeline wires cleaning, feature derivation, feature encoding,
// regression and evaluation into a single training run over a building
// dataset.
package pipeline

import (
	"time"

	"github.com/google/uuid"

	"github.com/YuminosukeSato/buildingml/cleaning"
	"github.com/YuminosukeSato/buildingml/dataset"
	"github.com/YuminosukeSato/buildingml/features"
	"github.com/YuminosukeSato/buildingml/linear"
	"github.com/YuminosukeSato/buildingml/metrics"
	"github.com/YuminosukeSato/buildingml/pkg/errors"
	"github.com/YuminosukeSato/buildingml/pkg/log"
	"github.com/YuminosukeSato/buildingml/preprocessing"
)

// Pipeline runs the configured stages. It holds no per-run state and may
// be reused.
type Pipeline struct {
	cfg     Config
	logger  log.Logger
	cleaner *cleaning.Cleaner
	deriver *features.Deriver
}

// Option configures a Pipeline.
type Option func(*Pipeline)

// WithLogger sets the logger shared by every stage.
func WithLogger(l log.Logger) Option {
	return func(p *Pipeline) { p.logger = l }
}

// New validates cfg and builds a Pipeline.
func New(cfg Config, opts ...Option) (*Pipeline, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	p := &Pipeline{cfg: cfg}
	for _, opt := range opts {
		opt(p)
	}
	if p.logger == nil {
		p.logger = log.GetLoggerWithName("pipeline")
	}

	p.cleaner = cleaning.New(cleaning.WithLogger(p.logger.With(log.ComponentKey, "cleaning")))
	deriver, err := features.NewDeriver(cfg.ReferenceYear,
		features.WithDateColumn(cfg.DateColumn),
		features.WithAgeColumn(cfg.AgeColumn),
		features.WithLogger(p.logger.With(log.ComponentKey, "features")),
	)
	if err != nil {
		return nil, err
	}
	p.deriver = deriver
	return p, nil
}

// Config returns the configuration the Pipeline was built with.
func (p *Pipeline) Config() Config { return p.cfg }

// Prepare runs the cleaning and feature derivation stages: fill steps,
// text cleaning and outlier steps in configured order, then datetime
// conversion and age derivation. Every configured column is checked
// before any stage runs. Unparsable dates are logged and become missing,
// which drops their rows at derivation.
func (p *Pipeline) Prepare(ds *dataset.Dataset) (*dataset.Dataset, error) {
	if err := dataset.RequireColumns(ds, "Pipeline.Prepare", p.cfg.requiredColumns()...); err != nil {
		return nil, err
	}

	var err error
	for _, s := range p.cfg.Fill {
		if ds, err = p.cleaner.FillMissing(ds, s.Column, s.Method); err != nil {
			return nil, errors.Wrapf(err, "fill step on '%s'", s.Column)
		}
	}
	for _, col := range p.cfg.TextColumns {
		if ds, err = p.cleaner.CleanText(ds, col); err != nil {
			return nil, errors.Wrapf(err, "text cleaning on '%s'", col)
		}
	}
	for _, s := range p.cfg.Outliers {
		if ds, err = p.cleaner.RemoveOutliers(ds, s.Column, s.Method); err != nil {
			return nil, errors.Wrapf(err, "outlier step on '%s'", s.Column)
		}
	}

	converted, err := p.cleaner.ConvertToDatetime(ds, p.cfg.DateColumn, p.cfg.dateFormat())
	var parseErr *errors.DateParseError
	switch {
	case err == nil:
	case converted != nil && errors.As(err, &parseErr):
		p.logger.Warn("Unparsable dates coerced to missing",
			log.ColumnKey, parseErr.Column,
			"failed", parseErr.Failed,
			"total", parseErr.Total,
		)
		errors.Warn(errors.NewDataConversionWarning(parseErr.Column,
			"values not matching "+parseErr.Format+" were set to missing"))
	default:
		return nil, errors.Wrap(err, "datetime conversion")
	}

	return p.deriver.Derive(converted)
}

// Run prepares ds, splits it, fits the feature transform and the
// regression on the train split and evaluates on the test split.
// Panics raised by numeric routines are returned as *errors.PanicError.
func (p *Pipeline) Run(ds *dataset.Dataset) (trained *TrainedModel, result metrics.Result, err error) {
	defer errors.Recover(&err, "Pipeline.Run")
	start := time.Now()

	p.logger.Info("Pipeline started",
		log.PhaseKey, "start",
		log.SamplesKey, ds.NumRows(),
		log.RandomSeedKey, p.cfg.Seed,
	)

	prepared, err := p.Prepare(ds)
	if err != nil {
		return nil, metrics.Result{}, err
	}
	if err := prepared.Schema().Require("Pipeline.Run", dataset.Field{Name: p.cfg.Target, Kind: dataset.Numeric}); err != nil {
		return nil, metrics.Result{}, err
	}

	train, test, err := dataset.TrainTestSplit(prepared, p.cfg.TestSize, p.cfg.Seed)
	if err != nil {
		return nil, metrics.Result{}, err
	}
	p.logger.Debug("Dataset split",
		log.PhaseKey, "split",
		"train_rows", train.NumRows(),
		"test_rows", test.NumRows(),
	)

	ft, err := preprocessing.Fit(train, p.cfg.Features)
	if err != nil {
		return nil, metrics.Result{}, err
	}
	XTrain, err := ft.Transform(train)
	if err != nil {
		return nil, metrics.Result{}, err
	}
	XTest, err := ft.Transform(test)
	if err != nil {
		return nil, metrics.Result{}, err
	}

	yTrain := targetVector(train, p.cfg.Target)
	yTest := targetVector(test, p.cfg.Target)

	reg, err := linear.Fit(XTrain, yTrain)
	if err != nil {
		return nil, metrics.Result{}, err
	}
	pred, err := reg.Predict(XTest)
	if err != nil {
		return nil, metrics.Result{}, err
	}
	result, err = metrics.Evaluate(yTest, pred)
	if err != nil {
		return nil, metrics.Result{}, err
	}

	trained = &TrainedModel{
		ID:         uuid.New(),
		Target:     p.cfg.Target,
		Transform:  ft,
		Regression: reg,
	}
	p.logger.Info("Pipeline finished",
		log.PhaseKey, "evaluate",
		log.EstimatorIDKey, trained.ID.String(),
		log.FeaturesKey, ft.NFeatures(),
		log.MSEKey, result.MSE,
		log.R2ScoreKey, result.R2,
		log.DurationMsKey, time.Since(start).Milliseconds(),
	)
	return trained, result, nil
}
