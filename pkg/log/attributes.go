// Package log defines standard attribute keys for the cleaning and modeling pipeline.
//
// Keys follow a hierarchical naming convention ("data.samples",
// "metrics.r2_score") so that log analysis can filter by category.

package log

// Model and Operation Context
const (
	// ModelNameKey identifies the component type.
	// Examples: "LinearRegression", "ColumnTransformer", "Cleaner"
	ModelNameKey = "model.name"

	// EstimatorIDKey identifies a trained model instance.
	EstimatorIDKey = "estimator.id"

	// OperationKey specifies the operation being performed.
	// Standard values: "fill_missing", "remove_outliers", "fit", "transform", "predict", "evaluate"
	OperationKey = "ml.operation"

	// ComponentKey identifies which package is logging.
	ComponentKey = "ml.component"

	// PhaseKey indicates the pipeline phase.
	// Examples: "cleaning", "features", "training", "evaluation"
	PhaseKey = "ml.phase"
)

// Data Shape and Characteristics
const (
	// SamplesKey indicates the number of rows being processed.
	SamplesKey = "data.samples"

	// FeaturesKey indicates the number of feature columns.
	FeaturesKey = "data.features"

	// ColumnKey names the dataset column an operation applies to.
	ColumnKey = "data.column"

	// MethodKey names the statistic or policy used (mean, IQR, ...).
	MethodKey = "data.method"

	// RowsDroppedKey counts rows removed by a filtering step.
	RowsDroppedKey = "data.rows_dropped"

	// CellsFilledKey counts missing cells that were imputed.
	CellsFilledKey = "data.cells_filled"
)

// Performance Metrics
const (
	// DurationMsKey records the execution time of an operation in milliseconds.
	DurationMsKey = "perf.duration_ms"

	// MSEKey records the mean squared error of an evaluation.
	MSEKey = "metrics.mse"

	// R2ScoreKey records R² coefficient of determination for regression.
	R2ScoreKey = "metrics.r2_score"
)

// Configuration
const (
	// RandomSeedKey records the seed of the train/test split.
	RandomSeedKey = "config.random_seed"

	// ReferenceYearKey records the year used for age derivation.
	ReferenceYearKey = "config.reference_year"
)
