// Package buildingml cleans building inventory records and fits a linear
// rent model on them, designed for batch jobs and backend services that
// need reproducible tabular training runs in Go.
//
// The root package holds no code. The work is split across the packages
// listed below and is usually driven through pipeline.Pipeline.
//
// # Features
//
//   - Typed datasets: numeric, categorical, text and datetime columns with explicit missing cells
//   - Cleaning: mean/median/mode imputation, IQR and z-score outlier removal, text normalization
//   - Feature derivation: building age from a construction date
//   - Preprocessing: standard scaling and one-hot encoding fitted on the training split only
//   - Ordinary least squares via thin SVD, robust to collinear one-hot blocks
//   - Evaluation: MSE and R² with undefined-metric warnings instead of panics
//
// # Quick Start
//
//	ds, err := dataset.FromRows(dataset.Schema{
//	    {Name: "Construction Date", Kind: dataset.Text},
//	    {Name: "Bldg ANSI Usable", Kind: dataset.Numeric},
//	    {Name: "Region", Kind: dataset.Categorical},
//	    {Name: "Rent", Kind: dataset.Numeric},
//	}, rows)
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	p, err := pipeline.New(pipeline.Config{
//	    Target:        "Rent",
//	    Fill:          []pipeline.FillStep{{Column: "Bldg ANSI Usable", Method: cleaning.FillMedian}},
//	    Outliers:      []pipeline.OutlierStep{{Column: "Bldg ANSI Usable", Method: cleaning.OutlierIQR}},
//	    TextColumns:   []string{"Region"},
//	    DateColumn:    "Construction Date",
//	    ReferenceYear: 2023,
//	    AgeColumn:     "Building Age",
//	    Features: preprocessing.ColumnSpec{
//	        Numerical:   []string{"Bldg ANSI Usable", "Building Age"},
//	        Categorical: []string{"Region"},
//	    },
//	    TestSize: 0.2,
//	    Seed:     42,
//	})
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	trained, result, err := p.Run(ds)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	fmt.Printf("MSE=%.3f R²=%.3f\n", result.MSE, result.R2)
//
// # Packages
//
//   - dataset: Columnar tables, schemas, row construction and train/test split
//   - cleaning: Imputation, outlier filtering, date conversion and text cleanup
//   - features: Derived columns (building age)
//   - preprocessing: Scaling and one-hot encoding into a gonum matrix
//   - linear: Ordinary least squares regression
//   - metrics: Regression metrics (MSE, RMSE, MAE, R²)
//   - pipeline: End-to-end orchestration and the persisted TrainedModel
//   - config: YAML configuration loading and validation
//   - core/model: Versioned gob persistence
//   - core/parallel: Chunked parallel processing utilities
//   - pkg/errors, pkg/log: Error taxonomy and structured logging
//
// # Performance
//
// Row-wise work (centering, matrix assembly) is split across CPU cores once
// a dataset exceeds core/parallel.DefaultThreshold rows. Per-column fitting
// in preprocessing runs concurrently.
package buildingml
