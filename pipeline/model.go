package pipeline

import (
	"io"

	"github.com/google/uuid"
	"gonum.org/v1/gonum/mat"

	"github.com/YuminosukeSato/buildingml/core/model"
	"github.com/YuminosukeSato/buildingml/dataset"
	"github.com/YuminosukeSato/buildingml/linear"
	"github.com/YuminosukeSato/buildingml/preprocessing"
)

// modelKind tags persisted TrainedModel streams.
const modelKind = "buildingml.TrainedModel"

// TrainedModel is the output of a run: the fitted feature transform and
// the regression trained on it. It is not modified after creation.
type TrainedModel struct {
	ID         uuid.UUID
	Target     string
	Transform  *preprocessing.FittedTransform
	Regression *linear.Regression
}

// Predict transforms ds with the stored statistics and returns the
// predicted target for every row. ds must already carry the derived
// feature columns.
func (m *TrainedModel) Predict(ds *dataset.Dataset) (*mat.VecDense, error) {
	X, err := m.Transform.Transform(ds)
	if err != nil {
		return nil, err
	}
	return m.Regression.Predict(X)
}

// FeatureNames returns the names of the regression inputs.
func (m *TrainedModel) FeatureNames() []string {
	return m.Transform.FeatureNames()
}

// Save writes the model as a gob stream.
func (m *TrainedModel) Save(w io.Writer) error {
	return model.Save(w, modelKind, m)
}

// Load reads a model written by Save.
func Load(r io.Reader) (*TrainedModel, error) {
	var m TrainedModel
	if err := model.Load(r, modelKind, &m); err != nil {
		return nil, err
	}
	return &m, nil
}
