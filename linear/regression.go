// Package linear implements ordinary least squares regression with an
// intercept.
package linear

import (
	"math"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"

	"github.com/YuminosukeSato/buildingml/core/parallel"
	"github.com/YuminosukeSato/buildingml/metrics"
	"github.com/YuminosukeSato/buildingml/pkg/errors"
)

// Regression は学習済みの線形回帰モデル
type Regression struct {
	Weights   *mat.VecDense // 重み（係数）
	Intercept float64       // 切片
	NFeatures int           // 特徴量の数
	Rank      int           // 中心化した X の実効ランク
}

// Fit は最小二乗法で y ≈ X·w + b を解く
//
// X と y を中心化し、薄い特異値分解による最小ノルム解を求める。
// one-hot ブロックのように列が線形従属でも解が定まる。
//
// パラメータ:
//   - X: n_samples × n_features の特徴量行列
//   - y: 長さ n_samples の目的変数
//
// 戻り値:
//   - *Regression: 学習済みモデル
//   - error: 空データ、次元の不一致、NaN/Inf を含む場合のエラー
func Fit(X mat.Matrix, y mat.Vector) (*Regression, error) {
	const op = "linear.Fit"

	r, c := X.Dims()
	if r == 0 || c == 0 {
		return nil, errors.NewModelError(op, "empty data", errors.ErrEmptyData)
	}
	if y.Len() != r {
		return nil, errors.NewDimensionMismatchError(op, r, y.Len(), 0)
	}
	if err := errors.CheckMatrix(op, X); err != nil {
		return nil, err
	}
	if err := errors.CheckMatrix(op, y); err != nil {
		return nil, err
	}

	xMean := make([]float64, c)
	for j := 0; j < c; j++ {
		for i := 0; i < r; i++ {
			xMean[j] += X.At(i, j)
		}
		xMean[j] /= float64(r)
	}
	yMean := floats.Sum(mat.Col(nil, 0, y)) / float64(r)

	// 並列処理の閾値以下の行数では逐次処理になる
	xc := mat.NewDense(r, c, nil)
	yc := mat.NewVecDense(r, nil)
	parallel.ChunksAbove(r, parallel.DefaultThreshold, func(start, end int) {
		for i := start; i < end; i++ {
			for j := 0; j < c; j++ {
				xc.Set(i, j, X.At(i, j)-xMean[j])
			}
			yc.SetVec(i, y.AtVec(i)-yMean)
		}
	})

	var svd mat.SVD
	if ok := svd.Factorize(xc, mat.SVDThin); !ok {
		return nil, errors.NewModelError(op, "SVD did not converge", errors.New("svd factorization failed"))
	}
	rcond := epsilon * float64(max(r, c))
	rank := svd.Rank(rcond)

	weights := mat.NewVecDense(c, nil)
	if rank > 0 {
		svd.SolveVecTo(weights, yc, rank)
	}

	intercept := yMean - mat.Dot(mat.NewVecDense(c, xMean), weights)
	if err := errors.CheckNumericalStability(op, append(mat.Col(nil, 0, weights), intercept)); err != nil {
		return nil, err
	}

	return &Regression{
		Weights:   weights,
		Intercept: intercept,
		NFeatures: c,
		Rank:      rank,
	}, nil
}

// epsilon は float64 のマシンイプシロン
var epsilon = math.Nextafter(1, 2) - 1

// Predict は X·w + b を返す
func (m *Regression) Predict(X mat.Matrix) (*mat.VecDense, error) {
	r, c := X.Dims()
	if c != m.NFeatures {
		return nil, errors.NewDimensionMismatchError("linear.Predict", m.NFeatures, c, 1)
	}
	if r == 0 {
		return nil, errors.NewModelError("linear.Predict", "empty data", errors.ErrEmptyData)
	}

	pred := mat.NewVecDense(r, nil)
	parallel.ChunksAbove(r, parallel.DefaultThreshold, func(start, end int) {
		for i := start; i < end; i++ {
			v := m.Intercept
			for j := 0; j < c; j++ {
				v += X.At(i, j) * m.Weights.AtVec(j)
			}
			pred.SetVec(i, v)
		}
	})
	return pred, nil
}

// Coefficients は重みのコピーを返す
func (m *Regression) Coefficients() []float64 {
	if m.Weights == nil {
		return nil
	}
	return append([]float64(nil), m.Weights.RawVector().Data...)
}

// Score はモデルの決定係数（R²）を計算する
func (m *Regression) Score(X mat.Matrix, y mat.Vector) (float64, error) {
	pred, err := m.Predict(X)
	if err != nil {
		return 0, err
	}
	return metrics.R2Score(y, pred)
}
