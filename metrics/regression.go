// Package metrics scores regression predictions.
//
// Degenerate inputs (empty vectors, constant targets) give NaN plus an
// UndefinedMetricWarning instead of an error; only a length mismatch is
// an error.
package metrics

import (
	"math"

	"github.com/rs/zerolog"
	"gonum.org/v1/gonum/mat"

	"github.com/YuminosukeSato/buildingml/pkg/errors"
)

// Result は1回の評価結果（MSE と R²）
type Result struct {
	MSE float64
	R2  float64
}

// MarshalZerologObject はzerologのイベントに評価結果を追加します。
func (r Result) MarshalZerologObject(e *zerolog.Event) {
	e.Float64("mse", r.MSE).Float64("r2", r.R2)
}

// Evaluate は MSE と R² をまとめて計算する
//
// パラメータ:
//   - yTrue: 正解値
//   - yPred: 予測値
//
// 戻り値:
//   - Result: 評価結果
//   - error: 長さが異なる場合は LengthMismatchError
func Evaluate(yTrue, yPred mat.Vector) (Result, error) {
	if err := checkLengths("Evaluate", yTrue, yPred); err != nil {
		return Result{}, err
	}
	mse, _ := MSE(yTrue, yPred)
	r2, _ := R2Score(yTrue, yPred)
	return Result{MSE: mse, R2: r2}, nil
}

func checkLengths(op string, yTrue, yPred mat.Vector) error {
	if yTrue.Len() != yPred.Len() {
		return errors.NewLengthMismatchError(op, yTrue.Len(), yPred.Len())
	}
	return nil
}

// emptyResult は空入力の場合に警告を出して NaN を返す
func emptyResult(metric string) float64 {
	errors.Warn(errors.NewUndefinedMetricWarning(metric, "empty input", math.NaN()))
	return math.NaN()
}

// MSE は平均二乗誤差（Mean Squared Error）を計算する
func MSE(yTrue, yPred mat.Vector) (float64, error) {
	if err := checkLengths("MSE", yTrue, yPred); err != nil {
		return 0, err
	}
	n := yTrue.Len()
	if n == 0 {
		return emptyResult("MSE"), nil
	}

	// MSE = (1/n) * Σ(yTrue - yPred)²
	var sum float64
	for i := 0; i < n; i++ {
		diff := yTrue.AtVec(i) - yPred.AtVec(i)
		sum += diff * diff
	}
	return sum / float64(n), nil
}

// RMSE は平方根平均二乗誤差（Root Mean Squared Error）を計算する
func RMSE(yTrue, yPred mat.Vector) (float64, error) {
	mse, err := MSE(yTrue, yPred)
	if err != nil {
		return 0, err
	}
	return math.Sqrt(mse), nil
}

// MAE は平均絶対誤差（Mean Absolute Error）を計算する
func MAE(yTrue, yPred mat.Vector) (float64, error) {
	if err := checkLengths("MAE", yTrue, yPred); err != nil {
		return 0, err
	}
	n := yTrue.Len()
	if n == 0 {
		return emptyResult("MAE"), nil
	}

	var sum float64
	for i := 0; i < n; i++ {
		sum += math.Abs(yTrue.AtVec(i) - yPred.AtVec(i))
	}
	return sum / float64(n), nil
}

// R2Score は決定係数（R²）を計算する
//
// yTrue の分散がゼロの場合、R² は定義されないため NaN を返し、
// UndefinedMetricWarning を発生させる。
func R2Score(yTrue, yPred mat.Vector) (float64, error) {
	if err := checkLengths("R2Score", yTrue, yPred); err != nil {
		return 0, err
	}
	n := yTrue.Len()
	if n == 0 {
		return emptyResult("R2Score"), nil
	}

	var yMean float64
	for i := 0; i < n; i++ {
		yMean += yTrue.AtVec(i)
	}
	yMean /= float64(n)

	// 全変動（TSS）と残差変動（RSS）
	var tss, rss float64
	for i := 0; i < n; i++ {
		t := yTrue.AtVec(i)
		p := yPred.AtVec(i)
		tss += (t - yMean) * (t - yMean)
		rss += (t - p) * (t - p)
	}

	if tss == 0 {
		errors.Warn(errors.NewUndefinedMetricWarning("R2Score", "no variance in yTrue", math.NaN()))
		return math.NaN(), nil
	}

	// R² = 1 - RSS/TSS
	return 1 - rss/tss, nil
}
