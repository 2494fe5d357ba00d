// Package errors はプロジェクト全体のエラーハンドリングと警告システムを提供します。
// すべてのエラーは cockroachdb/errors でスタックトレースを付与され、errors.As で型判定できます。
package errors

import (
	"fmt"
	"log"
	"strings"
	"sync"

	"github.com/cockroachdb/errors"
	"github.com/rs/zerolog"
)

// ===========================================================================
//
//	グローバル警告ハンドリング
//
// ===========================================================================
var (
	warningMutex   sync.Mutex
	warningHandler = func(w error) {
		// デフォルトのハンドラは標準エラー出力にログを出す
		log.Printf("buildingml-Warning: %v\n", w)
	}
	// zerologロガー（循環importを避けるため遅延初期化）
	zerologWarnFunc func(warning error)
)

// SetWarningHandler はライブラリ全体の警告ハンドラを設定します。
//
// 例:
//
//	errors.SetWarningHandler(func(w error) {
//	    // 警告を無視する
//	})
func SetWarningHandler(handler func(w error)) {
	warningMutex.Lock()
	defer warningMutex.Unlock()
	warningHandler = handler
}

// SetZerologWarnFunc はzerolog警告関数を設定します（循環importを避けるため）。
// nil を渡すと従来のハンドラに戻ります。
func SetZerologWarnFunc(warnFunc func(warning error)) {
	warningMutex.Lock()
	defer warningMutex.Unlock()
	zerologWarnFunc = warnFunc
}

// Warn は警告を発生させます。
// zerologが設定されている場合は構造化ログとして出力し、そうでなければ従来のハンドラを使用します。
func Warn(w error) {
	warningMutex.Lock()
	defer warningMutex.Unlock()

	if zerologWarnFunc != nil {
		zerologWarnFunc(w)
		return
	}

	if warningHandler != nil {
		warningHandler(w)
	}
}

// ===========================================================================
//
//	警告型
//
// ===========================================================================

// UndefinedMetricWarning は評価指標が計算できない場合に発生する警告です。
// 例えば、真値の分散が0のときの決定係数など。
type UndefinedMetricWarning struct {
	Metric    string
	Condition string
	Result    float64 // この条件で返される値
}

func (w *UndefinedMetricWarning) Error() string {
	return fmt.Sprintf("'%s' is ill-defined and being set to %f due to %s.", w.Metric, w.Result, w.Condition)
}

// MarshalZerologObject はzerologのイベントに構造化された警告情報を追加します。
func (w *UndefinedMetricWarning) MarshalZerologObject(e *zerolog.Event) {
	e.Str("metric", w.Metric).
		Str("condition", w.Condition).
		Float64("result", w.Result).
		Str("type", "UndefinedMetricWarning")
}

// NewUndefinedMetricWarning は新しいUndefinedMetricWarningを作成します。
func NewUndefinedMetricWarning(metric, condition string, result float64) *UndefinedMetricWarning {
	return &UndefinedMetricWarning{Metric: metric, Condition: condition, Result: result}
}

// DataConversionWarning はデータの値が暗黙的に欠損値へ変換された場合の警告です。
type DataConversionWarning struct {
	Column string
	Reason string
}

func (w *DataConversionWarning) Error() string {
	return fmt.Sprintf("column '%s' left unchanged: %s", w.Column, w.Reason)
}

// MarshalZerologObject はzerologのイベントに構造化された警告情報を追加します。
func (w *DataConversionWarning) MarshalZerologObject(e *zerolog.Event) {
	e.Str("column", w.Column).
		Str("reason", w.Reason).
		Str("type", "DataConversionWarning")
}

// NewDataConversionWarning は新しいDataConversionWarningを作成します。
func NewDataConversionWarning(column, reason string) *DataConversionWarning {
	return &DataConversionWarning{Column: column, Reason: reason}
}

// ===========================================================================
//
//	データセット・列に関するエラー型
//
// ===========================================================================

// MissingColumnsError は必須列がデータセットに存在しない場合のエラーです。
// 最初の1列だけでなく、欠けている列をすべて列挙します。
type MissingColumnsError struct {
	Op      string
	Columns []string
}

func (e *MissingColumnsError) Error() string {
	quoted := make([]string, len(e.Columns))
	for i, c := range e.Columns {
		quoted[i] = fmt.Sprintf("'%s'", c)
	}
	return fmt.Sprintf("buildingml: %s: missing columns in the dataset: [%s]", e.Op, strings.Join(quoted, ", "))
}

// MarshalZerologObject はzerologのイベントに構造化されたエラー情報を追加します。
func (e *MissingColumnsError) MarshalZerologObject(event *zerolog.Event) {
	event.Str("operation", e.Op).
		Strs("columns", e.Columns).
		Str("type", "MissingColumnsError")
}

// NewMissingColumnsError は新しいMissingColumnsErrorを作成し、スタックトレースを付与します。
func NewMissingColumnsError(op string, columns []string) error {
	err := &MissingColumnsError{Op: op, Columns: columns}
	return errors.WithStack(err)
}

// UnknownColumnError は単一の操作対象列が存在しない場合のエラーです。
type UnknownColumnError struct {
	Op     string
	Column string
}

func (e *UnknownColumnError) Error() string {
	return fmt.Sprintf("buildingml: %s: column '%s' not found in the dataset", e.Op, e.Column)
}

// MarshalZerologObject はzerologのイベントに構造化されたエラー情報を追加します。
func (e *UnknownColumnError) MarshalZerologObject(event *zerolog.Event) {
	event.Str("operation", e.Op).
		Str("column", e.Column).
		Str("type", "UnknownColumnError")
}

// NewUnknownColumnError は新しいUnknownColumnErrorを作成し、スタックトレースを付与します。
func NewUnknownColumnError(op, column string) error {
	err := &UnknownColumnError{Op: op, Column: column}
	return errors.WithStack(err)
}

// ColumnTypeError は列の種類が操作の前提と一致しない場合のエラーです。
// 例えば、文字列列に対して平均値補完を行おうとした場合など。
type ColumnTypeError struct {
	Op       string
	Column   string
	Expected string
	Got      string
}

func (e *ColumnTypeError) Error() string {
	return fmt.Sprintf("buildingml: %s: column '%s' must be %s, got %s", e.Op, e.Column, e.Expected, e.Got)
}

// MarshalZerologObject はzerologのイベントに構造化されたエラー情報を追加します。
func (e *ColumnTypeError) MarshalZerologObject(event *zerolog.Event) {
	event.Str("operation", e.Op).
		Str("column", e.Column).
		Str("expected", e.Expected).
		Str("got", e.Got).
		Str("type", "ColumnTypeError")
}

// NewColumnTypeError は新しいColumnTypeErrorを作成し、スタックトレースを付与します。
func NewColumnTypeError(op, column, expected, got string) error {
	err := &ColumnTypeError{Op: op, Column: column, Expected: expected, Got: got}
	return errors.WithStack(err)
}

// InvalidMethodError は補完方法や外れ値検出方法などの列挙値が認識できない場合のエラーです。
type InvalidMethodError struct {
	Param   string
	Value   string
	Allowed []string
}

func (e *InvalidMethodError) Error() string {
	quoted := make([]string, len(e.Allowed))
	for i, a := range e.Allowed {
		quoted[i] = fmt.Sprintf("'%s'", a)
	}
	return fmt.Sprintf("buildingml: invalid %s '%s'. Please choose %s", e.Param, e.Value, strings.Join(quoted, ", "))
}

// MarshalZerologObject はzerologのイベントに構造化されたエラー情報を追加します。
func (e *InvalidMethodError) MarshalZerologObject(event *zerolog.Event) {
	event.Str("param", e.Param).
		Str("value", e.Value).
		Strs("allowed", e.Allowed).
		Str("type", "InvalidMethodError")
}

// NewInvalidMethodError は新しいInvalidMethodErrorを作成し、スタックトレースを付与します。
func NewInvalidMethodError(param, value string, allowed []string) error {
	err := &InvalidMethodError{Param: param, Value: value, Allowed: allowed}
	return errors.WithStack(err)
}

// DateParseError は日時への変換に失敗した値があった場合のエラーです。
// 行ごとに失敗させるのではなく、失敗件数と値のサンプルをまとめて報告します。
type DateParseError struct {
	Column  string
	Format  string
	Failed  int      // 変換に失敗した値の数
	Total   int      // 変換対象の値の数（欠損値を除く）
	Samples []string // 失敗した値の一部
}

func (e *DateParseError) Error() string {
	return fmt.Sprintf("buildingml: conversion error: %d of %d values in column '%s' do not match format '%s' (e.g. %q)",
		e.Failed, e.Total, e.Column, e.Format, e.Samples)
}

// MarshalZerologObject はzerologのイベントに構造化されたエラー情報を追加します。
func (e *DateParseError) MarshalZerologObject(event *zerolog.Event) {
	event.Str("column", e.Column).
		Str("format", e.Format).
		Int("failed", e.Failed).
		Int("total", e.Total).
		Strs("samples", e.Samples).
		Str("type", "DateParseError")
}

// NewDateParseError は新しいDateParseErrorを作成し、スタックトレースを付与します。
func NewDateParseError(column, format string, failed, total int, samples []string) error {
	err := &DateParseError{Column: column, Format: format, Failed: failed, Total: total, Samples: samples}
	return errors.WithStack(err)
}

// ===========================================================================
//
//	構造化されたエラー型
//
// ===========================================================================

// DimensionMismatchError は入力データの次元が期待値と異なる場合のエラーです。
type DimensionMismatchError struct {
	Op       string
	Expected int
	Got      int
	Axis     int // 0 for rows, 1 for columns/features
}

func (e *DimensionMismatchError) Error() string {
	axisName := "features"
	if e.Axis == 0 {
		axisName = "rows"
	}
	return fmt.Sprintf("buildingml: %s: dimension mismatch on axis %d (%s). Expected %d, got %d", e.Op, e.Axis, axisName, e.Expected, e.Got)
}

// MarshalZerologObject はzerologのイベントに構造化されたエラー情報を追加します。
func (e *DimensionMismatchError) MarshalZerologObject(event *zerolog.Event) {
	axisName := "features"
	if e.Axis == 0 {
		axisName = "rows"
	}
	event.Str("operation", e.Op).
		Int("expected", e.Expected).
		Int("got", e.Got).
		Int("axis", e.Axis).
		Str("axis_name", axisName).
		Str("type", "DimensionMismatchError")
}

// NewDimensionMismatchError は新しいDimensionMismatchErrorを作成し、スタックトレースを付与します。
func NewDimensionMismatchError(op string, expected, got, axis int) error {
	err := &DimensionMismatchError{Op: op, Expected: expected, Got: got, Axis: axis}
	return errors.WithStack(err)
}

// LengthMismatchError は評価対象の2つのベクトルの長さが異なる場合のエラーです。
type LengthMismatchError struct {
	Op       string
	Expected int
	Got      int
}

func (e *LengthMismatchError) Error() string {
	return fmt.Sprintf("buildingml: %s: length mismatch. yTrue has %d values, yPred has %d", e.Op, e.Expected, e.Got)
}

// MarshalZerologObject はzerologのイベントに構造化されたエラー情報を追加します。
func (e *LengthMismatchError) MarshalZerologObject(event *zerolog.Event) {
	event.Str("operation", e.Op).
		Int("expected", e.Expected).
		Int("got", e.Got).
		Str("type", "LengthMismatchError")
}

// NewLengthMismatchError は新しいLengthMismatchErrorを作成し、スタックトレースを付与します。
func NewLengthMismatchError(op string, expected, got int) error {
	err := &LengthMismatchError{Op: op, Expected: expected, Got: got}
	return errors.WithStack(err)
}

// ValidationError は入力パラメータの検証に失敗した場合のエラーです。
type ValidationError struct {
	ParamName string
	Reason    string
	Value     interface{}
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("buildingml: validation failed for parameter '%s': %s (got: %v)", e.ParamName, e.Reason, e.Value)
}

// MarshalZerologObject はzerologのイベントに構造化されたエラー情報を追加します。
func (e *ValidationError) MarshalZerologObject(event *zerolog.Event) {
	event.Str("param_name", e.ParamName).
		Str("reason", e.Reason).
		Interface("value", e.Value).
		Str("type", "ValidationError")
}

// NewValidationError は新しいValidationErrorを作成し、スタックトレースを付与します。
func NewValidationError(param, reason string, value interface{}) error {
	err := &ValidationError{ParamName: param, Reason: reason, Value: value}
	return errors.WithStack(err)
}

// ValueError は引数の値が不適切または不正な場合に発生するエラーです。
type ValueError struct {
	Op      string
	Message string
}

func (e *ValueError) Error() string {
	return fmt.Sprintf("buildingml: %s: %s", e.Op, e.Message)
}

// NewValueError は新しいValueErrorを作成し、スタックトレースを付与します。
func NewValueError(op, message string) error {
	err := &ValueError{Op: op, Message: message}
	return errors.WithStack(err)
}

// ModelError は機械学習モデルに関する一般的なエラーです。
type ModelError struct {
	Op   string
	Kind string
	Err  error
}

func (e *ModelError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("buildingml: %s: %s: %v", e.Op, e.Kind, e.Err)
	}
	return fmt.Sprintf("buildingml: %s: %s", e.Op, e.Kind)
}

func (e *ModelError) Unwrap() error {
	return e.Err
}

// NewModelError は新しいModelErrorを作成し、スタックトレースを付与します。
func NewModelError(op, kind string, err error) error {
	modelErr := &ModelError{Op: op, Kind: kind, Err: err}
	return errors.WithStack(modelErr)
}

// NumericalInstabilityError は数値計算の入力または結果にNaN・Infが含まれる場合のエラーです。
type NumericalInstabilityError struct {
	Operation string    // 発生した操作（例: "ols_fit"）
	Values    []float64 // 問題のある値
}

func (e *NumericalInstabilityError) Error() string {
	var b strings.Builder
	for i, v := range e.Values {
		if i > 0 {
			b.WriteString(", ")
		}
		if i >= 5 {
			b.WriteString("...")
			break
		}
		fmt.Fprintf(&b, "%.6g", v)
	}
	return fmt.Sprintf("buildingml: numerical instability detected in %s. Values: [%s]", e.Operation, b.String())
}

// NewNumericalInstabilityError は新しいNumericalInstabilityErrorを作成します。
func NewNumericalInstabilityError(operation string, values []float64) error {
	err := &NumericalInstabilityError{Operation: operation, Values: values}
	return errors.WithStack(err)
}

// ===========================================================================
//
//	cockroachdb/errors ラッパー関数
//
// ===========================================================================

// Is はエラーが特定のターゲットエラーかどうかを判定します。
func Is(err, target error) bool {
	return errors.Is(err, target)
}

// As はエラーが特定の型にキャスト可能かどうかを判定します。
func As(err error, target interface{}) bool {
	return errors.As(err, target)
}

// Wrap は既存のエラーをメッセージ付きでラップします。
func Wrap(err error, message string) error {
	return errors.Wrap(err, message)
}

// Wrapf は既存のエラーをフォーマット文字列でラップします。
func Wrapf(err error, format string, args ...interface{}) error {
	return errors.Wrapf(err, format, args...)
}

// New は新しいエラーを作成します。
func New(message string) error {
	return errors.New(message)
}

// Newf は新しいフォーマット済みエラーを作成します。
func Newf(format string, args ...interface{}) error {
	return errors.Newf(format, args...)
}

// WithStack はエラーにスタックトレースを付与します。
func WithStack(err error) error {
	return errors.WithStack(err)
}

// ===========================================================================
//
//	共通エラー変数
//
// ===========================================================================

var (
	// ErrEmptyData は空のデータが渡された場合のエラーです。
	ErrEmptyData = New("empty data")
)
