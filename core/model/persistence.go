// Package model persists trained artefacts as gob streams with a small
// header identifying what was written.
package model

import (
	"encoding/gob"
	"io"
	"os"

	"github.com/YuminosukeSato/buildingml/pkg/errors"
)

// FormatVersion は保存形式のバージョン。互換性のない変更で上げる。
const FormatVersion = 1

// header は各ストリームの先頭に書かれるメタデータ
type header struct {
	Kind    string
	Version int
}

// Save はモデルをio.Writerに保存する
//
// パラメータ:
//   - w: 保存先のWriter
//   - kind: モデルの種類（読み込み時に照合される）
//   - model: 保存するモデル（gobでエンコード可能な値）
//
// 戻り値:
//   - error: 保存に失敗した場合のエラー
func Save(w io.Writer, kind string, model any) error {
	enc := gob.NewEncoder(w)
	if err := enc.Encode(header{Kind: kind, Version: FormatVersion}); err != nil {
		return errors.Wrap(err, "failed to encode model header")
	}
	if err := enc.Encode(model); err != nil {
		return errors.Wrap(err, "failed to encode model")
	}
	return nil
}

// Load はio.Readerからモデルを読み込む
//
// ヘッダの種類やバージョンが一致しない場合は ModelError を返す。
//
// パラメータ:
//   - r: 読み込み元のReader
//   - kind: 期待するモデルの種類
//   - model: 読み込み先（ポインタ）
//
// 戻り値:
//   - error: 読み込みに失敗した場合のエラー
func Load(r io.Reader, kind string, model any) error {
	dec := gob.NewDecoder(r)
	var h header
	if err := dec.Decode(&h); err != nil {
		return errors.Wrap(err, "failed to decode model header")
	}
	if h.Kind != kind {
		return errors.NewModelError("model.Load", "kind mismatch",
			errors.Newf("stream holds %q, want %q", h.Kind, kind))
	}
	if h.Version != FormatVersion {
		return errors.NewModelError("model.Load", "unsupported version",
			errors.Newf("stream version %d, supported %d", h.Version, FormatVersion))
	}
	if err := dec.Decode(model); err != nil {
		return errors.Wrap(err, "failed to decode model")
	}
	return nil
}

// SaveFile はモデルをファイルに保存する
func SaveFile(filename, kind string, model any) (err error) {
	file, err := os.Create(filename)
	if err != nil {
		return errors.Wrap(err, "failed to create file")
	}
	defer func() {
		if cerr := file.Close(); cerr != nil && err == nil {
			err = errors.Wrap(cerr, "failed to close file")
		}
	}()
	return Save(file, kind, model)
}

// LoadFile はファイルからモデルを読み込む
func LoadFile(filename, kind string, model any) error {
	file, err := os.Open(filename)
	if err != nil {
		return errors.Wrap(err, "failed to open file")
	}
	defer file.Close()
	return Load(file, kind, model)
}
