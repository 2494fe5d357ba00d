package config

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/YuminosukeSato/buildingml/cleaning"
	"github.com/YuminosukeSato/buildingml/pkg/errors"
	"github.com/YuminosukeSato/buildingml/pkg/log"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "buildingml.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))
	return path
}

const fullConfig = `
log_level: debug
target: Rent
fill:
  - column: Bldg ANSI Usable
    method: median
  - column: Region
    method: mode
outliers:
  - column: Bldg ANSI Usable
    method: Z-score
text_columns: [Region]
date:
  column: Built
  format: "%Y-%m-%d"
  reference_year: 2024
  age_column: Age
features:
  numerical: [Bldg ANSI Usable, Age]
  categorical: [Region]
split:
  test_size: 0.3
  seed: 7
`

func TestLoad(t *testing.T) {
	cfg, err := Load(writeConfig(t, fullConfig))
	require.NoError(t, err)

	assert.Equal(t, "Rent", cfg.Target)
	assert.Equal(t, log.LevelDebug, cfg.Level())
	require.Len(t, cfg.Fill, 2)
	assert.Equal(t, "mode", cfg.Fill[1].Method)
	assert.Equal(t, "Z-score", cfg.Outliers[0].Method)
	assert.Equal(t, 2024, cfg.Date.ReferenceYear)
	assert.Equal(t, 0.3, cfg.Split.TestSize)
	assert.Equal(t, uint64(7), cfg.Split.Seed)

	pc, err := cfg.PipelineConfig()
	require.NoError(t, err)
	assert.Equal(t, cleaning.FillMedian, pc.Fill[0].Method)
	assert.Equal(t, cleaning.OutlierZScore, pc.Outliers[0].Method)
	assert.Equal(t, "Built", pc.DateColumn)
	assert.Equal(t, "%Y-%m-%d", pc.DateFormat)
	assert.Equal(t, []string{"Bldg ANSI Usable", "Age"}, pc.Features.Numerical)
}

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load(writeConfig(t, `
target: Rent
features:
  numerical: [Building Age]
`))
	require.NoError(t, err)

	assert.Equal(t, DefaultLogLevel, cfg.LogLevel)
	assert.Equal(t, "Construction Date", cfg.Date.Column)
	assert.Equal(t, cleaning.DefaultDateFormat, cfg.Date.Format)
	assert.Equal(t, DefaultReferenceYear, cfg.Date.ReferenceYear)
	assert.Equal(t, "Building Age", cfg.Date.AgeColumn)
	assert.Equal(t, DefaultTestSize, cfg.Split.TestSize)
	assert.Equal(t, uint64(DefaultSeed), cfg.Split.Seed)

	_, err = cfg.PipelineConfig()
	require.NoError(t, err)
}

func TestLoadValidation(t *testing.T) {
	tests := []struct {
		name  string
		body  string
		field string
	}{
		{"missing target", "features:\n  numerical: [a]\n", "target"},
		{"bad fill method", "target: y\nfill:\n  - column: a\n    method: max\nfeatures:\n  numerical: [a]\n", "method"},
		{"bad outlier method", "target: y\noutliers:\n  - column: a\n    method: zscore\nfeatures:\n  numerical: [a]\n", "method"},
		{"test size", "target: y\nsplit:\n  test_size: 1.5\nfeatures:\n  numerical: [a]\n", "test_size"},
		{"reference year", "target: y\ndate:\n  reference_year: 0\nfeatures:\n  numerical: [a]\n", "reference_year"},
		{"no features", "target: y\n", "numerical"},
		{"log level", "target: y\nlog_level: loud\nfeatures:\n  numerical: [a]\n", "log_level"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Load(writeConfig(t, tt.body))
			var ve *errors.ValidationError
			require.True(t, errors.As(err, &ve), "got %v", err)
			assert.Contains(t, ve.ParamName, tt.field)
		})
	}
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "absent.yaml"))
	require.Error(t, err)
}

func TestSetupLogging(t *testing.T) {
	t.Cleanup(func() { log.SetProvider(log.NewZerologProvider(log.LevelInfo)) })

	cfg := &Config{LogLevel: "warn"}
	cfg.SetupLogging()

	l := log.GetLoggerWithName("config")
	assert.False(t, l.Enabled(context.Background(), log.LevelInfo))
	assert.True(t, l.Enabled(context.Background(), log.LevelWarn))

	assert.Equal(t, log.LevelInfo, (&Config{LogLevel: "verbose"}).Level())
}
