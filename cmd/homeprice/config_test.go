package main

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wdm0006/homeprice/pkg/knn"
)

func writeFile(t *testing.T, name, body string) string {
	t.Helper()
	p := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(p, []byte(body), 0o644))
	return p
}

const jsonConfig = `{
  "input": {"path": "in.csv"},
  "output": {"path": "out.parquet"},
  "steps": [{"op": "trim", "column": "ocean_proximity"}, {"op": "cap_range", "column": "rooms", "max": 50}],
  "impute": {"k": 3, "metric": "manhattan", "parallelism": 2},
  "model": {"dataset": "houses.csv", "impute": true}
}`

const yamlConfig = `
input:
  path: in.csv
output:
  path: out.parquet
steps:
  - op: trim
    column: ocean_proximity
  - op: cap_range
    column: rooms
    max: 50
impute:
  k: 3
  metric: manhattan
  parallelism: 2
model:
  dataset: houses.csv
  impute: true
`

const tomlConfig = `
[input]
path = "in.csv"

[output]
path = "out.parquet"

[[steps]]
op = "trim"
column = "ocean_proximity"

[[steps]]
op = "cap_range"
column = "rooms"
max = 50.0

[impute]
k = 3
metric = "manhattan"
parallelism = 2

[model]
dataset = "houses.csv"
impute = true
`

func TestLoadConfigFormats(t *testing.T) {
	for name, body := range map[string]string{
		"c.json": jsonConfig,
		"c.yaml": yamlConfig,
		"c.toml": tomlConfig,
	} {
		t.Run(name, func(t *testing.T) {
			cfg, err := loadConfig(writeFile(t, name, body))
			require.NoError(t, err)
			assert.Equal(t, "in.csv", cfg.Input.Path)
			assert.Equal(t, "csv", cfg.Input.format())
			assert.Equal(t, "parquet", cfg.Output.format())
			require.Len(t, cfg.Steps, 2)
			require.NotNil(t, cfg.Steps[1].Max)
			assert.Equal(t, 50.0, *cfg.Steps[1].Max)
			assert.Nil(t, cfg.Steps[1].Min)
			assert.Equal(t, ImputeConfig{K: 3, Metric: "manhattan", Parallelism: 2}, cfg.Impute)
			assert.True(t, cfg.Model.Impute)

			imp, err := cfg.imputer()
			require.NoError(t, err)
			assert.Equal(t, knn.Manhattan, imp.Metric)

			p, err := cfg.pipeline()
			require.NoError(t, err)
			assert.Equal(t, []string{"trim", "cap_range", "impute_knn"}, p.Steps())
		})
	}
}

func TestLoadConfigErrors(t *testing.T) {
	_, err := loadConfig(writeFile(t, "c.ini", "x=1"))
	assert.Error(t, err)
	_, err = loadConfig(writeFile(t, "c.json", "{"))
	assert.Error(t, err)
	_, err = loadConfig(filepath.Join(t.TempDir(), "missing.json"))
	assert.Error(t, err)

	cfg := &Config{Steps: []StepConfig{{Op: "shout"}}}
	_, err = cfg.pipeline()
	assert.ErrorContains(t, err, "shout")

	cfg = &Config{Impute: ImputeConfig{Metric: "cosine"}}
	_, err = cfg.imputer()
	assert.Error(t, err)
}

func TestFormatByExtension(t *testing.T) {
	assert.Equal(t, "parquet", IOConfig{Path: "x.PARQUET"}.format())
	assert.Equal(t, "csv", IOConfig{Path: "x.csv.gz"}.format())
	assert.Equal(t, "jsonl", IOConfig{Path: "x.ndjson.gz"}.format())
	assert.Equal(t, "parquet", IOConfig{Path: "x.csv", Type: "Parquet"}.format())
	assert.Equal(t, ';', IOConfig{Delimiter: ";"}.delimiter())
	assert.Equal(t, rune(0), IOConfig{}.delimiter())
}

func TestExampleConfigs(t *testing.T) {
	cfg, err := loadConfig("../../examples/config/impute.yaml")
	require.NoError(t, err)
	p, err := cfg.pipeline()
	require.NoError(t, err)
	assert.Equal(t, []string{"drop", "trim", "validate_in", "cap_range", "impute_knn"}, p.Steps())

	cfg, err = loadConfig("../../examples/config/menu.toml")
	require.NoError(t, err)
	assert.True(t, cfg.Model.Impute)
	assert.Equal(t, ".", cfg.Houses.InfoDir)
}
