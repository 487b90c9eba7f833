package main

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"

	toml "github.com/pelletier/go-toml/v2"
	"github.com/pkg/errors"
	yaml "gopkg.in/yaml.v3"

	"github.com/wdm0006/homeprice/pkg/knn"
	tbl "github.com/wdm0006/homeprice/pkg/table"
	"github.com/wdm0006/homeprice/pkg/transform/impute"
	outl "github.com/wdm0006/homeprice/pkg/transform/outliers"
	std "github.com/wdm0006/homeprice/pkg/transform/standardize"
	val "github.com/wdm0006/homeprice/pkg/transform/validate"
)

type IOConfig struct {
	Path      string `json:"path" yaml:"path" toml:"path"`
	Type      string `json:"type" yaml:"type" toml:"type"` // csv|jsonl|parquet, default by extension
	HasHeader *bool  `json:"has_header" yaml:"has_header" toml:"has_header"`
	Delimiter string `json:"delimiter" yaml:"delimiter" toml:"delimiter"`
}

// format resolves Type, falling back to the path extension.
func (c IOConfig) format() string {
	if c.Type != "" {
		return strings.ToLower(c.Type)
	}
	p := strings.TrimSuffix(strings.ToLower(c.Path), ".gz")
	switch filepath.Ext(p) {
	case ".parquet":
		return "parquet"
	case ".jsonl", ".ndjson":
		return "jsonl"
	}
	return "csv"
}

func (c IOConfig) delimiter() rune {
	if c.Delimiter == "" {
		return 0
	}
	return []rune(c.Delimiter)[0]
}

// StepConfig is one cleaning step run before imputation. Op selects the
// step; the other fields are read as that step needs them.
type StepConfig struct {
	Op      string            `json:"op" yaml:"op" toml:"op"`
	Column  string            `json:"column" yaml:"column" toml:"column"`
	Columns []string          `json:"columns" yaml:"columns" toml:"columns"`
	Values  []string          `json:"values" yaml:"values" toml:"values"`
	Map     map[string]string `json:"map" yaml:"map" toml:"map"`
	Pattern string            `json:"pattern" yaml:"pattern" toml:"pattern"`
	Replace string            `json:"replace" yaml:"replace" toml:"replace"`
	Min     *float64          `json:"min" yaml:"min" toml:"min"`
	Max     *float64          `json:"max" yaml:"max" toml:"max"`
}

type ImputeConfig struct {
	K           int    `json:"k" yaml:"k" toml:"k"`
	Metric      string `json:"metric" yaml:"metric" toml:"metric"`
	Parallelism int    `json:"parallelism" yaml:"parallelism" toml:"parallelism"`
}

type ModelConfig struct {
	Dataset string `json:"dataset" yaml:"dataset" toml:"dataset"`
	Target  string `json:"target" yaml:"target" toml:"target"`
	Impute  bool   `json:"impute" yaml:"impute" toml:"impute"`
}

type HousesConfig struct {
	InfoDir string `json:"info_dir" yaml:"info_dir" toml:"info_dir"`
}

type Config struct {
	Input   IOConfig     `json:"input" yaml:"input" toml:"input"`
	Output  IOConfig     `json:"output" yaml:"output" toml:"output"`
	Steps   []StepConfig `json:"steps" yaml:"steps" toml:"steps"`
	Impute  ImputeConfig `json:"impute" yaml:"impute" toml:"impute"`
	Model   ModelConfig  `json:"model" yaml:"model" toml:"model"`
	Houses  HousesConfig `json:"houses" yaml:"houses" toml:"houses"`
	Profile bool         `json:"profile" yaml:"profile" toml:"profile"`
}

// loadConfig reads a JSON, YAML or TOML config, picked by file extension.
func loadConfig(path string) (*Config, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.WithStack(err)
	}
	var cfg Config
	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".json", "":
		err = json.Unmarshal(b, &cfg)
	case ".yaml", ".yml":
		err = yaml.Unmarshal(b, &cfg)
	case ".toml":
		err = toml.Unmarshal(b, &cfg)
	default:
		return nil, errors.Errorf("unsupported config format %q", ext)
	}
	if err != nil {
		return nil, errors.Wrapf(err, "parse %s", path)
	}
	return &cfg, nil
}

func (c *Config) imputer() (*impute.KNN, error) {
	m := knn.Metric(strings.ToLower(c.Impute.Metric))
	switch m {
	case "", knn.Euclidean, knn.Manhattan:
	default:
		return nil, errors.Errorf("unknown metric %q", c.Impute.Metric)
	}
	if c.Impute.K < 0 {
		return nil, errors.Errorf("k must be positive, got %d", c.Impute.K)
	}
	return &impute.KNN{K: c.Impute.K, Metric: m, Parallelism: c.Impute.Parallelism}, nil
}

// pipeline assembles the cleaning steps followed by the imputer.
func (c *Config) pipeline() (*tbl.Pipeline, error) {
	p := tbl.NewPipeline()
	for i, s := range c.Steps {
		switch s.Op {
		case "drop":
			p.Add(&tbl.DropColumns{Columns: s.Columns})
		case "trim":
			p.Add(&std.Trim{Column: s.Column})
		case "lower":
			p.Add(&std.Lower{Column: s.Column})
		case "regex_replace":
			p.Add(&std.RegexReplace{Column: s.Column, Pattern: s.Pattern, Replace: s.Replace})
		case "map_values":
			p.Add(&std.MapValues{Column: s.Column, Map: s.Map})
		case "validate_in":
			p.Add(val.NewInSet(s.Column, s.Values))
		case "validate_range":
			p.Add(&val.Range{Column: s.Column, Min: s.Min, Max: s.Max})
		case "cap_range":
			p.Add(&outl.Cap{Column: s.Column, Min: s.Min, Max: s.Max})
		default:
			return nil, errors.Errorf("step %d: unknown op %q", i, s.Op)
		}
	}
	imp, err := c.imputer()
	if err != nil {
		return nil, err
	}
	return p.Add(imp), nil
}
