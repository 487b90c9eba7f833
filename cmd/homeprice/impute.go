package main

import (
	"context"
	"io"
	"os"
	"path/filepath"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"go.uber.org/zap"

	"github.com/wdm0006/homeprice/pkg/io/csvio"
	"github.com/wdm0006/homeprice/pkg/io/jsonlio"
	"github.com/wdm0006/homeprice/pkg/io/parquetio"
	"github.com/wdm0006/homeprice/pkg/log"
	"github.com/wdm0006/homeprice/pkg/profile"
	tbl "github.com/wdm0006/homeprice/pkg/table"
)

func readFrame(c IOConfig) (*tbl.Frame, error) {
	switch c.format() {
	case "csv":
		header := c.HasHeader == nil || *c.HasHeader
		return csvio.ReadFile(c.Path, csvio.ReaderOptions{HasHeader: header, Delimiter: c.delimiter(), SampleRows: 100})
	case "jsonl":
		return jsonlio.ReadFile(c.Path, jsonlio.ReaderOptions{SampleRows: 100})
	case "parquet":
		return parquetio.ReadFile(c.Path)
	default:
		return nil, errors.Errorf("unsupported input type %q", c.Type)
	}
}

func writeFrame(c IOConfig, f *tbl.Frame) error {
	switch c.format() {
	case "csv":
		return csvio.WriteAll(c.Path, f, csvio.WriterOptions{Delimiter: c.delimiter()})
	case "jsonl":
		return jsonlio.WriteAll(c.Path, f)
	case "parquet":
		return parquetio.WriteAll(c.Path, f)
	default:
		return errors.Errorf("unsupported output type %q", c.Type)
	}
}

// writeAtomic writes to a hidden sibling of the output path and renames it
// into place, so a failed run never leaves a truncated output behind.
func writeAtomic(c IOConfig, f *tbl.Frame) error {
	if c.Path == "-" {
		return writeFrame(c, f)
	}
	final := c.Path
	c.Type = c.format()
	c.Path = filepath.Join(filepath.Dir(final), "."+uuid.NewString()+"."+filepath.Base(final))
	if err := writeFrame(c, f); err != nil {
		_ = os.Remove(c.Path)
		return err
	}
	return errors.WithStack(os.Rename(c.Path, final))
}

// runImpute loads the input, runs the cleaning steps and the KNN imputer,
// and writes the result. Profiles go to report when enabled.
func runImpute(ctx context.Context, cfg *Config, report io.Writer) error {
	if cfg.Input.Path == "" || cfg.Output.Path == "" {
		return errors.New("input.path and output.path are required")
	}
	p, err := cfg.pipeline()
	if err != nil {
		return err
	}
	f, err := readFrame(cfg.Input)
	if err != nil {
		return errors.Wrap(err, "read input")
	}
	before := profile.Collect(f)
	log.Logger().Info("loaded input",
		zap.String("path", cfg.Input.Path),
		zap.Int("rows", f.Rows()),
		zap.Strings("columns_with_missing", profile.WithMissing(before)))
	if cfg.Profile {
		profile.WriteTable(report, "Before imputation", before)
	}

	out, err := p.Run(ctx, f)
	if err != nil {
		return err
	}
	if cfg.Profile {
		profile.WriteTable(report, "After imputation", profile.Collect(out))
	}
	if err := writeAtomic(cfg.Output, out); err != nil {
		return errors.Wrap(err, "write output")
	}
	log.Logger().Info("wrote output",
		zap.String("path", cfg.Output.Path),
		zap.Strings("steps", p.Steps()))
	return nil
}
