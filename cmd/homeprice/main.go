// Command homeprice fills missing values in house datasets and runs the
// interactive house price registry.
package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"

	"go.uber.org/zap"

	"github.com/wdm0006/homeprice/pkg/estimate"
	"github.com/wdm0006/homeprice/pkg/house"
	"github.com/wdm0006/homeprice/pkg/log"
)

var version = "0.1.0-dev"

const usage = `usage: homeprice <command> [flags]

commands:
  impute   -config <file>   clean and KNN-impute a CSV or Parquet dataset
  menu     [-config <file>] interactive house registry
  version                   print version and exit
`

type usageError struct{ msg string }

func (e usageError) Error() string { return e.msg }

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	err := run(ctx, os.Args[1:], os.Stdin, os.Stdout)
	stop()
	log.Sync()
	switch err.(type) {
	case nil:
	case usageError:
		fmt.Fprintln(os.Stderr, err)
		fmt.Fprint(os.Stderr, usage)
		os.Exit(2)
	default:
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func run(ctx context.Context, args []string, in io.Reader, out io.Writer) error {
	if len(args) == 0 {
		return usageError{"no command given"}
	}
	fs := flag.NewFlagSet(args[0], flag.ContinueOnError)
	fs.SetOutput(io.Discard)
	configPath := fs.String("config", "", "path to config (JSON, YAML or TOML)")
	debug := fs.Bool("debug", false, "debug logging")
	if err := fs.Parse(args[1:]); err != nil {
		return usageError{err.Error()}
	}
	if err := log.SetLogger(*debug); err != nil {
		return err
	}

	cfg := &Config{}
	if *configPath != "" {
		var err error
		if cfg, err = loadConfig(*configPath); err != nil {
			return err
		}
	}

	switch args[0] {
	case "version":
		fmt.Fprintln(out, "homeprice", version)
		return nil
	case "impute":
		if *configPath == "" {
			return usageError{"impute needs -config"}
		}
		return runImpute(ctx, cfg, out)
	case "menu":
		var p pricer
		if cfg.Model.Dataset != "" {
			est, err := newEstimator(ctx, cfg)
			if err != nil {
				return err
			}
			p = est
		}
		return NewMenu(in, out, house.NewStore(), p, cfg.Houses.InfoDir).Run()
	default:
		return usageError{fmt.Sprintf("unknown command %q", args[0])}
	}
}

func newEstimator(ctx context.Context, cfg *Config) (*estimate.Estimator, error) {
	est := &estimate.Estimator{Target: cfg.Model.Target}
	if cfg.Model.Impute {
		imp, err := cfg.imputer()
		if err != nil {
			return nil, err
		}
		est.Imputer = imp
	}
	if err := est.FitFile(ctx, cfg.Model.Dataset); err != nil {
		return nil, err
	}
	log.Logger().Info("price model ready", zap.String("dataset", cfg.Model.Dataset))
	return est, nil
}
