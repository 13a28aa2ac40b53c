// =============================================================================
// celllib - Cell Library Query Tool
// =============================================================================
//
// Loads cell library descriptions (JSON or YAML) into a registry and answers
// questions about them: what a sequential cell's internal state becomes under
// a given input, what a cell looks like, and what is structurally wrong with
// a library.
//
// THE PIPELINE:
//   1. Config resolves the library files (celllib.json or --library)
//   2. CUE Validator rejects malformed files at the door
//   3. Schema decode + conversion build the CellLibrary registry
//   4. Queries run against the first matching state-table row
//   5. Lint flattens the library to facts, runs SAT row analysis,
//      and evaluates OPA rules over the facts
// =============================================================================

package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/robert-at-pretension-io/celllib/internal/celllib"
	"github.com/robert-at-pretension-io/celllib/internal/config"
	"github.com/robert-at-pretension-io/celllib/internal/loader"
)

// errLintFailed is returned when lint finds error-severity violations. The
// violations are already printed, so main exits without repeating them.
var errLintFailed = errors.New("lint found errors")

// app carries state shared by every subcommand for one invocation.
type app struct {
	configPath string
	libraries  []string
	verbose    bool

	root string
	cfg  *config.Config
	log  *logrus.Logger
}

func main() {
	if err := newRootCmd().Execute(); err != nil {
		if !errors.Is(err, errLintFailed) {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		}
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	a := &app{}

	rootCmd := &cobra.Command{
		Use:           "celllib",
		Short:         "Query and lint cell library state tables",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return a.setup(cmd)
		},
	}

	flags := rootCmd.PersistentFlags()
	flags.StringVarP(&a.configPath, "config", "c", "", "config file (default: search celllib.json)")
	flags.StringArrayVarP(&a.libraries, "library", "l", nil, "library file to load (repeatable, overrides config)")
	flags.BoolVarP(&a.verbose, "verbose", "v", false, "enable debug logging")

	rootCmd.AddCommand(
		newInitCmd(a),
		newQueryCmd(a),
		newNextCmd(a),
		newShowCmd(a),
		newLintCmd(a),
		newFactsCmd(a),
		newDiffCmd(a),
		newConvertCmd(a),
	)
	return rootCmd
}

// setup loads configuration and configures logging.
func (a *app) setup(cmd *cobra.Command) error {
	a.root = "."
	if a.configPath != "" {
		cfg, err := config.LoadFile(a.configPath)
		if err != nil {
			return fmt.Errorf("loading config %s: %w", a.configPath, err)
		}
		a.cfg = cfg
		a.root = filepath.Dir(a.configPath)
	} else {
		cfg, err := config.Load(a.root)
		if err != nil {
			return err
		}
		a.cfg = cfg
	}

	a.log = logrus.New()
	a.log.SetOutput(cmd.ErrOrStderr())
	level, err := logrus.ParseLevel(a.cfg.Log.Level)
	if err != nil {
		return fmt.Errorf("log level: %w", err)
	}
	if a.verbose {
		level = logrus.DebugLevel
	}
	a.log.SetLevel(level)
	if a.cfg.Log.Format == "json" {
		a.log.SetFormatter(&logrus.JSONFormatter{})
	} else {
		a.log.SetFormatter(&logrus.TextFormatter{DisableTimestamp: true})
	}
	return nil
}

func (a *app) newLoader() (*loader.Loader, error) {
	opts := []loader.Option{loader.WithLogger(a.log)}
	if !a.cfg.ShouldValidate() {
		opts = append(opts, loader.WithoutValidation())
	}
	return loader.New(opts...)
}

// libraryFiles returns --library paths, or the files resolved from config.
func (a *app) libraryFiles() ([]string, error) {
	if len(a.libraries) > 0 {
		return a.libraries, nil
	}
	files, err := a.cfg.ResolveLibraries(a.root)
	if err != nil {
		return nil, err
	}
	if len(files) == 0 {
		return nil, fmt.Errorf("no library files found (use --library or configure \"libraries\" in %s)", config.FileName)
	}
	return files, nil
}

// loadLibrary loads and merges the configured library files.
func (a *app) loadLibrary(ctx context.Context) (*celllib.CellLibrary, error) {
	files, err := a.libraryFiles()
	if err != nil {
		return nil, err
	}
	l, err := a.newLoader()
	if err != nil {
		return nil, err
	}
	return l.Load(ctx, files...)
}
