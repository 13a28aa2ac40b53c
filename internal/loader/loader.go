// Package loader reads cell library files from disk and merges them into one
// registry: read, validate against the CUE contract, decode, convert, merge.
package loader

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"runtime"
	"time"

	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"
	"gopkg.in/yaml.v3"

	"github.com/robert-at-pretension-io/celllib/internal/celllib"
	"github.com/robert-at-pretension-io/celllib/internal/schema"
	"github.com/robert-at-pretension-io/celllib/internal/validator"
)

// Loader turns library files into a CellLibrary.
type Loader struct {
	log         logrus.FieldLogger
	validator   *validator.Validator
	maxParallel int
}

// Option configures a Loader.
type Option func(*Loader)

// WithLogger sets the logger. Defaults to the logrus standard logger.
func WithLogger(log logrus.FieldLogger) Option {
	return func(l *Loader) { l.log = log }
}

// WithoutValidation skips the CUE contract check.
func WithoutValidation() Option {
	return func(l *Loader) { l.validator = nil }
}

// WithMaxParallel limits how many files are decoded at once (0 = GOMAXPROCS).
func WithMaxParallel(n int) Option {
	return func(l *Loader) { l.maxParallel = n }
}

// New creates a Loader that validates files unless WithoutValidation is given.
func New(opts ...Option) (*Loader, error) {
	v, err := validator.New()
	if err != nil {
		return nil, fmt.Errorf("init library validator: %w", err)
	}
	l := &Loader{
		log:       logrus.StandardLogger(),
		validator: v,
	}
	for _, opt := range opts {
		opt(l)
	}
	if l.maxParallel <= 0 {
		l.maxParallel = runtime.GOMAXPROCS(0)
	}
	return l, nil
}

// decoded is one file's contribution, kept in input order for merging.
type decoded struct {
	path  string
	proto *schema.CellLibraryProto
}

// Load reads every path and merges the entries into a single library, in path
// order then file order. A cell name defined twice, in the same file or across
// files, aborts the load with a DuplicateNameError.
func (l *Loader) Load(ctx context.Context, paths ...string) (*celllib.CellLibrary, error) {
	start := time.Now()
	files := make([]decoded, len(paths))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(l.maxParallel)
	for i, path := range paths {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			proto, err := l.LoadFile(path)
			if err != nil {
				return err
			}
			files[i] = decoded{path: path, proto: proto}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	lib := celllib.NewCellLibrary()
	sequential := 0
	for _, f := range files {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		before := lib.Len()
		if err := lib.AddProto(f.proto); err != nil {
			return nil, fmt.Errorf("%s: %w", f.path, err)
		}
		for _, entry := range lib.Entries()[before:] {
			if entry.IsSequential() {
				sequential++
			}
		}
		l.log.WithFields(logrus.Fields{
			"file":  f.path,
			"cells": lib.Len() - before,
		}).Debug("merged library file")
	}

	l.log.WithFields(logrus.Fields{
		"files":      len(paths),
		"cells":      lib.Len(),
		"sequential": sequential,
		"duration":   time.Since(start).Round(time.Millisecond),
	}).Info("loaded cell library")
	return lib, nil
}

// LoadFile reads, validates and decodes one library file without converting it.
func (l *Loader) LoadFile(path string) (*schema.CellLibraryProto, error) {
	format, err := schema.FormatFromPath(path)
	if err != nil {
		return nil, err
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading library file: %w", err)
	}

	if l.validator != nil {
		raw, err := asJSON(data, format)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", path, err)
		}
		if err := l.validator.ValidateJSON(raw); err != nil {
			return nil, fmt.Errorf("%s: %w", path, err)
		}
	}

	proto, err := schema.Decode(data, format)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	l.log.WithFields(logrus.Fields{
		"file":    path,
		"entries": len(proto.Entries),
	}).Debug("decoded library file")
	return proto, nil
}

// asJSON returns the payload as JSON so YAML files are checked by the same contract.
func asJSON(data []byte, format schema.Format) ([]byte, error) {
	if format == schema.FormatJSON {
		return data, nil
	}
	var doc interface{}
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("parsing YAML: %w", err)
	}
	if doc == nil {
		doc = map[string]interface{}{}
	}
	out, err := json.Marshal(doc)
	if err != nil {
		return nil, fmt.Errorf("re-encoding YAML as JSON: %w", err)
	}
	return out, nil
}
