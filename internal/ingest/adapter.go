package ingest

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/hashicorp/go-multierror"
	"golang.org/x/sync/errgroup"
	"gopkg.in/yaml.v3"

	"github.com/svcinit/depengine/internal/service"
)

// parsedUnit is the result of reading and unmarshaling one unit file: its
// file name and path, plus either the decoded Unit or the error that
// occurred.
type parsedUnit struct {
	name string
	path string
	unit Unit
	err  error
}

// LoadDir reads every *.yaml/*.yml file in dir and adds the services they
// declare to registry. Files are read and parsed concurrently, one goroutine
// per file, the same fan-out-then-join shape the corpus uses for
// independent per-item fetches; the results are then applied to registry
// sequentially in filename order so registration stays deterministic
// regardless of which goroutine finished first.
//
// Per-file problems (malformed YAML, an empty name, a name already claimed
// by an earlier file in the batch) are collected rather than aborting the
// whole directory: the caller gets back one error that wraps every bad
// unit, via github.com/hashicorp/go-multierror, the same posture the
// corpus's mesh validators take when accumulating independent check
// failures before returning (properties P7/P8).
//
// Services that ingest cleanly are registered regardless of how many other
// files in the batch failed.
func LoadDir(registry *service.Registry, dir string) error {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return fmt.Errorf("ingest: read unit directory %s: %w", dir, err)
	}

	var names []string
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		ext := strings.ToLower(filepath.Ext(e.Name()))
		if ext == ".yaml" || ext == ".yml" {
			names = append(names, e.Name())
		}
	}
	sort.Strings(names)

	parsed := make([]parsedUnit, len(names))
	var g errgroup.Group
	for i, name := range names {
		i, name := i, name
		g.Go(func() error {
			path := filepath.Join(dir, name)
			u, err := parseUnitFile(path)
			parsed[i] = parsedUnit{name: name, path: path, unit: u, err: err}
			return nil
		})
	}
	_ = g.Wait() // per-file errors are carried in parsed[i].err, not returned here

	var errs *multierror.Error
	for _, p := range parsed {
		if p.err != nil {
			errs = multierror.Append(errs, fmt.Errorf("%s: %w", p.name, p.err))
			continue
		}
		if err := registerUnit(registry, p.unit, p.path); err != nil {
			errs = multierror.Append(errs, fmt.Errorf("%s: %w", p.name, err))
		}
	}

	return errs.ErrorOrNil()
}

// parseUnitFile reads and unmarshals one unit file. It does no registry
// mutation, so it is safe to call from any goroutine.
func parseUnitFile(path string) (Unit, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Unit{}, fmt.Errorf("%w: read: %v", service.ErrInvalidInput, err)
	}

	var u Unit
	if err := yaml.Unmarshal(data, &u); err != nil {
		return Unit{}, fmt.Errorf("%w: parse: %v", service.ErrInvalidInput, err)
	}

	if u.Name == "" {
		return Unit{}, fmt.Errorf("%w: missing name", service.ErrInvalidInput)
	}

	return u, nil
}

// registerUnit applies an already-parsed unit to registry. Registry mutation
// is not safe for concurrent use, so every call to this function happens on
// the single goroutine driving LoadDir's second pass.
func registerUnit(registry *service.Registry, u Unit, path string) error {
	if err := registry.Add(u.Name); err != nil {
		return err
	}

	if u.MTime != 0 {
		_ = registry.SetMTime(u.Name, u.MTime)
	} else if info, err := os.Stat(path); err == nil {
		_ = registry.SetMTime(u.Name, info.ModTime().Unix())
	}

	addAll(registry, u.Name, u.Need, service.Need)
	addAll(registry, u.Name, u.Use, service.Use)
	addAll(registry, u.Name, u.Before, service.Before)
	addAll(registry, u.Name, u.After, service.After)
	addAll(registry, u.Name, u.Provides, service.Provide)

	return nil
}

func addAll(registry *service.Registry, name string, peers []string, kind service.RelationKind) {
	for _, peer := range peers {
		if peer == "" {
			continue
		}
		_ = registry.AddDependency(name, peer, kind)
	}
}
