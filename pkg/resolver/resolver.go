// Package resolver determines the effective repository variant for the
// current process.
//
// Signals are consulted in a fixed order and the first valid one wins:
//
//  1. the marker file
//  2. the environment variable (REPOSITORY_TYPE by default)
//  3. the git branch (main, public, sandbox)
//  4. the default, private
//
// When no marker file exists at all, the resolved variant is written to it
// so later runs stop at step 1. A marker file with unrecognised content is
// skipped with a warning and never overwritten.
package resolver

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strings"

	log "github.com/sirupsen/logrus"

	"github.com/stockroom-app/variantd/pkg/branch"
	"github.com/stockroom-app/variantd/pkg/model"
	"github.com/stockroom-app/variantd/pkg/persister"
)

// DefaultEnvVar is the environment variable consulted after the marker file.
const DefaultEnvVar = "REPOSITORY_TYPE"

// DefaultMarkerFile is the marker file name relative to the repository root.
const DefaultMarkerFile = ".repository-type"

// Resolution is the outcome of a single Resolve call.
type Resolution struct {
	Variant model.Variant
	Source  model.Source
	// Branch is the checked-out branch, "" when unknown.
	Branch string
	// Adopted is set when the marker file was created by this call.
	Adopted  bool
	Warnings []string
}

// Consistency compares the resolved variant with the branch.
func (r Resolution) Consistency() branch.Consistency {
	return branch.Check(r.Variant, r.Branch)
}

// Resolver reads the resolution signals. Its zero value is not usable;
// MarkerPath must be set.
type Resolver struct {
	MarkerPath string
	EnvVar     string
	Branches   branch.Source
	// LookupEnv defaults to os.LookupEnv.
	LookupEnv func(string) (string, bool)
	Logger    log.FieldLogger
}

// Resolve returns the effective variant. It never fails: unusable signals
// are skipped and the default applies when nothing else does.
func (r *Resolver) Resolve(ctx context.Context) Resolution {
	res := Resolution{}
	logger := r.logger()

	if name, ok := r.currentBranch(ctx); ok {
		res.Branch = name
	}

	v, ok, markerMissing := r.fromMarker(&res)
	switch {
	case ok:
		res.Variant, res.Source = v, model.MarkerFileSource
	case r.fromEnv(&res, &v):
		res.Variant, res.Source = v, model.EnvironmentSource
	case r.fromBranch(res.Branch, &v):
		res.Variant, res.Source = v, model.BranchSource
	default:
		res.Variant, res.Source = model.DefaultVariant, model.DefaultSource
	}

	if markerMissing {
		if err := persister.WriteMarker(r.MarkerPath, res.Variant); err != nil {
			res.warn(logger, fmt.Sprintf("could not create marker file %s: %v", r.MarkerPath, err))
		} else {
			res.Adopted = true
			logger.WithFields(log.Fields{
				"path":    r.MarkerPath,
				"variant": res.Variant,
			}).Info("created marker file")
		}
	}

	logger.WithFields(log.Fields{
		"variant": res.Variant,
		"source":  res.Source,
		"branch":  res.Branch,
	}).Debug("resolved repository variant")
	return res
}

// fromMarker reports the marker variant if valid, and whether the file is
// missing altogether.
func (r *Resolver) fromMarker(res *Resolution) (v model.Variant, ok bool, missing bool) {
	data, err := os.ReadFile(r.MarkerPath)
	if errors.Is(err, fs.ErrNotExist) {
		return "", false, true
	}
	if err != nil {
		res.warn(r.logger(), fmt.Sprintf("could not read marker file %s: %v; ignoring it", r.MarkerPath, err))
		return "", false, false
	}
	v, err = model.ParseVariant(string(data))
	if err != nil {
		res.warn(r.logger(), fmt.Sprintf("marker file %s: %v; ignoring it", r.MarkerPath, err))
		return "", false, false
	}
	return v, true, false
}

func (r *Resolver) fromEnv(res *Resolution, out *model.Variant) bool {
	name := r.envVar()
	lookup := r.LookupEnv
	if lookup == nil {
		lookup = os.LookupEnv
	}
	raw, ok := lookup(name)
	if !ok || strings.TrimSpace(raw) == "" {
		return false
	}
	v, err := model.ParseVariant(raw)
	if err != nil {
		res.warn(r.logger(), fmt.Sprintf("environment variable %s: %v; ignoring it", name, err))
		return false
	}
	*out = v
	return true
}

func (r *Resolver) fromBranch(name string, out *model.Variant) bool {
	v, ok := branch.VariantFor(name)
	if ok {
		*out = v
	}
	return ok
}

func (r *Resolver) currentBranch(ctx context.Context) (string, bool) {
	if r.Branches == nil {
		return "", false
	}
	return r.Branches.Current(ctx)
}

func (r *Resolver) envVar() string {
	if r.EnvVar == "" {
		return DefaultEnvVar
	}
	return r.EnvVar
}

func (r *Resolver) logger() log.FieldLogger {
	if r.Logger == nil {
		return log.StandardLogger()
	}
	return r.Logger
}

func (res *Resolution) warn(logger log.FieldLogger, msg string) {
	res.Warnings = append(res.Warnings, msg)
	logger.Warn(msg)
}
