// Copyright 2025 walteh LLC
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package operation

import (
	"context"
	"time"

	"github.com/rs/zerolog"
	"github.com/walteh/rewriterc/pkg/config"
	"github.com/walteh/rewriterc/pkg/status"
	"gitlab.com/tozd/go/errors"
)

// 🏃 OperationRunner executes operations one after another
type OperationRunner struct {
	logger *zerolog.Logger
}

// 🏗️ NewRunner creates a new runner
func NewRunner(logger *zerolog.Logger) *OperationRunner {
	return &OperationRunner{logger: logger}
}

// 🏃 Run executes operations in order and stops at the first failure. Later
// operations see what earlier ones wrote.
func (r *OperationRunner) Run(ctx context.Context, ops ...Operation) error {
	for _, op := range ops {
		if err := ctx.Err(); err != nil {
			return errors.Errorf("operation cancelled: %w", err)
		}
		r.logger.Debug().Str("operation", op.Name()).Msg("running operation")
		if err := op.Execute(ctx); err != nil {
			return err
		}
	}
	return nil
}

// 🔧 RunOptions configures a complete run
type RunOptions struct {
	Config *config.Config
	// Pipelines limits the run to the named pipelines, empty runs all
	Pipelines []string
	// Root overrides the config's root
	Root string
	// DryRun holds writes in memory
	DryRun bool
	// Reporter is optional
	Reporter Reporter
}

// 📊 Result is the outcome of a complete run
type Result struct {
	Files     *status.Manager
	Pipelines []string
	StartedAt time.Time
}

// 🚀 Run applies the selected pipelines of a config, in config order
func Run(ctx context.Context, opts RunOptions) (*Result, error) {
	if opts.Config == nil {
		return nil, errors.New("config is required")
	}
	logger := zerolog.Ctx(ctx)

	root, err := opts.Config.ResolveRoot(opts.Root)
	if err != nil {
		return nil, err
	}
	pipelines, err := opts.Config.Select(opts.Pipelines)
	if err != nil {
		return nil, err
	}

	result := &Result{
		Files:     status.New(root, opts.DryRun),
		StartedAt: time.Now(),
	}

	ops := make([]Operation, 0, len(pipelines))
	for _, p := range pipelines {
		op, err := NewPipelineOperation(Options{
			Pipeline: p,
			Files:    result.Files,
			Reporter: opts.Reporter,
		})
		if err != nil {
			return nil, err
		}
		ops = append(ops, op)
		result.Pipelines = append(result.Pipelines, p.Name)
	}

	logger.Debug().Str("root", root).Bool("dry_run", opts.DryRun).Strs("pipelines", result.Pipelines).Msg("starting run")

	if err := NewRunner(logger).Run(ctx, ops...); err != nil {
		return result, err
	}
	return result, nil
}

// Summary counts outcomes across every pipeline
func (r *Result) Summary() status.Summary {
	return r.Files.Summary("")
}

// Report builds the JSON run report
func (r *Result) Report() *status.Report {
	return r.Files.Report(r.StartedAt, r.Pipelines)
}

// PendingPaths lists each changed file once, in the order first changed.
// A file touched by several pipelines is counted once.
func (r *Result) PendingPaths() []string {
	seen := map[string]bool{}
	var paths []string
	for _, p := range r.Files.Pending() {
		if !seen[p.Path] {
			seen[p.Path] = true
			paths = append(paths, p.Path)
		}
	}
	return paths
}

// ✅ Check returns ErrPendingChanges when any file would change
func (r *Result) Check() error {
	if n := len(r.PendingPaths()); n > 0 {
		return errors.Errorf("%d file(s): %w", n, ErrPendingChanges)
	}
	return nil
}
