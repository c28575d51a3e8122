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

	"github.com/walteh/rewriterc/pkg/config"
	"github.com/walteh/rewriterc/pkg/status"
	"gitlab.com/tozd/go/errors"
)

// ErrPendingChanges is returned by a check run when at least one file would change
var ErrPendingChanges = errors.Base("files would change")

// 🎯 Operation is one unit of work the runner executes
type Operation interface {
	// Name identifies the operation in logs
	Name() string
	// Execute runs the operation to completion
	Execute(ctx context.Context) error
}

// 📣 Reporter receives progress as pipelines run
type Reporter interface {
	StartPipeline(ctx context.Context, p config.Pipeline, files int)
	LogFileResult(ctx context.Context, r status.FileResult)
	EndPipeline(ctx context.Context, name string, s status.Summary)
}

type nopReporter struct{}

func (nopReporter) StartPipeline(context.Context, config.Pipeline, int) {}
func (nopReporter) LogFileResult(context.Context, status.FileResult) {}
func (nopReporter) EndPipeline(context.Context, string, status.Summary) {}

// 🔧 Options contains what a pipeline operation needs
type Options struct {
	// Pipeline is the validated pipeline to run
	Pipeline config.Pipeline
	// Files reads, writes and tracks target files
	Files *status.Manager
	// Reporter is optional
	Reporter Reporter
}

// 🏭 NewPipelineOperation compiles the pipeline's steps and returns an
// operation that applies them to its file set
func NewPipelineOperation(opts Options) (Operation, error) {
	if opts.Files == nil {
		return nil, errors.New("file manager is required")
	}
	if opts.Reporter == nil {
		opts.Reporter = nopReporter{}
	}

	steps, err := Compile(opts.Pipeline)
	if err != nil {
		return nil, errors.Errorf("pipeline %q: %w", opts.Pipeline.Name, err)
	}

	return &pipelineOperation{
		pipeline: opts.Pipeline,
		steps:    steps,
		files:    opts.Files,
		reporter: opts.Reporter,
	}, nil
}
