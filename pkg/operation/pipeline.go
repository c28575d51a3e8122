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
	"bytes"
	"context"

	"github.com/rs/zerolog"
	"github.com/walteh/rewriterc/pkg/config"
	"github.com/walteh/rewriterc/pkg/status"
	"github.com/walteh/rewriterc/pkg/text"
	"gitlab.com/tozd/go/errors"
)

// 🪜 pipelineOperation applies one pipeline to its file set
type pipelineOperation struct {
	pipeline config.Pipeline
	steps    []text.Step
	files    *status.Manager
	reporter Reporter
}

func (op *pipelineOperation) Name() string {
	return op.pipeline.Name
}

// 🏃 Execute runs the pipeline over every file in its set, one at a time
func (op *pipelineOperation) Execute(ctx context.Context) error {
	name := op.pipeline.Name
	logger := zerolog.Ctx(ctx).With().Str("pipeline", name).Logger()
	ctx = logger.WithContext(ctx)

	files, err := ListFiles(ctx, op.files.Root(), op.pipeline.Files)
	if err != nil {
		return errors.Errorf("pipeline %q: listing files: %w", name, err)
	}
	logger.Debug().Int("files", len(files)).Int("steps", len(op.steps)).Msg("starting pipeline")

	op.reporter.StartPipeline(ctx, op.pipeline, len(files))
	for _, file := range files {
		if err := ctx.Err(); err != nil {
			return errors.Errorf("pipeline %q: %w", name, err)
		}
		result, err := op.processFile(ctx, file)
		if err != nil {
			return errors.Errorf("pipeline %q: %w", name, err)
		}
		op.files.Track(ctx, result)
		op.reporter.LogFileResult(ctx, result)
	}
	op.reporter.EndPipeline(ctx, name, op.files.Summary(name))
	return nil
}

// 📄 processFile decides the outcome for one file and writes it when changed
func (op *pipelineOperation) processFile(ctx context.Context, path string) (status.FileResult, error) {
	result := status.FileResult{Pipeline: op.pipeline.Name, Path: path}

	if IsDenylisted(path, op.pipeline.Files.Exclude) {
		result.Outcome = status.OutcomeSkippedDenylisted
		return result, nil
	}

	content, err := op.files.ReadFile(ctx, path)
	if err != nil {
		return result, err
	}
	result.Before = content
	result.After = content

	if containsAny(content, op.pipeline.SkipIfContains) {
		result.Outcome = status.OutcomeSkippedAlreadyMigrated
		return result, nil
	}
	if len(op.pipeline.RequireContains) > 0 && !containsAny(content, op.pipeline.RequireContains) {
		result.Outcome = status.OutcomeUnchanged
		return result, nil
	}

	syn, err := op.syntaxFor(path)
	if err != nil {
		return result, err
	}

	res := text.NewRewriter(syn).Transform(ctx, content, op.steps)
	result.Edits = res.ReplacementCount
	result.Unresolved = res.Unresolved
	if res.Unresolved > 0 {
		zerolog.Ctx(ctx).Debug().Str("file", path).Int("blocks", res.Unresolved).Msg("blocks left unpatched")
	}
	if !res.WasModified {
		result.Outcome = status.OutcomeUnchanged
		return result, nil
	}

	result.Outcome = status.OutcomeChanged
	result.After = res.ModifiedContent

	written, err := op.files.WriteFile(ctx, path, res.ModifiedContent)
	if err != nil {
		return result, err
	}
	result.Written = written
	return result, nil
}

func (op *pipelineOperation) syntaxFor(path string) (text.Syntax, error) {
	if op.pipeline.Syntax == "" || op.pipeline.Syntax == text.SyntaxAuto {
		return text.SyntaxForFile(path), nil
	}
	return text.LookupSyntax(op.pipeline.Syntax)
}

func containsAny(content []byte, markers []string) bool {
	for _, m := range markers {
		if m != "" && bytes.Contains(content, []byte(m)) {
			return true
		}
	}
	return false
}
