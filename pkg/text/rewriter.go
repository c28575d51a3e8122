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

package text

import (
	"context"
	"regexp"

	"github.com/rs/zerolog"
)

// 🪜 Step is one stage of a rewrite pipeline
type Step interface {
	// StepName identifies the step in logs and reports
	StepName() string

	// Apply transforms content and returns the number of edits made
	Apply(ctx context.Context, content string, syn Syntax) (string, int)
}

// Resolver is implemented by steps that can leave blocks unpatched
type Resolver interface {
	Unresolved(content string, syn Syntax) int
}

// 📚 RuleSet is a named, ordered list of rules. With a Header the rules
// only apply inside blocks whose header line matches.
type RuleSet struct {
	Name   string
	Header *regexp.Regexp
	Rules  []Rule
}

// StepName implements Step
func (rs *RuleSet) StepName() string {
	return rs.Name
}

// Apply implements Step
func (rs *RuleSet) Apply(ctx context.Context, content string, syn Syntax) (string, int) {
	if rs.Header == nil {
		return rewrite(content, rs.Rules)
	}
	return rewriteInBlocks(content, rs.Header, syn, rs.Rules)
}

// StepResult records the edits one step made
type StepResult struct {
	Name  string
	Edits int
}

// ReplacementResult contains the results of running steps over content
type ReplacementResult struct {
	// WasModified indicates the output differs from the input
	WasModified bool

	// ReplacementCount is the number of edits across all steps
	ReplacementCount int

	// OriginalContent is the content before any step ran
	OriginalContent []byte

	// ModifiedContent is the content after the last step
	ModifiedContent []byte

	// Steps holds per step edit counts, in order
	Steps []StepResult

	// Unresolved counts blocks a step could not patch in the final content
	Unresolved int
}

// 🔧 Rewriter runs steps over file content
type Rewriter struct {
	syntax Syntax
}

// 🏭 NewRewriter creates a Rewriter that scans blocks with syn
func NewRewriter(syn Syntax) *Rewriter {
	return &Rewriter{syntax: syn}
}

// Transform runs steps over original in order
func (r *Rewriter) Transform(ctx context.Context, original []byte, steps []Step) *ReplacementResult {
	logger := zerolog.Ctx(ctx)

	result := &ReplacementResult{
		OriginalContent: original,
		ModifiedContent: original,
	}

	current := string(original)
	for _, step := range steps {
		next, n := step.Apply(ctx, current, r.syntax)
		result.Steps = append(result.Steps, StepResult{Name: step.StepName(), Edits: n})
		result.ReplacementCount += n
		if n > 0 {
			logger.Debug().Str("step", step.StepName()).Int("edits", n).Msg("step applied")
		}
		current = next
	}

	for _, step := range steps {
		if res, ok := step.(Resolver); ok {
			result.Unresolved += res.Unresolved(current, r.syntax)
		}
	}

	if current != string(original) {
		result.WasModified = true
		result.ModifiedContent = []byte(current)
	}
	return result
}
