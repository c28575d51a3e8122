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
	"regexp"

	"github.com/walteh/rewriterc/pkg/config"
	"github.com/walteh/rewriterc/pkg/text"
	"gitlab.com/tozd/go/errors"
)

// 🔨 Compile turns a pipeline's configured steps into text steps, in order
func Compile(p config.Pipeline) ([]text.Step, error) {
	steps := make([]text.Step, 0, len(p.Steps))
	for i, s := range p.Steps {
		step, err := compileStep(s)
		if err != nil {
			return nil, errors.Errorf("step %d (%s): %w", i, s.Name(), err)
		}
		steps = append(steps, step)
	}
	return steps, nil
}

func compileStep(s config.Step) (text.Step, error) {
	switch {
	case s.Rewrite != nil:
		header, err := compileHeader(s.Rewrite.Block)
		if err != nil {
			return nil, err
		}
		rules, err := CompileRules(s.Rewrite.Rules)
		if err != nil {
			return nil, err
		}
		return &text.RuleSet{Name: s.Rewrite.Name, Header: header, Rules: rules}, nil

	case s.Insert != nil:
		in := s.Insert
		header, err := compileHeader(in.Block)
		if err != nil {
			return nil, err
		}
		fallbacks := make([]text.Fallback, 0, len(in.Fallbacks))
		for _, fb := range in.Fallbacks {
			fallbacks = append(fallbacks, text.Fallback{Marker: fb.Contains, Value: fb.Value})
		}
		inserter, err := text.NewFieldInserter(in.Name, header, in.Field, in.Anchor, in.Default, fallbacks)
		if err != nil {
			return nil, err
		}
		return inserter, nil

	default:
		return nil, errors.New("exactly one of rewrite or insert must be set")
	}
}

// CompileRules compiles configured rules, literal ones verbatim
func CompileRules(rules []config.Rule) ([]text.Rule, error) {
	out := make([]text.Rule, 0, len(rules))
	for i, r := range rules {
		var (
			rule text.Rule
			err  error
		)
		if r.Literal {
			rule, err = text.NewLiteralRule(r.Pattern, r.Replace)
		} else {
			rule, err = text.NewRule(r.Pattern, r.Replace)
		}
		if err != nil {
			return nil, errors.Errorf("rule %d: %w", i, err)
		}
		out = append(out, rule)
	}
	return out, nil
}

func compileHeader(pattern string) (*regexp.Regexp, error) {
	if pattern == "" {
		return nil, nil
	}
	re, err := regexp.Compile(pattern)
	if err != nil {
		return nil, errors.Errorf("compiling block pattern %q: %w", pattern, err)
	}
	return re, nil
}
