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

package config

import (
	"context"
	"fmt"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/rs/zerolog"
	"github.com/walteh/rewriterc/pkg/text"
	"gitlab.com/tozd/go/errors"
)

// 📚 Config is the complete rewrite configuration
type Config struct {
	// Root is the directory file sets are resolved against. Relative roots
	// are relative to the config file.
	Root string `json:"root,omitempty" yaml:"root,omitempty"`

	// Pipelines run in order
	Pipelines []Pipeline `json:"pipelines" yaml:"pipelines"`

	location string
}

// 🪜 Pipeline is an ordered list of steps applied to a file set
type Pipeline struct {
	Name        string `json:"name" yaml:"name"`
	Description string `json:"description,omitempty" yaml:"description,omitempty"`

	// Syntax selects the brace scanner: auto, plain, hcl or rust
	Syntax string `json:"syntax,omitempty" yaml:"syntax,omitempty"`

	Files FileSet `json:"files" yaml:"files"`

	// SkipIfContains marks a file as already migrated
	SkipIfContains []string `json:"skip_if_contains,omitempty" yaml:"skip_if_contains,omitempty"`

	// RequireContains limits the pipeline to files holding at least one marker
	RequireContains []string `json:"require_contains,omitempty" yaml:"require_contains,omitempty"`

	Steps []Step `json:"steps" yaml:"steps"`
}

// 📁 FileSet selects the files a pipeline touches
type FileSet struct {
	// Include holds doublestar globs relative to the root
	Include []string `json:"include,omitempty" yaml:"include,omitempty" hcl:"include,optional"`

	// Paths are explicit files, they must exist
	Paths []string `json:"paths,omitempty" yaml:"paths,omitempty" hcl:"paths,optional"`

	// Exclude is the denylist, matched against the relative path and the base name
	Exclude []string `json:"exclude,omitempty" yaml:"exclude,omitempty" hcl:"exclude,optional"`
}

// Step holds exactly one of its kinds
type Step struct {
	Rewrite *RewriteStep `json:"rewrite,omitempty" yaml:"rewrite,omitempty"`
	Insert  *InsertStep  `json:"insert,omitempty" yaml:"insert,omitempty"`
}

// 🔄 RewriteStep is a named rule set, optionally scoped to blocks
type RewriteStep struct {
	Name string `json:"name" yaml:"name"`

	// Block is a header pattern; when set rules only apply inside matching blocks
	Block string `json:"block,omitempty" yaml:"block,omitempty" hcl:"block,optional"`

	Rules []Rule `json:"rules" yaml:"rules" hcl:"rule,block"`
}

// Rule is a single replacement
type Rule struct {
	Pattern string `json:"pattern" yaml:"pattern" hcl:"pattern"`
	Replace string `json:"replace" yaml:"replace" hcl:"replace"`
	Literal bool   `json:"literal,omitempty" yaml:"literal,omitempty" hcl:"literal,optional"`
}

// 🧩 InsertStep adds a missing field below an anchor field
type InsertStep struct {
	Name      string     `json:"name" yaml:"name"`
	Block     string     `json:"block" yaml:"block" hcl:"block"`
	Field     string     `json:"field" yaml:"field" hcl:"field"`
	Anchor    string     `json:"anchor" yaml:"anchor" hcl:"anchor"`
	Default   string     `json:"default,omitempty" yaml:"default,omitempty" hcl:"default,optional"`
	Fallbacks []Fallback `json:"fallbacks,omitempty" yaml:"fallbacks,omitempty" hcl:"fallback,block"`
}

// Fallback picks Value when the block contains Contains
type Fallback struct {
	Contains string `json:"contains" yaml:"contains" hcl:"contains"`
	Value    string `json:"value" yaml:"value" hcl:"value"`
}

// Name returns the name of whichever kind is set
func (s Step) Name() string {
	switch {
	case s.Rewrite != nil:
		return s.Rewrite.Name
	case s.Insert != nil:
		return s.Insert.Name
	default:
		return ""
	}
}

// Kind returns "rewrite" or "insert"
func (s Step) Kind() string {
	switch {
	case s.Rewrite != nil:
		return "rewrite"
	case s.Insert != nil:
		return "insert"
	default:
		return ""
	}
}

// Location returns the file the config was loaded from, empty for in-memory configs
func (cfg *Config) Location() string {
	return cfg.location
}

// 📂 ResolveRoot returns the directory file sets are resolved against. A
// non-empty override wins.
func (cfg *Config) ResolveRoot(override string) (string, error) {
	root := override
	if root == "" {
		root = cfg.Root
		if !filepath.IsAbs(root) && cfg.location != "" {
			root = filepath.Join(filepath.Dir(cfg.location), root)
		}
	}
	if root == "" {
		root = "."
	}
	abs, err := filepath.Abs(root)
	if err != nil {
		return "", errors.Errorf("resolving root %q: %w", root, err)
	}
	return abs, nil
}

// 🎯 Select returns the named pipelines in config order, or all of them
func (cfg *Config) Select(names []string) ([]Pipeline, error) {
	if len(names) == 0 {
		return cfg.Pipelines, nil
	}
	wanted := make(map[string]bool, len(names))
	for _, n := range names {
		wanted[n] = true
	}
	var out []Pipeline
	for _, p := range cfg.Pipelines {
		if wanted[p.Name] {
			out = append(out, p)
			delete(wanted, p.Name)
		}
	}
	for _, n := range names {
		if wanted[n] {
			return nil, errors.Errorf("unknown pipeline %q", n)
		}
	}
	return out, nil
}

// 📝 String returns a short description of the config
func (cfg *Config) String() string {
	names := make([]string, 0, len(cfg.Pipelines))
	for _, p := range cfg.Pipelines {
		names = append(names, p.Name)
	}
	root := cfg.Root
	if root == "" {
		root = "."
	}
	return fmt.Sprintf("%s: %s", root, strings.Join(names, " -> "))
}

// 🔍 Validate checks the configuration and fills in defaults
func Validate(ctx context.Context, cfg *Config) error {
	zerolog.Ctx(ctx).Debug().Int("pipelines", len(cfg.Pipelines)).Msg("validating config")

	if len(cfg.Pipelines) == 0 {
		return errors.New("at least one pipeline is required")
	}

	seen := make(map[string]bool, len(cfg.Pipelines))
	for i := range cfg.Pipelines {
		p := &cfg.Pipelines[i]
		if p.Name == "" {
			return errors.Errorf("pipeline %d: name is required", i)
		}
		if seen[p.Name] {
			return errors.Errorf("pipeline %q: duplicate name", p.Name)
		}
		seen[p.Name] = true

		if err := validatePipeline(p); err != nil {
			return errors.Errorf("pipeline %q: %w", p.Name, err)
		}
	}
	return nil
}

func validatePipeline(p *Pipeline) error {
	if p.Syntax == "" {
		p.Syntax = text.SyntaxAuto
	}
	if p.Syntax != text.SyntaxAuto {
		if _, err := text.LookupSyntax(p.Syntax); err != nil {
			return err
		}
	}

	if len(p.Files.Include) == 0 && len(p.Files.Paths) == 0 {
		return errors.New("files: at least one include pattern or path is required")
	}
	for _, pattern := range append(append([]string{}, p.Files.Include...), p.Files.Exclude...) {
		if !doublestar.ValidatePattern(pattern) {
			return errors.Errorf("files: invalid pattern %q", pattern)
		}
	}

	if len(p.Steps) == 0 {
		return errors.New("at least one step is required")
	}
	for i, step := range p.Steps {
		if err := validateStep(step); err != nil {
			return errors.Errorf("step %d: %w", i, err)
		}
	}
	return nil
}

func validateStep(step Step) error {
	if step.Rewrite != nil && step.Insert != nil {
		return errors.New("exactly one of rewrite or insert must be set")
	}

	switch {
	case step.Rewrite != nil:
		r := step.Rewrite
		if r.Name == "" {
			return errors.New("rewrite: name is required")
		}
		if err := validatePattern("block", r.Block); err != nil {
			return errors.Errorf("rewrite %s: %w", r.Name, err)
		}
		if len(r.Rules) == 0 {
			return errors.Errorf("rewrite %s: at least one rule is required", r.Name)
		}
		if err := ValidateRules(r.Rules); err != nil {
			return errors.Errorf("rewrite %s: %w", r.Name, err)
		}
	case step.Insert != nil:
		in := step.Insert
		if in.Name == "" {
			return errors.New("insert: name is required")
		}
		if in.Block == "" {
			return errors.Errorf("insert %s: block is required", in.Name)
		}
		if err := validatePattern("block", in.Block); err != nil {
			return errors.Errorf("insert %s: %w", in.Name, err)
		}
		if in.Field == "" {
			return errors.Errorf("insert %s: field is required", in.Name)
		}
		if in.Anchor == "" {
			return errors.Errorf("insert %s: anchor is required", in.Name)
		}
		for i, fb := range in.Fallbacks {
			if fb.Contains == "" {
				return errors.Errorf("insert %s: fallback %d: contains is required", in.Name, i)
			}
		}
	default:
		return errors.New("exactly one of rewrite or insert must be set")
	}
	return nil
}

// ValidateRules checks that every rule has a pattern that compiles
func ValidateRules(rules []Rule) error {
	for i, rule := range rules {
		if rule.Pattern == "" {
			return errors.Errorf("rule %d: pattern is required", i)
		}
		if rule.Literal {
			continue
		}
		if _, err := regexp.Compile(rule.Pattern); err != nil {
			return errors.Errorf("rule %d: invalid pattern: %w", i, err)
		}
	}
	return nil
}

func validatePattern(field, pattern string) error {
	if pattern == "" {
		return nil
	}
	if _, err := regexp.Compile(pattern); err != nil {
		return errors.Errorf("invalid %s pattern: %w", field, err)
	}
	return nil
}
