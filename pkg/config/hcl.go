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
	"regexp"
	"strings"

	"github.com/hashicorp/hcl/v2"
	"github.com/hashicorp/hcl/v2/gohcl"
	"github.com/hashicorp/hcl/v2/hclparse"
	"github.com/zclconf/go-cty/cty"
	"github.com/zclconf/go-cty/cty/function"
	"github.com/zclconf/go-cty/cty/function/stdlib"
	"gitlab.com/tozd/go/errors"
)

func init() {
	Register(&HCLParser{})
}

// 🔧 HCLParser implements the Parser interface for HCL files
type HCLParser struct{}

// 🔍 CanParse checks if this parser can handle the given file
func (p *HCLParser) CanParse(filename string) bool {
	return strings.HasSuffix(strings.ToLower(filename), ".hcl")
}

var rootSchema = &hcl.BodySchema{
	Attributes: []hcl.AttributeSchema{
		{Name: "root"},
	},
	Blocks: []hcl.BlockHeaderSchema{
		{Type: "pipeline", LabelNames: []string{"name"}},
	},
}

// steps are read through the raw schema so rewrite and insert blocks keep
// their relative order
var pipelineSchema = &hcl.BodySchema{
	Attributes: []hcl.AttributeSchema{
		{Name: "description"},
		{Name: "syntax"},
		{Name: "skip_if_contains"},
		{Name: "require_contains"},
	},
	Blocks: []hcl.BlockHeaderSchema{
		{Type: "files"},
		{Type: "rewrite", LabelNames: []string{"name"}},
		{Type: "insert", LabelNames: []string{"name"}},
	},
}

// quoteMetaFunc escapes regular expression metacharacters
var quoteMetaFunc = function.New(&function.Spec{
	Params: []function.Parameter{
		{Name: "str", Type: cty.String},
	},
	Type: function.StaticReturnType(cty.String),
	Impl: func(args []cty.Value, retType cty.Type) (cty.Value, error) {
		return cty.StringVal(regexp.QuoteMeta(args[0].AsString())), nil
	},
})

func newEvalContext() *hcl.EvalContext {
	return &hcl.EvalContext{
		Variables: map[string]cty.Value{},
		Functions: map[string]function.Function{
			"format":     stdlib.FormatFunc,
			"join":       stdlib.JoinFunc,
			"jsonencode": stdlib.JSONEncodeFunc,
			"lower":      stdlib.LowerFunc,
			"quotemeta":  quoteMetaFunc,
			"replace":    stdlib.ReplaceFunc,
			"trimspace":  stdlib.TrimSpaceFunc,
			"upper":      stdlib.UpperFunc,
		},
	}
}

// 📝 Parse parses the config from HCL
func (p *HCLParser) Parse(ctx context.Context, filename string, data []byte) (*Config, error) {
	parser := hclparse.NewParser()
	hclFile, diags := parser.ParseHCL(data, filename)
	if diags.HasErrors() {
		return nil, errors.Errorf("parsing HCL: %s", diags.Error())
	}

	evalCtx := newEvalContext()

	content, diags := hclFile.Body.Content(rootSchema)
	if diags.HasErrors() {
		return nil, errors.Errorf("decoding HCL: %s", diags.Error())
	}

	var cfg Config
	if attr, ok := content.Attributes["root"]; ok {
		if diags := gohcl.DecodeExpression(attr.Expr, evalCtx, &cfg.Root); diags.HasErrors() {
			return nil, errors.Errorf("decoding HCL: %s", diags.Error())
		}
	}

	for _, block := range content.Blocks {
		pipeline, err := decodePipeline(block, evalCtx)
		if err != nil {
			return nil, errors.Errorf("decoding HCL: pipeline %q: %w", block.Labels[0], err)
		}
		cfg.Pipelines = append(cfg.Pipelines, pipeline)
	}

	return &cfg, nil
}

func decodePipeline(block *hcl.Block, evalCtx *hcl.EvalContext) (Pipeline, error) {
	p := Pipeline{Name: block.Labels[0]}

	content, diags := block.Body.Content(pipelineSchema)
	if diags.HasErrors() {
		return p, errors.New(diags.Error())
	}

	attrs := []struct {
		name   string
		target any
	}{
		{"description", &p.Description},
		{"syntax", &p.Syntax},
		{"skip_if_contains", &p.SkipIfContains},
		{"require_contains", &p.RequireContains},
	}
	for _, a := range attrs {
		attr, ok := content.Attributes[a.name]
		if !ok {
			continue
		}
		if diags := gohcl.DecodeExpression(attr.Expr, evalCtx, a.target); diags.HasErrors() {
			return p, errors.New(diags.Error())
		}
	}

	sawFiles := false
	for _, b := range content.Blocks {
		switch b.Type {
		case "files":
			if sawFiles {
				return p, errors.Errorf("%s: duplicate files block", b.DefRange)
			}
			sawFiles = true
			if diags := gohcl.DecodeBody(b.Body, evalCtx, &p.Files); diags.HasErrors() {
				return p, errors.New(diags.Error())
			}
		case "rewrite":
			step := &RewriteStep{Name: b.Labels[0]}
			if diags := gohcl.DecodeBody(b.Body, evalCtx, step); diags.HasErrors() {
				return p, errors.New(diags.Error())
			}
			p.Steps = append(p.Steps, Step{Rewrite: step})
		case "insert":
			step := &InsertStep{Name: b.Labels[0]}
			if diags := gohcl.DecodeBody(b.Body, evalCtx, step); diags.HasErrors() {
				return p, errors.New(diags.Error())
			}
			p.Steps = append(p.Steps, Step{Insert: step})
		}
	}

	return p, nil
}
