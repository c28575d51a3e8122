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
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const fullHCL = `
root = "work"

pipeline "first" {
  description      = "rename things"
  syntax           = "hcl"
  skip_if_contains = ["# migrated"]
  require_contains = ["evm::call_contract"]

  files {
    include = ["fixtures/**/*.tx"]
    paths   = ["extra.tx"]
    exclude = ["skip.tx"]
  }

  insert "abi" {
    block   = "evm::call_contract"
    field   = "contract_abi"
    anchor  = "contract_address"
    default = "action.deploy.contract_abi"

    fallback {
      contains = "getValue"
      value    = "'${jsonencode({name = "getValue"})}'"
    }

    fallback {
      contains = "setValue"
      value    = format("'%s'", "set")
    }
  }

  rewrite "rename" {
    rule {
      pattern = "abi ="
      replace = "contract_abi ="
      literal = true
    }

    rule {
      pattern = <<-EOT
        (\w+)\.execute_runbook\(\)
      EOT
      replace = "$${1}.execute().await"
    }
  }
}

pipeline "second" {
  files {
    include = ["**/*.rs"]
  }

  rewrite "quoted" {
    rule {
      pattern = quotemeta("a.b(")
      replace = "c"
    }
  }
}
`

func testContext(t *testing.T) context.Context {
	return zerolog.New(zerolog.NewTestWriter(t)).WithContext(context.Background())
}

func TestHCLParser_Parse(t *testing.T) {
	ctx := testContext(t)

	cfg, err := Parse(ctx, "rewriterc.hcl", []byte(fullHCL))
	require.NoError(t, err)

	assert.Equal(t, "work", cfg.Root)
	require.Len(t, cfg.Pipelines, 2)

	first := cfg.Pipelines[0]
	assert.Equal(t, "first", first.Name)
	assert.Equal(t, "rename things", first.Description)
	assert.Equal(t, "hcl", first.Syntax)
	assert.Equal(t, []string{"# migrated"}, first.SkipIfContains)
	assert.Equal(t, []string{"evm::call_contract"}, first.RequireContains)
	assert.Equal(t, FileSet{
		Include: []string{"fixtures/**/*.tx"},
		Paths:   []string{"extra.tx"},
		Exclude: []string{"skip.tx"},
	}, first.Files)

	require.Len(t, first.Steps, 2)
	assert.Equal(t, "insert", first.Steps[0].Kind(), "steps keep source order across block types")
	assert.Equal(t, "rewrite", first.Steps[1].Kind())

	insert := first.Steps[0].Insert
	assert.Equal(t, "abi", insert.Name)
	assert.Equal(t, "contract_abi", insert.Field)
	assert.Equal(t, "contract_address", insert.Anchor)
	assert.Equal(t, "action.deploy.contract_abi", insert.Default)
	assert.Equal(t, []Fallback{
		{Contains: "getValue", Value: `'{"name":"getValue"}'`},
		{Contains: "setValue", Value: "'set'"},
	}, insert.Fallbacks)

	rewrite := first.Steps[1].Rewrite
	assert.Equal(t, "rename", rewrite.Name)
	assert.Empty(t, rewrite.Block)
	assert.Equal(t, []Rule{
		{Pattern: "abi =", Replace: "contract_abi =", Literal: true},
		{Pattern: "(\\w+)\\.execute_runbook\\(\\)\n", Replace: "${1}.execute().await"},
	}, rewrite.Rules)

	second := cfg.Pipelines[1]
	assert.Equal(t, "auto", second.Syntax, "syntax defaults to auto")
	assert.Equal(t, `a\.b\(`, second.Steps[0].Rewrite.Rules[0].Pattern)
}

func TestHCLParser_Errors(t *testing.T) {
	tests := []struct {
		name      string
		config    string
		wantError string
	}{
		{
			name:      "syntax_error",
			config:    `pipeline "x" {`,
			wantError: "parsing HCL",
		},
		{
			name:      "unknown_top_level_block",
			config:    `copy "x" {}`,
			wantError: "decoding HCL",
		},
		{
			name: "unknown_step_attribute",
			config: `
pipeline "x" {
  files { include = ["*.tx"] }
  rewrite "r" {
    colour = "blue"
    rule {
      pattern = "a"
      replace = "b"
    }
  }
}`,
			wantError: `pipeline "x"`,
		},
		{
			name: "duplicate_files_block",
			config: `
pipeline "x" {
  files { include = ["*.tx"] }
  files { include = ["*.rs"] }
  rewrite "r" {
    rule {
      pattern = "a"
      replace = "b"
    }
  }
}`,
			wantError: "duplicate files block",
		},
		{
			name: "missing_replace",
			config: `
pipeline "x" {
  files { include = ["*.tx"] }
  rewrite "r" {
    rule {
      pattern = "a"
    }
  }
}`,
			wantError: "replace",
		},
		{
			name: "invalid_regex_fails_validation",
			config: `
pipeline "x" {
  files { include = ["*.tx"] }
  rewrite "r" {
    rule {
      pattern = "("
      replace = "b"
    }
  }
}`,
			wantError: "invalid pattern",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse(testContext(t), "rewriterc.hcl", []byte(tt.config))
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantError)
		})
	}
}
