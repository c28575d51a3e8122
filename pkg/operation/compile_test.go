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
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/walteh/rewriterc/pkg/config"
	"github.com/walteh/rewriterc/pkg/text"
)

func TestCompile(t *testing.T) {
	p := config.Pipeline{
		Name: "mixed",
		Steps: []config.Step{
			{Rewrite: &config.RewriteStep{
				Name: "global",
				Rules: []config.Rule{
					{Pattern: "a.b()", Replace: "$x", Literal: true},
					{Pattern: `(\w+)_old`, Replace: `\1_new`},
				},
			}},
			{Rewrite: &config.RewriteStep{
				Name:  "scoped",
				Block: `^action`,
				Rules: []config.Rule{{Pattern: "x", Replace: "y"}},
			}},
			{Insert: &config.InsertStep{
				Name: "abi", Block: `call_contract`, Field: "contract_abi", Anchor: "contract_address",
				Default:   "action.deploy.contract_abi",
				Fallbacks: []config.Fallback{{Contains: "getValue", Value: "GET"}},
			}},
		},
	}

	steps, err := Compile(p)
	require.NoError(t, err)
	require.Len(t, steps, 3)

	global, ok := steps[0].(*text.RuleSet)
	require.True(t, ok)
	assert.Nil(t, global.Header)
	assert.Equal(t, "$x a_new", text.Rewrite("a.b() a_old", global.Rules), "literal templates are not expanded")

	scoped, ok := steps[1].(*text.RuleSet)
	require.True(t, ok)
	require.NotNil(t, scoped.Header)
	assert.Equal(t, "^action", scoped.Header.String())

	inserter, ok := steps[2].(*text.FieldInserter)
	require.True(t, ok)
	assert.Equal(t, "abi", inserter.StepName())
	assert.Equal(t, "GET", inserter.ValueFor(`function_name = "getValue"`))
	assert.Equal(t, "action.deploy.contract_abi", inserter.ValueFor("nothing"))
}

func TestCompile_Errors(t *testing.T) {
	tests := []struct {
		name      string
		step      config.Step
		wantError string
	}{
		{
			name:      "bad_rule",
			step:      config.Step{Rewrite: &config.RewriteStep{Name: "r", Rules: []config.Rule{{Pattern: "(", Replace: ""}}}},
			wantError: "step 0 (r): rule 0",
		},
		{
			name:      "bad_block",
			step:      config.Step{Rewrite: &config.RewriteStep{Name: "r", Block: "[", Rules: []config.Rule{{Pattern: "a"}}}},
			wantError: "compiling block pattern",
		},
		{
			name:      "insert_without_block",
			step:      config.Step{Insert: &config.InsertStep{Name: "i", Field: "f", Anchor: "a"}},
			wantError: "block header is required",
		},
		{
			name:      "empty",
			step:      config.Step{},
			wantError: "exactly one of rewrite or insert",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Compile(config.Pipeline{Name: "p", Steps: []config.Step{tt.step}})
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantError)
		})
	}
}
