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
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// MustRule is NewRule that panics, for static rule tables in tests
func MustRule(pattern, template string) Rule {
	r, err := NewRule(pattern, template)
	if err != nil {
		panic(err)
	}
	return r
}

func TestRewrite(t *testing.T) {
	tests := []struct {
		name    string
		content string
		rules   []Rule
		want    string
	}{
		{
			name:    "simple_replacement",
			content: "let h = ProjectTestHarness::new();",
			rules:   []Rule{MustRule(`ProjectTestHarness`, "MigrationHelper")},
			want:    "let h = MigrationHelper::new();",
		},
		{
			name:    "all_matches_replaced",
			content: "a.setup(); b.setup(); c.setup();",
			rules:   []Rule{MustRule(`(\w)\.setup\(\)`, "${1}.build()")},
			want:    "a.build(); b.build(); c.build();",
		},
		{
			name:    "order_matters",
			content: "let r = harness.execute_runbook();",
			rules: []Rule{
				MustRule(`execute_runbook\(\)`, "execute()"),
				MustRule(`\.execute\(\)`, ".execute().await"),
			},
			want: "let r = harness.execute().await;",
		},
		{
			name:    "capture_groups",
			content: `ProjectTestHarness::new_foundry("a.tx", x)`,
			rules:   []Rule{MustRule(`ProjectTestHarness::new_(foundry|hardhat)\("([^"]+)"`, `MigrationHelper::for_${1}("${2}"`)},
			want:    `MigrationHelper::for_foundry("a.tx", x)`,
		},
		{
			name:    "sed_style_groups",
			content: "from = input.sender",
			rules:   []Rule{MustRule(`^from = (.*)$`, `signer = \1`)},
			want:    "signer = input.sender",
		},
		{
			name:    "no_match",
			content: "nothing to see here\n",
			rules:   []Rule{MustRule(`ProjectTestHarness`, "MigrationHelper")},
			want:    "nothing to see here\n",
		},
		{
			name:    "empty_content",
			content: "",
			rules:   []Rule{MustRule(`x`, "y")},
			want:    "",
		},
		{
			name:    "empty_rules",
			content: "unchanged",
			want:    "unchanged",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Rewrite(tt.content, tt.rules)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestRewriteIsIdempotent(t *testing.T) {
	rules := []Rule{
		MustRule(`use crate::tests::test_harness::ProjectTestHarness;`, "use crate::tests::fixture_builder::MigrationHelper;"),
		MustRule(`\.execute_runbook\(\)`, ".execute().await"),
	}
	content := "use crate::tests::test_harness::ProjectTestHarness;\nlet r = h.execute_runbook();\n"

	once := Rewrite(content, rules)
	twice := Rewrite(once, rules)

	assert.Equal(t, once, twice)
	assert.Equal(t, "use crate::tests::fixture_builder::MigrationHelper;\nlet r = h.execute().await;\n", once)
}

func TestRuleApplyCounts(t *testing.T) {
	rule := MustRule(`old`, "new")

	out, n := rule.Apply("old old old")
	assert.Equal(t, "new new new", out)
	assert.Equal(t, 3, n)

	out, n = rule.Apply("nothing")
	assert.Equal(t, "nothing", out)
	assert.Equal(t, 0, n)
}

func TestNewLiteralRule(t *testing.T) {
	rule, err := NewLiteralRule("a.b(", "$x\\1")
	require.NoError(t, err)

	out, n := rule.Apply("a.b( axb(")
	assert.Equal(t, "$x\\1 axb(", out)
	assert.Equal(t, 1, n)

	_, err = NewLiteralRule("", "x")
	require.Error(t, err)
}

func TestNewRuleErrors(t *testing.T) {
	tests := []struct {
		name      string
		pattern   string
		wantError string
	}{
		{name: "empty_pattern", pattern: "", wantError: "pattern is required"},
		{name: "bad_pattern", pattern: "(", wantError: "compiling pattern"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewRule(tt.pattern, "x")
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantError)
		})
	}
}

func TestNormalizeTemplate(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{in: "plain", want: "plain"},
		{in: `\1`, want: "${1}"},
		{in: `a\1b\2`, want: "a${1}b${2}"},
		{in: `[\&]`, want: "[${0}]"},
		{in: `a\\b`, want: `a\b`},
		{in: `\n`, want: `\n`},
		{in: `${1} and $name`, want: `${1} and $name`},
		{in: `trailing\`, want: `trailing\`},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			assert.Equal(t, tt.want, NormalizeTemplate(tt.in))
		})
	}
}
