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

package main

import (
	"bytes"
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testConfig = `
pipeline "runbook" {
  syntax = "rust"

  files {
    include = ["tests/*.rs"]
    exclude = ["skip_*.rs"]
  }

  rewrite "execute" {
    rule {
      pattern = "\\.execute_runbook\\(\\)"
      replace = ".execute().await"
    }
  }
}
`

const legacy = "let r = h.execute_runbook();\n"

func setupWorkspace(t *testing.T) (string, string) {
	t.Helper()
	root := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(root, "tests"), 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(root, "tests", "a.rs"), []byte(legacy), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(root, "tests", "skip_b.rs"), []byte(legacy), 0o644))

	configPath := filepath.Join(root, "rewriterc.hcl")
	require.NoError(t, os.WriteFile(configPath, []byte(testConfig), 0o644))
	return root, configPath
}

func execute(t *testing.T, args ...string) (int, string, string) {
	t.Helper()
	var stdout, stderr bytes.Buffer
	code := run(context.Background(), args, &stdout, &stderr)
	return code, stdout.String(), stderr.String()
}

func TestRun(t *testing.T) {
	root, configPath := setupWorkspace(t)

	code, out, errOut := execute(t, "run", "-c", configPath)
	require.Equal(t, 0, code, errOut)
	assert.Contains(t, out, "tests/a.rs")
	assert.Contains(t, out, "skipped-denylisted")

	data, err := os.ReadFile(filepath.Join(root, "tests", "a.rs"))
	require.NoError(t, err)
	assert.Equal(t, "let r = h.execute().await;\n", string(data))

	data, err = os.ReadFile(filepath.Join(root, "tests", "skip_b.rs"))
	require.NoError(t, err)
	assert.Equal(t, legacy, string(data))
}

func TestRun_DryRunWithDiffAndReport(t *testing.T) {
	root, configPath := setupWorkspace(t)
	reportPath := filepath.Join(t.TempDir(), "report.json")

	code, out, errOut := execute(t, "run", "-c", configPath, "--dry-run", "--diff", "--report", reportPath)
	require.Equal(t, 0, code, errOut)
	assert.Contains(t, out, "-let r = h.execute_runbook();")
	assert.Contains(t, out, "+let r = h.execute().await;")

	data, err := os.ReadFile(filepath.Join(root, "tests", "a.rs"))
	require.NoError(t, err)
	assert.Equal(t, legacy, string(data), "dry run never writes")

	raw, err := os.ReadFile(reportPath)
	require.NoError(t, err)
	var report struct {
		DryRun bool `json:"dry_run"`
	}
	require.NoError(t, json.Unmarshal(raw, &report))
	assert.True(t, report.DryRun)
}

func TestCheck(t *testing.T) {
	root, configPath := setupWorkspace(t)

	code, _, errOut := execute(t, "check", "-c", configPath)
	assert.Equal(t, 1, code)
	assert.Contains(t, errOut, "files would change")

	data, err := os.ReadFile(filepath.Join(root, "tests", "a.rs"))
	require.NoError(t, err)
	assert.Equal(t, legacy, string(data))

	code, _, errOut = execute(t, "run", "-c", configPath)
	require.Equal(t, 0, code, errOut)

	code, _, errOut = execute(t, "check", "-c", configPath)
	assert.Equal(t, 0, code, errOut)
}

func TestRules(t *testing.T) {
	_, configPath := setupWorkspace(t)

	code, out, errOut := execute(t, "rules", "-c", configPath)
	require.Equal(t, 0, code, errOut)
	assert.Contains(t, out, "runbook")
	assert.Contains(t, out, "execute")
	assert.Contains(t, out, "1 rules")

	code, out, errOut = execute(t, "rules", "--presets")
	require.Equal(t, 0, code, errOut)
	assert.Contains(t, out, "evm-migration")

	code, out, errOut = execute(t, "rules", "--preset", "evm-migration", "--pipeline", "contract-abi")
	require.Equal(t, 0, code, errOut)
	assert.Contains(t, out, "contract_abi after contract_address (4 fallbacks)")
	assert.NotContains(t, out, "harness-to-migration-helper")
}

func TestErrors(t *testing.T) {
	_, configPath := setupWorkspace(t)

	tests := []struct {
		name string
		args []string
		want string
	}{
		{"missing_config", []string{"run", "-c", filepath.Join(t.TempDir(), "nope.hcl")}, "loading config"},
		{"unknown_pipeline", []string{"run", "-c", configPath, "--pipeline", "nope"}, `unknown pipeline "nope"`},
		{"unknown_preset", []string{"run", "--preset", "nope"}, `unknown preset "nope"`},
		{"config_and_preset", []string{"run", "-c", configPath, "--preset", "evm-migration"}, "mutually exclusive"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			code, _, errOut := execute(t, tt.args...)
			assert.Equal(t, 1, code)
			assert.Contains(t, errOut, tt.want)
		})
	}
}

func TestVersion(t *testing.T) {
	code, out, _ := execute(t, "version")
	require.Equal(t, 0, code)
	assert.Contains(t, out, "rewriterc version info")
	assert.Contains(t, out, "Go:")
}

func TestRun_FailureStillSummarizes(t *testing.T) {
	root, _ := setupWorkspace(t)
	configPath := filepath.Join(root, "broken.hcl")
	require.NoError(t, os.WriteFile(configPath, []byte(testConfig+`
pipeline "broken" {
  files {
    paths = ["tests/gone.rs"]
  }

  rewrite "noop" {
    rule {
      pattern = "x"
      replace = "y"
    }
  }
}
`), 0o644))
	reportPath := filepath.Join(t.TempDir(), "report.json")

	code, out, errOut := execute(t, "run", "-c", configPath, "--report", reportPath)
	assert.Equal(t, 1, code)
	assert.Contains(t, errOut, `pipeline "broken"`)
	assert.Contains(t, out, "tests/a.rs")

	raw, err := os.ReadFile(reportPath)
	require.NoError(t, err, "the report is written for the files already handled")
	var report struct {
		Pipelines []struct {
			Name  string `json:"name"`
			Files []struct {
				Path string `json:"path"`
			} `json:"files"`
		} `json:"pipelines"`
	}
	require.NoError(t, json.Unmarshal(raw, &report))
	require.NotEmpty(t, report.Pipelines)
	assert.Equal(t, "runbook", report.Pipelines[0].Name)
	assert.Len(t, report.Pipelines[0].Files, 2)
}

func TestRun_ManualReviewWarning(t *testing.T) {
	root := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(root, "fixtures"), 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(root, "fixtures", "call.tx"), []byte(`action "call" "evm::call_contract" {
    function_name = "owner"
}
`), 0o644))

	code, out, errOut := execute(t, "run", "--preset", "evm-migration", "--root", root, "--pipeline", "contract-abi")
	require.Equal(t, 0, code, errOut)
	assert.Contains(t, out, "manual review needed: fixtures/call.tx (1 blocks left unpatched)")
}
