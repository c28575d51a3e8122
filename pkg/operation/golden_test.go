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

package operation_test

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"
	"github.com/walteh/rewriterc/pkg/config"
	"github.com/walteh/rewriterc/pkg/operation"
	"golang.org/x/tools/txtar"
)

// Each archive under testdata holds:
//
//	rewriterc.hcl  the config
//	input/...      files written under the root before the run
//	want/...       expected content after the run
//	outcomes       "pipeline path outcome" lines, in run order
func TestGolden(t *testing.T) {
	archives, err := filepath.Glob("testdata/*.txtar")
	require.NoError(t, err)
	require.NotEmpty(t, archives)

	for _, file := range archives {
		t.Run(strings.TrimSuffix(filepath.Base(file), ".txtar"), func(t *testing.T) {
			runGolden(t, file)
		})
	}
}

func runGolden(t *testing.T, file string) {
	archive, err := txtar.ParseFile(file)
	require.NoError(t, err)

	ctx := zerolog.New(zerolog.NewTestWriter(t)).WithContext(context.Background())
	root := t.TempDir()

	var (
		cfgData      []byte
		wantOutcomes string
		want         = map[string]string{}
	)
	for _, f := range archive.Files {
		switch {
		case f.Name == "rewriterc.hcl":
			cfgData = f.Data
		case f.Name == "outcomes":
			wantOutcomes = string(f.Data)
		case strings.HasPrefix(f.Name, "input/"):
			path := filepath.Join(root, filepath.FromSlash(strings.TrimPrefix(f.Name, "input/")))
			require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
			require.NoError(t, os.WriteFile(path, f.Data, 0o644))
		case strings.HasPrefix(f.Name, "want/"):
			want[strings.TrimPrefix(f.Name, "want/")] = string(f.Data)
		default:
			t.Fatalf("unexpected archive member %q", f.Name)
		}
	}
	require.NotNil(t, cfgData, "archive has no rewriterc.hcl")

	cfg, err := config.Parse(ctx, "rewriterc.hcl", cfgData)
	require.NoError(t, err)

	res, err := operation.Run(ctx, operation.RunOptions{Config: cfg, Root: root})
	require.NoError(t, err)

	var got strings.Builder
	for _, r := range res.Files.Results() {
		fmt.Fprintf(&got, "%s %s %s\n", r.Pipeline, r.Path, r.Outcome)
	}
	if diff := cmp.Diff(wantOutcomes, got.String()); diff != "" {
		t.Errorf("outcomes mismatch (-want +got):\n%s", diff)
	}

	for rel, content := range want {
		data, err := os.ReadFile(filepath.Join(root, filepath.FromSlash(rel)))
		require.NoError(t, err)
		if diff := cmp.Diff(content, string(data)); diff != "" {
			t.Errorf("%s mismatch (-want +got):\n%s", rel, diff)
		}
	}
}
