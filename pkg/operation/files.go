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
	"context"
	"os"
	"path"
	"path/filepath"
	"sort"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/rs/zerolog"
	"github.com/walteh/rewriterc/pkg/config"
	"gitlab.com/tozd/go/errors"
)

// 📂 ListFiles enumerates a file set under root as slash separated relative
// paths. Explicit paths come first, in the order given, and must exist. Glob
// matches follow, sorted. Duplicates are dropped. The denylist is not applied
// here so excluded files can still be reported.
func ListFiles(ctx context.Context, root string, set config.FileSet) ([]string, error) {
	logger := zerolog.Ctx(ctx)

	seen := make(map[string]bool)
	var out []string

	for _, p := range set.Paths {
		rel, err := relativeTo(root, p)
		if err != nil {
			return nil, err
		}
		info, err := os.Stat(filepath.Join(root, filepath.FromSlash(rel)))
		if err != nil {
			return nil, errors.Errorf("path %s: %w", p, err)
		}
		if info.IsDir() {
			return nil, errors.Errorf("path %s: is a directory", p)
		}
		if !seen[rel] {
			seen[rel] = true
			out = append(out, rel)
		}
	}

	fsys := os.DirFS(root)
	var globbed []string
	for _, pattern := range set.Include {
		matches, err := doublestar.Glob(fsys, pattern, doublestar.WithFilesOnly())
		if err != nil {
			return nil, errors.Errorf("globbing %q: %w", pattern, err)
		}
		logger.Debug().Str("pattern", pattern).Int("matches", len(matches)).Msg("expanded glob")
		globbed = append(globbed, matches...)
	}
	sort.Strings(globbed)

	for _, rel := range globbed {
		if !seen[rel] {
			seen[rel] = true
			out = append(out, rel)
		}
	}
	return out, nil
}

func relativeTo(root, p string) (string, error) {
	if !filepath.IsAbs(p) {
		return path.Clean(filepath.ToSlash(p)), nil
	}
	rel, err := filepath.Rel(root, p)
	if err != nil {
		return "", errors.Errorf("path %s: %w", p, err)
	}
	return filepath.ToSlash(rel), nil
}

// 🔍 IsDenylisted reports whether rel matches an exclude pattern, either as a
// whole path or by base name
func IsDenylisted(rel string, exclude []string) bool {
	base := path.Base(rel)
	for _, pattern := range exclude {
		if ok, _ := doublestar.Match(pattern, rel); ok {
			return true
		}
		if ok, _ := doublestar.Match(pattern, base); ok {
			return true
		}
	}
	return false
}
