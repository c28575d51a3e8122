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

// Package preset bundles ready-made rewrite configs into the binary.
package preset

import (
	"context"
	"embed"
	"io/fs"
	"sort"
	"strings"

	"github.com/walteh/rewriterc/pkg/config"
	"gitlab.com/tozd/go/errors"
)

//go:embed *.hcl
var files embed.FS

const ext = ".hcl"

// 📚 Names lists the bundled presets, sorted
func Names() []string {
	entries, err := fs.ReadDir(files, ".")
	if err != nil {
		return nil
	}
	names := make([]string, 0, len(entries))
	for _, e := range entries {
		if strings.HasSuffix(e.Name(), ext) {
			names = append(names, strings.TrimSuffix(e.Name(), ext))
		}
	}
	sort.Strings(names)
	return names
}

// Source returns the raw HCL of a preset
func Source(name string) ([]byte, error) {
	data, err := files.ReadFile(name + ext)
	if err != nil {
		return nil, errors.Errorf("unknown preset %q (known: %s)", name, strings.Join(Names(), ", "))
	}
	return data, nil
}

// 🎯 Get parses and validates a preset. Presets carry no root, so file sets
// resolve against the working directory unless a root override is given.
func Get(ctx context.Context, name string) (*config.Config, error) {
	data, err := Source(name)
	if err != nil {
		return nil, err
	}
	cfg, err := config.Parse(ctx, name+ext, data)
	if err != nil {
		return nil, errors.Errorf("preset %s: %w", name, err)
	}
	return cfg, nil
}
