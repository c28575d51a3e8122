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

package status

import (
	"context"
	"os"
	"path/filepath"
	"sync"

	"github.com/rs/zerolog"
	"gitlab.com/tozd/go/errors"
)

// 📊 Outcome is what a pipeline did to one file
type Outcome int

const (
	OutcomeUnknown                Outcome = iota
	OutcomeChanged                        // content differed and was (or would be) written
	OutcomeUnchanged                      // no step produced a difference
	OutcomeSkippedDenylisted              // matched the pipeline's exclude list
	OutcomeSkippedAlreadyMigrated         // contained a skip marker
)

// Outcomes lists the known outcomes in display order
var Outcomes = []Outcome{
	OutcomeChanged,
	OutcomeUnchanged,
	OutcomeSkippedDenylisted,
	OutcomeSkippedAlreadyMigrated,
}

// String returns a string representation of Outcome
func (o Outcome) String() string {
	switch o {
	case OutcomeChanged:
		return "changed"
	case OutcomeUnchanged:
		return "unchanged"
	case OutcomeSkippedDenylisted:
		return "skipped-denylisted"
	case OutcomeSkippedAlreadyMigrated:
		return "skipped-already-migrated"
	default:
		return "unknown"
	}
}

// ParseOutcome is the inverse of String
func ParseOutcome(s string) (Outcome, error) {
	for _, o := range Outcomes {
		if o.String() == s {
			return o, nil
		}
	}
	return OutcomeUnknown, errors.Errorf("unknown outcome %q", s)
}

func (o Outcome) MarshalText() ([]byte, error) {
	return []byte(o.String()), nil
}

func (o *Outcome) UnmarshalText(b []byte) error {
	parsed, err := ParseOutcome(string(b))
	if err != nil {
		return err
	}
	*o = parsed
	return nil
}

// 📄 FileResult is the record of one pipeline visiting one file
type FileResult struct {
	Pipeline string  // Pipeline name
	Path     string  // Path relative to the root, slash separated
	Outcome  Outcome // What happened
	Edits    int     // Replacements plus insertions across all steps
	Written  bool    // Whether the file on disk was rewritten
	Before   []byte  // Content as read, nil when never read
	After    []byte  // Content after the steps, nil when never read

	// Unresolved counts blocks still missing an inserted field, they need a
	// manual look
	Unresolved int
}

// 🧮 Summary counts outcomes
type Summary map[Outcome]int

// Total returns the number of files counted
func (s Summary) Total() int {
	total := 0
	for _, n := range s {
		total += n
	}
	return total
}

// Strings keys the counts by outcome name, zero counts included
func (s Summary) Strings() map[string]int {
	out := make(map[string]int, len(Outcomes))
	for _, o := range Outcomes {
		out[o.String()] = s[o]
	}
	return out
}

// 💾 Manager reads and writes target files and records what happened to them.
// In dry-run mode writes land in an in-memory overlay so later pipelines see
// earlier output without the disk changing.
type Manager struct {
	root   string
	dryRun bool

	mu      sync.RWMutex
	overlay map[string][]byte
	results []FileResult
}

// 🏭 New creates a new status manager rooted at root
func New(root string, dryRun bool) *Manager {
	return &Manager{
		root:    filepath.Clean(root),
		dryRun:  dryRun,
		overlay: make(map[string][]byte),
	}
}

// Root returns the directory paths are relative to
func (m *Manager) Root() string {
	return m.root
}

// DryRun reports whether writes are held in memory
func (m *Manager) DryRun() bool {
	return m.dryRun
}

// 🔒 Abs returns the absolute path for a root-relative path
func (m *Manager) Abs(path string) string {
	return filepath.Join(m.root, filepath.FromSlash(path))
}

// 📖 ReadFile returns the current content of path, pending dry-run writes included
func (m *Manager) ReadFile(ctx context.Context, path string) ([]byte, error) {
	m.mu.RLock()
	pending, ok := m.overlay[path]
	m.mu.RUnlock()
	if ok {
		return pending, nil
	}

	content, err := os.ReadFile(m.Abs(path))
	if err != nil {
		return nil, errors.Errorf("reading file %s: %w", path, err)
	}
	return content, nil
}

// ✍️ WriteFile overwrites path in place, keeping its permission bits. It
// reports whether the disk was touched.
func (m *Manager) WriteFile(ctx context.Context, path string, content []byte) (bool, error) {
	if m.dryRun {
		m.mu.Lock()
		m.overlay[path] = content
		m.mu.Unlock()
		zerolog.Ctx(ctx).Debug().Str("path", path).Msg("dry run, holding write in memory")
		return false, nil
	}

	abs := m.Abs(path)
	info, err := os.Stat(abs)
	if err != nil {
		return false, errors.Errorf("writing file %s: %w", path, err)
	}

	if err := os.WriteFile(abs, content, info.Mode().Perm()); err != nil {
		return false, errors.Errorf("writing file %s: %w", path, err)
	}
	return true, nil
}

// 📝 Track records a result
func (m *Manager) Track(ctx context.Context, result FileResult) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.results = append(m.results, result)
	zerolog.Ctx(ctx).Debug().
		Str("pipeline", result.Pipeline).
		Str("path", result.Path).
		Str("outcome", result.Outcome.String()).
		Int("edits", result.Edits).
		Bool("written", result.Written).
		Msg(FormatResult(result))
}

// Results returns every tracked result in order
func (m *Manager) Results() []FileResult {
	m.mu.RLock()
	defer m.mu.RUnlock()

	out := make([]FileResult, len(m.results))
	copy(out, m.results)
	return out
}

// Summary counts outcomes for one pipeline, or for all when pipeline is empty
func (m *Manager) Summary(pipeline string) Summary {
	m.mu.RLock()
	defer m.mu.RUnlock()

	s := Summary{}
	for _, r := range m.results {
		if pipeline == "" || r.Pipeline == pipeline {
			s[r.Outcome]++
		}
	}
	return s
}

// Pending returns the changed results, the ones a check run fails on
func (m *Manager) Pending() []FileResult {
	m.mu.RLock()
	defer m.mu.RUnlock()

	var out []FileResult
	for _, r := range m.results {
		if r.Outcome == OutcomeChanged {
			out = append(out, r)
		}
	}
	return out
}
