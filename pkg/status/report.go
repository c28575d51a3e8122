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
	"encoding/hex"
	"encoding/json"
	"os"
	"time"

	"github.com/google/uuid"
	"github.com/zeebo/blake3"
	"gitlab.com/tozd/go/errors"
)

// 📋 Report is the machine-readable record of a run
type Report struct {
	RunID     string           `json:"run_id"`
	StartedAt time.Time        `json:"started_at"`
	Root      string           `json:"root"`
	DryRun    bool             `json:"dry_run"`
	Pipelines []PipelineReport `json:"pipelines"`
}

// PipelineReport holds the counts and files for one pipeline
type PipelineReport struct {
	Name   string         `json:"name"`
	Counts map[string]int `json:"counts"`
	Files  []FileReport   `json:"files"`
}

// FileReport is one file in a pipeline report. Digests are blake3 and empty
// when the file was never read.
type FileReport struct {
	Path         string  `json:"path"`
	Outcome      Outcome `json:"outcome"`
	Edits        int     `json:"edits"`
	BeforeDigest string  `json:"before_digest,omitempty"`
	AfterDigest  string  `json:"after_digest,omitempty"`
	LinesAdded   int     `json:"lines_added,omitempty"`
	LinesRemoved int     `json:"lines_removed,omitempty"`
	Unresolved   int     `json:"unresolved,omitempty"`
	Written      bool    `json:"written"`
}

// Digest returns the hex blake3 digest of content
func Digest(content []byte) string {
	sum := blake3.Sum256(content)
	return hex.EncodeToString(sum[:])
}

// 🧾 Report builds a report for the given pipelines, in order
func (m *Manager) Report(startedAt time.Time, pipelines []string) *Report {
	r := &Report{
		RunID:     uuid.NewString(),
		StartedAt: startedAt.UTC(),
		Root:      m.root,
		DryRun:    m.dryRun,
		Pipelines: make([]PipelineReport, 0, len(pipelines)),
	}

	results := m.Results()
	for _, name := range pipelines {
		pr := PipelineReport{
			Name:   name,
			Counts: m.Summary(name).Strings(),
			Files:  []FileReport{},
		}
		for _, res := range results {
			if res.Pipeline != name {
				continue
			}
			fr := FileReport{
				Path:       res.Path,
				Outcome:    res.Outcome,
				Edits:      res.Edits,
				Written:    res.Written,
				Unresolved: res.Unresolved,
			}
			if res.Before != nil {
				fr.BeforeDigest = Digest(res.Before)
			}
			if res.After != nil {
				fr.AfterDigest = Digest(res.After)
			}
			if res.Outcome == OutcomeChanged {
				fr.LinesAdded, fr.LinesRemoved = DiffStat(res.Before, res.After)
			}
			pr.Files = append(pr.Files, fr)
		}
		r.Pipelines = append(r.Pipelines, pr)
	}
	return r
}

// 💾 WriteFile writes the report as indented JSON
func (r *Report) WriteFile(path string) error {
	data, err := json.MarshalIndent(r, "", "  ")
	if err != nil {
		return errors.Errorf("encoding report: %w", err)
	}
	if err := os.WriteFile(path, append(data, '\n'), 0o644); err != nil {
		return errors.Errorf("writing report: %w", err)
	}
	return nil
}
