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
	"context"
	"regexp"
	"strings"

	"github.com/rs/zerolog"
	"gitlab.com/tozd/go/errors"
)

// Fallback picks Value when Marker occurs anywhere in the block
type Fallback struct {
	Marker string
	Value  string
}

// 🧩 FieldInserter adds a missing field to matching blocks, directly below
// an anchor field and with the anchor's indentation
type FieldInserter struct {
	Name string

	// Header matches the first line of the blocks to patch
	Header *regexp.Regexp

	// Field is the field to add, Anchor the field it goes under
	Field  string
	Anchor string

	// Fallbacks are checked in order, first match wins
	Fallbacks []Fallback

	// Default is used when no fallback marker occurs in the block
	Default string

	anchor *regexp.Regexp
}

// 🏭 NewFieldInserter validates and prepares an inserter
func NewFieldInserter(name string, header *regexp.Regexp, field, anchor, def string, fallbacks []Fallback) (*FieldInserter, error) {
	if header == nil {
		return nil, errors.Errorf("insert %s: block header is required", name)
	}
	if field == "" {
		return nil, errors.Errorf("insert %s: field is required", name)
	}
	if anchor == "" {
		return nil, errors.Errorf("insert %s: anchor is required", name)
	}
	return &FieldInserter{
		Name:      name,
		Header:    header,
		Field:     field,
		Anchor:    anchor,
		Fallbacks: fallbacks,
		Default:   def,
		anchor:    anchorPattern(anchor),
	}, nil
}

func anchorPattern(anchor string) *regexp.Regexp {
	return regexp.MustCompile(`^([ \t]*)` + regexp.QuoteMeta(anchor) + `\s*[=:]`)
}

// ValueFor returns the value to insert for a block
func (fi *FieldInserter) ValueFor(blockText string) string {
	for _, fb := range fi.Fallbacks {
		if fb.Marker != "" && strings.Contains(blockText, fb.Marker) {
			return fb.Value
		}
	}
	return fi.Default
}

// 🔎 Unresolved counts the matching blocks that still lack the field, the ones
// whose anchor was never found and that need a manual look
func (fi *FieldInserter) Unresolved(content string, syn Syntax) int {
	n := 0
	for _, blk := range FindBlocks(content, fi.Header, syn) {
		if !strings.Contains(blk.Text(content), fi.Field) {
			n++
		}
	}
	return n
}

// StepName implements Step
func (fi *FieldInserter) StepName() string {
	return fi.Name
}

// Apply implements Step
func (fi *FieldInserter) Apply(ctx context.Context, content string, syn Syntax) (string, int) {
	return fi.Insert(ctx, content, syn)
}

type insertion struct {
	at   int
	text string
}

// 📝 Insert adds the field to every matching block that lacks it and
// returns the number of lines inserted. Blocks without the anchor are left
// alone.
func (fi *FieldInserter) Insert(ctx context.Context, content string, syn Syntax) (string, int) {
	if fi.anchor == nil {
		fi.anchor = anchorPattern(fi.Anchor)
	}
	logger := zerolog.Ctx(ctx)

	blocks := FindBlocks(content, fi.Header, syn)
	if len(blocks) == 0 {
		return content, 0
	}
	lines := splitLines(content)

	var inserts []insertion
	for _, blk := range blocks {
		blockText := blk.Text(content)
		if strings.Contains(blockText, fi.Field) {
			continue
		}

		found := false
		for j := blk.HeaderLine + 1; j < blk.EndLine; j++ {
			m := fi.anchor.FindStringSubmatch(lines[j].text(content))
			if m == nil {
				continue
			}
			ending := "\n"
			if lines[j].end > lines[j].start && content[lines[j].end-1] == '\r' {
				ending = "\r\n"
			}
			inserts = append(inserts, insertion{
				at:   lines[j].next,
				text: m[1] + fi.Field + " = " + fi.ValueFor(blockText) + ending,
			})
			logger.Debug().
				Str("insert", fi.Name).
				Str("field", fi.Field).
				Int("line", j+1).
				Msg("inserting field after anchor")
			found = true
			break
		}
		if !found {
			logger.Debug().
				Str("insert", fi.Name).
				Str("anchor", fi.Anchor).
				Int("line", blk.HeaderLine+1).
				Msg("block has no anchor, skipping")
		}
	}
	if len(inserts) == 0 {
		return content, 0
	}

	var b strings.Builder
	b.Grow(len(content) + len(inserts)*64)
	last := 0
	for _, ins := range inserts {
		b.WriteString(content[last:ins.at])
		b.WriteString(ins.text)
		last = ins.at
	}
	b.WriteString(content[last:])
	return b.String(), len(inserts)
}
