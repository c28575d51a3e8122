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
	"regexp"
	"strings"
)

// 🧱 Block is a brace delimited region that starts on a header line
type Block struct {
	Start int // offset of the first byte of the header line
	End   int // offset just past the closing line, including its newline

	HeaderLine int // zero based line of the header
	EndLine    int // zero based line holding the closing brace
}

// Text returns the block's substring of content
func (b Block) Text(content string) string {
	return content[b.Start:b.End]
}

// line is a span of content; end excludes the line terminator, next is the
// start of the following line
type line struct {
	start, end, next int
}

func splitLines(content string) []line {
	var lines []line
	start := 0
	for start < len(content) {
		nl := strings.IndexByte(content[start:], '\n')
		if nl < 0 {
			lines = append(lines, line{start: start, end: len(content), next: len(content)})
			break
		}
		end := start + nl
		lines = append(lines, line{start: start, end: end, next: end + 1})
		start = end + 1
	}
	return lines
}

func (l line) text(content string) string {
	return content[l.start:l.end]
}

// 🔍 FindBlocks locates every block whose header line matches header. Depth
// counting starts on the header line; the block ends on the first line where
// depth returns to zero after having been positive. A header whose braces
// never balance before end of file is not a block. Blocks never overlap: the
// search resumes after the closing line.
func FindBlocks(content string, header *regexp.Regexp, syn Syntax) []Block {
	if header == nil {
		return nil
	}
	lines := splitLines(content)

	var blocks []Block
	for i := 0; i < len(lines); i++ {
		if !header.MatchString(lines[i].text(content)) {
			continue
		}
		end, ok := closingLine(content, lines, i, syn)
		if !ok {
			continue
		}
		blocks = append(blocks, Block{
			Start:      lines[i].start,
			End:        lines[end].next,
			HeaderLine: i,
			EndLine:    end,
		})
		i = end
	}
	return blocks
}

func closingLine(content string, lines []line, from int, syn Syntax) (int, bool) {
	sc := &scanner{syn: syn}
	depth := 0
	opened := false

	for j := from; j < len(lines); j++ {
		closed := false
		sc.braceEvents(lines[j].text(content), func(delta int) bool {
			// closers ahead of the first opener belong to an outer scope
			if delta < 0 && !opened {
				return true
			}
			depth += delta
			if delta > 0 {
				opened = true
			}
			if opened && depth == 0 {
				closed = true
				return false
			}
			return true
		})
		if closed {
			return j, true
		}
	}
	return 0, false
}

// 📝 RewriteInBlocks applies rules inside every block matched by header and
// splices each rewritten block back at its original offsets. Text outside
// the blocks is never touched.
func RewriteInBlocks(content string, header *regexp.Regexp, syn Syntax, rules []Rule) string {
	out, _ := rewriteInBlocks(content, header, syn, rules)
	return out
}

func rewriteInBlocks(content string, header *regexp.Regexp, syn Syntax, rules []Rule) (string, int) {
	blocks := FindBlocks(content, header, syn)
	if len(blocks) == 0 {
		return content, 0
	}

	var b strings.Builder
	b.Grow(len(content))
	total := 0
	last := 0
	for _, blk := range blocks {
		b.WriteString(content[last:blk.Start])
		rewritten, n := rewrite(blk.Text(content), rules)
		b.WriteString(rewritten)
		total += n
		last = blk.End
	}
	b.WriteString(content[last:])
	return b.String(), total
}
