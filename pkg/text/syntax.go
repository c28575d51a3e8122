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
	"path/filepath"
	"sort"
	"strings"

	"gitlab.com/tozd/go/errors"
)

// 🔤 Syntax tells the brace scanner which regions of a file are not code
type Syntax struct {
	Name string

	// Quotes open and close string literals
	Quotes string

	// Escape escapes the next byte inside a string literal
	Escape byte

	// LineComments start a comment that runs to end of line
	LineComments []string

	// BlockComment holds the open and close markers, empty when unsupported
	BlockComment [2]string

	// CharLiterals treats 'x' and '\x' as single characters (rust)
	CharLiterals bool

	// RawStrings enables r"...", r#"..."# and br"..." literals (rust)
	RawStrings bool
}

var (
	// SyntaxPlain counts every brace, like a naive line scanner
	SyntaxPlain = Syntax{Name: "plain"}

	// SyntaxHCL covers HCL and txtx runbooks
	SyntaxHCL = Syntax{
		Name:         "hcl",
		Quotes:       `"'`,
		Escape:       '\\',
		LineComments: []string{"#", "//"},
		BlockComment: [2]string{"/*", "*/"},
	}

	// SyntaxRust covers rust sources
	SyntaxRust = Syntax{
		Name:         "rust",
		Quotes:       `"`,
		Escape:       '\\',
		LineComments: []string{"//"},
		BlockComment: [2]string{"/*", "*/"},
		CharLiterals: true,
		RawStrings:   true,
	}
)

// SyntaxAuto selects a syntax per file from its extension
const SyntaxAuto = "auto"

var syntaxes = map[string]Syntax{
	SyntaxPlain.Name: SyntaxPlain,
	SyntaxHCL.Name:   SyntaxHCL,
	SyntaxRust.Name:  SyntaxRust,
}

// 🔍 LookupSyntax returns a built-in syntax by name
func LookupSyntax(name string) (Syntax, error) {
	s, ok := syntaxes[name]
	if !ok {
		return Syntax{}, errors.Errorf("unknown syntax %q (known: %s, %s)", name, strings.Join(SyntaxNames(), ", "), SyntaxAuto)
	}
	return s, nil
}

// SyntaxNames lists the built-in syntaxes
func SyntaxNames() []string {
	names := make([]string, 0, len(syntaxes))
	for name := range syntaxes {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// SyntaxForFile picks a syntax from the file extension
func SyntaxForFile(path string) Syntax {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".tx", ".hcl":
		return SyntaxHCL
	case ".rs":
		return SyntaxRust
	default:
		return SyntaxPlain
	}
}

// scanner tracks lexical state across lines while counting braces
type scanner struct {
	syn            Syntax
	quote          byte
	inBlockComment bool

	// rawClose is the terminator of the open raw string, empty outside one
	rawClose string
}

// braceEvents calls fn with +1 or -1 for every brace outside strings and
// comments. fn returns false to stop scanning.
func (s *scanner) braceEvents(line string, fn func(delta int) bool) bool {
	for i := 0; i < len(line); i++ {
		c := line[i]

		if s.inBlockComment {
			if end := s.syn.BlockComment[1]; strings.HasPrefix(line[i:], end) {
				s.inBlockComment = false
				i += len(end) - 1
			}
			continue
		}

		if s.rawClose != "" {
			if strings.HasPrefix(line[i:], s.rawClose) {
				i += len(s.rawClose) - 1
				s.rawClose = ""
			}
			continue
		}

		if s.quote != 0 {
			switch {
			case s.syn.Escape != 0 && c == s.syn.Escape:
				i++
			case c == s.quote:
				s.quote = 0
			}
			continue
		}

		if s.isLineComment(line[i:]) {
			return true
		}
		if start := s.syn.BlockComment[0]; start != "" && strings.HasPrefix(line[i:], start) {
			s.inBlockComment = true
			i += len(start) - 1
			continue
		}
		if s.syn.RawStrings && c == 'r' && rawPrefixOK(line, i) {
			if hashes, n := rawStringOpen(line[i:]); n > 0 {
				s.rawClose = `"` + strings.Repeat("#", hashes)
				i += n - 1
				continue
			}
		}
		if s.syn.CharLiterals && c == '\'' {
			if n := charLiteralLen(line[i:]); n > 0 {
				i += n - 1
				continue
			}
		}
		if strings.IndexByte(s.syn.Quotes, c) >= 0 {
			s.quote = c
			continue
		}

		switch c {
		case '{':
			if !fn(1) {
				return false
			}
		case '}':
			if !fn(-1) {
				return false
			}
		}
	}
	return true
}

func (s *scanner) isLineComment(rest string) bool {
	for _, p := range s.syn.LineComments {
		if strings.HasPrefix(rest, p) {
			return true
		}
	}
	return false
}

// charLiteralLen returns the length of a char literal at the start of s, or 0
// when s starts with a lifetime or a lone quote.
func charLiteralLen(s string) int {
	if len(s) >= 3 && s[1] != '\\' && s[2] == '\'' {
		return 3
	}
	if len(s) >= 4 && s[1] == '\\' && s[3] == '\'' {
		return 4
	}
	return 0
}

// rawStringOpen reports the hash count and length of a raw string opener
// (r", r#", r##" ...) at the start of s, n is 0 when there is none
func rawStringOpen(s string) (hashes, n int) {
	i := 1
	for i < len(s) && s[i] == '#' {
		i++
	}
	if i >= len(s) || s[i] != '"' {
		return 0, 0
	}
	return i - 1, i + 1
}

// rawPrefixOK is false when the r at line[i] ends an identifier like "bar"
func rawPrefixOK(line string, i int) bool {
	if i == 0 {
		return true
	}
	prev := line[i-1]
	if prev == 'b' {
		return i == 1 || !isIdentByte(line[i-2])
	}
	return !isIdentByte(prev)
}

func isIdentByte(c byte) bool {
	return c == '_' || c >= '0' && c <= '9' || c >= 'a' && c <= 'z' || c >= 'A' && c <= 'Z'
}
