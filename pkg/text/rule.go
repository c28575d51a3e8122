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

	"gitlab.com/tozd/go/errors"
)

// 🔄 Rule is a single pattern -> template replacement
type Rule struct {
	// Pattern is matched against the current text
	Pattern *regexp.Regexp

	// Template is expanded for every match, see regexp.Regexp.Expand
	Template string
}

// 🏭 NewRule compiles a regular expression rule. Sed style group references
// (\1) in the template are accepted and normalized to ${1}.
func NewRule(pattern, template string) (Rule, error) {
	if pattern == "" {
		return Rule{}, errors.New("pattern is required")
	}
	re, err := regexp.Compile(pattern)
	if err != nil {
		return Rule{}, errors.Errorf("compiling pattern %q: %w", pattern, err)
	}
	return Rule{Pattern: re, Template: NormalizeTemplate(template)}, nil
}

// 🏭 NewLiteralRule matches from verbatim and inserts to verbatim
func NewLiteralRule(from, to string) (Rule, error) {
	if from == "" {
		return Rule{}, errors.New("pattern is required")
	}
	return Rule{
		Pattern:  regexp.MustCompile(regexp.QuoteMeta(from)),
		Template: strings.ReplaceAll(to, "$", "$$"),
	}, nil
}

// Apply replaces every non-overlapping match and returns the number replaced
func (r Rule) Apply(content string) (string, int) {
	if r.Pattern == nil {
		return content, 0
	}
	matches := r.Pattern.FindAllStringSubmatchIndex(content, -1)
	if len(matches) == 0 {
		return content, 0
	}

	var b strings.Builder
	b.Grow(len(content))
	last := 0
	for _, m := range matches {
		b.WriteString(content[last:m[0]])
		b.Write(r.Pattern.ExpandString(nil, r.Template, content, m))
		last = m[1]
	}
	b.WriteString(content[last:])
	return b.String(), len(matches)
}

// String returns the rule in sed notation
func (r Rule) String() string {
	if r.Pattern == nil {
		return "s///"
	}
	return "s/" + r.Pattern.String() + "/" + r.Template + "/"
}

// 📝 Rewrite applies rules in order, each rule seeing the previous rule's output
func Rewrite(content string, rules []Rule) string {
	out, _ := rewrite(content, rules)
	return out
}

func rewrite(content string, rules []Rule) (string, int) {
	total := 0
	for _, rule := range rules {
		var n int
		content, n = rule.Apply(content)
		total += n
	}
	return content, total
}

// NormalizeTemplate converts sed style \N group references to ${N}, leaving
// Go style references untouched. \\ becomes a single backslash and \& the
// whole match.
func NormalizeTemplate(tmpl string) string {
	if !strings.Contains(tmpl, `\`) {
		return tmpl
	}
	var b strings.Builder
	for i := 0; i < len(tmpl); i++ {
		c := tmpl[i]
		if c != '\\' || i+1 >= len(tmpl) {
			b.WriteByte(c)
			continue
		}
		next := tmpl[i+1]
		switch {
		case next >= '0' && next <= '9':
			b.WriteString("${")
			b.WriteByte(next)
			b.WriteString("}")
			i++
		case next == '&':
			b.WriteString("${0}")
			i++
		case next == '\\':
			b.WriteByte('\\')
			i++
		default:
			b.WriteByte(c)
		}
	}
	return b.String()
}
