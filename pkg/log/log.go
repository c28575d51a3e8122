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

package log

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"
	"sync"

	"github.com/fatih/color"
	"github.com/rs/zerolog"
	"github.com/walteh/rewriterc/pkg/config"
	"github.com/walteh/rewriterc/pkg/status"
)

// 🎨 Display configuration
const (
	fileIndent   = 4  // spaces to indent file entries
	nameWidth    = 35 // Base width for filename
	outcomeWidth = 26 // Width for outcome text
)

// 🎯 Logger writes run progress to the console and mirrors it to zerolog
type Logger struct {
	zlog    zerolog.Logger
	console io.Writer
	mu      sync.Mutex
	results []status.FileResult
}

// 🏭 New creates a new logger. The zerolog mirror goes to stderr at level.
func New(console io.Writer, level zerolog.Level) *Logger {
	zlog := zerolog.New(zerolog.NewConsoleWriter(func(w *zerolog.ConsoleWriter) {
		w.Out = os.Stderr
	})).With().Timestamp().Logger().Level(level)
	return &Logger{
		zlog:    zlog,
		console: console,
	}
}

// 🔑 contextKey is the type for context values
type contextKey struct{}

// 🎯 FromContext gets the logger from context
func FromContext(ctx context.Context) *Logger {
	logger, ok := ctx.Value(contextKey{}).(*Logger)
	if !ok {
		panic("logger not found in context")
	}
	return logger
}

// 🎯 NewContext adds the logger to context
func NewContext(ctx context.Context, l *Logger) context.Context {
	return context.WithValue(ctx, contextKey{}, l)
}

// 📝 formatFileResult formats a file result for display
func (l *Logger) formatFileResult(r status.FileResult) string {
	var symbol rune
	var symbolColor color.Attribute
	switch r.Outcome {
	case status.OutcomeChanged:
		if r.Written {
			symbol = '✓'
			symbolColor = color.FgGreen
		} else {
			symbol = '⟳'
			symbolColor = color.FgBlue
		}
	case status.OutcomeSkippedDenylisted:
		symbol = '✗'
		symbolColor = color.FgRed
	case status.OutcomeSkippedAlreadyMigrated:
		symbol = '•'
		symbolColor = color.FgCyan
	default:
		symbol = '-'
		symbolColor = color.FgYellow
	}

	var outcomeColor color.Attribute
	switch r.Outcome {
	case status.OutcomeChanged:
		outcomeColor = color.FgGreen
	case status.OutcomeUnchanged:
		outcomeColor = color.Faint
	default:
		outcomeColor = color.FgYellow
	}

	edits := ""
	if r.Edits > 0 {
		edits = fmt.Sprintf("%d edits", r.Edits)
	}

	return fmt.Sprintf("%s%s %s %s %s",
		strings.Repeat(" ", fileIndent),
		color.New(symbolColor).Sprint(string(symbol)),
		fmt.Sprintf("%-*s", nameWidth, r.Path),
		color.New(outcomeColor).Sprint(fmt.Sprintf("%-*s", outcomeWidth, r.Outcome.String())),
		edits)
}

// 📝 LogFileResult logs what a pipeline did to a file
func (l *Logger) LogFileResult(ctx context.Context, r status.FileResult) {
	l.logFileResult(r)
	if r.Unresolved > 0 {
		l.Warningf("manual review needed: %s (%d blocks left unpatched)", r.Path, r.Unresolved)
	}
}

func (l *Logger) logFileResult(r status.FileResult) {
	l.mu.Lock()
	defer l.mu.Unlock()

	l.results = append(l.results, r)

	fmt.Fprintln(l.console, l.formatFileResult(r))

	l.zlog.Debug().
		Str("pipeline", r.Pipeline).
		Str("file", r.Path).
		Str("outcome", r.Outcome.String()).
		Int("edits", r.Edits).
		Bool("written", r.Written).
		Int("unresolved", r.Unresolved).
		Msg("file processed")
}

// 📝 StartPipeline prints the pipeline header
func (l *Logger) StartPipeline(ctx context.Context, p config.Pipeline, files int) {
	l.mu.Lock()
	defer l.mu.Unlock()

	l.results = nil

	fmt.Fprintf(l.console, "[pipeline %s]\n", color.New(color.FgCyan).Sprint(p.Name))

	desc := p.Description
	if desc == "" {
		desc = fmt.Sprintf("%d steps", len(p.Steps))
	}
	fmt.Fprintf(l.console, "%s %s %s %s\n",
		color.New(color.FgMagenta).Sprint("◆"),
		color.New(color.Bold).Sprint(desc),
		color.New(color.Faint).Sprint("•"),
		color.New(color.FgYellow).Sprintf("%d files", files))

	l.zlog.Debug().
		Str("pipeline", p.Name).
		Str("syntax", p.Syntax).
		Int("steps", len(p.Steps)).
		Int("files", files).
		Msg("starting pipeline")
}

// 📝 EndPipeline prints the outcome counts for the current pipeline
func (l *Logger) EndPipeline(ctx context.Context, name string, s status.Summary) {
	l.mu.Lock()
	defer l.mu.Unlock()

	fmt.Fprintf(l.console, "%s%s\n",
		strings.Repeat(" ", fileIndent),
		color.New(color.Faint).Sprint(status.FormatSummary(s)))

	l.zlog.Debug().
		Str("pipeline", name).
		Int("files", len(l.results)).
		Fields(map[string]interface{}{"counts": s.Strings()}).
		Msg("pipeline complete")

	l.results = nil
}

// 📝 PrintDiff prints a unified diff with added and removed lines colored
func (l *Logger) PrintDiff(diff string) {
	if diff == "" {
		return
	}
	l.mu.Lock()
	defer l.mu.Unlock()

	for _, line := range strings.SplitAfter(diff, "\n") {
		switch {
		case line == "":
			continue
		case strings.HasPrefix(line, "+++"), strings.HasPrefix(line, "---"):
			fmt.Fprint(l.console, color.New(color.Bold).Sprint(line))
		case strings.HasPrefix(line, "@@"):
			fmt.Fprint(l.console, color.New(color.FgCyan).Sprint(line))
		case strings.HasPrefix(line, "+"):
			fmt.Fprint(l.console, color.New(color.FgGreen).Sprint(line))
		case strings.HasPrefix(line, "-"):
			fmt.Fprint(l.console, color.New(color.FgRed).Sprint(line))
		default:
			fmt.Fprint(l.console, line)
		}
	}
}

// 📝 LogNewline logs a newline
func (l *Logger) LogNewline() {
	l.mu.Lock()
	defer l.mu.Unlock()
	fmt.Fprintln(l.console)
}

// 📝 Header logs a header
func (l *Logger) Header(msg string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	name := color.New(color.Bold, color.FgCyan).Sprint("rewriterc")
	fmt.Fprintf(l.console, "\n%s %s\n\n", name, color.New(color.Faint).Sprint("• "+msg))
	l.zlog.Debug().Msg(msg)
}

// 📝 Success logs a success message
func (l *Logger) Success(msg string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	fmt.Fprintf(l.console, "✅ %s\n", color.New(color.FgGreen).Sprint(msg))
	l.zlog.Debug().Msg(msg)
}

// 📝 Warning logs a warning message
func (l *Logger) Warning(msg string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	fmt.Fprintf(l.console, "⚠️  %s\n", color.New(color.FgYellow).Sprint(msg))
	l.zlog.Warn().Msg(msg)
}

// 📝 Error logs an error message
func (l *Logger) Error(msg string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	fmt.Fprintf(l.console, "❌ %s\n", color.New(color.FgRed).Sprint(msg))
	l.zlog.Error().Msg(msg)
}

// 📝 Info logs an info message
func (l *Logger) Info(msg string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	fmt.Fprintf(l.console, "ℹ️  %s\n", color.New(color.FgCyan).Sprint(msg))
	l.zlog.Debug().Msg(msg)
}

// 📝 Infof logs a formatted info message
func (l *Logger) Infof(format string, args ...interface{}) {
	l.Info(fmt.Sprintf(format, args...))
}

// 📝 Warningf logs a formatted warning message
func (l *Logger) Warningf(format string, args ...interface{}) {
	l.Warning(fmt.Sprintf(format, args...))
}

// 📝 Successf logs a formatted success message
func (l *Logger) Successf(format string, args ...interface{}) {
	l.Success(fmt.Sprintf(format, args...))
}
