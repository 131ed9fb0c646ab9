// Package diagnostics renders huffErrors.CodegenError values as
// terminal-friendly, source-located reports, using fatih/color for
// highlighting rather than raw ANSI escapes.
package diagnostics

import (
	"fmt"
	"strings"

	"github.com/fatih/color"

	"github.com/huffgo/huffc/internal/ast"
	"github.com/huffgo/huffc/internal/huffErrors"
)

var (
	errorColor  = color.New(color.FgRed, color.Bold)
	labelColor  = color.New(color.FgYellow)
	traceColor  = color.New(color.FgHiBlack)
)

// Report is a human-facing rendering of one fatal compile error, including
// the invocation-span trail that led to it.
type Report struct {
	Headline string
	Trail    []string
}

// FromCodegenError builds a Report from a *huffErrors.CodegenError.
func FromCodegenError(err *huffErrors.CodegenError) Report {
	headline := err.Kind.String()
	if err.Name != "" {
		headline = fmt.Sprintf("%s: %q", headline, err.Name)
	}
	return Report{Headline: headline, Trail: spanTrail(err.Span)}
}

func spanTrail(spans ast.AstSpan) []string {
	trail := make([]string, 0, len(spans))
	for _, s := range spans {
		trail = append(trail, fmt.Sprintf("%s:%d", s.File, s.Start))
	}
	return trail
}

// Format renders r for a terminal, coloring the headline and dimming the
// expansion trail the way a stack trace is dimmed.
func (r Report) Format() string {
	var b strings.Builder
	b.WriteString(errorColor.Sprint("error: "))
	b.WriteString(labelColor.Sprint(r.Headline))
	for _, loc := range r.Trail {
		b.WriteString("\n  ")
		b.WriteString(traceColor.Sprintf("at %s", loc))
	}
	return b.String()
}

// Print writes r's formatted report to stderr via color's default output.
func (r Report) Print() {
	fmt.Fprintln(color.Error, r.Format())
}
