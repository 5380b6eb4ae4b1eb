// Package diagnostics implements the injected, line-buffered sink of
// spec.md §6/§7: every stage reports failures as diagnostics rather than
// panicking, and the caller decides how (or whether) to render them.
package diagnostics

import (
	"fmt"

	"github.com/occa-go/okl/internal/token"
)

// Severity distinguishes fatal-to-the-stage errors from advisory warnings.
type Severity int

const (
	Warning Severity = iota
	Error
)

func (s Severity) String() string {
	if s == Error {
		return "error"
	}
	return "warning"
}

// Stable error-code prefixes, one per spec.md §7 error kind.
const (
	CodeLex          = "E-LEX"
	CodePreprocessor = "E-PP"
	CodeParse        = "E-PARSE"
	CodeType         = "E-TYPE"
	CodeSemantic     = "E-SEM"
	CodeTransform    = "E-XFORM"
	CodeInternal     = "E-INTERNAL"
)

// Diagnostic is one reported problem: a severity, a stable code, a
// rendered message, a primary origin and optional secondary origins (e.g.
// "first defined here").
type Diagnostic struct {
	Severity   Severity
	Code       string
	Message    string
	Origin     token.FileOrigin
	Secondary  []token.FileOrigin
	RequestID  string // correlates diagnostics across stages of one Compile call
}

func (d Diagnostic) String() string {
	return fmt.Sprintf("%s: %s: %s: %s", d.Origin, d.Severity, d.Code, d.Message)
}

// New builds an error-severity diagnostic, formatting Message with args the
// way fmt.Sprintf would.
func New(code string, origin token.FileOrigin, format string, args ...interface{}) Diagnostic {
	return Diagnostic{Severity: Error, Code: code, Message: fmt.Sprintf(format, args...), Origin: origin}
}

// NewWarning builds a warning-severity diagnostic.
func NewWarning(code string, origin token.FileOrigin, format string, args ...interface{}) Diagnostic {
	return Diagnostic{Severity: Warning, Code: code, Message: fmt.Sprintf(format, args...), Origin: origin}
}

// WithSecondary attaches secondary origins (e.g. the first definition of a
// duplicate declaration) and returns d for chaining.
func (d Diagnostic) WithSecondary(origins ...token.FileOrigin) Diagnostic {
	d.Secondary = append(d.Secondary, origins...)
	return d
}

// Sink collects diagnostics as stages emit them. A slice-backed Sink is
// used by tests; the CLI wraps one with isatty-aware colorized rendering.
type Sink interface {
	Report(d Diagnostic)
	Diagnostics() []Diagnostic
	HasErrors() bool
}

// CollectingSink is the default in-process Sink: an ordered, line-buffered
// append-only slice.
type CollectingSink struct {
	items []Diagnostic
}

func NewCollectingSink() *CollectingSink { return &CollectingSink{} }

func (s *CollectingSink) Report(d Diagnostic) { s.items = append(s.items, d) }

func (s *CollectingSink) Diagnostics() []Diagnostic { return s.items }

func (s *CollectingSink) HasErrors() bool {
	for _, d := range s.items {
		if d.Severity == Error {
			return true
		}
	}
	return false
}
