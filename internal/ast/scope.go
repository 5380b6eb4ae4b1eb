package ast

import (
	"github.com/occa-go/okl/internal/diagnostics"
	"github.com/occa-go/okl/internal/token"
	"github.com/occa-go/okl/internal/types"
)

// Binding is what a Scope maps an identifier to: a Keyword variant naming a
// Type, Variable, Function, Qualifier or reserved word (spec.md §3
// "Scopes"). Exactly one of the pointer fields is non-nil, matching Kind.
type Binding struct {
	Kind     token.KeywordKind
	Origin   token.FileOrigin
	Variable *types.Variable
	Function *types.Function
	TypeName string         // set when Kind == KeywordType
	Type     types.BaseType // the resolved type TypeName refers to
}

// Scope is a mapping from identifier to Binding, chained through parent
// blocks for lookup (spec.md §3: "lookup chains through parent blocks").
// Scope keys are unique within a single scope; redefinition is an error
// that reports the first definition's origin.
type Scope struct {
	parent  *Scope
	entries map[string]Binding
}

func NewScope(parent *Scope) *Scope {
	return &Scope{parent: parent, entries: make(map[string]Binding)}
}

// Define binds name to b in this scope only. On a name already bound in
// this (not a parent) scope, it reports a duplicate-declaration diagnostic
// with the first definition attached as a secondary origin and returns
// false without overwriting the existing binding.
func (s *Scope) Define(name string, b Binding, sink diagnostics.Sink) bool {
	if existing, ok := s.entries[name]; ok {
		if sink != nil {
			sink.Report(diagnostics.New(diagnostics.CodeSemantic, b.Origin,
				"redefinition of %q", name).WithSecondary(existing.Origin))
		}
		return false
	}
	s.entries[name] = b
	return true
}

// Lookup searches this scope then each parent in turn.
func (s *Scope) Lookup(name string) (Binding, bool) {
	for sc := s; sc != nil; sc = sc.parent {
		if b, ok := sc.entries[name]; ok {
			return b, true
		}
	}
	return Binding{}, false
}

// LookupLocal searches only this scope, not its parents — used by the
// declarator parser to detect same-scope redefinition before calling
// Define.
func (s *Scope) LookupLocal(name string) (Binding, bool) {
	b, ok := s.entries[name]
	return b, ok
}

func (s *Scope) Parent() *Scope { return s.parent }

// Names returns the bound identifiers in this scope only, for debug
// printing and tests; order is unspecified.
func (s *Scope) Names() []string {
	names := make([]string, 0, len(s.entries))
	for n := range s.entries {
		names = append(names, n)
	}
	return names
}
