// Package tokenstream implements the pull-based token-stream transforms of
// spec.md §4.C: string merging, newline collapsing and unknown-token
// filtering, composed as a stack of pull sources per the "Stream
// composition" design note (function returning Option<Token>, rather than
// inheritance).
package tokenstream

import "github.com/occa-go/okl/internal/token"

// Stream is a pull-based source of tokens. ok is false only at permanent
// end of stream (mirroring Option<Token>::None); callers must not call Pop
// again afterwards.
type Stream interface {
	Pop() (tok token.Token, ok bool)
}

// Func adapts a plain function to the Stream interface.
type Func func() (token.Token, bool)

func (f Func) Pop() (token.Token, bool) { return f() }

// Slice turns a fixed token slice into a Stream, useful for tests and for
// re-streaming an already-tokenized buffer (e.g. a macro body).
func Slice(toks []token.Token) Stream {
	i := 0
	return Func(func() (token.Token, bool) {
		if i >= len(toks) {
			return token.Token{}, false
		}
		t := toks[i]
		i++
		return t, true
	})
}

// Collect drains a Stream into a slice; used by tests and by the
// pipeline's lex stage to gather the whole token stream.
func Collect(s Stream) []token.Token {
	var out []token.Token
	for {
		t, ok := s.Pop()
		if !ok {
			return out
		}
		out = append(out, t)
		if t.Kind == token.Eof {
			return out
		}
	}
}
