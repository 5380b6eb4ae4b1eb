package tokenstream

import (
	"github.com/occa-go/okl/internal/diagnostics"
	"github.com/occa-go/okl/internal/token"
)

// encodingCompatible implements spec.md §8's string-concatenation rule
// (Open Question 1): identical encodings merge; a plain string merges
// into either side's encoding; mixing two distinct non-empty encodings is
// an error.
func encodingCompatible(a, b string) (string, bool) {
	if a == b {
		return a, true
	}
	if a == "" {
		return b, true
	}
	if b == "" {
		return a, true
	}
	return "", false
}

// StringMerger collapses runs of adjacent string-literal tokens,
// respecting encoding compatibility, and reports an error diagnostic for
// incompatible adjacent encodings (rather than silently dropping one).
type StringMerger struct {
	src      Stream
	sink     diagnostics.Sink
	buf      token.Token
	buffered bool
}

func NewStringMerger(src Stream, sink diagnostics.Sink) *StringMerger {
	return &StringMerger{src: src, sink: sink}
}

func (m *StringMerger) next() (token.Token, bool) {
	if m.buffered {
		m.buffered = false
		return m.buf, true
	}
	return m.src.Pop()
}

func (m *StringMerger) Pop() (token.Token, bool) {
	tok, ok := m.next()
	if !ok || tok.Kind != token.StringLit {
		return tok, ok
	}
	merged := tok
	for {
		mark, markOk := m.next()
		if !markOk {
			return merged, true
		}
		if mark.Kind != token.StringLit {
			m.buf, m.buffered = mark, true
			return merged, true
		}
		enc, compatible := encodingCompatible(merged.Encoding, mark.Encoding)
		if !compatible {
			m.report(mark.Origin, "cannot concatenate string literals with incompatible encodings %q and %q", merged.Encoding, mark.Encoding)
			m.buf, m.buffered = mark, true
			return merged, true
		}
		merged.Encoding = enc
		merged.Raw += mark.Raw
	}
}

func (m *StringMerger) report(origin token.FileOrigin, format string, args ...interface{}) {
	if m.sink != nil {
		m.sink.Report(diagnostics.New(diagnostics.CodeLex, origin, format, args...))
	}
}

// NewlineMerger folds runs of Newline tokens to a single one and drops
// leading newlines at the start of the stream.
type NewlineMerger struct {
	src      Stream
	sawAny   bool
	buf      token.Token
	buffered bool
}

func NewNewlineMerger(src Stream) *NewlineMerger { return &NewlineMerger{src: src} }

func (m *NewlineMerger) next() (token.Token, bool) {
	if m.buffered {
		m.buffered = false
		return m.buf, true
	}
	return m.src.Pop()
}

func (m *NewlineMerger) Pop() (token.Token, bool) {
	for {
		tok, ok := m.next()
		if !ok {
			return tok, ok
		}
		if tok.Kind != token.Newline {
			m.sawAny = true
			return tok, true
		}
		if !m.sawAny {
			continue // drop leading newlines
		}
		// collapse the rest of the run
		for {
			next, nok := m.next()
			if !nok {
				return tok, true
			}
			if next.Kind != token.Newline {
				m.buf, m.buffered = next, true
				return tok, true
			}
		}
	}
}

// UnknownFilter drops Invalid-kind tokens when enabled, emitting a warning
// for each one dropped.
type UnknownFilter struct {
	src     Stream
	sink    diagnostics.Sink
	enabled bool
}

func NewUnknownFilter(src Stream, sink diagnostics.Sink, enabled bool) *UnknownFilter {
	return &UnknownFilter{src: src, sink: sink, enabled: enabled}
}

func (f *UnknownFilter) Pop() (token.Token, bool) {
	for {
		tok, ok := f.src.Pop()
		if !ok {
			return tok, ok
		}
		if tok.Kind == token.Invalid && f.enabled {
			if f.sink != nil {
				f.sink.Report(diagnostics.NewWarning(diagnostics.CodeLex, tok.Origin, "dropped unknown token %q", tok.String()))
			}
			continue
		}
		return tok, true
	}
}
