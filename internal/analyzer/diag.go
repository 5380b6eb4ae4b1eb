package analyzer

import (
	"github.com/occa-go/okl/internal/diagnostics"
	"github.com/occa-go/okl/internal/token"
)

func reportErr(sink diagnostics.Sink, origin token.FileOrigin, format string, args ...interface{}) {
	if sink != nil {
		sink.Report(diagnostics.New(diagnostics.CodeSemantic, origin, format, args...))
	}
}
