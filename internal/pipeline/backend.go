package pipeline

import (
	"github.com/occa-go/okl/internal/backend"
	"github.com/occa-go/okl/internal/token"
)

// BackendProcessor implements spec.md §4.J: run the backend named by
// ctx.BackendName over ctx.AstRoot, populating ctx.Source/ctx.Metadata.
// Grounded on the teacher's ExecutionProcessor (internal/backend/
// processor.go), including its "don't run a later stage over a tree an
// earlier stage already failed on" guard, generalized from running a
// program to lowering a translation unit.
type BackendProcessor struct{}

func (p *BackendProcessor) Process(ctx *PipelineContext) *PipelineContext {
	if ctx.AstRoot == nil || ctx.HasErrors() {
		return ctx
	}
	b := backend.New(ctx.BackendName)
	if b == nil {
		reportErr(ctx.Sink, token.FileOrigin{File: ctx.FilePath}, "pipeline: unknown backend %q", ctx.BackendName)
		return ctx
	}
	source, meta, ok := b.Lower(ctx.AstRoot, ctx.Properties, ctx.Sink)
	if !ok {
		return ctx
	}
	ctx.Source = source
	ctx.Metadata = meta
	return ctx
}
