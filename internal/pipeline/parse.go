package pipeline

import (
	"github.com/occa-go/okl/internal/parser"
	"github.com/occa-go/okl/internal/token"
)

// ParseProcessor implements spec.md §4.D/§4.F/§4.G: parse ctx.TokenStream
// into a translation unit, populating ctx.AstRoot. Grounded on the
// teacher's ParserProcessor (internal/parser/processor.go), including its
// "token stream is nil" safeguard against a misordered pipeline,
// generalized to this parser's []token.Token/*ast.BlockStatement shape.
type ParseProcessor struct{}

func (p *ParseProcessor) Process(ctx *PipelineContext) *PipelineContext {
	if ctx.TokenStream == nil {
		reportErr(ctx.Sink, token.FileOrigin{File: ctx.FilePath}, "parser: token stream is empty (did LexProcessor run first?)")
		return ctx
	}
	par := parser.New(ctx.TokenStream, ctx.Sink)
	ctx.AstRoot = par.ParseTranslationUnit()
	return ctx
}
