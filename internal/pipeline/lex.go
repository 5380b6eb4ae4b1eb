package pipeline

import (
	"github.com/occa-go/okl/internal/lexer"
	"github.com/occa-go/okl/internal/preprocessor"
	"github.com/occa-go/okl/internal/tokenstream"
)

// LexProcessor implements spec.md §4.A/§4.B/§4.C: lex ctx.SourceCode
// (wrapped in any `header`/`footer` property text per spec.md §6),
// expand macros and conditionals through a Preprocessor seeded with
// ctx.Properties' `defines`, then run the StringMerger/NewlineMerger/
// UnknownFilter tokenstream transforms preprocessor.go's own doc comment
// names as its expected composition, populating ctx.TokenStream.
type LexProcessor struct{}

func (p *LexProcessor) Process(ctx *PipelineContext) *PipelineContext {
	source := ctx.Properties.String("header", "") + ctx.SourceCode + ctx.Properties.String("footer", "")
	l := lexer.New(ctx.FilePath, source, ctx.Loader, ctx.Properties.StringList("include_paths"), ctx.Sink)

	pp := preprocessor.New(l, ctx.Sink)
	for name, body := range ctx.Properties.Defines() {
		pp.DefineCompilerMacro(name, body)
	}

	var stream tokenstream.Stream = pp
	stream = tokenstream.NewStringMerger(stream, ctx.Sink)
	stream = tokenstream.NewNewlineMerger(stream)
	stream = tokenstream.NewUnknownFilter(stream, ctx.Sink, ctx.Properties.Bool("lexer/allowUnknown", false))

	ctx.TokenStream = tokenstream.Collect(stream)
	return ctx
}
