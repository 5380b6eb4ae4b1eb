// Package pipeline composes the compiler's stages — tokenize/preprocess,
// parse, and backend-lower — into one ordered Run over a shared
// PipelineContext, per spec.md §2's pipeline diagram.
//
// Grounded on the teacher's internal/pipeline/pipeline.go (Pipeline,
// Processor, New, Run — kept close to verbatim, since stage composition
// itself has nothing OKL-specific about it) and on every call site that
// references *pipeline.PipelineContext (internal/parser/processor.go's
// ctx.TokenStream/ctx.AstRoot/ctx.Errors/ctx.FilePath,
// internal/backend/processor.go's ctx passed to Backend.Run): the
// teacher's own PipelineContext definition and LexerProcessor were not
// present in the retrieved pack, so both are reconstructed here from
// those call sites, generalized from the teacher's token/AST/symbol/error
// fields to this compiler's token/AST/properties/metadata/diagnostic
// fields.
package pipeline

import (
	"github.com/google/uuid"

	"github.com/occa-go/okl/internal/ast"
	"github.com/occa-go/okl/internal/config"
	"github.com/occa-go/okl/internal/diagnostics"
	"github.com/occa-go/okl/internal/lexer"
	"github.com/occa-go/okl/internal/metadata"
	"github.com/occa-go/okl/internal/token"
)

// PipelineContext threads one compile request's state through a
// Pipeline's stages, mirroring the teacher's ctx.TokenStream/ctx.AstRoot/
// ctx.Errors/ctx.FilePath threading pattern. RequestID is a fresh UUID
// minted per compile request, the only use of google/uuid in this port; it
// is handed back to callers (pkg/occa's Result.RequestID) and is not
// attached to individual diagnostics.
type PipelineContext struct {
	RequestID  string
	FilePath   string
	SourceCode string
	Loader     lexer.FileLoader
	Properties config.Properties

	// BackendName selects which backend.Backend the BackendProcessor
	// stage runs, one of the config.Backend* constants.
	BackendName string

	TokenStream []token.Token
	AstRoot     *ast.BlockStatement
	Source      string
	Metadata    metadata.Map

	Sink diagnostics.Sink
}

// NewPipelineContext builds a fresh context for one compile of sourceCode
// read from filePath (used for diagnostic origins and relative #include
// resolution), with validation on and an empty property tree by default.
func NewPipelineContext(filePath, sourceCode string) *PipelineContext {
	return &PipelineContext{
		RequestID:  uuid.New().String(),
		FilePath:   filePath,
		SourceCode: sourceCode,
		Properties: config.NewProperties(),
		Sink:       diagnostics.NewCollectingSink(),
	}
}

// Errors returns every diagnostic reported so far by any stage.
func (c *PipelineContext) Errors() []diagnostics.Diagnostic {
	if c.Sink == nil {
		return nil
	}
	return c.Sink.Diagnostics()
}

// HasErrors reports whether any stage has reported an error-severity
// diagnostic.
func (c *PipelineContext) HasErrors() bool {
	return c.Sink != nil && c.Sink.HasErrors()
}

// Processor is one pipeline stage.
type Processor interface {
	Process(ctx *PipelineContext) *PipelineContext
}

// Pipeline runs an ordered sequence of Processors over one PipelineContext.
type Pipeline struct {
	processors []Processor
}

// New builds a Pipeline running processors in order.
func New(processors ...Processor) *Pipeline {
	return &Pipeline{processors: processors}
}

// Run executes every stage in order, each free to inspect ctx.Sink and
// bail out early (returning ctx unchanged) if an earlier stage already
// failed — the same "continue on errors to collect diagnostics from all
// stages" rationale the teacher's Pipeline.Run documents, left intact
// since a caller driving multiple source files in one session still wants
// every stage's own diagnostics, not just the first failure's.
func (p *Pipeline) Run(initialCtx *PipelineContext) *PipelineContext {
	ctx := initialCtx
	for _, processor := range p.processors {
		ctx = processor.Process(ctx)
	}
	return ctx
}
