// Package occa is the embeddable library surface over the compiler
// pipeline: one Compile call taking OKL source text and Options and
// returning the backend-lowered source plus its per-kernel metadata,
// transparently consulting an on-disk kernelcache.Cache when one is
// configured.
//
// Grounded on the teacher's pkg/embed (pkg/embed/vm.go's VM.Eval/
// VM.LoadFile: build a PipelineContext, run a fixed Pipeline, surface
// ctx.Errors as a single combined error) — generalized from "evaluate
// Funxy source to a runtime value" to "lower OKL source to backend
// source", including pkg/embed's pattern of injecting caller-provided
// state into the context before running the pipeline (there: bindings
// into ctx.SymbolTable; here: Options into ctx.Properties/BackendName).
package occa

import (
	"fmt"
	"strings"

	"github.com/occa-go/okl/internal/config"
	"github.com/occa-go/okl/internal/diagnostics"
	"github.com/occa-go/okl/internal/kernelcache"
	"github.com/occa-go/okl/internal/lexer"
	"github.com/occa-go/okl/internal/metadata"
	"github.com/occa-go/okl/internal/pipeline"
)

// Options configures one Compile call.
type Options struct {
	// FilePath names the source for diagnostics and relative #include
	// resolution. Optional; defaults to "<source>".
	FilePath string

	// Backend selects the lowering target, one of the config.Backend*
	// constants. Required.
	Backend string

	// Properties carries header/footer text, defines, validation and
	// per-backend knobs (spec.md §6). Optional; defaults to
	// config.NewProperties().
	Properties config.Properties

	// Loader resolves #include targets. Optional; includes fail if nil
	// and the source uses one.
	Loader lexer.FileLoader

	// Cache, if set, is consulted before compiling and populated after
	// a successful compile, keyed on (source, header, footer,
	// Properties, compiler version).
	Cache *kernelcache.Cache
}

// Result is one Compile call's output.
type Result struct {
	Source      string
	Metadata    metadata.Map
	Diagnostics []diagnostics.Diagnostic
	RequestID   string
	CacheHit    bool
}

// Compile lowers source through the tokenize/preprocess, parse, and
// backend stages (spec.md §2), returning an error built from every
// diagnostic reported if any stage fails.
func Compile(source string, opts Options) (Result, error) {
	if opts.Backend == "" {
		return Result{}, fmt.Errorf("occa: Options.Backend is required")
	}
	props := opts.Properties
	if props == nil {
		props = config.NewProperties()
	}
	filePath := opts.FilePath
	if filePath == "" {
		filePath = "<source>"
	}

	header := props.String("header", "")
	footer := props.String("footer", "")

	var cacheKey string
	if opts.Cache != nil {
		cacheKey = kernelcache.Key(source, header, footer, props)
		if entry, ok, err := opts.Cache.Get(cacheKey); err == nil && ok {
			return Result{Source: entry.Source, Metadata: entry.Metadata, CacheHit: true}, nil
		}
	}

	ctx := pipeline.NewPipelineContext(filePath, source)
	ctx.BackendName = opts.Backend
	ctx.Properties = props
	ctx.Loader = opts.Loader

	p := pipeline.New(&pipeline.LexProcessor{}, &pipeline.ParseProcessor{}, &pipeline.BackendProcessor{})
	ctx = p.Run(ctx)

	result := Result{
		Source:      ctx.Source,
		Metadata:    ctx.Metadata,
		Diagnostics: ctx.Errors(),
		RequestID:   ctx.RequestID,
	}

	if ctx.HasErrors() {
		return result, compileError(result.Diagnostics)
	}

	if opts.Cache != nil {
		if err := opts.Cache.Put(cacheKey, kernelcache.Entry{Source: ctx.Source, Metadata: ctx.Metadata}); err != nil {
			return result, fmt.Errorf("occa: caching result: %w", err)
		}
	}
	return result, nil
}

// compileError flattens one compile's diagnostics into a single error,
// mirroring pkg/embed's VM.Eval/LoadFile "Errors during compilation:\n"
// joined-message convention.
func compileError(diags []diagnostics.Diagnostic) error {
	var b strings.Builder
	b.WriteString("occa: compile failed:\n")
	for _, d := range diags {
		fmt.Fprintf(&b, "%s\n", d.Message)
	}
	return fmt.Errorf("%s", strings.TrimRight(b.String(), "\n"))
}
