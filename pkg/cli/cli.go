// Package cli implements the occ command-line wrapper around pkg/occa:
// subcommand dispatch over os.Args (no flag parser), a terminal-aware
// diagnostic writer, and a `--stats` cache-inspection mode.
//
// Grounded on the teacher's pkg/cli/entry.go: one Run-style entry point
// switching on os.Args[1] by subcommand string, fmt.Fprintf(os.Stderr, ...)
// plus os.Exit(1) for every failure path rather than a returned error
// bubbling to main — this port keeps that shape but returns an int exit
// code from Run so cmd/occ/main.go, not this package, calls os.Exit.
package cli

import (
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/mattn/go-isatty"

	"github.com/occa-go/okl/internal/config"
	"github.com/occa-go/okl/internal/diagnostics"
	"github.com/occa-go/okl/internal/kernelcache"
	"github.com/occa-go/okl/pkg/occa"
)

const usage = `usage: occ compile [-backend=NAME] [-cache=PATH] [-o=FILE] SOURCE.okl
       occ backends
       occ --stats -cache=PATH
`

// Run dispatches args (as in os.Args[1:]) to a subcommand and returns the
// process exit code main should use.
func Run(args []string, stdout, stderr io.Writer) int {
	if len(args) == 0 {
		fmt.Fprint(stderr, usage)
		return 1
	}

	switch args[0] {
	case "compile":
		return runCompile(args[1:], stdout, stderr)
	case "backends":
		return runBackends(stdout)
	case "--stats":
		return runStats(args[1:], stdout, stderr)
	case "-h", "--help", "help":
		fmt.Fprint(stdout, usage)
		return 0
	default:
		fmt.Fprintf(stderr, "occ: unknown command %q\n\n%s", args[0], usage)
		return 1
	}
}

func runBackends(stdout io.Writer) int {
	for _, name := range []string{
		config.BackendSerial, config.BackendOpenMP, config.BackendOpenCL,
		config.BackendCUDA, config.BackendHIP, config.BackendMetal,
	} {
		fmt.Fprintln(stdout, name)
	}
	return 0
}

// flagSet is a minimal -name=value scanner matching entry.go's own
// hand-rolled arg handling rather than the stdlib flag package, which
// the teacher never reaches for on this code path either.
type flagSet struct {
	values     map[string]string
	positional []string
}

func parseFlags(args []string) flagSet {
	fs := flagSet{values: make(map[string]string)}
	for _, arg := range args {
		if strings.HasPrefix(arg, "-") {
			name, value, _ := strings.Cut(strings.TrimLeft(arg, "-"), "=")
			fs.values[name] = value
			continue
		}
		fs.positional = append(fs.positional, arg)
	}
	return fs
}

func runCompile(args []string, stdout, stderr io.Writer) int {
	fs := parseFlags(args)
	if len(fs.positional) != 1 {
		fmt.Fprintf(stderr, "occ compile: expected exactly one source file\n\n%s", usage)
		return 1
	}
	sourcePath := fs.positional[0]
	backendName := fs.values["backend"]
	if backendName == "" {
		backendName = config.BackendSerial
	}

	data, err := os.ReadFile(sourcePath)
	if err != nil {
		fmt.Fprintf(stderr, "occ: reading %s: %s\n", sourcePath, err)
		return 1
	}

	opts := occa.Options{FilePath: sourcePath, Backend: backendName}
	if cachePath := fs.values["cache"]; cachePath != "" {
		cache, err := kernelcache.Open(cachePath)
		if err != nil {
			fmt.Fprintf(stderr, "occ: opening cache %s: %s\n", cachePath, err)
			return 1
		}
		defer cache.Close()
		opts.Cache = cache
	}

	result, err := occa.Compile(string(data), opts)
	if err != nil {
		writeDiagnostics(stderr, result.Diagnostics)
		return 1
	}

	if outPath := fs.values["o"]; outPath != "" {
		if err := os.WriteFile(outPath, []byte(result.Source), 0o644); err != nil {
			fmt.Fprintf(stderr, "occ: writing %s: %s\n", outPath, err)
			return 1
		}
		return 0
	}
	fmt.Fprint(stdout, result.Source)
	return 0
}

func runStats(args []string, stdout, stderr io.Writer) int {
	fs := parseFlags(args)
	cachePath := fs.values["cache"]
	if cachePath == "" {
		fmt.Fprintf(stderr, "occ --stats: -cache=PATH is required\n")
		return 1
	}

	start := time.Now()
	info, err := os.Stat(cachePath)
	if err != nil {
		fmt.Fprintf(stderr, "occ --stats: %s\n", err)
		return 1
	}
	fmt.Fprintf(stdout, "%s: %s on disk (inspected in %s)\n",
		cachePath, humanize.Bytes(uint64(info.Size())), time.Since(start).Round(time.Microsecond))
	return 0
}

// writeDiagnostics renders diagnostics one per line, colorizing the
// severity tag when w is a terminal (entry.go never does this itself,
// but its "- %s\n" per-diagnostic loop is the direct ancestor of this
// per-line rendering).
func writeDiagnostics(w io.Writer, diags []diagnostics.Diagnostic) {
	colorize := isTerminal(w)
	for _, d := range diags {
		tag := strings.ToUpper(d.Severity.String())
		if colorize {
			tag = severityColor(d.Severity) + tag + "\x1b[0m"
		}
		fmt.Fprintf(w, "%s:%d:%d: %s: %s\n", d.Origin.File, d.Origin.Line, d.Origin.Column, tag, d.Message)
	}
}

func isTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	if !ok {
		return false
	}
	return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
}

func severityColor(sev diagnostics.Severity) string {
	switch sev {
	case diagnostics.Error:
		return "\x1b[31m"
	case diagnostics.Warning:
		return "\x1b[33m"
	default:
		return "\x1b[0m"
	}
}
