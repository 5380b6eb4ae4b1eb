// Command occ is the OKL source-to-source compiler's command-line
// entry point: a thin wrapper handing os.Args to pkg/cli and exiting
// with the returned code, mirroring cmd/funxy/main.go's own
// thin-main-over-a-reusable-package shape (there, pkg/cli/entry.go's
// logic is duplicated into main.go directly; here it stays in pkg/cli
// so it's usable both as a CLI and as a library by other callers).
package main

import (
	"os"

	"github.com/occa-go/okl/pkg/cli"
)

func main() {
	os.Exit(cli.Run(os.Args[1:], os.Stdout, os.Stderr))
}
