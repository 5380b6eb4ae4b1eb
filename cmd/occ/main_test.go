package main

import (
	"os"
	"testing"

	"github.com/rogpeppe/go-internal/testscript"

	"github.com/occa-go/okl/pkg/cli"
)

// TestMain lets testscript scripts invoke the occ binary in-process
// (one test binary playing both test harness and subject), the same
// trick SPEC_FULL.md names github.com/rogpeppe/go-internal for: CLI
// black-box tests driving the occ binary against fixture directories.
func TestMain(m *testing.M) {
	os.Exit(testscript.RunMain(m, map[string]func() int{
		"occ": func() int {
			return cli.Run(os.Args[1:], os.Stdout, os.Stderr)
		},
	}))
}

func TestCLIScripts(t *testing.T) {
	testscript.Run(t, testscript.Params{
		Dir: "testdata/script",
	})
}
