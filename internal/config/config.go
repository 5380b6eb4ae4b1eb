// Package config carries the ambient, low-churn settings the rest of the
// compiler reads: recognized source extensions, version metadata, and the
// backend-tunable defaults spec.md's Open Questions resolve into
// properties (e.g. the exclusive-scalar width).
package config

import "strings"

// Version is the current occ compiler version.
var Version = "0.1.0"

// SourceFileExtensions are the recognized OKL kernel source extensions.
var SourceFileExtensions = []string{".okl", ".cl", ".cu", ".hip", ".metal"}

// IsTestMode mirrors the teacher's convention of a package-level test-mode
// flag consulted by normalization code paths (e.g. deterministic diagnostic
// ordering in golden tests).
var IsTestMode = false

// HasSourceExt returns true if path ends with any recognized OKL extension.
func HasSourceExt(path string) bool {
	for _, ext := range SourceFileExtensions {
		if strings.HasSuffix(path, ext) {
			return true
		}
	}
	return false
}

// TrimSourceExt removes a recognized OKL extension from name, if present.
func TrimSourceExt(name string) string {
	for _, ext := range SourceFileExtensions {
		if strings.HasSuffix(name, ext) {
			return name[:len(name)-len(ext)]
		}
	}
	return name
}

// Backend names recognized in the `mode` property and by cmd/occ's
// -backend flag.
const (
	BackendSerial = "serial"
	BackendOpenMP = "openmp"
	BackendOpenCL = "opencl"
	BackendCUDA   = "cuda"
	BackendHIP    = "hip"
	BackendMetal  = "metal"
)

// DefaultExclusiveWidth is the fallback for the `serial/exclusiveWidth`
// property (spec.md §9 Open Question 2: "specify it as a backend property
// with default 256").
const DefaultExclusiveWidth = 256
