// Package config centralizes constants shared across the pipeline and glue
// layers so they aren't duplicated as magic strings/numbers (grounded on the
// teacher's internal/config/constants.go).
package config

// SourceExt is the canonical AL source file extension.
const SourceExt = ".al"

// Feature flag names recognized by the CLI (§6).
const (
	FlagExperimentalIO      = "experimental-shitty-io"
	FlagExperimentalStdLib  = "experimental-std-lib"
)

// VM sizing defaults (§4.6, §5): starting stack and frame capacities, and
// the maximum call depth. vmrt keeps its own copies of these values.
const (
	InitialStackSize = 2048
	InitialFrameCount = 256
	MaxFrameCount      = 4096
)
