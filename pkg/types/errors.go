package types

import "errors"

// Configuration errors. These are fatal and surfaced to the caller before
// any processing begins; everything else in the pipeline is a per-input
// warning.
var (
	// ErrInvalidBudget is returned when the chunk budget is not positive
	ErrInvalidBudget = errors.New("chunk budget must be positive")
	// ErrInvalidOrder is returned for an unknown pack order
	ErrInvalidOrder = errors.New("invalid pack order")
	// ErrInvalidTarget is returned for an empty or malformed target spec
	ErrInvalidTarget = errors.New("invalid target spec")
)

// ErrNoInputs indicates a run found nothing to process. It is not fatal:
// the run still completes with an empty manifest, and callers may use this
// sentinel to distinguish "no inputs" from "trivial output".
var ErrNoInputs = errors.New("no inputs found")
