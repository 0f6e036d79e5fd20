package types

import "fmt"

// WarningKind classifies a per-input, non-fatal failure.
type WarningKind string

const (
	WarnRead  WarningKind = "read"  // input could not be read or decoded
	WarnParse WarningKind = "parse" // structural parsing failed
)

// Warning records a skipped or partially processed input. Warnings are
// local to one input and never abort a run.
type Warning struct {
	Kind    WarningKind
	Input   string // identifier of the offending input
	Message string
}

func (w Warning) String() string {
	return fmt.Sprintf("%s: %s: %s", w.Kind, w.Input, w.Message)
}

// ParseError represents a structural parsing failure in one input.
type ParseError struct {
	Input   string
	Line    int
	Column  int
	Message string
}

// Error implements the error interface.
func (pe *ParseError) Error() string {
	if pe.Line > 0 {
		return fmt.Sprintf("%s:%d:%d: %s", pe.Input, pe.Line, pe.Column, pe.Message)
	}
	return fmt.Sprintf("%s: %s", pe.Input, pe.Message)
}

// Warning converts the parse error into a warning record.
func (pe *ParseError) Warning() Warning {
	return Warning{Kind: WarnParse, Input: pe.Input, Message: pe.Message}
}
