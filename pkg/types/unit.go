package types

import (
	"errors"
	"fmt"
)

// Tier is a small integer priority. Lower values are more important;
// tier 0 is the highest priority.
type Tier int

// TierUnranked is the reserved lowest-priority tier assigned to inputs
// that matched no classification pattern.
const TierUnranked Tier = 99

// Label renders the tier as a human-readable string: "P0", "P1", ... for
// enumerated tiers and "unranked" for the reserved default tier.
func (t Tier) Label() string {
	if t == TierUnranked {
		return "unranked"
	}
	return fmt.Sprintf("P%d", int(t))
}

// Before reports whether t is a strictly higher priority than other.
func (t Tier) Before(other Tier) bool {
	return t < other
}

// TokensPerChar is the character-to-token ratio used for all size
// estimates (1 token per 4 characters).
const TokensPerChar = 4

// EstimateTokens estimates the number of tokens in a string.
func EstimateTokens(text string) int {
	return len(text) / TokensPerChar
}

// UnitKind identifies the structural role of an extracted unit.
type UnitKind string

const (
	KindType      UnitKind = "type"      // container: struct, interface, class-like declaration
	KindFunction  UnitKind = "function"  // leaf: top-level function
	KindMethod    UnitKind = "method"    // leaf: method, owned by its receiver's unit
	KindValue     UnitKind = "value"     // leaf: const or var declaration group
	KindSection   UnitKind = "section"   // container: detected paper section
	KindDocument  UnitKind = "document"  // container: synthetic whole-document unit
	KindParagraph UnitKind = "paragraph" // leaf: paragraph inside a section
)

// IsContainer reports whether units of this kind own child units.
func (k UnitKind) IsContainer() bool {
	switch k {
	case KindType, KindSection, KindDocument:
		return true
	default:
		return false
	}
}

// RawInput is an addressable source handed to the core by an I/O
// collaborator: a file from a directory walk, or an extracted document.
type RawInput struct {
	ID      string // identifier (relative path or document name)
	Content string
	Size    int // total size in characters
}

// Unit is an extracted piece of structure with a span into its source.
// Containers own their children; children never outlive the container.
type Unit struct {
	// Identification
	Name   string
	Kind   UnitKind
	Source string // identifier of the RawInput this unit came from

	// Content
	Content string
	Desc    string   // truncated doc comment or heading text
	Bases   []string // embedded/base type names for container kinds
	Members []string // member signatures, capped with a "+N more" marker

	// Priority
	Tier Tier

	// Location (1-based, inclusive)
	StartLine int
	EndLine   int

	// Size estimate in approximate tokens, derived from Content
	Tokens int

	// Ownership tree; populated only for container kinds
	Children []Unit
}

// ComputeTokens derives the unit's size estimate from its content.
func (u *Unit) ComputeTokens() int {
	u.Tokens = EstimateTokens(u.Content)
	return u.Tokens
}

// Validate performs comprehensive validation of the unit.
func (u *Unit) Validate() error {
	if u.Name == "" {
		return errors.New("unit name is required")
	}
	if u.Source == "" {
		return errors.New("unit source is required")
	}
	if u.StartLine <= 0 || u.EndLine <= 0 {
		return errors.New("invalid span: line numbers must be positive")
	}
	if u.StartLine > u.EndLine {
		return errors.New("invalid span: start line must be before or equal to end line")
	}
	if !u.Kind.IsContainer() && len(u.Children) > 0 {
		return errors.New("only container units can have children")
	}
	return nil
}
