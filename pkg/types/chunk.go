package types

import (
	"crypto/sha256"
	"errors"
	"strings"
)

// Chunk is an ordered group of units (or sequential slices of a single
// oversized unit) whose combined size estimate fits the configured budget.
type Chunk struct {
	// Sequence position; Total is known only once packing completes
	Index int
	Total int

	// Assigned tier: the numeric minimum among members
	Tier Tier

	// Cumulative size estimate in approximate tokens
	Tokens int

	// Ordered members in input order
	Members []Unit

	// ContentHash is the SHA-256 of the chunk content
	ContentHash [32]byte
}

// MemberNames returns the member unit names in order.
func (c *Chunk) MemberNames() []string {
	names := make([]string, len(c.Members))
	for i := range c.Members {
		names[i] = c.Members[i].Name
	}
	return names
}

// Content joins the member contents in order with blank-line separators.
func (c *Chunk) Content() string {
	parts := make([]string, len(c.Members))
	for i := range c.Members {
		parts[i] = c.Members[i].Content
	}
	return strings.Join(parts, "\n\n")
}

// ComputeContentHash computes the SHA-256 hash of the chunk content.
func (c *Chunk) ComputeContentHash() {
	c.ContentHash = sha256.Sum256([]byte(c.Content()))
}

// Validate performs comprehensive validation of the chunk.
func (c *Chunk) Validate() error {
	if len(c.Members) == 0 {
		return errors.New("chunk must have at least one member")
	}
	if c.Index < 0 {
		return errors.New("chunk index must be non-negative")
	}
	if c.Total > 0 && c.Index >= c.Total {
		return errors.New("chunk index out of range")
	}
	if c.Tokens < 0 {
		return errors.New("chunk token count must be non-negative")
	}
	for i := range c.Members {
		if c.Tier > c.Members[i].Tier {
			return errors.New("chunk tier must be the minimum member tier")
		}
	}
	return nil
}
