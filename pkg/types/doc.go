// Package types provides shared type definitions for paperpack.
//
// This package defines the domain types used across the extraction and
// packing pipeline: units, chunks, manifests, and warning records.
//
// # Core Types
//
// Unit represents a structural element extracted from an input: a top-level
// declaration in a source file, or a section of a paper:
//
//	unit := types.Unit{
//	    Name:    "BertAttention",
//	    Kind:    types.KindType,
//	    Source:  "modeling_bert.go",
//	    Tier:    types.Tier(0),
//	    Content: declSource,
//	}
//
// Chunk represents a budget-respecting group of units emitted as one output
// item. A chunk's tier is the numeric minimum of its members' tiers.
//
// Manifest summarizes a whole run: totals, a per-tier histogram keyed by
// tier label, and ordered chunk descriptors. A run that produced zero
// chunks still yields a valid manifest with zero totals.
//
// # Tiers
//
// Tiers are small non-negative integers; 0 is the highest priority. The
// reserved value TierUnranked marks inputs no pattern matched and renders
// as "unranked" rather than a "P" label:
//
//	types.Tier(0).Label()      // "P0"
//	types.TierUnranked.Label() // "unranked"
//
// # Size Estimates
//
// All sizes are approximate token counts derived from character length
// (chars/4). This is a heuristic, not a tokenizer; budgets are soft in
// exactly that sense.
//
//	tokens := types.EstimateTokens(content)
//
// # Validation
//
// Domain types implement validation methods to ensure data integrity:
//
//	if err := unit.Validate(); err != nil {
//	    log.Fatal(err)
//	}
package types
