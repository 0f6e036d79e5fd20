// Package packer groups extracted units into budget-respecting chunks.
//
// Packing is a greedy, single-pass, order-preserving accumulation: units
// are taken in input order, a chunk is flushed when the next unit would
// overflow the budget, and a unit that alone exceeds the budget is split
// at paragraph boundaries (falling back to line boundaries, never
// mid-token) into single-member chunks. The final irreducible slice of an
// oversized atomic unit is forced through even when it still exceeds the
// budget.
//
//	chunks, err := packer.Pack(units, packer.Options{
//	    Budget: 4000,
//	    Order:  packer.OrderPriority,
//	})
//
// Two orderings are exposed and never merged silently:
//
//   - OrderNatural keeps the document/walk order (locality-first)
//   - OrderPriority stable-sorts by tier before packing (priority-first)
//
// This is deliberately not optimal bin-packing (which is NP-hard): no
// re-ordering beyond the declared mode, no lookahead. Input-order
// preservation matters for the narrative coherence of code and paper
// structure, and a single pass keeps packing deterministic: identical
// input order and budget always yield an identical chunk sequence.
package packer
