package packer

import (
	"fmt"
	"sort"

	"github.com/paperpack/paperpack/pkg/types"
)

// Order selects how the unit stream is arranged before packing.
type Order int

const (
	// OrderNatural packs units in document/walk order (locality-first)
	OrderNatural Order = iota
	// OrderPriority stable-sorts units by tier first (priority-first)
	OrderPriority
)

// String returns the configuration name of the order.
func (o Order) String() string {
	switch o {
	case OrderNatural:
		return "natural"
	case OrderPriority:
		return "priority"
	default:
		return fmt.Sprintf("order(%d)", int(o))
	}
}

// ParseOrder converts a configuration string into an Order.
func ParseOrder(s string) (Order, error) {
	switch s {
	case "natural":
		return OrderNatural, nil
	case "priority":
		return OrderPriority, nil
	default:
		return 0, fmt.Errorf("%w: %q", types.ErrInvalidOrder, s)
	}
}

// Options configures a packing run.
type Options struct {
	Budget int // maximum size estimate per chunk, in approximate tokens
	Order  Order
}

// Validate checks the options before any processing begins.
func (o Options) Validate() error {
	if o.Budget <= 0 {
		return fmt.Errorf("%w: got %d", types.ErrInvalidBudget, o.Budget)
	}
	if o.Order != OrderNatural && o.Order != OrderPriority {
		return fmt.Errorf("%w: %d", types.ErrInvalidOrder, int(o.Order))
	}
	return nil
}

// accumulator is the open chunk being filled.
type accumulator struct {
	members []types.Unit
	tokens  int
	tier    types.Tier
}

func (a *accumulator) empty() bool {
	return len(a.members) == 0
}

func (a *accumulator) add(u types.Unit) {
	a.members = append(a.members, u)
	a.tokens += u.Tokens
	if u.Tier < a.tier {
		a.tier = u.Tier
	}
}

func (a *accumulator) reset() {
	a.members = nil
	a.tokens = 0
	a.tier = types.TierUnranked
}

// Pack groups units into chunks whose size estimates stay within the
// budget. Deterministic for a given unit order, budget, and order mode.
// An empty unit list yields zero chunks and no error. Every unit must
// pass Validate before packing starts.
func Pack(units []types.Unit, opts Options) ([]types.Chunk, error) {
	if err := opts.Validate(); err != nil {
		return nil, err
	}
	for i := range units {
		if err := units[i].Validate(); err != nil {
			return nil, fmt.Errorf("unit %d (%s): %w", i, units[i].Name, err)
		}
	}

	ordered := make([]types.Unit, len(units))
	copy(ordered, units)
	if opts.Order == OrderPriority {
		sort.SliceStable(ordered, func(i, j int) bool {
			return ordered[i].Tier < ordered[j].Tier
		})
	}

	var chunks []types.Chunk
	acc := &accumulator{tier: types.TierUnranked}

	flush := func() {
		if acc.empty() {
			return
		}
		chunks = append(chunks, types.Chunk{
			Tier:    acc.tier,
			Tokens:  acc.tokens,
			Members: acc.members,
		})
		acc.reset()
	}

	for _, u := range ordered {
		switch {
		case u.Tokens > opts.Budget:
			// Oversized: flush whatever is open, then emit each
			// sub-slice as its own single-member chunk
			flush()
			for _, frag := range splitUnit(u, opts.Budget) {
				chunks = append(chunks, types.Chunk{
					Tier:    frag.Tier,
					Tokens:  frag.Tokens,
					Members: []types.Unit{frag},
				})
			}
		case !acc.empty() && acc.tokens+u.Tokens > opts.Budget:
			flush()
			acc.add(u)
		default:
			acc.add(u)
		}
	}
	flush()

	for i := range chunks {
		chunks[i].Index = i
		chunks[i].Total = len(chunks)
		chunks[i].ComputeContentHash()
	}
	return chunks, nil
}
