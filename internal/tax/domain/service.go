package domain

import "context"

// Resolver maps a postal code to its tax jurisdiction.
type Resolver interface {
	Resolve(ctx context.Context, postalCode string) (*Jurisdiction, error)
}

// Service computes tax over postal-code grouped subtotals.
type Service interface {
	Resolver
	// ComputeBreakdown resolves each group's jurisdiction and returns the
	// per-jurisdiction lines plus the summed tax. Rounding happens once per
	// line, never on the total.
	ComputeBreakdown(ctx context.Context, groups []Group) ([]Line, int64, error)
}
