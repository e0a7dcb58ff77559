// Package quota implements the usage-tier policy gate. The gate is a pure
// predicate over a caller's plan/usage snapshot; it never mutates state.
// Recording consumed usage after a successful operation is the caller's job.
package quota

// DefaultFreeLimit is the number of metered operations a free account may run.
const DefaultFreeLimit = 10

// Class groups operations by how the gate treats them.
type Class string

const (
	// ClassMetered operations are available to both tiers and counted
	// against the free-usage limit for free accounts.
	ClassMetered Class = "metered"
	// ClassPremiumOnly operations require the premium entitlement.
	ClassPremiumOnly Class = "premium-only"
)

// Reason identifies why a request was denied.
type Reason string

const (
	ReasonQuotaExhausted  Reason = "quota exhausted"
	ReasonPremiumRequired Reason = "premium required"
)

// Decision is the outcome of a gate evaluation.
type Decision struct {
	Allowed bool
	Reason  Reason
}

// Gate decides whether a caller may run an operation class.
type Gate struct {
	freeLimit int
}

// NewGate creates a gate with the provided free-usage limit. Non-positive
// limits fall back to DefaultFreeLimit.
func NewGate(freeLimit int) *Gate {
	if freeLimit <= 0 {
		freeLimit = DefaultFreeLimit
	}
	return &Gate{freeLimit: freeLimit}
}

// FreeLimit returns the configured free-usage threshold.
func (g *Gate) FreeLimit() int {
	if g == nil {
		return DefaultFreeLimit
	}
	return g.freeLimit
}

// Authorize evaluates (plan, usage snapshot, operation class) and returns
// ALLOW or DENY. Premium accounts pass unconditionally; free accounts pass
// metered operations while usage remains under the limit and never pass
// premium-only operations.
func (g *Gate) Authorize(premium bool, usageCount int, class Class) Decision {
	if premium {
		return Decision{Allowed: true}
	}

	switch class {
	case ClassMetered:
		if usageCount < g.FreeLimit() {
			return Decision{Allowed: true}
		}
		return Decision{Reason: ReasonQuotaExhausted}
	default:
		return Decision{Reason: ReasonPremiumRequired}
	}
}
