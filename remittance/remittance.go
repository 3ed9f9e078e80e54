// Package remittance computes and validates a payer's decomposition
// of a claim's billed total, grounded on
// original_source/src/remittance.rs.
package remittance

import (
	"fmt"
	"math"

	"github.com/claimwave/adjudicator/claim"
)

// Tolerance is the allowed floating-point slack when validating that
// a service line's remittance amounts sum to its billed total
// (spec.md §3 invariant 3).
const Tolerance = 1e-2

// ServiceLineRemittance decomposes one service line's billed total
// into paid/coinsurance/copay/deductible/not-allowed amounts.
type ServiceLineRemittance struct {
	ServiceLineID string  `json:"service_line_id"`
	Paid          float64 `json:"paid"`
	Coinsurance   float64 `json:"coinsurance"`
	Copay         float64 `json:"copay"`
	Deductible    float64 `json:"deductible"`
	NotAllowed    float64 `json:"not_allowed"`
}

// Sum returns the total of the five remittance components.
func (r ServiceLineRemittance) Sum() float64 {
	return r.Paid + r.Coinsurance + r.Copay + r.Deductible + r.NotAllowed
}

// Remittance is a payer's response to one claim.
type Remittance struct {
	ClaimID               string                  `json:"claim_id"`
	ServiceLineRemittances []ServiceLineRemittance `json:"service_line_remittances"`
}

// FromClaim computes a remittance for c using the fixed percentage
// split from spec.md §4.3: 80% paid, 10% coinsurance, 5% copay, 3%
// deductible, 2% not allowed. Service-line remittances are emitted in
// the same order as the input service lines.
func FromClaim(c *claim.Claim) Remittance {
	lines := make([]ServiceLineRemittance, len(c.ServiceLines))
	for i, sl := range c.ServiceLines {
		total := sl.Total()
		lines[i] = ServiceLineRemittance{
			ServiceLineID: sl.ServiceLineID,
			Paid:          total * 0.80,
			Coinsurance:   total * 0.10,
			Copay:         total * 0.05,
			Deductible:    total * 0.03,
			NotAllowed:    total * 0.02,
		}
	}
	return Remittance{ClaimID: c.ClaimID, ServiceLineRemittances: lines}
}

// ValidateAgainstClaim checks that each service line's remittance
// amounts sum to its billed total within Tolerance (spec.md §3).
func (r Remittance) ValidateAgainstClaim(c *claim.Claim) error {
	n := len(r.ServiceLineRemittances)
	if n != len(c.ServiceLines) {
		return fmt.Errorf("remittance %s: %d service line remittances, claim has %d service lines", r.ClaimID, n, len(c.ServiceLines))
	}
	for i, sl := range c.ServiceLines {
		rem := r.ServiceLineRemittances[i]
		billed := sl.Total()
		if math.Abs(rem.Sum()-billed) > Tolerance {
			return fmt.Errorf("service line %s: remittance sum %.2f does not match billed amount %.2f", rem.ServiceLineID, rem.Sum(), billed)
		}
	}
	return nil
}
