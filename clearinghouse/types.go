package clearinghouse

import (
	"time"

	"github.com/claimwave/adjudicator/claim"
	"github.com/claimwave/adjudicator/remittance"
)

// Envelope pairs a claim with the one-shot reply path for its
// remittance (spec.md §3). The response sink is capacity-one,
// single-use: ownership passes biller → clearinghouse registry →
// consumed when the remittance is routed back.
type Envelope struct {
	Claim        claim.Claim
	ResponseSink chan<- remittance.Remittance
}

// Status tags where a claim is in its two-state lifecycle
// (spec.md §3): only Submitted → Remitted is a legal transition.
type Status int

const (
	StatusSubmitted Status = iota
	StatusRemitted
)

func (s Status) String() string {
	if s == StatusRemitted {
		return "remitted"
	}
	return "submitted"
}

// ClaimStatus is one entry in the clearinghouse's history ledger.
// Remittance and RemittedAt are the zero value until the status is
// StatusRemitted.
type ClaimStatus struct {
	Status      Status
	Claim       claim.Claim
	Remittance  remittance.Remittance
	SubmittedAt time.Time
	RemittedAt  time.Time
}
