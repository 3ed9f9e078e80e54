// Package clearinghouse implements the central router between
// submitters (the Biller) and Payers, grounded on
// original_source/src/clearinghouse.rs and generalized to Go channels
// and select, in the style of the teacher's routing.Engine
// (routing/routing.go): an RWMutex-guarded table with a logger
// derived per component.
package clearinghouse

import (
	"context"
	"time"

	"github.com/rs/zerolog"

	"github.com/claimwave/adjudicator/claim"
	"github.com/claimwave/adjudicator/dedupe"
	"github.com/claimwave/adjudicator/logger"
	"github.com/claimwave/adjudicator/perr"
	"github.com/claimwave/adjudicator/remittance"
)

// Clearinghouse routes Envelopes to the payer named in their
// insurance block and routes Remittances back to the stored response
// sink, maintaining the claim-status ledger (spec.md §4.2).
type Clearinghouse struct {
	payerTxs map[string]chan<- claim.Claim
	sinks    *sinkRegistry
	history  *historyLedger
	rules    *RuleSet
	guard    dedupe.Guard
	log      zerolog.Logger
}

// Option configures optional Clearinghouse behavior.
type Option func(*Clearinghouse)

// WithDedupeGuard rejects claims whose claim_id has already been seen
// (spec.md §9's duplicate claim_id resolution) instead of overwriting
// the earlier claim's in-flight state.
func WithDedupeGuard(g dedupe.Guard) Option {
	return func(c *Clearinghouse) { c.guard = g }
}

// New builds a Clearinghouse that forwards claims to payerTxs by
// payer_id. rules may be nil (equivalent to an empty RuleSet).
func New(payerTxs map[string]chan<- claim.Claim, rules *RuleSet, log zerolog.Logger, opts ...Option) *Clearinghouse {
	if rules == nil {
		rules = NewRuleSet()
	}
	c := &Clearinghouse{
		payerTxs: payerTxs,
		sinks:    newSinkRegistry(),
		history:  newHistoryLedger(),
		rules:    rules,
		log:      logger.Component(log, "clearinghouse"),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Run is the Clearinghouse's event loop (spec.md §4.2): concurrently
// awaits claimRx and remitRx, handling one message to completion
// before the next select. Returns when both channels are closed.
func (c *Clearinghouse) Run(ctx context.Context, claimRx <-chan Envelope, remitRx <-chan remittance.Remittance) {
	logger.ClaimEvent(c.log, "-", "start", "clearinghouse running")

	claimsOpen, remitsOpen := true, true
	for claimsOpen || remitsOpen {
		select {
		case <-ctx.Done():
			logger.ClaimEvent(c.log, "-", "shutdown", "context canceled, clearinghouse exiting")
			return
		case env, ok := <-claimRx:
			if !ok {
				claimRx = nil
				claimsOpen = false
				continue
			}
			c.handleClaim(env)
		case rem, ok := <-remitRx:
			if !ok {
				remitRx = nil
				remitsOpen = false
				continue
			}
			c.handleRemittance(rem)
		}
	}
	logger.ClaimEvent(c.log, "-", "shutdown", "both inbound channels closed, clearinghouse exiting")
}

// handleClaim implements the ∅ → Submitted transition (spec.md §4.2).
func (c *Clearinghouse) handleClaim(env Envelope) {
	claimID := env.Claim.ClaimID
	payerID := env.Claim.Insurance.PayerID
	logger.ClaimEvent(c.log, claimID, "handle_new_claim", "received claim envelope")

	if c.guard != nil {
		seen, err := c.guard.SeenBefore(context.Background(), claimID)
		if err != nil {
			logger.ClaimEventErr(c.log, claimID, "dedupe_check_failed", err)
		} else if seen {
			logger.ClaimEvent(c.log, claimID, "duplicate_claim_id", "claim_id already seen, rejecting duplicate")
			return
		}
	}

	if target, overridden := c.rules.Resolve(&env.Claim); overridden {
		payerID = target
	}

	c.sinks.put(claimID, env.ResponseSink)
	c.history.submit(ClaimStatus{
		Status:      StatusSubmitted,
		Claim:       env.Claim,
		SubmittedAt: time.Now(),
	})

	payerTx, ok := c.payerTxs[payerID]
	if !ok {
		logger.ClaimEventErr(c.log, claimID, "forward_to_payer", perr.Wrap(perr.UnknownPayer, "payer_id %q has no registered sink", payerID))
		return
	}

	// A full payer channel blocks here, applying backpressure
	// (spec.md §5) rather than dropping the claim.
	payerTx <- env.Claim
	logger.ClaimEvent(c.log, claimID, "forward_to_payer", "forwarded to payer "+payerID)
}

// handleRemittance implements the Submitted → Remitted transition and
// the two drop cases in spec.md §4.2's table.
func (c *Clearinghouse) handleRemittance(rem remittance.Remittance) {
	claimID := rem.ClaimID
	logger.ClaimEvent(c.log, claimID, "received_remittance", "received remittance")

	outcome := c.history.applyRemittance(claimID, rem, time.Now())
	switch outcome {
	case remitNotFound:
		logger.ClaimEventErr(c.log, claimID, "remittance_not_found", perr.Wrap(perr.RemittanceOrphan, "no history entry for claim %q", claimID))
		return
	case remitWrongState:
		logger.ClaimEventErr(c.log, claimID, "remittance_wrong_state", perr.Wrap(perr.RemittanceOrphan, "claim %q already remitted", claimID))
		return
	}

	logger.ClaimEvent(c.log, claimID, "remittance_recorded", "status transitioned to remitted")

	sink, ok := c.sinks.take(claimID)
	if !ok {
		logger.ClaimEventErr(c.log, claimID, "remittance_no_channel", perr.Wrap(perr.RemittanceOrphan, "no response sink registered for claim %q", claimID))
		return
	}

	// The sink has capacity one and is written at most once (spec.md
	// §5), so this send never blocks.
	sink <- rem
	logger.ClaimEvent(c.log, claimID, "remittance_sent", "remittance delivered to originating biller")
}

// Snapshot returns a point-in-time copy of the claim-status ledger for
// the Reporter and the HTTP reporting surface. Never holds a lock
// across a channel send (spec.md §4.2 locking discipline).
func (c *Clearinghouse) Snapshot() map[string]ClaimStatus {
	return c.history.snapshot()
}
