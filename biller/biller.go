// Package biller throttles ingress claims, attaches a one-shot
// response path to each, and counts completions, grounded on
// original_source/src/biller.rs and generalized with a ticker
// (instead of sleep) per spec.md §4.1, in the style of the teacher's
// provider.HealthPoller ticker loop.
package biller

import (
	"context"
	"sync/atomic"
	"time"

	"github.com/rs/zerolog"

	"github.com/claimwave/adjudicator/claim"
	"github.com/claimwave/adjudicator/clearinghouse"
	"github.com/claimwave/adjudicator/logger"
	"github.com/claimwave/adjudicator/perr"
	"github.com/claimwave/adjudicator/remittance"
)

// Biller throttles ingress and forwards envelopes to the
// clearinghouse, counting completions toward TotalClaims.
type Biller struct {
	period      time.Duration
	totalClaims int
	completed   int64 // atomic

	tx       chan<- clearinghouse.Envelope
	shutdown chan<- struct{}
	observe  chan<- string // optional test-observation sink; may be nil

	log zerolog.Logger
}

// Option configures optional Biller behavior.
type Option func(*Biller)

// WithObserver sets a channel notified with the claim_id of every
// remittance the biller's waiter observes (spec.md §4.1's "optional
// test observation sink"). Intended for tests.
func WithObserver(ch chan<- string) Option {
	return func(b *Biller) { b.observe = ch }
}

// New builds a Biller. period is the ingest_rate from config; a zero
// period is rejected by Run with perr.ConfigInvalid (spec.md §4.1).
func New(period time.Duration, totalClaims int, tx chan<- clearinghouse.Envelope, shutdown chan<- struct{}, log zerolog.Logger, opts ...Option) *Biller {
	b := &Biller{
		period:      period,
		totalClaims: totalClaims,
		tx:          tx,
		shutdown:    shutdown,
		log:         logger.Component(log, "biller"),
	}
	for _, opt := range opts {
		opt(b)
	}
	return b
}

// Run throttles ingress at one claim per tick and forwards an
// envelope for each, stopping after exactly TotalClaims envelopes
// (spec.md §4.1). Returns perr.ConfigInvalid for a zero period, or
// perr.DownstreamGone if ingress closes before TotalClaims is reached.
func (b *Biller) Run(ctx context.Context, ingress <-chan claim.Claim) error {
	if b.period <= 0 {
		return perr.Wrap(perr.ConfigInvalid, "ingest_rate must be > 0, got %s", b.period)
	}

	logger.ClaimEvent(b.log, "-", "start", "biller running")
	ticker := time.NewTicker(b.period)
	defer ticker.Stop()

	sent := 0
	for sent < b.totalClaims {
		select {
		case <-ctx.Done():
			logger.ClaimEvent(b.log, "-", "shutdown", "context canceled, biller exiting")
			return nil
		case <-ticker.C:
		}

		var c claim.Claim
		var ok bool
		select {
		case <-ctx.Done():
			logger.ClaimEvent(b.log, "-", "shutdown", "context canceled, biller exiting")
			return nil
		case c, ok = <-ingress:
		}
		if !ok {
			err := perr.Wrap(perr.DownstreamGone, "ingress closed after %d of %d claims", sent, b.totalClaims)
			logger.ClaimEventErr(b.log, "-", "ingress_closed", err)
			return err
		}

		sink := make(chan remittance.Remittance, 1)
		go b.waitForRemittance(c.ClaimID, sink)

		env := clearinghouse.Envelope{Claim: c, ResponseSink: sink}
		logger.ClaimEvent(b.log, c.ClaimID, "sending_claim_envelope", "forwarding envelope to clearinghouse")

		// A full clearinghouse channel blocks here, applying
		// backpressure (spec.md §5) rather than dropping the claim.
		b.tx <- env
		sent++
	}

	logger.ClaimEvent(b.log, "-", "finished", "biller reached total_claims")
	return nil
}

// waitForRemittance is the per-claim waiter (spec.md §4.1): receives
// exactly one remittance, notifies the optional observer, atomically
// increments the completion counter, and signals shutdown once the
// counter reaches TotalClaims. Tolerates sink being closed without a
// remittance (no-op).
func (b *Biller) waitForRemittance(claimID string, sink <-chan remittance.Remittance) {
	rem, ok := <-sink
	if !ok {
		return
	}
	logger.ClaimEvent(b.log, claimID, "received_remittance", "biller waiter received remittance")

	if b.observe != nil {
		select {
		case b.observe <- rem.ClaimID:
		default:
		}
	}

	n := atomic.AddInt64(&b.completed, 1)
	if int(n) == b.totalClaims {
		select {
		case b.shutdown <- struct{}{}:
			logger.ClaimEvent(b.log, claimID, "shutdown", "completion target reached, signaling shutdown")
		default:
		}
	}
}

// Completed returns the number of remittances observed so far.
func (b *Biller) Completed() int64 {
	return atomic.LoadInt64(&b.completed)
}
