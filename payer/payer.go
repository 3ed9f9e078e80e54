// Package payer implements the adjudication actor that, per claim,
// waits a random delay and then computes and returns a remittance,
// grounded on original_source/src/payer.rs and generalized to one
// goroutine-per-inbound-claim fanning into a shared remittance
// channel, matching the teacher's spawn-per-unit-of-work style.
package payer

import (
	"context"
	"math/rand"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/claimwave/adjudicator/claim"
	"github.com/claimwave/adjudicator/logger"
	"github.com/claimwave/adjudicator/perr"
	"github.com/claimwave/adjudicator/remittance"
)

// DelayRange is the inclusive [Min, Max] second range a payer sleeps
// before adjudicating a claim (spec.md §4.3's simulated processing
// latency).
type DelayRange struct {
	Min, Max int
}

// Payer adjudicates claims routed to it by the Clearinghouse.
type Payer struct {
	id      string
	delay   DelayRange
	metrics Metrics
	log     zerolog.Logger
	rng     *rand.Rand
}

// New builds a Payer named id with the given delay range.
func New(id string, delay DelayRange, log zerolog.Logger) *Payer {
	return &Payer{
		id:    id,
		delay: delay,
		log:   logger.Component(log, "payer."+id),
		rng:   rand.New(rand.NewSource(time.Now().UnixNano())),
	}
}

// ID returns the payer's configured identity (e.g. "medicare").
func (p *Payer) ID() string { return p.id }

// Metrics returns a point-in-time snapshot of this payer's counters.
func (p *Payer) Metrics() Snapshot { return p.metrics.snapshot() }

// Run consumes claims from in, adjudicating each in its own goroutine
// and sending the resulting remittance on out. Returns once in is
// closed (or ctx is canceled) and every spawned adjudication has
// returned.
func (p *Payer) Run(ctx context.Context, in <-chan claim.Claim, out chan<- remittance.Remittance) error {
	logger.ClaimEvent(p.log, "-", "start", "payer running")

	var wg sync.WaitGroup
loop:
	for {
		select {
		case <-ctx.Done():
			logger.ClaimEvent(p.log, "-", "shutdown", "context canceled, payer exiting")
			break loop
		case c, ok := <-in:
			if !ok {
				break loop
			}
			wg.Add(1)
			go func(c claim.Claim) {
				defer wg.Done()
				p.adjudicate(ctx, c, out)
			}(c)
		}
	}

	wg.Wait()
	logger.ClaimEvent(p.log, "-", "finished", "payer input closed, all adjudications complete")
	return nil
}

// adjudicate is the per-claim worker: sleep a random delay, compute a
// remittance, validate it, and send it on out regardless of
// validation outcome (spec.md §4.3: a mismatch is logged, never
// dropped).
func (p *Payer) adjudicate(ctx context.Context, c claim.Claim, out chan<- remittance.Remittance) {
	p.metrics.adjudicationStarted()

	delay := p.randomDelay()
	logger.ClaimEvent(p.log, c.ClaimID, "adjudicating", "sleeping for simulated processing delay")

	timer := time.NewTimer(delay)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		p.metrics.adjudicationFinished(false)
		return
	case <-timer.C:
	}

	rem := remittance.FromClaim(&c)
	validationFailed := false
	if err := rem.ValidateAgainstClaim(&c); err != nil {
		validationFailed = true
		logger.ClaimEventErr(p.log, c.ClaimID, "validation_mismatch", perr.Wrap(perr.ValidationMismatch, "%v", err))
	}

	p.metrics.adjudicationFinished(validationFailed)
	logger.ClaimEvent(p.log, c.ClaimID, "adjudicated", "remittance computed, sending to clearinghouse")

	select {
	case out <- rem:
	case <-ctx.Done():
	}
}

func (p *Payer) randomDelay() time.Duration {
	lo, hi := p.delay.Min, p.delay.Max
	if hi <= lo {
		return time.Duration(lo) * time.Second
	}
	secs := lo + p.rng.Intn(hi-lo+1)
	return time.Duration(secs) * time.Second
}
