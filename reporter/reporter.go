// Package reporter periodically renders AR aging and patient
// financial summaries from the clearinghouse's claim-status ledger,
// grounded on original_source/src/reporter.rs's commented-out
// generate_report (AR aging buckets + per-patient totals) and
// generalized to a ticker-driven background loop in the style of the
// teacher's provider.HealthPoller (provider/healthpoller.go).
package reporter

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/claimwave/adjudicator/clearinghouse"
	"github.com/claimwave/adjudicator/logger"
)

// Interval is the default tick period between reports (spec.md §4.5).
const Interval = 5 * time.Second

// arBucketLabels are the AR aging bucket labels, mirroring
// original_source's four 0–1/1–2/2–3/3+ minute buckets.
var arBucketLabels = [...]string{"0-1 min", "1-2 min", "2-3 min", "3+ min"}

// Snapshotter is anything that can produce a point-in-time copy of the
// claim-status ledger; satisfied by *clearinghouse.Clearinghouse.
type Snapshotter interface {
	Snapshot() map[string]clearinghouse.ClaimStatus
}

// Reporter prints periodic text reports to stdout, following the
// teacher's pollLoop structure: an immediate first tick followed by a
// steady ticker.
type Reporter struct {
	source   Snapshotter
	interval time.Duration
	log      zerolog.Logger
	now      func() time.Time
}

// New builds a Reporter reading from source at the default Interval.
func New(source Snapshotter, log zerolog.Logger) *Reporter {
	return &Reporter{
		source:   source,
		interval: Interval,
		log:      logger.Component(log, "reporter"),
		now:      time.Now,
	}
}

// Run ticks at r.interval, rendering a report each time, until ctx is
// canceled. Runs one report immediately on entry (spec.md §4.5).
func (r *Reporter) Run(ctx context.Context) {
	logger.ClaimEvent(r.log, "-", "start", "reporter running")

	r.report()

	ticker := time.NewTicker(r.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			logger.ClaimEvent(r.log, "-", "shutdown", "context canceled, reporter exiting")
			return
		case <-ticker.C:
			r.report()
		}
	}
}

func (r *Reporter) report() {
	snap := r.source.Snapshot()
	text := Render(snap, r.now())
	fmt.Print(text)
}

// patientTotals accumulates one patient's financial responsibility
// across all of their remitted claims.
type patientTotals struct {
	copay       float64
	coinsurance float64
	deductible  float64
}

// ARAgingBuckets computes the AR aging histogram keyed by payer_id
// (spec.md §4.4: "key = payer_id; value = a length-4 counter vector"),
// counting only still-Submitted entries by age-since-submission.
func ARAgingBuckets(snap map[string]clearinghouse.ClaimStatus, now time.Time) map[string][4]int {
	buckets := make(map[string][4]int)
	for _, status := range snap {
		if status.Status != clearinghouse.StatusSubmitted {
			continue
		}
		ageMin := int(now.Sub(status.SubmittedAt) / time.Minute)
		b := buckets[status.Claim.Insurance.PayerID]
		switch {
		case ageMin <= 0:
			b[0]++
		case ageMin == 1:
			b[1]++
		case ageMin == 2:
			b[2]++
		default:
			b[3]++
		}
		buckets[status.Claim.Insurance.PayerID] = b
	}
	return buckets
}

// Render builds the AR aging + patient financial report text for the
// given ledger snapshot, evaluated relative to now. AR aging buckets
// claims still awaiting remittance by time since submission, broken
// down by payer_id; patient stats total the financial responsibility
// on claims already remitted. Exported for testing without going
// through the ticker.
func Render(snap map[string]clearinghouse.ClaimStatus, now time.Time) string {
	arBuckets := ARAgingBuckets(snap, now)
	totals := make(map[string]*patientTotals)

	for _, status := range snap {
		switch status.Status {
		case clearinghouse.StatusRemitted:
			key := status.Claim.Insurance.PatientMemberID
			t, ok := totals[key]
			if !ok {
				t = &patientTotals{}
				totals[key] = t
			}
			for _, line := range status.Remittance.ServiceLineRemittances {
				t.copay += line.Copay
				t.coinsurance += line.Coinsurance
				t.deductible += line.Deductible
			}
		}
	}

	var b strings.Builder
	b.WriteString("\n====== AR Aging Report ======\n")
	if len(arBuckets) == 0 {
		b.WriteString("(no outstanding claims)\n")
	} else {
		payerIDs := make([]string, 0, len(arBuckets))
		for payerID := range arBuckets {
			payerIDs = append(payerIDs, payerID)
		}
		sort.Strings(payerIDs)
		for _, payerID := range payerIDs {
			bucket := arBuckets[payerID]
			fmt.Fprintf(&b, "%s:\n", payerID)
			for i, label := range arBucketLabels {
				fmt.Fprintf(&b, "  %s: %d\n", label, bucket[i])
			}
		}
	}

	b.WriteString("\n====== Patient Summary Stats ======\n")
	if len(totals) == 0 {
		b.WriteString("(no remitted claims yet)\n")
		return b.String()
	}

	keys := make([]string, 0, len(totals))
	for k := range totals {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, patientID := range keys {
		t := totals[patientID]
		fmt.Fprintf(&b, "%s => Copay: $%.2f, Coinsurance: $%.2f, Deductible: $%.2f\n",
			patientID, t.copay, t.coinsurance, t.deductible)
	}
	return b.String()
}
