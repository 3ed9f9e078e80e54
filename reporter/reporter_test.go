package reporter

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"github.com/claimwave/adjudicator/claim"
	"github.com/claimwave/adjudicator/clearinghouse"
	"github.com/claimwave/adjudicator/remittance"
)

type fakeSnapshotter struct {
	snap map[string]clearinghouse.ClaimStatus
}

func (f fakeSnapshotter) Snapshot() map[string]clearinghouse.ClaimStatus { return f.snap }

func TestRenderBucketsOutstandingClaimsByAge(t *testing.T) {
	now := time.Unix(1_700_000_000, 0)
	snap := map[string]clearinghouse.ClaimStatus{
		"fresh": {
			Status:      clearinghouse.StatusSubmitted,
			SubmittedAt: now,
			Claim:       claim.Claim{Insurance: claim.Insurance{PayerID: "medicare"}},
		},
		"old": {
			Status:      clearinghouse.StatusSubmitted,
			SubmittedAt: now.Add(-4 * time.Minute),
			Claim:       claim.Claim{Insurance: claim.Insurance{PayerID: "medicare"}},
		},
	}

	out := Render(snap, now)
	if !strings.Contains(out, "0-1 min: 1") {
		t.Errorf("expected 0-1 min bucket to have 1 claim, got:\n%s", out)
	}
	if !strings.Contains(out, "3+ min: 1") {
		t.Errorf("expected 3+ min bucket to have 1 claim, got:\n%s", out)
	}
}

func TestRenderKeysAgingBucketsByPayer(t *testing.T) {
	now := time.Unix(1_700_000_000, 0)
	snap := map[string]clearinghouse.ClaimStatus{
		"abc123": {
			Status:      clearinghouse.StatusSubmitted,
			SubmittedAt: now,
			Claim:       claim.Claim{Insurance: claim.Insurance{PayerID: "unknown"}},
		},
	}

	buckets := ARAgingBuckets(snap, now)
	bucket, ok := buckets["unknown"]
	if !ok {
		t.Fatalf("expected AR aging entry for payer %q, got %v", "unknown", buckets)
	}
	if bucket[0] != 1 {
		t.Errorf("bucket[0] = %d, want 1", bucket[0])
	}

	out := Render(snap, now)
	if !strings.Contains(out, "unknown:") {
		t.Errorf("expected report to break aging down under payer %q, got:\n%s", "unknown", out)
	}
}

func TestRenderSumsPatientTotalsForRemittedClaims(t *testing.T) {
	now := time.Unix(1_700_000_000, 0)
	c := claim.Claim{
		ClaimID:   "c1",
		Insurance: claim.Insurance{PatientMemberID: "pmid1"},
	}
	rem := remittance.Remittance{
		ClaimID: "c1",
		ServiceLineRemittances: []remittance.ServiceLineRemittance{
			{ServiceLineID: "sl1", Copay: 7.5, Coinsurance: 15.0, Deductible: 4.5},
		},
	}
	snap := map[string]clearinghouse.ClaimStatus{
		"c1": {Status: clearinghouse.StatusRemitted, Claim: c, Remittance: rem},
	}

	out := Render(snap, now)
	if !strings.Contains(out, "pmid1 => Copay: $7.50, Coinsurance: $15.00, Deductible: $4.50") {
		t.Errorf("patient totals line missing or wrong, got:\n%s", out)
	}
}

func TestRenderEmptyLedger(t *testing.T) {
	out := Render(map[string]clearinghouse.ClaimStatus{}, time.Unix(0, 0))
	if !strings.Contains(out, "no remitted claims yet") {
		t.Errorf("expected empty-ledger placeholder, got:\n%s", out)
	}
}

func TestRunReturnsOnCancel(t *testing.T) {
	src := fakeSnapshotter{snap: map[string]clearinghouse.ClaimStatus{}}
	r := New(src, zerolog.Nop())
	r.interval = time.Hour // only the immediate tick should fire in this test

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		r.Run(ctx)
		close(done)
	}()

	cancel()
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("timed out waiting for Run to exit after cancel")
	}
}
