package httpapi

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"github.com/claimwave/adjudicator/claim"
	"github.com/claimwave/adjudicator/clearinghouse"
	"github.com/claimwave/adjudicator/payer"
	"github.com/claimwave/adjudicator/remittance"
)

type fakeSnapshotter struct {
	snap map[string]clearinghouse.ClaimStatus
}

func (f fakeSnapshotter) Snapshot() map[string]clearinghouse.ClaimStatus { return f.snap }

func TestHealthzAndReadyz(t *testing.T) {
	router := NewRouter(fakeSnapshotter{snap: map[string]clearinghouse.ClaimStatus{}}, nil, zerolog.Nop())
	srv := httptest.NewServer(router)
	defer srv.Close()

	for _, path := range []string{"/healthz", "/readyz"} {
		resp, err := http.Get(srv.URL + path)
		if err != nil {
			t.Fatalf("GET %s: %v", path, err)
		}
		if resp.StatusCode != http.StatusOK {
			t.Errorf("GET %s status = %d, want 200", path, resp.StatusCode)
		}
		resp.Body.Close()
	}
}

func TestCompletionReport(t *testing.T) {
	snap := map[string]clearinghouse.ClaimStatus{
		"c1": {Status: clearinghouse.StatusSubmitted},
		"c2": {Status: clearinghouse.StatusRemitted},
	}
	router := NewRouter(fakeSnapshotter{snap: snap}, nil, zerolog.Nop())
	srv := httptest.NewServer(router)
	defer srv.Close()

	resp, err := http.Get(srv.URL + "/v1/reports/completion")
	if err != nil {
		t.Fatalf("GET /v1/reports/completion: %v", err)
	}
	defer resp.Body.Close()

	var body map[string]int
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if body["submitted"] != 1 || body["remitted"] != 1 || body["total"] != 2 {
		t.Fatalf("got %+v, want submitted=1 remitted=1 total=2", body)
	}
}

func TestPatientFinancialsReport(t *testing.T) {
	snap := map[string]clearinghouse.ClaimStatus{
		"c1": {
			Status: clearinghouse.StatusRemitted,
			Claim:  claim.Claim{ClaimID: "c1", Insurance: claim.Insurance{PatientMemberID: "p1"}},
			Remittance: remittance.Remittance{
				ClaimID: "c1",
				ServiceLineRemittances: []remittance.ServiceLineRemittance{
					{ServiceLineID: "sl1", Copay: 5, Coinsurance: 10, Deductible: 2},
				},
			},
		},
	}
	router := NewRouter(fakeSnapshotter{snap: snap}, nil, zerolog.Nop())
	srv := httptest.NewServer(router)
	defer srv.Close()

	resp, err := http.Get(srv.URL + "/v1/reports/patient-financials")
	if err != nil {
		t.Fatalf("GET /v1/reports/patient-financials: %v", err)
	}
	defer resp.Body.Close()

	var body map[string]struct {
		Copay       float64 `json:"copay"`
		Coinsurance float64 `json:"coinsurance"`
		Deductible  float64 `json:"deductible"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	p1, ok := body["p1"]
	if !ok {
		t.Fatalf("missing p1 in response: %+v", body)
	}
	if p1.Copay != 5 || p1.Coinsurance != 10 || p1.Deductible != 2 {
		t.Fatalf("got %+v, want copay=5 coinsurance=10 deductible=2", p1)
	}
}

func TestARAgingReport(t *testing.T) {
	now := time.Now()
	snap := map[string]clearinghouse.ClaimStatus{
		"fresh": {
			Status:      clearinghouse.StatusSubmitted,
			SubmittedAt: now,
			Claim:       claim.Claim{Insurance: claim.Insurance{PayerID: "unknown"}},
		},
	}
	router := NewRouter(fakeSnapshotter{snap: snap}, nil, zerolog.Nop())
	srv := httptest.NewServer(router)
	defer srv.Close()

	resp, err := http.Get(srv.URL + "/v1/reports/ar-aging")
	if err != nil {
		t.Fatalf("GET /v1/reports/ar-aging: %v", err)
	}
	defer resp.Body.Close()

	var body map[string]struct {
		Min0To1 int `json:"0_1_min"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	payer, ok := body["unknown"]
	if !ok {
		t.Fatalf("missing payer key %q in response: %+v", "unknown", body)
	}
	if payer.Min0To1 != 1 {
		t.Fatalf("got %+v, want 0_1_min=1", payer)
	}
}

type fakePayerMetrics struct {
	id   string
	snap payer.Snapshot
}

func (f fakePayerMetrics) ID() string              { return f.id }
func (f fakePayerMetrics) Metrics() payer.Snapshot { return f.snap }

func TestPayersReport(t *testing.T) {
	payers := []PayerMetricsSource{
		fakePayerMetrics{id: "medicare", snap: payer.Snapshot{ActiveAdjudications: 1, TotalProcessed: 4, TotalValidationFailures: 1}},
	}
	router := NewRouter(fakeSnapshotter{snap: map[string]clearinghouse.ClaimStatus{}}, payers, zerolog.Nop())
	srv := httptest.NewServer(router)
	defer srv.Close()

	resp, err := http.Get(srv.URL + "/v1/payers")
	if err != nil {
		t.Fatalf("GET /v1/payers: %v", err)
	}
	defer resp.Body.Close()

	var body map[string]payer.Snapshot
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	medicare, ok := body["medicare"]
	if !ok {
		t.Fatalf("missing payer key %q in response: %+v", "medicare", body)
	}
	if medicare.TotalProcessed != 4 || medicare.TotalValidationFailures != 1 {
		t.Fatalf("got %+v, want total_processed=4 total_validation_failures=1", medicare)
	}
}
