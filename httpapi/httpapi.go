// Package httpapi exposes the clearinghouse's claim-status ledger as
// a read-only HTTP reporting surface, grounded on the teacher's
// router.NewRouter (router/router.go) for the middleware chain shape
// (request ID, panic recovery, request logger, then routes) reduced
// to the endpoints a read-only reporting surface needs.
package httpapi

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/rs/zerolog"

	"github.com/claimwave/adjudicator/clearinghouse"
	"github.com/claimwave/adjudicator/logger"
	"github.com/claimwave/adjudicator/payer"
	"github.com/claimwave/adjudicator/reporter"
)

// PayerMetricsSource is anything exposing a payer identity and a
// point-in-time metrics snapshot; satisfied by *payer.Payer.
type PayerMetricsSource interface {
	ID() string
	Metrics() payer.Snapshot
}

// NewRouter returns a chi Router exposing health checks and JSON
// report endpoints over source's claim-status ledger and payers'
// adjudication counters.
func NewRouter(source reporter.Snapshotter, payers []PayerMetricsSource, appLogger zerolog.Logger) http.Handler {
	r := chi.NewRouter()

	r.Use(chimw.RequestID)
	r.Use(chimw.Recoverer)
	r.Use(requestLogger(appLogger))

	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})
	r.Get("/readyz", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"status": "ready"})
	})

	r.Route("/v1/reports", func(r chi.Router) {
		r.Get("/ar-aging", arAgingHandler(source))
		r.Get("/patient-financials", patientFinancialsHandler(source))
		r.Get("/completion", completionHandler(source))
	})
	r.Get("/v1/payers", payersHandler(payers))

	return r
}

func payersHandler(payers []PayerMetricsSource) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		out := make(map[string]payer.Snapshot, len(payers))
		for _, p := range payers {
			out[p.ID()] = p.Metrics()
		}
		writeJSON(w, http.StatusOK, out)
	}
}

// arAgingBucket is the JSON shape of one payer's AR aging counter
// vector (spec.md §4.4: "key = payer_id; value = a length-4 counter
// vector").
type arAgingBucket struct {
	Min0To1  int `json:"0_1_min"`
	Min1To2  int `json:"1_2_min"`
	Min2To3  int `json:"2_3_min"`
	Min3Plus int `json:"3_plus_min"`
}

func arAgingHandler(source reporter.Snapshotter) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		snap := source.Snapshot()
		buckets := reporter.ARAgingBuckets(snap, time.Now())

		out := make(map[string]arAgingBucket, len(buckets))
		for payerID, b := range buckets {
			out[payerID] = arAgingBucket{Min0To1: b[0], Min1To2: b[1], Min2To3: b[2], Min3Plus: b[3]}
		}

		writeJSON(w, http.StatusOK, out)
	}
}

func patientFinancialsHandler(source reporter.Snapshotter) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		snap := source.Snapshot()

		type totals struct {
			Copay       float64 `json:"copay"`
			Coinsurance float64 `json:"coinsurance"`
			Deductible  float64 `json:"deductible"`
		}
		out := make(map[string]*totals)

		for _, status := range snap {
			if status.Status != clearinghouse.StatusRemitted {
				continue
			}
			key := status.Claim.Insurance.PatientMemberID
			t, ok := out[key]
			if !ok {
				t = &totals{}
				out[key] = t
			}
			for _, line := range status.Remittance.ServiceLineRemittances {
				t.Copay += line.Copay
				t.Coinsurance += line.Coinsurance
				t.Deductible += line.Deductible
			}
		}

		writeJSON(w, http.StatusOK, out)
	}
}

func completionHandler(source reporter.Snapshotter) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		snap := source.Snapshot()
		submitted, remitted := 0, 0
		for _, status := range snap {
			switch status.Status {
			case clearinghouse.StatusSubmitted:
				submitted++
			case clearinghouse.StatusRemitted:
				remitted++
			}
		}
		writeJSON(w, http.StatusOK, map[string]int{
			"submitted": submitted,
			"remitted":  remitted,
			"total":     submitted + remitted,
		})
	}
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}

func requestLogger(appLogger zerolog.Logger) func(http.Handler) http.Handler {
	lg := logger.Component(appLogger, "httpapi")
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			rw := chimw.NewWrapResponseWriter(w, r.ProtoMajor)
			next.ServeHTTP(rw, r)
			lg.Info().
				Str("method", r.Method).
				Str("path", r.URL.Path).
				Str("req_id", chimw.GetReqID(r.Context())).
				Int("status", rw.Status()).
				Dur("duration", time.Since(start)).
				Msg("request completed")
		})
	}
}
