package payer

import "sync/atomic"

// Metrics tracks per-payer adjudication activity, adapted from the
// teacher's provider.PoolMetrics (sync.Map of *int64 counters keyed
// by name) and narrowed to the three counters a payer adjudicator
// needs: how many claims are mid-adjudication, how many have
// finished, and how many failed remittance validation.
type Metrics struct {
	active              int64 // atomic
	totalProcessed      int64 // atomic
	totalValidationFail int64 // atomic
}

func (m *Metrics) adjudicationStarted() {
	atomic.AddInt64(&m.active, 1)
}

func (m *Metrics) adjudicationFinished(validationFailed bool) {
	atomic.AddInt64(&m.active, -1)
	atomic.AddInt64(&m.totalProcessed, 1)
	if validationFailed {
		atomic.AddInt64(&m.totalValidationFail, 1)
	}
}

// Snapshot is a point-in-time read of a payer's counters.
type Snapshot struct {
	ActiveAdjudications     int64 `json:"active_adjudications"`
	TotalProcessed          int64 `json:"total_processed"`
	TotalValidationFailures int64 `json:"total_validation_failures"`
}

func (m *Metrics) snapshot() Snapshot {
	return Snapshot{
		ActiveAdjudications:     atomic.LoadInt64(&m.active),
		TotalProcessed:          atomic.LoadInt64(&m.totalProcessed),
		TotalValidationFailures: atomic.LoadInt64(&m.totalValidationFail),
	}
}
