// Package perr defines the typed error kinds from spec.md §7. Each
// kind wraps a descriptive error with fmt.Errorf("%w", ...) so callers
// can distinguish kinds with errors.Is while the message stays
// human-readable, following the teacher's preference for wrapped
// errors over ad hoc strings or panics.
package perr

import (
	"errors"
	"fmt"
)

// Sentinel kinds. Compare with errors.Is, e.g. errors.Is(err, ConfigInvalid).
var (
	// ConfigInvalid: the biller was given a zero ingest period (spec.md §4.1). Terminal for the biller.
	ConfigInvalid = errors.New("config invalid")
	// DownstreamGone: an actor's upstream channel closed before its work was done. Terminal for that actor.
	DownstreamGone = errors.New("downstream gone")
	// UnknownPayer: a claim names a payer with no registered sink. Non-fatal.
	UnknownPayer = errors.New("unknown payer")
	// RemittanceOrphan: a remittance's claim_id is not Submitted in history. Non-fatal.
	RemittanceOrphan = errors.New("remittance orphan")
	// ValidationMismatch: a payer's remittance sum doesn't match the billed total. Non-fatal.
	ValidationMismatch = errors.New("validation mismatch")
	// DecodeError: a malformed input line in the reader. Non-fatal, line skipped.
	DecodeError = errors.New("decode error")
	// IoError: the input file cannot be opened. Fatal for the reader.
	IoError = errors.New("io error")
)

// Wrap annotates msg onto kind so errors.Is(Wrap(kind, ...), kind) holds.
func Wrap(kind error, format string, args ...any) error {
	return fmt.Errorf("%s: %w", fmt.Sprintf(format, args...), kind)
}
