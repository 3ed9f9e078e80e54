// Package reader streams claims from a JSONL file into a channel,
// grounded directly on original_source/src/reader.rs: open the file,
// scan it line by line, skip malformed lines with a diagnostic
// instead of failing the whole stream, and stop early when the
// context is canceled. A consumer that stops receiving without the
// context being canceled leaves Stream blocked on its send.
package reader

import (
	"bufio"
	"context"
	"encoding/json"
	"os"

	"github.com/rs/zerolog"

	"github.com/claimwave/adjudicator/claim"
	"github.com/claimwave/adjudicator/logger"
	"github.com/claimwave/adjudicator/perr"
)

// Reader streams claims from a JSONL file.
type Reader struct {
	path string
	log  zerolog.Logger
}

// New builds a Reader over path.
func New(path string, log zerolog.Logger) *Reader {
	return &Reader{path: path, log: logger.Component(log, "reader")}
}

// Stream opens the reader's file and sends one claim per well-formed
// line on tx, closing tx when done. Malformed lines are logged and
// skipped (spec.md §4.0). Returns perr.IoError if the file cannot be
// opened, or nil on a clean run (including being stopped early by ctx
// cancellation).
func (r *Reader) Stream(ctx context.Context, tx chan<- claim.Claim) error {
	defer close(tx)

	logger.ClaimEvent(r.log, "-", "start", "starting claim stream from file: "+r.path)

	f, err := os.Open(r.path)
	if err != nil {
		return perr.Wrap(perr.IoError, "opening claim file %q: %v", r.path, err)
	}
	defer f.Close()

	scanner := bufio.NewScanner(f)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)

	for scanner.Scan() {
		line := scanner.Text()
		if line == "" {
			continue
		}

		var c claim.Claim
		if err := json.Unmarshal([]byte(line), &c); err != nil {
			logger.ClaimEventErr(r.log, "-", "decode_error", perr.Wrap(perr.DecodeError, "invalid claim skipped: %v", err))
			continue
		}

		logger.ClaimEvent(r.log, c.ClaimID, "sending_claim", "sending parsed claim")
		select {
		case <-ctx.Done():
			logger.ClaimEvent(r.log, "-", "shutdown", "context canceled, reader exiting")
			return nil
		case tx <- c:
		}
	}

	if err := scanner.Err(); err != nil {
		return perr.Wrap(perr.IoError, "reading claim file %q: %v", r.path, err)
	}

	logger.ClaimEvent(r.log, "-", "finished", "finished streaming claims from file: "+r.path)
	return nil
}
