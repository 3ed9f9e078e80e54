// Package logger configures the shared zerolog.Logger and the
// claim-event diagnostic format used throughout the pipeline: the
// message text is "[claim:<id>][<event>] <message>", and the component
// name travels as the structured "component" field set by Component
// rather than as a bracketed prefix in the message text.
package logger

import (
	"io"
	"os"

	"github.com/rs/zerolog"

	"github.com/claimwave/adjudicator/config"
)

// New returns a configured zerolog.Logger. Console-formatted in
// development and JSON otherwise, matching the teacher's logger.New.
func New(cfg *config.Config) zerolog.Logger {
	var out io.Writer = os.Stderr
	lvl := zerolog.InfoLevel
	if cfg.IsDevelopment() {
		out = zerolog.ConsoleWriter{Out: os.Stderr}
		lvl = zerolog.DebugLevel
	}
	zerolog.SetGlobalLevel(lvl)
	return zerolog.New(out).With().Timestamp().Logger()
}

// Component returns a child logger tagged with the given component
// name, the way provider.NewHealthPoller and routing.NewEngine derive
// theirs in the teacher codebase.
func Component(log zerolog.Logger, name string) zerolog.Logger {
	return log.With().Str("component", name).Logger()
}

// ClaimEvent logs one pipeline event with the message text
// "[claim:<id>][<event>] <message>" plus claim_id and event fields;
// the component name is not part of the message text. claimID may be
// "-" for events not tied to a specific claim.
func ClaimEvent(log zerolog.Logger, claimID, event, message string) {
	log.Info().
		Str("claim_id", claimID).
		Str("event", event).
		Msgf("[claim:%s][%s] %s", claimID, event, message)
}

// ClaimEventErr is ClaimEvent's error-level counterpart, used for the
// non-fatal diagnostics spec.md §7 calls for (UnknownPayer,
// RemittanceOrphan, ValidationMismatch, DecodeError, ...).
func ClaimEventErr(log zerolog.Logger, claimID, event string, err error) {
	log.Error().
		Str("claim_id", claimID).
		Str("event", event).
		Err(err).
		Msgf("[claim:%s][%s] %s", claimID, event, err)
}
