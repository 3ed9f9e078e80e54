// Command claimflow runs the claim adjudication pipeline simulation:
// Reader -> Biller -> Clearinghouse -> Payers -> Reporter, wired the
// way the teacher's main.go wires its gateway subsystems (config ->
// logger -> background tasks -> signal-driven graceful shutdown).
package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/rs/zerolog"

	"github.com/claimwave/adjudicator/biller"
	"github.com/claimwave/adjudicator/claim"
	"github.com/claimwave/adjudicator/clearinghouse"
	"github.com/claimwave/adjudicator/config"
	"github.com/claimwave/adjudicator/dedupe"
	"github.com/claimwave/adjudicator/fakeclaim"
	"github.com/claimwave/adjudicator/httpapi"
	"github.com/claimwave/adjudicator/logger"
	"github.com/claimwave/adjudicator/payer"
	"github.com/claimwave/adjudicator/reader"
	"github.com/claimwave/adjudicator/remittance"
	"github.com/claimwave/adjudicator/reporter"
)

func main() {
	if len(os.Args) > 1 && os.Args[1] == "seed" {
		runSeed(os.Args[2:])
		return
	}

	cfg, err := config.Load(os.Args[1:])
	if err != nil {
		panic(err) // config is invalid before a logger exists to report it
	}
	log := logger.New(cfg)

	log.Info().Str("env", cfg.Env).Str("file_path", cfg.FilePath).Int("total_claims", cfg.TotalClaims).Msg("claimflow starting")

	guard := dedupe.New(cfg.RedisURL, log)

	ingress := make(chan claim.Claim, 100)
	envelopes := make(chan clearinghouse.Envelope, 100)
	remits := make(chan remittance.Remittance, 100)
	shutdownSignal := make(chan struct{}, 1)

	payerIn := make(map[string]chan claim.Claim, len(cfg.PayerDelays))
	payerTxs := make(map[string]chan<- claim.Claim, len(cfg.PayerDelays))
	payers := make([]*payer.Payer, 0, len(cfg.PayerDelays))
	for id, delay := range cfg.PayerDelays {
		ch := make(chan claim.Claim, 100)
		payerIn[id] = ch
		payerTxs[id] = ch
		payers = append(payers, payer.New(id, payer.DelayRange{Min: delay.MinSecs, Max: delay.MaxSecs}, log))
	}

	rules, err := clearinghouse.ParseRuleSet([]byte(cfg.RulesJSON))
	if err != nil {
		log.Error().Err(err).Msg("invalid CLAIMFLOW_RULES, falling back to empty rule set")
		rules = clearinghouse.NewRuleSet()
	}
	ch := clearinghouse.New(payerTxs, rules, log, clearinghouse.WithDedupeGuard(guard))
	b := biller.New(cfg.IngestRate, cfg.TotalClaims, envelopes, shutdownSignal, log)
	rd := reader.New(cfg.FilePath, log)
	rp := reporter.New(ch, log)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)

	errCh := make(chan error, 2)
	go func() { errCh <- rd.Stream(ctx, ingress) }()
	go func() { errCh <- b.Run(ctx, ingress) }()
	go ch.Run(ctx, envelopes, remits)
	go rp.Run(ctx)
	for _, p := range payers {
		p := p
		in := payerIn[p.ID()]
		go func() {
			if err := p.Run(ctx, in, remits); err != nil {
				errCh <- err
			}
		}()
	}

	var httpServer *http.Server
	if cfg.ReportAddr != "" {
		payerSources := make([]httpapi.PayerMetricsSource, 0, len(payers))
		for _, p := range payers {
			payerSources = append(payerSources, p)
		}
		httpServer = startHTTPServer(cfg.ReportAddr, ch, payerSources, log)
	}

	exitCode := 0
wait:
	for {
		select {
		case <-sigCh:
			log.Info().Msg("shutdown signal received")
			break wait
		case <-shutdownSignal:
			log.Info().Msg("biller reached total_claims, shutting down")
			break wait
		case err := <-errCh:
			if err != nil {
				log.Error().Err(err).Msg("actor exited with error")
				exitCode = 1
				break wait
			}
		}
	}

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), cfg.GracefulTimeout)
	defer shutdownCancel()
	cancel()

	if httpServer != nil {
		if err := httpServer.Shutdown(shutdownCtx); err != nil {
			log.Error().Err(err).Msg("report http server shutdown failed")
		}
	}

	log.Info().Msg("claimflow stopped")
	if exitCode != 0 {
		os.Exit(exitCode)
	}
}

func runSeed(args []string) {
	path := "fake_claims.jsonl"
	n := 100
	var seed int64 = 1

	if len(args) >= 1 && args[0] != "" {
		path = args[0]
	}
	if len(args) >= 2 && args[1] != "" {
		if v, err := strconv.Atoi(args[1]); err == nil {
			n = v
		}
	}
	if len(args) >= 3 && args[2] != "" {
		if v, err := strconv.Atoi(args[2]); err == nil {
			seed = int64(v)
		}
	}

	if err := fakeclaim.WriteJSONL(path, n, seed); err != nil {
		panic(err)
	}
}

// startHTTPServer launches the optional reporting HTTP server in the
// background, mirroring the teacher's http.Server-with-timeouts setup
// in main.go.
func startHTTPServer(addr string, source reporter.Snapshotter, payers []httpapi.PayerMetricsSource, log zerolog.Logger) *http.Server {
	srv := &http.Server{
		Addr:         addr,
		Handler:      httpapi.NewRouter(source, payers, log),
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
		IdleTimeout:  60 * time.Second,
	}
	go func() {
		log.Info().Str("addr", addr).Msg("report http server listening")
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Error().Err(err).Msg("report http server failed")
		}
	}()
	return srv
}
