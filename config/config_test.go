package config

import "testing"

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load(nil)
	if err != nil {
		t.Fatalf("Load(nil): %v", err)
	}
	if cfg.FilePath != "fake_claims.jsonl" {
		t.Errorf("FilePath = %q, want fake_claims.jsonl", cfg.FilePath)
	}
	if cfg.IngestRate.Seconds() != 1 {
		t.Errorf("IngestRate = %v, want 1s", cfg.IngestRate)
	}
	if cfg.Verbose {
		t.Error("Verbose should default to false")
	}
}

func TestLoadPositionalArgs(t *testing.T) {
	cfg, err := Load([]string{"claims.jsonl", "3", "verbose"})
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.FilePath != "claims.jsonl" {
		t.Errorf("FilePath = %q, want claims.jsonl", cfg.FilePath)
	}
	if cfg.IngestRate.Seconds() != 3 {
		t.Errorf("IngestRate = %v, want 3s", cfg.IngestRate)
	}
	if !cfg.Verbose {
		t.Error("Verbose should be true when third arg is \"verbose\"")
	}
}

func TestLoadVerboseShorthand(t *testing.T) {
	cfg, err := Load([]string{"claims.jsonl", "1", "v"})
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if !cfg.Verbose {
		t.Error("Verbose should be true when third arg is \"v\"")
	}
}

func TestLoadRejectsNonIntegerIngestRate(t *testing.T) {
	if _, err := Load([]string{"claims.jsonl", "fast"}); err == nil {
		t.Error("expected error for non-integer ingest_rate")
	}
}

func TestLoadRejectsNegativeIngestRate(t *testing.T) {
	if _, err := Load([]string{"claims.jsonl", "-1"}); err == nil {
		t.Error("expected error for negative ingest_rate")
	}
}

func TestLoadDefaultsTotalClaims(t *testing.T) {
	cfg, err := Load(nil)
	if err != nil {
		t.Fatalf("Load(nil): %v", err)
	}
	if cfg.TotalClaims != 100 {
		t.Errorf("TotalClaims = %d, want 100", cfg.TotalClaims)
	}
}

func TestDefaultPayersPresent(t *testing.T) {
	cfg, err := Load(nil)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	for _, id := range []string{"medicare", "united_health_group", "anthem"} {
		d, ok := cfg.PayerDelays[id]
		if !ok {
			t.Errorf("missing default payer delay for %q", id)
			continue
		}
		if d.MinSecs > d.MaxSecs {
			t.Errorf("payer %q: min %d > max %d", id, d.MinSecs, d.MaxSecs)
		}
	}
}
