package config

import (
	"testing"
	"time"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load()
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.HTTPPort != "8080" {
		t.Errorf("http port = %q", cfg.HTTPPort)
	}
	if cfg.ChargeTolerance != 0.15 {
		t.Errorf("charge tolerance = %v", cfg.ChargeTolerance)
	}
	if cfg.PhaseTimeout != 5*time.Minute {
		t.Errorf("phase timeout = %v", cfg.PhaseTimeout)
	}
	if cfg.NATSSubject != "documents.received" {
		t.Errorf("nats subject = %q", cfg.NATSSubject)
	}
}

func TestLoadOverrides(t *testing.T) {
	t.Setenv("VALIDATION_CHARGE_TOLERANCE", "0.25")
	t.Setenv("EXTRACTION_PHASE_TIMEOUT_SECONDS", "120")
	t.Setenv("HTTP_PORT", "9999")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.ChargeTolerance != 0.25 {
		t.Errorf("charge tolerance = %v", cfg.ChargeTolerance)
	}
	if cfg.PhaseTimeout != 2*time.Minute {
		t.Errorf("phase timeout = %v", cfg.PhaseTimeout)
	}
	if cfg.HTTPPort != "9999" {
		t.Errorf("http port = %q", cfg.HTTPPort)
	}
}

func TestLoadRejectsBadValues(t *testing.T) {
	cases := map[string][2]string{
		"tolerance not a number": {"VALIDATION_CHARGE_TOLERANCE", "abc"},
		"tolerance out of range": {"VALIDATION_CHARGE_TOLERANCE", "1.5"},
		"timeout negative":       {"EXTRACTION_PHASE_TIMEOUT_SECONDS", "-1"},
		"timeout not a number":   {"EXTRACTION_PHASE_TIMEOUT_SECONDS", "soon"},
	}
	for name, kv := range cases {
		t.Run(name, func(t *testing.T) {
			t.Setenv(kv[0], kv[1])
			if _, err := Load(); err == nil {
				t.Fatal("expected error")
			}
		})
	}
}
