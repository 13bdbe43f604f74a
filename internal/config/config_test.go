package config

import "testing"

func TestLoadDefaults(t *testing.T) {
	cfg := Load()

	if !cfg.Guardrail.CheckPII || !cfg.Guardrail.CheckToxicity || !cfg.Guardrail.CheckBannedTopics ||
		!cfg.Guardrail.CheckInjection || !cfg.Guardrail.CheckHallucination {
		t.Error("all guardrail families should default to enabled")
	}
	if !cfg.RateLimit.Enabled {
		t.Error("rate limiting should default to enabled")
	}
	if cfg.RateLimit.PerMinute != 30 {
		t.Errorf("rate limit per minute = %d, want 30", cfg.RateLimit.PerMinute)
	}
	if cfg.Audit.RetentionDays != 365 {
		t.Errorf("audit retention days = %d, want 365", cfg.Audit.RetentionDays)
	}
}

func TestLoadReadsOverridesFromEnv(t *testing.T) {
	t.Setenv("GUARDRAIL_CHECK_PII", "false")
	t.Setenv("GUARDRAIL_CHECK_HALLUCINATION", "false")
	t.Setenv("RATE_LIMIT_ENABLED", "false")
	t.Setenv("RATE_LIMIT_PER_MINUTE", "120")
	t.Setenv("AUDIT_RETENTION_DAYS", "90")

	cfg := Load()

	if cfg.Guardrail.CheckPII {
		t.Error("GUARDRAIL_CHECK_PII=false should disable the PII family")
	}
	if cfg.Guardrail.CheckHallucination {
		t.Error("GUARDRAIL_CHECK_HALLUCINATION=false should disable the hallucination family")
	}
	if !cfg.Guardrail.CheckToxicity {
		t.Error("unset families should stay enabled")
	}
	if cfg.RateLimit.Enabled {
		t.Error("RATE_LIMIT_ENABLED=false should disable the limiter")
	}
	if cfg.RateLimit.PerMinute != 120 {
		t.Errorf("rate limit per minute = %d, want 120", cfg.RateLimit.PerMinute)
	}
	if cfg.Audit.RetentionDays != 90 {
		t.Errorf("audit retention days = %d, want 90", cfg.Audit.RetentionDays)
	}
}
