package service

import (
	"context"
	"testing"

	"risk-copilot-be/internal/repository/contract"
	"risk-copilot-be/internal/repository/memory"
)

func TestStatsAggregatesViolationsAndDuration(t *testing.T) {
	uow := newFakeUnitOfWork()
	uow.audits.total = 10
	uow.audits.completed = 8
	uow.audits.aborted = 2
	uow.audits.tiers = []contract.TierCount{
		{RiskTier: "minimal", Count: 6},
		{RiskTier: "high", Count: 4},
	}
	uow.audits.categories = []contract.CategoryCount{
		{Category: "pii", Count: 3},
		{Category: "prompt_injection", Count: 1},
	}
	uow.audits.avgMs = 412.5

	svc := NewAuditService(&fakeUowFactory{uow: uow}, memory.NewTraceRepository(), 0)

	stats, err := svc.Stats(context.Background())
	if err != nil {
		t.Fatalf("Stats returned error: %v", err)
	}

	if stats.TotalRecords != 10 || stats.CompletedCount != 8 || stats.AbortedCount != 2 {
		t.Errorf("counts = %d/%d/%d, want 10/8/2",
			stats.TotalRecords, stats.CompletedCount, stats.AbortedCount)
	}
	if stats.TierDistribution["high"] != 4 {
		t.Errorf("tier distribution high = %d, want 4", stats.TierDistribution["high"])
	}
	if stats.GuardrailViolations["pii"] != 3 {
		t.Errorf("guardrail violations pii = %d, want 3", stats.GuardrailViolations["pii"])
	}
	if stats.GuardrailViolations["prompt_injection"] != 1 {
		t.Errorf("guardrail violations prompt_injection = %d, want 1",
			stats.GuardrailViolations["prompt_injection"])
	}
	if stats.AvgProcessingTimeMs != 412.5 {
		t.Errorf("average processing time = %v, want 412.5", stats.AvgProcessingTimeMs)
	}
}
