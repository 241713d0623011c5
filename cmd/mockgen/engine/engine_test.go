package engine

import (
	"context"
	"testing"
	"time"

	"crm-metrics/internal/metrics"
	"crm-metrics/internal/snapshot"
)

func TestGenerate_Deterministic(t *testing.T) {
	now := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)
	cfg := GeneratorConfig{Scenario: "mild", Count: 100, Agents: 6, Companies: 10, Seed: 42, Now: now}

	a := Generate(cfg)
	b := Generate(cfg)

	if len(a.Activities) != 100 || len(a.Agents) != 6 || len(a.Companies) != 10 {
		t.Fatalf("Unexpected sizes: %d activities, %d agents, %d companies", len(a.Activities), len(a.Agents), len(a.Companies))
	}
	for i := range a.Activities {
		if a.Activities[i] != b.Activities[i] {
			t.Fatalf("Expected same seed to produce same activity %d", i)
		}
	}
	if last := a.Activities[99].DateCreated; last != now.Format(time.RFC3339) {
		t.Errorf("Expected last activity at now, got %s", last)
	}
}

func TestGenerate_MildDataReconciles(t *testing.T) {
	snap := Generate(GeneratorConfig{Scenario: "mild", Count: 300, Agents: 8, Companies: 20, Seed: 7})

	rep := metrics.BuildReport(snap.Dataset(), metrics.ReportOptions{Dimension: metrics.DimensionAgent}, metrics.NormalizeOptions{})
	if rep.RecordCount != 300 {
		t.Errorf("Expected every activity grouped, got %d", rep.RecordCount)
	}
	if rep.Totals.SalesCount+rep.Totals.NonSalesCount != 300 {
		t.Errorf("Expected sales + non-sales to cover all activities, got %d", rep.Totals.SalesCount+rep.Totals.NonSalesCount)
	}
	for _, row := range rep.Rows {
		if row.Label == metrics.UnknownAgent {
			t.Errorf("Expected no unresolved agents in mild data")
		}
	}
}

func TestGenerate_ChaosInjectsUnresolvedRows(t *testing.T) {
	snap := Generate(GeneratorConfig{Scenario: "chaos", Count: 500, Seed: 1})

	var undated, unknownAgent int
	for _, a := range snap.Activities {
		if a.DateCreated == "" {
			undated++
		}
		if a.ReferenceID == "AG-GONE" {
			unknownAgent++
		}
	}
	if undated == 0 || unknownAgent == 0 {
		t.Errorf("Expected corrupted rows, got %d undated and %d unresolved", undated, unknownAgent)
	}
}

func TestSave_LoadsThroughFileStore(t *testing.T) {
	dir := t.TempDir()
	snap := Generate(GeneratorConfig{Count: 10, Seed: 3})

	if err := Save(context.Background(), dir, snap); err != nil {
		t.Fatalf("Save failed: %v", err)
	}
	loaded, err := snapshot.NewFileStore(dir).Load(context.Background(), snapshot.DefaultID)
	if err != nil || loaded == nil {
		t.Fatalf("Expected snapshot to load, got %v (%v)", loaded, err)
	}
	if loaded.RunID != snap.RunID || len(loaded.Activities) != 10 {
		t.Errorf("Expected round-tripped snapshot, got run %s with %d activities", loaded.RunID, len(loaded.Activities))
	}
}
