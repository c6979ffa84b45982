package tools

import (
	"context"
	"strings"
	"testing"

	"github.com/noemalabs/noema/pkg/noemamem"
)

func newTestRegistry(t *testing.T) (*Registry, *noemamem.Store) {
	t.Helper()

	store, err := noemamem.Open(":memory:")
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	t.Cleanup(func() { store.Close() })

	registry := NewRegistry()
	RegisterMemoryTools(registry, store)
	RegisterEpistemicsTools(registry, store)
	RegisterViabilityTools(registry, store, ":memory:")
	RegisterSystemTools(registry, ":memory:")
	RegisterStorageTools(registry, nil, ":memory:")

	return registry, store
}

func TestRegistryUnknownTool(t *testing.T) {
	registry, _ := newTestRegistry(t)

	_, err := registry.Execute(context.Background(), "no_such_tool", "{}")
	if err == nil {
		t.Fatal("expected error for unknown tool")
	}
}

func TestStorageToolsSkippedWhenDisabled(t *testing.T) {
	registry, _ := newTestRegistry(t)

	for _, tool := range registry.Tools() {
		if strings.HasPrefix(tool.Name, "storage_") || tool.Name == "backup_mind" {
			t.Errorf("storage tool %s registered without a client", tool.Name)
		}
	}
}

func TestAppendAndRecallTools(t *testing.T) {
	registry, _ := newTestRegistry(t)
	ctx := context.Background()

	out, err := registry.Execute(ctx, "append_ledger", `{"mode":"observe","thought":"the garden hose leaks at the coupling","confidence":0.9}`)
	if err != nil {
		t.Fatalf("append_ledger: %v", err)
	}
	if !strings.Contains(out, "Recorded entry") {
		t.Errorf("unexpected append output: %q", out)
	}

	out, err = registry.Execute(ctx, "recall_memory", `{"query":"garden hose"}`)
	if err != nil {
		t.Fatalf("recall_memory: %v", err)
	}
	if !strings.Contains(out, "garden hose leaks") {
		t.Errorf("recall missed the entry: %q", out)
	}
}

func TestAppendLedgerRejectsBadMode(t *testing.T) {
	registry, _ := newTestRegistry(t)

	_, err := registry.Execute(context.Background(), "append_ledger", `{"mode":"ponder","thought":"x","confidence":0.5}`)
	if err == nil {
		t.Fatal("expected error for invalid mode")
	}
}

func TestHypothesisTools(t *testing.T) {
	registry, store := newTestRegistry(t)
	ctx := context.Background()

	out, err := registry.Execute(ctx, "propose_hypothesis", `{"statement":"the heater trips the breaker above 2kW","confidence":0.6,"falsification":"it runs at full power for an hour"}`)
	if err != nil {
		t.Fatalf("propose_hypothesis: %v", err)
	}
	if !strings.Contains(out, "proposed at confidence 0.60") {
		t.Errorf("unexpected propose output: %q", out)
	}

	hypotheses, err := store.ListHypotheses(noemamem.StatusProposed)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(hypotheses) != 1 {
		t.Fatalf("expected 1 proposed hypothesis, got %d", len(hypotheses))
	}

	out, err = registry.Execute(ctx, "record_validation", `{"hypothesis_id":1,"outcome":"confirming","note":"ran an hour, no trip"}`)
	if err != nil {
		t.Fatalf("record_validation: %v", err)
	}
	if !strings.Contains(out, "testing") {
		t.Errorf("first validation should move hypothesis to testing: %q", out)
	}

	out, err = registry.Execute(ctx, "list_hypotheses", `{"statuses":["testing"]}`)
	if err != nil {
		t.Fatalf("list_hypotheses: %v", err)
	}
	if !strings.Contains(out, "heater") {
		t.Errorf("list missed the hypothesis: %q", out)
	}
}

func TestViabilityReportTool(t *testing.T) {
	registry, store := newTestRegistry(t)

	out, err := registry.Execute(context.Background(), "viability_report", "{}")
	if err != nil {
		t.Fatalf("viability_report: %v", err)
	}
	if !strings.Contains(out, "Viability:") {
		t.Errorf("unexpected output: %q", out)
	}

	if _, err := store.LatestViability(); err != nil {
		t.Errorf("sample was not recorded: %v", err)
	}
}

func TestLogFailureTool(t *testing.T) {
	registry, store := newTestRegistry(t)

	_, err := registry.Execute(context.Background(), "log_failure", `{"component":"recall","description":"empty results for a known topic","severity":"minor","lesson":"reindex embeddings after bulk imports"}`)
	if err != nil {
		t.Fatalf("log_failure: %v", err)
	}

	failures, err := store.RecentFailures(5)
	if err != nil {
		t.Fatalf("recent failures: %v", err)
	}
	if len(failures) != 1 || failures[0].Component != "recall" {
		t.Errorf("failure not recorded: %+v", failures)
	}
}

func TestChatIDContext(t *testing.T) {
	ctx := WithChatID(context.Background(), 42)
	if got := ChatIDFromContext(ctx); got != 42 {
		t.Errorf("chat id = %d, want 42", got)
	}
	if got := ChatIDFromContext(context.Background()); got != 0 {
		t.Errorf("chat id on bare context = %d, want 0", got)
	}
}
