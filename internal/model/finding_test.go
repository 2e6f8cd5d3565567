package model

import "testing"

// TestScanResultAggregation tests occurrence aggregation under findings.
func TestScanResultAggregation(t *testing.T) {
	t.Parallel()

	t.Run("same value accumulates occurrences under one key", func(t *testing.T) {
		t.Parallel()

		r := NewScanResult("https://app.example.com")
		r.AddOccurrence(CategorySecrets, "unique-secret", Occurrence{Source: MainDocumentSource, CharIndex: 10})
		r.AddOccurrence(CategorySecrets, "unique-secret", Occurrence{Source: InlineScriptSource(1), CharIndex: 3})

		findings := r.Results[CategorySecrets]
		if len(findings) != 1 {
			t.Fatalf("expected 1 distinct finding, got %d", len(findings))
		}

		occs := findings["unique-secret"]
		if len(occs) != 2 {
			t.Fatalf("expected 2 occurrences, got %d", len(occs))
		}
		if occs[0].Source != MainDocumentSource || occs[1].Source != "Inline Script #1" {
			t.Errorf("occurrence order not preserved: %q, %q", occs[0].Source, occs[1].Source)
		}
	})

	t.Run("counts span categories", func(t *testing.T) {
		t.Parallel()

		r := NewScanResult("https://example.com")
		r.AddOccurrence(CategoryEndpoints, "/api/v1/users", Occurrence{})
		r.AddOccurrence(CategoryEndpoints, "/api/v1/items", Occurrence{})
		r.AddOccurrence(CategorySubdomains, "api.example.com", Occurrence{})

		if got := r.FindingCount(CategoryEndpoints); got != 2 {
			t.Errorf("FindingCount(Endpoints) = %d, want 2", got)
		}
		if got := r.TotalFindings(); got != 3 {
			t.Errorf("TotalFindings() = %d, want 3", got)
		}
		if !r.HasFindings() {
			t.Error("HasFindings() = false, want true")
		}
	})

	t.Run("empty result has no findings", func(t *testing.T) {
		t.Parallel()

		r := NewScanResult("https://example.com")
		if r.HasFindings() {
			t.Error("HasFindings() = true for empty result")
		}
	})
}

// TestInlineScriptSource tests inline script identifier formatting.
func TestInlineScriptSource(t *testing.T) {
	t.Parallel()

	if got := InlineScriptSource(3); got != "Inline Script #3" {
		t.Errorf("InlineScriptSource(3) = %q", got)
	}
}
