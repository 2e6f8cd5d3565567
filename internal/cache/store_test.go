package cache

import (
	"context"
	"testing"
	"time"

	"github.com/jsrecon/jsrecon/internal/model"
)

func testStore(t *testing.T) *Store {
	t.Helper()
	s, err := OpenStore(t.TempDir())
	if err != nil {
		t.Fatalf("OpenStore: %v", err)
	}
	t.Cleanup(func() { _ = s.Close() })
	return s
}

func testResult(target string, scanned time.Time) *model.ScanResult {
	r := model.NewScanResult(target)
	r.DateScanned = scanned
	r.AddOccurrence(model.CategoryEndpoints, "/api/v1/users", model.Occurrence{
		Source: model.MainDocumentSource, RuleID: "quoted_path", CharIndex: 10, MatchLength: 13, Line: 1, Column: 11,
	})
	r.ContentMap[model.MainDocumentSource] = `fetch("/api/v1/users")`
	return r
}

// TestStoreRoundTrip tests saving and reading scan records.
func TestStoreRoundTrip(t *testing.T) {
	t.Parallel()

	s := testStore(t)
	ctx := context.Background()
	scanned := time.Now().Add(-time.Hour)

	if err := s.SaveScanResult(ctx, testResult("https://app.example.com", scanned)); err != nil {
		t.Fatalf("SaveScanResult: %v", err)
	}

	rec, err := s.Latest(ctx, "https://app.example.com")
	if err != nil {
		t.Fatalf("Latest: %v", err)
	}
	if rec == nil {
		t.Fatal("Latest returned nil for a saved target")
	}
	if rec.Timestamp != scanned.UnixMilli() {
		t.Errorf("Timestamp = %d, want %d", rec.Timestamp, scanned.UnixMilli())
	}
	occs := rec.Results[model.CategoryEndpoints]["/api/v1/users"]
	if len(occs) != 1 || occs[0].Line != 1 || occs[0].Column != 11 {
		t.Errorf("occurrences = %+v", occs)
	}
	if rec.ContentMap[model.MainDocumentSource] == "" {
		t.Error("content map not persisted")
	}

	if rec, err := s.Latest(ctx, "https://never-scanned.example.com"); err != nil || rec != nil {
		t.Errorf("Latest for unknown target = %v, %v", rec, err)
	}
}

// TestStoreHistory tests per-target history ordering and target listing.
func TestStoreHistory(t *testing.T) {
	t.Parallel()

	s := testStore(t)
	ctx := context.Background()
	base := time.Now().Add(-3 * time.Hour)

	for i := 0; i < 3; i++ {
		if err := s.SaveScanResult(ctx, testResult("https://a.example.com", base.Add(time.Duration(i)*time.Hour))); err != nil {
			t.Fatalf("SaveScanResult: %v", err)
		}
	}
	if err := s.SaveScanResult(ctx, testResult("https://b.example.com", base)); err != nil {
		t.Fatalf("SaveScanResult: %v", err)
	}

	history, err := s.History(ctx, "https://a.example.com")
	if err != nil {
		t.Fatalf("History: %v", err)
	}
	if len(history) != 3 {
		t.Fatalf("history length = %d, want 3", len(history))
	}
	for i := 1; i < len(history); i++ {
		if history[i].Timestamp > history[i-1].Timestamp {
			t.Error("history not newest-first")
		}
	}

	targets, err := s.Targets(ctx)
	if err != nil {
		t.Fatalf("Targets: %v", err)
	}
	if len(targets) != 2 || targets[0] != "https://a.example.com" || targets[1] != "https://b.example.com" {
		t.Errorf("targets = %v", targets)
	}
}

// TestStorePrune tests the age and row-count retention policy.
func TestStorePrune(t *testing.T) {
	t.Parallel()

	t.Run("age-based expiry", func(t *testing.T) {
		t.Parallel()

		s := testStore(t)
		ctx := context.Background()

		if err := s.SaveScanResult(ctx, testResult("https://old.example.com", time.Now().Add(-48*time.Hour))); err != nil {
			t.Fatalf("SaveScanResult: %v", err)
		}
		if err := s.SaveScanResult(ctx, testResult("https://new.example.com", time.Now())); err != nil {
			t.Fatalf("SaveScanResult: %v", err)
		}

		if err := s.Prune(ctx, 24*time.Hour, 0); err != nil {
			t.Fatalf("Prune: %v", err)
		}

		if rec, _ := s.Latest(ctx, "https://old.example.com"); rec != nil {
			t.Error("expired record survived prune")
		}
		if rec, _ := s.Latest(ctx, "https://new.example.com"); rec == nil {
			t.Error("fresh record pruned")
		}
	})

	t.Run("row cap keeps newest", func(t *testing.T) {
		t.Parallel()

		s := testStore(t)
		ctx := context.Background()
		base := time.Now().Add(-5 * time.Hour)

		for i := 0; i < 5; i++ {
			if err := s.SaveScanResult(ctx, testResult("https://t.example.com", base.Add(time.Duration(i)*time.Hour))); err != nil {
				t.Fatalf("SaveScanResult: %v", err)
			}
		}
		if err := s.Prune(ctx, 0, 2); err != nil {
			t.Fatalf("Prune: %v", err)
		}

		history, err := s.History(ctx, "https://t.example.com")
		if err != nil {
			t.Fatalf("History: %v", err)
		}
		if len(history) != 2 {
			t.Fatalf("history length after prune = %d, want 2", len(history))
		}
		if history[0].Timestamp != base.Add(4*time.Hour).UnixMilli() {
			t.Error("prune did not keep the newest rows")
		}
	})
}
