package history

import (
	"fmt"
	"path/filepath"
	"testing"
	"time"

	"github.com/olympus-coder/olympusval/pkg/models"
)

func setupTestStore(t *testing.T) *Store {
	t.Helper()
	store, err := Open(filepath.Join(t.TempDir(), "history.db"))
	if err != nil {
		t.Fatalf("failed to open test store: %v", err)
	}
	if err := store.Migrate(); err != nil {
		t.Fatalf("failed to migrate test store: %v", err)
	}
	t.Cleanup(func() {
		store.Close()
	})
	return store
}

func testReport(id string, valid bool, at time.Time) *models.ValidationReport {
	return &models.ValidationReport{
		ID:           id,
		ResponseType: models.ResponseCode,
		Segments:     []models.Segment{{Kind: models.SegmentCode}},
		OverallValid: valid,
		Duration:     25 * time.Millisecond,
		CreatedAt:    at,
	}
}

func TestRecordAndRecentRuns(t *testing.T) {
	store := setupTestStore(t)
	base := time.Date(2026, 8, 1, 12, 0, 0, 0, time.UTC)

	for i := 0; i < 3; i++ {
		report := testReport(fmt.Sprintf("run-%d", i), i%2 == 0, base.Add(time.Duration(i)*time.Minute))
		if err := store.RecordRun(report); err != nil {
			t.Fatalf("RecordRun: %v", err)
		}
	}

	runs, err := store.RecentRuns(10)
	if err != nil {
		t.Fatalf("RecentRuns: %v", err)
	}
	if len(runs) != 3 {
		t.Fatalf("RecentRuns returned %d, want 3", len(runs))
	}
	if runs[0].ID != "run-2" {
		t.Errorf("newest run = %q, want run-2", runs[0].ID)
	}
	if runs[0].ResponseType != models.ResponseCode {
		t.Errorf("ResponseType = %q", runs[0].ResponseType)
	}
	if runs[0].Duration != 25*time.Millisecond {
		t.Errorf("Duration = %v", runs[0].Duration)
	}
}

func TestRecentRunsLimit(t *testing.T) {
	store := setupTestStore(t)
	base := time.Now().UTC()
	for i := 0; i < 5; i++ {
		if err := store.RecordRun(testReport(fmt.Sprintf("r%d", i), true, base.Add(time.Duration(i)*time.Second))); err != nil {
			t.Fatal(err)
		}
	}
	runs, err := store.RecentRuns(2)
	if err != nil {
		t.Fatal(err)
	}
	if len(runs) != 2 {
		t.Errorf("len = %d, want 2", len(runs))
	}
}

func TestAccuracy(t *testing.T) {
	store := setupTestStore(t)
	base := time.Now().UTC()

	// 3 valid, 1 invalid.
	outcomes := []bool{true, true, false, true}
	for i, valid := range outcomes {
		if err := store.RecordRun(testReport(fmt.Sprintf("a%d", i), valid, base.Add(time.Duration(i)*time.Second))); err != nil {
			t.Fatal(err)
		}
	}

	acc, n, err := store.Accuracy(10)
	if err != nil {
		t.Fatal(err)
	}
	if n != 4 {
		t.Errorf("window = %d, want 4", n)
	}
	if acc != 0.75 {
		t.Errorf("accuracy = %v, want 0.75", acc)
	}

	// Window of 2 covers only the newest two (invalid, valid).
	acc, n, err = store.Accuracy(2)
	if err != nil {
		t.Fatal(err)
	}
	if n != 2 || acc != 0.5 {
		t.Errorf("accuracy(2) = %v over %d, want 0.5 over 2", acc, n)
	}
}

func TestAccuracyEmpty(t *testing.T) {
	store := setupTestStore(t)
	acc, n, err := store.Accuracy(10)
	if err != nil {
		t.Fatal(err)
	}
	if acc != 0 || n != 0 {
		t.Errorf("empty store accuracy = %v over %d, want 0 over 0", acc, n)
	}
}

func TestPurge(t *testing.T) {
	store := setupTestStore(t)
	old := time.Now().UTC().Add(-48 * time.Hour)
	recent := time.Now().UTC()

	if err := store.RecordRun(testReport("old", true, old)); err != nil {
		t.Fatal(err)
	}
	if err := store.RecordRun(testReport("new", true, recent)); err != nil {
		t.Fatal(err)
	}

	deleted, err := store.Purge(time.Now().UTC().Add(-24 * time.Hour))
	if err != nil {
		t.Fatal(err)
	}
	if deleted != 1 {
		t.Errorf("deleted = %d, want 1", deleted)
	}
	runs, err := store.RecentRuns(10)
	if err != nil {
		t.Fatal(err)
	}
	if len(runs) != 1 || runs[0].ID != "new" {
		t.Errorf("remaining runs = %+v", runs)
	}
}

func TestRecordRunDuplicateID(t *testing.T) {
	store := setupTestStore(t)
	report := testReport("dup", true, time.Now().UTC())
	if err := store.RecordRun(report); err != nil {
		t.Fatal(err)
	}
	if err := store.RecordRun(report); err == nil {
		t.Error("expected primary-key violation for duplicate run ID")
	}
}
