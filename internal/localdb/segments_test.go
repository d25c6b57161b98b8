package localdb

import (
	"path/filepath"
	"testing"

	"github.com/tistolabs/ruleta-overlay/internal/types"
)

func setupTestDB(t *testing.T) {
	t.Helper()

	DBClient = nil
	dbPath := filepath.Join(t.TempDir(), "test.db")
	db, err := SetupDB(dbPath)
	if err != nil {
		t.Fatalf("failed to setup database: %v", err)
	}
	t.Cleanup(func() {
		db.Close()
		DBClient = nil
	})
}

func TestSetupSeedsDefaultSegments(t *testing.T) {
	setupTestDB(t)

	segments, err := GetSegments()
	if err != nil {
		t.Fatalf("failed to get segments: %v", err)
	}
	if len(segments) != 6 {
		t.Fatalf("expected 6 seeded segments, got %d", len(segments))
	}
	if segments[0].ID != "seg_1" || segments[0].Text != "Premio 1" {
		t.Fatalf("unexpected first seeded segment: %+v", segments[0])
	}
}

func TestReplaceSegmentsKeepsOrder(t *testing.T) {
	setupTestDB(t)

	want := []types.Segment{
		{ID: "z", Text: "Último", Color: "#111"},
		{ID: "a", Text: "Primero", Color: "#222"},
		{ID: "m", Text: "Medio", Color: "#333"},
	}
	if err := ReplaceSegments(want); err != nil {
		t.Fatalf("failed to replace segments: %v", err)
	}

	got, err := GetSegments()
	if err != nil {
		t.Fatalf("failed to get segments: %v", err)
	}
	if len(got) != 3 {
		t.Fatalf("expected 3 segments, got %d", len(got))
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("position %d: expected %+v, got %+v", i, want[i], got[i])
		}
	}
}

func TestReplaceSegmentsRejectsDuplicateIDs(t *testing.T) {
	setupTestDB(t)

	before, err := GetSegments()
	if err != nil {
		t.Fatalf("failed to get segments: %v", err)
	}

	err = ReplaceSegments([]types.Segment{
		{ID: "dup", Text: "Uno", Color: "#111"},
		{ID: "dup", Text: "Dos", Color: "#222"},
	})
	if err == nil {
		t.Fatalf("duplicate ids must fail the transaction")
	}

	// the failed transaction must leave the stored list untouched
	after, err := GetSegments()
	if err != nil {
		t.Fatalf("failed to get segments: %v", err)
	}
	if len(after) != len(before) {
		t.Fatalf("failed replace must roll back, had %d now %d", len(before), len(after))
	}
}

func TestReplaceSegmentsEmptyList(t *testing.T) {
	setupTestDB(t)

	if err := ReplaceSegments(nil); err != nil {
		t.Fatalf("empty replace failed: %v", err)
	}

	got, err := GetSegments()
	if err != nil {
		t.Fatalf("failed to get segments: %v", err)
	}
	if len(got) != 0 {
		t.Fatalf("expected empty list, got %d segments", len(got))
	}
}
