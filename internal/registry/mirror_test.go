package registry

import (
	"testing"

	"github.com/tistolabs/ruleta-overlay/internal/types"
)

func TestMirrorReplaceNotifiesListeners(t *testing.T) {
	m := NewMirror()

	var notified [][]types.Segment
	m.OnChange(func(segs []types.Segment) {
		notified = append(notified, segs)
	})

	segments := []types.Segment{
		{ID: "a", Text: "Premio 1", Color: "#111"},
		{ID: "b", Text: "Premio 2", Color: "#222"},
	}
	m.Replace(segments)

	if m.Count() != 2 {
		t.Fatalf("expected 2 segments, got %d", m.Count())
	}
	if len(notified) != 1 || len(notified[0]) != 2 {
		t.Fatalf("listener should have been notified once with 2 segments, got %v", notified)
	}
}

func TestMirrorSnapshotIsACopy(t *testing.T) {
	m := NewMirror()
	m.Replace([]types.Segment{{ID: "a", Text: "Premio 1", Color: "#111"}})

	snap := m.Snapshot()
	snap[0].Text = "mutated"

	if m.Snapshot()[0].Text != "Premio 1" {
		t.Fatalf("mutating a snapshot must not affect the mirror")
	}
}

func TestMirrorReplaceCopiesInput(t *testing.T) {
	m := NewMirror()
	input := []types.Segment{{ID: "a", Text: "Premio 1", Color: "#111"}}
	m.Replace(input)

	input[0].Text = "mutated"

	if m.Snapshot()[0].Text != "Premio 1" {
		t.Fatalf("mutating the input slice must not affect the mirror")
	}
}
