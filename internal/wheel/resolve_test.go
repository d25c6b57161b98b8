package wheel

import (
	"testing"
	"time"

	"github.com/tistolabs/ruleta-overlay/internal/types"
)

func intPtr(v int) *int { return &v }

func TestResolveLandedReportWins(t *testing.T) {
	finishedAt := time.Date(2026, 3, 14, 12, 0, 0, 0, time.UTC)
	req := types.SpinRequest{
		Type:         "gift",
		Username:     "ana",
		Text:         "Rosa",
		SegmentIndex: intPtr(2),
		Segment: &types.PartialSegment{
			ID:    "sku_rosa",
			Text:  "Rosa grande",
			Color: "#ff0000",
		},
	}
	landed := &LandedSegment{Text: "Premio 3", Color: "#0000ff"}

	outcome := Resolve(req, landed, 3, finishedAt)

	if outcome.Segment.ID != "sku_rosa" {
		t.Fatalf("declared id must survive, got %q", outcome.Segment.ID)
	}
	if outcome.Segment.Text != "Premio 3" {
		t.Fatalf("landed text must win over declared text, got %q", outcome.Segment.Text)
	}
	if outcome.Segment.Color != "#0000ff" {
		t.Fatalf("landed color must win over declared color, got %q", outcome.Segment.Color)
	}
	if outcome.Text != "Premio 3" {
		t.Fatalf("winner text should be the landed text, got %q", outcome.Text)
	}
	if outcome.SegmentIndex != 2 {
		t.Fatalf("requested index must be echoed, got %d", outcome.SegmentIndex)
	}
	if !outcome.Timestamp.Equal(finishedAt) {
		t.Fatalf("timestamp should be the finish time, got %v", outcome.Timestamp)
	}
}

func TestResolveBareRequestNoReport(t *testing.T) {
	req := types.SpinRequest{Type: "gift", Username: "beto"}

	outcome := Resolve(req, nil, 1, time.Now())

	if outcome.Segment.ID != "seg_1" {
		t.Fatalf("expected generated id seg_1, got %q", outcome.Segment.ID)
	}
	if outcome.Segment.Text != "Segmento 1" {
		t.Fatalf("expected default text, got %q", outcome.Segment.Text)
	}
	if outcome.Segment.Color != "#cccccc" {
		t.Fatalf("expected fallback color, got %q", outcome.Segment.Color)
	}
	if outcome.SegmentIndex != 0 {
		t.Fatalf("index should derive from the aimed slot, got %d", outcome.SegmentIndex)
	}
	if outcome.Text != "Segmento 1" {
		t.Fatalf("winner text should fall through to the default, got %q", outcome.Text)
	}
}

func TestResolveRequestTextFillsGaps(t *testing.T) {
	req := types.SpinRequest{
		Type:     "gift",
		Username: "carla",
		Text:     "León",
		Segment:  &types.PartialSegment{Color: "#336699"},
	}

	outcome := Resolve(req, nil, 4, time.Now())

	if outcome.Segment.Text != "León" {
		t.Fatalf("request text should fill missing segment text, got %q", outcome.Segment.Text)
	}
	if outcome.Segment.Color != "#336699" {
		t.Fatalf("declared color should be kept, got %q", outcome.Segment.Color)
	}
	if outcome.Segment.ID != "seg_4" {
		t.Fatalf("expected generated id seg_4, got %q", outcome.Segment.ID)
	}
	if outcome.Text != "León" {
		t.Fatalf("winner text should be the request text, got %q", outcome.Text)
	}
}

func TestResolvePreservesRequestIdentity(t *testing.T) {
	sku := "sku_premio"
	req := types.SpinRequest{Type: "test", Username: "dora", Sku: &sku}

	outcome := Resolve(req, &LandedSegment{Text: "Premio 1", Color: "#abc"}, 1, time.Now())

	if outcome.Type != "test" || outcome.Username != "dora" {
		t.Fatalf("request identity must pass through, got type=%q username=%q", outcome.Type, outcome.Username)
	}
	if outcome.Sku == nil || *outcome.Sku != "sku_premio" {
		t.Fatalf("sku must pass through, got %v", outcome.Sku)
	}
}
