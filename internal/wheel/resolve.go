package wheel

import (
	"fmt"
	"time"

	"github.com/tistolabs/ruleta-overlay/internal/types"
)

// fallbackColor is the terminal default when neither the surface nor the
// request declared a fill color.
const fallbackColor = "#cccccc"

// LandedSegment is what the rendering surface reports when an animation
// finishes: only what it visually landed on. It has no identity concept.
type LandedSegment struct {
	Text  string `json:"text"`
	Color string `json:"color"`
}

// Resolve reconciles the surface's report against the originating request
// into one finalized outcome. Each field is resolved independently through
// a fallback chain that always terminates in a default, so resolution
// never fails regardless of how partial the request was. segmentNumber is
// the one-based slot the animation was aimed at.
func Resolve(req types.SpinRequest, landed *LandedSegment, segmentNumber int, finishedAt time.Time) types.SpinOutcome {
	var landedText, landedColor string
	if landed != nil {
		landedText = landed.Text
		landedColor = landed.Color
	}

	var declaredID, declaredText, declaredColor string
	if req.Segment != nil {
		declaredID = req.Segment.ID
		declaredText = req.Segment.Text
		declaredColor = req.Segment.Color
	}

	segment := types.Segment{
		ID:    firstNonEmpty(declaredID, fmt.Sprintf("seg_%d", segmentNumber)),
		Text:  firstNonEmpty(landedText, declaredText, req.Text, fmt.Sprintf("Segmento %d", segmentNumber)),
		Color: firstNonEmpty(landedColor, declaredColor, fallbackColor),
	}

	segmentIndex := segmentNumber - 1
	if req.SegmentIndex != nil {
		segmentIndex = *req.SegmentIndex
	}

	return types.SpinOutcome{
		Type:         req.Type,
		Username:     req.Username,
		Text:         firstNonEmpty(landedText, req.Text, segment.Text),
		Sku:          req.Sku,
		SegmentIndex: segmentIndex,
		Segment:      segment,
		Timestamp:    finishedAt,
	}
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
