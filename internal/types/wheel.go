package types

import "time"

// Segment is one prize slot on the wheel. Order within a segment list is
// significant: it defines the index-to-visual-slot mapping the overlay uses.
type Segment struct {
	ID    string `json:"id"`
	Text  string `json:"text"`
	Color string `json:"color"`
}

// PartialSegment carries whatever segment metadata an upstream event
// declared. Any field may be empty.
type PartialSegment struct {
	ID    string `json:"id,omitempty"`
	Text  string `json:"text,omitempty"`
	Color string `json:"color,omitempty"`
}

// SpinRequest instructs the wheel to land on a specific segment. It is
// created by the transport, immutable once enqueued and consumed exactly
// once. SegmentIndex and Segment are optional; a nil Sku means the
// upstream picked the segment implicitly.
type SpinRequest struct {
	Type         string          `json:"type"`
	Username     string          `json:"username"`
	Text         string          `json:"text"`
	Sku          *string         `json:"sku"`
	SegmentIndex *int            `json:"segmentIndex,omitempty"`
	Segment      *PartialSegment `json:"segment,omitempty"`
}

// SpinOutcome is the finalized winner record for a completed SpinRequest.
// Every field is set; Timestamp is the moment the wheel stopped, not the
// moment the request arrived.
type SpinOutcome struct {
	Type         string    `json:"type"`
	Username     string    `json:"username"`
	Text         string    `json:"text"`
	Sku          *string   `json:"sku"`
	SegmentIndex int       `json:"segmentIndex"`
	Segment      Segment   `json:"segment"`
	Timestamp    time.Time `json:"timestamp"`
}
