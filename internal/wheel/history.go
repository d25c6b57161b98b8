package wheel

import "github.com/tistolabs/ruleta-overlay/internal/types"

// DefaultHistorySize is how many resolved outcomes the overlay shows.
const DefaultHistorySize = 5

// History keeps the most recent resolved outcomes, newest first. It lives
// for the process lifetime only and is owned by the Machine.
type History struct {
	capacity int
	entries  []types.SpinOutcome
}

func NewHistory(capacity int) *History {
	if capacity <= 0 {
		capacity = DefaultHistorySize
	}
	return &History{capacity: capacity}
}

// Add prepends an outcome and evicts the oldest entry past capacity.
func (h *History) Add(outcome types.SpinOutcome) {
	h.entries = append([]types.SpinOutcome{outcome}, h.entries...)
	if len(h.entries) > h.capacity {
		h.entries = h.entries[:h.capacity]
	}
}

// Entries returns a copy, most recent first.
func (h *History) Entries() []types.SpinOutcome {
	out := make([]types.SpinOutcome, len(h.entries))
	copy(out, h.entries)
	return out
}

// Latest returns the most recent outcome, if any.
func (h *History) Latest() (types.SpinOutcome, bool) {
	if len(h.entries) == 0 {
		return types.SpinOutcome{}, false
	}
	return h.entries[0], true
}

func (h *History) Len() int {
	return len(h.entries)
}
