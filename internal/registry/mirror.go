package registry

import (
	"sync"

	"github.com/tistolabs/ruleta-overlay/internal/shared/logger"
	"github.com/tistolabs/ruleta-overlay/internal/types"
	"go.uber.org/zap"
)

// Mirror is the local cached copy of the authoritative segment list.
// Updates always replace the list wholesale; there is no partial merge.
type Mirror struct {
	mu        sync.RWMutex
	segments  []types.Segment
	listeners []func([]types.Segment)
}

func NewMirror() *Mirror {
	return &Mirror{}
}

// Replace swaps the segment list and notifies listeners with a snapshot.
// Listeners run synchronously on the caller's goroutine.
func (m *Mirror) Replace(segments []types.Segment) {
	snapshot := make([]types.Segment, len(segments))
	copy(snapshot, segments)

	m.mu.Lock()
	m.segments = snapshot
	listeners := make([]func([]types.Segment), len(m.listeners))
	copy(listeners, m.listeners)
	m.mu.Unlock()

	logger.Info("Segment mirror updated", zap.Int("count", len(snapshot)))

	for _, listener := range listeners {
		listener(m.Snapshot())
	}
}

// Snapshot returns a copy of the current list in wheel order.
func (m *Mirror) Snapshot() []types.Segment {
	m.mu.RLock()
	defer m.mu.RUnlock()

	out := make([]types.Segment, len(m.segments))
	copy(out, m.segments)
	return out
}

func (m *Mirror) Count() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.segments)
}

// OnChange registers a listener invoked after every Replace.
func (m *Mirror) OnChange(fn func([]types.Segment)) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.listeners = append(m.listeners, fn)
}
