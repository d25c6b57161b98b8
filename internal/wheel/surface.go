package wheel

import (
	"errors"
	"sync"
	"time"

	"github.com/tistolabs/ruleta-overlay/internal/shared/logger"
	"github.com/tistolabs/ruleta-overlay/internal/types"
	"go.uber.org/zap"
)

// ErrSurfaceNotReady is returned by Spin when the surface has no segments
// to land on, typically because the list was empty at configure time.
var ErrSurfaceNotReady = errors.New("rendering surface not initialized")

// Surface is the animation primitive the playback machine drives. A Spin
// call must be non-blocking: it starts the animation and later invokes the
// finished callback exactly once, after an arbitrary real-time delay.
// Abort stops any in-progress animation; aborting an idle surface is a
// no-op, never an error.
type Surface interface {
	Configure(segments []types.Segment)
	Spin(segmentNumber int, finished func(LandedSegment)) error
	Abort()
}

// OverlaySurface is the production surface. The actual drawing happens in
// the browser overlay; this side mirrors the animation timing with a
// single-shot timer and reports the segment the aimed-at slot holds.
type OverlaySurface struct {
	mu       sync.Mutex
	segments []types.Segment
	duration time.Duration
	timer    *time.Timer
}

func NewOverlaySurface(duration time.Duration) *OverlaySurface {
	return &OverlaySurface{duration: duration}
}

// Configure replaces the segment list wholesale.
func (s *OverlaySurface) Configure(segments []types.Segment) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.segments = make([]types.Segment, len(segments))
	copy(s.segments, segments)

	logger.Debug("Surface configured", zap.Int("segments", len(segments)))
}

// Spin starts the animation toward the one-based segmentNumber and arms
// the completion callback. Out-of-range targets are clamped so the wheel
// always lands somewhere.
func (s *OverlaySurface) Spin(segmentNumber int, finished func(LandedSegment)) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if len(s.segments) == 0 {
		return ErrSurfaceNotReady
	}

	if segmentNumber < 1 {
		segmentNumber = 1
	}
	if segmentNumber > len(s.segments) {
		segmentNumber = len(s.segments)
	}
	target := s.segments[segmentNumber-1]

	s.timer = time.AfterFunc(s.duration, func() {
		finished(LandedSegment{Text: target.Text, Color: target.Color})
	})

	return nil
}

// Abort cancels a pending completion. Safe to call at any time.
func (s *OverlaySurface) Abort() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.timer != nil {
		s.timer.Stop()
		s.timer = nil
	}
}
