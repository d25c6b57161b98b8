package registry

import (
	"errors"
	"math/rand"
	"strings"
	"sync"

	gonanoid "github.com/matoous/go-nanoid/v2"
	"github.com/tistolabs/ruleta-overlay/internal/shared/logger"
	"github.com/tistolabs/ruleta-overlay/internal/types"
	"go.uber.org/zap"
)

var (
	ErrPositionOutOfRange = errors.New("segment position out of range")
	ErrUnknownField       = errors.New("unknown segment field")
)

// fallback colors for newly added segments, same palette the overlay uses
var colorPalette = []string{
	"#ef4444", "#f59e0b", "#10b981", "#3b82f6", "#8b5cf6",
	"#ec4899", "#14b8a6", "#f97316", "#06b6d4", "#a855f7",
}

// Committer sends the full edited list to the registry owner and returns
// the accepted, normalized list.
type Committer func(segments []types.Segment) ([]types.Segment, error)

// Session is a staging buffer for admin segment edits, independent of the
// live mirror until committed. Whenever the mirror changes, staged edits
// are discarded and restarted from the new list (last mirror write wins;
// a known hazard, kept to match observed behavior).
type Session struct {
	mu     sync.Mutex
	mirror *Mirror
	commit Committer
	staged []types.Segment
}

func NewSession(mirror *Mirror, commit Committer) *Session {
	s := &Session{
		mirror: mirror,
		commit: commit,
		staged: mirror.Snapshot(),
	}
	mirror.OnChange(s.onMirrorChange)
	return s
}

func (s *Session) onMirrorChange(segments []types.Segment) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.staged = segments
	logger.Debug("Admin session reset from mirror", zap.Int("count", len(segments)))
}

// Staged returns a copy of the staged list.
func (s *Session) Staged() []types.Segment {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]types.Segment, len(s.staged))
	copy(out, s.staged)
	return out
}

// Add appends a segment with a generated unique id and a fallback color
// picked from the palette.
func (s *Session) Add() (types.Segment, error) {
	suffix, err := gonanoid.New(8)
	if err != nil {
		return types.Segment{}, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	segment := types.Segment{
		ID:    "seg_" + suffix,
		Text:  "Nuevo premio",
		Color: s.pickColorLocked(),
	}
	s.staged = append(s.staged, segment)
	return segment, nil
}

// pickColorLocked prefers a palette color no staged segment uses yet.
func (s *Session) pickColorLocked() string {
	used := make(map[string]bool, len(s.staged))
	for _, seg := range s.staged {
		used[seg.Color] = true
	}
	for _, color := range colorPalette {
		if !used[color] {
			return color
		}
	}
	return colorPalette[rand.Intn(len(colorPalette))]
}

// Remove drops the segment at the given zero-based position.
func (s *Session) Remove(position int) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if position < 0 || position >= len(s.staged) {
		return ErrPositionOutOfRange
	}
	s.staged = append(s.staged[:position], s.staged[position+1:]...)
	return nil
}

// UpdateField sets one field of the segment at the given position.
func (s *Session) UpdateField(position int, field, value string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if position < 0 || position >= len(s.staged) {
		return ErrPositionOutOfRange
	}

	switch strings.ToLower(field) {
	case "text":
		s.staged[position].Text = value
	case "color":
		s.staged[position].Color = value
	default:
		return ErrUnknownField
	}
	return nil
}

// Reset discards staged edits and restarts from the live mirror.
func (s *Session) Reset() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.staged = s.mirror.Snapshot()
}

// Commit sends the staged list to the registry owner. On success the live
// mirror is replaced with the accepted list; on failure both the mirror
// and the staged edits are left untouched so the operator can retry.
func (s *Session) Commit() ([]types.Segment, error) {
	s.mu.Lock()
	staged := make([]types.Segment, len(s.staged))
	copy(staged, s.staged)
	s.mu.Unlock()

	accepted, err := s.commit(staged)
	if err != nil {
		logger.Error("Segment commit rejected, staged edits preserved", zap.Error(err))
		return nil, err
	}

	// Replace notifies listeners, which resets the staged list too.
	s.mirror.Replace(accepted)
	return accepted, nil
}
