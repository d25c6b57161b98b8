package wheel

import (
	"sync"
	"time"

	"github.com/tistolabs/ruleta-overlay/internal/shared/logger"
	"github.com/tistolabs/ruleta-overlay/internal/types"
	"go.uber.org/zap"
)

// PlaybackState reports whether an animation is in flight.
type PlaybackState string

const (
	StateIdle     PlaybackState = "idle"
	StateSpinning PlaybackState = "spinning"
)

// Status is the snapshot exposed to observers.
type Status struct {
	State        PlaybackState      `json:"state"`
	IsSpinning   bool               `json:"is_spinning"`
	SegmentCount int                `json:"segment_count"`
	QueueDepth   int                `json:"queue_depth"`
	LastOutcome  *types.SpinOutcome `json:"last_outcome,omitempty"`
}

// PublishFunc pushes an event to overlay observers.
type PublishFunc func(eventType string, data interface{})

// swapped in tests for deterministic timestamps
var machineNow = time.Now

type completion struct {
	req           types.SpinRequest
	segmentNumber int
	landed        LandedSegment
}

// Machine sequences spin requests onto the rendering surface: strict FIFO,
// at most one animation in flight, no preemption. All queue and state
// mutation happens on the run loop goroutine; the mutex only guards the
// snapshot reads done by Status and History.
type Machine struct {
	surface Surface
	publish PublishFunc

	requests    chan types.SpinRequest
	completions chan completion
	segmentCh   chan []types.Segment
	stopCh      chan struct{}
	stoppedCh   chan struct{}

	mu       sync.RWMutex
	state    PlaybackState
	segments []types.Segment
	queue    *RequestQueue
	history  *History
}

func NewMachine(surface Surface, publish PublishFunc) *Machine {
	if publish == nil {
		publish = func(string, interface{}) {}
	}
	return &Machine{
		surface:     surface,
		publish:     publish,
		requests:    make(chan types.SpinRequest, 64),
		completions: make(chan completion, 1),
		segmentCh:   make(chan []types.Segment, 4),
		stopCh:      make(chan struct{}),
		stoppedCh:   make(chan struct{}),
		state:       StateIdle,
		queue:       NewRequestQueue(),
		history:     NewHistory(DefaultHistorySize),
	}
}

// Start launches the run loop.
func (m *Machine) Start() {
	go m.run()
}

// Stop aborts any pending animation and terminates the run loop. Queued
// requests that never played are discarded.
func (m *Machine) Stop() {
	close(m.stopCh)
	<-m.stoppedCh
}

// EnqueueSpin hands a request to the sequencer. It never rejects; arrival
// order is playback order.
func (m *Machine) EnqueueSpin(req types.SpinRequest) {
	m.requests <- req
}

// UpdateSegments replaces the surface's segment list wholesale. An
// animation already in flight finishes against the list it started with.
func (m *Machine) UpdateSegments(segments []types.Segment) {
	m.segmentCh <- segments
}

// Status returns the current observer snapshot.
func (m *Machine) Status() Status {
	m.mu.RLock()
	defer m.mu.RUnlock()

	status := Status{
		State:        m.state,
		IsSpinning:   m.state == StateSpinning,
		SegmentCount: len(m.segments),
		QueueDepth:   m.queue.Len(),
	}
	if latest, ok := m.history.Latest(); ok {
		outcome := latest
		status.LastOutcome = &outcome
	}
	return status
}

// History returns resolved outcomes, most recent first.
func (m *Machine) History() []types.SpinOutcome {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.history.Entries()
}

func (m *Machine) run() {
	for {
		select {
		case req := <-m.requests:
			m.mu.Lock()
			m.queue.Enqueue(req)
			depth := m.queue.Len()
			m.mu.Unlock()

			logger.Info("Spin request enqueued",
				zap.String("username", req.Username),
				zap.Int("queue_depth", depth))
			m.startNext()

		case c := <-m.completions:
			outcome := Resolve(c.req, &c.landed, c.segmentNumber, machineNow())

			m.mu.Lock()
			m.state = StateIdle
			m.history.Add(outcome)
			m.mu.Unlock()

			logger.Info("Spin resolved",
				zap.String("username", outcome.Username),
				zap.String("winner", outcome.Segment.Text),
				zap.Int("segment_index", outcome.SegmentIndex))

			// publication is synchronous with resolution
			m.publish("spin-resolved", outcome)
			m.startNext()

		case segments := <-m.segmentCh:
			m.mu.Lock()
			m.segments = segments
			m.mu.Unlock()
			m.surface.Configure(segments)

		case <-m.stopCh:
			m.surface.Abort()
			close(m.stoppedCh)
			return
		}
	}
}

// startNext dequeues and plays the front request if the machine is idle.
// When the surface refuses to start, the request is forfeited (no outcome
// is synthesized) and the next one is tried.
func (m *Machine) startNext() {
	for {
		m.mu.Lock()
		if m.state != StateIdle || !m.queue.HasPending() {
			m.mu.Unlock()
			return
		}
		req, _ := m.queue.DequeueFront()
		m.state = StateSpinning
		m.mu.Unlock()

		segmentNumber := targetSegmentNumber(req)

		// reset leftover animation artifacts so spins stay visually
		// independent; aborting an idle surface is harmless
		m.surface.Abort()

		err := m.surface.Spin(segmentNumber, func(landed LandedSegment) {
			m.completions <- completion{req: req, segmentNumber: segmentNumber, landed: landed}
		})
		if err == nil {
			logger.Info("Spin started",
				zap.String("username", req.Username),
				zap.Int("segment_number", segmentNumber))
			m.publish("spin", map[string]interface{}{
				"request":       req,
				"segmentNumber": segmentNumber,
			})
			return
		}

		logger.Error("Rendering surface cannot start, dropping request",
			zap.String("username", req.Username),
			zap.Int("segment_number", segmentNumber),
			zap.Error(err))

		m.mu.Lock()
		m.state = StateIdle
		m.mu.Unlock()
	}
}

// targetSegmentNumber maps the request's zero-based segmentIndex to the
// one-based slot the surface expects, defaulting to the first segment when
// the index is absent. The wheel must always land somewhere.
func targetSegmentNumber(req types.SpinRequest) int {
	if req.SegmentIndex != nil && *req.SegmentIndex >= 0 {
		return *req.SegmentIndex + 1
	}
	return 1
}
