package webserver

import (
	"testing"
	"time"

	"github.com/tistolabs/ruleta-overlay/internal/registry"
	"github.com/tistolabs/ruleta-overlay/internal/types"
	"github.com/tistolabs/ruleta-overlay/internal/wheel"
)

// instantSurface completes every animation immediately so handler tests
// never wait on real timers.
type instantSurface struct{}

func (instantSurface) Configure([]types.Segment) {}

func (instantSurface) Spin(segmentNumber int, finished func(wheel.LandedSegment)) error {
	finished(wheel.LandedSegment{})
	return nil
}

func (instantSurface) Abort() {}

type capturedEvent struct {
	eventType string
	data      interface{}
}

func testWheelSegments() []types.Segment {
	return []types.Segment{
		{ID: "seg_1", Text: "Premio 1", Color: "#ef4444"},
		{ID: "seg_2", Text: "Premio 2", Color: "#f59e0b"},
		{ID: "seg_3", Text: "Premio 3", Color: "#10b981"},
	}
}

// setupHandlers wires fresh package state for one test and returns the
// machine's published events.
func setupHandlers(t *testing.T) chan capturedEvent {
	t.Helper()

	events := make(chan capturedEvent, 64)

	machine := wheel.NewMachine(instantSurface{}, func(eventType string, data interface{}) {
		events <- capturedEvent{eventType, data}
	})
	machine.Start()
	t.Cleanup(machine.Stop)

	mirror := registry.NewMirror()
	mirror.OnChange(func(segs []types.Segment) {
		machine.UpdateSegments(segs)
	})
	mirror.Replace(testWheelSegments())

	committer := func(segs []types.Segment) ([]types.Segment, error) {
		return registry.Normalize(segs)
	}
	session := registry.NewSession(mirror, committer)

	Setup(machine, mirror, session, committer)
	return events
}

func waitEvent(t *testing.T, events chan capturedEvent, eventType string) capturedEvent {
	t.Helper()
	deadline := time.After(2 * time.Second)
	for {
		select {
		case ev := <-events:
			if ev.eventType == eventType {
				return ev
			}
		case <-deadline:
			t.Fatalf("no %q event before deadline", eventType)
		}
	}
}
