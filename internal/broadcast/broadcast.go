package broadcast

import "sync"

// Broadcaster pushes an event to every connected overlay client.
type Broadcaster interface {
	BroadcastEvent(eventType string, data interface{})
}

var (
	mu      sync.RWMutex
	current Broadcaster
)

// SetBroadcaster registers the active broadcaster. The webserver package
// registers its WebSocket hub here so core packages can publish without
// importing it.
func SetBroadcaster(b Broadcaster) {
	mu.Lock()
	defer mu.Unlock()
	current = b
}

// Send publishes an event through the registered broadcaster. Events sent
// before registration are dropped.
func Send(eventType string, data interface{}) {
	mu.RLock()
	b := current
	mu.RUnlock()

	if b != nil {
		b.BroadcastEvent(eventType, data)
	}
}
