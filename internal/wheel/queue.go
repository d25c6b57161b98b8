package wheel

import "github.com/tistolabs/ruleta-overlay/internal/types"

// RequestQueue is the ordered buffer of spin requests awaiting playback.
// It is unbounded on purpose: a burst of gifts during an animation grows
// the queue instead of dropping a viewer's event. Not safe for concurrent
// use; the Machine run loop is its only owner.
type RequestQueue struct {
	items []types.SpinRequest
}

func NewRequestQueue() *RequestQueue {
	return &RequestQueue{}
}

// Enqueue appends to the tail unconditionally. It never rejects and never
// inspects the request.
func (q *RequestQueue) Enqueue(req types.SpinRequest) {
	q.items = append(q.items, req)
}

func (q *RequestQueue) HasPending() bool {
	return len(q.items) > 0
}

func (q *RequestQueue) Len() int {
	return len(q.items)
}

func (q *RequestQueue) PeekFront() (types.SpinRequest, bool) {
	if len(q.items) == 0 {
		return types.SpinRequest{}, false
	}
	return q.items[0], true
}

func (q *RequestQueue) DequeueFront() (types.SpinRequest, bool) {
	if len(q.items) == 0 {
		return types.SpinRequest{}, false
	}

	req := q.items[0]
	q.items = q.items[1:]
	return req, true
}
