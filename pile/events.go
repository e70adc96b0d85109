package pile

// EventType identifies scene events.
type EventType string

const (
	// EventSelected carries the identity of a tapped post.
	EventSelected EventType = "selected"
	// EventReset is emitted after the world was rebuilt for a new viewport.
	EventReset EventType = "reset"
	// EventLoading is emitted when a refresh empties the pile.
	EventLoading EventType = "loading"
	// EventItems is emitted when the content list changes.
	EventItems EventType = "items"
)

// Event is a scene notification. ID is set for EventSelected; Count holds
// the number of items for EventItems.
type Event struct {
	Type  EventType
	ID    string
	Count int
}

// EventQueue is a simple FIFO queue.
type EventQueue struct {
	items []Event
}

// Push adds an event.
func (q *EventQueue) Push(evt Event) {
	if q == nil {
		return
	}
	q.items = append(q.items, evt)
}

// Drain returns all events and clears the queue.
func (q *EventQueue) Drain() []Event {
	if q == nil || len(q.items) == 0 {
		return nil
	}
	out := q.items
	q.items = nil
	return out
}

func (q *EventQueue) Len() int {
	if q == nil {
		return 0
	}
	return len(q.items)
}
