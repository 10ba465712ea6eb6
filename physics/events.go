package physics

// EventKind identifies engine events.
type EventKind string

const (
	EventBeforeUpdate    EventKind = "beforeUpdate"
	EventAfterUpdate     EventKind = "afterUpdate"
	EventCollisionStart  EventKind = "collisionStart"
	EventCollisionActive EventKind = "collisionActive"
	EventCollisionEnd    EventKind = "collisionEnd"
	EventSleepStart      EventKind = "sleepStart"
	EventSleepEnd        EventKind = "sleepEnd"
)

// Event is emitted by Engine.Update. Collision events carry a snapshot of the
// affected pairs; sleep events carry the body.
type Event struct {
	Kind      EventKind
	Timestamp float64
	Delta     float64
	Pairs     []*Pair
	Body      *Body
}

// EventQueue is a simple FIFO queue.
type EventQueue struct {
	items []Event

	timestamp float64
	delta     float64
}

// Push adds an event.
func (q *EventQueue) Push(evt Event) {
	if q == nil {
		return
	}
	q.items = append(q.items, evt)
}

// emit pushes an event stamped with the current tick.
func (q *EventQueue) emit(kind EventKind, pairs []*Pair, body *Body) {
	if q == nil {
		return
	}
	var snapshot []*Pair
	if len(pairs) > 0 {
		snapshot = append(snapshot, pairs...)
	}
	q.items = append(q.items, Event{
		Kind:      kind,
		Timestamp: q.timestamp,
		Delta:     q.delta,
		Pairs:     snapshot,
		Body:      body,
	})
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

// Len returns the number of queued events.
func (q *EventQueue) Len() int {
	if q == nil {
		return 0
	}
	return len(q.items)
}
