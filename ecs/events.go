package ecs

import "github.com/milk9111/impulse/physics"

// Event is a generic ECS event payload.
type Event struct {
	Type string
	Data any
}

// CollisionEventKind identifies collision event types.
type CollisionEventKind string

const (
	CollisionEventStart  CollisionEventKind = "collision_start"
	CollisionEventActive CollisionEventKind = "collision_active"
	CollisionEventEnd    CollisionEventKind = "collision_end"
)

// CollisionEvent reports a pair of touching entities. Either entity is zero
// when its body is not bound to one.
type CollisionEvent struct {
	Kind   CollisionEventKind
	A      Entity
	B      Entity
	Pair   *physics.Pair
	Sensor bool
}

// SleepEventType is the Event.Type of a SleepEvent.
const SleepEventType = "sleep"

// SleepEvent reports an entity whose body fell asleep or woke up.
type SleepEvent struct {
	Entity   Entity
	Sleeping bool
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

// Len reports how many events are waiting.
func (q *EventQueue) Len() int {
	if q == nil {
		return 0
	}
	return len(q.items)
}
