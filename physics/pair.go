package physics

import (
	"fmt"
	"math"

	"github.com/milk9111/impulse/geom"
)

// PairID identifies a pair of parts. A is always the smaller id.
type PairID struct {
	A int
	B int
}

// NewPairID orders two part ids.
func NewPairID(a, b int) PairID {
	if b < a {
		a, b = b, a
	}
	return PairID{A: a, B: b}
}

func (id PairID) String() string {
	return fmt.Sprintf("A%dB%d", id.A, id.B)
}

// ContactID keys a contact by the part and vertex it came from.
type ContactID struct {
	Part   int
	Vertex int
}

// Contact is a support point with the impulses accumulated on it. The
// impulses survive between ticks to warm start the solver.
type Contact struct {
	ID             ContactID
	NormalImpulse  float64
	TangentImpulse float64

	support Support
}

// Point returns the current world position of the contact vertex.
func (c *Contact) Point() geom.Vector {
	return c.support.Point()
}

// Pair is the persistent record of two parts in contact.
type Pair struct {
	ID        PairID
	PartA     *Body
	PartB     *Body
	BodyA     *Body
	BodyB     *Body
	Collision *Collision

	Contacts       map[ContactID]*Contact
	ActiveContacts []*Contact

	Separation     float64
	IsActive       bool
	IsSensor       bool
	TimeCreated    float64
	TimeUpdated    float64
	InverseMass    float64
	Friction       float64
	FrictionStatic float64
	Restitution    float64
	Slop           float64

	confirmed bool
}

// NewPair creates an active pair from a collision.
func NewPair(c *Collision, timestamp float64) *Pair {
	p := &Pair{
		ID:          NewPairID(c.PartA.ID, c.PartB.ID),
		PartA:       c.PartA,
		PartB:       c.PartB,
		BodyA:       c.BodyA,
		BodyB:       c.BodyB,
		Contacts:    make(map[ContactID]*Contact, 4),
		IsSensor:    c.BodyA.IsSensor || c.BodyB.IsSensor,
		TimeCreated: timestamp,
	}
	p.Update(c, timestamp)
	return p
}

// Update refreshes the pair from a new collision of the same parts. Contacts
// for supports seen before keep their cached impulses.
func (p *Pair) Update(c *Collision, timestamp float64) {
	a, b := c.BodyA, c.BodyB
	p.IsActive = true
	p.confirmed = true
	p.TimeUpdated = timestamp
	p.Collision = c
	p.Separation = c.Depth
	p.IsSensor = a.IsSensor || b.IsSensor
	p.InverseMass = a.inverseMass + b.inverseMass
	p.Friction = math.Min(a.Friction, b.Friction)
	p.FrictionStatic = math.Max(a.FrictionStatic, b.FrictionStatic)
	p.Restitution = math.Max(a.Restitution, b.Restitution)
	p.Slop = math.Max(a.Slop, b.Slop)

	p.ActiveContacts = p.ActiveContacts[:0]
	for _, s := range c.Supports {
		id := ContactID{Part: s.Part.ID, Vertex: s.Index}
		contact, ok := p.Contacts[id]
		if !ok {
			contact = &Contact{ID: id}
			p.Contacts[id] = contact
		}
		contact.support = s
		p.ActiveContacts = append(p.ActiveContacts, contact)
	}
}

// SetActive toggles the pair. Deactivating drops the active contacts but
// keeps cached impulses.
func (p *Pair) SetActive(active bool, timestamp float64) {
	if active {
		p.IsActive = true
		p.TimeUpdated = timestamp
		return
	}
	p.IsActive = false
	p.ActiveContacts = p.ActiveContacts[:0]
}

// atRest reports whether neither body can move this tick.
func (p *Pair) atRest() bool {
	return (p.BodyA.isSleeping || p.BodyA.isStatic) && (p.BodyB.isSleeping || p.BodyB.isStatic)
}
