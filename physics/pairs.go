package physics

// Pairs tracks every pair of touching parts across ticks and sorts them into
// start, active and end sets on each update.
type Pairs struct {
	table map[PairID]*Pair
	list  []*Pair

	Start  []*Pair
	Active []*Pair
	End    []*Pair
}

func NewPairs() *Pairs {
	return &Pairs{table: make(map[PairID]*Pair)}
}

// Get returns the pair for id, or nil.
func (ps *Pairs) Get(id PairID) *Pair {
	return ps.table[id]
}

// List returns all tracked pairs, active or not, in creation order.
func (ps *Pairs) List() []*Pair {
	return ps.list
}

// Len returns the number of tracked pairs.
func (ps *Pairs) Len() int {
	return len(ps.list)
}

// Update folds this tick's collisions into the pair set. A new pair, or an
// inactive one seen again, starts. A pair that was already active stays
// active. An active pair without a collision this tick ends once. Pairs with
// no collision are dropped unless both bodies are at rest, in which case
// they are kept inactive with their cached impulses.
func (ps *Pairs) Update(collisions []*Collision, timestamp float64) {
	ps.Start = ps.Start[:0]
	ps.Active = ps.Active[:0]
	ps.End = ps.End[:0]

	for _, p := range ps.list {
		p.confirmed = false
	}

	for _, c := range collisions {
		id := NewPairID(c.PartA.ID, c.PartB.ID)
		if p, ok := ps.table[id]; ok {
			if p.IsActive {
				ps.Active = append(ps.Active, p)
			} else {
				ps.Start = append(ps.Start, p)
			}
			p.Update(c, timestamp)
			continue
		}
		p := NewPair(c, timestamp)
		ps.table[id] = p
		ps.list = append(ps.list, p)
		ps.Start = append(ps.Start, p)
	}

	kept := ps.list[:0]
	for _, p := range ps.list {
		if p.confirmed {
			kept = append(kept, p)
			continue
		}
		if p.IsActive {
			p.SetActive(false, timestamp)
			ps.End = append(ps.End, p)
		}
		// The pair has ended and collisionEnd above was its one report. It is
		// still cached while both bodies rest so its impulses warm start a
		// contact that resumes after waking.
		if p.atRest() {
			kept = append(kept, p)
			continue
		}
		delete(ps.table, p.ID)
	}
	ps.truncate(kept)
}

// RemoveBodies drops every pair that references one of the removed bodies
// and returns the ones that were still active.
func (ps *Pairs) RemoveBodies(removed map[*Body]struct{}) []*Pair {
	if len(removed) == 0 {
		return nil
	}
	var ended []*Pair
	kept := ps.list[:0]
	for _, p := range ps.list {
		_, goneA := removed[p.BodyA]
		_, goneB := removed[p.BodyB]
		if !goneA && !goneB {
			kept = append(kept, p)
			continue
		}
		if p.IsActive {
			p.SetActive(false, p.TimeUpdated)
			ended = append(ended, p)
		}
		delete(ps.table, p.ID)
	}
	ps.truncate(kept)
	return ended
}

// Clear drops every pair.
func (ps *Pairs) Clear() {
	ps.table = make(map[PairID]*Pair)
	ps.list = nil
	ps.Start = ps.Start[:0]
	ps.Active = ps.Active[:0]
	ps.End = ps.End[:0]
}

func (ps *Pairs) truncate(kept []*Pair) {
	for i := len(kept); i < len(ps.list); i++ {
		ps.list[i] = nil
	}
	ps.list = kept
}
