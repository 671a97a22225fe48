package reconciler

// UnitRef is a generation-checked handle to a unit, safe to hold across passes.
type UnitRef struct {
	ID  UnitID
	Gen uint32
}

// Arena stores work units by id. Slots are pointers so a *WorkUnit stays
// valid while the arena grows; freed slots are recycled with a new generation.
type Arena struct {
	units []*WorkUnit
	gens  []uint32
	live  []bool
	free  []UnitID
}

func NewArena() *Arena {
	// slot 0 is NoUnit
	return &Arena{
		units: []*WorkUnit{nil},
		gens:  []uint32{0},
		live:  []bool{false},
	}
}

// Alloc returns the id of a zeroed unit.
func (a *Arena) Alloc() UnitID {
	if n := len(a.free); n > 0 {
		id := a.free[n-1]
		a.free = a.free[:n-1]
		*a.units[id] = WorkUnit{}
		a.live[id] = true
		return id
	}

	a.units = append(a.units, &WorkUnit{})
	a.gens = append(a.gens, 0)
	a.live = append(a.live, true)
	return UnitID(len(a.units) - 1)
}

// Get returns the unit for id, nil for NoUnit.
func (a *Arena) Get(id UnitID) *WorkUnit {
	if id == NoUnit {
		return nil
	}
	return a.units[id]
}

func (a *Arena) Ref(id UnitID) UnitRef {
	return UnitRef{ID: id, Gen: a.gens[id]}
}

// Resolve returns the id behind ref if its slot was not recycled since.
func (a *Arena) Resolve(ref UnitRef) (UnitID, bool) {
	if ref.ID == NoUnit || int(ref.ID) >= len(a.units) {
		return NoUnit, false
	}
	if !a.live[ref.ID] || a.gens[ref.ID] != ref.Gen {
		return NoUnit, false
	}
	return ref.ID, true
}

func (a *Arena) Free(id UnitID) {
	if id == NoUnit || !a.live[id] {
		return
	}
	a.live[id] = false
	a.gens[id]++
	*a.units[id] = WorkUnit{}
	a.free = append(a.free, id)
}

// Live returns the number of allocated units.
func (a *Arena) Live() int {
	return len(a.units) - 1 - len(a.free)
}

// Sweep frees every unit not reachable from the given trees through child and
// sibling links. keep lists single units that survive without their subtree.
func (a *Arena) Sweep(trees []UnitID, keep []UnitID) int {
	marked := make([]bool, len(a.units))

	var mark func(id UnitID)
	mark = func(id UnitID) {
		for ; id != NoUnit; id = a.units[id].Sibling {
			if marked[id] {
				return
			}
			marked[id] = true
			mark(a.units[id].Child)
		}
	}

	for _, root := range trees {
		if root == NoUnit || marked[root] {
			continue
		}
		marked[root] = true
		mark(a.units[root].Child)
	}
	for _, id := range keep {
		if id != NoUnit {
			marked[id] = true
		}
	}

	freed := 0
	for i := 1; i < len(a.units); i++ {
		if a.live[i] && !marked[i] {
			a.Free(UnitID(i))
			freed++
		}
	}
	return freed
}
