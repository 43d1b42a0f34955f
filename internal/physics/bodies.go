package physics

import "fmt"

// BodyID is a stable handle into the engine's body arena. A handle whose slot
// was freed (or reused) no longer resolves, so holders never see a stale body.
type BodyID struct {
	index      uint32
	generation uint32
}

// IsZero reports the unset handle. Live slots start at generation 1.
func (id BodyID) IsZero() bool { return id.generation == 0 }

func (id BodyID) String() string {
	if id.IsZero() {
		return "body(none)"
	}
	return fmt.Sprintf("body(%d#%d)", id.index, id.generation)
}

// less orders handles by slot for deterministic pair keys.
func (id BodyID) less(o BodyID) bool {
	if id.index != o.index {
		return id.index < o.index
	}
	return id.generation < o.generation
}

type bodySlot struct {
	body       *Body
	generation uint32
}

// Bodies is a dense slot arena of bodies addressed by BodyID.
type Bodies struct {
	slots []bodySlot
	free  []uint32
	live  int
}

func (s *Bodies) insert(b *Body) BodyID {
	var idx uint32
	if n := len(s.free); n > 0 {
		idx = s.free[n-1]
		s.free = s.free[:n-1]
	} else {
		s.slots = append(s.slots, bodySlot{})
		idx = uint32(len(s.slots) - 1)
	}
	slot := &s.slots[idx]
	slot.generation++
	slot.body = b
	s.live++

	id := BodyID{index: idx, generation: slot.generation}
	b.id = id
	return id
}

func (s *Bodies) remove(id BodyID) (*Body, bool) {
	b := s.Get(id)
	if b == nil {
		return nil, false
	}
	s.slots[id.index].body = nil
	s.free = append(s.free, id.index)
	s.live--
	b.id = BodyID{}
	return b, true
}

// Get resolves a handle, returning nil for unset or stale handles.
func (s *Bodies) Get(id BodyID) *Body {
	if id.IsZero() || int(id.index) >= len(s.slots) {
		return nil
	}
	slot := s.slots[id.index]
	if slot.generation != id.generation {
		return nil
	}
	return slot.body
}

// Len returns the number of live bodies.
func (s *Bodies) Len() int { return s.live }

// All returns live bodies in slot order.
func (s *Bodies) All() []*Body {
	out := make([]*Body, 0, s.live)
	for _, slot := range s.slots {
		if slot.body != nil {
			out = append(out, slot.body)
		}
	}
	return out
}

// resolvePair looks up both bodies of a two-body relation.
func (s *Bodies) resolvePair(a, b BodyID) (*Body, *Body, bool) {
	ba, bb := s.Get(a), s.Get(b)
	return ba, bb, ba != nil && bb != nil
}
