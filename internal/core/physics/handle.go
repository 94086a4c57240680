package physics

// Handle identifies a body inside its scene. A handle whose body has been
// reaped fails lookups; the slot's generation moved on.
type Handle struct {
	index      uint32
	generation uint32
}

// IsZero reports whether h was never issued by a scene.
func (h Handle) IsZero() bool {
	return h.generation == 0
}

type slot struct {
	generation uint32
	body       *Body
}

// store is a dense slot array with a free list. Generations start at 1 so the
// zero Handle is never valid.
type store struct {
	slots []slot
	free  []uint32
}

func (s *store) insert(b *Body) Handle {
	var idx uint32
	if n := len(s.free); n > 0 {
		idx = s.free[n-1]
		s.free = s.free[:n-1]
	} else {
		idx = uint32(len(s.slots))
		s.slots = append(s.slots, slot{})
	}
	sl := &s.slots[idx]
	sl.generation++
	if sl.generation == 0 {
		sl.generation = 1
	}
	sl.body = b
	return Handle{index: idx, generation: sl.generation}
}

func (s *store) valid(h Handle) bool {
	if h.IsZero() || int(h.index) >= len(s.slots) {
		return false
	}
	sl := s.slots[h.index]
	return sl.generation == h.generation && sl.body != nil
}

func (s *store) get(h Handle) (*Body, bool) {
	if !s.valid(h) {
		return nil, false
	}
	return s.slots[h.index].body, true
}

func (s *store) release(h Handle) {
	if !s.valid(h) {
		return
	}
	sl := &s.slots[h.index]
	sl.body = nil
	sl.generation++
	s.free = append(s.free, h.index)
}

func (s *store) len() int {
	return len(s.slots) - len(s.free)
}
