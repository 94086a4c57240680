package physics

import (
	"fmt"
	"math"
	"slices"

	"github.com/google/uuid"

	"github.com/zeusync/rigid2d/internal/core/observability/log"
)

// GroupID tags force creators so related ones can be cancelled together.
type GroupID uint64

// DefaultGroup is used by force helpers that take no group.
const DefaultGroup GroupID = 0

// ForceCreator runs once per tick. It may add forces or impulses to the bodies
// it closed over, or mark them removed.
type ForceCreator func()

// Observer is notified of registry bookkeeping. Calls happen on the ticking
// goroutine.
type Observer interface {
	BodyReaped(sceneID string, b *Body)
	ForceCreatorDisposed(sceneID string, group GroupID)
}

type entry struct {
	apply   ForceCreator
	bodies  []*Body
	dispose func()
	group   GroupID
}

// Scene owns bodies and force creators and advances them together. A Scene is
// not safe for concurrent use.
type Scene struct {
	id       string
	bodies   []*Body
	store    store
	entries  []*entry
	scratch  []*entry
	retired  []*entry
	firing   bool
	logger   log.Log
	observer Observer
	elapsed  float64
	ticks    uint64
	closed   bool
}

type Option func(*Scene)

func WithLogger(l log.Log) Option {
	return func(s *Scene) {
		if l != nil {
			s.logger = l
		}
	}
}

func WithObserver(o Observer) Option {
	return func(s *Scene) { s.observer = o }
}

func WithID(id string) Option {
	return func(s *Scene) {
		if id != "" {
			s.id = id
		}
	}
}

func NewScene(opts ...Option) *Scene {
	s := &Scene{
		id:     uuid.NewString(),
		logger: log.NewNop(),
	}
	for _, opt := range opts {
		opt(s)
	}
	s.logger = s.logger.With(log.String("scene", s.id))
	return s
}

func (s *Scene) ID() string { return s.id }

// Elapsed is the simulated time advanced so far.
func (s *Scene) Elapsed() float64 { return s.elapsed }

// Ticks counts calls to Tick, including zero-dt ones.
func (s *Scene) Ticks() uint64 { return s.ticks }

// Len is the number of bodies, removed-but-not-reaped ones included.
func (s *Scene) Len() int { return len(s.bodies) }

// AddBody appends b and takes ownership of it.
func (s *Scene) AddBody(b *Body) (Handle, error) {
	if s.closed {
		return Handle{}, ErrSceneClosed
	}
	if b == nil {
		return Handle{}, ErrNilBody
	}
	if b.scene != nil {
		return Handle{}, ErrBodyAttached
	}
	b.scene = s
	b.handle = s.store.insert(b)
	s.bodies = append(s.bodies, b)
	return b.handle, nil
}

// BodyAt returns the body at idx in insertion order. Indices shift when bodies
// are reaped; use handles to refer to a body across ticks.
func (s *Scene) BodyAt(idx int) (*Body, error) {
	if idx < 0 || idx >= len(s.bodies) {
		return nil, fmt.Errorf("%w: %d of %d", ErrIndexOutOfRange, idx, len(s.bodies))
	}
	return s.bodies[idx], nil
}

// Body resolves a handle. It fails once the body has been reaped.
func (s *Scene) Body(h Handle) (*Body, bool) {
	return s.store.get(h)
}

// IndexOf returns the current index of the body behind h.
func (s *Scene) IndexOf(h Handle) (int, bool) {
	b, ok := s.store.get(h)
	if !ok {
		return 0, false
	}
	idx := slices.Index(s.bodies, b)
	return idx, idx >= 0
}

// FindByTag returns the first body carrying tag.
func (s *Scene) FindByTag(tag Tag) (*Body, int, bool) {
	for i, b := range s.bodies {
		if b.tag == tag {
			return b, i, true
		}
	}
	return nil, 0, false
}

// CountTag counts bodies carrying tag that are not marked removed.
func (s *Scene) CountTag(tag Tag) int {
	n := 0
	for _, b := range s.bodies {
		if b.tag == tag && !b.removed {
			n++
		}
	}
	return n
}

// Bodies returns a snapshot of the body list.
func (s *Scene) Bodies() []*Body {
	return slices.Clone(s.bodies)
}

// RemoveBody marks the body at idx for reaping. It stays visible until the
// next Tick.
func (s *Scene) RemoveBody(idx int) error {
	b, err := s.BodyAt(idx)
	if err != nil {
		return err
	}
	b.Remove()
	return nil
}

// AddForceCreator registers fc with no body dependencies.
func (s *Scene) AddForceCreator(fc ForceCreator, dispose func(), group GroupID) {
	if s.closed {
		return
	}
	s.entries = append(s.entries, &entry{apply: fc, dispose: dispose, group: group})
}

// AddBodiesForceCreator registers fc as depending on bodies. The slice is
// copied; the bodies stay owned by the scene. Every body must already belong
// to s. The entry is disposed as soon as any of them is reaped.
func (s *Scene) AddBodiesForceCreator(fc ForceCreator, bodies []*Body, dispose func(), group GroupID) error {
	if s.closed {
		return ErrSceneClosed
	}
	for _, b := range bodies {
		switch {
		case b == nil:
			return ErrNilBody
		case b.scene == nil:
			return ErrDetachedBody
		case b.scene != s:
			return ErrForeignBody
		case s.stale(b):
			return ErrStaleBody
		}
	}
	s.entries = append(s.entries, &entry{
		apply:   fc,
		bodies:  slices.Clone(bodies),
		dispose: dispose,
		group:   group,
	})
	return nil
}

// RemoveForceCreators disposes and drops every creator in group and reports how
// many were removed. A creator removed while a tick is running still fires in
// that tick and is disposed once every creator of the tick has fired.
func (s *Scene) RemoveForceCreators(group GroupID) int {
	removed := 0
	s.entries = slices.DeleteFunc(s.entries, func(e *entry) bool {
		if e.group != group {
			return false
		}
		if s.firing {
			s.retired = append(s.retired, e)
		} else {
			s.disposeEntry(e)
		}
		removed++
		return true
	})
	if removed > 0 {
		s.logger.Debug("force creators removed", log.Uint64("group", uint64(group)), log.Int("count", removed))
	}
	return removed
}

// ForceCreators is the number of registered creators.
func (s *Scene) ForceCreators() int { return len(s.entries) }

// Tick runs every force creator registered at the start of the call, then
// reaps removed bodies and integrates the rest over dt. A zero dt only reaps.
func (s *Scene) Tick(dt float64) error {
	if s.closed {
		return ErrSceneClosed
	}
	if dt < 0 || math.IsNaN(dt) || math.IsInf(dt, 0) {
		return fmt.Errorf("%w: %v", ErrNegativeTimeStep, dt)
	}

	s.scratch = append(s.scratch[:0], s.entries...)
	s.firing = true
	for _, e := range s.scratch {
		e.apply()
	}
	s.firing = false
	clear(s.scratch)
	for _, e := range s.retired {
		s.disposeEntry(e)
	}
	clear(s.retired)
	s.retired = s.retired[:0]

	reaped := 0
	for i := len(s.bodies) - 1; i >= 0; i-- {
		b := s.bodies[i]
		if b.removed {
			s.bodies = slices.Delete(s.bodies, i, i+1)
			s.reap(b)
			reaped++
		} else if dt != 0 {
			b.Tick(dt)
		}
	}
	if reaped > 0 {
		s.sweep()
	}

	s.elapsed += dt
	s.ticks++
	return nil
}

// Close disposes every force creator and releases every body.
func (s *Scene) Close() {
	if s.closed {
		return
	}
	for _, e := range s.entries {
		s.disposeEntry(e)
	}
	s.entries = nil
	for _, b := range s.bodies {
		if err := b.release(); err != nil {
			s.logger.Warn("releasing body image", log.Error(err))
		}
		s.store.release(b.handle)
	}
	s.bodies = nil
	s.closed = true
}

// stale reports whether b can no longer be used by an entry of s.
func (s *Scene) stale(b *Body) bool {
	return b.scene != s || !s.store.valid(b.handle)
}

func (s *Scene) reap(b *Body) {
	s.store.release(b.handle)
	if err := b.release(); err != nil {
		s.logger.Warn("releasing body image", log.Error(err), log.String("tag", b.tag.String()))
	}
	s.logger.Debug("body reaped", log.String("tag", b.tag.String()), log.Int("remaining", len(s.bodies)))
	if s.observer != nil {
		s.observer.BodyReaped(s.id, b)
	}
}

// sweep drops every entry that depends on a reaped body.
func (s *Scene) sweep() {
	s.entries = slices.DeleteFunc(s.entries, func(e *entry) bool {
		for _, b := range e.bodies {
			if s.stale(b) {
				s.disposeEntry(e)
				return true
			}
		}
		return false
	})
}

func (s *Scene) disposeEntry(e *entry) {
	if e.dispose != nil {
		e.dispose()
	}
	if s.observer != nil {
		s.observer.ForceCreatorDisposed(s.id, e.group)
	}
}
