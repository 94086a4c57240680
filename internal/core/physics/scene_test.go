package physics

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"github.com/zeusync/rigid2d/internal/core/geom"
	"github.com/zeusync/rigid2d/internal/core/observability/log"
)

type recordingObserver struct {
	reaped   []Tag
	disposed []GroupID
}

func (o *recordingObserver) BodyReaped(_ string, b *Body) { o.reaped = append(o.reaped, b.Tag()) }

func (o *recordingObserver) ForceCreatorDisposed(_ string, g GroupID) {
	o.disposed = append(o.disposed, g)
}

func addBody(t *testing.T, s *Scene, tag Tag, at geom.Vector) *Body {
	t.Helper()
	b, err := NewBody(unitSquare(t), 1, Black, tag)
	require.NoError(t, err)
	b.SetCentroid(at)
	_, err = s.AddBody(b)
	require.NoError(t, err)
	return b
}

func TestSceneAddAndIndex(t *testing.T) {
	s := NewScene(WithID("test"))
	assert.Equal(t, "test", s.ID())

	a := addBody(t, s, TagBird, geom.Zero)
	b := addBody(t, s, TagPig, geom.NewVector(10, 0))
	require.Equal(t, 2, s.Len())

	got, err := s.BodyAt(1)
	require.NoError(t, err)
	assert.Same(t, b, got)

	_, err = s.BodyAt(2)
	assert.ErrorIs(t, err, ErrIndexOutOfRange)
	_, err = s.BodyAt(-1)
	assert.ErrorIs(t, err, ErrIndexOutOfRange)
	assert.ErrorIs(t, s.RemoveBody(5), ErrIndexOutOfRange)

	_, err = s.AddBody(a)
	assert.ErrorIs(t, err, ErrBodyAttached)
	_, err = s.AddBody(nil)
	assert.ErrorIs(t, err, ErrNilBody)

	found, idx, ok := s.FindByTag(TagPig)
	require.True(t, ok)
	assert.Same(t, b, found)
	assert.Equal(t, 1, idx)
	_, _, ok = s.FindByTag(TagCoin)
	assert.False(t, ok)
}

func TestRemoveBodyIsDeferred(t *testing.T) {
	obs := &recordingObserver{}
	s := NewScene(WithObserver(obs))
	a := addBody(t, s, TagBird, geom.Zero)
	b := addBody(t, s, TagPig, geom.NewVector(5, 0))
	c := addBody(t, s, TagWall, geom.NewVector(10, 0))
	hb := b.Handle()

	require.NoError(t, s.RemoveBody(1))
	assert.True(t, b.IsRemoved())
	assert.Equal(t, 3, s.Len())
	assert.Equal(t, 2, s.CountTag(TagBird)+s.CountTag(TagWall))
	assert.Zero(t, s.CountTag(TagPig))

	require.NoError(t, s.Tick(0))
	require.Equal(t, 2, s.Len())
	assert.Equal(t, []Tag{TagPig}, obs.reaped)

	_, ok := s.Body(hb)
	assert.False(t, ok)
	_, ok = s.IndexOf(hb)
	assert.False(t, ok)

	idx, ok := s.IndexOf(c.Handle())
	require.True(t, ok)
	assert.Equal(t, 1, idx)
	got, ok := s.Body(a.Handle())
	require.True(t, ok)
	assert.Same(t, a, got)
}

func TestReapingDisposesDependentCreators(t *testing.T) {
	obs := &recordingObserver{}
	s := NewScene(WithObserver(obs))
	a := addBody(t, s, TagBird, geom.Zero)
	b := addBody(t, s, TagPig, geom.NewVector(5, 0))

	var calls, disposed, independent int
	require.NoError(t, s.AddBodiesForceCreator(func() {
		calls++
		a.AddForce(geom.NewVector(1, 0))
		b.Remove()
	}, []*Body{a, b}, func() { disposed++ }, 7))
	s.AddForceCreator(func() { independent++ }, nil, 8)

	require.NoError(t, s.Tick(0.1))
	assert.Equal(t, 1, calls)
	assert.Equal(t, 1, disposed)
	assert.Equal(t, 1, s.Len())
	assert.Equal(t, 1, s.ForceCreators())
	assert.Equal(t, []GroupID{7}, obs.disposed)

	for i := 0; i < 3; i++ {
		require.NoError(t, s.Tick(0.1))
	}
	assert.Equal(t, 1, calls, "creator fired after its body was reaped")
	assert.Equal(t, 1, disposed)
	assert.Equal(t, 4, independent)

	for i := 0; i < s.Len(); i++ {
		body, err := s.BodyAt(i)
		require.NoError(t, err)
		assert.False(t, body.IsRemoved())
	}
}

func TestAddBodiesForceCreatorValidation(t *testing.T) {
	s := NewScene()
	other := NewScene()
	a := addBody(t, s, TagBird, geom.Zero)
	foreign := addBody(t, other, TagBird, geom.Zero)

	assert.ErrorIs(t, s.AddBodiesForceCreator(func() {}, []*Body{a, nil}, nil, 0), ErrNilBody)
	assert.ErrorIs(t, s.AddBodiesForceCreator(func() {}, []*Body{foreign}, nil, 0), ErrForeignBody)

	a.Remove()
	require.NoError(t, s.Tick(0))
	assert.ErrorIs(t, s.AddBodiesForceCreator(func() {}, []*Body{a}, nil, 0), ErrStaleBody)
	assert.Zero(t, s.ForceCreators())
}

func TestCreatorRejectsDetachedBody(t *testing.T) {
	s := NewScene()
	b := newBody(t, 1)

	fired := 0
	err := s.AddBodiesForceCreator(func() { fired++ }, []*Body{b}, nil, 0)
	assert.ErrorIs(t, err, ErrDetachedBody)
	assert.Zero(t, s.ForceCreators())

	// reaped in another scene, so no creator of s may see it
	other := NewScene()
	_, err = other.AddBody(b)
	require.NoError(t, err)
	b.Remove()
	require.NoError(t, other.Tick(0))
	require.Zero(t, other.Len())

	assert.ErrorIs(t, s.AddBodiesForceCreator(func() { fired++ }, []*Body{b}, nil, 0), ErrForeignBody)
	for i := 0; i < 3; i++ {
		require.NoError(t, s.Tick(0.1))
	}
	assert.Zero(t, fired)
	assert.Zero(t, s.ForceCreators())
}

func TestForceCreatorsRunInRegistrationOrder(t *testing.T) {
	s := NewScene()
	var order []int
	for i := 0; i < 5; i++ {
		s.AddForceCreator(func() { order = append(order, i) }, nil, DefaultGroup)
	}
	require.NoError(t, s.Tick(0))
	assert.Equal(t, []int{0, 1, 2, 3, 4}, order)
}

func TestRemoveForceCreatorsByGroup(t *testing.T) {
	s := NewScene()
	disposed := map[GroupID]int{}
	for _, g := range []GroupID{1, 2, 1, 1, 3} {
		s.AddForceCreator(func() {}, func() { disposed[g]++ }, g)
	}

	assert.Equal(t, 3, s.RemoveForceCreators(1))
	assert.Equal(t, 2, s.ForceCreators())
	assert.Equal(t, 3, disposed[1])
	assert.Zero(t, s.RemoveForceCreators(42))
	assert.Equal(t, 2, s.ForceCreators())
}

func TestTickUsesSnapshotOfCreators(t *testing.T) {
	s := NewScene()
	var late, cancelled int
	var trail []string
	s.AddForceCreator(func() {
		s.RemoveForceCreators(9)
		s.AddForceCreator(func() { late++ }, nil, 0)
	}, nil, 1)
	s.AddForceCreator(func() {
		cancelled++
		trail = append(trail, "fire")
	}, func() { trail = append(trail, "dispose") }, 9)

	require.NoError(t, s.Tick(0))
	assert.Equal(t, 1, cancelled, "removal takes effect next tick")
	assert.Zero(t, late, "creators added mid-tick wait for the next tick")
	assert.Equal(t, []string{"fire", "dispose"}, trail)

	require.NoError(t, s.Tick(0))
	assert.Equal(t, 1, cancelled)
	assert.Equal(t, 1, late)
	assert.Equal(t, []string{"fire", "dispose"}, trail)
}

func TestTickRejectsBadTimeStep(t *testing.T) {
	s := NewScene()
	for _, dt := range []float64{-1, math.NaN(), math.Inf(1)} {
		assert.ErrorIs(t, s.Tick(dt), ErrNegativeTimeStep)
	}
	assert.Zero(t, s.Ticks())
}

func TestZeroDtTickIsIdempotent(t *testing.T) {
	s := NewScene()
	a := addBody(t, s, TagBird, geom.NewVector(1, 2))
	a.SetVelocity(geom.NewVector(3, 4))
	b := addBody(t, s, TagPig, geom.NewVector(-5, 0))
	b.SetVelocity(geom.NewVector(0, -1))

	before := s.Fingerprint()
	for i := 0; i < 10; i++ {
		require.NoError(t, s.Tick(0))
	}
	assert.Equal(t, before, s.Fingerprint())
	assert.Equal(t, geom.NewVector(1, 2), a.Centroid())
	assert.Equal(t, geom.NewVector(3, 4), a.Velocity())
	assert.Equal(t, uint64(10), s.Ticks())
	assert.Zero(t, s.Elapsed())
}

func TestFingerprintIsDeterministic(t *testing.T) {
	run := func() uint64 {
		s := NewScene()
		a := addBody(t, s, TagBird, geom.Zero)
		b := addBody(t, s, TagPig, geom.NewVector(20, 0))
		require.NoError(t, s.AddBodiesForceCreator(func() {
			d := b.Centroid().Sub(a.Centroid())
			a.AddForce(d.Scale(0.5))
			b.AddForce(d.Scale(-0.5))
		}, []*Body{a, b}, nil, 0))
		for i := 0; i < 1000; i++ {
			require.NoError(t, s.Tick(1e-3))
		}
		return s.Fingerprint()
	}
	assert.Equal(t, run(), run())

	s := NewScene()
	empty := s.Fingerprint()
	addBody(t, s, TagBird, geom.Zero)
	assert.NotEqual(t, empty, s.Fingerprint())
}

func TestReapClosesImage(t *testing.T) {
	s := NewScene()
	b := addBody(t, s, TagBird, geom.Zero)
	img := &closeCounter{}
	require.NoError(t, b.AttachImage(img))

	b.Remove()
	require.NoError(t, s.Tick(0))
	assert.Equal(t, 1, img.closed)
}

func TestCloseReleasesEverything(t *testing.T) {
	s := NewScene()
	b := addBody(t, s, TagBird, geom.Zero)
	img := &closeCounter{}
	require.NoError(t, b.AttachImage(img))
	disposed := 0
	require.NoError(t, s.AddBodiesForceCreator(func() {}, []*Body{b}, func() { disposed++ }, 0))

	s.Close()
	s.Close()
	assert.Equal(t, 1, img.closed)
	assert.Equal(t, 1, disposed)
	assert.Zero(t, s.Len())
	assert.ErrorIs(t, s.Tick(1), ErrSceneClosed)
	_, err := s.AddBody(newBody(t, 1))
	assert.ErrorIs(t, err, ErrSceneClosed)
}

func TestHandleSlotsAreReused(t *testing.T) {
	s := NewScene()
	a := addBody(t, s, TagBird, geom.Zero)
	old := a.Handle()
	a.Remove()
	require.NoError(t, s.Tick(0))

	b := addBody(t, s, TagPig, geom.Zero)
	assert.Equal(t, old.index, b.Handle().index)
	assert.NotEqual(t, old.generation, b.Handle().generation)
	_, ok := s.Body(old)
	assert.False(t, ok)
	assert.Equal(t, 1, s.store.len())
	assert.True(t, Handle{}.IsZero())
	assert.False(t, b.Handle().IsZero())
}

func TestSceneLogsReaps(t *testing.T) {
	core, logs := observer.New(zapcore.DebugLevel)
	s := NewScene(WithLogger(log.FromZap(zap.New(core), log.LevelDebug)), WithID("logged"))
	b := addBody(t, s, TagPig, geom.Zero)
	b.Remove()
	require.NoError(t, s.Tick(0))

	entries := logs.FilterMessage("body reaped").All()
	require.Len(t, entries, 1)
	assert.Equal(t, "pig", entries[0].ContextMap()["tag"])
	assert.Equal(t, "logged", entries[0].ContextMap()["scene"])
}
