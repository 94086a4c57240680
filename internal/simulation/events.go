package simulation

import (
	"github.com/zeusync/rigid2d/internal/core/events/bus"
	"github.com/zeusync/rigid2d/internal/core/geom"
	"github.com/zeusync/rigid2d/internal/core/observability/log"
	"github.com/zeusync/rigid2d/internal/core/physics"
)

// Event types published on the bus. The source of every event is the level
// name.
const (
	EventLevelStarted         = "level.started"
	EventProjectileLaunched   = "projectile.launched"
	EventBodyReaped           = "body.reaped"
	EventForceCreatorDisposed = "force_creator.disposed"
	EventLevelFinished        = "level.finished"
)

type BodyReaped struct {
	SceneID  string
	Tag      physics.Tag
	Centroid geom.Vector
}

type ForceCreatorDisposed struct {
	SceneID string
	Group   physics.GroupID
}

type ProjectileLaunched struct {
	Velocity geom.Vector
}

// sceneObserver forwards scene bookkeeping to the bus and keeps per-level
// counts for the summary.
type sceneObserver struct {
	level    string
	bus      bus.EventBus
	logger   log.Log
	reaped   map[physics.Tag]int
	disposed int
}

func newSceneObserver(level string, b bus.EventBus, logger log.Log) *sceneObserver {
	return &sceneObserver{level: level, bus: b, logger: logger, reaped: make(map[physics.Tag]int)}
}

func (o *sceneObserver) BodyReaped(sceneID string, b *physics.Body) {
	o.reaped[b.Tag()]++
	o.publish(EventBodyReaped, BodyReaped{SceneID: sceneID, Tag: b.Tag(), Centroid: b.Centroid()})
}

func (o *sceneObserver) ForceCreatorDisposed(sceneID string, group physics.GroupID) {
	o.disposed++
	o.publish(EventForceCreatorDisposed, ForceCreatorDisposed{SceneID: sceneID, Group: group})
}

func (o *sceneObserver) publish(eventType string, data any) {
	if err := o.bus.Publish(bus.NewEvent(eventType, o.level, data)); err != nil {
		o.logger.Warn("event handler failed", log.String("event", eventType), log.Error(err))
	}
}
