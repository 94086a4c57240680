package simulation

import (
	"sync"

	"github.com/zeusync/rigid2d/internal/core/events/bus"
	"github.com/zeusync/rigid2d/internal/core/observability/log"
)

// Monitor follows a run on the bus. It logs progress as levels finish and
// reports the bus activity of the run when closed. Levels run in parallel, so
// handlers may be called concurrently.
type Monitor struct {
	bus    bus.EventBus
	logger log.Log
	subs   []bus.Subscription

	mu          sync.Mutex
	levels      int
	cleared     int
	reaped      map[string]int
	slowestUs   int64
	failedEvent int
}

// Watch subscribes a new Monitor to b and registers it as a bus observer.
func Watch(b bus.EventBus, logger log.Log) (*Monitor, error) {
	m := &Monitor{bus: b, logger: logger, reaped: make(map[string]int)}
	handlers := map[string]bus.EventHandler{
		EventBodyReaped:    m.onBodyReaped,
		EventLevelFinished: m.onLevelFinished,
	}
	for _, typ := range []string{EventBodyReaped, EventLevelFinished} {
		sub, err := b.Subscribe(typ, handlers[typ])
		if err != nil {
			m.Close()
			return nil, err
		}
		m.subs = append(m.subs, sub)
	}
	b.AddObserver(m)
	return m, nil
}

func (m *Monitor) onBodyReaped(e bus.Event) error {
	reaped, ok := e.Data().(BodyReaped)
	if !ok {
		return nil
	}
	m.mu.Lock()
	m.reaped[reaped.Tag.String()]++
	m.mu.Unlock()
	m.logger.Debug("body reaped",
		log.String("level", e.Source()),
		log.String("tag", reaped.Tag.String()),
		log.Float64("x", reaped.Centroid.X),
		log.Float64("y", reaped.Centroid.Y))
	return nil
}

func (m *Monitor) onLevelFinished(e bus.Event) error {
	summary, ok := e.Data().(Summary)
	if !ok {
		return nil
	}
	m.mu.Lock()
	m.levels++
	if summary.Passed() {
		m.cleared++
	}
	done := m.levels
	m.mu.Unlock()
	m.logger.Debug("progress", log.Int("levels_done", done), log.String("last", summary.Level))
	return nil
}

func (m *Monitor) OnPublish(string, bus.Event) {}

// OnDelivered tracks failures and the slowest delivery. Publishers log the
// errors themselves.
func (m *Monitor) OnDelivered(_ string, _ int, err error, durationMicros int64) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.slowestUs = max(m.slowestUs, durationMicros)
	if err != nil {
		m.failedEvent++
	}
}

// Levels reports how many levels finished and how many of them were cleared.
func (m *Monitor) Levels() (finished, cleared int) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.levels, m.cleared
}

// Reaped is the number of reaped bodies seen per tag name.
func (m *Monitor) Reaped() map[string]int {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make(map[string]int, len(m.reaped))
	for k, v := range m.reaped {
		out[k] = v
	}
	return out
}

// Close detaches the monitor from the bus, logs the run totals and returns the
// bus metrics at that point. It is safe to call more than once.
func (m *Monitor) Close() bus.EventBusMetrics {
	if m.subs == nil {
		return m.bus.GetMetrics()
	}
	for _, sub := range m.subs {
		_ = m.bus.Unsubscribe(sub)
	}
	m.subs = nil
	m.bus.RemoveObserver(m)

	metrics := m.bus.GetMetrics()
	finished, cleared := m.Levels()
	m.mu.Lock()
	slowest, failed := m.slowestUs, m.failedEvent
	m.mu.Unlock()
	m.logger.Info("run finished",
		log.Int("levels", finished),
		log.Int("cleared", cleared),
		log.Uint64("events_published", metrics.Published),
		log.Uint64("handlers_called", metrics.DeliveredHandlers),
		log.Uint64("handler_errors", metrics.Errors),
		log.Int("failed_events", failed),
		log.Int("slowest_delivery_us", int(slowest)))
	return metrics
}
