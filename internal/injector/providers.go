// Package injector wires the runner from a configuration file.
package injector

import (
	"github.com/google/wire"

	"github.com/zeusync/rigid2d/internal/config"
	"github.com/zeusync/rigid2d/internal/core/events/bus"
	"github.com/zeusync/rigid2d/internal/core/observability/log"
	"github.com/zeusync/rigid2d/internal/simulation"
)

// ConfigPath is the optional user configuration file. Empty means defaults.
type ConfigPath string

var ProviderSet = wire.NewSet(
	ProvideConfig,
	ProvideLogger,
	ProvideBus,
	simulation.NewRunner,
)

func ProvideConfig(path ConfigPath) (*config.Config, error) {
	if path == "" {
		return config.Default()
	}
	return config.Load(string(path))
}

// ProvideLogger builds the logger at the configured level. The cleanup flushes
// buffered entries.
func ProvideLogger(cfg *config.Config) (log.Log, func(), error) {
	level, err := log.ParseLevel(cfg.Log.Level)
	if err != nil {
		return nil, nil, err
	}
	logger := log.New(level)
	return logger, func() { _ = logger.Sync() }, nil
}

func ProvideBus() bus.EventBus {
	return bus.New()
}
