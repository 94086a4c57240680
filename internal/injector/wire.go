//go:build wireinject
// +build wireinject

// The build tag makes sure the stub is not built in the final build.

package injector

import (
	"github.com/google/wire"

	"github.com/zeusync/rigid2d/internal/simulation"
)

func InitializeRunner(path ConfigPath) (*simulation.Runner, func(), error) {
	wire.Build(ProviderSet)
	return nil, nil, nil
}
