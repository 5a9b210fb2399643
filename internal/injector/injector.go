//go:build wireinject
// +build wireinject

// The build tag makes sure the stub is not built in the final build.

package injector

import (
	"github.com/google/wire"

	"github.com/zeusync/forcezone/internal/core/observability/log"
)

var ProviderSet = wire.NewSet(
	ProvideConfig,
	ProvideLogger,
	wire.Bind(new(log.Log), new(*log.Logger)),
	ProvideBusMetrics,
	ProvideEventBus,
	ProvideMetrics,
	ProvideWorld,
	ProvideZoneSystem,
	ProvideManager,
	ProvideSimulation,
	ProvideFeed,
	NewApp,
)

func InitializeApp() (*App, error) {
	wire.Build(ProviderSet)
	return nil, nil
}
