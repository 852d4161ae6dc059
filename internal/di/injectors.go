//go:build wireinject
// +build wireinject

package di

import (
	wire "github.com/google/wire"

	"consentd/internal"
	"consentd/internal/controllers"
	"consentd/internal/providers"
	"consentd/internal/services"
	"consentd/internal/storage"
	"consentd/internal/structures"
)

func InitApp(cfg *structures.CliFlags) (*internal.App, error) {

	wire.Build(
		providers.NewConfigProvider,
		providers.NewLogProvider,
		providers.NewMetricsProvider,
		providers.NewInstrumentedCacheProvider,

		storage.NewZstdCompressor,
		storage.NewFileStore,
		storage.NewArchiver,
		storage.NewScheduler,
		wire.Bind(new(providers.RecordCounter), new(storage.StoreInterface)),

		services.NewResponseService,
		services.NewExportService,
		controllers.NewApiController,
		controllers.NewHealthController,
		internal.InitRoutes,
		internal.NewApp,
	)

	return nil, nil
}
