//go:build wireinject
// +build wireinject

package di

import (
	"PriceCast/pkg/config"
	"PriceCast/pkg/server"

	"github.com/google/wire"
)

// InitializeApp wires up all dependencies and returns the application.
// Wire will generate the implementation of this function.
func InitializeApp(cfg *config.Config) (*server.App, error) {
	wire.Build(
		// Logging and metrics
		ProvideLogger,
		ProvideMetrics,

		// Infrastructure clients
		ProvideClickHouseClient,
		ProvideKafkaProducer,
		ProvideKafkaConsumer,

		// Repositories (with business logic)
		ProvideQuoteStorage,
		ProvideQuotePublisher,
		ProvideFinnhubStream,
		ProvideBarStore,
		ProvideHistoryAPI,
		ProvideForecastSink,
		ProvideLogPublisher,

		// Domain services
		ProvideForecaster,
		ProvideAnalyzer,
		ProvideForecastCache,

		// Use cases
		ProvideQuoteProcessor,
		ProvideQuoteCollector,
		ProvideKafkaQuotesHandler,
		ProvideForecastUseCase,
		ProvideBatchForecastUseCase,
		ProvideHistoryUseCase,
		ProvidePrecomputeQueue,
		ProvidePrecomputeScheduler,

		// HTTP surface
		ProvideHTTPHandler,

		// Application server
		ProvideApp,
	)
	return &server.App{}, nil
}
