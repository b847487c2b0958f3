package di

import (
	"context"
	"fmt"
	"time"

	"PriceCast/internal/domain/models"
	"PriceCast/internal/domain/repository"
	domsvc "PriceCast/internal/domain/service"
	"PriceCast/internal/handler/api"
	mid "PriceCast/internal/middleware"
	internalrepo "PriceCast/internal/repository"
	icache "PriceCast/internal/service/cache"
	"PriceCast/internal/service/eodhttp"
	"PriceCast/internal/service/finnhub"
	"PriceCast/internal/services/forecast"
	"PriceCast/internal/services/stats"
	"PriceCast/internal/usecase"
	pkgch "PriceCast/pkg/clickhouse"
	"PriceCast/pkg/config"
	xhttp "PriceCast/pkg/http"
	pkgkafka "PriceCast/pkg/kafka"
	applogger "PriceCast/pkg/logger"
	"PriceCast/pkg/metrics"
	"PriceCast/pkg/queue"
	"PriceCast/pkg/server"

	"github.com/redis/go-redis/v9"
)

// ProvideLogger creates the shared application logger.
func ProvideLogger(cfg *config.Config) (*applogger.Logger, error) {
	level := "info"
	if cfg.Environment == "development" {
		level = "debug"
	}
	return applogger.New(&applogger.Config{Level: level, Format: "console", Output: "stdout"})
}

// ProvideClickHouseClient creates a ClickHouse client.
func ProvideClickHouseClient(cfg *config.Config) (*pkgch.Client, error) {
	client, err := pkgch.NewClient(
		pkgch.WithHost(cfg.ClickHouse.Host),
		pkgch.WithPort(cfg.ClickHouse.Port),
		pkgch.WithDatabase(cfg.ClickHouse.Database),
		pkgch.WithCredentials(cfg.ClickHouse.User, cfg.ClickHouse.Password),
		pkgch.WithMaxConnections(10, 5),
		pkgch.WithHTTP(cfg.ClickHouse.UseHTTP),
		pkgch.WithAsyncInsert(cfg.ClickHouse.AsyncInsert, cfg.ClickHouse.WaitForAsync),
		pkgch.WithTimeouts(cfg.ClickHouse.DialTimeout, cfg.ClickHouse.ReadTimeout, cfg.ClickHouse.WriteTimeout),
		pkgch.WithMaxExecutionTime(cfg.ClickHouse.MaxExecutionTime),
	)
	if err != nil {
		return nil, fmt.Errorf("clickhouse client: %w", err)
	}

	// Initialize schema
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := client.InitSchema(ctx, []string{
		"CREATE DATABASE IF NOT EXISTS pricecast",
		"CREATE TABLE IF NOT EXISTS pricecast.quotes_raw (ts DateTime, symbol String, price Float64, volume Float64, source String, event_id String, seq UInt64) ENGINE=MergeTree ORDER BY (symbol, ts)",
		"CREATE TABLE IF NOT EXISTS pricecast.daily_bars (day Date, symbol String, open Float64, high Float64, low Float64, close Float64, vol Float64) ENGINE=ReplacingMergeTree ORDER BY (symbol, day)",
	}); err != nil {
		_ = client.Close() // cannot log here (DI layer no logger); propagate error
		return nil, fmt.Errorf("clickhouse schema: %w", err)
	}

	return client, nil
}

// ProvideKafkaProducer creates a Kafka producer.
func ProvideKafkaProducer(cfg *config.Config) (*pkgkafka.Producer, error) {
	producer, err := pkgkafka.NewProducer(
		pkgkafka.WithBrokers(cfg.Kafka.Brokers),
		pkgkafka.WithCompression(cfg.Kafka.Compression),
		pkgkafka.WithRequiredAcks(cfg.Kafka.RequiredAcks),
		pkgkafka.WithBatchSize(cfg.Kafka.Producer.BatchSize),
		pkgkafka.WithBatchBytes(cfg.Kafka.Producer.BatchBytes),
		pkgkafka.WithBatchTimeout(cfg.Kafka.Producer.Linger),
		pkgkafka.WithTimeouts(cfg.Kafka.Producer.WriteTimeout, cfg.Kafka.Producer.ReadTimeout),
		pkgkafka.WithMaxAttempts(cfg.Kafka.Producer.MaxAttempts),
		pkgkafka.WithAsync(cfg.Kafka.Producer.Async),
		pkgkafka.WithHashByKey(true),
	)
	if err != nil {
		return nil, fmt.Errorf("kafka producer: %w", err)
	}

	return producer, nil
}

// ProvideMetrics creates a Prometheus metrics recorder.
func ProvideMetrics() repository.Metrics {
	return metrics.New()
}

// ProvideQuoteStorage creates ClickHouse storage repository.
func ProvideQuoteStorage(chClient *pkgch.Client, cfg *config.Config) repository.Storage {
	return internalrepo.NewClickHouseStorage(chClient.DB(), cfg.ClickHouse.Database+".quotes_raw")
}

// ProvideQuotePublisher creates Kafka publisher repository.
func ProvideQuotePublisher(producer *pkgkafka.Producer, cfg *config.Config) repository.Publisher {
	return internalrepo.NewKafkaPublisher(producer, cfg.Kafka.QuotesTopic)
}

// ProvideKafkaConsumer creates a Kafka consumer configured from YAML.
func ProvideKafkaConsumer(cfg *config.Config) (*pkgkafka.Consumer, error) {
	consumer, err := pkgkafka.NewConsumer(
		pkgkafka.WithConsumerBrokers(cfg.Kafka.Brokers),
		pkgkafka.WithConsumerGroupID(cfg.Kafka.Consumer.GroupID),
		pkgkafka.WithConsumerWorkers(cfg.Kafka.Consumer.Workers),
		pkgkafka.WithConsumerBufferSize(cfg.Kafka.Consumer.BufferSize),
		pkgkafka.WithConsumerRetry(cfg.Kafka.Consumer.RetryMax, cfg.Kafka.Consumer.BackoffMin, cfg.Kafka.Consumer.BackoffMax),
		pkgkafka.WithConsumerDLQ(cfg.Kafka.Consumer.DLQTopic),
		pkgkafka.WithConsumerFetch(cfg.Kafka.Consumer.MinBytes, cfg.Kafka.Consumer.MaxBytes),
	)
	if err != nil {
		return nil, fmt.Errorf("kafka consumer: %w", err)
	}
	return consumer, nil
}

// ProvideKafkaQuotesHandler registers handler for the quotes topic.
func ProvideKafkaQuotesHandler(store repository.Storage, metrics repository.Metrics, cfg *config.Config) *usecase.KafkaQuotesHandler {
	return usecase.NewKafkaQuotesHandler(cfg.Kafka.QuotesTopic, store, metrics)
}

// ProvideFinnhubStream creates Finnhub WebSocket stream.
func ProvideFinnhubStream(cfg *config.Config) repository.MarketStream {
	return finnhub.New(
		cfg.Finnhub.APIKey,
		cfg.Finnhub.WebSocketURL,
		cfg.Finnhub.Symbols,
		cfg.Finnhub.ReconnectDelay,
		cfg.Finnhub.PingInterval,
	)
}

// ProvideQuoteProcessor creates the quote processor use case.
func ProvideQuoteProcessor(
	pub repository.Publisher,
	store repository.Storage,
	metrics repository.Metrics,
	cfg *config.Config,
) *usecase.QuoteProcessor {
	return usecase.NewQuoteProcessor(
		pub,
		store,
		metrics,
		cfg.Backend.Type,
		cfg.Backend.BatchSize,
		cfg.Backend.BatchTimeout,
	)
}

// ProvideQuoteCollector creates the quote collector use case.
func ProvideQuoteCollector(
	stream repository.MarketStream,
	processor *usecase.QuoteProcessor,
	metrics repository.Metrics,
) *usecase.QuoteCollector {
	// Build middleware pipeline between WebSocket and Kafka
	pipe := mid.NewQuotePipeline(processor, metrics,
		mid.WithMaxRPS(50),
		mid.WithBufferSize(2000),
	)
	return usecase.NewQuoteCollector(stream, processor, metrics, pipe)
}

// ProvideBarStore creates the ClickHouse daily-bar repository.
func ProvideBarStore(chClient *pkgch.Client, l *applogger.Logger) *internalrepo.CHBarStore {
	store := internalrepo.NewCHBarStore(chClient)
	store.SetLogger(l)
	return store
}

// ProvideHistoryAPI creates the remote daily-bar client used as fallback
// when ClickHouse has no rows for a symbol.
func ProvideHistoryAPI(cfg *config.Config) *eodhttp.Client {
	return eodhttp.New(cfg)
}

// ProvideForecaster creates the in-process forecast engine.
func ProvideForecaster(l *applogger.Logger) domsvc.PriceForecaster {
	return forecast.NewEngine(l)
}

// ProvideAnalyzer creates the series statistics service.
func ProvideAnalyzer() domsvc.SeriesAnalyzer {
	return stats.NewAnalyzer()
}

// ProvideForecastCache builds the forecast memoization cache: an in-process
// TTL map, layered over Redis when enabled.
func ProvideForecastCache(cfg *config.Config) icache.BytesCache {
	local := icache.NewTTLCache()
	if !cfg.Redis.Enabled {
		return local
	}
	shared := icache.NewRedisCache(icache.RedisConfig{
		Addr:     cfg.Redis.Addr,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})
	return icache.NewLayered(local, shared, time.Minute)
}

// ProvideForecastSink creates the Kafka sink for published forecasts.
// Returns nil when no forecasts topic is configured; publishing is skipped.
func ProvideForecastSink(producer *pkgkafka.Producer, cfg *config.Config) repository.ForecastSink {
	if cfg.Kafka.ForecastsTopic == "" {
		return nil
	}
	return internalrepo.NewKafkaForecastSink(producer, cfg.Kafka.ForecastsTopic)
}

// ProvideLogPublisher creates the sink for aggregated log batches.
func ProvideLogPublisher(producer *pkgkafka.Producer) applogger.Publisher {
	return internalrepo.NewKafkaLogPublisher(producer)
}

// ProvideForecastUseCase creates the forecast orchestrator.
func ProvideForecastUseCase(
	bars *internalrepo.CHBarStore,
	remote *eodhttp.Client,
	forecaster domsvc.PriceForecaster,
	cache icache.BytesCache,
	sink repository.ForecastSink,
	l *applogger.Logger,
	cfg *config.Config,
) *usecase.ForecastUseCase {
	strategy, err := models.ParseStrategy(cfg.Forecast.DefaultStrategy)
	if err != nil {
		strategy = models.StrategyLinear
	}
	return usecase.NewForecastUseCase(bars, remote, bars, forecaster, cache, sink, l, usecase.ForecastSettings{
		HistoryDays:     cfg.Forecast.HistoryDays,
		CacheTTL:        cfg.Forecast.CacheTTL,
		DefaultHorizon:  cfg.Forecast.DefaultHorizon,
		MaxHorizon:      cfg.Forecast.MaxHorizon,
		DefaultStrategy: strategy,
	})
}

// ProvideBatchForecastUseCase creates the fan-out forecaster.
func ProvideBatchForecastUseCase(fc *usecase.ForecastUseCase) *usecase.BatchForecastUseCase {
	return usecase.NewBatchForecastUseCase(fc)
}

// ProvideHistoryUseCase creates the history reader.
func ProvideHistoryUseCase(bars *internalrepo.CHBarStore, remote *eodhttp.Client, analyzer domsvc.SeriesAnalyzer) *usecase.HistoryUseCase {
	return usecase.NewHistoryUseCase(bars, remote, analyzer)
}

// ProvidePrecomputeQueue builds the Redis-backed precompute queue. Returns
// nil when precompute or Redis is disabled; the app skips scheduling then.
func ProvidePrecomputeQueue(cfg *config.Config, l *applogger.Logger, fc *usecase.ForecastUseCase) *queue.RedisQueue {
	if !cfg.Forecast.Precompute.Enabled || !cfg.Redis.Enabled {
		return nil
	}
	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Redis.Addr,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})
	q := queue.NewRedisQueue(l, &queue.QueueConfig{
		Workers:    cfg.Forecast.Precompute.Workers,
		QueueSize:  256,
		RetryLimit: 3,
		RetryDelay: 30 * time.Second,
	}, client, queue.ModeProducerConsumer)
	q.RegisterJob(usecase.NewPrecomputeJob(fc, l))
	return q
}

// ProvidePrecomputeScheduler creates the periodic enqueuer. Falls back to
// the streaming symbols when no precompute list is configured.
func ProvidePrecomputeScheduler(q *queue.RedisQueue, cfg *config.Config, l *applogger.Logger) *usecase.PrecomputeScheduler {
	if q == nil {
		return nil
	}
	symbols := cfg.Forecast.Precompute.Symbols
	if len(symbols) == 0 {
		symbols = cfg.Finnhub.Symbols
	}
	return usecase.NewPrecomputeScheduler(q, symbols, cfg.Forecast.DefaultHorizon, cfg.Forecast.DefaultStrategy, cfg.Forecast.Precompute.Interval, l)
}

// ProvideHTTPHandler creates the Echo handler for the forecast API.
func ProvideHTTPHandler(
	l *applogger.Logger,
	fc *usecase.ForecastUseCase,
	batch *usecase.BatchForecastUseCase,
	history *usecase.HistoryUseCase,
	chClient *pkgch.Client,
) xhttp.Handler {
	h := api.NewForecastEchoHandler(l, fc, batch, history)
	h.SetHealthCheck(chClient.Health)
	return h
}

// ProvideApp creates the application server.
func ProvideApp(
	cfg *config.Config,
	l *applogger.Logger,
	collector *usecase.QuoteCollector,
	consumer *pkgkafka.Consumer,
	kh *usecase.KafkaQuotesHandler,
	chClient *pkgch.Client,
	q *queue.RedisQueue,
	scheduler *usecase.PrecomputeScheduler,
	handler xhttp.Handler,
	logPub applogger.Publisher,
) *server.App {
	// Surface per-attempt handler failures and slow quote batches.
	if consumer != nil {
		consumer.WithConsumerHook(pkgkafka.ErrorLoggingHook{SlowThreshold: time.Second})
	}
	app := server.New(cfg, l, collector, consumer, kh, chClient)
	app.SetHTTPHandler(handler)
	app.SetPrecompute(q, scheduler)
	app.SetLogPublisher(logPub)
	// attach quote processor to app for closing resources via collector
	if collector != nil {
		app.QuoteProc = collector.Processor()
	}
	return app
}
