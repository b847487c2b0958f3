package usecase

import (
	"context"
	"crypto/sha256"
	"encoding/binary"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"math"
	"time"

	"PriceCast/internal/domain/models"
	domrepo "PriceCast/internal/domain/repository"
	domsvc "PriceCast/internal/domain/service"
	svccache "PriceCast/internal/service/cache"
	svcmetrics "PriceCast/internal/service/metrics"
	"PriceCast/internal/services/forecast"
	applogger "PriceCast/pkg/logger"
	"PriceCast/pkg/util"
)

// ForecastSettings are the tunables the DI layer lifts out of config.
type ForecastSettings struct {
	HistoryDays     int
	CacheTTL        time.Duration
	DefaultHorizon  int
	MaxHorizon      int
	DefaultStrategy models.Strategy
}

// ForecastUseCase orchestrates one forecast: load history (local store with
// remote fallback), memoize by series content, run the engine, publish the
// result. The engine itself stays pure; everything with a side effect lives
// here.
type ForecastUseCase struct {
	bars       domrepo.BarStore
	fallback   domrepo.BarStore
	backfill   domrepo.BarWriter
	forecaster domsvc.PriceForecaster
	cache      svccache.BytesCache
	sink       domrepo.ForecastSink
	log        *applogger.Logger
	settings   ForecastSettings
}

func NewForecastUseCase(
	bars domrepo.BarStore,
	fallback domrepo.BarStore,
	backfill domrepo.BarWriter,
	forecaster domsvc.PriceForecaster,
	cache svccache.BytesCache,
	sink domrepo.ForecastSink,
	log *applogger.Logger,
	settings ForecastSettings,
) *ForecastUseCase {
	if settings.HistoryDays <= 0 {
		settings.HistoryDays = 365
	}
	if settings.DefaultHorizon <= 0 {
		settings.DefaultHorizon = 30
	}
	if settings.MaxHorizon < settings.DefaultHorizon {
		settings.MaxHorizon = settings.DefaultHorizon
	}
	if settings.CacheTTL <= 0 {
		settings.CacheTTL = 5 * time.Minute
	}
	return &ForecastUseCase{
		bars:       bars,
		fallback:   fallback,
		backfill:   backfill,
		forecaster: forecaster,
		cache:      cache,
		sink:       sink,
		log:        log,
		settings:   settings,
	}
}

type ForecastParams struct {
	Symbol      string
	HorizonDays int
	Strategy    string
}

// Forecast computes or recalls the projection for one symbol. The bool
// reports a cache hit. Errors cover request and infrastructure problems;
// model-level failures travel inside the result with Success=false.
func (uc *ForecastUseCase) Forecast(ctx context.Context, p ForecastParams) (models.ForecastResult, bool, error) {
	symbol := util.NormalizeSymbol(p.Symbol)
	if symbol == "" {
		return models.ForecastResult{}, false, fmt.Errorf("symbol required")
	}

	strategy := uc.settings.DefaultStrategy
	if p.Strategy != "" {
		var err error
		strategy, err = models.ParseStrategy(p.Strategy)
		if err != nil {
			return models.ForecastResult{}, false, err
		}
	}

	horizon := p.HorizonDays
	if horizon <= 0 {
		horizon = uc.settings.DefaultHorizon
	}
	if horizon > uc.settings.MaxHorizon {
		uc.warn("horizon capped",
			applogger.String("symbol", symbol),
			applogger.Int("requested", horizon),
			applogger.Int("max", uc.settings.MaxHorizon),
		)
		horizon = uc.settings.MaxHorizon
	}

	bars, err := uc.loadBars(ctx, symbol)
	if err != nil {
		return models.ForecastResult{}, false, err
	}
	if len(bars) == 0 {
		return models.ForecastResult{}, false, fmt.Errorf("%w for %s", models.ErrNoHistory, symbol)
	}
	series, err := models.SeriesFromBars(bars)
	if err != nil {
		return models.ForecastResult{}, false, fmt.Errorf("build series for %s: %w", symbol, err)
	}

	// A horizon longer than the observed history produces forecasts the
	// models cannot support; cap it instead of failing the request.
	if horizon > series.Len() {
		uc.warn("horizon capped to history length",
			applogger.String("symbol", symbol),
			applogger.Int("requested", horizon),
			applogger.Int("history", series.Len()),
		)
		horizon = series.Len()
	}

	key := forecastCacheKey(symbol, series, horizon, strategy)
	if res, ok := uc.recall(key); ok {
		svcmetrics.ForecastCacheHits.WithLabelValues("hit").Inc()
		return res, true, nil
	}
	svcmetrics.ForecastCacheHits.WithLabelValues("miss").Inc()

	start := time.Now()
	res := uc.forecaster.Forecast(models.ForecastRequest{
		Series:      series,
		HorizonDays: horizon,
		Strategy:    strategy,
	})
	svcmetrics.ForecastLatency.WithLabelValues(strategy.String()).Observe(time.Since(start).Seconds())

	outcome := "ok"
	if !res.Success {
		outcome = "failed"
	}
	svcmetrics.ForecastRequests.WithLabelValues(strategy.String(), outcome).Inc()
	if strategy == models.StrategyAutoRegressive && res.Success && res.StrategyUsed == forecast.NamePolynomial {
		svcmetrics.ForecastFallbacks.Inc()
	}

	if res.Success {
		uc.memoize(key, res)
		if uc.sink != nil {
			if err := uc.sink.PublishForecast(ctx, symbol, res); err != nil {
				uc.warn("forecast publish failed",
					applogger.String("symbol", symbol),
					applogger.Error(err),
				)
			}
		}
	}
	return res, false, nil
}

// loadBars reads from the local store first, then falls back to the remote
// history API and backfills what it fetched.
func (uc *ForecastUseCase) loadBars(ctx context.Context, symbol string) ([]models.DailyBar, error) {
	start := time.Now()
	bars, err := uc.bars.GetLatestNBars(ctx, symbol, uc.settings.HistoryDays)
	svcmetrics.HistoryFetchLatency.WithLabelValues("store").Observe(time.Since(start).Seconds())
	if err != nil {
		if uc.fallback == nil {
			return nil, fmt.Errorf("load bars for %s: %w", symbol, err)
		}
		uc.warn("bar store unavailable, using history api",
			applogger.String("symbol", symbol),
			applogger.Error(err),
		)
		bars = nil
	}
	if len(bars) > 0 || uc.fallback == nil {
		return bars, nil
	}

	start = time.Now()
	bars, err = uc.fallback.GetLatestNBars(ctx, symbol, uc.settings.HistoryDays)
	svcmetrics.HistoryFetchLatency.WithLabelValues("history_api").Observe(time.Since(start).Seconds())
	if err != nil {
		return nil, fmt.Errorf("fetch history for %s: %w", symbol, err)
	}
	if len(bars) > 0 && uc.backfill != nil {
		if err := uc.backfill.StoreDailyBars(ctx, bars); err != nil {
			uc.warn("bar backfill failed",
				applogger.String("symbol", symbol),
				applogger.Error(err),
			)
		}
	}
	return bars, nil
}

func (uc *ForecastUseCase) recall(key string) (models.ForecastResult, bool) {
	if uc.cache == nil {
		return models.ForecastResult{}, false
	}
	b, ok, err := uc.cache.GetBytes(key)
	if err != nil {
		uc.warn("forecast cache read failed", applogger.Error(err))
		return models.ForecastResult{}, false
	}
	if !ok {
		return models.ForecastResult{}, false
	}
	var res models.ForecastResult
	if err := json.Unmarshal(b, &res); err != nil {
		uc.warn("forecast cache entry corrupt", applogger.Error(err))
		return models.ForecastResult{}, false
	}
	return res, true
}

func (uc *ForecastUseCase) memoize(key string, res models.ForecastResult) {
	if uc.cache == nil {
		return
	}
	b, err := json.Marshal(res)
	if err != nil {
		uc.warn("forecast cache marshal failed", applogger.Error(err))
		return
	}
	if err := uc.cache.SetBytes(key, b, uc.settings.CacheTTL); err != nil {
		uc.warn("forecast cache write failed", applogger.Error(err))
	}
}

func (uc *ForecastUseCase) warn(msg string, fields ...applogger.Field) {
	if uc.log != nil {
		uc.log.Warn(msg, fields...)
	}
}

// forecastCacheKey hashes the series content along with the horizon and
// strategy, so a new bar for the symbol changes the key and the stale memo
// simply expires. No explicit invalidation needed.
func forecastCacheKey(symbol string, series models.HistoricalSeries, horizon int, strategy models.Strategy) string {
	h := sha256.New()
	h.Write([]byte(symbol))
	var buf [8]byte
	for _, c := range series.Closes() {
		binary.BigEndian.PutUint64(buf[:], math.Float64bits(c))
		h.Write(buf[:])
	}
	binary.BigEndian.PutUint64(buf[:], uint64(series.LastDate().Unix()))
	h.Write(buf[:])
	binary.BigEndian.PutUint64(buf[:], uint64(horizon))
	h.Write(buf[:])
	h.Write([]byte(strategy.String()))
	return "forecast:" + hex.EncodeToString(h.Sum(nil)[:16])
}
