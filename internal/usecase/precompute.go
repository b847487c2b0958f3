package usecase

import (
	"context"
	"sync"
	"time"

	applogger "PriceCast/pkg/logger"
	"PriceCast/pkg/queue"
)

// PrecomputeJobType is the queue message type for cache warm-ups.
const PrecomputeJobType = "forecast.precompute"

// PrecomputePayload is the queued warm-up request.
type PrecomputePayload struct {
	Symbol      string `json:"symbol"`
	HorizonDays int    `json:"horizon_days"`
	Strategy    string `json:"strategy"`
}

// PrecomputeJob handles queued warm-up requests by running the forecast
// usecase, which memoizes on success.
type PrecomputeJob struct {
	fc  *ForecastUseCase
	log *applogger.Logger
}

var _ queue.Job = (*PrecomputeJob)(nil)

func NewPrecomputeJob(fc *ForecastUseCase, log *applogger.Logger) *PrecomputeJob {
	return &PrecomputeJob{fc: fc, log: log}
}

func (j *PrecomputeJob) Name() string { return "forecast-precompute" }

func (j *PrecomputeJob) Type() string { return PrecomputeJobType }

func (j *PrecomputeJob) Handle(ctx context.Context, payload interface{}) error {
	p, err := queue.ParsePayload[PrecomputePayload](payload)
	if err != nil {
		return err
	}
	res, cached, err := j.fc.Forecast(ctx, ForecastParams{
		Symbol:      p.Symbol,
		HorizonDays: p.HorizonDays,
		Strategy:    p.Strategy,
	})
	if err != nil {
		return err
	}
	if !res.Success {
		// A failed fit is final for this series; retrying cannot help.
		if j.log != nil {
			j.log.Warn("precompute fit failed",
				applogger.String("symbol", p.Symbol),
				applogger.String("reason", res.Error),
			)
		}
		return nil
	}
	if j.log != nil {
		j.log.Debug("precompute done",
			applogger.String("symbol", p.Symbol),
			applogger.String("strategy", res.StrategyUsed),
			applogger.Bool("was_cached", cached),
		)
	}
	return nil
}

// PrecomputeScheduler enqueues a warm-up job per configured symbol on an
// interval, so the first request after a data refresh is already memoized.
type PrecomputeScheduler struct {
	q        *queue.RedisQueue
	symbols  []string
	horizon  int
	strategy string
	interval time.Duration
	log      *applogger.Logger
	stopOnce sync.Once
	stopCh   chan struct{}
}

func NewPrecomputeScheduler(q *queue.RedisQueue, symbols []string, horizon int, strategy string, interval time.Duration, log *applogger.Logger) *PrecomputeScheduler {
	if interval <= 0 {
		interval = time.Hour
	}
	return &PrecomputeScheduler{
		q:        q,
		symbols:  symbols,
		horizon:  horizon,
		strategy: strategy,
		interval: interval,
		log:      log,
		stopCh:   make(chan struct{}),
	}
}

// Start launches the enqueue loop. The first round runs immediately.
func (s *PrecomputeScheduler) Start(ctx context.Context) {
	go func() {
		s.enqueueAll(ctx)
		ticker := time.NewTicker(s.interval)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-s.stopCh:
				return
			case <-ticker.C:
				s.enqueueAll(ctx)
			}
		}
	}()
}

func (s *PrecomputeScheduler) Stop() {
	s.stopOnce.Do(func() { close(s.stopCh) })
}

func (s *PrecomputeScheduler) enqueueAll(ctx context.Context) {
	sent := 0
	for _, sym := range s.symbols {
		payload := PrecomputePayload{Symbol: sym, HorizonDays: s.horizon, Strategy: s.strategy}
		if err := s.q.Enqueue(ctx, PrecomputeJobType, payload); err != nil {
			if s.log != nil {
				s.log.Warn("precompute enqueue failed",
					applogger.String("symbol", sym),
					applogger.Error(err),
				)
			}
			continue
		}
		sent++
	}
	if s.log != nil {
		s.log.Info("precompute round enqueued",
			applogger.Int("jobs", sent),
			applogger.Int("symbols", len(s.symbols)),
		)
	}
}
