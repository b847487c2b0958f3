package forecast

import (
	"PriceCast/internal/domain/models"
	domsvc "PriceCast/internal/domain/service"
	"PriceCast/pkg/logger"
)

// failureMessage is the user-safe text for recovered internal errors. It
// carries no detail about what went wrong inside the numerics.
const failureMessage = "forecast computation failed unexpectedly"

// Engine assembles a full forecast from a request: validation, model fit,
// confidence band, business-day labels. It upholds the PriceForecaster
// contract by converting any panic below it into a Success=false result;
// results are all-or-nothing.
type Engine struct {
	log *logger.Logger
}

var _ domsvc.PriceForecaster = (*Engine)(nil)

// NewEngine creates the forecasting engine. The logger may be nil, in which
// case degradation events go unlogged.
func NewEngine(log *logger.Logger) *Engine {
	return &Engine{log: log}
}

func (e *Engine) Forecast(req models.ForecastRequest) (res models.ForecastResult) {
	defer func() {
		if r := recover(); r != nil {
			e.warn("forecast panic recovered", logger.Any("cause", r))
			res = models.FailedForecast(failureMessage)
		}
	}()

	if err := validateRequest(req.Series, req.HorizonDays); err != nil {
		return models.FailedForecast(err.Error())
	}

	fit, err := e.fit(req.Series.Closes(), req.HorizonDays, req.Strategy)
	if err != nil {
		e.warn("forecast fit failed", logger.String("strategy", req.Strategy.String()), logger.Error(err))
		return models.FailedForecast(failureMessage)
	}

	lower, upper := predictionBand(fit.mean, fit.sigma, fit.grow)

	return models.ForecastResult{
		Success:           true,
		StrategyUsed:      fit.name,
		ForecastDates:     nextBusinessDays(req.Series.LastDate(), req.HorizonDays),
		ForecastMean:      fit.mean,
		LowerBound:        lower,
		UpperBound:        upper,
		LastObservedPrice: req.Series.LastClose(),
	}
}

// fit dispatches on the closed strategy set. The autoregressive path owns
// the degradation rule: any numerical failure silently retries with the
// quadratic trend, and the result reports the model that actually ran.
func (e *Engine) fit(closes []float64, horizon int, strategy models.Strategy) (fitResult, error) {
	switch strategy {
	case models.StrategyAutoRegressive:
		fit, err := fitAutoRegressive(closes, horizon)
		if err == nil {
			return fit, nil
		}
		e.warn("autoregressive fit degraded to polynomial trend", logger.Error(err))
		return fitPolynomial(closes, horizon)
	case models.StrategyExpSmoothing:
		return fitExpSmoothing(closes, horizon)
	default:
		return fitLinear(closes, horizon)
	}
}

func (e *Engine) warn(msg string, fields ...logger.Field) {
	if e.log != nil {
		e.log.Warn(msg, fields...)
	}
}
