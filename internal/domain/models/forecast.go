package models

import (
	"fmt"
	"time"
)

// Strategy selects the forecasting model. The set is closed; unknown tokens
// are rejected when parsing requests.
type Strategy int

const (
	StrategyLinear Strategy = iota
	StrategyAutoRegressive
	StrategyExpSmoothing
)

func (s Strategy) String() string {
	switch s {
	case StrategyAutoRegressive:
		return "AUTOREGRESSIVE"
	case StrategyExpSmoothing:
		return "EXP_SMOOTHING"
	default:
		return "LINEAR"
	}
}

// ParseStrategy maps a request token to a Strategy. The empty string falls
// back to LINEAR, the documented default.
func ParseStrategy(s string) (Strategy, error) {
	switch s {
	case "", "LINEAR":
		return StrategyLinear, nil
	case "AUTOREGRESSIVE":
		return StrategyAutoRegressive, nil
	case "EXP_SMOOTHING":
		return StrategyExpSmoothing, nil
	default:
		return StrategyLinear, fmt.Errorf("%w %q", ErrUnknownStrategy, s)
	}
}

// Strategies lists the accepted request tokens.
func Strategies() []string {
	return []string{StrategyLinear.String(), StrategyAutoRegressive.String(), StrategyExpSmoothing.String()}
}

// ForecastRequest carries everything the engine needs for one projection.
type ForecastRequest struct {
	Series      HistoricalSeries
	HorizonDays int
	Strategy    Strategy
}

// ForecastResult is the engine's only output. Failures are results too:
// Success=false plus a message, never a panic or an error value crossing
// the engine boundary. On success all four slices are exactly HorizonDays
// long and LowerBound[i] <= ForecastMean[i] <= UpperBound[i] holds for
// every step. Bounds are not clipped at zero.
type ForecastResult struct {
	Success           bool
	Error             string
	StrategyUsed      string
	ForecastDates     []time.Time
	ForecastMean      []float64
	LowerBound        []float64
	UpperBound        []float64
	LastObservedPrice float64
}

// FailedForecast builds the uniform failure shape.
func FailedForecast(msg string) ForecastResult {
	return ForecastResult{Success: false, Error: msg}
}
