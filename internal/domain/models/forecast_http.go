package models

import "time"

// Requests for forecast HTTP endpoints. Defined in domain for consistency and reuse.

type ForecastHTTPRequest struct {
	Symbol      string `query:"symbol" json:"symbol" validate:"required,symbol"`
	HorizonDays int    `query:"horizon_days" json:"horizon_days" default:"30" validate:"gte=1,lte=90"`
	Strategy    string `query:"strategy" json:"strategy" default:"LINEAR" validate:"oneof=LINEAR AUTOREGRESSIVE EXP_SMOOTHING"`
}

type BatchForecastHTTPRequest struct {
	Symbols     []string `json:"symbols" validate:"required,min=1,max=25,dive,symbol"`
	HorizonDays int      `json:"horizon_days" default:"30" validate:"gte=1,lte=90"`
	Strategy    string   `json:"strategy" default:"LINEAR" validate:"oneof=LINEAR AUTOREGRESSIVE EXP_SMOOTHING"`
}

type HistoryHTTPRequest struct {
	Symbol string `param:"symbol" json:"symbol" validate:"required,symbol"`
	Days   int    `query:"days" json:"days" default:"180" validate:"gte=10,lte=3650"`
	// From/To override Days when both parse; accepted formats are
	// YYYY-MM-DD, RFC3339, and unix seconds.
	From string `query:"from" json:"from,omitempty"`
	To   string `query:"to" json:"to,omitempty"`
}

// ForecastResponse is the wire form of a ForecastResult. Dates are rendered
// as YYYY-MM-DD labels; the numerics are passed through untouched.
type ForecastResponse struct {
	Symbol            string    `json:"symbol"`
	Success           bool      `json:"success"`
	Error             string    `json:"error,omitempty"`
	StrategyUsed      string    `json:"strategy_used,omitempty"`
	ForecastDates     []string  `json:"forecast_dates,omitempty"`
	ForecastMean      []float64 `json:"forecast_mean,omitempty"`
	LowerBound        []float64 `json:"lower_bound,omitempty"`
	UpperBound        []float64 `json:"upper_bound,omitempty"`
	LastObservedPrice float64   `json:"last_observed_price"`
	Cached            bool      `json:"cached"`
}

// BatchForecastResponse maps each symbol to its forecast; symbols that
// failed before reaching the engine land in Errors instead.
type BatchForecastResponse struct {
	Timestamp string                      `json:"timestamp"`
	Results   map[string]ForecastResponse `json:"results"`
	Errors    map[string]string           `json:"errors,omitempty"`
}

// BarResponse is the wire form of one daily bar.
type BarResponse struct {
	Date   string  `json:"date"`
	Open   float64 `json:"open"`
	High   float64 `json:"high"`
	Low    float64 `json:"low"`
	Close  float64 `json:"close"`
	Volume float64 `json:"volume"`
}

// StatsResponse is the wire form of SeriesStats.
type StatsResponse struct {
	Points      int     `json:"points"`
	FirstDate   string  `json:"first_date"`
	LastDate    string  `json:"last_date"`
	LastClose   float64 `json:"last_close"`
	MeanClose   float64 `json:"mean_close"`
	StdDev      float64 `json:"std_dev"`
	MinClose    float64 `json:"min_close"`
	MaxClose    float64 `json:"max_close"`
	TotalReturn float64 `json:"total_return"`
}

// HistoryResponse is the wire form of a history lookup.
type HistoryResponse struct {
	Symbol string         `json:"symbol"`
	From   string         `json:"from"`
	To     string         `json:"to"`
	Count  int            `json:"count"`
	Bars   []BarResponse  `json:"bars"`
	Stats  *StatsResponse `json:"stats,omitempty"`
}

// NewHistoryResponse maps bars and stats onto the wire shape.
func NewHistoryResponse(symbol string, from, to time.Time, bars []DailyBar, stats SeriesStats) HistoryResponse {
	resp := HistoryResponse{
		Symbol: symbol,
		From:   from.Format(time.DateOnly),
		To:     to.Format(time.DateOnly),
		Count:  len(bars),
		Bars:   make([]BarResponse, len(bars)),
	}
	for i, b := range bars {
		resp.Bars[i] = BarResponse{
			Date:   b.Date.Format(time.DateOnly),
			Open:   b.Open,
			High:   b.High,
			Low:    b.Low,
			Close:  b.Close,
			Volume: b.Volume,
		}
	}
	if stats.Points > 0 {
		resp.Stats = &StatsResponse{
			Points:      stats.Points,
			FirstDate:   stats.FirstDate.Format(time.DateOnly),
			LastDate:    stats.LastDate.Format(time.DateOnly),
			LastClose:   stats.LastClose,
			MeanClose:   stats.MeanClose,
			StdDev:      stats.StdDev,
			MinClose:    stats.MinClose,
			MaxClose:    stats.MaxClose,
			TotalReturn: stats.TotalReturn,
		}
	}
	return resp
}

// NewForecastResponse maps an engine result onto the wire shape.
func NewForecastResponse(symbol string, r ForecastResult, cached bool) ForecastResponse {
	resp := ForecastResponse{
		Symbol:            symbol,
		Success:           r.Success,
		Error:             r.Error,
		StrategyUsed:      r.StrategyUsed,
		ForecastMean:      r.ForecastMean,
		LowerBound:        r.LowerBound,
		UpperBound:        r.UpperBound,
		LastObservedPrice: r.LastObservedPrice,
		Cached:            cached,
	}
	if len(r.ForecastDates) > 0 {
		resp.ForecastDates = make([]string, len(r.ForecastDates))
		for i, d := range r.ForecastDates {
			resp.ForecastDates[i] = d.Format(time.DateOnly)
		}
	}
	return resp
}
