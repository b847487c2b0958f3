package models

import "time"

// Quote is a live trade print from the market data stream.
type Quote struct {
	Symbol    string
	Timestamp int64 // epoch seconds
	Price     float64
	Volume    float64
}

// DailyBar is one stored end-of-day OHLCV record.
type DailyBar struct {
	Symbol string
	Date   time.Time
	Open   float64
	High   float64
	Low    float64
	Close  float64
	Volume float64
}

// SeriesStats summarizes a historical series for the history endpoint.
type SeriesStats struct {
	Symbol      string
	Points      int
	FirstDate   time.Time
	LastDate    time.Time
	LastClose   float64
	MeanClose   float64
	StdDev      float64
	MinClose    float64
	MaxClose    float64
	TotalReturn float64 // (last/first - 1)
}
