package models

import (
	"fmt"
	"sort"
	"time"
)

// PricePoint is one daily close observation.
type PricePoint struct {
	Date  time.Time
	Close float64
}

// HistoricalSeries is an immutable run of daily closes, oldest first.
// Accessors hand out copies so callers can never mutate the underlying data.
type HistoricalSeries struct {
	points []PricePoint
}

// NewHistoricalSeries builds a series from points given in any order. It
// keeps a private sorted copy and rejects empty input and duplicate dates.
func NewHistoricalSeries(points []PricePoint) (HistoricalSeries, error) {
	if len(points) == 0 {
		return HistoricalSeries{}, fmt.Errorf("historical series requires at least one price point")
	}

	cp := make([]PricePoint, len(points))
	copy(cp, points)
	sort.Slice(cp, func(i, j int) bool { return cp[i].Date.Before(cp[j].Date) })

	for i := 1; i < len(cp); i++ {
		if !cp[i].Date.After(cp[i-1].Date) {
			return HistoricalSeries{}, fmt.Errorf("duplicate date in series: %s", cp[i].Date.Format("2006-01-02"))
		}
	}

	return HistoricalSeries{points: cp}, nil
}

// SeriesFromBars converts stored daily bars into a series of closes.
func SeriesFromBars(bars []DailyBar) (HistoricalSeries, error) {
	points := make([]PricePoint, len(bars))
	for i, b := range bars {
		points[i] = PricePoint{Date: b.Date, Close: b.Close}
	}
	return NewHistoricalSeries(points)
}

func (s HistoricalSeries) Len() int { return len(s.points) }

// At returns the i-th observation, oldest first.
func (s HistoricalSeries) At(i int) PricePoint { return s.points[i] }

// Closes returns a copy of the close prices, oldest first.
func (s HistoricalSeries) Closes() []float64 {
	out := make([]float64, len(s.points))
	for i, p := range s.points {
		out[i] = p.Close
	}
	return out
}

// Dates returns a copy of the observation dates, oldest first.
func (s HistoricalSeries) Dates() []time.Time {
	out := make([]time.Time, len(s.points))
	for i, p := range s.points {
		out[i] = p.Date
	}
	return out
}

// LastDate returns the most recent observation date.
func (s HistoricalSeries) LastDate() time.Time { return s.points[len(s.points)-1].Date }

// LastClose returns the most recent close price.
func (s HistoricalSeries) LastClose() float64 { return s.points[len(s.points)-1].Close }
