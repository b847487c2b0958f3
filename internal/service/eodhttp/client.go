package eodhttp

import (
	"context"
	"fmt"
	"net/url"
	"sort"
	"strconv"
	"time"

	"PriceCast/internal/domain/models"
	drepo "PriceCast/internal/domain/repository"
	"PriceCast/pkg/config"
	xhttp "PriceCast/pkg/http"
)

// Client fetches end-of-day bars from the history REST API. It backs the
// local bar store for symbols that have no rows yet.
type Client struct {
	baseURL string
	apiKey  string
	client  *xhttp.Client
}

var _ drepo.BarStore = (*Client)(nil)

func New(cfg *config.Config) *Client {
	timeout := cfg.HistoryAPI.Timeout
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &Client{
		baseURL: cfg.HistoryAPI.BaseURL,
		apiKey:  cfg.HistoryAPI.APIKey,
		client:  xhttp.NewClient(xhttp.WithTimeout(timeout)),
	}
}

type eodBar struct {
	Date   string  `json:"date"`
	Open   float64 `json:"open"`
	High   float64 `json:"high"`
	Low    float64 `json:"low"`
	Close  float64 `json:"close"`
	Volume float64 `json:"volume"`
}

type eodResponse struct {
	Symbol string   `json:"symbol"`
	Bars   []eodBar `json:"bars"`
	Error  string   `json:"error,omitempty"`
}

// GetDailyBars fetches bars in [from, to], oldest first.
func (c *Client) GetDailyBars(ctx context.Context, symbol string, from, to time.Time) ([]models.DailyBar, error) {
	return c.fetch(ctx, symbol, map[string][]string{
		"from": {from.Format(time.DateOnly)},
		"to":   {to.Format(time.DateOnly)},
	})
}

// GetLatestNBars fetches the trailing n bars, oldest first.
func (c *Client) GetLatestNBars(ctx context.Context, symbol string, n int) ([]models.DailyBar, error) {
	bars, err := c.fetch(ctx, symbol, map[string][]string{
		"limit": {strconv.Itoa(n)},
	})
	if err != nil {
		return nil, err
	}
	if len(bars) > n {
		bars = bars[len(bars)-n:]
	}
	return bars, nil
}

func (c *Client) fetch(ctx context.Context, symbol string, params map[string][]string) ([]models.DailyBar, error) {
	if c.baseURL == "" {
		return nil, fmt.Errorf("history api not configured")
	}
	if c.apiKey != "" {
		params["api_key"] = []string{c.apiKey}
	}

	var er eodResponse
	err := c.client.SendAndParse(ctx, &xhttp.RequestOptions{
		Method:      xhttp.MethodGet,
		URL:         c.baseURL + "/v1/eod/" + url.PathEscape(symbol),
		QueryParams: params,
	}, &er)
	if err != nil {
		return nil, fmt.Errorf("fetch eod %s: %w", symbol, err)
	}
	if er.Error != "" {
		return nil, fmt.Errorf("history api: %s", er.Error)
	}

	bars := make([]models.DailyBar, 0, len(er.Bars))
	for _, b := range er.Bars {
		d, err := time.Parse(time.DateOnly, b.Date)
		if err != nil {
			// Skip malformed rows rather than failing the whole fetch.
			continue
		}
		bars = append(bars, models.DailyBar{
			Symbol: symbol,
			Date:   d,
			Open:   b.Open,
			High:   b.High,
			Low:    b.Low,
			Close:  b.Close,
			Volume: b.Volume,
		})
	}

	sort.Slice(bars, func(i, j int) bool { return bars[i].Date.Before(bars[j].Date) })
	return bars, nil
}
