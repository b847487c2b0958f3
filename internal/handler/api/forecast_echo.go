package api

import (
	"context"
	"errors"
	"net/http"
	"time"

	models "PriceCast/internal/domain/models"
	"PriceCast/internal/service/metrics"
	"PriceCast/internal/service/ratelimit"
	"PriceCast/internal/usecase"
	xhttp "PriceCast/pkg/http"
	xlogger "PriceCast/pkg/logger"
	"PriceCast/pkg/util"

	"github.com/labstack/echo/v4"
)

// ForecastEchoHandler implements the Echo-based HTTP API for forecasts.
type ForecastEchoHandler struct {
	logger  *xlogger.Logger
	fc      *usecase.ForecastUseCase
	batch   *usecase.BatchForecastUseCase
	history *usecase.HistoryUseCase
	rl      *ratelimit.Limiter
	health  func(ctx context.Context) error
}

func NewForecastEchoHandler(logger *xlogger.Logger, fc *usecase.ForecastUseCase, batch *usecase.BatchForecastUseCase, history *usecase.HistoryUseCase) *ForecastEchoHandler {
	metrics.Register()
	return &ForecastEchoHandler{logger: logger, fc: fc, batch: batch, history: history, rl: ratelimit.New()}
}

// SetHealthCheck injects the infrastructure probe behind /healthz.
func (h *ForecastEchoHandler) SetHealthCheck(fn func(ctx context.Context) error) { h.health = fn }

func (h *ForecastEchoHandler) RegisterRoutes(e *echo.Echo) {
	g := e.Group("/api/v1")
	g.GET("/forecast", h.Forecast)
	g.POST("/forecast/batch", h.BatchForecast)
	g.GET("/history/:symbol", h.History)
	g.GET("/strategies", h.Strategies)
	e.GET("/healthz", h.Healthz)
}

func (h *ForecastEchoHandler) Forecast(c echo.Context) error {
	req := &models.ForecastHTTPRequest{}
	if verr := xhttp.ReadAndValidateRequest(c, req); verr != nil {
		return xhttp.BadRequestResponse(c, verr)
	}
	if !h.rl.Allow(c.RealIP()+":forecast", 10, 5) {
		h.logger.Warn("forecast rate_limited", xlogger.String("remote", c.RealIP()))
		return xhttp.AppErrorResponse(c, xhttp.TooManyRequestsError("rate limited"))
	}

	res, cached, err := h.fc.Forecast(c.Request().Context(), usecase.ForecastParams{
		Symbol:      req.Symbol,
		HorizonDays: req.HorizonDays,
		Strategy:    req.Strategy,
	})
	if err != nil {
		return h.usecaseError(c, "forecast", err)
	}
	if cached {
		c.Response().Header().Set(echo.HeaderCacheControl, "private, max-age=60")
	}
	return xhttp.SuccessResponse(c, models.NewForecastResponse(util.NormalizeSymbol(req.Symbol), res, cached))
}

func (h *ForecastEchoHandler) BatchForecast(c echo.Context) error {
	req := &models.BatchForecastHTTPRequest{}
	if verr := xhttp.ReadAndValidateRequest(c, req); verr != nil {
		return xhttp.BadRequestResponse(c, verr)
	}
	if !h.rl.Allow(c.RealIP()+":batch", 3, 1) {
		h.logger.Warn("batch forecast rate_limited", xlogger.String("remote", c.RealIP()))
		return xhttp.AppErrorResponse(c, xhttp.TooManyRequestsError("rate limited"))
	}

	out, err := h.batch.Forecast(c.Request().Context(), usecase.BatchForecastParams{
		Symbols:     req.Symbols,
		HorizonDays: req.HorizonDays,
		Strategy:    req.Strategy,
	})
	if err != nil {
		return h.usecaseError(c, "batch forecast", err)
	}

	resp := models.BatchForecastResponse{
		Timestamp: out.Timestamp.UTC().Format(time.RFC3339),
		Results:   make(map[string]models.ForecastResponse, len(out.Results)),
		Errors:    out.Errors,
	}
	for sym, res := range out.Results {
		resp.Results[sym] = models.NewForecastResponse(sym, res, false)
	}
	return xhttp.SuccessResponse(c, resp)
}

func (h *ForecastEchoHandler) History(c echo.Context) error {
	req := &models.HistoryHTTPRequest{}
	if verr := xhttp.ReadAndValidateRequest(c, req); verr != nil {
		return xhttp.BadRequestResponse(c, verr)
	}
	if !h.rl.Allow(c.RealIP()+":history", 10, 5) {
		h.logger.Warn("history rate_limited", xlogger.String("remote", c.RealIP()))
		return xhttp.AppErrorResponse(c, xhttp.TooManyRequestsError("rate limited"))
	}

	res, err := h.history.GetHistory(c.Request().Context(), usecase.GetHistoryParams{
		Symbol: req.Symbol,
		Days:   req.Days,
		From:   xhttp.ParseTimeDefault(req.From, time.Time{}),
		To:     xhttp.ParseTimeDefault(req.To, time.Time{}),
	})
	if err != nil {
		return h.usecaseError(c, "history", err)
	}
	c.Response().Header().Set(echo.HeaderCacheControl, "private, max-age=300")
	return xhttp.SuccessResponse(c, models.NewHistoryResponse(res.Symbol, res.From, res.To, res.Bars, res.Stats))
}

func (h *ForecastEchoHandler) Strategies(c echo.Context) error {
	return xhttp.SuccessResponse(c, echo.Map{
		"strategies": models.Strategies(),
		"default":    models.StrategyLinear.String(),
	})
}

func (h *ForecastEchoHandler) Healthz(c echo.Context) error {
	if h.health != nil {
		ctx, cancel := context.WithTimeout(c.Request().Context(), 2*time.Second)
		defer cancel()
		if err := h.health(ctx); err != nil {
			return xhttp.DataResponse(c, http.StatusServiceUnavailable, echo.Map{"status": "degraded", "error": err.Error()})
		}
	}
	return xhttp.SuccessResponse(c, echo.Map{"status": "ok"})
}

// usecaseError maps domain sentinels onto HTTP statuses; anything
// unrecognized becomes a 500.
func (h *ForecastEchoHandler) usecaseError(c echo.Context, op string, err error) error {
	switch {
	case errors.Is(err, models.ErrNoHistory):
		return xhttp.AppErrorResponse(c, xhttp.NotFoundError(err.Error()))
	case errors.Is(err, models.ErrUnknownStrategy):
		return xhttp.AppErrorResponse(c, xhttp.BadRequestError(err.Error()))
	default:
		h.logger.Error(op+" usecase error", xlogger.Error(err))
		return xhttp.AppErrorResponse(c, err)
	}
}
