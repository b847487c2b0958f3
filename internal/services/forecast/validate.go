package forecast

import (
	"fmt"

	"PriceCast/internal/domain/models"
)

// validateRequest applies the fail-fast checks shared by every strategy.
// Nothing is fitted until both pass.
func validateRequest(series models.HistoricalSeries, horizon int) error {
	if n := series.Len(); n < minDataPoints {
		return fmt.Errorf("insufficient data: need at least %d closing prices, got %d", minDataPoints, n)
	}
	if horizon <= 0 {
		return fmt.Errorf("horizon_days must be positive, got %d", horizon)
	}
	return nil
}
