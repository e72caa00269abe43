package mnav

import (
	"fmt"

	"github.com/Lantern567/openbb-for-bmnr/internal/models"
)

// ProjectOverSeries computes the premium/discount metrics for every bar in a
// price series against a single constant per-share valuation. The reference
// represents one balance sheet snapshot projected across a price history, not
// a rolling valuation, so it is not recomputed per date. Output rows align
// one-to-one with the input series and preserve its ordering.
func (c *Calculator) ProjectOverSeries(bars []models.EODBar, referenceValue float64, selector models.PriceSelector) ([]models.HistoricalRatioPoint, error) {
	if referenceValue <= 0 {
		return nil, fmt.Errorf(
			"%w: per-share reference value must be positive, got %v", ErrInvalidValuation, referenceValue)
	}

	if selector == nil {
		selector = models.SelectClose
	}

	points := make([]models.HistoricalRatioPoint, len(bars))
	for i, bar := range bars {
		price := selector(bar)
		pct := ((price - referenceValue) / referenceValue) * 100

		points[i] = models.HistoricalRatioPoint{
			Date:           bar.Date,
			Price:          price,
			ReferenceValue: referenceValue,
			Ratio:          price / referenceValue,
			Pct:            pct,
			Delta:          price - referenceValue,
			Status:         c.classify(pct),
		}
	}

	return points, nil
}

// CompareScenarios evaluates a price against several candidate per-share
// valuations, one row per scenario in input order. Each row is an independent
// premium/discount calculation; scenarios do not interact.
func (c *Calculator) CompareScenarios(currentPrice float64, scenarios []models.Scenario) ([]models.ScenarioRow, error) {
	rows := make([]models.ScenarioRow, 0, len(scenarios))

	for _, s := range scenarios {
		result, err := c.PremiumDiscount(currentPrice, s.Value)
		if err != nil {
			return nil, fmt.Errorf("scenario %q: %w", s.Label, err)
		}
		rows = append(rows, models.ScenarioRow{
			Scenario: s.Label,
			Value:    s.Value,
			Result:   result,
		})
	}

	return rows, nil
}
