package services

import (
	"time"

	"gonum.org/v1/gonum/stat"

	"waste-route-service/internal/domain"
	"waste-route-service/internal/platform/apperr"
)

const (
	forecastConfidence = 0.85
	forecastModelType  = "time_series_pattern"
)

// PredictDemand forecasts next week's request volume per weekday as the mean
// of past observations on that weekday. Weekdays never observed fall back to
// the overall mean. Predictions are never negative.
func PredictDemand(history []domain.DemandRecord) (domain.DemandForecast, error) {
	if len(history) == 0 {
		return domain.DemandForecast{}, apperr.InvalidInput("history", "at least one record is required")
	}

	var byDay [7][]float64
	all := make([]float64, 0, len(history))
	for _, rec := range history {
		wd := rec.Date.Weekday()
		byDay[wd] = append(byDay[wd], rec.Requests)
		all = append(all, rec.Requests)
	}
	overall := stat.Mean(all, nil)

	next := make(map[time.Weekday]float64, 7)
	for wd := time.Sunday; wd <= time.Saturday; wd++ {
		v := overall
		if len(byDay[wd]) > 0 {
			v = stat.Mean(byDay[wd], nil)
		}
		next[wd] = max(v, 0)
	}

	return domain.DemandForecast{
		NextWeek:        next,
		ConfidenceLevel: forecastConfidence,
		ModelType:       forecastModelType,
	}, nil
}
