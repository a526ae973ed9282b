package domain

import "time"

// Number of service requests observed on one day.
type DemandRecord struct {
	Date     time.Time `json:"date"`
	Requests float64   `json:"requests"`
}

// DemandForecast predicts the request volume for each weekday of next week.
type DemandForecast struct {
	NextWeek        map[time.Weekday]float64 `json:"next_week_prediction"`
	ConfidenceLevel float64                  `json:"confidence_level"`
	ModelType       string                   `json:"model_type"`
}
