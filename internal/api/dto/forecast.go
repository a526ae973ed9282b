package dto

import (
	"time"

	"waste-route-service/internal/domain"
)

// ForecastRequest is the POST /forecast body. Without history, the last Days
// of stored history are used.
type ForecastRequest struct {
	History []DemandRecordDTO `json:"history"`
	Days    int               `json:"days"`
}

type DemandRecordDTO struct {
	Date     string  `json:"date"` // YYYY-MM-DD
	Requests float64 `json:"requests"`
}

type ForecastResponse struct {
	NextWeekPrediction map[string]float64 `json:"next_week_prediction"`
	ConfidenceLevel    float64            `json:"confidence_level"`
	ModelType          string             `json:"model_type"`
}

// Records converts the body's records, reporting the index of the first bad date.
func (f ForecastRequest) Records() ([]domain.DemandRecord, int, error) {
	if f.History == nil {
		return nil, -1, nil
	}

	out := make([]domain.DemandRecord, 0, len(f.History))
	for i, h := range f.History {
		d, err := time.Parse(time.DateOnly, h.Date)
		if err != nil {
			return nil, i, err
		}
		out = append(out, domain.DemandRecord{Date: d, Requests: h.Requests})
	}
	return out, -1, nil
}

func FromForecast(f domain.DemandForecast) ForecastResponse {
	next := make(map[string]float64, len(f.NextWeek))
	for wd, v := range f.NextWeek {
		next[wd.String()] = v
	}
	return ForecastResponse{
		NextWeekPrediction: next,
		ConfidenceLevel:    f.ConfidenceLevel,
		ModelType:          f.ModelType,
	}
}
