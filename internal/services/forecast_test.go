package services

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"waste-route-service/internal/domain"
	"waste-route-service/internal/platform/apperr"
)

func day(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func TestPredictDemandWeekdayMeans(t *testing.T) {
	// 2026-03-02 is a Monday.
	history := []domain.DemandRecord{
		{Date: day(2026, 3, 2), Requests: 10},
		{Date: day(2026, 3, 9), Requests: 20},
		{Date: day(2026, 3, 3), Requests: 6},
	}

	f, err := PredictDemand(history)
	require.NoError(t, err)

	assert.Len(t, f.NextWeek, 7)
	assert.InDelta(t, 15.0, f.NextWeek[time.Monday], 1e-12)
	assert.InDelta(t, 6.0, f.NextWeek[time.Tuesday], 1e-12)
	assert.InDelta(t, 12.0, f.NextWeek[time.Sunday], 1e-12)
	assert.Equal(t, 0.85, f.ConfidenceLevel)
	assert.Equal(t, "time_series_pattern", f.ModelType)
}

func TestPredictDemandClampsNegative(t *testing.T) {
	f, err := PredictDemand([]domain.DemandRecord{{Date: day(2026, 3, 4), Requests: -3}})
	require.NoError(t, err)

	for wd, v := range f.NextWeek {
		assert.Zerof(t, v, "weekday %s", wd)
	}
}

func TestPredictDemandEmptyHistory(t *testing.T) {
	_, err := PredictDemand(nil)
	assert.True(t, apperr.Is(err, apperr.CodeInvalidInput))
}
