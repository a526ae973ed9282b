package obs

import (
	"context"
	"time"

	"waste-route-service/internal/metrics"
	"waste-route-service/internal/platform/logger"
)

// Time starts a timer for op. Call the returned func (usually deferred) with a
// pointer to the named error result so failures are logged with the duration.
func Time(ctx context.Context, op string) func(errp *error) {
	start := time.Now()

	return func(errp *error) {
		dur := time.Since(start)
		l := logger.WithContext(ctx)

		if errp != nil && *errp != nil {
			metrics.OpDuration.WithLabelValues(op, "error").Observe(dur.Seconds())
			l.Warn().Str("op", op).Dur("dur", dur).Err(*errp).Msg("operation failed")
			return
		}
		metrics.OpDuration.WithLabelValues(op, "ok").Observe(dur.Seconds())
		l.Debug().Str("op", op).Dur("dur", dur).Msg("operation finished")
	}
}
