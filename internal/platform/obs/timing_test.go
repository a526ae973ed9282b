package obs

import (
	"bytes"
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"

	"waste-route-service/internal/platform/logger"
)

func TestTimeLogsFailures(t *testing.T) {
	var buf bytes.Buffer
	logger.InitWithWriter(logger.Config{Level: "debug"}, &buf)
	t.Cleanup(func() { logger.Init(logger.DefaultConfig()) })

	ctx := context.WithValue(context.Background(), logger.RequestIDKey, "r-1")
	err := errors.New("db down")
	Time(ctx, "plans.save")(&err)

	out := buf.String()
	assert.Contains(t, out, `"op":"plans.save"`)
	assert.Contains(t, out, `"req_id":"r-1"`)
	assert.Contains(t, out, "db down")
}

func TestTimeWithoutError(t *testing.T) {
	var buf bytes.Buffer
	logger.InitWithWriter(logger.Config{Level: "debug"}, &buf)
	t.Cleanup(func() { logger.Init(logger.DefaultConfig()) })

	var err error
	Time(context.Background(), "cluster")(&err)
	assert.Contains(t, buf.String(), "operation finished")
}
