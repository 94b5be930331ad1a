package worker

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/spec-kit/product-service/internal/config"
	"github.com/spec-kit/product-service/internal/events"
)

func TestAuditWorkerWithoutRedisLogsOnly(t *testing.T) {
	dispatcher := events.NewInMemoryDispatcher()
	StartAuditWorker(dispatcher, nil, config.AuditConfig{RedisKey: "audit:events", MaxEntries: 10}, zap.NewNop())

	for _, eventType := range events.All() {
		err := dispatcher.Publish(context.Background(), events.Event{
			ID:        "e1",
			Type:      eventType,
			Actor:     "admin",
			Timestamp: time.Now(),
		})
		require.NoError(t, err)
	}
}

func TestAuditWorkerNilDispatcher(t *testing.T) {
	StartAuditWorker(nil, nil, config.AuditConfig{}, zap.NewNop())
}
