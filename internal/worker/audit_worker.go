package worker

import (
	"context"
	"encoding/json"

	"go.uber.org/zap"

	"github.com/spec-kit/product-service/internal/config"
	"github.com/spec-kit/product-service/internal/events"
	"github.com/spec-kit/product-service/internal/persistence"
)

// StartAuditWorker subscribes to every audit event and appends each record
// to a capped Redis list. When Redis is not configured the trail is kept in
// the logs only.
func StartAuditWorker(dispatcher events.Dispatcher, redis *persistence.Redis, cfg config.AuditConfig, logger *zap.Logger) {
	if dispatcher == nil {
		return
	}

	handler := func(ctx context.Context, event events.Event) error {
		logger.Info("audit event",
			zap.String("type", string(event.Type)),
			zap.String("actor", event.Actor),
		)

		if redis == nil || redis.Client == nil {
			return nil
		}
		raw, err := json.Marshal(event)
		if err != nil {
			return err
		}
		pipe := redis.Client.TxPipeline()
		pipe.LPush(ctx, cfg.RedisKey, raw)
		pipe.LTrim(ctx, cfg.RedisKey, 0, cfg.MaxEntries-1)
		if _, err := pipe.Exec(ctx); err != nil {
			logger.Warn("audit trail write failed", zap.Error(err))
		}
		return nil
	}

	for _, eventType := range events.All() {
		dispatcher.Subscribe(eventType, handler)
	}
}
