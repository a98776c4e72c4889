package events

import (
	"context"
	"time"

	"github.com/Skotchmaster/storefront/pkg/logging"
)

const publishTimeout = 5 * time.Second

// Publish sends event without failing the caller: the write it describes is
// already committed, so errors are only logged.
func Publish(ctx context.Context, p Publisher, key string, event map[string]any) {
	if p == nil {
		return
	}

	ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), publishTimeout)
	defer cancel()

	if err := p.PublishEvent(ctx, key, event); err != nil {
		logging.FromContext(ctx).Error("kafka_publish_error", "type", event["type"], "key", key, "error", err)
	}
}
