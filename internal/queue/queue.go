package queue

import (
	"context"

	"github.com/bobrnor/crawlinit/internal/model"
)

// Publisher puts crawl messages on the frontier queue.
type Publisher interface {
	Publish(ctx context.Context, msg model.CrawlMessage) (messageID string, err error)
}

var (
	_ Publisher = (*SQSPublisher)(nil)
	_ Publisher = (*KafkaPublisher)(nil)
)
