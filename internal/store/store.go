package store

import (
	"context"

	"github.com/bobrnor/crawlinit/internal/model"
)

// Store persists the visited set of a crawl run.
type Store interface {
	// MarkVisited writes the record unless one already exists for the same
	// url and run. created reports whether this call wrote it.
	MarkVisited(ctx context.Context, v model.VisitedURL) (created bool, err error)
	IsVisited(ctx context.Context, url, runID string) (bool, error)
}

var (
	_ Store = (*DynamoStore)(nil)
	_ Store = (*RedisStore)(nil)
)
