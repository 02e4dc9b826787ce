// Package initiator seeds a crawl run: it picks a run id, records the root URL
// as visited and enqueues it for the crawler workers.
package initiator

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/sanity-io/litter"
	"go.uber.org/zap"

	"github.com/bobrnor/crawlinit/internal/model"
	"github.com/bobrnor/crawlinit/internal/queue"
	"github.com/bobrnor/crawlinit/internal/store"
	"github.com/bobrnor/crawlinit/internal/urlnorm"
)

// ErrAlreadySeeded means the root record for the new run id already existed.
var ErrAlreadySeeded = errors.New("root url already seeded for run")

type Request struct {
	RootURL string `json:"rootUrl"`
}

type Response struct {
	Status    string `json:"status"`
	RunID     string `json:"runId"`
	RootURL   string `json:"rootUrl"`
	MessageID string `json:"messageId"`
}

// RobotsChecker is satisfied by *robots.Checker.
type RobotsChecker interface {
	Check(ctx context.Context, rawURL string) error
}

type Initiator struct {
	store  store.Store
	queue  queue.Publisher
	robots RobotsChecker
	newID  func() string
	now    func() time.Time
	logger *zap.Logger
}

type Option func(*Initiator)

// WithRobots enables the robots.txt pre-flight.
func WithRobots(c RobotsChecker) Option {
	return func(i *Initiator) { i.robots = c }
}

func WithClock(now func() time.Time) Option {
	return func(i *Initiator) { i.now = now }
}

func New(s store.Store, q queue.Publisher, newID func() string, logger *zap.Logger, opts ...Option) *Initiator {
	i := &Initiator{
		store:  s,
		queue:  q,
		newID:  newID,
		now:    time.Now,
		logger: logger,
	}
	for _, opt := range opts {
		opt(i)
	}
	return i
}

// Initiate starts a new crawl run for req.RootURL.
func (i *Initiator) Initiate(ctx context.Context, req Request) (Response, error) {
	rootURL, err := urlnorm.ValidateRoot(req.RootURL)
	if err != nil {
		return Response{}, err
	}

	runID := i.newID()
	logger := i.logger.With(zap.String("runId", runID), zap.String("rootUrl", rootURL))
	logger.Info("Initiating crawl")

	if i.robots != nil {
		// robots.txt rules are case-sensitive, so check the URL as given.
		if err := i.robots.Check(ctx, strings.TrimSpace(req.RootURL)); err != nil {
			return Response{}, fmt.Errorf("robots check: %w", err)
		}
	}

	urlToVisit := model.NewRoot(rootURL, runID, i.now())

	created, err := i.store.MarkVisited(ctx, urlToVisit)
	if err != nil {
		return Response{}, fmt.Errorf("mark visited: %w", err)
	}
	if !created {
		return Response{}, fmt.Errorf("%w: %s", ErrAlreadySeeded, runID)
	}

	msg := urlToVisit.Message(model.RootDepth)
	logger.Info("Enqueueing", zap.String("message", litter.Sdump(msg)))

	messageID, err := i.queue.Publish(ctx, msg)
	if err != nil {
		return Response{}, fmt.Errorf("enqueue: %w", err)
	}

	return Response{
		Status:    "OK",
		RunID:     runID,
		RootURL:   rootURL,
		MessageID: messageID,
	}, nil
}

// Handle is the lambda entry point.
func (i *Initiator) Handle(ctx context.Context, event Request) (Response, error) {
	resp, err := i.Initiate(ctx, event)
	if err != nil {
		i.logger.Error("crawl initiation failed",
			zap.String("rootUrl", event.RootURL),
			zap.Error(err))
		return Response{}, err
	}
	return resp, nil
}
