package robots

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"github.com/temoto/robotstxt"
	"go.uber.org/zap"
)

var ErrDisallowed = errors.New("disallowed by robots.txt")

const fetchTimeout = 5 * time.Second

// Checker asks a site's robots.txt whether a URL may be crawled.
type Checker struct {
	client    *http.Client
	userAgent string
	logger    *zap.Logger
}

func NewChecker(client *http.Client, userAgent string, logger *zap.Logger) *Checker {
	if client == nil {
		client = &http.Client{Timeout: fetchTimeout}
	}
	return &Checker{client: client, userAgent: userAgent, logger: logger}
}

// Check returns ErrDisallowed when rawURL's path and query are excluded for the checker's
// user agent. A missing (4xx) or unreachable robots.txt allows the crawl, a 5xx
// response disallows it.
func (c *Checker) Check(ctx context.Context, rawURL string) error {
	u, err := url.Parse(rawURL)
	if err != nil {
		return fmt.Errorf("parse %s: %w", rawURL, err)
	}

	robotsURL := url.URL{Scheme: u.Scheme, Host: u.Host, Path: "/robots.txt"}
	data, err := c.fetch(ctx, robotsURL.String())
	if err != nil {
		c.logger.Warn("robots.txt unavailable, allowing crawl",
			zap.String("robotsUrl", robotsURL.String()),
			zap.Error(err))
		return nil
	}

	if !data.TestAgent(u.RequestURI(), c.userAgent) {
		return fmt.Errorf("%w: %s", ErrDisallowed, rawURL)
	}
	return nil
}

func (c *Checker) fetch(ctx context.Context, robotsURL string) (*robotstxt.RobotsData, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, robotsURL, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("User-Agent", c.userAgent)

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	return robotstxt.FromResponse(resp)
}
