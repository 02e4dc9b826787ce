package model

import "time"

// NoSource is stored as the referrer of a root record.
const NoSource = "null"

// RootDepth is the depth of the root URL in a run.
const RootDepth = 1

// VisitedURL marks a URL as scheduled for a run.
type VisitedURL struct {
	URL       string    `json:"visitedURL"`
	RunID     string    `json:"runId"`
	SourceURL string    `json:"sourceURL"`
	RootURL   string    `json:"rootURL"`
	CreatedAt time.Time `json:"createdAt"`
}

// CrawlMessage is the body of a frontier queue message.
type CrawlMessage struct {
	VisitedURL string `json:"visitedURL"`
	SourceURL  string `json:"sourceURL"`
	RootURL    string `json:"rootURL"`
	RunID      string `json:"runId"`
	Depth      int    `json:"depth"`
}

// NewRoot builds the record for the root URL of a run.
func NewRoot(rootURL, runID string, now time.Time) VisitedURL {
	return VisitedURL{
		URL:       rootURL,
		RunID:     runID,
		SourceURL: NoSource,
		RootURL:   rootURL,
		CreatedAt: now.UTC(),
	}
}

// Message converts the record into the queue body the crawler reads.
func (v VisitedURL) Message(depth int) CrawlMessage {
	source := v.SourceURL
	if source == NoSource {
		source = ""
	}
	return CrawlMessage{
		VisitedURL: v.URL,
		SourceURL:  source,
		RootURL:    v.RootURL,
		RunID:      v.RunID,
		Depth:      depth,
	}
}
