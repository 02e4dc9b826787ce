// Package runid generates crawl run identifiers of the form "<timestamp>#<uuid>".
package runid

import (
	"fmt"
	"strings"
	"time"

	uuid "github.com/satori/go.uuid"
)

const (
	Delim  = "#"
	Layout = "2006-01-02 15:04:05.000000"
)

// Generator builds run ids from a clock.
type Generator struct {
	Now func() time.Time
}

// Generate returns a new run id stamped with the current local time.
func (g Generator) Generate() string {
	now := time.Now
	if g.Now != nil {
		now = g.Now
	}
	return now().Format(Layout) + Delim + uuid.NewV4().String()
}

// Generate uses the wall clock.
func Generate() string {
	return Generator{}.Generate()
}

// Parse splits a run id into its timestamp and uuid.
func Parse(id string) (time.Time, uuid.UUID, error) {
	i := strings.LastIndex(id, Delim)
	if i < 0 {
		return time.Time{}, uuid.Nil, fmt.Errorf("run id %q: missing %q delimiter", id, Delim)
	}

	ts, err := time.ParseInLocation(Layout, id[:i], time.Local)
	if err != nil {
		return time.Time{}, uuid.Nil, fmt.Errorf("run id %q: bad timestamp: %w", id, err)
	}

	u, err := uuid.FromString(id[i+1:])
	if err != nil {
		return time.Time{}, uuid.Nil, fmt.Errorf("run id %q: bad uuid: %w", id, err)
	}

	return ts, u, nil
}
