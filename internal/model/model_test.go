package model

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewRoot(t *testing.T) {
	now := time.Date(2026, 10, 19, 12, 0, 0, 0, time.FixedZone("CET", 3600))
	v := NewRoot("https://example.com/", "run-1", now)

	assert.Equal(t, "https://example.com/", v.URL)
	assert.Equal(t, "https://example.com/", v.RootURL)
	assert.Equal(t, NoSource, v.SourceURL)
	assert.Equal(t, time.UTC, v.CreatedAt.Location())
}

func TestRootMessageWireFormat(t *testing.T) {
	v := NewRoot("https://example.com/", "run-1", time.Now())

	body, err := json.Marshal(v.Message(RootDepth))
	require.NoError(t, err)

	assert.JSONEq(t, `{
		"visitedURL": "https://example.com/",
		"sourceURL": "",
		"rootURL": "https://example.com/",
		"runId": "run-1",
		"depth": 1
	}`, string(body))
}
