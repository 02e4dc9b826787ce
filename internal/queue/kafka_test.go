package queue

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/segmentio/kafka-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/bobrnor/crawlinit/internal/model"
)

type fakeWriter struct {
	msgs   []kafka.Message
	err    error
	closed bool
}

func (w *fakeWriter) WriteMessages(_ context.Context, msgs ...kafka.Message) error {
	if w.err != nil {
		return w.err
	}
	w.msgs = append(w.msgs, msgs...)
	return nil
}

func (w *fakeWriter) Close() error {
	w.closed = true
	return nil
}

func TestKafkaPublisherPublish(t *testing.T) {
	w := &fakeWriter{}
	p := NewKafkaPublisherWithWriter(w, zap.NewNop())

	msg := model.CrawlMessage{
		VisitedURL: "https://example.com/",
		RootURL:    "https://example.com/",
		RunID:      "run-1",
		Depth:      model.RootDepth,
	}

	id, err := p.Publish(context.Background(), msg)
	require.NoError(t, err)
	require.NotEmpty(t, id)

	require.Len(t, w.msgs, 1)
	assert.Equal(t, "run-1", string(w.msgs[0].Key))
	require.Len(t, w.msgs[0].Headers, 1)
	assert.Equal(t, messageIDHeader, w.msgs[0].Headers[0].Key)
	assert.Equal(t, id, string(w.msgs[0].Headers[0].Value))

	var got model.CrawlMessage
	require.NoError(t, json.Unmarshal(w.msgs[0].Value, &got))
	assert.Equal(t, msg, got)

	require.NoError(t, p.Close())
	assert.True(t, w.closed)
}

func TestKafkaPublisherError(t *testing.T) {
	w := &fakeWriter{err: errors.New("leader not available")}
	p := NewKafkaPublisherWithWriter(w, zap.NewNop())

	_, err := p.Publish(context.Background(), model.CrawlMessage{RunID: "run-1"})
	assert.ErrorIs(t, err, w.err)
}
