package realtime

import (
	"context"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
)

type refusingSubscriber struct{}

func (refusingSubscriber) ID() string {
	return "full"
}

func (refusingSubscriber) Deliver([]byte) bool {
	return false
}

func (refusingSubscriber) Close() {}

func TestHub_PublishCountsDroppedFrames(t *testing.T) {
	hub := NewHub()
	hub.Subscribe(AdminChannel, refusingSubscriber{})

	published := testutil.ToFloat64(eventsPublished.WithLabelValues(string(EventLeaveRequestUpdated)))
	dropped := testutil.ToFloat64(framesDropped.WithLabelValues(string(EventLeaveRequestUpdated)))

	err := hub.Publish(context.Background(), AdminChannel, NewEvent(EventLeaveRequestUpdated, nil))

	assert.NoError(t, err)
	assert.Equal(t, published+1, testutil.ToFloat64(eventsPublished.WithLabelValues(string(EventLeaveRequestUpdated))))
	assert.Equal(t, dropped+1, testutil.ToFloat64(framesDropped.WithLabelValues(string(EventLeaveRequestUpdated))))
}
