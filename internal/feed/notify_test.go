package feed

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNotificationQueueDrain(t *testing.T) {
	q := NewNotificationQueue()
	q.Put(Notification{Status: StatusDelayed, Feed: "a"})
	q.Put(Notification{Status: StatusConnected, Feed: "a"})

	out := q.Drain()
	assert.Len(t, out, 2)
	assert.Equal(t, StatusDelayed, out[0].Status)
	assert.Equal(t, StatusConnected, out[1].Status)
	assert.False(t, out[0].At.IsZero(), "Put should stamp the notification")

	assert.Empty(t, q.Drain())
}

func TestNotificationQueueDrainKeepsLaterPuts(t *testing.T) {
	q := NewNotificationQueue()
	q.Put(Notification{Status: StatusLive, Feed: "a"})

	out := q.Drain()
	assert.Len(t, out, 1)

	// Drain 之后入队的通知属于下一个周期
	q.Put(Notification{Status: StatusDisconnected, Feed: "a"})
	out = q.Drain()
	assert.Len(t, out, 1)
	assert.Equal(t, StatusDisconnected, out[0].Status)
}

func TestStatusString(t *testing.T) {
	assert.Equal(t, "delayed", StatusDelayed.String())
	assert.Equal(t, "live", StatusLive.String())
	assert.Equal(t, "disconnected", StatusDisconnected.String())
	assert.Equal(t, "unknown", Status(99).String())
}
