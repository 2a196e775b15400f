package ws

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func closed(c *Client) bool {
	select {
	case <-c.done:
		return true
	default:
		return false
	}
}

func TestAddClientReplacesAndClosesOldConnection(t *testing.T) {
	hub := NewHub()
	first := NewClient("ana", nil)
	second := NewClient("ana", nil)

	hub.AddClient("ana", first)
	hub.AddClient("ana", second)

	assert.True(t, closed(first))
	assert.False(t, closed(second))
	assert.Same(t, second, hub.clients["ana"])
}

func TestRemoveClientIgnoresStaleConnection(t *testing.T) {
	hub := NewHub()
	first := NewClient("ana", nil)
	second := NewClient("ana", nil)

	hub.AddClient("ana", first)
	hub.AddClient("ana", second)
	hub.Subscribe("c1", "ana")

	// the first connection's deferred cleanup fires after it was replaced
	hub.RemoveClient("ana", first)

	assert.Same(t, second, hub.clients["ana"])
	assert.True(t, hub.rooms["c1"]["ana"])

	hub.RemoveClient("ana", second)
	assert.True(t, closed(second))
	assert.Empty(t, hub.clients)
	assert.Empty(t, hub.rooms["c1"])
}

func TestBroadcastReachesSubscribersOnly(t *testing.T) {
	hub := NewHub()
	ana := NewClient("ana", nil)
	boris := NewClient("boris", nil)
	hub.AddClient("ana", ana)
	hub.AddClient("boris", boris)
	hub.Subscribe("c1", "ana")

	hub.Broadcast("c1", "zdravo")

	require.Len(t, ana.send, 1)
	assert.Equal(t, "zdravo", <-ana.send)
	assert.Empty(t, boris.send)
}

func TestSendDropsWhenQueueFull(t *testing.T) {
	c := NewClient("ana", nil)
	for i := 0; i < cap(c.send)+5; i++ {
		c.Send(i)
	}
	assert.Len(t, c.send, cap(c.send))
}

func TestSendAfterCloseDoesNotPanic(t *testing.T) {
	c := NewClient("ana", nil)
	c.close()
	assert.NotPanics(t, func() { c.Send("zdravo") })
}
