package websocket

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBroadcastEventQueuesJSONPayload(t *testing.T) {
	hub := NewHub()

	hub.BroadcastEvent("product.low_stock", map[string]interface{}{
		"sku":   "KB-01",
		"stock": 2,
	})

	select {
	case payload := <-hub.Broadcast:
		var event Event
		require.NoError(t, json.Unmarshal(payload, &event))
		assert.Equal(t, "product.low_stock", event.Event)
		data := event.Data.(map[string]interface{})
		assert.Equal(t, "KB-01", data["sku"])
	default:
		t.Fatal("expected a queued broadcast payload")
	}
}

func TestBroadcastEventDropsWhenQueueIsFull(t *testing.T) {
	hub := NewHub()

	// fill the buffered channel, then one more must not block
	for i := 0; i < cap(hub.Broadcast)+5; i++ {
		hub.BroadcastEvent("product.low_stock", i)
	}

	assert.Len(t, hub.Broadcast, cap(hub.Broadcast))
}
