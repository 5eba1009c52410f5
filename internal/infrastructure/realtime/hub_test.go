package realtime

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestChannelNames(t *testing.T) {
	assert.Equal(t, "private-abc123", UserChannel("abc123"))
	assert.Equal(t, "private-encrypted-def456", DiscussionChannel("def456"))
}

func TestSubscribeRequiresPrivatePrefix(t *testing.T) {
	hub := NewHub()
	client := NewClient("u1", nil, 1)

	hub.Subscribe(client, "public-anything")
	assert.Equal(t, 0, hub.SubscriberCount("public-anything"))

	hub.Subscribe(client, "private-abc")
	assert.Equal(t, 1, hub.SubscriberCount("private-abc"))
}

func TestPublishDeliversEnvelope(t *testing.T) {
	hub := NewHub()
	client := NewClient("u1", nil, 4)
	hub.Subscribe(client, "private-abc")

	err := hub.Publish("private-abc", EventNewMessage, map[string]string{"discussion_id": "d1"})
	require.NoError(t, err)

	frame := <-client.send
	var envelope Envelope
	require.NoError(t, json.Unmarshal(frame, &envelope))
	assert.Equal(t, "private-abc", envelope.Channel)
	assert.Equal(t, EventNewMessage, envelope.Event)
	payload, ok := envelope.Payload.(map[string]interface{})
	require.True(t, ok)
	assert.Equal(t, "d1", payload["discussion_id"])
}

func TestPublishSkipsOtherChannels(t *testing.T) {
	hub := NewHub()
	client := NewClient("u1", nil, 4)
	hub.Subscribe(client, "private-abc")

	require.NoError(t, hub.Publish("private-other", EventNewMessage, nil))

	select {
	case frame := <-client.send:
		t.Fatalf("unexpected frame: %s", frame)
	default:
	}
}

func TestPublishDropsFramesForSlowClient(t *testing.T) {
	hub := NewHub()
	client := NewClient("u1", nil, 1)
	hub.Subscribe(client, "private-abc")

	// The second publish overflows the buffer and is dropped, not queued.
	require.NoError(t, hub.Publish("private-abc", EventNewMessage, "first"))
	require.NoError(t, hub.Publish("private-abc", EventNewMessage, "second"))

	var envelope Envelope
	require.NoError(t, json.Unmarshal(<-client.send, &envelope))
	assert.Equal(t, "first", envelope.Payload)

	select {
	case frame := <-client.send:
		t.Fatalf("dropped frame was delivered: %s", frame)
	default:
	}
}

func TestUnsubscribeStopsDelivery(t *testing.T) {
	hub := NewHub()
	client := NewClient("u1", nil, 4)
	hub.Subscribe(client, "private-abc")
	hub.Unsubscribe(client, "private-abc")

	require.NoError(t, hub.Publish("private-abc", EventNewMessage, nil))

	assert.Equal(t, 0, hub.SubscriberCount("private-abc"))
	select {
	case <-client.send:
		t.Fatal("unsubscribed client received a frame")
	default:
	}
}

func TestDropClientClosesSendOnce(t *testing.T) {
	hub := NewHub()
	client := NewClient("u1", nil, 4)
	hub.Subscribe(client, "private-abc")
	hub.Subscribe(client, "private-def")

	hub.dropClient(client)
	hub.dropClient(client) // must not panic on double close

	assert.Equal(t, 0, hub.SubscriberCount("private-abc"))
	assert.Equal(t, 0, hub.SubscriberCount("private-def"))

	_, open := <-client.send
	assert.False(t, open)
}

func TestPublishWithNoSubscribers(t *testing.T) {
	hub := NewHub()

	assert.NoError(t, hub.Publish("private-empty", EventDiscussionCreated, nil))
}
