package realtime

import (
	"context"
	"encoding/json"
	"strings"
	"sync"

	"tradepost/pkg/logger"
)

// Envelope is the frame delivered to subscribed clients.
type Envelope struct {
	Channel string      `json:"channel"`
	Event   string      `json:"event"`
	Payload interface{} `json:"payload,omitempty"`
}

// Hub fans events out to websocket clients by channel name. Delivery is
// best-effort and at-most-once: a slow client's frame is dropped, never
// queued indefinitely, and nothing is retried. Clients are expected to treat
// events as invalidation hints and re-fetch authoritative state.
//
// A Hub is constructed once in main and injected everywhere it is needed;
// there is no package-level instance.
type Hub struct {
	mu          sync.RWMutex
	subscribers map[string]map[*Client]struct{}

	Register   chan *Client
	Unregister chan *Client
}

func NewHub() *Hub {
	return &Hub{
		subscribers: make(map[string]map[*Client]struct{}),
		Register:    make(chan *Client),
		Unregister:  make(chan *Client),
	}
}

// Start runs the hub's main loop in a goroutine until ctx is cancelled.
func (h *Hub) Start(ctx context.Context) {
	go func() {
		for {
			select {
			case client := <-h.Register:
				logger.Debug("Realtime client connected: %s", client.userID)

			case client := <-h.Unregister:
				h.dropClient(client)
				logger.Debug("Realtime client disconnected: %s", client.userID)

			case <-ctx.Done():
				return
			}
		}
	}()
}

// Subscribe attaches the client to a channel. Channel tokens are
// unguessable, so presenting a valid channel name is what authorizes the
// subscription.
func (h *Hub) Subscribe(client *Client, channel string) {
	if !strings.HasPrefix(channel, "private-") {
		return
	}

	h.mu.Lock()
	defer h.mu.Unlock()

	if h.subscribers[channel] == nil {
		h.subscribers[channel] = make(map[*Client]struct{})
	}
	h.subscribers[channel][client] = struct{}{}
	client.channels[channel] = struct{}{}
}

func (h *Hub) Unsubscribe(client *Client, channel string) {
	h.mu.Lock()
	defer h.mu.Unlock()

	h.removeSubscription(client, channel)
}

// Publish delivers an event to every current subscriber of the channel. A
// returned error is a transport failure only; callers must not roll back
// durable state because of it.
func (h *Hub) Publish(channel, event string, payload interface{}) error {
	frame, err := json.Marshal(Envelope{
		Channel: channel,
		Event:   event,
		Payload: payload,
	})
	if err != nil {
		return err
	}

	h.mu.RLock()
	defer h.mu.RUnlock()

	for client := range h.subscribers[channel] {
		select {
		case client.send <- frame:
		default:
			// Slow consumer; drop the frame rather than block the request.
			logger.Warn("Dropping %s frame for slow client %s", event, client.userID)
		}
	}

	return nil
}

// SubscriberCount reports how many clients are attached to a channel.
func (h *Hub) SubscriberCount(channel string) int {
	h.mu.RLock()
	defer h.mu.RUnlock()

	return len(h.subscribers[channel])
}

func (h *Hub) dropClient(client *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()

	for channel := range client.channels {
		h.removeSubscription(client, channel)
	}
	client.closeOnce.Do(func() {
		close(client.send)
	})
}

// removeSubscription requires h.mu to be held.
func (h *Hub) removeSubscription(client *Client, channel string) {
	if subs, ok := h.subscribers[channel]; ok {
		delete(subs, client)
		if len(subs) == 0 {
			delete(h.subscribers, channel)
		}
	}
	delete(client.channels, channel)
}
