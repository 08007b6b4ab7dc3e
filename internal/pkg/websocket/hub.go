package websocket

import (
	"encoding/json"
	"sync"

	"github.com/rs/zerolog"
)

// EventLocationChanged is emitted when a graduate's map position changes
const EventLocationChanged = "location-changed"

// Event is a message pushed to map subscribers
type Event struct {
	Event string      `json:"event"`
	Data  interface{} `json:"data"`
}

// LocationChange carries the payload of a location-changed event
type LocationChange struct {
	ID        int64   `json:"id"`
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
}

// Hub maintains the set of connected map subscribers and fans events out to
// them. Subscribers only receive; anything they send is discarded.
type Hub struct {
	clients map[*Client]bool

	broadcast  chan *Event
	register   chan *Client
	unregister chan *Client

	mu sync.RWMutex

	listenersMu sync.RWMutex
	listeners   []chan *Event

	logger zerolog.Logger
}

// NewHub creates a new Hub instance
func NewHub(logger zerolog.Logger) *Hub {
	return &Hub{
		clients:    make(map[*Client]bool),
		broadcast:  make(chan *Event),
		register:   make(chan *Client),
		unregister: make(chan *Client),
		logger:     logger,
	}
}

// Run starts the hub, handling client registrations and broadcasts
func (h *Hub) Run() {
	for {
		select {
		case client := <-h.register:
			h.registerClient(client)

		case client := <-h.unregister:
			h.unregisterClient(client)

		case event := <-h.broadcast:
			h.broadcastEvent(event)
		}
	}
}

func (h *Hub) registerClient(client *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()

	h.clients[client] = true

	h.logger.Info().
		Str("addr", client.conn.RemoteAddr().String()).
		Int("clientCount", len(h.clients)).
		Msg("Map subscriber connected")
}

func (h *Hub) unregisterClient(client *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if _, ok := h.clients[client]; ok {
		delete(h.clients, client)
		close(client.send)

		h.logger.Info().
			Str("addr", client.conn.RemoteAddr().String()).
			Int("clientCount", len(h.clients)).
			Msg("Map subscriber disconnected")
	}
}

func (h *Hub) broadcastEvent(event *Event) {
	h.notifyListeners(event)

	data, err := json.Marshal(event)
	if err != nil {
		h.logger.Error().Err(err).Str("event", event.Event).Msg("Failed to marshal event for broadcast")
		return
	}

	h.mu.Lock()
	defer h.mu.Unlock()

	for client := range h.clients {
		select {
		case client.send <- data:
		default:
			// Client's send buffer is full, drop them
			delete(h.clients, client)
			close(client.send)
		}
	}

	h.logger.Debug().
		Str("event", event.Event).
		Int("clientCount", len(h.clients)).
		Msg("Event broadcast to map subscribers")
}

func (h *Hub) notifyListeners(event *Event) {
	h.listenersMu.RLock()
	defer h.listenersMu.RUnlock()

	for _, listener := range h.listeners {
		select {
		case listener <- event:
		default:
			h.logger.Warn().Msg("Skipped slow event listener")
		}
	}
}

// PublishLocationChange broadcasts a location-changed event to every map
// subscriber
func (h *Hub) PublishLocationChange(id int64, latitude, longitude float64) {
	h.broadcast <- &Event{
		Event: EventLocationChanged,
		Data: LocationChange{
			ID:        id,
			Latitude:  latitude,
			Longitude: longitude,
		},
	}
}

// ClientCount returns the number of connected subscribers
func (h *Hub) ClientCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}

// AddListener registers a channel that receives every broadcast event
func (h *Hub) AddListener(listener chan *Event) {
	h.listenersMu.Lock()
	defer h.listenersMu.Unlock()

	h.listeners = append(h.listeners, listener)
}

// RemoveListener removes a previously registered listener
func (h *Hub) RemoveListener(listener chan *Event) {
	h.listenersMu.Lock()
	defer h.listenersMu.Unlock()

	for i, l := range h.listeners {
		if l == listener {
			h.listeners[i] = h.listeners[len(h.listeners)-1]
			h.listeners = h.listeners[:len(h.listeners)-1]
			break
		}
	}
}
