package ws

import (
	"context"
	"sync"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

type directed struct {
	userIDs []uuid.UUID
	payload []byte
}

// Hub tracks open connections per user and routes messages to their owners.
type Hub struct {
	clients    map[uuid.UUID]map[*Client]struct{}
	direct     chan directed
	register   chan *Client
	unregister chan *Client
	done       chan struct{}
	stopOnce   sync.Once
	mutex      sync.RWMutex
	logger     *zap.Logger
}

func NewHub(logger *zap.Logger) *Hub {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Hub{
		clients:    make(map[uuid.UUID]map[*Client]struct{}),
		direct:     make(chan directed, 1024),
		register:   make(chan *Client, 128),
		unregister: make(chan *Client, 128),
		done:       make(chan struct{}),
		logger:     logger,
	}
}

// Run serves the hub until ctx is done, then closes every client. After Run
// returns, Register refuses new clients and Unregister returns immediately.
func (h *Hub) Run(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			h.shutdown()
			return

		case client := <-h.register:
			if client == nil {
				continue
			}
			h.mutex.Lock()
			set, ok := h.clients[client.userID]
			if !ok {
				set = make(map[*Client]struct{})
				h.clients[client.userID] = set
			}
			set[client] = struct{}{}
			h.mutex.Unlock()
			h.logger.Debug("ws connected", zap.String("user_id", client.userID.String()), zap.Int("total_clients", h.ClientCount()))

		case client := <-h.unregister:
			if client == nil {
				continue
			}
			h.remove(client)
			h.logger.Debug("ws disconnected", zap.String("user_id", client.userID.String()), zap.Int("total_clients", h.ClientCount()))

		case msg := <-h.direct:
			var stale []*Client
			h.mutex.RLock()
			for _, uid := range msg.userIDs {
				for c := range h.clients[uid] {
					select {
					case c.send <- msg.payload:
					default:
						stale = append(stale, c)
					}
				}
			}
			h.mutex.RUnlock()
			for _, c := range stale {
				h.remove(c)
			}
		}
	}
}

func (h *Hub) shutdown() {
	h.stopOnce.Do(func() { close(h.done) })

	h.mutex.Lock()
	defer h.mutex.Unlock()
	for uid, set := range h.clients {
		for c := range set {
			close(c.send)
		}
		delete(h.clients, uid)
	}
	// Clients queued before done was closed never reached the map.
	for {
		select {
		case c := <-h.register:
			if c != nil {
				close(c.send)
			}
		default:
			return
		}
	}
}

func (h *Hub) remove(client *Client) {
	h.mutex.Lock()
	defer h.mutex.Unlock()
	set, ok := h.clients[client.userID]
	if !ok {
		return
	}
	if _, ok := set[client]; !ok {
		return
	}
	delete(set, client)
	close(client.send)
	if len(set) == 0 {
		delete(h.clients, client.userID)
	}
}

// Register queues client for the hub. It reports false once the hub has
// stopped; the caller then owns the connection.
func (h *Hub) Register(client *Client) bool {
	if h == nil {
		return false
	}
	select {
	case <-h.done:
		return false
	default:
	}
	select {
	case h.register <- client:
		return true
	case <-h.done:
		return false
	}
}

func (h *Hub) Unregister(client *Client) {
	if h == nil {
		return
	}
	select {
	case h.unregister <- client:
	case <-h.done:
	}
}

// SendTo queues payload for every connection of the given users. Drops when the queue is full.
func (h *Hub) SendTo(userIDs []uuid.UUID, payload []byte) bool {
	if h == nil || len(userIDs) == 0 {
		return false
	}
	select {
	case h.direct <- directed{userIDs: userIDs, payload: payload}:
		return true
	default:
		h.logger.Warn("ws message dropped", zap.String("reason", "buffer_full"))
		return false
	}
}

func (h *Hub) ClientCount() int {
	if h == nil {
		return 0
	}
	h.mutex.RLock()
	defer h.mutex.RUnlock()
	n := 0
	for _, set := range h.clients {
		n += len(set)
	}
	return n
}
