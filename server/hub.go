package server

import (
	"net/http"
	"sync"

	"github.com/gorilla/websocket"
	"github.com/oarkflow/json"
	"golang.org/x/exp/maps"

	"github.com/oarkflow/micromap/logger"
	"github.com/oarkflow/micromap/metrics"
)

// Event is pushed to watch clients when the vocabulary changes.
type Event struct {
	Kind string `json:"kind"`
	URI  string `json:"uri"`
}

// watchClient pairs a connection with a write lock. gorilla/websocket allows
// only one concurrent writer per connection, so every write goes through
// send.
type watchClient struct {
	l  sync.Mutex
	ws *websocket.Conn
}

func (c *watchClient) send(payload []byte) error {
	c.l.Lock()
	defer c.l.Unlock()
	return c.ws.WriteMessage(websocket.TextMessage, payload)
}

// Hub fans vocabulary events out to websocket watch clients.
type Hub struct {
	log      logger.Logger
	upgrader websocket.Upgrader

	mu      sync.Mutex
	clients map[*watchClient]struct{}
}

// NewHub creates an empty hub.
func NewHub(log logger.Logger) *Hub {
	return &Hub{
		log: log,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin:     func(*http.Request) bool { return true },
		},
		clients: make(map[*watchClient]struct{}),
	}
}

// ServeHTTP upgrades the request and registers the client until it
// disconnects.
func (h *Hub) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	ws, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.log.Error("websocket upgrade failed", logger.F("error", err.Error()))
		return
	}
	client := &watchClient{ws: ws}
	h.mu.Lock()
	h.clients[client] = struct{}{}
	h.mu.Unlock()

	// Drain control frames; the watch stream is one-directional.
	go func() {
		defer h.drop(client)
		for {
			if _, _, err := ws.ReadMessage(); err != nil {
				return
			}
		}
	}()
}

// Broadcast sends the event to every connected client, dropping clients
// whose writes fail. Each client's write lock serializes concurrent
// broadcasts onto its connection.
func (h *Hub) Broadcast(ev Event) {
	payload, err := json.Marshal(ev)
	if err != nil {
		return
	}
	h.mu.Lock()
	clients := maps.Keys(h.clients)
	h.mu.Unlock()
	for _, client := range clients {
		if err := client.send(payload); err != nil {
			h.drop(client)
		}
	}
}

func (h *Hub) clientCount() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.clients)
}

func (h *Hub) drop(client *watchClient) {
	h.mu.Lock()
	if _, ok := h.clients[client]; ok {
		delete(h.clients, client)
		client.ws.Close()
	}
	h.mu.Unlock()
}

// listenOps serves the metrics scrape endpoint and the websocket watch
// stream on the ops address.
func (s *Server) listenOps() error {
	mux := http.NewServeMux()
	mux.Handle("/metrics", metrics.Handler())
	mux.Handle("/watch", s.hub)
	s.log.Info("ops listener started", logger.F("addr", s.cfg.OpsAddr))
	return http.ListenAndServe(s.cfg.OpsAddr, mux)
}
