package runtime

import (
	"encoding/json"
	"sync"
	"sync/atomic"
	"time"

	"github.com/gorilla/websocket"
	gonanoid "github.com/matoous/go-nanoid/v2"
	"github.com/naufal/reva/internal/metrics"
	"github.com/rs/zerolog"
)

// mirrorSendBuffer is the per-observer queue depth. A full queue means the
// observer is too slow; events are dropped for that observer only, never
// delayed for the primary relay.
const mirrorSendBuffer = 64

// MirrorMessage is the envelope delivered to WebSocket observers.
type MirrorMessage struct {
	Event     string          `json:"event"`
	Seq       int64           `json:"seq"`
	SessionID string          `json:"session_id"`
	Data      json.RawMessage `json:"data"`
	Timestamp int64           `json:"timestamp"`
}

// EventMirror fans relayed graph events out to observing WebSocket clients.
// Observers are best-effort: they see what they are fast enough to receive
// and can never stall or reorder the SSE relay.
type EventMirror struct {
	logger  zerolog.Logger
	metrics *metrics.Metrics
	seq     atomic.Int64
	mu      sync.RWMutex
	clients map[string]*mirrorClient
}

type mirrorClient struct {
	id   string
	conn *websocket.Conn
	send chan []byte
	done chan struct{}
	once sync.Once
}

// NewEventMirror creates an empty mirror.
func NewEventMirror(logger zerolog.Logger, m *metrics.Metrics) *EventMirror {
	if m == nil {
		m = metrics.NewMetrics()
	}
	return &EventMirror{
		logger:  logger,
		metrics: m,
		clients: make(map[string]*mirrorClient),
	}
}

// Attach registers an upgraded connection as an observer and starts its
// writer. The connection is owned by the mirror from this point on.
func (m *EventMirror) Attach(conn *websocket.Conn, remoteAddr string) {
	id, err := gonanoid.New()
	if err != nil {
		m.logger.Error().Err(err).Msg("Failed to generate observer id")
		conn.Close()
		return
	}

	client := &mirrorClient{
		id:   id,
		conn: conn,
		send: make(chan []byte, mirrorSendBuffer),
		done: make(chan struct{}),
	}

	m.mu.Lock()
	m.clients[id] = client
	m.mu.Unlock()

	m.metrics.MirrorObserversActive.Inc()
	m.logger.Info().Str("observer_id", id).Str("ip", remoteAddr).Msg("Observer connected")

	go m.writeLoop(client)
	go m.readLoop(client)
}

// Publish delivers one relayed event to every observer without blocking.
func (m *EventMirror) Publish(sessionID string, event json.RawMessage) {
	m.mu.RLock()
	clients := make([]*mirrorClient, 0, len(m.clients))
	for _, client := range m.clients {
		clients = append(clients, client)
	}
	m.mu.RUnlock()

	if len(clients) == 0 {
		return
	}

	msg := MirrorMessage{
		Event:     "graph.event",
		Seq:       m.seq.Add(1),
		SessionID: sessionID,
		Data:      event,
		Timestamp: time.Now().UnixMilli(),
	}

	data, err := json.Marshal(msg)
	if err != nil {
		m.logger.Error().Err(err).Msg("Failed to marshal mirror message")
		return
	}

	for _, client := range clients {
		select {
		case client.send <- data:
		default:
			m.metrics.MirrorEventsDroppedTotal.Inc()
			m.logger.Debug().Str("observer_id", client.id).Msg("Observer too slow, dropping event")
		}
	}
}

// Count returns the number of attached observers.
func (m *EventMirror) Count() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.clients)
}

// CloseAll disconnects every observer, for server shutdown.
func (m *EventMirror) CloseAll() {
	m.mu.Lock()
	clients := make([]*mirrorClient, 0, len(m.clients))
	for _, client := range m.clients {
		clients = append(clients, client)
	}
	m.clients = make(map[string]*mirrorClient)
	m.mu.Unlock()

	for _, client := range clients {
		client.close()
	}
	m.metrics.MirrorObserversActive.Sub(float64(len(clients)))
}

func (m *EventMirror) writeLoop(client *mirrorClient) {
	for {
		select {
		case <-client.done:
			return
		case data := <-client.send:
			if err := client.conn.WriteMessage(websocket.TextMessage, data); err != nil {
				m.logger.Debug().Err(err).Str("observer_id", client.id).Msg("Observer write failed")
				m.detach(client)
				return
			}
		}
	}
}

// readLoop drains inbound frames so pings are answered and closes are seen.
func (m *EventMirror) readLoop(client *mirrorClient) {
	for {
		if _, _, err := client.conn.ReadMessage(); err != nil {
			m.detach(client)
			return
		}
	}
}

func (m *EventMirror) detach(client *mirrorClient) {
	m.mu.Lock()
	_, present := m.clients[client.id]
	delete(m.clients, client.id)
	m.mu.Unlock()

	client.close()

	if present {
		m.metrics.MirrorObserversActive.Dec()
		m.logger.Info().Str("observer_id", client.id).Msg("Observer disconnected")
	}
}

func (c *mirrorClient) close() {
	c.once.Do(func() {
		close(c.done)
		c.conn.Close()
	})
}
