package api

import (
	"context"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"github.com/sirupsen/logrus"

	"medicine-verify/internal/logsink"
	"medicine-verify/internal/metrics"
	"medicine-verify/internal/store"
)

const (
	clientQueueSize   = 32
	clientWriteWindow = 10 * time.Second
)

// wsClient owns one websocket connection. Only its writer goroutine writes to conn.
type wsClient struct {
	conn *websocket.Conn
	send chan logsink.Event
}

// VerificationNotifier keeps track of active websocket clients and fans verification events
// out to them. It is also a log sink, so every recorded verification reaches the feed.
// Broadcasting never touches the network; events for a client whose queue is full are dropped.
type VerificationNotifier struct {
	mu      sync.Mutex
	clients map[*wsClient]struct{}
	last    *logsink.Event
}

// NewVerificationNotifier constructs a notifier instance.
func NewVerificationNotifier() *VerificationNotifier {
	return &VerificationNotifier{clients: make(map[*wsClient]struct{})}
}

func (n *VerificationNotifier) Name() string { return "stream" }

// RecordVerification queues the record for connected clients.
func (n *VerificationNotifier) RecordVerification(ctx context.Context, entry *store.VerificationLog) error {
	if entry == nil {
		return nil
	}
	if err := ctx.Err(); err != nil {
		return err
	}
	copied := *entry
	n.Broadcast(logsink.NewEvent(&copied))
	return nil
}

// Register attaches a websocket connection, queues the latest event for it and starts its
// writer.
func (n *VerificationNotifier) Register(conn *websocket.Conn) *wsClient {
	client := &wsClient{conn: conn, send: make(chan logsink.Event, clientQueueSize)}
	n.mu.Lock()
	n.clients[client] = struct{}{}
	if n.last != nil {
		client.send <- *n.last
	}
	n.mu.Unlock()
	metrics.StreamClients.Inc()

	go n.writeLoop(client)
	return client
}

// Unregister removes the websocket client from the notifier and closes the socket.
func (n *VerificationNotifier) Unregister(client *wsClient) {
	if client == nil {
		return
	}
	n.mu.Lock()
	_, ok := n.clients[client]
	if ok {
		delete(n.clients, client)
		close(client.send)
	}
	n.mu.Unlock()
	if ok {
		metrics.StreamClients.Dec()
	}
	_ = client.conn.Close()
}

// Broadcast queues the event for every registered client without blocking.
func (n *VerificationNotifier) Broadcast(event logsink.Event) {
	dropped := 0
	n.mu.Lock()
	n.last = &event
	for client := range n.clients {
		select {
		case client.send <- event:
		default:
			dropped++
		}
	}
	n.mu.Unlock()
	if dropped > 0 {
		logrus.WithField("clients", dropped).Debug("verification stream queue full, event dropped")
	}
}

// ClientCount reports the number of connected clients.
func (n *VerificationNotifier) ClientCount() int {
	n.mu.Lock()
	defer n.mu.Unlock()
	return len(n.clients)
}

func (n *VerificationNotifier) writeLoop(client *wsClient) {
	for event := range client.send {
		_ = client.conn.SetWriteDeadline(time.Now().Add(clientWriteWindow))
		if err := client.conn.WriteJSON(event); err != nil {
			logrus.WithError(err).Debug("verification stream write failed")
			n.Unregister(client)
			return
		}
	}
}
