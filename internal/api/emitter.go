package api

import (
	"sync"

	"scrollreveal/internal/scrolllog"
)

// SSEEmitter implements scrolllog.EventSink and broadcasts every event to
// whichever SSE clients are currently subscribed to one job.
type SSEEmitter struct {
	mu      sync.RWMutex
	clients map[chan SSEEvent]struct{}
	closed  bool
}

// NewSSEEmitter creates a new SSE event emitter.
func NewSSEEmitter() *SSEEmitter {
	return &SSEEmitter{clients: make(map[chan SSEEvent]struct{})}
}

// Emit implements scrolllog.EventSink.
func (e *SSEEmitter) Emit(event scrolllog.CrawlerEvent) {
	e.mu.RLock()
	defer e.mu.RUnlock()

	if e.closed {
		return
	}

	sseEvent := SSEEvent{Type: string(event.Type), Timestamp: event.Timestamp, Data: event.Data}

	for clientChan := range e.clients {
		select {
		case clientChan <- sseEvent:
		default:
			// slow client, drop the event rather than block the run
		}
	}
}

// Subscribe creates a new client channel for receiving events. Returns the
// channel and a cleanup function.
func (e *SSEEmitter) Subscribe() (<-chan SSEEvent, func()) {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.closed {
		ch := make(chan SSEEvent)
		close(ch)
		return ch, func() {}
	}

	clientChan := make(chan SSEEvent, 100)
	e.clients[clientChan] = struct{}{}

	unsubscribe := func() {
		e.mu.Lock()
		defer e.mu.Unlock()
		if _, exists := e.clients[clientChan]; exists {
			delete(e.clients, clientChan)
			close(clientChan)
		}
	}

	return clientChan, unsubscribe
}

// Close closes all client channels and prevents new subscriptions.
func (e *SSEEmitter) Close() {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.closed {
		return
	}
	e.closed = true

	for clientChan := range e.clients {
		close(clientChan)
	}
	e.clients = make(map[chan SSEEvent]struct{})
}
