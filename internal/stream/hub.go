// Package stream serves a powder world over HTTP: frames are pushed to
// websocket clients at a fixed tick rate and clients send brush commands back.
package stream

import (
	"sync"
	"time"

	"github.com/gorilla/websocket"
)

const writeWait = 5 * time.Second

// Hub fans encoded frames out to every registered websocket connection.
type Hub struct {
	mu        sync.RWMutex
	clients   map[*websocket.Conn]*sync.Mutex
	broadcast chan []byte
	done      chan struct{}
	closeOnce sync.Once
	wg        sync.WaitGroup
}

// NewHub creates a hub and starts its broadcaster goroutine.
func NewHub() *Hub {
	h := &Hub{
		clients:   make(map[*websocket.Conn]*sync.Mutex),
		broadcast: make(chan []byte, 16),
		done:      make(chan struct{}),
	}
	h.wg.Add(1)
	go h.run()
	return h
}

// Register adds a connection to the broadcast set. Registration is
// synchronous so a handler may write to conn right after it returns.
func (h *Hub) Register(conn *websocket.Conn) {
	if conn == nil {
		return
	}
	select {
	case <-h.done:
		conn.Close()
		return
	default:
	}
	h.mu.Lock()
	h.clients[conn] = &sync.Mutex{}
	h.mu.Unlock()
}

// Unregister removes and closes a connection.
func (h *Hub) Unregister(conn *websocket.Conn) {
	h.mu.Lock()
	delete(h.clients, conn)
	h.mu.Unlock()
	if conn != nil {
		conn.Close()
	}
}

// Clients reports how many connections are registered.
func (h *Hub) Clients() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}

// Broadcast queues a message for every client. When the queue is full the
// message is dropped: a slow client must not stall the simulation.
func (h *Hub) Broadcast(msg []byte) bool {
	select {
	case <-h.done:
		return false
	default:
	}
	select {
	case h.broadcast <- msg:
		return true
	case <-h.done:
		return false
	default:
		return false
	}
}

// Send writes a message to a single connection, serialised with broadcasts.
func (h *Hub) Send(conn *websocket.Conn, msg []byte) error {
	h.mu.RLock()
	lock, ok := h.clients[conn]
	h.mu.RUnlock()
	if !ok {
		lock = &sync.Mutex{}
	}
	lock.Lock()
	defer lock.Unlock()
	_ = conn.SetWriteDeadline(time.Now().Add(writeWait))
	return conn.WriteMessage(websocket.TextMessage, msg)
}

func (h *Hub) run() {
	defer h.wg.Done()
	for {
		select {
		case <-h.done:
			return

		case msg := <-h.broadcast:
			// Collect connections first so writes happen outside the lock.
			h.mu.RLock()
			conns := make([]*websocket.Conn, 0, len(h.clients))
			locks := make([]*sync.Mutex, 0, len(h.clients))
			for conn, lock := range h.clients {
				conns = append(conns, conn)
				locks = append(locks, lock)
			}
			h.mu.RUnlock()

			var failed []*websocket.Conn
			for i, conn := range conns {
				locks[i].Lock()
				_ = conn.SetWriteDeadline(time.Now().Add(writeWait))
				err := conn.WriteMessage(websocket.TextMessage, msg)
				locks[i].Unlock()
				if err != nil {
					failed = append(failed, conn)
					conn.Close()
				}
			}
			if len(failed) > 0 {
				h.mu.Lock()
				for _, conn := range failed {
					delete(h.clients, conn)
				}
				h.mu.Unlock()
			}
		}
	}
}

// Close disconnects every client and stops the broadcaster. It is safe to
// call more than once.
func (h *Hub) Close() error {
	h.closeOnce.Do(func() {
		close(h.done)
		h.wg.Wait()
		h.mu.Lock()
		for conn := range h.clients {
			conn.Close()
			delete(h.clients, conn)
		}
		h.mu.Unlock()
	})
	return nil
}
