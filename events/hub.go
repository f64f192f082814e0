package events

import (
	"context"
	"sync"
	"time"

	"github.com/goccy/go-json"
	"github.com/gorilla/websocket"
	"github.com/moliceiro/meals/utils"
)

const (
	// sendBuffer is how many messages may wait for a slow client before it is dropped.
	sendBuffer = 64
	writeWait  = 10 * time.Second
)

type hubClient struct {
	conn   *websocket.Conn
	remote string
	send   chan []byte
}

// Hub keeps the connected websocket clients and broadcasts to them.
// Every client has its own writer goroutine; Publish never waits on a socket.
type Hub struct {
	clients map[*websocket.Conn]*hubClient
	mutex   sync.Mutex
}

func NewHub() *Hub {
	return &Hub{clients: make(map[*websocket.Conn]*hubClient)}
}

func (h *Hub) Register(conn *websocket.Conn, remote string) {
	cl := &hubClient{conn: conn, remote: remote, send: make(chan []byte, sendBuffer)}

	h.mutex.Lock()
	h.clients[conn] = cl
	total := len(h.clients)
	h.mutex.Unlock()

	go h.writeLoop(cl)
	utils.InfoLogger.Printf("websocket client %s connected (%d total)", remote, total)
}

func (h *Hub) writeLoop(cl *hubClient) {
	defer cl.conn.Close()
	for data := range cl.send {
		cl.conn.SetWriteDeadline(time.Now().Add(writeWait))
		if err := cl.conn.WriteMessage(websocket.TextMessage, data); err != nil {
			utils.ErrorLogger.Printf("dropping websocket client %s: %v", cl.remote, err)
			h.Unregister(cl.conn)
			return
		}
	}
}

// remove must be called with the hub lock held.
func (h *Hub) remove(conn *websocket.Conn) {
	cl, ok := h.clients[conn]
	if !ok {
		return
	}
	delete(h.clients, conn)
	close(cl.send)
	conn.Close()
}

func (h *Hub) Unregister(conn *websocket.Conn) {
	h.mutex.Lock()
	defer h.mutex.Unlock()
	h.remove(conn)
}

// Clients returns the number of connected clients.
func (h *Hub) Clients() int {
	h.mutex.Lock()
	defer h.mutex.Unlock()
	return len(h.clients)
}

// Publish queues msg for every client. A client whose queue is full is dropped.
func (h *Hub) Publish(_ context.Context, msg Message) error {
	data, err := json.Marshal(msg)
	if err != nil {
		return err
	}

	h.mutex.Lock()
	defer h.mutex.Unlock()

	for conn, cl := range h.clients {
		select {
		case cl.send <- data:
		default:
			utils.ErrorLogger.Printf("dropping websocket client %s: not reading", cl.remote)
			h.remove(conn)
		}
	}
	return nil
}

// CloseAll disconnects every client.
func (h *Hub) CloseAll() {
	h.mutex.Lock()
	defer h.mutex.Unlock()
	for conn := range h.clients {
		h.remove(conn)
	}
}
