package servermanage

import (
	"net/http"
	"sync"

	"log/slog"

	"github.com/gorilla/websocket"
	"github.com/robert-nix/ansihtml"
)

// logging is designed so an admin who opens the dashboard mid-ingest
// still sees the rest of the run, and multiple admins can watch the
// same stream. Logs are OK to be lost when nobody is connected, the
// outcome is persisted on the source row anyway.

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		return true // Allow all origins
	},
}

type wsConnection struct {
	conn *websocket.Conn
	send chan []byte
}

// logHub is an io.Writer the ingest logger fans out through, each
// record is converted from ANSI to HTML before broadcast
type logHub struct {
	connections map[*wsConnection]struct{}
	mu          sync.Mutex
}

func newLogHub() *logHub {
	return &logHub{connections: map[*wsConnection]struct{}{}}
}

func (hub *logHub) Write(b []byte) (int, error) {
	// it is completely fine if a log silently does not get sent
	formattedLog := ansihtml.ConvertToHTML(b)

	hub.mu.Lock()
	defer hub.mu.Unlock()
	for c := range hub.connections {
		select {
		case c.send <- formattedLog:
		default:
			// a slow consumer drops records rather than blocking ingest
		}
	}
	return len(b), nil
}

func (hub *logHub) add(c *wsConnection) {
	hub.mu.Lock()
	defer hub.mu.Unlock()
	hub.connections[c] = struct{}{}
}

func (hub *logHub) remove(c *wsConnection) {
	hub.mu.Lock()
	defer hub.mu.Unlock()
	if _, ok := hub.connections[c]; ok {
		delete(hub.connections, c)
		close(c.send)
	}
}

func (h *manageHandler) getLogsSocket(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		slog.Warn("ws failed to be established", "err", err)
		return
	}

	c := &wsConnection{
		conn: conn,
		send: make(chan []byte, 64),
	}
	h.hub.add(c)

	go func() {
		for msg := range c.send {
			if err := conn.WriteMessage(websocket.TextMessage, msg); err != nil {
				return
			}
		}
	}()

	// the read loop only exists to notice the client going away
	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			break
		}
	}
	h.hub.remove(c)
	conn.Close()
}
