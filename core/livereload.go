package core

import (
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"
)

const (
	ReloadPath    = "/__pokedex_reload"
	reloadMessage = "reload"
	writeWait     = time.Second
)

type LiveReloaderInterface interface {
	BroadcastReload()
	Handler(http.ResponseWriter, *http.Request)
}

// LiveReloader tells connected dev browsers to refresh after a template or
// asset changes.
type LiveReloader struct {
	mu       sync.Mutex
	conns    map[*websocket.Conn]struct{}
	upgrader websocket.Upgrader
}

var NewLiveReloader = func() LiveReloaderInterface {
	return &LiveReloader{
		conns: make(map[*websocket.Conn]struct{}),
		upgrader: websocket.Upgrader{
			CheckOrigin: func(r *http.Request) bool { return true },
		},
	}
}

func (lr *LiveReloader) Handler(w http.ResponseWriter, r *http.Request) {
	conn, err := lr.upgrader.Upgrade(w, r, nil)
	if err != nil {
		return
	}

	lr.mu.Lock()
	lr.conns[conn] = struct{}{}
	lr.mu.Unlock()

	go lr.drain(conn)
}

// drain discards client frames until the socket closes, then forgets it.
func (lr *LiveReloader) drain(conn *websocket.Conn) {
	defer lr.forget(conn)
	for {
		if _, _, err := conn.NextReader(); err != nil {
			return
		}
	}
}

func (lr *LiveReloader) forget(conn *websocket.Conn) {
	lr.mu.Lock()
	delete(lr.conns, conn)
	lr.mu.Unlock()
	conn.Close()
}

func (lr *LiveReloader) Clients() int {
	lr.mu.Lock()
	defer lr.mu.Unlock()
	return len(lr.conns)
}

func (lr *LiveReloader) BroadcastReload() {
	lr.mu.Lock()
	defer lr.mu.Unlock()

	for conn := range lr.conns {
		_ = conn.SetWriteDeadline(time.Now().Add(writeWait))
		if err := conn.WriteMessage(websocket.TextMessage, []byte(reloadMessage)); err != nil {
			conn.Close()
			delete(lr.conns, conn)
		}
	}
}
