package bridge

import (
	"log"
	"net/http"
	"sync"
	"sync/atomic"

	"github.com/gorilla/websocket"
)

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool {
		// Trusted same-origin tooling; the canvas binds to localhost.
		return true
	},
	ReadBufferSize:  64 * 1024,
	WriteBufferSize: 64 * 1024,
}

// wsObserver adapts a gorilla connection to the Observer capability.
// Gorilla connections allow only one concurrent writer, hence the mutex.
type wsObserver struct {
	conn   *websocket.Conn
	mu     sync.Mutex
	closed atomic.Bool
}

func (o *wsObserver) Send(msg Message) error {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.conn.WriteJSON(msg)
}

func (o *wsObserver) Open() bool {
	return !o.closed.Load()
}

func (o *wsObserver) Close() error {
	if o.closed.Swap(true) {
		return nil
	}
	return o.conn.Close()
}

// ServeWS upgrades an HTTP request to a WebSocket observer connection and
// pumps inbound messages into the bridge until the client disconnects.
func (b *Bridge) ServeWS(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Printf("[WS] upgrade failed: %v", err)
		return
	}

	obs := &wsObserver{conn: conn}
	b.Attach(obs)
	log.Printf("[WS] client connected (%d active)", b.ClientCount())

	defer func() {
		obs.closed.Store(true)
		b.Detach(obs)
		conn.Close()
		log.Printf("[WS] client disconnected (%d active)", b.ClientCount())
	}()

	for {
		_, data, err := conn.ReadMessage()
		if err != nil {
			return
		}
		b.HandleInbound(data)
	}
}
