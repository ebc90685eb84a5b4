// Package spectate streams live gameplay events to websocket watchers.
//
// The Hub is a telemetry.Sink: every recorded event is encoded as JSON and
// pushed to each connected watcher. A watcher that cannot keep up is
// disconnected instead of slowing down the game.
package spectate

import (
	"encoding/json"
	"io"
	"net/http"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"github.com/gorilla/websocket"

	"github.com/vovakirdan/roomwalk/internal/telemetry"
)

const (
	sendBuffer = 64
	writeWait  = 5 * time.Second
	pongWait   = 60 * time.Second
	pingPeriod = pongWait * 9 / 10
)

// Hub fans telemetry events out to connected watchers.
type Hub struct {
	upgrader websocket.Upgrader
	logger   *log.Logger

	mu       sync.Mutex
	watchers map[*watcher]struct{}
}

type watcher struct {
	conn *websocket.Conn
	game string // empty = every game
	send chan []byte
}

// NewHub creates a hub. A nil logger discards output.
func NewHub(logger *log.Logger) *Hub {
	if logger == nil {
		logger = log.New(io.Discard)
	}
	return &Hub{
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin:     func(*http.Request) bool { return true },
		},
		logger:   logger,
		watchers: make(map[*watcher]struct{}),
	}
}

// Count returns the number of connected watchers.
func (h *Hub) Count() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.watchers)
}

// Record implements telemetry.Sink.
func (h *Hub) Record(e telemetry.Event) {
	data, err := json.Marshal(e)
	if err != nil {
		h.logger.Warn("cannot encode event", "error", err)
		return
	}

	h.mu.Lock()
	defer h.mu.Unlock()
	for w := range h.watchers {
		if w.game != "" && w.game != e.Game {
			continue
		}
		select {
		case w.send <- data:
		default:
			h.logger.Warn("dropping slow watcher", "remote", w.conn.RemoteAddr())
			h.removeLocked(w)
		}
	}
}

var _ telemetry.Sink = (*Hub)(nil)

// ServeWS upgrades the request and streams events until the watcher leaves.
// The optional "game" query parameter limits the feed to one game.
func (h *Hub) ServeWS(w http.ResponseWriter, r *http.Request) {
	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.logger.Warn("websocket upgrade failed", "error", err)
		return
	}

	wt := &watcher{
		conn: conn,
		game: r.URL.Query().Get("game"),
		send: make(chan []byte, sendBuffer),
	}
	h.mu.Lock()
	h.watchers[wt] = struct{}{}
	h.mu.Unlock()
	h.logger.Info("watcher connected", "remote", conn.RemoteAddr(), "game", wt.game)

	go h.writeLoop(wt)
	h.readLoop(wt)
}

// readLoop discards incoming messages; it exists to notice the close.
func (h *Hub) readLoop(w *watcher) {
	defer func() {
		h.remove(w)
		w.conn.Close()
		h.logger.Info("watcher left", "remote", w.conn.RemoteAddr())
	}()

	w.conn.SetReadLimit(512)
	_ = w.conn.SetReadDeadline(time.Now().Add(pongWait))
	w.conn.SetPongHandler(func(string) error {
		return w.conn.SetReadDeadline(time.Now().Add(pongWait))
	})
	for {
		if _, _, err := w.conn.NextReader(); err != nil {
			return
		}
	}
}

func (h *Hub) writeLoop(w *watcher) {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		w.conn.Close()
	}()

	for {
		select {
		case msg, ok := <-w.send:
			_ = w.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				_ = w.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := w.conn.WriteMessage(websocket.TextMessage, msg); err != nil {
				return
			}
		case <-ticker.C:
			_ = w.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := w.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}

func (h *Hub) remove(w *watcher) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.removeLocked(w)
}

func (h *Hub) removeLocked(w *watcher) {
	if _, ok := h.watchers[w]; !ok {
		return
	}
	delete(h.watchers, w)
	close(w.send)
}

// Close disconnects every watcher.
func (h *Hub) Close() {
	h.mu.Lock()
	defer h.mu.Unlock()
	for w := range h.watchers {
		h.removeLocked(w)
	}
}
