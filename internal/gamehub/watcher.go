package gamehub

import (
	json2 "encoding/json"
	"time"

	"github.com/gorilla/websocket"
)

// Watcher streams session updates to one websocket client. The stream is one-way;
// anything the client sends other than control frames is discarded.
type Watcher struct {
	Hub     *Hub
	Conn    *websocket.Conn
	Receive chan []byte
}

func newWatcher(hub *Hub, conn *websocket.Conn) *Watcher {
	return &Watcher{
		Hub:     hub,
		Conn:    conn,
		Receive: make(chan []byte, watcherBuffer),
	}
}

// JoinWatcher registers conn as a watcher, sends it the current snapshot and starts its
// read and write pumps.
func (h *Hub) JoinWatcher(conn *websocket.Conn, canEdit bool) error {
	w := newWatcher(h, conn)
	err := h.do(func() {
		h.watchers[w] = true
		msg, err := encodeMessage("snapshot", h.snapshot(canEdit))
		if err == nil {
			w.Receive <- msg
		}
	})
	if err != nil {
		return err
	}

	go w.WriteEvents()
	go w.ReadEvents()

	return nil
}

// LeaveWatcher drops w from the hub. Safe to call more than once.
func (h *Hub) LeaveWatcher(w *Watcher) {
	_ = h.do(func() {
		if _, ok := h.watchers[w]; ok {
			delete(h.watchers, w)
			close(w.Receive)
		}
	})
}

func (h *Hub) watcherCount() int {
	n, _ := query(h, func() (int, error) {
		return len(h.watchers), nil
	})
	return n
}

type message struct {
	Type string `json:"type"`
	Data any    `json:"data"`
}

func encodeMessage(kind string, payload any) ([]byte, error) {
	return json2.Marshal(message{Type: kind, Data: payload})
}

// broadcast must run on the loop. Watchers that cannot keep up are dropped.
func (h *Hub) broadcast(kind string, payload any) {
	if len(h.watchers) == 0 {
		return
	}
	msg, err := encodeMessage(kind, payload)
	if err != nil {
		h.logError(err, "broadcast", map[string]string{"type": kind})
		return
	}
	for watcher := range h.watchers {
		select {
		case watcher.Receive <- msg:
		default:
			close(watcher.Receive)
			delete(h.watchers, watcher)
		}
	}
}

func (w *Watcher) WriteEvents() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		_ = w.Conn.Close()
	}()
	for {
		select {
		case msg, ok := <-w.Receive:
			_ = w.Conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				// The hub closed the channel.
				_ = w.Conn.WriteMessage(websocket.CloseMessage,
					websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""))
				return
			}

			writer, err := w.Conn.NextWriter(websocket.TextMessage)
			if err != nil {
				w.Hub.LeaveWatcher(w)
				return
			}
			_, _ = writer.Write(msg)

			n := len(w.Receive)
			for i := 0; i < n; i++ {
				next, ok := <-w.Receive
				if !ok {
					break
				}
				_, _ = writer.Write(newline)
				_, _ = writer.Write(next)
			}

			if err := writer.Close(); err != nil {
				w.Hub.LeaveWatcher(w)
				return
			}
		case <-ticker.C:
			_ = w.Conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := w.Conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				w.Hub.LeaveWatcher(w)
				return
			}
		}
	}
}

func (w *Watcher) ReadEvents() {
	defer w.Hub.LeaveWatcher(w)

	w.Conn.SetReadLimit(maxMessageSize)
	_ = w.Conn.SetReadDeadline(time.Now().Add(pongWait))
	w.Conn.SetPongHandler(func(string) error {
		_ = w.Conn.SetReadDeadline(time.Now().Add(pongWait))
		return nil
	})

	for {
		if _, _, err := w.Conn.ReadMessage(); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway,
				websocket.CloseAbnormalClosure) {
				w.Hub.logError(err, "watcher", nil)
			}
			return
		}
	}
}
