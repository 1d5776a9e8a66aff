package websocket

import (
	"encoding/json"

	"github.com/gorilla/websocket"

	"unimarket/pkg/logger"
)

// Stream pumps JSON frames to a single WebSocket connection. Reading and
// writing run on their own goroutines; Done is closed as soon as either pump
// stops, which tells the owner to cancel the store subscription feeding it.
type Stream struct {
	conn *websocket.Conn
	send chan []byte
	done chan struct{}
}

func NewStream(conn *websocket.Conn) *Stream {
	return &Stream{
		conn: conn,
		send: make(chan []byte, 16),
		done: make(chan struct{}),
	}
}

// Done is closed when the connection is no longer usable.
func (s *Stream) Done() <-chan struct{} {
	return s.done
}

// SendJSON queues a frame for delivery. Frames are dropped once the
// connection is closing.
func (s *Stream) SendJSON(v interface{}) {
	data, err := json.Marshal(v)
	if err != nil {
		logger.Error("Stream: failed to marshal frame: %v", err)
		return
	}

	select {
	case s.send <- data:
	case <-s.done:
	}
}

// Close tears the connection down. Safe to call alongside pump exits.
func (s *Stream) Close() {
	select {
	case <-s.done:
	default:
		close(s.done)
	}
	s.conn.Close()
}

// ReadPump drains client frames until the peer disconnects. Incoming content
// is ignored; the socket is server-push only.
func (s *Stream) ReadPump() {
	defer s.Close()

	for {
		if _, _, err := s.conn.ReadMessage(); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure, websocket.CloseAbnormalClosure) {
				logger.Warn("Stream: read error: %v", err)
			}
			return
		}
	}
}

// WritePump delivers queued frames in order until the stream is closed.
func (s *Stream) WritePump() {
	defer s.Close()

	for {
		select {
		case data := <-s.send:
			if err := s.conn.WriteMessage(websocket.TextMessage, data); err != nil {
				logger.Warn("Stream: write error: %v", err)
				return
			}
		case <-s.done:
			s.conn.WriteMessage(websocket.CloseMessage, []byte{})
			return
		}
	}
}
