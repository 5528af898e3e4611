package listener

import (
	"errors"
	"log/slog"
	"sync"
	"time"

	"github.com/gorilla/websocket"
)

const sendBuffer = 256

var (
	errSessionClosed = errors.New("session closed")
	errSendOverflow  = errors.New("send buffer full")
)

// wsSession is one game client connection.
type wsSession struct {
	id   string
	conn *websocket.Conn
	send chan []byte

	done      chan struct{}
	closeOnce sync.Once
}

func newWsSession(id string, conn *websocket.Conn) *wsSession {
	return &wsSession{
		id:   id,
		conn: conn,
		send: make(chan []byte, sendBuffer),
		done: make(chan struct{}),
	}
}

func (s *wsSession) ID() string {
	return s.id
}

// Send queues data for the write pump. A client that falls a full buffer
// behind is disconnected.
func (s *wsSession) Send(data []byte) error {
	select {
	case <-s.done:
		return errSessionClosed
	default:
	}

	select {
	case s.send <- data:
		return nil
	default:
		s.close()
		return errSendOverflow
	}
}

func (s *wsSession) close() {
	s.closeOnce.Do(func() { close(s.done) })
}

func (s *wsSession) writePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		_ = s.conn.Close()
	}()

	for {
		select {
		case data := <-s.send:
			_ = s.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := s.conn.WriteMessage(websocket.TextMessage, data); err != nil {
				slog.Warn("writing websocket", "session", s.id, "error", err)
				s.close()
				return
			}
		case <-ticker.C:
			_ = s.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := s.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				s.close()
				return
			}
		case <-s.done:
			msg := websocket.FormatCloseMessage(websocket.CloseNormalClosure, "")
			_ = s.conn.WriteControl(websocket.CloseMessage, msg, time.Now().Add(writeWait))
			return
		}
	}
}

// reject closes a connection that never got a seat.
func (s *wsSession) reject(code int, reason string) {
	msg := websocket.FormatCloseMessage(code, reason)
	if err := s.conn.WriteControl(websocket.CloseMessage, msg, time.Now().Add(writeWait)); err != nil {
		slog.Debug("writing close message", "session", s.id, "error", err)
	}
	_ = s.conn.Close()
	s.close()
}
