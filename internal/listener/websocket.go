package listener

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"syscall"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"github.com/pixil98/go-rts/internal/game"
	"github.com/pixil98/go-rts/internal/protocol"
	"github.com/pixil98/go-rts/internal/room"
	"golang.org/x/time/rate"
)

const (
	writeWait      = 10 * time.Second
	pongWait       = 60 * time.Second
	pingPeriod     = pongWait * 9 / 10
	maxMessageSize = 64 * 1024
	shutdownWait   = 5 * time.Second
)

// Rooms is the room directory game clients are seated in.
type Rooms interface {
	Desc() *game.GameDesc
	Join(ctx context.Context, name string, sess room.Session) (room.Seat, error)
	Leave(ctx context.Context, seat room.Seat)
	Submit(ctx context.Context, in room.Input) error
}

// WebsocketListener serves game clients on /socket/{room}.
type WebsocketListener struct {
	port     uint16
	rooms    Rooms
	upgrader websocket.Upgrader

	messageRate  rate.Limit
	messageBurst int
}

func NewWebsocketListener(port uint16, rooms Rooms, opts ...WebsocketOpt) *WebsocketListener {
	l := &WebsocketListener{
		port:  port,
		rooms: rooms,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin:     func(*http.Request) bool { return true },
		},
		messageRate:  rate.Inf,
		messageBurst: 1,
	}

	for _, opt := range opts {
		opt(l)
	}

	return l
}

func (l *WebsocketListener) Start(ctx context.Context) error {
	listener, err := net.Listen("tcp", fmt.Sprintf(":%d", l.port))
	if err != nil {
		if errors.Is(err, syscall.EADDRINUSE) {
			return fmt.Errorf("port %d is already in use (another server running?)", l.port)
		}
		return fmt.Errorf("listening on port %d: %w", l.port, err)
	}

	srv := &http.Server{
		Handler:     l.Handler(),
		BaseContext: func(net.Listener) context.Context { return ctx },
	}

	slog.InfoContext(ctx, "listening for websockets", "port", l.port)

	errCh := make(chan error, 1)
	go func() { errCh <- srv.Serve(listener) }()

	select {
	case err := <-errCh:
		return fmt.Errorf("serving websockets on port %d: %w", l.port, err)
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownWait)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutting down websocket server: %w", err)
	}

	return nil
}

// Handler routes game client requests.
func (l *WebsocketListener) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /socket/{room}", l.serveSocket)
	mux.HandleFunc("GET /desc", l.serveDesc)
	return mux
}

func (l *WebsocketListener) serveDesc(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(l.rooms.Desc()); err != nil {
		slog.ErrorContext(r.Context(), "writing game description", "error", err)
	}
}

func (l *WebsocketListener) serveSocket(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	name := r.PathValue("room")

	conn, err := l.upgrader.Upgrade(w, r, nil)
	if err != nil {
		slog.WarnContext(ctx, "upgrading websocket", "remote", r.RemoteAddr, "error", err)
		return
	}

	sess := newWsSession(uuid.NewString(), conn)
	slog.InfoContext(ctx, "websocket connected", "session", sess.id, "remote", r.RemoteAddr, "room", name)

	seat, err := l.rooms.Join(ctx, name, sess)
	if err != nil {
		slog.WarnContext(ctx, "joining room", "session", sess.id, "room", name, "error", err)
		sess.reject(joinCloseCode(err), err.Error())
		return
	}

	writerDone := make(chan struct{})
	go func() {
		defer close(writerDone)
		sess.writePump()
	}()

	// Shutdown and send failures both end the read pump by closing the conn.
	go func() {
		select {
		case <-ctx.Done():
			sess.close()
		case <-sess.done:
		}
	}()

	l.readPump(ctx, sess, seat)

	l.rooms.Leave(ctx, seat)
	sess.close()
	<-writerDone

	slog.InfoContext(ctx, "websocket disconnected", "session", sess.id, "room", seat.Room, "player", seat.Player)
}

func (l *WebsocketListener) readPump(ctx context.Context, sess *wsSession, seat room.Seat) {
	conn := sess.conn
	conn.SetReadLimit(maxMessageSize)
	_ = conn.SetReadDeadline(time.Now().Add(pongWait))
	conn.SetPongHandler(func(string) error {
		return conn.SetReadDeadline(time.Now().Add(pongWait))
	})

	limiter := rate.NewLimiter(l.messageRate, l.messageBurst)

	for {
		_, data, err := conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				slog.WarnContext(ctx, "reading websocket", "session", sess.id, "error", err)
			}
			return
		}

		if !limiter.Allow() {
			slog.WarnContext(ctx, "rate limit exceeded, dropping message", "session", sess.id)
			continue
		}

		msg, err := protocol.DecodeClientMsg(data)
		if err != nil {
			slog.WarnContext(ctx, "dropping malformed message", "session", sess.id, "error", err)
			continue
		}

		err = l.rooms.Submit(ctx, room.Input{Room: seat.Room, Player: seat.Player, Msg: msg})
		if err != nil {
			return
		}
	}
}

func joinCloseCode(err error) int {
	switch {
	case errors.Is(err, room.ErrRoomFull), errors.Is(err, room.ErrTooManyRooms):
		return websocket.CloseTryAgainLater
	case errors.Is(err, room.ErrInvalidRoomName):
		return websocket.ClosePolicyViolation
	default:
		return websocket.CloseInternalServerErr
	}
}
