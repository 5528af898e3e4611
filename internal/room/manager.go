package room

import (
	"context"
	"fmt"
	"log/slog"
	"maps"
	"regexp"
	"slices"
	"sync"
	"time"

	"github.com/pixil98/go-rts/internal/game"
	"github.com/pixil98/go-rts/internal/protocol"
)

const defaultInputBuffer = 1024

var roomNamePattern = regexp.MustCompile(`^[a-zA-Z0-9_-]{1,32}$`)

// ValidName reports whether name can be used as a room name.
func ValidName(name string) bool {
	return roomNamePattern.MatchString(name)
}

// Session is a connected client. Send must not block.
type Session interface {
	ID() string
	Send(data []byte) error
}

// Bus carries encoded room updates to every subscribed session.
type Bus interface {
	PublishRoom(room string, data []byte) error
	SubscribeRoom(room string, handler func(data []byte)) (func(), error)
}

// Input is a client message addressed to a player slot in a room.
type Input struct {
	Room   string
	Player int
	Msg    protocol.ClientMsg
}

// Seat identifies the slot a session holds.
type Seat struct {
	Room   string
	Player int
}

// Manager owns every room. Its Tick advances all of them.
type Manager struct {
	desc *game.GameDesc
	bus  Bus

	inputBuffer  int
	emptyRoomTTL time.Duration
	maxRooms     int

	inputs chan Input

	mu    sync.Mutex
	rooms map[string]*room
}

func NewManager(desc *game.GameDesc, bus Bus, opts ...ManagerOpt) (*Manager, error) {
	if err := desc.Validate(); err != nil {
		return nil, fmt.Errorf("validating game description: %w", err)
	}

	m := &Manager{
		desc:        desc.Clone(),
		bus:         bus,
		inputBuffer: defaultInputBuffer,
		rooms:       map[string]*room{},
	}

	for _, opt := range opts {
		opt(m)
	}

	m.inputs = make(chan Input, m.inputBuffer)

	return m, nil
}

// Desc returns the game description every room is built from.
func (m *Manager) Desc() *game.GameDesc {
	return m.desc
}

// Join seats sess in the lowest free slot of the named room, creating the room
// if needed. The session receives its Room message and a catch-up update
// before any tick update.
func (m *Manager) Join(ctx context.Context, name string, sess Session) (Seat, error) {
	if !ValidName(name) {
		return Seat{}, fmt.Errorf("%w: %q", ErrInvalidRoomName, name)
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	r, ok := m.rooms[name]
	created := !ok
	if created {
		if m.maxRooms > 0 && len(m.rooms) >= m.maxRooms {
			return Seat{}, ErrTooManyRooms
		}

		g, err := game.New(m.desc)
		if err != nil {
			return Seat{}, fmt.Errorf("creating game: %w", err)
		}
		r = newRoom(name, g)
		m.rooms[name] = r
		slog.InfoContext(ctx, "room created", "room", name)
	}

	slot, err := m.sit(r, sess)
	if err != nil {
		if created {
			delete(m.rooms, name)
			slog.InfoContext(ctx, "room discarded", "room", name, "error", err)
		}
		return Seat{}, err
	}

	slog.InfoContext(ctx, "player joined", "room", name, "player", slot, "session", sess.ID())

	return Seat{Room: name, Player: slot}, nil
}

// sit takes the lowest free slot of r for sess. Called with m.mu held.
func (m *Manager) sit(r *room, sess Session) (int, error) {
	slot, ok := r.freeSlot()
	if !ok {
		return 0, ErrRoomFull
	}

	// Subscribing under the lock orders the catch-up before the next update.
	unsubscribe, err := m.bus.SubscribeRoom(r.name, func(data []byte) {
		if err := sess.Send(data); err != nil {
			slog.Debug("dropping update", "session", sess.ID(), "room", r.name, "error", err)
		}
	})
	if err != nil {
		return 0, fmt.Errorf("subscribing to room: %w", err)
	}

	err = m.greet(r, slot, sess)
	if err != nil {
		unsubscribe()
		return 0, err
	}

	r.seats[slot] = &seat{session: sess, unsubscribe: unsubscribe}
	r.emptyTicks = 0
	return slot, nil
}

func (m *Manager) greet(r *room, slot int, sess Session) error {
	for _, msg := range []protocol.ServerMsg{
		protocol.NewRoomMsg(uint32(slot), r.name),
		r.game.CatchupMsg(),
	} {
		data, err := protocol.Encode(msg)
		if err != nil {
			return fmt.Errorf("encoding greeting: %w", err)
		}
		if err := sess.Send(data); err != nil {
			return fmt.Errorf("sending greeting: %w", err)
		}
	}
	return nil
}

// Leave releases a seat. Inputs already submitted for it are still applied.
func (m *Manager) Leave(ctx context.Context, s Seat) {
	m.mu.Lock()
	defer m.mu.Unlock()

	r, ok := m.rooms[s.Room]
	if !ok || s.Player < 0 || s.Player >= len(r.seats) {
		return
	}

	st := r.seats[s.Player]
	if st == nil {
		return
	}
	st.unsubscribe()
	r.seats[s.Player] = nil

	slog.InfoContext(ctx, "player left", "room", s.Room, "player", s.Player, "session", st.session.ID())
}

// Submit queues an input for the next tick. It blocks while the input buffer
// is full.
func (m *Manager) Submit(ctx context.Context, in Input) error {
	select {
	case m.inputs <- in:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Tick applies every queued input and advances each room by one step.
func (m *Manager) Tick(ctx context.Context) error {
	pending := m.drain()

	m.mu.Lock()
	defer m.mu.Unlock()

	for name, inputs := range pending {
		if _, ok := m.rooms[name]; !ok {
			slog.DebugContext(ctx, "dropping inputs for missing room", "room", name, "count", len(inputs))
		}
	}

	for _, name := range slices.Sorted(maps.Keys(m.rooms)) {
		r := m.rooms[name]

		r.game.ProcessInputs(pending[name])
		msg := r.game.Tick()

		data, err := protocol.Encode(msg)
		if err != nil {
			slog.ErrorContext(ctx, "encoding update", "room", name, "error", err)
		} else if err := m.bus.PublishRoom(name, data); err != nil {
			slog.ErrorContext(ctx, "publishing update", "room", name, "error", err)
		}

		m.expire(ctx, r)
	}

	return nil
}

func (m *Manager) drain() map[string][]game.Input {
	pending := map[string][]game.Input{}
	for {
		select {
		case in := <-m.inputs:
			pending[in.Room] = append(pending[in.Room], game.Input{Player: in.Player, Msg: in.Msg})
		default:
			return pending
		}
	}
}

func (m *Manager) expire(ctx context.Context, r *room) {
	if r.players() > 0 {
		r.emptyTicks = 0
		return
	}

	r.emptyTicks++
	if m.emptyRoomTTL > 0 && r.emptyFor() >= m.emptyRoomTTL {
		delete(m.rooms, r.name)
		slog.InfoContext(ctx, "room dropped", "room", r.name, "ticks", r.game.TickCount())
	}
}

// Rooms lists every room in name order.
func (m *Manager) Rooms() []RoomInfo {
	m.mu.Lock()
	defer m.mu.Unlock()

	out := make([]RoomInfo, 0, len(m.rooms))
	for _, name := range slices.Sorted(maps.Keys(m.rooms)) {
		out = append(out, m.rooms[name].info())
	}
	return out
}

// Roster lists the units of a room.
func (m *Manager) Roster(name string) ([]game.UnitStatus, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	r, ok := m.rooms[name]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrRoomNotFound, name)
	}
	return r.game.Roster(), nil
}
