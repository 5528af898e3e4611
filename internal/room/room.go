package room

import (
	"time"

	"github.com/pixil98/go-rts/internal/game"
)

// seat is an occupied player slot.
type seat struct {
	session     Session
	unsubscribe func()
}

type room struct {
	name  string
	game  *game.Game
	seats []*seat

	// emptyTicks counts consecutive ticks with no occupied seat.
	emptyTicks int
}

func newRoom(name string, g *game.Game) *room {
	return &room{
		name:  name,
		game:  g,
		seats: make([]*seat, g.Desc().Slots()),
	}
}

// freeSlot returns the lowest unoccupied slot.
func (r *room) freeSlot() (int, bool) {
	for i, s := range r.seats {
		if s == nil {
			return i, true
		}
	}
	return 0, false
}

func (r *room) players() int {
	n := 0
	for _, s := range r.seats {
		if s != nil {
			n++
		}
	}
	return n
}

// emptyFor is the game time the room has spent without players.
func (r *room) emptyFor() time.Duration {
	dt := float64(r.game.Desc().Dt)
	return time.Duration(float64(r.emptyTicks) * dt * float64(time.Second))
}

// RoomInfo is a read-only summary of a room.
type RoomInfo struct {
	Name    string
	Players int
	Slots   int
	Units   int
	Ticks   uint64
}

func (r *room) liveUnits() int {
	n := 0
	for _, u := range r.game.Roster() {
		if !u.Dead {
			n++
		}
	}
	return n
}

func (r *room) info() RoomInfo {
	return RoomInfo{
		Name:    r.name,
		Players: r.players(),
		Slots:   len(r.seats),
		Units:   r.liveUnits(),
		Ticks:   r.game.TickCount(),
	}
}
