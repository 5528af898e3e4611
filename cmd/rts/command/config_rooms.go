package command

import (
	"fmt"
	"time"

	"github.com/pixil98/go-errors"
	"github.com/pixil98/go-rts/internal/game"
	"github.com/pixil98/go-rts/internal/room"
)

type RoomsConfig struct {
	InputBuffer  int    `json:"input_buffer"`
	EmptyRoomTTL string `json:"empty_room_ttl"`
	MaxRooms     int    `json:"max_rooms"`
}

func (c *RoomsConfig) validate() error {
	el := errors.NewErrorList()

	if c.InputBuffer < 0 {
		el.Add(fmt.Errorf("input_buffer must not be negative"))
	}
	if c.MaxRooms < 0 {
		el.Add(fmt.Errorf("max_rooms must not be negative"))
	}
	if c.EmptyRoomTTL != "" {
		d, err := time.ParseDuration(c.EmptyRoomTTL)
		if err != nil {
			el.Add(fmt.Errorf("parsing empty_room_ttl: %w", err))
		} else if d < 0 {
			el.Add(fmt.Errorf("empty_room_ttl must not be negative"))
		}
	}

	return el.Err()
}

func (c *RoomsConfig) BuildManager(desc *game.GameDesc, bus room.Bus) (*room.Manager, error) {
	opts := []room.ManagerOpt{
		room.WithInputBuffer(c.InputBuffer),
		room.WithMaxRooms(c.MaxRooms),
	}
	if c.EmptyRoomTTL != "" {
		d, err := time.ParseDuration(c.EmptyRoomTTL)
		if err != nil {
			return nil, fmt.Errorf("parsing empty_room_ttl: %w", err)
		}
		opts = append(opts, room.WithEmptyRoomTTL(d))
	}

	return room.NewManager(desc, bus, opts...)
}
