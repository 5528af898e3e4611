package room

import "errors"

var (
	ErrRoomFull        = errors.New("room is full")
	ErrInvalidRoomName = errors.New("invalid room name")
	ErrRoomNotFound    = errors.New("room not found")
	ErrTooManyRooms    = errors.New("too many rooms")
)
