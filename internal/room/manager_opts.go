package room

import "time"

type ManagerOpt func(*Manager)

// WithInputBuffer sets the capacity of the shared input channel.
func WithInputBuffer(n int) ManagerOpt {
	return func(m *Manager) {
		if n > 0 {
			m.inputBuffer = n
		}
	}
}

// WithEmptyRoomTTL drops rooms that have had no players for d of game time.
// Zero keeps empty rooms forever.
func WithEmptyRoomTTL(d time.Duration) ManagerOpt {
	return func(m *Manager) {
		m.emptyRoomTTL = d
	}
}

// WithMaxRooms caps the number of concurrent rooms. Zero means unlimited.
func WithMaxRooms(n int) ManagerOpt {
	return func(m *Manager) {
		m.maxRooms = n
	}
}
