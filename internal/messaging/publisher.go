package messaging

// RoomSubject is the subject every update for a room is published on.
func RoomSubject(room string) string {
	return "room." + room
}

// RoomBus fans room updates out over NATS.
type RoomBus struct {
	server *NatsServer
}

func NewRoomBus(server *NatsServer) *RoomBus {
	return &RoomBus{server: server}
}

func (b *RoomBus) PublishRoom(room string, data []byte) error {
	return b.server.Publish(RoomSubject(room), data)
}

func (b *RoomBus) SubscribeRoom(room string, handler func(data []byte)) (func(), error) {
	return b.server.Subscribe(RoomSubject(room), handler)
}
