package protocol

import (
	"github.com/pixil98/go-rts/internal/geom"
)

// ClientMsg is the only message a client sends. It is encoded as
// {"Commands": [[unit_id, UnitCmd], ...]}.
type ClientMsg struct {
	Commands []UnitCommand `json:"Commands"`
}

// UnitCommand addresses a UnitCmd to a unit by id. On the wire it is a two
// element array: [id, cmd].
type UnitCommand struct {
	ID  uint32
	Cmd UnitCmd
}

// UnitCmd is a tagged union; exactly one field is set.
type UnitCmd struct {
	Target *geom.Vec2 `json:"Target,omitempty"`
	Summon *uint32    `json:"Summon,omitempty"`
}

// TargetCmd builds a move order.
func TargetCmd(pos geom.Vec2) UnitCmd {
	return UnitCmd{Target: &pos}
}

// SummonCmd builds a summon order for the unit type at index ty.
func SummonCmd(ty uint32) UnitCmd {
	return UnitCmd{Summon: &ty}
}

// ServerMsg is a tagged union; exactly one field is set.
type ServerMsg struct {
	Room   *RoomMsg   `json:"Room,omitempty"`
	Update *UpdateMsg `json:"Update,omitempty"`
}

// RoomMsg tells a freshly connected client which slot it plays.
type RoomMsg struct {
	ClientID uint32 `json:"client_id"`
	Room     string `json:"room"`
}

// UpdateMsg is the per-tick delta. UnitChange is positionally aligned with
// the live unit order; clients learn ids from the UnitCreate stream.
type UpdateMsg struct {
	UnitCreate []UnitCreateMsg `json:"unit_create"`
	UnitChange []UnitChangeMsg `json:"unit_change"`
	Damage     []DamageMsg     `json:"damage"`
}

type UnitCreateMsg struct {
	ID     uint32 `json:"id"`
	Ty     uint32 `json:"ty"`
	Client uint32 `json:"client"`
}

type UnitChangeMsg struct {
	Pos  geom.Vec2 `json:"pos"`
	Disp geom.Vec2 `json:"disp"`
	HP   float32   `json:"hp"`
	Dead bool      `json:"dead"`
}

// DamageMsg reports one hit. From and To are stable unit ids.
type DamageMsg struct {
	From uint32 `json:"from"`
	To   uint32 `json:"to"`
}

// NewRoomMsg wraps a RoomMsg in a ServerMsg.
func NewRoomMsg(clientID uint32, room string) ServerMsg {
	return ServerMsg{Room: &RoomMsg{ClientID: clientID, Room: room}}
}

// NewUpdateMsg returns an empty update with non-nil lists so that the
// encoded form always carries arrays.
func NewUpdateMsg() *UpdateMsg {
	return &UpdateMsg{
		UnitCreate: []UnitCreateMsg{},
		UnitChange: []UnitChangeMsg{},
		Damage:     []DamageMsg{},
	}
}
