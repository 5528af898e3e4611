package game

import (
	"github.com/pixil98/go-rts/internal/geom"
	"github.com/pixil98/go-rts/internal/protocol"
)

type stateKind int

const (
	stateIdle stateKind = iota
	stateMove
)

// unitState is either Idle or Move(target).
type unitState struct {
	kind   stateKind
	target geom.Vec2
}

func idle() unitState {
	return unitState{kind: stateIdle}
}

func moveTo(target geom.Vec2) unitState {
	return unitState{kind: stateMove, target: target}
}

func (s unitState) String() string {
	if s.kind == stateMove {
		return "move"
	}
	return "idle"
}

// summonOrder is an in-progress summon. delay counts down to zero.
type summonOrder struct {
	unitTy int
	delay  float32
}

// unit is a live instance. Kinematic vectors are per second.
type unit struct {
	id     uint32
	client int
	ty     int

	pos  geom.Vec2
	vel  geom.Vec2
	acc  geom.Vec2
	disp geom.Vec2

	state  unitState
	summon *summonOrder

	hp     float32
	reload float32

	new  bool
	dead bool
}

func (u *unit) createMsg() protocol.UnitCreateMsg {
	return protocol.UnitCreateMsg{
		ID:     u.id,
		Ty:     uint32(u.ty),
		Client: uint32(u.client),
	}
}

func (u *unit) changeMsg() protocol.UnitChangeMsg {
	return protocol.UnitChangeMsg{
		Pos:  u.pos,
		Disp: u.disp,
		HP:   u.hp,
		Dead: u.dead,
	}
}
