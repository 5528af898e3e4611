package game

import (
	"fmt"
	"log/slog"
	"slices"

	"github.com/pixil98/go-rts/internal/geom"
	"github.com/pixil98/go-rts/internal/protocol"
)

// Input is one decoded client message attributed to a player slot.
type Input struct {
	Player int
	Msg    protocol.ClientMsg
}

// Game owns the unit population of one room and advances it one fixed step
// at a time. It is not safe for concurrent use; a room's driver owns it.
type Game struct {
	desc *GameDesc

	// units is kept in ascending id order: spawns append with a fresh id and
	// retirement preserves order.
	units      []unit
	nextUnitID uint32
	damages    []protocol.DamageMsg
	ticks      uint64
}

// New validates desc and spawns every player's starting units in order.
func New(desc *GameDesc) (*Game, error) {
	if err := desc.Validate(); err != nil {
		return nil, fmt.Errorf("validating game description: %w", err)
	}

	g := &Game{
		desc:    desc.Clone(),
		damages: []protocol.DamageMsg{},
	}

	for player, spawn := range g.desc.PlayerSpawns {
		for _, s := range spawn.Units {
			ty, ok := g.desc.UnitIndex(s.Key)
			if !ok {
				return nil, fmt.Errorf("player %d: %w %q", player, ErrUnknownUnitKey, s.Key)
			}
			g.spawnUnit(ty, player, s.Pos)
		}
	}

	return g, nil
}

// Desc returns the game's own copy of its description.
func (g *Game) Desc() *GameDesc {
	return g.desc
}

// TickCount returns how many ticks have run.
func (g *Game) TickCount() uint64 {
	return g.ticks
}

func (g *Game) spawnUnit(ty, client int, pos geom.Vec2) {
	g.units = append(g.units, unit{
		id:     g.nextUnitID,
		client: client,
		ty:     ty,
		pos:    pos,
		state:  idle(),
		hp:     g.desc.Units[ty].HP,
		new:    true,
	})
	g.nextUnitID++
}

func (g *Game) unitByID(id uint32) *unit {
	i, ok := slices.BinarySearchFunc(g.units, id, func(u unit, id uint32) int {
		switch {
		case u.id < id:
			return -1
		case u.id > id:
			return 1
		}
		return 0
	})
	if !ok {
		return nil
	}
	return &g.units[i]
}

// ProcessInputs applies client intents in order without advancing physics.
// Commands for unknown units, for another player's units, or that are not
// allowed in the unit's current state are ignored.
func (g *Game) ProcessInputs(inputs []Input) {
	for _, in := range inputs {
		for _, cmd := range in.Msg.Commands {
			g.applyCommand(in.Player, cmd)
		}
	}
}

func (g *Game) applyCommand(player int, cmd protocol.UnitCommand) {
	u := g.unitByID(cmd.ID)
	if u == nil {
		slog.Debug("ignoring command for unknown unit", "player", player, "unit", cmd.ID)
		return
	}
	if u.client != player {
		slog.Debug("ignoring command for unit owned by another player", "player", player, "unit", cmd.ID, "owner", u.client)
		return
	}

	switch {
	case cmd.Cmd.Target != nil:
		u.state = moveTo(*cmd.Cmd.Target)
	case cmd.Cmd.Summon != nil:
		g.orderSummon(u, *cmd.Cmd.Summon)
	}
}

// Tick advances the simulation by one step of desc.Dt and returns the update
// describing it. The phase order is fixed.
func (g *Game) Tick() protocol.ServerMsg {
	g.ticks++

	g.retireDead()
	g.integratePositions()
	g.computeForces()
	g.settleArrivals()
	g.resolveSummons()
	g.resolveAttacks()
	g.integrateVelocities()

	msg := g.updateMsg()
	for i := range g.units {
		g.units[i].new = false
	}
	return protocol.ServerMsg{Update: msg}
}

func (g *Game) retireDead() {
	g.units = slices.DeleteFunc(g.units, func(u unit) bool {
		return u.dead
	})
	for i := range g.units {
		g.units[i].new = false
	}
}

func (g *Game) updateMsg() *protocol.UpdateMsg {
	msg := protocol.NewUpdateMsg()
	for i := range g.units {
		u := &g.units[i]
		if u.new {
			msg.UnitCreate = append(msg.UnitCreate, u.createMsg())
		}
		msg.UnitChange = append(msg.UnitChange, u.changeMsg())
	}
	msg.Damage = g.damages
	return msg
}

// CatchupMsg returns the full roster for a client joining between ticks.
// Units already flagged dead are left out; they are retired before the next
// update is built, so the change lists of both messages stay aligned.
func (g *Game) CatchupMsg() protocol.ServerMsg {
	msg := protocol.NewUpdateMsg()
	for i := range g.units {
		u := &g.units[i]
		if u.dead {
			continue
		}
		msg.UnitCreate = append(msg.UnitCreate, u.createMsg())
		msg.UnitChange = append(msg.UnitChange, u.changeMsg())
	}
	return protocol.ServerMsg{Update: msg}
}
