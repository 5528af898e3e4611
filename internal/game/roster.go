package game

import "github.com/pixil98/go-rts/internal/geom"

// UnitStatus is a read-only view of a live unit.
type UnitStatus struct {
	ID        uint32
	Client    int
	Key       string
	Pos       geom.Vec2
	HP        float32
	MaxHP     float32
	State     string
	Summoning string
	Dead      bool
}

// Roster lists every unit in live order.
func (g *Game) Roster() []UnitStatus {
	out := make([]UnitStatus, 0, len(g.units))
	for i := range g.units {
		u := &g.units[i]
		ud := &g.desc.Units[u.ty]

		st := UnitStatus{
			ID:     u.id,
			Client: u.client,
			Key:    ud.Key,
			Pos:    u.pos,
			HP:     u.hp,
			MaxHP:  ud.HP,
			State:  u.state.String(),
			Dead:   u.dead,
		}
		if u.summon != nil {
			st.Summoning = g.desc.Units[u.summon.unitTy].Key
		}
		out = append(out, st)
	}
	return out
}
