package game

import (
	"log/slog"

	"github.com/pixil98/go-rts/internal/geom"
)

// orderSummon starts a summon of type ty on u if u's type can summon it and u
// is not already summoning.
func (g *Game) orderSummon(u *unit, ty uint32) {
	if int64(ty) >= int64(len(g.desc.Units)) {
		slog.Debug("ignoring summon of unknown unit type", "unit", u.id, "type", ty)
		return
	}
	if u.summon != nil {
		slog.Debug("ignoring summon while busy", "unit", u.id)
		return
	}

	s, ok := g.desc.Units[u.ty].summonFor(g.desc.Units[ty].Key)
	if !ok {
		slog.Debug("ignoring summon not offered by unit type", "unit", u.id, "type", ty)
		return
	}

	u.summon = &summonOrder{unitTy: int(ty), delay: s.Time}
}

type pendingSpawn struct {
	ty     int
	client int
	pos    geom.Vec2
}

// resolveSummons counts down active summons. Finished summons spawn their
// unit beside the summoner once the loop is done, so the unit slice is not
// extended while it is being walked.
func (g *Game) resolveSummons() {
	dt := g.desc.Dt

	var spawns []pendingSpawn
	for i := range g.units {
		u := &g.units[i]
		if u.summon == nil {
			continue
		}

		u.summon.delay -= dt
		if u.summon.delay > 0 {
			continue
		}

		offset := geom.New(0, 2*g.desc.Units[u.ty].Size)
		spawns = append(spawns, pendingSpawn{
			ty:     u.summon.unitTy,
			client: u.client,
			pos:    u.pos.Add(offset),
		})
		u.summon = nil
	}

	for _, s := range spawns {
		g.spawnUnit(s.ty, s.client, s.pos)
	}
}
