package game

import (
	"bytes"
	"encoding/json"
	"math"
	"testing"

	"github.com/pixil98/go-rts/internal/geom"
	"github.com/pixil98/go-rts/internal/protocol"
	"github.com/pixil98/go-testutil"
)

// skirmishDesc has two armies that walk into each other while builders keep
// summoning, so every phase of the tick has work to do.
func skirmishDesc() *GameDesc {
	d := testDesc()
	d.Units[1].Summons[0].Time = 0.3
	d.PlayerSpawns = []PlayerSpawnDesc{
		{Units: []UnitSpawnDesc{
			{Key: "builder", Pos: geom.New(-20, 0)},
			{Key: "soldier", Pos: geom.New(-6, 1)},
			{Key: "soldier", Pos: geom.New(-6, -1)},
			{Key: "worker", Pos: geom.New(-6, 0)},
		}},
		{Units: []UnitSpawnDesc{
			{Key: "builder", Pos: geom.New(20, 0)},
			{Key: "soldier", Pos: geom.New(6, 1)},
			{Key: "soldier", Pos: geom.New(6, -1)},
			{Key: "worker", Pos: geom.New(6, 0)},
		}},
	}
	return d
}

// skirmishInputs is the scripted input batch for a tick.
func skirmishInputs(tick int) []Input {
	var in []Input
	if tick%8 == 0 {
		in = append(in,
			commands(0, summon(0, 0)),
			commands(1, summon(4, 0)),
		)
	}
	if tick == 1 {
		in = append(in,
			commands(0, target(1, 0, 0), target(2, 0, 0), target(3, 1, 0)),
			commands(1, target(5, 0, 0), target(6, 0, 0), target(7, -1, 0)),
		)
	}
	if tick == 30 {
		// Stale and foreign ids mixed in with valid ones.
		in = append(in, commands(1, target(1, 50, 50), target(999, 0, 0), target(6, 2, 2)))
	}
	return in
}

func TestProperty_UnitIDsUniqueAndIncreasing(t *testing.T) {
	g := newTestGame(t, skirmishDesc())

	seen := map[uint32]bool{}
	var lastCreated int64 = -1
	for _, c := range g.CatchupMsg().Update.UnitCreate {
		seen[c.ID] = true
		lastCreated = int64(c.ID)
	}

	for tick := 1; tick <= 200; tick++ {
		g.ProcessInputs(skirmishInputs(tick))
		msg := g.Tick()
		for _, c := range msg.Update.UnitCreate {
			if seen[c.ID] {
				t.Fatalf("tick %d: unit id %d created twice", tick, c.ID)
			}
			if int64(c.ID) <= lastCreated {
				t.Fatalf("tick %d: unit id %d after %d", tick, c.ID, lastCreated)
			}
			seen[c.ID] = true
			lastCreated = int64(c.ID)
		}

		for i := 1; i < len(g.units); i++ {
			if g.units[i].id <= g.units[i-1].id {
				t.Fatalf("tick %d: live units out of id order", tick)
			}
		}
	}

	if len(seen) <= 8 {
		t.Fatalf("expected summons to create units, saw %d ids", len(seen))
	}
}

func TestProperty_CreatedOnceAfterCatchup(t *testing.T) {
	g := newTestGame(t, skirmishDesc())

	for tick := 1; tick <= 20; tick++ {
		g.ProcessInputs(skirmishInputs(tick))
		g.Tick()
	}

	// A client joining now sees the catch-up and every update after it.
	announced := map[uint32]int{}
	for _, c := range g.CatchupMsg().Update.UnitCreate {
		announced[c.ID]++
	}
	for tick := 21; tick <= 120; tick++ {
		g.ProcessInputs(skirmishInputs(tick))
		for _, c := range g.Tick().Update.UnitCreate {
			announced[c.ID]++
		}
	}

	for id, n := range announced {
		if n != 1 {
			t.Errorf("unit %d announced %d times", id, n)
		}
	}
}

func TestProperty_HPNonIncreasingUntilDeath(t *testing.T) {
	g := newTestGame(t, skirmishDesc())

	// Track reported hp by id, reconciling the positional change list with
	// the id stream the way a client does.
	var roster []uint32
	for _, c := range g.CatchupMsg().Update.UnitCreate {
		roster = append(roster, c.ID)
	}
	hp := map[uint32]float32{}
	gone := map[uint32]bool{}
	var dying []uint32

	for tick := 1; tick <= 300; tick++ {
		g.ProcessInputs(skirmishInputs(tick))
		msg := g.Tick()

		// Units reported dead last tick have been retired.
		for _, id := range dying {
			gone[id] = true
		}
		dying = nil
		live := roster[:0]
		for _, id := range roster {
			if !gone[id] {
				live = append(live, id)
			}
		}
		roster = live
		for _, c := range msg.Update.UnitCreate {
			roster = append(roster, c.ID)
		}

		if len(roster) != len(msg.Update.UnitChange) {
			t.Fatalf("tick %d: roster %d entries, change list %d", tick, len(roster), len(msg.Update.UnitChange))
		}
		for i, c := range msg.Update.UnitChange {
			id := roster[i]
			if prev, ok := hp[id]; ok && c.HP > prev {
				t.Fatalf("tick %d: unit %d hp rose from %v to %v", tick, id, prev, c.HP)
			}
			hp[id] = c.HP
			if c.Dead {
				dying = append(dying, id)
			}
		}
	}

	if len(gone) == 0 {
		t.Fatalf("expected some units to die")
	}
}

func TestProperty_NoFriendlyFire(t *testing.T) {
	g := newTestGame(t, skirmishDesc())
	owner := map[uint32]uint32{}
	for _, c := range g.CatchupMsg().Update.UnitCreate {
		owner[c.ID] = c.Client
	}

	damages := 0
	for tick := 1; tick <= 300; tick++ {
		g.ProcessInputs(skirmishInputs(tick))
		msg := g.Tick()
		for _, c := range msg.Update.UnitCreate {
			owner[c.ID] = c.Client
		}
		for _, dmg := range msg.Update.Damage {
			damages++
			if owner[dmg.From] == owner[dmg.To] {
				t.Fatalf("tick %d: unit %d hit friendly unit %d", tick, dmg.From, dmg.To)
			}
		}
	}

	if damages == 0 {
		t.Fatalf("expected the armies to fight")
	}
}

func TestProperty_ReloadSpacing(t *testing.T) {
	d := testDesc()
	d.Units[0].HP = 1000
	d.PlayerSpawns = []PlayerSpawnDesc{
		{Units: []UnitSpawnDesc{{Key: "soldier", Pos: geom.New(0, 0)}}},
		{Units: []UnitSpawnDesc{{Key: "worker", Pos: geom.New(2, 0)}, {Key: "worker", Pos: geom.New(-2, 0)}}},
	}
	g := newTestGame(t, d)

	delayTicks := int(math.Round(float64(d.Units[2].Attack.Delay / d.Dt)))
	lastShot := -1
	for tick := 1; tick <= 200; tick++ {
		for _, dmg := range g.Tick().Update.Damage {
			if dmg.From != 0 {
				continue
			}
			if lastShot >= 0 && tick-lastShot < delayTicks-1 {
				t.Fatalf("shots on ticks %d and %d, reload is %d ticks", lastShot, tick, delayTicks)
			}
			lastShot = tick
		}
	}
	if lastShot < 0 {
		t.Fatalf("expected the soldier to fire")
	}
}

func TestProperty_SettlesWithoutOrders(t *testing.T) {
	d := testDesc()
	d.PlayerSpawns = []PlayerSpawnDesc{
		{Units: []UnitSpawnDesc{
			{Key: "worker", Pos: geom.New(0, 0)},
			{Key: "worker", Pos: geom.New(0.5, 0.1)},
			{Key: "worker", Pos: geom.New(0.5, 0.1)},
		}},
		{Units: []UnitSpawnDesc{{Key: "builder", Pos: geom.New(0.2, -0.3)}}},
	}
	g := newTestGame(t, d)

	for range 400 {
		g.Tick()
	}

	for _, u := range g.units {
		if math.IsNaN(float64(u.pos.X)) || math.IsNaN(float64(u.pos.Y)) {
			t.Fatalf("unit %d has NaN position", u.id)
		}
		if u.vel.Magnitude() >= 1 || u.acc.Magnitude() >= 0.5 {
			t.Errorf("unit %d still moving: vel=%v acc=%v", u.id, u.vel, u.acc)
		}
		assertState(t, "state", u.state, idle())
	}
}

func TestProperty_Deterministic(t *testing.T) {
	run := func() [][]byte {
		g := newTestGame(t, skirmishDesc())
		var out [][]byte
		for tick := 1; tick <= 250; tick++ {
			g.ProcessInputs(skirmishInputs(tick))
			b, err := json.Marshal(g.Tick())
			if err != nil {
				t.Fatalf("encoding tick %d: %v", tick, err)
			}
			out = append(out, b)
		}
		return out
	}

	a, b := run(), run()
	testutil.AssertEqual(t, "tick count", len(a), len(b))
	for i := range a {
		if !bytes.Equal(a[i], b[i]) {
			t.Fatalf("tick %d diverged:\n%s\n%s", i+1, a[i], b[i])
		}
	}
}

func TestProperty_UpdateEncodesArrays(t *testing.T) {
	g := newTestGame(t, testDesc())
	b, err := protocol.Encode(g.Tick())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !bytes.Contains(b, []byte(`"damage":[]`)) || !bytes.Contains(b, []byte(`"unit_create":[]`)) {
		t.Errorf("expected empty arrays, got %s", b)
	}
}
