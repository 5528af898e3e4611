package game

import (
	"testing"

	"github.com/pixil98/go-rts/internal/geom"
	"github.com/pixil98/go-rts/internal/protocol"
	"github.com/pixil98/go-testutil"
)

func newTestGame(t *testing.T, d *GameDesc) *Game {
	t.Helper()
	g, err := New(d)
	if err != nil {
		t.Fatalf("creating game: %v", err)
	}
	return g
}

func commands(player int, cmds ...protocol.UnitCommand) Input {
	return Input{Player: player, Msg: protocol.ClientMsg{Commands: cmds}}
}

func target(id uint32, x, y float32) protocol.UnitCommand {
	return protocol.UnitCommand{ID: id, Cmd: protocol.TargetCmd(geom.New(x, y))}
}

func summon(id, ty uint32) protocol.UnitCommand {
	return protocol.UnitCommand{ID: id, Cmd: protocol.SummonCmd(ty)}
}

func assertState(t *testing.T, name string, got, exp unitState) {
	t.Helper()
	testutil.AssertEqual(t, name+" kind", got.kind, exp.kind)
	testutil.AssertEqual(t, name+" target", got.target, exp.target)
}

func TestNew(t *testing.T) {
	d := testDesc()
	d.PlayerSpawns = []PlayerSpawnDesc{
		{Units: []UnitSpawnDesc{{Key: "builder", Pos: geom.New(1, 1)}, {Key: "worker", Pos: geom.New(2, 2)}}},
		{Units: []UnitSpawnDesc{{Key: "soldier", Pos: geom.New(9, 9)}}},
	}

	g := newTestGame(t, d)

	testutil.AssertEqual(t, "unit count", len(g.units), 3)
	exp := []struct {
		id     uint32
		client int
		ty     int
		hp     float32
		pos    geom.Vec2
	}{
		{0, 0, 1, 100, geom.New(1, 1)},
		{1, 0, 0, 50, geom.New(2, 2)},
		{2, 1, 2, 100, geom.New(9, 9)},
	}
	for i, e := range exp {
		u := g.units[i]
		testutil.AssertEqual(t, "id", u.id, e.id)
		testutil.AssertEqual(t, "client", u.client, e.client)
		testutil.AssertEqual(t, "ty", u.ty, e.ty)
		testutil.AssertEqual(t, "hp", u.hp, e.hp)
		testutil.AssertEqual(t, "pos", u.pos, e.pos)
		testutil.AssertEqual(t, "new", u.new, true)
		testutil.AssertEqual(t, "state", u.state.kind, stateIdle)
	}
	testutil.AssertEqual(t, "next id", g.nextUnitID, uint32(3))
}

func TestNew_UnknownKey(t *testing.T) {
	d := testDesc()
	d.PlayerSpawns[0].Units[0].Key = "dragon"

	_, err := New(d)
	testutil.AssertErrorContains(t, err, "unknown unit key")
}

func TestNew_DoesNotShareDesc(t *testing.T) {
	d := testDesc()
	g := newTestGame(t, d)

	d.Units[0].HP = 1
	testutil.AssertEqual(t, "hp", g.Desc().Units[0].HP, float32(50))
}

func TestProcessInputs(t *testing.T) {
	tests := map[string]struct {
		spawns    []PlayerSpawnDesc
		setup     func(g *Game)
		inputs    []Input
		expState  []unitState
		expSummon []*summonOrder
	}{
		"target sets move": {
			inputs:   []Input{commands(0, target(0, 5, 5))},
			expState: []unitState{moveTo(geom.New(5, 5)), idle()},
		},
		"later target overrides earlier": {
			inputs: []Input{
				commands(0, target(0, 5, 5)),
				commands(0, target(0, -1, 2)),
			},
			expState: []unitState{moveTo(geom.New(-1, 2)), idle()},
		},
		"unknown unit is ignored": {
			inputs:   []Input{commands(0, target(42, 5, 5))},
			expState: []unitState{idle(), idle()},
		},
		"other player's unit is ignored": {
			inputs:   []Input{commands(0, target(1, 5, 5))},
			expState: []unitState{idle(), idle()},
		},
		"bad command does not stop the batch": {
			inputs:   []Input{commands(1, target(0, 3, 3), target(99, 1, 1), target(1, 4, 4))},
			expState: []unitState{idle(), moveTo(geom.New(4, 4))},
		},
		"summon offered by type": {
			spawns: []PlayerSpawnDesc{
				{Units: []UnitSpawnDesc{{Key: "builder"}}},
				{Units: []UnitSpawnDesc{{Key: "worker", Pos: geom.New(10, 0)}}},
			},
			inputs:    []Input{commands(0, summon(0, 0))},
			expState:  []unitState{idle(), idle()},
			expSummon: []*summonOrder{{unitTy: 0, delay: 0.5}, nil},
		},
		"summon not offered by type": {
			spawns: []PlayerSpawnDesc{
				{Units: []UnitSpawnDesc{{Key: "builder"}}},
				{Units: []UnitSpawnDesc{{Key: "worker", Pos: geom.New(10, 0)}}},
			},
			inputs:    []Input{commands(0, summon(0, 2))},
			expState:  []unitState{idle(), idle()},
			expSummon: []*summonOrder{nil, nil},
		},
		"summon of out of range type": {
			spawns: []PlayerSpawnDesc{
				{Units: []UnitSpawnDesc{{Key: "builder"}}},
				{Units: []UnitSpawnDesc{{Key: "worker", Pos: geom.New(10, 0)}}},
			},
			inputs:    []Input{commands(0, summon(0, 1<<31))},
			expState:  []unitState{idle(), idle()},
			expSummon: []*summonOrder{nil, nil},
		},
		"summon while busy": {
			spawns: []PlayerSpawnDesc{
				{Units: []UnitSpawnDesc{{Key: "builder"}}},
				{Units: []UnitSpawnDesc{{Key: "worker", Pos: geom.New(10, 0)}}},
			},
			setup: func(g *Game) {
				g.units[0].summon = &summonOrder{unitTy: 0, delay: 0.1}
			},
			inputs:    []Input{commands(0, summon(0, 0))},
			expState:  []unitState{idle(), idle()},
			expSummon: []*summonOrder{{unitTy: 0, delay: 0.1}, nil},
		},
		"summon by other player": {
			spawns: []PlayerSpawnDesc{
				{Units: []UnitSpawnDesc{{Key: "builder"}}},
				{Units: []UnitSpawnDesc{{Key: "worker", Pos: geom.New(10, 0)}}},
			},
			inputs:    []Input{commands(1, summon(0, 0))},
			expState:  []unitState{idle(), idle()},
			expSummon: []*summonOrder{nil, nil},
		},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			d := testDesc()
			if tt.spawns != nil {
				d.PlayerSpawns = tt.spawns
			}
			g := newTestGame(t, d)
			if tt.setup != nil {
				tt.setup(g)
			}

			g.ProcessInputs(tt.inputs)

			for i, exp := range tt.expState {
				assertState(t, "state", g.units[i].state, exp)
			}
			for i, exp := range tt.expSummon {
				if exp == nil {
					testutil.AssertEqual(t, "summon", g.units[i].summon == nil, true)
					continue
				}
				if g.units[i].summon == nil {
					t.Fatalf("unit %d: expected summon order", i)
				}
				testutil.AssertEqual(t, "summon type", g.units[i].summon.unitTy, exp.unitTy)
				testutil.AssertEqual(t, "summon delay", g.units[i].summon.delay, exp.delay)
			}
		})
	}
}

func TestTick_RetiresDeadAtStartOfNextTick(t *testing.T) {
	g := newTestGame(t, testDesc())
	g.units[0].hp = 0

	// The attack phase flags every unit at or below zero hp.
	msg := g.Tick()
	testutil.AssertEqual(t, "change count", len(msg.Update.UnitChange), 2)
	testutil.AssertEqual(t, "dead flag", msg.Update.UnitChange[0].Dead, true)

	msg = g.Tick()
	testutil.AssertEqual(t, "change count", len(msg.Update.UnitChange), 1)
	testutil.AssertEqual(t, "survivor", g.units[0].id, uint32(1))
	testutil.AssertEqual(t, "lookup retired", g.unitByID(0) == nil, true)
}

func TestTick_InitialUnitsNotAnnouncedAgain(t *testing.T) {
	g := newTestGame(t, testDesc())

	msg := g.Tick()
	testutil.AssertEqual(t, "create count", len(msg.Update.UnitCreate), 0)
	testutil.AssertEqual(t, "change count", len(msg.Update.UnitChange), 2)
	for _, u := range g.units {
		testutil.AssertEqual(t, "new", u.new, false)
	}
}

func TestTick_CountsTicks(t *testing.T) {
	g := newTestGame(t, testDesc())
	for range 7 {
		g.Tick()
	}
	testutil.AssertEqual(t, "ticks", g.TickCount(), uint64(7))
}

func TestRoster(t *testing.T) {
	d := testDesc()
	d.PlayerSpawns[0].Units[0].Key = "builder"
	g := newTestGame(t, d)
	g.ProcessInputs([]Input{
		commands(0, summon(0, 0)),
		commands(1, target(1, 20, 0)),
	})

	roster := g.Roster()
	testutil.AssertEqual(t, "count", len(roster), 2)
	testutil.AssertEqual(t, "key", roster[0].Key, "builder")
	testutil.AssertEqual(t, "summoning", roster[0].Summoning, "worker")
	testutil.AssertEqual(t, "state", roster[0].State, "idle")
	testutil.AssertEqual(t, "max hp", roster[0].MaxHP, float32(100))
	testutil.AssertEqual(t, "client", roster[1].Client, 1)
	testutil.AssertEqual(t, "state", roster[1].State, "move")
}
