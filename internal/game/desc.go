package game

import (
	"encoding/json"
	"fmt"

	"github.com/pixil98/go-errors"
	"github.com/pixil98/go-rts/internal/geom"
)

// GameDesc is the static description of a game: timestep, unit types and the
// units each player slot starts with. It is loaded once and never mutated.
type GameDesc struct {
	Dt           float32           `json:"dt"`
	Resources    []ResourceDesc    `json:"resources"`
	Units        []UnitDesc        `json:"units"`
	PlayerSpawns []PlayerSpawnDesc `json:"player_spawns"`
}

// ResourceDesc declares a resource key. Resources are not simulated.
type ResourceDesc struct {
	Key string `json:"key"`
}

// UnitDesc describes one unit type. Units refer to their type by index into
// GameDesc.Units; clients and config refer to it by Key.
type UnitDesc struct {
	Key     string       `json:"key"`
	Speed   float32      `json:"speed"`
	Acc     float32      `json:"acc"`
	Size    float32      `json:"size"`
	HP      float32      `json:"hp"`
	Attack  *AttackDesc  `json:"attack,omitempty"`
	Summons []SummonDesc `json:"summons,omitempty"`
}

type AttackDesc struct {
	Range  float32 `json:"range"`
	Damage float32 `json:"damage"`
	Delay  float32 `json:"delay"`
}

// SummonDesc lets a unit produce units of type Key after Time seconds.
// Hotkey is only meaningful to clients.
type SummonDesc struct {
	Key    string         `json:"key"`
	Time   float32        `json:"time"`
	Cost   []ResourceCost `json:"cost,omitempty"`
	Hotkey string         `json:"hotkey,omitempty"`
}

// ResourceCost is encoded as an [amount, resource] pair.
type ResourceCost struct {
	Amount   int32
	Resource string
}

func (c ResourceCost) MarshalJSON() ([]byte, error) {
	return json.Marshal([2]any{c.Amount, c.Resource})
}

func (c *ResourceCost) UnmarshalJSON(b []byte) error {
	var raw []json.RawMessage
	if err := json.Unmarshal(b, &raw); err != nil {
		return err
	}
	if len(raw) != 2 {
		return fmt.Errorf("cost: expected [amount, resource], got %d elements", len(raw))
	}
	if err := json.Unmarshal(raw[0], &c.Amount); err != nil {
		return fmt.Errorf("cost amount: %w", err)
	}
	if err := json.Unmarshal(raw[1], &c.Resource); err != nil {
		return fmt.Errorf("cost resource: %w", err)
	}
	return nil
}

// PlayerSpawnDesc lists the units a player slot starts with.
type PlayerSpawnDesc struct {
	Units []UnitSpawnDesc `json:"units"`
}

type UnitSpawnDesc struct {
	Key string    `json:"key"`
	Pos geom.Vec2 `json:"pos"`
}

// UnitIndex resolves a unit type key to its index.
func (d *GameDesc) UnitIndex(key string) (int, bool) {
	for i := range d.Units {
		if d.Units[i].Key == key {
			return i, true
		}
	}
	return 0, false
}

// Slots returns the number of player slots.
func (d *GameDesc) Slots() int {
	return len(d.PlayerSpawns)
}

// Validate satisfies storage.ValidatingSpec.
func (d *GameDesc) Validate() error {
	el := errors.NewErrorList()

	if !(d.Dt > 0) {
		el.Add(fmt.Errorf("dt must be positive"))
	}
	if len(d.Units) == 0 {
		el.Add(fmt.Errorf("at least one unit type is required"))
	}
	if len(d.PlayerSpawns) == 0 {
		el.Add(fmt.Errorf("at least one player spawn is required"))
	}

	resources := make(map[string]bool, len(d.Resources))
	for i, r := range d.Resources {
		if r.Key == "" {
			el.Add(fmt.Errorf("resources[%d]: key is required", i))
			continue
		}
		if resources[r.Key] {
			el.Add(fmt.Errorf("resources[%d]: duplicate key %q", i, r.Key))
		}
		resources[r.Key] = true
	}

	keys := make(map[string]bool, len(d.Units))
	for _, u := range d.Units {
		if u.Key != "" && keys[u.Key] {
			el.Add(fmt.Errorf("units: duplicate key %q", u.Key))
		}
		keys[u.Key] = true
	}

	for i := range d.Units {
		el.Add(d.Units[i].validate(keys, resources))
	}

	for p, spawn := range d.PlayerSpawns {
		for k, s := range spawn.Units {
			if !keys[s.Key] {
				el.Add(fmt.Errorf("player_spawns[%d].units[%d]: %w %q", p, k, ErrUnknownUnitKey, s.Key))
			}
		}
	}

	return el.Err()
}

func (u *UnitDesc) validate(keys, resources map[string]bool) error {
	el := errors.NewErrorList()

	if u.Key == "" {
		el.Add(fmt.Errorf("unit key is required"))
	}
	if u.Speed < 0 {
		el.Add(fmt.Errorf("unit %q: speed must not be negative", u.Key))
	}
	if u.Speed > 0 && !(u.Acc > 0) {
		el.Add(fmt.Errorf("unit %q: acc must be positive for a moving unit", u.Key))
	}
	if u.Acc < 0 {
		el.Add(fmt.Errorf("unit %q: acc must not be negative", u.Key))
	}
	if !(u.Size > 0) {
		el.Add(fmt.Errorf("unit %q: size must be positive", u.Key))
	}
	if !(u.HP > 0) {
		el.Add(fmt.Errorf("unit %q: hp must be positive", u.Key))
	}

	if a := u.Attack; a != nil {
		if !(a.Range > 0) {
			el.Add(fmt.Errorf("unit %q: attack range must be positive", u.Key))
		}
		if a.Damage < 0 {
			el.Add(fmt.Errorf("unit %q: attack damage must not be negative", u.Key))
		}
		if a.Delay < 0 {
			el.Add(fmt.Errorf("unit %q: attack delay must not be negative", u.Key))
		}
	}

	for i, s := range u.Summons {
		if !keys[s.Key] {
			el.Add(fmt.Errorf("unit %q: summons[%d]: %w %q", u.Key, i, ErrUnknownUnitKey, s.Key))
		}
		if !(s.Time > 0) {
			el.Add(fmt.Errorf("unit %q: summons[%d]: time must be positive", u.Key, i))
		}
		for _, c := range s.Cost {
			if !resources[c.Resource] {
				el.Add(fmt.Errorf("unit %q: summons[%d]: unknown resource %q", u.Key, i, c.Resource))
			}
		}
	}

	return el.Err()
}

// summonFor returns the summon entry of u that produces key.
func (u *UnitDesc) summonFor(key string) (SummonDesc, bool) {
	for _, s := range u.Summons {
		if s.Key == key {
			return s, true
		}
	}
	return SummonDesc{}, false
}

// Clone returns a deep copy, so each room owns its description.
func (d *GameDesc) Clone() *GameDesc {
	c := &GameDesc{
		Dt:           d.Dt,
		Resources:    append([]ResourceDesc(nil), d.Resources...),
		Units:        make([]UnitDesc, len(d.Units)),
		PlayerSpawns: make([]PlayerSpawnDesc, len(d.PlayerSpawns)),
	}

	for i, u := range d.Units {
		if u.Attack != nil {
			atk := *u.Attack
			u.Attack = &atk
		}
		summons := make([]SummonDesc, len(u.Summons))
		for j, s := range u.Summons {
			s.Cost = append([]ResourceCost(nil), s.Cost...)
			summons[j] = s
		}
		if u.Summons == nil {
			summons = nil
		}
		u.Summons = summons
		c.Units[i] = u
	}

	for i, p := range d.PlayerSpawns {
		c.PlayerSpawns[i] = PlayerSpawnDesc{Units: append([]UnitSpawnDesc(nil), p.Units...)}
	}

	return c
}
