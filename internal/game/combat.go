package game

import "github.com/pixil98/go-rts/internal/protocol"

// resolveAttacks lets every armed unit hit enemies in range once its reload
// has run out. Lower indexed attackers shoot first. Units whose hp drops to
// zero are flagged dead after all pairs have been visited.
func (g *Game) resolveAttacks() {
	dt := g.desc.Dt
	g.damages = []protocol.DamageMsg{}

	for i := range g.units {
		g.units[i].reload -= dt
	}

	for i := range g.units {
		attacker := &g.units[i]
		atk := g.desc.Units[attacker.ty].Attack
		if atk == nil {
			continue
		}

		for j := range g.units {
			if i == j {
				continue
			}
			target := &g.units[j]
			if attacker.client == target.client {
				continue
			}
			if attacker.reload > 0 {
				continue
			}
			if target.pos.Sub(attacker.pos).Magnitude() >= atk.Range {
				continue
			}

			target.hp -= atk.Damage
			attacker.reload = atk.Delay
			g.damages = append(g.damages, protocol.DamageMsg{From: attacker.id, To: target.id})
		}
	}

	for i := range g.units {
		if g.units[i].hp <= 0 {
			g.units[i].dead = true
		}
	}
}
