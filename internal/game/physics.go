package game

import "github.com/pixil98/go-rts/internal/geom"

const (
	// idleBrake is the viscous gain pulling an idle unit to rest.
	idleBrake = -10
	// arrivalDistance is the distance below which a moving unit is at its target.
	arrivalDistance = 0.001
	// stopDistanceFactor scales the distance needed to brake from full speed.
	stopDistanceFactor = 0.75
	// separationGain is the stiffness of the push between overlapping units.
	separationGain = 300

	settleSpeed = 1.0
	settleAcc   = 0.5
)

// integratePositions moves every unit by the displacement computed at the end
// of the previous tick.
func (g *Game) integratePositions() {
	for i := range g.units {
		u := &g.units[i]
		u.pos = u.pos.Add(u.disp)
	}
}

// computeForces resets acceleration, then adds a truncated steering term and
// an untruncated separation term.
func (g *Game) computeForces() {
	dt := g.desc.Dt

	for i := range g.units {
		u := &g.units[i]
		ud := &g.desc.Units[u.ty]
		u.acc = geom.Zero

		var a geom.Vec2
		switch u.state.kind {
		case stateIdle:
			a = u.vel.Scale(idleBrake)
		case stateMove:
			d := u.state.target.Sub(u.pos)
			m := d.Magnitude()
			if m < arrivalDistance {
				u.state = idle()
				break
			}
			vWant := d.Div(m).Scale(desiredSpeed(ud, m))
			a = vWant.Sub(u.vel).Div(dt)
		}

		u.acc = u.acc.Add(geom.Truncate(a, ud.Acc))
	}

	g.separate()
}

// desiredSpeed ramps down linearly inside the stopping distance.
func desiredSpeed(ud *UnitDesc, dist float32) float32 {
	stopDist := float32(float32(ud.Speed*ud.Speed)/ud.Acc) * stopDistanceFactor
	if !(stopDist > 0) {
		return ud.Speed
	}
	return min(ud.Speed, float32(ud.Speed*dist)/stopDist)
}

// separate pushes apart every pair of overlapping units. Each ordered pair
// (i, j) pushes only j; visiting both orders pushes both. Positions are not
// written in this phase, so reading pos while writing acc is order-safe.
func (g *Game) separate() {
	for i := range g.units {
		ui := &g.units[i]
		sizeI := g.desc.Units[ui.ty].Size

		for j := range g.units {
			if i == j {
				continue
			}
			uj := &g.units[j]

			d := uj.pos.Sub(ui.pos)
			m := d.Magnitude()
			r0 := (sizeI + g.desc.Units[uj.ty].Size) / 2
			if m >= r0 {
				continue
			}

			dir := coincidentDirection(i, j)
			if m > 0 {
				dir = d.Div(m)
			}
			uj.acc = uj.acc.Add(dir.Scale(float32((r0 - m) * separationGain)))
		}
	}
}

// coincidentDirection picks an axis to separate two units sitting exactly on
// top of each other, where d/|d| is undefined. The lower index goes left.
func coincidentDirection(i, j int) geom.Vec2 {
	if j > i {
		return geom.New(1, 0)
	}
	return geom.New(-1, 0)
}

// settleArrivals stops moving units that have come to rest.
func (g *Game) settleArrivals() {
	for i := range g.units {
		u := &g.units[i]
		if u.state.kind != stateMove {
			continue
		}
		if u.vel.Magnitude() < settleSpeed && u.acc.Magnitude() < settleAcc {
			u.state = idle()
		}
	}
}

func (g *Game) integrateVelocities() {
	dt := g.desc.Dt
	for i := range g.units {
		u := &g.units[i]
		u.vel = u.vel.Add(u.acc.Scale(dt))
		u.disp = u.vel.Scale(dt)
	}
}
