package drift

import "math"

// integrate advances every body by one frame and reflects it off the
// surface edges. The dragged body follows the pointer instead.
func (a *Arena) integrate() {
	a.trails.update()
	a.spawned = 0

	restitution := a.config.Restitution
	damping := a.config.Damping
	for i := range a.bodies {
		b := &a.bodies[i]
		b.pulse.update(frameDT)

		if a.drag.active && i == a.drag.index {
			// Velocity is the pointer's displacement so release throws it.
			b.VX = a.pointerDelta.X
			b.VY = a.pointerDelta.Y
			b.X = a.pointer.X
			b.Y = a.pointer.Y - a.parallaxOffset(b)
			continue
		}

		b.X += b.VX
		b.Y += b.VY

		if b.X-b.Radius < 0 {
			b.X = b.Radius
			b.VX = math.Abs(b.VX) * restitution
		} else if b.X+b.Radius > a.width {
			b.X = a.width - b.Radius
			b.VX = -math.Abs(b.VX) * restitution
		}
		if b.Y-b.Radius < 0 {
			b.Y = b.Radius
			b.VY = math.Abs(b.VY) * restitution
		} else if b.Y+b.Radius > a.height {
			b.Y = a.height - b.Radius
			b.VY = -math.Abs(b.VY) * restitution
		}

		b.VX *= damping
		b.VY *= damping

		if b.Shape == ShapeSquare {
			b.Rotation += b.VX * a.config.Spin
		}
	}
}

// collide resolves every overlapping pair once, in i-ascending then
// j-ascending order. Chains of three or more overlapping bodies may keep some
// overlap until later frames.
func (a *Arena) collide() {
	n := len(a.bodies)
	for i := 0; i < n; i++ {
		bi := &a.bodies[i]
		for j := i + 1; j < n; j++ {
			bj := &a.bodies[j]
			dx := bj.X - bi.X
			dy := bj.Y - bi.Y
			minDist := bi.Radius + bj.Radius
			if dx*dx+dy*dy >= minDist*minDist {
				continue
			}
			pinI := a.drag.active && a.drag.index == i
			pinJ := a.drag.active && a.drag.index == j
			if !resolvePair(bi, bj, pinI, pinJ) {
				continue
			}
			a.emit(ArenaEvent{
				Type:    EventCollision,
				BodyID:  bi.ID,
				OtherID: bj.ID,
				X:       (bi.X + bj.X) / 2,
				Y:       (bi.Y + bj.Y) / 2,
			})
		}
	}

	// Separation can push a body past a wall; pull it back without touching
	// its velocity.
	for i := range a.bodies {
		if a.drag.active && i == a.drag.index {
			continue
		}
		b := &a.bodies[i]
		b.X = clamp(b.X, b.Radius, math.Max(b.Radius, a.width-b.Radius))
		b.Y = clamp(b.Y, b.Radius, math.Max(b.Radius, a.height-b.Radius))
	}

	a.spawnTrails()
}

// resolvePair exchanges velocity along the collision normal using the 1D
// elastic formula and pushes the pair apart by the overlap. A pinned body
// (the dragged one) still exchanges velocity but is not moved. Reports
// whether velocity was exchanged.
func resolvePair(a, b *Body, pinA, pinB bool) bool {
	dx := b.X - a.X
	dy := b.Y - a.Y
	dist := math.Sqrt(dx*dx + dy*dy)

	exchanged := exchangeVelocity(a, b, dx, dy)

	overlap := a.Radius + b.Radius - dist
	if overlap <= 0 {
		return exchanged
	}
	nx, ny := 1.0, 0.0
	if dist > 0 {
		nx = dx / dist
		ny = dy / dist
	}
	switch {
	case pinA && pinB:
	case pinA:
		b.X += nx * overlap
		b.Y += ny * overlap
	case pinB:
		a.X -= nx * overlap
		a.Y -= ny * overlap
	default:
		half := overlap / 2
		a.X -= nx * half
		a.Y -= ny * half
		b.X += nx * half
		b.Y += ny * half
	}
	return exchanged
}

// exchangeVelocity rotates both velocities into the frame whose x axis is
// the separation (dx, dy), applies the 1D elastic collision along that axis,
// and rotates back. Tangential components are untouched. Pairs that are
// already separating are left alone and report false.
func exchangeVelocity(a, b *Body, dx, dy float64) bool {
	if (a.VX-b.VX)*dx+(a.VY-b.VY)*dy <= 0 {
		return false
	}
	angle := math.Atan2(dy, dx)

	u1x, u1y := rotate(a.VX, a.VY, -angle)
	u2x, u2y := rotate(b.VX, b.VY, -angle)

	m1, m2 := a.Mass, b.Mass
	sum := m1 + m2
	v1x := (u1x*(m1-m2) + 2*m2*u2x) / sum
	v2x := (u2x*(m2-m1) + 2*m1*u1x) / sum

	a.VX, a.VY = rotate(v1x, u1y, angle)
	b.VX, b.VY = rotate(v2x, u2y, angle)
	return true
}

// rotate rotates (x, y) by angle radians counter-clockwise.
func rotate(x, y, angle float64) (float64, float64) {
	sin, cos := math.Sincos(angle)
	return x*cos - y*sin, x*sin + y*cos
}
