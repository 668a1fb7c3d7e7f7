package cell

import "github.com/HiperSlug/cellular-physics/internal/geom"

// SubStepDelta is the per-axis ±1/0 contribution a Dynamic cell makes at
// sub-step n: an axis only moves once the remaining, not-yet-applied
// magnitude on that axis is still positive. A velocity-3 cell spreads
// its move across all three sub-steps of a tick, one cell at a time,
// so no intermediate cell is ever skipped.
func (c Cell) SubStepDelta(n int) geom.IVec2 {
	return geom.IVec2{
		X: axisDelta(c.Velocity.X, n),
		Y: axisDelta(c.Velocity.Y, n),
	}
}

func axisDelta(v int8, n int) int32 {
	remaining := absInt8(v) - int8(n)
	if remaining > 0 {
		return int32(signInt8(v))
	}
	return 0
}

func absInt8(v int8) int8 {
	if v < 0 {
		return -v
	}
	return v
}

func signInt8(v int8) int8 {
	switch {
	case v > 0:
		return 1
	case v < 0:
		return -1
	default:
		return 0
	}
}

// DynamicCollision applies a one-sided dynamic-dynamic collision
// against other on whichever axes of delta are non-zero: the receiver
// is updated, other is not (the caller doesn't own other's slot).
func (c *Cell) DynamicCollision(other Cell, delta geom.IVec2) {
	if delta.X != 0 {
		c.DynamicCollisionAxisX(other)
	}
	if delta.Y != 0 {
		c.DynamicCollisionAxisY(other)
	}
}

func (c *Cell) DynamicCollisionAxisX(other Cell) {
	c.Velocity.X = clampSpeed(dynamicCollisionFormula(c.Velocity.X, c.Mass, other.Velocity.X, other.Mass))
}

func (c *Cell) DynamicCollisionAxisY(other Cell) {
	c.Velocity.Y = clampSpeed(dynamicCollisionFormula(c.Velocity.Y, c.Mass, other.Velocity.Y, other.Mass))
}

// TwoWayDynamicCollision resolves a symmetric collision: both cells
// exchange velocity components on the axes delta moves along. Each
// axis update is sequential, not simultaneous — the second party's
// update sees the first party's already-updated velocity on that axis,
// matching the reference engine's collision order exactly.
func (c *Cell) TwoWayDynamicCollision(other *Cell, delta geom.IVec2) {
	if delta.X != 0 {
		c.DynamicCollisionAxisX(*other)
		other.DynamicCollisionAxisX(*c)
	}
	if delta.Y != 0 {
		c.DynamicCollisionAxisY(*other)
		other.DynamicCollisionAxisY(*c)
	}
}

// StaticCollision applies a static-collision bounce against other
// (a Static cell) on whichever axes of delta are non-zero.
func (c *Cell) StaticCollision(other Cell, delta geom.IVec2) {
	if delta.X != 0 {
		c.StaticCollisionAxisX(other)
	}
	if delta.Y != 0 {
		c.StaticCollisionAxisY(other)
	}
}

func (c *Cell) StaticCollisionAxisX(other Cell) {
	c.Velocity.X = clampSpeed(staticCollisionFormula(c.Velocity.X, other.Restitution))
}

func (c *Cell) StaticCollisionAxisY(other Cell) {
	c.Velocity.Y = clampSpeed(staticCollisionFormula(c.Velocity.Y, other.Restitution))
}

// Gravity subtracts one from the y-velocity, floored at -3.
func (c *Cell) Gravity() {
	c.Velocity.Y = clampSpeed(c.Velocity.Y - 1)
}

func dynamicCollisionFormula(v1, m1, v2, m2 int8) int8 {
	V1 := int32(v1) * 3 / 2
	V2 := int32(v2) * 3 / 2
	M1, M2 := int32(m1), int32(m2)
	return int8(((M1-M2)*V1 + 2*M2*V2) / (M1 + M2))
}

func staticCollisionFormula(v, r int8) int8 {
	return int8(-int32(v) * int32(r) / 7)
}

func clampSpeed(v int8) int8 {
	switch {
	case v > maxSpeed:
		return maxSpeed
	case v < -maxSpeed:
		return -maxSpeed
	default:
		return v
	}
}
