package cell

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/HiperSlug/cellular-physics/internal/geom"
)

func TestSubStepDeltaSpreadsAVelocityThreeMoveAcrossThreeSubSteps(t *testing.T) {
	c := Cell{Velocity: Velocity{X: 3, Y: -3}}
	for n := 0; n < 3; n++ {
		d := c.SubStepDelta(n)
		require.Equal(t, geom.IVec2{X: 1, Y: -1}, d)
	}
}

func TestSubStepDeltaStopsOnceMagnitudeExhausted(t *testing.T) {
	c := Cell{Velocity: Velocity{X: 1}}
	require.Equal(t, geom.IVec2{X: 1, Y: 0}, c.SubStepDelta(0))
	require.Equal(t, geom.IVec2{}, c.SubStepDelta(1))
	require.Equal(t, geom.IVec2{}, c.SubStepDelta(2))
}

func TestGravityDecrementsAndClampsAtMinusThree(t *testing.T) {
	c := Cell{Velocity: Velocity{Y: -3}}
	c.Gravity()
	require.Equal(t, int8(-3), c.Velocity.Y)

	c2 := Cell{Velocity: Velocity{Y: 1}}
	c2.Gravity()
	require.Equal(t, int8(0), c2.Velocity.Y)
}

func TestStaticCollisionFormulaAndClamp(t *testing.T) {
	require.Equal(t, int8(-3), staticCollisionFormula(3, 7)) // -3*7/7 = -3

	// A restitution of 15 on a velocity-3 impact overshoots what
	// clampSpeed allows, and StaticCollisionAxisX must clamp it back down.
	c := Cell{Velocity: Velocity{X: 3}}
	c.StaticCollisionAxisX(Cell{Kind: KindStatic, Restitution: 15})
	require.Equal(t, int8(-3), c.Velocity.X)
}

func TestDynamicCollisionFormulaEqualMassSwaps(t *testing.T) {
	c := Cell{Mass: 2, Velocity: Velocity{X: 3}}
	c.DynamicCollisionAxisX(Cell{Mass: 2, Velocity: Velocity{X: -3}})
	require.Equal(t, int8(-3), c.Velocity.X)
}

func TestDynamicCollisionFormulaHeavyMoverKeepsMomentum(t *testing.T) {
	c := Cell{Mass: 4, Velocity: Velocity{X: 3}}
	c.DynamicCollisionAxisX(Cell{Mass: 1, Velocity: Velocity{X: 0}})
	require.Greater(t, c.Velocity.X, int8(0))
}

func TestTwoWayDynamicCollisionIsSequentialPerAxis(t *testing.T) {
	// b's update sees a's value AFTER a has already been updated, not a's
	// original value — the defining behavior the doc comment promises.
	a := Cell{Mass: 2, Velocity: Velocity{X: 3, Y: 0}}
	b := Cell{Mass: 2, Velocity: Velocity{X: -3, Y: 0}}
	a.TwoWayDynamicCollision(&b, geom.IVec2{X: 1})
	require.Equal(t, int8(-3), a.Velocity.X)
	require.Equal(t, int8(-3), b.Velocity.X)
}
