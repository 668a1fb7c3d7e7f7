package world

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/HiperSlug/cellular-physics/internal/cell"
	"github.com/HiperSlug/cellular-physics/internal/geom"
)

// TestVelocityNeverExceedsThreePerAxis checks the velocity-clamp
// property: no matter how many ticks run, no axis ever leaves [-3, 3].
func TestVelocityNeverExceedsThreePerAxis(t *testing.T) {
	c := NewChunk()
	c.SetDynamic(geom.IVec2{X: 10, Y: 10}, 1, cell.Velocity{X: 3, Y: 3})
	c.SetStatic(geom.IVec2{X: 13, Y: 10}, 15)
	c.SetStatic(geom.IVec2{X: 10, Y: 13}, 15)

	for i := 0; i < 30; i++ {
		tick(c)
		for _, p := range c.AppendOccupied(geom.IVec2{}, func(p cell.PackedCell) bool { return p.IsDynamic() }, nil) {
			packed, ok := c.readAt(p)
			require.True(t, ok)
			v := packed.Unpack().Velocity
			require.GreaterOrEqual(t, v.X, int8(-3))
			require.LessOrEqual(t, v.X, int8(3))
			require.GreaterOrEqual(t, v.Y, int8(-3))
			require.LessOrEqual(t, v.Y, int8(3))
		}
	}
}

// TestNoTwoDynamicCellsEverShareASlot checks the no-duplication
// property directly at the read[] level: every occupied slot holds
// exactly the one cell that belongs there, never two overlaid.
func TestNoTwoDynamicCellsEverShareASlot(t *testing.T) {
	c := NewChunk()
	start := []geom.IVec2{
		{X: 5, Y: 30}, {X: 6, Y: 30}, {X: 7, Y: 30},
		{X: 5, Y: 31}, {X: 6, Y: 31}, {X: 7, Y: 31},
	}
	for _, p := range start {
		c.SetDynamic(p, 2, cell.Velocity{X: 1, Y: -1})
	}
	want := len(start)

	for i := 0; i < 12; i++ {
		tick(c)
		occupied := c.AppendOccupied(geom.IVec2{}, cell.PackedCell.IsOccupied, nil)
		require.Len(t, occupied, want)
		seen := make(map[geom.IVec2]bool, len(occupied))
		for _, p := range occupied {
			require.False(t, seen[p], "duplicate occupant at %v", p)
			seen[p] = true
		}
	}
}

// TestDynamicCellNeverPassesThroughAStaticWall checks the
// no-interpenetration property: a mover advances one cell at a time,
// so even a single-cell-wide static obstacle is never jumped over.
func TestDynamicCellNeverPassesThroughAStaticWall(t *testing.T) {
	c := NewChunk()
	mover := geom.IVec2{X: 10, Y: 20}
	c.SetDynamic(mover, 1, cell.Velocity{X: 3})
	wall := geom.IVec2{X: 13, Y: 20}
	c.SetStatic(wall, 0)

	for i := 0; i < 10; i++ {
		tick(c)
	}

	beyond, ok := c.readAt(geom.IVec2{X: 14, Y: 20})
	require.True(t, ok)
	require.False(t, beyond.IsDynamic())

	wallCell, ok := c.readAt(wall)
	require.True(t, ok)
	require.True(t, wallCell.IsOccupied())
	require.False(t, wallCell.IsDynamic())
}

// TestRestingDynamicCellOnFloorStopsAccelerating mirrors the "resting
// on a perfectly inelastic floor" scenario: gravity keeps pulling but
// the floor's zero restitution keeps canceling it back to (near) zero
// every tick instead of ever letting the cell tunnel through.
func TestRestingDynamicCellOnFloorStopsAccelerating(t *testing.T) {
	c := NewChunk()
	mover := geom.IVec2{X: 20, Y: 11}
	floor := geom.IVec2{X: 20, Y: 10}
	c.SetDynamic(mover, 1, cell.Velocity{})
	c.SetStatic(floor, 0)

	for i := 0; i < 15; i++ {
		tick(c)
	}

	floorCell, ok := c.readAt(floor)
	require.True(t, ok)
	require.True(t, floorCell.IsOccupied())
	require.False(t, floorCell.IsDynamic())

	resting, ok := c.readAt(mover)
	require.True(t, ok)
	require.True(t, resting.IsDynamic())
	require.Equal(t, int8(0), resting.Unpack().Velocity.Y)
}
