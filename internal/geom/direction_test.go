package geom

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestInverseIsInvolution(t *testing.T) {
	for d := Left; d <= UpRight; d++ {
		require.Equal(t, d, d.Inverse().Inverse())
		require.NotEqual(t, d, d.Inverse())
	}
}

func TestOffsetsAreUnitVectors(t *testing.T) {
	for d := Left; d <= UpRight; d++ {
		o := d.Offset()
		require.LessOrEqual(t, o.X, int32(1))
		require.GreaterOrEqual(t, o.X, int32(-1))
		require.LessOrEqual(t, o.Y, int32(1))
		require.GreaterOrEqual(t, o.Y, int32(-1))
		require.False(t, o.X == 0 && o.Y == 0)
	}
}

func TestDirectionForMatchesOffsets(t *testing.T) {
	const length = 64
	for d := Left; d <= UpRight; d++ {
		// the chunk's center shifted by one whole chunk length in
		// direction d classifies back to d.
		start := IVec2{X: 32, Y: 32}
		pos := start.Add(IVec2{X: d.Offset().X * length, Y: d.Offset().Y * length})
		got, outside := DirectionFor(pos, length)
		require.True(t, outside)
		require.Equal(t, d, got)
	}
}

func TestDirectionForInsideSelf(t *testing.T) {
	_, outside := DirectionFor(IVec2{X: 0, Y: 63}, 64)
	require.False(t, outside)
}
