package cell

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestNoneIsEmptyAndNotDynamic(t *testing.T) {
	require.False(t, None.IsOccupied())
	require.Equal(t, Cell{Kind: KindEmpty}, None.Unpack())
}

func TestStaticRoundTrip(t *testing.T) {
	for r := int8(0); r <= 15; r++ {
		p := PackStatic(r)
		require.True(t, p.IsOccupied())
		require.False(t, p.IsDynamic())
		got := p.Unpack()
		require.Equal(t, Cell{Kind: KindStatic, Restitution: r}, got)
		require.Equal(t, p, got.Pack())
	}
}

func TestDynamicRoundTrip(t *testing.T) {
	for mass := int8(1); mass <= 4; mass++ {
		for x := int8(-3); x <= 3; x++ {
			for y := int8(-3); y <= 3; y++ {
				v := Velocity{X: x, Y: y}
				p := PackDynamic(mass, v)
				require.True(t, p.IsOccupied())
				require.True(t, p.IsDynamic())
				got := p.Unpack()
				require.Equal(t, Cell{Kind: KindDynamic, Mass: mass, Velocity: v}, got)
				require.Equal(t, p, got.Pack())
			}
		}
	}
}

func TestStaticNeverCollidesWithNoneEncoding(t *testing.T) {
	for r := int8(0); r <= 15; r++ {
		require.NotEqual(t, None, PackStatic(r))
	}
}

func TestPackStaticRejectsOutOfRangeRestitution(t *testing.T) {
	require.Panics(t, func() { PackStatic(16) })
	require.Panics(t, func() { PackStatic(-1) })
}

func TestPackDynamicRejectsOutOfRangeInputs(t *testing.T) {
	require.Panics(t, func() { PackDynamic(0, Velocity{}) })
	require.Panics(t, func() { PackDynamic(5, Velocity{}) })
	require.Panics(t, func() { PackDynamic(1, Velocity{X: 4}) })
	require.Panics(t, func() { PackDynamic(1, Velocity{Y: -4}) })
}
