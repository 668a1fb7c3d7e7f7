// Package cell implements the one-byte PackedCell codec and the atomic
// cell slot built on top of it.
package cell

import "fmt"

// mask3 is the three bits a velocity component or the Static/Empty
// sentinel occupies in either the x or y field.
const mask3 = 0b111

const (
	xShift = 0
	yShift = 3

	xMask = mask3 << xShift
	yMask = mask3 << yShift

	massShift        = 6
	restitutionShift = 4

	// sentinelNeg4 is -4 as a three-bit two's complement value (0b100),
	// the one velocity magnitude a real dynamic cell can never reach
	// (velocities are clamped to -3..=3), which is why it's free to use
	// as a tag.
	sentinelNeg4 = 0b100

	invalidX = sentinelNeg4 << xShift
	invalidY = sentinelNeg4 << yShift

	// lowValidY is the lowest bit of the y field. Static cells OR it in
	// so their y field (whose upper two bits are shared with the low
	// restitution bits) always has its low bit set and never reads as
	// the Empty sentinel 0b100, while their x field keeps the Static
	// sentinel 0b100.
	lowValidY = 1 << yShift

	noneValue       = invalidX | invalidY
	staticValue     = invalidX
	someStaticValue = staticValue | lowValidY

	maxRestitution = 15
	maxMass        = 4
	maxSpeed       = 3
)

// PackedCell is the one-byte physical encoding of a Cell: Empty, Static,
// or Dynamic, distinguished by the sentinel bit patterns documented on
// the constants above rather than by a separate tag byte.
type PackedCell uint8

// None is the unique encoding of an empty cell.
const None PackedCell = noneValue

// Kind distinguishes the three logical variants a PackedCell decodes to.
type Kind uint8

const (
	KindEmpty Kind = iota
	KindStatic
	KindDynamic
)

// Cell is the unpacked, logical form of a PackedCell.
type Cell struct {
	Kind        Kind
	Restitution int8      // valid when Kind == KindStatic, 0..=15
	Mass        int8      // valid when Kind == KindDynamic, 1..=4
	Velocity    Velocity  // valid when Kind == KindDynamic
}

// Velocity is an integer velocity with each axis clamped to -3..=3.
type Velocity struct {
	X, Y int8
}

// PackStatic builds the packed encoding of a Static cell with the given
// restitution. restitution must be in 0..=15; out-of-range input is a
// programmer error and panics rather than silently truncating.
func PackStatic(restitution int8) PackedCell {
	if restitution < 0 || restitution > maxRestitution {
		panic(fmt.Sprintf("cell: restitution %d out of range 0..=15", restitution))
	}
	return PackedCell(uint8(restitution)<<restitutionShift | someStaticValue)
}

// PackDynamic builds the packed encoding of a Dynamic cell with the
// given mass and velocity. mass must be in 1..=4 and each velocity
// component in -3..=3; out-of-range input is a programmer error and
// panics.
func PackDynamic(mass int8, v Velocity) PackedCell {
	if mass < 1 || mass > maxMass {
		panic(fmt.Sprintf("cell: mass %d out of range 1..=4", mass))
	}
	if v.X < -maxSpeed || v.X > maxSpeed || v.Y < -maxSpeed || v.Y > maxSpeed {
		panic(fmt.Sprintf("cell: velocity %+v out of range -3..=3", v))
	}
	m := uint8(mass-1) << massShift
	x := uint8(v.X) & mask3 << xShift
	y := uint8(v.Y) & mask3 << yShift
	return PackedCell(m | y | x)
}

// IsOccupied reports whether the cell is Static or Dynamic.
func (p PackedCell) IsOccupied() bool {
	return p != None
}

// IsDynamic reports whether the cell is Dynamic. Only meaningful when
// IsOccupied is also true: an Empty cell also fails the Static sentinel
// check incidentally (its x field happens to be the Static sentinel
// too), so callers must check occupancy first.
func (p PackedCell) IsDynamic() bool {
	return uint8(p)&xMask != staticValue
}

// Unpack decodes the packed byte into its logical Cell form.
func (p PackedCell) Unpack() Cell {
	if !p.IsOccupied() {
		return Cell{Kind: KindEmpty}
	}
	if p.IsDynamic() {
		return Cell{
			Kind:     KindDynamic,
			Mass:     p.mass(),
			Velocity: p.velocity(),
		}
	}
	return Cell{
		Kind:        KindStatic,
		Restitution: p.restitution(),
	}
}

// Pack is the inverse of Unpack, dispatching to PackStatic/PackDynamic
// per the cell's Kind. Packing a KindEmpty cell returns None.
func (c Cell) Pack() PackedCell {
	switch c.Kind {
	case KindStatic:
		return PackStatic(c.Restitution)
	case KindDynamic:
		return PackDynamic(c.Mass, c.Velocity)
	default:
		return None
	}
}

func (p PackedCell) velocity() Velocity {
	return Velocity{
		X: signExtend3(uint8(p) & xMask >> xShift),
		Y: signExtend3(uint8(p) & yMask >> yShift),
	}
}

// signExtend3 sign-extends a three-bit two's-complement value (held in
// the low 3 bits of b) to an int8 by shifting it up to the top of the
// byte and back down arithmetically.
func signExtend3(b uint8) int8 {
	const shift = 8 - 3
	return int8(b<<shift) >> shift
}

func (p PackedCell) mass() int8 {
	return int8(uint8(p)>>massShift) + 1
}

func (p PackedCell) restitution() int8 {
	return int8(uint8(p) >> restitutionShift)
}
