package geom

// Direction is the closed set of eight neighbor directions a chunk can
// have. The ordering is canonical and used as a dense array index
// wherever a chunk needs one slot per neighbor.
type Direction uint8

const (
	Left Direction = iota
	Right
	DownLeft
	Down
	DownRight
	UpLeft
	Up
	UpRight

	NumDirections = int(UpRight) + 1
)

var directionNames = [NumDirections]string{
	Left: "Left", Right: "Right",
	DownLeft: "DownLeft", Down: "Down", DownRight: "DownRight",
	UpLeft: "UpLeft", Up: "Up", UpRight: "UpRight",
}

func (d Direction) String() string {
	if int(d) < NumDirections {
		return directionNames[d]
	}
	return "Direction(invalid)"
}

var offsets = [NumDirections]IVec2{
	Left:      {X: -1, Y: 0},
	Right:     {X: 1, Y: 0},
	DownLeft:  {X: -1, Y: -1},
	Down:      {X: 0, Y: -1},
	DownRight: {X: 1, Y: -1},
	UpLeft:    {X: -1, Y: 1},
	Up:        {X: 0, Y: 1},
	UpRight:   {X: 1, Y: 1},
}

// Offset returns the canonical unit-vector offset for d.
func (d Direction) Offset() IVec2 {
	return offsets[d]
}

var inverses = [NumDirections]Direction{
	Left: Right, Right: Left,
	DownLeft: UpRight, Down: Up, DownRight: UpLeft,
	UpLeft: DownRight, Up: Down, UpRight: DownLeft,
}

// Inverse returns the diametrically opposite direction.
func (d Direction) Inverse() Direction {
	return inverses[d]
}

// Bound classifies a coordinate against a chunk's axis extent.
type Bound uint8

const (
	Within Bound = iota
	Less
	Greater
)

// Classify buckets a local-space coordinate (which may be out of a
// chunk's [0, length) range by exactly one cell, the only way a
// sub-step move ever leaves a chunk) into the per-axis
// Within/Less/Greater trichotomy.
func Classify(coord, length int32) Bound {
	switch {
	case coord < 0:
		return Less
	case coord >= length:
		return Greater
	default:
		return Within
	}
}

// directionTable maps every (xBound, yBound) pair other than
// (Within, Within) to the neighbor direction that owns that side/corner.
// (Within, Within) has no entry; callers must special-case "inside self"
// first.
var directionTable = map[[2]Bound]Direction{
	{Less, Within}:    Left,
	{Greater, Within}: Right,
	{Less, Less}:      DownLeft,
	{Within, Less}:    Down,
	{Greater, Less}:   DownRight,
	{Less, Greater}:   UpLeft,
	{Within, Greater}: Up,
	{Greater, Greater}: UpRight,
}

// DirectionFor resolves the bounds pair for a position classified
// against a square chunk of the given side length to the neighbor
// direction that owns it, along with whether the position actually
// left the chunk at all.
func DirectionFor(pos IVec2, length int32) (dir Direction, outside bool) {
	xb := Classify(pos.X, length)
	yb := Classify(pos.Y, length)
	if xb == Within && yb == Within {
		return 0, false
	}
	d, ok := directionTable[[2]Bound{xb, yb}]
	if !ok {
		// directionTable holds every pair other than (Within, Within),
		// so this is unreachable.
		panic("geom: position classified outside the single-cell neighbor ring")
	}
	return d, true
}
