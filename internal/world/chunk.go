// Package world implements the per-sub-step cell advancement algorithm
// (Chunk) and the sparse chunk grid it runs on (ChunkMap).
package world

import (
	"github.com/HiperSlug/cellular-physics/internal/cell"
	"github.com/HiperSlug/cellular-physics/internal/geom"
	"github.com/HiperSlug/cellular-physics/internal/physerr"
)

const (
	// ChunkBits is log2 of the chunk side length: fixing it lets
	// linear<->2D conversions use shifts/masks instead of a general
	// division. With 1<<6 == 64, read[] (one byte per cell) is a
	// cache-friendly 4KiB; write[]'s atomics widen each cell to 4 bytes,
	// so write[] itself comes to 16KiB.
	ChunkBits = 6
	ChunkLen  = 1 << ChunkBits
	ChunkArea = ChunkLen * ChunkLen

	// wallRestitution is the perfectly-reflective bounce applied when a
	// cell's destination falls outside every resident chunk.
	wallRestitution int8 = 15
)

// Chunk is a fixed 64x64 block of cells with its own double-buffered
// state and up to eight neighbor links. The zero value is not usable;
// construct with NewChunk.
type Chunk struct {
	read  [ChunkArea]cell.PackedCell
	write [ChunkArea]cell.AtomicCell

	neighbors [geom.NumDirections]*Chunk

	// dynamicCount is the number of Dynamic cells currently in read[].
	// It is only ever touched between ticks (Set*) or by the single
	// goroutine processing this chunk's own phase during a tick
	// (PushWrites) — never concurrently, so it needs no atomics itself.
	dynamicCount int
}

// NewChunk returns an empty chunk. Every cell starts Empty, which is
// not Go's zero value for PackedCell (the bit layout reserves a
// non-zero pattern for Empty), so both buffers are explicitly seeded.
func NewChunk() *Chunk {
	c := &Chunk{}
	for i := range c.read {
		c.read[i] = cell.None
		c.write[i].Store(cell.None)
	}
	return c
}

// AddNeighbor links nb as c's neighbor in direction dir.
func (c *Chunk) AddNeighbor(dir geom.Direction, nb *Chunk) {
	c.neighbors[dir] = nb
}

// RemoveNeighbor unlinks whatever neighbor c has in direction dir.
func (c *Chunk) RemoveNeighbor(dir geom.Direction) {
	c.neighbors[dir] = nil
}

// DynamicCount reports how many Dynamic cells are in the chunk as of
// the last PushWrites (or Set* call).
func (c *Chunk) DynamicCount() int {
	return c.dynamicCount
}

// Gravity decrements every Dynamic cell's y-velocity by one, floored at
// -3. Run once per tick, before sub-step 0, never concurrently with
// reads from a neighboring chunk (gravity never touches neighbors).
func (c *Chunk) Gravity() {
	for i := range c.read {
		cl := c.read[i].Unpack()
		if cl.Kind != cell.KindDynamic {
			continue
		}
		cl.Gravity()
		p := cl.Pack()
		c.read[i] = p
		c.write[i].Store(p)
	}
}

// PushWrites publishes write[] into read[] and refreshes the dynamic
// cell count. Every chunk's PushWrites must run only after every
// chunk's SubStep(n) for that sub-step has returned, otherwise a
// neighbor could still be mid-push; edge and cross-chunk slots were
// written via AtomicCell.Update with a preceding CAS, so Load here
// observes whatever the last successful writer published.
func (c *Chunk) PushWrites() {
	dynamic := 0
	for i := range c.write {
		v := c.write[i].Load()
		c.read[i] = v
		if v.IsOccupied() && v.IsDynamic() {
			dynamic++
		}
	}
	c.dynamicCount = dynamic
}

// SubStep advances every Dynamic cell in read[] by sub-step n ∈ {0,1,2},
// writing results to write[] via the pull/push algorithm below: a
// mover first pulls velocity updates from neighboring movers that
// would land on it, then pushes itself toward its own destination.
func (c *Chunk) SubStep(n int) {
	for i := range c.read {
		original := c.read[i].Unpack()
		if original.Kind != cell.KindDynamic {
			continue
		}
		pos := delinearize(i)
		mover := original

		c.pullCollisions(&mover, pos, n)

		delta := mover.SubStepDelta(n)
		if delta == (geom.IVec2{}) {
			if mover != original {
				c.write[i].Store(mover.Pack())
			}
			continue
		}

		if delta.X != 0 && delta.Y != 0 {
			c.resolveDiagonalMove(i, pos, mover, delta)
		} else {
			c.resolveDestination(i, pos.Add(delta), mover, delta)
		}
	}
}

// pullCollisions updates mover's velocity (never the neighbor's) from
// every Dynamic neighbor whose own sub-step move would land on pos.
// This is the "pull" half of the algorithm: every cell only ever
// mutates its own copy from visible neighbors.
func (c *Chunk) pullCollisions(mover *cell.Cell, pos geom.IVec2, n int) {
	for d := geom.Left; d <= geom.UpRight; d++ {
		adjPos := pos.Add(d.Offset())
		adjPacked, ok := c.readAt(adjPos)
		if !ok {
			continue
		}
		adj := adjPacked.Unpack()
		if adj.Kind != cell.KindDynamic {
			continue
		}

		adjDelta := adj.SubStepDelta(n)
		if adjDelta.X != 0 && adjDelta.Y != 0 {
			// Diagonal tunneling guard: the neighbor's diagonal move is
			// only free (and only then can it reach us) if neither
			// per-axis intermediate cell is occupied.
			xOccupied := c.isOccupiedAt(adjPos.Add(geom.IVec2{X: adjDelta.X}))
			yOccupied := c.isOccupiedAt(adjPos.Add(geom.IVec2{Y: adjDelta.Y}))
			if !xOccupied && !yOccupied && adjPos.Add(adjDelta) == pos {
				mover.DynamicCollision(adj, adjDelta)
			}
		} else if adjPos.Add(adjDelta) == pos {
			mover.DynamicCollision(adj, adjDelta)
		}
	}
}

// resolveDiagonalMove handles a mover whose sub-step delta has both
// axes non-zero. If either per-axis intermediate cell (the corner) is
// occupied, the move doesn't happen this sub-step: the mover applies
// whichever per-axis collisions are occupied and stays at pos. Only
// when both intermediates are clear does the mover actually attempt the
// diagonal destination.
func (c *Chunk) resolveDiagonalMove(i int, pos geom.IVec2, mover cell.Cell, delta geom.IVec2) {
	xPos := pos.Add(geom.IVec2{X: delta.X})
	yPos := pos.Add(geom.IVec2{Y: delta.Y})
	xPacked, xOk := c.readAt(xPos)
	yPacked, yOk := c.readAt(yPos)
	xOccupied := xOk && xPacked.IsOccupied()
	yOccupied := yOk && yPacked.IsOccupied()

	if !xOccupied && !yOccupied {
		c.resolveDestination(i, pos.Add(delta), mover, delta)
		return
	}

	if xOccupied {
		switch occ := xPacked.Unpack(); occ.Kind {
		case cell.KindDynamic:
			mover.DynamicCollisionAxisX(occ)
		case cell.KindStatic:
			mover.StaticCollisionAxisX(occ)
		}
	}
	if yOccupied {
		switch occ := yPacked.Unpack(); occ.Kind {
		case cell.KindDynamic:
			mover.DynamicCollisionAxisY(occ)
		case cell.KindStatic:
			mover.StaticCollisionAxisY(occ)
		}
	}
	c.write[i].Store(mover.Pack())
}

// resolveDestination handles the push side of a single-axis or
// already-cleared-diagonal move from pos to dst (= pos+delta): bounce
// off the world edge, collide with whatever already occupies dst, or
// commit the move into an empty destination.
func (c *Chunk) resolveDestination(i int, dst geom.IVec2, mover cell.Cell, delta geom.IVec2) {
	owner, local, ok := c.resolveChunk(dst)
	if !ok {
		mover.StaticCollision(cell.Cell{Kind: cell.KindStatic, Restitution: wallRestitution}, delta)
		c.write[i].Store(mover.Pack())
		return
	}

	dstIdx := linearize(local)
	if dstRead := owner.read[dstIdx]; dstRead.IsOccupied() {
		occ := dstRead.Unpack()
		switch occ.Kind {
		case cell.KindStatic:
			mover.StaticCollision(occ, delta)
		case cell.KindDynamic:
			mover.DynamicCollision(occ, delta)
		}
		c.write[i].Store(mover.Pack())
		return
	}

	if owner != c || isEdge(local) {
		var selfReplacement cell.PackedCell
		owner.write[dstIdx].Update(func(dst cell.PackedCell) cell.PackedCell {
			dstRepl, selfRepl := resolvePushInto(dst, mover, delta)
			selfReplacement = selfRepl
			return dstRepl
		})
		c.write[i].Store(selfReplacement)
		return
	}

	// Interior of the same chunk: no other goroutine can reach this
	// slot during this sub-step, so a plain load/store stands in for
	// the CAS loop above.
	dstRepl, selfRepl := resolvePushInto(owner.write[dstIdx].Load(), mover, delta)
	owner.write[dstIdx].Store(dstRepl)
	c.write[i].Store(selfRepl)
}

// resolvePushInto decides what belongs in an empty-as-of-read
// destination slot and in the mover's own slot, given whatever
// currently occupies the destination's write buffer at the instant of
// commit (possibly still Empty, possibly raced full by another mover).
func resolvePushInto(dst cell.PackedCell, mover cell.Cell, delta geom.IVec2) (dstReplacement, selfReplacement cell.PackedCell) {
	if !dst.IsOccupied() {
		return mover.Pack(), cell.None
	}
	occ := dst.Unpack()
	if occ.Kind != cell.KindDynamic {
		panic(physerr.Fatalf("world: static cell found in a push destination's write slot"))
	}
	m := mover
	m.TwoWayDynamicCollision(&occ, delta)
	return occ.Pack(), m.Pack()
}

// SetDynamic overwrites the cell at local with a fresh Dynamic cell.
func (c *Chunk) SetDynamic(local geom.IVec2, mass int8, v cell.Velocity) {
	c.setCell(local, cell.PackDynamic(mass, v))
}

// SetStatic overwrites the cell at local with a Static cell.
func (c *Chunk) SetStatic(local geom.IVec2, restitution int8) {
	c.setCell(local, cell.PackStatic(restitution))
}

// SetNone clears the cell at local.
func (c *Chunk) SetNone(local geom.IVec2) {
	c.setCell(local, cell.None)
}

func (c *Chunk) setCell(local geom.IVec2, p cell.PackedCell) {
	i := linearize(local)
	if old := c.read[i]; old.IsOccupied() && old.IsDynamic() {
		c.dynamicCount--
	}
	if p.IsOccupied() && p.IsDynamic() {
		c.dynamicCount++
	}
	c.read[i] = p
	c.write[i].Store(p)
}

// AppendOccupied appends the world-space position of every cell
// matching pred to out, given the world-space position of this chunk's
// local origin.
func (c *Chunk) AppendOccupied(origin geom.IVec2, pred func(cell.PackedCell) bool, out []geom.IVec2) []geom.IVec2 {
	for i, p := range c.read {
		if pred(p) {
			out = append(out, origin.Add(delinearize(i)))
		}
	}
	return out
}

// readAt returns the packed cell at a position expressed in c's own
// local frame (which may be outside [0,ChunkLen) by at most one cell —
// a single sub-step never moves a cell further than that). ok is false
// if the position resolves to a neighbor direction with no linked chunk.
func (c *Chunk) readAt(pos geom.IVec2) (cell.PackedCell, bool) {
	owner, local, ok := c.resolveChunk(pos)
	if !ok {
		return cell.None, false
	}
	return owner.read[linearize(local)], true
}

// isOccupiedAt reports whether pos (in c's local frame) holds a
// non-Empty cell. A position that resolves out of the world (no
// neighbor chunk linked) is treated as unoccupied — there is nothing
// there to block a diagonal corner.
func (c *Chunk) isOccupiedAt(pos geom.IVec2) bool {
	p, ok := c.readAt(pos)
	return ok && p.IsOccupied()
}

// resolveChunk maps a position in c's local frame to the chunk that
// owns it (c itself, or a neighbor) and that position re-expressed in
// the owner's own [0,ChunkLen) frame.
func (c *Chunk) resolveChunk(pos geom.IVec2) (owner *Chunk, local geom.IVec2, ok bool) {
	dir, outside := geom.DirectionFor(pos, ChunkLen)
	if !outside {
		return c, pos, true
	}
	nb := c.neighbors[dir]
	if nb == nil {
		return nil, geom.IVec2{}, false
	}
	return nb, pos.EuclidMod(ChunkLen), true
}

// isEdge reports whether a chunk-local position sits on the outermost
// ring of cells — the ring any cross-chunk push can land on, and thus
// the ring that must always be written via CAS rather than a plain
// store, since a neighbor chunk's goroutine can be writing it at the
// same instant.
func isEdge(local geom.IVec2) bool {
	return local.X == 0 || local.X == ChunkLen-1 || local.Y == 0 || local.Y == ChunkLen-1
}

func linearize(pos geom.IVec2) int {
	return int(pos.Y)*ChunkLen + int(pos.X)
}

func delinearize(i int) geom.IVec2 {
	return geom.IVec2{X: int32(i % ChunkLen), Y: int32(i / ChunkLen)}
}
