package world

import (
	"context"
	"math/rand/v2"
	"sync"

	"golang.org/x/sync/errgroup"
	"golang.org/x/sync/semaphore"

	"github.com/HiperSlug/cellular-physics/internal/cell"
	"github.com/HiperSlug/cellular-physics/internal/geom"
	"github.com/HiperSlug/cellular-physics/internal/physerr"
)

// ChunkMap is a sparse mapping from chunk coordinate to Chunk. Chunks
// are heap-allocated and referenced by pointer so that inserting or
// removing one never invalidates another chunk's neighbor links —
// they stay pinned in memory for as long as they're resident.
//
// Structural mutation (Insert/Remove) and ticking never overlap, so a
// single mutex guarding the map and neighbor patching is enough: there
// is no scenario where a reader needs to race a writer across a live
// tick, so no lock-free or generation-counted map is warranted here;
// see DESIGN.md.
type ChunkMap struct {
	mu     sync.Mutex
	chunks map[geom.IVec2]*Chunk

	workers int64
	rng     *rand.Rand

	subStepCounter int
}

// Option configures a ChunkMap at construction time.
type Option func(*ChunkMap)

// WithWorkers bounds the number of chunks ticked concurrently. Defaults
// to unbounded (one goroutine per chunk) when unset or <= 0.
func WithWorkers(n int) Option {
	return func(m *ChunkMap) { m.workers = int64(n) }
}

// WithSeed makes SetDynamic's mass/velocity sampling reproducible.
func WithSeed(seed uint64) Option {
	return func(m *ChunkMap) { m.rng = rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15)) }
}

// New returns an empty ChunkMap.
func New(opts ...Option) *ChunkMap {
	m := &ChunkMap{
		chunks: make(map[geom.IVec2]*Chunk),
		rng:    rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64())),
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

var neighborOffsets = func() [geom.NumDirections]geom.IVec2 {
	var out [geom.NumDirections]geom.IVec2
	for d := geom.Left; d <= geom.UpRight; d++ {
		out[d] = d.Offset()
	}
	return out
}()

// Insert places a new, empty chunk at coord and wires it to whichever
// of its eight neighbor coordinates are already resident, in both
// directions. Never called concurrently with Tick.
func (m *ChunkMap) Insert(coord geom.IVec2) *Chunk {
	m.mu.Lock()
	defer m.mu.Unlock()

	c := NewChunk()
	m.chunks[coord] = c

	for d := geom.Left; d <= geom.UpRight; d++ {
		nbCoord := coord.Add(neighborOffsets[d])
		nb, ok := m.chunks[nbCoord]
		if !ok {
			continue
		}
		c.AddNeighbor(d, nb)
		nb.AddNeighbor(d.Inverse(), c)
	}
	return c
}

// Remove unlinks coord's chunk from every resident neighbor and drops
// it. It is a fatal bug for a neighbor to keep referencing a removed
// chunk, so every neighbor's back-reference is cleared first.
func (m *ChunkMap) Remove(coord geom.IVec2) {
	m.mu.Lock()
	defer m.mu.Unlock()

	c, ok := m.chunks[coord]
	if !ok {
		return
	}
	for d := geom.Left; d <= geom.UpRight; d++ {
		nbCoord := coord.Add(neighborOffsets[d])
		if nb, ok := m.chunks[nbCoord]; ok {
			nb.RemoveNeighbor(d.Inverse())
		}
	}
	delete(m.chunks, coord)
}

// locate finds a chunk and local position for a world-space cell,
// under the map's mutex.
func (m *ChunkMap) locate(world geom.IVec2) (*Chunk, geom.IVec2, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	coord := world.FloorDiv(ChunkLen)
	c, ok := m.chunks[coord]
	if !ok {
		return nil, geom.IVec2{}, false
	}
	return c, world.EuclidMod(ChunkLen), true
}

// SetDynamic places a fresh Dynamic cell at world, sampling mass
// uniformly from 1..=4, x-velocity from -3..=3, and y-velocity from
// 1..=3. A no-op if no chunk is resident at that position.
func (m *ChunkMap) SetDynamic(world geom.IVec2) {
	c, local, ok := m.locate(world)
	if !ok {
		return
	}
	mass := int8(1 + m.rng.IntN(4))
	vx := int8(m.rng.IntN(7) - 3)
	vy := int8(1 + m.rng.IntN(3))
	c.SetDynamic(local, mass, cell.Velocity{X: vx, Y: vy})
}

// SetStatic places a Static cell with restitution 15 at world. A no-op
// if no chunk is resident there.
func (m *ChunkMap) SetStatic(world geom.IVec2) {
	if c, local, ok := m.locate(world); ok {
		c.SetStatic(local, 15)
	}
}

// SetNone clears world. A no-op if no chunk is resident there.
func (m *ChunkMap) SetNone(world geom.IVec2) {
	if c, local, ok := m.locate(world); ok {
		c.SetNone(local)
	}
}

// FillRect paints every world cell in [min, max) with factory(pos), a
// batched alternative to calling the individual Set* methods one cell
// at a time.
func (m *ChunkMap) FillRect(min, max geom.IVec2, factory func(geom.IVec2) cell.Cell) {
	for y := min.Y; y < max.Y; y++ {
		for x := min.X; x < max.X; x++ {
			world := geom.IVec2{X: x, Y: y}
			c, local, ok := m.locate(world)
			if !ok {
				continue
			}
			switch cl := factory(world); cl.Kind {
			case cell.KindDynamic:
				c.SetDynamic(local, cl.Mass, cl.Velocity)
			case cell.KindStatic:
				c.SetStatic(local, cl.Restitution)
			default:
				c.SetNone(local)
			}
		}
	}
}

// IterOccupied returns the world-space position of every non-Empty
// cell in the map.
func (m *ChunkMap) IterOccupied() []geom.IVec2 {
	return m.collect(cell.PackedCell.IsOccupied)
}

// IterStatic returns the world-space position of every Static cell.
func (m *ChunkMap) IterStatic() []geom.IVec2 {
	return m.collect(func(p cell.PackedCell) bool { return p.IsOccupied() && !p.IsDynamic() })
}

// IterDynamic returns the world-space position of every Dynamic cell.
func (m *ChunkMap) IterDynamic() []geom.IVec2 {
	return m.collect(func(p cell.PackedCell) bool { return p.IsOccupied() && p.IsDynamic() })
}

func (m *ChunkMap) collect(pred func(cell.PackedCell) bool) []geom.IVec2 {
	m.mu.Lock()
	type entry struct {
		coord geom.IVec2
		chunk *Chunk
	}
	snapshot := make([]entry, 0, len(m.chunks))
	for coord, c := range m.chunks {
		snapshot = append(snapshot, entry{coord, c})
	}
	m.mu.Unlock()

	var out []geom.IVec2
	for _, e := range snapshot {
		origin := geom.IVec2{X: e.coord.X * ChunkLen, Y: e.coord.Y * ChunkLen}
		out = e.chunk.AppendOccupied(origin, pred, out)
	}
	return out
}

// Tick advances the simulation by one sub-step: a gravity pass first
// when the sub-step counter is 0, then a sub-step pass and a
// push-writes pass, after which the counter advances mod 3. Three calls
// make one full tick. Insert/Remove must not be called concurrently
// with Tick.
func (m *ChunkMap) Tick(ctx context.Context) error {
	chunks := m.snapshotChunks()

	if m.subStepCounter == 0 {
		if err := m.dispatch(ctx, chunks, func(c *Chunk) error {
			if c.DynamicCount() > 0 {
				c.Gravity()
			}
			return nil
		}); err != nil {
			return err
		}
	}

	if err := m.dispatch(ctx, chunks, func(c *Chunk) error {
		if c.DynamicCount() > 0 {
			c.SubStep(m.subStepCounter)
		}
		return nil
	}); err != nil {
		return err
	}

	// PushWrites can never be skipped: a neighbor may have pushed a
	// cell into this chunk's write[] via the cross-chunk atomic path
	// regardless of this chunk's own occupancy.
	if err := m.dispatch(ctx, chunks, func(c *Chunk) error {
		c.PushWrites()
		return nil
	}); err != nil {
		return err
	}

	m.subStepCounter = (m.subStepCounter + 1) % 3
	return nil
}

func (m *ChunkMap) snapshotChunks() []*Chunk {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]*Chunk, 0, len(m.chunks))
	for _, c := range m.chunks {
		out = append(out, c)
	}
	return out
}

// dispatch runs fn on every chunk in parallel and blocks until all have
// returned — the global phase barrier needed between gravity, each
// sub-step, and each push-writes pass, so no chunk starts phase k+1
// before every chunk has finished phase k. If ctx is canceled before
// every chunk has been handed to a worker, dispatch waits for the
// chunks already started and returns ctx's error.
func (m *ChunkMap) dispatch(ctx context.Context, chunks []*Chunk, fn func(*Chunk) error) error {
	g, gctx := errgroup.WithContext(ctx)

	var sem *semaphore.Weighted
	if m.workers > 0 {
		sem = semaphore.NewWeighted(m.workers)
	}

	for _, c := range chunks {
		c := c
		if sem != nil {
			if err := sem.Acquire(gctx, 1); err != nil {
				_ = g.Wait()
				return err
			}
		}
		g.Go(func() error {
			if sem != nil {
				defer sem.Release(1)
			}
			return fn(c)
		})
	}

	if err := g.Wait(); err != nil {
		return physerr.Fatalf("world: chunk phase failed: %v", err)
	}
	return nil
}
