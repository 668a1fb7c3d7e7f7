package cell

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestAtomicCellStoreLoad(t *testing.T) {
	var c AtomicCell
	c.Store(PackStatic(7))
	require.Equal(t, PackStatic(7), c.Load())
}

func TestAtomicCellUpdateRetriesUnderContention(t *testing.T) {
	var c AtomicCell
	c.Store(None)

	const n = 64
	var wg sync.WaitGroup
	wg.Add(n)
	for range n {
		go func() {
			defer wg.Done()
			c.Update(func(p PackedCell) PackedCell {
				if !p.IsOccupied() {
					return PackStatic(1)
				}
				return p
			})
		}()
	}
	wg.Wait()

	require.Equal(t, PackStatic(1), c.Load())
}
