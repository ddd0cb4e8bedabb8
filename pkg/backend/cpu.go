package backend

import (
	"runtime"
	"sync"
	"sync/atomic"

	"github.com/powforge/chungminer/internal/crypto"
	"github.com/powforge/chungminer/pkg/types"
)

// CPU is the production executor: a window's lanes are spread over a
// bounded pool of worker goroutines. Lanes share only the immutable
// header and target; each scans its own sub-range and reports at most
// one hit, so a dispatch is deterministic and repeatable.
type CPU struct {
	mode    types.Mode
	workers int
	params  Params
	header  *types.HeaderBuffer
	target  types.TargetDigest
	ready   bool
}

// NewCPU creates a parallel backend running at most workers goroutines
// per window. workers <= 0 means one per logical CPU.
func NewCPU(mode types.Mode, workers int) *CPU {
	if workers <= 0 {
		workers = runtime.NumCPU()
	}
	return &CPU{mode: mode, workers: workers}
}

// Initialize records the grid, header and target for the run.
func (c *CPU) Initialize(p Params, header *types.HeaderBuffer, target types.TargetDigest) error {
	if c.ready {
		return ErrAlreadyInitialized
	}
	c.params = p
	c.header = header
	c.target = target
	c.ready = true
	return nil
}

// DispatchWindow evaluates every lane of the window and returns the
// smallest satisfying nonce found, matching the Reference backend.
func (c *CPU) DispatchWindow(start uint64) (types.Candidate, error) {
	if !c.ready {
		return types.Candidate{}, ErrNotInitialized
	}

	workers := c.workers
	if uint64(workers) > c.params.GlobalSize {
		workers = int(c.params.GlobalSize)
	}

	var (
		next  atomic.Uint64 // next unclaimed lane
		mu    sync.Mutex
		found bool
		best  uint64
		wg    sync.WaitGroup
	)

	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for {
				lane := next.Add(1) - 1
				if lane >= c.params.GlobalSize {
					return
				}
				base := c.params.LaneStart(start, lane)
				for j := uint64(0); j < c.params.WorksetSize; j++ {
					nonce := base + j
					digest := crypto.Digest(nonce, c.header, c.mode)
					if crypto.MeetsTarget(c.target, digest) {
						mu.Lock()
						if !found || nonce < best {
							found, best = true, nonce
						}
						mu.Unlock()
						// a lane reports only its first hit
						break
					}
				}
			}
		}()
	}
	wg.Wait()

	if !found {
		return types.Candidate{}, nil
	}
	return types.Candidate{Found: true, Nonce: best}, nil
}
