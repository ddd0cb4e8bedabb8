package backend

import (
	"github.com/powforge/chungminer/internal/crypto"
	"github.com/powforge/chungminer/pkg/types"
)

// Reference evaluates a window serially, lane by lane, straight from
// the hash oracle. It is the executable definition of the dispatch
// contract: any parallel backend must agree with it nonce for nonce.
type Reference struct {
	mode   types.Mode
	params Params
	header *types.HeaderBuffer
	target types.TargetDigest
	ready  bool
}

// NewReference creates a serial backend for the given embedding mode.
func NewReference(mode types.Mode) *Reference {
	return &Reference{mode: mode}
}

// Initialize records the grid, header and target for the run.
func (r *Reference) Initialize(p Params, header *types.HeaderBuffer, target types.TargetDigest) error {
	if r.ready {
		return ErrAlreadyInitialized
	}
	r.params = p
	r.header = header
	r.target = target
	r.ready = true
	return nil
}

// DispatchWindow scans the window in lane order and returns the first
// satisfying nonce.
func (r *Reference) DispatchWindow(start uint64) (types.Candidate, error) {
	if !r.ready {
		return types.Candidate{}, ErrNotInitialized
	}
	for lane := uint64(0); lane < r.params.GlobalSize; lane++ {
		base := r.params.LaneStart(start, lane)
		for j := uint64(0); j < r.params.WorksetSize; j++ {
			nonce := base + j
			digest := crypto.Digest(nonce, r.header, r.mode)
			if crypto.MeetsTarget(r.target, digest) {
				return types.Candidate{Found: true, Nonce: nonce}, nil
			}
		}
	}
	return types.Candidate{}, nil
}
