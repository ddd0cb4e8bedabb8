// Package backend defines the dispatch contract between the search
// engine and a massively parallel executor, plus the implementations
// shipped with this module. The engine treats a Backend as an opaque
// synchronous batch function and implements no parallelism itself.
package backend

import (
	"errors"

	"github.com/powforge/chungminer/pkg/types"
)

// Errors
var (
	ErrNotInitialized     = errors.New("backend not initialized")
	ErrAlreadyInitialized = errors.New("backend already initialized")
)

// Params describes the search grid for one run. A window covers
// GlobalSize lanes of WorksetSize consecutive nonces each.
type Params struct {
	GlobalSize  uint64
	LocalSize   uint64 // work-group hint, meaningful only to device backends
	WorksetSize uint64
}

// WindowSize returns the number of nonces covered by one dispatch.
// Callers validate the product against overflow before building Params.
func (p Params) WindowSize() uint64 {
	return p.GlobalSize * p.WorksetSize
}

// LaneStart returns the first nonce of lane i within a window starting
// at start. Lane i covers [LaneStart, LaneStart+WorksetSize) in
// increasing order, so consecutive lanes tile the window exactly.
func (p Params) LaneStart(start, i uint64) uint64 {
	return start + i*p.WorksetSize
}

// Backend evaluates windows of the nonce space against a fixed header
// and target.
type Backend interface {
	// Initialize performs one-time setup for a run. It must be called
	// exactly once before any dispatch; the header and target are
	// shared read-only for the lifetime of the run.
	Initialize(p Params, header *types.HeaderBuffer, target types.TargetDigest) error

	// DispatchWindow synchronously evaluates every nonce in
	// [start, start+WindowSize) and returns the smallest satisfying
	// nonce, or a not-found Candidate. Repeated calls with the same
	// start must return the same result.
	DispatchWindow(start uint64) (types.Candidate, error)
}
