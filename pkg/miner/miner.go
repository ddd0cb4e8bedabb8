// Package miner implements the windowed nonce search over an injected
// parallel backend, with independent re-verification of anything the
// backend reports.
package miner

import (
	"errors"
	"fmt"
	"math"
	"sync"
	"time"

	"github.com/powforge/chungminer/internal/config"
	"github.com/powforge/chungminer/internal/crypto"
	"github.com/powforge/chungminer/internal/logger"
	"github.com/powforge/chungminer/pkg/backend"
	"github.com/powforge/chungminer/pkg/types"
)

// Errors
var (
	// ErrIntegrityFault means the backend reported a nonce that fails
	// independent re-verification. Always fatal: a backend that lies
	// once cannot be trusted to self-correct.
	ErrIntegrityFault = errors.New("backend reported a nonce that fails verification")

	// ErrSpaceExhausted means the 64-bit nonce space was consumed from
	// the seed upward without a hit. The search never wraps around.
	ErrSpaceExhausted = errors.New("nonce space exhausted")

	// ErrStopped means the search was stopped at a window boundary
	// before a nonce was found.
	ErrStopped = errors.New("search stopped")
)

// Engine drives one search run: it partitions the nonce space into
// contiguous windows, dispatches them one at a time to the backend, and
// verifies any candidate against the hash oracle before accepting it.
// The engine itself is single-threaded; all parallelism lives behind
// the Backend.
type Engine struct {
	config  *config.Config
	logger  *logger.Logger
	backend backend.Backend
	header  *types.HeaderBuffer
	target  types.TargetDigest
	mode    types.Mode
	params  backend.Params

	done chan struct{}
	once sync.Once

	windows   uint64
	startTime time.Time
}

// NewEngine creates a search engine. The header and target are shared
// read-only with the backend for the whole run.
func NewEngine(cfg *config.Config, header *types.HeaderBuffer, target types.TargetDigest, b backend.Backend, log *logger.Logger) *Engine {
	return &Engine{
		config:  cfg,
		logger:  log,
		backend: b,
		header:  header,
		target:  target,
		mode:    cfg.Mode(),
		params: backend.Params{
			GlobalSize:  cfg.GlobalSize,
			LocalSize:   cfg.LocalSize,
			WorksetSize: cfg.WorksetSize,
		},
		done: make(chan struct{}),
	}
}

// Run searches from the seeded starting nonce until a verified nonce is
// found, the space is exhausted, or the engine is stopped. Windows are
// contiguous: window k+1 starts exactly at window k's start plus the
// window size.
func (e *Engine) Run(seed SeedSource) (*types.Result, error) {
	w := e.params.WindowSize()

	start, err := seed.Seed()
	if err != nil {
		return nil, err
	}

	if err := e.backend.Initialize(e.params, e.header, e.target); err != nil {
		return nil, fmt.Errorf("backend init: %w", err)
	}

	e.startTime = time.Now()
	lastLog := e.startTime

	for {
		select {
		case <-e.done:
			e.logProgress("stopped after")
			return nil, ErrStopped
		default:
		}

		// the window's last nonce must fit in the 64-bit domain
		if start > math.MaxUint64-(w-1) {
			return nil, ErrSpaceExhausted
		}

		e.logger.Verbosef("trying %#x - %#x", start, start+w-1)
		cand, err := e.backend.DispatchWindow(start)
		if err != nil {
			return nil, fmt.Errorf("backend dispatch: %w", err)
		}
		e.windows++

		if cand.Found {
			if err := e.verify(cand.Nonce); err != nil {
				return nil, err
			}
			return &types.Result{
				Nonce:    cand.Nonce,
				Windows:  e.windows,
				Hashes:   e.windows * w,
				Duration: time.Since(e.startTime),
			}, nil
		}

		next := start + w
		if next < start {
			return nil, ErrSpaceExhausted
		}
		start = next

		if interval := time.Duration(e.config.LogInterval) * time.Second; interval > 0 && time.Since(lastLog) >= interval {
			e.logProgress("progress:")
			lastLog = time.Now()
		}
	}
}

// Stop ends the run at the next window boundary. A window in flight
// always completes; it is the smallest unit of abortable work.
func (e *Engine) Stop() {
	e.once.Do(func() { close(e.done) })
}

// verify independently recomputes the candidate's digest and checks it
// against the target.
func (e *Engine) verify(nonce uint64) error {
	digest := crypto.Digest(nonce, e.header, e.mode)
	if !crypto.MeetsTarget(e.target, digest) {
		e.logger.Printf("bad nonce %#016x", nonce)
		e.logger.Printf("target: %s", e.target)
		e.logger.Printf("digest: %x", digest)
		return fmt.Errorf("%w: nonce %016x", ErrIntegrityFault, nonce)
	}
	return nil
}

func (e *Engine) logProgress(prefix string) {
	hashes := e.windows * e.params.WindowSize()
	elapsed := time.Since(e.startTime)
	rate := 0.0
	if elapsed.Seconds() > 0 {
		rate = float64(hashes) / elapsed.Seconds()
	}
	e.logger.Printf("%s %d windows, %d hashes, %.2f hashes/sec", prefix, e.windows, hashes, rate)
}
