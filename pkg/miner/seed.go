package miner

import (
	"crypto/rand"
	"encoding/binary"
	"fmt"
)

// SeedSource yields the starting nonce for a search run.
type SeedSource interface {
	Seed() (uint64, error)
}

// FixedSeed always returns the same starting nonce, for reproducible
// runs and tests.
type FixedSeed uint64

func (s FixedSeed) Seed() (uint64, error) {
	return uint64(s), nil
}

// EntropySeed draws the starting nonce from the operating system
// CSPRNG. A draw failure is surfaced to the caller; there is no
// fallback to a fixed seed.
type EntropySeed struct{}

func (EntropySeed) Seed() (uint64, error) {
	var b [8]byte
	if _, err := rand.Read(b[:]); err != nil {
		return 0, fmt.Errorf("entropy source: %w", err)
	}
	return binary.LittleEndian.Uint64(b[:]), nil
}
