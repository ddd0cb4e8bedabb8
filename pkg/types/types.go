package types

import "time"

// Mode selects where the nonce bytes are embedded in the hashed input.
type Mode int

const (
	// NoncePrefix hashes the nonce's 8 bytes followed by the header
	// bytes after the first 8.
	NoncePrefix Mode = iota
	// NonceSuffix hashes all header bytes except the last 8, then the
	// nonce's 8 bytes.
	NonceSuffix
)

func (m Mode) String() string {
	if m == NonceSuffix {
		return "suffix"
	}
	return "prefix"
}

// Candidate is the outcome of one window dispatch. The zero value means
// no satisfying nonce was found in the window. A backend that finds
// nonce 0 reports Found=true, so a genuine zero nonce is never confused
// with a miss.
type Candidate struct {
	Found bool
	Nonce uint64
}

// Result represents a completed search run
type Result struct {
	Nonce    uint64
	Windows  uint64
	Hashes   uint64
	Duration time.Duration
}

// Rate returns the approximate hash rate in hashes per second.
func (r *Result) Rate() float64 {
	if r.Duration.Seconds() <= 0 {
		return 0
	}
	return float64(r.Hashes) / r.Duration.Seconds()
}
