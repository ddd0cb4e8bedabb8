package types

import (
	"encoding/hex"
	"errors"
	"fmt"

	"github.com/holiman/uint256"
)

// ErrBadTarget is returned when a target string is not 64 hexadecimal
// characters.
var ErrBadTarget = errors.New("bad target")

// TargetDigest is the 256-bit threshold a digest must not exceed,
// stored big-endian.
type TargetDigest [DigestSize]byte

// ParseTarget decodes a 64-character hexadecimal target string.
func ParseTarget(s string) (TargetDigest, error) {
	var t TargetDigest
	if len(s) != 2*DigestSize {
		return t, fmt.Errorf("%w: got %d characters, want %d", ErrBadTarget, len(s), 2*DigestSize)
	}
	if _, err := hex.Decode(t[:], []byte(s)); err != nil {
		return t, fmt.Errorf("%w: %v", ErrBadTarget, err)
	}
	return t, nil
}

func (t TargetDigest) String() string {
	return hex.EncodeToString(t[:])
}

// Difficulty estimates the expected number of attempts per solution as
// maxUint256 / target. A zero target yields the maximum.
func (t TargetDigest) Difficulty() *uint256.Int {
	v := new(uint256.Int).SetBytes32(t[:])
	if v.IsZero() {
		return new(uint256.Int).SetAllOne()
	}
	max := new(uint256.Int).SetAllOne()
	return max.Div(max, v)
}
