package crypto

import (
	"encoding/binary"

	"golang.org/x/crypto/blake2s"

	"github.com/powforge/chungminer/pkg/types"
)

// Digest computes the blake2s-256 digest of the header with the nonce
// embedded according to mode. The nonce is hashed as 8 little-endian
// bytes: in prefix mode it replaces the first 8 header bytes, in suffix
// mode it replaces the last 8.
//
// This is the reference definition every backend lane must match
// bit-for-bit, and the function the engine re-verifies candidates with.
func Digest(nonce uint64, header *types.HeaderBuffer, mode types.Mode) [types.DigestSize]byte {
	var nb [types.NonceSize]byte
	binary.LittleEndian.PutUint64(nb[:], nonce)

	h, _ := blake2s.New256(nil)
	b := header.Bytes()
	if mode == types.NonceSuffix {
		_, _ = h.Write(b[:len(b)-types.NonceSize])
		_, _ = h.Write(nb[:])
	} else {
		_, _ = h.Write(nb[:])
		_, _ = h.Write(b[types.NonceSize:])
	}

	var out [types.DigestSize]byte
	h.Sum(out[:0])
	return out
}

// MeetsTarget reports whether digest <= target, both interpreted as
// big-endian 256-bit integers. Compares byte-wise from the most
// significant end and exits on the first difference.
func MeetsTarget(target types.TargetDigest, digest [types.DigestSize]byte) bool {
	for i := 0; i < types.DigestSize; i++ {
		if digest[i] < target[i] {
			return true
		}
		if digest[i] > target[i] {
			return false
		}
	}
	// equal counts as a pass
	return true
}
