package crypto

import (
	"bytes"
	"encoding/binary"
	"testing"

	"github.com/holiman/uint256"
	"golang.org/x/crypto/blake2s"

	"github.com/powforge/chungminer/pkg/types"
)

func testHeader(t *testing.T, size int) *types.HeaderBuffer {
	t.Helper()
	data := make([]byte, size)
	for i := range data {
		data[i] = byte(i % 251)
	}
	h, err := types.NewHeaderBuffer(data)
	if err != nil {
		t.Fatalf("NewHeaderBuffer: %v", err)
	}
	return h
}

func TestDigestDeterminism(t *testing.T) {
	header := testHeader(t, types.HeaderMinSize)
	for _, mode := range []types.Mode{types.NoncePrefix, types.NonceSuffix} {
		t.Run(mode.String(), func(t *testing.T) {
			first := Digest(0xdeadbeef, header, mode)
			for i := 0; i < 3; i++ {
				if got := Digest(0xdeadbeef, header, mode); got != first {
					t.Errorf("call %d returned %x, want %x", i, got, first)
				}
			}
		})
	}
}

func TestDigestMatchesBlake2s(t *testing.T) {
	tests := []struct {
		name  string
		size  int
		nonce uint64
		mode  types.Mode
	}{
		{"prefix min header", types.HeaderMinSize, 1, types.NoncePrefix},
		{"prefix max header", types.HeaderMaxSize, 0xffffffffffffffff, types.NoncePrefix},
		{"suffix min header", types.HeaderMinSize, 1, types.NonceSuffix},
		{"suffix max header", types.HeaderMaxSize, 0x0123456789abcdef, types.NonceSuffix},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			header := testHeader(t, tt.size)

			var nb [types.NonceSize]byte
			binary.LittleEndian.PutUint64(nb[:], tt.nonce)
			var input []byte
			if tt.mode == types.NonceSuffix {
				input = append(input, header.Bytes()[:tt.size-types.NonceSize]...)
				input = append(input, nb[:]...)
			} else {
				input = append(input, nb[:]...)
				input = append(input, header.Bytes()[types.NonceSize:]...)
			}
			want := blake2s.Sum256(input)

			if got := Digest(tt.nonce, header, tt.mode); got != want {
				t.Errorf("Digest() = %x, want %x", got, want)
			}
		})
	}
}

func TestDigestModeChangesDigest(t *testing.T) {
	// first and last 8 header bytes differ, so the two embeddings hash
	// different inputs
	header := testHeader(t, types.HeaderMinSize)
	prefix := Digest(42, header, types.NoncePrefix)
	suffix := Digest(42, header, types.NonceSuffix)
	if prefix == suffix {
		t.Errorf("prefix and suffix modes produced the same digest %x", prefix)
	}
}

func TestMeetsTargetExtremes(t *testing.T) {
	var allOnes, zero types.TargetDigest
	for i := range allOnes {
		allOnes[i] = 0xff
	}

	anyDigest := [types.DigestSize]byte{0x7f, 0x01, 0xee}
	if !MeetsTarget(allOnes, anyDigest) {
		t.Error("all-ones target rejected a digest")
	}
	if MeetsTarget(zero, anyDigest) {
		t.Error("zero target accepted a nonzero digest")
	}
	if !MeetsTarget(zero, [types.DigestSize]byte{}) {
		t.Error("zero target rejected the zero digest")
	}
}

func TestMeetsTargetSelfPass(t *testing.T) {
	header := testHeader(t, types.HeaderMinSize)
	for nonce := uint64(0); nonce < 8; nonce++ {
		d := Digest(nonce, header, types.NoncePrefix)
		if !MeetsTarget(types.TargetDigest(d), d) {
			t.Errorf("digest %x does not pass against itself", d)
		}
	}
}

func TestMeetsTargetOrdering(t *testing.T) {
	tests := []struct {
		name   string
		target string
		digest string
	}{
		{"first byte decides", "80000000000000000000000000000000000000000000000000000000000000ff", "7fffffffffffffffffffffffffffffffffffffffffffffffffffffffffffffff"},
		{"last byte decides", "0000000000000000000000000000000000000000000000000000000000000002", "0000000000000000000000000000000000000000000000000000000000000003"},
		{"equal values", "00ffee00000000000000000000000000000000000000000000000000000000aa", "00ffee00000000000000000000000000000000000000000000000000000000aa"},
		{"middle byte decides", "0000000000000000000000000000000100000000000000000000000000000000", "0000000000000000000000000000000200000000000000000000000000000000"},
		{"digest above target", "00000000000000000000000000000000000000000000000000000000000000ff", "0000000000000000000000000000000000000000000000000000000000000100"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			target, err := types.ParseTarget(tt.target)
			if err != nil {
				t.Fatalf("ParseTarget: %v", err)
			}
			parsed, err := types.ParseTarget(tt.digest)
			if err != nil {
				t.Fatalf("ParseTarget digest: %v", err)
			}
			digest := [types.DigestSize]byte(parsed)

			// the byte loop must agree with 256-bit integer ordering
			ti := new(uint256.Int).SetBytes32(target[:])
			di := new(uint256.Int).SetBytes32(digest[:])
			want := di.Cmp(ti) <= 0

			if got := MeetsTarget(target, digest); got != want {
				t.Errorf("MeetsTarget(%s, %s) = %v, want %v", tt.target, tt.digest, got, want)
			}
		})
	}
}

func TestMeetsTargetAgainstUint256(t *testing.T) {
	// digests of consecutive nonces against each other, checked against
	// uint256 ordering
	header := testHeader(t, types.HeaderMinSize)
	var digests [][types.DigestSize]byte
	for nonce := uint64(0); nonce < 6; nonce++ {
		digests = append(digests, Digest(nonce, header, types.NoncePrefix))
	}

	for i, target := range digests {
		for j, digest := range digests {
			ti := new(uint256.Int).SetBytes32(target[:])
			di := new(uint256.Int).SetBytes32(digest[:])
			want := di.Cmp(ti) <= 0
			if got := MeetsTarget(types.TargetDigest(target), digest); got != want {
				t.Errorf("target=digest(%d) digest=digest(%d): got %v, want %v", i, j, got, want)
			}
		}
	}

	if bytes.Equal(digests[0][:], digests[1][:]) {
		t.Fatal("distinct nonces produced identical digests")
	}
}
