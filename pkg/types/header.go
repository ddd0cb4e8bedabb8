package types

import (
	"errors"
	"fmt"
)

const (
	// HeaderFixedSize is the size of the fixed prefix region of a
	// header template.
	HeaderFixedSize = 256

	// HeaderTailMax is the boundary the variable tail is zero-padded
	// up to.
	HeaderTailMax = 64

	// HeaderMaxSize is the full capacity of a header buffer.
	HeaderMaxSize = HeaderFixedSize + HeaderTailMax

	// HeaderMinSize is the smallest valid header: the fixed region
	// plus at least one tail byte.
	HeaderMinSize = HeaderFixedSize + 1

	// NonceSize is the width of the embedded nonce in bytes.
	NonceSize = 8

	// DigestSize is the width of a digest in bytes.
	DigestSize = 32
)

// ErrBadHeaderLength is returned when a header template's length falls
// outside [HeaderMinSize, HeaderMaxSize].
var ErrBadHeaderLength = errors.New("bad header length")

// HeaderBuffer is a block header template. The bytes past the provided
// length up to HeaderMaxSize are zeroed at construction and the buffer
// never mutates afterwards.
type HeaderBuffer struct {
	buf    [HeaderMaxSize]byte
	length int
}

// NewHeaderBuffer validates and copies a header template.
func NewHeaderBuffer(data []byte) (*HeaderBuffer, error) {
	if len(data) < HeaderMinSize || len(data) > HeaderMaxSize {
		return nil, fmt.Errorf("%w: got %d bytes, want %d to %d",
			ErrBadHeaderLength, len(data), HeaderMinSize, HeaderMaxSize)
	}
	h := &HeaderBuffer{length: len(data)}
	copy(h.buf[:], data)
	return h, nil
}

// Len returns the logical header length.
func (h *HeaderBuffer) Len() int {
	return h.length
}

// Bytes returns the logical header bytes. Callers must not modify the
// returned slice.
func (h *HeaderBuffer) Bytes() []byte {
	return h.buf[:h.length]
}

// Padded returns the full HeaderMaxSize buffer with the zeroed tail,
// for backends that stage fixed-size blocks. Callers must not modify
// the returned slice.
func (h *HeaderBuffer) Padded() []byte {
	return h.buf[:]
}
