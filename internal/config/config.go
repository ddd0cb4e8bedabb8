package config

import (
	"errors"
	"fmt"
	"io"
	"math/bits"
	"runtime"
	"strconv"
	"strings"

	"github.com/powforge/chungminer/pkg/types"
)

// Errors
var (
	ErrBadWorkSize    = errors.New("global, local and workset sizes must be positive")
	ErrConfigOverflow = errors.New("global size * workset size overflows the 64-bit nonce domain")
)

// Work configuration defaults, tuned for GPU-era grids; the CPU backend
// only cares about the window size they multiply out to.
const (
	DefaultGlobalSize  = 1024 * 1024 * 16
	DefaultLocalSize   = 256
	DefaultWorksetSize = 64
	DefaultLogInterval = 5
)

// Config holds the application configuration
type Config struct {
	GlobalSize  uint64
	LocalSize   uint64
	WorksetSize uint64
	Workers     int
	Suffix      bool
	NonceHex    string
	Verbose     bool
	LogFile     string
	LogInterval int // Logging interval in seconds
	Device      int // accepted for flag compatibility, unused by the CPU backend
	Platform    int // accepted for flag compatibility, unused by the CPU backend
}

// NewConfig creates a new configuration with default values
func NewConfig() *Config {
	return &Config{
		GlobalSize:  DefaultGlobalSize,
		LocalSize:   DefaultLocalSize,
		WorksetSize: DefaultWorksetSize,
		Workers:     runtime.NumCPU(),
		LogInterval: DefaultLogInterval,
	}
}

// Validate validates the configuration. The window arithmetic is
// checked here so an overflowing grid is rejected before any dispatch.
func (c *Config) Validate() error {
	if c.GlobalSize == 0 || c.LocalSize == 0 || c.WorksetSize == 0 {
		return ErrBadWorkSize
	}
	if hi, _ := bits.Mul64(c.GlobalSize, c.WorksetSize); hi != 0 {
		return ErrConfigOverflow
	}
	return nil
}

// Mode returns the configured nonce embedding mode.
func (c *Config) Mode() types.Mode {
	if c.Suffix {
		return types.NonceSuffix
	}
	return types.NoncePrefix
}

// StartNonce parses the hexadecimal nonce override. The second return
// is false when no override was given.
func (c *Config) StartNonce() (uint64, bool, error) {
	if c.NonceHex == "" {
		return 0, false, nil
	}
	s := strings.TrimPrefix(strings.TrimPrefix(c.NonceHex, "0x"), "0X")
	n, err := strconv.ParseUint(s, 16, 64)
	if err != nil {
		return 0, false, fmt.Errorf("invalid nonce override %q: %w", c.NonceHex, err)
	}
	return n, true, nil
}

// ReadHeader reads a header template from r until end-of-stream into a
// bounded buffer.
func ReadHeader(r io.Reader) (*types.HeaderBuffer, error) {
	data, err := io.ReadAll(io.LimitReader(r, types.HeaderMaxSize+1))
	if err != nil {
		return nil, fmt.Errorf("reading header: %w", err)
	}
	return types.NewHeaderBuffer(data)
}
