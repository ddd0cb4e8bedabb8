package main

import (
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/powforge/chungminer/internal/config"
	logpkg "github.com/powforge/chungminer/internal/logger"
	"github.com/powforge/chungminer/pkg/backend"
	minerpkg "github.com/powforge/chungminer/pkg/miner"
	"github.com/powforge/chungminer/pkg/types"
)

var (
	cfg    = config.NewConfig()
	logger *logpkg.Logger
)

func main() {
	var rootCmd = &cobra.Command{
		Use:   "chungminer <target>",
		Short: "Blake2s proof-of-work nonce solver",
		Long: `A single-shot proof-of-work solver. Reads a block header template from
stdin, searches the 64-bit nonce space for a value whose blake2s-256
digest is at or below the given 256-bit target, verifies the hit, and
prints "<nonce> <hashes> <rate>" on stdout.

The target is a 64-character hexadecimal string. The header must be
257 to 320 bytes; the tail past the provided bytes is zero-padded.`,
		Args: cobra.ExactArgs(1),
		Run:  runSolver,
	}

	rootCmd.Flags().Uint64VarP(&cfg.GlobalSize, "global", "g", config.DefaultGlobalSize, "Lanes per window")
	rootCmd.Flags().Uint64VarP(&cfg.LocalSize, "local", "l", config.DefaultLocalSize, "Work-group size hint for device backends")
	rootCmd.Flags().Uint64VarP(&cfg.WorksetSize, "workset", "w", config.DefaultWorksetSize, "Nonces scanned per lane")
	rootCmd.Flags().IntVar(&cfg.Workers, "workers", cfg.Workers, "Worker goroutines for the CPU backend")
	rootCmd.Flags().StringVarP(&cfg.NonceHex, "nonce", "n", "", "Hexadecimal start nonce override (default: random)")
	rootCmd.Flags().BoolVarP(&cfg.Suffix, "suffix", "f", false, "Embed the nonce in the final 8 header bytes instead of the first 8")
	rootCmd.Flags().BoolVarP(&cfg.Verbose, "verbose", "v", false, "Verbose output")
	rootCmd.Flags().StringVar(&cfg.LogFile, "log-file", "", "Log file for diagnostics (default: stderr)")
	rootCmd.Flags().IntVar(&cfg.LogInterval, "log-interval", config.DefaultLogInterval, "Progress logging interval in seconds")
	rootCmd.Flags().IntVarP(&cfg.Device, "device", "d", 0, "Device id (device backends only)")
	rootCmd.Flags().IntVarP(&cfg.Platform, "platform", "p", 0, "Platform id (device backends only)")

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func runSolver(cmd *cobra.Command, args []string) {
	if err := cfg.Validate(); err != nil {
		fatal(err)
	}
	setupLogging()

	target, err := types.ParseTarget(args[0])
	if err != nil {
		fatal(err)
	}

	header, err := config.ReadHeader(os.Stdin)
	if err != nil {
		fatal(err)
	}

	logger.Verbosef("target %s (difficulty ~%s)", target, target.Difficulty())
	logger.Verbosef("header %d bytes, %s nonce embedding", header.Len(), cfg.Mode())
	logger.Verbosef("window size %d (%d lanes x %d nonces)", cfg.GlobalSize*cfg.WorksetSize, cfg.GlobalSize, cfg.WorksetSize)

	var seed minerpkg.SeedSource = minerpkg.EntropySeed{}
	if n, ok, err := cfg.StartNonce(); err != nil {
		fatal(err)
	} else if ok {
		logger.Verbosef("using %#x as start nonce", n)
		seed = minerpkg.FixedSeed(n)
	}

	engine := minerpkg.NewEngine(cfg, header, target, backend.NewCPU(cfg.Mode(), cfg.Workers), logger)

	// Stop at the next window boundary on Ctrl+C
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-sigChan
		logger.Println("received interrupt, stopping at window boundary...")
		engine.Stop()
	}()

	result, err := engine.Run(seed)
	if err != nil {
		if errors.Is(err, minerpkg.ErrStopped) {
			os.Exit(1)
		}
		fatal(err)
	}

	logger.Verbosef("found nonce %#x after %d windows in %v", result.Nonce, result.Windows, result.Duration)
	fmt.Printf("%016x %d %d\n", result.Nonce, result.Hashes, uint64(result.Rate()))
}

func setupLogging() {
	if cfg.LogFile != "" {
		file, err := os.OpenFile(cfg.LogFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0666)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Failed to open log file: %v\n", err)
			os.Exit(1)
		}
		logger = logpkg.NewWriter(file)
		logger.SetFlags(logpkg.LstdFlags | logpkg.Lmicroseconds)
	} else {
		logger = logpkg.New()
	}
	logger.SetVerbose(cfg.Verbose)
}

func fatal(err error) {
	fmt.Fprintf(os.Stderr, "Error: %v\n", err)
	os.Exit(1)
}
