package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"runtime"
	"sync"
	"sync/atomic"
	"time"

	"github.com/spf13/cobra"

	"github.com/cloudwego/stripool/hash/xfnv"
	"github.com/cloudwego/stripool/unsafex/arena"
	"github.com/cloudwego/stripool/unsafex/stripool"
)

type swarmConfig struct {
	StripSize  int
	Strips     int
	Workers    int
	Iterations int
	Checks     int
	Arena      string
	Timeout    time.Duration
}

type swarmResult struct {
	Workers    int            `json:"workers"`
	Iterations int            `json:"iterations"`
	Acquired   int64          `json:"acquired"`
	Overlaps   int64          `json:"overlaps"`
	Elapsed    time.Duration  `json:"elapsed"`
	Pool       stripool.Stats `json:"pool"`
}

var errOverlap = errors.New("overlapping allocations detected")

var swarmCfg = swarmConfig{}

func init() {
	cmd := newSwarmCmd()
	f := cmd.Flags()
	f.IntVar(&swarmCfg.StripSize, "strip-size", 32, "Allocation size every strip can satisfy")
	f.IntVar(&swarmCfg.Strips, "strips", 12, "Number of strips")
	f.IntVar(&swarmCfg.Workers, "workers", 24, "Number of concurrent goroutines")
	f.IntVar(&swarmCfg.Iterations, "iterations", 10000, "Acquire/release cycles per worker")
	f.IntVar(&swarmCfg.Checks, "checks", 16, "Fill and verify rounds per allocation")
	f.StringVar(&swarmCfg.Arena, "arena", "heap", "Backing storage: heap, pooled or mmap")
	f.DurationVar(&swarmCfg.Timeout, "timeout", 5*time.Second, "Max wait for a single acquire")
	rootCmd.AddCommand(cmd)
}

func newSwarmCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "swarm",
		Short: "Check that concurrent allocations never overlap",
		Long: `The swarm command starts many workers sharing one pool. Each worker
repeatedly acquires a block, fills it with its own id, verifies the
content several times and releases it. Any mismatch means two live
allocations overlapped.

Example:
  stripswarm swarm
  stripswarm swarm --workers 64 --strips 8 --arena mmap --json`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			res, err := runSwarm(cmd.Context(), swarmCfg)
			if err != nil && !errors.Is(err, errOverlap) {
				return err
			}
			if jsonOut {
				if perr := printJSON(cmd.OutOrStdout(), res); perr != nil {
					return perr
				}
			} else {
				fmt.Fprintf(cmd.OutOrStdout(), "workers=%d iterations=%d acquired=%d overlaps=%d elapsed=%s\n",
					res.Workers, res.Iterations, res.Acquired, res.Overlaps, res.Elapsed)
			}
			return err
		},
	}
}

func runSwarm(ctx context.Context, cfg swarmConfig) (swarmResult, error) {
	res := swarmResult{Workers: cfg.Workers, Iterations: cfg.Iterations}
	if cfg.StripSize <= 0 || cfg.Workers <= 0 || cfg.Iterations < 0 || cfg.Checks <= 0 {
		return res, fmt.Errorf("invalid swarm config: %+v", cfg)
	}
	if cfg.Workers > 255 {
		return res, fmt.Errorf("at most 255 workers are supported, got %d", cfg.Workers)
	}
	if ctx == nil {
		ctx = context.Background()
	}
	a, err := arena.ByName(cfg.Arena)
	if err != nil {
		return res, err
	}
	p, err := stripool.NewSized(&stripool.Option{StripSize: cfg.StripSize, StripCount: cfg.Strips, Arena: a})
	if err != nil {
		return res, err
	}
	defer func() {
		if err := p.Close(); err != nil {
			logger.Warn("close pool", slog.Any("err", err))
		}
	}()
	logger.Info("swarm started",
		slog.Int("workers", cfg.Workers),
		slog.Int("strips", p.StripCount()),
		slog.Int("raw_strip_size", p.StripSize()),
		slog.String("arena", cfg.Arena))

	var (
		acquired atomic.Int64
		overlaps atomic.Int64
		errOnce  sync.Once
		firstErr error
		wg       sync.WaitGroup
	)
	begin := time.Now()
	for w := 0; w < cfg.Workers; w++ {
		wg.Add(1)
		go func(id byte) {
			defer wg.Done()
			if err := swarmWorker(ctx, p, cfg, id, &acquired, &overlaps); err != nil {
				errOnce.Do(func() { firstErr = err })
			}
			logger.Debug("worker done", slog.Int("id", int(id)))
		}(byte(w + 1))
	}
	wg.Wait()

	res.Elapsed = time.Since(begin)
	res.Acquired = acquired.Load()
	res.Overlaps = overlaps.Load()
	res.Pool = p.Stats()
	if firstErr != nil {
		return res, firstErr
	}
	if res.Overlaps > 0 {
		logger.Error("swarm failed", slog.Int64("overlaps", res.Overlaps))
		return res, errOverlap
	}
	logger.Info("swarm finished", slog.Int64("acquired", res.Acquired), slog.Duration("elapsed", res.Elapsed))
	return res, nil
}

func swarmWorker(ctx context.Context, p *stripool.Pool, cfg swarmConfig, id byte,
	acquired, overlaps *atomic.Int64,
) error {
	maxSize := cfg.StripSize
	expected := make([]byte, maxSize)
	for i := range expected {
		expected[i] = id
	}
	for i := 0; i < cfg.Iterations; i++ {
		size := 1 + (i*7+int(id))%maxSize
		actx, cancel := context.WithTimeout(ctx, cfg.Timeout)
		b, err := p.AcquireContext(actx, size)
		cancel()
		if err != nil {
			return fmt.Errorf("worker %d: acquire %d bytes: %w", id, size, err)
		}
		acquired.Add(1)
		want := xfnv.Sum64(expected[:size])
		for c := 0; c < cfg.Checks; c++ {
			copy(b, expected)
			runtime.Gosched()
			if xfnv.Sum64(b) != want {
				overlaps.Add(1)
				logger.Error("overlap", slog.Int("worker", int(id)), slog.Int("size", size))
				break
			}
		}
		p.Release(b)
	}
	return nil
}
