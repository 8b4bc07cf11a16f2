package main

import (
	"bytes"
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRunSwarm(t *testing.T) {
	for _, name := range []string{"heap", "pooled"} {
		t.Run(name, func(t *testing.T) {
			res, err := runSwarm(context.Background(), swarmConfig{
				StripSize:  32,
				Strips:     4,
				Workers:    8,
				Iterations: 200,
				Checks:     2,
				Arena:      name,
				Timeout:    5 * time.Second,
			})
			require.NoError(t, err)
			assert.Equal(t, int64(8*200), res.Acquired)
			assert.Equal(t, int64(0), res.Overlaps)
			assert.Equal(t, 0, res.Pool.LiveAllocations)
		})
	}
}

func TestRunSwarmInvalid(t *testing.T) {
	base := swarmConfig{StripSize: 32, Strips: 4, Workers: 2, Iterations: 1, Checks: 1, Timeout: time.Second}
	tests := []struct {
		name   string
		modify func(c *swarmConfig)
	}{
		{"no_workers", func(c *swarmConfig) { c.Workers = 0 }},
		{"too_many_workers", func(c *swarmConfig) { c.Workers = 256 }},
		{"no_checks", func(c *swarmConfig) { c.Checks = 0 }},
		{"zero_strip_size", func(c *swarmConfig) { c.StripSize = 0 }},
		{"no_strips", func(c *swarmConfig) { c.Strips = 0 }},
		{"unknown_arena", func(c *swarmConfig) { c.Arena = "nope" }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := base
			tt.modify(&cfg)
			_, err := runSwarm(context.Background(), cfg)
			assert.Error(t, err)
		})
	}
}

func TestRunSwarmCanceled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	// more workers than strips, some of them have to wait and see the canceled ctx
	_, err := runSwarm(ctx, swarmConfig{
		StripSize: 32, Strips: 1, Workers: 16, Iterations: 1000, Checks: 1, Timeout: time.Second,
	})
	assert.ErrorIs(t, err, context.Canceled)
}

func TestRunBench(t *testing.T) {
	if testing.Short() {
		t.Skip("benchmarks are slow")
	}
	results, err := runBench(benchScenarios[:2])
	require.NoError(t, err)
	require.Len(t, results, 2)
	for _, r := range results {
		assert.Greater(t, r.N, 0)
		// the pool is reused, nothing is allocated per op
		assert.Equal(t, int64(0), r.AllocsPerOp, "scenario=%s", r.Name)
	}
}

func TestSwarmCommandJSON(t *testing.T) {
	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetErr(&bytes.Buffer{})
	rootCmd.SetArgs([]string{"swarm", "--json", "--workers", "4", "--iterations", "50", "--strips", "2"})
	defer rootCmd.SetArgs(nil)
	require.NoError(t, rootCmd.Execute())

	var res swarmResult
	require.NoError(t, json.Unmarshal(out.Bytes(), &res))
	assert.Equal(t, 4, res.Workers)
	assert.Equal(t, int64(4*50), res.Acquired)
	assert.Equal(t, int64(0), res.Overlaps)
}
