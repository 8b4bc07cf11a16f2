package main

import (
	"fmt"
	"testing"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/cloudwego/stripool/unsafex/arena"
	"github.com/cloudwego/stripool/unsafex/stripool"
)

type benchResult struct {
	Name        string `json:"name"`
	N           int    `json:"n"`
	NsPerOp     int64  `json:"ns_per_op"`
	AllocsPerOp int64  `json:"allocs_per_op"`
}

type benchScenario struct {
	name string
	run  func(p *stripool.Pool)
}

// every op starts from a pristine pool, the pool is reset after each op
var benchScenarios = []benchScenario{
	{"acquire", func(p *stripool.Pool) {
		_ = p.Acquire(32)
	}},
	{"acquire-release", func(p *stripool.Pool) {
		p.Release(p.Acquire(32))
	}},
	{"acquire all", func(p *stripool.Pool) {
		for i := 0; i < 4; i++ {
			_ = p.Acquire(32)
		}
	}},
	{"acquire-release all", func(p *stripool.Pool) {
		var bb [4][]byte
		for i := range bb {
			bb[i] = p.Acquire(32)
		}
		for i := range bb {
			p.Release(bb[i])
		}
	}},
	{"multiple acquire", func(p *stripool.Pool) {
		for i := 0; i < 8; i++ {
			_ = p.Acquire(8)
		}
	}},
	{"multiple acquire-release", func(p *stripool.Pool) {
		var bb [8][]byte
		for i := range bb {
			bb[i] = p.Acquire(8)
		}
		for i := range bb {
			if bb[i] != nil {
				p.Release(bb[i])
			}
		}
	}},
}

func init() {
	rootCmd.AddCommand(newBenchCmd())
}

func newBenchCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "bench",
		Short: "Run micro benchmarks of a 4 strips pool",
		Long: `The bench command runs acquire and release scenarios against one pool
of 4 strips. The pool is created once per scenario and reset to pristine
after every op, the reset (a store per strip) is included in NS/OP.`,
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			results, err := runBench(benchScenarios)
			if err != nil {
				return err
			}
			if jsonOut {
				return printJSON(cmd.OutOrStdout(), results)
			}
			w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
			fmt.Fprintln(w, "SCENARIO\tN\tNS/OP\tALLOCS/OP")
			for _, r := range results {
				fmt.Fprintf(w, "%s\t%d\t%d\t%d\n", r.Name, r.N, r.NsPerOp, r.AllocsPerOp)
			}
			return w.Flush()
		},
	}
}

func runBench(scenarios []benchScenario) ([]benchResult, error) {
	const stripSize, stripCount = 32, 4
	raw := stripool.RawStripSize(stripSize)
	buf, err := arena.Heap{}.Alloc(stripool.BufferSize(stripSize, stripCount))
	if err != nil {
		return nil, err
	}
	results := make([]benchResult, 0, len(scenarios))
	for _, s := range scenarios {
		p, err := stripool.New(raw, stripCount, buf)
		if err != nil {
			return nil, err
		}
		r := testing.Benchmark(func(b *testing.B) {
			b.ReportAllocs()
			for i := 0; i < b.N; i++ {
				s.run(p)
				p.Reset()
			}
		})
		logger.Debug("bench done", "scenario", s.name, "n", r.N)
		results = append(results, benchResult{
			Name:        s.name,
			N:           r.N,
			NsPerOp:     r.NsPerOp(),
			AllocsPerOp: r.AllocsPerOp(),
		})
	}
	return results, nil
}
